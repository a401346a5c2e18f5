package schedule

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"ontoai/internal/store"
)

type recordingNotifier struct {
	got []Reminder
	err error
}

func (r *recordingNotifier) Notify(_ context.Context, rem Reminder) error {
	r.got = append(r.got, rem)
	return r.err
}

func openStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "onto-ai.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func at(h, m, s int) time.Time {
	return time.Date(2024, 3, 1, h, m, s, 0, time.Local)
}

func TestReminderFiresOnceInWindow(t *testing.T) {
	st := openStore(t)
	cid, err := st.AddCoachee(store.Coachee{FirstName: "Ana", LastName: "Ruiz", Phone: "600"})
	if err != nil {
		t.Fatal(err)
	}
	sid, err := st.AddScheduledSession(store.ScheduledSession{
		CoacheeID: cid, ScheduledAt: at(10, 0, 0), Title: "Seguimiento",
		NotifyEnabled: true, NotifyTime: "30 minutos antes",
	})
	if err != nil {
		t.Fatal(err)
	}

	rec := &recordingNotifier{}
	p := NewPoller(st, rec, time.Minute)

	n, err := p.Check(context.Background(), at(9, 30, 30))
	if err != nil || n != 1 {
		t.Fatalf("first check fired %d, err %v", n, err)
	}
	ss, _ := st.GetScheduledSession(sid)
	if !ss.Notified {
		t.Error("latch not set after reminder")
	}

	n, err = p.Check(context.Background(), at(9, 31, 30))
	if err != nil || n != 0 {
		t.Fatalf("second check fired %d, err %v", n, err)
	}
	if len(rec.got) != 1 || rec.got[0].Coachee.FullName() != "Ana Ruiz" {
		t.Errorf("reminders = %+v", rec.got)
	}
}

func TestReminderSkipsIneligibleSessions(t *testing.T) {
	st := openStore(t)
	cid, _ := st.AddCoachee(store.Coachee{FirstName: "Ana", LastName: "Ruiz", Phone: "600"})

	st.AddScheduledSession(store.ScheduledSession{CoacheeID: cid, ScheduledAt: at(10, 0, 0), NotifyEnabled: false, NotifyTime: "30 minutos antes"})
	done, _ := st.AddScheduledSession(store.ScheduledSession{CoacheeID: cid, ScheduledAt: at(10, 0, 0), NotifyEnabled: true, NotifyTime: "30 minutos antes"})
	st.UpdateScheduledStatus(done, store.StatusCompleted)
	// trigger at 09:45, outside the window at 09:30:30
	st.AddScheduledSession(store.ScheduledSession{CoacheeID: cid, ScheduledAt: at(10, 0, 0), NotifyEnabled: true, NotifyTime: "15 minutos antes"})

	rec := &recordingNotifier{}
	n, err := NewPoller(st, rec, time.Minute).Check(context.Background(), at(9, 30, 30))
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 || len(rec.got) != 0 {
		t.Errorf("fired %d reminders, want none", n)
	}
}

func TestDueWindowBoundaries(t *testing.T) {
	ss := store.ScheduledSession{ScheduledAt: at(10, 0, 0), NotifyEnabled: true, NotifyTime: "1 hora antes", Status: store.StatusScheduled}
	tests := []struct {
		now  time.Time
		want bool
	}{
		{at(8, 59, 59), false},
		{at(9, 0, 0), true},
		{at(9, 0, 59), true},
		{at(9, 1, 0), false},
	}
	for _, tt := range tests {
		if got := Due(ss, tt.now); got != tt.want {
			t.Errorf("Due at %s = %v, want %v", tt.now.Format("15:04:05"), got, tt.want)
		}
	}
}

type orphanStore struct {
	sessions []store.ScheduledSession
	marked   []int64
}

func (o *orphanStore) ListScheduledByStatus(store.ScheduledStatus) ([]store.ScheduledSession, error) {
	return o.sessions, nil
}

func (o *orphanStore) GetCoachee(id int64) (store.Coachee, error) {
	return store.Coachee{}, store.ErrNotFound
}

func (o *orphanStore) MarkNotified(id int64) (bool, error) {
	o.marked = append(o.marked, id)
	return true, nil
}

func TestReminderSkipsOrphanedSession(t *testing.T) {
	st := &orphanStore{sessions: []store.ScheduledSession{{
		ID: 7, CoacheeID: 99, ScheduledAt: at(10, 0, 0), NotifyEnabled: true, Status: store.StatusScheduled,
	}}}
	rec := &recordingNotifier{}
	n, err := NewPoller(st, rec, time.Minute).Check(context.Background(), at(9, 30, 0))
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 || len(st.marked) != 0 || len(rec.got) != 0 {
		t.Errorf("orphan handled: fired=%d marked=%v", n, st.marked)
	}
}

func TestNotifierErrorKeepsLatch(t *testing.T) {
	st := openStore(t)
	cid, _ := st.AddCoachee(store.Coachee{FirstName: "Ana", LastName: "Ruiz", Phone: "600"})
	sid, _ := st.AddScheduledSession(store.ScheduledSession{CoacheeID: cid, ScheduledAt: at(10, 0, 0), NotifyEnabled: true, NotifyTime: "5 minutos antes"})

	rec := &recordingNotifier{err: errors.New("sink down")}
	if _, err := NewPoller(st, rec, time.Minute).Check(context.Background(), at(9, 55, 10)); err != nil {
		t.Fatal(err)
	}
	ss, _ := st.GetScheduledSession(sid)
	if !ss.Notified {
		t.Error("latch reset after delivery failure")
	}
}

func TestRunChecksImmediatelyAndStops(t *testing.T) {
	st := openStore(t)
	cid, _ := st.AddCoachee(store.Coachee{FirstName: "Ana", LastName: "Ruiz", Phone: "600"})
	st.AddScheduledSession(store.ScheduledSession{CoacheeID: cid, ScheduledAt: at(10, 0, 0), NotifyEnabled: true})

	rec := &recordingNotifier{}
	p := NewPoller(st, rec, time.Hour)
	p.now = func() time.Time { return at(9, 30, 5) }

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	deadline := time.After(5 * time.Second)
	for {
		ss, _ := st.ListScheduledByStatus(store.StatusScheduled)
		if len(ss) == 1 && ss[0].Notified {
			break
		}
		select {
		case <-deadline:
			t.Fatal("reminder not fired on start")
		case <-time.After(10 * time.Millisecond):
		}
	}
	cancel()
	if err := <-done; err != nil {
		t.Errorf("Run returned %v", err)
	}
}

func TestParseLeadTime(t *testing.T) {
	tests := map[string]string{
		"":                 DefaultLeadLabel,
		"5m":               "5 minutos antes",
		"1h":               "1 hora antes",
		"24h":              "1 día antes",
		"15 minutos antes": "15 minutos antes",
	}
	for in, want := range tests {
		got, err := ParseLeadTime(in)
		if err != nil || got != want {
			t.Errorf("ParseLeadTime(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseLeadTime("2 semanas"); err == nil {
		t.Error("expected error for unknown lead time")
	}
	if LeadTime("whenever") != 30*time.Minute {
		t.Error("unknown label should default to 30 minutes")
	}
	if LeadTime("1 día antes") != 24*time.Hour {
		t.Error("1 día antes should be 24h")
	}
}

func TestConsoleNotifier(t *testing.T) {
	var buf bytes.Buffer
	r := Reminder{
		Session: store.ScheduledSession{Title: "Seguimiento", ScheduledAt: at(10, 0, 0), Duration: 45},
		Coachee: store.Coachee{FirstName: "Ana", LastName: "Ruiz"},
	}
	if err := NewConsoleNotifier(&buf, false).Notify(context.Background(), r); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{ReminderTitle, "Sesión Próxima con Ana Ruiz", "Título: Seguimiento", "Hora: 10:00", "Duración: 45 minutos"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\a") {
		t.Error("bell written while disabled")
	}
}

type fakeSender struct {
	sent []tgbotapi.Chattable
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.sent = append(f.sent, c)
	return tgbotapi.Message{}, nil
}

func TestTelegramAndMultiNotifier(t *testing.T) {
	sender := &fakeSender{}
	tg := &TelegramNotifier{bot: sender, chatID: 42}
	rec := &recordingNotifier{}

	r := Reminder{
		Session: store.ScheduledSession{Title: "Kickoff", ScheduledAt: at(10, 0, 0), Duration: 60},
		Coachee: store.Coachee{FirstName: "Ana", LastName: "Ruiz"},
	}
	if err := (MultiNotifier{tg, rec}).Notify(context.Background(), r); err != nil {
		t.Fatal(err)
	}
	if len(sender.sent) != 1 || len(rec.got) != 1 {
		t.Fatalf("sent=%d recorded=%d", len(sender.sent), len(rec.got))
	}
	msg, ok := sender.sent[0].(tgbotapi.MessageConfig)
	if !ok || msg.ChatID != 42 || !strings.Contains(msg.Text, "Ana Ruiz") {
		t.Errorf("telegram message = %+v", sender.sent[0])
	}
}
