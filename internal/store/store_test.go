package store

import (
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "onto-ai.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func mustCoachee(t *testing.T, s *Store, first, last string) int64 {
	t.Helper()
	id, err := s.AddCoachee(Coachee{FirstName: first, LastName: last, Phone: "600000000"})
	if err != nil {
		t.Fatalf("AddCoachee(%s %s): %v", first, last, err)
	}
	return id
}

func day(y int, m time.Month, d, h, min, sec int) time.Time {
	return time.Date(y, m, d, h, min, sec, 0, time.Local)
}

func TestListCoacheesOrderedByLastThenFirstName(t *testing.T) {
	s := newTestStore(t)
	mustCoachee(t, s, "Luis", "Ruiz")
	mustCoachee(t, s, "Ana", "Ruiz")
	mustCoachee(t, s, "Zoe", "Alvarez")

	got, err := s.ListCoachees()
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"Zoe Alvarez", "Ana Ruiz", "Luis Ruiz"}
	if len(got) != len(want) {
		t.Fatalf("got %d coachees, want %d", len(got), len(want))
	}
	for i, c := range got {
		if c.FullName() != want[i] {
			t.Errorf("position %d: got %q, want %q", i, c.FullName(), want[i])
		}
	}
}

func TestSearchCoachees(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.AddCoachee(Coachee{FirstName: "Ana", LastName: "Ruiz", Email: "ana@example.com", Phone: "611"}); err != nil {
		t.Fatal(err)
	}
	mustCoachee(t, s, "Pedro", "Gómez")
	mustCoachee(t, s, "Álvaro", "Núñez")
	if _, err := s.AddCoachee(Coachee{FirstName: "Marta", LastName: "100%_Real", Phone: "622"}); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		term string
		want int
	}{
		{"ANA", 1},
		{"example.com", 1},
		{"ed", 1},
		{"%", 1},
		{"_", 1},
		{"611", 1},
		{"nobody", 0},
		{"ÁLVARO", 1},
		{"NÚÑEZ", 1},
		{"gÓmez", 1},
		{"", 4},
	}
	for _, tt := range tests {
		got, err := s.SearchCoachees(tt.term)
		if err != nil {
			t.Fatalf("SearchCoachees(%q): %v", tt.term, err)
		}
		if len(got) != tt.want {
			t.Errorf("SearchCoachees(%q) = %d rows, want %d", tt.term, len(got), tt.want)
		}
	}
}

func TestAddCoacheeValidation(t *testing.T) {
	s := newTestStore(t)
	cases := []Coachee{
		{LastName: "Ruiz", Phone: "1"},
		{FirstName: "Ana", Phone: "1"},
		{FirstName: "Ana", LastName: "Ruiz"},
		{FirstName: "Ana", LastName: "Ruiz", Phone: "1", Email: "not-an-email"},
	}
	for _, c := range cases {
		_, err := s.AddCoachee(c)
		if !errors.Is(err, ErrInvalidInput) {
			t.Errorf("AddCoachee(%+v) err = %v, want ErrInvalidInput", c, err)
		}
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Errorf("AddCoachee(%+v) err is not a *ValidationError", c)
		}
	}

	all, err := s.ListCoachees()
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 0 {
		t.Errorf("invalid coachees were stored: %v", all)
	}
}

func TestGetCoacheeNotFound(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.GetCoachee(42); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestSessionsByCoacheeNewestFirst(t *testing.T) {
	s := newTestStore(t)
	id := mustCoachee(t, s, "Ana", "Ruiz")
	for _, d := range []time.Time{day(2024, 1, 10, 9, 0, 0), day(2024, 3, 5, 9, 0, 0), day(2024, 2, 1, 9, 0, 0)} {
		if _, err := s.AddSession(Session{CoacheeID: id, Date: d, Notes: "notes"}); err != nil {
			t.Fatal(err)
		}
	}

	got, err := s.GetSessionsByCoachee(id)
	if err != nil {
		t.Fatal(err)
	}
	for i := 1; i < len(got); i++ {
		if got[i].Date.After(got[i-1].Date) {
			t.Fatalf("sessions not descending: %v before %v", got[i-1].Date, got[i].Date)
		}
	}
}

func TestAddSessionRequiresNotes(t *testing.T) {
	s := newTestStore(t)
	id := mustCoachee(t, s, "Ana", "Ruiz")
	if _, err := s.AddSession(Session{CoacheeID: id, Notes: "   "}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("err = %v, want ErrInvalidInput", err)
	}
}

func TestNegativePaidAmountRejected(t *testing.T) {
	s := newTestStore(t)
	id := mustCoachee(t, s, "Ana", "Ruiz")

	if _, err := s.AddSession(Session{CoacheeID: id, Notes: "n", Paid: true, Amount: -50}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("AddSession err = %v, want ErrInvalidInput", err)
	}
	sid, err := s.AddSession(Session{CoacheeID: id, Notes: "n", Amount: -50})
	if err != nil {
		t.Fatalf("unpaid session with stray amount: %v", err)
	}
	if err := s.UpdateSessionPayment(sid, true, -50); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("UpdateSessionPayment err = %v, want ErrInvalidInput", err)
	}

	sum, err := s.GetPaymentSummaryByCoachee(id)
	if err != nil {
		t.Fatal(err)
	}
	if sum.TotalSessions != 1 || sum.TotalPaid != 0 || sum.TotalPending != 0 {
		t.Errorf("summary = %+v, want one unpaid session and no money", sum)
	}
}

func TestSessionsByDateRangeInclusive(t *testing.T) {
	s := newTestStore(t)
	ana := mustCoachee(t, s, "Ana", "Ruiz")
	luis := mustCoachee(t, s, "Luis", "Ruiz")
	s.AddSession(Session{CoacheeID: ana, Date: day(2024, 1, 31, 23, 0, 0), Notes: "before"})
	s.AddSession(Session{CoacheeID: ana, Date: day(2024, 2, 29, 18, 0, 0), Notes: "last day"})
	s.AddSession(Session{CoacheeID: ana, Date: day(2024, 2, 1, 0, 0, 0), Notes: "first day"})
	s.AddSession(Session{CoacheeID: luis, Date: day(2024, 2, 10, 12, 0, 0), Notes: "other"})

	from, to := day(2024, 2, 1, 0, 0, 0), day(2024, 2, 29, 23, 59, 59)
	got, err := s.GetSessionsByDateRange(ana, from, to)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].Notes != "first day" || got[1].Notes != "last day" {
		t.Errorf("unexpected sessions: %+v", got)
	}

	all, err := s.GetSessionsByDateRange(0, from, to)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Errorf("all coachees: got %d sessions, want 3", len(all))
	}
}

func TestPaymentSummaryScenario(t *testing.T) {
	s := newTestStore(t)
	ana := mustCoachee(t, s, "Ana", "Ruiz")

	if _, err := s.AddSession(Session{CoacheeID: ana, Date: day(2024, 1, 10, 10, 0, 0), Notes: "kickoff"}); err != nil {
		t.Fatal(err)
	}
	review, err := s.AddSession(Session{CoacheeID: ana, Date: day(2024, 2, 1, 10, 0, 0), Notes: "review"})
	if err != nil {
		t.Fatal(err)
	}
	if err := s.UpdateSessionPayment(review, true, 50.00); err != nil {
		t.Fatal(err)
	}

	got, err := s.GetPaymentSummaryByCoachee(ana)
	if err != nil {
		t.Fatal(err)
	}
	want := PaymentSummary{TotalSessions: 2, PaidSessions: 1, UnpaidSessions: 1, TotalPaid: 50, TotalPending: 0}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}

	unpaid, err := s.GetUnpaidSessionsByCoachee(ana)
	if err != nil {
		t.Fatal(err)
	}
	if len(unpaid) != 1 || unpaid[0].Notes != "kickoff" {
		t.Errorf("unpaid = %+v", unpaid)
	}
}

func TestPaymentSummaryEmptyCoachee(t *testing.T) {
	s := newTestStore(t)
	id := mustCoachee(t, s, "Ana", "Ruiz")
	got, err := s.GetPaymentSummaryByCoachee(id)
	if err != nil {
		t.Fatal(err)
	}
	if got != (PaymentSummary{}) {
		t.Errorf("got %+v, want zeros", got)
	}
}

func TestMarkUnpaidResetsAmount(t *testing.T) {
	s := newTestStore(t)
	id := mustCoachee(t, s, "Ana", "Ruiz")
	sid, _ := s.AddSession(Session{CoacheeID: id, Notes: "n"})
	if err := s.UpdateSessionPayment(sid, true, 80); err != nil {
		t.Fatal(err)
	}
	if err := s.UpdateSessionPayment(sid, false, 80); err != nil {
		t.Fatal(err)
	}
	sess, err := s.GetSession(sid)
	if err != nil {
		t.Fatal(err)
	}
	if sess.Paid || sess.Amount != 0 {
		t.Errorf("got paid=%v amount=%v, want unpaid with 0", sess.Paid, sess.Amount)
	}
	if err := s.UpdateSessionPayment(999, true, 1); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing session err = %v, want ErrNotFound", err)
	}
}

func TestListPaymentSummariesSkipsOrphans(t *testing.T) {
	s := newTestStore(t)
	ana := mustCoachee(t, s, "Ana", "Ruiz")
	mustCoachee(t, s, "Bea", "Alonso")
	sid, _ := s.AddSession(Session{CoacheeID: ana, Notes: "n"})
	s.UpdateSessionPayment(sid, true, 40)

	if _, err := s.db.Exec(`PRAGMA foreign_keys = OFF`); err != nil {
		t.Fatal(err)
	}
	if _, err := s.db.Exec(`INSERT INTO sessions (coachee_id, fecha, notas, pagado, monto) VALUES (999, '2024-01-01 10:00:00', 'orphan', 1, 500)`); err != nil {
		t.Fatal(err)
	}

	got, err := s.ListPaymentSummaries()
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d rows, want 2", len(got))
	}
	if got[0].Coachee.LastName != "Alonso" || got[0].Summary.TotalSessions != 0 {
		t.Errorf("first row = %+v", got[0])
	}
	var total PaymentSummary
	for _, cp := range got {
		total.Add(cp.Summary)
	}
	if total.TotalPaid != 40 || total.TotalSessions != 1 {
		t.Errorf("totals = %+v, orphan counted?", total)
	}
}

func TestScheduledSessionDefaultsAndLatch(t *testing.T) {
	s := newTestStore(t)
	id := mustCoachee(t, s, "Ana", "Ruiz")
	when := day(2024, 3, 1, 10, 0, 0)

	sid, err := s.AddScheduledSession(ScheduledSession{CoacheeID: id, ScheduledAt: when, NotifyEnabled: true, NotifyTime: "30 minutos antes"})
	if err != nil {
		t.Fatal(err)
	}
	ss, err := s.GetScheduledSession(sid)
	if err != nil {
		t.Fatal(err)
	}
	if ss.Title != DefaultTitle || ss.Duration != DefaultDuration || ss.Status != StatusScheduled || ss.Notified {
		t.Errorf("defaults not applied: %+v", ss)
	}
	if !ss.ScheduledAt.Equal(when) {
		t.Errorf("ScheduledAt = %v, want %v", ss.ScheduledAt, when)
	}

	flipped, err := s.MarkNotified(sid)
	if err != nil || !flipped {
		t.Fatalf("first MarkNotified = %v, %v", flipped, err)
	}
	flipped, err = s.MarkNotified(sid)
	if err != nil || flipped {
		t.Fatalf("second MarkNotified = %v, %v; want false", flipped, err)
	}

	other, _ := s.AddScheduledSession(ScheduledSession{CoacheeID: id, ScheduledAt: when, NotifyEnabled: true})
	if err := s.UpdateScheduledStatus(other, StatusCancelled); err != nil {
		t.Fatal(err)
	}
	if flipped, _ := s.MarkNotified(other); flipped {
		t.Error("latch flipped on a cancelled session")
	}
}

func TestScheduledStatusValidation(t *testing.T) {
	s := newTestStore(t)
	id := mustCoachee(t, s, "Ana", "Ruiz")
	if _, err := s.AddScheduledSession(ScheduledSession{CoacheeID: id, ScheduledAt: time.Now(), Status: "pending"}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("bad status err = %v", err)
	}
	sid, _ := s.AddScheduledSession(ScheduledSession{CoacheeID: id, ScheduledAt: time.Now()})
	if err := s.UpdateScheduledStatus(sid, "done"); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("bad update err = %v", err)
	}
	if err := s.DeleteScheduledSession(sid); err != nil {
		t.Fatal(err)
	}
	if _, err := s.GetScheduledSession(sid); !errors.Is(err, ErrNotFound) {
		t.Errorf("after delete err = %v, want ErrNotFound", err)
	}
}

func TestScheduledListings(t *testing.T) {
	s := newTestStore(t)
	id := mustCoachee(t, s, "Ana", "Ruiz")
	times := []time.Time{day(2024, 3, 2, 9, 0, 0), day(2024, 3, 1, 16, 0, 0), day(2024, 3, 1, 10, 0, 0)}
	var ids []int64
	for _, when := range times {
		sid, err := s.AddScheduledSession(ScheduledSession{CoacheeID: id, ScheduledAt: when})
		if err != nil {
			t.Fatal(err)
		}
		ids = append(ids, sid)
	}
	s.UpdateScheduledStatus(ids[1], StatusCompleted)

	onDay, err := s.ListScheduledByDate(day(2024, 3, 1, 0, 0, 0))
	if err != nil {
		t.Fatal(err)
	}
	if len(onDay) != 2 || onDay[0].ID != ids[2] {
		t.Errorf("ListScheduledByDate = %+v", onDay)
	}

	pending, _ := s.ListScheduledByStatus(StatusScheduled)
	if len(pending) != 2 {
		t.Errorf("ListScheduledByStatus = %d rows, want 2", len(pending))
	}

	upcoming, _ := s.ListUpcoming(day(2024, 3, 1, 12, 0, 0), 5)
	if len(upcoming) != 1 || upcoming[0].ID != ids[0] {
		t.Errorf("ListUpcoming = %+v", upcoming)
	}

	byCoachee, _ := s.ListScheduledByCoachee(id)
	if len(byCoachee) != 3 || byCoachee[0].ID != ids[0] {
		t.Errorf("ListScheduledByCoachee not descending: %+v", byCoachee)
	}
}

func TestSummariesFilterAndOrder(t *testing.T) {
	s := newTestStore(t)
	ana := mustCoachee(t, s, "Ana", "Ruiz")
	luis := mustCoachee(t, s, "Luis", "Ruiz")
	add := func(coachee int64, typ string, created time.Time) int64 {
		id, err := s.AddSummary(Summary{
			CoacheeID: coachee, Type: typ, Content: "texto", Title: typ,
			DateFrom: day(2024, 1, 1, 0, 0, 0), DateTo: day(2024, 1, 31, 0, 0, 0),
			CreatedAt: created, AIProvider: "OpenAI",
		})
		if err != nil {
			t.Fatal(err)
		}
		return id
	}
	old := add(ana, "Resumen General", day(2024, 2, 1, 10, 0, 0))
	newest := add(ana, "Recomendaciones", day(2024, 2, 3, 10, 0, 0))
	add(luis, "Resumen General", day(2024, 2, 2, 10, 0, 0))

	got, err := s.ListSummaries(SummaryFilter{CoacheeID: ana})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].ID != newest || got[1].ID != old {
		t.Errorf("ListSummaries(ana) = %+v", got)
	}

	general, _ := s.ListSummaries(SummaryFilter{Type: "Resumen General"})
	if len(general) != 2 {
		t.Errorf("type filter = %d rows, want 2", len(general))
	}

	sum, err := s.GetSummary(old)
	if err != nil {
		t.Fatal(err)
	}
	if sum.DateFrom.Format(DateLayout) != "2024-01-01" || sum.AIProvider != "OpenAI" {
		t.Errorf("GetSummary = %+v", sum)
	}

	if err := s.DeleteSummary(old); err != nil {
		t.Fatal(err)
	}
	if err := s.DeleteSummary(old); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete err = %v", err)
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	s := newTestStore(t)

	if th, _ := s.Theme(); th != ThemeLight {
		t.Errorf("default theme = %q", th)
	}
	if p, _ := s.AIProvider(); p != DefaultAIProvider {
		t.Errorf("default provider = %q", p)
	}
	if price, _ := s.SessionPrice(); price != 0 {
		t.Errorf("default price = %v", price)
	}

	s.SetTheme(ThemeDark)
	s.SetSessionPrice(60.5)
	s.SetAIProvider("GroqCloud")
	s.SetProviderConfig("GroqCloud", ProviderConfig{APIKey: "k", Model: "llama"})

	if th, _ := s.Theme(); th != ThemeDark {
		t.Errorf("theme = %q", th)
	}
	if price, _ := s.SessionPrice(); price != 60.5 {
		t.Errorf("price = %v", price)
	}
	if p, _ := s.AIProvider(); p != "GroqCloud" {
		t.Errorf("provider = %q", p)
	}
	cfg, ok, err := s.ProviderConfig("GroqCloud")
	if err != nil || !ok || cfg.APIKey != "k" || cfg.Model != "llama" {
		t.Errorf("ProviderConfig = %+v, %v, %v", cfg, ok, err)
	}
	if _, ok, _ := s.ProviderConfig("Gemini"); ok {
		t.Error("unset provider config reported as present")
	}

	// non-JSON text falls back to the raw string
	s.SaveSetting("note", "plain {text")
	v, ok, _ := s.GetSetting("note")
	if !ok || v != "plain {text" {
		t.Errorf("GetSetting(note) = %v, %v", v, ok)
	}
	s.SaveSetting("count", 3)
	v, _, _ = s.GetSetting("count")
	if v != float64(3) {
		t.Errorf("GetSetting(count) = %#v", v)
	}
}

func TestOpenAdoptsLegacyDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "legacy.db")
	raw, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatal(err)
	}
	_, err = raw.Exec(`
		CREATE TABLE coachees (id INTEGER PRIMARY KEY AUTOINCREMENT, nombre TEXT NOT NULL, apellido TEXT NOT NULL, email TEXT, telefono TEXT NOT NULL);
		CREATE TABLE sessions (id INTEGER PRIMARY KEY AUTOINCREMENT, coachee_id INTEGER NOT NULL, fecha TEXT NOT NULL, notas TEXT NOT NULL);
		CREATE TABLE settings (key TEXT PRIMARY KEY, value TEXT);
		INSERT INTO coachees (nombre, apellido, telefono) VALUES ('Ana', 'Ruiz', '600');
		INSERT INTO sessions (coachee_id, fecha, notas) VALUES (1, '2023-05-04 10:00:00', 'legacy');
	`)
	if err != nil {
		t.Fatal(err)
	}
	raw.Close()

	for i := 0; i < 2; i++ {
		s, err := Open(path)
		if err != nil {
			t.Fatalf("Open #%d: %v", i+1, err)
		}
		sessions, err := s.GetSessionsByCoachee(1)
		if err != nil {
			t.Fatal(err)
		}
		if len(sessions) != 1 || sessions[0].Notes != "legacy" || sessions[0].Paid || sessions[0].Amount != 0 {
			t.Errorf("legacy session = %+v", sessions)
		}
		s.Close()
	}
}
