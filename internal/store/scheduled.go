package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

const scheduledColumns = `id, coachee_id, scheduled_time, COALESCE(title, ''), COALESCE(notes, ''),
	COALESCE(duration, 60), COALESCE(notify_enabled, 1), COALESCE(notify_time, ''),
	COALESCE(status, 'scheduled'), COALESCE(notified, 0)`

// AddScheduledSession stores a planned session. Empty title, duration and
// status fall back to their defaults; the latch always starts cleared.
func (s *Store) AddScheduledSession(ss ScheduledSession) (int64, error) {
	if err := ss.Validate(); err != nil {
		return 0, err
	}
	if strings.TrimSpace(ss.Title) == "" {
		ss.Title = DefaultTitle
	}
	if ss.Duration == 0 {
		ss.Duration = DefaultDuration
	}
	if ss.Status == "" {
		ss.Status = StatusScheduled
	}

	res, err := s.db.Exec(
		`INSERT INTO scheduled_sessions
		   (coachee_id, scheduled_time, title, notes, duration, notify_enabled, notify_time, status, notified)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, 0)`,
		ss.CoacheeID, formatTime(ss.ScheduledAt), strings.TrimSpace(ss.Title), strings.TrimSpace(ss.Notes),
		ss.Duration, boolInt(ss.NotifyEnabled), nullString(ss.NotifyTime), string(ss.Status),
	)
	if err != nil {
		return 0, storageErr("insert scheduled session", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, storageErr("insert scheduled session", err)
	}
	return id, nil
}

func (s *Store) GetScheduledSession(id int64) (ScheduledSession, error) {
	row := s.db.QueryRow(`SELECT `+scheduledColumns+` FROM scheduled_sessions WHERE id = ?`, id)
	ss, err := scanScheduled(row)
	if errors.Is(err, sql.ErrNoRows) {
		return ScheduledSession{}, fmt.Errorf("scheduled session %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return ScheduledSession{}, storageErr("get scheduled session", err)
	}
	return ss, nil
}

func (s *Store) ListScheduledSessions() ([]ScheduledSession, error) {
	return s.queryScheduled("list scheduled sessions",
		`SELECT `+scheduledColumns+` FROM scheduled_sessions ORDER BY scheduled_time ASC, id ASC`)
}

func (s *Store) ListScheduledByStatus(status ScheduledStatus) ([]ScheduledSession, error) {
	if !status.Valid() {
		return nil, invalid("status", fmt.Sprintf("unknown status %q", status))
	}
	return s.queryScheduled("list scheduled by status",
		`SELECT `+scheduledColumns+` FROM scheduled_sessions
		 WHERE COALESCE(status, 'scheduled') = ? ORDER BY scheduled_time ASC, id ASC`,
		string(status))
}

// ListScheduledByDate returns the sessions planned on the calendar day of day.
func (s *Store) ListScheduledByDate(day time.Time) ([]ScheduledSession, error) {
	return s.queryScheduled("list scheduled by date",
		`SELECT `+scheduledColumns+` FROM scheduled_sessions
		 WHERE substr(scheduled_time, 1, 10) = ? ORDER BY scheduled_time ASC, id ASC`,
		day.In(time.Local).Format(DateLayout))
}

func (s *Store) ListScheduledByCoachee(coacheeID int64) ([]ScheduledSession, error) {
	return s.queryScheduled("list scheduled by coachee",
		`SELECT `+scheduledColumns+` FROM scheduled_sessions
		 WHERE coachee_id = ? ORDER BY scheduled_time DESC, id DESC`,
		coacheeID)
}

// ListUpcoming returns up to limit scheduled sessions strictly after now.
func (s *Store) ListUpcoming(now time.Time, limit int) ([]ScheduledSession, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.queryScheduled("list upcoming",
		`SELECT `+scheduledColumns+` FROM scheduled_sessions
		 WHERE COALESCE(status, 'scheduled') = 'scheduled' AND scheduled_time > ?
		 ORDER BY scheduled_time ASC, id ASC LIMIT ?`,
		formatTime(now), limit)
}

func (s *Store) UpdateScheduledStatus(id int64, status ScheduledStatus) error {
	if !status.Valid() {
		return invalid("status", fmt.Sprintf("unknown status %q", status))
	}
	res, err := s.db.Exec(`UPDATE scheduled_sessions SET status = ? WHERE id = ?`, string(status), id)
	if err != nil {
		return storageErr("update scheduled status", err)
	}
	return affectedOne(res, fmt.Sprintf("scheduled session %d", id))
}

// MarkNotified sets the reminder latch. It reports false when the row is
// already notified, no longer scheduled, or gone.
func (s *Store) MarkNotified(id int64) (bool, error) {
	res, err := s.db.Exec(
		`UPDATE scheduled_sessions SET notified = 1
		 WHERE id = ? AND COALESCE(status, 'scheduled') = 'scheduled' AND COALESCE(notified, 0) = 0`,
		id,
	)
	if err != nil {
		return false, storageErr("mark notified", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, storageErr("mark notified", err)
	}
	return n == 1, nil
}

func (s *Store) DeleteScheduledSession(id int64) error {
	res, err := s.db.Exec(`DELETE FROM scheduled_sessions WHERE id = ?`, id)
	if err != nil {
		return storageErr("delete scheduled session", err)
	}
	return affectedOne(res, fmt.Sprintf("scheduled session %d", id))
}

func (s *Store) queryScheduled(op, query string, args ...any) ([]ScheduledSession, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, storageErr(op, err)
	}
	defer rows.Close()

	var out []ScheduledSession
	for rows.Next() {
		ss, err := scanScheduled(rows)
		if err != nil {
			return nil, storageErr(op, err)
		}
		out = append(out, ss)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr(op, err)
	}
	return out, nil
}

func scanScheduled(sc scanner) (ScheduledSession, error) {
	var (
		ss       ScheduledSession
		when     string
		notify   int
		status   string
		notified int
	)
	if err := sc.Scan(&ss.ID, &ss.CoacheeID, &when, &ss.Title, &ss.Notes,
		&ss.Duration, &notify, &ss.NotifyTime, &status, &notified); err != nil {
		return ScheduledSession{}, err
	}
	t, err := parseTime(when)
	if err != nil {
		return ScheduledSession{}, err
	}
	ss.ScheduledAt = t
	ss.NotifyEnabled = notify != 0
	ss.Status = ScheduledStatus(status)
	ss.Notified = notified != 0
	return ss, nil
}
