package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

const sessionColumns = `id, coachee_id, fecha, notas, COALESCE(pagado, 0), COALESCE(monto, 0)`

// AddSession stores a new session. A zero Date means now.
func (s *Store) AddSession(sess Session) (int64, error) {
	sess.Notes = strings.TrimSpace(sess.Notes)
	if err := sess.Validate(); err != nil {
		return 0, err
	}
	if sess.Date.IsZero() {
		sess.Date = time.Now()
	}
	amount := sess.Amount
	if !sess.Paid {
		amount = 0
	}

	res, err := s.db.Exec(
		`INSERT INTO sessions (coachee_id, fecha, notas, pagado, monto) VALUES (?, ?, ?, ?, ?)`,
		sess.CoacheeID, formatTime(sess.Date), sess.Notes, boolInt(sess.Paid), amount,
	)
	if err != nil {
		return 0, storageErr("insert session", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, storageErr("insert session", err)
	}
	return id, nil
}

func (s *Store) GetSession(id int64) (Session, error) {
	row := s.db.QueryRow(`SELECT `+sessionColumns+` FROM sessions WHERE id = ?`, id)
	sess, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Session{}, fmt.Errorf("session %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return Session{}, storageErr("get session", err)
	}
	return sess, nil
}

// GetSessionsByCoachee returns the coachee's sessions, newest first.
func (s *Store) GetSessionsByCoachee(coacheeID int64) ([]Session, error) {
	rows, err := s.db.Query(
		`SELECT `+sessionColumns+` FROM sessions WHERE coachee_id = ? ORDER BY fecha DESC, id DESC`,
		coacheeID,
	)
	if err != nil {
		return nil, storageErr("list sessions", err)
	}
	return collectSessions(rows)
}

// GetSessionsByDateRange returns sessions with from <= fecha <= to in
// chronological order. A coacheeID of 0 selects every coachee.
func (s *Store) GetSessionsByDateRange(coacheeID int64, from, to time.Time) ([]Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE fecha >= ? AND fecha <= ?`
	args := []any{formatTime(from), formatTime(to)}
	if coacheeID > 0 {
		query += ` AND coachee_id = ?`
		args = append(args, coacheeID)
	}
	query += ` ORDER BY fecha ASC, id ASC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, storageErr("list sessions by date", err)
	}
	return collectSessions(rows)
}

func (s *Store) GetUnpaidSessionsByCoachee(coacheeID int64) ([]Session, error) {
	rows, err := s.db.Query(
		`SELECT `+sessionColumns+` FROM sessions
		 WHERE coachee_id = ? AND COALESCE(pagado, 0) = 0
		 ORDER BY fecha DESC, id DESC`,
		coacheeID,
	)
	if err != nil {
		return nil, storageErr("list unpaid sessions", err)
	}
	return collectSessions(rows)
}

// UpdateSessionPayment sets the payment state. Marking a session unpaid
// always clears its amount.
func (s *Store) UpdateSessionPayment(id int64, paid bool, amount float64) error {
	if err := validPayment(paid, amount); err != nil {
		return err
	}
	if !paid {
		amount = 0
	}
	res, err := s.db.Exec(`UPDATE sessions SET pagado = ?, monto = ? WHERE id = ?`, boolInt(paid), amount, id)
	if err != nil {
		return storageErr("update session payment", err)
	}
	return affectedOne(res, fmt.Sprintf("session %d", id))
}

func scanSession(sc scanner) (Session, error) {
	var (
		sess  Session
		fecha string
		paid  int
	)
	if err := sc.Scan(&sess.ID, &sess.CoacheeID, &fecha, &sess.Notes, &paid, &sess.Amount); err != nil {
		return Session{}, err
	}
	t, err := parseTime(fecha)
	if err != nil {
		return Session{}, err
	}
	sess.Date = t
	sess.Paid = paid != 0
	return sess, nil
}

func collectSessions(rows *sql.Rows) ([]Session, error) {
	defer rows.Close()
	var out []Session
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, storageErr("scan session", err)
		}
		out = append(out, sess)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterate sessions", err)
	}
	return out, nil
}
