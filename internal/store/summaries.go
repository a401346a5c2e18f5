package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

const summaryColumns = `id, coachee_id, COALESCE(title, ''), summary_type, content, COALESCE(session_ids, ''),
	date_from, date_to, created_at, COALESCE(ai_provider, '')`

// AddSummary persists a generated summary. A zero CreatedAt means now.
func (s *Store) AddSummary(sum Summary) (int64, error) {
	if err := sum.Validate(); err != nil {
		return 0, err
	}
	if sum.CreatedAt.IsZero() {
		sum.CreatedAt = time.Now()
	}

	res, err := s.db.Exec(
		`INSERT INTO summaries
		   (coachee_id, title, summary_type, content, session_ids, date_from, date_to, created_at, ai_provider)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sum.CoacheeID, strings.TrimSpace(sum.Title), sum.Type, sum.Content, nullString(sum.SessionIDs),
		dateOrNull(sum.DateFrom), dateOrNull(sum.DateTo), formatTime(sum.CreatedAt), nullString(sum.AIProvider),
	)
	if err != nil {
		return 0, storageErr("insert summary", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, storageErr("insert summary", err)
	}
	return id, nil
}

func (s *Store) GetSummary(id int64) (Summary, error) {
	row := s.db.QueryRow(`SELECT `+summaryColumns+` FROM summaries WHERE id = ?`, id)
	sum, err := scanSummary(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Summary{}, fmt.Errorf("summary %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return Summary{}, storageErr("get summary", err)
	}
	return sum, nil
}

// ListSummaries returns saved summaries, newest first. Zero filter fields
// match everything.
func (s *Store) ListSummaries(f SummaryFilter) ([]Summary, error) {
	var (
		where []string
		args  []any
	)
	if f.CoacheeID > 0 {
		where = append(where, "coachee_id = ?")
		args = append(args, f.CoacheeID)
	}
	if f.Type != "" {
		where = append(where, "summary_type = ?")
		args = append(args, f.Type)
	}

	query := `SELECT ` + summaryColumns + ` FROM summaries`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, storageErr("list summaries", err)
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		sum, err := scanSummary(rows)
		if err != nil {
			return nil, storageErr("scan summary", err)
		}
		out = append(out, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterate summaries", err)
	}
	return out, nil
}

func (s *Store) DeleteSummary(id int64) error {
	res, err := s.db.Exec(`DELETE FROM summaries WHERE id = ?`, id)
	if err != nil {
		return storageErr("delete summary", err)
	}
	return affectedOne(res, fmt.Sprintf("summary %d", id))
}

func dateOrNull(t time.Time) sql.NullString {
	if t.IsZero() {
		return sql.NullString{}
	}
	return sql.NullString{String: t.In(time.Local).Format(DateLayout), Valid: true}
}

func scanSummary(sc scanner) (Summary, error) {
	var (
		sum      Summary
		from, to sql.NullString
		created  string
	)
	if err := sc.Scan(&sum.ID, &sum.CoacheeID, &sum.Title, &sum.Type, &sum.Content, &sum.SessionIDs,
		&from, &to, &created, &sum.AIProvider); err != nil {
		return Summary{}, err
	}
	var err error
	if sum.DateFrom, err = parseNullTime(from); err != nil {
		return Summary{}, err
	}
	if sum.DateTo, err = parseNullTime(to); err != nil {
		return Summary{}, err
	}
	if sum.CreatedAt, err = parseTime(created); err != nil {
		return Summary{}, err
	}
	return sum, nil
}
