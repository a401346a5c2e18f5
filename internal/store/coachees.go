package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

const coacheeColumns = `id, nombre, apellido, email, telefono`

func (s *Store) AddCoachee(c Coachee) (int64, error) {
	c.FirstName = strings.TrimSpace(c.FirstName)
	c.LastName = strings.TrimSpace(c.LastName)
	c.Phone = strings.TrimSpace(c.Phone)
	if err := c.Validate(); err != nil {
		return 0, err
	}

	res, err := s.db.Exec(
		`INSERT INTO coachees (nombre, apellido, email, telefono) VALUES (?, ?, ?, ?)`,
		c.FirstName, c.LastName, nullString(c.Email), c.Phone,
	)
	if err != nil {
		return 0, storageErr("insert coachee", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, storageErr("insert coachee", err)
	}
	return id, nil
}

func (s *Store) GetCoachee(id int64) (Coachee, error) {
	row := s.db.QueryRow(`SELECT `+coacheeColumns+` FROM coachees WHERE id = ?`, id)
	c, err := scanCoachee(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Coachee{}, fmt.Errorf("coachee %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return Coachee{}, storageErr("get coachee", err)
	}
	return c, nil
}

// ListCoachees returns every coachee ordered by last name, then first name.
func (s *Store) ListCoachees() ([]Coachee, error) {
	rows, err := s.db.Query(`SELECT ` + coacheeColumns + ` FROM coachees ORDER BY apellido, nombre, id`)
	if err != nil {
		return nil, storageErr("list coachees", err)
	}
	return collectCoachees(rows)
}

// SearchCoachees matches term as a substring of first name, last name,
// email or phone. Matching folds Unicode case, so "ÁLVARO" finds Álvaro.
func (s *Store) SearchCoachees(term string) ([]Coachee, error) {
	all, err := s.ListCoachees()
	if err != nil {
		return nil, err
	}
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return all, nil
	}
	var out []Coachee
	for _, c := range all {
		for _, field := range []string{c.FirstName, c.LastName, c.Email, c.Phone} {
			if strings.Contains(strings.ToLower(field), term) {
				out = append(out, c)
				break
			}
		}
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCoachee(sc scanner) (Coachee, error) {
	var (
		c     Coachee
		email sql.NullString
	)
	if err := sc.Scan(&c.ID, &c.FirstName, &c.LastName, &email, &c.Phone); err != nil {
		return Coachee{}, err
	}
	c.Email = email.String
	return c, nil
}

func collectCoachees(rows *sql.Rows) ([]Coachee, error) {
	defer rows.Close()
	var out []Coachee
	for rows.Next() {
		c, err := scanCoachee(rows)
		if err != nil {
			return nil, storageErr("scan coachee", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterate coachees", err)
	}
	return out, nil
}
