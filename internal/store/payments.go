package store

import "database/sql"

const paymentAggregate = `
	COUNT(s.id),
	COALESCE(SUM(CASE WHEN COALESCE(s.pagado, 0) = 1 THEN 1 ELSE 0 END), 0),
	COALESCE(SUM(CASE WHEN s.id IS NOT NULL AND COALESCE(s.pagado, 0) = 0 THEN 1 ELSE 0 END), 0),
	COALESCE(SUM(CASE WHEN COALESCE(s.pagado, 0) = 1 THEN COALESCE(s.monto, 0) ELSE 0 END), 0.0),
	COALESCE(SUM(CASE WHEN COALESCE(s.pagado, 0) = 0 THEN COALESCE(s.monto, 0) ELSE 0 END), 0.0)`

// GetPaymentSummaryByCoachee aggregates the coachee's sessions in one query.
// A coachee without sessions yields all zeros.
func (s *Store) GetPaymentSummaryByCoachee(coacheeID int64) (PaymentSummary, error) {
	var p PaymentSummary
	err := s.db.QueryRow(
		`SELECT`+paymentAggregate+` FROM sessions s WHERE s.coachee_id = ?`,
		coacheeID,
	).Scan(&p.TotalSessions, &p.PaidSessions, &p.UnpaidSessions, &p.TotalPaid, &p.TotalPending)
	if err != nil {
		return PaymentSummary{}, storageErr("payment summary", err)
	}
	return p, nil
}

// ListPaymentSummaries returns one aggregate per coachee in name order.
// Sessions whose coachee no longer exists are not counted anywhere.
func (s *Store) ListPaymentSummaries() ([]CoacheePayments, error) {
	rows, err := s.db.Query(
		`SELECT c.id, c.nombre, c.apellido, c.email, c.telefono,` + paymentAggregate + `
		 FROM coachees c LEFT JOIN sessions s ON s.coachee_id = c.id
		 GROUP BY c.id
		 ORDER BY c.apellido, c.nombre, c.id`,
	)
	if err != nil {
		return nil, storageErr("list payment summaries", err)
	}
	defer rows.Close()

	var out []CoacheePayments
	for rows.Next() {
		var (
			cp    CoacheePayments
			email sql.NullString
		)
		p := &cp.Summary
		if err := rows.Scan(
			&cp.Coachee.ID, &cp.Coachee.FirstName, &cp.Coachee.LastName, &email, &cp.Coachee.Phone,
			&p.TotalSessions, &p.PaidSessions, &p.UnpaidSessions, &p.TotalPaid, &p.TotalPending,
		); err != nil {
			return nil, storageErr("scan payment summary", err)
		}
		cp.Coachee.Email = email.String
		out = append(out, cp)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterate payment summaries", err)
	}
	return out, nil
}
