package store

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// Schema versions below are fixed; new changes get the next free number.
const paymentColumnsVersion = 2

func migrate(ctx context.Context, db *sql.DB) error {
	fsys, err := fs.Sub(embedMigrations, "migrations")
	if err != nil {
		return fmt.Errorf("migrations fs: %w", err)
	}

	provider, err := goose.NewProvider(goose.DialectSQLite3, db, fsys,
		goose.WithGoMigrations(
			goose.NewGoMigration(paymentColumnsVersion, &goose.GoFunc{RunTx: addPaymentColumns}, nil),
		),
	)
	if err != nil {
		return fmt.Errorf("create migration provider: %w", err)
	}

	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

// addPaymentColumns adds the payment columns to sessions. Databases created
// before payments existed lack them; databases upgraded by hand may already
// have one or both.
func addPaymentColumns(ctx context.Context, tx *sql.Tx) error {
	cols, err := tableColumns(ctx, tx, "sessions")
	if err != nil {
		return err
	}
	if !cols["pagado"] {
		if _, err := tx.ExecContext(ctx, `ALTER TABLE sessions ADD COLUMN pagado INTEGER DEFAULT 0`); err != nil {
			return fmt.Errorf("add pagado column: %w", err)
		}
	}
	if !cols["monto"] {
		if _, err := tx.ExecContext(ctx, `ALTER TABLE sessions ADD COLUMN monto REAL DEFAULT 0`); err != nil {
			return fmt.Errorf("add monto column: %w", err)
		}
	}
	return nil
}

func tableColumns(ctx context.Context, tx *sql.Tx, table string) (map[string]bool, error) {
	rows, err := tx.QueryContext(ctx, "PRAGMA table_info("+table+")")
	if err != nil {
		return nil, fmt.Errorf("table info %s: %w", table, err)
	}
	defer rows.Close()

	cols := make(map[string]bool)
	for rows.Next() {
		var (
			cid     int
			name    string
			typ     string
			notNull int
			dflt    sql.NullString
			pk      int
		)
		if err := rows.Scan(&cid, &name, &typ, &notNull, &dflt, &pk); err != nil {
			return nil, fmt.Errorf("scan table info: %w", err)
		}
		cols[name] = true
	}
	return cols, rows.Err()
}
