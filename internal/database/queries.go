package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// parseTimestamp parses a SQLite TEXT timestamp. It returns nil when the
// value is empty or in no known layout.
func parseTimestamp(ns sql.NullString) *time.Time {
	if !ns.Valid || ns.String == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, time.DateTime, "2006-01-02T15:04:05.999999"} {
		if t, err := time.Parse(layout, ns.String); err == nil {
			return &t
		}
	}
	return nil
}

const feastColumns = `id, month, day, name, kind, position, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFeast(row rowScanner) (FeastRecord, error) {
	var f FeastRecord
	var createdAt, updatedAt sql.NullString
	if err := row.Scan(&f.ID, &f.Month, &f.Day, &f.Name, &f.Kind, &f.Position, &createdAt, &updatedAt); err != nil {
		return FeastRecord{}, err
	}
	if t := parseTimestamp(createdAt); t != nil {
		f.CreatedAt = *t
	}
	if t := parseTimestamp(updatedAt); t != nil {
		f.UpdatedAt = *t
	}
	return f, nil
}

func (db *DB) queryFeasts(ctx context.Context, query string, args ...any) ([]FeastRecord, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query feasts: %w", err)
	}
	defer rows.Close()

	feasts := []FeastRecord{}
	for rows.Next() {
		f, err := scanFeast(rows)
		if err != nil {
			return nil, fmt.Errorf("scan feast: %w", err)
		}
		feasts = append(feasts, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate feasts: %w", err)
	}
	return feasts, nil
}

// ListFeasts returns every stored feast in declaration order.
func (db *DB) ListFeasts(ctx context.Context) ([]FeastRecord, error) {
	return db.queryFeasts(ctx, `SELECT `+feastColumns+` FROM feasts ORDER BY position, id`)
}

// ListFeastsByMonth returns the feasts of one Coptic month ordered by day,
// then declaration order.
func (db *DB) ListFeastsByMonth(ctx context.Context, month int) ([]FeastRecord, error) {
	return db.queryFeasts(ctx,
		`SELECT `+feastColumns+` FROM feasts WHERE month = ? ORDER BY day, position, id`,
		month,
	)
}

// GetFeast returns the feast with the given id, or ErrNotFound.
func (db *DB) GetFeast(ctx context.Context, id int64) (*FeastRecord, error) {
	row := db.QueryRowContext(ctx, `SELECT `+feastColumns+` FROM feasts WHERE id = ?`, id)
	f, err := scanFeast(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get feast %d: %w", id, err)
	}
	return &f, nil
}

// CreateFeast inserts f after the current last feast and sets its ID and
// Position. A feast with the same month, day and name yields ErrDuplicate.
func (db *DB) CreateFeast(ctx context.Context, f *FeastRecord) error {
	var id int64
	err := db.WithTx(ctx, func(tx *Tx) error {
		res, err := tx.ExecContext(ctx, `
			INSERT INTO feasts (month, day, name, kind, position)
			VALUES (?, ?, ?, ?, (SELECT COALESCE(MAX(position), -1) + 1 FROM feasts))
		`, f.Month, f.Day, f.Name, f.Kind)
		if err != nil {
			if isUniqueViolation(err) {
				return ErrDuplicate
			}
			return fmt.Errorf("insert feast: %w", err)
		}
		if id, err = res.LastInsertId(); err != nil {
			return fmt.Errorf("get last insert id: %w", err)
		}
		return markFeastsInitialized(ctx, tx)
	})
	if err != nil {
		return err
	}

	stored, err := db.GetFeast(ctx, id)
	if err != nil {
		return err
	}
	*f = *stored
	return nil
}

// DeleteFeast removes the feast with the given id, or returns ErrNotFound.
func (db *DB) DeleteFeast(ctx context.Context, id int64) error {
	res, err := db.ExecContext(ctx, `DELETE FROM feasts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete feast %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// FeastsInitialized reports whether the feast table has ever been written.
// An initialized table with no rows is an intentionally empty table.
func (db *DB) FeastsInitialized(ctx context.Context) (bool, error) {
	var n int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM feast_table_state`).Scan(&n); err != nil {
		return false, fmt.Errorf("read feast table state: %w", err)
	}
	return n > 0, nil
}

func markFeastsInitialized(ctx context.Context, tx *Tx) error {
	if _, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO feast_table_state (id) VALUES (1)`); err != nil {
		return fmt.Errorf("mark feast table initialized: %w", err)
	}
	return nil
}

// CountFeasts returns the number of stored feasts.
func (db *DB) CountFeasts(ctx context.Context) (int, error) {
	var n int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM feasts`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count feasts: %w", err)
	}
	return n, nil
}

// FeastStats counts stored feasts per kind.
func (db *DB) FeastStats(ctx context.Context) (*FeastStats, error) {
	rows, err := db.QueryContext(ctx, `SELECT kind, COUNT(*) FROM feasts GROUP BY kind`)
	if err != nil {
		return nil, fmt.Errorf("query feast stats: %w", err)
	}
	defer rows.Close()

	stats := &FeastStats{ByKind: map[string]int{}}
	for rows.Next() {
		var kind string
		var n int
		if err := rows.Scan(&kind, &n); err != nil {
			return nil, fmt.Errorf("scan feast stats: %w", err)
		}
		stats.ByKind[kind] = n
		stats.Total += n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate feast stats: %w", err)
	}
	return stats, nil
}

// ReplaceFeasts atomically swaps the stored table for feasts. Position is
// taken from slice order.
func (db *DB) ReplaceFeasts(ctx context.Context, feasts []FeastRecord) error {
	return db.WithTx(ctx, func(tx *Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM feasts`); err != nil {
			return fmt.Errorf("clear feasts: %w", err)
		}

		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO feasts (month, day, name, kind, position)
			VALUES (?, ?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("prepare insert: %w", err)
		}
		defer stmt.Close()

		for i, f := range feasts {
			if _, err := stmt.ExecContext(ctx, f.Month, f.Day, f.Name, f.Kind, i); err != nil {
				if isUniqueViolation(err) {
					return fmt.Errorf("feast %d (%q): %w", i, f.Name, ErrDuplicate)
				}
				return fmt.Errorf("insert feast %d (%q): %w", i, f.Name, err)
			}
		}
		return markFeastsInitialized(ctx, tx)
	})
}
