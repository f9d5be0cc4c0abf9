// Package feasts supplies the active fixed-feast table. The table is kept in
// SQLite, can be imported from or exported to YAML, and is swapped atomically
// so readers never lock.
package feasts

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/zapponejosh/coptic-calendar-api/internal/calendar"
	"github.com/zapponejosh/coptic-calendar-api/internal/database"
)

// Repository is the persistence the Store needs. *database.DB satisfies it.
type Repository interface {
	ListFeasts(ctx context.Context) ([]database.FeastRecord, error)
	FeastsInitialized(ctx context.Context) (bool, error)
	CreateFeast(ctx context.Context, f *database.FeastRecord) error
	DeleteFeast(ctx context.Context, id int64) error
	ReplaceFeasts(ctx context.Context, feasts []database.FeastRecord) error
}

// Store holds the feast table in use. A Store with a nil Repository serves
// the built-in table and keeps imports in memory only.
type Store struct {
	repo   Repository
	logger *slog.Logger
	table  atomic.Pointer[calendar.FeastTable]
}

// NewStore returns a Store serving calendar.DefaultFeasts until the first Reload.
func NewStore(repo Repository, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{repo: repo, logger: logger}
	def := calendar.DefaultFeasts()
	s.table.Store(&def)
	return s
}

// Table returns the current feast table.
func (s *Store) Table() calendar.FeastTable {
	return *s.table.Load()
}

// Reload rebuilds the table from the repository. A repository that has
// never been written serves the built-in table; once written, an empty
// repository is an empty table.
func (s *Store) Reload(ctx context.Context) error {
	if s.repo == nil {
		return nil
	}

	records, err := s.repo.ListFeasts(ctx)
	if err != nil {
		return fmt.Errorf("list feasts: %w", err)
	}

	builtIn := false
	if len(records) == 0 {
		initialized, err := s.repo.FeastsInitialized(ctx)
		if err != nil {
			return err
		}
		builtIn = !initialized
	}

	table := calendar.DefaultFeasts()
	if !builtIn {
		table, err = calendar.NewFeastTable(FromRecords(records))
		if err != nil {
			return fmt.Errorf("stored feasts: %w", err)
		}
	}

	s.table.Store(&table)
	s.logger.InfoContext(ctx, "feast table loaded",
		slog.Int("feasts", table.Len()),
		slog.Bool("built_in", builtIn),
	)
	return nil
}

// SeedDefaults writes the built-in table to a repository that has never
// been written, so later edits start from it. It reports whether anything
// was written. A table emptied on purpose is left empty.
func (s *Store) SeedDefaults(ctx context.Context) (bool, error) {
	if s.repo == nil {
		return false, nil
	}
	initialized, err := s.repo.FeastsInitialized(ctx)
	if err != nil {
		return false, err
	}
	if initialized {
		return false, nil
	}
	if err := s.repo.ReplaceFeasts(ctx, ToRecords(calendar.DefaultFeasts())); err != nil {
		return false, fmt.Errorf("seed feasts: %w", err)
	}
	return true, s.Reload(ctx)
}

// Replace swaps the whole table for table, persisting it first.
func (s *Store) Replace(ctx context.Context, table calendar.FeastTable) error {
	if s.repo == nil {
		s.table.Store(&table)
		return nil
	}
	if err := s.repo.ReplaceFeasts(ctx, ToRecords(table)); err != nil {
		return fmt.Errorf("replace feasts: %w", err)
	}
	return s.Reload(ctx)
}

// ImportFile replaces the table with the feasts in a YAML file and returns
// how many were loaded.
func (s *Store) ImportFile(ctx context.Context, path string) (int, error) {
	table, err := LoadFile(path)
	if err != nil {
		return 0, err
	}
	if err := s.Replace(ctx, table); err != nil {
		return 0, err
	}
	return table.Len(), nil
}

// Records lists the stored feasts with their IDs.
func (s *Store) Records(ctx context.Context) ([]database.FeastRecord, error) {
	if s.repo == nil {
		return ToRecords(s.Table()), nil
	}
	return s.repo.ListFeasts(ctx)
}

// Create validates f, stores it after the existing feasts and reloads.
func (s *Store) Create(ctx context.Context, f calendar.Feast) (*database.FeastRecord, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	if s.repo == nil {
		return nil, fmt.Errorf("feast store is read-only")
	}
	rec := toRecord(f)
	if err := s.repo.CreateFeast(ctx, &rec); err != nil {
		return nil, err
	}
	return &rec, s.Reload(ctx)
}

// Delete removes a stored feast and reloads.
func (s *Store) Delete(ctx context.Context, id int64) error {
	if s.repo == nil {
		return fmt.Errorf("feast store is read-only")
	}
	if err := s.repo.DeleteFeast(ctx, id); err != nil {
		return err
	}
	return s.Reload(ctx)
}

// ToRecords converts a table into rows in declaration order.
func ToRecords(table calendar.FeastTable) []database.FeastRecord {
	entries := table.Entries()
	out := make([]database.FeastRecord, len(entries))
	for i, f := range entries {
		out[i] = toRecord(f)
		out[i].Position = i
	}
	return out
}

// FromRecords converts stored rows back into feasts.
func FromRecords(records []database.FeastRecord) []calendar.Feast {
	out := make([]calendar.Feast, len(records))
	for i, r := range records {
		out[i] = calendar.Feast{
			Month: calendar.Month(r.Month),
			Day:   r.Day,
			Name:  r.Name,
			Kind:  calendar.FeastKind(r.Kind),
		}
	}
	return out
}

func toRecord(f calendar.Feast) database.FeastRecord {
	return database.FeastRecord{
		Month: int(f.Month),
		Day:   f.Day,
		Name:  f.Name,
		Kind:  string(f.Kind),
	}
}
