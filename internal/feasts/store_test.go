package feasts

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zapponejosh/coptic-calendar-api/internal/calendar"
	"github.com/zapponejosh/coptic-calendar-api/internal/database"
	"github.com/zapponejosh/coptic-calendar-api/internal/logger"
)

func testDB(t *testing.T) *database.DB {
	t.Helper()

	db, err := database.Open(database.Config{
		Path:            ":memory:",
		MaxOpenConns:    1,
		MaxIdleConns:    1,
		ConnMaxLifetime: time.Hour,
	}, logger.Discard())
	require.NoError(t, err)

	_, err = db.Migrate(context.Background())
	require.NoError(t, err)

	t.Cleanup(func() { db.Close() })
	return db
}

func thoout1() calendar.CopticDate {
	return calendar.CopticDate{Year: 1741, Month: calendar.Thoout, Day: 1}
}

func TestStore_ServesDefaultsBeforeReload(t *testing.T) {
	s := NewStore(nil, logger.Discard())

	assert.Equal(t, calendar.DefaultFeasts().Len(), s.Table().Len())
	assert.Contains(t, s.Table().For(thoout1()), "Coptic New Year (Nayrouz)")
	assert.NoError(t, s.Reload(context.Background()))
}

func TestStore_EmptyDatabaseMeansDefaults(t *testing.T) {
	s := NewStore(testDB(t), logger.Discard())
	require.NoError(t, s.Reload(context.Background()))

	assert.Equal(t, calendar.DefaultFeasts().Entries(), s.Table().Entries())
}

func TestStore_SeedDefaultsOnlyOnce(t *testing.T) {
	ctx := context.Background()
	db := testDB(t)
	s := NewStore(db, logger.Discard())

	seeded, err := s.SeedDefaults(ctx)
	require.NoError(t, err)
	assert.True(t, seeded)

	n, err := db.CountFeasts(ctx)
	require.NoError(t, err)
	assert.Equal(t, calendar.DefaultFeasts().Len(), n)

	seeded, err = s.SeedDefaults(ctx)
	require.NoError(t, err)
	assert.False(t, seeded)
}

func TestStore_CreateAndDeleteReload(t *testing.T) {
	ctx := context.Background()
	s := NewStore(testDB(t), logger.Discard())
	_, err := s.SeedDefaults(ctx)
	require.NoError(t, err)

	rec, err := s.Create(ctx, calendar.Feast{
		Month: calendar.Thoout, Day: 1, Name: "Commemoration of the Martyrs", Kind: calendar.KindMinor,
	})
	require.NoError(t, err)
	require.NotZero(t, rec.ID)

	assert.Equal(t,
		[]string{"Coptic New Year (Nayrouz)", "Commemoration of the Martyrs"},
		s.Table().For(thoout1()),
	)

	require.NoError(t, s.Delete(ctx, rec.ID))
	assert.Equal(t, []string{"Coptic New Year (Nayrouz)"}, s.Table().For(thoout1()))

	err = s.Delete(ctx, rec.ID)
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestStore_EmptyImportStaysEmpty(t *testing.T) {
	ctx := context.Background()
	s := NewStore(testDB(t), logger.Discard())
	_, err := s.SeedDefaults(ctx)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "feasts.yaml")
	require.NoError(t, os.WriteFile(path, []byte("feasts: []\n"), 0644))

	n, err := s.ImportFile(ctx, path)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Zero(t, s.Table().Len())
	assert.Empty(t, s.Table().For(thoout1()))

	// A restart must not bring the built-in feasts back.
	seeded, err := s.SeedDefaults(ctx)
	require.NoError(t, err)
	assert.False(t, seeded)
	require.NoError(t, s.Reload(ctx))
	assert.Zero(t, s.Table().Len())
}

func TestStore_DeletingEveryFeastLeavesEmptyTable(t *testing.T) {
	ctx := context.Background()
	db := testDB(t)
	s := NewStore(db, logger.Discard())
	_, err := s.SeedDefaults(ctx)
	require.NoError(t, err)

	records, err := s.Records(ctx)
	require.NoError(t, err)
	require.Len(t, records, calendar.DefaultFeasts().Len())
	for _, r := range records {
		require.NoError(t, s.Delete(ctx, r.ID))
	}

	records, err = s.Records(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.Zero(t, s.Table().Len())

	fresh := NewStore(db, logger.Discard())
	seeded, err := fresh.SeedDefaults(ctx)
	require.NoError(t, err)
	assert.False(t, seeded)
	require.NoError(t, fresh.Reload(ctx))
	assert.Zero(t, fresh.Table().Len())
}

func TestStore_CreateRejectsInvalidFeast(t *testing.T) {
	s := NewStore(testDB(t), logger.Discard())

	_, err := s.Create(context.Background(), calendar.Feast{Month: calendar.Nesi, Day: 7, Name: "x", Kind: calendar.KindMinor})
	assert.Error(t, err)
}

func TestStore_ImportFile(t *testing.T) {
	ctx := context.Background()
	db := testDB(t)
	s := NewStore(db, logger.Discard())

	path := filepath.Join(t.TempDir(), "feasts.yaml")
	table, err := calendar.NewFeastTable([]calendar.Feast{
		{Month: calendar.Thoout, Day: 1, Name: "Nayrouz", Kind: calendar.KindMajor},
		{Month: calendar.Nesi, Day: 6, Name: "Leap day", Kind: calendar.KindMinor},
	})
	require.NoError(t, err)
	require.NoError(t, WriteFile(path, table))

	n, err := s.ImportFile(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, table.Entries(), s.Table().Entries())

	records, err := s.Records(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, 13, records[1].Month)
	assert.Equal(t, 1, records[1].Position)
}

func TestStore_ImportFileKeepsTableOnError(t *testing.T) {
	s := NewStore(testDB(t), logger.Discard())
	before := s.Table().Entries()

	_, err := s.ImportFile(context.Background(), filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Equal(t, before, s.Table().Entries())
}

func TestRecordsRoundTrip(t *testing.T) {
	table := calendar.DefaultFeasts()
	back, err := calendar.NewFeastTable(FromRecords(ToRecords(table)))
	require.NoError(t, err)
	assert.Equal(t, table.Entries(), back.Entries())
}
