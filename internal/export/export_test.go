package export

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/arealog/internal/record"
	"github.com/roach88/arealog/internal/stats"
	"github.com/roach88/arealog/internal/testutil"
	"github.com/roach88/arealog/internal/value"
)

func createTestExporter(t *testing.T, opts ...Option) (*Exporter, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "export.db")
	e, err := Open(path, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { e.Close() })
	return e, path
}

func TestOpen_CreatesNewDatabase(t *testing.T) {
	_, path := createTestExporter(t)

	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.db")

	for i := 0; i < 3; i++ {
		e, err := Open(path)
		require.NoError(t, err, "iteration %d", i)
		require.NoError(t, e.Close())
	}
}

func TestOpen_Pragmas(t *testing.T) {
	e, _ := createTestExporter(t)

	tests := []struct {
		pragma   string
		expected string
	}{
		{"journal_mode", "wal"},
		{"foreign_keys", "1"},
		{"busy_timeout", "5000"},
		{"user_version", fmt.Sprint(currentSchemaVersion)},
	}
	for _, tt := range tests {
		var got string
		require.NoError(t, e.db.QueryRow("PRAGMA "+tt.pragma).Scan(&got))
		assert.Equal(t, tt.expected, got, tt.pragma)
	}
}

func TestOpen_MigrationCreatesFiguraIndex(t *testing.T) {
	e, _ := createTestExporter(t)

	var name string
	err := e.db.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'index' AND name = 'idx_records_figura'`).Scan(&name)
	require.NoError(t, err)
	assert.Equal(t, "idx_records_figura", name)
}

func TestOpen_InvalidPath(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing", "export.db"))
	assert.Error(t, err)
}

func TestClose_NilDB(t *testing.T) {
	assert.NoError(t, (&Exporter{}).Close())
}

func TestExport_RoundTrip(t *testing.T) {
	clk := testutil.NewFakeClock(time.Time{})
	e, _ := createTestExporter(t, WithClock(clk))
	ctx := context.Background()
	records := testutil.Sequence(4, "circulo", "cubo")
	records = append(records, record.Record{
		Category: "elipse",
		Value:    value.String("N/D"),
		Extra:    value.Object{"nota": value.String("manual")},
	})

	batch, err := e.Export(ctx, "areas.json", records)
	require.NoError(t, err)
	assert.Equal(t, 5, batch.Count)
	assert.Equal(t, "areas.json", batch.Source)
	assert.True(t, batch.ExportedAt.Equal(testutil.DefaultStart))
	assert.Equal(t, stats.Fingerprint(records), batch.Fingerprint)

	parsed, err := uuid.Parse(batch.ID)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), parsed.Version())

	got, err := e.Records(ctx, batch.ID)
	require.NoError(t, err)
	require.Len(t, got, len(records))
	for i := range records {
		assert.True(t, records[i].Equal(got[i]), "record %d", i)
	}
}

func TestExport_Columns(t *testing.T) {
	e, _ := createTestExporter(t)
	ctx := context.Background()
	records := []record.Record{
		record.New(testutil.DefaultStart, "poligono_regular", 93.6,
			value.Object{"num_lados": value.Int(6), "lado": value.Float(6), "apotema": value.Float(5.2)}),
		{Category: "elipse", Value: value.String("N/D")},
	}

	batch, err := e.Export(ctx, "areas.json", records)
	require.NoError(t, err)

	rows, err := e.db.Query(`SELECT fecha, figura, area, parametros FROM records WHERE export_id = ? ORDER BY position`, batch.ID)
	require.NoError(t, err)
	defer rows.Close()

	type row struct {
		fecha, figura sql.NullString
		area          sql.NullFloat64
		parametros    string
	}
	var got []row
	for rows.Next() {
		var r row
		require.NoError(t, rows.Scan(&r.fecha, &r.figura, &r.area, &r.parametros))
		got = append(got, r)
	}
	require.NoError(t, rows.Err())
	require.Len(t, got, 2)

	assert.Equal(t, "05/03/2024 14:30:00", got[0].fecha.String)
	assert.Equal(t, "poligono_regular", got[0].figura.String)
	assert.Equal(t, 93.6, got[0].area.Float64)
	assert.Equal(t, `{"apotema":5.2,"lado":6.0,"num_lados":6}`, got[0].parametros)

	assert.False(t, got[1].fecha.Valid)
	assert.False(t, got[1].area.Valid, "non-numeric area is NULL")
	assert.Equal(t, `{}`, got[1].parametros)
}

func TestExport_EmptyLog(t *testing.T) {
	e, _ := createTestExporter(t)
	ctx := context.Background()

	batch, err := e.Export(ctx, "areas.json", nil)
	require.NoError(t, err)
	assert.Zero(t, batch.Count)

	got, err := e.Records(ctx, batch.ID)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestBatches(t *testing.T) {
	clk := testutil.NewFakeClock(time.Time{})
	ids := []string{"batch-a", "batch-b"}
	next := 0
	e, _ := createTestExporter(t, WithClock(clk), WithIDGenerator(func() string {
		id := ids[next]
		next++
		return id
	}))
	ctx := context.Background()

	empty, err := e.Batches(ctx)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	_, err = e.Export(ctx, "areas.json", testutil.Sequence(1))
	require.NoError(t, err)
	clk.Advance(time.Minute)
	_, err = e.Export(ctx, "areas.json", testutil.Sequence(2))
	require.NoError(t, err)

	batches, err := e.Batches(ctx)
	require.NoError(t, err)
	require.Len(t, batches, 2)
	assert.Equal(t, "batch-a", batches[0].ID)
	assert.Equal(t, 1, batches[0].Count)
	assert.Equal(t, "batch-b", batches[1].ID)
	assert.Equal(t, 2, batches[1].Count)
	assert.NotEqual(t, batches[0].Fingerprint, batches[1].Fingerprint)
}

func TestBatches_OrderedByTimeAcrossFractions(t *testing.T) {
	clk := testutil.NewFakeClock(time.Time{})
	ids := []string{"z-first", "a-second"}
	next := 0
	e, path := createTestExporter(t, WithClock(clk), WithIDGenerator(func() string {
		id := ids[next]
		next++
		return id
	}))
	ctx := context.Background()

	// A whole second followed by half a second later.
	_, err := e.Export(ctx, "areas.json", testutil.Sequence(1))
	require.NoError(t, err)
	clk.Advance(500 * time.Millisecond)
	_, err = e.Export(ctx, "areas.json", testutil.Sequence(1))
	require.NoError(t, err)

	batches, err := e.Batches(ctx)
	require.NoError(t, err)
	require.Len(t, batches, 2)
	assert.Equal(t, "z-first", batches[0].ID)
	assert.Equal(t, "a-second", batches[1].ID)
	assert.Equal(t, testutil.DefaultStart.Add(500*time.Millisecond), batches[1].ExportedAt)

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer db.Close()
	var stored string
	require.NoError(t, db.QueryRow(`SELECT exported_at FROM exports WHERE id = 'z-first'`).Scan(&stored))
	assert.Equal(t, "2024-03-05T14:30:00.000000000Z", stored)
}

func TestOpen_MigratesExportedAtLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.db")
	e, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, e.Close())

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	_, err = db.Exec(`
		INSERT INTO exports (id, source_path, exported_at, record_count, fingerprint)
		VALUES ('old-whole', 'areas.json', '2024-03-05T14:30:05Z', 0, ''),
		       ('old-frac', 'areas.json', '2024-03-05T14:30:05.5Z', 0, '')
	`)
	require.NoError(t, err)
	_, err = db.Exec(`PRAGMA user_version = 1`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	e, err = Open(path)
	require.NoError(t, err)
	defer e.Close()

	batches, err := e.Batches(context.Background())
	require.NoError(t, err)
	require.Len(t, batches, 2)
	assert.Equal(t, "old-whole", batches[0].ID)
	assert.Equal(t, "old-frac", batches[1].ID)
}

func TestBatch_NotFound(t *testing.T) {
	e, _ := createTestExporter(t)
	ctx := context.Background()

	_, err := e.Batch(ctx, "missing")
	assert.ErrorIs(t, err, ErrBatchNotFound)

	_, err = e.Records(ctx, "missing")
	assert.ErrorIs(t, err, ErrBatchNotFound)
}

func TestExport_DuplicateIDRollsBack(t *testing.T) {
	e, _ := createTestExporter(t, WithIDGenerator(func() string { return "fixed" }))
	ctx := context.Background()

	_, err := e.Export(ctx, "areas.json", testutil.Sequence(2))
	require.NoError(t, err)

	_, err = e.Export(ctx, "areas.json", testutil.Sequence(3))
	require.Error(t, err)

	var count int
	require.NoError(t, e.db.QueryRow(`SELECT COUNT(*) FROM records`).Scan(&count))
	assert.Equal(t, 2, count)
}
