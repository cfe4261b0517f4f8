package export

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/roach88/arealog/internal/record"
	"github.com/roach88/arealog/internal/stats"
	"github.com/roach88/arealog/internal/value"
)

// TimeLayout is the stored form of exported_at: UTC with all nine
// fractional digits, so that text order is time order.
const TimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// Batch describes one export run.
type Batch struct {
	ID          string    `json:"id"`
	Source      string    `json:"source"`
	ExportedAt  time.Time `json:"exported_at"`
	Count       int       `json:"count"`
	Fingerprint string    `json:"fingerprint"`
}

// Export copies records, read from the log at source, into a new batch.
// The batch and all its records are written in one transaction.
func (e *Exporter) Export(ctx context.Context, source string, records []record.Record) (Batch, error) {
	batch := Batch{
		ID:          e.newID(),
		Source:      source,
		ExportedAt:  e.clock.Now().UTC(),
		Count:       len(records),
		Fingerprint: stats.Fingerprint(records),
	}

	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return Batch{}, fmt.Errorf("export: begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO exports (id, source_path, exported_at, record_count, fingerprint)
		VALUES (?, ?, ?, ?, ?)
	`,
		batch.ID,
		batch.Source,
		formatTime(batch.ExportedAt),
		batch.Count,
		batch.Fingerprint,
	)
	if err != nil {
		return Batch{}, fmt.Errorf("export: insert batch: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO records (export_id, position, fecha, figura, area, parametros, raw)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return Batch{}, fmt.Errorf("export: prepare: %w", err)
	}
	defer stmt.Close()

	for i, rec := range records {
		if err := insertRecord(ctx, stmt, batch.ID, i, rec); err != nil {
			return Batch{}, fmt.Errorf("export: record %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return Batch{}, fmt.Errorf("export: commit: %w", err)
	}

	slog.Info("log exported",
		"batch_id", batch.ID,
		"source", batch.Source,
		"count", batch.Count,
	)
	return batch, nil
}

func insertRecord(ctx context.Context, stmt *sql.Stmt, batchID string, pos int, rec record.Record) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	params := rec.Parameters
	if params == nil {
		params = value.Object{}
	}
	paramsJSON, err := value.Marshal(params)
	if err != nil {
		return err
	}

	var area sql.NullFloat64
	if n, ok := rec.Number(); ok {
		area = sql.NullFloat64{Float64: n, Valid: true}
	}

	_, err = stmt.ExecContext(ctx,
		batchID,
		pos,
		nullString(rec.Timestamp),
		nullString(rec.Category),
		area,
		string(paramsJSON),
		string(raw),
	)
	return err
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
