package export

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/roach88/arealog/internal/record"
)

// ErrBatchNotFound is returned for an unknown batch id.
var ErrBatchNotFound = errors.New("batch not found")

// Batches returns every export run, oldest first.
//
// Returns an empty slice (not nil) when nothing was exported.
func (e *Exporter) Batches(ctx context.Context) ([]Batch, error) {
	rows, err := e.db.QueryContext(ctx, `
		SELECT id, source_path, exported_at, record_count, fingerprint
		FROM exports
		ORDER BY exported_at ASC, id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query exports: %w", err)
	}
	defer rows.Close()

	batches := []Batch{}
	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, err
		}
		batches = append(batches, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate exports: %w", err)
	}
	return batches, nil
}

// Batch returns one export run by id.
func (e *Exporter) Batch(ctx context.Context, id string) (Batch, error) {
	row := e.db.QueryRowContext(ctx, `
		SELECT id, source_path, exported_at, record_count, fingerprint
		FROM exports
		WHERE id = ?
	`, id)

	b, err := scanBatch(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Batch{}, fmt.Errorf("%w: %s", ErrBatchNotFound, id)
	}
	return b, err
}

// Records rebuilds the records of a batch in log order.
func (e *Exporter) Records(ctx context.Context, batchID string) ([]record.Record, error) {
	if _, err := e.Batch(ctx, batchID); err != nil {
		return nil, err
	}

	rows, err := e.db.QueryContext(ctx, `
		SELECT raw
		FROM records
		WHERE export_id = ?
		ORDER BY position ASC
	`, batchID)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	records := []record.Record{}
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		var rec record.Record
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			return nil, fmt.Errorf("unmarshal record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}
	return records, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBatch(row rowScanner) (Batch, error) {
	var (
		b          Batch
		exportedAt string
	)
	if err := row.Scan(&b.ID, &b.Source, &exportedAt, &b.Count, &b.Fingerprint); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Batch{}, err
		}
		return Batch{}, fmt.Errorf("scan export: %w", err)
	}

	t, err := time.Parse(time.RFC3339Nano, exportedAt)
	if err != nil {
		return Batch{}, fmt.Errorf("parse exported_at: %w", err)
	}
	b.ExportedAt = t
	return b, nil
}
