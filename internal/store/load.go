package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"io/fs"
	"log/slog"
	"os"

	"github.com/roach88/arealog/internal/record"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// LoadAll parses the whole log and returns its records in append order.
//
// The result is never nil. An absent or empty file yields no records; a
// read or parse failure is logged at warn level and also yields no records.
// The file is never repaired.
func (s *Store) LoadAll() []record.Record {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []record.Record{}
	}
	if err != nil {
		slog.Warn("log read failed",
			"path", s.path,
			"error", err,
		)
		return []record.Record{}
	}

	records, err := Parse(data)
	if err != nil {
		slog.Warn("log parse failed",
			"path", s.path,
			"error", err,
		)
		return []record.Record{}
	}
	return records
}

// Parse decodes log file content. Empty or whitespace-only content is an
// empty log.
func Parse(data []byte) ([]record.Record, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if len(bytes.TrimSpace(data)) == 0 {
		return []record.Record{}, nil
	}

	var records []record.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}
	if records == nil {
		records = []record.Record{}
	}
	return records, nil
}
