package store

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/roach88/arealog/internal/record"
)

// scanChunk is the read size of the backward scan.
const scanChunk = 4096

// Append adds rec to the end of the log and invalidates the cache.
//
// No rollback is attempted when a write fails midway; the error wraps
// ErrAppendFailed and is logged.
func (s *Store) Append(rec record.Record) error {
	element, err := encodeElement(rec)
	if err != nil {
		return s.appendFailed(fmt.Errorf("encode record: %w", err))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	info, err := os.Stat(s.path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		err = s.writeFresh(element)
	case err != nil:
		err = fmt.Errorf("stat log: %w", err)
	case info.Size() == 0:
		err = s.writeFresh(element)
	default:
		err = s.appendInPlace(element)
	}
	if err != nil {
		return s.appendFailed(err)
	}

	s.cache.Invalidate()

	slog.Debug("record appended",
		"path", s.path,
		"figura", rec.Category,
	)
	return nil
}

func (s *Store) appendFailed(err error) error {
	slog.Error("log append failed",
		"path", s.path,
		"error", err,
	)
	return fmt.Errorf("%w: %w", ErrAppendFailed, err)
}

// encodeElement renders rec as it appears inside the array: pretty JSON
// with every non-empty line indented one level.
func encodeElement(rec record.Record) ([]byte, error) {
	body, err := rec.MarshalIndent(Indent)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	for i, line := range bytes.Split(body, []byte{'\n'}) {
		if i > 0 {
			buf.WriteByte('\n')
		}
		if len(line) > 0 {
			buf.WriteString(Indent)
		}
		buf.Write(line)
	}
	return buf.Bytes(), nil
}

// writeFresh creates the log holding a single element. The content is
// staged in a uniquely named file in the log's directory and renamed into
// place, so readers never observe a partial first array.
func (s *Store) writeFresh(element []byte) error {
	tmp := filepath.Join(s.dir(), fmt.Sprintf(".%s.%s.tmp", filepath.Base(s.path), uuid.NewString()))

	var buf bytes.Buffer
	buf.WriteString("[\n")
	buf.Write(element)
	buf.WriteString("\n]\n")

	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

// appendInPlace writes element after the last array entry and
// re-terminates the array.
func (s *Store) appendInPlace(element []byte) (err error) {
	f, err := os.OpenFile(s.path, os.O_RDWR, 0)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close log: %w", cerr)
		}
	}()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat log: %w", err)
	}

	closePos, closeByte, err := lastNonSpace(f, info.Size())
	if err != nil {
		return fmt.Errorf("scan log: %w", err)
	}
	if closePos < 0 || closeByte != ']' {
		return fmt.Errorf("%w: closing bracket not found at end of %s", ErrMalformedLog, s.path)
	}

	prevPos, prevByte, err := lastNonSpace(f, closePos)
	if err != nil {
		return fmt.Errorf("scan log: %w", err)
	}
	if prevPos < 0 {
		return fmt.Errorf("%w: closing bracket without opening bracket in %s", ErrMalformedLog, s.path)
	}

	var buf bytes.Buffer
	if prevByte != '[' {
		buf.WriteByte(',')
	}
	buf.WriteByte('\n')
	buf.Write(element)
	buf.WriteString("\n]\n")

	offset := prevPos + 1
	if _, err := f.WriteAt(buf.Bytes(), offset); err != nil {
		return fmt.Errorf("write record: %w", err)
	}
	if err := f.Truncate(offset + int64(buf.Len())); err != nil {
		return fmt.Errorf("truncate log: %w", err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("sync log: %w", err)
	}
	return nil
}

// lastNonSpace scans r backward from end and returns the offset and value
// of the last byte that is not JSON whitespace. The offset is -1 when
// everything before end is whitespace.
func lastNonSpace(r io.ReaderAt, end int64) (int64, byte, error) {
	buf := make([]byte, scanChunk)
	for end > 0 {
		start := max(end-scanChunk, 0)
		chunk := buf[:end-start]
		if _, err := r.ReadAt(chunk, start); err != nil && !errors.Is(err, io.EOF) {
			return -1, 0, err
		}
		for i := len(chunk) - 1; i >= 0; i-- {
			if !isSpace(chunk[i]) {
				return start + int64(i), chunk[i], nil
			}
		}
		end = start
	}
	return -1, 0, nil
}

func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r':
		return true
	}
	return false
}
