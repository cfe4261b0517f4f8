package stats

import (
	"bytes"
	"fmt"

	"github.com/roach88/arealog/internal/record"
	"github.com/roach88/arealog/internal/value"
)

// Fingerprint returns a deterministic content key for records.
//
// Order matters: the same records in a different order fingerprint
// differently. Int and whole Float values encode identically.
func Fingerprint(records []record.Record) string {
	arr := make(value.Array, len(records))
	for i, r := range records {
		arr[i] = r.Object()
	}

	h, err := value.CanonicalHash(value.DomainRecordSet, arr)
	if err == nil {
		return h
	}
	return value.FallbackHash(value.DomainFallback, plainRendering(records))
}

// plainRendering writes each record with fmt, which prints maps in sorted
// key order and accepts NaN and infinities.
func plainRendering(records []record.Record) []byte {
	var buf bytes.Buffer
	for i, r := range records {
		fmt.Fprintf(&buf, "%d:%v\n", i, r.Object())
	}
	return buf.Bytes()
}
