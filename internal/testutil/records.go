package testutil

import (
	"fmt"
	"time"

	"github.com/roach88/arealog/internal/record"
	"github.com/roach88/arealog/internal/value"
)

// Circle returns a circulo record with the given area, stamped at DefaultStart.
func Circle(area float64) record.Record {
	return record.New(DefaultStart, "circulo", area, value.Object{"radio": value.Float(1)})
}

// Record returns a record of the given figure and area, stamped at
// DefaultStart plus offset seconds.
func Record(figure string, area float64, offset int) record.Record {
	ts := DefaultStart.Add(time.Duration(offset) * time.Second)
	return record.New(ts, figure, area, value.Object{"n": value.Int(int64(offset))})
}

// Sequence returns n distinct records r0..r(n-1) cycling through figures.
func Sequence(n int, figures ...string) []record.Record {
	if len(figures) == 0 {
		figures = []string{"circulo"}
	}
	out := make([]record.Record, n)
	for i := range out {
		out[i] = Record(figures[i%len(figures)], float64(i+1), i)
	}
	return out
}

// Describe renders records compactly for assertion messages.
func Describe(records []record.Record) string {
	s := ""
	for i, r := range records {
		if i > 0 {
			s += ", "
		}
		n, _ := r.Number()
		s += fmt.Sprintf("%s=%g", r.Category, n)
	}
	return "[" + s + "]"
}
