package stats

import (
	"log/slog"
	"sync/atomic"

	"github.com/roach88/arealog/internal/record"
)

// DefaultCapacity is the default number of memoized results.
const DefaultCapacity = 128

// Engine computes memoized statistics. It is safe for concurrent use.
type Engine struct {
	memo         *memo
	computations atomic.Uint64
}

// Option configures an Engine.
type Option func(*config)

type config struct {
	capacity int
}

// WithCapacity bounds the memo table. Non-positive values keep the default.
func WithCapacity(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.capacity = n
		}
	}
}

// New creates an engine with an empty memo table.
func New(opts ...Option) *Engine {
	cfg := config{capacity: DefaultCapacity}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Engine{memo: newMemo(cfg.capacity)}
}

// Compute returns statistics for records, reusing a memoized result when a
// record set with the same content was computed before. records is not
// modified.
func (e *Engine) Compute(records []record.Record) Result {
	key := Fingerprint(records)
	if res, ok := e.memo.get(key); ok {
		return res
	}

	res := Aggregate(records)
	e.computations.Add(1)
	e.memo.put(key, res)

	slog.Debug("statistics computed",
		"count", res.Count,
		"fingerprint", key,
	)
	return res
}

// Computations returns how many times Compute scanned a record set instead
// of serving a memoized result.
func (e *Engine) Computations() uint64 {
	return e.computations.Load()
}

// MemoStats returns memo table counters.
func (e *Engine) MemoStats() MemoStats {
	return e.memo.snapshot()
}

// Aggregate computes statistics without memoization.
//
// The top category is the most frequent non-empty category; ties go to the
// category seen first. NoCategory is reported when no record has one.
func Aggregate(records []record.Record) Result {
	res := Result{Count: len(records), TopCategory: NoCategory}

	var (
		sum     float64
		numeric int
	)
	for _, r := range records {
		n, ok := r.Number()
		if !ok {
			continue
		}
		if numeric == 0 || n > res.Max {
			res.Max = n
		}
		if numeric == 0 || n < res.Min {
			res.Min = n
		}
		sum += n
		numeric++
	}
	if numeric > 0 {
		res.Mean = sum / float64(numeric)
	}

	counts := make(map[string]int)
	var order []string
	for _, r := range records {
		if r.Category == "" {
			continue
		}
		if counts[r.Category] == 0 {
			order = append(order, r.Category)
		}
		counts[r.Category]++
	}

	best := 0
	for _, cat := range order {
		if counts[cat] > best {
			best = counts[cat]
			res.TopCategory = cat
		}
	}
	return res
}
