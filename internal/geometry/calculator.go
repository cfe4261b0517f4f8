package geometry

import (
	"fmt"
	"log/slog"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/roach88/arealog/internal/clock"
	"github.com/roach88/arealog/internal/record"
	"github.com/roach88/arealog/internal/value"
)

// Appender receives computed records. *query.Facade satisfies it.
type Appender interface {
	Append(rec record.Record) error
}

// Calculator validates inputs, computes areas, and logs each result.
type Calculator struct {
	catalog *Catalog
	sink    Appender
	clock   clock.Clock
}

// NewCalculator creates a calculator over cat that appends to sink.
// A nil clock uses the system clock.
func NewCalculator(cat *Catalog, sink Appender, clk clock.Clock) *Calculator {
	return &Calculator{
		catalog: cat,
		sink:    sink,
		clock:   clock.OrSystem(clk),
	}
}

// Catalog returns the calculator's figure catalog.
func (c *Calculator) Catalog() *Catalog {
	return c.catalog
}

// Compute calculates the area of figure kind from named parameters, rounds
// it to two decimals, and appends a record of the result.
//
// Invalid input returns a *ValidationError and appends nothing. An append
// failure is returned wrapped, together with the computed area.
func (c *Calculator) Compute(kind string, params map[string]float64) (float64, error) {
	fig, ok := c.catalog.Lookup(kind)
	if !ok {
		return 0, &ValidationError{
			Figure:  kind,
			Message: "unknown figure, use one of: " + strings.Join(c.catalog.Names(), ", "),
		}
	}

	a, recParams, err := validate(fig, params)
	if err != nil {
		return 0, err
	}

	raw, msg := formulas[fig.Name](a)
	if msg != "" {
		return 0, &ValidationError{Figure: fig.Name, Message: msg}
	}
	area := round2(raw)

	rec := record.New(c.clock.Now(), fig.Name, area, recParams)
	if err := c.sink.Append(rec); err != nil {
		return area, fmt.Errorf("record %s: %w", fig.Name, err)
	}

	slog.Debug("area computed",
		"figura", fig.Name,
		"area", area,
	)
	return area, nil
}

// validate checks params against the figure's declared parameters and
// returns them both as formula input and as record parameters.
func validate(fig Figure, params map[string]float64) (args, value.Object, error) {
	for name := range params {
		if !slices.ContainsFunc(fig.Params, func(p Param) bool { return p.Name == name }) {
			return nil, nil, &ValidationError{Figure: fig.Name, Field: name, Message: "unexpected parameter"}
		}
	}

	a := make(args, len(fig.Params))
	obj := make(value.Object, len(fig.Params))
	for _, p := range fig.Params {
		v, ok := params[p.Name]
		if !ok {
			return nil, nil, &ValidationError{Figure: fig.Name, Field: p.Name, Message: "missing parameter"}
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, nil, &ValidationError{Figure: fig.Name, Field: p.Name, Message: "must be a finite number"}
		}
		if v <= 0 {
			return nil, nil, &ValidationError{Figure: fig.Name, Field: p.Name, Message: "must be greater than zero"}
		}

		a[p.Name] = v
		switch p.Kind {
		case KindInt:
			if v != math.Trunc(v) || v > math.MaxInt32 {
				return nil, nil, &ValidationError{Figure: fig.Name, Field: p.Name, Message: "must be a whole number"}
			}
			obj[p.Name] = value.Int(int64(v))
		default:
			obj[p.Name] = value.Float(v)
		}
	}
	return a, obj, nil
}

// ParseArgs reads "name=value" pairs for figure kind. Values are parsed as
// numbers only; range checks happen in Compute.
func (c *Calculator) ParseArgs(kind string, pairs []string) (map[string]float64, error) {
	fig, ok := c.catalog.Lookup(kind)
	if !ok {
		return nil, &ValidationError{
			Figure:  kind,
			Message: "unknown figure, use one of: " + strings.Join(c.catalog.Names(), ", "),
		}
	}

	out := make(map[string]float64, len(pairs))
	for _, pair := range pairs {
		name, raw, found := strings.Cut(pair, "=")
		name = strings.TrimSpace(name)
		if !found || name == "" {
			return nil, &ValidationError{Figure: fig.Name, Field: pair, Message: "expected name=value"}
		}
		if _, dup := out[name]; dup {
			return nil, &ValidationError{Figure: fig.Name, Field: name, Message: "given more than once"}
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, &ValidationError{Figure: fig.Name, Field: name, Message: fmt.Sprintf("invalid number %q", raw)}
		}
		out[name] = v
	}
	return out, nil
}
