package geometry

import (
	_ "embed"
	"fmt"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
)

//go:embed figures.cue
var figuresCUE string

// Kind is the numeric kind of a figure parameter.
type Kind string

const (
	KindFloat Kind = "float"
	KindInt   Kind = "int"
)

// Param describes one input of a figure.
type Param struct {
	Name   string
	Kind   Kind
	Prompt string
}

// Figure is a catalog entry: a named shape and its ordered parameters.
type Figure struct {
	Name   string
	Title  string
	Params []Param
}

// Catalog is the ordered set of figures the calculator accepts.
type Catalog struct {
	figures []Figure
	byName  map[string]int
}

var defaultCatalog = sync.OnceValues(func() (*Catalog, error) {
	return LoadCatalog("figures.cue", figuresCUE)
})

// DefaultCatalog returns the embedded catalog.
func DefaultCatalog() (*Catalog, error) {
	return defaultCatalog()
}

// LoadCatalog compiles a CUE catalog document. Every figure must have a
// known area formula and at least one parameter.
func LoadCatalog(filename, src string) (*Catalog, error) {
	ctx := cuecontext.New()
	v := ctx.CompileString(src, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return nil, formatCUEError(err)
	}

	figuresVal := v.LookupPath(cue.ParsePath("figures"))
	if !figuresVal.Exists() {
		return nil, &CatalogError{Field: "figures", Message: "figures is required", Pos: v.Pos()}
	}

	iter, err := figuresVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}

	cat := &Catalog{byName: make(map[string]int)}
	for iter.Next() {
		fig, err := parseFigure(iter.Label(), iter.Value())
		if err != nil {
			return nil, err
		}
		cat.byName[fig.Name] = len(cat.figures)
		cat.figures = append(cat.figures, fig)
	}
	if len(cat.figures) == 0 {
		return nil, &CatalogError{Field: "figures", Message: "at least one figure is required", Pos: figuresVal.Pos()}
	}
	return cat, nil
}

func parseFigure(name string, v cue.Value) (Figure, error) {
	if _, ok := formulas[name]; !ok {
		return Figure{}, &CatalogError{Field: name, Message: "no area formula for figure", Pos: v.Pos()}
	}

	fig := Figure{Name: name}

	title, err := v.LookupPath(cue.ParsePath("title")).String()
	if err != nil {
		return Figure{}, formatCUEError(err)
	}
	fig.Title = title

	list, err := v.LookupPath(cue.ParsePath("params")).List()
	if err != nil {
		return Figure{}, formatCUEError(err)
	}

	seen := make(map[string]bool)
	for list.Next() {
		pv := list.Value()

		var p Param
		if p.Name, err = pv.LookupPath(cue.ParsePath("name")).String(); err != nil {
			return Figure{}, formatCUEError(err)
		}
		kind, err := pv.LookupPath(cue.ParsePath("kind")).String()
		if err != nil {
			return Figure{}, formatCUEError(err)
		}
		p.Kind = Kind(kind)
		if p.Prompt, err = pv.LookupPath(cue.ParsePath("prompt")).String(); err != nil {
			return Figure{}, formatCUEError(err)
		}
		if p.Prompt == "" {
			p.Prompt = p.Name
		}

		if seen[p.Name] {
			return Figure{}, &CatalogError{Field: name + "." + p.Name, Message: "duplicate parameter", Pos: pv.Pos()}
		}
		seen[p.Name] = true
		fig.Params = append(fig.Params, p)
	}

	if len(fig.Params) == 0 {
		return Figure{}, &CatalogError{Field: name, Message: "at least one parameter is required", Pos: v.Pos()}
	}
	return fig, nil
}

// Figures returns the catalog entries in declaration order.
func (c *Catalog) Figures() []Figure {
	out := make([]Figure, len(c.figures))
	copy(out, c.figures)
	return out
}

// Names returns figure names in declaration order.
func (c *Catalog) Names() []string {
	out := make([]string, len(c.figures))
	for i, f := range c.figures {
		out[i] = f.Name
	}
	return out
}

// Lookup finds a figure by name.
func (c *Catalog) Lookup(name string) (Figure, bool) {
	i, ok := c.byName[name]
	if !ok {
		return Figure{}, false
	}
	return c.figures[i], true
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	first := errs[0]
	if positions := cueerrors.Positions(first); len(positions) > 0 {
		pos := positions[0]
		return fmt.Errorf("%s:%d:%d: %w", pos.Filename(), pos.Line(), pos.Column(), first)
	}
	return first
}
