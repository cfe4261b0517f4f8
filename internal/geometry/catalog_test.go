package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	cat, err := DefaultCatalog()
	require.NoError(t, err)

	assert.Equal(t, []string{
		"rectangulo", "triangulo", "circulo", "trapecio", "cuadrado",
		"poligono_regular", "elipse", "corona_circular", "cubo", "cono",
	}, cat.Names())

	fig, ok := cat.Lookup("poligono_regular")
	require.True(t, ok)
	assert.Equal(t, "Polígono regular", fig.Title)
	require.Len(t, fig.Params, 3)
	assert.Equal(t, Param{Name: "num_lados", Kind: KindInt, Prompt: "número de lados"}, fig.Params[0])
	assert.Equal(t, KindFloat, fig.Params[1].Kind)

	_, ok = cat.Lookup("hexagono")
	assert.False(t, ok)
}

func TestDefaultCatalogHasFormulaForEveryFigure(t *testing.T) {
	cat, err := DefaultCatalog()
	require.NoError(t, err)

	for _, fig := range cat.Figures() {
		assert.Contains(t, formulas, fig.Name)
	}
	assert.Len(t, cat.Figures(), len(formulas))
}

func TestLoadCatalogPromptDefaultsToName(t *testing.T) {
	cat, err := LoadCatalog("test.cue", `
figures: cubo: {
	title: "Cubo"
	params: [{name: "lado", kind: "float", prompt: ""}]
}
`)
	require.NoError(t, err)

	fig, ok := cat.Lookup("cubo")
	require.True(t, ok)
	assert.Equal(t, "lado", fig.Params[0].Prompt)
}

func TestLoadCatalogErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"syntax", `figures: {`},
		{"no figures", `other: 1`},
		{"empty figures", `figures: {}`},
		{"unknown formula", `figures: hexagono: {title: "H", params: [{name: "lado", kind: "float", prompt: ""}]}`},
		{"no params", `figures: cubo: {title: "Cubo", params: []}`},
		{"duplicate param", `figures: cubo: {title: "Cubo", params: [{name: "lado", kind: "float", prompt: ""}, {name: "lado", kind: "float", prompt: ""}]}`},
		{"missing title", `figures: cubo: {params: [{name: "lado", kind: "float", prompt: ""}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadCatalog("test.cue", tt.src)
			assert.Error(t, err)
		})
	}
}

func TestFiguresReturnsCopy(t *testing.T) {
	cat, err := DefaultCatalog()
	require.NoError(t, err)

	figs := cat.Figures()
	figs[0].Name = "mutated"

	assert.Equal(t, "rectangulo", cat.Figures()[0].Name)
}
