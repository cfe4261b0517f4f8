package geometry

import (
	"math"
	"strconv"
)

// args holds validated, strictly positive parameter values by name.
type args map[string]float64

// formula computes an unrounded area. It returns a non-empty message when
// the parameters are individually valid but inconsistent together.
type formula func(a args) (float64, string)

var formulas = map[string]formula{
	"rectangulo": func(a args) (float64, string) {
		return a["base"] * a["altura"], ""
	},
	"triangulo": func(a args) (float64, string) {
		return a["base"] * a["altura"] / 2, ""
	},
	"circulo": func(a args) (float64, string) {
		return math.Pi * a["radio"] * a["radio"], ""
	},
	"trapecio": func(a args) (float64, string) {
		return (a["base_mayor"] + a["base_menor"]) / 2 * a["altura"], ""
	},
	"cuadrado": func(a args) (float64, string) {
		return a["lado"] * a["lado"], ""
	},
	"poligono_regular": func(a args) (float64, string) {
		if a["num_lados"] < 3 {
			return 0, "a polygon needs at least 3 sides"
		}
		return a["num_lados"] * (a["lado"] * a["apotema"] / 2), ""
	},
	"elipse": func(a args) (float64, string) {
		return math.Pi * a["semi_eje_hor"] * a["semi_eje_ver"], ""
	},
	"corona_circular": func(a args) (float64, string) {
		if a["radio_mayor"] <= a["radio_menor"] {
			return 0, "radio_mayor must be greater than radio_menor"
		}
		return math.Pi * (a["radio_mayor"]*a["radio_mayor"] - a["radio_menor"]*a["radio_menor"]), ""
	},
	"cubo": func(a args) (float64, string) {
		return 6 * a["lado"] * a["lado"], ""
	},
	"cono": func(a args) (float64, string) {
		return math.Pi * a["radio"] * (a["radio"] + a["generatriz"]), ""
	},
}

// round2 rounds to two decimal places. Ties on the exact binary value go
// to the even digit, so 0.125 becomes 0.12 and 2.675 (stored just below)
// becomes 2.67.
func round2(x float64) float64 {
	r, err := strconv.ParseFloat(strconv.FormatFloat(x, 'f', 2, 64), 64)
	if err != nil {
		return x
	}
	return r
}
