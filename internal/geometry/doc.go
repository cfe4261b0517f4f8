// Package geometry is the producer side of the area log: a catalog of
// figures, their area formulas, and a Calculator that validates input and
// appends one record per successful computation.
//
// The catalog is declared in figures.cue (embedded) and compiled with the
// CUE Go API. Adding a figure takes a catalog entry plus a formula; the
// loader rejects catalog entries without one.
//
// Areas are rounded to two decimals before they are logged. Parameters of
// kind int are logged as JSON integers, everything else as floats.
package geometry
