package stats

// NoCategory is reported as the top category of a set without categories.
const NoCategory = "none"

// Result holds aggregate statistics of a record set.
//
// Mean, Max, and Min cover records whose value is numeric; they are 0 when
// there are none. Count covers every record.
type Result struct {
	Count       int     `json:"count"`
	Mean        float64 `json:"mean"`
	Max         float64 `json:"max"`
	Min         float64 `json:"min"`
	TopCategory string  `json:"top_category"`
}

// Empty reports whether the result describes an empty record set.
func (r Result) Empty() bool {
	return r.Count == 0
}
