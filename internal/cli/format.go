package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/roach88/arealog/internal/record"
	"github.com/roach88/arealog/internal/stats"
	"github.com/roach88/arealog/internal/value"
)

// noDataMessage is printed for an empty log; it is not an error.
const noDataMessage = "No data yet."

// recordList is the payload of list, last, and search.
type recordList []record.Record

// RenderText prints records as a table.
func (l recordList) RenderText(w io.Writer) error {
	if len(l) == 0 {
		_, err := fmt.Fprintln(w, noDataMessage)
		return err
	}

	t := newTable("#", "FECHA", "FIGURA", "AREA", "PARAMETROS")
	t.maxWidth = terminalWidth(w)
	for i, r := range l {
		t.addRow(strconv.Itoa(i+1), r.Timestamp, r.Category, formatArea(r.Value), formatParams(r.Parameters))
	}
	return t.render(w)
}

// statsView is the payload of the stats command.
type statsView stats.Result

// RenderText prints statistics as aligned key/value lines.
func (s statsView) RenderText(w io.Writer) error {
	if s.Count == 0 {
		_, err := fmt.Fprintln(w, noDataMessage)
		return err
	}

	t := newTable()
	t.addRow("count", strconv.Itoa(s.Count))
	t.addRow("mean", formatNumber(s.Mean))
	t.addRow("max", formatNumber(s.Max))
	t.addRow("min", formatNumber(s.Min))
	t.addRow("top_category", s.TopCategory)
	return t.render(w)
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}

// formatArea prints numeric areas with two decimals and anything else as
// its JSON form.
func formatArea(v value.Value) string {
	if n, ok := value.Number(v); ok {
		return formatNumber(n)
	}
	if v == nil {
		return "-"
	}
	return formatValue(v)
}

// formatParams prints parameters as "name=value" pairs in key order.
func formatParams(obj value.Object) string {
	parts := make([]string, 0, len(obj))
	for _, k := range obj.SortedKeys() {
		parts = append(parts, k+"="+formatValue(obj[k]))
	}
	return strings.Join(parts, ", ")
}

func formatValue(v value.Value) string {
	switch val := v.(type) {
	case value.String:
		return string(val)
	case value.Int:
		return strconv.FormatInt(int64(val), 10)
	case value.Float:
		return strconv.FormatFloat(float64(val), 'g', -1, 64)
	default:
		b, err := value.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(b)
	}
}
