package monograph

import (
	"fmt"
	"regexp"
	"strconv"
)

var widthPattern = regexp.MustCompile(`\d*\.\d*`)

// normalizeColgroup rewrites every <col>'s style to a percentage width
// (spec §4.5, step 7): parse the first decimal in each col's existing
// style, then replace the whole style with a fixed decoration string whose
// width is that column's share of the sum of all columns' widths.
func normalizeColgroup(colgroup *node) {
	cols := childrenNamed(colgroup, "col")
	if len(cols) == 0 {
		return
	}

	widths := make([]float64, len(cols))
	var sum float64
	for i, c := range cols {
		match := widthPattern.FindString(c.attr("style"))
		v, _ := strconv.ParseFloat(match, 64)
		widths[i] = v
		sum += v
	}
	if sum == 0 {
		return
	}

	for i, c := range cols {
		pct := 100 * widths[i] / sum
		style := fmt.Sprintf("width:%.6f%%25;background-color: #EEEEEE; padding-right: 5px; padding-left: 5px", pct)
		setAttr(c, "style", style)
	}
}

// renderTable renormalizes t's colgroup (if any) and serialises the whole
// <table> subtree back to XML (spec §4.5, step 7: "serialise the table
// subtree back to XML ... and append to the HTML"; the XML declaration
// stripping §9 warns about never arises here since serializeNode never
// emits one).
func renderTable(t *node) string {
	if colgroup := findChild(t, "colgroup"); colgroup != nil {
		normalizeColgroup(colgroup)
	}
	return serializeNode(t)
}
