// Package swissmedic loads the Swissmedic packaging registry spreadsheet:
// one row per package (GTIN), several rows may share a registration number.
// Grounded closely on original_source/swissmedic.cpp's column layout and
// row-skip convention.
package swissmedic

import (
	"fmt"
	"strings"

	"github.com/ywesee/cpp2sqlite-go/internal/gtin"
	"github.com/ywesee/cpp2sqlite-go/internal/model"
	"github.com/ywesee/cpp2sqlite-go/internal/xlsxutil"
)

// Column positions within a data row, 0-indexed (spec §4.2 / original
// swissmedic.cpp COLUMN_* constants).
const (
	columnRN          = 0  // registration number, padded to 5 digits
	columnName        = 2  // package name
	columnPackingCode = 10 // packaging code, padded to 3 digits
	columnCategory    = 13 // dispensing category A..E
	columnApplication = 18 // application/indication free text
	columnNarcotic    = 22 // "a" when the A-category package also contains narcotics
)

// firstDataRow is the 0-indexed row at which real data begins; the five
// rows before it are spreadsheet headers and are skipped entirely.
const firstDataRow = 5

// Row is one package line of the registry, with its identifying fields
// precomputed at load time the way the original precomputes regnrs/packingCode
// in parallel slices.
type Row struct {
	RN          string
	PackCode    string
	Name        string
	Category    string
	Application string
	GTIN13      string
}

// Loader holds every parsed data row, in spreadsheet order.
type Loader struct {
	rows []Row
}

// Load reads the Swissmedic XLSX registry at path.
func Load(path string) (*Loader, error) {
	sheet, err := xlsxutil.ReadFirstSheet(path)
	if err != nil {
		return nil, fmt.Errorf("swissmedic: %w", err)
	}

	l := &Loader{rows: make([]Row, 0, len(sheet))}
	for i, cells := range sheet {
		if i < firstDataRow {
			continue
		}
		if len(cells) <= columnNarcotic {
			continue // short row, not a data row
		}

		rn5 := gtin.Pad(5, cells[columnRN])
		pack3 := gtin.Pad(3, cells[columnPackingCode])
		gtin13, err := gtin.GTIN13(rn5, pack3)
		if err != nil {
			continue // malformed identifier: skip this row, not fatal
		}

		l.rows = append(l.rows, Row{
			RN:          rn5,
			PackCode:    pack3,
			Name:        cells[columnName],
			Category:    categoryFromRow(cells),
			Application: cells[columnApplication],
			GTIN13:      gtin13,
		})
	}

	return l, nil
}

// categoryFromRow returns the row's dispensing category, suffixed "+" when
// the category is "A" and the narcotics cell is "a".
func categoryFromRow(cells []string) string {
	category := cells[columnCategory]
	if category == "A" && cells[columnNarcotic] == "a" {
		category += "+"
	}
	return category
}

// Rows returns every parsed row, in spreadsheet order.
func (l *Loader) Rows() []Row {
	return l.rows
}

// NamesByRn returns the package name of every row matching rn, in row order.
func (l *Loader) NamesByRn(rn string) []string {
	var names []string
	for _, r := range l.rows {
		if r.RN == rn {
			names = append(names, r.Name)
		}
	}
	return names
}

// AdditionalNamesByRn returns the name/GTIN of every row for rn whose GTIN
// is not already in usedGtins, marking each one it returns as used (spec
// §4.2/§4.3: Swissmedic contributes package lines only for GTINs Refdata
// has not already claimed).
func (l *Loader) AdditionalNamesByRn(rn string, usedGtins map[string]bool) []model.NamedGTIN {
	var out []model.NamedGTIN
	for _, r := range l.rows {
		if r.RN != rn || usedGtins[r.GTIN13] {
			continue
		}
		usedGtins[r.GTIN13] = true
		out = append(out, model.NamedGTIN{Name: r.Name, GTIN13: r.GTIN13})
	}
	return out
}

// CountRowsByRn reports how many packages (rows) a registration number has.
func (l *Loader) CountRowsByRn(rn string) int {
	count := 0
	for _, r := range l.rows {
		if r.RN == rn {
			count++
		}
	}
	return count
}

// HasGTIN reports whether any row's base 12 digits match gtin13's base 12
// digits, mirroring the original's checksum-agnostic findGtin comparison.
func (l *Loader) HasGTIN(gtin13 string) bool {
	if len(gtin13) < 12 {
		return false
	}
	base := gtin13[:12]
	for _, r := range l.rows {
		if len(r.GTIN13) >= 12 && r.GTIN13[:12] == base {
			return true
		}
	}
	return false
}

// ApplicationByRn returns the first row's application text for rn, suffixed
// per the original to attribute its source.
func (l *Loader) ApplicationByRn(rn string) string {
	for _, r := range l.rows {
		if r.RN == rn {
			return strings.TrimSpace(r.Application) + " (Swissmedic)"
		}
	}
	return ""
}

// CategoryByGTIN returns the dispensing category of the row whose GTIN-13
// matches exactly, or "" if none does.
func (l *Loader) CategoryByGTIN(gtin13 string) string {
	for _, r := range l.rows {
		if r.GTIN13 == gtin13 {
			return r.Category
		}
	}
	return ""
}
