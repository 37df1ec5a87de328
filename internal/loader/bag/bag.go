// Package bag loads the BAG (Swiss federal office of public health) feed:
// prices, reimbursement flags, the therapeutic-index ("tindex")
// classification, and applications. BAG has lowest precedence in the
// package merger (spec §4.3: "Refdata > Swissmedic > BAG") but is the sole
// source of price/reimbursement decoration (spec §4.4) for every line,
// regardless of which source contributed it.
//
// As with the other feeds, no literal BAG wire schema is present in the
// retrieval pack; this defines a minimal self-consistent shape:
//
//	<bag>
//	  <preparation>
//	    <rn>55012</rn>
//	    <gtin>7680550120014</gtin>
//	    <name>Foo 10mg Tabl 30 Stk</name>
//	    <tindex>07.01.30</tindex>
//	    <application>treats foo</application>
//	    <publicPrice>12.34</publicPrice>
//	    <reimbursement>SL</reimbursement>
//	  </preparation>
//	  ...
//	</bag>
package bag

import (
	"encoding/xml"
	"fmt"
	"os"
	"strings"

	"github.com/ywesee/cpp2sqlite-go/internal/gtin"
	"github.com/ywesee/cpp2sqlite-go/internal/model"
	"github.com/ywesee/cpp2sqlite-go/internal/xerr"
)

type feedDocument struct {
	XMLName      xml.Name    `xml:"bag"`
	Preparations []feedEntry `xml:"preparation"`
}

type feedEntry struct {
	RN            string `xml:"rn"`
	GTIN          string `xml:"gtin"`
	Name          string `xml:"name"`
	TIndex        string `xml:"tindex"`
	Application   string `xml:"application"`
	PublicPrice   string `xml:"publicPrice"`
	Reimbursement string `xml:"reimbursement"`
}

// Entry is one BAG preparation line.
type Entry struct {
	RN            string
	GTIN13        string
	Name          string
	TIndex        string
	Application   string
	PublicPrice   string
	Reimbursement string
}

// Loader holds every parsed entry.
type Loader struct {
	entries []Entry
}

// Load reads the BAG feed at path.
func Load(path string) (*Loader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("bag: %w: %s", xerr.ErrInputMissing, path)
	}
	defer f.Close()

	var doc feedDocument
	if err := xml.NewDecoder(f).Decode(&doc); err != nil {
		return nil, fmt.Errorf("bag: %w: %v", xerr.ErrParseFatal, err)
	}

	l := &Loader{entries: make([]Entry, 0, len(doc.Preparations))}
	for _, e := range doc.Preparations {
		if len(e.GTIN) != 13 {
			continue
		}
		l.entries = append(l.entries, Entry{
			RN:            gtin.Pad(5, e.RN),
			GTIN13:        e.GTIN,
			Name:          e.Name,
			TIndex:        e.TIndex,
			Application:   e.Application,
			PublicPrice:   e.PublicPrice,
			Reimbursement: e.Reimbursement,
		})
	}

	return l, nil
}

// TindexByRn returns the therapeutic-index string of the first entry for
// rn, or "" if none exists (spec §4.7: "tindex from BAG using regnrs[0]").
func (l *Loader) TindexByRn(rn string) string {
	for _, e := range l.entries {
		if e.RN == rn {
			return e.TIndex
		}
	}
	return ""
}

// ApplicationByRn returns the first entry's application text for rn.
func (l *Loader) ApplicationByRn(rn string) string {
	for _, e := range l.entries {
		if e.RN == rn {
			return strings.TrimSpace(e.Application)
		}
	}
	return ""
}

// AdditionalNamesByRn returns the name/GTIN of every entry for rn whose
// GTIN is not already in usedGtins, marking each returned GTIN as used
// (spec §4.2/§4.3: BAG contributes lines only for GTINs neither Refdata nor
// Swissmedic already claimed).
func (l *Loader) AdditionalNamesByRn(rn string, usedGtins map[string]bool) []model.NamedGTIN {
	var out []model.NamedGTIN
	for _, e := range l.entries {
		if e.RN != rn || usedGtins[e.GTIN13] {
			continue
		}
		usedGtins[e.GTIN13] = true
		out = append(out, model.NamedGTIN{Name: e.Name, GTIN13: e.GTIN13})
	}
	return out
}

// GTINList returns every GTIN-13 BAG has a record for.
func (l *Loader) GTINList() []string {
	out := make([]string, 0, len(l.entries))
	for _, e := range l.entries {
		out = append(out, e.GTIN13)
	}
	return out
}

// PricesAndFlags builds the tail decoration for a package line (spec §4.4):
// "priceSegment | reimbursementFlags | category". fallbackPrice is used
// when BAG carries no price for this GTIN. Returns "" when BAG has no
// record at all for gtin.
func (l *Loader) PricesAndFlags(gtin13, fallbackPrice, category string) string {
	for _, e := range l.entries {
		if e.GTIN13 != gtin13 {
			continue
		}
		price := e.PublicPrice
		if price == "" {
			price = fallbackPrice
		}
		return fmt.Sprintf(" | CHF %s | %s | %s", price, e.Reimbursement, category)
	}
	return ""
}
