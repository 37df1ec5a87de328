// Package refdata loads the Refdata commercial reference-data feed: the
// primary, authoritative package names for a registration number (spec
// §4.2: "the *primary* package names for a RN"). Refdata has first
// precedence in the package merger (spec §4.3: "Refdata > Swissmedic >
// BAG"), so this loader always runs first in the pipeline.
//
// As with the AIPS loader, the retrieval pack does not carry Refdata's
// literal wire schema, so a minimal self-consistent shape is defined here:
//
//	<refdata>
//	  <package>
//	    <rn>55012</rn>
//	    <gtin>7680550120014</gtin>
//	    <name>Foo 10mg Tabl 30 Stk</name>
//	  </package>
//	  ...
//	</refdata>
package refdata

import (
	"encoding/xml"
	"fmt"
	"os"

	"github.com/ywesee/cpp2sqlite-go/internal/gtin"
	"github.com/ywesee/cpp2sqlite-go/internal/model"
	"github.com/ywesee/cpp2sqlite-go/internal/xerr"
)

type feedDocument struct {
	XMLName  xml.Name     `xml:"refdata"`
	Packages []feedEntry  `xml:"package"`
}

type feedEntry struct {
	RN   string `xml:"rn"`
	GTIN string `xml:"gtin"`
	Name string `xml:"name"`
}

// Entry is one Refdata package line.
type Entry struct {
	RN     string
	GTIN13 string
	Name   string
}

// Loader holds every parsed entry.
type Loader struct {
	entries []Entry
}

// Load reads the Refdata feed at path.
func Load(path string) (*Loader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("refdata: %w: %s", xerr.ErrInputMissing, path)
	}
	defer f.Close()

	var doc feedDocument
	if err := xml.NewDecoder(f).Decode(&doc); err != nil {
		return nil, fmt.Errorf("refdata: %w: %v", xerr.ErrParseFatal, err)
	}

	l := &Loader{entries: make([]Entry, 0, len(doc.Packages))}
	for _, e := range doc.Packages {
		if len(e.GTIN) != 13 {
			continue // malformed record: skip, not fatal (spec §7 ParseElement)
		}
		l.entries = append(l.entries, Entry{
			RN:     gtin.Pad(5, e.RN),
			GTIN13: e.GTIN,
			Name:   e.Name,
		})
	}

	return l, nil
}

// NamesByRn returns the primary package name of every entry for rn, in feed
// order, and records every GTIN it emits into usedGtins (spec §4.2:
// "accumulating every GTIN it emits into the shared outUsedGtins set").
func (l *Loader) NamesByRn(rn string, usedGtins map[string]bool) []model.NamedGTIN {
	var out []model.NamedGTIN
	for _, e := range l.entries {
		if e.RN != rn {
			continue
		}
		if usedGtins[e.GTIN13] {
			continue // already claimed by an earlier entry; never double-count
		}
		usedGtins[e.GTIN13] = true
		out = append(out, model.NamedGTIN{Name: e.Name, GTIN13: e.GTIN13})
	}
	return out
}
