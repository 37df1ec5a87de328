// Package aips loads the monograph corpus: the feed that drives both the
// pipeline's iteration order (spec §3: "iterated exactly once ... in the
// input file's document order") and the per-medicine content blob the
// monograph rewriter later transforms.
//
// The retrieval pack does not carry the AIPS feed's literal XML schema
// (original_source/aips.hpp only declares the in-memory struct, not the
// wire format) so this package defines one self-consistent shape, chosen to
// carry exactly the fields spec.md §3 requires and nothing more:
//
//	<medicines>
//	  <medicine type="fi">
//	    <title>...</title>
//	    <authHolder>...</authHolder>
//	    <atcCode>...</atcCode>
//	    <activeSubstance>...</activeSubstance>
//	    <regnrs>55012, 55013</regnrs>
//	    <content><div>...</div></content>
//	  </medicine>
//	  ...
//	</medicines>
//
// type is "fi" (professional information) or "pi" (patient information);
// the loader keeps only the type the caller requested (spec §6: --pinfo).
package aips

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"

	"github.com/ywesee/cpp2sqlite-go/internal/gtin"
	"github.com/ywesee/cpp2sqlite-go/internal/model"
	"github.com/ywesee/cpp2sqlite-go/internal/xerr"
)

type feedDocument struct {
	XMLName   xml.Name    `xml:"medicines"`
	Medicines []feedEntry `xml:"medicine"`
}

type feedEntry struct {
	Type            string   `xml:"type,attr"`
	Title           string   `xml:"title"`
	AuthHolder      string   `xml:"authHolder"`
	AtcCode         string   `xml:"atcCode"`
	ActiveSubstance string   `xml:"activeSubstance"`
	RegNrs          string   `xml:"regnrs"`
	Content         rawInner `xml:"content"`
}

// rawInner captures the content element's inner markup verbatim (the
// monograph rewriter needs the raw XML, not a decoded Go value).
type rawInner struct {
	Inner string `xml:",innerxml"`
}

// Load reads the AIPS feed at path and returns its medicines in document
// order, keeping only records whose type attribute matches wantType
// ("fi" or "pi"). An empty wantType keeps every record.
func Load(path string, wantType string) ([]model.Medicine, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("aips: %w: %s", xerr.ErrInputMissing, path)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("aips: %w: %s: %v", xerr.ErrInputMissing, path, err)
	}

	var doc feedDocument
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("aips: %w: %v", xerr.ErrParseFatal, err)
	}

	out := make([]model.Medicine, 0, len(doc.Medicines))
	for _, e := range doc.Medicines {
		if wantType != "" && e.Type != wantType {
			continue
		}
		m := model.Medicine{
			Title:           e.Title,
			AuthHolder:      e.AuthHolder,
			AtcCode:         e.AtcCode,
			ActiveSubstance: e.ActiveSubstance,
			RegNrs:          e.RegNrs,
			RawContentXML:   e.Content.Inner,
		}
		m.RegNrsList = model.ParseRegNrs(e.RegNrs, gtin.Pad)
		out = append(out, m)
	}

	return out, nil
}
