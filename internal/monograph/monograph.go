// Package monograph implements the monograph HTML rewriter (spec §4.5): a
// two-phase transform from a raw, semi-structured XML monograph body to
// the stable HTML contract (spec §6) a downstream offline reader consumes.
//
// Phase one is string-level entity/tag sanitation (sanitizeEntities);
// phase two parses the cleaned string as XML and walks its children with
// a small state machine (spec §9: "keep this two-phase model; do not
// collapse into a single tree transformation").
package monograph

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/ywesee/cpp2sqlite-go/internal/barcode"
)

var sectionIDPattern = regexp.MustCompile(`^section(\d+)$`)

type rewriteState int

const (
	stateBeforeSection rewriteState = iota
	stateInSection
	statePostSection18
)

const lastSection = 18

// Rewrite transforms a monograph's raw XML content into the HTML contract
// of spec §6. raw is the medicine's RawContentXML; regnrs and owner supply
// the top-level div's name and the owner-company block; usedGTINs is the
// set of GTINs used for this medicine's packages, one barcode emitted per
// entry when section 18 is reached.
//
// On XML parse failure, Rewrite falls back to the cleaned (entity
// sanitized but unparsed) raw XML, per the RewriterParse taxonomy entry
// (spec §7): "fall back to emitting cleaned raw XML (no structural
// transformation)". fellBack reports whether that happened.
func Rewrite(raw string, regnrs []string, owner string, usedGTINs []string) (html string, fellBack bool) {
	cleaned := sanitizeEntities(raw)

	root, err := parseTree(cleaned)
	if err != nil {
		return cleaned, true
	}

	var b strings.Builder
	b.WriteString("<html><head></head><body>")
	fmt.Fprintf(&b, `<div id="monographie" name="%s">`, strings.Join(regnrs, ","))

	state := stateBeforeSection
	sectionOpen := false

	for _, child := range root.children {
		if state == statePostSection18 {
			break // terminal state: remaining content is suppressed
		}

		switch strings.ToLower(child.name) {
		case "p":
			if num, ok := sectionNumber(child); ok {
				if sectionOpen {
					b.WriteString("</div>")
					sectionOpen = false
				}

				if num == 1 {
					fmt.Fprintf(&b, `<div class="MonTitle" id="section%d">%s</div>`, num, reEscape(child.text))
					b.WriteString(`<div class="ownerCompany">` + reEscape(owner) + `</div>`)
				} else {
					fmt.Fprintf(&b, `<div class="paragraph" id="section%d">`, num)
					fmt.Fprintf(&b, `<div class="absTitle">%s</div>`, reEscape(child.text))
					sectionOpen = true

					if num == lastSection {
						for _, g := range usedGTINs {
							svg, err := barcode.CreateSVG(g)
							if err != nil {
								continue // malformed GTIN: skipped, never fatal
							}
							fmt.Fprintf(&b, `<p class="barcode">%s</p>`, svg)
						}
						state = statePostSection18
						continue
					}
				}

				state = stateInSection
				continue
			}

			if state == stateBeforeSection {
				continue
			}
			b.WriteString(renderParagraph(child))

		case "table":
			if state == stateBeforeSection {
				continue
			}
			b.WriteString(renderTable(child))
		}
	}

	if sectionOpen {
		b.WriteString("</div>")
	}
	b.WriteString("</div></body></html>")

	return b.String(), false
}

func sectionNumber(p *node) (int, bool) {
	m := sectionIDPattern.FindStringSubmatch(p.attr("id"))
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}
