package monograph

import (
	"regexp"
	"strings"
)

var inlineTagPattern = regexp.MustCompile(`(?i)</?(span|sub|sup)(\s[^>]*)?>`)

// entityTable is the fixed, exhaustive substitution table from spec §4.5.1.
// Entities not listed pass through untouched.
var entityTable = map[string]string{
	"&nbsp;":   " ",
	"&micro;":  "µ",
	"&auml;":   "ä",
	"&ouml;":   "ö",
	"&uuml;":   "ü",
	"&Uuml;":   "Ü",
	"&ge;":     "≥",
	"&le;":     "≤",
	"&agrave;": "à",
	"&middot;": "–",
	"&bdquo;":  "„",
	"&ldquo;":  "“",
	"&rsquo;":  "’",
	"&beta;":   "β",
	"&gamma;":  "γ",
	"&frac12;": "½",
	"&ndash;":  "–",
}

// sanitizeEntities performs the string-level, pre-parse pass (spec §4.5,
// step 1; §9: "the string pre-pass is necessary because downstream
// serialisation and SQL binding both depend on entity form"):
//   - strip every span/sub/sup open or close tag, attributes ignored;
//   - replace apostrophes with &apos; so the blob survives SQL binding;
//   - substitute the fixed entity table to UTF-8 codepoints.
func sanitizeEntities(raw string) string {
	cleaned := inlineTagPattern.ReplaceAllString(raw, "")
	cleaned = strings.ReplaceAll(cleaned, "'", "&apos;")
	for entity, repl := range entityTable {
		cleaned = strings.ReplaceAll(cleaned, entity, repl)
	}
	return cleaned
}

// reEscape re-escapes <, >, ' that the XML parser decoded back out of the
// paragraph body (spec §4.5, step 5): the content is HTML-in-XML, so once
// decoded it must be re-escaped to render as literal text rather than be
// reinterpreted as markup downstream.
func reEscape(s string) string {
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, "'", "&apos;")
	return s
}
