// Package atc loads the multilingual ATC classification text file and
// resolves it to a single code→name map for one requested language (spec
// §4.2, §6: "../input/atc_codes_multi_lingual.txt").
//
// The retrieval pack does not carry the feed's literal column layout, so a
// minimal tab-separated shape is assumed, one line per code:
//
//	<code>\t<name-de>\t<name-fr>\t<name-it>\t<name-en>
package atc

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/ywesee/cpp2sqlite-go/internal/xerr"
)

var languageColumn = map[string]int{
	"de": 1,
	"fr": 2,
	"it": 3,
	"en": 4,
}

// Loader is an immutable code→name map for one language.
type Loader struct {
	names map[string]string
}

// Load reads the ATC file at path and keeps only the requested language's
// name column. An unrecognised lang falls back to "de".
func Load(path, lang string) (*Loader, error) {
	col, ok := languageColumn[lang]
	if !ok {
		col = languageColumn["de"]
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("atc: %w: %s", xerr.ErrInputMissing, path)
	}
	defer f.Close()

	l := &Loader{names: make(map[string]string)}

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r\n")
		if line == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) <= col {
			continue // malformed line: skipped, never fatal
		}
		code := strings.TrimSpace(fields[0])
		if code == "" {
			continue
		}
		l.names[code] = strings.TrimSpace(fields[col])
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("atc: %w: %v", xerr.ErrParseFatal, err)
	}

	return l, nil
}

// NameByCode returns the resolved-language name for code, or "" if unknown.
func (l *Loader) NameByCode(code string) string {
	return l.names[code]
}
