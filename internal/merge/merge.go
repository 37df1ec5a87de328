// Package merge implements the package-set merger (spec §4.3), the
// price/category decorator (§4.4), and the line-ordering Beautifier that
// spec §2 lists as components 5, 6 and 10.
//
// Grounded on the teacher's repository-interface pattern
// (internal/domain/medication/service.go: a Service depends on narrow
// *Repository interfaces, not concrete structs) — Merge depends on the
// three source-lookup interfaces below rather than the concrete loader
// types, so it can be tested with small fakes and is decoupled from the
// loader packages' internal representation.
package merge

import (
	"sort"
	"strings"

	"github.com/ywesee/cpp2sqlite-go/internal/model"
)

// RefdataSource is the subset of internal/loader/refdata.Loader the merger
// needs.
type RefdataSource interface {
	NamesByRn(rn string, usedGtins map[string]bool) []model.NamedGTIN
}

// SwissmedicSource is the subset of internal/loader/swissmedic.Loader the
// merger needs.
type SwissmedicSource interface {
	AdditionalNamesByRn(rn string, usedGtins map[string]bool) []model.NamedGTIN
	CategoryByGTIN(gtin13 string) string
}

// BagSource is the subset of internal/loader/bag.Loader the merger needs.
type BagSource interface {
	AdditionalNamesByRn(rn string, usedGtins map[string]bool) []model.NamedGTIN
	PricesAndFlags(gtin13, fallbackPrice, category string) string
}

// defaultPriceFallback is used when BAG has no price for a GTIN this
// merger is otherwise decorating.
const defaultPriceFallback = "0.00"

// packagesTemplate is the per-line "packages" column content (spec §6);
// every package line in a medicine's block gets one, in lock-step with its
// packInfo line (spec §9 redesign — see Merge's doc comment below).
const packagesTemplate = "|||CHF 0.00|CHF 0.00||||,,,|||255|0"

// Stats accumulates the end-of-run summary spec §7 requires: "counts of
// RNs found/not-found in each source, total augmented GTINs".
type Stats struct {
	FoundRefdata    int
	FoundSwissmedic int
	FoundBag        int
	OrphanRNs       []string
	AugmentedGTINs  int
	GTINs           []string // every GTIN claimed across this medicine's RNs, for barcode injection
}

// Merge builds a medicine's packInfo and packages blobs from its RN list,
// per spec §4.3's precedence/de-duplication contract (Refdata > Swissmedic
// > BAG, first source to claim a GTIN wins).
//
// [REDESIGN per spec.md §9]: instead of a single constant packages-template
// string regardless of package count (the flagged latent defect, Testable
// Property 3), packagesTemplate is repeated once per package line, and the
// Beautifier (§4.3, §9) is applied to a single combined
// (packInfoLine, packagesLine) pair slice sorted once by the packInfo line,
// so both blobs reorder identically and their line counts always match.
func Merge(regnrs []string, rf RefdataSource, sm SwissmedicSource, bg BagSource) (packInfo, packages string, stats Stats) {
	var pairs []Pair

	for _, rn := range regnrs {
		usedGtins := make(map[string]bool)

		refdataLines := rf.NamesByRn(rn, usedGtins)
		if len(refdataLines) > 0 {
			stats.FoundRefdata++
		}

		swissmedicLines := sm.AdditionalNamesByRn(rn, usedGtins)
		if len(swissmedicLines) > 0 {
			stats.FoundSwissmedic++
		}

		bagLines := bg.AdditionalNamesByRn(rn, usedGtins)
		if len(bagLines) > 0 {
			stats.FoundBag++
		}

		if len(usedGtins) == 0 {
			stats.OrphanRNs = append(stats.OrphanRNs, rn)
			continue
		}
		stats.AugmentedGTINs += len(usedGtins)
		for g := range usedGtins {
			stats.GTINs = append(stats.GTINs, g)
		}

		for _, batch := range [][]model.NamedGTIN{refdataLines, swissmedicLines, bagLines} {
			for _, ng := range batch {
				category := sm.CategoryByGTIN(ng.GTIN13)
				deco := Decorate(bg, ng.GTIN13, defaultPriceFallback, category)
				pairs = append(pairs, Pair{
					PackInfoLine: ng.Name + deco,
					PackagesLine: packagesTemplate,
				})
			}
		}
	}

	Beautify(pairs)
	sort.Strings(stats.GTINs)

	packInfoLines := make([]string, len(pairs))
	packagesLines := make([]string, len(pairs))
	for i, p := range pairs {
		packInfoLines[i] = p.PackInfoLine
		packagesLines[i] = p.PackagesLine
	}

	return strings.Join(packInfoLines, "\n"), strings.Join(packagesLines, "\n"), stats
}

// Pair couples one packInfo line with its corresponding packages line so
// the Beautifier can reorder both together (see Merge's doc comment).
type Pair struct {
	PackInfoLine string
	PackagesLine string
}

// Beautify re-orders pairs lexicographically by PackInfoLine, in place,
// keeping each PackagesLine attached to the PackInfoLine it was derived
// from (spec §4.3: "passed through the Beautifier, which re-orders lines
// lexicographically while preserving intra-line content").
func Beautify(pairs []Pair) {
	sort.SliceStable(pairs, func(i, j int) bool {
		return pairs[i].PackInfoLine < pairs[j].PackInfoLine
	})
}
