// Package pipeline implements the join-and-materialise driver (spec §4.7):
// for every Medicine, in AIPS document order, it assembles one amikodb row
// from the source loaders, the package merger, the monograph rewriter, and
// the pediatric-dose HTML generator, then commits it through a Writer.
package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ywesee/cpp2sqlite-go/internal/merge"
	"github.com/ywesee/cpp2sqlite-go/internal/model"
	"github.com/ywesee/cpp2sqlite-go/internal/monograph"
	"github.com/ywesee/cpp2sqlite-go/internal/peddosehtml"
	"github.com/ywesee/cpp2sqlite-go/internal/platform/sqlitewriter"
	"github.com/ywesee/cpp2sqlite-go/internal/xerr"
)

// ApplicationSource is the subset of internal/loader/swissmedic.Loader the
// driver needs for the application-string join.
type ApplicationSource interface {
	ApplicationByRn(rn string) string
}

// BagApplicationSource is the subset of internal/loader/bag.Loader the
// driver needs beyond what merge.BagSource already covers.
type BagApplicationSource interface {
	merge.BagSource
	TindexByRn(rn string) string
	ApplicationByRn(rn string) string
}

// ATCSource is the subset of internal/loader/atc.Loader the driver needs:
// a fallback name for medicines whose AIPS record carries an ATC code but
// no active-substance text (mirrors original_source/atc.hpp's
// ATC::validate(regnrs, name) cross-check).
type ATCSource interface {
	NameByCode(code string) string
}

// Loaders bundles every source the driver joins against. Each field is a
// narrow interface (teacher's repository pattern,
// internal/domain/medication/service.go) rather than a concrete loader
// type, so the driver can be tested against small fakes.
type Loaders struct {
	Refdata         merge.RefdataSource
	Swissmedic      ApplicationSource
	SwissmedicMerge merge.SwissmedicSource
	Bag             BagApplicationSource
	Peddose         peddosehtml.Source
	ATC             ATCSource
}

// Stats accumulates the end-of-run summary spec §7 requires.
type Stats struct {
	Rows  int
	Merge merge.Stats
}

func (s *Stats) add(m merge.Stats) {
	s.Rows++
	s.Merge.FoundRefdata += m.FoundRefdata
	s.Merge.FoundSwissmedic += m.FoundSwissmedic
	s.Merge.FoundBag += m.FoundBag
	s.Merge.AugmentedGTINs += m.AugmentedGTINs
	s.Merge.OrphanRNs = append(s.Merge.OrphanRNs, m.OrphanRNs...)
}

// Driver runs the join for a full Medicine list against a fixed set of
// loaders and an output Writer.
type Driver struct {
	loaders Loaders
	writer  sqlitewriter.Writer
	log     zerolog.Logger
}

// NewDriver builds a Driver. log is used for progress (every 60 rows,
// mirroring the original tool's "\r{pct} %" interactive progress bar,
// spec §4.7) and the end-of-run stats summary.
func NewDriver(loaders Loaders, writer sqlitewriter.Writer, log zerolog.Logger) *Driver {
	return &Driver{loaders: loaders, writer: writer, log: log}
}

const progressInterval = 60

// Run iterates medicines in their given (AIPS document) order, assembling
// and committing one row per medicine, and returns the accumulated stats.
func (d *Driver) Run(ctx context.Context, medicines []model.Medicine) (Stats, error) {
	var stats Stats
	n := len(medicines)

	for i, m := range medicines {
		if ctx.Err() != nil {
			return stats, fmt.Errorf("pipeline: %w", ctx.Err())
		}

		row, mergeStats := d.assembleRow(m)
		stats.add(mergeStats)

		if err := d.writer.BindRow(row); err != nil {
			return stats, fmt.Errorf("pipeline: row %d (%q): %w", i, m.Title, err)
		}

		if (i+1)%progressInterval == 0 {
			d.log.Info().Int("row", i+1).Int("of", n).Int("pct", 100*(i+1)/n).Msg("progress")
		}
	}

	d.log.Info().
		Int("rows", stats.Rows).
		Int("foundRefdata", stats.Merge.FoundRefdata).
		Int("foundSwissmedic", stats.Merge.FoundSwissmedic).
		Int("foundBag", stats.Merge.FoundBag).
		Int("orphanRNs", len(stats.Merge.OrphanRNs)).
		Int("augmentedGTINs", stats.Merge.AugmentedGTINs).
		Msg("pipeline complete")

	return stats, nil
}

func (d *Driver) assembleRow(m model.Medicine) (sqlitewriter.RowValues, merge.Stats) {
	regnrs := m.RegNrsList

	tindex := ""
	application := ""
	if len(regnrs) > 0 {
		firstRn := regnrs[0]
		tindex = d.loaders.Bag.TindexByRn(firstRn)
		application = d.loaders.Swissmedic.ApplicationByRn(firstRn)
		if bagApp := d.loaders.Bag.ApplicationByRn(firstRn); bagApp != "" {
			if application != "" {
				application += ";" + bagApp
			} else {
				application = bagApp
			}
		}
	}

	substance := m.ActiveSubstance
	if substance == "" && d.loaders.ATC != nil && m.AtcCode != "" {
		substance = d.loaders.ATC.NameByCode(m.AtcCode)
	}

	packInfo, packages, mergeStats := merge.Merge(regnrs, d.loaders.Refdata, d.loaders.SwissmedicMerge, d.loaders.Bag)

	html, fellBack := monograph.Rewrite(m.RawContentXML, regnrs, m.AuthHolder, mergeStats.GTINs)
	if fellBack {
		d.log.Warn().Err(xerr.ErrRewriterParse).Str("title", m.Title).Msg("monograph xml did not parse, emitting cleaned raw xml")
	}
	if d.loaders.Peddose != nil && m.AtcCode != "" {
		if table := peddosehtml.Table(d.loaders.Peddose, m.AtcCode); table != "" {
			html = strings.Replace(html, "</div></body></html>", table+"</div></body></html>", 1)
		}
	}

	row := sqlitewriter.RowValues{
		Title:           m.Title,
		AuthHolder:      m.AuthHolder,
		AtcCode:         m.AtcCode,
		ActiveSubstance: substance,
		RegNrs:          m.RegNrs,
		Tindex:          tindex,
		Application:     application,
		PackInfo:        packInfo,
		Content:         html,
		Packages:        packages,
	}
	return row, mergeStats
}
