// Command cpp2sqlite builds a single-file SQLite database (amikodb) from
// the Swiss pharmaceutical reference feeds (AIPS, Swissmedic, Refdata, BAG,
// ATC, SwissPedDose) — spec §1, §6.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ywesee/cpp2sqlite-go/internal/config"
	"github.com/ywesee/cpp2sqlite-go/internal/loader/aips"
	"github.com/ywesee/cpp2sqlite-go/internal/loader/atc"
	"github.com/ywesee/cpp2sqlite-go/internal/loader/bag"
	"github.com/ywesee/cpp2sqlite-go/internal/loader/peddose"
	"github.com/ywesee/cpp2sqlite-go/internal/loader/refdata"
	"github.com/ywesee/cpp2sqlite-go/internal/loader/swissmedic"
	"github.com/ywesee/cpp2sqlite-go/internal/pipeline"
	"github.com/ywesee/cpp2sqlite-go/internal/platform/sqlitewriter"
)

func main() {
	rootCmd := rootCommand()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// rootCommand wires the single build command — the spec's tool has one
// mode of operation per invocation, so there are no subcommands (grounded
// on the teacher's cmd/ehr-server/main.go root-command/RunE pattern, here
// with a single flat command instead of serve/migrate/tenant).
func rootCommand() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:     "cpp2sqlite",
		Short:   "Build amikodb from Swiss pharmaceutical reference feeds",
		Version: "1.0.0",
		RunE: func(cmd *cobra.Command, args []string) error {
			v.BindPFlag("IN_DIR", cmd.Flags().Lookup("inDir"))
			v.BindPFlag("LANG", cmd.Flags().Lookup("lang"))
			v.BindPFlag("VERBOSE", cmd.Flags().Lookup("verbose"))
			v.BindPFlag("XML", cmd.Flags().Lookup("xml"))
			v.BindPFlag("PINFO", cmd.Flags().Lookup("pinfo"))
			v.BindPFlag("PSEUDO", cmd.Flags().Lookup("pseudo"))
			v.BindPFlag("INTER", cmd.Flags().Lookup("inter"))
			v.BindPFlag("GLN", cmd.Flags().Lookup("gln"))
			v.BindPFlag("SHOP", cmd.Flags().Lookup("shop"))
			v.BindPFlag("ZURROSE", cmd.Flags().Lookup("zurrose"))
			v.BindPFlag("DESITIN", cmd.Flags().Lookup("desitin"))
			v.BindPFlag("REPORTS", cmd.Flags().Lookup("reports"))

			cfg, err := config.Load(v)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}

	cmd.Flags().String("inDir", "", "root of input files (required)")
	cmd.Flags().String("lang", "de", "language for localised fields: de, fr, it, en")
	cmd.Flags().Bool("verbose", false, "emit orphan-RN list and per-loader stats")
	cmd.Flags().Bool("xml", false, "skip DB emission (stub)")
	cmd.Flags().Bool("pinfo", false, "select patient-info monographs (type=pi); otherwise fi")
	cmd.Flags().Bool("pseudo", false, "accepted; no core behaviour")
	cmd.Flags().Bool("inter", false, "accepted; no core behaviour")
	cmd.Flags().Bool("gln", false, "accepted; no core behaviour")
	cmd.Flags().Bool("shop", false, "accepted; no core behaviour")
	cmd.Flags().Bool("zurrose", false, "accepted; no core behaviour")
	cmd.Flags().Bool("desitin", false, "accepted; no core behaviour")
	cmd.Flags().Bool("reports", false, "accepted; no core behaviour")
	cmd.MarkFlagRequired("inDir")

	return cmd
}

func newLogger(verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(level).
		With().Timestamp().Logger()
}

func run(ctx context.Context, cfg *config.Config) error {
	log := newLogger(cfg.Verbose)

	// Read order mirrors the original tool: swissmedic before AIPS (so AIPS
	// could backfill missing ATC codes from it), then ATC, then AIPS, then
	// refdata, then bag.
	log.Info().Str("path", cfg.InDir).Msg("loading swissmedic")
	sm, err := swissmedic.Load(filepath.Join(cfg.InDir, "swissmedic_packages_xlsx.xlsx"))
	if err != nil {
		return fmt.Errorf("cpp2sqlite: %w", err)
	}

	log.Info().Str("lang", cfg.Lang).Msg("loading atc")
	atcLoader, err := atc.Load(filepath.Join(cfg.InDir, "..", "input", "atc_codes_multi_lingual.txt"), cfg.Lang)
	if err != nil {
		return fmt.Errorf("cpp2sqlite: %w", err)
	}

	medType := cfg.MedicineType()
	log.Info().Str("type", medType).Msg("loading aips")
	medicines, err := aips.Load(filepath.Join(cfg.InDir, "aips_xml.xml"), medType)
	if err != nil {
		return fmt.Errorf("cpp2sqlite: %w", err)
	}

	log.Info().Msg("loading refdata")
	rf, err := refdata.Load(filepath.Join(cfg.InDir, "refdata_pharma_xml.xml"))
	if err != nil {
		return fmt.Errorf("cpp2sqlite: %w", err)
	}

	log.Info().Msg("loading bag")
	bg, err := bag.Load(filepath.Join(cfg.InDir, "bag_preparations_xml.xml"))
	if err != nil {
		return fmt.Errorf("cpp2sqlite: %w", err)
	}

	// SwissPedDose is optional (spec §6: "optional: swisspeddose_xml.xml").
	var pd *peddose.Loader
	pedPath := filepath.Join(cfg.InDir, "swisspeddose_xml.xml")
	if _, statErr := os.Stat(pedPath); statErr == nil {
		log.Info().Msg("loading swisspeddose")
		pd, err = peddose.Load(pedPath, cfg.Lang)
		if err != nil {
			return fmt.Errorf("cpp2sqlite: %w", err)
		}
	} else {
		log.Debug().Msg("swisspeddose not present, skipping pediatric tables")
	}

	if cfg.XML {
		log.Warn().Msg("--xml: DB emission skipped (stub)")
		return nil
	}

	dbFilename := fmt.Sprintf("amiko_db_full_idx_%s.db", cfg.Lang)
	writer, err := sqlitewriter.Open(ctx, dbFilename)
	if err != nil {
		return fmt.Errorf("cpp2sqlite: %w", err)
	}
	defer writer.Close()

	loaders := pipeline.Loaders{
		Refdata:         rf,
		Swissmedic:      sm,
		SwissmedicMerge: sm,
		Bag:             bg,
		ATC:             atcLoader,
	}
	if pd != nil {
		loaders.Peddose = pd
	}

	driver := pipeline.NewDriver(loaders, writer, log)
	log.Info().Str("file", dbFilename).Msg("populating database")
	stats, err := driver.Run(ctx, medicines)
	if err != nil {
		return fmt.Errorf("cpp2sqlite: %w", err)
	}

	log.Info().
		Int("rows", stats.Rows).
		Int("foundRefdata", stats.Merge.FoundRefdata).
		Int("foundSwissmedic", stats.Merge.FoundSwissmedic).
		Int("foundBag", stats.Merge.FoundBag).
		Int("orphanRNs", len(stats.Merge.OrphanRNs)).
		Msg("done")

	if len(stats.Merge.OrphanRNs) > 0 {
		if cfg.Verbose {
			log.Info().Strs("orphanRNs", stats.Merge.OrphanRNs).Msg("RNs not found in any source")
		} else {
			log.Warn().Msg("run with --verbose to see RNs not found in any source")
		}
	}

	return nil
}
