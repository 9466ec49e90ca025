// Package cli wires the packing planner, the comparison harness, and the
// HTTP server into a cobra command tree.
//
//	stowpack pack --boxes manifest.csv --pdf layout.pdf
//	stowpack compare --seed 42
//	stowpack serve --addr :8080
package cli

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"path/filepath"
	"strings"
	"time"

	"github.com/piwi3910/StowPack/internal/config"
	"github.com/piwi3910/StowPack/internal/engine"
	"github.com/piwi3910/StowPack/internal/export"
	"github.com/piwi3910/StowPack/internal/history"
	"github.com/piwi3910/StowPack/internal/importer"
	"github.com/piwi3910/StowPack/internal/model"
	"github.com/piwi3910/StowPack/internal/server"
	"github.com/spf13/cobra"
)

var configFile string

// BuildCLI constructs the root command with all subcommands attached.
func BuildCLI() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "stowpack",
		Short: "StowPack: warehouse box placement with guaranteed retrieval paths",
		Long: `StowPack plans 2D warehouse layouts where every placed box keeps a
collision-free path back out of the storage area. It produces packing
paths from the dock, a shuffled retrieval schedule, and escape routes
for every box.`,
		Version: "1.0.0",
	}

	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", config.DefaultPath(), "config file path")

	rootCmd.AddCommand(buildPackCommand())
	rootCmd.AddCommand(buildCompareCommand())
	rootCmd.AddCommand(buildServeCommand())

	return rootCmd
}

func buildPackCommand() *cobra.Command {
	var (
		boxFile   string
		seed      int64
		algorithm string
		jsonOut   string
		pdfOut    string
		labelsOut string
		archive   bool
		keepRuns  int
	)

	cmd := &cobra.Command{
		Use:   "pack",
		Short: "Plan a packing run",
		Long:  "Place boxes (generated or imported from a manifest) and write the result as JSON, a PDF report, or QR retrieval labels.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configFile)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if algorithm != "" {
				cfg.Tuning.Algorithm = model.Algorithm(algorithm)
				if err := cfg.Tuning.Validate(); err != nil {
					return err
				}
			}

			rng := newRand(seed, cfg.Seed)
			boxes, err := loadBoxes(boxFile, cfg.Warehouse, rng)
			if err != nil {
				return err
			}

			packer := engine.NewPacker(cfg.Warehouse, cfg.Tuning, rng)
			result := packer.Pack(cmd.Context(), boxes)

			printSummary(result, cfg.Warehouse)

			if jsonOut != "" {
				if err := export.ExportJSON(jsonOut, result, cfg.Warehouse); err != nil {
					return fmt.Errorf("failed to write JSON: %w", err)
				}
				log.Printf("Wrote %s\n", jsonOut)
			}
			if pdfOut != "" {
				if err := export.ExportPDF(pdfOut, result, cfg.Warehouse); err != nil {
					return fmt.Errorf("failed to write PDF report: %w", err)
				}
				log.Printf("Wrote %s\n", pdfOut)
			}
			if labelsOut != "" {
				if err := export.ExportLabels(labelsOut, result); err != nil {
					return fmt.Errorf("failed to write labels: %w", err)
				}
				log.Printf("Wrote %s\n", labelsOut)
			}
			if archive {
				dir, err := history.DefaultDir()
				if err != nil {
					return fmt.Errorf("failed to resolve history dir: %w", err)
				}
				path, err := history.Save(dir, cfg.Warehouse, cfg.Tuning, result)
				if err != nil {
					return fmt.Errorf("failed to archive run: %w", err)
				}
				log.Printf("Archived %s\n", path)
				if keepRuns > 0 {
					if _, err := history.Prune(dir, keepRuns); err != nil {
						return fmt.Errorf("failed to prune history: %w", err)
					}
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&boxFile, "boxes", "b", "", "box manifest (.csv, .xlsx, or .dxf); omit to generate boxes")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 = from config, then clock)")
	cmd.Flags().StringVar(&algorithm, "algorithm", "", "placement algorithm: greedy or genetic")
	cmd.Flags().StringVar(&jsonOut, "json", "", "write the result as JSON to this path")
	cmd.Flags().StringVar(&pdfOut, "pdf", "", "write a PDF layout report to this path")
	cmd.Flags().StringVar(&labelsOut, "labels", "", "write QR retrieval labels to this path")
	cmd.Flags().BoolVar(&archive, "archive", false, "archive the run under ~/.stowpack/history")
	cmd.Flags().IntVar(&keepRuns, "keep-runs", 0, "with --archive, prune history beyond this many runs (0 = keep all)")

	return cmd
}

func buildCompareCommand() *cobra.Command {
	var (
		boxFile string
		seed    int64
	)

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare tuning scenarios on the same box set",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configFile)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			rng := newRand(seed, cfg.Seed)
			boxes, err := loadBoxes(boxFile, cfg.Warehouse, rng)
			if err != nil {
				return err
			}

			scenarios := engine.BuildDefaultScenarios(cfg.Tuning)
			results := engine.CompareScenarios(cfg.Warehouse, scenarios, boxes, rng.Int63())

			fmt.Printf("%-20s %10s %10s %10s\n", "Scenario", "Density", "Unplaced", "Fallbacks")
			for _, r := range results {
				fmt.Printf("%-20s %9.1f%% %10d %10d\n",
					r.Scenario.Name, r.Density, r.UnplacedCount, r.FallbackCount)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&boxFile, "boxes", "b", "", "box manifest (.csv, .xlsx, or .dxf); omit to generate boxes")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 = from config, then clock)")

	return cmd
}

func buildServeCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP planning API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configFile)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}

			log.Printf("Listening on %s\n", cfg.Server.Addr)
			return server.New(cfg).Run()
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")

	return cmd
}

// newRand builds the run's random source: explicit flag first, then the
// config seed, then the clock.
func newRand(flagSeed, cfgSeed int64) *rand.Rand {
	seed := flagSeed
	if seed == 0 {
		seed = cfgSeed
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// loadBoxes reads the manifest when given, generating boxes otherwise.
// Import errors are fatal; import warnings are logged.
func loadBoxes(path string, cfg model.WarehouseConfig, rng *rand.Rand) ([]model.Box, error) {
	if path == "" {
		return engine.GenerateBoxes(cfg, rng), nil
	}

	var imported importer.ImportResult
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		imported = importer.ImportCSV(path)
	case ".xlsx", ".xls":
		imported = importer.ImportExcel(path)
	case ".dxf":
		imported = importer.ImportDXF(path)
	default:
		return nil, fmt.Errorf("unsupported manifest format %q (want .csv, .xlsx, or .dxf)", filepath.Ext(path))
	}

	for _, w := range imported.Warnings {
		log.Printf("import: %s\n", w)
	}
	if len(imported.Errors) > 0 {
		return nil, fmt.Errorf("manifest import failed: %s", strings.Join(imported.Errors, "; "))
	}
	if len(imported.Boxes) == 0 {
		return nil, fmt.Errorf("manifest %s contains no boxes", path)
	}
	return imported.Boxes, nil
}

// printSummary writes the run outcome to stdout.
func printSummary(result model.PackingResult, cfg model.WarehouseConfig) {
	fmt.Printf("Run %s\n", result.RunID)
	fmt.Printf("Placed %d of %d boxes, density %.1f%%\n",
		result.PackedCount(), len(result.Boxes), model.Density(result.Boxes, cfg))

	if n := result.FallbackCount(); n > 0 {
		fmt.Printf("%d packing path(s) used the direct fallback\n", n)
	}
	for _, w := range result.Warnings {
		fmt.Printf("warning: %s\n", w)
	}

	order := make([]string, len(result.RetrievalOrder))
	for i, id := range result.RetrievalOrder {
		order[i] = fmt.Sprintf("#%d", id)
	}
	fmt.Printf("Retrieval order: %s\n", strings.Join(order, " "))
}

// Run executes the CLI, returning the process exit code.
func Run(ctx context.Context) int {
	if err := BuildCLI().ExecuteContext(ctx); err != nil {
		fmt.Println(err)
		return 1
	}
	return 0
}
