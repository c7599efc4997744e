package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"csvaudit"
	"csvaudit/internal/config"
	"csvaudit/internal/dataset"
	"csvaudit/internal/fixture"
	"csvaudit/internal/mirror"
	"csvaudit/internal/sampler"
	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/cobra"
)

const reportFileName = "dataset_summary_statistics.md"

var (
	configPath string

	dataDir    string
	outDir     string
	reportFile string
	excelFile  string
	jsonFile   string

	sampleSrc  string
	sampleDest string
	sampleMax  int

	mirrorDir string
	mirrorURL string

	genDir       string
	genSeed      int64
	genCompanies int
	genContacts  int
	genOrphanPct int
	genNullPct   int

	initPath string
)

var rootCmd = &cobra.Command{
	Use:   "csvaudit",
	Short: "Audit related CSV exports for schema drift, broken keys, and coverage gaps",
	Long: `csvaudit treats a directory of CSV files as one dataset and checks it against
a dataset description: expected column types per file and the key relationships
between files. It reports type mismatches, referential integrity, null rates,
and date coverage, and can excerpt oversized exports or mirror them into a
SQL database for ad-hoc querying.`,
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Audit a dataset directory and write the reports",
	RunE:  runAnalyze,
}

var sampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Excerpt each CSV file so the dataset fits in a code review",
	RunE:  runSample,
}

var mirrorCmd = &cobra.Command{
	Use:   "mirror",
	Short: "Load the dataset into a SQL database for ad-hoc queries",
	RunE:  runMirror,
}

var genCmd = &cobra.Command{
	Use:   "gen",
	Short: "Generate a synthetic dataset for trying the tool out",
	RunE:  runGen,
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the built-in dataset description as a starting point",
	RunE:  runInit,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "JSON dataset description (default: built-in)")

	analyzeCmd.Flags().StringVar(&dataDir, "data-dir", envOr("CSVAUDIT_DATA_DIR", "private/datasets"), "directory of CSV files to audit")
	analyzeCmd.Flags().StringVar(&outDir, "out-dir", envOr("CSVAUDIT_OUT_DIR", "private/analysis"), "directory for the report and detail files")
	analyzeCmd.Flags().StringVar(&reportFile, "report", "", "report file path (default <out-dir>/"+reportFileName+")")
	analyzeCmd.Flags().StringVar(&excelFile, "excel", "", "also write an Excel workbook to this path")
	analyzeCmd.Flags().StringVar(&jsonFile, "json", "", "also write the JSON result to this path")

	sampleCmd.Flags().StringVar(&sampleSrc, "data-dir", envOr("CSVAUDIT_DATA_DIR", "private/datasets"), "directory of CSV files to excerpt")
	sampleCmd.Flags().StringVar(&sampleDest, "out-dir", "private/samples", "directory for the excerpts (cleared first)")
	sampleCmd.Flags().IntVar(&sampleMax, "max-rows", sampler.DefaultMaxRows, "row cutoff between copying whole and sampling")

	mirrorCmd.Flags().StringVar(&mirrorDir, "data-dir", envOr("CSVAUDIT_DATA_DIR", "private/datasets"), "directory of CSV files to load")
	mirrorCmd.Flags().StringVar(&mirrorURL, "database-url", envOr("CSVAUDIT_DATABASE_URL", "sqlite://private/data/database/intent-data.db"), "postgres://, mysql://, or sqlite:// target")

	genCmd.Flags().StringVar(&genDir, "data-dir", envOr("CSVAUDIT_DATA_DIR", "private/datasets"), "directory for the generated CSV files")
	genCmd.Flags().Int64Var(&genSeed, "seed", 1, "generator seed")
	genCmd.Flags().IntVar(&genCompanies, "companies", 0, "company count (default 40)")
	genCmd.Flags().IntVar(&genContacts, "contacts", 0, "contact count (default 120)")
	genCmd.Flags().IntVar(&genOrphanPct, "orphan-pct", 0, "percentage of child keys pointing nowhere")
	genCmd.Flags().IntVar(&genNullPct, "null-pct", 0, "percentage of nullable cells left empty")

	initCmd.Flags().StringVar(&initPath, "path", "csvaudit.json", "where to write the starter description")

	rootCmd.AddCommand(analyzeCmd, sampleCmd, mirrorCmd, genCmd, initCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := datasetDescription()
	if err != nil {
		return err
	}

	res, err := csvaudit.Analyze(dataDir, cfg)
	if err != nil {
		return err
	}

	reportPath := reportFile
	if reportPath == "" {
		reportPath = filepath.Join(outDir, reportFileName)
	}
	opts := &csvaudit.ReportOptions{
		ReportPath: reportPath,
		DetailDir:  outDir,
		ExcelPath:  excelFile,
		JSONPath:   jsonFile,
		Summary:    cmd.OutOrStdout(),
	}
	if err := csvaudit.WriteReports(res, opts); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "\nFull report: %s\n", reportPath)
	return nil
}

func runSample(cmd *cobra.Command, args []string) error {
	results, err := sampler.Run(sampleSrc, sampleDest, sampler.Options{MaxRows: sampleMax})
	if err != nil {
		return err
	}

	for _, r := range results {
		verb := "copied"
		if r.Sampled {
			verb = "sampled"
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s -> %s (%d rows)\n", verb, r.Source, r.Output, r.Rows)
	}
	return nil
}

func runMirror(cmd *cobra.Command, args []string) error {
	cfg, err := datasetDescription()
	if err != nil {
		return err
	}
	if cfg == nil {
		cfg = config.Default()
	}

	c, err := dataset.Load(mirrorDir)
	if err != nil {
		return err
	}
	for _, le := range c.Errors {
		fmt.Fprintf(os.Stderr, "warning: skipping %s: %v\n", le.File, le.Err)
	}

	summary, err := mirror.Mirror(context.Background(), c, cfg, mirrorURL)
	if err != nil {
		return err
	}

	for _, tl := range summary.Tables {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "loaded %s into %s (%d rows)\n", tl.File, tl.Table, tl.Rows)
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "created %d indexes\n", len(summary.Indexes))
	for _, s := range summary.SkippedIndexes {
		fmt.Fprintf(os.Stderr, "warning: index %s: %v\n", s.Name, s.Err)
	}
	return nil
}

func runGen(cmd *cobra.Command, args []string) error {
	files, err := fixture.Generate(genDir, fixture.Options{
		Seed:      genSeed,
		Companies: genCompanies,
		Contacts:  genContacts,
		OrphanPct: genOrphanPct,
		NullPct:   genNullPct,
	})
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "wrote %d files to %s\n", len(files), genDir)
	return nil
}

func runInit(cmd *cobra.Command, args []string) error {
	if _, err := os.Stat(initPath); err == nil {
		return fmt.Errorf("%s already exists", initPath)
	}

	data, err := json.MarshalIndent(config.Default(), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(initPath, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", initPath)
	return nil
}

// datasetDescription loads --config, or returns nil so the library falls
// back to the built-in description.
func datasetDescription() (*config.Config, error) {
	if configPath == "" {
		return nil, nil
	}
	return csvaudit.LoadConfig(configPath)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
