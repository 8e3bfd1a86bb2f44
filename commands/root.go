package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/penwyp/go-career-timeline/internal/analyzer"
	"github.com/penwyp/go-career-timeline/internal/application/watch"
	"github.com/penwyp/go-career-timeline/internal/util"
	"github.com/spf13/cobra"

	_ "github.com/joho/godotenv/autoload"
)

var (
	// Logging related
	debug bool

	// Input related
	inputs     []string
	configFile string

	// Layout related
	now            string
	columnWidth    float64
	viewportWidth  float64
	leadingPadding float64
	layoutName     string

	// Output related
	outputFormat string
	timezone     string
	fullWidth    bool

	// Filtering
	categories []string

	rootCmd = &cobra.Command{
		Use:   "go-career-timeline [flags] [input...]",
		Short: "Career timeline layout tool",
		Long: `go-career-timeline lays out work and volunteer history on a month grid.

Records are read from JSON or YAML files, directories of them, stdin ("-") or
an http(s) URL. Each role becomes a horizontal bar; the view scrolls so the
current month is centered.

Examples:
  go-career-timeline -i cv.json                          # Chart for one file
  go-career-timeline -i experiences.yaml -i volunteering.yaml
  go-career-timeline -i https://cms.example.com/api/cv -o json
  go-career-timeline -i cv.json --now 2024-06 -o table   # Pin the current month
  go-career-timeline -i cv.json --category volunteer     # Volunteer roles only
  cat cv.json | go-career-timeline -i - -o csv`,
		Args: cobra.ArbitraryArgs,
		RunE: runRender,
	}
)

const (
	defaultLogFile = "~/.go-career-timeline/logs/app.log"
	sourceEnv      = "TIMELINE_SOURCE"
)

func init() {
	// Input configuration
	rootCmd.PersistentFlags().StringArrayVarP(&inputs, "input", "i", nil,
		"Record source: file, directory, - for stdin, or http(s) URL (repeatable, env "+sourceEnv+")")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "",
		"YAML config file; flags override its values")

	// Layout configuration
	rootCmd.PersistentFlags().StringVar(&now, "now", "",
		"Pin the current date (e.g. 2024-06, 2024-06-15)")
	rootCmd.PersistentFlags().Float64Var(&columnWidth, "column-width", 0,
		"Width of one month column (0 = pick by layout)")
	rootCmd.PersistentFlags().Float64Var(&viewportWidth, "viewport-width", 0,
		"Visible width used for scroll planning (0 = terminal width)")
	rootCmd.PersistentFlags().Float64Var(&leadingPadding, "padding", 0,
		"Leading padding before the first month column")
	rootCmd.PersistentFlags().StringVar(&layoutName, "layout", "",
		"Layout strategy (desktop, compact; empty = by terminal width)")

	// Output configuration
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "chart",
		"Output format (chart, table, summary, json, csv)")
	rootCmd.PersistentFlags().StringVar(&timezone, "timezone", "Local",
		"Timezone used to determine the current month (e.g. Europe/London, UTC)")
	rootCmd.Flags().BoolVar(&fullWidth, "full", false,
		"Draw every month instead of the scrolled viewport")

	// Filtering
	rootCmd.PersistentFlags().StringSliceVar(&categories, "category", nil,
		"Categories to show (work, volunteer, all)")

	// System and debugging
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false,
		"Enable debug mode")
}

func runRender(cmd *cobra.Command, args []string) error {
	if err := initLogging(); err != nil {
		return err
	}

	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	cats, err := cfg.ParsedCategories()
	if err != nil {
		return err
	}

	config := &analyzer.Config{
		Inputs:         cfg.Inputs,
		OutputFormat:   cfg.Output,
		Timezone:       cfg.Timezone,
		Now:            now,
		Categories:     cats,
		ColumnWidth:    cfg.ColumnWidth,
		ViewportWidth:  cfg.ViewportWidth,
		LeadingPadding: cfg.LeadingPadding,
		Layout:         layoutName,
		FullWidth:      fullWidth,
		Concurrency:    cfg.Concurrency,
	}

	a, err := analyzer.New(config)
	if err != nil {
		return err
	}
	return a.Run(cmd.Context(), cmd.OutOrStdout())
}

func Execute() error {
	return rootCmd.Execute()
}

// Helper functions

func initLogging() error {
	logLevel := "info"
	if debug {
		logLevel = "debug"
	}

	logFile := expandPath(defaultLogFile)
	if err := ensureDir(filepath.Dir(logFile)); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	return util.InitLogger(logLevel, logFile, debug, util.FormatText)
}

// loadConfig layers the config file, then explicitly set flags, then
// positional inputs and the environment for anything still missing
func loadConfig(cmd *cobra.Command, args []string) (*watch.Config, error) {
	cfg := &watch.Config{}
	if configFile != "" {
		if err := watch.LoadConfigFile(expandPath(configFile), cfg); err != nil {
			return nil, err
		}
	}

	flags := cmd.Flags()
	override := func(name string, zero bool) bool {
		return flags.Changed(name) || zero
	}

	if flags.Changed("input") || len(cfg.Inputs) == 0 {
		cfg.Inputs = append([]string{}, inputs...)
	}
	cfg.Inputs = append(cfg.Inputs, args...)
	if len(cfg.Inputs) == 0 {
		if env := strings.TrimSpace(os.Getenv(sourceEnv)); env != "" {
			cfg.Inputs = strings.Split(env, ",")
		}
	}
	if len(cfg.Inputs) == 0 {
		return nil, fmt.Errorf("no input given: pass --input, a positional path or set %s", sourceEnv)
	}
	for i, in := range cfg.Inputs {
		in = strings.TrimSpace(in)
		if in != "-" && !strings.Contains(in, "://") {
			in = expandPath(in)
		}
		cfg.Inputs[i] = in
	}

	if override("column-width", cfg.ColumnWidth == 0) {
		cfg.ColumnWidth = columnWidth
	}
	if override("viewport-width", cfg.ViewportWidth == 0) {
		cfg.ViewportWidth = viewportWidth
	}
	if override("padding", cfg.LeadingPadding == 0) {
		cfg.LeadingPadding = leadingPadding
	}
	if override("output", cfg.Output == "") {
		cfg.Output = outputFormat
	}
	if override("timezone", cfg.Timezone == "") {
		cfg.Timezone = timezone
	}
	if override("category", len(cfg.Categories) == 0) {
		cfg.Categories = categories
	}
	if cfg.Concurrency == 0 {
		cfg.Concurrency = runtime.NumCPU()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path[2:])
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return absPath
}

func ensureDir(dir string) error {
	return os.MkdirAll(dir, 0755)
}
