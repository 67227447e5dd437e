// stigcheck - DISA STIG compliance scanner
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/stigops/stigcheck/internal/checks"
	"github.com/stigops/stigcheck/internal/config"
	"github.com/stigops/stigcheck/internal/hostquery"
	"github.com/stigops/stigcheck/internal/logging"
	"github.com/stigops/stigcheck/internal/report"
	"github.com/stigops/stigcheck/internal/xccdf"
	"github.com/stigops/stigcheck/pkg/version"
)

func main() {
	var (
		showVersion = flag.Bool("version", false, "Show version information")
		benchmark   = flag.String("xccdf", "", "Path to the XCCDF benchmark to scan against")
		catalogDir  = flag.String("catalog", "", "Directory of YAML check definitions")
		format      = flag.String("format", "", "Report format: console, json, csv, markdown")
		output      = flag.String("output", "", "Report output path (default stdout)")
		severity    = flag.String("severity", "", "Only evaluate rules of these severities (comma separated)")
		timeout     = flag.Int("timeout", 0, "Per-check query timeout in seconds")
		configPath  = flag.String("config", "", "Path to the configuration file")
		list        = flag.Bool("list", false, "List parsed rules without running checks")
		debug       = flag.Bool("debug", false, "Enable debug logging")
	)
	flag.Parse()

	if *showVersion {
		fmt.Println(version.Get().String())
		os.Exit(0)
	}

	paths := config.DefaultPaths()

	logger, cleanup := logging.Setup(logging.Config{LogDir: paths.LogDir, Debug: *debug})
	defer cleanup()

	cfg, err := loadConfig(*configPath, paths)
	if err != nil {
		logger.Error("loading configuration failed", "error", err)
		os.Exit(1)
	}

	// Flags override the config file.
	if *benchmark != "" {
		cfg.BenchmarkPath = *benchmark
	}
	if *catalogDir != "" {
		cfg.CatalogDir = *catalogDir
	}
	if *format != "" {
		cfg.Format = *format
	}
	if *severity != "" {
		cfg.Severities = strings.Split(*severity, ",")
	}
	if *timeout > 0 {
		cfg.QueryTimeoutSeconds = *timeout
	}

	if err := run(cfg, *output, *list, logger); err != nil {
		logger.Error("scan failed", "error", err)
		os.Exit(1)
	}
}

func loadConfig(path string, paths config.Paths) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	cfg, err := config.Load(paths.ConfigFile)
	if errors.Is(err, config.ErrConfigNotFound) {
		return config.Default(paths), nil
	}
	return cfg, err
}

func run(cfg *config.Config, output string, listOnly bool, logger *slog.Logger) error {
	if cfg.BenchmarkPath == "" {
		return fmt.Errorf("no benchmark given (use -xccdf or set benchmark_path in the config)")
	}

	// A parse failure is fatal before any checks run; there is nothing
	// meaningful to check without a valid rule set.
	bench, err := xccdf.ParseFile(cfg.BenchmarkPath)
	if err != nil {
		return err
	}
	logger.Info("parsed benchmark",
		"benchmark", bench.Title,
		"rules", len(bench.Rules),
	)

	rules := filterSeverities(bench.Rules, cfg.Severities)
	if len(rules) < len(bench.Rules) {
		logger.Info("severity filter applied",
			"selected", len(rules),
			"total", len(bench.Rules),
		)
	}
	filtered := &xccdf.Benchmark{Title: bench.Title, Rules: rules}

	if listOnly {
		return listRules(filtered)
	}

	registry, err := buildRegistry(cfg.CatalogDir, logger)
	if err != nil {
		return err
	}

	// SIGINT/SIGTERM abort the run between checks; results already
	// produced still make it into the report.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runner := checks.NewRunner(logger, registry, hostquery.NewSystem(),
		checks.WithQueryTimeout(cfg.QueryTimeout()))

	startedAt := time.Now()
	results := runner.Run(ctx, filtered.Rules)
	finishedAt := time.Now()

	rep, err := report.New(filtered, results, startedAt, finishedAt)
	if err != nil {
		return err
	}
	rep.CollectHost(ctx)

	if err := writeReport(rep, cfg.Format, output); err != nil {
		return err
	}

	if rep.Summary.NonCompliant > 0 || rep.Summary.Errors > 0 {
		os.Exit(2)
	}
	return nil
}

// buildRegistry registers catalog definitions first, then the built-in
// checks for rules the catalog does not cover.
func buildRegistry(catalogDir string, logger *slog.Logger) (*checks.Registry, error) {
	registry := checks.NewRegistry()

	if catalogDir != "" {
		if _, err := os.Stat(catalogDir); err == nil {
			defs, err := checks.LoadDir(catalogDir)
			if err != nil {
				return nil, err
			}
			if err := registry.RegisterDefinitions(defs); err != nil {
				return nil, err
			}
			logger.Info("loaded check catalog", "dir", catalogDir, "definitions", len(defs))
		}
	}

	for _, d := range checks.BuiltinDefinitions() {
		if _, exists := registry.Lookup(d.RuleID); exists {
			continue
		}
		c, err := d.Check()
		if err != nil {
			return nil, err
		}
		if err := registry.Register(d.RuleID, c); err != nil {
			return nil, err
		}
	}

	return registry, nil
}

func filterSeverities(rules []xccdf.Rule, severities []string) []xccdf.Rule {
	if len(severities) == 0 {
		return rules
	}
	want := make(map[xccdf.Severity]bool, len(severities))
	for _, s := range severities {
		want[xccdf.Severity(strings.TrimSpace(s))] = true
	}
	var out []xccdf.Rule
	for _, r := range rules {
		if want[r.Severity] {
			out = append(out, r)
		}
	}
	return out
}

func listRules(bench *xccdf.Benchmark) error {
	for _, r := range bench.Rules {
		fmt.Printf("%s\t%s\t%s\n", r.ID, r.Severity, r.Title)
	}
	return nil
}

func writeReport(rep *report.Report, format, output string) error {
	var data []byte
	var err error

	switch format {
	case "json":
		data, err = report.JSON(rep)
	case "csv":
		data, err = report.CSV(rep)
	case "markdown":
		data, err = report.Markdown(rep)
	case "console", "":
		data = []byte(report.Console(rep))
	default:
		return fmt.Errorf("unknown report format %q", format)
	}
	if err != nil {
		return err
	}

	if output == "" || output == "-" {
		_, err = os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(output, data, 0644)
}
