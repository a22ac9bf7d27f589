package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/nao1215/sitescope/internal/config"
	"github.com/nao1215/sitescope/internal/fetch"
	"github.com/nao1215/sitescope/internal/history"
	"github.com/nao1215/sitescope/internal/model"
	"github.com/nao1215/sitescope/internal/normalize"
	"github.com/nao1215/sitescope/internal/pipeline"
	"github.com/nao1215/sitescope/internal/report"
	"github.com/spf13/cobra"
)

// NewFetchCmd creates the fetch command.
func NewFetchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetch [site-url...]",
		Short: "Fetch site.json manifests and render them",
		Long: `Fetch requests <site-url>/site.json for each target, validates the
manifest, and renders the site overview and one card per content item.

A target may be written with or without a scheme; https is assumed when
none is given. Trailing slashes are ignored.

Examples:
  # Fetch a single site
  sitescope fetch https://example.org/my-site

  # Fetch several sites, four at a time
  sitescope fetch --batch site-a.example.org site-b.example.org

  # Read targets from a file, one per line
  sitescope fetch --list sites.txt

  # Output JSON to a file
  sitescope fetch --json -o report.json example.org

  # Print the manifest itself
  sitescope fetch --raw example.org

  # Route requests through a SOCKS5 proxy and record them
  sitescope fetch --proxy 127.0.0.1:9050 --save example.org

Configuration file (.sitescope) example:
  defaults:
    timeout: 30s
  sites:
    example.org:
      origin: https://example.org
      timeout: 10s`,
		Args: cobra.ArbitraryArgs,
		RunE: runFetchCmd,
	}

	// Target flags
	cmd.Flags().StringP("list", "l", "",
		"Read targets from a file, one per line (# starts a comment)")

	// Request flags
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout for each manifest request (0 disables it)")
	cmd.Flags().String("origin", config.DefaultOrigin,
		"Origin used to resolve relative images and build item links")
	cmd.Flags().String("user-agent", config.DefaultUserAgent,
		"User-Agent header sent with requests")
	cmd.Flags().Int64("max-body-size", config.DefaultMaxBodySize,
		"Largest manifest accepted, in bytes")

	// Transport flags
	cmd.Flags().StringP("proxy", "x", "",
		"Route requests through a SOCKS5 proxy (e.g., 127.0.0.1:9050)")
	cmd.Flags().Bool("tor", false,
		"Start an embedded Tor daemon and route requests through it")
	cmd.Flags().DurationP("tor-timeout", "T", config.DefaultTorStartupTimeout,
		"Timeout for embedded Tor startup")

	// Batch flags
	cmd.Flags().BoolP("batch", "b", false,
		"Fetch targets concurrently")
	cmd.Flags().Int("batch-size", config.DefaultBatchSize,
		"Number of concurrent fetches with --batch")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .sitescope in current or home directory)")

	// History flags
	cmd.Flags().BoolP("save", "s", false,
		"Record every fetch in the history database")
	cmd.Flags().String("db-dir", config.XDGDataDir(),
		"Directory of the history database")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report")
	cmd.Flags().BoolP("raw", "r", false,
		"Output the fetched manifest, pretty-printed")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")

	return cmd
}

// runFetchCmd executes the fetch command.
func runFetchCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(cmd.ErrOrStderr(), cfg.Verbose, cfg.LogJSON)
	slog.SetDefault(logger)

	ctx, cancel := signalContext(logger)
	defer cancel()

	return runFetch(ctx, cfg, cmd.OutOrStdout(), cmd.ErrOrStderr(), logger)
}

// buildConfig creates a Config from cobra command flags.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error

	cfg.Verbose = getVerboseFlag(cmd)
	cfg.LogJSON = getLogJSONFlag(cmd)

	cfg.Timeout, err = cmd.Flags().GetDuration("timeout")
	if err != nil {
		return nil, err
	}

	cfg.Origin, err = cmd.Flags().GetString("origin")
	if err != nil {
		return nil, err
	}

	cfg.UserAgent, err = cmd.Flags().GetString("user-agent")
	if err != nil {
		return nil, err
	}

	cfg.MaxBodySize, err = cmd.Flags().GetInt64("max-body-size")
	if err != nil {
		return nil, err
	}

	cfg.ProxyAddress, err = cmd.Flags().GetString("proxy")
	if err != nil {
		return nil, err
	}

	cfg.UseTor, err = cmd.Flags().GetBool("tor")
	if err != nil {
		return nil, err
	}

	cfg.TorStartupTimeout, err = cmd.Flags().GetDuration("tor-timeout")
	if err != nil {
		return nil, err
	}

	cfg.Batch, err = cmd.Flags().GetBool("batch")
	if err != nil {
		return nil, err
	}

	cfg.BatchSize, err = cmd.Flags().GetInt("batch-size")
	if err != nil {
		return nil, err
	}

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	if err := loadSiteConfigs(cfg); err != nil {
		return nil, err
	}

	cfg.SaveToDB, err = cmd.Flags().GetBool("save")
	if err != nil {
		return nil, err
	}

	cfg.DBDir, err = cmd.Flags().GetString("db-dir")
	if err != nil {
		return nil, err
	}

	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}

	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}

	cfg.RawReport, err = cmd.Flags().GetBool("raw")
	if err != nil {
		return nil, err
	}

	cfg.ReportFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	cfg.Targets = append(cfg.Targets, args...)

	listPath, err := cmd.Flags().GetString("list")
	if err != nil {
		return nil, err
	}
	if listPath != "" {
		targets, err := readTargetList(listPath)
		if err != nil {
			return nil, err
		}
		cfg.Targets = append(cfg.Targets, targets...)
	}

	return cfg, nil
}

// readTargetList reads one target per line. Blank lines and lines starting
// with # are skipped.
func readTargetList(path string) ([]string, error) {
	f, err := os.Open(path) //nolint:gosec // user-provided list path is intentional
	if err != nil {
		return nil, fmt.Errorf("failed to open target list: %w", err)
	}
	defer f.Close()

	var targets []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		targets = append(targets, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read target list: %w", err)
	}
	return targets, nil
}

// runFetch fetches every target and writes the reports.
func runFetch(ctx context.Context, cfg *config.Config, stdout, stderr io.Writer, logger *slog.Logger) error {
	logger.Info("starting fetch",
		"targets", len(cfg.Targets),
		"batch", cfg.Batch,
		"batchSize", cfg.BatchSize,
		"saveToDB", cfg.SaveToDB,
	)

	var store *history.Store
	if cfg.SaveToDB {
		var err error
		store, err = history.Open(cfg.DBDir, history.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open history database: %w", err)
		}
		defer store.Close()
		logger.Info("history database opened", "path", store.Path())
	}

	client, stop, err := newHTTPClient(ctx, cfg, 0, stderr, logger)
	if err != nil {
		return err
	}
	defer stop()

	fetcher := fetch.NewHTTPFetcher(
		fetch.WithHTTPClient(client),
		fetch.WithUserAgent(cfg.UserAgent),
		fetch.WithMaxBodySize(cfg.MaxBodySize),
		fetch.WithFetcherLogger(logger),
	)

	concurrency := 1
	if cfg.Batch {
		concurrency = cfg.BatchSize
	}

	bp := pipeline.NewBatchProcessor(
		newPipelineFactory(cfg, fetcher, store, logger),
		pipeline.WithConcurrency(concurrency),
		pipeline.WithBatchLogger(logger),
	)

	startTime := time.Now()
	reports, batchErr := bp.ProcessBatch(ctx, cfg.Targets)
	logger.Info("fetch finished", "elapsed", time.Since(startTime).Round(time.Millisecond))

	if err := writeReports(cfg, stdout, stderr, reports); err != nil {
		return err
	}
	if batchErr != nil {
		return batchErr
	}

	failed := 0
	for _, r := range reports {
		if r.Status != model.StatusSucceeded {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%w: %d of %d sites could not be fetched", errFetchFailed, failed, len(reports))
	}
	return nil
}

// newPipelineFactory returns a factory that builds the pipeline for one
// target, applying the per-site origin and timeout from the config file.
func newPipelineFactory(cfg *config.Config, fetcher fetch.Fetcher, store *history.Store, logger *slog.Logger) pipeline.Factory {
	return func(target string) *pipeline.Pipeline {
		origin, timeout := cfg.ForTarget(target)

		p := pipeline.New(pipeline.WithLogger(logger))
		p.AddSteps(
			pipeline.NewFetchStep(fetcher,
				pipeline.WithFetchTimeout(timeout),
				pipeline.WithFetchLogger(logger),
			),
			pipeline.NewNormalizeStep(normalize.New(normalize.WithOrigin(origin))),
		)
		if store != nil {
			p.AddStep(pipeline.NewRecordStep(store, logger))
		}
		return p
	}
}

// writeReports writes reports in the configured format. A single report is
// written on its own; several get a summary.
func writeReports(cfg *config.Config, stdout, stderr io.Writer, reports []*model.SiteReport) error {
	output, closeOutput, err := openOutput(stdout, cfg.ReportFile)
	if err != nil {
		return err
	}
	defer closeOutput() //nolint:errcheck // write errors are reported below

	writer, err := report.NewWriter(reportFormat(cfg), output, getVersion())
	if err != nil {
		return err
	}

	if len(reports) == 1 {
		_, err = writer.Write(reports[0])
	} else {
		_, err = writer.WriteAll(reports)
	}

	// raw output has nothing to print for a failed target; say why on stderr
	if errors.Is(err, report.ErrNoManifest) {
		for _, r := range reports {
			if r.Manifest == nil {
				fmt.Fprintf(stderr, "%s: %s\n", r.Target, r.ErrorMessage)
			}
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
