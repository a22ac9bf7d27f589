package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/nao1215/sitescope/internal/config"
	"github.com/nao1215/sitescope/internal/fetch"
	"github.com/nao1215/sitescope/internal/model"
	"github.com/nao1215/sitescope/internal/normalize"
	"github.com/nao1215/sitescope/internal/report"
	"github.com/spf13/cobra"
)

// NewWatchCmd creates the watch command.
func NewWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Fetch each site URL typed on standard input",
		Long: `Watch reads site URLs from standard input, one per line, and fetches
each one as it is entered. The report of the latest line is printed as soon
as its manifest arrives.

Entering a new line while a fetch is in flight cancels the older request;
its result is never shown. An empty line prints "Please enter a URL".

Examples:
  # Type URLs interactively
  sitescope watch

  # Feed URLs from another program
  tail -f urls.txt | sitescope watch --markdown`,
		Args: cobra.NoArgs,
		RunE: runWatchCmd,
	}

	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout for each manifest request (0 disables it)")
	cmd.Flags().String("origin", config.DefaultOrigin,
		"Origin used to resolve relative images and build item links")
	cmd.Flags().StringP("proxy", "x", "",
		"Route requests through a SOCKS5 proxy (e.g., 127.0.0.1:9050)")
	cmd.Flags().Bool("tor", false,
		"Start an embedded Tor daemon and route requests through it")
	cmd.Flags().DurationP("tor-timeout", "T", config.DefaultTorStartupTimeout,
		"Timeout for embedded Tor startup")
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .sitescope in current or home directory)")
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON reports")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown reports")

	return cmd
}

// runWatchCmd executes the watch command.
func runWatchCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildWatchConfig(cmd)
	if err != nil {
		return err
	}

	if err := cfg.ValidateSettings(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(cmd.ErrOrStderr(), cfg.Verbose, cfg.LogJSON)
	slog.SetDefault(logger)

	ctx, cancel := signalContext(logger)
	defer cancel()

	return runWatch(ctx, cfg, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr(), logger)
}

// buildWatchConfig creates a Config from the watch command flags.
func buildWatchConfig(cmd *cobra.Command) (*config.Config, error) {
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

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	if err := loadSiteConfigs(cfg); err != nil {
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

	return cfg, nil
}

// runWatch submits every input line to a fetch controller and renders each
// state change. It returns when input ends and the last submission has
// settled, or when ctx is cancelled.
func runWatch(ctx context.Context, cfg *config.Config, stdin io.Reader, stdout, stderr io.Writer, logger *slog.Logger) error {
	// watch has no pipeline, so the request timeout sits on the client
	client, stop, err := newHTTPClient(ctx, cfg, cfg.Timeout, stderr, logger)
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

	writer, err := report.NewWriter(reportFormat(cfg), stdout, getVersion())
	if err != nil {
		return err
	}
	r := &stateRenderer{cfg: cfg, writer: writer, status: stderr, logger: logger}

	controller := fetch.NewController(fetcher,
		fetch.WithLogger(logger),
		fetch.WithOnChange(r.render),
	)

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(stdin)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	var last <-chan fetch.State
	for {
		select {
		case <-ctx.Done():
			controller.Cancel()
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				if last != nil {
					<-last
				}
				return nil
			}
			last = controller.SubmitAsync(ctx, line)
		}
	}
}

// stateRenderer prints controller states. It is called with the controller
// lock held, so calls never overlap.
type stateRenderer struct {
	cfg    *config.Config
	writer report.Writer
	status io.Writer
	logger *slog.Logger
}

func (r *stateRenderer) render(st fetch.State) {
	if l, ok := st.(fetch.Loading); ok {
		fmt.Fprintf(r.status, "Loading %s ...\n", l.URL)
		return
	}

	siteReport := stateReport(st, r.cfg)
	if siteReport == nil {
		return
	}
	if _, err := r.writer.Write(siteReport); err != nil {
		r.logger.Error("report failed", "url", siteReport.URL, "error", err)
	}
}

// stateReport converts a settled state into a report. Idle and Loading
// yield nil.
func stateReport(st fetch.State, cfg *config.Config) *model.SiteReport {
	switch s := st.(type) {
	case fetch.Failed:
		r := model.NewSiteReport(s.URL)
		r.URL = s.URL
		r.Fail(s.Err, s.Message())
		return r
	case fetch.Succeeded:
		origin, _ := cfg.ForTarget(s.URL)
		r := model.NewSiteReport(s.URL)
		r.URL = s.URL
		r.SetManifest(s.Manifest)
		r.Succeed(normalize.New(normalize.WithOrigin(origin)).BuildDisplayModel(s.Manifest))
		return r
	default:
		return nil
	}
}
