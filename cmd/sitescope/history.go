package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/nao1215/sitescope/internal/config"
	"github.com/nao1215/sitescope/internal/fetch"
	"github.com/nao1215/sitescope/internal/history"
	"github.com/spf13/cobra"
)

// defaultHistoryLimit is the number of entries listed per URL.
const defaultHistoryLimit = 20

// NewHistoryCmd creates the history command.
// It reads the fetch log written by 'sitescope fetch --save'.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [site-url]",
		Short: "Show recorded fetches",
		Long: `History lists fetches recorded with 'sitescope fetch --save'.

Without an argument it lists every recorded site with its latest fetch.
With a site URL it lists the fetches of that site, newest first.

With --changed it compares the two latest successful fetches of a site and
reports whether its manifest changed between them.

Examples:
  # List recorded sites
  sitescope history

  # List fetches of one site
  sitescope history example.org

  # Check whether the manifest changed
  sitescope history --changed example.org

  # Output in JSON format
  sitescope history --json example.org`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	cmd.Flags().Bool("changed", false,
		"Compare the two latest successful fetches of the site")
	cmd.Flags().IntP("limit", "n", defaultHistoryLimit,
		"Maximum number of fetches to list")
	cmd.Flags().String("db-dir", config.XDGDataDir(),
		"Directory of the history database")
	cmd.Flags().BoolP("json", "j", false,
		"Output in JSON format")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, args []string) error {
	changed, err := cmd.Flags().GetBool("changed")
	if err != nil {
		return err
	}
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}
	dbDir, err := cmd.Flags().GetString("db-dir")
	if err != nil {
		return err
	}
	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}

	// Validate arguments before opening the database
	var url string
	if len(args) == 1 {
		url, err = fetch.NormalizeURL(args[0])
		if err != nil {
			return fmt.Errorf("invalid site URL: %w", err)
		}
	}
	if changed && url == "" {
		return errors.New("site URL is required with --changed")
	}
	if limit <= 0 {
		return errors.New("limit must be positive")
	}

	store, err := history.Open(dbDir, history.Options{EnableWAL: true})
	if err != nil {
		if errors.Is(err, history.ErrDatabaseNotFound) {
			return fmt.Errorf("no history recorded yet (run 'sitescope fetch --save' first): %w", err)
		}
		return fmt.Errorf("failed to open history database: %w", err)
	}
	defer store.Close()

	ctx := context.Background()
	out := cmd.OutOrStdout()

	switch {
	case changed:
		return showChange(ctx, out, store, url, jsonOutput)
	case url != "":
		return listFetches(ctx, out, store, url, limit, jsonOutput)
	default:
		return listSites(ctx, out, store, jsonOutput)
	}
}

// listSites prints every recorded URL with its latest fetch.
func listSites(ctx context.Context, out io.Writer, store *history.Store, jsonOutput bool) error {
	urls, err := store.ListURLs(ctx)
	if err != nil {
		return err
	}

	latest := make([]history.Entry, 0, len(urls))
	for _, url := range urls {
		entry, err := store.Latest(ctx, url)
		if err != nil {
			return err
		}
		latest = append(latest, *entry)
	}

	if jsonOutput {
		return writeJSON(out, latest)
	}

	if len(latest) == 0 {
		fmt.Fprintln(out, "No fetches recorded.")
		return nil
	}

	fmt.Fprintf(out, "Recorded sites (%d):\n\n", len(latest))
	for _, e := range latest {
		fmt.Fprintf(out, "  %s\n", e.URL)
		fmt.Fprintf(out, "    Last fetch: %s  %s\n", formatTime(e.FetchedAt), entrySummary(e))
	}
	return nil
}

// listFetches prints the fetches of url, newest first.
func listFetches(ctx context.Context, out io.Writer, store *history.Store, url string, limit int, jsonOutput bool) error {
	entries, err := store.List(ctx, url, limit)
	if err != nil {
		return err
	}

	if jsonOutput {
		return writeJSON(out, entries)
	}

	if len(entries) == 0 {
		fmt.Fprintf(out, "No fetches recorded for %s.\n", url)
		return nil
	}

	fmt.Fprintf(out, "Fetch history for %s:\n\n", url)
	fmt.Fprintf(out, "  %-26s  %-20s  %8s  %s\n", "ID", "FETCHED", "DURATION", "RESULT")
	for _, e := range entries {
		fmt.Fprintf(out, "  %-26s  %-20s  %8s  %s\n",
			e.ID,
			formatTime(e.FetchedAt),
			e.Duration.Round(time.Millisecond),
			entrySummary(e),
		)
	}
	return nil
}

// showChange prints whether the manifest of url changed between its two
// latest successful fetches.
func showChange(ctx context.Context, out io.Writer, store *history.Store, url string, jsonOutput bool) error {
	change, err := store.Changed(ctx, url)
	if err != nil {
		if errors.Is(err, history.ErrNotEnoughHistory) {
			return fmt.Errorf("need two successful fetches to compare (run 'sitescope fetch --save %s' again): %w", url, err)
		}
		return err
	}

	if jsonOutput {
		return writeJSON(out, change)
	}

	fmt.Fprintf(out, "Site: %s\n", url)
	fmt.Fprintf(out, "  Previous: %s  %s\n", formatTime(change.Previous.FetchedAt), entrySummary(change.Previous))
	fmt.Fprintf(out, "  Current:  %s  %s\n", formatTime(change.Current.FetchedAt), entrySummary(change.Current))
	if change.Changed {
		fmt.Fprintln(out, "\nThe manifest has changed.")
		if change.Previous.ItemCount != change.Current.ItemCount {
			fmt.Fprintf(out, "Items: %d -> %d\n", change.Previous.ItemCount, change.Current.ItemCount)
		}
		if change.Previous.Title != change.Current.Title {
			fmt.Fprintf(out, "Title: %q -> %q\n", change.Previous.Title, change.Current.Title)
		}
	} else {
		fmt.Fprintln(out, "\nThe manifest is unchanged.")
	}
	return nil
}

// entrySummary describes an entry in one line.
func entrySummary(e history.Entry) string {
	if e.ErrorMessage != "" {
		return "ERROR - " + e.ErrorMessage
	}
	return fmt.Sprintf("%q, %d items", e.Title, e.ItemCount)
}

func formatTime(t time.Time) string {
	return t.Local().Format("2006-01-02 15:04:05")
}

func writeJSON(out io.Writer, v any) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
