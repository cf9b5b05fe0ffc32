package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/mocchh/hltv-monitor/internal/fetch"
	"github.com/mocchh/hltv-monitor/internal/layout"
	"github.com/mocchh/hltv-monitor/internal/logger"
	"github.com/mocchh/hltv-monitor/internal/match"
	"github.com/mocchh/hltv-monitor/internal/render"
	"github.com/mocchh/hltv-monitor/internal/report"
	"github.com/mocchh/hltv-monitor/internal/scrape"
)

var (
	flagURL      string
	flagOut      string
	flagLogoDir  string
	flagLimit    int
	flagMinStars int
	flagTimeout  time.Duration
	flagDryRun   bool
	flagVerbose  bool
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hltv-report",
		Short: "Generate one HLTV match report image",
		Long: `Fetches the upcoming match schedule, selects the high-importance
matches, and renders them as a PNG. Prints the output path.`,
		RunE: runReport,
	}

	cmd.Flags().StringVar(&flagURL, "url", "http://49.4.115.149:8080/latest_matches.html", "Schedule page to scrape")
	cmd.Flags().StringVar(&flagOut, "out", "matches.png", "Output image path")
	cmd.Flags().StringVar(&flagLogoDir, "logo-dir", "", "Team logo asset directory (empty disables logos)")
	cmd.Flags().IntVar(&flagLimit, "limit", match.DefaultLimit, "Maximum matches in the report")
	cmd.Flags().IntVar(&flagMinStars, "min-stars", scrape.DefaultMinStars, "Minimum lit stars for a match to qualify")
	cmd.Flags().DurationVar(&flagTimeout, "timeout", fetch.DefaultTimeout, "Fetch timeout")
	cmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "List selected matches as text without rendering")
	cmd.Flags().BoolVar(&flagVerbose, "verbose", false, "Enable debug logging")

	return cmd
}

func runReport(cmd *cobra.Command, args []string) error {
	if flagVerbose {
		logger.SetDefault(logger.New(logger.LevelDebug, os.Stderr))
	} else {
		logger.SetDefault(logger.New(logger.LevelWarn, os.Stderr))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if flagDryRun {
		return listMatches(ctx)
	}

	theme := render.DefaultTheme()
	theme.LogoDir = flagLogoDir
	theme.LogoKey = render.NormalizeLogoKey

	renderer, err := render.New(theme, flagOut)
	if err != nil {
		return fmt.Errorf("initializing renderer: %w", err)
	}

	gen := &report.Generator{
		URL:       flagURL,
		Limit:     flagLimit,
		Fetcher:   fetch.New(flagTimeout),
		Extractor: &scrape.Extractor{MinStars: flagMinStars},
		Layout:    layout.DefaultConfig(),
		Renderer:  renderer,
	}

	path, err := gen.Produce(ctx)
	if err != nil {
		return err
	}

	fmt.Println(path)
	return nil
}

// listMatches prints the selection as text instead of rendering it.
func listMatches(ctx context.Context) error {
	raw, err := fetch.New(flagTimeout).Fetch(ctx, flagURL)
	if err != nil {
		return err
	}

	ex := &scrape.Extractor{MinStars: flagMinStars}
	records, err := ex.Extract(bytes.NewReader(raw))
	if err != nil {
		return err
	}

	selected := match.Select(records, flagLimit)
	if len(selected) == 0 {
		fmt.Println("No upcoming matches")
		return nil
	}

	for _, rec := range selected {
		fmt.Printf("%s  %-40s %s vs %s (BO%d, %d stars)\n",
			rec.StartTime.Format("2006-01-02 15:04"),
			rec.Event, rec.Team1, rec.Team2, rec.BestOf, rec.Stars)
	}
	return nil
}
