package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mocchh/hltv-monitor/internal/config"
	"github.com/mocchh/hltv-monitor/internal/fetch"
	"github.com/mocchh/hltv-monitor/internal/layout"
	"github.com/mocchh/hltv-monitor/internal/logger"
	"github.com/mocchh/hltv-monitor/internal/notify"
	"github.com/mocchh/hltv-monitor/internal/render"
	"github.com/mocchh/hltv-monitor/internal/report"
	"github.com/mocchh/hltv-monitor/internal/schedule"
	"github.com/mocchh/hltv-monitor/internal/scrape"
	"github.com/mocchh/hltv-monitor/internal/storage"
	"github.com/mocchh/hltv-monitor/internal/telegram"
)

var flagDryRun bool

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hltv-monitor",
		Short: "Chat bot delivering HLTV match report images",
		Long: `A Telegram bot that scrapes the upcoming HLTV match schedule,
renders the high-importance matches as an image, and delivers it to
subscribers on a daily schedule or on demand via /hltv.`,
		RunE: run,
	}

	cmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "Generate one report and print deliveries without sending")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	logger.SetDefault(logger.New(logger.ParseLevel(cfg.LogLevel), os.Stdout))

	store, err := storage.New(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}

	subs, err := store.LoadSubscribers()
	if err != nil {
		logger.Warn("could not load subscribers, starting empty", logger.Fields{
			"error": err.Error(),
		})
		subs = make(map[string]struct{})
	}
	logger.Info("subscribers loaded", logger.Fields{"count": len(subs)})

	gen, err := newGenerator(cfg)
	if err != nil {
		return err
	}

	if flagDryRun {
		return runDryRun(gen, subs)
	}

	client, err := telegram.NewClient(cfg.BotToken)
	if err != nil {
		return fmt.Errorf("creating telegram client: %w", err)
	}

	b := newBot(gen, notify.NewTelegramNotifier(client), store, subs)

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return fmt.Errorf("loading timezone %q: %w", cfg.Timezone, err)
	}

	st, err := store.LoadScheduleTime()
	if err != nil {
		logger.Warn("could not load schedule time, using default", logger.Fields{
			"error": err.Error(),
		})
	}

	sched, err := schedule.NewDaily(st.Hour, st.Minute, loc, b.runScheduled)
	if err != nil {
		return fmt.Errorf("creating scheduler: %w", err)
	}
	b.scheduler = sched

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sched.Start(ctx)
	logger.Info("daily report scheduled", logger.Fields{
		"time":     fmt.Sprintf("%02d:%02d", st.Hour, st.Minute),
		"timezone": cfg.Timezone,
	})

	return b.poll(ctx, client, cfg.PollTimeoutSeconds)
}

func newGenerator(cfg *config.Config) (*report.Generator, error) {
	theme := render.DefaultTheme()
	theme.LogoDir = cfg.LogoDir
	theme.LogoKey = render.NormalizeLogoKey

	renderer, err := render.New(theme, cfg.OutputPath)
	if err != nil {
		return nil, fmt.Errorf("initializing renderer: %w", err)
	}

	return &report.Generator{
		URL:       cfg.SourceURL,
		Limit:     cfg.MatchLimit,
		Fetcher:   fetch.New(time.Duration(cfg.FetchTimeoutSeconds) * time.Second),
		Extractor: &scrape.Extractor{MinStars: cfg.MinStars},
		Layout:    layout.DefaultConfig(),
		Renderer:  renderer,
	}, nil
}

// runDryRun generates one report and prints what would be delivered.
func runDryRun(gen *report.Generator, subs map[string]struct{}) error {
	ctx, cancel := context.WithTimeout(context.Background(), produceTimeout)
	defer cancel()

	path, err := gen.Produce(ctx)
	if err != nil {
		return err
	}

	dry := notify.NewDryRunNotifier()
	for dest := range subs {
		dry.SendImage(dest, path, reportCaption)
	}
	fmt.Printf("Report written to %s (%d subscribers)\n", path, len(subs))
	return nil
}
