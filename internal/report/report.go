package report

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/cenkalti/backoff/v4"

	"github.com/mocchh/hltv-monitor/internal/fetch"
	"github.com/mocchh/hltv-monitor/internal/layout"
	"github.com/mocchh/hltv-monitor/internal/logger"
	"github.com/mocchh/hltv-monitor/internal/match"
	"github.com/mocchh/hltv-monitor/internal/render"
	"github.com/mocchh/hltv-monitor/internal/scrape"
)

// DefaultFetchRetries is the number of additional fetch attempts after the
// first one fails retryably.
const DefaultFetchRetries = 2

// Fetcher retrieves the raw schedule document.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Generator wires the pipeline stages for one report source.
type Generator struct {
	URL       string
	Limit     int
	Fetcher   Fetcher
	Extractor *scrape.Extractor
	Layout    layout.Config
	Renderer  *render.Renderer

	// FetchRetries overrides DefaultFetchRetries when positive.
	FetchRetries uint64
}

// Produce runs the full pipeline and returns the report image path. Each
// run allocates its own records, plan, and temporary render file, so
// concurrent calls are safe; they only share the final output slot.
func (g *Generator) Produce(ctx context.Context) (string, error) {
	raw, err := g.fetchWithRetry(ctx)
	if err != nil {
		return "", fmt.Errorf("fetching matches page: %w", err)
	}

	records, err := g.Extractor.Extract(bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("parsing matches page: %w", err)
	}

	selected := match.Select(records, g.Limit)
	plan := layout.Compute(selected, g.Layout)

	path, err := g.Renderer.Render(selected, plan)
	if err != nil {
		return "", err
	}

	logger.IncrCounter("reports.generated")
	logger.Info("report generated", logger.Fields{
		"extracted": len(records),
		"selected":  len(selected),
		"path":      path,
	})
	return path, nil
}

// fetchWithRetry wraps the single-shot fetcher in a bounded exponential
// backoff. Client errors from the source are permanent; transport problems
// and server errors are retried.
func (g *Generator) fetchWithRetry(ctx context.Context) ([]byte, error) {
	retries := g.FetchRetries
	if retries == 0 {
		retries = DefaultFetchRetries
	}

	var raw []byte
	op := func() error {
		b, err := g.Fetcher.Fetch(ctx, g.URL)
		if err != nil {
			var fe *fetch.Error
			if errors.As(err, &fe) && fe.Kind == fetch.KindStatus && fe.Status < http.StatusInternalServerError {
				return backoff.Permanent(err)
			}
			logger.Warn("fetch attempt failed", logger.Fields{
				"url":   g.URL,
				"error": err.Error(),
			})
			return err
		}
		raw = b
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), retries), ctx)
	if err := backoff.Retry(op, policy); err != nil {
		return nil, err
	}
	return raw, nil
}

// UserMessage converts a pipeline failure into the plain-text reply shown
// to a chat user in place of the image.
func UserMessage(err error) string {
	return fmt.Sprintf("Sorry, the match report could not be generated. Details: %v", err)
}
