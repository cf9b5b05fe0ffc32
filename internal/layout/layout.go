package layout

import (
	"time"

	"github.com/mocchh/hltv-monitor/internal/match"
)

// Config fixes the band geometry of a report. All values are constants of
// the visual design; content never resizes a band.
type Config struct {
	Width             int
	Padding           int
	TitleHeight       int
	DateHeaderHeight  int
	DateHeaderGap     int // vertical space around the separator line, split evenly
	CardHeight        int
	CardGap           int
	PlaceholderHeight int
}

// DefaultConfig returns the report geometry: an 800px-wide canvas with the
// card band sized for three text rows.
func DefaultConfig() Config {
	return Config{
		Width:             800,
		Padding:           40,
		TitleHeight:       55,
		DateHeaderHeight:  60,
		DateHeaderGap:     40,
		CardHeight:        114,
		CardGap:           15,
		PlaceholderHeight: 60,
	}
}

// DateHeader marks the start of a calendar-date group.
type DateHeader struct {
	Date  time.Time
	LineY int // separator line position
	TextY int // top of the header label band
}

// Card positions one match card. Index refers into the record slice the
// plan was computed from.
type Card struct {
	Index int
	Y     int
}

// Plan maps a time-sorted record sequence to vertical offsets on a
// pre-sized canvas. It is computed fresh per report and never mutated.
type Plan struct {
	Config  Config
	Width   int
	Height  int
	TitleY  int
	Headers []DateHeader
	Cards   []Card

	// Empty marks a plan computed for zero records; PlaceholderY is the
	// top of the "no upcoming matches" band and is set only then.
	Empty        bool
	PlaceholderY int
}

// Compute walks records once, tracking the last seen calendar date, and
// reserves a header band on every date transition and a card band per
// record. Records must already be time-sorted; matches within a date keep
// their order. The total height is final before any drawing happens, which
// the renderer requires to size its canvas up front.
func Compute(records []match.Record, cfg Config) Plan {
	p := Plan{
		Config: cfg,
		Width:  cfg.Width,
		TitleY: cfg.Padding,
	}

	y := cfg.Padding + cfg.TitleHeight

	if len(records) == 0 {
		p.Empty = true
		p.PlaceholderY = y
		p.Height = y + cfg.PlaceholderHeight + cfg.Padding
		return p
	}

	lastDate := ""
	for i, rec := range records {
		if d := rec.Date(); d != lastDate {
			p.Headers = append(p.Headers, DateHeader{
				Date:  rec.StartTime,
				LineY: y + cfg.DateHeaderGap/2,
				TextY: y + cfg.DateHeaderGap,
			})
			y += cfg.DateHeaderGap + cfg.DateHeaderHeight
			lastDate = d
		}

		p.Cards = append(p.Cards, Card{Index: i, Y: y})
		y += cfg.CardHeight + cfg.CardGap
	}

	p.Height = y + cfg.Padding
	return p
}
