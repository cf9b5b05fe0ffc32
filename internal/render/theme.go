package render

import (
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Theme is the data-driven visual style of a report. Every color, label and
// lookup rule lives here, so an alternative look is a configuration value,
// not a forked drawing routine.
type Theme struct {
	Background color.Color
	TitleColor color.Color
	DateColor  color.Color
	TextColor  color.Color
	LineColor  color.Color
	StarColor  color.Color
	CardFill   color.Color

	// BorderTop and BorderBottom are the gradient endpoints of the outline
	// drawn on maximum-importance cards.
	BorderTop    color.Color
	BorderBottom color.Color

	Title       string
	Placeholder string

	// WeekdayNames overrides the weekday labels in date headers; nil falls
	// back to English names.
	WeekdayNames map[time.Weekday]string

	// LogoDir is the directory searched for team logo images; empty
	// disables logo lookup. LogoKey normalizes a team name into the
	// filename stem used for the lookup; nil keeps the name as-is.
	LogoDir string
	LogoKey func(string) string
}

// DefaultTheme returns the stock light theme.
func DefaultTheme() Theme {
	return Theme{
		Background:   color.NRGBA{R: 0xfa, G: 0xfa, B: 0xf0, A: 0xff},
		TitleColor:   color.NRGBA{R: 0x1e, G: 0x1e, B: 0x1e, A: 0xff},
		DateColor:    color.NRGBA{R: 0x50, G: 0x50, B: 0x50, A: 0xff},
		TextColor:    color.NRGBA{R: 0x32, G: 0x32, B: 0x32, A: 0xff},
		LineColor:    color.NRGBA{R: 0xc8, G: 0xc8, B: 0xbe, A: 0xff},
		StarColor:    color.NRGBA{R: 0xff, G: 0x8c, B: 0x00, A: 0xff},
		CardFill:     color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff},
		BorderTop:    color.NRGBA{R: 0xff, G: 0x8c, B: 0x00, A: 0xff},
		BorderBottom: color.NRGBA{R: 0xff, G: 0xd7, B: 0x00, A: 0xff},
		Title:        "Upcoming Matches",
		Placeholder:  "No upcoming matches",
	}
}

// NormalizeLogoKey is the default logo lookup normalization: lowercase,
// trimmed, with spaces collapsed to underscores.
func NormalizeLogoKey(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	return strings.Join(strings.Fields(name), "_")
}

// weekday returns the localized label for a date's weekday.
func (t Theme) weekday(d time.Time) string {
	if name, ok := t.WeekdayNames[d.Weekday()]; ok {
		return name
	}
	return d.Weekday().String()
}

// logoPath resolves a team name to a logo file. A miss is not an error;
// the card simply renders without a logo.
func (t Theme) logoPath(team string) (string, bool) {
	if t.LogoDir == "" {
		return "", false
	}
	key := team
	if t.LogoKey != nil {
		key = t.LogoKey(team)
	}
	path := filepath.Join(t.LogoDir, key+".png")
	if _, err := os.Stat(path); err != nil {
		return "", false
	}
	return path, true
}
