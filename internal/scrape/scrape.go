package scrape

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/mocchh/hltv-monitor/internal/logger"
	"github.com/mocchh/hltv-monitor/internal/match"
)

const (
	// starScale is the number of star indicators a well-formed block shows.
	starScale = 5

	// DefaultMinStars is the lit-star threshold for a match to qualify.
	DefaultMinStars = 3

	// unknownEvent is the placeholder headline the source page emits when
	// it has no event data; such blocks are unusable.
	unknownEvent = "未知赛事"

	sectionDateLayout = "2006-01-02"
	startTimeLayout   = "2006-01-02 15:04"
	defaultKickoff    = "00:00"
)

// Extractor parses schedule documents into match records.
type Extractor struct {
	// MinStars is the minimum lit-star count for a block to qualify.
	MinStars int
}

// New creates an Extractor with the default star threshold.
func New() *Extractor {
	return &Extractor{MinStars: DefaultMinStars}
}

// Extract parses raw HTML and returns qualifying matches in document order.
// A document with no qualifying sections or blocks yields an empty slice,
// not an error.
func (e *Extractor) Extract(r io.Reader) ([]match.Record, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	records := make([]match.Record, 0)

	doc.Find(".matches-list-section").Each(func(_ int, section *goquery.Selection) {
		day, ok := sectionDate(section)
		if !ok {
			// Without a valid date the section's matches cannot be
			// timestamped; skip all of them rather than guess.
			logger.IncrCounter("scrape.sections_skipped")
			logger.Debug("section skipped, unparsable date", nil)
			return
		}

		section.Find(".match-wrapper").Each(func(_ int, block *goquery.Selection) {
			rec, ok := e.parseBlock(block, day)
			if !ok {
				logger.IncrCounter("scrape.blocks_skipped")
				return
			}
			records = append(records, rec)
		})
	})

	return records, nil
}

// sectionDate parses the section headline into a calendar date. Headlines
// read "<label> - <yyyy-mm-dd>"; the date is the last segment.
func sectionDate(section *goquery.Selection) (string, bool) {
	headline := strings.TrimSpace(section.Find(".matches-list-headline").First().Text())
	idx := strings.LastIndex(headline, " - ")
	if idx < 0 {
		return "", false
	}
	day := strings.TrimSpace(headline[idx+3:])
	if _, err := time.Parse(sectionDateLayout, day); err != nil {
		return "", false
	}
	return day, true
}

func (e *Extractor) parseBlock(block *goquery.Selection, day string) (match.Record, bool) {
	// The importance scale must be fully present before lit stars count.
	if block.Find("i.fa-star").Length() != starScale {
		return match.Record{}, false
	}
	lit := block.Find("i.fa-star:not(.faded)").Length()
	if lit < e.MinStars {
		return match.Record{}, false
	}

	event, _ := block.Find(".match-event").First().Attr("data-event-headline")
	event = strings.TrimSpace(event)
	if event == "" || event == unknownEvent {
		return match.Record{}, false
	}

	teams := block.Find(".match-teamname")
	team1 := teamName(teams, 0)
	team2 := teamName(teams, 1)

	kickoff := strings.TrimSpace(block.Find(".match-time").First().Text())
	if kickoff == "" {
		kickoff = defaultKickoff
	}
	start, err := time.Parse(startTimeLayout, day+" "+kickoff)
	if err != nil {
		return match.Record{}, false
	}

	bestOf := match.ParseBestOf(block.Find(".match-meta").First().Text())

	return match.Record{
		StartTime: start,
		Event:     event,
		Stars:     lit,
		Team1:     team1,
		Team2:     team2,
		BestOf:    bestOf,
	}, true
}

func teamName(teams *goquery.Selection, i int) string {
	name := strings.TrimSpace(teams.Eq(i).Text())
	if name == "" {
		return match.PlaceholderTeam
	}
	return name
}
