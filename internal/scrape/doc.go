// Package scrape parses the upcoming-matches page into match records.
//
// The page is organised as date sections, each holding a headline with the
// section's calendar date and a list of match blocks. A block qualifies for
// extraction only if it carries the full five-star importance scale with at
// least MinStars of them lit and names a real event. Sections and blocks
// that fail parsing are skipped independently; one bad fragment never
// aborts extraction of the rest.
package scrape
