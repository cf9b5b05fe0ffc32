// Package render paints computed report layouts into a PNG image.
//
// The renderer draws strictly inside the bands a layout.Plan reserved:
// background, title, faded-edge date separators, localized date headers,
// and one rounded card per match with event name, star glyphs, team names
// (plus logos when the lookup hits), kickoff time and the best-of label.
// Visual style is carried entirely by a Theme value.
package render
