// Package report orchestrates one report generation end to end: fetch the
// schedule page, extract and select matches, compute the layout, and render
// the image. Unparsable sections and blocks degrade to fewer matches (down
// to an explicit empty-state image); fetch and render failures propagate.
package report
