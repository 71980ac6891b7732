// Package render builds and mutates the popup document: the search form, the
// result list, the per-course detail blocks and the status line.
//
// The document is held as a goquery.Document so the same selectors the popup
// uses (#resultsList, .course-item, .get-details-btn) address it here.
package render
