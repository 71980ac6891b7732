// Package cli implements the command-line interface for gora-search.
//
// The cli package provides the Cobra-based commands for searching GORA golf
// courses, fetching course details, managing the stored application id,
// augmenting directory pages and serving the popup locally. Search output can
// be written as text, JSON or the popup's HTML result list.
package cli
