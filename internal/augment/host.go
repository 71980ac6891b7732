package augment

import (
	"net/url"
	"strings"
)

// GoraHost is the directory's host name.
const GoraHost = "gora.golf.rakuten.co.jp"

// Mode is one kind of enhancement applied to a page.
type Mode string

const (
	ModeDetail Mode = "detail"
	ModeSearch Mode = "search"
)

const (
	detailPathMarker = "/course/detail/"
	searchPathMarker = "/course/search/"
)

// IsRecognizedHost reports whether u belongs to the directory.
func IsRecognizedHost(u *url.URL) bool {
	return u != nil && strings.Contains(strings.ToLower(u.Hostname()), GoraHost)
}

// ModesFor returns the enhancements that apply to u. The path checks are
// independent, so a path carrying both markers gets both modes.
func ModesFor(u *url.URL) []Mode {
	if !IsRecognizedHost(u) {
		return nil
	}

	var modes []Mode
	if strings.Contains(u.Path, detailPathMarker) {
		modes = append(modes, ModeDetail)
	}
	if strings.Contains(u.Path, searchPathMarker) {
		modes = append(modes, ModeSearch)
	}
	return modes
}
