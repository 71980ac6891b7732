package augment

import (
	"errors"
	"net/url"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/gora-search/internal/logger"
	"github.com/pfrederiksen/gora-search/internal/messaging"
)

// ErrUnrecognizedHost is returned for pages outside the directory.
var ErrUnrecognizedHost = errors.New("page is not on " + GoraHost)

// Result reports what Augment did to a page.
type Result struct {
	Modes           []Mode     `json:"modes"`
	Info            CourseInfo `json:"info,omitempty"`
	PanelInjected   bool       `json:"panel_injected"`
	FiltersInjected bool       `json:"filters_injected"`
	SortInjected    bool       `json:"sort_injected"`
}

// Augment applies every mode that fits u to doc. Pages on other hosts are
// left untouched.
func Augment(doc *goquery.Document, u *url.URL) (Result, error) {
	if !IsRecognizedHost(u) {
		return Result{}, ErrUnrecognizedHost
	}

	res := Result{Modes: ModesFor(u)}
	for _, mode := range res.Modes {
		switch mode {
		case ModeDetail:
			res.Info = Extract(doc)
			res.PanelInjected = InjectPanel(doc, res.Info)
		case ModeSearch:
			res.FiltersInjected = InjectFilters(doc)
			res.SortInjected = InjectSort(doc)
		}
	}

	logger.Info("Page augmented", logger.Fields{
		"path":             u.Path,
		"modes":            len(res.Modes),
		"fields":           len(res.Info),
		"filters_injected": res.FiltersInjected,
		"sort_injected":    res.SortInjected,
	})
	return res, nil
}

// Similar broadcasts the "search similar" action for an augmented detail
// page. It returns 0 when no course info was extracted.
func (r Result) Similar(bus *messaging.Bus) int {
	if len(r.Info) == 0 {
		return 0
	}
	return SearchSimilar(bus, r.Info)
}
