package augment

import (
	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/gora-search/internal/messaging"
	"golang.org/x/net/html/atom"
)

// Class names and ids of injected elements.
const (
	PanelClass       = "golf-search-extension-panel"
	SearchSimilarID  = "searchSimilarBtn"
	ClosePanelID     = "closePanelBtn"
	FiltersClass     = "golf-search-extension-filters"
	ApplyFiltersID   = "applyFiltersBtn"
	SortClass        = "golf-search-extension-sort"
	SortSelectID     = "sortSelect"
	panelStyle       = "position: fixed; top: 20px; right: 20px; width: 300px; background: white; border: 1px solid #ddd; border-radius: 8px; padding: 15px; z-index: 10000;"
	panelTitle       = "🏌️ コース情報"
	searchSimilarTxt = "類似コース検索"
	closePanelTxt    = "閉じる"
)

// InjectPanel appends the course info panel to the body. Only fields present
// in info are listed. A page gets at most one panel; it reports false when
// one is already there.
func InjectPanel(doc *goquery.Document, info CourseInfo) bool {
	if doc.Find("." + PanelClass).Length() > 0 {
		return false
	}

	fields := el(atom.Div, attrs("class", "panel-fields"))
	for _, fs := range FieldSelectors {
		value, ok := info[fs.Field]
		if !ok {
			continue
		}
		fields.AppendChild(el(atom.Div, attrs("class", "panel-field", "data-field", string(fs.Field)),
			el(atom.Strong, nil, text(fs.Label+":")),
			text(" "+value),
		))
	}

	doc.Find("body").AppendNodes(el(atom.Div, attrs("class", PanelClass, "style", panelStyle),
		el(atom.H3, nil, text(panelTitle)),
		fields,
		el(atom.Div, attrs("class", "panel-actions"),
			el(atom.Button, attrs("type", "button", "id", SearchSimilarID), text(searchSimilarTxt)),
			el(atom.Button, attrs("type", "button", "id", ClosePanelID), text(closePanelTxt)),
		),
	))
	return true
}

// ClosePanel removes the panel. It reports whether one was removed.
func ClosePanel(doc *goquery.Document) bool {
	panel := doc.Find("." + PanelClass)
	if panel.Length() == 0 {
		return false
	}
	panel.Remove()
	return true
}

// SearchSimilar broadcasts an openSimilarSearch message carrying info and
// returns how many subscribers received it.
func SearchSimilar(bus *messaging.Bus, info CourseInfo) int {
	return bus.Publish(messaging.ActionOpenSimilarSearch, messaging.Request{
		Keyword:    info[FieldName],
		CourseInfo: info.Payload(),
	})
}
