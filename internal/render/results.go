package render

import (
	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/gora-search/internal/gora"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Button labels.
const (
	LabelGetDetails = "詳細情報取得"
	LabelReserve    = "予約する"
)

// RenderResults replaces the result list with one entry per item, in order.
// A course id seen earlier in items is skipped so each entry is addressable
// by id. An empty slice shows the no-results notice instead. It returns the
// number of entries rendered.
func (p *Page) RenderResults(items []gora.SearchResultItem) int {
	p.ClearResults()

	if len(items) == 0 {
		p.ShowNoResults()
		return 0
	}

	list := p.doc.Find("#resultsList")
	seen := make(map[string]bool, len(items))
	n := 0
	for _, item := range items {
		if id := item.CourseID(); id != "" {
			if seen[id] {
				continue
			}
			seen[id] = true
		}
		list.AppendNodes(courseItem(item))
		n++
	}
	return n
}

func courseItem(item gora.SearchResultItem) *html.Node {
	id := item.CourseID()

	return el(atom.Div, []attr{{"class", "course-item"}, {"data-course-id", id}},
		el(atom.Div, class("course-name"), text(DisplayName(item))),
		el(atom.Div, class("course-details"),
			labeled("場所", OrUnknown(item.Location())),
			labeled("住所", OrUnknown(item.Address)),
			labeled("電話番号", OrUnknown(item.Phone)),
			labeled("評価", OrUnknown(item.Evaluation)),
		),
		el(atom.Div, class("course-actions"),
			el(atom.Button, []attr{{"type", "button"}, {"class", "get-details-btn"}, {"data-course-id", id}},
				text(LabelGetDetails)),
			el(atom.Button, []attr{{"type", "button"}, {"class", "reserve-btn"}, {"data-reserve-url", item.ReserveURL.String()}},
				text(LabelReserve)),
		),
	)
}

// findItem returns the rendered entry for id. Ids are compared as attribute
// values rather than interpolated into a selector.
func (p *Page) findItem(id string) *goquery.Selection {
	id = gora.NormalizeCourseID(id)
	return p.doc.Find("#resultsList .course-item").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return s.AttrOr("data-course-id", "") == id
	}).First()
}

// HasItem reports whether an entry for id is currently rendered.
func (p *Page) HasItem(id string) bool {
	return p.findItem(id).Length() > 0
}

// ItemCount returns the number of rendered entries.
func (p *Page) ItemCount() int {
	return p.doc.Find("#resultsList .course-item").Length()
}

// CourseIDs returns the rendered course ids in display order.
func (p *Page) CourseIDs() []string {
	items := p.doc.Find("#resultsList .course-item")
	ids := make([]string, 0, items.Length())
	items.Each(func(_ int, s *goquery.Selection) {
		ids = append(ids, s.AttrOr("data-course-id", ""))
	})
	return ids
}

// ReserveURL returns the reservation link stored on the entry's reserve
// button. ok is false when the entry is gone; an empty url means none was given.
func (p *Page) ReserveURL(id string) (url string, ok bool) {
	item := p.findItem(id)
	if item.Length() == 0 {
		return "", false
	}
	return item.Find(".reserve-btn").AttrOr("data-reserve-url", ""), true
}

// ItemHTML renders a single entry. ok is false when the entry is gone.
func (p *Page) ItemHTML(id string) (fragment string, ok bool, err error) {
	item := p.findItem(id)
	if item.Length() == 0 {
		return "", false, nil
	}
	fragment, err = goquery.OuterHtml(item)
	return fragment, true, err
}
