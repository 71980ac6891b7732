package render

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/gora-search/internal/gora"
	"golang.org/x/net/html/atom"
)

const popupTemplate = `<!DOCTYPE html>
<html lang="ja">
<head>
<meta charset="utf-8">
<title>ゴルフ場検索</title>
</head>
<body>
<div class="container">
  <h1>ゴルフ場検索</h1>
  <form id="searchForm" class="search-form">
    <label for="keyword">キーワード</label>
    <input type="text" id="keyword" name="keyword" placeholder="ゴルフ場名・地域名">
    <label for="area">エリア</label>
    <select id="area" name="areaCode"></select>
    <div class="form-actions">
      <button type="submit" id="searchBtn">検索</button>
      <button type="button" id="clearBtn">クリア</button>
    </div>
  </form>
  <div id="status" class="status" hidden></div>
  <div id="loading" class="loading" hidden>検索中...</div>
  <div id="noResults" class="no-results" hidden>該当するゴルフ場が見つかりませんでした。</div>
  <div id="resultsList" class="results-list"></div>
  <a href="#" id="openSettings">設定</a>
</div>
</body>
</html>`

// StatusLevel selects how the status line is styled.
type StatusLevel string

const (
	StatusInfo    StatusLevel = "info"
	StatusSuccess StatusLevel = "success"
	StatusError   StatusLevel = "error"
)

// Page is the popup document. It is not safe for concurrent use; callers
// serialize access.
type Page struct {
	doc *goquery.Document
}

// NewPage builds an empty popup with the area selector filled in.
func NewPage() *Page {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(popupTemplate))
	if err != nil {
		// The template is a constant; failing to parse it is a programming error.
		panic(fmt.Sprintf("render: parsing popup template: %v", err))
	}

	p := &Page{doc: doc}
	p.fillAreas()
	return p
}

func (p *Page) fillAreas() {
	sel := p.doc.Find("#area")
	sel.AppendNodes(el(atom.Option, []attr{{"value", ""}, {"selected", ""}}, text("すべてのエリア")))
	for _, a := range gora.Areas {
		sel.AppendNodes(el(atom.Option, []attr{{"value", a.Code}}, text(a.Name)))
	}
}

// Document exposes the underlying document.
func (p *Page) Document() *goquery.Document {
	return p.doc
}

// HTML renders the whole document.
func (p *Page) HTML() (string, error) {
	return p.doc.Html()
}

// Fragment renders the element matched by selector, or "" when absent.
func (p *Page) Fragment(selector string) (string, error) {
	sel := p.doc.Find(selector).First()
	if sel.Length() == 0 {
		return "", nil
	}
	return goquery.OuterHtml(sel)
}

// SetKeyword fills the keyword input.
func (p *Page) SetKeyword(keyword string) {
	p.doc.Find("#keyword").SetAttr("value", keyword)
}

// Keyword returns the keyword input's value.
func (p *Page) Keyword() string {
	return p.doc.Find("#keyword").AttrOr("value", "")
}

// SetArea selects the option with code. Unknown codes select "all areas".
func (p *Page) SetArea(code string) {
	options := p.doc.Find("#area option")
	options.RemoveAttr("selected")

	match := options.FilterFunction(func(_ int, s *goquery.Selection) bool {
		return s.AttrOr("value", "") == code
	})
	if match.Length() == 0 {
		match = options.First()
	}
	match.SetAttr("selected", "")
}

// Area returns the selected area code.
func (p *Page) Area() string {
	return p.doc.Find("#area option[selected]").First().AttrOr("value", "")
}

// SetLoading shows or hides the loading indicator and toggles the search button.
func (p *Page) SetLoading(loading bool) {
	setHidden(p.doc.Find("#loading"), !loading)
	btn := p.doc.Find("#searchBtn")
	if loading {
		btn.SetAttr("disabled", "")
	} else {
		btn.RemoveAttr("disabled")
	}
}

// IsLoading reports whether the loading indicator is visible.
func (p *Page) IsLoading() bool {
	return !isHidden(p.doc.Find("#loading"))
}

// ClearResults empties the result list and hides the no-results notice.
func (p *Page) ClearResults() {
	p.doc.Find("#resultsList").Empty()
	setHidden(p.doc.Find("#noResults"), true)
}

// ShowNoResults displays the no-results notice.
func (p *Page) ShowNoResults() {
	setHidden(p.doc.Find("#noResults"), false)
}

// NoResultsShown reports whether the no-results notice is visible.
func (p *Page) NoResultsShown() bool {
	return !isHidden(p.doc.Find("#noResults"))
}

// ShowStatus replaces the status line with message.
func (p *Page) ShowStatus(message string, level StatusLevel) {
	showStatus(p.doc, message, level)
}

// ClearStatus hides the status line.
func (p *Page) ClearStatus() {
	clearStatus(p.doc)
}

// StatusText returns the visible status message, "" when hidden.
func (p *Page) StatusText() string {
	return statusText(p.doc)
}

// Reset clears the form inputs and the result list.
func (p *Page) Reset() {
	p.SetKeyword("")
	p.SetArea("")
	p.ClearResults()
}

func setHidden(sel *goquery.Selection, hidden bool) {
	if hidden {
		sel.SetAttr("hidden", "")
	} else {
		sel.RemoveAttr("hidden")
	}
}

func isHidden(sel *goquery.Selection) bool {
	_, hidden := sel.Attr("hidden")
	return hidden
}

func showStatus(doc *goquery.Document, message string, level StatusLevel) {
	status := doc.Find("#status")
	status.SetText(message)
	status.SetAttr("class", "status status-"+string(level))
	setHidden(status, false)
}

func clearStatus(doc *goquery.Document) {
	status := doc.Find("#status")
	status.Empty()
	status.SetAttr("class", "status")
	setHidden(status, true)
}

func statusText(doc *goquery.Document) string {
	status := doc.Find("#status")
	if isHidden(status) {
		return ""
	}
	return status.Text()
}
