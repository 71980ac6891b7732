package augment

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/gora-search/internal/filter"
	"github.com/pfrederiksen/gora-search/internal/messaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const detailPage = `<html><body>
<div class="header"><span class="course-name">Ignored Because h1 Wins</span></div>
<h1>  Sample Country Club  </h1>
<div class="rating">71.5</div>
<div class="course-rating">72.3</div>
<div data-slope="1">128</div>
<div class="red-tee-distance">4,850y</div>
</body></html>`

const searchPage = `<html><body>
<div class="sidebar"></div>
<div class="wrapper">
  <ul class="course-list">
    <li class="course-item" data-id="a" hidden>A</li>
    <li class="course-item" data-id="b">B</li>
    <li class="result-item" data-id="c">C</li>
  </ul>
  <div class="results"></div>
</div>
</body></html>`

func parse(t *testing.T, page string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	require.NoError(t, err)
	return doc
}

func mustURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}

func TestModesFor(t *testing.T) {
	tests := []struct {
		url        string
		recognized bool
		want       []Mode
	}{
		{"https://gora.golf.rakuten.co.jp/course/detail/120001/", true, []Mode{ModeDetail}},
		{"https://gora.golf.rakuten.co.jp/course/search/?area=13", true, []Mode{ModeSearch}},
		{"https://gora.golf.rakuten.co.jp/course/detail/1/course/search/", true, []Mode{ModeDetail, ModeSearch}},
		{"https://gora.golf.rakuten.co.jp/", true, nil},
		{"https://sp.gora.golf.rakuten.co.jp/course/detail/1/", true, []Mode{ModeDetail}},
		{"https://example.com/course/detail/1/", false, nil},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			u := mustURL(t, tt.url)
			assert.Equal(t, tt.recognized, IsRecognizedHost(u))
			assert.Equal(t, tt.want, ModesFor(u))
		})
	}

	assert.False(t, IsRecognizedHost(nil))
}

func TestExtract(t *testing.T) {
	info := Extract(parse(t, detailPage))

	assert.Equal(t, "Sample Country Club", info[FieldName], "h1 is tried before .course-name")
	assert.Equal(t, "72.3", info[FieldCourseRating], ".course-rating is tried before .rating")
	assert.Equal(t, "128", info[FieldSlopeRating])
	assert.Equal(t, "4,850y", info[FieldRedTeeDistance])
	_, hasPrice := info[FieldPrice]
	assert.False(t, hasPrice, "missing fields are omitted")

	attrs := info.Attributes()
	assert.Equal(t, 72.3, attrs.CourseRating)
	assert.Equal(t, 4850.0, attrs.RedTeeDistance)
	assert.Equal(t, 0.0, attrs.Price)
}

func TestExtract_EmptyPage(t *testing.T) {
	info := Extract(parse(t, `<html><body><p>nothing</p></body></html>`))
	assert.Empty(t, info)
}

func TestInjectPanel(t *testing.T) {
	doc := parse(t, detailPage)
	info := CourseInfo{FieldName: "<b>Bold</b> GC", FieldPrice: "¥9,800"}

	require.True(t, InjectPanel(doc, info))
	assert.False(t, InjectPanel(doc, info), "second injection is refused")

	panel := doc.Find("." + PanelClass)
	require.Equal(t, 1, panel.Length())
	assert.Equal(t, 2, panel.Find(".panel-field").Length())
	assert.Equal(t, 0, panel.Find("b").Length(), "values are escaped")
	assert.Contains(t, panel.Find(`[data-field="name"]`).Text(), "<b>Bold</b> GC")
	assert.Equal(t, 1, panel.Find("#"+SearchSimilarID).Length())
	assert.Equal(t, 1, panel.Find("#"+ClosePanelID).Length())

	assert.True(t, ClosePanel(doc))
	assert.Equal(t, 0, doc.Find("."+PanelClass).Length())
	assert.False(t, ClosePanel(doc))
}

func TestInjectPanel_RenderedMarkupStaysInert(t *testing.T) {
	doc := parse(t, detailPage)
	hostile := `"><img src=x onerror=alert(1)><script>alert(2)</script>`
	require.True(t, InjectPanel(doc, CourseInfo{FieldName: hostile}))

	out, err := doc.Html()
	require.NoError(t, err)

	reparsed := parse(t, out)
	panel := reparsed.Find("." + PanelClass)
	require.Equal(t, 1, panel.Length())
	assert.Equal(t, 0, reparsed.Find("img").Length())
	assert.Equal(t, 0, panel.Find("script").Length())
	assert.Equal(t, "コース名: "+hostile, panel.Find(`[data-field="name"]`).Text())
	assert.Equal(t, "position: fixed; top: 20px; right: 20px; width: 300px; background: white; border: 1px solid #ddd; border-radius: 8px; padding: 15px; z-index: 10000;",
		panel.AttrOr("style", ""))
}

func TestSearchSimilar(t *testing.T) {
	bus := messaging.NewBus()
	var got []messaging.Message
	bus.Subscribe(messaging.ActionOpenSimilarSearch, func(m messaging.Message) {
		got = append(got, m)
	})

	info := CourseInfo{FieldName: "Sample CC", FieldCourseRating: "72.3"}
	assert.Equal(t, 1, SearchSimilar(bus, info))

	require.Len(t, got, 1)
	assert.Equal(t, messaging.ActionOpenSimilarSearch, got[0].Payload.Action)
	assert.Equal(t, "Sample CC", got[0].Payload.Keyword)
	assert.Equal(t, map[string]string{"name": "Sample CC", "courseRating": "72.3"}, got[0].Payload.CourseInfo)
}

func TestInjectControls(t *testing.T) {
	doc := parse(t, searchPage)

	require.True(t, InjectFilters(doc))
	require.True(t, InjectSort(doc))
	assert.False(t, InjectFilters(doc))
	assert.False(t, InjectSort(doc))

	assert.Equal(t, 1, doc.Find("."+FiltersClass).Length())
	assert.Equal(t, 1, doc.Find("."+SortClass).Length())

	// Both sit directly before the first matching container, .course-list.
	list := doc.Find(".course-list")
	assert.True(t, list.Prev().HasClass(SortClass))
	assert.True(t, list.Prev().Prev().HasClass(FiltersClass))
	assert.True(t, doc.Find(".results").Prev().Is(".course-list"), "nothing injected before .results")

	form := doc.Find("." + FiltersClass)
	for _, id := range []string{filter.FieldCourseRatingMin, filter.FieldCourseRatingMax, filter.FieldSlopeRatingMin, filter.FieldSlopeRatingMax, filter.FieldRedTeeDistanceMin, filter.FieldRedTeeDistanceMax, filter.FieldPriceBand, ApplyFiltersID} {
		assert.Equal(t, 1, form.Find("#"+id).Length(), id)
	}
	assert.Equal(t, len(filter.PriceBands), form.Find("#"+filter.FieldPriceBand+" option").Length())
	assert.Equal(t, 6, doc.Find("#"+SortSelectID+" option").Length())
}

func TestInjectControls_NoContainer(t *testing.T) {
	doc := parse(t, `<html><body><div class="other"></div></body></html>`)
	before, _ := doc.Html()

	assert.False(t, InjectFilters(doc))
	assert.False(t, InjectSort(doc))

	after, _ := doc.Html()
	assert.Equal(t, before, after)
}

func TestApplyFilters_ShowsEverything(t *testing.T) {
	doc := parse(t, searchPage)
	c := &filter.AdvancedFilterCriteria{PriceBand: filter.PriceHigh}

	assert.Equal(t, 3, ApplyFilters(doc, c))
	doc.Find(".course-item, .result-item").Each(func(_ int, s *goquery.Selection) {
		_, hidden := s.Attr("hidden")
		assert.False(t, hidden)
		assert.Equal(t, "display: block;", s.AttrOr("style", ""))
	})
}

func TestSortResults_KeepsOrder(t *testing.T) {
	for _, order := range []SortOrder{SortDefault, SortPrice, SortEvaluation} {
		doc := parse(t, searchPage)
		assert.Equal(t, 3, SortResults(doc, order))

		var ids []string
		doc.Find(".course-list").Children().Each(func(_ int, s *goquery.Selection) {
			ids = append(ids, s.AttrOr("data-id", ""))
		})
		assert.Equal(t, []string{"a", "b", "c"}, ids, string(order))
	}

	assert.Equal(t, 0, SortResults(parse(t, `<html><body></body></html>`), SortPrice))
}

func TestParseSortOrder(t *testing.T) {
	o, err := ParseSortOrder("")
	require.NoError(t, err)
	assert.Equal(t, SortDefault, o)

	o, err = ParseSortOrder("slopeRating")
	require.NoError(t, err)
	assert.Equal(t, SortSlopeRating, o)

	_, err = ParseSortOrder("random")
	assert.Error(t, err)
}

func TestAugment(t *testing.T) {
	t.Run("detail page", func(t *testing.T) {
		doc := parse(t, detailPage)
		res, err := Augment(doc, mustURL(t, "https://gora.golf.rakuten.co.jp/course/detail/120001/"))
		require.NoError(t, err)

		assert.Equal(t, []Mode{ModeDetail}, res.Modes)
		assert.True(t, res.PanelInjected)
		assert.False(t, res.FiltersInjected)
		assert.Equal(t, "Sample Country Club", res.Info[FieldName])

		bus := messaging.NewBus()
		received := 0
		bus.Subscribe(messaging.ActionOpenSimilarSearch, func(messaging.Message) { received++ })
		assert.Equal(t, 1, res.Similar(bus))
		assert.Equal(t, 1, received)
	})

	t.Run("search page", func(t *testing.T) {
		doc := parse(t, searchPage)
		res, err := Augment(doc, mustURL(t, "https://gora.golf.rakuten.co.jp/course/search/?keyword=x"))
		require.NoError(t, err)

		assert.Equal(t, []Mode{ModeSearch}, res.Modes)
		assert.True(t, res.FiltersInjected)
		assert.True(t, res.SortInjected)
		assert.False(t, res.PanelInjected)
		assert.Equal(t, 0, res.Similar(messaging.NewBus()))
	})

	t.Run("other host", func(t *testing.T) {
		doc := parse(t, searchPage)
		before, _ := doc.Html()

		_, err := Augment(doc, mustURL(t, "https://example.com/course/search/"))
		assert.ErrorIs(t, err, ErrUnrecognizedHost)

		after, _ := doc.Html()
		assert.Equal(t, before, after)
	})
}

func TestFetcher(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		assert.Equal(t, UserAgent, r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(detailPage))
	}))
	defer server.Close()

	u := mustURL(t, server.URL)

	t.Run("allowed domain", func(t *testing.T) {
		doc, err := NewFetcher(u.Hostname()).Fetch(context.Background(), server.URL+"/course/detail/1/")
		require.NoError(t, err)
		assert.Equal(t, "Sample Country Club", strings.TrimSpace(doc.Find("h1").Text()))
	})

	t.Run("http error", func(t *testing.T) {
		_, err := NewFetcher(u.Hostname()).Fetch(context.Background(), server.URL+"/missing")
		assert.Error(t, err)
	})

	t.Run("forbidden domain", func(t *testing.T) {
		_, err := NewFetcher().Fetch(context.Background(), server.URL+"/course/detail/1/")
		assert.Error(t, err)
	})
}
