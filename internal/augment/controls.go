package augment

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/gora-search/internal/filter"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// SortOrder is a value of the sort selector.
type SortOrder string

const (
	SortDefault        SortOrder = "default"
	SortCourseRating   SortOrder = "courseRating"
	SortSlopeRating    SortOrder = "slopeRating"
	SortRedTeeDistance SortOrder = "redTeeDistance"
	SortPrice          SortOrder = "price"
	SortEvaluation     SortOrder = "evaluation"
)

var sortOptions = []struct {
	order SortOrder
	label string
}{
	{SortDefault, "デフォルト"},
	{SortCourseRating, "コースレート順"},
	{SortSlopeRating, "スロープレート順"},
	{SortRedTeeDistance, "Redティー距離順"},
	{SortPrice, "料金順"},
	{SortEvaluation, "評価順"},
}

// ParseSortOrder validates a selector value. "" selects SortDefault.
func ParseSortOrder(s string) (SortOrder, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return SortDefault, nil
	}
	for _, o := range sortOptions {
		if string(o.order) == s {
			return o.order, nil
		}
	}
	return SortDefault, fmt.Errorf("unknown sort order %q", s)
}

// resultsContainer returns the first element matched by the first
// ResultsContainerSelectors entry that matches anything.
func resultsContainer(doc *goquery.Document) *goquery.Selection {
	for _, sel := range ResultsContainerSelectors {
		if match := doc.Find(sel).First(); match.Length() > 0 {
			return match
		}
	}
	return nil
}

// courseItems returns every course entry on the page in document order.
func courseItems(doc *goquery.Document) *goquery.Selection {
	return doc.Find(strings.Join(CourseItemSelectors, ", "))
}

func rangeInputs(label, minName, maxName string) *html.Node {
	return el(atom.Div, nil,
		el(atom.Label, nil, text(label+":")),
		el(atom.Div, attrs("class", "range"),
			el(atom.Input, attrs("type", "number", "id", minName, "name", minName, "placeholder", "最小")),
			el(atom.Span, nil, text("～")),
			el(atom.Input, attrs("type", "number", "id", maxName, "name", maxName, "placeholder", "最大")),
		),
	)
}

func checkbox(name, label string) *html.Node {
	return el(atom.Label, nil,
		el(atom.Input, attrs("type", "checkbox", "id", name, "name", name)),
		text(" "+label),
	)
}

func option(value, label string) *html.Node {
	return el(atom.Option, attrs("value", value), text(label))
}

func filtersForm() *html.Node {
	bands := el(atom.Select, attrs("id", filter.FieldPriceBand, "name", filter.FieldPriceBand))
	for _, band := range filter.PriceBands {
		bands.AppendChild(option(string(band), band.Label()))
	}

	return el(atom.Div, attrs("class", FiltersClass),
		el(atom.H3, nil, text("🔍 高度なフィルター")),
		el(atom.Div, attrs("class", "filter-grid"),
			rangeInputs("コースレート範囲", filter.FieldCourseRatingMin, filter.FieldCourseRatingMax),
			rangeInputs("スロープレート範囲", filter.FieldSlopeRatingMin, filter.FieldSlopeRatingMax),
			rangeInputs("Redティー距離 (m)", filter.FieldRedTeeDistanceMin, filter.FieldRedTeeDistanceMax),
			el(atom.Div, nil, el(atom.Label, nil, text("料金帯:")), bands),
			el(atom.Div, attrs("class", "facilities"),
				checkbox(filter.FieldDrivingRange, "練習場"),
				checkbox(filter.FieldRestaurant, "レストラン"),
				checkbox(filter.FieldProShop, "プロショップ"),
				checkbox(filter.FieldLockerRoom, "ロッカー"),
			),
		),
		el(atom.Div, nil, el(atom.Button, attrs("type", "button", "id", ApplyFiltersID), text("フィルター適用"))),
	)
}

func sortSelector() *html.Node {
	sel := el(atom.Select, attrs("id", SortSelectID))
	for _, o := range sortOptions {
		sel.AppendChild(option(string(o.order), o.label))
	}
	return el(atom.Div, attrs("class", SortClass), el(atom.Label, nil, text("並び替え:")), sel)
}

// InjectFilters inserts the advanced filter form right before the results
// container. It reports false, changing nothing, when the page has no
// results container or already has the form.
func InjectFilters(doc *goquery.Document) bool {
	return injectBefore(doc, FiltersClass, filtersForm)
}

// InjectSort inserts the sort selector right before the results container,
// under the same conditions as InjectFilters.
func InjectSort(doc *goquery.Document) bool {
	return injectBefore(doc, SortClass, sortSelector)
}

func injectBefore(doc *goquery.Document, class string, build func() *html.Node) bool {
	if doc.Find("."+class).Length() > 0 {
		return false
	}
	container := resultsContainer(doc)
	if container == nil {
		return false
	}
	container.BeforeNodes(build())
	return true
}

// ApplyFilters makes every course entry visible and returns how many there
// are. The criteria are not compared against entries: the page carries no
// per-entry attributes.
func ApplyFilters(doc *goquery.Document, criteria *filter.AdvancedFilterCriteria) int {
	items := courseItems(doc)
	items.Each(func(_ int, s *goquery.Selection) {
		s.RemoveAttr("hidden")
		s.SetAttr("style", "display: block;")
	})
	return items.Length()
}

// SortResults re-appends the course entries to their container in their
// current order, so the page order is unchanged for every order value. It
// returns the number of entries handled.
func SortResults(doc *goquery.Document, order SortOrder) int {
	items := courseItems(doc)
	if items.Length() == 0 {
		return 0
	}

	container := items.First().Parent()
	siblings := items.FilterFunction(func(_ int, s *goquery.Selection) bool {
		return s.Parent().IsSelection(container)
	})
	container.AppendSelection(siblings)
	return siblings.Length()
}
