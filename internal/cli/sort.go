package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pfrederiksen/gora-search/internal/gora"
	"github.com/pfrederiksen/gora-search/internal/render"
)

// SortOrder represents the available sorting options
type SortOrder string

const (
	SortDefault  SortOrder = ""
	SortByName   SortOrder = "name"
	SortByArea   SortOrder = "area"
	SortByRating SortOrder = "evaluation"
	SortByPrice  SortOrder = "price"
)

// ParseSortOrder validates a --sort value. "" keeps the API order.
func ParseSortOrder(s string) (SortOrder, error) {
	switch o := SortOrder(strings.ToLower(strings.TrimSpace(s))); o {
	case SortDefault, SortByName, SortByArea, SortByRating, SortByPrice:
		return o, nil
	}
	return "", fmt.Errorf("invalid sort: %s (must be name, area, evaluation or price)", s)
}

// sortItems sorts items in place. Sorting by price uses the weekday minimum
// from details; courses without one go last. The sort is stable, so ties keep
// the API order.
func sortItems(items []gora.SearchResultItem, order SortOrder, details map[string]*gora.CourseDetail) {
	switch order {
	case SortByName:
		sort.SliceStable(items, func(i, j int) bool {
			return strings.ToLower(render.DisplayName(items[i])) < strings.ToLower(render.DisplayName(items[j]))
		})
	case SortByArea:
		sort.SliceStable(items, func(i, j int) bool {
			// Area codes follow the prefecture order; unknown names sort last.
			return areaRank(items[i].Location().String()) < areaRank(items[j].Location().String())
		})
	case SortByRating:
		sort.SliceStable(items, func(i, j int) bool {
			return compareDesc(items[i].Evaluation, items[j].Evaluation)
		})
	case SortByPrice:
		sort.SliceStable(items, func(i, j int) bool {
			return compareAsc(weekdayPrice(details, items[i]), weekdayPrice(details, items[j]))
		})
	}
}

func weekdayPrice(details map[string]*gora.CourseDetail, item gora.SearchResultItem) gora.Value {
	if d, ok := details[item.CourseID()]; ok {
		return d.WeekdayMinPrice
	}
	return gora.Value{}
}

// compareDesc returns true if a should come before b, higher numbers first
func compareDesc(a, b gora.Value) bool {
	fa, okA := a.Float()
	fb, okB := b.Float()
	if okA && okB {
		return fa > fb
	}
	// If only one value is numeric, put it first
	return okA && !okB
}

// compareAsc returns true if a should come before b, lower numbers first
func compareAsc(a, b gora.Value) bool {
	fa, okA := a.Float()
	fb, okB := b.Float()
	if okA && okB {
		return fa < fb
	}
	return okA && !okB
}

func areaRank(name string) int {
	for i, a := range gora.Areas {
		if a.Name == name {
			return i
		}
	}
	return len(gora.Areas)
}
