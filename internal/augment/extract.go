package augment

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/gora-search/internal/filter"
)

// CourseInfo holds the fields found on a detail page. Missing fields are absent.
type CourseInfo map[Field]string

// Extract reads every field from doc using the first candidate selector that
// matches. The first matching element's trimmed text is used; empty text
// counts as missing.
func Extract(doc *goquery.Document) CourseInfo {
	info := CourseInfo{}
	for _, fs := range FieldSelectors {
		for _, sel := range fs.Candidates {
			match := doc.Find(sel).First()
			if match.Length() == 0 {
				continue
			}
			if text := strings.TrimSpace(match.Text()); text != "" {
				info[fs.Field] = text
			}
			break
		}
	}
	return info
}

// Payload converts info to the string map carried by messages.
func (info CourseInfo) Payload() map[string]string {
	out := make(map[string]string, len(info))
	for k, v := range info {
		out[string(k)] = v
	}
	return out
}

// Attributes converts the numeric fields for filter comparisons. Missing or
// unparseable values are 0.
func (info CourseInfo) Attributes() filter.Attributes {
	return filter.Attributes{
		CourseRating:   filter.ParseNumber(info[FieldCourseRating]),
		SlopeRating:    filter.ParseNumber(info[FieldSlopeRating]),
		RedTeeDistance: filter.ParseNumber(info[FieldRedTeeDistance]),
		Price:          filter.ParseNumber(info[FieldPrice]),
	}
}
