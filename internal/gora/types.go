package gora

import (
	"encoding/json"
	"strings"
)

// SearchCriteria is what the user typed into the search form.
type SearchCriteria struct {
	Keyword  string `json:"keyword"`
	AreaCode string `json:"areaCode"`
}

// SearchResultItem is one course from the search endpoint.
type SearchResultItem struct {
	ID         Value `json:"golfCourseId"`
	Name       Value `json:"golfCourseName"`
	NameKana   Value `json:"golfCourseNameKana"`
	Prefecture Value `json:"prefecture"`
	Area       Value `json:"area"`
	Address    Value `json:"address"`
	Phone      Value `json:"telephoneNo"`
	Evaluation Value `json:"evaluation"`
	ReserveURL Value `json:"reserveCalUrl"`
	DetailURL  Value `json:"golfCourseDetailUrl"`
	ImageURL   Value `json:"golfCourseImageUrl"`
	Caption    Value `json:"golfCourseCaption"`
	Highway    Value `json:"highway"`
}

// CourseID returns the course id as text.
func (i SearchResultItem) CourseID() string {
	return i.ID.String()
}

// Location is the prefecture, falling back to the area.
func (i SearchResultItem) Location() Value {
	return FirstSet(i.Prefecture, i.Area)
}

// UnmarshalJSON accepts both the flat formatVersion=2 shape and the
// formatVersion=1 wrapper {"Item": {...}}.
func (i *SearchResultItem) UnmarshalJSON(data []byte) error {
	type plain SearchResultItem

	var wrapped struct {
		Item *json.RawMessage `json:"Item"`
	}
	if err := json.Unmarshal(data, &wrapped); err == nil && wrapped.Item != nil {
		data = *wrapped.Item
	}

	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*i = SearchResultItem(p)
	return nil
}

// CourseDetail is the extended record from the detail endpoint.
type CourseDetail struct {
	ID               Value `json:"golfCourseId"`
	CourseName       Value `json:"courseName"`
	HoleCount        Value `json:"holeCount"`
	Par              Value `json:"parCount"`
	CourseDistance   Value `json:"courseDistance"`
	WeekdayMinPrice  Value `json:"weekdayMinPrice"`
	HolidayMinPrice  Value `json:"holidayMinPrice"`
	CourseType       Value `json:"courseType"`
	Green            Value `json:"green"`
	Designer         Value `json:"designer"`
	Evaluation       Value `json:"evaluation"`
	Staff            Value `json:"staff"`
	Facility         Value `json:"facility"`
	Meal             Value `json:"meal"`
	Course           Value `json:"course"`
	CostPerformance  Value `json:"costperformance"`
	Distance         Value `json:"distance"`
	Fairway          Value `json:"fairway"`
	PracticeFacility Value `json:"practiceFacility"`
	IC               Value `json:"ic"`
	ICDistance       Value `json:"icDistance"`
}

// NormalizeCourseID trims an id taken from user input or a data attribute.
func NormalizeCourseID(id string) string {
	return strings.TrimSpace(id)
}
