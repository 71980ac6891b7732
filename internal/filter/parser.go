package filter

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Form field names used by the injected filter form.
const (
	FieldCourseRatingMin   = "crMin"
	FieldCourseRatingMax   = "crMax"
	FieldSlopeRatingMin    = "srMin"
	FieldSlopeRatingMax    = "srMax"
	FieldRedTeeDistanceMin = "rtMin"
	FieldRedTeeDistanceMax = "rtMax"
	FieldPriceBand         = "priceFilter"

	FieldDrivingRange = "drivingRange"
	FieldRestaurant   = "restaurant"
	FieldProShop      = "proShop"
	FieldLockerRoom   = "lockerRoom"
)

// ParseCriteria builds criteria from submitted form values. Blank inputs
// leave the bound open; a min above its max is rejected.
func ParseCriteria(form url.Values) (*AdvancedFilterCriteria, error) {
	c := &AdvancedFilterCriteria{}

	ranges := []struct {
		label    string
		min, max string
		dst      *Range
	}{
		{"course rating", FieldCourseRatingMin, FieldCourseRatingMax, &c.CourseRating},
		{"slope rating", FieldSlopeRatingMin, FieldSlopeRatingMax, &c.SlopeRating},
		{"red tee distance", FieldRedTeeDistanceMin, FieldRedTeeDistanceMax, &c.RedTeeDistance},
	}
	for _, r := range ranges {
		parsed, err := ParseRange(form.Get(r.min), form.Get(r.max))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", r.label, err)
		}
		*r.dst = parsed
	}

	band, err := ParsePriceBand(form.Get(FieldPriceBand))
	if err != nil {
		return nil, err
	}
	c.PriceBand = band

	c.Facilities = Facilities{
		DrivingRange: isChecked(form.Get(FieldDrivingRange)),
		Restaurant:   isChecked(form.Get(FieldRestaurant)),
		ProShop:      isChecked(form.Get(FieldProShop)),
		LockerRoom:   isChecked(form.Get(FieldLockerRoom)),
	}

	return c, nil
}

// ParseRange parses optional min and max inputs.
func ParseRange(minText, maxText string) (Range, error) {
	var r Range

	lo, err := parseBound(minText)
	if err != nil {
		return Range{}, fmt.Errorf("invalid minimum %q", minText)
	}
	hi, err := parseBound(maxText)
	if err != nil {
		return Range{}, fmt.Errorf("invalid maximum %q", maxText)
	}

	if lo != nil && hi != nil && *lo > *hi {
		return Range{}, fmt.Errorf("minimum %v is greater than maximum %v", *lo, *hi)
	}

	r.Min, r.Max = lo, hi
	return r, nil
}

// ParsePriceBand accepts "", "low", "medium" or "high" (case-insensitive).
func ParsePriceBand(s string) (PriceBand, error) {
	band := PriceBand(strings.ToLower(strings.TrimSpace(s)))
	for _, b := range PriceBands {
		if band == b {
			return b, nil
		}
	}
	return PriceAny, fmt.Errorf("invalid price band %q. Use low, medium or high", s)
}

// ParseNumber reads a page value such as "72.1", "5,500" or "¥8,000".
// Unparseable text yields 0, which is how missing values compare.
func ParseNumber(s string) float64 {
	s = strings.TrimSpace(s)
	s = strings.TrimLeft(s, "¥￥$")
	s = strings.ReplaceAll(s, ",", "")

	end := 0
	for end < len(s) && (s[end] == '.' || s[end] == '-' || (s[end] >= '0' && s[end] <= '9')) {
		end++
	}
	v, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return 0
	}
	return v
}

func parseBound(s string) (*float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func isChecked(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "on", "true", "1", "yes":
		return true
	}
	return false
}
