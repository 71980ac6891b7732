// Package filter holds the advanced filter criteria offered on GORA search
// result pages.
//
// Criteria are built from the injected filter form (see ParseCriteria) and
// describe:
//   - Course rating, slope rating and red-tee distance ranges (min/max, either optional)
//   - A price band: low (up to ¥5,000), medium (¥5,000 to ¥15,000) or high (¥15,000 and up)
//   - Required facilities
//
// Example usage:
//
//	c, err := filter.ParseCriteria(form)
//	if err != nil {
//	    return err
//	}
//	if c.Matches(filter.Attributes{Price: 8000}) {
//	    // keep the course
//	}
package filter

import (
	"fmt"
	"strconv"
	"strings"
)

// Range is an inclusive numeric range. A nil bound is open.
type Range struct {
	Min *float64 `json:"min,omitempty"`
	Max *float64 `json:"max,omitempty"`
}

// IsEmpty reports whether neither bound is set.
func (r Range) IsEmpty() bool {
	return r.Min == nil && r.Max == nil
}

// Contains reports whether v lies within the range.
func (r Range) Contains(v float64) bool {
	if r.Min != nil && v < *r.Min {
		return false
	}
	if r.Max != nil && v > *r.Max {
		return false
	}
	return true
}

func (r Range) String() string {
	format := func(p *float64) string {
		if p == nil {
			return ""
		}
		return strconv.FormatFloat(*p, 'f', -1, 64)
	}
	return format(r.Min) + "～" + format(r.Max)
}

func (r Range) clone() Range {
	var c Range
	if r.Min != nil {
		v := *r.Min
		c.Min = &v
	}
	if r.Max != nil {
		v := *r.Max
		c.Max = &v
	}
	return c
}

// PriceBand is the price selector value. The zero value means any price.
type PriceBand string

const (
	PriceAny    PriceBand = ""
	PriceLow    PriceBand = "low"
	PriceMedium PriceBand = "medium"
	PriceHigh   PriceBand = "high"
)

// Band boundaries in yen. Both boundaries belong to two bands.
const (
	LowPriceCeiling = 5000
	HighPriceFloor  = 15000
)

// Contains reports whether price falls in the band.
func (b PriceBand) Contains(price float64) bool {
	switch b {
	case PriceLow:
		return price <= LowPriceCeiling
	case PriceMedium:
		return price >= LowPriceCeiling && price <= HighPriceFloor
	case PriceHigh:
		return price >= HighPriceFloor
	default:
		return true
	}
}

// Label returns the text shown in the price selector.
func (b PriceBand) Label() string {
	switch b {
	case PriceLow:
		return "～5,000円"
	case PriceMedium:
		return "5,000円～15,000円"
	case PriceHigh:
		return "15,000円～"
	default:
		return "すべて"
	}
}

// PriceBands lists the selector options in display order.
var PriceBands = []PriceBand{PriceAny, PriceLow, PriceMedium, PriceHigh}

// Facilities are required amenities.
type Facilities struct {
	DrivingRange bool `json:"driving_range,omitempty"`
	Restaurant   bool `json:"restaurant,omitempty"`
	ProShop      bool `json:"pro_shop,omitempty"`
	LockerRoom   bool `json:"locker_room,omitempty"`
}

func (f Facilities) none() bool {
	return !f.DrivingRange && !f.Restaurant && !f.ProShop && !f.LockerRoom
}

// AdvancedFilterCriteria is everything the filter form can express.
type AdvancedFilterCriteria struct {
	CourseRating   Range      `json:"course_rating"`
	SlopeRating    Range      `json:"slope_rating"`
	RedTeeDistance Range      `json:"red_tee_distance"`
	PriceBand      PriceBand  `json:"price_band,omitempty"`
	Facilities     Facilities `json:"facilities"`
}

// Attributes are the comparable values of one course entry. Missing
// numbers are 0, the way the page reports them.
type Attributes struct {
	CourseRating   float64
	SlopeRating    float64
	RedTeeDistance float64
	Price          float64
	Facilities     Facilities
}

// IsEmpty checks if the criteria have any active condition.
func (c *AdvancedFilterCriteria) IsEmpty() bool {
	return c.CourseRating.IsEmpty() &&
		c.SlopeRating.IsEmpty() &&
		c.RedTeeDistance.IsEmpty() &&
		c.PriceBand == PriceAny &&
		c.Facilities.none()
}

// Matches checks one course entry against every active condition.
// Empty criteria match everything.
func (c *AdvancedFilterCriteria) Matches(a Attributes) bool {
	if !c.CourseRating.Contains(a.CourseRating) {
		return false
	}
	if !c.SlopeRating.Contains(a.SlopeRating) {
		return false
	}
	if !c.RedTeeDistance.Contains(a.RedTeeDistance) {
		return false
	}
	if !c.PriceBand.Contains(a.Price) {
		return false
	}

	want := c.Facilities
	have := a.Facilities
	if (want.DrivingRange && !have.DrivingRange) ||
		(want.Restaurant && !have.Restaurant) ||
		(want.ProShop && !have.ProShop) ||
		(want.LockerRoom && !have.LockerRoom) {
		return false
	}
	return true
}

// String returns a human-readable description of the active conditions.
func (c *AdvancedFilterCriteria) String() string {
	if c.IsEmpty() {
		return "No active filters"
	}

	var parts []string
	if !c.CourseRating.IsEmpty() {
		parts = append(parts, fmt.Sprintf("コースレート: %s", c.CourseRating))
	}
	if !c.SlopeRating.IsEmpty() {
		parts = append(parts, fmt.Sprintf("スロープレート: %s", c.SlopeRating))
	}
	if !c.RedTeeDistance.IsEmpty() {
		parts = append(parts, fmt.Sprintf("Redティー距離: %s", c.RedTeeDistance))
	}
	if c.PriceBand != PriceAny {
		parts = append(parts, fmt.Sprintf("料金帯: %s", c.PriceBand.Label()))
	}

	var facilities []string
	if c.Facilities.DrivingRange {
		facilities = append(facilities, "練習場")
	}
	if c.Facilities.Restaurant {
		facilities = append(facilities, "レストラン")
	}
	if c.Facilities.ProShop {
		facilities = append(facilities, "プロショップ")
	}
	if c.Facilities.LockerRoom {
		facilities = append(facilities, "ロッカー")
	}
	if len(facilities) > 0 {
		parts = append(parts, "設備: "+strings.Join(facilities, ", "))
	}

	return strings.Join(parts, " | ")
}

// Clone creates a deep copy of the criteria.
func (c *AdvancedFilterCriteria) Clone() *AdvancedFilterCriteria {
	return &AdvancedFilterCriteria{
		CourseRating:   c.CourseRating.clone(),
		SlopeRating:    c.SlopeRating.clone(),
		RedTeeDistance: c.RedTeeDistance.clone(),
		PriceBand:      c.PriceBand,
		Facilities:     c.Facilities,
	}
}
