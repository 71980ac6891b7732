package filter

import (
	"net/url"
	"testing"
)

func TestParseCriteria(t *testing.T) {
	form := url.Values{
		FieldCourseRatingMin: {"70"},
		FieldCourseRatingMax: {""},
		FieldSlopeRatingMax:  {" 130 "},
		FieldPriceBand:       {"Medium"},
		FieldRestaurant:      {"on"},
	}

	c, err := ParseCriteria(form)
	if err != nil {
		t.Fatalf("ParseCriteria() error = %v", err)
	}

	if c.CourseRating.Min == nil || *c.CourseRating.Min != 70 || c.CourseRating.Max != nil {
		t.Errorf("CourseRating = %+v", c.CourseRating)
	}
	if c.SlopeRating.Min != nil || c.SlopeRating.Max == nil || *c.SlopeRating.Max != 130 {
		t.Errorf("SlopeRating = %+v", c.SlopeRating)
	}
	if !c.RedTeeDistance.IsEmpty() {
		t.Errorf("RedTeeDistance = %+v, want empty", c.RedTeeDistance)
	}
	if c.PriceBand != PriceMedium {
		t.Errorf("PriceBand = %q", c.PriceBand)
	}
	if !c.Facilities.Restaurant || c.Facilities.ProShop {
		t.Errorf("Facilities = %+v", c.Facilities)
	}
}

func TestParseCriteria_Empty(t *testing.T) {
	c, err := ParseCriteria(url.Values{})
	if err != nil {
		t.Fatalf("ParseCriteria() error = %v", err)
	}
	if !c.IsEmpty() {
		t.Errorf("expected empty criteria, got %s", c)
	}
}

func TestParseCriteria_Errors(t *testing.T) {
	tests := []struct {
		name string
		form url.Values
	}{
		{"non-numeric min", url.Values{FieldCourseRatingMin: {"abc"}}},
		{"non-numeric max", url.Values{FieldRedTeeDistanceMax: {"far"}}},
		{"min above max", url.Values{FieldSlopeRatingMin: {"140"}, FieldSlopeRatingMax: {"120"}}},
		{"unknown price band", url.Values{FieldPriceBand: {"cheap"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseCriteria(tt.form); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestParsePriceBand(t *testing.T) {
	tests := []struct {
		input   string
		want    PriceBand
		wantErr bool
	}{
		{"", PriceAny, false},
		{"low", PriceLow, false},
		{" HIGH ", PriceHigh, false},
		{"medium", PriceMedium, false},
		{"free", PriceAny, true},
	}

	for _, tt := range tests {
		got, err := ParsePriceBand(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParsePriceBand(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParsePriceBand(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		input string
		want  float64
	}{
		{"72.1", 72.1},
		{" 5,500 ", 5500},
		{"¥8,000", 8000},
		{"4850y", 4850},
		{"不明", 0},
		{"", 0},
	}

	for _, tt := range tests {
		if got := ParseNumber(tt.input); got != tt.want {
			t.Errorf("ParseNumber(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
