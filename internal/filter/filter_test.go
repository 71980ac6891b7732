package filter

import (
	"testing"
)

func ptr(v float64) *float64 { return &v }

func TestRange_Contains(t *testing.T) {
	tests := []struct {
		name string
		r    Range
		v    float64
		want bool
	}{
		{"open range", Range{}, 123, true},
		{"min only, above", Range{Min: ptr(70)}, 72.5, true},
		{"min only, below", Range{Min: ptr(70)}, 69.9, false},
		{"max only, equal", Range{Max: ptr(130)}, 130, true},
		{"both, inside", Range{Min: ptr(4000), Max: ptr(5000)}, 4500, true},
		{"both, above", Range{Min: ptr(4000), Max: ptr(5000)}, 5001, false},
		{"missing value compares as zero", Range{Min: ptr(1)}, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.r.Contains(tt.v); got != tt.want {
				t.Errorf("Contains(%v) = %v, want %v", tt.v, got, tt.want)
			}
		})
	}
}

func TestPriceBand_Contains(t *testing.T) {
	tests := []struct {
		band  PriceBand
		price float64
		want  bool
	}{
		{PriceAny, 99999, true},
		{PriceLow, 4000, true},
		{PriceLow, 5000, true},
		{PriceLow, 5001, false},
		{PriceMedium, 5000, true},
		{PriceMedium, 15000, true},
		{PriceMedium, 4999, false},
		{PriceMedium, 15001, false},
		{PriceHigh, 15000, true},
		{PriceHigh, 14999, false},
	}

	for _, tt := range tests {
		if got := tt.band.Contains(tt.price); got != tt.want {
			t.Errorf("%q.Contains(%v) = %v, want %v", tt.band, tt.price, got, tt.want)
		}
	}
}

func TestCriteria_IsEmpty(t *testing.T) {
	c := &AdvancedFilterCriteria{}
	if !c.IsEmpty() {
		t.Error("zero criteria should be empty")
	}

	tests := []struct {
		name string
		c    AdvancedFilterCriteria
	}{
		{"course rating", AdvancedFilterCriteria{CourseRating: Range{Min: ptr(70)}}},
		{"slope rating", AdvancedFilterCriteria{SlopeRating: Range{Max: ptr(130)}}},
		{"red tee", AdvancedFilterCriteria{RedTeeDistance: Range{Min: ptr(4000)}}},
		{"price band", AdvancedFilterCriteria{PriceBand: PriceHigh}},
		{"facility", AdvancedFilterCriteria{Facilities: Facilities{ProShop: true}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.c.IsEmpty() {
				t.Error("expected non-empty criteria")
			}
		})
	}
}

func TestCriteria_Matches(t *testing.T) {
	course := Attributes{
		CourseRating:   71.2,
		SlopeRating:    128,
		RedTeeDistance: 4850,
		Price:          8000,
		Facilities:     Facilities{DrivingRange: true, Restaurant: true},
	}

	tests := []struct {
		name     string
		criteria AdvancedFilterCriteria
		want     bool
	}{
		{"empty criteria", AdvancedFilterCriteria{}, true},
		{"course rating in range", AdvancedFilterCriteria{CourseRating: Range{Min: ptr(70), Max: ptr(72)}}, true},
		{"course rating too low", AdvancedFilterCriteria{CourseRating: Range{Min: ptr(72)}}, false},
		{"slope rating too high", AdvancedFilterCriteria{SlopeRating: Range{Max: ptr(120)}}, false},
		{"red tee in range", AdvancedFilterCriteria{RedTeeDistance: Range{Min: ptr(4500), Max: ptr(5000)}}, true},
		{"medium price", AdvancedFilterCriteria{PriceBand: PriceMedium}, true},
		{"low price", AdvancedFilterCriteria{PriceBand: PriceLow}, false},
		{"has facilities", AdvancedFilterCriteria{Facilities: Facilities{DrivingRange: true, Restaurant: true}}, true},
		{"missing pro shop", AdvancedFilterCriteria{Facilities: Facilities{ProShop: true}}, false},
		{
			"all conditions",
			AdvancedFilterCriteria{
				CourseRating:   Range{Min: ptr(70)},
				SlopeRating:    Range{Min: ptr(120), Max: ptr(130)},
				RedTeeDistance: Range{Max: ptr(5000)},
				PriceBand:      PriceMedium,
				Facilities:     Facilities{Restaurant: true},
			},
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.criteria.Matches(course); got != tt.want {
				t.Errorf("Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCriteria_String(t *testing.T) {
	c := &AdvancedFilterCriteria{}
	if c.String() != "No active filters" {
		t.Errorf("String() = %q", c.String())
	}

	c = &AdvancedFilterCriteria{
		CourseRating: Range{Min: ptr(70), Max: ptr(72.5)},
		PriceBand:    PriceLow,
		Facilities:   Facilities{DrivingRange: true, LockerRoom: true},
	}
	want := "コースレート: 70～72.5 | 料金帯: ～5,000円 | 設備: 練習場, ロッカー"
	if c.String() != want {
		t.Errorf("String() = %q, want %q", c.String(), want)
	}
}

func TestCriteria_Clone(t *testing.T) {
	original := &AdvancedFilterCriteria{
		CourseRating: Range{Min: ptr(70)},
		PriceBand:    PriceHigh,
		Facilities:   Facilities{ProShop: true},
	}

	clone := original.Clone()
	*clone.CourseRating.Min = 60
	clone.PriceBand = PriceLow

	if *original.CourseRating.Min != 70 {
		t.Error("modifying clone changed original range")
	}
	if original.PriceBand != PriceHigh {
		t.Error("modifying clone changed original band")
	}
	if !clone.Facilities.ProShop {
		t.Error("facilities not copied")
	}
}
