package gora

import (
	"errors"
	"strings"
	"testing"

	"github.com/pfrederiksen/gora-search/internal/settings"
)

func TestBuildSearch(t *testing.T) {
	tests := []struct {
		name        string
		criteria    SearchCriteria
		wantKeyword string
		wantArea    string
	}{
		{
			name:     "empty keyword and area",
			criteria: SearchCriteria{},
		},
		{
			name:     "whitespace keyword is omitted",
			criteria: SearchCriteria{Keyword: "   \t"},
		},
		{
			name:        "keyword is trimmed verbatim",
			criteria:    SearchCriteria{Keyword: "  Tokyo Golf  "},
			wantKeyword: "Tokyo Golf",
		},
		{
			name:        "japanese keyword with area",
			criteria:    SearchCriteria{Keyword: "箱根", AreaCode: "14"},
			wantKeyword: "箱根",
			wantArea:    "14",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := BuildSearch("app-id-123", tt.criteria)
			if err != nil {
				t.Fatalf("BuildSearch() error = %v", err)
			}
			if req.Endpoint != EndpointSearch {
				t.Errorf("Endpoint = %q, want search", req.Endpoint)
			}

			v, err := req.Values()
			if err != nil {
				t.Fatal(err)
			}

			fixed := map[string]string{
				"format":        "json",
				"applicationId": "app-id-123",
				"formatVersion": "2",
				"page":          "1",
				"hits":          "30",
			}
			for key, want := range fixed {
				if got := v.Get(key); got != want {
					t.Errorf("%s = %q, want %q", key, got, want)
				}
			}

			if _, ok := v["keyword"]; ok != (tt.wantKeyword != "") {
				t.Errorf("keyword present = %v, want %v", ok, tt.wantKeyword != "")
			}
			if got := v.Get("keyword"); got != tt.wantKeyword {
				t.Errorf("keyword = %q, want %q", got, tt.wantKeyword)
			}
			if _, ok := v["areaCode"]; ok != (tt.wantArea != "") {
				t.Errorf("areaCode present = %v, want %v", ok, tt.wantArea != "")
			}
			if got := v.Get("areaCode"); got != tt.wantArea {
				t.Errorf("areaCode = %q, want %q", got, tt.wantArea)
			}
		})
	}
}

func TestBuildSearch_NotConfigured(t *testing.T) {
	for _, cred := range []string{"", "  ", settings.PlaceholderAPIKey} {
		_, err := BuildSearch(cred, SearchCriteria{Keyword: "x"})
		if !errors.Is(err, ErrNotConfigured) {
			t.Errorf("BuildSearch(%q) error = %v, want ErrNotConfigured", cred, err)
		}
		if KindOf(err) != KindNotConfigured {
			t.Errorf("KindOf() = %v", KindOf(err))
		}
	}
}

func TestBuildDetail(t *testing.T) {
	req, err := BuildDetail("app-id-123", " 120001 ")
	if err != nil {
		t.Fatalf("BuildDetail() error = %v", err)
	}
	if req.Endpoint != EndpointDetail {
		t.Errorf("Endpoint = %q, want detail", req.Endpoint)
	}

	v, _ := req.Values()
	if v.Get("format") != "json" || v.Get("applicationId") != "app-id-123" || v.Get("golfCourseId") != "120001" {
		t.Errorf("unexpected params: %v", v)
	}
	for _, key := range []string{"formatVersion", "page", "hits", "keyword"} {
		if _, ok := v[key]; ok {
			t.Errorf("detail request must not include %s", key)
		}
	}

	if _, err := BuildDetail("app-id-123", " "); err == nil {
		t.Error("expected error for empty course id")
	}
	if _, err := BuildDetail(settings.PlaceholderAPIKey, "1"); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("BuildDetail(placeholder) error = %v", err)
	}
}

func TestRequestURL(t *testing.T) {
	req, _ := BuildSearch("secret-app-id", SearchCriteria{Keyword: "東京"})

	u, err := req.URL("https://example.test/Gora/", "/GoraGolfCourseSearch/20170623")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(u, "https://example.test/Gora/GoraGolfCourseSearch/20170623?") {
		t.Errorf("URL() = %q", u)
	}
	if !strings.Contains(u, "applicationId=secret-app-id") {
		t.Errorf("URL() missing credential: %q", u)
	}

	redacted := req.Redacted("https://example.test/Gora", "GoraGolfCourseSearch/20170623")
	if strings.Contains(redacted, "secret-app-id") {
		t.Errorf("Redacted() leaks credential: %q", redacted)
	}
}

func TestBuildPing(t *testing.T) {
	req, err := buildPing("app-id")
	if err != nil {
		t.Fatal(err)
	}
	v, _ := req.Values()
	if v.Get("keyword") != "東京" || v.Get("hits") != "1" {
		t.Errorf("ping params = %v", v)
	}
	if _, ok := v["formatVersion"]; ok {
		t.Error("ping should not send formatVersion")
	}
}

func TestAreas(t *testing.T) {
	if len(Areas) != 47 {
		t.Fatalf("len(Areas) = %d, want 47", len(Areas))
	}

	tests := []struct {
		code  string
		valid bool
		name  string
	}{
		{"", true, ""},
		{"13", true, "東京都"},
		{"47", true, "沖縄県"},
		{"0", false, "0"},
		{"48", false, "48"},
		{"013", false, "013"},
		{"abc", false, "abc"},
	}

	for _, tt := range tests {
		if got := IsValidArea(tt.code); got != tt.valid {
			t.Errorf("IsValidArea(%q) = %v, want %v", tt.code, got, tt.valid)
		}
		if got := AreaName(tt.code); got != tt.name {
			t.Errorf("AreaName(%q) = %q, want %q", tt.code, got, tt.name)
		}
	}
}
