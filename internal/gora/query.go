package gora

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/google/go-querystring/query"
	"github.com/pfrederiksen/gora-search/internal/settings"
)

const (
	FormatJSON          = "json"
	SearchFormatVersion = 2
	FirstPage           = 1
	PageSize            = 30
)

// Endpoint selects which API path a Request targets.
type Endpoint string

const (
	EndpointSearch Endpoint = "search"
	EndpointDetail Endpoint = "detail"
)

// Request describes one API call: the endpoint and its query parameters.
type Request struct {
	Endpoint Endpoint
	Params   interface{} // struct with url tags
}

type searchParams struct {
	Format        string `url:"format"`
	ApplicationID string `url:"applicationId"`
	FormatVersion int    `url:"formatVersion,omitempty"`
	Keyword       string `url:"keyword,omitempty"`
	AreaCode      string `url:"areaCode,omitempty"`
	Page          int    `url:"page,omitempty"`
	Hits          int    `url:"hits"`
}

type detailParams struct {
	Format        string `url:"format"`
	ApplicationID string `url:"applicationId"`
	GolfCourseID  string `url:"golfCourseId"`
}

// BuildSearch builds the first-page search request for criteria.
func BuildSearch(cred string, criteria SearchCriteria) (Request, error) {
	if !settings.IsConfigured(cred) {
		return Request{}, ErrNotConfigured
	}

	return Request{
		Endpoint: EndpointSearch,
		Params: searchParams{
			Format:        FormatJSON,
			ApplicationID: cred,
			FormatVersion: SearchFormatVersion,
			Keyword:       strings.TrimSpace(criteria.Keyword),
			AreaCode:      strings.TrimSpace(criteria.AreaCode),
			Page:          FirstPage,
			Hits:          PageSize,
		},
	}, nil
}

// BuildDetail builds the detail request for one course. The detail endpoint
// takes no formatVersion.
func BuildDetail(cred, courseID string) (Request, error) {
	if !settings.IsConfigured(cred) {
		return Request{}, ErrNotConfigured
	}

	courseID = NormalizeCourseID(courseID)
	if courseID == "" {
		return Request{}, fmt.Errorf("course id is required")
	}

	return Request{
		Endpoint: EndpointDetail,
		Params: detailParams{
			Format:        FormatJSON,
			ApplicationID: cred,
			GolfCourseID:  courseID,
		},
	}, nil
}

// buildPing is the settings page connection test: one hit for 東京.
func buildPing(cred string) (Request, error) {
	if !settings.IsConfigured(cred) {
		return Request{}, ErrNotConfigured
	}
	return Request{
		Endpoint: EndpointSearch,
		Params: searchParams{
			Format:        FormatJSON,
			ApplicationID: cred,
			Keyword:       "東京",
			Hits:          1,
		},
	}, nil
}

// Values encodes the request parameters.
func (r Request) Values() (url.Values, error) {
	v, err := query.Values(r.Params)
	if err != nil {
		return nil, fmt.Errorf("encoding parameters: %w", err)
	}
	return v, nil
}

// URL joins base, path and the encoded parameters.
func (r Request) URL(base, path string) (string, error) {
	v, err := r.Values()
	if err != nil {
		return "", err
	}
	return strings.TrimSuffix(base, "/") + "/" + strings.TrimPrefix(path, "/") + "?" + v.Encode(), nil
}

// Redacted is URL with the application id masked, for logs.
func (r Request) Redacted(base, path string) string {
	v, err := r.Values()
	if err != nil {
		return base + path
	}
	if v.Get("applicationId") != "" {
		v.Set("applicationId", "***")
	}
	return strings.TrimSuffix(base, "/") + "/" + strings.TrimPrefix(path, "/") + "?" + v.Encode()
}
