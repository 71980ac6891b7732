package gora

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dghubble/sling"
	"github.com/pfrederiksen/gora-search/internal/config"
	"github.com/pfrederiksen/gora-search/internal/logger"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

const userAgent = "gora-search/1.0"

// Options configures a Client. Zero values select the defaults from package config.
type Options struct {
	BaseURL    string
	SearchPath string
	DetailPath string
	Timeout    time.Duration

	RatePerSecond float64 // 0 disables client-side limiting
	RateBurst     int

	BreakerThreshold uint32 // consecutive transport/rate-limit failures; 0 disables the breaker
	BreakerTimeout   time.Duration

	CacheTTL   time.Duration
	NoCache    bool
	HTTPClient *http.Client
	Logger     *logger.Logger
	Metrics    *logger.Metrics
}

// OptionsFromConfig maps loaded configuration onto client options.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		BaseURL:          cfg.BaseURL,
		SearchPath:       cfg.SearchPath,
		DetailPath:       cfg.DetailPath,
		Timeout:          cfg.Timeout,
		RatePerSecond:    cfg.RatePerSecond,
		RateBurst:        cfg.RateBurst,
		BreakerThreshold: cfg.BreakerThreshold,
		BreakerTimeout:   cfg.BreakerTimeout,
		CacheTTL:         cfg.DetailCacheTTL,
	}
}

// Client calls the GORA search and detail endpoints.
type Client struct {
	baseURL    string
	searchPath string
	detailPath string
	httpClient *http.Client
	limiter    *rate.Limiter
	breaker    *gobreaker.CircuitBreaker
	cache      *DetailCache
	log        *logger.Logger
	metrics    *logger.Metrics
}

// NewClient creates a client.
func NewClient(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = config.DefaultBaseURL
	}
	if opts.SearchPath == "" {
		opts.SearchPath = config.DefaultSearchPath
	}
	if opts.DetailPath == "" {
		opts.DetailPath = config.DefaultDetailPath
	}
	if opts.Timeout == 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.RateBurst < 1 {
		opts.RateBurst = 1
	}
	if opts.Logger == nil {
		opts.Logger = logger.Default()
	}
	if opts.Metrics == nil {
		opts.Metrics = logger.NewMetrics()
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}

	limit := rate.Inf
	if opts.RatePerSecond > 0 {
		limit = rate.Limit(opts.RatePerSecond)
	}

	c := &Client{
		baseURL:    strings.TrimSuffix(opts.BaseURL, "/") + "/",
		searchPath: strings.TrimPrefix(opts.SearchPath, "/"),
		detailPath: strings.TrimPrefix(opts.DetailPath, "/"),
		httpClient: httpClient,
		limiter:    rate.NewLimiter(limit, opts.RateBurst),
		log:        opts.Logger,
		metrics:    opts.Metrics,
	}

	if !opts.NoCache {
		c.cache = NewDetailCache(opts.CacheTTL)
	}

	if opts.BreakerThreshold > 0 {
		c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "gora-api",
			MaxRequests: 1,
			Timeout:     opts.BreakerTimeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= opts.BreakerThreshold
			},
			IsSuccessful: func(err error) bool {
				kind := KindOf(err)
				return err == nil || (kind != KindTransport && kind != KindRateLimited)
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				opts.Logger.Warn("Circuit breaker state changed", logger.Fields{
					"breaker": name,
					"from":    from.String(),
					"to":      to.String(),
				})
			},
		})
	}

	return c
}

// Cache returns the detail cache, nil when caching is disabled.
func (c *Client) Cache() *DetailCache {
	return c.cache
}

// Logger returns the logger the client writes to.
func (c *Client) Logger() *logger.Logger {
	return c.log
}

// Metrics returns the client's request metrics.
func (c *Client) Metrics() *logger.Metrics {
	return c.metrics
}

type apiError struct {
	Code        string `json:"error"`
	Description string `json:"error_description"`
}

func (a *apiError) apiErr() *apiError { return a }

// envelope is a response body that may carry the provider error fields.
type envelope interface {
	apiErr() *apiError
}

type searchResponse struct {
	apiError
	Items []SearchResultItem `json:"Items"`
}

type detailResponse struct {
	apiError
	Item *CourseDetail `json:"Item"`
}

// Search runs a first-page search. An empty slice means no results, including
// the provider's not_found answer.
func (c *Client) Search(ctx context.Context, cred string, criteria SearchCriteria) ([]SearchResultItem, error) {
	req, err := BuildSearch(cred, criteria)
	if err != nil {
		return nil, err
	}

	c.metrics.IncrCounter("gora.search")

	var resp searchResponse
	if err := c.do(ctx, req, &resp); err != nil {
		// The search endpoint answers "not_found" when nothing matches.
		if KindOf(err) != KindNoData {
			return nil, err
		}
	}

	items := resp.Items
	if items == nil {
		items = []SearchResultItem{}
	}

	c.log.Info("Search completed", logger.Fields{
		"keyword":   strings.TrimSpace(criteria.Keyword),
		"area_code": criteria.AreaCode,
		"items":     len(items),
	})
	return items, nil
}

// Detail fetches the detail record for one course, using the cache when possible.
func (c *Client) Detail(ctx context.Context, cred, courseID string) (*CourseDetail, error) {
	req, err := BuildDetail(cred, courseID)
	if err != nil {
		return nil, err
	}
	courseID = NormalizeCourseID(courseID)

	if c.cache != nil {
		if cached := c.cache.Get(courseID); cached != nil {
			c.metrics.IncrCounter("gora.detail.cache_hit")
			return cached, nil
		}
	}

	c.metrics.IncrCounter("gora.detail")

	var resp detailResponse
	if err := c.do(ctx, req, &resp); err != nil {
		return nil, err
	}

	if resp.Item == nil {
		return nil, &Error{Kind: KindNoData, Description: fmt.Sprintf("no detail record for course %s", courseID)}
	}

	if c.cache != nil {
		c.cache.Set(courseID, resp.Item)
	}
	return resp.Item, nil
}

// Ping checks that cred works with a one-hit search and returns the hit count.
func (c *Client) Ping(ctx context.Context, cred string) (int, error) {
	req, err := buildPing(cred)
	if err != nil {
		return 0, err
	}

	var resp searchResponse
	if err := c.do(ctx, req, &resp); err != nil && KindOf(err) != KindNoData {
		return 0, err
	}
	return len(resp.Items), nil
}

func (c *Client) pathFor(e Endpoint) string {
	if e == EndpointDetail {
		return c.detailPath
	}
	return c.searchPath
}

// do waits for the limiter, then sends req through the breaker.
func (c *Client) do(ctx context.Context, req Request, out envelope) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return &Error{Kind: KindTransport, Description: "rate limiter wait aborted", Err: err}
	}

	start := time.Now()
	var err error
	if c.breaker != nil {
		_, err = c.breaker.Execute(func() (interface{}, error) {
			return nil, c.send(ctx, req, out)
		})
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			err = &Error{Kind: KindTransport, Description: "circuit breaker open", Err: err}
		}
	} else {
		err = c.send(ctx, req, out)
	}
	c.metrics.RecordTiming("gora.request", time.Since(start))

	if err != nil {
		c.metrics.IncrCounter("gora.errors." + KindOf(err).String())
		c.log.Error("GORA request failed", logger.Fields{
			"endpoint": string(req.Endpoint),
			"url":      req.Redacted(c.baseURL, c.pathFor(req.Endpoint)),
			"kind":     KindOf(err).String(),
		}, err)
	}
	return err
}

// send issues the GET and classifies the outcome. The error envelope wins over
// the status code; a non-2xx status without an envelope is a transport failure
// (rate limited for 429); an undecodable 2xx body is malformed.
func (c *Client) send(ctx context.Context, req Request, out envelope) error {
	path := c.pathFor(req.Endpoint)

	s := sling.New().
		Client(c.httpClient).
		Base(c.baseURL).
		Set("User-Agent", userAgent).
		Set("Accept", "application/json").
		Get(path).
		QueryStruct(req.Params)

	httpReq, err := s.Request()
	if err != nil {
		return &Error{Kind: KindTransport, Description: "building request", Err: err}
	}
	httpReq = httpReq.WithContext(ctx)

	c.log.Debug("GORA request", logger.Fields{"url": req.Redacted(c.baseURL, path)})

	resp, decodeErr := s.Do(httpReq, out, out)
	if resp == nil {
		return &Error{Kind: KindTransport, Err: decodeErr}
	}

	status := resp.StatusCode
	if env := out.apiErr(); env.Code != "" || env.Description != "" {
		return &Error{
			Kind:        Classify(env.Code, env.Description),
			Code:        env.Code,
			Description: env.Description,
			Status:      status,
		}
	}

	if status < 200 || status > 299 {
		kind := KindTransport
		if status == http.StatusTooManyRequests {
			kind = KindRateLimited
		}
		return &Error{Kind: kind, Description: http.StatusText(status), Status: status}
	}

	if decodeErr != nil {
		return &Error{Kind: KindMalformed, Description: "decoding response", Status: status, Err: decodeErr}
	}
	if resp.ContentLength == 0 || status == http.StatusNoContent {
		return &Error{Kind: KindMalformed, Description: "empty response body", Status: status}
	}
	return nil
}
