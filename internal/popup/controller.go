package popup

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/pfrederiksen/gora-search/internal/gora"
	"github.com/pfrederiksen/gora-search/internal/logger"
	"github.com/pfrederiksen/gora-search/internal/messaging"
	"github.com/pfrederiksen/gora-search/internal/render"
	"github.com/pfrederiksen/gora-search/internal/settings"
	"github.com/pfrederiksen/gora-search/internal/tabs"
)

var (
	// ErrAlreadyRequested is returned when a course's details were already requested.
	ErrAlreadyRequested = errors.New("details already requested for this course")

	// ErrSuperseded is returned when a result arrived after the list it belonged
	// to was replaced or cleared. Nothing was changed.
	ErrSuperseded = errors.New("result list was replaced before the response arrived")

	// ErrUnknownCourse is returned for a course id that is not in the current list.
	ErrUnknownCourse = errors.New("course is not in the current results")

	// ErrTestRunning is returned when a connection test is already running.
	ErrTestRunning = errors.New("connection test already running")
)

// API is the part of gora.Client the popup uses.
type API interface {
	Search(ctx context.Context, cred string, criteria gora.SearchCriteria) ([]gora.SearchResultItem, error)
	Detail(ctx context.Context, cred, courseID string) (*gora.CourseDetail, error)
}

// Credentials supplies the stored application id.
type Credentials interface {
	Credential() (string, error)
}

// Controller runs the popup flows against one page. Safe for concurrent use.
type Controller struct {
	api    API
	creds  Credentials
	opener tabs.Opener
	log    *logger.Logger

	mu         sync.Mutex
	page       *render.Page
	generation uint64

	tracker *Tracker
	status  *Status
}

// NewController creates a controller with a fresh page. It logs to the
// default logger until SetLogger is called.
func NewController(api API, creds Credentials, opener tabs.Opener) *Controller {
	return &Controller{
		api:     api,
		creds:   creds,
		opener:  opener,
		log:     logger.Default(),
		page:    render.NewPage(),
		tracker: NewTracker(),
		status:  NewStatus(),
	}
}

// SetLogger replaces the controller's logger. Call it before serving requests.
func (c *Controller) SetLogger(l *logger.Logger) {
	if l != nil {
		c.log = l
	}
}

// Status returns the controller's status line.
func (c *Controller) Status() *Status {
	return c.status
}

// Tracker returns the detail fetch tracker.
func (c *Controller) Tracker() *Tracker {
	return c.tracker
}

// credential reads the stored credential and fails with gora.ErrNotConfigured
// when it is missing or still the placeholder.
func (c *Controller) credential() (string, error) {
	cred, err := c.creds.Credential()
	if err != nil {
		return "", fmt.Errorf("reading credential: %w", err)
	}
	if !settings.IsConfigured(cred) {
		return "", gora.ErrNotConfigured
	}
	return cred, nil
}

// fail shows err's message and returns err.
func (c *Controller) fail(err error) error {
	c.status.Show(MessageFor(err), render.StatusError)
	return err
}

// Search clears the list, runs the search and renders the results. It
// returns the number of courses shown; zero means the no-results notice is
// displayed. Nothing is requested when the credential is not configured.
func (c *Controller) Search(ctx context.Context, criteria gora.SearchCriteria) (int, error) {
	cred, err := c.credential()
	if err != nil {
		return 0, c.fail(err)
	}
	if !gora.IsValidArea(criteria.AreaCode) {
		return 0, c.fail(fmt.Errorf("unknown area code %q", criteria.AreaCode))
	}

	c.mu.Lock()
	c.generation++
	gen := c.generation
	c.tracker.Reset()
	c.status.Clear()
	c.page.SetKeyword(strings.TrimSpace(criteria.Keyword))
	c.page.SetArea(strings.TrimSpace(criteria.AreaCode))
	c.page.ClearResults()
	c.page.SetLoading(true)
	c.mu.Unlock()

	items, err := c.api.Search(ctx, cred, criteria)

	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generation {
		return 0, ErrSuperseded
	}
	c.page.SetLoading(false)

	if err != nil {
		c.log.Warn("Search failed", logger.Fields{
			"keyword": criteria.Keyword,
			"kind":    gora.KindOf(err).String(),
		})
		return 0, c.fail(err)
	}

	return c.page.RenderResults(items), nil
}

// FetchDetail fetches one course's details and appends them to its entry.
// A course is requested at most once per result list; failures are terminal
// and only affect that entry.
func (c *Controller) FetchDetail(ctx context.Context, courseID string) (State, error) {
	courseID = gora.NormalizeCourseID(courseID)

	cred, err := c.credential()
	if err != nil {
		return c.tracker.State(courseID), c.fail(err)
	}

	c.mu.Lock()
	gen := c.generation
	if !c.page.HasItem(courseID) {
		c.mu.Unlock()
		return Unfetched, ErrUnknownCourse
	}
	if !c.tracker.Begin(courseID) {
		state := c.tracker.State(courseID)
		c.mu.Unlock()
		return state, ErrAlreadyRequested
	}
	c.page.SetTrigger(courseID, render.TriggerFetching)
	c.mu.Unlock()

	detail, err := c.api.Detail(ctx, cred, courseID)

	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generation {
		return Unfetched, ErrSuperseded
	}

	if err != nil {
		state := c.tracker.Finish(courseID, false)
		c.page.SetTrigger(courseID, state.Trigger())
		c.log.Warn("Detail fetch failed", logger.Fields{
			"course_id": courseID,
			"kind":      gora.KindOf(err).String(),
		})
		return state, &gora.Error{Kind: gora.KindDetailFetch, Description: "course " + courseID, Err: err}
	}

	c.page.MergeDetail(courseID, detail)
	state := c.tracker.Finish(courseID, true)
	c.page.SetTrigger(courseID, state.Trigger())
	return state, nil
}

// OpenReservation opens the course's reservation page in a new tab. A course
// without a reservation link shows a notice and opens nothing.
func (c *Controller) OpenReservation(ctx context.Context, courseID string) (string, error) {
	c.mu.Lock()
	url, ok := c.page.ReserveURL(courseID)
	c.mu.Unlock()

	if !ok {
		return "", ErrUnknownCourse
	}
	if url == "" {
		return "", c.fail(&gora.Error{Kind: gora.KindReservationURLMissing, Description: "course " + gora.NormalizeCourseID(courseID)})
	}

	if err := c.opener.Open(ctx, url); err != nil {
		return "", c.fail(fmt.Errorf("opening reservation: %w", err))
	}
	return url, nil
}

// Clear empties the form and the list. In-flight results are dropped.
func (c *Controller) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.generation++
	c.tracker.Reset()
	c.status.Clear()
	c.page.SetLoading(false)
	c.page.Reset()
}

// SetKeyword pre-fills the keyword input.
func (c *Controller) SetKeyword(keyword string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.page.SetKeyword(strings.TrimSpace(keyword))
}

// Subscribe pre-fills the keyword from setSearchKeyword and openSimilarSearch
// broadcasts. The returned subscriptions can be passed to bus.Unsubscribe.
func (c *Controller) Subscribe(bus *messaging.Bus) []messaging.Subscription {
	return []messaging.Subscription{
		bus.Subscribe(messaging.ActionSetSearchKeyword, func(m messaging.Message) {
			c.SetKeyword(m.Payload.Keyword)
		}),
		bus.Subscribe(messaging.ActionOpenSimilarSearch, func(m messaging.Message) {
			if name := m.Payload.CourseInfo["name"]; name != "" {
				c.SetKeyword(name)
			}
		}),
	}
}

// View runs fn with the page, after the status line has been brought up to
// date. fn must not retain the page.
func (c *Controller) View(fn func(p *render.Page) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.status.apply(c.page)
	return fn(c.page)
}

// HTML renders the whole popup document.
func (c *Controller) HTML() (string, error) {
	var out string
	err := c.View(func(p *render.Page) error {
		var err error
		out, err = p.HTML()
		return err
	})
	return out, err
}
