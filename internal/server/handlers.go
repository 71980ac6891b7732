package server

import (
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gin-gonic/gin"
	"github.com/pfrederiksen/gora-search/internal/augment"
	"github.com/pfrederiksen/gora-search/internal/filter"
	"github.com/pfrederiksen/gora-search/internal/gora"
	"github.com/pfrederiksen/gora-search/internal/logger"
	"github.com/pfrederiksen/gora-search/internal/messaging"
	"github.com/pfrederiksen/gora-search/internal/popup"
	"github.com/pfrederiksen/gora-search/internal/render"
	"github.com/pfrederiksen/gora-search/internal/settings"
)

const htmlContentType = "text/html; charset=utf-8"

// maxPageBytes bounds host pages posted to /api/augment.
const maxPageBytes = 5 << 20

// StatusView is the status line as returned to clients.
type StatusView struct {
	Message string             `json:"message"`
	Level   render.StatusLevel `json:"level"`
}

// ActionResponse answers the popup actions.
type ActionResponse struct {
	Success   bool        `json:"success"`
	Count     int         `json:"count"`
	NoResults bool        `json:"noResults,omitempty"`
	CourseID  string      `json:"courseId,omitempty"`
	State     string      `json:"state,omitempty"`
	URL       string      `json:"url,omitempty"`
	HTML      string      `json:"html,omitempty"`
	Status    *StatusView `json:"status,omitempty"`
	Error     string      `json:"error,omitempty"`
}

func statusView(st *popup.Status) *StatusView {
	msg, level, ok := st.Current()
	if !ok {
		return nil
	}
	return &StatusView{Message: msg, Level: level}
}

// httpStatus maps a flow error to a response code.
func httpStatus(err error) int {
	switch {
	case errors.Is(err, popup.ErrUnknownCourse):
		return http.StatusNotFound
	case errors.Is(err, popup.ErrAlreadyRequested), errors.Is(err, popup.ErrSuperseded), errors.Is(err, popup.ErrTestRunning):
		return http.StatusConflict
	case errors.Is(err, settings.ErrEmptyCredential), errors.Is(err, settings.ErrPlaceholderCredential):
		return http.StatusBadRequest
	}

	var gerr *gora.Error
	if !errors.As(err, &gerr) {
		return http.StatusBadRequest
	}
	switch gerr.Kind {
	case gora.KindNotConfigured:
		return http.StatusPreconditionFailed
	case gora.KindRateLimited:
		return http.StatusTooManyRequests
	case gora.KindNoData, gora.KindReservationURLMissing:
		return http.StatusNotFound
	default:
		return http.StatusBadGateway
	}
}

func (s *Server) fail(c *gin.Context, err error, resp ActionResponse) {
	resp.Success = false
	resp.Error = err.Error()
	resp.Status = statusView(s.controller.Status())
	c.JSON(httpStatus(err), resp)
}

func (s *Server) getPopup(c *gin.Context) {
	out, err := s.controller.HTML()
	if err != nil {
		c.String(http.StatusInternalServerError, err.Error())
		return
	}
	c.Data(http.StatusOK, htmlContentType, []byte(out))
}

func (s *Server) getSettings(c *gin.Context) {
	out, err := s.options.HTML()
	if err != nil {
		c.String(http.StatusInternalServerError, err.Error())
		return
	}
	c.Data(http.StatusOK, htmlContentType, []byte(out))
}

func (s *Server) getHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"service":   "gora-search",
		"timestamp": time.Now().UTC(),
		"uptime":    time.Since(s.started).Round(time.Second).String(),
	})
}

func (s *Server) getMetrics(c *gin.Context) {
	body := gin.H{"http": s.metrics.GetSnapshot()}
	if s.apiMetrics != nil {
		body["api"] = s.apiMetrics.GetSnapshot()
	}
	c.JSON(http.StatusOK, body)
}

func (s *Server) postSearch(c *gin.Context) {
	var criteria gora.SearchCriteria
	if err := c.ShouldBindJSON(&criteria); err != nil {
		c.JSON(http.StatusBadRequest, ActionResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	count, err := s.controller.Search(c.Request.Context(), criteria)
	if err != nil {
		s.fail(c, err, ActionResponse{})
		return
	}

	resp := ActionResponse{Success: true, Count: count, NoResults: count == 0}
	err = s.controller.View(func(p *render.Page) error {
		var err error
		resp.HTML, err = p.Fragment("#resultsList")
		return err
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, ActionResponse{Error: err.Error()})
		return
	}
	resp.Status = statusView(s.controller.Status())
	c.JSON(http.StatusOK, resp)
}

// itemResponse fills in the course's current entry and detail state.
func (s *Server) itemResponse(id string, resp ActionResponse) (ActionResponse, error) {
	resp.CourseID = gora.NormalizeCourseID(id)
	resp.State = s.controller.Tracker().State(resp.CourseID).String()
	err := s.controller.View(func(p *render.Page) error {
		var err error
		resp.HTML, _, err = p.ItemHTML(resp.CourseID)
		return err
	})
	return resp, err
}

func (s *Server) postDetails(c *gin.Context) {
	id := c.Param("id")

	_, err := s.controller.FetchDetail(c.Request.Context(), id)
	resp, viewErr := s.itemResponse(id, ActionResponse{Success: err == nil})
	if viewErr != nil {
		c.JSON(http.StatusInternalServerError, ActionResponse{Error: viewErr.Error()})
		return
	}

	if err != nil {
		// Detail failures stay on the entry; the message is returned with it
		// rather than through the shared status line.
		resp.Error = err.Error()
		if msg := popup.MessageFor(err); msg != popup.MsgGeneric {
			resp.Status = &StatusView{Message: msg, Level: render.StatusError}
		}
		c.JSON(httpStatus(err), resp)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) postReserve(c *gin.Context) {
	target, err := s.controller.OpenReservation(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err, ActionResponse{CourseID: gora.NormalizeCourseID(c.Param("id"))})
		return
	}
	c.JSON(http.StatusOK, ActionResponse{Success: true, CourseID: gora.NormalizeCourseID(c.Param("id")), URL: target})
}

func (s *Server) getStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": statusView(s.controller.Status())})
}

func (s *Server) postClear(c *gin.Context) {
	s.controller.Clear()
	c.JSON(http.StatusOK, ActionResponse{Success: true})
}

func (s *Server) getAreas(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"areas": gora.Areas})
}

type credentialBody struct {
	APIKey string `json:"apiKey"`
}

type settingsResponse struct {
	Success    bool        `json:"success"`
	APIKey     string      `json:"apiKey,omitempty"`
	Configured bool        `json:"configured"`
	Hits       *int        `json:"hits,omitempty"`
	Status     *StatusView `json:"status,omitempty"`
	Error      string      `json:"error,omitempty"`
}

func (s *Server) getCredential(c *gin.Context) {
	cred, err := s.options.Load()
	resp := settingsResponse{
		Success:    err == nil,
		APIKey:     cred,
		Configured: settings.IsConfigured(cred),
		Status:     statusView(s.options.Status()),
	}
	if err != nil {
		resp.Error = err.Error()
		c.JSON(http.StatusInternalServerError, resp)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) putCredential(c *gin.Context) {
	var body credentialBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, settingsResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	err := s.options.Save(body.APIKey)
	resp := settingsResponse{Success: err == nil, Status: statusView(s.options.Status())}
	if err != nil {
		resp.Error = err.Error()
		code := httpStatus(err)
		if code == http.StatusBadGateway {
			code = http.StatusInternalServerError
		}
		c.JSON(code, resp)
		return
	}
	resp.Configured = true
	c.JSON(http.StatusOK, resp)
}

func (s *Server) postTest(c *gin.Context) {
	var body credentialBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, settingsResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	hits, err := s.options.Test(c.Request.Context(), body.APIKey)
	resp := settingsResponse{Success: err == nil, Status: statusView(s.options.Status())}
	if err != nil {
		resp.Error = err.Error()
		c.JSON(httpStatus(err), resp)
		return
	}
	resp.Hits = &hits
	c.JSON(http.StatusOK, resp)
}

func (s *Server) postMessage(c *gin.Context) {
	var req messaging.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, messaging.Response{Error: "invalid request body: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, s.router.Dispatch(c.Request.Context(), req))
}

// postAugment rewrites the host page in the body, or fetches ?url= when the
// body is empty. ?apply=1 and ?sort= run the filter and sort actions.
func (s *Server) postAugment(c *gin.Context) {
	rawURL := strings.TrimSpace(c.Query("url"))
	u, err := url.Parse(rawURL)
	if rawURL == "" || err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "url query parameter is required"})
		return
	}

	order, err := augment.ParseSortOrder(c.Query("sort"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxPageBytes))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "reading body: " + err.Error()})
		return
	}

	var doc *goquery.Document
	switch {
	case len(strings.TrimSpace(string(body))) > 0:
		doc, err = goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	case s.fetcher != nil:
		doc, err = s.fetcher.Fetch(c.Request.Context(), rawURL)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "request body must contain the page"})
		return
	}
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	res, err := augment.Augment(doc, u)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	if c.Query("apply") == "1" {
		criteria, err := filter.ParseCriteria(c.Request.URL.Query())
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		augment.ApplyFilters(doc, criteria)
	}
	if c.Query("sort") != "" {
		augment.SortResults(doc, order)
	}

	out, err := doc.Html()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	logger.Debug("Augmented page served", logger.Fields{
		"url":   rawURL,
		"modes": res.Modes,
	})
	c.Header("X-Augment-Modes", joinModes(res.Modes))
	c.Data(http.StatusOK, htmlContentType, []byte(out))
}

func joinModes(modes []augment.Mode) string {
	parts := make([]string, len(modes))
	for i, m := range modes {
		parts[i] = string(m)
	}
	return strings.Join(parts, ",")
}
