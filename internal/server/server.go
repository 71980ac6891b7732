package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pfrederiksen/gora-search/internal/augment"
	"github.com/pfrederiksen/gora-search/internal/logger"
	"github.com/pfrederiksen/gora-search/internal/messaging"
	"github.com/pfrederiksen/gora-search/internal/popup"
)

const shutdownTimeout = 5 * time.Second

// Deps are the collaborators the handlers call.
type Deps struct {
	Controller *popup.Controller
	Options    *popup.Options
	Router     *messaging.Router
	Bus        *messaging.Bus

	// Fetcher downloads the page for POST /api/augment when the request has
	// no body. Nil requires a body.
	Fetcher *augment.Fetcher

	// Metrics receives request counters; APIMetrics, when set, is reported
	// alongside them by GET /api/metrics.
	Metrics    *logger.Metrics
	APIMetrics *logger.Metrics
}

// Server serves the popup and settings pages.
type Server struct {
	controller *popup.Controller
	options    *popup.Options
	router     *messaging.Router
	bus        *messaging.Bus
	fetcher    *augment.Fetcher
	metrics    *logger.Metrics
	apiMetrics *logger.Metrics
	engine     *gin.Engine
	started    time.Time
}

// New builds the server and its routes.
func New(d Deps) *Server {
	if d.Metrics == nil {
		d.Metrics = logger.NewMetrics()
	}
	if d.Bus == nil {
		d.Bus = messaging.NewBus()
	}

	s := &Server{
		controller: d.Controller,
		options:    d.Options,
		router:     d.Router,
		bus:        d.Bus,
		fetcher:    d.Fetcher,
		metrics:    d.Metrics,
		apiMetrics: d.APIMetrics,
		started:    time.Now(),
	}

	engine := gin.New()
	engine.Use(gin.Recovery(), requestLogger(s.metrics))

	engine.GET("/", s.getPopup)
	engine.GET("/settings", s.getSettings)
	engine.GET("/health", s.getHealth)

	api := engine.Group("/api", sameOrigin())
	{
		api.GET("/status", s.getStatus)
		api.GET("/areas", s.getAreas)
		api.GET("/metrics", s.getMetrics)
		api.GET("/settings/credential", s.getCredential)

		api.POST("/augment", requireContentType(contentTypeHTML), s.postAugment)
	}

	// State-changing routes take JSON only, so a cross-origin page cannot
	// reach them without a preflight.
	actions := api.Group("", requireContentType(contentTypeJSON))
	{
		actions.POST("/search", s.postSearch)
		actions.POST("/courses/:id/details", s.postDetails)
		actions.POST("/courses/:id/reserve", s.postReserve)
		actions.POST("/clear", s.postClear)
		actions.PUT("/settings/credential", s.putCredential)
		actions.POST("/settings/test", s.postTest)
		actions.POST("/messages", s.postMessage)
	}

	s.engine = engine
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on addr until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Popup server started", logger.Fields{"addr": addr})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("serving on %s: %w", addr, err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down popup server", logger.Fields{"addr": addr})
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}
