package server

import (
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pfrederiksen/gora-search/internal/logger"
)

// requestLogger logs one line per request and counts them by status class.
func requestLogger(metrics *logger.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		elapsed := time.Since(start)
		metrics.IncrCounter("http.requests")
		if status >= 500 {
			metrics.IncrCounter("http.errors")
		}
		metrics.RecordTiming("http.request", elapsed)

		logger.Debug("HTTP request", logger.Fields{
			"method":   c.Request.Method,
			"path":     c.FullPath(),
			"status":   status,
			"duration": elapsed.String(),
		})
	}
}

// Content types accepted on POST and PUT.
const (
	contentTypeJSON = "application/json"
	contentTypeHTML = "text/html"
)

// sameOrigin rejects requests sent by a page served from another origin. A
// request without an Origin header (curl, the CLI) passes; a browser always
// sends one on cross-origin POST and PUT.
func sameOrigin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if site := c.GetHeader("Sec-Fetch-Site"); site != "" && site != "same-origin" && site != "none" {
			forbid(c, "cross-site request")
			return
		}
		origin := c.GetHeader("Origin")
		if origin == "" {
			c.Next()
			return
		}
		u, err := url.Parse(origin)
		if err != nil || u.Host == "" || !strings.EqualFold(u.Host, c.Request.Host) {
			forbid(c, "cross-origin request")
			return
		}
		c.Next()
	}
}

// requireContentType rejects POST and PUT requests whose media type is not
// one of allowed. None of the allowed types may be sent cross-origin without
// a preflight.
func requireContentType(allowed ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost && c.Request.Method != http.MethodPut {
			c.Next()
			return
		}
		mediaType, _, err := mime.ParseMediaType(c.GetHeader("Content-Type"))
		if err == nil {
			for _, a := range allowed {
				if strings.EqualFold(mediaType, a) {
					c.Next()
					return
				}
			}
		}
		c.AbortWithStatusJSON(http.StatusUnsupportedMediaType, gin.H{
			"error": "content type must be " + strings.Join(allowed, " or "),
		})
	}
}

func forbid(c *gin.Context, reason string) {
	logger.Warn("Rejected request", logger.Fields{
		"method": c.Request.Method,
		"path":   c.Request.URL.Path,
		"origin": c.GetHeader("Origin"),
		"reason": reason,
	})
	c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": reason})
}
