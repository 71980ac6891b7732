package tabs

import (
	"context"
	"fmt"
	"io"

	"github.com/pfrederiksen/gora-search/internal/logger"
	"github.com/pkg/browser"
)

// BrowserOpener opens URLs in the system's default browser
type BrowserOpener struct {
	open func(string) error
}

// NewBrowserOpener creates an opener that launches the default browser.
// Output of the launcher process is discarded.
func NewBrowserOpener() *BrowserOpener {
	browser.Stdout = io.Discard
	browser.Stderr = io.Discard
	return &BrowserOpener{open: browser.OpenURL}
}

// Open validates rawURL and hands it to the browser
func (o *BrowserOpener) Open(ctx context.Context, rawURL string) error {
	u, err := Validate(rawURL)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := o.open(u.String()); err != nil {
		return fmt.Errorf("failed to open %s: %w", u.Redacted(), err)
	}

	logger.Info("Opened tab", logger.Fields{"host": u.Host})
	return nil
}
