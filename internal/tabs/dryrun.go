package tabs

import (
	"context"
	"fmt"
	"io"
	"sync"
)

// DryRunOpener prints what would be opened without launching anything
type DryRunOpener struct {
	mu     sync.Mutex
	out    io.Writer
	opened []string
}

// NewDryRunOpener creates a dry-run opener writing to out (nil discards)
func NewDryRunOpener(out io.Writer) *DryRunOpener {
	if out == nil {
		out = io.Discard
	}
	return &DryRunOpener{out: out}
}

// Open records the URL and prints it
func (o *DryRunOpener) Open(_ context.Context, rawURL string) error {
	u, err := Validate(rawURL)
	if err != nil {
		return err
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	o.opened = append(o.opened, u.String())
	fmt.Fprintf(o.out, "Would open: %s\n", u.String())
	return nil
}

// Opened returns every URL opened so far, oldest first
func (o *DryRunOpener) Opened() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]string(nil), o.opened...)
}
