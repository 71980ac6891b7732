// Package tabs opens URLs in a new browsing context.
//
// The browser opener hands links to the desktop's default browser; the
// dry-run opener only reports them, which is what headless runs and tests use.
package tabs
