// Package server exposes the popup and settings pages over a local HTTP
// server built on gin.
//
// The popup document lives on the server; each action (search, detail,
// reserve, clear) mutates it through a popup.Controller and answers with the
// fragment that changed plus the current status line. The messaging router is
// reachable at POST /api/messages, and POST /api/augment rewrites a host page.
package server
