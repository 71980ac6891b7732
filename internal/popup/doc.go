// Package popup runs the search popup's flows: search, per-course detail
// fetch, reservation and clearing the form.
//
// A Controller owns one render.Page. Each flow re-reads the credential from
// the settings store, so a key saved on the settings page is used by the very
// next action. Flows may run concurrently; a detail result that arrives after
// a newer search or a clear is dropped.
package popup
