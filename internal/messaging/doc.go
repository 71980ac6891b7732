// Package messaging carries requests and broadcasts between the gora-search
// components: the popup flow, the settings page and the page augmenter.
//
// Requests are action-tagged and answered by exactly one handler through a
// Router. Notifications such as a changed credential or a keyword picked on a
// host page go through a Bus, where every current subscriber receives each
// message at most once and publishing without subscribers is not an error.
package messaging
