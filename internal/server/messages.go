package server

import (
	"context"

	"github.com/pfrederiksen/gora-search/internal/messaging"
	"github.com/pfrederiksen/gora-search/internal/popup"
	"github.com/pfrederiksen/gora-search/internal/tabs"
)

// NewMessageRouter registers the handlers behind POST /api/messages.
// settingsURL is what openOptionsPage opens.
func NewMessageRouter(store popup.CredentialStore, opener tabs.Opener, bus *messaging.Bus, settingsURL string) *messaging.Router {
	r := messaging.NewRouter()

	r.Handle(messaging.ActionGetAPIKey, func(_ context.Context, _ messaging.Request) (messaging.Response, error) {
		cred, err := store.Credential()
		if err != nil {
			return messaging.Response{}, err
		}
		return messaging.Response{Success: true, APIKey: cred}, nil
	})

	r.Handle(messaging.ActionSetAPIKey, func(_ context.Context, req messaging.Request) (messaging.Response, error) {
		if err := store.SetCredential(req.APIKey); err != nil {
			return messaging.Response{}, err
		}
		return messaging.Response{Success: true}, nil
	})

	r.Handle(messaging.ActionOpenTab, func(ctx context.Context, req messaging.Request) (messaging.Response, error) {
		if err := opener.Open(ctx, req.URL); err != nil {
			return messaging.Response{}, err
		}
		return messaging.Response{Success: true}, nil
	})

	r.Handle(messaging.ActionOpenOptionsPage, func(ctx context.Context, _ messaging.Request) (messaging.Response, error) {
		if err := opener.Open(ctx, settingsURL); err != nil {
			return messaging.Response{}, err
		}
		return messaging.Response{Success: true}, nil
	})

	// Broadcasts succeed even when nobody is listening.
	for _, action := range []messaging.Action{messaging.ActionSetSearchKeyword, messaging.ActionOpenSimilarSearch} {
		r.Handle(action, func(_ context.Context, req messaging.Request) (messaging.Response, error) {
			bus.Publish(action, req)
			return messaging.Response{Success: true}, nil
		})
	}

	return r
}
