package popup

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/pfrederiksen/gora-search/internal/gora"
	"github.com/pfrederiksen/gora-search/internal/messaging"
	"github.com/pfrederiksen/gora-search/internal/render"
	"github.com/pfrederiksen/gora-search/internal/settings"
)

// Settings page messages.
const (
	MsgKeyLoaded     = "APIキーが読み込まれました"
	MsgKeyRequired   = "APIキーを入力してください"
	MsgKeyNotValid   = "有効なAPIキーを入力してください"
	MsgSaveFailed    = "保存に失敗しました: "
	MsgKeySaved      = "APIキーが正常に保存されました"
	MsgTesting       = "API接続をテスト中..."
	MsgTestOK        = "API接続テスト成功！正常に動作しています。"
	MsgTestNoResults = "API接続は成功しましたが、検索結果がありませんでした。"
	MsgTestRejected  = "APIキーが無効です。正しいApplication IDを入力してください。"
	MsgTestFailed    = "API接続テストに失敗しました: "
)

// Pinger runs the connection test.
type Pinger interface {
	Ping(ctx context.Context, cred string) (int, error)
}

// CredentialStore is the part of settings.Store the settings page uses.
type CredentialStore interface {
	Credential() (string, error)
	SetCredential(value string) error
}

// Options runs the settings page flows: load, save and connection test.
type Options struct {
	store  CredentialStore
	pinger Pinger
	status *Status

	mu      sync.Mutex
	input   string
	testing bool
}

// NewOptions creates the settings page controller.
func NewOptions(store CredentialStore, pinger Pinger) *Options {
	return &Options{store: store, pinger: pinger, status: NewStatus()}
}

// Status returns the settings page status line.
func (o *Options) Status() *Status {
	return o.status
}

// Input returns the credential currently in the input field.
func (o *Options) Input() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.input
}

// Load fills the input with the stored credential. The placeholder is not
// shown, and nothing is announced when no credential is configured.
func (o *Options) Load() (string, error) {
	cred, err := o.store.Credential()
	if err != nil {
		o.status.Show(MsgSaveFailed+err.Error(), render.StatusError)
		return "", err
	}
	if !settings.IsConfigured(cred) {
		return "", nil
	}

	o.mu.Lock()
	o.input = cred
	o.mu.Unlock()
	o.status.Show(MsgKeyLoaded, render.StatusSuccess)
	return cred, nil
}

// Save validates and stores value.
func (o *Options) Save(value string) error {
	err := o.store.SetCredential(value)
	switch {
	case errors.Is(err, settings.ErrEmptyCredential):
		o.status.Show(MsgKeyRequired, render.StatusError)
		return err
	case errors.Is(err, settings.ErrPlaceholderCredential):
		o.status.Show(MsgKeyNotValid, render.StatusError)
		return err
	case err != nil:
		o.status.Show(MsgSaveFailed+err.Error(), render.StatusError)
		return err
	}

	o.setInput(strings.TrimSpace(value))
	o.status.Show(MsgKeySaved, render.StatusSuccess)
	return nil
}

// Test runs a one-hit search with value without storing it. Only one test
// runs at a time; a second call while one is running returns ErrTestRunning.
func (o *Options) Test(ctx context.Context, value string) (int, error) {
	value = strings.TrimSpace(value)
	if err := settings.ValidateCredential(value); err != nil {
		o.status.Show(MsgKeyNotValid, render.StatusError)
		return 0, err
	}

	o.mu.Lock()
	if o.testing {
		o.mu.Unlock()
		return 0, ErrTestRunning
	}
	o.testing = true
	o.mu.Unlock()

	defer func() {
		o.mu.Lock()
		o.testing = false
		o.mu.Unlock()
	}()

	o.status.Show(MsgTesting, render.StatusInfo)
	hits, err := o.pinger.Ping(ctx, value)

	switch {
	case err == nil && hits > 0:
		o.status.Show(MsgTestOK, render.StatusSuccess)
	case err == nil:
		o.status.Show(MsgTestNoResults, render.StatusInfo)
	case gora.KindOf(err) == gora.KindInvalidCredential:
		o.status.Show(MsgTestRejected, render.StatusError)
	case gora.KindOf(err) == gora.KindRateLimited:
		o.status.Show(MsgRateLimited, render.StatusError)
	default:
		o.status.Show(MsgTestFailed+err.Error(), render.StatusError)
	}
	return hits, err
}

// Testing reports whether a connection test is running.
func (o *Options) Testing() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.testing
}

// Subscribe keeps the input in step with credentials saved elsewhere.
func (o *Options) Subscribe(bus *messaging.Bus) messaging.Subscription {
	return bus.Subscribe(messaging.ActionUpdateAPIKey, func(m messaging.Message) {
		o.setInput(m.Payload.APIKey)
	})
}

func (o *Options) setInput(value string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.input = value
}

// HTML renders the settings page with the current input and status.
func (o *Options) HTML() (string, error) {
	page := render.NewSettingsPage()
	page.SetAPIKey(o.Input())
	page.SetTesting(o.Testing())
	if msg, level, ok := o.status.Current(); ok {
		page.ShowStatus(msg, level)
	}
	return page.HTML()
}
