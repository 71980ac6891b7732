package settings

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pfrederiksen/gora-search/internal/config"
	"github.com/pfrederiksen/gora-search/internal/crypto"
	"github.com/pfrederiksen/gora-search/internal/logger"
	"github.com/pfrederiksen/gora-search/internal/messaging"
	"github.com/spf13/viper"
)

const (
	// KeyAPIKey stores the Rakuten application id.
	KeyAPIKey = "rakutenApiKey"

	// PlaceholderAPIKey is written on first run and means "not configured".
	PlaceholderAPIKey = "YOUR_APPLICATION_ID_HERE"

	fileName = "settings.json"
)

var (
	ErrEmptyCredential       = errors.New("credential is empty")
	ErrPlaceholderCredential = errors.New("credential is the placeholder value")
)

// Storage is the get/set contract of the settings store.
type Storage interface {
	Get(key string) (string, bool)
	Set(key, value string) error
}

// Store is a file-backed Storage. Safe for concurrent use.
type Store struct {
	mu   sync.Mutex
	v    *viper.Viper
	path string
	enc  *crypto.Encryptor
	bus  *messaging.Bus
}

// New opens (or prepares) the settings file in dataDir. enc and bus may be nil.
func New(dataDir string, enc *crypto.Encryptor, bus *messaging.Bus) (*Store, error) {
	dataDir, err := config.ExpandHome(dataDir)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	v := viper.New()
	path := filepath.Join(dataDir, fileName)
	v.SetConfigFile(path)
	v.SetConfigType("json")

	s := &Store{v: v, path: path, enc: enc, bus: bus}
	if err := s.reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the settings file location.
func (s *Store) Path() string {
	return s.path
}

// reload re-reads the file; a missing file leaves the store empty. Callers hold mu
// or own s exclusively.
func (s *Store) reload() error {
	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return nil
	}
	if err := s.v.ReadInConfig(); err != nil {
		return fmt.Errorf("reading settings: %w", err)
	}
	return nil
}

// Get returns the stored value for key and whether it is set.
func (s *Store) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.reload(); err != nil {
		logger.Warn("Settings file unreadable", logger.Fields{"path": s.path, "error": err.Error()})
	}
	if !s.v.IsSet(key) {
		return "", false
	}
	return s.v.GetString(key), true
}

// Set stores value under key and writes the file.
func (s *Store) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.reload(); err != nil {
		return err
	}

	// s.v must never carry overrides; they would shadow edits made by other processes.
	w := viper.New()
	w.SetConfigType("json")
	for k, val := range s.v.AllSettings() {
		w.Set(k, val)
	}
	w.Set(key, value)
	if err := w.WriteConfigAs(s.path); err != nil {
		return fmt.Errorf("writing settings: %w", err)
	}
	return s.reload()
}

// Initialize writes the placeholder credential when none is stored yet.
func (s *Store) Initialize() error {
	if _, ok := s.Get(KeyAPIKey); ok {
		return nil
	}
	return s.Set(KeyAPIKey, PlaceholderAPIKey)
}

// Credential returns the current credential, or "" when none is stored.
// The placeholder is returned verbatim; use IsConfigured to check it.
func (s *Store) Credential() (string, error) {
	value, ok := s.Get(KeyAPIKey)
	if !ok {
		return "", nil
	}
	return s.enc.Open(value)
}

// SetCredential validates, seals and stores a new credential, then notifies
// subscribers of ActionUpdateAPIKey.
func (s *Store) SetCredential(value string) error {
	value = strings.TrimSpace(value)
	if err := ValidateCredential(value); err != nil {
		return err
	}

	sealed, err := s.enc.Seal(value)
	if err != nil {
		return fmt.Errorf("sealing credential: %w", err)
	}
	if err := s.Set(KeyAPIKey, sealed); err != nil {
		return err
	}

	logger.Info("Credential updated", logger.Fields{"credential": logger.MaskSecret(value)})
	if s.bus != nil {
		s.bus.Publish(messaging.ActionUpdateAPIKey, messaging.Request{APIKey: value})
	}
	return nil
}

// ValidateCredential rejects empty and placeholder values.
func ValidateCredential(value string) error {
	switch strings.TrimSpace(value) {
	case "":
		return ErrEmptyCredential
	case PlaceholderAPIKey:
		return ErrPlaceholderCredential
	}
	return nil
}

// IsConfigured reports whether cred can be sent to the API.
func IsConfigured(cred string) bool {
	return ValidateCredential(cred) == nil
}
