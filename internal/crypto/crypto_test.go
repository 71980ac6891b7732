package crypto

import (
	"errors"
	"strings"
	"testing"
)

func TestNewEncryptor(t *testing.T) {
	if NewEncryptor("") != nil {
		t.Error("NewEncryptor(\"\") should return nil")
	}
	if NewEncryptor("passphrase") == nil {
		t.Error("NewEncryptor(passphrase) returned nil")
	}
}

func TestSealOpen(t *testing.T) {
	enc := NewEncryptor("test-passphrase")

	tests := []struct {
		name      string
		plaintext string
	}{
		{name: "application id", plaintext: "1012345678901234567"},
		{name: "empty string", plaintext: ""},
		{name: "unicode", plaintext: "ゴルフ場キー"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sealed, err := enc.Seal(tt.plaintext)
			if err != nil {
				t.Fatalf("Seal() error = %v", err)
			}

			if tt.plaintext != "" {
				if !IsSealed(sealed) {
					t.Errorf("Seal() = %q, missing prefix", sealed)
				}
				if strings.Contains(sealed, tt.plaintext) {
					t.Error("sealed value contains plaintext")
				}
			}

			opened, err := enc.Open(sealed)
			if err != nil {
				t.Fatalf("Open() error = %v", err)
			}
			if opened != tt.plaintext {
				t.Errorf("Open() = %q, want %q", opened, tt.plaintext)
			}
		})
	}
}

func TestSealUsesFreshSalt(t *testing.T) {
	enc := NewEncryptor("test-passphrase")

	a, _ := enc.Seal("same")
	b, _ := enc.Seal("same")
	if a == b {
		t.Error("two seals of the same value should differ")
	}
}

func TestOpen_Plaintext(t *testing.T) {
	var nilEnc *Encryptor
	got, err := nilEnc.Open("plain-key")
	if err != nil || got != "plain-key" {
		t.Errorf("nil Open() = %q, %v", got, err)
	}

	got, err = NewEncryptor("x").Open("plain-key")
	if err != nil || got != "plain-key" {
		t.Errorf("Open(plaintext) = %q, %v", got, err)
	}
}

func TestOpen_WrongPassphrase(t *testing.T) {
	sealed, err := NewEncryptor("right").Seal("secret")
	if err != nil {
		t.Fatal(err)
	}

	if _, err := NewEncryptor("wrong").Open(sealed); !errors.Is(err, ErrWrongPassphrase) {
		t.Errorf("Open() with wrong passphrase error = %v, want ErrWrongPassphrase", err)
	}

	var nilEnc *Encryptor
	if _, err := nilEnc.Open(sealed); !errors.Is(err, ErrWrongPassphrase) {
		t.Errorf("nil Open(sealed) error = %v, want ErrWrongPassphrase", err)
	}
}

func TestOpen_Corrupt(t *testing.T) {
	enc := NewEncryptor("k")
	if _, err := enc.Open(Prefix + "!!!"); err == nil {
		t.Error("expected error for invalid base64")
	}
	if _, err := enc.Open(Prefix + "AAAA"); err == nil {
		t.Error("expected error for short data")
	}
}
