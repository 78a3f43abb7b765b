package keystore

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/appmarket/appship/internal/common"
	"github.com/appmarket/appship/internal/cryptox"
)

// ErrWrongPassphrase is returned when a sealed profile's passphrase does not
// match the stored verifier.
var ErrWrongPassphrase = errors.New("wrong passphrase")

// Profile is one stored developer credential: the API key identifiers plus
// the private key in PEM form, optionally sealed with a passphrase.
type Profile struct {
	ID       string
	Name     string
	IssuerID string
	KeyID    string

	// Key holds the PEM private key: plaintext when Encrypted is false,
	// AES-GCM ciphertext otherwise.
	Key       []byte
	Encrypted bool
	Nonce     []byte
	Salt      []byte
	Verifier  []byte

	CreatedAt time.Time
}

// SealKey encrypts the private key in place with a key derived from
// passphrase and a fresh random salt. The derived-key verifier is stored so
// a wrong passphrase can be rejected before decryption.
func (p *Profile) SealKey(passphrase []byte) error {
	salt := common.GenerateRandByteArray(16)
	key := cryptox.DeriveKey(passphrase, salt)

	ciphertext, nonce, err := cryptox.Seal(p.Key, key)
	if err != nil {
		return fmt.Errorf("seal private key: %w", err)
	}
	p.Key = ciphertext
	p.Nonce = nonce
	p.Salt = salt
	p.Verifier = cryptox.MakeVerifier(key)
	p.Encrypted = true
	return nil
}

// OpenKey returns the PEM private key, decrypting it when the profile is
// sealed. The passphrase is checked against the stored verifier first, so a
// typo yields ErrWrongPassphrase rather than AEAD garbage.
func (p *Profile) OpenKey(passphrase []byte) ([]byte, error) {
	if !p.Encrypted {
		return p.Key, nil
	}

	key := cryptox.DeriveKey(passphrase, p.Salt)
	if subtle.ConstantTimeCompare(p.Verifier, cryptox.MakeVerifier(key)) == 0 {
		return nil, ErrWrongPassphrase
	}

	plaintext, err := cryptox.Open(p.Key, p.Nonce, key)
	if err != nil {
		return nil, fmt.Errorf("open private key: %w", err)
	}
	return plaintext, nil
}
