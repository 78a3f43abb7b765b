package api

import (
	"crypto/ecdsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Audience claim expected by the marketplace API.
const tokenAudience = "appmarket-api-v1"

// Token lifetime. The API rejects anything over 20 minutes.
const tokenTTL = 20 * time.Minute

// Tokens are replaced this long before they actually expire, so an already
// minted token never goes stale mid-request.
const tokenExpiryMargin = 30 * time.Second

// ParsePrivateKey decodes a PEM-encoded EC private key (PKCS#8 or SEC 1) as
// distributed with marketplace API keys (.p8 files).
func ParsePrivateKey(pemBytes []byte) (*ecdsa.PrivateKey, error) {
	block, _ := pem.Decode(pemBytes)
	if block == nil {
		return nil, errors.New("no PEM block found in private key")
	}

	if key, err := x509.ParsePKCS8PrivateKey(block.Bytes); err == nil {
		ecKey, ok := key.(*ecdsa.PrivateKey)
		if !ok {
			return nil, errors.New("private key is not an EC key")
		}
		return ecKey, nil
	}

	ecKey, err := x509.ParseECPrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("parse private key: %w", err)
	}
	return ecKey, nil
}

// TokenSource mints short-lived ES256 bearer tokens from a developer API key
// and caches them until shortly before expiry. Safe for concurrent use.
type TokenSource struct {
	issuerID string
	keyID    string
	key      *ecdsa.PrivateKey

	mu      sync.Mutex
	token   string
	expires time.Time

	// test seam
	now func() time.Time
}

// NewTokenSource builds a TokenSource from the issuer id, key id and the
// PEM-encoded private key of a developer API key.
func NewTokenSource(issuerID, keyID string, pemKey []byte) (*TokenSource, error) {
	key, err := ParsePrivateKey(pemKey)
	if err != nil {
		return nil, err
	}
	return &TokenSource{
		issuerID: issuerID,
		keyID:    keyID,
		key:      key,
		now:      time.Now,
	}, nil
}

// Bearer returns a signed token, minting a fresh one if the cached token is
// missing or about to expire.
func (t *TokenSource) Bearer() (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	if t.token != "" && now.Before(t.expires.Add(-tokenExpiryMargin)) {
		return t.token, nil
	}

	expires := now.Add(tokenTTL)
	token := jwt.NewWithClaims(jwt.SigningMethodES256, jwt.RegisteredClaims{
		Issuer:    t.issuerID,
		Audience:  jwt.ClaimStrings{tokenAudience},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expires),
	})
	token.Header["kid"] = t.keyID

	signed, err := token.SignedString(t.key)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	t.token = signed
	t.expires = expires
	return signed, nil
}
