// Package cryptox implements the at-rest encryption used by the credential
// keystore: argon2id key derivation plus AES-256-GCM sealing of API private
// keys.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"

	"github.com/appmarket/appship/internal/common"
	"golang.org/x/crypto/argon2"
)

// DeriveKey stretches a passphrase into a 32-byte AES key using argon2id.
// The salt must be random per profile and stored alongside the ciphertext.
func DeriveKey(passphrase []byte, salt []byte) []byte {
	return argon2.IDKey(passphrase, salt, 1, 64*1024, 4, 32)
}

// MakeVerifier returns a digest of the derived key that can be stored in
// clear. Comparing it on open detects a wrong passphrase without attempting
// decryption.
func MakeVerifier(key []byte) []byte {
	hash := sha256.Sum256(key)
	return hash[:]
}

// Seal encrypts plaintext with AES-GCM under key.
//
// The key must be 16, 24, or 32 bytes (AES-128/192/256). A fresh random
// 12-byte nonce is generated for every call and returned separately; it is
// not secret and should be stored with the ciphertext.
func Seal(plaintext, key []byte) (ciphertext, nonce []byte, err error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, nil, err
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, nil, err
	}

	nonce = common.GenerateRandByteArray(aesgcm.NonceSize())
	ciphertext = aesgcm.Seal(nil, nonce, plaintext, nil)
	return ciphertext, nonce, nil
}

// Open decrypts ciphertext produced by Seal with the same key and nonce.
// Decryption fails if any of the three is wrong or the data was modified.
func Open(ciphertext, nonce, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return aesgcm.Open(nil, nonce, ciphertext, nil)
}
