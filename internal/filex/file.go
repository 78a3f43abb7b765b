// Package filex contains small filesystem helpers shared by the sync engine
// and the credential store.
package filex

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"os"
)

// EnsureDir creates dir (and any missing parents) if it does not exist.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o770); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return nil
}

// MD5Sum returns the lowercase hex MD5 digest of the file at path. The
// marketplace verifies committed uploads against this digest, so it is
// computed over the whole file regardless of how the bytes were chunked.
func MD5Sum(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	h := md5.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hash %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
