package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/appmarket/appship/internal/api"
	"github.com/appmarket/appship/internal/common"
	"github.com/appmarket/appship/internal/keystore"
	"github.com/appmarket/appship/internal/media"
	"github.com/appmarket/appship/internal/transfer"
)

// newClient builds an authenticated API client from the resolved
// credentials.
func (a *App) newClient(ctx context.Context) (*api.Client, error) {
	pem, issuerID, keyID, err := a.credentials(ctx)
	if err != nil {
		return nil, err
	}
	defer common.WipeByteArray(pem)

	tokens, err := api.NewTokenSource(issuerID, keyID, pem)
	if err != nil {
		return nil, err
	}
	return api.New(a.config.APIBaseURL, tokens, a.log, api.Options{
		Timeout:    a.config.RequestTimeout,
		MaxRetries: uint64(a.config.MaxRetries),
	}), nil
}

// newEngine builds the media sync engine on top of an authenticated client.
func (a *App) newEngine(ctx context.Context) (*media.Engine, error) {
	client, err := a.newClient(ctx)
	if err != nil {
		return nil, err
	}
	mover := transfer.New(a.log, 0, uint64(a.config.MaxRetries))
	return media.NewEngine(client, mover, a.log, a.config.ChunkParallelism), nil
}

// openStore opens the credentials keystore at the configured path, falling
// back to the default location under the user's home.
func (a *App) openStore(ctx context.Context) (*keystore.Store, error) {
	path := a.config.KeystorePath
	if path == "" {
		var err error
		if path, err = keystore.DefaultPath(); err != nil {
			return nil, err
		}
	}
	return keystore.Open(ctx, path)
}

// credentials resolves the developer API key. Direct key material from the
// configuration, when fully specified, wins over the keystore; that is the
// CI path where no interactive prompt is possible.
func (a *App) credentials(ctx context.Context) (pem []byte, issuerID, keyID string, err error) {
	c := a.config
	if c.IssuerID != "" && c.KeyID != "" && c.PrivateKeyPath != "" {
		data, readErr := os.ReadFile(c.PrivateKeyPath)
		if readErr != nil {
			return nil, "", "", fmt.Errorf("read private key: %w", readErr)
		}
		return data, c.IssuerID, c.KeyID, nil
	}

	store, err := a.openStore(ctx)
	if err != nil {
		return nil, "", "", err
	}
	defer store.Close()

	profile, err := store.Get(ctx, c.AuthProfile)
	if err != nil {
		return nil, "", "", err
	}

	var passphrase []byte
	if profile.Encrypted {
		if passphrase, err = GetPassword(os.Stderr, fmt.Sprintf("Passphrase for profile %q: ", profile.Name)); err != nil {
			return nil, "", "", err
		}
		defer common.WipeByteArray(passphrase)
	}

	pem, err = profile.OpenKey(passphrase)
	if err != nil {
		return nil, "", "", err
	}
	return pem, profile.IssuerID, profile.KeyID, nil
}
