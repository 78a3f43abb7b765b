package cli

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/appmarket/appship/internal/api"
	"github.com/appmarket/appship/internal/common"
	"github.com/appmarket/appship/internal/keystore"
)

func (a *App) authCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage stored API credentials",
		Long: `Credentials are kept in a local keystore database. A profile bundles
the issuer id, key id and private key of one AppMarket API key; pass
--encrypt to seal the key with a passphrase that is asked for on use.`,
	}
	cmd.AddCommand(
		a.authAddCmd(),
		a.authListCmd(),
		a.authRemoveCmd(),
	)
	return cmd
}

func (a *App) authAddCmd() *cobra.Command {
	var (
		name     string
		issuerID string
		keyID    string
		keyPath  string
		encrypt  bool
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Store an API key as a named profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			pem, err := os.ReadFile(keyPath)
			if err != nil {
				return fmt.Errorf("read key %s: %w", keyPath, err)
			}
			defer common.WipeByteArray(pem)

			if _, err := api.ParsePrivateKey(pem); err != nil {
				return fmt.Errorf("key %s: %w", keyPath, err)
			}

			profile := &keystore.Profile{
				Name:     name,
				IssuerID: issuerID,
				KeyID:    keyID,
				Key:      pem,
			}

			if encrypt {
				pass, err := GetPassword(cmd.ErrOrStderr(), "Passphrase: ")
				if err != nil {
					return err
				}
				defer common.WipeByteArray(pass)
				again, err := GetPassword(cmd.ErrOrStderr(), "Repeat passphrase: ")
				if err != nil {
					return err
				}
				defer common.WipeByteArray(again)
				if !bytes.Equal(pass, again) {
					return errors.New("passphrases do not match")
				}
				if err := profile.SealKey(pass); err != nil {
					return err
				}
			}

			store, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.Save(ctx, profile); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "saved profile %s\n", profile.Name)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "default", "profile name")
	cmd.Flags().StringVar(&issuerID, "issuer-id", "", "API issuer id")
	cmd.Flags().StringVar(&keyID, "key-id", "", "API key id")
	cmd.Flags().StringVar(&keyPath, "key", "", "path to the .p8 private key")
	cmd.Flags().BoolVar(&encrypt, "encrypt", false, "seal the key with a passphrase")
	_ = cmd.MarkFlagRequired("issuer-id")
	_ = cmd.MarkFlagRequired("key-id")
	_ = cmd.MarkFlagRequired("key")
	return cmd
}

func (a *App) authListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored profiles",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			profiles, err := store.List(ctx)
			if err != nil {
				return err
			}

			if a.jsonOut {
				// Deliberate view type: never serialize key material.
				type profileView struct {
					Name      string    `json:"name"`
					IssuerID  string    `json:"issuerId"`
					KeyID     string    `json:"keyId"`
					Encrypted bool      `json:"encrypted"`
					CreatedAt time.Time `json:"createdAt"`
				}
				views := make([]profileView, 0, len(profiles))
				for _, p := range profiles {
					views = append(views, profileView{
						Name: p.Name, IssuerID: p.IssuerID, KeyID: p.KeyID,
						Encrypted: p.Encrypted, CreatedAt: p.CreatedAt,
					})
				}
				return printJSON(cmd.OutOrStdout(), views)
			}

			rows := make([][]string, 0, len(profiles))
			for _, p := range profiles {
				encrypted := "no"
				if p.Encrypted {
					encrypted = "yes"
				}
				rows = append(rows, []string{
					p.Name, p.IssuerID, p.KeyID, encrypted,
					p.CreatedAt.Format("2006-01-02 15:04"),
				})
			}
			printTable(cmd.OutOrStdout(), []string{"name", "issuer", "key-id", "encrypted", "created"}, rows)
			return nil
		},
	}
}

func (a *App) authRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <name>",
		Short: "Remove a stored profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.Delete(ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed profile %s\n", args[0])
			return nil
		},
	}
}
