package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/appmarket/appship/internal/api"
)

func (a *App) localizationsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "localizations",
		Short: "Export and import store listing texts",
	}
	cmd.AddCommand(
		a.localizationsExportCmd(),
		a.localizationsImportCmd(),
	)
	return cmd
}

func (a *App) localizationsExportCmd() *cobra.Command {
	var (
		versionID string
		file      string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the listing texts of a version as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			client, err := a.newClient(ctx)
			if err != nil {
				return err
			}

			locs, err := client.ListLocalizations(ctx, versionID)
			if err != nil {
				return err
			}

			data, err := json.MarshalIndent(locs, "", "  ")
			if err != nil {
				return fmt.Errorf("encode localizations: %w", err)
			}
			data = append(data, '\n')

			if file == "" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(file, data, 0o660); err != nil {
				return fmt.Errorf("write %s: %w", file, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "exported %d localizations to %s\n", len(locs), file)
			return nil
		},
	}
	cmd.Flags().StringVar(&versionID, "version-id", "", "store version id")
	cmd.Flags().StringVar(&file, "file", "", "output file (default stdout)")
	_ = cmd.MarkFlagRequired("version-id")
	return cmd
}

func (a *App) localizationsImportCmd() *cobra.Command {
	var (
		versionID string
		file      string
	)
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Create or update listing texts from a JSON file",
		Long: `Reads a JSON array in the format produced by "localizations export".
Locales that already exist on the version are updated in place, new
locales are created.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			data, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("read %s: %w", file, err)
			}
			var incoming []api.Localization
			if err := json.Unmarshal(data, &incoming); err != nil {
				return fmt.Errorf("parse %s: %w", file, err)
			}

			client, err := a.newClient(ctx)
			if err != nil {
				return err
			}

			existing, err := client.ListLocalizations(ctx, versionID)
			if err != nil {
				return err
			}
			byLocale := make(map[string]api.Localization, len(existing))
			for _, loc := range existing {
				byLocale[loc.Locale] = loc
			}

			var created, updated int
			for _, loc := range incoming {
				if cur, ok := byLocale[loc.Locale]; ok {
					if _, err := client.UpdateLocalization(ctx, cur.ID, loc); err != nil {
						return fmt.Errorf("update %s: %w", loc.Locale, err)
					}
					updated++
					continue
				}
				if _, err := client.CreateLocalization(ctx, versionID, loc); err != nil {
					return fmt.Errorf("create %s: %w", loc.Locale, err)
				}
				created++
			}
			fmt.Fprintf(cmd.OutOrStdout(), "localizations: %d created, %d updated\n", created, updated)
			return nil
		},
	}
	cmd.Flags().StringVar(&versionID, "version-id", "", "store version id")
	cmd.Flags().StringVar(&file, "file", "", "input file")
	_ = cmd.MarkFlagRequired("version-id")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
