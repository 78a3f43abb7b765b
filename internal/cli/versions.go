package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (a *App) versionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "versions",
		Short: "Manage store versions",
	}
	cmd.AddCommand(
		a.versionsListCmd(),
		a.versionsCreateCmd(),
	)
	return cmd
}

func (a *App) versionsListCmd() *cobra.Command {
	var appID string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the store versions of an app",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			client, err := a.newClient(ctx)
			if err != nil {
				return err
			}

			versions, err := client.ListVersions(ctx, appID)
			if err != nil {
				return err
			}

			if a.jsonOut {
				return printJSON(cmd.OutOrStdout(), versions)
			}
			rows := make([][]string, 0, len(versions))
			for _, v := range versions {
				rows = append(rows, []string{
					v.ID, v.VersionString, v.Platform, v.State,
					v.CreatedAt.Format("2006-01-02 15:04"),
				})
			}
			printTable(cmd.OutOrStdout(), []string{"id", "version", "platform", "state", "created"}, rows)
			return nil
		},
	}
	cmd.Flags().StringVar(&appID, "app-id", "", "app id")
	_ = cmd.MarkFlagRequired("app-id")
	return cmd
}

func (a *App) versionsCreateCmd() *cobra.Command {
	var (
		appID         string
		versionString string
		platform      string
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new store version",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			client, err := a.newClient(ctx)
			if err != nil {
				return err
			}

			v, err := client.CreateVersion(ctx, appID, versionString, platform)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created version %s (%s, %s)\n", v.ID, v.VersionString, v.Platform)
			return nil
		},
	}
	cmd.Flags().StringVar(&appID, "app-id", "", "app id")
	cmd.Flags().StringVar(&versionString, "version", "", "marketing version string, e.g. 2.1.0")
	cmd.Flags().StringVar(&platform, "platform", "MOBILE", "target platform")
	_ = cmd.MarkFlagRequired("app-id")
	_ = cmd.MarkFlagRequired("version")
	return cmd
}
