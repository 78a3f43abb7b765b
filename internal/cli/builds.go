package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (a *App) buildsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "builds",
		Short: "Inspect uploaded builds and attach them to versions",
	}
	cmd.AddCommand(
		a.buildsListCmd(),
		a.buildsAttachCmd(),
	)
	return cmd
}

func (a *App) buildsListCmd() *cobra.Command {
	var appID string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the processed builds of an app",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			client, err := a.newClient(ctx)
			if err != nil {
				return err
			}

			builds, err := client.ListBuilds(ctx, appID)
			if err != nil {
				return err
			}

			if a.jsonOut {
				return printJSON(cmd.OutOrStdout(), builds)
			}
			rows := make([][]string, 0, len(builds))
			for _, b := range builds {
				rows = append(rows, []string{
					b.ID, b.Version, b.ProcessingState,
					b.UploadedAt.Format("2006-01-02 15:04"),
				})
			}
			printTable(cmd.OutOrStdout(), []string{"id", "build", "state", "uploaded"}, rows)
			return nil
		},
	}
	cmd.Flags().StringVar(&appID, "app-id", "", "app id")
	_ = cmd.MarkFlagRequired("app-id")
	return cmd
}

func (a *App) buildsAttachCmd() *cobra.Command {
	var (
		versionID string
		buildID   string
	)
	cmd := &cobra.Command{
		Use:   "attach",
		Short: "Attach a processed build to a store version",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			client, err := a.newClient(ctx)
			if err != nil {
				return err
			}

			if err := client.AttachBuild(ctx, versionID, buildID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "attached build %s to version %s\n", buildID, versionID)
			return nil
		},
	}
	cmd.Flags().StringVar(&versionID, "version-id", "", "store version id")
	cmd.Flags().StringVar(&buildID, "build-id", "", "build id")
	_ = cmd.MarkFlagRequired("version-id")
	_ = cmd.MarkFlagRequired("build-id")
	return cmd
}
