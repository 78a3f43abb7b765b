package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (a *App) profilesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profiles",
		Short: "Manage signing profiles",
	}
	cmd.AddCommand(
		a.profilesListCmd(),
		a.profilesCreateCmd(),
		a.profilesDeleteCmd(),
	)
	return cmd
}

func (a *App) profilesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List signing profiles",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			client, err := a.newClient(ctx)
			if err != nil {
				return err
			}

			profiles, err := client.ListProfiles(ctx)
			if err != nil {
				return err
			}

			if a.jsonOut {
				return printJSON(cmd.OutOrStdout(), profiles)
			}
			rows := make([][]string, 0, len(profiles))
			for _, p := range profiles {
				rows = append(rows, []string{
					p.ID, p.Name, p.ProfileType, p.State,
					p.ExpiresAt.Format("2006-01-02"),
				})
			}
			printTable(cmd.OutOrStdout(), []string{"id", "name", "type", "state", "expires"}, rows)
			return nil
		},
	}
}

func (a *App) profilesCreateCmd() *cobra.Command {
	var (
		name        string
		profileType string
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a signing profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			client, err := a.newClient(ctx)
			if err != nil {
				return err
			}

			p, err := client.CreateProfile(ctx, name, profileType)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created profile %s (%s)\n", p.ID, p.Name)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "profile name")
	cmd.Flags().StringVar(&profileType, "type", "STORE", "profile type")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func (a *App) profilesDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a signing profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			client, err := a.newClient(ctx)
			if err != nil {
				return err
			}

			if err := client.DeleteProfile(ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted profile %s\n", args[0])
			return nil
		},
	}
}
