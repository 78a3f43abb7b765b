package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/appmarket/appship/internal/media"
)

func (a *App) mediaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "media",
		Short: "Synchronize screenshots and preview videos",
		Long: `The media commands keep the visual assets of a store version in sync
with a local directory tree laid out as <root>/<locale>/<displayType>/.
A file's alphabetical position inside its directory is its display
position on the store page.`,
	}
	cmd.AddCommand(
		a.mediaUploadCmd(),
		a.mediaDownloadCmd(),
		a.mediaVerifyCmd(),
		a.mediaRepairCmd(),
	)
	return cmd
}

func (a *App) mediaUploadCmd() *cobra.Command {
	var (
		versionID string
		root      string
		replace   bool
		wait      bool
	)
	cmd := &cobra.Command{
		Use:   "upload",
		Short: "Upload the local asset tree to a version",
		Long: `Uploads every screenshot and preview under the asset root. Files whose
names already exist remotely are skipped unless --replace is given, in
which case the remote sets are cleared first and end up mirroring the
local tree exactly.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			eng, err := a.newEngine(ctx)
			if err != nil {
				return err
			}

			sum, err := eng.Upload(ctx, root, versionID, media.UploadOptions{Replace: replace})
			if err != nil {
				return err
			}
			a.printSummary(cmd, sum)

			if wait && sum.Succeeded > 0 {
				res, werr := eng.WaitForDelivery(ctx, versionID, a.config.PollInterval, a.config.PollTimeout)
				fmt.Fprintln(cmd.OutOrStdout(), res.String())
				if werr != nil {
					return werr
				}
			}
			if sum.Err() != nil {
				return fmt.Errorf("upload incomplete: %s", sum)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&versionID, "version-id", "", "store version id")
	cmd.Flags().StringVar(&root, "root", "", "asset tree root")
	cmd.Flags().BoolVar(&replace, "replace", false, "delete existing remote assets first")
	cmd.Flags().BoolVar(&wait, "wait", false, "poll until the marketplace finishes processing")
	_ = cmd.MarkFlagRequired("version-id")
	_ = cmd.MarkFlagRequired("root")
	return cmd
}

func (a *App) mediaDownloadCmd() *cobra.Command {
	var (
		versionID string
		root      string
	)
	cmd := &cobra.Command{
		Use:   "download",
		Short: "Download the remote assets of a version into a local tree",
		Long: `Mirrors the remote assets into <root>/<locale>/<displayType>/, with
file names prefixed by their display position ("01_", "02_", ...).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			eng, err := a.newEngine(ctx)
			if err != nil {
				return err
			}

			sum, err := eng.Download(ctx, root, versionID)
			if err != nil {
				return err
			}
			a.printSummary(cmd, sum)
			if sum.Err() != nil {
				return fmt.Errorf("download incomplete: %s", sum)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&versionID, "version-id", "", "store version id")
	cmd.Flags().StringVar(&root, "root", "", "target directory")
	_ = cmd.MarkFlagRequired("version-id")
	_ = cmd.MarkFlagRequired("root")
	return cmd
}

func (a *App) mediaVerifyCmd() *cobra.Command {
	var (
		versionID string
		wait      bool
	)
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Report the delivery state of a version's assets",
		Long: `Inspects every asset of the version without changing anything. Assets
that finished uploading but were never processed are flagged as stuck;
only deleting and re-uploading them (see "media repair") gets a version
out of that state.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			eng, err := a.newEngine(ctx)
			if err != nil {
				return err
			}

			if wait {
				res, werr := eng.WaitForDelivery(ctx, versionID, a.config.PollInterval, a.config.PollTimeout)
				fmt.Fprintln(cmd.OutOrStdout(), res.String())
				if werr != nil {
					return werr
				}
			}

			report, err := eng.Verify(ctx, versionID)
			if err != nil {
				return err
			}
			if report.Complete() {
				fmt.Fprintln(cmd.OutOrStdout(), "all assets delivered")
				fmt.Fprint(cmd.OutOrStdout(), report.String())
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), report.String())
			return fmt.Errorf("version %s has undelivered assets", versionID)
		},
	}
	cmd.Flags().StringVar(&versionID, "version-id", "", "store version id")
	cmd.Flags().BoolVar(&wait, "wait", false, "poll until all assets reach a terminal state before reporting")
	_ = cmd.MarkFlagRequired("version-id")
	return cmd
}

func (a *App) mediaRepairCmd() *cobra.Command {
	var (
		versionID string
		root      string
		wait      bool
	)
	cmd := &cobra.Command{
		Use:   "repair",
		Short: "Re-upload stuck or failed assets from the local tree",
		Long: `Deletes every stuck or failed remote asset and re-uploads the local
file at the same display position. The local tree must contain exactly
as many files per set as the remote side has assets, otherwise the set
is refused; run "media upload --replace" to resynchronize in that case.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			eng, err := a.newEngine(ctx)
			if err != nil {
				return err
			}

			sum, err := eng.Repair(ctx, root, versionID)
			if err != nil {
				return err
			}
			a.printSummary(cmd, sum)

			if wait && sum.Succeeded > 0 {
				res, werr := eng.WaitForDelivery(ctx, versionID, a.config.PollInterval, a.config.PollTimeout)
				fmt.Fprintln(cmd.OutOrStdout(), res.String())
				if werr != nil {
					return werr
				}
			}
			if sum.Err() != nil {
				return fmt.Errorf("repair incomplete: %s", sum)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&versionID, "version-id", "", "store version id")
	cmd.Flags().StringVar(&root, "root", "", "asset tree root")
	cmd.Flags().BoolVar(&wait, "wait", false, "poll until the marketplace finishes processing")
	_ = cmd.MarkFlagRequired("version-id")
	_ = cmd.MarkFlagRequired("root")
	return cmd
}

func (a *App) printSummary(cmd *cobra.Command, sum *media.Summary) {
	out := cmd.OutOrStdout()
	for _, w := range sum.Warnings {
		fmt.Fprintf(out, "skipped %s: %s\n", w.Path, w.Reason)
	}
	fmt.Fprintln(out, sum)
}
