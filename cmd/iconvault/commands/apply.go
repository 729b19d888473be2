package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	iverrors "github.com/iconvault/iconvault/internal/errors"
	"github.com/iconvault/iconvault/internal/replacer"
)

var (
	applyIcon            string
	applyCommit          bool
	applyRollbackOnError bool
)

func init() {
	applyCmd.PersistentFlags().StringVarP(&applyIcon, "icon", "i", "",
		"icon resource to apply (.ico, .cur, .bmp, .png, .jpg)")
	applyCmd.PersistentFlags().BoolVar(&applyCommit, "commit", false,
		"commit the change into the backup archive")
	applyCmd.PersistentFlags().BoolVar(&applyRollbackOnError, "rollback-on-error", false,
		"roll back the change if committing fails")
	_ = applyCmd.MarkPersistentFlagRequired("icon")

	applyCmd.AddCommand(applyFolderCmd)
	applyCmd.AddCommand(applyExtCmd)
	applyCmd.AddCommand(applyShortcutCmd)
	rootCmd.AddCommand(applyCmd)
}

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Apply an icon to a single target",
	Long: `Apply an icon to a folder, a file-type association, or a shortcut.

Without --commit the change is applied but its undo record is discarded
when the command exits; with --commit the change is recorded in the backup
archive so it can be restored later.`,
	Example: `  # Give a folder a custom icon
  iconvault apply folder ~/Projects --icon ~/icons/code.ico --commit

  # Associate .txt files with an icon
  iconvault apply ext .txt --icon ~/icons/text.ico --commit

  # Re-point a shortcut
  iconvault apply shortcut "app.lnk" --icon ~/icons/app.ico`,
}

var applyFolderCmd = &cobra.Command{
	Use:   "folder <path>",
	Short: "Apply an icon to a folder",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApply(cmd, func(r *replacer.Replacer) (*replacer.Operation, error) {
			return r.ReplaceFolderIcon(args[0], applyIcon)
		})
	},
}

var applyExtCmd = &cobra.Command{
	Use:   "ext <extension>",
	Short: "Apply an icon to a file-type association",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApply(cmd, func(r *replacer.Replacer) (*replacer.Operation, error) {
			return r.ReplaceExtensionIcon(args[0], applyIcon)
		})
	},
}

var applyShortcutCmd = &cobra.Command{
	Use:   "shortcut <path>",
	Short: "Apply an icon to a shortcut",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApply(cmd, func(r *replacer.Replacer) (*replacer.Operation, error) {
			return r.ReplaceShortcutIcon(args[0], applyIcon)
		})
	},
}

func runApply(cmd *cobra.Command, apply func(*replacer.Replacer) (*replacer.Operation, error)) error {
	r, arch, err := newReplacer(cmd)
	if err != nil {
		return err
	}

	op, err := apply(r)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%sApplied%s %s icon to %s\n",
		colorGreen, colorReset, op.Kind, op.TargetPath)

	if !applyCommit {
		return r.Discard()
	}

	id, err := r.Commit()
	if err != nil {
		if applyRollbackOnError {
			if _, rbErr := r.RollbackAll(); rbErr != nil {
				return iverrors.NewSystemError(rbErr,
					"state may be partially restored; check the target manually")
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Change rolled back after commit failure")
		}
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Committed as backup %s%s%s\n", colorCyan, id, colorReset)

	return pruneToRetention(cmd, arch)
}
