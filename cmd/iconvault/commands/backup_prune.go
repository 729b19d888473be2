package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	iverrors "github.com/iconvault/iconvault/internal/errors"
)

var backupPruneKeep int

func init() {
	backupPruneCmd.Flags().IntVar(&backupPruneKeep, "keep", 0,
		"number of most recent entries to keep (default: configured retention count)")
	backupCmd.AddCommand(backupPruneCmd)
}

var backupPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete old archive entries",
	Long: `Delete the oldest archive entries beyond a retention count.

The count defaults to the configured retention_count and can be
overridden with --keep.`,
	Example: `  # Keep only the five most recent backups
  iconvault backup prune --keep 5`,
	RunE: func(cmd *cobra.Command, args []string) error {
		keep := backupPruneKeep
		if !cmd.Flags().Changed("keep") {
			keep = cfg.RetentionCount
		}
		if keep < 0 {
			return iverrors.NewUserError(nil, "--keep must be non-negative")
		}

		arch, err := openArchive()
		if err != nil {
			return err
		}

		deleted, err := arch.Cleanup(keep)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Pruned %d backup(s), keeping the %d most recent\n",
			deleted, keep)
		return nil
	},
}
