package commands

import (
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(backupCmd)
}

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Manage the backup archive",
	Long: `Inspect, restore, delete, and prune entries in the backup archive.

Every committed change creates one archive entry holding the files it
overwrote, so any commit can be undone later by restoring its entry.`,
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}
