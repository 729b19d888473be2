package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	backupCmd.AddCommand(backupDeleteCmd)
}

var backupDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an archive entry",
	Long: `Delete one archive entry: its files and its metadata record.

Deletion is permanent; a deleted entry can no longer be restored.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		arch, err := openArchive()
		if err != nil {
			return err
		}
		if err := arch.Delete(args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted backup %s\n", args[0])
		return nil
	},
}
