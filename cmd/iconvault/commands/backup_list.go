package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/iconvault/iconvault/internal/archive"
)

var backupListJSON bool

func init() {
	backupListCmd.Flags().BoolVar(&backupListJSON, "json", false, "Output in JSON format")
	backupCmd.AddCommand(backupListCmd)
}

var backupListCmd = &cobra.Command{
	Use:   "list",
	Short: "List archive entries",
	Long: `List every entry in the backup archive, most recent first.

Each committed change produces one entry; store-only commits appear with
a file count of zero.`,
	Example: `  # List all backups
  iconvault backup list

  # Output as JSON
  iconvault backup list --json`,
	RunE: runBackupList,
}

func runBackupList(cmd *cobra.Command, _ []string) error {
	arch, err := openArchive()
	if err != nil {
		return err
	}

	entries, err := arch.List()
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()

	if backupListJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	if len(entries) == 0 {
		fmt.Fprintln(w, "No backups available")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Backups are created when changes are committed, e.g.:")
		fmt.Fprintln(w, "  iconvault apply folder <path> --icon <icon> --commit")
		return nil
	}

	return printBackupTable(w, entries)
}

func printBackupTable(w io.Writer, entries []archive.Info) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%sID%s\t%sCREATED%s\t%sFILES%s\t%sSIZE%s\t%sNAME%s\n",
		colorBold, colorReset,
		colorBold, colorReset,
		colorBold, colorReset,
		colorBold, colorReset,
		colorBold, colorReset)

	for _, e := range entries {
		fmt.Fprintf(tw, "%s%s%s\t%s\t%d\t%s\t%s\n",
			colorGreen, e.ID, colorReset,
			e.CreatedDate.Local().Format("2006-01-02 15:04:05"),
			e.FileCount,
			formatSize(e.SizeBytes),
			truncate(e.Name, 40))
	}
	return tw.Flush()
}
