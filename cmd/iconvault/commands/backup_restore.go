package commands

import (
	"fmt"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/ktr0731/go-fuzzyfinder"
	"github.com/spf13/cobra"

	"github.com/iconvault/iconvault/internal/archive"
	iverrors "github.com/iconvault/iconvault/internal/errors"
)

var backupRestoreTarget string

func init() {
	backupRestoreCmd.Flags().StringVar(&backupRestoreTarget, "target", "",
		"restore files under this directory instead of their original locations")
	backupCmd.AddCommand(backupRestoreCmd)
}

var backupRestoreCmd = &cobra.Command{
	Use:   "restore [id]",
	Short: "Restore files from an archive entry",
	Long: `Restore every file of an archive entry to its original location, or
under --target if given.

Without an id the entry is picked interactively from a fuzzy-searchable
list. File integrity is verified against the recorded checksums before
anything is written back.`,
	Example: `  # Pick an entry interactively
  iconvault backup restore

  # Restore a specific entry
  iconvault backup restore 5f0c1a3e-...

  # Inspect a backup's contents without touching the originals
  iconvault backup restore 5f0c1a3e-... --target /tmp/inspect`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBackupRestore,
}

func runBackupRestore(cmd *cobra.Command, args []string) error {
	arch, err := openArchive()
	if err != nil {
		return err
	}

	var id string
	if len(args) == 1 {
		id = args[0]
	} else {
		id, err = pickBackup(arch)
		if err != nil {
			return err
		}
		if id == "" {
			return nil
		}
	}

	if err := arch.Restore(id, backupRestoreTarget); err != nil {
		if errors.Is(err, archive.ErrEntryCorrupted) {
			return iverrors.NewSystemError(err,
				"the archive entry is damaged; nothing was restored")
		}
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%sRestored%s backup %s\n", colorGreen, colorReset, id)
	return nil
}

// pickBackup runs the interactive entry picker. An empty id with a nil error
// means the user aborted.
func pickBackup(arch *archive.Archive) (string, error) {
	entries, err := arch.List()
	if err != nil {
		return "", err
	}
	if len(entries) == 0 {
		return "", errors.Wrap(iverrors.ErrNotFound, "no backups to restore")
	}

	idx, err := fuzzyfinder.Find(
		entries,
		func(i int) string {
			return fmt.Sprintf("%s  %s (%d files)",
				entries[i].CreatedDate.Local().Format("2006-01-02 15:04"),
				entries[i].Name,
				entries[i].FileCount)
		},
		fuzzyfinder.WithPreviewWindow(func(i, w, h int) string {
			if i == -1 {
				return ""
			}
			e := entries[i]
			return fmt.Sprintf("ID: %s\nCreated: %s\nFiles: %d\nSize: %s\n\n%s",
				e.ID,
				e.CreatedDate.Local().Format(time.RFC1123),
				e.FileCount,
				formatSize(e.SizeBytes),
				e.Description)
		}),
	)
	if err != nil {
		if errors.Is(err, fuzzyfinder.ErrAbort) {
			return "", nil
		}
		return "", errors.Wrap(err, "interactive backup selection failed")
	}

	return entries[idx].ID, nil
}
