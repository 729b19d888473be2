package commands

import (
	"fmt"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/iconvault/iconvault/internal/batch"
	iverrors "github.com/iconvault/iconvault/internal/errors"
	"github.com/iconvault/iconvault/internal/logging"
)

var (
	batchCommit          bool
	batchRollbackOnError bool
)

func init() {
	batchCmd.Flags().BoolVar(&batchCommit, "commit", true,
		"commit successful changes into the backup archive")
	batchCmd.Flags().BoolVar(&batchRollbackOnError, "rollback-on-error", false,
		"roll back every change if any item fails")
	rootCmd.AddCommand(batchCmd)
}

var batchCmd = &cobra.Command{
	Use:   "batch <manifest>",
	Short: "Apply icons to many targets from a manifest",
	Long: `Apply icons to every target listed in a batch manifest.

The manifest is a YAML or TOML file listing targets with a kind (folder,
ext, or shortcut) and an icon, with an optional manifest-level default
icon. Missing targets are skipped, one failing item never aborts the run,
and the run can be canceled between items with Ctrl-C.`,
	Example: `  # icons.yaml:
  #   icon: ~/icons/default.ico
  #   items:
  #     - target: ~/Projects
  #       kind: folder
  #     - target: .txt
  #       kind: ext
  #       icon: ~/icons/text.ico

  iconvault batch icons.yaml

  # Treat the manifest as all-or-nothing
  iconvault batch icons.yaml --rollback-on-error`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func runBatch(cmd *cobra.Command, args []string) error {
	manifest, err := batch.LoadManifest(args[0])
	if err != nil {
		return iverrors.NewUserError(err, "check the manifest file syntax")
	}

	r, arch, err := newReplacer(cmd)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	coord := batch.NewCoordinator(
		batch.WithLogger(logging.FromContext(cmd.Context())),
		batch.WithProgress(func(done, total int, target string) {
			fmt.Fprintf(out, "[%d/%d] %s\n", done, total, truncate(target, 60))
		}),
		batch.WithErrorCallback(func(target string, err error) {
			fmt.Fprintf(out, "  %sfailed:%s %v\n", colorBold, colorReset, err)
		}),
	)

	res := coord.Process(cmd.Context(), manifest.Items, func(item batch.Item) error {
		var err error
		switch item.Kind {
		case batch.KindFolder:
			_, err = r.ReplaceFolderIcon(item.Target, item.Icon)
		case batch.KindExtension:
			_, err = r.ReplaceExtensionIcon(item.Target, item.Icon)
		case batch.KindShortcut:
			_, err = r.ReplaceShortcutIcon(item.Target, item.Icon)
		default:
			err = errors.Newf("unknown kind %q", item.Kind)
		}
		return err
	})

	fmt.Fprintf(out, "\n%d total: %s%d succeeded%s, %d failed, %d skipped (%s)\n",
		res.Total, colorGreen, res.Succeeded, colorReset,
		res.Failed, res.Skipped, res.Duration.Round(time.Millisecond))

	if res.Failed > 0 && batchRollbackOnError {
		count, err := r.RollbackAll()
		if err != nil {
			return iverrors.NewSystemError(err,
				"state may be partially restored; check the targets manually")
		}
		fmt.Fprintf(out, "Rolled back %d change(s) after %d failure(s)\n", count, res.Failed)
		return errors.Newf("batch aborted: %d item(s) failed", res.Failed)
	}

	if !batchCommit {
		return r.Discard()
	}

	id, err := r.Commit()
	if err != nil {
		return err
	}
	if id != "" {
		fmt.Fprintf(out, "Committed as backup %s%s%s\n", colorCyan, id, colorReset)
		return pruneToRetention(cmd, arch)
	}
	return nil
}
