package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/iconvault/iconvault/internal/archive"
	"github.com/iconvault/iconvault/internal/logging"
)

// ANSI color codes for terminal output.
const (
	colorReset  = "\033[0m"
	colorBold   = "\033[1m"
	colorCyan   = "\033[36m"
	colorGreen  = "\033[32m"
	colorGray   = "\033[90m"
)

// truncate shortens a string to maxLen characters, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

// pruneToRetention enforces the configured retention count after a new entry
// is created.
func pruneToRetention(cmd *cobra.Command, arch *archive.Archive) error {
	if cfg.RetentionCount <= 0 {
		return nil
	}
	deleted, err := arch.Cleanup(cfg.RetentionCount)
	if err != nil {
		return err
	}
	if deleted > 0 {
		logging.FromContext(cmd.Context()).Info("pruned old backups",
			"deleted", deleted, "kept", cfg.RetentionCount)
		fmt.Fprintf(cmd.OutOrStdout(), "%sPruned %d old backup(s)%s\n",
			colorGray, deleted, colorReset)
	}
	return nil
}

// formatSize renders a byte count in a compact human-readable form.
func formatSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMG"[exp])
}
