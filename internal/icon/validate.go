// Package icon validates icon resources and renders the folder customization
// file that points a folder at a new icon.
package icon

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"

	iverrors "github.com/iconvault/iconvault/internal/errors"
	"github.com/iconvault/iconvault/pkg/fileutil"
)

// validExtensions are the accepted icon resource formats.
var validExtensions = map[string]bool{
	".ico":  true,
	".cur":  true,
	".bmp":  true,
	".png":  true,
	".jpg":  true,
	".jpeg": true,
}

// ValidateResource checks that path exists, is a regular file, carries a
// supported icon extension, and does not exceed the resource size limit.
// Failures are marked with ErrInvalidResource (ErrNotFound for a missing file).
func ValidateResource(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.Wrapf(iverrors.ErrNotFound, "icon not found: %s", path)
		}
		return errors.Wrap(err, "stat icon")
	}
	if info.IsDir() {
		return errors.Wrapf(iverrors.ErrInvalidResource, "%s is a directory", path)
	}
	if info.Size() > fileutil.MaxResourceSize {
		return errors.Wrapf(iverrors.ErrInvalidResource, "%s exceeds size limit", path)
	}

	ext := strings.ToLower(filepath.Ext(path))
	if !validExtensions[ext] {
		return errors.Wrapf(iverrors.ErrInvalidResource,
			"unsupported icon format %q (supported: .ico .cur .bmp .png .jpg .jpeg)", ext)
	}

	return nil
}

// SanitizeName makes s safe for use as a file name in the staging area and
// the archive, replacing characters that are invalid on common filesystems.
func SanitizeName(s string) string {
	const invalid = `<>:"/\|?*`
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if strings.ContainsRune(invalid, r) {
			b.WriteByte('_')
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}
