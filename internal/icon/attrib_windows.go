//go:build windows

package icon

import (
	"github.com/cockroachdb/errors"
	"golang.org/x/sys/windows"
)

// MarkCustomizationHidden sets the hidden and system attributes on the
// customization file so the shell honors and hides it.
func MarkCustomizationHidden(path string) error {
	p, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return errors.Wrap(err, "encoding path")
	}
	attrs := uint32(windows.FILE_ATTRIBUTE_HIDDEN | windows.FILE_ATTRIBUTE_SYSTEM)
	if err := windows.SetFileAttributes(p, attrs); err != nil {
		return errors.Wrap(err, "setting file attributes")
	}
	return nil
}

// MarkFolderSystem sets the system attribute on the folder, which the shell
// requires before it reads the folder's customization file.
func MarkFolderSystem(path string) error {
	p, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return errors.Wrap(err, "encoding path")
	}
	attrs, err := windows.GetFileAttributes(p)
	if err != nil {
		return errors.Wrap(err, "reading folder attributes")
	}
	if err := windows.SetFileAttributes(p, attrs|windows.FILE_ATTRIBUTE_SYSTEM); err != nil {
		return errors.Wrap(err, "setting folder attributes")
	}
	return nil
}
