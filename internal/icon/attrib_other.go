//go:build !windows

package icon

// MarkCustomizationHidden is a no-op on platforms without file attribute
// support; dotfile-style hiding does not apply to desktop.ini.
func MarkCustomizationHidden(string) error { return nil }

// MarkFolderSystem is a no-op on platforms without file attribute support.
func MarkFolderSystem(string) error { return nil }
