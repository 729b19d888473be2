// Package shortcut defines the shell-link editing collaborator.
//
// Editing a shortcut's icon reference requires a platform shell-link API.
// Where that capability is absent the replacer degrades to "basic mode": the
// shortcut is snapshotted and the operation recorded, but the link itself is
// left untouched.
package shortcut

import "strings"

// Suffix is the file extension identifying a shortcut.
const Suffix = ".lnk"

// Editor mutates a shortcut's icon reference in place.
type Editor interface {
	// SetIconLocation points the shortcut at resourcePath.
	SetIconLocation(shortcutPath, resourcePath string) error
}

// IsShortcut reports whether path carries the shortcut suffix.
func IsShortcut(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), Suffix)
}

// Lookup probes for a shell-link editor. The COM-based editor belongs to the
// excluded front end and is injected by callers that have one; the core ships
// none, so the probe reports the capability absent.
func Lookup() (Editor, bool) {
	return nil, false
}
