package shortcut

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsShortcut(t *testing.T) {
	assert.True(t, IsShortcut(`C:\Users\me\Desktop\app.lnk`))
	assert.True(t, IsShortcut("app.LNK"), "extension match is case-insensitive")
	assert.False(t, IsShortcut("app.exe"))
	assert.False(t, IsShortcut("lnk"))
}

func TestLookup_NoEditorShipped(t *testing.T) {
	ed, ok := Lookup()
	assert.False(t, ok)
	assert.Nil(t, ed)
}
