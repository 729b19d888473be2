package icon

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	iverrors "github.com/iconvault/iconvault/internal/errors"
)

func TestValidateResource(t *testing.T) {
	dir := t.TempDir()
	icoPath := filepath.Join(dir, "app.ico")
	require.NoError(t, os.WriteFile(icoPath, []byte("fake ico"), 0644))

	assert.NoError(t, ValidateResource(icoPath))
}

func TestValidateResource_Missing(t *testing.T) {
	err := ValidateResource(filepath.Join(t.TempDir(), "nope.ico"))
	assert.True(t, errors.Is(err, iverrors.ErrNotFound))
}

func TestValidateResource_BadExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notanicon.txt")
	require.NoError(t, os.WriteFile(path, []byte("text"), 0644))

	err := ValidateResource(path)
	assert.True(t, errors.Is(err, iverrors.ErrInvalidResource))
}

func TestValidateResource_Directory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "fake.ico")
	require.NoError(t, os.Mkdir(dir, 0o755))

	err := ValidateResource(dir)
	assert.True(t, errors.Is(err, iverrors.ErrInvalidResource))
}

func TestCustomizationRoundTrip(t *testing.T) {
	data, err := RenderCustomization(`C:\icons\folder.ico`)
	require.NoError(t, err)
	assert.Contains(t, string(data), ".ShellClassInfo")

	got, err := ParseCustomization(data)
	require.NoError(t, err)
	assert.Equal(t, `C:\icons\folder.ico`, got)
}

func TestParseCustomization_NoIcon(t *testing.T) {
	got, err := ParseCustomization([]byte("[ViewState]\nMode=\n"))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain.ico", "plain.ico"},
		{`a<b>c:d"e/f\g|h?i*j`, "a_b_c_d_e_f_g_h_i_j"},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, SanitizeName(tt.in))
	}
}
