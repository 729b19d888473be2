package icon

import (
	"path/filepath"

	"github.com/cockroachdb/errors"
	"gopkg.in/ini.v1"
)

// CustomizationFileName is the per-folder customization file consulted by the
// shell for folder icon overrides.
const CustomizationFileName = "desktop.ini"

const shellClassSection = ".ShellClassInfo"

// CustomizationPath returns the path of the customization file for folder.
func CustomizationPath(folder string) string {
	return filepath.Join(folder, CustomizationFileName)
}

// RenderCustomization produces the customization file contents pointing the
// folder at iconPath.
func RenderCustomization(iconPath string) ([]byte, error) {
	f := ini.Empty()

	sec, err := f.NewSection(shellClassSection)
	if err != nil {
		return nil, errors.Wrap(err, "creating section")
	}
	if _, err := sec.NewKey("IconResource", iconPath); err != nil {
		return nil, errors.Wrap(err, "setting icon resource")
	}

	// The shell ignores unknown sections; ViewState is kept for parity with
	// files written by Explorer itself.
	if _, err := f.NewSection("ViewState"); err != nil {
		return nil, errors.Wrap(err, "creating view state section")
	}

	var buf writerBuffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, errors.Wrap(err, "writing ini")
	}
	return buf.data, nil
}

// ParseCustomization extracts the icon resource reference from customization
// file contents. Returns "" when no icon reference is set.
func ParseCustomization(data []byte) (string, error) {
	f, err := ini.Load(data)
	if err != nil {
		return "", errors.Wrap(err, "parsing ini")
	}
	sec := f.Section(shellClassSection)
	return sec.Key("IconResource").String(), nil
}

type writerBuffer struct {
	data []byte
}

func (w *writerBuffer) Write(p []byte) (int, error) {
	w.data = append(w.data, p...)
	return len(p), nil
}
