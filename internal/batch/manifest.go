package batch

import (
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	iverrors "github.com/iconvault/iconvault/internal/errors"
	"github.com/iconvault/iconvault/pkg/fileutil"
)

// Valid item kinds in a manifest.
const (
	KindFolder    = "folder"
	KindExtension = "ext"
	KindShortcut  = "shortcut"
)

// Item is one target in a batch manifest.
type Item struct {
	// Target is a folder path, an extension, or a shortcut path depending
	// on Kind.
	Target string `yaml:"target" toml:"target"`

	// Kind selects the replacement strategy: folder, ext, or shortcut.
	Kind string `yaml:"kind" toml:"kind"`

	// Icon overrides the manifest's default icon for this item.
	Icon string `yaml:"icon,omitempty" toml:"icon,omitempty"`
}

// Manifest is a batch file listing targets to replace.
type Manifest struct {
	// Icon is the default icon resource applied to items that do not set
	// their own.
	Icon string `yaml:"icon,omitempty" toml:"icon,omitempty"`

	Items []Item `yaml:"items" toml:"items"`
}

// LoadManifest reads and validates a batch manifest. The format is chosen by
// file extension: .yaml/.yml or .toml.
func LoadManifest(path string) (*Manifest, error) {
	data, err := fileutil.ReadFileWithLimit(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading manifest %s", path)
	}

	var m Manifest
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &m); err != nil {
			return nil, errors.Wrapf(err, "parsing manifest %s", path)
		}
	case ".toml":
		if err := toml.Unmarshal(data, &m); err != nil {
			return nil, errors.Wrapf(err, "parsing manifest %s", path)
		}
	default:
		return nil, errors.Wrapf(iverrors.ErrInvalidResource,
			"unsupported manifest format %q (want .yaml, .yml, or .toml)", filepath.Ext(path))
	}

	if err := m.validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid manifest %s", path)
	}

	// Fill in the manifest-level default icon.
	for i := range m.Items {
		if m.Items[i].Icon == "" {
			m.Items[i].Icon = m.Icon
		}
	}

	return &m, nil
}

func (m *Manifest) validate() error {
	if len(m.Items) == 0 {
		return errors.New("manifest has no items")
	}
	for i, item := range m.Items {
		if item.Target == "" {
			return errors.Newf("item %d: target is required", i)
		}
		switch item.Kind {
		case KindFolder, KindExtension, KindShortcut:
		default:
			return errors.Newf("item %d: unknown kind %q", i, item.Kind)
		}
		if item.Icon == "" && m.Icon == "" {
			return errors.Newf("item %d: no icon set and manifest has no default", i)
		}
	}
	return nil
}
