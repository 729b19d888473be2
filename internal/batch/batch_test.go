package batch

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	iverrors "github.com/iconvault/iconvault/internal/errors"
	"github.com/iconvault/iconvault/internal/logging"
)

func items(targets ...string) []Item {
	out := make([]Item, 0, len(targets))
	for _, t := range targets {
		out = append(out, Item{Target: t, Kind: KindFolder, Icon: "icon.ico"})
	}
	return out
}

func assertInvariant(t *testing.T, res Result) {
	t.Helper()
	assert.Equal(t, res.Total, res.Succeeded+res.Failed+res.Skipped,
		"every considered item must land in exactly one bucket")
}

func TestProcess_MixedOutcomes(t *testing.T) {
	c := NewCoordinator(WithLogger(logging.ForTest(t)))

	res := c.Process(context.Background(), items("ok", "missing", "broken", "ok2"), func(it Item) error {
		switch it.Target {
		case "missing":
			return errors.Wrap(iverrors.ErrNotFound, "no such folder")
		case "broken":
			return errors.New("boom")
		default:
			return nil
		}
	})

	assert.Equal(t, 4, res.Total)
	assert.Equal(t, 2, res.Succeeded)
	assert.Equal(t, 1, res.Failed)
	assert.Equal(t, 1, res.Skipped)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "broken", res.Errors[0].Target)
	assertInvariant(t, res)
}

func TestProcess_ZeroItems(t *testing.T) {
	c := NewCoordinator(
		WithLogger(logging.ForTest(t)),
		WithProgress(func(done, total int, target string) {
			t.Error("progress callback invoked for empty batch")
		}),
		WithErrorCallback(func(target string, err error) {
			t.Error("error callback invoked for empty batch")
		}),
	)

	res := c.Process(context.Background(), nil, func(Item) error { return nil })

	assert.Zero(t, res.Total)
	assertInvariant(t, res)
}

func TestProcess_OneFailureDoesNotAbort(t *testing.T) {
	c := NewCoordinator(WithLogger(logging.ForTest(t)))

	var applied []string
	res := c.Process(context.Background(), items("a", "b", "c"), func(it Item) error {
		applied = append(applied, it.Target)
		if it.Target == "a" {
			return errors.New("boom")
		}
		return nil
	})

	assert.Equal(t, []string{"a", "b", "c"}, applied)
	assert.Equal(t, 2, res.Succeeded)
	assert.Equal(t, 1, res.Failed)
	assertInvariant(t, res)
}

func TestProcess_Callbacks(t *testing.T) {
	var progress []int
	var failed []string

	c := NewCoordinator(
		WithLogger(logging.ForTest(t)),
		WithProgress(func(done, total int, target string) {
			progress = append(progress, done)
			assert.Equal(t, 3, total)
		}),
		WithErrorCallback(func(target string, err error) {
			failed = append(failed, target)
		}),
	)

	c.Process(context.Background(), items("a", "b", "c"), func(it Item) error {
		if it.Target == "b" {
			return errors.New("boom")
		}
		return nil
	})

	assert.Equal(t, []int{1, 2, 3}, progress)
	assert.Equal(t, []string{"b"}, failed)
}

func TestProcess_CancellationStopsBetweenItems(t *testing.T) {
	c := NewCoordinator(WithLogger(logging.ForTest(t)))
	ctx, cancel := context.WithCancel(context.Background())

	res := c.Process(ctx, items("a", "b", "c", "d"), func(it Item) error {
		if it.Target == "b" {
			cancel()
		}
		return nil
	})

	// a and b were handled; c and d were never started and are not counted.
	assert.Equal(t, 2, res.Total)
	assert.Equal(t, 2, res.Succeeded)
	assertInvariant(t, res)
}

func TestLoadManifest_YAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "batch.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
icon: default.ico
items:
  - target: C:\Projects
    kind: folder
  - target: .txt
    kind: ext
    icon: text.ico
`), 0o644))

	m, err := LoadManifest(path)
	require.NoError(t, err)
	require.Len(t, m.Items, 2)
	assert.Equal(t, "default.ico", m.Items[0].Icon, "default icon fills in")
	assert.Equal(t, "text.ico", m.Items[1].Icon, "item icon wins")
	assert.Equal(t, KindExtension, m.Items[1].Kind)
}

func TestLoadManifest_TOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "batch.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
icon = "default.ico"

[[items]]
target = "app.lnk"
kind = "shortcut"
`), 0o644))

	m, err := LoadManifest(path)
	require.NoError(t, err)
	require.Len(t, m.Items, 1)
	assert.Equal(t, KindShortcut, m.Items[0].Kind)
	assert.Equal(t, "default.ico", m.Items[0].Icon)
}

func TestLoadManifest_UnknownFormat(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "batch.json")
	require.NoError(t, os.WriteFile(path, []byte(`{}`), 0o644))

	_, err := LoadManifest(path)
	assert.True(t, errors.Is(err, iverrors.ErrInvalidResource))
}

func TestLoadManifest_Invalid(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name string
		body string
	}{
		{"no items", "icon: a.ico\nitems: []\n"},
		{"missing target", "icon: a.ico\nitems:\n  - kind: folder\n"},
		{"unknown kind", "icon: a.ico\nitems:\n  - target: x\n    kind: registry\n"},
		{"no icon anywhere", "items:\n  - target: x\n    kind: folder\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, "m.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.body), 0o644))
			_, err := LoadManifest(path)
			assert.Error(t, err)
		})
	}
}
