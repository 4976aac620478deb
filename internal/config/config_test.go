package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skdltmxn/paholefmt/internal/render"
	"github.com/skdltmxn/paholefmt/layout"
)

func writeFile(t *testing.T, dir, contents string) string {
	t.Helper()
	path := filepath.Join(dir, FileName)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, render.DefaultOptions(), cfg.RenderOptions())
	assert.False(t, cfg.Driver.KeepGoing)
	assert.NoError(t, cfg.Validate())
}

func TestDecode_PartialOverridesDefaults(t *testing.T) {
	path := writeFile(t, t.TempDir(), `
[render]
bytes_per_line = 8

[driver]
keep_going = true
`)

	cfg, err := Decode(path)
	require.NoError(t, err)
	assert.Equal(t, render.Options{CharsPerByte: 4, BytesPerMark: 4, BytesPerLine: 8}, cfg.RenderOptions())

	opts := cfg.DriverOptions()
	assert.True(t, opts.KeepGoing)
	assert.Equal(t, 8, opts.Render.BytesPerLine)
}

func TestDecode_UnknownKey(t *testing.T) {
	path := writeFile(t, t.TempDir(), "[render]\nbytes_per_row = 8\n")
	_, err := Decode(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "render.bytes_per_row")
}

func TestDecode_Malformed(t *testing.T) {
	path := writeFile(t, t.TempDir(), "[render\n")
	_, err := Decode(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse")
}

func TestLoad_WalksUp(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "[render]\nchars_per_byte = 2\n")
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0755))

	cfg, err := Load("", nested)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Render.CharsPerByte)
	assert.Equal(t, 16, cfg.Render.BytesPerLine)
}

func TestLoad_NearestWins(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "[render]\nchars_per_byte = 2\n")
	nested := filepath.Join(root, "sub")
	require.NoError(t, os.MkdirAll(nested, 0755))
	writeFile(t, nested, "[render]\nchars_per_byte = 3\n")

	cfg, err := Load("", nested)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Render.CharsPerByte)
}

func TestLoad_ExplicitPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.toml")
	require.NoError(t, os.WriteFile(path, []byte("[render]\nbytes_per_mark = 2\n"), 0644))

	cfg, err := Load(path, t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Render.BytesPerMark)
}

func TestLoad_Invalid(t *testing.T) {
	path := writeFile(t, t.TempDir(), "[render]\nbytes_per_line = 0\n")
	_, err := Load(path, "")
	require.ErrorIs(t, err, layout.ErrInvalidConfig)
}
