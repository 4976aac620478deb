// Package config loads paholefmt settings from TOML files.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/skdltmxn/paholefmt/internal/driver"
	"github.com/skdltmxn/paholefmt/internal/render"
)

// FileName is the configuration file looked up from the working directory upwards.
const FileName = "paholefmt.toml"

// Config holds the settings read from a paholefmt.toml file.
type Config struct {
	Render RenderConfig `toml:"render"`
	Driver DriverConfig `toml:"driver"`
}

// RenderConfig is the [render] table: the diagram scale.
type RenderConfig struct {
	CharsPerByte int `toml:"chars_per_byte"`
	BytesPerMark int `toml:"bytes_per_mark"`
	BytesPerLine int `toml:"bytes_per_line"`
}

// DriverConfig is the [driver] table: how failed blocks are handled.
type DriverConfig struct {
	KeepGoing bool `toml:"keep_going"`
}

// Default returns the built-in settings.
func Default() Config {
	o := render.DefaultOptions()
	return Config{
		Render: RenderConfig{
			CharsPerByte: o.CharsPerByte,
			BytesPerMark: o.BytesPerMark,
			BytesPerLine: o.BytesPerLine,
		},
	}
}

// RenderOptions converts the render table.
func (c Config) RenderOptions() render.Options {
	return render.Options{
		CharsPerByte: c.Render.CharsPerByte,
		BytesPerMark: c.Render.BytesPerMark,
		BytesPerLine: c.Render.BytesPerLine,
	}
}

// DriverOptions converts the configuration into driver options.
func (c Config) DriverOptions() driver.Options {
	return driver.Options{
		Render:    c.RenderOptions(),
		KeepGoing: c.Driver.KeepGoing,
	}
}

// Validate checks the render settings.
func (c Config) Validate() error {
	return c.RenderOptions().Validate()
}

// merge overlays the keys defined in meta onto c.
func (c Config) merge(o Config, meta toml.MetaData) Config {
	if meta.IsDefined("render", "chars_per_byte") {
		c.Render.CharsPerByte = o.Render.CharsPerByte
	}
	if meta.IsDefined("render", "bytes_per_mark") {
		c.Render.BytesPerMark = o.Render.BytesPerMark
	}
	if meta.IsDefined("render", "bytes_per_line") {
		c.Render.BytesPerLine = o.Render.BytesPerLine
	}
	if meta.IsDefined("driver", "keep_going") {
		c.Driver.KeepGoing = o.Driver.KeepGoing
	}
	return c
}

// Decode reads the file at path over the defaults. Keys missing from
// the file keep their default value.
func Decode(path string) (Config, error) {
	var file Config
	meta, err := toml.DecodeFile(path, &file)
	if err != nil {
		return Config{}, fmt.Errorf("config: failed to parse %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("config: unknown key %q in %s", undecoded[0].String(), path)
	}
	return Default().merge(file, meta), nil
}

// Find returns the path of the nearest FileName in dir or one of its
// parents, or "" if there is none.
func Find(dir string) (string, error) {
	for dir != "" {
		path := filepath.Join(dir, FileName)
		_, err := os.Stat(path)
		if err == nil {
			return path, nil
		}
		if !os.IsNotExist(err) {
			return "", err
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", nil
}

// Load returns the configuration from path, or when path is empty from
// the nearest FileName above dir, falling back to Default.
func Load(path, dir string) (Config, error) {
	if path == "" {
		found, err := Find(dir)
		if err != nil {
			return Config{}, fmt.Errorf("config: %w", err)
		}
		if found == "" {
			return Default(), nil
		}
		path = found
	}
	cfg, err := Decode(path)
	if err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}
