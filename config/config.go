// Package config loads synix.toml, the settings file shared by the CLI and
// the language server.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// FileName is the name Find looks for.
const FileName = "synix.toml"

// Config holds the complete configuration
type Config struct {
	Format FormatConfig `toml:"format"`
	Output OutputConfig `toml:"output"`
	LSP    LSPConfig    `toml:"lsp"`
}

// FormatConfig holds the layout of `synix fmt` output
type FormatConfig struct {
	Indent   int `toml:"indent"`
	MaxWidth int `toml:"max_width"`
}

// OutputConfig holds defaults for `synix parse` and diagnostics
type OutputConfig struct {
	Format string `toml:"format"`
	Color  string `toml:"color"`
}

// LSPConfig holds language server settings
type LSPConfig struct {
	DocumentSymbols bool `toml:"document_symbols"`
}

// Color modes accepted by output.color.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

var outputFormats = []string{"tree", "json", "yaml", "nix"}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Format: FormatConfig{Indent: 2, MaxWidth: 80},
		Output: OutputConfig{Format: "tree", Color: ColorAuto},
		LSP:    LSPConfig{DocumentSymbols: true},
	}
}

// Load decodes the file at path on top of Default. Keys the file does not
// set keep their default values. An empty path yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("config %s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes configuration text on top of Default.
func Parse(data string) (*Config, error) {
	cfg := Default()
	if _, err := toml.Decode(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Find walks up from dir and returns the path of the nearest synix.toml,
// or "" when there is none.
func Find(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	for {
		candidate := filepath.Join(dir, FileName)
		info, err := os.Stat(candidate)
		switch {
		case err == nil && !info.IsDir():
			return candidate, nil
		case err != nil && !errors.Is(err, fs.ErrNotExist):
			return "", err
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// Validate rejects values no command can honor.
func (c *Config) Validate() error {
	if c.Format.Indent < 1 {
		return fmt.Errorf("format.indent must be positive, got %d", c.Format.Indent)
	}
	if c.Format.MaxWidth < 1 {
		return fmt.Errorf("format.max_width must be positive, got %d", c.Format.MaxWidth)
	}
	if !contains(outputFormats, c.Output.Format) {
		return fmt.Errorf("output.format must be one of %s, got %q", strings.Join(outputFormats, ", "), c.Output.Format)
	}
	switch c.Output.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("output.color must be auto, always or never, got %q", c.Output.Color)
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
