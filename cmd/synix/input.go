package main

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/dhamidi/synix/config"
	"github.com/dhamidi/synix/format"
)

const stdinName = "-"

// loadConfig reads --config, or the nearest synix.toml above the working
// directory, falling back to the defaults when there is none.
func loadConfig(opts *globalOptions) (*config.Config, error) {
	path := opts.configPath
	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("get working directory: %w", err)
		}
		path, err = config.Find(wd)
		if err != nil {
			return nil, fmt.Errorf("find config: %w", err)
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if path != "" {
		log.Debugf("using config %s", path)
	}
	if opts.color != "" {
		cfg.Output.Color = opts.color
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("--color: %w", err)
		}
	}
	return cfg, nil
}

// colorEnabled resolves the color mode for output written to w. In auto
// mode colors are used only on a terminal and when NO_COLOR is unset.
func colorEnabled(cfg *config.Config, w io.Writer) bool {
	switch cfg.Output.Color {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func newRenderer(cmd *cobra.Command, cfg *config.Config) *format.DiagnosticRenderer {
	w := cmd.ErrOrStderr()
	return format.NewDiagnosticRenderer(w, colorEnabled(cfg, w))
}

// readSource reads the named file, or standard input for "-".
func readSource(cmd *cobra.Command, name string) (string, error) {
	if name == stdinName {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return "", fmt.Errorf("read file: %w", err)
	}
	return string(data), nil
}

// expandPaths replaces every directory in args by the .nix files below it.
// Hidden directories are skipped. An empty args means standard input,
// which is listed at most once since it can only be read once.
func expandPaths(args []string) ([]string, error) {
	if len(args) == 0 {
		return []string{stdinName}, nil
	}
	var out []string
	seenStdin := false
	for _, arg := range args {
		if arg == stdinName {
			if !seenStdin {
				out = append(out, arg)
			}
			seenStdin = true
			continue
		}
		info, err := os.Stat(arg)
		if err != nil || !info.IsDir() {
			out = append(out, arg)
			continue
		}
		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != arg && strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if filepath.Ext(path) == ".nix" {
				out = append(out, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", arg, err)
		}
	}
	return out, nil
}

func displayName(name string) string {
	if name == stdinName {
		return "<stdin>"
	}
	return name
}
