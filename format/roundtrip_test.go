package format

import (
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/synix/nix/parser"
)

var testcasesDir string
var testFilter string

func init() {
	flag.StringVar(&testcasesDir, "testcases", "", "directory containing .nix test files")
	flag.StringVar(&testFilter, "filter", "", "filter test files by substring match on filename")
}

func TestMain(m *testing.M) {
	flag.Parse()
	os.Exit(m.Run())
}

// findTestcases walks up from the working directory to the nearest
// testcases directory.
func findTestcases(t *testing.T) string {
	t.Helper()
	if testcasesDir != "" {
		return testcasesDir
	}
	wd, err := os.Getwd()
	require.NoError(t, err)
	for d := wd; d != filepath.Dir(d); d = filepath.Dir(d) {
		candidate := filepath.Join(d, "testcases")
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return candidate
		}
	}
	t.Skip("testcases directory not found; use -testcases flag to specify")
	return ""
}

// TestRoundTrip_Testcases formats every .nix file under testcases and checks
// that the output parses back into the same tree.
// Use -filter to select files: go test ./format -filter=paths
// Skipped during pre-commit hooks when IN_GIT_PRECOMMIT=1
func TestRoundTrip_Testcases(t *testing.T) {
	if os.Getenv("IN_GIT_PRECOMMIT") == "1" {
		t.Skip("skipping roundtrip tests during pre-commit")
	}
	dir := findTestcases(t)

	var files []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".nix") {
			return nil
		}
		if testFilter != "" && !strings.Contains(path, testFilter) {
			return nil
		}
		files = append(files, path)
		return nil
	})
	require.NoError(t, err)
	if len(files) == 0 {
		t.Skipf("no .nix files found in %s", dir)
	}

	for _, file := range files {
		rel, err := filepath.Rel(dir, file)
		if err != nil {
			rel = filepath.Base(file)
		}
		name := strings.TrimSuffix(strings.ReplaceAll(rel, string(filepath.Separator), "_"), ".nix")
		t.Run(name, func(t *testing.T) {
			source, err := os.ReadFile(file)
			require.NoError(t, err)
			assertRoundTrip(t, string(source))
		})
	}
}

func TestRoundTrip_Inline(t *testing.T) {
	sources := []string{
		"42",
		`"a \"quoted\" \\ string"`,
		"{ }",
		"rec { a = 1; b = a; }",
		"[ 1 (f x) [ ] { } ./x a.b ]",
		"let inherit (s) x y; z = x; in z",
		"{ a, b ? 2, ... }@args: a + b",
		"args@{ ... }: args",
		"x: y: x y",
		"with s; assert x; if a then b else c",
		"a + b * c - d / e",
		"(a + b) * c",
		"a // b // c ++ d",
		"!a && -b < c",
		"f a.b.c (g d)",
		`{ "a b" = 1; ${x} = 2; a.${y}.c = 3; }`,
		"[ ./a ../b/c /d ~/e <f/g> h/i ./x/${y} ]",
		"{ a = with s; x; b = assert t; y; }",
	}
	for _, src := range sources {
		t.Run(src, func(t *testing.T) {
			assertRoundTrip(t, src)
		})
	}
}

func assertRoundTrip(t *testing.T, source string) {
	t.Helper()
	original, err := parser.Parse(source)
	require.NoError(t, err, "original source does not parse")

	formatted := FormatNix(original)
	reparsed, err := parser.Parse(formatted)
	require.NoError(t, err, "formatted output does not parse:\n%s", formatted)

	assert.Equal(t, parser.Dump(original), parser.Dump(reparsed), "formatted output:\n%s", formatted)
	assert.Equal(t, formatted, FormatNix(reparsed), "formatting is not idempotent")
}
