package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/spf13/pflag"
)

// isolate keeps config files of the machine running the tests out of Load.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())
	chdir(t, t.TempDir())
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("", nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Index.FileName != "index.html" {
		t.Errorf("file name = %q, want index.html", cfg.Index.FileName)
	}
	if len(cfg.Index.Exclude) != 0 {
		t.Errorf("expected no exclude patterns, got %v", cfg.Index.Exclude)
	}
	if cfg.Log.Format != "auto" || cfg.Log.Level != "info" {
		t.Errorf("unexpected log config: %+v", cfg.Log)
	}
	if cfg.Report.Path != "" {
		t.Errorf("expected empty report path, got %q", cfg.Report.Path)
	}
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dirindex.toml")
	content := `
[index]
file_name = "README.html"
exclude = ["*.tmp", ".git"]

[log]
level = "debug"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path, nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Index.FileName != "README.html" {
		t.Errorf("file name = %q", cfg.Index.FileName)
	}
	if !reflect.DeepEqual(cfg.Index.Exclude, []string{"*.tmp", ".git"}) {
		t.Errorf("exclude = %v", cfg.Index.Exclude)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "auto" {
		t.Errorf("unexpected log config: %+v", cfg.Log)
	}
}

func TestLoad_SearchesWorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "dirindex.yaml"), []byte("report:\n  path: run.toml\n"), 0644); err != nil {
		t.Fatal(err)
	}
	isolate(t)
	chdir(t, dir)

	cfg, err := Load("", nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Report.Path != "run.toml" {
		t.Errorf("report path = %q, want run.toml", cfg.Report.Path)
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), nil); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dirindex.yaml")
	if err := os.WriteFile(path, []byte("index:\n  file_name: from-file.html\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("DIRINDEX_INDEX_FILE_NAME", "from-env.html")

	cfg, err := Load(path, nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Index.FileName != "from-env.html" {
		t.Errorf("file name = %q, want from-env.html", cfg.Index.FileName)
	}
}

func TestLoad_FlagsOverrideEnv(t *testing.T) {
	isolate(t)
	t.Setenv("DIRINDEX_INDEX_FILE_NAME", "from-env.html")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("index-file", "index.html", "")
	flags.StringSlice("exclude", nil, "")
	flags.String("log-level", "", "")
	if err := flags.Parse([]string{"--index-file", "from-flag.html", "--exclude", "a,b"}); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load("", flags)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Index.FileName != "from-flag.html" {
		t.Errorf("file name = %q, want from-flag.html", cfg.Index.FileName)
	}
	if !reflect.DeepEqual(cfg.Index.Exclude, []string{"a", "b"}) {
		t.Errorf("exclude = %v", cfg.Index.Exclude)
	}
	// Unchanged flags do not override defaults.
	if cfg.Log.Level != "info" {
		t.Errorf("log level = %q, want info", cfg.Log.Level)
	}
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup, like testing.T.Chdir (Go 1.24+).
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(wd); err != nil {
			t.Fatal(err)
		}
	})
}
