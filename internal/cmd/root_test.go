package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gitconf/internal/config"
)

// testProvider returns a provider with an isolated environment. runRoot
// points it at dir with -C, so discovery never starts from the working
// directory of the test process.
func testProvider(t *testing.T, dir string) (*AppProvider, *bytes.Buffer) {
	t.Helper()
	env := map[string]string{
		config.EnvConfigGlobal:   filepath.Join(dir, "home", ".gitconfig"),
		config.EnvConfigNoSystem: "1",
		"XDG_CONFIG_HOME":        filepath.Join(dir, "xdg"),
	}
	var out, errOut bytes.Buffer
	return &AppProvider{
		Dir:    dir,
		Getenv: func(k string) string { return env[k] },
		Out:    &out,
		Err:    &errOut,
	}, &out
}

func runRoot(t *testing.T, provider *AppProvider, args ...string) error {
	t.Helper()
	root := newRootCmd(provider)
	if provider.Dir != "" {
		args = append([]string{"-C", provider.Dir}, args...)
	}
	root.SetArgs(args)
	return root.Execute()
}

func TestNewRootCmd_KeepsProviderFields(t *testing.T) {
	provider := &AppProvider{Dir: "/some/repo", File: "x.conf", JSONOutput: true, LogLevel: "debug"}
	newRootCmd(provider)

	if provider.Dir != "/some/repo" || provider.File != "x.conf" || !provider.JSONOutput || provider.LogLevel != "debug" {
		t.Errorf("flag registration reset provider fields: %+v", provider)
	}
}

func TestRoot_DiscoversFromDirNotWorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, ".git"), 0755); err != nil {
		t.Fatal(err)
	}

	provider, _ := testProvider(t, dir)
	if err := runRoot(t, provider, "list"); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	app, err := provider.Get()
	if err != nil {
		t.Fatal(err)
	}

	want := filepath.Join(dir, ".git", "config")
	found := false
	for _, b := range app.Store.Backends() {
		if b.Level() == config.LevelLocal {
			found = true
			if b.Path() != want {
				t.Errorf("local backend = %q, want %q", b.Path(), want)
			}
		}
	}
	if !found {
		t.Error("no local backend for a repository given with -C")
	}
}

func TestRoot_WritesLocalInsideRepository(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, ".git"), 0755); err != nil {
		t.Fatal(err)
	}

	provider, _ := testProvider(t, dir)
	if err := runRoot(t, provider, "set", "core.editor", "vim"); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	if !strings.Contains(readConfig(t, filepath.Join(dir, ".git", "config")), "editor = vim") {
		t.Error("value not written to the repository config")
	}
	if _, err := os.Stat(filepath.Join(dir, "home", ".gitconfig")); !os.IsNotExist(err) {
		t.Error("global config should not have been written")
	}
}

func TestRoot_DefaultsAndGlobalFallThrough(t *testing.T) {
	dir := t.TempDir()
	globalPath := filepath.Join(dir, "home", ".gitconfig")
	if err := os.MkdirAll(filepath.Dir(globalPath), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(globalPath, []byte("[user]\n\tname = Global Jane\n"), 0644); err != nil {
		t.Fatal(err)
	}

	provider, out := testProvider(t, dir)
	if err := runRoot(t, provider, "get", "user.name"); err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got := strings.TrimSpace(out.String()); got != "Global Jane" {
		t.Errorf("get user.name = %q", got)
	}

	provider, out = testProvider(t, dir)
	if err := runRoot(t, provider, "get", "core.repositoryformatversion"); err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got := strings.TrimSpace(out.String()); got != "0" {
		t.Errorf("default core.repositoryformatversion = %q, want 0", got)
	}
}

func TestRoot_GlobalFlag(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, ".git"), 0755); err != nil {
		t.Fatal(err)
	}

	provider, _ := testProvider(t, dir)
	if err := runRoot(t, provider, "--global", "set", "user.email", "jane@example.com"); err != nil {
		t.Fatalf("set --global failed: %v", err)
	}
	if !strings.Contains(readConfig(t, filepath.Join(dir, "home", ".gitconfig")), "email = jane@example.com") {
		t.Error("value not written to the global config")
	}
}

func TestRoot_LocalFlagOutsideRepository(t *testing.T) {
	dir := t.TempDir()
	provider, _ := testProvider(t, dir)
	err := runRoot(t, provider, "--local", "get", "core.bare")
	if err == nil || !strings.Contains(err.Error(), "git repository") {
		t.Errorf("--local outside a repository error = %v", err)
	}
}

func TestRoot_SystemFlagDisabled(t *testing.T) {
	dir := t.TempDir()
	provider, _ := testProvider(t, dir)
	err := runRoot(t, provider, "--system", "list")
	if err == nil || !strings.Contains(err.Error(), "disabled") {
		t.Errorf("--system with system config disabled error = %v", err)
	}
}

func TestRoot_FileFlag(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.conf")

	provider, _ := testProvider(t, dir)
	if err := runRoot(t, provider, "--file", path, "add", "custom.multi", "one"); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	provider, _ = testProvider(t, dir)
	if err := runRoot(t, provider, "-f", path, "add", "custom.multi", "two"); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	want := "[custom]\n\tmulti = one\n\tmulti = two\n"
	if got := readConfig(t, path); got != want {
		t.Errorf("file = %q, want %q", got, want)
	}
}

func TestRoot_ExclusiveFlags(t *testing.T) {
	dir := t.TempDir()
	provider, _ := testProvider(t, dir)
	if err := runRoot(t, provider, "--global", "--local", "list"); err == nil {
		t.Error("--global with --local should fail")
	}
}

func TestRoot_EnvOverride(t *testing.T) {
	dir := t.TempDir()
	env := map[string]string{
		config.EnvConfigGlobal:            filepath.Join(dir, "global"),
		config.EnvConfigNoSystem:          "yes",
		config.EnvConfigCount:             "1",
		config.EnvConfigKeyPrefix + "0":   "user.name",
		config.EnvConfigValuePrefix + "0": "From Env",
		"XDG_CONFIG_HOME":                 filepath.Join(dir, "xdg"),
	}
	var out bytes.Buffer
	provider := &AppProvider{
		Dir:    dir,
		Getenv: func(k string) string { return env[k] },
		Out:    &out,
		Err:    &bytes.Buffer{},
	}
	if err := runRoot(t, provider, "get", "user.name"); err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got := strings.TrimSpace(out.String()); got != "From Env" {
		t.Errorf("get user.name = %q, want %q", got, "From Env")
	}
}

func TestNewLogger_Level(t *testing.T) {
	var buf bytes.Buffer
	env := func(k string) string {
		if k == config.EnvLog {
			return "debug"
		}
		return ""
	}

	if l := newLogger(&buf, "", env); !l.IsDebug() {
		t.Error("GITCONF_LOG=debug should enable debug logging")
	}
	if l := newLogger(&buf, "error", env); l.IsWarn() {
		t.Error("--log-level error should override GITCONF_LOG")
	}
	if l := newLogger(&buf, "bogus", func(string) string { return "" }); !l.IsWarn() || l.IsInfo() {
		t.Error("unknown level should fall back to warn")
	}
}
