package config

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gitconf/internal/config/configfile"
	"gitconf/internal/config/filestore"

	"github.com/apparentlymart/go-userdirs/userdirs"
	"github.com/mitchellh/go-homedir"
)

// Environment variables that relocate or disable config levels.
const (
	EnvConfigGlobal   = "GITCONF_CONFIG_GLOBAL"
	EnvConfigSystem   = "GITCONF_CONFIG_SYSTEM"
	EnvConfigNoSystem = "GITCONF_CONFIG_NOSYSTEM"
)

const defaultSystemPath = "/etc/gitconfig"

// Paths lists the config file of each level. An empty path leaves the level
// out of the stack.
type Paths struct {
	System   string
	XDG      string
	Global   string
	Local    string
	Worktree string

	// GitDir is the repository's git directory, or "" outside a repository.
	GitDir string
}

// DiscoverPaths resolves the config files that apply to startDir. The local
// and worktree files are found by walking up from startDir to the nearest
// ".git" directory or "gitdir:" file; a linked worktree's local file lives
// in the main repository's git directory.
func DiscoverPaths(startDir string, opts ...Option) (Paths, error) {
	o := buildOptions(opts)
	var p Paths

	if nosys := o.getenv(EnvConfigNoSystem); nosys != "" {
		disabled, err := configfile.ParseBool(nosys)
		if err != nil {
			return Paths{}, fmt.Errorf("%s: %w", EnvConfigNoSystem, err)
		}
		if !disabled {
			p.System = systemPath(o.getenv)
		}
	} else {
		p.System = systemPath(o.getenv)
	}

	if g := o.getenv(EnvConfigGlobal); g != "" {
		p.Global = g
	} else {
		home, err := homedir.Dir()
		if err != nil {
			return Paths{}, fmt.Errorf("finding home directory: %w", err)
		}
		p.Global = filepath.Join(home, ".gitconfig")
	}
	p.XDG = xdgPath(o.getenv)

	gitDir, commonDir, err := findGitDirs(startDir)
	if err != nil {
		return Paths{}, err
	}
	if gitDir != "" {
		p.GitDir = gitDir
		p.Local = filepath.Join(commonDir, "config")
		p.Worktree = filepath.Join(gitDir, "config.worktree")
	}
	return p, nil
}

func systemPath(getenv func(string) string) string {
	if s := getenv(EnvConfigSystem); s != "" {
		return s
	}
	return defaultSystemPath
}

func xdgPath(getenv func(string) string) string {
	if x := getenv("XDG_CONFIG_HOME"); x != "" {
		return filepath.Join(x, "git", "config")
	}
	dirs := userdirs.ForApp("Git", "Git", "org.git-scm.git")
	if paths := dirs.ConfigSearchPaths("config"); len(paths) > 0 {
		return paths[0]
	}
	return ""
}

// OpenDefault builds the standard stack over p, highest priority first:
// environment overrides, worktree, local, global, XDG, system, defaults.
// The environment, worktree and defaults levels are read-only, so writes
// land in the local file inside a repository and in the global file outside.
func OpenDefault(p Paths, opts ...Option) (*Store, error) {
	o := buildOptions(opts)

	var backends []*filestore.Backend
	env, err := envBackend(o)
	if err != nil {
		return nil, err
	}
	if env != nil {
		backends = append(backends, env)
	}

	add := func(path string, level Level, extra ...filestore.Option) {
		if path != "" {
			backends = append(backends, filestore.New(path, level, o.backendOptions(extra...)...))
		}
	}
	add(p.Worktree, LevelWorktree, filestore.WithReadOnly())
	add(p.Local, LevelLocal)
	add(p.Global, LevelGlobal)
	add(p.XDG, LevelXDG)
	add(p.System, LevelSystem)

	return New(backends, opts...)
}

// findGitDirs walks up from start to the nearest repository and returns its
// git directory and common directory. They differ only in linked worktrees.
// Both are "" outside a repository.
func findGitDirs(start string) (gitDir, commonDir string, err error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", "", fmt.Errorf("resolving path: %w", err)
	}

	for {
		dotGit := filepath.Join(dir, ".git")
		info, err := os.Stat(dotGit)
		switch {
		case err == nil && info.IsDir():
			return dotGit, dotGit, nil
		case err == nil && info.Mode().IsRegular():
			gitDir, err := readGitDirFile(dotGit)
			if err != nil {
				return "", "", err
			}
			return gitDir, readCommonDir(gitDir), nil
		case err != nil && !errors.Is(err, os.ErrNotExist):
			return "", "", fmt.Errorf("checking %s: %w", dotGit, err)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", "", nil
		}
		dir = parent
	}
}

// readGitDirFile reads a ".git" file of the form "gitdir: <path>".
func readGitDirFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("reading gitdir file: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	if !scanner.Scan() {
		return "", fmt.Errorf("empty gitdir file: %s", path)
	}
	line := strings.TrimSpace(scanner.Text())
	target, ok := strings.CutPrefix(line, "gitdir:")
	if !ok {
		return "", fmt.Errorf("invalid gitdir file: %s", path)
	}
	target = strings.TrimSpace(target)
	if !filepath.IsAbs(target) {
		target = filepath.Join(filepath.Dir(path), target)
	}
	return filepath.Clean(target), nil
}

// readCommonDir returns the directory named by gitDir's "commondir" file, or
// gitDir itself when there is none.
func readCommonDir(gitDir string) string {
	raw, err := os.ReadFile(filepath.Join(gitDir, "commondir"))
	if err != nil {
		return gitDir
	}
	common := strings.TrimSpace(string(raw))
	if common == "" {
		return gitDir
	}
	if !filepath.IsAbs(common) {
		common = filepath.Join(gitDir, common)
	}
	return filepath.Clean(common)
}
