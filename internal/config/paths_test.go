package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func testEnv(dir string) map[string]string {
	return map[string]string{
		EnvConfigGlobal:   filepath.Join(dir, "home", ".gitconfig"),
		EnvConfigSystem:   filepath.Join(dir, "etc", "gitconfig"),
		"XDG_CONFIG_HOME": filepath.Join(dir, "xdg"),
	}
}

func TestDiscoverPathsRepository(t *testing.T) {
	dir := t.TempDir()
	repo := filepath.Join(dir, "repo")
	writeFile(t, filepath.Join(repo, ".git", "HEAD"), "ref: refs/heads/main\n")
	sub := filepath.Join(repo, "a", "b")
	writeFile(t, filepath.Join(sub, "file.txt"), "")

	p, err := DiscoverPaths(sub, WithEnv(envMap(testEnv(dir))))
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(repo, ".git"), p.GitDir)
	assert.Equal(t, filepath.Join(repo, ".git", "config"), p.Local)
	assert.Equal(t, filepath.Join(repo, ".git", "config.worktree"), p.Worktree)
	assert.Equal(t, filepath.Join(dir, "home", ".gitconfig"), p.Global)
	assert.Equal(t, filepath.Join(dir, "xdg", "git", "config"), p.XDG)
	assert.Equal(t, filepath.Join(dir, "etc", "gitconfig"), p.System)
}

func TestDiscoverPathsLinkedWorktree(t *testing.T) {
	dir := t.TempDir()
	mainGit := filepath.Join(dir, "main", ".git")
	wtGit := filepath.Join(mainGit, "worktrees", "feature")
	writeFile(t, filepath.Join(wtGit, "commondir"), "../..\n")
	writeFile(t, filepath.Join(dir, "feature", ".git"), "gitdir: ../main/.git/worktrees/feature\n")

	p, err := DiscoverPaths(filepath.Join(dir, "feature"), WithEnv(envMap(testEnv(dir))))
	require.NoError(t, err)

	assert.Equal(t, wtGit, p.GitDir)
	assert.Equal(t, filepath.Join(mainGit, "config"), p.Local)
	assert.Equal(t, filepath.Join(wtGit, "config.worktree"), p.Worktree)
}

func TestDiscoverPathsBadGitFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "repo", ".git"), "not a gitdir line\n")

	_, err := DiscoverPaths(filepath.Join(dir, "repo"), WithEnv(envMap(testEnv(dir))))
	assert.Error(t, err)
}

func TestDiscoverPathsNoSystem(t *testing.T) {
	dir := t.TempDir()
	env := testEnv(dir)
	env[EnvConfigNoSystem] = "true"

	p, err := DiscoverPaths(dir, WithEnv(envMap(env)))
	require.NoError(t, err)
	assert.Empty(t, p.System)

	env[EnvConfigNoSystem] = "perhaps"
	_, err = DiscoverPaths(dir, WithEnv(envMap(env)))
	assert.ErrorIs(t, err, ErrInvalidValue)
}

func TestOpenDefaultPrecedence(t *testing.T) {
	dir := t.TempDir()
	p := Paths{
		System:   filepath.Join(dir, "system"),
		XDG:      filepath.Join(dir, "xdg"),
		Global:   filepath.Join(dir, "global"),
		Local:    filepath.Join(dir, "repo", "config"),
		Worktree: filepath.Join(dir, "repo", "config.worktree"),
	}
	writeFile(t, p.System, "[test]\n\tlevel = system\n\tsystem = yes\n")
	writeFile(t, p.XDG, "[test]\n\tlevel = xdg\n")
	writeFile(t, p.Global, "[test]\n\tlevel = global\n")
	writeFile(t, p.Local, "[test]\n\tlevel = local\n")

	env := map[string]string{
		EnvConfigCount:             "1",
		EnvConfigKeyPrefix + "0":   "test.env",
		EnvConfigValuePrefix + "0": "from-env",
	}
	s, err := OpenDefault(p,
		WithEnv(envMap(env)),
		WithDefaults(map[string]string{"test.level": "default", "test.fallback": "default"}))
	require.NoError(t, err)

	get := func(key string) string {
		v, _, err := s.Get(key)
		require.NoError(t, err)
		return v
	}
	assert.Equal(t, "local", get("test.level"))
	assert.Equal(t, "from-env", get("test.env"))
	assert.Equal(t, "yes", get("test.system"))
	assert.Equal(t, "default", get("test.fallback"))

	all, err := s.GetAll("test.level")
	require.NoError(t, err)
	assert.Equal(t, []string{"local", "global", "xdg", "system", "default"}, all)

	require.NoError(t, s.Set("test.written", "here"))
	assert.Contains(t, readFile(t, p.Local), "written = here")
	assert.NotContains(t, readFile(t, p.Global), "written")
}

func TestOpenDefaultOutsideRepository(t *testing.T) {
	dir := t.TempDir()
	p := Paths{
		System: filepath.Join(dir, "system"),
		Global: filepath.Join(dir, "global"),
	}
	s, err := OpenDefault(p, WithEnv(envMap(nil)))
	require.NoError(t, err)

	require.NoError(t, s.Set("user.name", "Jane"))
	assert.Contains(t, readFile(t, p.Global), "name = Jane")
}

func TestOpenDefaultReportsEveryBrokenFile(t *testing.T) {
	dir := t.TempDir()
	p := Paths{
		Global: filepath.Join(dir, "global"),
		Local:  filepath.Join(dir, "local"),
	}
	writeFile(t, p.Global, "[broken\n")
	writeFile(t, p.Local, "outside = section\n")

	_, err := OpenDefault(p, WithEnv(envMap(nil)))
	require.Error(t, err)
	assert.Contains(t, err.Error(), p.Global)
	assert.Contains(t, err.Error(), p.Local)
}
