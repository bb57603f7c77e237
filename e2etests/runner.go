// Package e2etests runs the gitconf binary named by GITCONF_CMD against
// throwaway repositories.
package e2etests

import (
	"bytes"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

// Runner executes gitconf commands against a sandbox directory.
type Runner struct {
	Cmd string // path to gitconf binary
}

// Sandbox is a fake repository with its own global config.
type Sandbox struct {
	Dir    string // working tree
	Local  string // .git/config
	Global string
}

// newRunner returns a Runner, skipping the test when GITCONF_CMD is unset.
func newRunner(t *testing.T) *Runner {
	t.Helper()
	bin := os.Getenv("GITCONF_CMD")
	if bin == "" {
		t.Skip("GITCONF_CMD environment variable not set; skipping e2e tests")
	}
	return &Runner{Cmd: bin}
}

// SetupSandbox creates an empty repository under t.TempDir.
func (r *Runner) SetupSandbox(t *testing.T) *Sandbox {
	t.Helper()
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "repo", ".git"), 0755); err != nil {
		t.Fatal(err)
	}
	return &Sandbox{
		Dir:    filepath.Join(dir, "repo"),
		Local:  filepath.Join(dir, "repo", ".git", "config"),
		Global: filepath.Join(dir, "home", ".gitconfig"),
	}
}

// RunResult holds the output of a command execution.
type RunResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Run executes gitconf inside the sandbox with the system config disabled
// and the global config redirected into the sandbox.
func (r *Runner) Run(sb *Sandbox, args ...string) RunResult {
	return r.RunEnv(sb, nil, args...)
}

// RunEnv is Run with extra environment variables.
func (r *Runner) RunEnv(sb *Sandbox, env []string, args ...string) RunResult {
	cmd := exec.Command(r.Cmd, args...)
	cmd.Dir = sb.Dir
	cmd.Env = append(os.Environ(),
		"GITCONF_CONFIG_GLOBAL="+sb.Global,
		"GITCONF_CONFIG_NOSYSTEM=1",
		"XDG_CONFIG_HOME="+filepath.Join(filepath.Dir(sb.Dir), "xdg"),
	)
	cmd.Env = append(cmd.Env, env...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	exitCode := 0
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		} else {
			exitCode = -1
		}
	}

	return RunResult{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: exitCode,
	}
}
