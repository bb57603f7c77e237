package cmd

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"gitconf/internal/config"

	"github.com/hashicorp/go-hclog"
)

const testConfig = `[core]
	bare = false
	filemode = true
[remote "origin"]
	url = https://example.com/repo.git
	fetch = +refs/heads/*:refs/remotes/origin/*
	fetch = +refs/tags/*:refs/tags/*
`

// setupTestApp creates an App over a single config file seeded with content.
func setupTestApp(t *testing.T, content string) (*App, *bytes.Buffer, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config")
	if content != "" {
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	store, err := config.Open(path)
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}

	var out bytes.Buffer
	app := &App{
		Store:  store,
		Logger: hclog.NewNullLogger(),
		Out:    &out,
		Err:    io.Discard,
	}
	return app, &out, path
}

func readConfig(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}
