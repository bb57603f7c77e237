// Package cmd implements the gitconf command-line interface.
package cmd

import (
	"encoding/json"
	"io"
	"os"

	"gitconf/internal/config"

	"github.com/hashicorp/go-hclog"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

// App holds application state shared across commands.
type App struct {
	Store  *config.Store
	Logger hclog.Logger
	Out    io.Writer
	Err    io.Writer
	JSON   bool // output in JSON format
	YAML   bool // output in YAML format
}

// Structured reports whether output is machine-readable.
func (a *App) Structured() bool {
	return a.JSON || a.YAML
}

// Encode writes v to Out as YAML when requested, JSON otherwise.
func (a *App) Encode(v any) error {
	if a.YAML {
		enc := yaml.NewEncoder(a.Out)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	return json.NewEncoder(a.Out).Encode(v)
}

// SuccessColor returns the string wrapped in green ANSI codes if stdout is a terminal,
// otherwise returns the string unchanged.
func (a *App) SuccessColor(s string) string {
	if f, ok := a.Out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return "\033[32m" + s + "\033[0m"
	}
	return s
}

// WarnColor returns the string wrapped in orange ANSI codes if stdout is a terminal,
// otherwise returns the string unchanged.
func (a *App) WarnColor(s string) string {
	if f, ok := a.Out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return "\033[38;5;214m" + s + "\033[0m"
	}
	return s
}
