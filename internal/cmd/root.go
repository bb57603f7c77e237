package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"gitconf/internal/config"
	"gitconf/internal/config/filestore"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"
)

// AppProvider lazily initializes the App on first use.
type AppProvider struct {
	once sync.Once
	app  *App
	err  error

	// Config captured from flags before Execute()
	JSONOutput bool
	YAMLOutput bool
	File       string
	Dir        string
	System     bool
	Global     bool
	Local      bool
	Worktree   bool
	LogLevel   string
	Getenv     func(string) string
	Out        io.Writer
	Err        io.Writer
}

// Get returns the App, initializing it on first call.
func (p *AppProvider) Get() (*App, error) {
	p.once.Do(func() {
		if p.app == nil {
			p.app, p.err = p.init()
		}
	})
	return p.app, p.err
}

// NewTestProvider creates a provider pre-initialized with the given App.
// Used for testing commands with a test App.
func NewTestProvider(app *App) *AppProvider {
	return &AppProvider{
		app:        app,
		JSONOutput: app.JSON,
		YAMLOutput: app.YAML,
		Out:        app.Out,
		Err:        app.Err,
	}
}

func (p *AppProvider) init() (*App, error) {
	out := p.Out
	if out == nil {
		out = os.Stdout
	}
	errOut := p.Err
	if errOut == nil {
		errOut = os.Stderr
	}
	getenv := p.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}

	logger := newLogger(errOut, p.LogLevel, getenv)
	store, err := p.openStore(logger, getenv)
	if err != nil {
		return nil, err
	}

	return &App{
		Store:  store,
		Logger: logger,
		Out:    out,
		Err:    errOut,
		JSON:   p.JSONOutput,
		YAML:   p.YAMLOutput,
	}, nil
}

// openStore builds the store the flags ask for: one file for --file or a
// level flag, the full stack otherwise.
func (p *AppProvider) openStore(logger hclog.Logger, getenv func(string) string) (*config.Store, error) {
	opts := []config.Option{config.WithLogger(logger), config.WithEnv(getenv)}
	if p.File != "" {
		return config.Open(p.File, opts...)
	}

	dir := p.Dir
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("cannot get current directory: %w", err)
		}
		dir = cwd
	}
	paths, err := config.DiscoverPaths(dir, opts...)
	if err != nil {
		return nil, err
	}

	level, scoped := p.level()
	if !scoped {
		opts = append(opts, config.WithDefaults(config.DefaultValues()))
		return config.OpenDefault(paths, opts...)
	}

	var path string
	switch level {
	case config.LevelSystem:
		path = paths.System
	case config.LevelGlobal:
		path = paths.Global
	case config.LevelLocal:
		path = paths.Local
	case config.LevelWorktree:
		path = paths.Worktree
	}
	if path == "" {
		if level == config.LevelSystem {
			return nil, errors.New("system config is disabled")
		}
		return nil, fmt.Errorf("--%s can only be used inside a git repository", level)
	}
	backend := filestore.New(path, level, filestore.WithLogger(logger))
	return config.New([]*filestore.Backend{backend}, opts...)
}

func (p *AppProvider) level() (config.Level, bool) {
	switch {
	case p.System:
		return config.LevelSystem, true
	case p.Global:
		return config.LevelGlobal, true
	case p.Local:
		return config.LevelLocal, true
	case p.Worktree:
		return config.LevelWorktree, true
	}
	return 0, false
}

// newLogger logs to w at the level named by flag, or by GITCONF_LOG when the
// flag is empty. Unknown levels fall back to warn.
func newLogger(w io.Writer, flag string, getenv func(string) string) hclog.Logger {
	name := flag
	if name == "" {
		name = getenv(config.EnvLog)
	}
	level := hclog.LevelFromString(name)
	if level == hclog.NoLevel {
		level = hclog.Warn
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:   "gitconf",
		Level:  level,
		Output: w,
	})
}

// Execute runs the CLI.
func Execute() error {
	provider := &AppProvider{
		Out: os.Stdout,
		Err: os.Stderr,
	}

	rootCmd := newRootCmd(provider)
	return rootCmd.Execute()
}

// newRootCmd creates the root command with all subcommands.
func newRootCmd(provider *AppProvider) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "gitconf",
		Short: "Read and write git-style layered configuration",
		Long: `gitconf reads and writes configuration in the git config format.

Values are looked up across a stack of files, most specific first:
environment overrides, worktree, local (.git/config), global
(~/.gitconfig), XDG (~/.config/git/config) and system (/etc/gitconfig).
Writes go to the local file inside a repository and to the global file
outside one, unless --file or a level flag picks a single file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags - these populate the provider config. Registering a flag
	// writes its default into the bound field, so fields already set on the
	// provider are passed as the defaults.
	flags := rootCmd.PersistentFlags()
	flags.BoolVar(&provider.JSONOutput, "json", provider.JSONOutput, "Output in JSON format")
	flags.BoolVar(&provider.YAMLOutput, "yaml", provider.YAMLOutput, "Output in YAML format")
	flags.StringVarP(&provider.File, "file", "f", provider.File, "Use only the given config file")
	flags.StringVarP(&provider.Dir, "dir", "C", provider.Dir, "Discover the repository from this directory (default: cwd)")
	flags.BoolVar(&provider.System, "system", provider.System, "Use only the system config file")
	flags.BoolVar(&provider.Global, "global", provider.Global, "Use only the global config file")
	flags.BoolVar(&provider.Local, "local", provider.Local, "Use only the repository config file")
	flags.BoolVar(&provider.Worktree, "worktree", provider.Worktree, "Use only the worktree config file")
	flags.StringVar(&provider.LogLevel, "log-level", provider.LogLevel, "Log level: trace, debug, info, warn, error (default: $GITCONF_LOG or warn)")
	rootCmd.MarkFlagsMutuallyExclusive("file", "system", "global", "local", "worktree")
	rootCmd.MarkFlagsMutuallyExclusive("json", "yaml")

	// Register all commands
	rootCmd.AddCommand(newGetCmd(provider))
	rootCmd.AddCommand(newGetAllCmd(provider))
	rootCmd.AddCommand(newSetCmd(provider))
	rootCmd.AddCommand(newAddCmd(provider))
	rootCmd.AddCommand(newUnsetCmd(provider))
	rootCmd.AddCommand(newUnsetAllCmd(provider))
	rootCmd.AddCommand(newListCmd(provider))
	rootCmd.AddCommand(newApplyCmd(provider))
	rootCmd.AddCommand(newValidateCmd(provider))
	rootCmd.AddCommand(newVersionCmd(provider))

	return rootCmd
}
