package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is the gitconf release. Builds override it with
// -ldflags "-X gitconf/internal/cmd.Version=1.2.3".
var Version = "0.3.0"

// VersionJSON is the structured output of the version command.
type VersionJSON struct {
	Version string `json:"version" yaml:"version"`
}

func newVersionCmd(provider *AppProvider) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// No store is needed, so skip provider.Get.
			app := &App{Out: provider.Out, JSON: provider.JSONOutput, YAML: provider.YAMLOutput}
			if app.Structured() {
				return app.Encode(VersionJSON{Version: Version})
			}
			fmt.Fprintf(app.Out, "gitconf version %s\n", Version)
			return nil
		},
	}
}
