package cmd

import (
	"fmt"
	"sort"

	"gitconf/internal/config"

	"github.com/spf13/cobra"
)

// EntryJSON is the structured output format for one listed value.
type EntryJSON struct {
	Key   string `json:"key" yaml:"key"`
	Value string `json:"value" yaml:"value"`
	Level string `json:"level" yaml:"level"`
	Path  string `json:"path,omitempty" yaml:"path,omitempty"`
}

// newListCmd creates the "list" command.
func newListCmd(provider *AppProvider) *cobra.Command {
	var showOrigin bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all configuration values",
		Long: `List every value of every file, least specific file first, so a
later line overrides an earlier one for the same key.

The listing is taken from a single consistent read of all files.

Examples:
  gitconf list
  gitconf list --show-origin
  gitconf list --yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := provider.Get()
			if err != nil {
				return err
			}

			sn, err := app.Store.Snapshot()
			if err != nil {
				return err
			}
			entries := sn.Entries()
			sort.SliceStable(entries, func(i, j int) bool {
				return entries[i].Rank > entries[j].Rank
			})

			if app.Structured() {
				out := make([]EntryJSON, 0, len(entries))
				for _, e := range entries {
					out = append(out, EntryJSON{
						Key:   e.Key,
						Value: e.Value,
						Level: e.Level.String(),
						Path:  e.Path,
					})
				}
				return app.Encode(out)
			}

			for _, e := range entries {
				if showOrigin {
					fmt.Fprintf(app.Out, "%s\t", origin(e))
				}
				fmt.Fprintf(app.Out, "%s=%s\n", e.Key, e.Value)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&showOrigin, "show-origin", false, "Prefix each line with the file it came from")
	return cmd
}

func origin(e config.Entry) string {
	if e.Path == "" {
		return e.Level.String() + ":"
	}
	return "file:" + e.Path
}
