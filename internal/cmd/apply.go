package cmd

import (
	"fmt"
	"strings"

	"gitconf/internal/config"

	"github.com/spf13/cobra"
)

// assignment is one parsed apply argument.
type assignment struct {
	op    config.EditOp
	key   string
	value string
}

// parseAssignment parses "key=value", "key+=value" or "!key".
func parseAssignment(arg string) (assignment, error) {
	if key, ok := strings.CutPrefix(arg, "!"); ok {
		return assignment{op: config.OpDeleteAll, key: key}, nil
	}
	key, value, ok := strings.Cut(arg, "=")
	if !ok {
		return assignment{}, fmt.Errorf("bad assignment %q (want key=value, key+=value or !key)", arg)
	}
	if k, ok := strings.CutSuffix(key, "+"); ok {
		return assignment{op: config.OpAdd, key: k, value: value}, nil
	}
	return assignment{op: config.OpSet, key: key, value: value}, nil
}

// newApplyCmd creates the "apply" command.
func newApplyCmd(provider *AppProvider) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apply <assignment>...",
		Short: "Apply several changes atomically",
		Long: `Apply several changes to the target file in one transaction.

Each argument is one of:
  key=value    set key, replacing its single value
  key+=value   add a value to key
  !key         remove every value of key

Either every change is written or none is.

Examples:
  gitconf apply user.name=Jane user.email=jane@example.com
  gitconf apply '!remote.origin.fetch' 'remote.origin.fetch+=+refs/heads/*:refs/remotes/origin/*'`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := provider.Get()
			if err != nil {
				return err
			}

			assignments := make([]assignment, 0, len(args))
			for _, arg := range args {
				a, err := parseAssignment(arg)
				if err != nil {
					return err
				}
				assignments = append(assignments, a)
			}

			var applied []config.Edit
			err = app.Store.WithTransaction(func(tx *config.Transaction) error {
				for _, a := range assignments {
					var err error
					switch a.op {
					case config.OpSet:
						err = tx.Set(a.key, a.value)
					case config.OpAdd:
						err = tx.Add(a.key, a.value)
					case config.OpDeleteAll:
						err = tx.DeleteAll(a.key)
					}
					if err != nil {
						return fmt.Errorf("%s %s: %w", a.op, a.key, err)
					}
				}
				applied = tx.Edits()
				return nil
			})
			if err != nil {
				return fmt.Errorf("applying config: %w", err)
			}

			if app.Structured() {
				out := make([]map[string]string, 0, len(applied))
				for _, e := range applied {
					out = append(out, map[string]string{
						"op":    e.Op.String(),
						"key":   e.Key,
						"value": e.Value,
					})
				}
				return app.Encode(out)
			}

			fmt.Fprintf(app.Out, "%s %d change(s)\n", app.SuccessColor("Applied"), len(applied))
			return nil
		},
	}

	return cmd
}
