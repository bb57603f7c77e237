package cmd

import (
	"errors"
	"fmt"

	"gitconf/internal/config"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"
)

// newValidateCmd creates the "validate" command.
func newValidateCmd(provider *AppProvider) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration",
		Long: `Check that known keys have valid values in every file.

Unknown keys are always accepted.

Examples:
  gitconf validate
  gitconf validate --json`,
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

			issues := make([]string, 0)
			if err := config.Validate(sn); err != nil {
				var merr *multierror.Error
				if !errors.As(err, &merr) {
					return err
				}
				for _, e := range merr.Errors {
					issues = append(issues, e.Error())
				}
			}

			if app.Structured() {
				if err := app.Encode(map[string]any{
					"valid":  len(issues) == 0,
					"issues": issues,
				}); err != nil {
					return err
				}
			} else if len(issues) == 0 {
				fmt.Fprintln(app.Out, "Configuration is valid.")
			} else {
				fmt.Fprintln(app.Out, app.WarnColor("Configuration errors:"))
				for _, issue := range issues {
					fmt.Fprintf(app.Out, "  %s\n", issue)
				}
			}

			if len(issues) > 0 {
				return fmt.Errorf("configuration has %d error(s)", len(issues))
			}
			return nil
		},
	}

	return cmd
}
