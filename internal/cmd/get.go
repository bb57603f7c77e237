package cmd

import (
	"fmt"

	"gitconf/internal/config/configfile"

	"github.com/spf13/cobra"
)

// canonical rewrites value in the form requested by --type.
func canonical(typ, value string) (string, error) {
	switch typ {
	case "":
		return value, nil
	case "bool":
		b, err := configfile.ParseBool(value)
		if err != nil {
			return "", err
		}
		return configfile.FormatBool(b), nil
	case "int":
		n, err := configfile.ParseInt(value)
		if err != nil {
			return "", err
		}
		return configfile.FormatInt(n), nil
	}
	return "", fmt.Errorf("unknown type %q (want bool or int)", typ)
}

// newGetCmd creates the "get" command.
func newGetCmd(provider *AppProvider) *cobra.Command {
	var typ string

	cmd := &cobra.Command{
		Use:   "get <key>",
		Short: "Get a configuration value",
		Long: `Get the value of a configuration key.

Prints the value from the most specific file that sets the key. When
that file sets the key more than once, the last value wins. Prints
"key (not set)" if no file sets it.

Examples:
  gitconf get user.name
  gitconf get core.bare --type bool
  gitconf get remote.origin.url --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := provider.Get()
			if err != nil {
				return err
			}

			key := args[0]
			value, ok, err := app.Store.Get(key)
			if err != nil {
				return err
			}
			if ok {
				if value, err = canonical(typ, value); err != nil {
					return fmt.Errorf("%s: %w", key, err)
				}
			}

			if app.Structured() {
				return app.Encode(map[string]any{
					"key":   key,
					"value": value,
					"set":   ok,
				})
			}

			if ok {
				fmt.Fprintln(app.Out, value)
			} else {
				fmt.Fprintf(app.Out, "%s (not set)\n", key)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&typ, "type", "", "Interpret the value as bool or int and print it canonically")
	return cmd
}

// newGetAllCmd creates the "get-all" command.
func newGetAllCmd(provider *AppProvider) *cobra.Command {
	var typ string

	cmd := &cobra.Command{
		Use:   "get-all <key>",
		Short: "Get every value of a configuration key",
		Long: `Print every value of a multi-valued key, one per line.

Values from more specific files come first; within a file, values keep
their order.

Examples:
  gitconf get-all remote.origin.fetch`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := provider.Get()
			if err != nil {
				return err
			}

			key := args[0]
			values, err := app.Store.GetAll(key)
			if err != nil {
				return err
			}
			for i, v := range values {
				if values[i], err = canonical(typ, v); err != nil {
					return fmt.Errorf("%s: %w", key, err)
				}
			}

			if app.Structured() {
				return app.Encode(map[string]any{
					"key":    key,
					"values": values,
				})
			}
			for _, v := range values {
				fmt.Fprintln(app.Out, v)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&typ, "type", "", "Interpret values as bool or int and print them canonically")
	return cmd
}
