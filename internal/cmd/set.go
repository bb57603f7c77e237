package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newSetCmd creates the "set" command.
func newSetCmd(provider *AppProvider) *cobra.Command {
	var typ string

	cmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Long: `Set a configuration key to a value, replacing its current value.

Fails if the key has several values in the target file; use add,
unset-all or apply for multi-valued keys.

Examples:
  gitconf set user.name "Jane Doe"
  gitconf --global set core.editor vim
  gitconf set core.bare no --type bool`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := provider.Get()
			if err != nil {
				return err
			}

			key := args[0]
			value, err := canonical(typ, args[1])
			if err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}

			if err := app.Store.Set(key, value); err != nil {
				return fmt.Errorf("setting config: %w", err)
			}

			if app.Structured() {
				return app.Encode(map[string]string{
					"key":   key,
					"value": value,
				})
			}

			fmt.Fprintf(app.Out, "%s %s = %s\n", app.SuccessColor("Set"), key, value)
			return nil
		},
	}

	cmd.Flags().StringVar(&typ, "type", "", "Store the value canonically as bool or int")
	return cmd
}

// newAddCmd creates the "add" command.
func newAddCmd(provider *AppProvider) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <key> <value>",
		Short: "Add a value to a configuration key",
		Long: `Append a value to a key, keeping the values it already has.

Examples:
  gitconf add remote.origin.fetch "+refs/tags/*:refs/tags/*"`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := provider.Get()
			if err != nil {
				return err
			}

			key, value := args[0], args[1]
			if err := app.Store.Add(key, value); err != nil {
				return fmt.Errorf("adding config: %w", err)
			}

			if app.Structured() {
				return app.Encode(map[string]string{
					"key":   key,
					"value": value,
				})
			}

			fmt.Fprintf(app.Out, "%s %s = %s\n", app.SuccessColor("Added"), key, value)
			return nil
		},
	}

	return cmd
}

// newUnsetCmd creates the "unset" command.
func newUnsetCmd(provider *AppProvider) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "unset <key>",
		Short: "Remove a configuration value",
		Long: `Remove the single value of a key from the target file.

Fails if the key is not set there or has several values; use
unset-all to remove every value.

Examples:
  gitconf unset user.email`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := provider.Get()
			if err != nil {
				return err
			}

			key := args[0]
			if err := app.Store.Delete(key); err != nil {
				return fmt.Errorf("unsetting config: %w", err)
			}
			return reportUnset(app, key)
		},
	}

	return cmd
}

// newUnsetAllCmd creates the "unset-all" command.
func newUnsetAllCmd(provider *AppProvider) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "unset-all <key>",
		Short: "Remove every value of a configuration key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := provider.Get()
			if err != nil {
				return err
			}

			key := args[0]
			if err := app.Store.DeleteAll(key); err != nil {
				return fmt.Errorf("unsetting config: %w", err)
			}
			return reportUnset(app, key)
		},
	}

	return cmd
}

func reportUnset(app *App, key string) error {
	if app.Structured() {
		return app.Encode(map[string]string{
			"key": key,
		})
	}
	fmt.Fprintf(app.Out, "%s %s\n", app.SuccessColor("Unset"), key)
	return nil
}
