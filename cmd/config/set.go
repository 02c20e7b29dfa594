package config

import (
	"fmt"

	"github.com/jwalton/gchalk"
	"github.com/minepkg/mcinstall/internals/commands"
	"github.com/minepkg/mcinstall/internals/settings"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	cmd := commands.New(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Sets a global config value",
		Args:  cobra.ExactArgs(2),
	}, &setRunner{})

	SubCmd.AddCommand(cmd.Command)
}

type setRunner struct{}

func (i *setRunner) RunE(cmd *cobra.Command, args []string) error {
	key, err := normalizeKey(args[0])
	if err != nil {
		return err
	}
	value := args[1]

	previousValue := viper.Get(key)
	previousStringValue := fmt.Sprintf("%v", previousValue)
	if previousValue == nil {
		previousStringValue = "(unset)"
	}

	if err := settings.Set(viper.GetViper(), key, value); err != nil {
		return &commands.CliError{
			Text: fmt.Sprintf("could not set %s", key),
			Help: err.Error(),
			Err:  err,
		}
	}

	fmt.Printf(
		"Changing config entry:\n  %s: %s → %v\n",
		key,
		gchalk.Strikethrough(previousStringValue),
		gchalk.Bold(fmt.Sprintf("%v", viper.Get(key))),
	)
	return nil
}
