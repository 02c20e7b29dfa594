package config

import (
	"fmt"

	"github.com/minepkg/mcinstall/internals/commands"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	cmd := commands.New(&cobra.Command{
		Use:   "get <key>",
		Short: "Gets a global config value",
		Args:  cobra.ExactArgs(1),
	}, &getRunner{})

	SubCmd.AddCommand(cmd.Command)
}

type getRunner struct{}

func (i *getRunner) RunE(cmd *cobra.Command, args []string) error {
	key, err := normalizeKey(args[0])
	if err != nil {
		return err
	}

	fmt.Println("Printing config entry:")
	fmt.Printf("  %s: %v\n", key, viper.Get(key))

	return nil
}
