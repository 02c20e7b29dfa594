package config

import (
	"fmt"
	"strings"

	"github.com/minepkg/mcinstall/internals/settings"
	"github.com/spf13/cobra"
)

// SubCmd groups the config commands
var SubCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage global config options",
	Long:  "Manage global config options. Every key can also be set with a MCINSTALL_<KEY> environment variable",
}

func init() {
	SubCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "Lists all config keys",
		Run: func(cmd *cobra.Command, args []string) {
			for _, key := range settings.Keys() {
				fmt.Printf("  %-12s %s\n", key, settings.Entries[key].Help)
			}
		},
	})
}

func normalizeKey(key string) (string, error) {
	key = strings.ToLower(key)
	if _, ok := settings.Entries[key]; !ok {
		return "", fmt.Errorf("config key \"%s\" does not exist", key)
	}
	return key, nil
}
