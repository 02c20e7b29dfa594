package cmd

import (
	"fmt"

	"github.com/minepkg/mcinstall/internals/commands"
	"github.com/minepkg/mcinstall/internals/credentials"
	"github.com/spf13/cobra"
)

var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Manage the account used in launch arguments",
}

func init() {
	offline := commands.New(&cobra.Command{
		Use:   "offline <player name>",
		Short: "Stores an offline account for the given player name",
		Args:  cobra.ExactArgs(1),
	}, &accountOfflineRunner{})

	show := &cobra.Command{
		Use:   "show",
		Short: "Shows the stored account",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := credentials.New(globalSettings().GlobalDir)
			if err != nil {
				return err
			}
			if store.Account == nil {
				logger.Info("No account stored. Launch arguments use an offline account named by the \"player\" config value.")
				return nil
			}
			logger.Info(fmt.Sprintf("%s (%s, %s)", store.Account.PlayerName, store.Account.UUID, store.Account.UserType))
			return nil
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Removes the stored account",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := credentials.New(globalSettings().GlobalDir)
			if err != nil {
				return err
			}
			return store.Clear()
		},
	}

	accountCmd.AddCommand(offline.Command, show, clearCmd)
	rootCmd.AddCommand(accountCmd)
}

type accountOfflineRunner struct{}

func (a *accountOfflineRunner) RunE(cmd *cobra.Command, args []string) error {
	store, err := credentials.New(globalSettings().GlobalDir)
	if err != nil {
		return err
	}
	account := credentials.Offline(args[0])
	if err := store.SetAccount(account); err != nil {
		return err
	}
	if store.NoKeyRingMode {
		logger.Warn("No keyring available, the account is stored in a file")
	}
	logger.Success(fmt.Sprintf("Stored offline account %s (%s)", account.PlayerName, account.UUID))
	return nil
}
