package cmd

import (
	"fmt"
	"strings"

	"github.com/alessio/shellescape"
	"github.com/minepkg/mcinstall/internals/commands"
	"github.com/minepkg/mcinstall/internals/credentials"
	"github.com/minepkg/mcinstall/internals/instances"
	"github.com/minepkg/mcinstall/internals/minecraft"
	"github.com/spf13/cobra"
)

func init() {
	runner := &launchArgsRunner{}
	cmd := commands.New(&cobra.Command{
		Use:   "launch-args",
		Short: "Prints the command that starts an installed instance",
		Long: `Prints the java command line of an installed instance. The game is not started.
With --relative the install root and game directory are replaced by ${install_root} and ${game_directory}.`,
		Example: `
  mcinstall launch-args -n "My Pack"
  $(mcinstall launch-args --extract-natives)`,
		Args: cobra.NoArgs,
	}, runner)

	runner.register(cmd.Command)
	cmd.Flags().BoolVar(&runner.relative, "relative", false, "replace absolute paths by placeholders")
	cmd.Flags().BoolVar(&runner.lines, "lines", false, "print one argument per line instead of a shell command")
	cmd.Flags().BoolVar(&runner.extractNatives, "extract-natives", false, "extract the native libraries needed to start the game")
	cmd.Flags().BoolVar(&runner.demo, "demo", false, "launch in demo mode without an account")
	cmd.Flags().StringVar(&runner.java, "java", "", "java executable (default is the \"java\" config value)")
	cmd.Flags().IntVar(&runner.memory, "memory", 0, "max heap in MiB (default is the \"memory\" config value)")
	cmd.Flags().IntVar(&runner.width, "width", 0, "window width")
	cmd.Flags().IntVar(&runner.height, "height", 0, "window height")

	rootCmd.AddCommand(cmd.Command)
}

type launchArgsRunner struct {
	instanceFlags
	relative       bool
	lines          bool
	extractNatives bool
	demo           bool
	java           string
	memory         int
	width          int
	height         int
}

func (l *launchArgsRunner) RunE(cmd *cobra.Command, args []string) error {
	s := globalSettings()
	instance, err := l.instance(s)
	if err != nil {
		return err
	}

	opts := &instances.LaunchOptions{
		Java:           s.Java,
		MemoryMiB:      s.MemoryMiB,
		Width:          l.width,
		Height:         l.height,
		ExtractNatives: l.extractNatives,
	}
	if l.java != "" {
		opts.Java = l.java
	}
	if l.memory != 0 {
		opts.MemoryMiB = l.memory
	}
	if !l.demo {
		account, err := launchAccount(s.GlobalDir, s.Player)
		if err != nil {
			return err
		}
		opts.Auth = account
	}

	lc, err := instance.LaunchContext(opts)
	if err != nil {
		if err == instances.ErrNoInstance {
			return &commands.CliError{
				Text:        fmt.Sprintf("%s is not installed", instance.Directory),
				Suggestions: []string{"run \"mcinstall install\" first"},
				Err:         err,
			}
		}
		return err
	}

	var command []string
	if l.relative {
		command, err = lc.RelativeCommand()
	} else {
		command, err = lc.Command()
	}
	if err != nil {
		return err
	}

	if l.lines {
		fmt.Println(strings.Join(command, "\n"))
		return nil
	}
	fmt.Println(shellescape.QuoteCommand(command))
	return nil
}

// launchAccount returns the stored account or an offline account for player
func launchAccount(globalDir string, player string) (minecraft.LaunchAuthData, error) {
	store, err := credentials.New(globalDir)
	if err != nil {
		return nil, err
	}
	if store.Account != nil {
		return store.Account, nil
	}
	return credentials.Offline(player), nil
}
