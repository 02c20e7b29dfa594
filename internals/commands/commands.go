package commands

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

// Exit is called with the exit code after an error was printed
var Exit = os.Exit

// Output is where errors are printed to
var Output io.Writer = os.Stderr

// Command is a cobra command whose errors are rendered as error boxes
type Command struct {
	*cobra.Command
	runner Runner
}

// Runner runs a command
type Runner interface {
	RunE(cmd *cobra.Command, args []string) error
}

// New wraps cmd so errors returned by run are printed nicely and exit the process
func New(cmd *cobra.Command, run Runner) *Command {
	build := &Command{
		cmd,
		run,
	}
	build.Command.Run = func(cmd *cobra.Command, args []string) {
		if err := run.RunE(cmd, args); err != nil {
			fmt.Fprintln(Output, Render(err))
			Exit(1)
		}
	}

	return build
}

// Render returns the error box for err
func Render(err error) string {
	var asCliErr *CliError
	if errors.As(err, &asCliErr) {
		return asCliErr.RichError() + "\n"
	}
	return ErrorBox(err.Error(), "")
}
