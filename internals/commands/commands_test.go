package commands

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

type failing struct{ err error }

func (f failing) RunE(cmd *cobra.Command, args []string) error { return f.err }

func TestNew_PrintsErrorAndExits(t *testing.T) {
	EmojiEnabled = false
	defer func() { EmojiEnabled = true }()

	out := &bytes.Buffer{}
	code := -1
	oldOutput, oldExit := Output, Exit
	Output, Exit = out, func(c int) { code = c }
	defer func() { Output, Exit = oldOutput, oldExit }()

	cliErr := &CliError{
		Text:        "something broke",
		Help:        "try again",
		Suggestions: []string{"run it twice"},
		Err:         errors.New("root cause"),
	}
	cmd := New(&cobra.Command{Use: "test"}, failing{fmt.Errorf("wrapped: %w", cliErr)})
	cmd.Run(cmd.Command, nil)

	if code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
	for _, want := range []string{"something broke", "try again", "run it twice"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output does not contain %q:\n%s", want, out.String())
		}
	}
}

func TestCliError_Unwrap(t *testing.T) {
	root := errors.New("root cause")
	err := fmt.Errorf("context: %w", &CliError{Text: "x", Err: root})
	if !errors.Is(err, root) {
		t.Fatal("CliError should unwrap to its cause")
	}
}

func TestRender_PlainError(t *testing.T) {
	if !strings.Contains(Render(errors.New("plain")), "Error: plain") {
		t.Fatal("plain errors should be rendered in the error box")
	}
}
