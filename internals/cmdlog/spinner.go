package cmdlog

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/briandowns/spinner"
)

// MaybeSpinner is a spinner that can also just log text
type MaybeSpinner struct {
	Spin    bool
	Spinner *spinner.Spinner
	Out     io.Writer
}

// NewMaybeSpinner will return a new MaybeSpinner. Without spin every update is printed as a line
func NewMaybeSpinner(spin bool) *MaybeSpinner {
	s := &MaybeSpinner{
		Spin:    spin,
		Spinner: spinner.New(spinner.CharSets[9], 300*time.Millisecond, spinner.WithWriter(os.Stderr)),
		Out:     os.Stdout,
	}
	s.Spinner.Prefix = " "
	return s
}

// Start might start the spinner
func (m *MaybeSpinner) Start(msg string) {
	m.Spinner.Suffix = " " + msg
	if m.Spin {
		m.Spinner.Start()
	} else if msg != "" {
		fmt.Fprintln(m.Out, msg)
	}
}

// Stop will stop the spinner
func (m *MaybeSpinner) Stop() {
	if m.Spin {
		m.Spinner.Stop()
	}
}

// Update will update the spinner text
func (m *MaybeSpinner) Update(t string) {
	if m.Spin {
		m.Spinner.Lock()
		m.Spinner.Suffix = " " + t
		m.Spinner.Unlock()
		return
	}
	fmt.Fprintln(m.Out, t)
}
