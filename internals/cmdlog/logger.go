// Package cmdlog prints human readable command output
package cmdlog

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/jwalton/gchalk"
)

// Logger logs pretty stuff to the console
type Logger struct {
	Out       io.Writer
	emojis    bool
	chalk     *gchalk.Builder
	indention int
}

// New returns a new Logger writing to stdout
func New() *Logger {
	emojis := runtime.GOOS != "windows"
	chalk := gchalk.New()

	// disable color for CI
	if os.Getenv("CI") != "" || os.Getenv("NO_COLOR") != "" {
		emojis = false
		chalk = gchalk.New(gchalk.ForceLevel(gchalk.LevelNone))
	}
	return &Logger{Out: os.Stdout, emojis: emojis, chalk: chalk}
}

// NewPlain returns a Logger without colors and emojis
func NewPlain(out io.Writer) *Logger {
	return &Logger{Out: out, chalk: gchalk.New(gchalk.ForceLevel(gchalk.LevelNone))}
}

// helper for indention
func (l *Logger) println(a string) {
	fmt.Fprintln(l.Out, strings.Repeat(" ", l.indention)+a)
}

func (l *Logger) sprintEmoji(e string) string {
	if l.emojis {
		return e + " "
	}
	return ""
}

// Headline prints a cyan line
func (l *Logger) Headline(s string) {
	l.println(l.chalk.WithCyan().Bold(s))
}

// Info prints a "normal" line
func (l *Logger) Info(s string) {
	l.println(s)
}

// Log prints a dimmed line
func (l *Logger) Log(s string) {
	l.println(l.chalk.Gray(s))
}

// Success prints a green line
func (l *Logger) Success(s string) {
	l.println(l.sprintEmoji("✅") + l.chalk.Green(s))
}

// Warn will print a warning
func (l *Logger) Warn(s string) {
	l.println(l.sprintEmoji("⚠️") + l.chalk.WithYellow().Bold(s))
}

// Indent returns a logger indenting all lines by n more spaces
func (l *Logger) Indent(n int) *Logger {
	logger := *l
	logger.indention += n
	return &logger
}

// NewTask returns a new Task logger
func (l *Logger) NewTask(end int) *Task {
	logger := *l
	task := Task{&logger, 0, end}
	return &task
}

// Task logs but with progress
type Task struct {
	*Logger
	current int
	end     int
}

// Step prints progress
func (l *Task) Step(e string, s string) {
	l.current++
	text := l.chalk.Cyan(fmt.Sprintf(
		"[%d / %d] %s%s",
		l.current,
		l.end,
		l.sprintEmoji(e),
		s,
	))

	// step headlines have no indentation
	fmt.Fprintln(l.Out, text)
}
