package cmdlog

import (
	"bytes"
	"testing"
)

func TestLogger_Plain(t *testing.T) {
	out := &bytes.Buffer{}
	l := NewPlain(out)

	l.Headline("Installing")
	l.Indent(2).Info("client.jar")
	task := l.NewTask(2)
	task.Step("📦", "libraries")
	task.Step("🎵", "assets")

	want := "Installing\n  client.jar\n[1 / 2] libraries\n[2 / 2] assets\n"
	if out.String() != want {
		t.Fatalf("got %q, want %q", out.String(), want)
	}
}

func TestMaybeSpinner_NoSpin(t *testing.T) {
	out := &bytes.Buffer{}
	s := NewMaybeSpinner(false)
	s.Out = out

	s.Start("resolving")
	s.Update("downloading")
	s.Stop()

	if out.String() != "resolving\ndownloading\n" {
		t.Fatalf("unexpected output %q", out.String())
	}
}
