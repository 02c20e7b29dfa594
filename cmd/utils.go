package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"
	"github.com/minepkg/mcinstall/internals/cmdlog"
	"github.com/minepkg/mcinstall/internals/commands"
	"github.com/minepkg/mcinstall/internals/downloadmgr"
	"github.com/minepkg/mcinstall/internals/instances"
	"github.com/minepkg/mcinstall/internals/ownhttp"
	"github.com/minepkg/mcinstall/internals/reconcile"
	"github.com/minepkg/mcinstall/internals/settings"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// instanceFlags select the instance a command works on
type instanceFlags struct {
	name   string
	dir    string
	server bool
}

func (f *instanceFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.name, "name", "n", "", "name of the instance inside the global instances directory")
	cmd.Flags().StringVarP(&f.dir, "dir", "d", "", "game directory of the instance (default is the current directory)")
	cmd.Flags().BoolVar(&f.server, "server", false, "work on a server instead of a client")
}

// instance returns the selected instance. Without flags the current directory is used
func (f *instanceFlags) instance(s *settings.Settings) (*instances.Instance, error) {
	var instance *instances.Instance
	switch {
	case f.name != "":
		instance = instances.New(s.GlobalDir, f.name)
	case f.dir != "":
		dir, err := filepath.Abs(f.dir)
		if err != nil {
			return nil, err
		}
		instance = instances.NewInDirectory(s.GlobalDir, dir)
	default:
		wd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		instance = instances.NewInDirectory(s.GlobalDir, wd)
	}
	instance.IsServer = f.server
	return instance, nil
}

// newDownloader returns a download manager configured by the settings
func newDownloader(s *settings.Settings) *downloadmgr.DownloadManager {
	dl := downloadmgr.New()
	if s.Concurrency > 0 {
		dl.Concurrency = s.Concurrency
	}
	dl.Client = ownhttp.NewDownloadClient(s.Throttle)
	return dl
}

// loadContent reads the content set file. An empty path means no content
func loadContent(path string) ([]reconcile.Descriptor, error) {
	if path == "" {
		return nil, nil
	}
	content, err := reconcile.LoadContentSet(afero.NewOsFs(), path)
	if err != nil {
		return nil, &commands.CliError{
			Text: fmt.Sprintf("could not read content set %s", path),
			Help: err.Error(),
			Suggestions: []string{
				"content sets are yaml or json files with a list of content entries",
			},
			Err: err,
		}
	}
	return content, nil
}

// newSpinnerFor starts a spinner on terminals or prints msg otherwise
func newSpinnerFor(msg string) *cmdlog.MaybeSpinner {
	spinner := cmdlog.NewMaybeSpinner(isTerminal())
	spinner.Start(msg)
	return spinner
}

func isTerminal() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}
