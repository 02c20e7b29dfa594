package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/dustin/go-humanize"
	"github.com/minepkg/mcinstall/internals/cmdlog"
	"github.com/minepkg/mcinstall/internals/commands"
	"github.com/minepkg/mcinstall/internals/instances"
	"github.com/minepkg/mcinstall/internals/loader"
	"github.com/minepkg/mcinstall/internals/minecraft"
	"github.com/minepkg/mcinstall/internals/reconcile"
	"github.com/spf13/cobra"
)

func init() {
	runner := &installRunner{}
	cmd := commands.New(&cobra.Command{
		Use:   "install",
		Short: "Installs a Minecraft version with an optional loader and content",
		Long: `Downloads the game, the loader, all libraries and assets and the content of the content set.
Running it again only downloads what is missing.`,
		Example: `
  mcinstall install --version 1.19.2
  mcinstall install -n "My Pack" --version 1.19.2 --loader fabric --content pack.yml
  mcinstall install --server --loader forge --loader-version 43.2.0`,
		Args: cobra.NoArgs,
	}, runner)

	runner.register(cmd.Command)
	cmd.Flags().StringVar(&runner.version, "version", "latest", "minecraft version, \"latest\" or \"latest-snapshot\"")
	cmd.Flags().StringVarP(&runner.loader, "loader", "l", minecraft.LoaderVanilla, "loader to install: vanilla, fabric, quilt or forge")
	cmd.Flags().StringVar(&runner.loaderVersion, "loader-version", "", "loader version or semver constraint (default is the latest stable)")
	cmd.Flags().StringVarP(&runner.content, "content", "c", "", "yaml or json file listing the wanted content")
	cmd.Flags().StringSliceVar(&runner.types, "prune", nil, "content types to remove completely if not in the content set (example: mod,resourcepack)")
	cmd.Flags().BoolVar(&runner.javaRuntime, "java-runtime", false, "also install the java version this minecraft version needs")

	rootCmd.AddCommand(cmd.Command)
}

type installRunner struct {
	instanceFlags
	version       string
	loader        string
	loaderVersion string
	content       string
	types         []string
	javaRuntime   bool
}

func (i *installRunner) RunE(cmd *cobra.Command, args []string) error {
	s := globalSettings()
	instance, err := i.instance(s)
	if err != nil {
		return err
	}
	content, err := loadContent(i.content)
	if err != nil {
		return err
	}

	opts := &instances.InstallOptions{
		GameVersion:   i.version,
		Loader:        i.loader,
		LoaderVersion: i.loaderVersion,
		Content:       content,
		ContentTypes:  i.types,
		JavaRuntime:   i.javaRuntime,
		Downloader:    newDownloader(s),
	}

	logger.Headline(fmt.Sprintf("Installing minecraft %s (%s) into %s", i.version, i.loader, instance.Directory))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	var res *instances.InstallResult
	if isTerminal() && verbosity == 0 {
		res, err = installWithProgress(ctx, cancel, instance, opts)
	} else {
		res, err = installWithSpinner(ctx, instance, opts)
	}
	if err != nil {
		return installError(err, res)
	}

	printInstallResult(logger, res)
	return nil
}

func installWithSpinner(ctx context.Context, instance *instances.Instance, opts *instances.InstallOptions) (*instances.InstallResult, error) {
	spinner := cmdlog.NewMaybeSpinner(isTerminal())
	lastGroup := ""
	opts.Downloader.OnProgress = func(percent int, group string) {
		if group != lastGroup || isTerminal() {
			spinner.Update(fmt.Sprintf("downloading %s %d%%", group, percent))
			lastGroup = group
		}
	}

	spinner.Start("resolving manifests")
	defer spinner.Stop()
	return instance.Install(ctx, opts)
}

func printInstallResult(l *cmdlog.Logger, res *instances.InstallResult) {
	downloads := res.Downloads
	l.Info(fmt.Sprintf(
		"Game files: %d downloaded, %d already present",
		downloads.Downloaded,
		downloads.Skipped,
	))

	summary := reconcile.Summarize(res.Plans)
	l.Info("Content: " + summary.String())
	if res.Content != nil {
		for _, err := range res.Content.Errors {
			l.Warn(err.Error())
		}
		if n := len(res.Content.Postponed); n != 0 {
			l.Warn(fmt.Sprintf("%d deletions were postponed because downloads failed", n))
		}
	}

	for _, warning := range res.Warnings {
		l.Warn(warning)
	}

	desc := res.Descriptor
	l.Success(fmt.Sprintf(
		"Installed %s (build %d) %s",
		desc.ManifestID,
		desc.Build,
		humanize.Time(desc.InstalledAt),
	))
}

// installError turns install errors into errors with help texts
func installError(err error, res *instances.InstallResult) error {
	var resolutionErr *loader.ResolutionError
	switch {
	case errors.Is(err, context.Canceled):
		return &commands.CliError{
			Text: "installation canceled",
			Help: "Everything downloaded so far is kept. Run the command again to continue.",
			Err:  err,
		}
	case errors.As(err, &resolutionErr):
		return &commands.CliError{
			Text: resolutionErr.Error(),
			Help: "Nothing was downloaded.",
			Suggestions: []string{
				"check that the minecraft version exists",
				"check that the loader supports this minecraft version",
			},
			Err: err,
		}
	case errors.Is(err, instances.ErrIncomplete):
		cliErr := &commands.CliError{
			Text: "installation incomplete",
			Help: "Some files could not be downloaded. Run the command again to retry only the missing ones.",
			Err:  err,
		}
		if res != nil {
			failed := res.Downloads.Failed
			if res.Content != nil && len(failed) == 0 {
				failed = res.Content.Downloads.Failed
			}
			for n, f := range failed {
				if n == 5 {
					cliErr.Suggestions = append(cliErr.Suggestions, fmt.Sprintf("… and %d more", len(failed)-n))
					break
				}
				cliErr.Suggestions = append(cliErr.Suggestions, fmt.Sprintf("%s: %s", f.Item.URL, f.Err))
			}
		}
		return cliErr
	}
	return err
}
