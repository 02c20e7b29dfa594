package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/erikgeiser/promptkit/confirmation"
	"github.com/minepkg/mcinstall/internals/commands"
	"github.com/minepkg/mcinstall/internals/reconcile"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

func init() {
	runner := &syncRunner{}
	cmd := commands.New(&cobra.Command{
		Use:   "sync",
		Short: "Downloads missing content and removes content that is not wanted anymore",
		Long: `Makes the content folders match the content set. Files ending with .disabled count as present.
Only files and marked world directories are removed, never other directories.`,
		Args: cobra.NoArgs,
	}, runner)

	runner.register(cmd.Command)
	cmd.Flags().StringVarP(&runner.content, "content", "c", "", "yaml or json file listing the wanted content")
	cmd.Flags().StringSliceVar(&runner.types, "prune", nil, "content types to remove completely if not in the content set")
	cmd.Flags().BoolVarP(&runner.yes, "yes", "y", false, "do not ask before deleting files")
	cmd.MarkFlagRequired("content")

	rootCmd.AddCommand(cmd.Command)
}

type syncRunner struct {
	instanceFlags
	content string
	types   []string
	yes     bool
}

func (s *syncRunner) RunE(cmd *cobra.Command, args []string) error {
	plans, rec, err := planContent(&s.instanceFlags, s.content, s.types)
	if err != nil {
		return err
	}
	summary := reconcile.Summarize(plans)
	if summary.Downloads == 0 && summary.Deletes == 0 {
		logger.Success("Content is up to date")
		return nil
	}
	printPlans(plans)

	if summary.Deletes != 0 && !s.yes {
		if !isTerminal() {
			return &commands.CliError{
				Text:        fmt.Sprintf("%d files would be deleted", summary.Deletes),
				Suggestions: []string{"pass --yes to delete without asking"},
			}
		}
		input := confirmation.New(fmt.Sprintf("Delete %d files?", summary.Deletes), confirmation.No)
		ok, err := input.RunPrompt()
		if err != nil || !ok {
			logger.Info("Aborting")
			return nil
		}
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	spinner := newSpinnerFor("downloading content")
	res, err := rec.Apply(ctx, afero.NewOsFs(), plans, newDownloader(globalSettings()))
	spinner.Stop()
	if err != nil {
		return err
	}

	for _, err := range res.Errors {
		logger.Warn(err.Error())
	}
	if n := len(res.Postponed); n != 0 {
		logger.Warn(fmt.Sprintf("%d deletions were postponed because downloads failed", n))
	}
	if !res.Downloads.OK() {
		return &commands.CliError{
			Text: "some content could not be downloaded",
			Help: res.Downloads.Err().Error(),
			Err:  res.Downloads.Err(),
		}
	}

	logger.Success(fmt.Sprintf("%d downloaded, %d deleted", res.Downloads.Downloaded, len(res.Deleted)))
	return nil
}
