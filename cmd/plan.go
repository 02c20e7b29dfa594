package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/minepkg/mcinstall/internals/commands"
	"github.com/minepkg/mcinstall/internals/reconcile"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

func init() {
	runner := &planRunner{}
	cmd := commands.New(&cobra.Command{
		Use:   "plan",
		Short: "Shows what sync would download and delete",
		Args:  cobra.NoArgs,
	}, runner)

	runner.register(cmd.Command)
	cmd.Flags().StringVarP(&runner.content, "content", "c", "", "yaml or json file listing the wanted content")
	cmd.Flags().StringSliceVar(&runner.types, "prune", nil, "content types to remove completely if not in the content set")
	cmd.MarkFlagRequired("content")

	rootCmd.AddCommand(cmd.Command)
}

type planRunner struct {
	instanceFlags
	content string
	types   []string
}

func (p *planRunner) RunE(cmd *cobra.Command, args []string) error {
	plans, _, err := planContent(&p.instanceFlags, p.content, p.types)
	if err != nil {
		return err
	}
	printPlans(plans)
	return nil
}

// planContent computes the content plans of the selected instance
func planContent(flags *instanceFlags, contentFile string, types []string) ([]*reconcile.Plan, *reconcile.Reconciler, error) {
	instance, err := flags.instance(globalSettings())
	if err != nil {
		return nil, nil, err
	}
	content, err := loadContent(contentFile)
	if err != nil {
		return nil, nil, err
	}

	rec := reconcile.New(instance.Directory)
	rec.Server = instance.IsServer
	rec.Types = types
	plans, err := rec.Plan(content, afero.NewOsFs())
	if err != nil {
		return nil, nil, err
	}
	return plans, rec, nil
}

func printPlans(plans []*reconcile.Plan) {
	for _, plan := range plans {
		if plan.Empty() {
			continue
		}
		logger.Headline(fmt.Sprintf("%s (%s)", plan.Type, plan.Folder))
		indented := logger.Indent(2)
		for _, item := range plan.ToDownload {
			line := "+ " + filepath.Base(item.Target)
			if item.Size > 0 {
				line += " (" + humanize.Bytes(uint64(item.Size)) + ")"
			}
			indented.Info(line)
		}
		for _, p := range plan.ToDelete {
			indented.Info("- " + filepath.Base(p))
		}
	}
	logger.Info(reconcile.Summarize(plans).String())
}
