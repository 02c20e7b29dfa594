package cmd

import (
	"fmt"
	"os"

	"github.com/jwalton/gchalk"
	"github.com/minepkg/mcinstall/cmd/config"
	"github.com/minepkg/mcinstall/internals/cmdlog"
	"github.com/minepkg/mcinstall/internals/launchargs"
	"github.com/minepkg/mcinstall/internals/logging"
	"github.com/minepkg/mcinstall/internals/settings"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// Version is set by main
	Version = "0.0.0-dev"
	// Commit is set by main
	Commit = ""
)

var logger = cmdlog.New()

var (
	cfgFile       string
	verbosity     int
	disableColors bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "mcinstall",
	Short: "Installs Minecraft versions, mod loaders and content.",
	Long:  "Downloads and assembles Minecraft runtimes with fabric, quilt or forge and keeps their content in sync",

	Example: `
  mcinstall install --version 1.19.2 --loader fabric --content pack.yml
  mcinstall plan --content pack.yml
  mcinstall launch-args --relative`,
}

var completionCmd = &cobra.Command{
	Use:   "completion",
	Args:  cobra.MaximumNArgs(1),
	Short: "Output shell completion code for bash",
	Long: `To load completion run

. <(mcinstall completion)

You can add that line to your ~/.bashrc or ~/.profile to
persist completion in your shell.
`,
	Run: func(cmd *cobra.Command, args []string) {
		rootCmd.GenBashCompletion(os.Stdout)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.Version = Version
	launchargs.LauncherVersion = Version
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&disableColors, "no-color", "", false, "disable color output")
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "verbose logging (repeat for more)")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is "+settings.ConfigFile()+")")

	rootCmd.AddCommand(completionCmd)
	rootCmd.AddCommand(config.SubCmd)
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	noColor := disableColors || os.Getenv("CI") != ""
	if noColor {
		gchalk.SetLevel(gchalk.LevelNone)
		logger = cmdlog.NewPlain(os.Stdout)
	}
	logging.Setup(verbosity, noColor)

	if err := settings.Init(viper.GetViper(), cfgFile); err != nil {
		logger.Warn(err.Error())
	}
}

// globalSettings returns the settings after flags and config were read
func globalSettings() *settings.Settings {
	return settings.Load(viper.GetViper())
}
