package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func rootMain(command *cobra.Command, arguments []string) {
	if rootConfiguration.version {
		fmt.Println(version)
		return
	}
	command.Help()
}

const version = "0.1.0"

var rootCommand = &cobra.Command{
	Use:   "filemanager",
	Short: "filemanager manages arXiv submission workspaces",
	Run:   rootMain,
}

var rootConfiguration struct {
	help    bool
	version bool
}

func init() {
	flags := rootCommand.Flags()
	flags.BoolVarP(&rootConfiguration.help, "help", "h", false, "Show help information")
	flags.BoolVarP(&rootConfiguration.version, "version", "V", false, "Show version information")

	cobra.EnableCommandSorting = false
	cobra.MousetrapHelpText = ""

	rootCommand.AddCommand(
		createCommand,
		uploadCommand,
		checkCommand,
		listCommand,
		statusCommand,
		packCommand,
		lockCommand,
		unlockCommand,
		releaseCommand,
		unreleaseCommand,
		deleteCommand,
	)
}

func main() {
	handleTerminalCompatibility()

	if err := rootCommand.Execute(); err != nil {
		os.Exit(1)
	}
}
