package main

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/spf13/cobra"

	"github.com/arxiv/filemanager/internal/cmdutil"
)

func checkMain(command *cobra.Command, arguments []string) error {
	if len(arguments) != 1 {
		return errors.New("invalid number of arguments")
	}
	ws, err := openWorkspace(arguments[0])
	if err != nil {
		return err
	}
	if err := ws.PerformChecks(); err != nil {
		return errors.Wrap(err, "unable to perform checks")
	}

	fmt.Printf("readiness: %s\n", ws.Readiness())
	fmt.Printf("source type: %s\n", ws.SourceTypeValue())
	for _, d := range ws.Diagnostics() {
		fmt.Println(d)
	}
	return nil
}

var checkCommand = &cobra.Command{
	Use:   "check <upload-id>",
	Short: "Runs the sanitization and classification pipeline against a workspace",
	Run:   cmdutil.Mainify(checkMain),
}

var checkConfiguration struct {
	help bool
}

func init() {
	flags := checkCommand.Flags()
	flags.SortFlags = false
	flags.BoolVarP(&checkConfiguration.help, "help", "h", false, "Show help information")
}
