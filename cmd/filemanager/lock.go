package main

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/spf13/cobra"

	"github.com/arxiv/filemanager/internal/cmdutil"
)

func lockMain(command *cobra.Command, arguments []string) error {
	if len(arguments) != 1 {
		return errors.New("invalid number of arguments")
	}
	ws, err := openWorkspace(arguments[0])
	if err != nil {
		return err
	}
	ws.Lock()
	fmt.Printf("workspace %s locked\n", ws.UploadID())
	return nil
}

var lockCommand = &cobra.Command{
	Use:   "lock <upload-id>",
	Short: "Locks a workspace against further mutation",
	Run:   cmdutil.Mainify(lockMain),
}

var lockConfiguration struct {
	help bool
}

func init() {
	flags := lockCommand.Flags()
	flags.SortFlags = false
	flags.BoolVarP(&lockConfiguration.help, "help", "h", false, "Show help information")
}
