package main

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/spf13/cobra"

	"github.com/arxiv/filemanager/internal/cmdutil"
)

func unlockMain(command *cobra.Command, arguments []string) error {
	if len(arguments) != 1 {
		return errors.New("invalid number of arguments")
	}
	ws, err := openWorkspace(arguments[0])
	if err != nil {
		return err
	}
	ws.Unlock()
	fmt.Printf("workspace %s unlocked\n", ws.UploadID())
	return nil
}

var unlockCommand = &cobra.Command{
	Use:   "unlock <upload-id>",
	Short: "Unlocks a workspace, restoring normal mutation",
	Run:   cmdutil.Mainify(unlockMain),
}

var unlockConfiguration struct {
	help bool
}

func init() {
	flags := unlockCommand.Flags()
	flags.SortFlags = false
	flags.BoolVarP(&unlockConfiguration.help, "help", "h", false, "Show help information")
}
