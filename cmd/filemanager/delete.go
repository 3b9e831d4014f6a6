package main

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/spf13/cobra"

	"github.com/arxiv/filemanager/internal/cmdutil"
)

func deleteMain(command *cobra.Command, arguments []string) error {
	if len(arguments) != 1 {
		return errors.New("invalid number of arguments")
	}
	if !deleteConfiguration.force {
		return errors.New("refusing to delete a workspace without --force")
	}
	ws, err := openWorkspace(arguments[0])
	if err != nil {
		return err
	}
	if err := ws.Destroy(); err != nil {
		return errors.Wrap(err, "unable to destroy workspace")
	}
	fmt.Printf("workspace %s deleted\n", ws.UploadID())
	return nil
}

var deleteCommand = &cobra.Command{
	Use:   "delete <upload-id>",
	Short: "Permanently purges a workspace's storage, retaining only its event log",
	Run:   cmdutil.Mainify(deleteMain),
}

var deleteConfiguration struct {
	help  bool
	force bool
}

func init() {
	flags := deleteCommand.Flags()
	flags.SortFlags = false
	flags.BoolVarP(&deleteConfiguration.help, "help", "h", false, "Show help information")
	flags.BoolVar(&deleteConfiguration.force, "force", false, "Confirm permanent deletion")
}
