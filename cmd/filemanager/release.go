package main

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/spf13/cobra"

	"github.com/arxiv/filemanager/internal/cmdutil"
)

func releaseMain(command *cobra.Command, arguments []string) error {
	if len(arguments) != 1 {
		return errors.New("invalid number of arguments")
	}
	ws, err := openWorkspace(arguments[0])
	if err != nil {
		return err
	}
	ws.Release()
	fmt.Printf("workspace %s released\n", ws.UploadID())
	return nil
}

var releaseCommand = &cobra.Command{
	Use:   "release <upload-id>",
	Short: "Hands a workspace off to the classic processing system",
	Run:   cmdutil.Mainify(releaseMain),
}

var releaseConfiguration struct {
	help bool
}

func init() {
	flags := releaseCommand.Flags()
	flags.SortFlags = false
	flags.BoolVarP(&releaseConfiguration.help, "help", "h", false, "Show help information")
}
