package main

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/spf13/cobra"

	"github.com/arxiv/filemanager/internal/cmdutil"
)

func unreleaseMain(command *cobra.Command, arguments []string) error {
	if len(arguments) != 1 {
		return errors.New("invalid number of arguments")
	}
	ws, err := openWorkspace(arguments[0])
	if err != nil {
		return err
	}
	ws.Unrelease()
	fmt.Printf("workspace %s unreleased\n", ws.UploadID())
	return nil
}

var unreleaseCommand = &cobra.Command{
	Use:   "unrelease <upload-id>",
	Short: "Reclaims a released workspace back into the active state",
	Run:   cmdutil.Mainify(unreleaseMain),
}

var unreleaseConfiguration struct {
	help bool
}

func init() {
	flags := unreleaseCommand.Flags()
	flags.SortFlags = false
	flags.BoolVarP(&unreleaseConfiguration.help, "help", "h", false, "Show help information")
}
