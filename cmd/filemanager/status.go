package main

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/spf13/cobra"

	"github.com/arxiv/filemanager/internal/cmdutil"
)

func statusMain(command *cobra.Command, arguments []string) error {
	if len(arguments) != 1 {
		return errors.New("invalid number of arguments")
	}
	ws, err := openWorkspace(arguments[0])
	if err != nil {
		return err
	}

	fmt.Printf("upload id:    %s\n", ws.UploadID())
	fmt.Printf("status:       %s\n", ws.Status())
	fmt.Printf("lock:         %s\n", ws.LockState())
	fmt.Printf("readiness:    %s\n", ws.Readiness())
	fmt.Printf("source type:  %s\n", ws.SourceTypeValue())
	fmt.Printf("file count:   %d\n", ws.FileCount())
	fmt.Printf("package:      exists=%t stale=%t size=%d\n",
		ws.ContentPackageExists(), ws.ContentPackageStale(), ws.ContentPackageSize())
	return nil
}

var statusCommand = &cobra.Command{
	Use:   "status <upload-id>",
	Short: "Prints a workspace's lifecycle state and readiness",
	Run:   cmdutil.Mainify(statusMain),
}

var statusConfiguration struct {
	help bool
}

func init() {
	flags := statusCommand.Flags()
	flags.SortFlags = false
	flags.BoolVarP(&statusConfiguration.help, "help", "h", false, "Show help information")
}
