package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"

	"github.com/spf13/cobra"

	"github.com/arxiv/filemanager/internal/cmdutil"
	"github.com/arxiv/filemanager/pkg/workspace"
)

func listMain(command *cobra.Command, arguments []string) error {
	if len(arguments) != 1 {
		return errors.New("invalid number of arguments")
	}
	ws, err := openWorkspace(arguments[0])
	if err != nil {
		return err
	}

	files := ws.IterFiles(workspace.IterOptions{
		AllowAncillary: true,
		AllowRemoved:   listConfiguration.removed,
	})
	for _, f := range files {
		marker := " "
		if f.IsDirectory {
			marker = "/"
		}
		status := ""
		if f.IsRemoved() {
			status = " (removed: " + f.Removed + ")"
		}
		fmt.Printf("%-10s %8s  %s%s%s\n", f.Type, humanize.Bytes(uint64(f.Size)), f.Path, marker, status)
	}
	return nil
}

var listCommand = &cobra.Command{
	Use:   "list <upload-id>",
	Short: "Lists the files currently tracked by a workspace",
	Run:   cmdutil.Mainify(listMain),
}

var listConfiguration struct {
	help    bool
	removed bool
}

func init() {
	flags := listCommand.Flags()
	flags.SortFlags = false
	flags.BoolVarP(&listConfiguration.help, "help", "h", false, "Show help information")
	flags.BoolVar(&listConfiguration.removed, "removed", false, "Include files that have been flagged removed")
}
