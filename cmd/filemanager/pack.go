package main

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/spf13/cobra"

	"github.com/arxiv/filemanager/internal/cmdutil"
)

func packMain(command *cobra.Command, arguments []string) error {
	if len(arguments) != 1 {
		return errors.New("invalid number of arguments")
	}
	ws, err := openWorkspace(arguments[0])
	if err != nil {
		return err
	}

	path, err := ws.GetContent()
	if err != nil {
		return errors.Wrap(err, "unable to pack workspace content")
	}
	checksum, err := ws.ContentChecksum()
	if err != nil {
		return errors.Wrap(err, "unable to compute content checksum")
	}

	fmt.Printf("package:  %s\n", path)
	fmt.Printf("checksum: %s\n", checksum)
	return nil
}

var packCommand = &cobra.Command{
	Use:   "pack <upload-id>",
	Short: "Builds (or rebuilds, if stale) a workspace's source package tarball",
	Run:   cmdutil.Mainify(packMain),
}

var packConfiguration struct {
	help bool
}

func init() {
	flags := packCommand.Flags()
	flags.SortFlags = false
	flags.BoolVarP(&packConfiguration.help, "help", "h", false, "Show help information")
}
