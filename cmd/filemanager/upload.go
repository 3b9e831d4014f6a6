package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"

	"github.com/spf13/cobra"

	"github.com/arxiv/filemanager/internal/cmdutil"
	"github.com/arxiv/filemanager/pkg/workspace"
)

func uploadMain(command *cobra.Command, arguments []string) error {
	if len(arguments) < 2 {
		return errors.New("invalid number of arguments")
	}
	uploadID := arguments[0]
	paths := arguments[1:]

	c := loadConfig()
	ws, err := workspace.Open(c.BaseDir, uploadID, workspaceOptions(c))
	if errors.Is(err, workspace.ErrNotFound) {
		ws, err = workspace.Create(c.BaseDir, uploadID, workspaceOptions(c))
	}
	if err != nil {
		return errors.Wrap(err, "unable to open or create workspace")
	}

	for _, source := range paths {
		handle, err := os.Open(source)
		if err != nil {
			return errors.Wrapf(err, "unable to open %s", source)
		}
		dest := filepath.Base(source)
		f, err := ws.Create(dest, workspace.CreateOptions{
			Content:     handle,
			IsAncillary: uploadConfiguration.ancillary,
		})
		handle.Close()
		if err != nil {
			return errors.Wrapf(err, "unable to upload %s", source)
		}
		fmt.Printf("uploaded %s (%s)\n", f.Path, humanize.Bytes(uint64(f.Size)))
	}

	return nil
}

var uploadCommand = &cobra.Command{
	Use:   "upload <upload-id> <file>...",
	Short: "Adds one or more local files to a workspace, creating it if necessary",
	Run:   cmdutil.Mainify(uploadMain),
}

var uploadConfiguration struct {
	help      bool
	ancillary bool
}

func init() {
	flags := uploadCommand.Flags()
	flags.SortFlags = false
	flags.BoolVarP(&uploadConfiguration.help, "help", "h", false, "Show help information")
	flags.BoolVar(&uploadConfiguration.ancillary, "ancillary", false, "Upload into the ancillary area rather than the source area")
}
