package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/spf13/cobra"

	"github.com/arxiv/filemanager/internal/cmdutil"
	"github.com/arxiv/filemanager/pkg/workspace"
)

func createMain(command *cobra.Command, arguments []string) error {
	if len(arguments) != 0 {
		return errors.New("create does not accept arguments")
	}
	uploadID := createConfiguration.uploadID
	if uploadID == "" {
		uploadID = uuid.NewString()
	}

	c := loadConfig()
	ws, err := workspace.Create(c.BaseDir, uploadID, workspaceOptions(c))
	if err != nil {
		return errors.Wrap(err, "unable to create workspace")
	}

	fmt.Println(ws.UploadID())
	return nil
}

var createCommand = &cobra.Command{
	Use:   "create",
	Short: "Creates a new, empty workspace and prints its upload ID",
	Run:   cmdutil.Mainify(createMain),
}

var createConfiguration struct {
	help     bool
	uploadID string
}

func init() {
	flags := createCommand.Flags()
	flags.SortFlags = false
	flags.BoolVarP(&createConfiguration.help, "help", "h", false, "Show help information")
	flags.StringVar(&createConfiguration.uploadID, "upload-id", "", "Use a specific upload ID rather than generating one")
}
