package main

import (
	"github.com/pkg/errors"

	"github.com/arxiv/filemanager/pkg/config"
	"github.com/arxiv/filemanager/pkg/workspace"
)

// loadConfig builds the runtime configuration from the environment.
func loadConfig() *config.Config {
	return config.FromEnvironment()
}

// workspaceOptions translates a loaded Config into workspace.Options.
func workspaceOptions(c *config.Config) workspace.Options {
	return workspace.Options{
		Quarantine:       c.Quarantine,
		Checkers:         c.Checkers,
		MaxFileSize:      c.MaxFileSize,
		MaxWorkspaceSize: c.MaxWorkspaceSize,
	}
}

// openWorkspace loads an existing workspace by upload ID, wrapping
// workspace.ErrNotFound with a message that names the ID.
func openWorkspace(uploadID string) (*workspace.Workspace, error) {
	c := loadConfig()
	ws, err := workspace.Open(c.BaseDir, uploadID, workspaceOptions(c))
	if err != nil {
		if errors.Is(err, workspace.ErrNotFound) {
			return nil, errors.Errorf("no workspace found for upload %s", uploadID)
		}
		return nil, err
	}
	return ws, nil
}
