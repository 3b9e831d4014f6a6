package check

import (
	"strings"

	"github.com/arxiv/filemanager/pkg/diagnostics"
	"github.com/arxiv/filemanager/pkg/fileindex"
)

// RemoveMacOSXHiddenFiles removes "__MACOSX" directories left behind by
// macOS's Finder when it compresses an archive.
type RemoveMacOSXHiddenFiles struct{}

func (RemoveMacOSXHiddenFiles) Name() string { return "remove_macosx_hidden_files" }

func (RemoveMacOSXHiddenFiles) Check(ws Workspace, f *fileindex.UserFile) {
	if f.IsDirectory && strings.Trim(f.Name(), "/") == "__MACOSX" {
		ws.AddWarning(f.Path, diagnostics.CodeHiddenFiles, "Removed '__MACOSX' directory.", false)
		ws.Remove(f.Path, "Removed '__MACOSX' directory.")
	}
}

// RemoveFilesWithLeadingDot removes files and directories whose name starts
// with a dot, since such content is never visible to downstream tooling and
// often reflects editor/VCS artifacts accidentally swept into the upload.
type RemoveFilesWithLeadingDot struct{}

func (RemoveFilesWithLeadingDot) Name() string { return "remove_files_with_leading_dot" }

func (RemoveFilesWithLeadingDot) Check(ws Workspace, f *fileindex.UserFile) {
	if strings.HasPrefix(f.Name(), ".") || strings.HasPrefix(f.Path, ".") {
		ws.AddWarning(f.Path, diagnostics.CodeHiddenFilesDot, "Hidden file are not allowed.", false)
		ws.Remove(f.Path, "Removed file '"+f.Name()+"' [File not allowed].")
	}
}
