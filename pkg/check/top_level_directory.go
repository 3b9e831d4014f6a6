package check

import (
	"strings"

	"github.com/arxiv/filemanager/pkg/diagnostics"
	"github.com/arxiv/filemanager/pkg/fileindex"
)

// RemoveTopLevelDirectory eliminates a single top-level wrapper directory
// when the entire upload's content sits inside it, as happens when a
// submitter archives a project folder rather than its contents. Every
// child is moved up one level and the wrapper directory itself is removed.
// The ancillary directory is never treated as a wrapper, since its
// presence alongside other top-level content is normal, not a wrapping
// accident.
type RemoveTopLevelDirectory struct{}

func (RemoveTopLevelDirectory) Name() string { return "remove_top_level_directory" }

func (RemoveTopLevelDirectory) Check(ws Workspace, f *fileindex.UserFile) {}

func (RemoveTopLevelDirectory) CheckWorkspace(ws Workspace) {
	all := ws.Files().All()

	var topLevel []*fileindex.UserFile
	for _, f := range all {
		if f.IsRemoved() || f.IsAncillary() {
			continue
		}
		if f.Dir() == "" {
			topLevel = append(topLevel, f)
		}
	}
	if len(topLevel) != 1 || !topLevel[0].IsDirectory {
		return
	}
	wrapper := topLevel[0]
	prefix := wrapper.Path + "/"

	for _, f := range all {
		if f == wrapper || f.IsRemoved() || !strings.HasPrefix(f.Path, prefix) {
			continue
		}
		ws.Rename(f.Path, strings.TrimPrefix(f.Path, prefix))
	}

	ws.AddWarning(wrapper.Path, diagnostics.CodeTopLevelDirectoryRemoved, "Removed top level directory", false)
	ws.Remove(wrapper.Path, "Removed top level directory")
}
