package check

import (
	"strings"

	"github.com/arxiv/filemanager/pkg/diagnostics"
	"github.com/arxiv/filemanager/pkg/fileindex"
)

// WarnAboutProcessedDirectory warns about a "processed" directory, which
// historically accompanied replacement submissions importing files from a
// previous version of the paper. The decision of whether to delete it is
// left to a higher-level replacement workflow; here we only flag it.
type WarnAboutProcessedDirectory struct{}

func (WarnAboutProcessedDirectory) Name() string { return "warn_about_processed_directory" }

func (WarnAboutProcessedDirectory) Check(ws Workspace, f *fileindex.UserFile) {
	if f.IsDirectory && strings.Trim(f.Name(), "/") == "processed" {
		ws.AddWarning(f.Path, diagnostics.CodeProcessedDirectory, "Detected 'processed' directory. Please check.", true)
	}
}
