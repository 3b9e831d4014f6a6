package check

import (
	"github.com/arxiv/filemanager/pkg/diagnostics"
	"github.com/arxiv/filemanager/pkg/fileindex"
)

// ZeroLengthFileChecker removes files with no content; an empty file can
// never contribute to a compiled submission and often indicates a failed
// upload or transfer.
type ZeroLengthFileChecker struct{}

func (ZeroLengthFileChecker) Name() string { return "zero_length_file" }

func (ZeroLengthFileChecker) Check(ws Workspace, f *fileindex.UserFile) {
	if f.IsDirectory || f.Size != 0 {
		return
	}
	message := "Removed file '" + f.Name() + "' [file is empty]."
	ws.AddError(f.Path, diagnostics.CodeZeroLength, message, diagnostics.SeverityInfo, false)
	ws.Remove(f.Path, message)
}
