package check

import (
	"github.com/arxiv/filemanager/pkg/diagnostics"
	"github.com/arxiv/filemanager/pkg/fileindex"
	"github.com/arxiv/filemanager/pkg/filetype"
)

// FlagInvalidFileTypes raises a fatal diagnostic for file types arXiv never
// accepts regardless of how many other files accompany them, currently just
// RAR archives (since arXiv only supports zip/tar for bundled submissions).
type FlagInvalidFileTypes struct{}

func (FlagInvalidFileTypes) Name() string { return "flag_invalid_file_types" }

func (FlagInvalidFileTypes) Check(ws Workspace, f *fileindex.UserFile) {}

func (FlagInvalidFileTypes) CheckType(ws Workspace, f *fileindex.UserFile, t filetype.FileType) {
	if t != filetype.RAR {
		return
	}
	ws.AddError(f.Path, diagnostics.CodeRarNotSupported,
		"We do not support 'rar' files. Please use 'zip' or 'tar' instead.",
		diagnostics.SeverityFatal, true)
}
