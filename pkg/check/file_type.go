package check

import (
	"os"

	"github.com/arxiv/filemanager/pkg/diagnostics"
	"github.com/arxiv/filemanager/pkg/fileindex"
	"github.com/arxiv/filemanager/pkg/filetype"
	"github.com/arxiv/filemanager/pkg/storage"
)

// InferFileType re-infers a file's FileType from its (possibly just
// renamed) name and content, since earlier checkers in the same pass may
// have fixed a filename or extension in a way that changes classification.
type InferFileType struct{}

func (InferFileType) Name() string { return "infer_file_type" }

func (InferFileType) Check(ws Workspace, f *fileindex.UserFile) {
	if f.IsDirectory {
		f.Type = filetype.Directory
		return
	}
	if f.Size == 0 {
		f.Type = filetype.Ignore
		return
	}
	handle, err := ws.Storage().Open(storage.Path{Area: f.Area, Rel: f.Path}, os.O_RDONLY)
	if err != nil {
		ws.AddError(f.Path, diagnostics.CodeStorageFailed, "unable to read file content for type inference",
			diagnostics.SeverityFatal, true)
		return
	}
	defer handle.Close()

	t, err := filetype.Infer(f.Path, f.Size, handle)
	if err != nil {
		ws.AddError(f.Path, diagnostics.CodeCouldNotDetermineType, "Could not determine file type.",
			diagnostics.SeverityFatal, false)
		return
	}
	f.Type = t
}
