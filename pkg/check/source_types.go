package check

import (
	"github.com/arxiv/filemanager/pkg/diagnostics"
	"github.com/arxiv/filemanager/pkg/fileindex"
	"github.com/arxiv/filemanager/pkg/filetype"
	"github.com/arxiv/filemanager/pkg/sourcetype"
)

// InferSourceType determines the workspace's overall SourceType: a
// dedicated rule for single-file submissions, and an aggregate-count rule
// for everything else, run once per pass after every file has been
// classified.
type InferSourceType struct{}

func (InferSourceType) Name() string { return "infer_source_type" }

func (InferSourceType) Check(ws Workspace, f *fileindex.UserFile) {
	if ws.FileCount() != 1 {
		return
	}
	if f.IsAncillary() || f.Type == filetype.AlwaysIgnore {
		ws.SetSourceType(sourcetype.Invalid)
		ws.AddNonFileError("Found single ancillary file. Invalid submission.")
	}
}

func (InferSourceType) CheckType(ws Workspace, f *fileindex.UserFile, t filetype.FileType) {
	if ws.FileCount() != 1 || !ws.SourceType().IsUnknown() {
		return
	}
	switch single := sourcetype.InferSingleFile(t, f.IsAncillary()); single {
	case sourcetype.Invalid:
		if t == filetype.Failed {
			ws.SetSourceType(sourcetype.Invalid)
			ws.AddError(f.Path, diagnostics.CodeCouldNotDetermineType, "Could not determine file type.", diagnostics.SeverityFatal, true)
		}
	default:
		ws.SetSourceType(single)
	}
}

func (InferSourceType) CheckFinally(ws Workspace, f *fileindex.UserFile) {
	if ws.SourceType().IsUnknown() && ws.FileCount() == 1 {
		ws.SetSourceType(sourcetype.Invalid)
		ws.AddError(f.Path, diagnostics.CodeCouldNotDetermineType, "Could not determine file type.", diagnostics.SeverityFatal, true)
	}
}

func (InferSourceType) CheckWorkspace(ws Workspace) {
	if ws.FileCount() == 0 {
		ws.SetSourceType(sourcetype.Invalid)
		return
	}
	overall := sourcetype.InferOverall(ws.FileTypeCounts())
	if overall == sourcetype.Invalid && ws.FileTypeCounts().Files > 0 {
		ws.AddNonFileWarning("All files are auto-ignore. If you intended to withdraw the article, " +
			"please use the 'withdraw' function from the list of articles on your account page.")
	}
	ws.SetSourceType(overall)
}

// FlagInvalidSourceTypes raises fatal diagnostics for single-file
// submissions whose sole file is a format arXiv no longer accepts as a
// standalone submission (DOCX, ODF, bare EPS, or a lone auxiliary TeX
// file).
type FlagInvalidSourceTypes struct{}

func (FlagInvalidSourceTypes) Name() string { return "flag_invalid_source_types" }

func (FlagInvalidSourceTypes) Check(ws Workspace, f *fileindex.UserFile) {}

func (FlagInvalidSourceTypes) CheckType(ws Workspace, f *fileindex.UserFile, t filetype.FileType) {
	if ws.FileCount() != 1 {
		return
	}
	switch t {
	case filetype.DOCX:
		ws.SetSourceType(sourcetype.Invalid)
		ws.AddError(f.Path, diagnostics.CodeDocxNotSupported,
			"Submissions in docx are no longer supported. Please create a PDF file and submit that instead.",
			diagnostics.SeverityFatal, true)
	case filetype.ODF:
		ws.SetSourceType(sourcetype.Invalid)
		ws.AddError(f.Path, diagnostics.CodeOdfNotSupported,
			"Unfortunately arXiv does not support ODF. Please submit PDF instead.",
			diagnostics.SeverityFatal, true)
	case filetype.Postscript:
		if f.Ext() == ".eps" {
			ws.SetSourceType(sourcetype.Invalid)
			ws.AddError(f.Path, diagnostics.CodeEpsNotSupported,
				"This file appears to be a single encapsulated PostScript file.",
				diagnostics.SeverityFatal, true)
		}
	case filetype.TeXAux:
		ws.SetSourceType(sourcetype.Invalid)
		ws.AddError(f.Path, diagnostics.CodeSingleAuxiliaryTeXFile,
			"This file appears to be a single auxiliary TeX file.",
			diagnostics.SeverityFatal, true)
	}
}
