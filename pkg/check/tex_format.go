package check

import (
	"github.com/arxiv/filemanager/pkg/fileindex"
	"github.com/arxiv/filemanager/pkg/filetype"
)

// CheckTeXForm is a placeholder for the original system's unimplemented
// preprint-document-style check; it currently only logs that LaTeX content
// was seen, mirroring the upstream "not implemented" stub rather than
// fabricating a stricter check the original never shipped.
type CheckTeXForm struct{}

func (CheckTeXForm) Name() string { return "check_tex_form" }

func (CheckTeXForm) Check(ws Workspace, f *fileindex.UserFile) {}

func (CheckTeXForm) CheckType(ws Workspace, f *fileindex.UserFile, t filetype.FileType) {
	if t != filetype.Latex && t != filetype.Latex2e {
		return
	}
	ws.Log("formcheck routine not implemented: " + f.Path)
}
