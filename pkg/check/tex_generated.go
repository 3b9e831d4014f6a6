package check

import (
	"fmt"
	"path"
	"regexp"
	"strings"

	"github.com/arxiv/filemanager/pkg/diagnostics"
	"github.com/arxiv/filemanager/pkg/fileindex"
	"github.com/arxiv/filemanager/pkg/filetype"
)

var texProduced = regexp.MustCompile(`(?i)\.(log|aux|out|blg|dvi|ps|pdf)$`)

// RemoveTeXGeneratedFiles removes build output files (log, aux, blg, dvi,
// ps, pdf) from the submission only when a source .tex file with the same
// base name is present, since in that case the uploaded build artifact
// would otherwise shadow arXiv's own freshly compiled output.
type RemoveTeXGeneratedFiles struct{}

func (RemoveTeXGeneratedFiles) Name() string { return "remove_tex_generated_files" }

func (RemoveTeXGeneratedFiles) Check(ws Workspace, f *fileindex.UserFile) {
	if !texProduced.MatchString(f.Name()) {
		return
	}
	base := strings.TrimSuffix(f.Name(), path.Ext(f.Name()))
	texFile := path.Join(f.Dir(), base+".tex")
	upperTexFile := path.Join(f.Dir(), base+".TEX")
	if !ws.Exists(texFile) && !ws.Exists(upperTexFile) {
		return
	}
	message := fmt.Sprintf("Removed file '%s' due to name conflict.", f.Name())
	ws.AddError(f.Path, diagnostics.CodeNameConflict, message, diagnostics.SeverityInfo, false)
	ws.Remove(f.Path, message)
}

// DisallowDVIFiles raises a fatal diagnostic for any non-ancillary DVI
// file, since arXiv requires the TeX source rather than its compiled
// device-independent output.
type DisallowDVIFiles struct{}

func (DisallowDVIFiles) Name() string { return "disallow_dvi_files" }

func (DisallowDVIFiles) Check(ws Workspace, f *fileindex.UserFile) {}

func (DisallowDVIFiles) CheckType(ws Workspace, f *fileindex.UserFile, t filetype.FileType) {
	if t != filetype.DVI || f.IsAncillary() {
		return
	}
	ws.AddError(f.Path, diagnostics.CodeDviNotAllowed,
		fmt.Sprintf("%s is a TeX-produced DVI file. Please submit the TeX source instead.", f.Name()),
		diagnostics.SeverityFatal, true)
}
