package check

import (
	"fmt"
	"path"
	"regexp"
	"strings"

	"github.com/arxiv/filemanager/pkg/diagnostics"
	"github.com/arxiv/filemanager/pkg/fileindex"
)

var bibFilePattern = regexp.MustCompile(`(?i)\.bib$`)

const bibWithBblWarning = "We do not run bibtex in the auto - TeXing procedure. We do not run" +
	" bibtex because the .bib database files can be quite large, and the" +
	" only thing necessary to make the references for a given paper is" +
	" the .bbl file."

const bibNoBblWarning = "We do not run bibtex in the auto - TeXing " +
	"procedure. If you use it, include in your submission the .bbl file " +
	"which bibtex produces on your home machine; otherwise your " +
	"references will not come out correctly. We do not run bibtex " +
	"because the .bib database files can be quite large, and the only " +
	"thing necessary to make the references for a given paper is " +
	"the.bbl file."

// CheckForBibFile looks for a .bib bibliography database file. When a
// sibling .bbl (the compiled, ready-to-typeset reference list bibtex
// produces) exists, the .bib is removed since arXiv's build does not run
// bibtex itself. When no .bbl is present, a fatal diagnostic is raised
// since references would silently fail to resolve at compile time.
type CheckForBibFile struct{}

func (CheckForBibFile) Name() string { return "check_for_bib_file" }

func (CheckForBibFile) Check(ws Workspace, f *fileindex.UserFile) {
	if !bibFilePattern.MatchString(f.Name()) {
		return
	}
	base := strings.TrimSuffix(f.Name(), path.Ext(f.Name()))
	bblPath := path.Join(f.Dir(), base+".bbl")

	if ws.Exists(bblPath) {
		ws.AddWarning(f.Path, diagnostics.CodeBblMissing, bibWithBblWarning, false)
		ws.Remove(f.Path, fmt.Sprintf("Removed the file '%s'. Using '%s.bbl' for references.", f.Name(), base))
		return
	}

	ws.AddWarning(f.Path, diagnostics.CodeBblMissing, bibNoBblWarning, true)
	ws.AddError(f.Path, diagnostics.CodeBblMissing,
		fmt.Sprintf("Your submission contained %s.bib file, but no %s.bbl"+
			" file (include %s.bbl, or submit without %s.bib; and"+
			" remember to verify references).", base, base, base, base),
		diagnostics.SeverityFatal, true)
}
