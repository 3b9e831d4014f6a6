package check

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/arxiv/filemanager/pkg/diagnostics"
	"github.com/arxiv/filemanager/pkg/fileindex"
	"github.com/arxiv/filemanager/pkg/filetype"
)

const disallowedFileMessage = "Removed file '%s' [File not allowed]."

var (
	hyperlinkSty = regexp.MustCompile(`^(espcrc2|lamuphys)\.sty$`)
	hyperlinkTex = regexp.MustCompile(`^(espcrc2|lamuphys)\.tex$`)
)

// RemoveHyperlinkStyleFiles removes the espcrc2/lamuphys style files, which
// conflict with arXiv's internal hypertex package, substituting a
// hypertex-compatible version at compile time.
type RemoveHyperlinkStyleFiles struct{}

func (RemoveHyperlinkStyleFiles) Name() string { return "remove_hyperlink_style_files" }

func (RemoveHyperlinkStyleFiles) Check(ws Workspace, f *fileindex.UserFile) {
	switch {
	case hyperlinkSty.MatchString(f.Name()):
		message := fmt.Sprintf("Found hyperlink-compatible package '%s'. Will remove and use hypertex-compatible local version", f.Name())
		ws.AddError(f.Path, diagnostics.CodeHyperlinkCompatPackage, message, diagnostics.SeverityInfo, false)
		ws.Remove(f.Path, message)
	case hyperlinkTex.MatchString(f.Name()):
		ws.AddWarning(f.Path, diagnostics.CodeDotTeXDetected,
			fmt.Sprintf("Possible submitter error. Unwanted '%s'", f.Name()), true)
	}
}

var disallowedNames = map[string]bool{"uufiles": true, "core": true, "splread.1st": true}

// RemoveDisallowedFiles removes a small fixed set of files known to cause
// problems (legacy uuencode tooling artifacts, core dumps).
type RemoveDisallowedFiles struct{}

func (RemoveDisallowedFiles) Name() string { return "remove_disallowed_files" }

func (RemoveDisallowedFiles) Check(ws Workspace, f *fileindex.UserFile) {
	if !disallowedNames[f.Name()] {
		return
	}
	message := fmt.Sprintf(disallowedFileMessage, f.Name())
	ws.AddError(f.Path, diagnostics.CodeDisallowedFile, message, diagnostics.SeverityInfo, false)
	ws.Remove(f.Path, message)
}

var (
	metaXXXFile = regexp.MustCompile(`^xxx\.(rsrc$|finfo$|cshrc$|nfs)`)
	metaGFFile  = regexp.MustCompile(`\.[346]00gf$`)
	metaDescFile = regexp.MustCompile(`\.desc$`)
)

// RemoveMetaFiles removes a handful of filesystem metadata artifacts
// (resource forks, Metafont bitmap caches, .desc files) that have no
// meaning once extracted from their originating environment.
type RemoveMetaFiles struct{}

func (RemoveMetaFiles) Name() string { return "remove_meta_files" }

func (RemoveMetaFiles) Check(ws Workspace, f *fileindex.UserFile) {
	for _, pattern := range []*regexp.Regexp{metaXXXFile, metaGFFile, metaDescFile} {
		if pattern.MatchString(f.Name()) {
			message := fmt.Sprintf(disallowedFileMessage, f.Name())
			ws.AddError(f.Path, diagnostics.CodeDisallowedFile, message, diagnostics.SeverityInfo, false)
			ws.Remove(f.Path, message)
			return
		}
	}
}

var revtexExtraneous = regexp.MustCompile(`^(10pt\.rtx|11pt\.rtx|12pt\.rtx|aps\.rtx|revsymb\.sty|revtex4\.cls|rmp\.rtx)$`)

// RemoveExtraneousRevTeXFiles removes RevTeX 4 style files already present
// in arXiv's TeX Live tree, since a bundled copy can shadow fixes applied
// to the system version.
type RemoveExtraneousRevTeXFiles struct{}

func (RemoveExtraneousRevTeXFiles) Name() string { return "remove_extraneous_revtex_files" }

func (RemoveExtraneousRevTeXFiles) Check(ws Workspace, f *fileindex.UserFile) {
	if !revtexExtraneous.MatchString(f.Name()) {
		return
	}
	message := "revtex4 style files are fully supported by arXiv and have been removed from this submission."
	ws.AddError(f.Path, diagnostics.CodeDisallowedFile, message, diagnostics.SeverityInfo, false)
	ws.Remove(f.Path, message)
}

var diagramsPackage = regexp.MustCompile(`^diagrams\.(sty|tex)$`)

// RemoveDiagramsPackage removes Paul Taylor's diagrams package, which
// contains an expiring "time bomb"; arXiv supplies a fixed version in its
// own TeX tree.
type RemoveDiagramsPackage struct{}

func (RemoveDiagramsPackage) Name() string { return "remove_diagrams_package" }

func (RemoveDiagramsPackage) Check(ws Workspace, f *fileindex.UserFile) {
	if !diagramsPackage.MatchString(f.Name()) {
		return
	}
	message := "Removed standard style files for the diagrams package, which is supported in arXiv's TeX tree."
	ws.AddError(f.Path, diagnostics.CodeDisallowedFile, message, diagnostics.SeverityInfo, false)
	ws.Remove(f.Path, message)
}

// RemoveAADemoFile removes the Astronomy & Astrophysics macro package's
// bundled example file, which authors frequently include by accident.
type RemoveAADemoFile struct{}

func (RemoveAADemoFile) Name() string { return "remove_aa_demo_file" }

func (RemoveAADemoFile) Check(ws Workspace, f *fileindex.UserFile) {
	if f.Name() != "aa.dem" {
		return
	}
	message := "Removed file 'aa.dem' on the assumption that it is the example file for the aa.cls macro package."
	ws.AddError(f.Path, diagnostics.CodeDisallowedFile, message, diagnostics.SeverityInfo, false)
	ws.Remove(f.Path, message)
}

// RemoveMissingFontFile removes missfont.log, a LaTeX font-substitution
// diagnostic log with no role in a clean submission.
type RemoveMissingFontFile struct{}

func (RemoveMissingFontFile) Name() string { return "remove_missing_font_file" }

func (RemoveMissingFontFile) Check(ws Workspace, f *fileindex.UserFile) {
	if f.Name() != "missfont.log" {
		return
	}
	message := "Removed file 'missfont.log'. This may indicate a problem with the fonts your submission uses."
	ws.AddError(f.Path, diagnostics.CodeDisallowedFile, message, diagnostics.SeverityInfo, false)
	ws.Remove(f.Path, message)
}

var syncTeXFile = regexp.MustCompile(`\.synctex$`)

// RemoveSyncTeXFiles removes SyncTeX debugging files, which are large and
// unused by arXiv's TeX engine.
type RemoveSyncTeXFiles struct{}

func (RemoveSyncTeXFiles) Name() string { return "remove_synctex_files" }

func (RemoveSyncTeXFiles) Check(ws Workspace, f *fileindex.UserFile) {
	if !syncTeXFile.MatchString(f.Name()) {
		return
	}
	message := fmt.Sprintf("Removed file '%s'. SyncTeX files are not used by our system and may be large.", f.Name())
	ws.AddError(f.Path, diagnostics.CodeDisallowedFile, message, diagnostics.SeverityInfo, false)
	ws.Remove(f.Path, message)
}

var tgzSuffix = regexp.MustCompile(`(?i)([.\-]t?[ga]?z)$`)

// FixTGZFileName strips one trailing compressed-archive-style suffix
// (.tgz, .gz, -gz, .z, etc.; "x.tar.gz" becomes "x.tar") left over after an archive has already been
// unpacked and its container retired.
type FixTGZFileName struct{}

func (FixTGZFileName) Name() string { return "fix_tgz_file_name" }

func (FixTGZFileName) Check(ws Workspace, f *fileindex.UserFile) {
	if !tgzSuffix.MatchString(f.Name()) {
		return
	}
	newName := tgzSuffix.ReplaceAllString(f.Name(), "")
	if newName == "" || newName == f.Name() {
		return
	}
	newPath := f.Dir() + "/" + newName
	if f.Dir() == "" {
		newPath = newName
	}
	ws.Rename(f.Path, newPath)
}

// RemoveDOCFiles flags MSWord .doc files that failed type inference as
// unsupported; per an unresolved behavioral question in the original
// system, the file is flagged but deliberately not removed so a submitter
// can see the fatal error and replace the file themselves.
type RemoveDOCFiles struct{}

func (RemoveDOCFiles) Name() string { return "remove_doc_files" }

func (RemoveDOCFiles) Check(ws Workspace, f *fileindex.UserFile) {}

func (RemoveDOCFiles) CheckType(ws Workspace, f *fileindex.UserFile, t filetype.FileType) {
	if t != filetype.Failed || !strings.HasSuffix(f.Name(), ".doc") {
		return
	}
	message := "Your submission contains one or more files with extension .doc, assumed to be MSWord files. " +
		"MSWord is not an acceptable submission format; please submit as PDF instead."
	ws.AddError(f.Path, diagnostics.CodeMSWordNotSupported, message, diagnostics.SeverityFatal, true)
}
