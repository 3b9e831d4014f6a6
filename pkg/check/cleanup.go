package check

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"regexp"

	"github.com/arxiv/filemanager/pkg/diagnostics"
	"github.com/arxiv/filemanager/pkg/fileindex"
	"github.com/arxiv/filemanager/pkg/filetype"
	"github.com/arxiv/filemanager/pkg/storage"
)

// UnMacify strips Mac/DOS line endings from TeX source and HTML files,
// since files generated on those platforms frequently carry carriage
// returns that break downstream compilation.
type UnMacify struct{}

func (UnMacify) Name() string { return "unmacify" }

func (UnMacify) Check(ws Workspace, f *fileindex.UserFile) {
	if f.IsTeXType() {
		unmacify(ws, f)
	}
}

func (UnMacify) CheckType(ws Workspace, f *fileindex.UserFile, t filetype.FileType) {
	switch t {
	case filetype.HTML, filetype.PC, filetype.Mac:
		unmacify(ws, f)
	}
}

var (
	psHeaderPattern   = regexp.MustCompile(`^%!PS-`)
	psCase1           = regexp.MustCompile(`^%*\x04%!`)
	psCase2           = regexp.MustCompile(`^%%!`)
	psCase3           = regexp.MustCompile(`.*(%!PS-Adobe-)`)
	psHeaderEnd       = regexp.MustCompile(`^%!`)
	psBeginPhotoshop  = regexp.MustCompile(`^%BeginPhotoshop`)
	psEndPhotoshop    = regexp.MustCompile(`^%EndPhotoshop`)
	psBeginPreview    = regexp.MustCompile(`^%%BeginPreview`)
	psEndPreview      = regexp.MustCompile(`^%%EndPreview`)
	psThumbnail       = regexp.MustCompile(`Thumbnail`)
	psEndData         = regexp.MustCompile(`^%%EndData`)
)

// CleanupPostScript scans Postscript files for embedded preview, thumbnail
// and Photoshop sections and strips them, and attempts to repair a handful
// of known-corrupt Postscript headers on files classified as ps_pc.
type CleanupPostScript struct{}

func (CleanupPostScript) Name() string { return "cleanup_postscript" }

func (CleanupPostScript) Check(ws Workspace, f *fileindex.UserFile) {}

func (CleanupPostScript) CheckType(ws Workspace, f *fileindex.UserFile, t filetype.FileType) {
	switch t {
	case filetype.Postscript:
		unmacify(ws, f)
		stripPostscriptPreview(ws, f)
	case filetype.PSPC:
		repairPostscriptHeader(ws, f)
	case filetype.Failed:
		if psHeaderPattern.Match([]byte(f.Name())) {
			stripPostscriptPreview(ws, f)
		}
	}
}

// stripPostscriptPreview removes embedded Photoshop/Preview/Thumbnail
// sections bounded by their start/end markers.
func stripPostscriptPreview(ws Workspace, f *fileindex.UserFile) {
	path := storage.Path{Area: f.Area, Rel: f.Path}
	content, err := readAll(ws, path)
	if err != nil {
		return
	}

	var out bytes.Buffer
	scanner := bufio.NewScanner(bytes.NewReader(content))
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	retain := true
	stripped := false
	var kind string
	for scanner.Scan() {
		line := scanner.Bytes()
		if retain {
			switch {
			case psBeginPhotoshop.Match(line):
				retain, stripped, kind = false, true, "Photoshop"
			case psBeginPreview.Match(line):
				retain, stripped, kind = false, true, "Preview"
			case psThumbnail.Match(line):
				retain, stripped, kind = false, true, "Thumbnail"
			}
		}
		if retain {
			out.Write(line)
			out.WriteByte('\n')
			continue
		}
		if !retain && (psEndPhotoshop.Match(line) || psEndPreview.Match(line) || psEndData.Match(line)) {
			retain = true
		}
	}

	if !stripped {
		return
	}
	fixed := out.Bytes()
	if err := writeAll(ws, path, fixed); err != nil {
		return
	}
	f.Size = int64(len(fixed))
	ws.AddWarning(f.Path, diagnostics.CodePostscriptPreviewStripped,
		"Unnecessary "+kind+" removed from '"+f.Name()+"'.", false)
}

// repairPostscriptHeader strips a small set of known front-of-file
// corruptions (a stray control character, a doubled '%', or junk preceding
// the "%!PS-Adobe-" banner) from the first few lines of a Postscript file.
func repairPostscriptHeader(ws Workspace, f *fileindex.UserFile) {
	path := storage.Path{Area: f.Area, Rel: f.Path}
	content, err := readAll(ws, path)
	if err != nil {
		return
	}

	lines := bytes.SplitAfter(content, []byte("\n"))
	fixed := false
	for i, line := range lines {
		if i > 10 {
			break
		}
		orig := line
		if psCase1.Match(line) {
			line = psCase1.ReplaceAll(line, []byte("%!"))
		}
		if psCase2.Match(line) {
			line = psCase2.ReplaceAll(line, []byte("%!"))
		}
		if psCase3.Match(line) {
			line = psCase3.ReplaceAll(line, []byte("$1"))
		}
		if !bytes.Equal(line, orig) {
			fixed = true
			lines[i] = line
		}
		if psHeaderEnd.Match(line) {
			break
		}
	}
	if !fixed {
		return
	}
	repaired := bytes.Join(lines, nil)
	if err := writeAll(ws, path, repaired); err != nil {
		return
	}
	f.Size = int64(len(repaired))
	ws.AddWarning(f.Path, diagnostics.CodePostscriptRepaired,
		"Repaired Postscript header in '"+f.Name()+"'.", false)
}

// RepairDOSEPSFiles strips the DOS EPS binary wrapper (the C5D0D3C6 magic
// header some Windows tools prepend) from an encapsulated Postscript file,
// leaving the embedded Postscript section in place.
type RepairDOSEPSFiles struct{}

func (RepairDOSEPSFiles) Name() string { return "repair_dos_eps" }

func (RepairDOSEPSFiles) Check(ws Workspace, f *fileindex.UserFile) {}

// DOS EPS Binary File Header layout (offsets relative to the start of the
// file):
//
//	0-3   magic C5D0D3C6
//	4-7   byte position of the PostScript section
//	8-11  byte length of the PostScript section
//	12-15 byte position of the Metafile section (unused here)
//	16-19 byte length of the Metafile section (unused here)
//	20-23 byte position of the TIFF preview
//	24-27 byte length of the TIFF preview
func (RepairDOSEPSFiles) CheckType(ws Workspace, f *fileindex.UserFile, t filetype.FileType) {
	if t != filetype.DosEPS {
		return
	}
	path := storage.Path{Area: f.Area, Rel: f.Path}
	content, err := readAll(ws, path)
	if err != nil || len(content) < 28 {
		ws.AddWarning(f.Path, diagnostics.CodeDosEpsRepaired, "Failed to strip TIFF preview", false)
		repairPostscriptHeader(ws, f)
		return
	}

	header := content[4:28]
	psOffset := int32(binary.LittleEndian.Uint32(header[0:4]))
	psLength := int32(binary.LittleEndian.Uint32(header[4:8]))
	tiffOffset := int32(binary.LittleEndian.Uint32(header[16:20]))
	tiffLength := int32(binary.LittleEndian.Uint32(header[20:24]))

	if psOffset <= 0 || psLength <= 0 || tiffOffset <= 0 || tiffLength <= 0 ||
		int(psOffset) > len(content) || int(tiffOffset) > len(content) {
		ws.AddWarning(f.Path, diagnostics.CodeDosEpsRepaired, "Failed to strip TIFF preview", false)
		repairPostscriptHeader(ws, f)
		return
	}

	var psSection []byte
	var message string
	switch {
	case psOffset > tiffOffset:
		// PostScript follows the TIFF preview: the preview is leading.
		psSection = content[psOffset:]
		message = "leading TIFF preview stripped"
	case psOffset < tiffOffset:
		// PostScript precedes the TIFF preview: the preview is trailing.
		psSection = content[psOffset:tiffOffset]
		message = "trailing TIFF preview stripped"
	default:
		ws.AddWarning(f.Path, diagnostics.CodeDosEpsRepaired, "Failed to strip TIFF preview", false)
		repairPostscriptHeader(ws, f)
		return
	}

	if err := writeAll(ws, path, psSection); err != nil {
		return
	}
	f.Size = int64(len(psSection))
	ws.AddWarning(f.Path, diagnostics.CodeDosEpsRepaired, message, false)
}
