package filetype

import (
	"bufio"
	"bytes"
	"io"
	"path"
	"regexp"
	"strings"
)

// auxiliaryExtensionPattern matches the auxiliary TeX extensions that are
// always classified as texaux without inspecting content.
var auxiliaryExtensionPattern = regexp.MustCompile(`(?i)\.(sty|cls|bbl|bst|tfm|log|def|cfg|clo|hrfldf|inx|end|fgx|tbx|rtx|rty|toc|mf|\d*pk)$`)

var readmePattern = regexp.MustCompile(`(^|/)00README\.XXX$`)
var dvihpsTempPattern = regexp.MustCompile(`(^|/)(head|body)\.tmp$`)
var missfontPattern = regexp.MustCompile(`(^|/)missfont\.log$`)

// alwaysIgnorePattern matches arXiv's standard withdrawal-stub text, checked
// with no line-number limit on every content line the scan reaches; lines
// after a \documentclass or first-line %!TEX trigger are not checked.
var alwaysIgnorePattern = regexp.MustCompile(`paper deliberately replaced by what little`)

// texDirectivePrefix is a first-line "%!TEX " directive that short-circuits
// straight to the latex2e/pdflatex dispatch, the same as a \documentclass
// match would.
const texDirectivePrefix = "%!TEX "

// Infer determines a file's semantic type from its relative path, size, and
// content. The content reader must support seeking; Infer will rewind it as
// needed and never advances it past what it reads. A zero-length file or a
// file whose first bytes satisfy an early rule short-circuits without
// reading the whole file.
func Infer(relPath string, size int64, content io.ReadSeeker) (FileType, error) {
	base := path.Base(relPath)

	// Stage 1: existence/extension-only checks. These never read content.
	if readmePattern.MatchString(relPath) {
		return Readme, nil
	}
	if dvihpsTempPattern.MatchString(relPath) {
		return AlwaysIgnore, nil
	}
	if missfontPattern.MatchString(strings.ToLower(base)) {
		return Abort, nil
	}
	if auxiliaryExtensionPattern.MatchString(base) {
		return TeXAux, nil
	}
	if strings.HasSuffix(base, ".abs") {
		return Abs, nil
	}
	if strings.HasSuffix(strings.ToLower(base), ".fig") {
		return Ignore, nil
	}
	if strings.HasSuffix(strings.ToLower(base), ".nb") {
		return Notebook, nil
	}
	if strings.HasSuffix(strings.ToLower(base), ".inp") {
		return Input, nil
	}
	if strings.HasSuffix(strings.ToLower(base), ".html") || strings.HasSuffix(strings.ToLower(base), ".htm") {
		return HTML, nil
	}
	if strings.HasSuffix(strings.ToLower(base), ".cry") {
		return Encrypted, nil
	}
	if size == 0 {
		return Ignore, nil
	}

	// Stage 2: magic-byte checks against the first 1024 bytes.
	if _, err := content.Seek(0, io.SeekStart); err != nil {
		return Unknown, err
	}
	kilo := make([]byte, 1024)
	n, err := io.ReadFull(content, kilo)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return Unknown, err
	}
	kilo = kilo[:n]

	if t, ok := classifyMagicBytes(kilo, base); ok {
		return t, nil
	}

	// POSIX tar files carry "ustar" at offset 257.
	if len(kilo) >= 262 && string(kilo[257:262]) == "ustar" {
		return Tar, nil
	}

	// Stage 3: deep line-by-line content inspection.
	if _, err := content.Seek(0, io.SeekStart); err != nil {
		return Unknown, err
	}
	return classifyByContent(content)
}

// classifyMagicBytes implements the fixed-offset, magic-byte probes of
// stage 2, excluding the POSIX tar probe (which needs a different read
// offset and is handled by the caller).
func classifyMagicBytes(kilo []byte, base string) (FileType, bool) {
	lowerBase := strings.ToLower(base)
	has := func(n int) bool { return len(kilo) >= n }

	switch {
	case has(2) && kilo[0] == 0x1F && kilo[1] == 0x9D:
		return Compressed, true
	case has(2) && kilo[0] == 0x1F && kilo[1] == 0x8B:
		return Gzipped, true
	case has(4) && kilo[0] == 'B' && kilo[1] == 'Z' && kilo[2] == 'h' && kilo[3] > 0x2F:
		return Bzip2, true
	case has(2) && kilo[0] == 0xF7 && kilo[1] == 0x02:
		return DVI, true
	case has(4) && string(kilo[:4]) == "GIF8":
		return Image, true
	case has(8) && bytes.Equal(kilo[:8], []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}):
		return Image, true
	case has(2) && strings.HasSuffix(lowerBase, ".tif") &&
		((kilo[0] == 0x4D && kilo[1] == 0x4D) || (kilo[0] == 0x49 && kilo[1] == 0x49)):
		return Image, true
	case has(5) && kilo[0] == 0xFF && kilo[1] == 0xD8 && kilo[2] == 0xFF && (kilo[3] == 0xE0 || kilo[4] == 0xEE):
		return Image, true
	case has(4) && kilo[0] == 0x00 && kilo[1] == 0x00 && kilo[2] == 0x01 && kilo[3] == 0xB3:
		return Anim, true
	case (has(4) && bytes.Equal(kilo[:4], []byte("PK\x03\x04"))) || (has(8) && bytes.Equal(kilo[:8], []byte("PK00PK\x03\x04"))):
		switch {
		case strings.HasSuffix(lowerBase, ".jar"):
			return JAR, true
		case strings.HasSuffix(lowerBase, ".odt"):
			return ODF, true
		case strings.HasSuffix(lowerBase, ".docx"):
			return DOCX, true
		case strings.HasSuffix(lowerBase, ".xlsx"):
			return XLSX, true
		default:
			return Zip, true
		}
	case has(4) && bytes.Equal(kilo[:4], []byte("Rar!")):
		return RAR, true
	case has(4) && kilo[0] == 0xC5 && kilo[1] == 0xD0 && kilo[2] == 0xD3 && kilo[3] == 0xC6:
		return DosEPS, true
	case bytes.Contains(kilo, []byte("%PDF-")):
		return PDF, true
	case macShellHeuristic(kilo):
		return Mac, true
	}
	return Unknown, false
}

var macShellPattern = regexp.MustCompile(`#!/bin/csh -f\r#|(\r|^)begin \d{1,4}\s+\S.*\r[^\n]`)

func macShellHeuristic(kilo []byte) bool {
	return macShellPattern.Match(kilo)
}

// Patterns used during the deep line-by-line scan.
var (
	patAutoIgnore      = regexp.MustCompile(`%auto-ignore`)
	patInputTexinfo    = regexp.MustCompile(`\\input texinfo`)
	patHTML            = regexp.MustCompile(`(?i)<html[>\s]`)
	patAutoInclude     = regexp.MustCompile(`%auto-include`)
	patContentType     = regexp.MustCompile(`(?i)(^|\r)Content-type: `)
	patPSFont          = regexp.MustCompile(`(?s)^(......)?%!(PS-AdobeFont-1\.|FontType1|PS-Adobe-3\.0 Resource-Font)`)
	patPostscript      = regexp.MustCompile(`^%!`)
	patPSPCInline      = regexp.MustCompile(`^%*\x04%!|%!PS-Adobe`)
	patPSPCLoose       = regexp.MustCompile(`^%!PS`)
	patFormatDirective = regexp.MustCompile(`^\r?%&([^\s\n]+)`)
	patDocumentstyle   = regexp.MustCompile(`(^|\r)\s*\\documentstyle`)
	patDocumentclass   = regexp.MustCompile(`(^|\r)\s*\\documentclass`)
	patMaybeTeX        = regexp.MustCompile(`(^|\r)\s*(\\font|\\magnification|\\input|\\def|\\special|\\baselineskip|\\begin)`)
	patInputAmstex     = regexp.MustCompile(`\\input\s+amstex`)
	patEndBeginLine    = regexp.MustCompile(`(^|\r)\s*\\(end|bye)(\s|$)`)
	patEndAnywhere     = regexp.MustCompile(`\\(end|bye)(\s|$)`)
	patTeXMacInput     = regexp.MustCompile(`(\\input *(harv|lanl)mac)|(\\input\s+phyzzx)`)
	patMetafont        = regexp.MustCompile(`beginchar\(`)
	patBibtex          = regexp.MustCompile(`(?i)(^|\r)@(book|article|inbook|unpublished)\{`)
	patUUBegin         = regexp.MustCompile(`^begin \d{1,4}\s+\S+\r?$`)
	patCommentStrip    = regexp.MustCompile(`%.*$`)
	patIncludeGraphics = regexp.MustCompile(`(?i)^[^%]*\\includegraphics[^%]*\.(pdf|png|gif|jpg)\s?\}`)
	patPdfoutput       = regexp.MustCompile(`^[^%]*\\pdfoutput(?:\s+)?=(?:\s+)?1`)
)

// classifyByContent implements the line-by-line scan of stage 3. It
// maintains a small set of running hints as it scans and applies the final
// tie-break (tex_priority > tex_priority2 > tex > failed) if no rule matches
// outright.
func classifyByContent(r io.Reader) (FileType, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	var accum bytes.Buffer
	maybeTeX := false
	maybeTeXPriority := false
	maybeTeXPriority2 := false

	// docClassLine is the line number at which \documentclass (or a "%!TEX "
	// first-line directive) was first seen, or 0 if neither has been seen.
	// Once set, the rest of the file is scanned only to resolve the
	// latex2e-vs-pdflatex question: an \includegraphics of a pdf/png/gif/jpg
	// anywhere in the file means pdflatex, and so does a \pdfoutput=1 within
	// the first five lines after the trigger.
	docClassLine := 0
	sawIncludeGraphics := false
	pdfoutputFirstLine := 0

	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		accum.WriteString(line)
		accum.WriteByte('\n')

		if patIncludeGraphics.MatchString(line) {
			sawIncludeGraphics = true
		}
		if pdfoutputFirstLine == 0 && patPdfoutput.MatchString(line) {
			pdfoutputFirstLine = lineNo
		}

		if docClassLine > 0 {
			continue
		}

		if lineNo == 1 && strings.HasPrefix(line, texDirectivePrefix) {
			docClassLine = lineNo
			continue
		}

		if lineNo <= 10 && patAutoIgnore.MatchString(line) {
			return Ignore, nil
		}
		if lineNo <= 10 && patInputTexinfo.MatchString(line) {
			return Texinfo, nil
		}
		if lineNo <= 10 && patHTML.MatchString(line) {
			return HTML, nil
		}
		if lineNo <= 10 && patAutoInclude.MatchString(line) {
			return Include, nil
		}
		if lineNo <= 40 && patContentType.MatchString(line) {
			return MultiPartMIME, nil
		}
		if lineNo <= 7 && patPSFont.MatchString(accum.String()) {
			return PSFont, nil
		}
		if lineNo == 1 && patPostscript.MatchString(line) {
			return Postscript, nil
		}
		if (lineNo == 1 && patPSPCInline.MatchString(line)) ||
			(lineNo <= 10 && patPSPCLoose.MatchString(line) && !maybeTeX) {
			return PSPC, nil
		}
		if lineNo <= 12 {
			if m := patFormatDirective.FindStringSubmatch(line); m != nil {
				switch m[1] {
				case "latex209", "biglatex", "latex", "LaTeX":
					return Latex, nil
				default:
					return TeXMac, nil
				}
			}
		}

		stripped := patCommentStrip.ReplaceAllString(line, "")

		if patDocumentstyle.MatchString(stripped) {
			return Latex, nil
		}
		if patDocumentclass.MatchString(stripped) {
			docClassLine = lineNo
			continue
		}
		if patMaybeTeX.MatchString(stripped) {
			maybeTeX = true
			if patInputAmstex.MatchString(stripped) {
				return TeXPriority, nil
			}
		}
		if patEndBeginLine.MatchString(stripped) {
			maybeTeXPriority = true
		}
		if patEndAnywhere.MatchString(stripped) {
			maybeTeXPriority2 = true
		}
		if patTeXMacInput.MatchString(stripped) {
			return TeXMac, nil
		}
		if patMetafont.MatchString(stripped) {
			return Metafont, nil
		}
		if patBibtex.MatchString(stripped) {
			return Bibtex, nil
		}
		if patUUBegin.MatchString(line) {
			switch {
			case maybeTeXPriority:
				return TeXPriority, nil
			case maybeTeX:
				return TeX, nil
			case strings.HasSuffix(line, "\r"):
				return PC, nil
			default:
				return UUEncoded, nil
			}
		}
		if alwaysIgnorePattern.MatchString(stripped) {
			return AlwaysIgnore, nil
		}
	}
	if err := scanner.Err(); err != nil {
		return Unknown, err
	}

	// \documentclass (or a "%!TEX " directive) was seen: resolve
	// pdflatex-vs-latex2e from what the rest of the file scan found, rather
	// than a fixed lookahead window.
	if docClassLine > 0 {
		limit := docClassLine + 5
		if sawIncludeGraphics || (pdfoutputFirstLine > 0 && pdfoutputFirstLine < limit) {
			return PDFLatex, nil
		}
		return Latex2e, nil
	}

	switch {
	case maybeTeXPriority:
		return TeXPriority, nil
	case maybeTeXPriority2:
		return TeXPriority2, nil
	case maybeTeX:
		return TeX, nil
	default:
		return Failed, nil
	}
}
