// Package filetype implements arXiv-style content inference: deciding a
// single file's semantic type from a combination of filename patterns and
// byte-level content inspection, via an ordered, first-match-wins algorithm.
// Classification is side-effect-free on the underlying bytes and
// deterministic given the file's name and content.
package filetype

import "strings"

// FileType is the wire-stable, lowercase semantic type assigned to a file.
type FileType string

// The full set of file types the inference algorithm can produce.
const (
	Unknown        FileType = "unknown"
	Readme         FileType = "readme"
	AlwaysIgnore   FileType = "always_ignore"
	Abort          FileType = "abort"
	Ignore         FileType = "ignore"
	Input          FileType = "input"
	Bibtex         FileType = "bibtex"
	Postscript     FileType = "postscript"
	DosEPS         FileType = "dos_eps"
	PSFont         FileType = "ps_font"
	PSPC           FileType = "ps_pc"
	Image          FileType = "image"
	Anim           FileType = "anim"
	HTML           FileType = "html"
	PDF            FileType = "pdf"
	DVI            FileType = "dvi"
	Notebook       FileType = "notebook"
	ODF            FileType = "odf"
	DOCX           FileType = "docx"
	XLSX           FileType = "xlsx"
	TeX            FileType = "tex"
	PDFTeX         FileType = "pdftex"
	TeXPriority2   FileType = "tex_priority2"
	TeXAMS         FileType = "tex_ams"
	TeXPriority    FileType = "tex_priority"
	TeXMac         FileType = "tex_mac"
	Latex          FileType = "latex"
	Latex2e        FileType = "latex2e"
	PDFLatex       FileType = "pdflatex"
	Texinfo        FileType = "texinfo"
	Metafont       FileType = "mf"
	UUEncoded      FileType = "uuencoded"
	Encrypted      FileType = "encrypted"
	PC             FileType = "pc"
	Mac            FileType = "mac"
	CSH            FileType = "csh"
	SH             FileType = "sh"
	JAR            FileType = "jar"
	RAR            FileType = "rar"
	Compressed     FileType = "compressed"
	Zip            FileType = "zip"
	Gzipped        FileType = "gzipped"
	Bzip2          FileType = "bzip2"
	MultiPartMIME  FileType = "multi_part_mime"
	Tar            FileType = "tar"
	TeXAux         FileType = "texaux"
	Abs            FileType = "abs"
	Include        FileType = "include"
	Directory      FileType = "directory"
	Failed         FileType = "failed"
)

// IsTeXLike reports whether a file type should be treated as TeX-family
// content for the purposes of single-file source-type classification: every
// type whose name begins with "tex" (texaux included), the latex types,
// pdftex, and also mf and bibtex.
func IsTeXLike(t FileType) bool {
	switch t {
	case TeX, PDFTeX, TeXPriority2, TeXAMS, TeXPriority, TeXMac, Latex, Latex2e,
		PDFLatex, Texinfo, Metafont, Bibtex:
		return true
	default:
		return strings.HasPrefix(string(t), "tex")
	}
}
