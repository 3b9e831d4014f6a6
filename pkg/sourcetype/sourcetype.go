// Package sourcetype infers a workspace's overall submission format (TeX,
// PDF, PostScript, HTML, or invalid) from the aggregate counts of its
// files' individual FileType classifications.
package sourcetype

import "github.com/arxiv/filemanager/pkg/filetype"

// SourceType is the wire-stable overall classification of a submission.
type SourceType string

const (
	Unknown    SourceType = "unknown"
	TeX        SourceType = "tex"
	PDF        SourceType = "pdf"
	Postscript SourceType = "postscript"
	HTML       SourceType = "html"
	Invalid    SourceType = "invalid"
)

// String returns the wire-stable representation.
func (t SourceType) String() string { return string(t) }

// IsUnknown reports whether a source type has not yet been determined.
func (t SourceType) IsUnknown() bool { return t == Unknown || t == "" }

// Counts tallies how many live (non-removed) files fall into each relevant
// FileType bucket, plus the aggregate counts InferOverall needs.
type Counts struct {
	AllFiles    int
	Files       int
	HTML        int
	Image       int
	Include     int
	Postscript  int
	PDF         int
	Directory   int
	Readme      int
	Ignore      int
}

// CountFile folds a single file's type into the running counts. directory
// and ancillary-status are supplied by the caller since FileType alone
// doesn't distinguish them.
func (c *Counts) CountFile(t filetype.FileType, isAncillary, isDirectory bool) {
	c.AllFiles++
	if isDirectory {
		c.Directory++
	}
	if isAncillary {
		return
	}
	if !isDirectory {
		c.Files++
	}
	switch t {
	case filetype.HTML:
		c.HTML++
	case filetype.Image, filetype.Anim:
		c.Image++
	case filetype.Include:
		c.Include++
	case filetype.Postscript:
		c.Postscript++
	case filetype.PDF:
		c.PDF++
	case filetype.Readme:
		c.Readme++
	case filetype.Ignore, filetype.AlwaysIgnore:
		c.Ignore++
	}
}

// InferOverall determines the workspace-wide SourceType from aggregate
// counts, applied once every file has been individually classified. HTML and
// PostScript submissions may be accompanied by a fixed set of auxiliary
// formats; anything else defaults to TeX as long as at least one non-ignored
// file remains.
func InferOverall(c Counts) SourceType {
	if c.Files == 0 && c.AllFiles == 0 {
		return Invalid
	}

	// Directories are not counted in c.Files, so they are allowed alongside
	// either format without appearing in these sums.
	htmlAux := c.HTML + c.Image + c.Include + c.Postscript + c.PDF + c.Readme
	postscriptAux := c.Postscript + c.PDF + c.Ignore + c.Image

	switch {
	case c.Files == c.Ignore:
		return Invalid
	case c.AllFiles > 0 && c.Files == 0:
		return Invalid
	case c.HTML > 0 && c.Files == htmlAux:
		return HTML
	case c.Postscript > 0 && c.Files == postscriptAux:
		return Postscript
	default:
		return TeX
	}
}

// InferSingleFile determines the SourceType for a single-file submission:
// the lone file's FileType maps directly to the corresponding SourceType,
// with TeX-family types mapping to TeX and anything undetected mapping to
// Invalid.
func InferSingleFile(t filetype.FileType, isAncillary bool) SourceType {
	if isAncillary {
		return Invalid
	}
	switch {
	case filetype.IsTeXLike(t):
		return TeX
	case t == filetype.Postscript:
		return Postscript
	case t == filetype.PDF:
		return PDF
	case t == filetype.HTML:
		return HTML
	case t == filetype.Failed:
		return Invalid
	default:
		return Invalid
	}
}
