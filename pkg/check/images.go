package check

import (
	"fmt"
	"regexp"

	"github.com/arxiv/filemanager/pkg/diagnostics"
	"github.com/arxiv/filemanager/pkg/fileindex"
	"github.com/arxiv/filemanager/pkg/filetype"
)

var unacceptableImage = regexp.MustCompile(`(?i)\.(pcx|bmp|wmf|opj|pct|tiff?)$`)

// CheckForUnacceptableImages warns about raster formats most PDF readers
// can't natively display (PCX, BMP, WMF, OPJ, PCT, TIFF), recommending
// PostScript/PNG/JPEG/GIF instead.
type CheckForUnacceptableImages struct{}

func (CheckForUnacceptableImages) Name() string { return "check_for_unacceptable_images" }

func (CheckForUnacceptableImages) Check(ws Workspace, f *fileindex.UserFile) {}

func (CheckForUnacceptableImages) CheckType(ws Workspace, f *fileindex.UserFile, t filetype.FileType) {
	if t != filetype.Image {
		return
	}
	match := unacceptableImage.FindStringSubmatch(f.Name())
	if match == nil {
		return
	}
	ws.AddWarning(f.Path, diagnostics.CodeUnsupportedImage,
		fmt.Sprintf("%s is not a supported graphics format; most readers cannot view or print .%s figures. "+
			"Please save figures as PostScript, PNG, JPEG, or GIF instead.", f.Name(), match[1]),
		true)
}
