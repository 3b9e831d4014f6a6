package check

import (
	"fmt"
	"path"
	"strings"

	"github.com/arxiv/filemanager/pkg/diagnostics"
	"github.com/arxiv/filemanager/pkg/fileindex"
	"github.com/arxiv/filemanager/pkg/filetype"
)

// FixFileExtensions ensures that a file's extension matches its inferred
// content type, renaming postscript, PDF, and HTML files whose extension
// disagrees with what their content actually is.
type FixFileExtensions struct{}

func (FixFileExtensions) Name() string { return "fix_file_extensions" }

func (FixFileExtensions) Check(ws Workspace, f *fileindex.UserFile) {}

func (FixFileExtensions) CheckType(ws Workspace, f *fileindex.UserFile, t filetype.FileType) {
	switch t {
	case filetype.Postscript:
		if !strings.EqualFold(strings.TrimPrefix(f.Ext(), "."), "ps") {
			changeExtension(ws, f, "ps")
		}
	case filetype.PDF:
		if !strings.EqualFold(strings.TrimPrefix(f.Ext(), "."), "pdf") {
			changeExtension(ws, f, "pdf")
		}
	case filetype.HTML:
		if !strings.EqualFold(strings.TrimPrefix(f.Ext(), "."), "html") {
			changeExtension(ws, f, "html")
		}
	}
}

func changeExtension(ws Workspace, f *fileindex.UserFile, extension string) {
	formerName := f.Name()
	base := strings.TrimSuffix(formerName, path.Ext(formerName))
	newName := fmt.Sprintf("%s.%s", base, extension)
	newPath := path.Join(f.Dir(), newName)
	if err := ws.Rename(f.Path, newPath); err != nil {
		return
	}
	ws.AddWarning(newPath, diagnostics.CodeFileExtensionFixed,
		fmt.Sprintf("Renamed '%s' to '%s'.", formerName, newName), false)
}
