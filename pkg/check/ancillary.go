package check

import (
	"strings"

	"github.com/arxiv/filemanager/pkg/fileindex"
	"github.com/arxiv/filemanager/pkg/storage"
)

// AncillaryFileChecker detects files nested under the workspace's ancillary
// directory name within the source area and promotes them to the ancillary
// area, so that later checkers (which treat ancillary content differently,
// e.g. TeX backup detection) see the correct area.
type AncillaryFileChecker struct{}

func (AncillaryFileChecker) Name() string { return "ancillary_file" }

func (AncillaryFileChecker) Check(ws Workspace, f *fileindex.UserFile) {
	if f.Area != storage.AreaSource {
		return
	}
	prefix := strings.TrimSuffix(ws.AncillaryDir(), "/") + "/"
	if f.Path == strings.TrimSuffix(prefix, "/") || strings.HasPrefix(f.Path, prefix) {
		ws.PromoteToAncillary(f.Path)
	}
}
