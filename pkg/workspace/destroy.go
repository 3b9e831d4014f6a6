package workspace

import (
	"os"

	"github.com/pkg/errors"

	"github.com/arxiv/filemanager/pkg/diagnostics"
	"github.com/arxiv/filemanager/pkg/fileindex"
)

// Destroy transitions the workspace into the terminal StatusDeleted state:
// its source.log is copied into the deleted-workspace log retention area,
// the workspace's storage root is purged, and every mutating operation
// thereafter fails with ErrNotWritable. Destroy is itself permitted
// regardless of lock state, since a moderator must be able to purge a
// locked workspace.
func (w *Workspace) Destroy() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.status == StatusDeleted {
		return nil
	}
	w.retainDeletedLog()
	root := root(w.baseDir, w.uploadID)
	if err := os.RemoveAll(root); err != nil {
		return errors.Wrap(err, "unable to purge workspace root")
	}
	w.status = StatusDeleted
	w.index = fileindex.New()
	w.diags = diagnostics.NewCollection()
	return nil
}
