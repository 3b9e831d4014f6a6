package workspace

import (
	"fmt"

	"github.com/arxiv/filemanager/pkg/diagnostics"
	"github.com/arxiv/filemanager/pkg/fileindex"
	"github.com/arxiv/filemanager/pkg/sourcetype"
	"github.com/arxiv/filemanager/pkg/storage"
)

// This file implements check.Workspace on *Workspace, the surface the
// checker pipeline drives directly. Every method here assumes the caller
// (PerformChecks) already holds mu for writing; none of them take the lock
// themselves, since the pipeline calls them in a tight loop for every file
// in the index.

// Files returns the workspace's live file index.
func (w *Workspace) Files() *fileindex.Index {
	return w.index
}

// Storage returns the workspace's storage adapter.
func (w *Workspace) Storage() storage.Adapter {
	return w.adapter
}

// AncillaryDir returns the storage-relative ancillary directory name.
func (w *Workspace) AncillaryDir() string {
	return ancillaryDirName
}

// AddWarning attaches a warning diagnostic to path.
func (w *Workspace) AddWarning(path string, code diagnostics.Code, message string, persistant bool) {
	w.diags.Add(diagnostics.Diagnostic{
		Severity:   diagnostics.SeverityWarning,
		Code:       code,
		Path:       path,
		Message:    message,
		Persistant: persistant,
	})
}

// AddError attaches a diagnostic to path at the given severity.
func (w *Workspace) AddError(path string, code diagnostics.Code, message string, severity diagnostics.Severity, persistant bool) {
	w.diags.Add(diagnostics.Diagnostic{
		Severity:   severity,
		Code:       code,
		Path:       path,
		Message:    message,
		Persistant: persistant,
	})
}

// Remove moves a file aside into the removed area, recording reason in the
// source log.
func (w *Workspace) Remove(path, reason string) error {
	f := w.index.Get(path)
	if f == nil {
		return nil
	}
	if !f.IsDirectory {
		if _, err := w.adapter.Remove(storage.Path{Area: f.Area, Rel: f.Path}); err != nil {
			return err
		}
	}
	f.MarkRemoved(reason)
	w.diags.ClearPath(path)
	w.appendSourceLog(fmt.Sprintf("removed %q: %s", path, reason))
	return nil
}

// Rename moves a file to a new storage-relative path within its area.
func (w *Workspace) Rename(oldPath, newPath string) error {
	f := w.index.Get(oldPath)
	if f == nil {
		return nil
	}
	newStoragePath, err := w.adapter.Rename(storage.Path{Area: f.Area, Rel: f.Path}, newPath)
	if err != nil {
		return err
	}
	if !w.index.Rename(oldPath, newStoragePath.Rel) {
		return errRenameConflict
	}
	w.appendSourceLog(fmt.Sprintf("renamed %q to %q", oldPath, newStoragePath.Rel))
	return nil
}

// Exists reports whether a live (non-removed) file is tracked at path.
func (w *Workspace) Exists(path string) bool {
	f := w.index.Get(path)
	return f != nil && !f.IsRemoved()
}

// FileCount returns the number of live source files.
func (w *Workspace) FileCount() int {
	return len(w.index.SourceFiles())
}

// PromoteToAncillary moves a file from the source area into the ancillary
// area, used when a nested "anc/" subtree surfaces inside extracted
// archive content.
func (w *Workspace) PromoteToAncillary(path string) error {
	f := w.index.Get(path)
	if f == nil || f.Area == storage.AreaAncillary {
		return nil
	}
	dst := storage.Path{Area: storage.AreaAncillary, Rel: f.Path}
	if err := w.adapter.Move(storage.Path{Area: f.Area, Rel: f.Path}, dst); err != nil {
		return err
	}
	f.Area = storage.AreaAncillary
	w.appendSourceLog(fmt.Sprintf("promoted %q to ancillary", path))
	return nil
}

// SetSourceTypeInvalid marks the workspace's overall source type invalid.
func (w *Workspace) SetSourceTypeInvalid() {
	w.sourceType = sourcetype.Invalid
}

// SourceType returns the workspace's currently recorded source type.
func (w *Workspace) SourceType() sourcetype.SourceType {
	return w.sourceType
}

// SetSourceType sets the workspace's overall source type.
func (w *Workspace) SetSourceType(t sourcetype.SourceType) {
	w.sourceType = t
}

// FileTypeCounts tallies live files by FileType for source-type inference.
func (w *Workspace) FileTypeCounts() sourcetype.Counts {
	var counts sourcetype.Counts
	for _, f := range w.index.All() {
		if f.IsRemoved() {
			continue
		}
		counts.CountFile(f.Type, f.IsAncillary(), f.IsDirectory)
	}
	return counts
}

// AddNonFileError attaches a workspace-level fatal diagnostic.
func (w *Workspace) AddNonFileError(message string) {
	w.diags.Add(diagnostics.Diagnostic{
		Severity:   diagnostics.SeverityFatal,
		Code:       diagnostics.CodeWorkspaceFatal,
		Path:       "",
		Message:    message,
		Persistant: true,
	})
}

// AddNonFileWarning attaches a workspace-level warning diagnostic.
func (w *Workspace) AddNonFileWarning(message string) {
	w.diags.Add(diagnostics.Diagnostic{
		Severity:   diagnostics.SeverityWarning,
		Code:       diagnostics.CodeWorkspaceWarning,
		Path:       "",
		Message:    message,
		Persistant: false,
	})
}

// Log appends an informational line to the workspace's source.log.
func (w *Workspace) Log(message string) {
	w.appendSourceLog(message)
}
