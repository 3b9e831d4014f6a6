package workspace

import (
	"os"
	"time"

	"github.com/arxiv/filemanager/pkg/storage"
)

// deletedLogsDirName is the top-level directory (a sibling of every
// workspace root) that retains source.log files for destroyed workspaces.
const deletedLogsDirName = "deleted_workspace_logs"

// sourceLogPath returns the absolute path of this workspace's system-area
// event log.
func (w *Workspace) sourceLogPath() string {
	return w.adapter.FullPath(storage.Path{Area: storage.AreaSystem, Rel: sourceLogName})
}

// appendSourceLog appends a single timestamped line to source.log,
// creating the system area directory on first use. Logging faults are
// reported through w.log rather than propagated, since no operation in
// the public surface should fail because of the event log itself.
func (w *Workspace) appendSourceLog(message string) {
	if err := os.MkdirAll(w.adapter.Root(storage.AreaSystem), storage.DirectoryPermissions); err != nil {
		w.log.Warn(err)
		return
	}
	path := w.sourceLogPath()
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, storage.FilePermissions)
	if err != nil {
		w.log.Warn(err)
		return
	}
	defer f.Close()

	line := time.Now().UTC().Format(time.RFC3339) + " " + message + "\n"
	if _, err := f.WriteString(line); err != nil {
		w.log.Warn(err)
	}
}

// ReadSourceLog returns the full contents of the workspace's source.log,
// or an empty string if it does not yet exist.
func (w *Workspace) ReadSourceLog() (string, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	data, err := os.ReadFile(w.sourceLogPath())
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}
	return string(data), nil
}

// retainDeletedLog copies the workspace's source.log into
// "<baseDir>/deleted_workspace_logs/<zero-padded-id>_source.log" before its
// storage root is purged. Copy failures are logged but do not block
// destruction, since the workspace root is about to be removed regardless.
func (w *Workspace) retainDeletedLog() {
	data, err := os.ReadFile(w.sourceLogPath())
	if err != nil {
		return
	}
	dir := zeroPaddedLogDir(w.baseDir)
	if err := os.MkdirAll(dir, storage.DirectoryPermissions); err != nil {
		w.log.Warn(err)
		return
	}
	dest := dir + string(os.PathSeparator) + zeroPaddedID(w.uploadID) + "_" + sourceLogName
	if err := os.WriteFile(dest, data, storage.FilePermissions); err != nil {
		w.log.Warn(err)
	}
}

func zeroPaddedLogDir(baseDir string) string {
	return baseDir + string(os.PathSeparator) + deletedLogsDirName
}

// zeroPaddedID left-pads a numeric upload ID to a fixed width so that
// retained log file names sort lexicographically by ID; non-numeric IDs
// (e.g. test fixtures) are returned unchanged.
func zeroPaddedID(uploadID string) string {
	for _, r := range uploadID {
		if r < '0' || r > '9' {
			return uploadID
		}
	}
	if len(uploadID) >= 8 {
		return uploadID
	}
	padded := make([]byte, 8-len(uploadID))
	for i := range padded {
		padded[i] = '0'
	}
	return string(padded) + uploadID
}
