package workspace

import (
	"time"

	"github.com/pkg/errors"

	"github.com/arxiv/filemanager/pkg/pack"
)

// PackContent rebuilds the source package tarball if it is missing or
// stale relative to the current file index. Refuses while the workspace is
// locked or released, since packing may need to clean up stale temporary
// state left by a prior check pass.
func (w *Workspace) PackContent() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.requireWritable(); err != nil {
		return err
	}
	if !w.pkg.Stale(w.index) {
		return nil
	}
	if err := w.pkg.Pack(w.adapter, w.index); err != nil {
		if errors.Is(err, pack.ErrNoContent) {
			return err
		}
		return errors.Wrap(err, "unable to pack workspace content")
	}
	w.appendSourceLog("content packed")
	return nil
}

// GetContent returns the absolute path of the current source package,
// packing it first if it is missing or stale.
func (w *Workspace) GetContent() (string, error) {
	if w.ContentPackageStale() {
		if err := w.PackContent(); err != nil {
			return "", err
		}
	}
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.pkg.Path, nil
}

// ContentChecksum returns the URL-safe base64 MD5 checksum of the current
// source package, packing it first if necessary.
func (w *Workspace) ContentChecksum() (string, error) {
	if w.ContentPackageStale() {
		if err := w.PackContent(); err != nil {
			return "", err
		}
	}
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.pkg.Checksum()
}

// ContentPackageExists reports whether the source package has been built
// at least once, without triggering a rebuild.
func (w *Workspace) ContentPackageExists() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.pkg.Exists()
}

// ContentPackageStale reports whether the source package is missing or
// out of date relative to the current file index, without rebuilding it.
func (w *Workspace) ContentPackageStale() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.pkg.Stale(w.index)
}

// ContentPackageSize returns the current source package's size in bytes,
// or 0 if it has never been built.
func (w *Workspace) ContentPackageSize() int64 {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.pkg.Size()
}

// ContentPackageModified returns the current source package's last-built
// time, or the zero time if it has never been built.
func (w *Workspace) ContentPackageModified() time.Time {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.pkg.Modified()
}
