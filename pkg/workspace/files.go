package workspace

import (
	"io"
	"os"
	"time"

	"github.com/pkg/errors"

	"github.com/arxiv/filemanager/pkg/diagnostics"
	"github.com/arxiv/filemanager/pkg/fileindex"
	"github.com/arxiv/filemanager/pkg/filetype"
	"github.com/arxiv/filemanager/pkg/storage"
)

// ErrPayloadTooLarge is returned by Create when content exceeds the
// workspace's configured MaxFileSize or would push the source area past
// MaxWorkspaceSize.
var ErrPayloadTooLarge = errors.New("payload_too_large")

// CreateOptions configures a single file registration via Create.
type CreateOptions struct {
	// IsAncillary routes the file into the ancillary area instead of the
	// source area.
	IsAncillary bool
	// IsDirectory registers a directory placeholder rather than a file;
	// Content is ignored when set.
	IsDirectory bool
	// Content supplies the file's bytes; nil creates (or touches) an empty
	// file.
	Content io.Reader
}

// Create registers a new file at path, writing Content if given, inferring
// its FileType, and indexing it. Refuses with ErrNotWritable while locked
// or released.
func (w *Workspace) Create(path string, opts CreateOptions) (*fileindex.UserFile, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.requireWritable(); err != nil {
		return nil, err
	}

	area := storage.AreaSource
	if opts.IsAncillary {
		area = storage.AreaAncillary
	}
	sp := storage.Path{Area: area, Rel: path}
	if !w.adapter.IsSafe(sp) {
		return nil, storage.ErrUnsafePath
	}

	if opts.IsDirectory {
		if err := w.adapter.MakeDirs(sp); err != nil {
			return nil, err
		}
		f := w.index.Add(&fileindex.UserFile{
			Path: path, Area: area, Type: filetype.Directory, IsDirectory: true, ModTime: time.Now(),
		})
		w.appendSourceLog("created directory " + path)
		return f, nil
	}

	handle, err := w.adapter.Create(sp)
	if err != nil {
		return nil, err
	}
	var size int64
	if opts.Content != nil {
		n, err := io.Copy(handle, opts.Content)
		if err != nil {
			handle.Close()
			return nil, err
		}
		size = n
	}
	if err := handle.Close(); err != nil {
		return nil, err
	}

	if w.maxFileSize > 0 && size > w.maxFileSize {
		w.adapter.Delete(sp)
		w.AddError("", diagnostics.CodePayloadTooLarge, "File exceeds the maximum allowed file size.", diagnostics.SeverityFatal, true)
		return nil, ErrPayloadTooLarge
	}
	if w.maxWorkspaceSize > 0 && w.totalSourceSize()+size > w.maxWorkspaceSize {
		w.adapter.Delete(sp)
		w.AddError("", diagnostics.CodePayloadTooLarge, "Upload exceeds the maximum allowed workspace size.", diagnostics.SeverityFatal, true)
		return nil, ErrPayloadTooLarge
	}

	t, err := w.inferType(sp, size)
	if err != nil {
		t = filetype.Unknown
	}
	f := w.index.Add(&fileindex.UserFile{
		Path: path, Area: area, Type: t, Size: size, ModTime: time.Now(),
	})
	w.appendSourceLog("created " + path)
	return f, nil
}

func (w *Workspace) totalSourceSize() int64 {
	var total int64
	for _, f := range w.index.SourceFiles() {
		total += f.Size
	}
	return total
}

func (w *Workspace) inferType(p storage.Path, size int64) (filetype.FileType, error) {
	handle, err := w.adapter.Open(p, os.O_RDONLY)
	if err != nil {
		return filetype.Unknown, err
	}
	defer handle.Close()
	return filetype.Infer(p.Rel, size, handle)
}

// Open returns a scoped read/write handle for the file at path; the caller
// must close it on every exit path. flag follows os.OpenFile semantics
// (e.g. os.O_RDONLY, os.O_WRONLY|os.O_TRUNC).
func (w *Workspace) Open(path string, flag int) (*os.File, error) {
	w.mu.RLock()
	f := w.index.Get(path)
	w.mu.RUnlock()
	if f == nil {
		return nil, os.ErrNotExist
	}
	return w.adapter.Open(storage.Path{Area: f.Area, Rel: f.Path}, flag)
}

// Get returns the tracked file at path, or nil if absent.
func (w *Workspace) Get(path string) *fileindex.UserFile {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.index.Get(path)
}

// IterOptions filters IterFiles' result set.
type IterOptions struct {
	AllowAncillary bool
	AllowRemoved   bool
	AllowSystem    bool
	MaxDepth       int
}

// IterFiles returns the workspace's tracked files filtered by opts, in
// index order (the order in which files were added).
func (w *Workspace) IterFiles(opts IterOptions) []*fileindex.UserFile {
	w.mu.RLock()
	defer w.mu.RUnlock()
	var result []*fileindex.UserFile
	for _, f := range w.index.All() {
		if f.IsRemoved() && !opts.AllowRemoved {
			continue
		}
		if f.IsAncillary() && !opts.AllowAncillary {
			continue
		}
		if f.Area == storage.AreaSystem && !opts.AllowSystem {
			continue
		}
		if opts.MaxDepth > 0 && fileindex.Depth(f.Path) > opts.MaxDepth {
			continue
		}
		result = append(result, f)
	}
	return result
}

// Delete permanently unlinks the file at path and removes it from the
// index, as opposed to Remove (check.Workspace), which only moves it
// aside. Refuses with ErrNotWritable while locked or released.
func (w *Workspace) Delete(path string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.requireWritable(); err != nil {
		return err
	}
	f := w.index.Get(path)
	if f == nil {
		return nil
	}
	if !f.IsDirectory {
		if err := w.adapter.Delete(storage.Path{Area: f.Area, Rel: f.Path}); err != nil {
			return err
		}
	}
	w.index.Delete(path)
	w.diags.ClearPath(path)
	w.appendSourceLog("deleted " + path)
	return nil
}

// DeleteAll purges every file from the workspace's source and ancillary
// areas, resetting the index, diagnostics, and source type to their
// initial empty state, without destroying the workspace itself.
func (w *Workspace) DeleteAll() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.requireWritable(); err != nil {
		return err
	}
	for _, f := range w.index.All() {
		if f.IsDirectory || f.Area == storage.AreaRemoved || f.Area == storage.AreaSystem {
			continue
		}
		w.adapter.Delete(storage.Path{Area: f.Area, Rel: f.Path})
	}
	w.index = fileindex.New()
	w.diags = diagnostics.NewCollection()
	w.sourceType = ""
	w.pkg.Remove()
	w.appendSourceLog("deleted all files")
	return nil
}

// PerformChecks clears non-persistant diagnostics and runs the configured
// checker strategy to a fixed point. Refuses with ErrNotWritable while
// locked or released.
func (w *Workspace) PerformChecks() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.requireWritable(); err != nil {
		return err
	}
	w.diags.ClearNonPersistant()
	w.strategy.RunUntilStable(w, maxCheckPasses)
	w.appendSourceLog("checks performed")
	return nil
}

// maxCheckPasses bounds RunUntilStable's re-scan loop, guarding against a
// pathological archive-within-archive chain that never converges.
const maxCheckPasses = 10
