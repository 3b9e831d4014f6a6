// Package fileindex tracks the set of files known to a workspace: their
// storage-relative paths, inferred types, sizes, and removed/directory
// status. It provides the ordered, partitioned views (source, ancillary,
// removed, directories, visible) that the check pipeline and the public
// listing API walk. There is no system-area view; files are tracked only in
// the source, ancillary and removed areas.
package fileindex

import (
	"path"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"

	"github.com/arxiv/filemanager/pkg/filetype"
	"github.com/arxiv/filemanager/pkg/storage"
)

// maxDepth bounds how many path components a scanned tree may have,
// guarding against pathological directory nesting in hostile uploads.
const maxDepth = 100

// UserFile is a single file (or directory placeholder) tracked by the
// index. It mirrors the storage path plus everything the check pipeline
// and the public API need without touching disk again.
type UserFile struct {
	// Path is the storage-relative path, always using "/" separators.
	Path string
	// Area is the storage area the file currently lives in.
	Area storage.Area
	// Type is the inferred FileType, or filetype.Directory for directory
	// placeholders.
	Type filetype.FileType
	// Size is the file's size in bytes, meaningless for directories.
	Size int64
	// ModTime is the file's last-modified time.
	ModTime time.Time
	// Removed is non-empty when the file has been flagged as removed, and
	// holds the human-readable removal reason.
	Removed string
	// Description is an optional free-text annotation a checker may attach.
	Description string
	// IsDirectory marks a directory placeholder entry rather than a file.
	IsDirectory bool
}

// Name returns the file's base name.
func (f *UserFile) Name() string {
	return path.Base(f.Path)
}

// Ext returns the file's extension, including the leading dot.
func (f *UserFile) Ext() string {
	return path.Ext(f.Path)
}

// Dir returns the directory portion of the file's path, or "" if the file
// sits at the root.
func (f *UserFile) Dir() string {
	d := path.Dir(f.Path)
	if d == "." {
		return ""
	}
	return d
}

// IsTeXType reports whether the file's inferred type is TeX-family.
func (f *UserFile) IsTeXType() bool {
	return filetype.IsTeXLike(f.Type)
}

// IsAncillary reports whether the file lives in the ancillary area.
func (f *UserFile) IsAncillary() bool {
	return f.Area == storage.AreaAncillary
}

// IsRemoved reports whether the file has been flagged removed.
func (f *UserFile) IsRemoved() bool {
	return f.Removed != ""
}

// MarkRemoved flags the file as removed with the given reason, defaulting
// to "Removed" when reason is empty.
func (f *UserFile) MarkRemoved(reason string) {
	if reason == "" {
		reason = "Removed"
	}
	f.Removed = reason
}

// Index is an ordered collection of UserFile entries for one workspace. It
// preserves scan order for deterministic iteration while also offering
// fast path-keyed lookup.
type Index struct {
	files  []*UserFile
	byPath map[string]*UserFile
}

// New creates an empty Index.
func New() *Index {
	return &Index{byPath: make(map[string]*UserFile)}
}

// normalizePath applies Unicode NFC normalization and cleans the path to a
// canonical slash-separated form, so that visually identical filenames
// submitted in different Unicode normalization forms index identically.
func normalizePath(p string) string {
	cleaned := path.Clean(strings.TrimPrefix(p, "/"))
	if cleaned == "." {
		return ""
	}
	return norm.NFC.String(cleaned)
}

// Depth returns the number of path components in a normalized path.
func Depth(p string) int {
	if p == "" {
		return 0
	}
	return strings.Count(p, "/") + 1
}

// Add inserts a new file into the index, normalizing its path. It returns
// the inserted entry, or the existing entry if the path was already
// present (the caller should update fields on the returned pointer in that
// case rather than adding a duplicate).
func (idx *Index) Add(f *UserFile) *UserFile {
	f.Path = normalizePath(f.Path)
	if existing, ok := idx.byPath[f.Path]; ok {
		return existing
	}
	idx.files = append(idx.files, f)
	idx.byPath[f.Path] = f
	return f
}

// Get returns the file at the given normalized path, or nil if absent.
func (idx *Index) Get(p string) *UserFile {
	return idx.byPath[normalizePath(p)]
}

// Exists reports whether a file exists at the given path.
func (idx *Index) Exists(p string) bool {
	_, ok := idx.byPath[normalizePath(p)]
	return ok
}

// Delete removes a file from the index entirely (as opposed to flagging it
// removed), used by Workspace.Delete when a file is deleted outright rather
// than moved aside.
func (idx *Index) Delete(p string) {
	p = normalizePath(p)
	if _, ok := idx.byPath[p]; !ok {
		return
	}
	delete(idx.byPath, p)
	for i, f := range idx.files {
		if f.Path == p {
			idx.files = append(idx.files[:i], idx.files[i+1:]...)
			break
		}
	}
}

// Rename updates a file's path in place, re-keying the index. It reports
// false if oldPath was not present or newPath is already taken by a
// different file.
func (idx *Index) Rename(oldPath, newPath string) bool {
	oldPath = normalizePath(oldPath)
	newPath = normalizePath(newPath)
	f, ok := idx.byPath[oldPath]
	if !ok {
		return false
	}
	if existing, ok := idx.byPath[newPath]; ok && existing != f {
		return false
	}
	delete(idx.byPath, oldPath)
	f.Path = newPath
	idx.byPath[newPath] = f
	return true
}

// All returns every tracked file (including removed ones and directory
// placeholders) in scan order.
func (idx *Index) All() []*UserFile {
	return idx.files
}

// Len reports the number of tracked entries.
func (idx *Index) Len() int {
	return len(idx.files)
}

// view applies a predicate filter over All(), returning matches in a
// deterministic path-sorted order.
func (idx *Index) view(keep func(*UserFile) bool) []*UserFile {
	var result []*UserFile
	for _, f := range idx.files {
		if keep(f) {
			result = append(result, f)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Path < result[j].Path })
	return result
}

// SourceFiles returns non-removed, non-directory files in the source area
// (excluding ancillary), sorted by path.
func (idx *Index) SourceFiles() []*UserFile {
	return idx.view(func(f *UserFile) bool {
		return !f.IsRemoved() && !f.IsDirectory && f.Area == storage.AreaSource
	})
}

// AncillaryFiles returns non-removed files in the ancillary area, sorted by
// path.
func (idx *Index) AncillaryFiles() []*UserFile {
	return idx.view(func(f *UserFile) bool {
		return !f.IsRemoved() && !f.IsDirectory && f.Area == storage.AreaAncillary
	})
}

// RemovedFiles returns every file flagged removed, regardless of area.
func (idx *Index) RemovedFiles() []*UserFile {
	return idx.view(func(f *UserFile) bool { return f.IsRemoved() })
}

// Directories returns directory placeholder entries, sorted by path.
func (idx *Index) Directories() []*UserFile {
	return idx.view(func(f *UserFile) bool { return f.IsDirectory })
}

// VisibleFiles returns every non-removed file (source and ancillary) that
// should appear in the public listing, sorted by path.
func (idx *Index) VisibleFiles() []*UserFile {
	return idx.view(func(f *UserFile) bool {
		return !f.IsRemoved() && !f.IsDirectory &&
			(f.Area == storage.AreaSource || f.Area == storage.AreaAncillary)
	})
}

// ExceedsMaxDepth reports whether p has more path components than maxDepth
// allows.
func ExceedsMaxDepth(p string) bool {
	return Depth(normalizePath(p)) > maxDepth
}
