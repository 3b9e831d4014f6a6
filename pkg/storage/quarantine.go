package storage

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// Quarantine is an Adapter that stages every write beneath a side directory
// outside the workspace's main tree, promoting files into the main root
// only when Persist is explicitly called for them. It is used for
// operations (bulk unpack, upload ingestion) where partially-written state
// must never be visible as if it were already checked.
type Quarantine struct {
	simple  *Simple
	staging map[Area]string
}

// NewQuarantine constructs a Quarantine adapter whose main tree lives under
// base and whose staging tree lives under stagingBase.
func NewQuarantine(base, stagingBase string) *Quarantine {
	return &Quarantine{
		simple: NewSimple(base),
		staging: map[Area]string{
			AreaSource:    filepath.Join(stagingBase, "src"),
			AreaAncillary: filepath.Join(stagingBase, "src", "anc"),
			AreaRemoved:   filepath.Join(stagingBase, "removed"),
			AreaSystem:    filepath.Join(stagingBase, "system"),
		},
	}
}

func (q *Quarantine) Root(area Area) string {
	return q.staging[area]
}

func (q *Quarantine) stagingRoot(area Area) string {
	return q.staging[area]
}

func (q *Quarantine) FullPath(p Path) string {
	return filepath.Join(q.stagingRoot(p.Area), filepath.FromSlash(p.Rel))
}

func (q *Quarantine) IsSafe(p Path) bool {
	return isSafeUnder(q.stagingRoot(p.Area), p.Rel)
}

func (q *Quarantine) MakeDirs(p Path) error {
	if !q.IsSafe(p) {
		return errors.Wrapf(ErrUnsafePath, "makedirs %s/%s", p.Area, p.Rel)
	}
	if err := os.MkdirAll(q.FullPath(p), DirectoryPermissions); err != nil {
		return wrapIOError("mkdir", err)
	}
	return nil
}

func (q *Quarantine) Create(p Path) (*os.File, error) {
	if !q.IsSafe(p) {
		return nil, errors.Wrapf(ErrUnsafePath, "create %s/%s", p.Area, p.Rel)
	}
	full := q.FullPath(p)
	if err := os.MkdirAll(filepath.Dir(full), DirectoryPermissions); err != nil {
		return nil, wrapIOError("mkdir", err)
	}
	f, err := os.OpenFile(full, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, FilePermissions)
	if err != nil {
		return nil, wrapIOError("create", err)
	}
	if err := f.Chmod(FilePermissions); err != nil {
		f.Close()
		return nil, wrapIOError("chmod", err)
	}
	return f, nil
}

func (q *Quarantine) Open(p Path, flag int) (*os.File, error) {
	if !q.IsSafe(p) {
		return nil, errors.Wrapf(ErrUnsafePath, "open %s/%s", p.Area, p.Rel)
	}
	f, err := os.OpenFile(q.FullPath(p), flag, FilePermissions)
	if err != nil {
		return nil, wrapIOError("open", err)
	}
	return f, nil
}

func (q *Quarantine) Remove(p Path) (string, error) {
	if !q.IsSafe(p) {
		return "", errors.Wrapf(ErrUnsafePath, "remove %s/%s", p.Area, p.Rel)
	}
	flat := flattenForRemoval(p.Rel)
	dest := Path{Area: AreaRemoved, Rel: flat}
	for i := 1; q.Exists(dest); i++ {
		dest.Rel = flat + "_" + itoa(i)
	}
	if err := q.Move(p, dest); err != nil {
		return "", err
	}
	return dest.Rel, nil
}

func (q *Quarantine) Delete(p Path) error {
	if !q.IsSafe(p) {
		return errors.Wrapf(ErrUnsafePath, "delete %s/%s", p.Area, p.Rel)
	}
	if err := os.Remove(q.FullPath(p)); err != nil && !os.IsNotExist(err) {
		return wrapIOError("delete", err)
	}
	return nil
}

func (q *Quarantine) Copy(src, dst Path) error {
	tmp := &Simple{roots: q.staging}
	return tmp.Copy(src, dst)
}

func (q *Quarantine) Move(src, dst Path) error {
	tmp := &Simple{roots: q.staging}
	return tmp.Move(src, dst)
}

func (q *Quarantine) Rename(p Path, newRel string) (Path, error) {
	dst := Path{Area: p.Area, Rel: newRel}
	if err := q.Move(p, dst); err != nil {
		return Path{}, err
	}
	return dst, nil
}

func (q *Quarantine) Size(p Path) (int64, error) {
	tmp := &Simple{roots: q.staging}
	return tmp.Size(p)
}

func (q *Quarantine) ModTime(p Path) (int64, error) {
	tmp := &Simple{roots: q.staging}
	return tmp.ModTime(p)
}

func (q *Quarantine) SetPermissions(p Path, isDir bool) error {
	tmp := &Simple{roots: q.staging}
	return tmp.SetPermissions(p, isDir)
}

func (q *Quarantine) Exists(p Path) bool {
	tmp := &Simple{roots: q.staging}
	return tmp.Exists(p)
}

func (q *Quarantine) Cmp(a, b Path) (bool, error) {
	tmp := &Simple{roots: q.staging}
	return tmp.Cmp(a, b)
}

func (q *Quarantine) IsTarFile(p Path) bool {
	tmp := &Simple{roots: q.staging}
	return tmp.IsTarFile(p)
}

func (q *Quarantine) IsZipFile(p Path) bool {
	tmp := &Simple{roots: q.staging}
	return tmp.IsZipFile(p)
}

// Persist promotes the staged file at p into the corresponding location in
// the main (non-staging) tree, creating parent directories as needed.
func (q *Quarantine) Persist(p Path) error {
	if !q.IsSafe(p) {
		return errors.Wrapf(ErrUnsafePath, "persist %s/%s", p.Area, p.Rel)
	}
	if !q.simple.IsSafe(p) {
		return errors.Wrapf(ErrUnsafePath, "persist dst %s/%s", p.Area, p.Rel)
	}
	src := q.FullPath(p)
	dst := q.simple.FullPath(p)
	if err := os.MkdirAll(filepath.Dir(dst), DirectoryPermissions); err != nil {
		return wrapIOError("persist mkdir", err)
	}
	if err := os.Rename(src, dst); err != nil {
		return wrapIOError("persist", err)
	}
	return nil
}
