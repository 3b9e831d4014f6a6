package storage

import (
	"io"
	"os"
	"path/filepath"
	"syscall"

	"github.com/pkg/errors"
)

// Simple is an Adapter that writes directly into a workspace's on-disk
// root. Persist is a no-op since there is no staging step.
type Simple struct {
	roots map[Area]string
}

// NewSimple constructs a Simple adapter rooted at base, laying out the
// four areas as subdirectories of base (the ancillary area nested inside
// the source area).
func NewSimple(base string) *Simple {
	return &Simple{
		roots: map[Area]string{
			AreaSource:    filepath.Join(base, "src"),
			AreaAncillary: filepath.Join(base, "src", "anc"),
			AreaRemoved:   filepath.Join(base, "removed"),
			AreaSystem:    filepath.Join(base, "system"),
		},
	}
}

func (s *Simple) Root(area Area) string {
	return s.roots[area]
}

func (s *Simple) FullPath(p Path) string {
	return filepath.Join(s.Root(p.Area), filepath.FromSlash(p.Rel))
}

func (s *Simple) IsSafe(p Path) bool {
	return isSafeUnder(s.Root(p.Area), p.Rel)
}

func (s *Simple) MakeDirs(p Path) error {
	if !s.IsSafe(p) {
		return errors.Wrapf(ErrUnsafePath, "makedirs %s/%s", p.Area, p.Rel)
	}
	if err := os.MkdirAll(s.FullPath(p), DirectoryPermissions); err != nil {
		return wrapIOError("mkdir", err)
	}
	return nil
}

func (s *Simple) Create(p Path) (*os.File, error) {
	if !s.IsSafe(p) {
		return nil, errors.Wrapf(ErrUnsafePath, "create %s/%s", p.Area, p.Rel)
	}
	full := s.FullPath(p)
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

func (s *Simple) Open(p Path, flag int) (*os.File, error) {
	if !s.IsSafe(p) {
		return nil, errors.Wrapf(ErrUnsafePath, "open %s/%s", p.Area, p.Rel)
	}
	f, err := os.OpenFile(s.FullPath(p), flag, FilePermissions)
	if err != nil {
		return nil, wrapIOError("open", err)
	}
	return f, nil
}

func (s *Simple) Remove(p Path) (string, error) {
	if !s.IsSafe(p) {
		return "", errors.Wrapf(ErrUnsafePath, "remove %s/%s", p.Area, p.Rel)
	}
	flat := flattenForRemoval(p.Rel)
	dest := Path{Area: AreaRemoved, Rel: uniqueRemovedName(s, flat)}
	if err := s.Move(p, dest); err != nil {
		return "", err
	}
	return dest.Rel, nil
}

// uniqueRemovedName appends a numeric suffix if the flattened name already
// exists in the removed area, so repeated removals never clobber one
// another.
func uniqueRemovedName(s *Simple, flat string) string {
	candidate := flat
	for i := 1; s.Exists(Path{Area: AreaRemoved, Rel: candidate}); i++ {
		ext := filepath.Ext(flat)
		base := flat[:len(flat)-len(ext)]
		candidate = base + "_" + itoa(i) + ext
	}
	return candidate
}

func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	neg := i < 0
	if neg {
		i = -i
	}
	var buf [20]byte
	pos := len(buf)
	for i > 0 {
		pos--
		buf[pos] = byte('0' + i%10)
		i /= 10
	}
	if neg {
		pos--
		buf[pos] = '-'
	}
	return string(buf[pos:])
}

func (s *Simple) Delete(p Path) error {
	if !s.IsSafe(p) {
		return errors.Wrapf(ErrUnsafePath, "delete %s/%s", p.Area, p.Rel)
	}
	if err := os.Remove(s.FullPath(p)); err != nil && !os.IsNotExist(err) {
		return wrapIOError("delete", err)
	}
	return nil
}

func (s *Simple) Copy(src, dst Path) error {
	if !s.IsSafe(src) {
		return errors.Wrapf(ErrUnsafePath, "copy src %s/%s", src.Area, src.Rel)
	}
	if !s.IsSafe(dst) {
		return errors.Wrapf(ErrUnsafePath, "copy dst %s/%s", dst.Area, dst.Rel)
	}
	in, err := os.Open(s.FullPath(src))
	if err != nil {
		return wrapIOError("copy open src", err)
	}
	defer in.Close()

	dstFull := s.FullPath(dst)
	if err := os.MkdirAll(filepath.Dir(dstFull), DirectoryPermissions); err != nil {
		return wrapIOError("copy mkdir", err)
	}
	out, err := os.OpenFile(dstFull, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, FilePermissions)
	if err != nil {
		return wrapIOError("copy open dst", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return wrapIOError("copy", err)
	}
	return nil
}

func (s *Simple) Move(src, dst Path) error {
	if !s.IsSafe(src) {
		return errors.Wrapf(ErrUnsafePath, "move src %s/%s", src.Area, src.Rel)
	}
	if !s.IsSafe(dst) {
		return errors.Wrapf(ErrUnsafePath, "move dst %s/%s", dst.Area, dst.Rel)
	}
	dstFull := s.FullPath(dst)
	if err := os.MkdirAll(filepath.Dir(dstFull), DirectoryPermissions); err != nil {
		return wrapIOError("move mkdir", err)
	}
	if err := os.Rename(s.FullPath(src), dstFull); err != nil {
		if errors.Is(err, syscall.EXDEV) {
			if cerr := s.Copy(src, dst); cerr != nil {
				return cerr
			}
			return s.Delete(src)
		}
		return wrapIOError("move", err)
	}
	return nil
}

func (s *Simple) Rename(p Path, newRel string) (Path, error) {
	dst := Path{Area: p.Area, Rel: newRel}
	if err := s.Move(p, dst); err != nil {
		return Path{}, err
	}
	return dst, nil
}

func (s *Simple) Size(p Path) (int64, error) {
	if !s.IsSafe(p) {
		return 0, errors.Wrapf(ErrUnsafePath, "size %s/%s", p.Area, p.Rel)
	}
	info, err := os.Stat(s.FullPath(p))
	if err != nil {
		return 0, wrapIOError("stat", err)
	}
	return info.Size(), nil
}

func (s *Simple) ModTime(p Path) (int64, error) {
	if !s.IsSafe(p) {
		return 0, errors.Wrapf(ErrUnsafePath, "modtime %s/%s", p.Area, p.Rel)
	}
	info, err := os.Stat(s.FullPath(p))
	if err != nil {
		return 0, wrapIOError("stat", err)
	}
	return info.ModTime().Unix(), nil
}

func (s *Simple) SetPermissions(p Path, isDir bool) error {
	if !s.IsSafe(p) {
		return errors.Wrapf(ErrUnsafePath, "chmod %s/%s", p.Area, p.Rel)
	}
	mode := FilePermissions
	if isDir {
		mode = DirectoryPermissions
	}
	if err := os.Chmod(s.FullPath(p), mode); err != nil {
		return wrapIOError("chmod", err)
	}
	return nil
}

func (s *Simple) Exists(p Path) bool {
	if !s.IsSafe(p) {
		return false
	}
	_, err := os.Stat(s.FullPath(p))
	return err == nil
}

func (s *Simple) Cmp(a, b Path) (bool, error) {
	if !s.IsSafe(a) || !s.IsSafe(b) {
		return false, errors.Wrap(ErrUnsafePath, "cmp")
	}
	af, err := os.Open(s.FullPath(a))
	if err != nil {
		return false, wrapIOError("cmp open a", err)
	}
	defer af.Close()
	bf, err := os.Open(s.FullPath(b))
	if err != nil {
		return false, wrapIOError("cmp open b", err)
	}
	defer bf.Close()

	const chunk = 64 * 1024
	bufA := make([]byte, chunk)
	bufB := make([]byte, chunk)
	for {
		na, erra := io.ReadFull(af, bufA)
		nb, errb := io.ReadFull(bf, bufB)
		if na != nb {
			return false, nil
		}
		if string(bufA[:na]) != string(bufB[:nb]) {
			return false, nil
		}
		doneA := erra == io.EOF || erra == io.ErrUnexpectedEOF
		doneB := errb == io.EOF || errb == io.ErrUnexpectedEOF
		if doneA != doneB {
			return false, nil
		}
		if doneA {
			return true, nil
		}
		if erra != nil {
			return false, wrapIOError("cmp read a", erra)
		}
		if errb != nil {
			return false, wrapIOError("cmp read b", errb)
		}
	}
}

func (s *Simple) IsTarFile(p Path) bool {
	f, err := s.Open(p, os.O_RDONLY)
	if err != nil {
		return false
	}
	defer f.Close()
	return probeTar(f)
}

func (s *Simple) IsZipFile(p Path) bool {
	f, err := s.Open(p, os.O_RDONLY)
	if err != nil {
		return false
	}
	defer f.Close()
	return probeZip(f)
}

func (s *Simple) Persist(p Path) error {
	return nil
}
