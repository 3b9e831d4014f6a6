// Package pack builds the on-demand, reproducible gzipped tar "source
// package" representing a workspace's current source and ancillary
// contents, with staleness detection driven by file modification times and
// a stable content checksum for use as an ETag-style cache key.
package pack

import (
	"archive/tar"
	"compress/gzip"
	"crypto/md5"
	"encoding/base64"
	"io"
	"os"
	"path"
	"time"

	"github.com/pkg/errors"

	"github.com/arxiv/filemanager/pkg/fileindex"
	"github.com/arxiv/filemanager/pkg/storage"
)

// ErrNoContent is returned by Pack when the workspace's source area (and
// ancillary subtree) contains no visible files to package.
var ErrNoContent = errors.New("no content to pack")

// Package represents the gzipped tar source package materialized at a
// fixed filesystem path, derived from (and never authoritative over) a
// workspace's file index.
type Package struct {
	// Path is the absolute filesystem path of the packaged tarball,
	// conventionally "<workspace_root>/<upload_id>.tar.gz".
	Path string
}

// New returns a Package addressing the tarball at path.
func New(path string) *Package {
	return &Package{Path: path}
}

// Exists reports whether the tarball has been built at least once.
func (p *Package) Exists() bool {
	_, err := os.Stat(p.Path)
	return err == nil
}

// Size returns the tarball's size in bytes, or 0 if it doesn't exist.
func (p *Package) Size() int64 {
	info, err := os.Stat(p.Path)
	if err != nil {
		return 0
	}
	return info.Size()
}

// Modified returns the tarball's last-modified time, or the zero time if it
// doesn't exist.
func (p *Package) Modified() time.Time {
	info, err := os.Stat(p.Path)
	if err != nil {
		return time.Time{}
	}
	return info.ModTime()
}

// Stale reports whether the tarball is missing, or any visible file in idx
// has a modification time strictly later than the tarball's own.
func (p *Package) Stale(idx *fileindex.Index) bool {
	info, err := os.Stat(p.Path)
	if err != nil {
		return true
	}
	packed := info.ModTime()
	for _, f := range idx.VisibleFiles() {
		if f.ModTime.After(packed) {
			return true
		}
	}
	return false
}

// Pack rebuilds the tarball from every visible (source plus ancillary,
// non-removed) file in idx, reading content through adapter. Any existing
// tarball at p.Path is replaced. Archive members are rooted at "/", so the
// tar's member names begin with a leading path separator, matching arXiv's
// "archive is rooted" packaging convention. Returns ErrNoContent if idx has
// no visible files.
func (p *Package) Pack(adapter storage.Adapter, idx *fileindex.Index) error {
	members := idx.VisibleFiles()
	if len(members) == 0 {
		return ErrNoContent
	}

	tmpPath := p.Path + ".tmp"
	out, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, storage.FilePermissions)
	if err != nil {
		return errors.Wrap(err, "unable to create package file")
	}

	if err := writeTarGz(out, adapter, members); err != nil {
		out.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := out.Close(); err != nil {
		os.Remove(tmpPath)
		return errors.Wrap(err, "unable to close package file")
	}

	os.Remove(p.Path)
	if err := os.Rename(tmpPath, p.Path); err != nil {
		return errors.Wrap(err, "unable to finalize package file")
	}
	return nil
}

func writeTarGz(w io.Writer, adapter storage.Adapter, members []*fileindex.UserFile) error {
	gz := gzip.NewWriter(w)
	tw := tar.NewWriter(gz)

	for _, f := range members {
		if err := writeMember(tw, adapter, f); err != nil {
			tw.Close()
			gz.Close()
			return err
		}
	}

	if err := tw.Close(); err != nil {
		gz.Close()
		return errors.Wrap(err, "unable to finalize tar stream")
	}
	if err := gz.Close(); err != nil {
		return errors.Wrap(err, "unable to finalize gzip stream")
	}
	return nil
}

func writeMember(tw *tar.Writer, adapter storage.Adapter, f *fileindex.UserFile) error {
	storagePath := storage.Path{Area: f.Area, Rel: f.Path}
	handle, err := adapter.Open(storagePath, os.O_RDONLY)
	if err != nil {
		return errors.Wrapf(err, "unable to open %s for packing", f.Path)
	}
	defer handle.Close()

	info, err := handle.Stat()
	if err != nil {
		return errors.Wrapf(err, "unable to stat %s for packing", f.Path)
	}

	header, err := tar.FileInfoHeader(info, "")
	if err != nil {
		return errors.Wrapf(err, "unable to build tar header for %s", f.Path)
	}
	header.Name = path.Join("/", f.Path)

	if err := tw.WriteHeader(header); err != nil {
		return errors.Wrapf(err, "unable to write tar header for %s", f.Path)
	}
	if _, err := io.Copy(tw, handle); err != nil {
		return errors.Wrapf(err, "unable to write tar content for %s", f.Path)
	}
	return nil
}

// Checksum returns the URL-safe, unpadded base64 encoding of the tarball's
// raw MD5 digest, suitable for use as an ETag. Returns an error if the
// tarball does not exist.
func (p *Package) Checksum() (string, error) {
	f, err := os.Open(p.Path)
	if err != nil {
		return "", errors.Wrap(err, "unable to open package file for checksum")
	}
	defer f.Close()

	h := md5.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", errors.Wrap(err, "unable to read package file for checksum")
	}
	return base64.RawURLEncoding.EncodeToString(h.Sum(nil)), nil
}

// Remove deletes the tarball if it exists, used before a rebuild and when
// the workspace itself is destroyed.
func (p *Package) Remove() error {
	if err := os.Remove(p.Path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "unable to remove package file")
	}
	return nil
}
