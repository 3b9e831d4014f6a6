// Package unpack extracts archive payloads (tar, tar.gz, tar.bz2, zip)
// discovered inside a workspace's source area into that same area, guarding
// every extracted member against path traversal and refusing entity types
// (symlinks, hard links, devices, FIFOs) that have no safe meaning inside a
// submission tree.
package unpack

import (
	"archive/tar"
	"archive/zip"
	"compress/bzip2"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path"

	"github.com/arxiv/filemanager/pkg/diagnostics"
	"github.com/arxiv/filemanager/pkg/storage"
)

// Result summarizes the outcome of unpacking a single archive member file.
type Result struct {
	// ExtractedCount is the number of regular files successfully written.
	ExtractedCount int
	// SkippedUnsafe lists archive member names rejected for escaping the
	// extraction root.
	SkippedUnsafe []string
	// SkippedEntity lists archive member names rejected for being a
	// symlink, hard link, device, or FIFO.
	SkippedEntity []string
	// Diagnostics carries warnings produced while processing the archive
	// (open failures, bad members, refusals), scoped to the archive's path.
	Diagnostics []diagnostics.Diagnostic
}

func (r *Result) warn(archivePath string, code diagnostics.Code, message string) {
	r.Diagnostics = append(r.Diagnostics, diagnostics.Diagnostic{
		Severity: diagnostics.SeverityWarning,
		Code:     code,
		Path:     archivePath,
		Message:  message,
	})
}

// ExtractTar reads a (possibly already-decompressed) tar stream from src and
// writes every regular file and directory member beneath destDir in area,
// via adapter, refusing any member whose path would escape the area root or whose
// type is not a regular file or directory. archivePath is used only for
// diagnostic messages.
func ExtractTar(adapter storage.Adapter, area storage.Area, destDir, archivePath string, src io.Reader) *Result {
	result := &Result{}
	tr := tar.NewReader(src)
	for {
		header, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			result.warn(archivePath, diagnostics.CodeUnpackError,
				fmt.Sprintf("problems reading tar archive %q: %v", archivePath, err))
			break
		}

		memberRel := path.Join(destDir, header.Name)
		dest := storage.Path{Area: area, Rel: memberRel}
		if !adapter.IsSafe(dest) {
			result.SkippedUnsafe = append(result.SkippedUnsafe, header.Name)
			result.warn(archivePath, diagnostics.CodeUnpackError,
				fmt.Sprintf("member %q would extract outside the workspace; skipped", header.Name))
			continue
		}

		switch header.Typeflag {
		case tar.TypeDir:
			if err := adapter.MakeDirs(dest); err != nil {
				result.warn(archivePath, diagnostics.CodeUnpackError,
					fmt.Sprintf("unable to create directory %q: %v", header.Name, err))
			}
		case tar.TypeReg, tar.TypeRegA:
			if err := extractRegular(adapter, dest, tr); err != nil {
				result.warn(archivePath, diagnostics.CodeUnpackError,
					fmt.Sprintf("unable to extract %q: %v", header.Name, err))
				continue
			}
			result.ExtractedCount++
		case tar.TypeSymlink:
			result.SkippedEntity = append(result.SkippedEntity, header.Name)
			result.warn(archivePath, diagnostics.CodeUnpackError,
				fmt.Sprintf("symbolic links are not allowed; removed %q", header.Name))
		case tar.TypeLink:
			result.SkippedEntity = append(result.SkippedEntity, header.Name)
			result.warn(archivePath, diagnostics.CodeUnpackError,
				fmt.Sprintf("hard links are not allowed; removed %q", header.Name))
		case tar.TypeChar:
			result.SkippedEntity = append(result.SkippedEntity, header.Name)
			result.warn(archivePath, diagnostics.CodeUnpackError,
				fmt.Sprintf("character devices are not allowed; removed %q", header.Name))
		case tar.TypeBlock:
			result.SkippedEntity = append(result.SkippedEntity, header.Name)
			result.warn(archivePath, diagnostics.CodeUnpackError,
				fmt.Sprintf("block devices are not allowed; removed %q", header.Name))
		case tar.TypeFifo:
			result.SkippedEntity = append(result.SkippedEntity, header.Name)
			result.warn(archivePath, diagnostics.CodeUnpackError,
				fmt.Sprintf("FIFOs are not allowed; removed %q", header.Name))
		default:
			result.SkippedEntity = append(result.SkippedEntity, header.Name)
		}
	}
	return result
}

// ExtractZip reads a zip archive of size size from src and writes every
// member beneath destDir, with the same safety and entity-type refusals as
// ExtractTar.
func ExtractZip(adapter storage.Adapter, area storage.Area, destDir, archivePath string, src io.ReaderAt, size int64) *Result {
	result := &Result{}
	zr, err := zip.NewReader(src, size)
	if err != nil {
		result.warn(archivePath, diagnostics.CodeUnpackError,
			fmt.Sprintf("problems opening zip archive %q: %v", archivePath, err))
		return result
	}

	for _, member := range zr.File {
		memberRel := path.Join(destDir, member.Name)
		dest := storage.Path{Area: area, Rel: memberRel}
		if !adapter.IsSafe(dest) {
			result.SkippedUnsafe = append(result.SkippedUnsafe, member.Name)
			result.warn(archivePath, diagnostics.CodeUnpackError,
				fmt.Sprintf("member %q would extract outside the workspace; skipped", member.Name))
			continue
		}

		mode := member.Mode()
		if mode&os.ModeSymlink != 0 {
			result.SkippedEntity = append(result.SkippedEntity, member.Name)
			result.warn(archivePath, diagnostics.CodeUnpackError,
				fmt.Sprintf("symbolic links are not allowed; removed %q", member.Name))
			continue
		}

		if member.FileInfo().IsDir() {
			if err := adapter.MakeDirs(dest); err != nil {
				result.warn(archivePath, diagnostics.CodeUnpackError,
					fmt.Sprintf("unable to create directory %q: %v", member.Name, err))
			}
			continue
		}

		rc, err := member.Open()
		if err != nil {
			result.warn(archivePath, diagnostics.CodeUnpackError,
				fmt.Sprintf("unable to open member %q: %v", member.Name, err))
			continue
		}
		err = extractRegular(adapter, dest, rc)
		rc.Close()
		if err != nil {
			result.warn(archivePath, diagnostics.CodeUnpackError,
				fmt.Sprintf("unable to extract %q: %v", member.Name, err))
			continue
		}
		result.ExtractedCount++
	}
	return result
}

func extractRegular(adapter storage.Adapter, dest storage.Path, r io.Reader) error {
	out, err := adapter.Create(dest)
	if err != nil {
		return err
	}
	defer out.Close()
	if _, err := io.Copy(out, r); err != nil {
		return err
	}
	return nil
}

// GunzipThenTar decompresses a gzip stream and extracts the resulting tar
// payload, used for .tar.gz / .tgz archives.
func GunzipThenTar(adapter storage.Adapter, area storage.Area, destDir, archivePath string, src io.Reader) *Result {
	gz, err := gzip.NewReader(src)
	if err != nil {
		result := &Result{}
		result.warn(archivePath, diagnostics.CodeUnpackError,
			fmt.Sprintf("problems opening gzip archive %q: %v", archivePath, err))
		return result
	}
	defer gz.Close()
	return ExtractTar(adapter, area, destDir, archivePath, gz)
}

// Bunzip2ThenTar decompresses a bzip2 stream and extracts the resulting tar
// payload, used for .tar.bz2 archives.
func Bunzip2ThenTar(adapter storage.Adapter, area storage.Area, destDir, archivePath string, src io.Reader) *Result {
	return ExtractTar(adapter, area, destDir, archivePath, bzip2.NewReader(src))
}
