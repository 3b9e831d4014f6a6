package unpack

import (
	"fmt"
	"os"
	"time"

	"github.com/arxiv/filemanager/pkg/diagnostics"
	"github.com/arxiv/filemanager/pkg/fileindex"
	"github.com/arxiv/filemanager/pkg/filetype"
	"github.com/arxiv/filemanager/pkg/storage"
)

// maxRounds bounds how many times Drive will re-scan the index for newly
// unpacked archives, guarding against an archive that (maliciously or
// accidentally) contains itself.
const maxRounds = 25

// Drive repeatedly scans idx's source-area files for tar/zip/gzip/bzip2
// archives, extracts each one beneath its containing directory, moves the
// original archive file aside into the removed area, and re-scans until no
// further archives are found or maxRounds is reached. It mutates idx in
// place (adding extracted entries, flagging consumed archives as removed)
// and returns the accumulated diagnostics.
func Drive(adapter storage.Adapter, idx *fileindex.Index) []diagnostics.Diagnostic {
	var allDiagnostics []diagnostics.Diagnostic

	for round := 0; round < maxRounds; round++ {
		extractedAny := false

		for _, f := range idx.SourceFiles() {
			if f.IsRemoved() || f.Area != storage.AreaSource {
				continue
			}
			if !isArchiveType(f.Type) {
				continue
			}

			destDir := f.Dir()
			result := unpackOne(adapter, f, destDir)
			allDiagnostics = append(allDiagnostics, result.Diagnostics...)

			if result.ExtractedCount == 0 && len(result.SkippedUnsafe) == 0 {
				continue
			}
			extractedAny = true

			stampExtractionTime(adapter, storage.Path{Area: f.Area, Rel: destDir})
			retireArchive(adapter, idx, f)
		}

		if !extractedAny {
			break
		}

		rescanned, err := fileindex.Scan(adapter)
		if err != nil {
			allDiagnostics = append(allDiagnostics, diagnostics.Diagnostic{
				Severity: diagnostics.SeverityFatal,
				Code:     diagnostics.CodeStorageFailed,
				Message:  "unable to re-scan workspace after unpacking archive",
			})
			break
		}
		mergeRescan(idx, rescanned)
	}

	return allDiagnostics
}

func isArchiveType(t filetype.FileType) bool {
	switch t {
	case filetype.Tar, filetype.Gzipped, filetype.Bzip2, filetype.Zip:
		return true
	default:
		return false
	}
}

func unpackOne(adapter storage.Adapter, f *fileindex.UserFile, destDir string) *Result {
	p := storage.Path{Area: f.Area, Rel: f.Path}
	file, err := adapter.Open(p, os.O_RDONLY)
	if err != nil {
		r := &Result{}
		r.warn(f.Path, diagnostics.CodeUnpackError, "unable to open archive for extraction")
		return r
	}
	defer file.Close()

	switch f.Type {
	case filetype.Gzipped:
		return GunzipThenTar(adapter, f.Area, destDir, f.Path, file)
	case filetype.Bzip2:
		return Bunzip2ThenTar(adapter, f.Area, destDir, f.Path, file)
	case filetype.Tar:
		return ExtractTar(adapter, f.Area, destDir, f.Path, file)
	case filetype.Zip:
		info, err := file.Stat()
		if err != nil {
			r := &Result{}
			r.warn(f.Path, diagnostics.CodeUnpackError, "unable to stat zip archive")
			return r
		}
		return ExtractZip(adapter, f.Area, destDir, f.Path, file, info.Size())
	default:
		return &Result{}
	}
}

// stampExtractionTime sets the parent directory's mtime to now after a
// successful extraction into it, matching the original unpacker's behavior
// of touching the containing directory so downstream tools see it as
// freshly modified. Failures are ignored; this is best-effort bookkeeping,
// not a correctness requirement of the extraction itself.
func stampExtractionTime(adapter storage.Adapter, dir storage.Path) {
	now := time.Now()
	_ = os.Chtimes(adapter.FullPath(dir), now, now)
}

// retireArchive moves the now-unpacked archive aside into the removed area
// and marks its index entry accordingly, mirroring the original behavior of
// moving consumed archives out of the source tree rather than leaving them
// to be reprocessed.
func retireArchive(adapter storage.Adapter, idx *fileindex.Index, f *fileindex.UserFile) {
	oldPath := f.Path
	oldName := f.Name()
	src := storage.Path{Area: f.Area, Rel: f.Path}
	newRel, err := adapter.Remove(src)
	if err != nil {
		return
	}
	f.Area = storage.AreaRemoved
	f.Path = newRel
	f.MarkRemoved(fmt.Sprintf("Removed packed file '%s'.", oldName))
	idx.Rename(oldPath, f.Path)
}

// mergeRescan folds newly discovered entries from a fresh scan into idx,
// leaving already-tracked entries (including ones already flagged removed
// by this round) untouched.
func mergeRescan(idx *fileindex.Index, rescanned *fileindex.Index) {
	for _, f := range rescanned.All() {
		if idx.Exists(f.Path) {
			continue
		}
		idx.Add(f)
	}
}
