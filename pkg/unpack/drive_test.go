package unpack

import (
	"archive/tar"
	"bytes"
	"os"
	"testing"
	"time"

	"github.com/arxiv/filemanager/pkg/fileindex"
	"github.com/arxiv/filemanager/pkg/filetype"
	"github.com/arxiv/filemanager/pkg/storage"
)

func writeArchive(t *testing.T, adapter storage.Adapter, rel string, data []byte) {
	t.Helper()
	p := storage.Path{Area: storage.AreaSource, Rel: rel}
	f, err := adapter.Create(p)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	defer f.Close()
	if _, err := f.Write(data); err != nil {
		t.Fatalf("Write: %v", err)
	}
}

func TestDriveRetiresArchiveWithNamedMessage(t *testing.T) {
	base := t.TempDir()
	adapter := storage.NewSimple(base)
	data := buildTar(t, map[string]string{"main.tex": "content"})
	writeArchive(t, adapter, "archive.tar", data)

	idx := fileindex.New()
	idx.Add(&fileindex.UserFile{Path: "archive.tar", Area: storage.AreaSource, Type: filetype.Tar})

	Drive(adapter, idx)

	removed := idx.RemovedFiles()
	if len(removed) != 1 {
		t.Fatalf("expected one removed entry, got %d: %+v", len(removed), removed)
	}
	if removed[0].Removed != "Removed packed file 'archive.tar'." {
		t.Errorf("Removed = %q, want %q", removed[0].Removed, "Removed packed file 'archive.tar'.")
	}
	if !idx.Exists("main.tex") {
		t.Error("expected main.tex to be extracted and indexed")
	}
}

func TestDriveStampsExtractionDirMtime(t *testing.T) {
	base := t.TempDir()
	adapter := storage.NewSimple(base)
	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)
	tw.WriteHeader(&tar.Header{Name: "inner.tex", Mode: 0644, Size: 5, Typeflag: tar.TypeReg})
	tw.Write([]byte("hello"))
	tw.Close()
	writeArchive(t, adapter, "sub/archive.tar", buf.Bytes())

	stale := time.Now().Add(-48 * time.Hour)
	dirPath := adapter.FullPath(storage.Path{Area: storage.AreaSource, Rel: "sub"})
	if err := os.Chtimes(dirPath, stale, stale); err != nil {
		t.Fatalf("Chtimes: %v", err)
	}

	idx := fileindex.New()
	idx.Add(&fileindex.UserFile{Path: "sub/archive.tar", Area: storage.AreaSource, Type: filetype.Tar})

	Drive(adapter, idx)

	info, err := os.Stat(dirPath)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if !info.ModTime().After(stale) {
		t.Errorf("expected containing directory mtime to be refreshed after extraction, still %v", info.ModTime())
	}
}
