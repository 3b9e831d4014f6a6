package pack

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/arxiv/filemanager/pkg/fileindex"
	"github.com/arxiv/filemanager/pkg/storage"
)

func setupWorkspace(t *testing.T) (*storage.Simple, *fileindex.Index) {
	t.Helper()
	base := t.TempDir()
	s := storage.NewSimple(base)
	idx := fileindex.New()

	write := func(rel, content string) {
		handle, err := s.Create(storage.Path{Area: storage.AreaSource, Rel: rel})
		if err != nil {
			t.Fatalf("Create(%s): %v", rel, err)
		}
		if _, err := handle.WriteString(content); err != nil {
			t.Fatalf("WriteString(%s): %v", rel, err)
		}
		handle.Close()
		idx.Add(&fileindex.UserFile{
			Path: rel, Area: storage.AreaSource, Size: int64(len(content)), ModTime: time.Now(),
		})
	}
	write("main.tex", "\\documentclass{article}\\begin{document}\\end{document}")
	write("fig.pdf", "%PDF-1.4 fake")
	return s, idx
}

func TestPackFailsOnEmptyWorkspace(t *testing.T) {
	s := storage.NewSimple(t.TempDir())
	idx := fileindex.New()
	p := New(filepath.Join(t.TempDir(), "content.tar.gz"))

	if err := p.Pack(s, idx); err != ErrNoContent {
		t.Fatalf("Pack() on empty workspace = %v, want ErrNoContent", err)
	}
}

func TestPackBuildsDeterministicChecksum(t *testing.T) {
	s, idx := setupWorkspace(t)
	tarPath := filepath.Join(t.TempDir(), "content.tar.gz")
	p := New(tarPath)

	if err := p.Pack(s, idx); err != nil {
		t.Fatalf("Pack: %v", err)
	}
	if !p.Exists() {
		t.Fatalf("expected package to exist after Pack")
	}
	sum1, err := p.Checksum()
	if err != nil {
		t.Fatalf("Checksum: %v", err)
	}

	if err := p.Pack(s, idx); err != nil {
		t.Fatalf("second Pack: %v", err)
	}
	sum2, err := p.Checksum()
	if err != nil {
		t.Fatalf("Checksum: %v", err)
	}
	if sum1 != sum2 {
		t.Errorf("checksum not deterministic: %q != %q", sum1, sum2)
	}
}

func TestPackStaleAfterFileModified(t *testing.T) {
	s, idx := setupWorkspace(t)
	tarPath := filepath.Join(t.TempDir(), "content.tar.gz")
	p := New(tarPath)

	if err := p.Pack(s, idx); err != nil {
		t.Fatalf("Pack: %v", err)
	}
	if p.Stale(idx) {
		t.Errorf("expected freshly packed tarball to not be stale")
	}

	future := p.Modified().Add(time.Hour)
	idx.Get("main.tex").ModTime = future
	if !p.Stale(idx) {
		t.Errorf("expected tarball to be stale after a file's mtime advanced past it")
	}
}

func TestPackRemove(t *testing.T) {
	s, idx := setupWorkspace(t)
	tarPath := filepath.Join(t.TempDir(), "content.tar.gz")
	p := New(tarPath)

	if err := p.Pack(s, idx); err != nil {
		t.Fatalf("Pack: %v", err)
	}
	if err := p.Remove(); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if p.Exists() {
		t.Errorf("expected package to not exist after Remove")
	}
	if _, err := os.Stat(tarPath); !os.IsNotExist(err) {
		t.Errorf("expected tarPath to be gone, stat err = %v", err)
	}
}
