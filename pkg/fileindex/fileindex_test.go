package fileindex

import (
	"testing"

	"github.com/arxiv/filemanager/pkg/filetype"
	"github.com/arxiv/filemanager/pkg/storage"
)

func TestIndexAddGetExists(t *testing.T) {
	idx := New()
	idx.Add(&UserFile{Path: "main.tex", Type: filetype.Latex2e})

	if !idx.Exists("main.tex") {
		t.Fatal("expected main.tex to exist")
	}
	f := idx.Get("main.tex")
	if f == nil || f.Type != filetype.Latex2e {
		t.Fatalf("unexpected Get result: %+v", f)
	}
	if idx.Exists("missing.tex") {
		t.Fatal("missing.tex should not exist")
	}
}

func TestIndexAddDeduplicatesByPath(t *testing.T) {
	idx := New()
	first := idx.Add(&UserFile{Path: "a.tex"})
	second := idx.Add(&UserFile{Path: "a.tex"})
	if first != second {
		t.Fatal("expected Add to return the same entry for a duplicate path")
	}
	if idx.Len() != 1 {
		t.Fatalf("Len = %d, want 1", idx.Len())
	}
}

func TestIndexRename(t *testing.T) {
	idx := New()
	idx.Add(&UserFile{Path: "old_name.tex"})
	if !idx.Rename("old_name.tex", "new-name.tex") {
		t.Fatal("Rename failed")
	}
	if idx.Exists("old_name.tex") {
		t.Error("old path should no longer exist")
	}
	if !idx.Exists("new-name.tex") {
		t.Error("new path should exist")
	}
}

func TestIndexDelete(t *testing.T) {
	idx := New()
	idx.Add(&UserFile{Path: "gone.tex"})
	idx.Delete("gone.tex")
	if idx.Exists("gone.tex") {
		t.Error("expected file to be deleted")
	}
	if idx.Len() != 0 {
		t.Errorf("Len = %d, want 0", idx.Len())
	}
}

func TestIndexViewsPartitionByAreaAndRemoval(t *testing.T) {
	idx := New()
	idx.Add(&UserFile{Path: "src1.tex", Area: storage.AreaSource})
	removed := idx.Add(&UserFile{Path: "src2.tex", Area: storage.AreaSource})
	removed.MarkRemoved("bad file")
	idx.Add(&UserFile{Path: "anc1.pdf", Area: storage.AreaAncillary})
	idx.Add(&UserFile{Path: "sub", Area: storage.AreaSource, IsDirectory: true})

	if got := len(idx.SourceFiles()); got != 1 {
		t.Errorf("SourceFiles len = %d, want 1", got)
	}
	if got := len(idx.AncillaryFiles()); got != 1 {
		t.Errorf("AncillaryFiles len = %d, want 1", got)
	}
	if got := len(idx.RemovedFiles()); got != 1 {
		t.Errorf("RemovedFiles len = %d, want 1", got)
	}
	if got := len(idx.Directories()); got != 1 {
		t.Errorf("Directories len = %d, want 1", got)
	}
	if got := len(idx.VisibleFiles()); got != 2 {
		t.Errorf("VisibleFiles len = %d, want 2", got)
	}
}

func TestUserFileNameExtDir(t *testing.T) {
	f := &UserFile{Path: "sub/dir/paper.tex"}
	if f.Name() != "paper.tex" {
		t.Errorf("Name = %q", f.Name())
	}
	if f.Ext() != ".tex" {
		t.Errorf("Ext = %q", f.Ext())
	}
	if f.Dir() != "sub/dir" {
		t.Errorf("Dir = %q", f.Dir())
	}
}

func TestExceedsMaxDepth(t *testing.T) {
	shallow := "a/b/c.tex"
	if ExceedsMaxDepth(shallow) {
		t.Error("shallow path should not exceed max depth")
	}
}

func TestScanPopulatesIndexFromStorage(t *testing.T) {
	base := t.TempDir()
	adapter := storage.NewSimple(base)

	p := storage.Path{Area: storage.AreaSource, Rel: "main.tex"}
	f, err := adapter.Create(p)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	f.WriteString("\\documentclass{article}\n\\begin{document}\nhi\n\\end{document}\n")
	f.Close()

	idx, err := Scan(adapter)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	entry := idx.Get("main.tex")
	if entry == nil {
		t.Fatal("expected main.tex in scanned index")
	}
	if entry.Type != filetype.Latex2e {
		t.Errorf("Type = %q, want %q", entry.Type, filetype.Latex2e)
	}
}
