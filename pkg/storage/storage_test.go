package storage

import (
	"os"
	"path/filepath"
	"testing"
)

var (
	_ Adapter = (*Simple)(nil)
	_ Adapter = (*Quarantine)(nil)
)

func TestSimpleIsSafeRejectsEscape(t *testing.T) {
	s := NewSimple(t.TempDir())
	cases := []struct {
		rel  string
		safe bool
	}{
		{"main.tex", true},
		{"sub/dir/file.tex", true},
		{"../../etc/passwd", false},
		{"/etc/passwd", false},
		{"a/../../b", false},
		{"", false},
	}
	for _, c := range cases {
		got := s.IsSafe(Path{Area: AreaSource, Rel: c.rel})
		if got != c.safe {
			t.Errorf("IsSafe(%q) = %v, want %v", c.rel, got, c.safe)
		}
	}
}

func TestSimpleCreateWriteReadRoundTrip(t *testing.T) {
	s := NewSimple(t.TempDir())
	p := Path{Area: AreaSource, Rel: "dir/main.tex"}

	f, err := s.Create(p)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := f.WriteString("hello"); err != nil {
		t.Fatalf("Write: %v", err)
	}
	f.Close()

	if !s.Exists(p) {
		t.Fatal("expected file to exist after Create")
	}
	size, err := s.Size(p)
	if err != nil {
		t.Fatalf("Size: %v", err)
	}
	if size != 5 {
		t.Errorf("Size = %d, want 5", size)
	}

	info, err := os.Stat(s.FullPath(p))
	if err != nil {
		t.Fatalf("stat full path: %v", err)
	}
	if info.Mode().Perm() != FilePermissions {
		t.Errorf("mode = %v, want %v", info.Mode().Perm(), FilePermissions)
	}
}

func TestSimpleCreateRejectsUnsafePath(t *testing.T) {
	s := NewSimple(t.TempDir())
	_, err := s.Create(Path{Area: AreaSource, Rel: "../escape.tex"})
	if err == nil {
		t.Fatal("expected error for unsafe path")
	}
}

func TestSimpleRemoveMovesToRemovedArea(t *testing.T) {
	s := NewSimple(t.TempDir())
	p := Path{Area: AreaSource, Rel: "sub/bad.dvi"}
	f, err := s.Create(p)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	f.Close()

	newRel, err := s.Remove(p)
	if err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if s.Exists(p) {
		t.Error("expected original path to no longer exist")
	}
	if !s.Exists(Path{Area: AreaRemoved, Rel: newRel}) {
		t.Error("expected flattened path to exist in removed area")
	}
}

func TestSimpleRemoveCollisionGetsSuffix(t *testing.T) {
	s := NewSimple(t.TempDir())
	// Both paths flatten to "sub_a.tex" in the removed area.
	a := Path{Area: AreaSource, Rel: "sub_a.tex"}
	b := Path{Area: AreaSource, Rel: "sub/a.tex"}
	for _, p := range []Path{a, b} {
		f, err := s.Create(p)
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		f.Close()
	}
	relA, err := s.Remove(a)
	if err != nil {
		t.Fatalf("remove a: %v", err)
	}
	relB, err := s.Remove(b)
	if err != nil {
		t.Fatalf("remove b: %v", err)
	}
	if relA == relB {
		t.Errorf("expected distinct removed names, got %q and %q", relA, relB)
	}
	if relB != "sub_a_1.tex" {
		t.Errorf("second removal = %q, want %q", relB, "sub_a_1.tex")
	}
}

func TestQuarantinePersistPromotesToMainRoot(t *testing.T) {
	base := t.TempDir()
	staging := t.TempDir()
	q := NewQuarantine(base, staging)

	p := Path{Area: AreaSource, Rel: "main.tex"}
	f, err := q.Create(p)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	f.WriteString("content")
	f.Close()

	if _, err := os.Stat(filepath.Join(base, "src", "main.tex")); !os.IsNotExist(err) {
		t.Fatal("expected file to not yet exist in main root before Persist")
	}

	if err := q.Persist(p); err != nil {
		t.Fatalf("Persist: %v", err)
	}
	if _, err := os.Stat(filepath.Join(base, "src", "main.tex")); err != nil {
		t.Fatalf("expected file in main root after Persist: %v", err)
	}
}

func TestSimpleCmp(t *testing.T) {
	s := NewSimple(t.TempDir())
	a := Path{Area: AreaSource, Rel: "a.tex"}
	b := Path{Area: AreaSource, Rel: "b.tex"}
	c := Path{Area: AreaSource, Rel: "c.tex"}
	write := func(p Path, content string) {
		f, err := s.Create(p)
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		f.WriteString(content)
		f.Close()
	}
	write(a, "same content")
	write(b, "same content")
	write(c, "different content")

	same, err := s.Cmp(a, b)
	if err != nil {
		t.Fatalf("Cmp: %v", err)
	}
	if !same {
		t.Error("expected a and b to compare equal")
	}
	diff, err := s.Cmp(a, c)
	if err != nil {
		t.Fatalf("Cmp: %v", err)
	}
	if diff {
		t.Error("expected a and c to compare unequal")
	}
}
