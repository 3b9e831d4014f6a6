package workspace

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/arxiv/filemanager/pkg/diagnostics"
	"github.com/arxiv/filemanager/pkg/sourcetype"
)

func newTestWorkspace(t *testing.T, id string) *Workspace {
	t.Helper()
	base := t.TempDir()
	ws, err := Create(base, id, Options{})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	return ws
}

func TestCreateAndGet(t *testing.T) {
	ws := newTestWorkspace(t, "0001")
	f, err := ws.Create("main.tex", CreateOptions{Content: bytes.NewBufferString("\\documentclass{article}\\begin{document}\\end{document}")})
	if err != nil {
		t.Fatalf("Create(main.tex): %v", err)
	}
	if f.Path != "main.tex" {
		t.Errorf("Path = %q, want main.tex", f.Path)
	}
	if got := ws.Get("main.tex"); got == nil {
		t.Fatalf("Get(main.tex) = nil")
	}
	if !ws.Exists("main.tex") {
		t.Errorf("Exists(main.tex) = false")
	}
}

func TestCreateRefusedWhenLocked(t *testing.T) {
	ws := newTestWorkspace(t, "0002")
	ws.Lock()
	if _, err := ws.Create("a.tex", CreateOptions{}); err != ErrNotWritable {
		t.Fatalf("Create while locked = %v, want ErrNotWritable", err)
	}
	ws.Unlock()
	if _, err := ws.Create("a.tex", CreateOptions{}); err != nil {
		t.Fatalf("Create after unlock: %v", err)
	}
}

func TestMutationRefusedWhenReleased(t *testing.T) {
	ws := newTestWorkspace(t, "0003")
	ws.Release()
	if ws.Status() != StatusReleased {
		t.Fatalf("Status = %v, want released", ws.Status())
	}
	if err := ws.PerformChecks(); err != ErrNotWritable {
		t.Fatalf("PerformChecks while released = %v, want ErrNotWritable", err)
	}
	if err := ws.PackContent(); err != ErrNotWritable {
		t.Fatalf("PackContent while released = %v, want ErrNotWritable", err)
	}
	ws.Unrelease()
	if ws.Status() != StatusActive {
		t.Fatalf("Status after Unrelease = %v, want active", ws.Status())
	}
}

func TestPerformChecksWellFormedTeXSubmission(t *testing.T) {
	ws := newTestWorkspace(t, "0004")
	mustCreate(t, ws, "main.tex", "\\documentclass{article}\n\\begin{document}\nhello\n\\end{document}\n")
	mustCreate(t, ws, "fig.pdf", "%PDF-1.4 fake content")
	mustCreate(t, ws, "refs.bbl", "\\bibitem{a} Some reference.\n")

	if err := ws.PerformChecks(); err != nil {
		t.Fatalf("PerformChecks: %v", err)
	}
	if got := ws.Readiness(); got != diagnostics.ReadinessReady {
		t.Errorf("Readiness = %v, want ready (diagnostics: %v)", got, ws.Diagnostics())
	}
	if got := ws.SourceTypeValue(); got != sourcetype.TeX {
		t.Errorf("SourceType = %v, want tex", got)
	}
}

func TestPerformChecksMissingBBL(t *testing.T) {
	ws := newTestWorkspace(t, "0005")
	mustCreate(t, ws, "main.tex", "\\documentclass{article}\\begin{document}\\end{document}\n")
	mustCreate(t, ws, "refs.bib", "@article{a, title={x}}\n")

	if err := ws.PerformChecks(); err != nil {
		t.Fatalf("PerformChecks: %v", err)
	}
	if got := ws.Readiness(); got != diagnostics.ReadinessErrors {
		t.Errorf("Readiness = %v, want errors", got)
	}

	mustCreate(t, ws, "refs.bbl", "\\bibitem{a} Some reference.\n")
	if err := ws.PerformChecks(); err != nil {
		t.Fatalf("second PerformChecks: %v", err)
	}
	if ws.Exists("refs.bib") {
		t.Errorf("expected refs.bib to be removed once refs.bbl is present")
	}
	if got := ws.Readiness(); got != diagnostics.ReadinessReady {
		t.Errorf("Readiness after adding bbl = %v, want ready", got)
	}
}

func TestDeleteAllThenReupload(t *testing.T) {
	ws := newTestWorkspace(t, "0006")
	mustCreate(t, ws, "main.tex", "\\documentclass{article}\\begin{document}\\end{document}")
	if err := ws.PerformChecks(); err != nil {
		t.Fatalf("PerformChecks: %v", err)
	}
	if err := ws.DeleteAll(); err != nil {
		t.Fatalf("DeleteAll: %v", err)
	}
	if len(ws.IterFiles(IterOptions{})) != 0 {
		t.Errorf("expected empty file listing after DeleteAll")
	}

	mustCreate(t, ws, "main.tex", "\\documentclass{article}\\begin{document}\\end{document}")
	if err := ws.PerformChecks(); err != nil {
		t.Fatalf("PerformChecks after reupload: %v", err)
	}
	if got := ws.SourceTypeValue(); got != sourcetype.TeX {
		t.Errorf("SourceType after reupload = %v, want tex", got)
	}
}

func TestPackAndChecksum(t *testing.T) {
	ws := newTestWorkspace(t, "0007")
	mustCreate(t, ws, "main.tex", "\\documentclass{article}\\begin{document}\\end{document}")

	sum1, err := ws.ContentChecksum()
	if err != nil {
		t.Fatalf("ContentChecksum: %v", err)
	}
	if !ws.ContentPackageExists() {
		t.Errorf("expected content package to exist after ContentChecksum")
	}

	sum2, err := ws.ContentChecksum()
	if err != nil {
		t.Fatalf("second ContentChecksum: %v", err)
	}
	if sum1 != sum2 {
		t.Errorf("checksum changed without a file mutation: %q != %q", sum1, sum2)
	}
}

func TestPackEmptyWorkspaceFails(t *testing.T) {
	ws := newTestWorkspace(t, "0008")
	if _, err := ws.ContentChecksum(); err == nil {
		t.Fatalf("expected ContentChecksum on empty workspace to fail")
	}
}

func TestDestroyRetainsLogAndPurgesRoot(t *testing.T) {
	base := t.TempDir()
	ws, err := Create(base, "0009", Options{})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	mustCreate(t, ws, "main.tex", "\\documentclass{article}\\begin{document}\\end{document}")

	if err := ws.Destroy(); err != nil {
		t.Fatalf("Destroy: %v", err)
	}
	if ws.Status() != StatusDeleted {
		t.Fatalf("Status after Destroy = %v, want deleted", ws.Status())
	}
	if _, err := os.Stat(root(base, "0009")); !os.IsNotExist(err) {
		t.Errorf("expected workspace root to be purged, stat err = %v", err)
	}
	retained := filepath.Join(base, deletedLogsDirName, zeroPaddedID("0009")+"_"+sourceLogName)
	if _, err := os.Stat(retained); err != nil {
		t.Errorf("expected retained log at %s, got stat err: %v", retained, err)
	}
}

func mustCreate(t *testing.T, ws *Workspace, path, content string) {
	t.Helper()
	if _, err := ws.Create(path, CreateOptions{Content: bytes.NewBufferString(content)}); err != nil {
		t.Fatalf("Create(%s): %v", path, err)
	}
}
