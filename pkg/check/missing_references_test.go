package check

import (
	"strings"
	"testing"

	"github.com/arxiv/filemanager/pkg/diagnostics"
)

func TestCheckForBibFileRemovesWhenBblPresent(t *testing.T) {
	ws := newFakeWorkspace(t)
	ws.addFile(t, "refs.bib", []byte("@article{key,}"))
	ws.addFile(t, "refs.bbl", []byte("\\bibitem{key}"))

	s := NewStrategy(CheckForBibFile{})
	s.Run(ws)

	f := ws.files.Get("refs.bib")
	if f == nil || !f.IsRemoved() {
		t.Fatalf("expected refs.bib to be removed when refs.bbl is present")
	}
}

func TestCheckForBibFileFatalWhenBblMissing(t *testing.T) {
	ws := newFakeWorkspace(t)
	ws.addFile(t, "refs.bib", []byte("@article{key,}"))

	s := NewStrategy(CheckForBibFile{})
	s.Run(ws)

	f := ws.files.Get("refs.bib")
	if f == nil || f.IsRemoved() {
		t.Fatalf("expected refs.bib to survive when no refs.bbl exists")
	}

	var fatal *diagnostics.Diagnostic
	for i := range ws.diagnostics {
		if ws.diagnostics[i].Code == diagnostics.CodeBblMissing && ws.diagnostics[i].Severity == diagnostics.SeverityFatal {
			fatal = &ws.diagnostics[i]
		}
	}
	if fatal == nil {
		t.Fatalf("expected a fatal bbl_missing diagnostic, got %+v", ws.diagnostics)
	}
	want := "Your submission contained refs.bib file, but no refs.bbl file"
	if !strings.HasPrefix(fatal.Message, want) {
		t.Errorf("message = %q, want prefix %q", fatal.Message, want)
	}
}
