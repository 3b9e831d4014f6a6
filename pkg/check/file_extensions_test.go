package check

import (
	"testing"

	"github.com/arxiv/filemanager/pkg/filetype"
)

func TestFixFileExtensionsRenamesPostscriptToPs(t *testing.T) {
	ws := newFakeWorkspace(t)
	f := ws.addFile(t, "figure.eps", []byte("%!PS-Adobe-3.0"))
	f.Type = filetype.Postscript

	s := NewStrategy(FixFileExtensions{})
	s.Run(ws)

	if !ws.files.Exists("figure.ps") {
		t.Errorf("expected figure.eps to be renamed to figure.ps")
	}
	if ws.files.Exists("figure.eps") {
		t.Errorf("expected figure.eps to no longer exist under its old name")
	}
}

func TestFixFileExtensionsLeavesExistingPsAlone(t *testing.T) {
	ws := newFakeWorkspace(t)
	f := ws.addFile(t, "figure.ps", []byte("%!PS-Adobe-3.0"))
	f.Type = filetype.Postscript

	s := NewStrategy(FixFileExtensions{})
	s.Run(ws)

	if !ws.files.Exists("figure.ps") {
		t.Errorf("expected figure.ps to remain unchanged")
	}
	if len(ws.diagnostics) != 0 {
		t.Errorf("expected no rename diagnostic for a file already named .ps, got %+v", ws.diagnostics)
	}
}
