package check

import (
	"testing"

	"github.com/arxiv/filemanager/pkg/fileindex"
	"github.com/arxiv/filemanager/pkg/storage"
)

func TestRemoveTopLevelDirectoryUnwrapsSingleDirectory(t *testing.T) {
	ws := newFakeWorkspace(t)
	ws.files.Add(&fileindex.UserFile{Path: "submission", Area: storage.AreaSource, IsDirectory: true})
	ws.addFile(t, "submission/main.tex", []byte("\\documentclass{article}"))
	ws.addFile(t, "submission/fig/plot.pdf", []byte("%PDF-1.4"))

	s := NewStrategy(RemoveTopLevelDirectory{})
	s.Run(ws)

	if !ws.files.Exists("main.tex") {
		t.Errorf("expected main.tex to be promoted to the root")
	}
	if !ws.files.Exists("fig/plot.pdf") {
		t.Errorf("expected fig/plot.pdf to be promoted to the root")
	}
	dir := ws.files.Get("submission")
	if dir == nil || !dir.IsRemoved() {
		t.Errorf("expected the wrapper directory to be flagged removed")
	}
}

func TestRemoveTopLevelDirectoryLeavesFlatSubmissionAlone(t *testing.T) {
	ws := newFakeWorkspace(t)
	ws.addFile(t, "main.tex", []byte("\\documentclass{article}"))
	ws.addFile(t, "refs.bbl", []byte("\\bibitem{a}"))

	s := NewStrategy(RemoveTopLevelDirectory{})
	s.Run(ws)

	if !ws.files.Exists("main.tex") || !ws.files.Exists("refs.bbl") {
		t.Errorf("expected flat submission's files to be untouched")
	}
}

func TestRemoveTopLevelDirectoryIgnoresMultipleTopLevelEntries(t *testing.T) {
	ws := newFakeWorkspace(t)
	ws.files.Add(&fileindex.UserFile{Path: "a", Area: storage.AreaSource, IsDirectory: true})
	ws.files.Add(&fileindex.UserFile{Path: "b", Area: storage.AreaSource, IsDirectory: true})
	ws.addFile(t, "a/one.tex", []byte("\\documentclass{article}"))
	ws.addFile(t, "b/two.tex", []byte("\\documentclass{article}"))

	s := NewStrategy(RemoveTopLevelDirectory{})
	s.Run(ws)

	if !ws.files.Exists("a/one.tex") || !ws.files.Exists("b/two.tex") {
		t.Errorf("expected files under multiple top-level directories to be left alone")
	}
}
