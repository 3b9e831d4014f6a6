package check

import (
	"testing"

	"github.com/arxiv/filemanager/pkg/diagnostics"
	"github.com/arxiv/filemanager/pkg/fileindex"
	"github.com/arxiv/filemanager/pkg/sourcetype"
	"github.com/arxiv/filemanager/pkg/storage"
)

// fakeWorkspace is a minimal Workspace implementation backed by a real
// storage.Simple adapter and fileindex.Index, used to exercise checkers
// without importing pkg/workspace, which itself imports this package.
type fakeWorkspace struct {
	storage *storage.Simple
	files   *fileindex.Index
	source  sourcetype.SourceType

	diagnostics []diagnostics.Diagnostic
	nonFile     []string
	logs        []string
}

func newFakeWorkspace(t *testing.T) *fakeWorkspace {
	t.Helper()
	base := t.TempDir()
	s := storage.NewSimple(base)
	return &fakeWorkspace{storage: s, files: fileindex.New()}
}

func (w *fakeWorkspace) Files() *fileindex.Index      { return w.files }
func (w *fakeWorkspace) Storage() storage.Adapter      { return w.storage }
func (w *fakeWorkspace) AncillaryDir() string          { return "anc" }

func (w *fakeWorkspace) AddWarning(path string, code diagnostics.Code, message string, persistant bool) {
	w.diagnostics = append(w.diagnostics, diagnostics.Diagnostic{
		Severity: diagnostics.SeverityWarning, Code: code, Path: path, Message: message, Persistant: persistant,
	})
}

func (w *fakeWorkspace) AddError(path string, code diagnostics.Code, message string, severity diagnostics.Severity, persistant bool) {
	w.diagnostics = append(w.diagnostics, diagnostics.Diagnostic{
		Severity: severity, Code: code, Path: path, Message: message, Persistant: persistant,
	})
}

func (w *fakeWorkspace) Remove(path, reason string) error {
	f := w.files.Get(path)
	if f == nil {
		return nil
	}
	newRel, err := w.storage.Remove(storage.Path{Area: f.Area, Rel: f.Path})
	if err != nil {
		return err
	}
	oldPath := f.Path
	f.Area = storage.AreaRemoved
	f.Path = newRel
	f.MarkRemoved(reason)
	w.files.Rename(oldPath, f.Path)
	return nil
}

func (w *fakeWorkspace) Rename(oldPath, newPath string) error {
	f := w.files.Get(oldPath)
	if f == nil {
		return nil
	}
	if _, err := w.storage.Rename(storage.Path{Area: f.Area, Rel: oldPath}, newPath); err != nil {
		return err
	}
	w.files.Rename(oldPath, newPath)
	return nil
}

func (w *fakeWorkspace) Exists(path string) bool { return w.files.Exists(path) }

func (w *fakeWorkspace) FileCount() int {
	return len(w.files.SourceFiles())
}

func (w *fakeWorkspace) PromoteToAncillary(path string) error {
	f := w.files.Get(path)
	if f == nil {
		return nil
	}
	f.Area = storage.AreaAncillary
	return nil
}

func (w *fakeWorkspace) SetSourceTypeInvalid()              { w.source = sourcetype.Invalid }
func (w *fakeWorkspace) SourceType() sourcetype.SourceType   { return w.source }
func (w *fakeWorkspace) SetSourceType(t sourcetype.SourceType) { w.source = t }

func (w *fakeWorkspace) FileTypeCounts() sourcetype.Counts {
	var c sourcetype.Counts
	for _, f := range w.files.All() {
		if f.IsRemoved() {
			continue
		}
		c.CountFile(f.Type, f.IsAncillary(), f.IsDirectory)
	}
	return c
}

func (w *fakeWorkspace) AddNonFileError(message string)   { w.nonFile = append(w.nonFile, message) }
func (w *fakeWorkspace) AddNonFileWarning(message string) { w.nonFile = append(w.nonFile, message) }
func (w *fakeWorkspace) Log(message string)               { w.logs = append(w.logs, message) }

func (w *fakeWorkspace) addFile(t *testing.T, rel string, content []byte) *fileindex.UserFile {
	t.Helper()
	handle, err := w.storage.Create(storage.Path{Area: storage.AreaSource, Rel: rel})
	if err != nil {
		t.Fatalf("Create(%s): %v", rel, err)
	}
	if _, err := handle.Write(content); err != nil {
		t.Fatalf("Write(%s): %v", rel, err)
	}
	handle.Close()
	return w.files.Add(&fileindex.UserFile{Path: rel, Area: storage.AreaSource, Size: int64(len(content))})
}

var _ Workspace = (*fakeWorkspace)(nil)

func TestStrategyRunRemovesHiddenFiles(t *testing.T) {
	ws := newFakeWorkspace(t)
	ws.addFile(t, "__MACOSX/._foo", []byte("junk"))
	ws.files.Add(&fileindex.UserFile{Path: "__MACOSX", Area: storage.AreaSource, IsDirectory: true})
	ws.addFile(t, "paper.tex", []byte("\\documentclass{article}"))

	s := NewStrategy(RemoveMacOSXHiddenFiles{})
	s.Run(ws)

	dir := ws.files.Get("__MACOSX")
	if dir == nil || !dir.IsRemoved() {
		t.Errorf("expected __MACOSX directory entry to be flagged removed")
	}
	if !ws.files.Exists("paper.tex") {
		t.Errorf("expected unrelated file to remain")
	}
}

func TestStrategyRunDispatchesCheckType(t *testing.T) {
	ws := newFakeWorkspace(t)
	f := ws.addFile(t, "archive.rar", []byte("dummy"))
	f.Type = "rar"

	s := NewStrategy(FlagInvalidFileTypes{})
	s.Run(ws)

	found := false
	for _, d := range ws.diagnostics {
		if d.Code == diagnostics.CodeRarNotSupported && d.Severity == diagnostics.SeverityFatal {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a fatal rar_not_supported diagnostic, got %+v", ws.diagnostics)
	}
}

func TestStrategyZeroLengthFileFlagged(t *testing.T) {
	ws := newFakeWorkspace(t)
	ws.addFile(t, "empty.tex", nil)

	s := NewStrategy(ZeroLengthFileChecker{})
	s.Run(ws)

	if len(ws.diagnostics) == 0 {
		t.Errorf("expected a diagnostic for a zero-length file")
	}
}

func TestRunUntilStableConverges(t *testing.T) {
	ws := newFakeWorkspace(t)
	ws.addFile(t, "paper.tex", []byte("\\documentclass{article}"))

	s := NewStrategy(ZeroLengthFileChecker{})
	s.RunUntilStable(ws, 5)
}
