package check

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/arxiv/filemanager/pkg/diagnostics"
	"github.com/arxiv/filemanager/pkg/filetype"
)

func buildDosEPS(psOffset, psLength, tiffOffset, tiffLength int32, total int) []byte {
	buf := make([]byte, total)
	copy(buf[0:4], []byte{0xC5, 0xD0, 0xD3, 0xC6})
	binary.LittleEndian.PutUint32(buf[4:8], uint32(psOffset))
	binary.LittleEndian.PutUint32(buf[8:12], uint32(psLength))
	binary.LittleEndian.PutUint32(buf[20:24], uint32(tiffOffset))
	binary.LittleEndian.PutUint32(buf[24:28], uint32(tiffLength))
	if int(psOffset) < len(buf) {
		copy(buf[psOffset:], []byte("%!PS-Adobe-3.0 EPSF-3.0\n"))
	}
	return buf
}

func TestRepairDOSEPSFilesStripsLeadingTIFF(t *testing.T) {
	ws := newFakeWorkspace(t)
	// TIFF occupies [28,38), PostScript follows starting at 38: leading preview.
	content := buildDosEPS(38, 12, 28, 10, 50)
	f := ws.addFile(t, "figure.eps", content)
	f.Type = filetype.DosEPS

	RepairDOSEPSFiles{}.CheckType(ws, f, filetype.DosEPS)

	var found *diagnostics.Diagnostic
	for i := range ws.diagnostics {
		if ws.diagnostics[i].Code == diagnostics.CodeDosEpsRepaired {
			found = &ws.diagnostics[i]
		}
	}
	if found == nil {
		t.Fatalf("expected a dos_eps_repaired diagnostic, got %+v", ws.diagnostics)
	}
	if found.Message != "leading TIFF preview stripped" {
		t.Errorf("message = %q, want %q", found.Message, "leading TIFF preview stripped")
	}
}

func TestRepairDOSEPSFilesStripsTrailingTIFF(t *testing.T) {
	ws := newFakeWorkspace(t)
	// PostScript occupies [28,38), TIFF follows starting at 38: trailing preview.
	content := buildDosEPS(28, 10, 38, 12, 50)
	f := ws.addFile(t, "figure.eps", content)
	f.Type = filetype.DosEPS

	RepairDOSEPSFiles{}.CheckType(ws, f, filetype.DosEPS)

	var found *diagnostics.Diagnostic
	for i := range ws.diagnostics {
		if ws.diagnostics[i].Code == diagnostics.CodeDosEpsRepaired {
			found = &ws.diagnostics[i]
		}
	}
	if found == nil {
		t.Fatalf("expected a dos_eps_repaired diagnostic, got %+v", ws.diagnostics)
	}
	if found.Message != "trailing TIFF preview stripped" {
		t.Errorf("message = %q, want %q", found.Message, "trailing TIFF preview stripped")
	}
}

func TestRepairDOSEPSFilesFallsBackWhenNoTIFF(t *testing.T) {
	ws := newFakeWorkspace(t)
	content := bytes.Repeat([]byte{0}, 30)
	copy(content[0:4], []byte{0xC5, 0xD0, 0xD3, 0xC6})
	f := ws.addFile(t, "figure.eps", content)
	f.Type = filetype.DosEPS

	RepairDOSEPSFiles{}.CheckType(ws, f, filetype.DosEPS)

	found := false
	for _, d := range ws.diagnostics {
		if d.Code == diagnostics.CodeDosEpsRepaired && d.Message == "Failed to strip TIFF preview" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a 'Failed to strip TIFF preview' diagnostic, got %+v", ws.diagnostics)
	}
}
