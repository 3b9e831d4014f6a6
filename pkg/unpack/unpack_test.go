package unpack

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"compress/gzip"
	"testing"

	"github.com/arxiv/filemanager/pkg/storage"
)

func buildTar(t *testing.T, entries map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)
	for name, content := range entries {
		hdr := &tar.Header{Name: name, Mode: 0644, Size: int64(len(content)), Typeflag: tar.TypeReg}
		if err := tw.WriteHeader(hdr); err != nil {
			t.Fatalf("WriteHeader: %v", err)
		}
		if _, err := tw.Write([]byte(content)); err != nil {
			t.Fatalf("Write: %v", err)
		}
	}
	tw.Close()
	return buf.Bytes()
}

func TestExtractTarWritesRegularFiles(t *testing.T) {
	adapter := storage.NewSimple(t.TempDir())
	data := buildTar(t, map[string]string{"a.tex": "hello", "sub/b.tex": "world"})

	result := ExtractTar(adapter, storage.AreaSource, "", "archive.tar", bytes.NewReader(data))
	if result.ExtractedCount != 2 {
		t.Fatalf("ExtractedCount = %d, want 2, diagnostics: %+v", result.ExtractedCount, result.Diagnostics)
	}
	if !adapter.Exists(storage.Path{Area: storage.AreaSource, Rel: "a.tex"}) {
		t.Error("expected a.tex to be extracted")
	}
	if !adapter.Exists(storage.Path{Area: storage.AreaSource, Rel: "sub/b.tex"}) {
		t.Error("expected sub/b.tex to be extracted")
	}
}

func TestExtractTarRejectsPathTraversal(t *testing.T) {
	adapter := storage.NewSimple(t.TempDir())
	data := buildTar(t, map[string]string{"../../escape.tex": "evil"})

	result := ExtractTar(adapter, storage.AreaSource, "", "archive.tar", bytes.NewReader(data))
	if result.ExtractedCount != 0 {
		t.Errorf("ExtractedCount = %d, want 0", result.ExtractedCount)
	}
	if len(result.SkippedUnsafe) != 1 {
		t.Fatalf("SkippedUnsafe = %v, want one entry", result.SkippedUnsafe)
	}
}

func TestExtractTarRejectsSymlink(t *testing.T) {
	adapter := storage.NewSimple(t.TempDir())
	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)
	tw.WriteHeader(&tar.Header{Name: "link", Typeflag: tar.TypeSymlink, Linkname: "/etc/passwd"})
	tw.Close()

	result := ExtractTar(adapter, storage.AreaSource, "", "archive.tar", bytes.NewReader(buf.Bytes()))
	if len(result.SkippedEntity) != 1 {
		t.Fatalf("SkippedEntity = %v, want one entry", result.SkippedEntity)
	}
}

func TestGunzipThenTarExtracts(t *testing.T) {
	adapter := storage.NewSimple(t.TempDir())
	tarData := buildTar(t, map[string]string{"main.tex": "content"})

	var gz bytes.Buffer
	gw := gzip.NewWriter(&gz)
	gw.Write(tarData)
	gw.Close()

	result := GunzipThenTar(adapter, storage.AreaSource, "", "archive.tar.gz", bytes.NewReader(gz.Bytes()))
	if result.ExtractedCount != 1 {
		t.Fatalf("ExtractedCount = %d, want 1, diagnostics: %+v", result.ExtractedCount, result.Diagnostics)
	}
}

func TestExtractZipWritesFiles(t *testing.T) {
	adapter := storage.NewSimple(t.TempDir())
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	f, _ := zw.Create("doc.tex")
	f.Write([]byte("zip content"))
	zw.Close()

	result := ExtractZip(adapter, storage.AreaSource, "", "archive.zip", bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if result.ExtractedCount != 1 {
		t.Fatalf("ExtractedCount = %d, want 1, diagnostics: %+v", result.ExtractedCount, result.Diagnostics)
	}
	if !adapter.Exists(storage.Path{Area: storage.AreaSource, Rel: "doc.tex"}) {
		t.Error("expected doc.tex to be extracted")
	}
}

func TestExtractZipRejectsPathTraversal(t *testing.T) {
	adapter := storage.NewSimple(t.TempDir())
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	f, _ := zw.Create("../../escape.tex")
	f.Write([]byte("evil"))
	zw.Close()

	result := ExtractZip(adapter, storage.AreaSource, "", "archive.zip", bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if result.ExtractedCount != 0 {
		t.Errorf("ExtractedCount = %d, want 0", result.ExtractedCount)
	}
	if len(result.SkippedUnsafe) != 1 {
		t.Errorf("SkippedUnsafe = %v, want one entry", result.SkippedUnsafe)
	}
}
