package storage

import (
	"archive/zip"
	"bytes"
	"io"
	"os"
)

// ustarMagic is the magic string found at offset 257 in a POSIX tar header
// block, used to recognize tar archives independent of file extension.
var ustarMagic = []byte("ustar")

// probeTar reports whether r looks like a POSIX tar archive by inspecting
// the ustar magic at header offset 257, restoring the read position
// afterward when r is seekable.
func probeTar(f *os.File) bool {
	defer f.Seek(0, io.SeekStart)
	header := make([]byte, 263)
	n, err := f.ReadAt(header, 0)
	if err != nil && err != io.EOF {
		return false
	}
	if n < 263 {
		return false
	}
	return bytes.Equal(header[257:262], ustarMagic)
}

// probeZip reports whether f is readable as a ZIP archive by attempting to
// open a zip.Reader over it.
func probeZip(f *os.File) bool {
	defer f.Seek(0, io.SeekStart)
	info, err := f.Stat()
	if err != nil {
		return false
	}
	_, err = zip.NewReader(f, info.Size())
	return err == nil
}
