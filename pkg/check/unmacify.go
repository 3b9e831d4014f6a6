package check

import (
	"bytes"
	"io"
	"os"

	"github.com/arxiv/filemanager/pkg/diagnostics"
	"github.com/arxiv/filemanager/pkg/fileindex"
	"github.com/arxiv/filemanager/pkg/storage"
)

// unmacify cleans up carriage returns in a text file generated on a Mac or
// Windows machine. A file containing "\r\n" is treated as PC-style and has
// the "\r" stripped; anything else containing "\r" is treated as Mac-style
// and has lone "\r" (or "\r\n") collapsed to "\n".
func unmacify(ws Workspace, f *fileindex.UserFile) {
	path := storage.Path{Area: f.Area, Rel: f.Path}
	content, err := readAll(ws, path)
	if err != nil {
		ws.AddError(f.Path, diagnostics.CodeStorageFailed, "unable to read file for line-ending cleanup",
			diagnostics.SeverityFatal, true)
		return
	}

	isPC := bytes.Contains(content, []byte("\r\n"))
	var fixed []byte
	if isPC {
		fixed = bytes.ReplaceAll(content, []byte("\r\n"), []byte("\n"))
	} else if bytes.Contains(content, []byte("\r")) {
		fixed = crToLF(content)
	} else {
		fixed = nil
	}

	if fixed != nil && !bytes.Equal(fixed, content) {
		if err := writeAll(ws, path, fixed); err != nil {
			ws.AddError(f.Path, diagnostics.CodeStorageFailed, "unable to write cleaned-up file",
				diagnostics.SeverityFatal, true)
			return
		}
		f.Size = int64(len(fixed))
	}

	checkFileTermination(ws, f)
}

// crToLF collapses lone "\r" and "\r\n" sequences to "\n", the Mac-style
// cleanup rule.
func crToLF(content []byte) []byte {
	out := make([]byte, 0, len(content))
	for i := 0; i < len(content); i++ {
		if content[i] == '\r' {
			out = append(out, '\n')
			if i+1 < len(content) && content[i+1] == '\n' {
				i++
			}
			continue
		}
		out = append(out, content[i])
	}
	return out
}

// checkFileTermination strips a trailing EOF/EOT/^Z byte left over from DOS
// or Mac editors and warns if the file doesn't end with a newline.
func checkFileTermination(ws Workspace, f *fileindex.UserFile) {
	path := storage.Path{Area: f.Area, Rel: f.Path}
	content, err := readAll(ws, path)
	if err != nil || len(content) < 2 {
		return
	}

	last := content[len(content)-1]
	prev := content[len(content)-2]
	isTerminator := func(b byte) bool { return b == 0x1A || b == 0x04 || b == 0xFF }

	truncated := content
	var msg string
	switch {
	case isTerminator(prev):
		truncated = content[:len(content)-2]
	case isTerminator(last):
		truncated = content[:len(content)-1]
	}
	if len(truncated) != len(content) {
		if isTerminator(prev) || isTerminator(last) {
			switch {
			case prev == 0x1A || last == 0x1A:
				msg += "trailing ^Z "
			}
			switch {
			case prev == 0x04 || last == 0x04:
				msg += "trailing ^D "
			}
			switch {
			case prev == 0xFF || last == 0xFF:
				msg += "trailing =FF "
			}
		}
		if err := writeAll(ws, path, truncated); err != nil {
			return
		}
		f.Size = int64(len(truncated))
		ws.AddWarning(f.Path, diagnostics.CodeFileTerminationStripped, msg+"stripped from "+f.Path+".", false)
		content = truncated
	}

	if len(content) > 0 && content[len(content)-1] != '\n' {
		ws.AddWarning(f.Path, diagnostics.CodeFileMissingNewline,
			"File '"+f.Path+"' does not end with newline (\\n), TRUNCATED?", false)
	}
}

func readAll(ws Workspace, p storage.Path) ([]byte, error) {
	handle, err := ws.Storage().Open(p, os.O_RDONLY)
	if err != nil {
		return nil, err
	}
	defer handle.Close()
	return io.ReadAll(handle)
}

func writeAll(ws Workspace, p storage.Path, content []byte) error {
	handle, err := ws.Storage().Create(p)
	if err != nil {
		return err
	}
	defer handle.Close()
	_, err = handle.Write(content)
	return err
}
