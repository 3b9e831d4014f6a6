package sourcetype

import (
	"testing"

	"github.com/arxiv/filemanager/pkg/filetype"
)

func TestInferOverallAllIgnoreIsInvalid(t *testing.T) {
	c := Counts{}
	c.CountFile(filetype.Ignore, false, false)
	c.CountFile(filetype.Ignore, false, false)
	if got := InferOverall(c); got != Invalid {
		t.Errorf("InferOverall = %q, want %q", got, Invalid)
	}
}

func TestInferOverallDefaultsToTeX(t *testing.T) {
	c := Counts{}
	c.CountFile(filetype.Latex2e, false, false)
	c.CountFile(filetype.TeXAux, false, false)
	if got := InferOverall(c); got != TeX {
		t.Errorf("InferOverall = %q, want %q", got, TeX)
	}
}

func TestInferOverallHTML(t *testing.T) {
	c := Counts{}
	c.CountFile(filetype.HTML, false, false)
	c.CountFile(filetype.Image, false, false)
	if got := InferOverall(c); got != HTML {
		t.Errorf("InferOverall = %q, want %q", got, HTML)
	}
}

func TestInferOverallPostscript(t *testing.T) {
	c := Counts{}
	c.CountFile(filetype.Postscript, false, false)
	c.CountFile(filetype.PDF, false, false)
	if got := InferOverall(c); got != Postscript {
		t.Errorf("InferOverall = %q, want %q", got, Postscript)
	}
}

func TestInferOverallNoActiveFilesIsInvalid(t *testing.T) {
	c := Counts{}
	c.CountFile(filetype.Latex2e, true, false) // ancillary only
	if got := InferOverall(c); got != Invalid {
		t.Errorf("InferOverall = %q, want %q", got, Invalid)
	}
}

func TestInferSingleFile(t *testing.T) {
	tests := []struct {
		t    filetype.FileType
		anc  bool
		want SourceType
	}{
		{filetype.Latex2e, false, TeX},
		{filetype.Postscript, false, Postscript},
		{filetype.PDF, false, PDF},
		{filetype.HTML, false, HTML},
		{filetype.Failed, false, Invalid},
		{filetype.Latex2e, true, Invalid},
	}
	for _, tt := range tests {
		if got := InferSingleFile(tt.t, tt.anc); got != tt.want {
			t.Errorf("InferSingleFile(%q, %v) = %q, want %q", tt.t, tt.anc, got, tt.want)
		}
	}
}
