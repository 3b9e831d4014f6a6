package check

import "github.com/arxiv/filemanager/pkg/fileindex"

// CheckForUUEncodedFiles is reserved for decoding uuencoded file content.
// The original system never implemented this beyond a stub, absent
// evidence current submissions still use the format; this checker is kept
// in the pipeline for positional fidelity but performs no action.
type CheckForUUEncodedFiles struct{}

func (CheckForUUEncodedFiles) Name() string { return "check_for_uuencoded_files" }

func (CheckForUUEncodedFiles) Check(ws Workspace, f *fileindex.UserFile) {}
