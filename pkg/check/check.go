// Package check implements the ordered, idempotent checker pipeline that
// sanitizes and classifies a workspace's files: removing disallowed or
// hidden content, fixing malformed names, inferring file and source types,
// and flagging anything that can't be accepted.
package check

import (
	"github.com/arxiv/filemanager/pkg/diagnostics"
	"github.com/arxiv/filemanager/pkg/fileindex"
	"github.com/arxiv/filemanager/pkg/filetype"
	"github.com/arxiv/filemanager/pkg/sourcetype"
	"github.com/arxiv/filemanager/pkg/storage"
)

// Workspace is the surface a checker needs from its enclosing workspace.
// pkg/workspace implements this interface; pkg/check never imports
// pkg/workspace, keeping the dependency one-directional.
type Workspace interface {
	// Files returns the workspace's live file index.
	Files() *fileindex.Index
	// Storage returns the workspace's storage adapter, for checkers that
	// need to read or rewrite file content.
	Storage() storage.Adapter
	// AncillaryDir returns the storage-relative directory that holds
	// ancillary files (e.g. "anc").
	AncillaryDir() string

	// AddWarning attaches a warning diagnostic to path.
	AddWarning(path string, code diagnostics.Code, message string, persistant bool)
	// AddError attaches a fatal diagnostic to path, with the given
	// severity override (some "errors" in the original system are
	// recorded at info severity despite gating readiness via persistence).
	AddError(path string, code diagnostics.Code, message string, severity diagnostics.Severity, persistant bool)

	// Remove moves a file aside into the removed area, recording reason in
	// the source log.
	Remove(path, reason string) error
	// Rename moves a file to a new storage-relative path within its area.
	Rename(oldPath, newPath string) error
	// Exists reports whether a live (non-removed) file is tracked at path.
	Exists(path string) bool
	// FileCount returns the number of live (non-removed, non-directory,
	// non-ancillary) source files.
	FileCount() int
	// PromoteToAncillary moves a file currently tracked in the source area
	// into the ancillary area, used when a file is discovered nested under
	// the ancillary directory name within the source tree.
	PromoteToAncillary(path string) error

	// SetSourceTypeInvalid marks the workspace's overall source type as
	// invalid, used when a single disallowed file makes up the whole
	// submission.
	SetSourceTypeInvalid()
	// SourceType returns the workspace's currently recorded source type.
	SourceType() sourcetype.SourceType
	// SetSourceType sets the workspace's overall source type.
	SetSourceType(sourcetype.SourceType)
	// FileTypeCounts tallies live files by FileType, for the whole-workspace
	// source-type inference pass.
	FileTypeCounts() sourcetype.Counts
	// AddNonFileError attaches a workspace-level (not file-scoped) fatal
	// diagnostic.
	AddNonFileError(message string)
	// AddNonFileWarning attaches a workspace-level (not file-scoped) warning.
	AddNonFileWarning(message string)

	// Log appends an informational line to the workspace's append-only
	// event log.
	Log(message string)
}

// Checker is the interface every checker implements. Checkers are invoked
// once per file via Check, optionally refined by per-type dispatch (see
// TypedChecker), and may additionally implement WorkspaceChecker for
// whole-workspace passes that don't map onto a single file.
type Checker interface {
	// Name identifies the checker for logging and diagnostics testing; it
	// is not exposed to submitters.
	Name() string
	// Check runs the checker's per-file logic, mutating the file and
	// workspace as needed (renaming, removing, attaching diagnostics).
	Check(ws Workspace, f *fileindex.UserFile)
}

// TypedChecker is implemented by checkers whose behavior additionally
// depends on the file's inferred FileType, dispatched after Check.
type TypedChecker interface {
	// CheckType runs type-specific logic for f, given its current
	// filetype.FileType.
	CheckType(ws Workspace, f *fileindex.UserFile, t filetype.FileType)
}

// WorkspaceChecker is implemented by checkers that need to see the whole
// file set at once (e.g. to look for a sibling file) rather than one file
// in isolation.
type WorkspaceChecker interface {
	// CheckWorkspace runs once per pass for this checker, after this
	// checker's per-file calls have visited every file and before the next
	// checker starts.
	CheckWorkspace(ws Workspace)
}

// FinalChecker is implemented by checkers that need a last look at a file
// after their own Check and CheckType calls on that file.
type FinalChecker interface {
	// CheckFinally runs right after this checker's Check/CheckType for the
	// same file, before the checker moves on to the next file.
	CheckFinally(ws Workspace, f *fileindex.UserFile)
}
