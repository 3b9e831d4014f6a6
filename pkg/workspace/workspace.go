// Package workspace implements the aggregate that owns a single
// submission's storage adapter, file index, and diagnostic collection: the
// "J" component of the engine, sitting atop pkg/storage, pkg/fileindex,
// pkg/check, pkg/sourcetype, and pkg/pack. A Workspace is the thing a
// hosting service creates once per upload_id and drives through its
// lifecycle (active -> released -> active, or active -> deleted).
package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"

	"github.com/arxiv/filemanager/pkg/check"
	"github.com/arxiv/filemanager/pkg/diagnostics"
	"github.com/arxiv/filemanager/pkg/fileindex"
	"github.com/arxiv/filemanager/pkg/logging"
	"github.com/arxiv/filemanager/pkg/pack"
	"github.com/arxiv/filemanager/pkg/sourcetype"
	"github.com/arxiv/filemanager/pkg/storage"
)

// Status is the workspace's lifecycle state.
type Status uint8

const (
	// StatusActive is the normal, writable state.
	StatusActive Status = iota
	// StatusReleased indicates the workspace has been handed off
	// (typically to the classic processing system) and refuses mutation
	// until unreleased.
	StatusReleased
	// StatusDeleted is a terminal state; a deleted workspace's storage has
	// been purged and only its retained source.log remains.
	StatusDeleted
)

// String returns the wire-stable representation of a status.
func (s Status) String() string {
	switch s {
	case StatusActive:
		return "active"
	case StatusReleased:
		return "released"
	case StatusDeleted:
		return "deleted"
	default:
		return "unknown"
	}
}

// LockState is the workspace's independent lock axis: a locked workspace
// refuses mutation regardless of Status, used to freeze a submission while
// it is under moderator review.
type LockState uint8

const (
	// LockUnlocked is the normal, writable state.
	LockUnlocked LockState = iota
	// LockLocked refuses mutating operations.
	LockLocked
)

// String returns the wire-stable representation of a lock state.
func (l LockState) String() string {
	if l == LockLocked {
		return "locked"
	}
	return "unlocked"
}

// ErrNotWritable is returned by every mutating operation when the
// workspace is locked or released.
var ErrNotWritable = errors.New("workspace_not_writable")

// ErrNotFound is returned by Open when no workspace exists at the given
// base directory for the given upload ID.
var ErrNotFound = errors.New("workspace_not_found")

// errRenameConflict indicates the index already held a different entry at
// Rename's destination path.
var errRenameConflict = errors.New("rename target already tracked")

// sourceLogName is the system-area file name of the append-only event log.
const sourceLogName = "source.log"

// ancillaryDirName is the storage-relative directory holding ancillary
// files within the source area.
const ancillaryDirName = "anc"

// Workspace is the aggregate root for a single submission. It implements
// check.Workspace so the checker pipeline can drive it directly, and
// additionally exposes the full upload/check/package lifecycle surface.
type Workspace struct {
	// mu serializes every mutating operation against this workspace,
	// matching a per-upload_id single-writer model. Read-only operations
	// (Status, LockState, Readiness, content download of an already-built
	// package) take the read side.
	mu sync.RWMutex

	uploadID string
	baseDir  string

	adapter storage.Adapter
	index   *fileindex.Index
	diags   *diagnostics.Collection

	sourceType sourcetype.SourceType
	status     Status
	lock       LockState

	strategy *check.Strategy
	pkg      *pack.Package
	log      *logging.Logger

	maxFileSize      int64
	maxWorkspaceSize int64
}

// Options configures a newly created Workspace.
type Options struct {
	// Quarantine selects the Quarantine storage adapter over Simple.
	Quarantine bool
	// Checkers overrides the default checker pipeline; nil means
	// check.DefaultCheckers().
	Checkers []check.Checker
	// MaxFileSize is the largest single file, in bytes, Create will admit.
	// Zero means no limit.
	MaxFileSize int64
	// MaxWorkspaceSize is the largest total source-area size, in bytes,
	// Create will admit. Zero means no limit.
	MaxWorkspaceSize int64
}

// root returns "<baseDir>/<uploadID>", the workspace's filesystem root.
func root(baseDir, uploadID string) string {
	return filepath.Join(baseDir, uploadID)
}

// Create initializes a brand-new, empty workspace on disk at
// "<baseDir>/<uploadID>" and returns it in the active, unlocked state.
func Create(baseDir, uploadID string, opts Options) (*Workspace, error) {
	r := root(baseDir, uploadID)
	if err := os.MkdirAll(r, storage.DirectoryPermissions); err != nil {
		return nil, errors.Wrap(err, "unable to create workspace root")
	}
	ws := newWorkspace(baseDir, uploadID, opts)
	ws.index = fileindex.New()
	ws.Log(fmt.Sprintf("workspace %s created", uploadID))
	return ws, nil
}

// Open loads an existing workspace at "<baseDir>/<uploadID>" from disk,
// rescanning its storage areas to rebuild the file index. Returns
// ErrNotFound if no such workspace root exists.
func Open(baseDir, uploadID string, opts Options) (*Workspace, error) {
	r := root(baseDir, uploadID)
	if info, err := os.Stat(r); err != nil || !info.IsDir() {
		return nil, ErrNotFound
	}
	ws := newWorkspace(baseDir, uploadID, opts)
	idx, err := fileindex.Scan(ws.adapter)
	if err != nil {
		return nil, errors.Wrap(err, "unable to scan workspace")
	}
	ws.index = idx
	ws.sourceType = sourcetype.InferOverall(ws.FileTypeCounts())
	return ws, nil
}

func newWorkspace(baseDir, uploadID string, opts Options) *Workspace {
	r := root(baseDir, uploadID)
	var adapter storage.Adapter
	if opts.Quarantine {
		adapter = storage.NewQuarantine(r, filepath.Join(baseDir, ".quarantine", uploadID))
	} else {
		adapter = storage.NewSimple(r)
	}
	checkers := opts.Checkers
	if checkers == nil {
		checkers = check.DefaultCheckers()
	}
	return &Workspace{
		uploadID:         uploadID,
		baseDir:          baseDir,
		adapter:          adapter,
		diags:            diagnostics.NewCollection(),
		status:           StatusActive,
		lock:             LockUnlocked,
		strategy:         check.NewStrategy(checkers...),
		pkg:              pack.New(filepath.Join(r, uploadID+".tar.gz")),
		log:              logging.RootLogger.Sublogger("workspace").Sublogger(uploadID),
		maxFileSize:      opts.MaxFileSize,
		maxWorkspaceSize: opts.MaxWorkspaceSize,
	}
}

// requireWritable returns ErrNotWritable if the workspace is locked or
// released. Callers must hold mu for writing before calling this.
func (w *Workspace) requireWritable() error {
	if w.lock == LockLocked || w.status != StatusActive {
		return ErrNotWritable
	}
	return nil
}

// UploadID returns the workspace's identifier.
func (w *Workspace) UploadID() string {
	return w.uploadID
}

// Status returns the workspace's current lifecycle status.
func (w *Workspace) Status() Status {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.status
}

// LockState returns the workspace's current lock state.
func (w *Workspace) LockState() LockState {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.lock
}

// Readiness derives the workspace's aggregate readiness from its currently
// held diagnostics as a pure function of that state.
func (w *Workspace) Readiness() diagnostics.Readiness {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.diags.Readiness()
}

// SourceTypeValue returns the workspace's currently recorded source type
// (SourceType is reserved for the check.Workspace interface method of the
// same name).
func (w *Workspace) SourceTypeValue() sourcetype.SourceType {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.sourceType
}

// Diagnostics returns every diagnostic currently attached to the
// workspace, across all paths.
func (w *Workspace) Diagnostics() []diagnostics.Diagnostic {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.diags.All()
}

// Lock transitions the workspace into the locked state, refusing further
// mutation until Unlock.
func (w *Workspace) Lock() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.lock = LockLocked
	w.appendSourceLog("workspace locked")
}

// Unlock transitions the workspace back into the unlocked state.
func (w *Workspace) Unlock() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.lock = LockUnlocked
	w.appendSourceLog("workspace unlocked")
}

// Release transitions an active workspace into the released state, used
// when ownership is handed to the classic processing system.
func (w *Workspace) Release() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.status == StatusActive {
		w.status = StatusReleased
		w.appendSourceLog("workspace released")
	}
}

// Unrelease transitions a released workspace back into the active state.
func (w *Workspace) Unrelease() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.status == StatusReleased {
		w.status = StatusActive
		w.appendSourceLog("workspace unreleased")
	}
}
