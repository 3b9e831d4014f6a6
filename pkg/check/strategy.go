package check

import (
	"github.com/arxiv/filemanager/pkg/fileindex"
)

// Strategy runs an ordered list of checkers to a fixed point, an ordered,
// idempotent check pipeline.
type Strategy struct {
	Checkers []Checker
}

// NewStrategy builds a Strategy from the given checkers, run in the order
// given.
func NewStrategy(checkers ...Checker) *Strategy {
	return &Strategy{Checkers: checkers}
}

// Run executes every checker in order against every live entry in ws's file
// index. Entries that a prior checker removed in this same pass are
// skipped for subsequent checkers, since a removed file has nothing left
// to check. Workspace-level checkers run once per checker, after every
// per-file entry has been visited for that checker.
func (s *Strategy) Run(ws Workspace) {
	for _, checker := range s.Checkers {
		s.runOne(ws, checker)
	}
}

func (s *Strategy) runOne(ws Workspace, checker Checker) {
	// Snapshot the entry list before running, since checkers may rename,
	// remove, or add entries (unpacking archives) as a side effect; we
	// still want a stable iteration order for this pass.
	entries := append([]*fileindex.UserFile(nil), ws.Files().All()...)
	for _, f := range entries {
		if f.IsRemoved() {
			continue
		}
		checker.Check(ws, f)
		if f.IsRemoved() {
			continue
		}
		if typed, ok := checker.(TypedChecker); ok {
			typed.CheckType(ws, f, f.Type)
		}
		if final, ok := checker.(FinalChecker); ok {
			final.CheckFinally(ws, f)
		}
	}
	if wsChecker, ok := checker.(WorkspaceChecker); ok {
		wsChecker.CheckWorkspace(ws)
	}
}

// RunUntilStable runs the strategy repeatedly until a full pass produces no
// further change to the file count or any path, up to maxPasses, mirroring
// the original system's repeated re-scan after unpacking nested archives.
func (s *Strategy) RunUntilStable(ws Workspace, maxPasses int) {
	for pass := 0; pass < maxPasses; pass++ {
		before := snapshotPaths(ws.Files())
		s.Run(ws)
		after := snapshotPaths(ws.Files())
		if equalPathSets(before, after) {
			return
		}
	}
}

func snapshotPaths(idx *fileindex.Index) []string {
	all := idx.All()
	paths := make([]string, len(all))
	for i, f := range all {
		paths[i] = f.Area.String() + ":" + f.Path
	}
	return paths
}

func equalPathSets(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	seen := make(map[string]int, len(a))
	for _, p := range a {
		seen[p]++
	}
	for _, p := range b {
		seen[p]--
	}
	for _, count := range seen {
		if count != 0 {
			return false
		}
	}
	return true
}
