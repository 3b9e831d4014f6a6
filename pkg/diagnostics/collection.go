package diagnostics

// Readiness describes the workspace's aggregate gate status, derived purely
// from the persistant diagnostics currently attached to the workspace and
// its non-removed files.
type Readiness uint8

const (
	// ReadinessReady indicates no warnings or fatal diagnostics.
	ReadinessReady Readiness = iota
	// ReadinessReadyWithWarnings indicates at least one warning but no
	// persistant fatal diagnostics.
	ReadinessReadyWithWarnings
	// ReadinessErrors indicates at least one persistant fatal diagnostic.
	ReadinessErrors
)

// String returns the wire-stable representation of a readiness value.
func (r Readiness) String() string {
	switch r {
	case ReadinessReady:
		return "ready"
	case ReadinessReadyWithWarnings:
		return "ready_with_warnings"
	case ReadinessErrors:
		return "errors"
	default:
		return "unknown"
	}
}

// Collection is an ordered, per-path grouping of diagnostics. It is used
// both for a single file's diagnostic list and for workspace-level
// diagnostics (under the empty path key). Adding a diagnostic with a code
// that already exists for a path replaces the prior entry, giving callers
// idempotent re-evaluation across repeated check passes.
type Collection struct {
	// order preserves path insertion order so that iteration is
	// deterministic.
	order []string
	// byPath holds, for each path, diagnostics keyed by code in insertion
	// order.
	byPath map[string][]Diagnostic
}

// NewCollection creates an empty diagnostic collection.
func NewCollection() *Collection {
	return &Collection{
		byPath: make(map[string][]Diagnostic),
	}
}

// Add appends or replaces (by code) a diagnostic for the given path.
func (c *Collection) Add(d Diagnostic) {
	existing, ok := c.byPath[d.Path]
	if !ok {
		c.order = append(c.order, d.Path)
	}
	for i := range existing {
		if existing[i].Code == d.Code {
			existing[i] = d
			c.byPath[d.Path] = existing
			return
		}
	}
	c.byPath[d.Path] = append(existing, d)
}

// Remove deletes a diagnostic for the given path and code, if present. It
// returns true if a diagnostic was removed.
func (c *Collection) Remove(path string, code Code) bool {
	existing, ok := c.byPath[path]
	if !ok {
		return false
	}
	for i := range existing {
		if existing[i].Code == code {
			c.byPath[path] = append(existing[:i], existing[i+1:]...)
			return true
		}
	}
	return false
}

// ClearNonPersistant removes every diagnostic that is not marked persistant,
// across all paths. This is invoked at the start of each check pass.
func (c *Collection) ClearNonPersistant() {
	for _, path := range c.order {
		existing := c.byPath[path]
		kept := existing[:0]
		for _, d := range existing {
			if d.Persistant {
				kept = append(kept, d)
			}
		}
		c.byPath[path] = kept
	}
}

// ClearPath removes every diagnostic (persistant or not) for a single path.
// Used when a file is removed or deleted from the index.
func (c *Collection) ClearPath(path string) {
	delete(c.byPath, path)
}

// ForPath returns the diagnostics currently attached to the given path, in
// insertion order. The returned slice must not be mutated.
func (c *Collection) ForPath(path string) []Diagnostic {
	return c.byPath[path]
}

// All returns every diagnostic across every path, in path-insertion order
// and then per-path insertion order.
func (c *Collection) All() []Diagnostic {
	var result []Diagnostic
	for _, path := range c.order {
		result = append(result, c.byPath[path]...)
	}
	return result
}

// Readiness derives the aggregate readiness from the diagnostics currently
// held: errors iff any persistant fatal diagnostic is present;
// ready_with_warnings iff no fatal diagnostics but at least one warning;
// ready otherwise.
func (c *Collection) Readiness() Readiness {
	sawWarning := false
	for _, path := range c.order {
		for _, d := range c.byPath[path] {
			if d.Severity == SeverityFatal && d.Persistant {
				return ReadinessErrors
			}
			if d.Severity == SeverityWarning {
				sawWarning = true
			}
		}
	}
	if sawWarning {
		return ReadinessReadyWithWarnings
	}
	return ReadinessReady
}
