// Package filter holds the canonical company filter representation together
// with its two evaluation backends: an in-memory predicate evaluator and a
// pushdown query compiler. The two must agree on every decision; any change
// to one side has to land on the other in the same commit.
package filter

// Spec is the normalized form of a company filter. A nil/empty slice or nil
// bound means the dimension does not narrow results. Categories are stored
// Title-Cased; search text is stored trimmed.
type Spec struct {
	Search       string
	Countries    []string
	Regions      []string
	MinEmployees *int
	MaxEmployees *int
	Categories   []string
	Technologies []string
}

// Active reports whether any dimension narrows results. A dynamic list whose
// spec is inactive matches no company at all, never every company.
//
// An employee bound of exactly 0 does not count as active: the evaluator and
// compiler both disable the check when the bound is 0. Zero would be a
// legitimate lower bound in principle, so callers relying on the current
// semantics should be consulted before changing it.
func (s Spec) Active() bool {
	if s.Search != "" {
		return true
	}
	if len(s.Countries) > 0 || len(s.Regions) > 0 || len(s.Categories) > 0 || len(s.Technologies) > 0 {
		return true
	}
	if s.MinEmployees != nil && *s.MinEmployees > 0 {
		return true
	}
	if s.MaxEmployees != nil && *s.MaxEmployees > 0 {
		return true
	}
	return false
}
