package filter

import (
	"strings"

	"github.com/1-to-100/baseplate-v3-sub003/internal/entity"
)

// Matches evaluates the spec against a single company in memory, with the
// exact semantics the compiled predicates produce against the store. All
// active dimensions must hold. An inactive spec matches nothing.
func Matches(c *entity.Company, spec Spec) bool {
	if !spec.Active() {
		return false
	}
	if spec.Search != "" && !matchesSearch(c, spec.Search) {
		return false
	}
	if len(spec.Countries) > 0 && !containsString(spec.Countries, deref(c.Country)) {
		return false
	}
	if len(spec.Regions) > 0 && !containsString(spec.Regions, deref(c.Region)) {
		return false
	}
	employees := 0
	if c.Employees != nil {
		employees = *c.Employees
	}
	// A bound of 0 disables that side of the range check.
	if spec.MinEmployees != nil && *spec.MinEmployees > 0 && employees < *spec.MinEmployees {
		return false
	}
	if spec.MaxEmployees != nil && *spec.MaxEmployees > 0 && employees > *spec.MaxEmployees {
		return false
	}
	if len(spec.Categories) > 0 && !categoriesOverlap(spec.Categories, c.Categories) {
		return false
	}
	if len(spec.Technologies) > 0 && !foldOverlap(spec.Technologies, c.Technologies) {
		return false
	}
	return true
}

func matchesSearch(c *entity.Company, search string) bool {
	needle := strings.ToLower(search)
	if strings.Contains(strings.ToLower(c.Name()), needle) {
		return true
	}
	return c.Domain != nil && strings.Contains(strings.ToLower(*c.Domain), needle)
}

// categoriesOverlap compares Title-Cased filter values against the company's
// categories. Stored categories are Title Case in the source of truth, but
// the company side is re-normalized here so a stale row cannot flip the
// outcome relative to the pushdown path.
func categoriesOverlap(filterValues, companyValues []string) bool {
	for _, cv := range companyValues {
		titled := TitleCase(cv)
		for _, fv := range filterValues {
			if titled == fv {
				return true
			}
		}
	}
	return false
}

// foldOverlap reports a case-insensitive non-empty intersection.
func foldOverlap(filterValues, companyValues []string) bool {
	for _, cv := range companyValues {
		for _, fv := range filterValues {
			if strings.EqualFold(cv, fv) {
				return true
			}
		}
	}
	return false
}

func containsString(values []string, target string) bool {
	if target == "" {
		return false
	}
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
