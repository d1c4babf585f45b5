package filter

import (
	"strings"
	"unicode"

	"github.com/1-to-100/baseplate-v3-sub003/internal/dto"
)

// Normalize converts a raw, loosely-typed filter payload into a Spec.
// Empty arrays and absent fields collapse to the same inactive state since
// neither narrows results. Category values are Title-Cased here so the
// evaluator and the compiler compare against the same canonical form.
func Normalize(raw dto.RawCompanyFilter) Spec {
	spec := Spec{
		Search:       strings.TrimSpace(raw.Search),
		Countries:    compact(raw.Country),
		Regions:      compact(raw.Region),
		Technologies: compact(raw.Technologies),
	}
	if categories := compact(raw.Categories); len(categories) > 0 {
		titled := make([]string, len(categories))
		for i, c := range categories {
			titled[i] = TitleCase(c)
		}
		spec.Categories = titled
	}
	// Bounds pass through whenever supplied; zero is a present (if inert)
	// value, distinct from absent.
	spec.MinEmployees = raw.MinEmployees
	spec.MaxEmployees = raw.MaxEmployees
	return spec
}

// compact trims members and drops empties. A result of length zero
// normalizes to nil, the inactive state.
func compact(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// TitleCase lowercases the string and upcases the first letter of every
// word. Word starts follow \b\w semantics: a letter, digit, or underscore
// not preceded by another word character. Idempotent.
func TitleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevWord := false
	for _, r := range strings.ToLower(s) {
		isWord := unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
		if isWord && !prevWord {
			b.WriteRune(unicode.ToUpper(r))
		} else {
			b.WriteRune(r)
		}
		prevWord = isWord
	}
	return b.String()
}
