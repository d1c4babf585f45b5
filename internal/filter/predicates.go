package filter

// Predicate ops understood by the store. The compiler emits plain operation
// descriptors instead of chaining a query builder so predicate construction
// stays decoupled from whichever store interprets them.
const (
	OpSubstringOr   = "substring_or"
	OpEq            = "eq"
	OpIn            = "in"
	OpGte           = "gte"
	OpLte           = "lte"
	OpArrayOverlaps = "array_overlaps"
	OpArrayContains = "array_contains"
)

// Logical field names carried by predicates. The store maps them onto its
// own columns; in particular FieldName coalesces display and legal names and
// FieldEmployees treats a missing count as zero, so pushdown decisions match
// the in-memory evaluator exactly.
const (
	FieldName         = "name"
	FieldDomain       = "domain"
	FieldCountry      = "country"
	FieldRegion       = "region"
	FieldEmployees    = "employees"
	FieldCategories   = "categories"
	FieldTechnologies = "technologies"
)

// Predicate is one store operation. Which members are set depends on Op:
// substring ops use Fields+Text, membership ops use Field+Values, range ops
// use Field+Number.
type Predicate struct {
	Op     string
	Field  string
	Fields []string
	Text   string
	Values []string
	Number int
}

// Sort orders the result set. Column names are the logical fields above plus
// the timestamp columns.
type Sort struct {
	Column    string
	Ascending bool
}

// DefaultSort is newest-first on creation time.
func DefaultSort() Sort {
	return Sort{Column: "created_at", Ascending: false}
}

// Range is an inclusive row window.
type Range struct {
	From int
	To   int
}

// PageRange converts a 1-indexed page and limit into an inclusive window.
func PageRange(page, limit int) Range {
	if page < 1 {
		page = 1
	}
	from := (page - 1) * limit
	return Range{From: from, To: from + limit - 1}
}

// Compile translates a spec into store predicates observably equivalent to
// Matches. Inactive dimensions emit nothing.
func Compile(spec Spec) []Predicate {
	var preds []Predicate

	if spec.Search != "" {
		preds = append(preds, Predicate{
			Op:     OpSubstringOr,
			Fields: []string{FieldName, FieldDomain},
			Text:   spec.Search,
		})
	}
	preds = appendMembership(preds, FieldCountry, spec.Countries)
	preds = appendMembership(preds, FieldRegion, spec.Regions)

	// Bounds of 0 are inert, matching the evaluator's range check.
	if spec.MinEmployees != nil && *spec.MinEmployees > 0 {
		preds = append(preds, Predicate{Op: OpGte, Field: FieldEmployees, Number: *spec.MinEmployees})
	}
	if spec.MaxEmployees != nil && *spec.MaxEmployees > 0 {
		preds = append(preds, Predicate{Op: OpLte, Field: FieldEmployees, Number: *spec.MaxEmployees})
	}

	if len(spec.Categories) > 0 {
		preds = append(preds, Predicate{Op: OpArrayOverlaps, Field: FieldCategories, Values: spec.Categories})
	}
	if len(spec.Technologies) > 0 {
		preds = append(preds, Predicate{Op: OpArrayOverlaps, Field: FieldTechnologies, Values: spec.Technologies})
	}
	return preds
}

func appendMembership(preds []Predicate, field string, values []string) []Predicate {
	switch len(values) {
	case 0:
		return preds
	case 1:
		return append(preds, Predicate{Op: OpEq, Field: field, Values: values})
	default:
		return append(preds, Predicate{Op: OpIn, Field: field, Values: values})
	}
}
