package filter

import (
	"strings"
	"testing"

	"github.com/1-to-100/baseplate-v3-sub003/internal/entity"
)

func TestCompile(t *testing.T) {
	tests := map[string]struct {
		spec     Spec
		expected []Predicate
	}{
		"inactive spec compiles to nothing": {
			spec:     Spec{MinEmployees: intPtr(0)},
			expected: nil,
		},
		"search over name and domain": {
			spec: Spec{Search: "acme"},
			expected: []Predicate{
				{Op: OpSubstringOr, Fields: []string{FieldName, FieldDomain}, Text: "acme"},
			},
		},
		"single country uses eq": {
			spec: Spec{Countries: []string{"US"}},
			expected: []Predicate{
				{Op: OpEq, Field: FieldCountry, Values: []string{"US"}},
			},
		},
		"multiple countries use in": {
			spec: Spec{Countries: []string{"US", "DE"}},
			expected: []Predicate{
				{Op: OpIn, Field: FieldCountry, Values: []string{"US", "DE"}},
			},
		},
		"employee range": {
			spec: Spec{MinEmployees: intPtr(10), MaxEmployees: intPtr(50)},
			expected: []Predicate{
				{Op: OpGte, Field: FieldEmployees, Number: 10},
				{Op: OpLte, Field: FieldEmployees, Number: 50},
			},
		},
		"zero bounds emit nothing": {
			spec:     Spec{MinEmployees: intPtr(0), MaxEmployees: intPtr(0)},
			expected: nil,
		},
		"arrays use overlap": {
			spec: Spec{Categories: []string{"Fintech"}, Technologies: []string{"Go"}},
			expected: []Predicate{
				{Op: OpArrayOverlaps, Field: FieldCategories, Values: []string{"Fintech"}},
				{Op: OpArrayOverlaps, Field: FieldTechnologies, Values: []string{"Go"}},
			},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got := Compile(tt.spec)
			if len(got) != len(tt.expected) {
				t.Fatalf("Compile() = %+v, want %+v", got, tt.expected)
			}
			for i := range got {
				if !predicatesEqual(got[i], tt.expected[i]) {
					t.Fatalf("predicate %d = %+v, want %+v", i, got[i], tt.expected[i])
				}
			}
		})
	}
}

func predicatesEqual(a, b Predicate) bool {
	if a.Op != b.Op || a.Field != b.Field || a.Text != b.Text || a.Number != b.Number {
		return false
	}
	if len(a.Fields) != len(b.Fields) || len(a.Values) != len(b.Values) {
		return false
	}
	for i := range a.Fields {
		if a.Fields[i] != b.Fields[i] {
			return false
		}
	}
	for i := range a.Values {
		if a.Values[i] != b.Values[i] {
			return false
		}
	}
	return true
}

// evalPredicate interprets a predicate against a company the way the store
// does: name coalesces display and legal names, a missing employee count is
// zero, and array overlaps fold case on both sides.
func evalPredicate(c *entity.Company, p Predicate) bool {
	switch p.Op {
	case OpSubstringOr:
		needle := strings.ToLower(p.Text)
		for _, field := range p.Fields {
			if strings.Contains(strings.ToLower(fieldText(c, field)), needle) {
				return true
			}
		}
		return false
	case OpEq, OpIn:
		value := fieldText(c, p.Field)
		if value == "" {
			return false
		}
		for _, v := range p.Values {
			if v == value {
				return true
			}
		}
		return false
	case OpGte:
		return fieldNumber(c, p.Field) >= p.Number
	case OpLte:
		return fieldNumber(c, p.Field) <= p.Number
	case OpArrayOverlaps:
		for _, member := range fieldArray(c, p.Field) {
			for _, v := range p.Values {
				if strings.EqualFold(member, v) {
					return true
				}
			}
		}
		return false
	case OpArrayContains:
		for _, v := range p.Values {
			found := false
			for _, member := range fieldArray(c, p.Field) {
				if member == v {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func fieldText(c *entity.Company, field string) string {
	switch field {
	case FieldName:
		return c.Name()
	case FieldDomain:
		return deref(c.Domain)
	case FieldCountry:
		return deref(c.Country)
	case FieldRegion:
		return deref(c.Region)
	default:
		return ""
	}
}

func fieldNumber(c *entity.Company, field string) int {
	if field == FieldEmployees && c.Employees != nil {
		return *c.Employees
	}
	return 0
}

func fieldArray(c *entity.Company, field string) []string {
	switch field {
	case FieldCategories:
		return c.Categories
	case FieldTechnologies:
		return c.Technologies
	default:
		return nil
	}
}

// TestCompileMatchesEvaluator checks that interpreting the compiled
// predicates over a fixture set lands on the same verdicts as the in-memory
// evaluator, for every active spec.
func TestCompileMatchesEvaluator(t *testing.T) {
	companies := []*entity.Company{
		fixtureCompany(),
		{
			DisplayName: "Globex GmbH",
			Domain:      strPtr("globex.de"),
			Country:     strPtr("DE"),
			Region:      strPtr("Bavaria"),
			Employees:   intPtr(45),
			Categories:  []string{"Manufacturing"},
		},
		{
			LegalName:    strPtr("Initech LLC"),
			Country:      strPtr("US"),
			Technologies: []string{"java", "Oracle"},
		},
		{
			DisplayName: "Hooli",
			Domain:      strPtr("hooli.com"),
			Employees:   intPtr(9000),
			Categories:  []string{"software development"},
		},
	}

	specs := map[string]Spec{
		"search":            {Search: "acme"},
		"search by domain":  {Search: ".de"},
		"country":           {Countries: []string{"US"}},
		"countries":         {Countries: []string{"US", "DE"}},
		"region":            {Regions: []string{"Bavaria"}},
		"range":             {MinEmployees: intPtr(40), MaxEmployees: intPtr(200)},
		"lower bound only":  {MinEmployees: intPtr(1)},
		"zero max inert":    {Countries: []string{"US", "DE"}, MaxEmployees: intPtr(0)},
		"categories":        {Categories: []string{"Software Development"}},
		"technologies fold": {Technologies: []string{"JAVA"}},
		"combined": {
			Search:       "o",
			Countries:    []string{"US", "DE"},
			MinEmployees: intPtr(10),
			Categories:   []string{"Manufacturing", "Software Development"},
		},
	}

	for name, spec := range specs {
		t.Run(name, func(t *testing.T) {
			preds := Compile(spec)
			if len(preds) == 0 {
				t.Fatalf("expected active spec to compile to predicates")
			}
			for i, company := range companies {
				pushdown := true
				for _, p := range preds {
					if !evalPredicate(company, p) {
						pushdown = false
						break
					}
				}
				if inMemory := Matches(company, spec); inMemory != pushdown {
					t.Fatalf("company %d: evaluator says %v, compiled predicates say %v", i, inMemory, pushdown)
				}
			}
		})
	}
}

func TestPageRange(t *testing.T) {
	tests := map[string]struct {
		page, limit int
		expected    Range
	}{
		"first page":       {1, 20, Range{From: 0, To: 19}},
		"second page":      {2, 20, Range{From: 20, To: 39}},
		"zero page clamps": {0, 10, Range{From: 0, To: 9}},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			if got := PageRange(tt.page, tt.limit); got != tt.expected {
				t.Fatalf("PageRange(%d, %d) = %+v, want %+v", tt.page, tt.limit, got, tt.expected)
			}
		})
	}
}

func TestDefaultSort(t *testing.T) {
	sort := DefaultSort()
	if sort.Column != "created_at" || sort.Ascending {
		t.Fatalf("unexpected default sort: %+v", sort)
	}
}
