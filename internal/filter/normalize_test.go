package filter

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/1-to-100/baseplate-v3-sub003/internal/dto"
)

func TestTitleCase(t *testing.T) {
	tests := map[string]struct {
		input    string
		expected string
	}{
		"lowercase words":     {"software development", "Software Development"},
		"all caps":            {"SAAS TOOLS", "Saas Tools"},
		"mixed case":          {"fInTech", "Fintech"},
		"hyphenated":          {"e-commerce", "E-Commerce"},
		"underscore is word":  {"real_estate", "Real_estate"},
		"digits start words":  {"3d printing", "3d Printing"},
		"leading punctuation": {"(beta) tools", "(Beta) Tools"},
		"empty":               {"", ""},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got := TitleCase(tt.input)
			if got != tt.expected {
				t.Fatalf("TitleCase(%q) = %q, want %q", tt.input, got, tt.expected)
			}
			if again := TitleCase(got); again != got {
				t.Fatalf("TitleCase not idempotent: %q -> %q", got, again)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	min := 10
	zero := 0

	tests := map[string]struct {
		raw      dto.RawCompanyFilter
		expected Spec
	}{
		"empty filter": {
			raw:      dto.RawCompanyFilter{},
			expected: Spec{},
		},
		"search trimmed": {
			raw:      dto.RawCompanyFilter{Search: "  acme  "},
			expected: Spec{Search: "acme"},
		},
		"empty array collapses to nil": {
			raw:      dto.RawCompanyFilter{Country: dto.FlexStrings{}},
			expected: Spec{},
		},
		"blank members dropped": {
			raw:      dto.RawCompanyFilter{Country: dto.FlexStrings{"  ", "US", ""}},
			expected: Spec{Countries: []string{"US"}},
		},
		"categories title cased": {
			raw:      dto.RawCompanyFilter{Categories: dto.FlexStrings{"software development", "FINTECH"}},
			expected: Spec{Categories: []string{"Software Development", "Fintech"}},
		},
		"bounds pass through": {
			raw:      dto.RawCompanyFilter{MinEmployees: &min, MaxEmployees: &zero},
			expected: Spec{MinEmployees: &min, MaxEmployees: &zero},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got := Normalize(tt.raw)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Fatalf("Normalize() = %+v, want %+v", got, tt.expected)
			}
		})
	}
}

func TestNormalize_ScalarAndArrayInput(t *testing.T) {
	scalar := []byte(`{"country": "US", "categories": "fintech"}`)
	array := []byte(`{"country": ["US"], "categories": ["fintech"]}`)

	var fromScalar, fromArray dto.RawCompanyFilter
	if err := json.Unmarshal(scalar, &fromScalar); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := json.Unmarshal(array, &fromArray); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !reflect.DeepEqual(Normalize(fromScalar), Normalize(fromArray)) {
		t.Fatalf("scalar and array forms should normalize identically: %+v vs %+v",
			Normalize(fromScalar), Normalize(fromArray))
	}
	if got := Normalize(fromScalar); !reflect.DeepEqual(got.Categories, []string{"Fintech"}) {
		t.Fatalf("unexpected categories: %+v", got.Categories)
	}
}

func TestSpecActive(t *testing.T) {
	zero := 0
	ten := 10

	tests := map[string]struct {
		spec     Spec
		expected bool
	}{
		"empty spec":           {Spec{}, false},
		"search":               {Spec{Search: "acme"}, true},
		"country":              {Spec{Countries: []string{"US"}}, true},
		"technology":           {Spec{Technologies: []string{"Go"}}, true},
		"positive lower bound": {Spec{MinEmployees: &ten}, true},
		"zero bounds inert":    {Spec{MinEmployees: &zero, MaxEmployees: &zero}, false},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			if got := tt.spec.Active(); got != tt.expected {
				t.Fatalf("Active() = %v, want %v", got, tt.expected)
			}
		})
	}
}
