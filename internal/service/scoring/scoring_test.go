package scoring

import (
	"encoding/json"
	"testing"
)

func TestParse(t *testing.T) {
	tests := map[string]struct {
		raw      string
		expected *Result
	}{
		"empty blob": {
			raw:      "",
			expected: nil,
		},
		"invalid json": {
			raw:      "{broken",
			expected: nil,
		},
		"non-object": {
			raw:      `[1, 2, 3]`,
			expected: nil,
		},
		"missing score": {
			raw:      `{"shortDescription": "looks good"}`,
			expected: nil,
		},
		"non-numeric score": {
			raw:      `{"score": "high"}`,
			expected: nil,
		},
		"score only": {
			raw:      `{"score": 42}`,
			expected: &Result{Score: 42},
		},
		"full payload": {
			raw: `{"score": 87.5, "shortDescription": " strong fit ", "fullDescription": "Matches the target profile."}`,
			expected: &Result{
				Score:            87.5,
				ShortDescription: "strong fit",
				FullDescription:  "Matches the target profile.",
			},
		},
		"non-string descriptions ignored": {
			raw:      `{"score": 10, "shortDescription": {"nested": true}}`,
			expected: &Result{Score: 10},
		},
		"extra keys ignored": {
			raw:      `{"score": 5, "model": "v3", "unrelated": [1]}`,
			expected: &Result{Score: 5},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got := Parse(json.RawMessage(tt.raw))
			if tt.expected == nil {
				if got != nil {
					t.Fatalf("expected nil result, got %+v", got)
				}
				return
			}
			if got == nil {
				t.Fatalf("expected %+v, got nil", tt.expected)
			}
			if *got != *tt.expected {
				t.Fatalf("got %+v, want %+v", got, tt.expected)
			}
		})
	}
}
