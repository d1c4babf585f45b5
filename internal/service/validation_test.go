package service

import (
	"errors"
	"testing"

	"github.com/1-to-100/baseplate-v3-sub003/internal/dto"
)

func TestNormalizeEmail(t *testing.T) {
	tests := map[string]struct {
		input     string
		expected  string
		expectErr bool
	}{
		"lowercased and trimmed": {" John.Doe@Example.COM ", "john.doe@example.com", false},
		"plus tag kept":          {"dev+leads@example.io", "dev+leads@example.io", false},
		"idn domain mapped":      {"info@münchen.de", "info@xn--mnchen-3ya.de", false},
		"missing at":             {"nobody.example.com", "", true},
		"blank":                  {"  ", "", true},
		"trailing at":            {"user@", "", true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := normalizeEmail(tt.input)
			if tt.expectErr {
				var validationErr ValidationError
				if !errors.As(err, &validationErr) {
					t.Fatalf("expected validation error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Fatalf("normalizeEmail(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNormalizePhone(t *testing.T) {
	tests := map[string]struct {
		input     string
		expected  string
		expectErr bool
	}{
		"national us number":  {"(415) 555-0123", "+14155550123", false},
		"already e164":        {"+14155550123", "+14155550123", false},
		"international":       {"+44 20 7946 0958", "+442079460958", false},
		"too short":           {"12345", "", true},
		"letters":             {"call me", "", true},
		"blank":               {"", "", true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := normalizePhone(tt.input)
			if tt.expectErr {
				var validationErr ValidationError
				if !errors.As(err, &validationErr) {
					t.Fatalf("expected validation error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Fatalf("normalizePhone(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNormalizeURL(t *testing.T) {
	tests := map[string]struct {
		input     string
		domain    string
		expected  string
		expectErr bool
	}{
		"scheme defaulted":    {"acme.io/about", "", "https://acme.io/about", false},
		"http kept":           {"http://acme.io", "", "http://acme.io", false},
		"linkedin accepted":   {"https://www.linkedin.com/company/acme", "linkedin.com", "https://www.linkedin.com/company/acme", false},
		"wrong domain":        {"https://facebook.com/acme", "linkedin.com", "", true},
		"unsupported scheme":  {"ftp://acme.io", "", "", true},
		"blank":               {" ", "", "", true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := normalizeURL(tt.input, tt.domain)
			if tt.expectErr {
				var validationErr ValidationError
				if !errors.As(err, &validationErr) {
					t.Fatalf("expected validation error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Fatalf("normalizeURL(%q, %q) = %q, want %q", tt.input, tt.domain, got, tt.expected)
			}
		})
	}
}

func TestValidateCompanyUpdate(t *testing.T) {
	email := "John@Example.com"
	phone := "(415) 555-0123"
	negativeRevenue := int64(-1)
	blankName := "   "

	t.Run("fields normalized in place", func(t *testing.T) {
		req := dto.UpdateCompanyRequest{Email: &email, Phone: &phone}
		if err := validateCompanyUpdate(&req); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if *req.Email != "john@example.com" {
			t.Fatalf("email not normalized: %q", *req.Email)
		}
		if *req.Phone != "+14155550123" {
			t.Fatalf("phone not normalized: %q", *req.Phone)
		}
	})

	t.Run("negative revenue rejected", func(t *testing.T) {
		req := dto.UpdateCompanyRequest{Revenue: &negativeRevenue}
		var validationErr ValidationError
		if err := validateCompanyUpdate(&req); !errors.As(err, &validationErr) {
			t.Fatalf("expected validation error, got %v", err)
		}
	})

	t.Run("blank name rejected", func(t *testing.T) {
		req := dto.UpdateCompanyRequest{Name: &blankName}
		var validationErr ValidationError
		if err := validateCompanyUpdate(&req); !errors.As(err, &validationErr) {
			t.Fatalf("expected validation error, got %v", err)
		}
	})
}
