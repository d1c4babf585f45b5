package service

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/nyaruka/phonenumbers"
	"golang.org/x/net/idna"

	"github.com/1-to-100/baseplate-v3-sub003/internal/dto"
)

var (
	emailPattern = regexp.MustCompile(`^[a-z0-9._%+\-']+@[a-z0-9.-]+\.[a-z]{2,}$`)
	idnaProfile  = idna.Lookup
)

const defaultPhoneRegion = "US"

// validateCompanyUpdate normalizes and validates the mutable contact fields
// of a company update in place. Invalid input is rejected with a
// ValidationError before any store write happens.
func validateCompanyUpdate(req *dto.UpdateCompanyRequest) error {
	if req.Email != nil {
		email, err := normalizeEmail(*req.Email)
		if err != nil {
			return err
		}
		req.Email = &email
	}
	if req.Phone != nil {
		phone, err := normalizePhone(*req.Phone)
		if err != nil {
			return err
		}
		req.Phone = &phone
	}
	if req.WebsiteURL != nil {
		website, err := normalizeURL(*req.WebsiteURL, "")
		if err != nil {
			return err
		}
		req.WebsiteURL = &website
	}
	if req.LinkedInURL != nil {
		linkedin, err := normalizeURL(*req.LinkedInURL, "linkedin.com")
		if err != nil {
			return err
		}
		req.LinkedInURL = &linkedin
	}
	if req.Revenue != nil && *req.Revenue < 0 {
		return ValidationError{Message: "revenue must not be negative"}
	}
	if req.Employees != nil && *req.Employees < 0 {
		return ValidationError{Message: "employees must not be negative"}
	}
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return ValidationError{Message: "name must not be blank"}
	}
	return nil
}

// normalizeEmail lowercases and validates an email address. The domain part
// goes through IDNA mapping so internationalized hosts survive intact.
func normalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return "", ValidationError{Message: "email must not be blank"}
	}

	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 {
		return "", ValidationError{Message: fmt.Sprintf("invalid email %q", raw)}
	}
	domain, err := idnaProfile.ToASCII(email[at+1:])
	if err != nil {
		return "", ValidationError{Message: fmt.Sprintf("invalid email domain %q", email[at+1:])}
	}
	email = email[:at+1] + domain

	if !emailPattern.MatchString(email) {
		return "", ValidationError{Message: fmt.Sprintf("invalid email %q", raw)}
	}
	return email, nil
}

// normalizePhone parses the number and reformats it as E.164.
func normalizePhone(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", ValidationError{Message: "phone must not be blank"}
	}
	parsed, err := phonenumbers.Parse(trimmed, defaultPhoneRegion)
	if err != nil || !phonenumbers.IsValidNumber(parsed) {
		return "", ValidationError{Message: fmt.Sprintf("invalid phone number %q", raw)}
	}
	return phonenumbers.Format(parsed, phonenumbers.E164), nil
}

// normalizeURL validates an http(s) URL, defaulting the scheme to https when
// absent. When requiredDomain is set the host must belong to that domain.
func normalizeURL(raw, requiredDomain string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", ValidationError{Message: "url must not be blank"}
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}
	parsed, err := url.Parse(trimmed)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return "", ValidationError{Message: fmt.Sprintf("invalid url %q", raw)}
	}
	if requiredDomain != "" {
		host := strings.ToLower(strings.TrimPrefix(parsed.Host, "www."))
		if host != requiredDomain && !strings.HasSuffix(host, "."+requiredDomain) {
			return "", ValidationError{Message: fmt.Sprintf("url %q must point at %s", raw, requiredDomain)}
		}
	}
	return parsed.String(), nil
}
