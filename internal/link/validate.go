package link

import (
	"net/url"
	"strings"
)

// ValidateURL checks that rawURL is an absolute http or https URL.
// Returns a *ValidationError describing the problem otherwise.
func ValidateURL(rawURL string) error {
	if strings.TrimSpace(rawURL) == "" {
		return &ValidationError{Field: "url", Message: "must not be empty"}
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return &ValidationError{Field: "url", Message: "malformed url"}
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return &ValidationError{Field: "url", Message: "must start with http:// or https://"}
	}

	if u.Host == "" {
		return &ValidationError{Field: "url", Message: "missing host"}
	}

	return nil
}

// Host extracts the lowercased hostname from a URL for display labels.
// Returns an empty string when the URL cannot be parsed.
func Host(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}

	return strings.ToLower(u.Hostname())
}
