package config

import (
	"fmt"
	"net/url"
	"strings"
)

// SanitizeOrigin normalizes one trusted_origins entry down to a lowercase
// host[:port]. Schemes and a single trailing slash are stripped; anything
// carrying a path, query, fragment, wildcard, or whitespace is rejected.
func SanitizeOrigin(raw string) (string, error) {
	cleaned := strings.ToLower(strings.TrimSpace(raw))
	if cleaned == "" {
		return "", fmt.Errorf("origin cannot be empty")
	}
	if strings.ContainsAny(cleaned, " \t\r\n") {
		return "", fmt.Errorf("origin cannot contain whitespace")
	}
	if strings.Contains(cleaned, "*") {
		return "", fmt.Errorf("wildcards are not allowed in trusted origins")
	}

	for _, scheme := range []string{"https://", "http://"} {
		cleaned = strings.TrimPrefix(cleaned, scheme)
	}
	cleaned = strings.TrimSuffix(cleaned, "/")

	// Parse with a dummy scheme so url.Parse fills Host for bare domains.
	u, err := url.Parse("http://" + cleaned)
	if err != nil {
		return "", fmt.Errorf("invalid origin format")
	}
	if u.Host == "" || u.Path != "" || u.RawQuery != "" || u.Fragment != "" {
		return "", fmt.Errorf("origin must be a bare host, optionally with a port")
	}
	return u.Host, nil
}
