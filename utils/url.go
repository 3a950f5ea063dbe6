// Package utils provides utility functions for the application.
package utils

import (
	"fmt"
	"net/url"
	"strings"
)

// NormalizedURL carries a normalized absolute URL together with the parts the
// authoring service records as link metadata.
type NormalizedURL struct {
	URL      string
	Domain   string
	Protocol string
	Path     string
}

// NormalizeURL lower-cases scheme and host, strips trailing slashes from the
// path, and preserves query and fragment verbatim. Normalization is
// idempotent. Only absolute http(s) URLs are accepted.
func NormalizeURL(raw string) (*NormalizedURL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("url is empty")
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse url: %w", err)
	}

	scheme := strings.ToLower(parsed.Scheme)
	if scheme != "http" && scheme != "https" {
		return nil, fmt.Errorf("unsupported url scheme %q", parsed.Scheme)
	}
	if parsed.Host == "" {
		return nil, fmt.Errorf("url has no host")
	}

	parsed.Scheme = scheme
	parsed.Host = strings.ToLower(parsed.Host)
	parsed.Path = strings.TrimRight(parsed.Path, "/")

	return &NormalizedURL{
		URL:      parsed.String(),
		Domain:   parsed.Hostname(),
		Protocol: scheme,
		Path:     parsed.Path,
	}, nil
}
