package validation

import (
	"net/url"
	"path/filepath"
	"strings"
)

// ValidateRemoteURL checks that raw is an absolute http(s) URL with a host.
// Remote-image ingestion rejects anything else before touching the network.
func ValidateRemoteURL(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return u.Host != ""
}

// SanitizeFilename reduces a client-supplied filename to a safe base name
func SanitizeFilename(name string) string {
	name = strings.TrimSpace(name)
	name = strings.ReplaceAll(name, "\x00", "")
	// drop any path component, whichever separator the client used
	name = strings.ReplaceAll(name, "\\", "/")
	return filepath.Base(name)
}
