package errors

import (
	"net/url"
	"strings"
	"unicode"
)

// maxURLLength bounds input lines; anything longer is rejected before parsing.
const maxURLLength = 2048

// ValidateURL validates an artifact URL for safety.
// It ensures the URL has an http or https scheme, a host, and no control
// characters.
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidURL, "URL cannot be empty")
	}
	if len(rawURL) > maxURLLength {
		return New(ErrCodeInvalidURL, "URL too long (max %d characters)", maxURLLength)
	}
	for _, r := range rawURL {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidURL, "URL contains invalid control characters")
		}
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return Wrap(ErrCodeInvalidURL, err, "cannot parse URL")
	}
	// url.Parse lowercases the scheme.
	if u.Scheme != "http" && u.Scheme != "https" {
		return New(ErrCodeInvalidURL, "URL must use http or https scheme")
	}
	if u.Host == "" {
		return New(ErrCodeInvalidURL, "URL has no host")
	}
	return nil
}

// ValidatePath validates a repository-relative file path before it is
// interpolated into an API URL.
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidURL, "path cannot be empty")
	}
	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidURL, "path contains invalid characters")
		}
	}
	if strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidURL, "path must be relative (cannot start with /)")
	}
	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidURL, "path cannot contain path traversal sequences (..)")
	}
	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidURL, "path cannot contain backslashes")
	}
	return nil
}
