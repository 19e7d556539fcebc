package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// ValidateName validates a surface, lamination or mapping class name.
// Names appear in cache keys and in the word grammar, so the rules are
// conservative:
//   - No empty names
//   - Maximum length of 128 characters
//   - Letters, digits and underscores only, starting with a letter
func ValidateName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "name cannot be empty")
	}

	if len(name) > 128 {
		return New(ErrCodeInvalidInput, "name too long (max 128 characters)")
	}

	if !nameRegex.MatchString(name) {
		return New(ErrCodeInvalidInput, "invalid name: %q", name)
	}

	return nil
}

var nameRegex = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)

// ValidatePath validates a surface file path given on the command line.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	return nil
}

// ValidateRedisAddr validates a host:port address for the Redis cache.
func ValidateRedisAddr(addr string) error {
	if addr == "" {
		return New(ErrCodeInvalidInput, "redis address cannot be empty")
	}
	if strings.Contains(addr, "://") {
		return New(ErrCodeInvalidInput, "redis address must be host:port, not a URL")
	}
	i := strings.LastIndex(addr, ":")
	if i <= 0 || i == len(addr)-1 {
		return New(ErrCodeInvalidInput, "redis address must be host:port: %q", addr)
	}
	for _, r := range addr[i+1:] {
		if r < '0' || r > '9' {
			return New(ErrCodeInvalidInput, "invalid redis port in %q", addr)
		}
	}
	return nil
}
