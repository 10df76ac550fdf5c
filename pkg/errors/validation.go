package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// ValidatePackageName validates a foreign package name before it is used to
// build a filesystem path. It rejects names that could escape the package
// directory.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No control characters
//   - No path traversal sequences (.., //, etc.)
//   - Maximum length of 214 characters (npm limit)
func ValidatePackageName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidPackage, "package name cannot be empty")
	}

	if len(name) > 214 {
		return New(ErrCodeInvalidPackage, "package name too long (max 214 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPackage, "package name contains invalid control characters")
		}
	}

	dangerousPatterns := []string{
		"..",   // Parent directory
		"//",   // Double slash
		"\x00", // Null byte
		"\\",   // Backslash (Windows path)
	}

	for _, pattern := range dangerousPatterns {
		if strings.Contains(name, pattern) {
			return New(ErrCodeInvalidPackage, "package name contains invalid characters: %q", pattern)
		}
	}

	if !npmPackageNameRegex.MatchString(name) {
		return New(ErrCodeInvalidPackage, "invalid package name: %q", name)
	}

	return nil
}

// npmPackageNameRegex matches package names with an optional scope.
var npmPackageNameRegex = regexp.MustCompile(`^(@[a-zA-Z0-9-~][a-zA-Z0-9-._~]*/)?[a-zA-Z0-9-~][a-zA-Z0-9-._~]*$`)

// ValidateExtensions checks a resolver extension list.
// Every entry must be non-empty, start with a dot and appear once.
func ValidateExtensions(exts []string) error {
	seen := make(map[string]bool, len(exts))
	for _, ext := range exts {
		if ext == "" || ext == "." {
			return New(ErrCodeInvalidOptions, "extension cannot be empty")
		}
		if !strings.HasPrefix(ext, ".") {
			return New(ErrCodeInvalidOptions, "extension %q must start with \".\"", ext)
		}
		if strings.ContainsAny(ext, "/\\") {
			return New(ErrCodeInvalidOptions, "extension %q cannot contain path separators", ext)
		}
		if seen[ext] {
			return New(ErrCodeInvalidOptions, "duplicate extension %q", ext)
		}
		seen[ext] = true
	}
	return nil
}

// ValidateConcurrency rejects negative worker counts. Zero selects the default.
func ValidateConcurrency(n int) error {
	if n < 0 {
		return New(ErrCodeInvalidOptions, "concurrency must be positive, got %d", n)
	}
	return nil
}
