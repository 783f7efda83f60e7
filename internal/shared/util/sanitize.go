package util

import (
	"errors"
	"strings"
)

// Storage keys embed the file name; keep it inside common object-key limits.
const maxFileNameLen = 255

var errInvalidFileName = errors.New("invalid file name")

// SanitizeFileName normalizes an uploaded file name for use in storage keys.
// Path separators become underscores, control characters are dropped, and
// traversal sequences are rejected outright.
func SanitizeFileName(name string) (string, error) {
	if strings.Contains(name, "..") {
		return "", errInvalidFileName
	}
	s := strings.Map(func(r rune) rune {
		switch {
		case r == '/' || r == '\\':
			return '_'
		case r < 0x20 || r == 0x7f:
			return -1
		}
		return r
	}, strings.TrimSpace(name))
	if s == "" {
		return "", errInvalidFileName
	}
	if len(s) > maxFileNameLen {
		// Trim from the front so the extension survives.
		s = s[len(s)-maxFileNameLen:]
	}
	return s, nil
}
