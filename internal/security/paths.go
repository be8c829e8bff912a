package security

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode"
)

// ValidatePathWithinDirectory checks that filePath stays inside safeDir once
// "." and ".." components and symlinks are resolved. Neither path has to
// exist: symlinks are resolved on the longest existing prefix, so an output
// directory that has not been created yet can still be checked.
func ValidatePathWithinDirectory(filePath, safeDir string) error {
	absPath, err := filepath.Abs(filepath.Clean(filePath))
	if err != nil {
		return fmt.Errorf("failed to resolve absolute path: %w", err)
	}
	absSafeDir, err := filepath.Abs(filepath.Clean(safeDir))
	if err != nil {
		return fmt.Errorf("failed to resolve safe directory path: %w", err)
	}

	relPath, err := filepath.Rel(resolveExisting(absSafeDir), resolveExisting(absPath))
	if err != nil {
		return fmt.Errorf("path is outside safe directory: %w", err)
	}
	if relPath == ".." || strings.HasPrefix(relPath, ".."+string(filepath.Separator)) || filepath.IsAbs(relPath) {
		return fmt.Errorf("path traversal detected: %s attempts to escape %s", filePath, safeDir)
	}
	return nil
}

// resolveExisting evaluates symlinks in the longest existing ancestor of the
// absolute path p and re-appends the remainder.
func resolveExisting(p string) string {
	check := p
	for {
		if resolved, err := filepath.EvalSymlinks(check); err == nil {
			rest, _ := filepath.Rel(check, p)
			return filepath.Join(resolved, rest)
		}
		parent := filepath.Dir(check)
		if parent == check {
			return p
		}
		check = parent
	}
}

// SanitizeFilename makes a file name from a sheet name. Letters and digits
// of any script are kept, as are '.', '_' and '-'; every other run of
// characters becomes one underscore. Leading and trailing dots and
// underscores are trimmed and the result is capped at 128 bytes.
func SanitizeFilename(s string) string {
	const maxLen = 128
	var b strings.Builder
	lastUnderscore := false
	for _, r := range s {
		var next rune
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r), r == '.', r == '-':
			next = r
		case r == '_':
			next = r
		default:
			if lastUnderscore {
				continue
			}
			next = '_'
		}
		if b.Len()+len(string(next)) > maxLen {
			break
		}
		b.WriteRune(next)
		lastUnderscore = next == '_'
	}
	out := strings.Trim(b.String(), "._")
	if out == "" {
		return "unknown"
	}
	return out
}
