// Package pathutil provides drive-letter normalization and
// exclusion-prefix matching for the link scanner (spec.md §4.1).
package pathutil

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/ivoronin/linkctl/internal/linktypes"
)

// Normalize accepts drive specifiers of the forms "X", "X:", "X:\",
// "X:/", optionally surrounded by whitespace. It rejects anything with
// a non-trailing separator or any remainder that is not a separator,
// uppercases the letter, and returns "X:\".
func Normalize(drive string) (string, error) {
	s := strings.TrimSpace(drive)
	if s == "" {
		return "", errors.Wrapf(linktypes.ErrInvalidArgument, "empty drive specifier")
	}

	letter := s[0]
	if !isASCIILetter(letter) {
		return "", errors.Wrapf(linktypes.ErrInvalidArgument, "drive specifier %q does not start with a letter", drive)
	}

	rest := s[1:]
	switch {
	case rest == "":
	case rest == ":" || rest == ":\\" || rest == ":/":
	default:
		return "", errors.Wrapf(linktypes.ErrInvalidArgument, "drive specifier %q has an invalid remainder", drive)
	}

	return string(toUpper(letter)) + ":\\", nil
}

func isASCIILetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func toUpper(b byte) byte {
	if b >= 'a' && b <= 'z' {
		return b - ('a' - 'A')
	}
	return b
}

// normalizeSlashes lowercases and converts forward slashes to
// backslashes, then right-trims separators.
func normalizeSlashes(p string) string {
	p = strings.ToLower(p)
	p = strings.ReplaceAll(p, "/", "\\")
	return strings.TrimRight(p, "\\")
}

// Excluded reports whether candidate matches any entry in excludes.
// Matching is prefix-based with boundary safety: both sides are
// lowercased, backslash-normalized, and right-trimmed of separators; a
// candidate matches an excluded entry E iff candidate == E or
// candidate starts with E + separator. Empty exclusion entries never
// match (spec.md §4.1, §8 property 2).
func Excluded(candidate string, excludes []string) bool {
	c := normalizeSlashes(candidate)
	for _, e := range excludes {
		e = normalizeSlashes(e)
		if e == "" {
			continue
		}
		if c == e || strings.HasPrefix(c, e+"\\") {
			return true
		}
	}
	return false
}

// Display canonicalizes a path for user-facing display: normalized
// slashes without lowercasing or trimming, suitable for printing in
// progress/log messages.
func Display(p string) string {
	return strings.ReplaceAll(p, "/", "\\")
}
