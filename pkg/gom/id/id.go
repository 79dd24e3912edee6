package id

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// Separator joins key segments. Every segment, including the first, is
// prefixed with it.
const Separator = "."

// Sentinel errors returned by Validate.
var (
	// ErrEmptyKey indicates a key with no segments.
	ErrEmptyKey = errors.New("id: empty key")

	// ErrMissingRoot indicates a key that does not start with Separator.
	ErrMissingRoot = errors.New("id: key must start with " + Separator)

	// ErrInvalidSegment indicates a segment that is not an identifier.
	ErrInvalidSegment = errors.New("id: invalid segment")
)

// Build returns the root key for segments: Build("my", "module") is
// ".my.module".
func Build(segments ...string) string {
	return Extend("", segments...)
}

// Extend appends segments to parent: Extend(".my", "module") is
// ".my.module". Extend(Build(a), b) == Build(a, b).
func Extend(parent string, segments ...string) string {
	var b strings.Builder
	n := len(parent)
	for _, s := range segments {
		n += len(Separator) + len(s)
	}
	b.Grow(n)
	b.WriteString(parent)
	for _, s := range segments {
		b.WriteString(Separator)
		b.WriteString(s)
	}
	return b.String()
}

// MustBuild is Build for package-level key variables. It panics if a
// segment is not a valid identifier.
func MustBuild(segments ...string) string {
	return MustExtend("", segments...)
}

// MustExtend is Extend for package-level key variables. It panics if a
// segment is not a valid identifier.
func MustExtend(parent string, segments ...string) string {
	for _, s := range segments {
		if !ValidSegment(s) {
			panic(fmt.Errorf("%w: %q", ErrInvalidSegment, s))
		}
	}
	return Extend(parent, segments...)
}

// Segments splits a key into its segments. Segments(".a.b") is
// ["a", "b"]; the empty key has none.
func Segments(key string) []string {
	key = strings.TrimPrefix(key, Separator)
	if key == "" {
		return nil
	}
	return strings.Split(key, Separator)
}

// Parent returns key without its last segment. A single-segment key's
// parent is the empty string, which reports false.
func Parent(key string) (string, bool) {
	i := strings.LastIndex(key, Separator)
	if i <= 0 {
		return "", false
	}
	return key[:i], true
}

// Base returns the last segment of key.
func Base(key string) string {
	i := strings.LastIndex(key, Separator)
	if i < 0 {
		return key
	}
	return key[i+len(Separator):]
}

// ValidSegment reports whether s is an identifier: non-empty, made of
// letters, digits and underscores, and not starting with a digit.
func ValidSegment(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || unicode.IsLetter(r):
		case unicode.IsDigit(r) && i > 0:
		default:
			return false
		}
	}
	return true
}

// Validate checks that key is a rooted key whose segments are all valid
// identifiers, as produced by MustBuild.
func Validate(key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	if !strings.HasPrefix(key, Separator) {
		return fmt.Errorf("%w: %q", ErrMissingRoot, key)
	}
	segments := Segments(key)
	if len(segments) == 0 {
		return ErrEmptyKey
	}
	for _, s := range segments {
		if !ValidSegment(s) {
			return fmt.Errorf("%w: %q in %q", ErrInvalidSegment, s, key)
		}
	}
	return nil
}
