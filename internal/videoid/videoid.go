// Package videoid resolves YouTube video references to video IDs.
package videoid

import (
	"errors"
	"regexp"
	"strings"
)

// ErrInvalidReference is returned when neither a known URL shape nor a raw
// video ID could be recognized.
var ErrInvalidReference = errors.New("invalid video reference")

var (
	idPattern  = regexp.MustCompile(`^[a-zA-Z0-9_-]{11}$`)
	urlPattern = regexp.MustCompile(
		`^.*(youtu\.be/|v/|u/\w/|embed/|shorts/|live/|watch\?v=|&v=)([^#&?/]*).*`,
	)
)

// ID is an 11-character YouTube video identifier.
type ID string

func (id ID) String() string {
	return string(id)
}

// Valid reports whether s is a well-formed video ID.
func Valid(s string) bool {
	return idPattern.MatchString(s)
}

// Resolve extracts a video ID from a watch, short-link, embed or legacy URL,
// or accepts a raw video ID as is.
func Resolve(ref string) (ID, error) {
	s := strings.TrimSpace(ref)
	if s == "" {
		return "", ErrInvalidReference
	}

	if m := urlPattern.FindStringSubmatch(s); len(m) == 3 && Valid(m[2]) {
		return ID(m[2]), nil
	}
	if Valid(s) {
		return ID(s), nil
	}

	return "", ErrInvalidReference
}
