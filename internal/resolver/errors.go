package resolver

import (
	"errors"
	"fmt"

	"github.com/awesome-arjun11/youtube-image-embed/internal/videoid"
)

// ErrNoFormats is returned when a video has no formats to choose from.
var ErrNoFormats = errors.New("no formats available")

// LookupError reports a failed video information lookup.
type LookupError struct {
	ID  videoid.ID
	Err error
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("looking up video %s: %v", e.ID, e.Err)
}

func (e *LookupError) Unwrap() error {
	return e.Err
}
