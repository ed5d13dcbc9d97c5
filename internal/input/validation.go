package input

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ValidateTimestamp catches timestamps that can never point into a video.
func ValidateTimestamp(t time.Duration) error {
	if t < 0 {
		return fmt.Errorf("timestamp is negative: %s", t)
	}
	return nil
}

// ParseDimension parses a width or height attribute. Absent, malformed or
// non-positive values yield zero, meaning "not specified".
func ParseDimension(s string) int {
	n, err := strconv.Atoi(strings.TrimSuffix(strings.TrimSpace(s), "px"))
	if err != nil || n < 0 {
		return 0
	}
	return n
}
