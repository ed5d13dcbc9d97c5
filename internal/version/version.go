package version

import (
	"fmt"
	"runtime/debug"
	"strings"
)

const Program = "ytie"

// GitVersion is a version as described by Git (passed in at build via
// -ldflags).
var GitVersion string

const revisionLength = 7

type buildSettings struct {
	platform string
	arch     string
	revision string
	modified bool
}

func readSettings(info *debug.BuildInfo) buildSettings {
	var s buildSettings
	for _, kv := range info.Settings {
		switch kv.Key {
		case "GOOS":
			s.platform = kv.Value
		case "GOARCH":
			s.arch = kv.Value
		case "vcs.revision":
			s.revision = kv.Value[:min(len(kv.Value), revisionLength)]
		case "vcs.modified":
			s.modified = kv.Value == "true"
		}
	}
	return s
}

// GetFull describes the version, revision, Go version and platform of the
// running binary.
func GetFull() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	s := readSettings(info)

	var sb strings.Builder

	version := "(untagged)"
	if GitVersion != "" {
		version = buildVersionNumber(GitVersion, s.modified)
	}
	sb.WriteString(Program + " version " + version)

	if s.revision != "" {
		sb.WriteString(" from " + s.revision)
	}
	sb.WriteString(" with " + info.GoVersion)
	fmt.Fprintf(&sb, " on %s/%s", s.platform, s.arch)

	return sb.String()
}

func GetShort() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	return buildVersionNumber(GitVersion, readSettings(info).modified)
}

func buildVersionNumber(v string, dirty bool) string {
	if v != "" && dirty {
		return v + "+dirty"
	}
	return v
}
