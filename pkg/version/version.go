// Package version reports the build version of dpe3cl.
package version

import (
	"runtime/debug"

	"github.com/Masterminds/semver/v3"
)

// Set at build time with -ldflags "-X github.com/rshade/dpe3cl/pkg/version.version=...".
//
//nolint:gochecknoglobals // Injected by the linker.
var (
	version = ""
	commit  = ""
)

const devVersion = "0.0.0-dev"

// GetVersion returns the release version, the module version recorded by
// "go install", or a development placeholder.
func GetVersion() string {
	if version != "" {
		return version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return devVersion
}

// GetCommit returns the VCS revision the binary was built from, if known.
func GetCommit() string {
	if commit != "" {
		return commit
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, s := range info.Settings {
			if s.Key == "vcs.revision" {
				return s.Value
			}
		}
	}
	return ""
}

// Semver parses the current version. Development builds parse as 0.0.0-dev.
func Semver() *semver.Version {
	v, err := semver.NewVersion(GetVersion())
	if err != nil {
		return semver.MustParse(devVersion)
	}
	return v
}
