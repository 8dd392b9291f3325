// Package version exposes build metadata injected with -ldflags.
package version

import (
	"fmt"
	"runtime"
	"strings"
	"time"
)

// The following variables can be overridden at build time using -ldflags.
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
	BuildUser = "unknown"
	BuildHost = "unknown"
	BuildArch = ""
)

// Info contains metadata about the compiled binary.
type Info struct {
	Version   string
	Commit    string
	BuildDate string
	BuildUser string
	BuildHost string
	BuildArch string
	GoVersion string
}

// Get returns build metadata, normalizing defaults where necessary.
func Get() Info {
	arch := strings.TrimSpace(BuildArch)
	if arch == "" {
		arch = runtime.GOOS + "/" + runtime.GOARCH
	}

	return Info{
		Version:   fallback(Version, "dev"),
		Commit:    fallback(Commit, "unknown"),
		BuildDate: fallback(BuildDate, "unknown"),
		BuildUser: fallback(BuildUser, "unknown"),
		BuildHost: fallback(BuildHost, "unknown"),
		BuildArch: arch,
		GoVersion: runtime.Version(),
	}
}

// RelativeTime renders BuildDate as "N days ago" style text, or "" when the
// build date is not an RFC3339 timestamp.
func (i Info) RelativeTime() string {
	return relativeTo(i.BuildDate, time.Now())
}

// UserAgent is sent by the remote clients.
func (i Info) UserAgent() string {
	return fmt.Sprintf("bookworm/%s (%s)", i.Version, i.BuildArch)
}

func relativeTo(buildDate string, now time.Time) string {
	built, err := time.Parse(time.RFC3339, strings.TrimSpace(buildDate))
	if err != nil {
		return ""
	}

	elapsed := now.Sub(built)
	switch {
	case elapsed < 0:
		return ""
	case elapsed < time.Minute:
		return "just now"
	case elapsed < time.Hour:
		return plural(int(elapsed/time.Minute), "minute")
	case elapsed < 24*time.Hour:
		return plural(int(elapsed/time.Hour), "hour")
	default:
		return plural(int(elapsed/(24*time.Hour)), "day")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}

	return fmt.Sprintf("%d %ss ago", n, unit)
}

func fallback(value, defaultValue string) string {
	if strings.TrimSpace(value) == "" {
		return defaultValue
	}

	return value
}
