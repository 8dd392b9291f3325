// Package output renders books, search results and shelf details for the
// command line.
package output

import (
	"encoding/json"
	"io"
	"os"
	"strings"
	"sync"
)

// Supported output formats.
const (
	FormatText  = "text"
	FormatTable = "table"
	FormatJSON  = "json"
)

// FormatEnv overrides the default output format when set to a supported value.
const FormatEnv = "BOOKWORM_OUTPUT"

// Formats lists every supported format, default first.
var Formats = []string{FormatTable, FormatText, FormatJSON}

var (
	formatMu      sync.RWMutex
	currentFormat string
)

// DefaultFormat returns the preferred output format unless BOOKWORM_OUTPUT is set to a supported value.
func DefaultFormat(preferred string, allowed []string) string {
	env := strings.TrimSpace(os.Getenv(FormatEnv))
	if env == "" {
		return preferred
	}

	env = strings.ToLower(env)
	for _, option := range allowed {
		if env == option {
			return env
		}
	}

	return preferred
}

// SetFormat records the format chosen for this run.
func SetFormat(format string) {
	formatMu.Lock()
	defer formatMu.Unlock()

	currentFormat = strings.ToLower(format)
}

// IsJSONMode reports whether output must stay machine readable, either from
// SetFormat or, before it is called, from BOOKWORM_OUTPUT.
func IsJSONMode() bool {
	formatMu.RLock()
	format := currentFormat
	formatMu.RUnlock()

	if format == "" {
		format = DefaultFormat(FormatText, Formats)
	}

	return format == FormatJSON
}

func displayJSON(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	return encoder.Encode(data)
}
