package classpath

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// Format selects how Render writes a Classpath.
type Format string

const (
	FormatBlock    Format = "block"
	FormatRaw      Format = "raw"
	FormatLine     Format = "line"
	FormatExpanded Format = "expanded"
	FormatJSON     Format = "json"
)

// Marker brackets the buffer in FormatBlock.
const Marker = "*******"

// ValidFormats lists the accepted Format names.
var ValidFormats = []Format{FormatBlock, FormatRaw, FormatLine, FormatExpanded, FormatJSON}

// ParseFormat converts a config or flag value into a Format.
// The empty string selects FormatBlock.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if f == "" {
		return FormatBlock, nil
	}
	for _, v := range ValidFormats {
		if f == v {
			return f, nil
		}
	}
	return "", fmt.Errorf("invalid format: %s (valid: %v)", s, ValidFormats)
}

type jsonClasspath struct {
	HomeVar   string    `json:"home_var"`
	BaseDir   string    `json:"base_dir"`
	Entries   []Entry   `json:"entries"`
	Extra     []string  `json:"extra,omitempty"`
	Trailing  string    `json:"trailing"`
	Skipped   []Skipped `json:"skipped"`
	Classpath string    `json:"classpath"`
}

// Render writes cp to w in the given format.
func Render(w io.Writer, cp *Classpath, format Format) error {
	var out string
	switch format {
	case FormatBlock, "":
		// Marker, buffer, blank line, marker.
		out = Marker + "\n" + cp.String() + "\n" + Marker + "\n"
	case FormatRaw:
		out = cp.String()
	case FormatLine:
		out = strings.Join(cp.Paths(), ":") + "\n"
	case FormatExpanded:
		out = strings.Join(cp.ExpandedPaths(), string(filepath.ListSeparator)) + "\n"
	case FormatJSON:
		doc := jsonClasspath{
			HomeVar:   cp.HomeVar,
			BaseDir:   cp.BaseDir,
			Entries:   cp.Entries,
			Extra:     cp.Extra,
			Trailing:  cp.Trailing,
			Skipped:   cp.Skipped,
			Classpath: strings.Join(cp.Paths(), ":"),
		}
		if doc.Entries == nil {
			doc.Entries = []Entry{}
		}
		if doc.Skipped == nil {
			doc.Skipped = []Skipped{}
		}
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal classpath: %w", err)
		}
		out = string(data) + "\n"
	default:
		return fmt.Errorf("invalid format: %s (valid: %v)", format, ValidFormats)
	}

	if _, err := io.WriteString(w, out); err != nil {
		return fmt.Errorf("failed to write classpath: %w", err)
	}
	return nil
}
