// Package classpath builds a Java classpath from the jar files found in a set
// of directories under an installation root.
//
// Entries are written in template form, prefixed with a shell variable
// ($REPASTHOME by default) rather than the absolute root, so the result can be
// pasted into a launch script that sets the variable itself.
package classpath

import (
	"path/filepath"
	"strings"
)

const (
	// continuation ends every entry except the trailing one.
	continuation = ":\\\n"
	// terminator ends the trailing entry.
	terminator = ":\n"
)

// Entry is one jar found in a configured directory.
type Entry struct {
	Dir  string `json:"dir"`  // sub-directory as configured
	Name string `json:"name"` // file name within Dir
	Rel  string `json:"rel"`  // path relative to the base directory
	Path string `json:"path"` // template form, e.g. $REPASTHOME/lib/x.jar
}

// Skipped is a directory entry that did not carry the jar suffix.
type Skipped struct {
	Dir  string `json:"dir"`
	Name string `json:"name"`
}

// Classpath is the result of one build.
type Classpath struct {
	HomeVar  string
	BaseDir  string
	Entries  []Entry
	Extra    []string // template form
	Trailing string   // template form
	Skipped  []Skipped
}

// Paths returns every entry in template form, in output order: jars, then
// extras, then the trailing entry.
func (c *Classpath) Paths() []string {
	out := make([]string, 0, len(c.Entries)+len(c.Extra)+1)
	for _, e := range c.Entries {
		out = append(out, e.Path)
	}
	out = append(out, c.Extra...)
	if c.Trailing != "" {
		out = append(out, c.Trailing)
	}
	return out
}

// String returns the classpath buffer: one entry per line, each followed by
// a colon and a shell line continuation, except the trailing entry which is
// followed by a colon and a plain newline.
func (c *Classpath) String() string {
	var sb strings.Builder
	for _, e := range c.Entries {
		sb.WriteString(e.Path)
		sb.WriteString(continuation)
	}
	for _, x := range c.Extra {
		sb.WriteString(x)
		sb.WriteString(continuation)
	}
	if c.Trailing != "" {
		sb.WriteString(c.Trailing)
		sb.WriteString(terminator)
	}
	return sb.String()
}

// Expand replaces the home variable prefix of a template path with the base
// directory, yielding an OS path.
func (c *Classpath) Expand(p string) string {
	prefix := homePrefix(c.HomeVar)
	if !strings.HasPrefix(p, prefix) {
		return p
	}
	return filepath.Join(c.BaseDir, filepath.FromSlash(strings.TrimPrefix(p, prefix)))
}

// ExpandedPaths is Paths with every entry expanded.
func (c *Classpath) ExpandedPaths() []string {
	paths := c.Paths()
	for i, p := range paths {
		paths[i] = c.Expand(p)
	}
	return paths
}

func homePrefix(homeVar string) string {
	return "$" + homeVar + "/"
}

// template renders rel (relative to the base directory) in template form.
func template(homeVar, rel string) string {
	return homePrefix(homeVar) + rel
}

// dirPrefix normalises a configured sub-directory so a file name can be
// appended directly.
func dirPrefix(sub string) string {
	sub = filepath.ToSlash(sub)
	if sub == "" || strings.HasSuffix(sub, "/") {
		return sub
	}
	return sub + "/"
}
