package expr

import (
	"net/url"
	"path"
	"path/filepath"
	"strings"
	"time"
)

// DefaultScheme is given to plain-text results of EvalPath.
const DefaultScheme = "file"

// NamedWorkspace is one root of a multi-root workspace.
type NamedWorkspace struct {
	Name string
	Root *url.URL
}

// Env is the context a template is evaluated against. Evaluation never
// modifies it.
type Env struct {
	Date        time.Time
	Editor      *url.URL
	Workspace   *url.URL
	Workspaces  []NamedWorkspace
	Image       *url.URL
	ImageFormat string
}

// lookupWorkspace returns the root registered under name.
func (env *Env) lookupWorkspace(name string) (*url.URL, bool) {
	for _, w := range env.Workspaces {
		if w.Name == name && w.Root != nil {
			return w.Root, true
		}
	}
	return nil, false
}

// Value is the result of path-mode evaluation: plain text, or a structured
// path when the result is a location that can be composed further.
type Value struct {
	text string
	url  *url.URL
}

// TextValue wraps plain text.
func TextValue(s string) Value {
	return Value{text: s}
}

// URLValue wraps a structured path.
func URLValue(u *url.URL) Value {
	return Value{url: u}
}

// URL returns the structured path, or nil for plain text.
func (v Value) URL() *url.URL { return v.url }

// IsURL reports whether v is a structured path.
func (v Value) IsURL() bool { return v.url != nil }

// String returns the text, or the path component of a structured path.
func (v Value) String() string {
	if v.url != nil {
		return v.url.Path
	}
	return v.text
}

// FileURL converts an OS path to a file URL.
func FileURL(p string) *url.URL {
	s := filepath.ToSlash(p)
	if filepath.VolumeName(p) != "" && !strings.HasPrefix(s, "/") {
		s = "/" + s
	}
	return &url.URL{Scheme: DefaultScheme, Path: s}
}

// FilePath converts a URL path back to an OS path.
func FilePath(u *url.URL) string {
	return fsPath(u.Path)
}

func fsPath(p string) string {
	if len(p) > 1 && p[0] == '/' && filepath.VolumeName(filepath.FromSlash(p[1:])) != "" {
		p = p[1:]
	}
	return filepath.FromSlash(p)
}

func withPath(u *url.URL, p string) *url.URL {
	c := *u
	c.Path = p
	c.RawPath = ""
	return &c
}

func trimTrailingSlash(p string) string {
	for len(p) > 1 && strings.HasSuffix(p, "/") {
		p = p[:len(p)-1]
	}
	return p
}

// basename returns the last path segment; the root has none.
func basename(p string) string {
	p = trimTrailingSlash(p)
	if p == "/" {
		return ""
	}
	return p[strings.LastIndex(p, "/")+1:]
}

// dirname returns the parent path. The root and the empty path are their own
// parent.
func dirname(p string) string {
	if p == "" || p == "/" {
		return p
	}
	d := path.Dir(trimTrailingSlash(p))
	if d == "." {
		return ""
	}
	return d
}

// extname returns the extension of the last segment including the dot. Dot
// files have no extension.
func extname(p string) string {
	b := basename(p)
	if b == ".." {
		return ""
	}
	i := strings.LastIndex(b, ".")
	if i <= 0 {
		return ""
	}
	return b[i:]
}

// cleanPath resolves "." and ".." segments.
func cleanPath(p string) string {
	if p == "" {
		return ""
	}
	c := path.Clean(p)
	if c == "." {
		return ""
	}
	return c
}
