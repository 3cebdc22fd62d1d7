// Package rule selects a template by matching a note path against glob
// patterns.
package rule

import (
	"fmt"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/mattsolo1/grove-udon/pkg/expr"
)

var (
	validPattern = regexp.MustCompile(`^[\w*.\-/]+$`)
	matchAll     = regexp.MustCompile(`.*`)
)

// Compile converts a glob pattern into an anchored regular expression.
//
// "*" matches within a single path segment, "/**/" matches any number of
// segments and a leading "**/" is dropped. "*" and "**" alone match
// everything.
func Compile(pattern string) (*regexp.Regexp, error) {
	if pattern == "*" || pattern == "**" {
		return matchAll, nil
	}
	if !validPattern.MatchString(pattern) {
		return nil, fmt.Errorf("invalid pattern %q: only alphanumeric, '*', '**', '.', '/' and '-' are allowed", pattern)
	}

	p := strings.ReplaceAll(pattern, ".", `\.`)
	p = strings.TrimPrefix(p, "**/")

	var sb strings.Builder
	sb.WriteString("^")
	for i, seg := range strings.Split(p, "/**/") {
		if i > 0 {
			sb.WriteString("/.*")
		}
		sb.WriteString(strings.ReplaceAll(seg, "*", `[^/\\]*`))
	}
	sb.WriteString("$")

	return regexp.Compile(sb.String())
}

// Match tests re against the base name of file, then against the last two
// segments joined by "/", and so on up to the root.
func Match(re *regexp.Regexp, file string) bool {
	p := filepath.ToSlash(file)
	for len(p) > 1 && strings.HasSuffix(p, "/") {
		p = p[:len(p)-1]
	}

	current := path.Base(p)
	if p == "" || p == "/" {
		current = ""
	}
	dir := path.Dir(p)
	for {
		if re.MatchString(current) {
			return true
		}
		name := path.Base(dir)
		next := path.Dir(dir)
		if name == "" || name == "." || name == "/" || next == dir {
			return false
		}
		current = name + "/" + current
		dir = next
	}
}

// Rule pairs a file pattern with the template used for matching files.
type Rule struct {
	Pattern  string
	Template string
	Regexp   *regexp.Regexp
	Node     expr.Node
}

// New compiles pattern and parses template.
func New(pattern, template string) (Rule, error) {
	re, err := Compile(pattern)
	if err != nil {
		return Rule{}, err
	}
	n, err := expr.Parse(template)
	if err != nil {
		return Rule{}, err
	}
	return Rule{Pattern: pattern, Template: template, Regexp: re, Node: n}, nil
}

// Table is an ordered list of rules. The first match wins.
type Table []Rule

// Parse builds a table from [pattern, template] pairs.
func Parse(pairs [][]string) (Table, error) {
	t := make(Table, 0, len(pairs))
	for i, pair := range pairs {
		if len(pair) != 2 {
			return nil, fmt.Errorf("invalid rule #%d: expected [pattern, template]", i)
		}
		r, err := New(pair[0], pair[1])
		if err != nil {
			return nil, fmt.Errorf("invalid rule #%d: %w", i, err)
		}
		t = append(t, r)
	}
	return t, nil
}

// ParseAny builds a table from a loosely typed value such as a decoded JSON
// or YAML array.
func ParseAny(v any) (Table, error) {
	items, ok := v.([]any)
	if !ok {
		if pairs, ok := v.([][]string); ok {
			return Parse(pairs)
		}
		return nil, fmt.Errorf("rule list is not an array")
	}

	pairs := make([][]string, 0, len(items))
	for i, item := range items {
		var pair []string
		switch x := item.(type) {
		case []string:
			pair = x
		case []any:
			for _, e := range x {
				s, ok := e.(string)
				if !ok {
					return nil, fmt.Errorf("invalid rule #%d: expected [pattern, template]", i)
				}
				pair = append(pair, s)
			}
		default:
			return nil, fmt.Errorf("invalid rule #%d: expected [pattern, template]", i)
		}
		pairs = append(pairs, pair)
	}
	return Parse(pairs)
}

// Find returns the first rule matching file.
func (t Table) Find(file string) (Rule, bool) {
	for _, r := range t {
		if Match(r.Regexp, file) {
			return r, true
		}
	}
	return Rule{}, false
}

// Select returns the template of the first rule matching file, or fallback.
func (t Table) Select(file string, fallback expr.Node) expr.Node {
	if r, ok := t.Find(file); ok {
		return r.Node
	}
	return fallback
}

// Pairs returns the table in its [pattern, template] form.
func (t Table) Pairs() [][]string {
	pairs := make([][]string, len(t))
	for i, r := range t {
		pairs[i] = []string{r.Pattern, r.Template}
	}
	return pairs
}
