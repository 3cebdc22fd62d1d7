package expr

import (
	"fmt"
	"strings"
)

// Node is an immutable unit of a parsed template. The set of variants is
// closed: Text, Empty, List, Variable, Date, Workspace and Relative.
type Node interface {
	fmt.Stringer
	node()
}

// Text is literal template content.
type Text struct {
	text string
}

// NewText returns a literal node.
func NewText(s string) Node {
	return Text{text: s}
}

// Value returns the literal content.
func (t Text) Value() string { return t.text }

func (t Text) String() string { return "[Text: " + t.text + "]" }

func (Text) node() {}

// Empty is a zero-width node.
type Empty struct{}

// NewEmpty returns the zero-width node.
func NewEmpty() Node {
	return Empty{}
}

func (Empty) String() string { return "[Empty]" }

func (Empty) node() {}

// List is the concatenation of two or more nodes.
type List struct {
	nodes []Node
}

// NewList concatenates nodes. Zero nodes collapse to Empty and a single node
// is returned unwrapped.
func NewList(nodes ...Node) Node {
	var b builder
	for _, n := range nodes {
		b.append(n)
	}
	return b.build()
}

// Len returns the number of children.
func (l List) Len() int { return len(l.nodes) }

// At returns the i-th child.
func (l List) At(i int) Node { return l.nodes[i] }

func (l List) String() string {
	parts := make([]string, len(l.nodes))
	for i, n := range l.nodes {
		parts[i] = n.String()
	}
	return "[List: " + strings.Join(parts, ", ") + "]"
}

func (List) node() {}

// Variable references one entry of the variable catalog.
type Variable struct {
	name VariableName
}

// NewVariable returns a variable node for name. Surrounding whitespace is
// ignored; a name outside the catalog is a parse error.
func NewVariable(name string) (Node, error) {
	trimmed := strings.TrimSpace(name)
	v := VariableName(trimmed)
	if _, ok := variables[v]; !ok {
		return nil, parseErrorf(name, "unknown variable name: %s", trimmed)
	}
	return Variable{name: v}, nil
}

// Name returns the catalog name as written in the template.
func (v Variable) Name() VariableName { return v.name }

func (v Variable) String() string { return "[Var: " + string(v.name) + "]" }

func (Variable) node() {}

// Date formats the evaluation timestamp with a pattern.
type Date struct {
	pattern string
}

// DefaultDatePattern is used by ${date} without an argument.
const DefaultDatePattern = "YYYY-M-D"

// NewDate returns a date node. The pattern is trimmed.
func NewDate(pattern string) Node {
	return Date{pattern: strings.TrimSpace(pattern)}
}

// Pattern returns the trimmed pattern.
func (d Date) Pattern() string { return d.pattern }

func (d Date) String() string { return "[Date: " + d.pattern + "]" }

func (Date) node() {}

// Workspace resolves the current workspace root, or a named one.
type Workspace struct {
	name  string
	named bool
}

// NewWorkspace returns a node for the current workspace root.
func NewWorkspace() Node {
	return Workspace{}
}

// NewNamedWorkspace returns a node looking up a workspace by name. An empty
// name is the same as NewWorkspace.
func NewNamedWorkspace(name string) Node {
	if name == "" {
		return Workspace{}
	}
	return Workspace{name: name, named: true}
}

// Name returns the workspace name and whether one was given.
func (w Workspace) Name() (string, bool) { return w.name, w.named }

func (w Workspace) String() string {
	if !w.named {
		return "[Workspace]"
	}
	return "[Workspace: " + w.name + "]"
}

func (Workspace) node() {}

// Source is the location a Relative node points at.
type Source string

const (
	SourceImage     Source = "image"
	SourceImageDir  Source = "image-dir"
	SourceEditor    Source = "editor"
	SourceEditorDir Source = "editor-dir"
)

// Relative is the path from its evaluated argument to its source.
type Relative struct {
	source Source
	arg    Node
}

// NewRelative returns a relative-path node.
func NewRelative(source Source, arg Node) Node {
	return Relative{source: source, arg: arg}
}

// Source returns the target location kind.
func (r Relative) Source() Source { return r.source }

// Arg returns the base path expression.
func (r Relative) Arg() Node { return r.arg }

func (r Relative) String() string {
	return fmt.Sprintf("[Rel(%s): %s]", r.source, r.arg)
}

func (Relative) node() {}

// Equal reports whether a and b are structurally equal.
func Equal(a, b Node) bool {
	switch x := a.(type) {
	case Text:
		y, ok := b.(Text)
		return ok && x.text == y.text
	case Empty:
		_, ok := b.(Empty)
		return ok
	case List:
		y, ok := b.(List)
		if !ok || len(x.nodes) != len(y.nodes) {
			return false
		}
		for i := range x.nodes {
			if !Equal(x.nodes[i], y.nodes[i]) {
				return false
			}
		}
		return true
	case Variable:
		y, ok := b.(Variable)
		return ok && x.name == y.name
	case Date:
		y, ok := b.(Date)
		return ok && x.pattern == y.pattern
	case Workspace:
		y, ok := b.(Workspace)
		return ok && x.named == y.named && x.name == y.name
	case Relative:
		y, ok := b.(Relative)
		return ok && x.source == y.source && Equal(x.arg, y.arg)
	default:
		return false
	}
}

// builder collects the children of a list while parsing.
type builder struct {
	nodes []Node
}

func (b *builder) append(n Node) {
	b.nodes = append(b.nodes, n)
}

func (b *builder) empty() bool {
	return len(b.nodes) == 0
}

func (b *builder) build() Node {
	switch len(b.nodes) {
	case 0:
		return Empty{}
	case 1:
		return b.nodes[0]
	default:
		nodes := make([]Node, len(b.nodes))
		copy(nodes, b.nodes)
		return List{nodes: nodes}
	}
}
