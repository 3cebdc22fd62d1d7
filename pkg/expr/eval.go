package expr

import (
	"net/url"
	"strings"
)

// EvalString evaluates n to plain text. Structured paths contribute their
// path component.
func EvalString(n Node, env *Env) (string, error) {
	switch x := n.(type) {
	case Text:
		return x.text, nil
	case Empty:
		return "", nil
	case List:
		var sb strings.Builder
		for _, child := range x.nodes {
			s, err := EvalString(child, env)
			if err != nil {
				return "", err
			}
			sb.WriteString(s)
		}
		return sb.String(), nil
	case Variable:
		v, err := variables[x.name].eval(env)
		if err != nil {
			return "", err
		}
		return v.String(), nil
	case Date:
		return formatDate(x.pattern, env.Date), nil
	case Workspace:
		root, ok := x.resolve(env)
		if !ok {
			return "", nil
		}
		return root.Path, nil
	case Relative:
		return x.eval(env)
	default:
		panic("expr: unknown node type")
	}
}

// Eval evaluates n in path mode. A list whose first element is a structured
// path keeps that path's scheme, authority, query and fragment and
// concatenates the path components of all elements.
func Eval(n Node, env *Env) (Value, error) {
	switch x := n.(type) {
	case Text:
		return TextValue(x.text), nil
	case Empty:
		return TextValue(""), nil
	case List:
		values := make([]Value, len(x.nodes))
		for i, child := range x.nodes {
			v, err := Eval(child, env)
			if err != nil {
				return Value{}, err
			}
			values[i] = v
		}
		return concat(values), nil
	case Variable:
		return variables[x.name].eval(env)
	case Date:
		return TextValue(formatDate(x.pattern, env.Date)), nil
	case Workspace:
		root, ok := x.resolve(env)
		if !ok {
			return TextValue(""), nil
		}
		return URLValue(root), nil
	case Relative:
		s, err := x.eval(env)
		if err != nil {
			return Value{}, err
		}
		return TextValue(s), nil
	default:
		panic("expr: unknown node type")
	}
}

// EvalPath evaluates n to a location. Plain text becomes a file URL; in both
// cases "." and ".." segments are resolved.
func EvalPath(n Node, env *Env) (*url.URL, error) {
	v, err := Eval(n, env)
	if err != nil {
		return nil, err
	}
	if u := v.URL(); u != nil {
		return withPath(u, cleanPath(u.Path)), nil
	}
	return &url.URL{Scheme: DefaultScheme, Path: cleanPath(v.String())}, nil
}

// SupportsPath reports whether evaluating n as a path is meaningful in env.
// Anything derived from the output image never is.
func SupportsPath(n Node, env *Env) bool {
	switch x := n.(type) {
	case Text, Empty, Date:
		return true
	case List:
		for _, child := range x.nodes {
			if !SupportsPath(child, env) {
				return false
			}
		}
		return true
	case Variable:
		return variables[x.name].supportsPath(env)
	case Workspace:
		_, ok := x.resolve(env)
		return ok
	case Relative:
		return x.source == SourceEditor || x.source == SourceEditorDir
	default:
		return false
	}
}

func concat(values []Value) Value {
	switch len(values) {
	case 0:
		return TextValue("")
	case 1:
		return values[0]
	}
	var sb strings.Builder
	for _, v := range values {
		sb.WriteString(v.String())
	}
	first := values[0].URL()
	if first == nil {
		return TextValue(sb.String())
	}
	return URLValue(&url.URL{
		Scheme:   first.Scheme,
		Host:     first.Host,
		User:     first.User,
		Path:     sb.String(),
		RawQuery: first.RawQuery,
		Fragment: first.Fragment,
	})
}

func (w Workspace) resolve(env *Env) (*url.URL, bool) {
	if !w.named {
		return env.Workspace, env.Workspace != nil
	}
	return env.lookupWorkspace(w.name)
}
