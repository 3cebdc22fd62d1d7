package expr

import (
	"strings"
	"unicode"
)

// Names of the parameterized constructs.
const (
	FuncWorkspace   = "workspace"
	FuncDate        = "date"
	FuncRelImage    = "relImage"
	FuncRelImageDir = "relImageDir"
	FuncRelFile     = "relFile"
	FuncRelFileDir  = "relFileDir"
)

var relativeSources = map[string]Source{
	FuncRelImage:    SourceImage,
	FuncRelImageDir: SourceImageDir,
	FuncRelFile:     SourceEditor,
	FuncRelFileDir:  SourceEditorDir,
}

// Parse turns template text into a node tree.
//
// Syntax:
//
//	$name            variable, name is [A-Za-z0-9]+
//	${name}          variable, surrounding spaces ignored
//	${name: arg}     construct with a nested template argument
//	$$               literal $
func Parse(text string) (Node, error) {
	s := newScanner(text)
	var top builder
	if _, err := parse(s, &top, false); err != nil {
		return nil, err
	}
	return top.build(), nil
}

// MustParse is like Parse but panics on error. It is meant for built-in
// templates.
func MustParse(text string) Node {
	n, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return n
}

// parse appends the nodes read from s to parent. With closeOnBrace it stops
// after the first unmatched '}' and reports whether one was found.
func parse(s *scanner, parent *builder, closeOnBrace bool) (bool, error) {
	for s.hasNext() {
		c, _ := s.peek()
		switch {
		case closeOnBrace && c == '}':
			if s.hasValue() {
				if text := strings.TrimRightFunc(s.slice(), unicode.IsSpace); text != "" {
					parent.append(NewText(text))
				}
			}
			s.skip()
			return true, nil

		case c == '$':
			if s.hasValue() {
				parent.append(NewText(s.slice()))
			}
			s.skip()
			next, ok := s.peek()
			switch {
			case !ok:
				parent.append(NewText("$"))
				s.mark()
			case next == '$':
				s.skip()
				s.mark()
				parent.append(NewText("$"))
			case next == '{':
				s.skip()
				if err := parsePlaceholder(s, parent); err != nil {
					return false, err
				}
				s.mark()
			default:
				s.mark()
				for ok && isNameChar(next) {
					s.skip()
					next, ok = s.peek()
				}
				if s.hasValue() {
					if err := createVariable(s.slice(), nil, parent, s.input()); err != nil {
						return false, err
					}
				} else {
					parent.append(NewText("$"))
				}
				s.mark()
			}

		default:
			s.skip()
		}
	}

	if s.hasValue() {
		parent.append(NewText(s.slice()))
	}
	return !closeOnBrace, nil
}

// parsePlaceholder reads "name}" or "name: arg}" after "${".
func parsePlaceholder(s *scanner, parent *builder) error {
	var (
		name   string
		arg    *builder
		closed bool
	)

	s.mark()
	for s.hasNext() {
		c, _ := s.peek()
		if c == ':' {
			name = strings.TrimSpace(s.slice())
			arg = &builder{}
			s.skip()
			for next, ok := s.peek(); ok && next == ' '; next, ok = s.peek() {
				s.skip()
			}
			s.mark()
			var err error
			if closed, err = parse(s, arg, true); err != nil {
				return err
			}
			break
		}
		if c == '}' {
			name = strings.TrimSpace(s.slice())
			s.skip()
			s.mark()
			closed = true
			break
		}
		s.skip()
	}

	if !closed {
		return parseErrorf(s.input(), "not closed: %s", s.input())
	}
	if name == "" {
		return parseErrorf(s.input(), "variable name is empty: %s", s.input())
	}
	return createVariable(name, arg, parent, s.input())
}

// createVariable appends the node for name. arg is nil when the placeholder
// had no ':' part.
func createVariable(name string, arg *builder, parent *builder, input string) error {
	switch name {
	case FuncWorkspace:
		if arg == nil || arg.empty() {
			parent.append(NewWorkspace())
			return nil
		}
		t, ok := arg.build().(Text)
		if !ok {
			return parseErrorf(input, "$%s is invalid format: %s", name, input)
		}
		parent.append(NewNamedWorkspace(t.text))
		return nil

	case FuncDate:
		if arg == nil || arg.empty() {
			parent.append(NewDate(DefaultDatePattern))
			return nil
		}
		t, ok := arg.build().(Text)
		if !ok {
			return parseErrorf(input, "$%s is invalid format: %s", name, input)
		}
		parent.append(NewDate(t.text))
		return nil

	case FuncRelImage, FuncRelImageDir, FuncRelFile, FuncRelFileDir:
		source := relativeSources[name]
		if arg == nil || arg.empty() {
			parent.append(NewRelative(source, Variable{name: VarFileDirname}))
		} else {
			parent.append(NewRelative(source, arg.build()))
		}
		return nil

	default:
		if arg != nil {
			return parseErrorf(input, "$%s does not take an argument: %s", name, input)
		}
		v, err := NewVariable(name)
		if err != nil {
			return parseErrorf(input, "unknown variable name %s: %s", name, input)
		}
		parent.append(v)
		return nil
	}
}

func isNameChar(r rune) bool {
	return ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z') || ('0' <= r && r <= '9')
}
