package expr

// scanner reads template text one code point at a time. The parser keeps a
// mark behind the cursor and slices the pending literal run from it.
type scanner struct {
	text   []rune
	cursor int
	marker int
}

func newScanner(text string) *scanner {
	return &scanner{text: []rune(text)}
}

// input returns the whole template, used in error messages.
func (s *scanner) input() string {
	return string(s.text)
}

// slice returns the text between the mark and the cursor.
func (s *scanner) slice() string {
	if s.marker >= s.cursor {
		return ""
	}
	return string(s.text[s.marker:s.cursor])
}

// mark moves the mark to the cursor.
func (s *scanner) mark() {
	s.markOffset(0)
}

func (s *scanner) markOffset(n int) {
	s.marker = s.cursor + n
}

// hasValue reports whether slice would return a non-empty string.
func (s *scanner) hasValue() bool {
	return s.marker < s.cursor
}

// peek returns the next code point without consuming it.
func (s *scanner) peek() (rune, bool) {
	if s.cursor >= len(s.text) {
		return 0, false
	}
	return s.text[s.cursor], true
}

// skip advances the cursor by one code point.
func (s *scanner) skip() {
	if s.cursor < len(s.text) {
		s.cursor++
	}
}

func (s *scanner) hasNext() bool {
	return s.cursor < len(s.text)
}
