package frontmatter

import (
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// The closing delimiter may end the file. Delimiters accept CRLF.
var frontmatterPattern = regexp.MustCompile(`(?s)^---\r?\n(?:---|(.*?)\r?\n---)(?:\r?\n|$)(.*)`)

// Frontmatter is the YAML header of a note. Only the fields the paste
// command reads are decoded.
type Frontmatter struct {
	Title string   `yaml:"title"`
	Tags  []string `yaml:"tags,flow"`
	// Udon overrides paste settings for this note only.
	Udon map[string]any `yaml:"udon,omitempty"`
}

// Parse extracts frontmatter from content and returns the parsed data and body
func Parse(content string) (*Frontmatter, string, error) {
	matches := frontmatterPattern.FindStringSubmatch(content)
	if len(matches) != 3 {
		// No frontmatter found
		return nil, content, nil
	}

	var fm Frontmatter
	if err := yaml.Unmarshal([]byte(matches[1]), &fm); err != nil {
		return nil, content, fmt.Errorf("failed to parse frontmatter: %w", err)
	}

	if fm.Tags == nil {
		fm.Tags = []string{}
	}

	return &fm, matches[2], nil
}

// Split separates the raw YAML of the frontmatter block from the body. ok is
// false when content has no complete block.
func Split(content string) (header, body string, ok bool) {
	matches := frontmatterPattern.FindStringSubmatch(content)
	if len(matches) != 3 {
		return "", content, false
	}
	return matches[1], matches[2], true
}

// HeaderLines returns the number of lines taken by the frontmatter block,
// including both delimiters. It is 0 when content has none.
func HeaderLines(content string) int {
	loc := frontmatterPattern.FindStringSubmatchIndex(content)
	if loc == nil {
		return 0
	}
	header := content[:loc[4]]
	n := strings.Count(header, "\n")
	if !strings.HasSuffix(header, "\n") {
		n++
	}
	return n
}
