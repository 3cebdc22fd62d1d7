package service

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mattsolo1/grove-udon/pkg/config"
	"github.com/mattsolo1/grove-udon/pkg/frontmatter"
	"github.com/mattsolo1/grove-udon/pkg/models"
)

// SetNoteSetting stores a per-note override in the udon block of the note's
// frontmatter, creating the frontmatter when the note has none. The value is
// checked against the setting before the note is written.
func SetNoteSetting(notePath string, key config.Key, value any) error {
	known := false
	for _, k := range config.Keys {
		known = known || k == key
	}
	if !known {
		return fmt.Errorf("unknown setting: %s", key)
	}

	uc := config.FromMap(map[string]any{string(key): value}, false)
	if uc.IsZero() {
		return &config.ConfigError{Key: key, Err: fmt.Errorf("unexpected value %v", value)}
	}
	if _, err := config.Resolve(uc, true, nil); err != nil {
		return err
	}
	if uc.Format != nil {
		if _, err := models.ParseFormat(*uc.Format); err != nil {
			return &config.ConfigError{Key: key, Err: err}
		}
	}

	content, err := os.ReadFile(notePath)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("read note: %w", err)
	}

	updated, err := updateFrontmatterSetting(content, string(key), value)
	if err != nil {
		return err
	}
	if err := os.WriteFile(notePath, updated, 0644); err != nil {
		return fmt.Errorf("write note: %w", err)
	}
	return nil
}

// ParseSettingValue reads a command line value as YAML, so that numbers,
// booleans and rule lists keep their type.
func ParseSettingValue(s string) any {
	var v any
	if err := yaml.Unmarshal([]byte(s), &v); err != nil || v == nil {
		return s
	}
	return v
}

// updateFrontmatterSetting sets udon.<key> in the frontmatter of content.
func updateFrontmatterSetting(content []byte, key string, value any) ([]byte, error) {
	frontmatterStr, body, err := extractFrontmatterString(content)
	if err != nil {
		return nil, err
	}

	// If no frontmatter exists, create new one
	if frontmatterStr == "" {
		yamlBytes, err := yaml.Marshal(map[string]any{
			config.ExtensionName: map[string]any{key: value},
		})
		if err != nil {
			return nil, fmt.Errorf("marshaling new frontmatter: %w", err)
		}

		return joinFrontmatter(content, string(yamlBytes), body), nil
	}

	// Update existing frontmatter using Node API for formatting preservation
	updatedYAML, err := updateFrontmatterNode([]byte(frontmatterStr), key, value)
	if err != nil {
		return nil, err
	}

	return replaceFrontmatter(content, string(updatedYAML)), nil
}

// updateFrontmatterNode updates YAML using the Node API to preserve formatting.
func updateFrontmatterNode(yamlData []byte, key string, value any) ([]byte, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(yamlData, &root); err != nil {
		return nil, fmt.Errorf("unmarshaling YAML: %w", err)
	}

	if len(root.Content) == 0 {
		// Only comments or whitespace.
		root = yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{{Kind: yaml.MappingNode, Tag: "!!map"}}}
	}
	doc := root.Content[0]
	if doc.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("frontmatter is not a mapping")
	}

	block := mappingValue(doc, config.ExtensionName)
	if block == nil || block.Kind != yaml.MappingNode {
		replacement := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		setNodeValue(doc, config.ExtensionName, replacement)
		block = replacement
	}

	var valueNode yaml.Node
	if err := valueNode.Encode(value); err != nil {
		return nil, fmt.Errorf("encoding %s: %w", key, err)
	}
	setNodeValue(block, key, &valueNode)

	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(&root); err != nil {
		return nil, fmt.Errorf("encoding YAML: %w", err)
	}

	return buf.Bytes(), nil
}

func mappingValue(node *yaml.Node, key string) *yaml.Node {
	for i := 0; i < len(node.Content)-1; i += 2 {
		if node.Content[i].Value == key {
			return node.Content[i+1]
		}
	}
	return nil
}

// setNodeValue replaces or appends key in a mapping node.
func setNodeValue(node *yaml.Node, key string, value *yaml.Node) {
	for i := 0; i < len(node.Content)-1; i += 2 {
		if node.Content[i].Value == key {
			node.Content[i+1] = value
			return
		}
	}

	keyNode := &yaml.Node{
		Kind:  yaml.ScalarNode,
		Value: key,
		Tag:   "!!str",
	}
	node.Content = append(node.Content, keyNode, value)
}

// extractFrontmatterString extracts the raw YAML string between delimiters.
func extractFrontmatterString(content []byte) (string, []byte, error) {
	contentStr := string(content)

	if !strings.HasPrefix(contentStr, "---\n") && !strings.HasPrefix(contentStr, "---\r\n") {
		return "", content, nil
	}

	yamlContent, body, ok := frontmatter.Split(contentStr)
	if !ok {
		return "", nil, fmt.Errorf("invalid frontmatter: no closing delimiter found")
	}
	return yamlContent, []byte(body), nil
}

// replaceFrontmatter replaces existing frontmatter with new YAML string.
func replaceFrontmatter(content []byte, newFrontmatter string) []byte {
	_, body, _ := extractFrontmatterString(content)
	return joinFrontmatter(content, strings.TrimSpace(newFrontmatter)+"\n", body)
}

// joinFrontmatter writes header between delimiters followed by body, using
// the line endings of the original content.
func joinFrontmatter(original []byte, header string, body []byte) []byte {
	block := "---\n" + header + "---\n"
	if bytes.Contains(original, []byte("\r\n")) {
		block = strings.ReplaceAll(strings.ReplaceAll(block, "\r\n", "\n"), "\n", "\r\n")
	}

	var result bytes.Buffer
	result.WriteString(block)
	result.Write(body)
	return result.Bytes()
}
