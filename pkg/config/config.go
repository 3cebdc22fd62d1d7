// Package config resolves the paste settings from user, project and note
// layers.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mattsolo1/grove-udon/pkg/expr"
	"github.com/mattsolo1/grove-udon/pkg/models"
	"github.com/mattsolo1/grove-udon/pkg/rule"
)

// Key names a configuration setting.
type Key string

const (
	KeyFormat              Key = "format"
	KeySaveInWorkspaceOnly Key = "saveInWorkspaceOnly"
	KeyExecPath            Key = "execPath"
	KeyBaseDirectory       Key = "baseDirectory"
	KeyBaseDirectories     Key = "baseDirectories"
	KeyDefaultFileName     Key = "defaultFileName"
	KeyRule                Key = "rule"
	KeySuffixLength        Key = "suffixLength"
	KeySuffixDelimiter     Key = "suffixDelimiter"
)

// Keys lists every setting in a stable order.
var Keys = []Key{
	KeyFormat,
	KeySaveInWorkspaceOnly,
	KeyExecPath,
	KeyBaseDirectory,
	KeyBaseDirectories,
	KeyDefaultFileName,
	KeyRule,
	KeySuffixLength,
	KeySuffixDelimiter,
}

const (
	DefaultBaseDirectory   = "${fileDirname}/image"
	DefaultFileName        = "${fileBasenameNoExtension}-${date: YYYY-M-D}"
	DefaultRuleTemplate    = "${relImage:${workspaceFolder}}"
	DefaultSuffixLength    = 0
	DefaultSuffixDelimiter = "_"
)

// DefaultRules are the insertion templates used when none are configured.
var DefaultRules = [][]string{
	{"*.md", "![](${relImage:${fileDirname}})"},
	{"*.textile", "!${relImage:${fileDirname}}!"},
	{"*.adoc", "image::${relImage:${fileDirname}}[]"},
	{"*.html", "<img src=\"${relImage:${fileDirname}}\">"},
	{"*.cpp", "@image html ${relImage:${workspaceFolder}}"},
	{"*.hpp", "@image html ${relImage:${workspaceFolder}}"},
	{"*", "${relImage:${workspaceFolder}}"},
}

var (
	defaultBaseDirectoryNode = expr.MustParse(DefaultBaseDirectory)
	defaultFileNameNode      = expr.MustParse(DefaultFileName)
	// DefaultRule is inserted when no rule matches the note.
	DefaultRule = expr.MustParse(DefaultRuleTemplate)
)

// DefaultFileNameNode is the file name template used when a configured or
// selected name sanitizes to nothing.
func DefaultFileNameNode() expr.Node { return defaultFileNameNode }

// Config is a fully resolved configuration.
type Config struct {
	Format              models.Format
	ExecPath            string
	BaseDirectory       expr.Node
	BaseDirectories     rule.Table
	DefaultFileName     expr.Node
	Rule                rule.Table
	SuffixLength        int
	SuffixDelimiter     string
	SaveInWorkspaceOnly bool

	// Template sources, kept for display.
	BaseDirectoryTemplate   string
	DefaultFileNameTemplate string
}

// ConfigError reports an invalid setting.
type ConfigError struct {
	Key Key
	Err error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Key, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// Default returns the built-in configuration.
func Default() *Config {
	rules, err := rule.Parse(DefaultRules)
	if err != nil {
		panic(err)
	}
	return &Config{
		Format:                  models.DefaultFormat,
		BaseDirectory:           defaultBaseDirectoryNode,
		BaseDirectories:         rule.Table{},
		DefaultFileName:         defaultFileNameNode,
		Rule:                    rules,
		SuffixLength:            DefaultSuffixLength,
		SuffixDelimiter:         DefaultSuffixDelimiter,
		SaveInWorkspaceOnly:     true,
		BaseDirectoryTemplate:   DefaultBaseDirectory,
		DefaultFileNameTemplate: DefaultFileName,
	}
}

// Resolve applies uc on top of base, or on top of the defaults when base is
// nil. In strict mode the first invalid setting is returned as a
// *ConfigError; otherwise invalid settings fall back to base.
func Resolve(uc UserConfig, strict bool, base *Config) (*Config, error) {
	if base == nil {
		base = Default()
	}
	c := *base

	if uc.Format != nil {
		if f, err := models.ParseFormat(*uc.Format); err == nil {
			c.Format = f
		}
	}

	if uc.ExecPath != nil && *uc.ExecPath != "" {
		c.ExecPath = strings.TrimSpace(*uc.ExecPath)
	}

	if uc.BaseDirectory != nil && *uc.BaseDirectory != "" {
		n, err := expr.Parse(*uc.BaseDirectory)
		switch {
		case err == nil:
			c.BaseDirectory = n
			c.BaseDirectoryTemplate = *uc.BaseDirectory
		case strict:
			return nil, &ConfigError{Key: KeyBaseDirectory, Err: err}
		}
	}

	if uc.BaseDirectories != nil {
		t, err := resolveTable(uc.BaseDirectories)
		switch {
		case err == nil && len(t) > 0:
			c.BaseDirectories = t
		case err != nil && strict:
			return nil, &ConfigError{Key: KeyBaseDirectories, Err: err}
		}
	}

	if uc.DefaultFileName != nil && *uc.DefaultFileName != "" {
		n, err := expr.Parse(*uc.DefaultFileName)
		switch {
		case err == nil:
			c.DefaultFileName = n
			c.DefaultFileNameTemplate = *uc.DefaultFileName
		case strict:
			return nil, &ConfigError{Key: KeyDefaultFileName, Err: err}
		}
	}

	if uc.Rule != nil {
		t, err := resolveTable(uc.Rule)
		switch {
		case err == nil && len(t) > 0:
			c.Rule = t
		case err != nil && strict:
			return nil, &ConfigError{Key: KeyRule, Err: err}
		}
	}

	if uc.SuffixLength != nil {
		if *uc.SuffixLength < 0 {
			if strict {
				return nil, &ConfigError{Key: KeySuffixLength, Err: errors.New("must not be negative")}
			}
		} else {
			c.SuffixLength = *uc.SuffixLength
		}
	}
	if uc.SuffixDelimiter != nil {
		c.SuffixDelimiter = *uc.SuffixDelimiter
	}
	if uc.SaveInWorkspaceOnly != nil {
		c.SaveInWorkspaceOnly = *uc.SaveInWorkspaceOnly
	}

	return &c, nil
}

func resolveTable(v any) (rule.Table, error) {
	if items, ok := v.([]any); ok && len(items) == 0 {
		return nil, nil
	}
	return rule.ParseAny(v)
}

// Export returns c as a fully populated UserConfig, suitable for printing
// or for writing back to a project file.
func (c *Config) Export() UserConfig {
	format := string(c.Format)
	baseDirectory := c.BaseDirectoryTemplate
	defaultFileName := c.DefaultFileNameTemplate
	suffixLength := c.SuffixLength
	suffixDelimiter := c.SuffixDelimiter
	saveInWorkspaceOnly := c.SaveInWorkspaceOnly
	execPath := c.ExecPath
	return UserConfig{
		Format:              &format,
		SaveInWorkspaceOnly: &saveInWorkspaceOnly,
		ExecPath:            &execPath,
		BaseDirectory:       &baseDirectory,
		BaseDirectories:     c.BaseDirectories.Pairs(),
		DefaultFileName:     &defaultFileName,
		Rule:                c.Rule.Pairs(),
		SuffixLength:        &suffixLength,
		SuffixDelimiter:     &suffixDelimiter,
	}
}
