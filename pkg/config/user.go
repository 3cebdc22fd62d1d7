package config

import (
	"strings"

	"github.com/mitchellh/mapstructure"
)

// UserConfig holds the settings provided by one layer. Nil fields are
// unset.
type UserConfig struct {
	Format              *string `mapstructure:"format" json:"format,omitempty" yaml:"format,omitempty"`
	SaveInWorkspaceOnly *bool   `mapstructure:"saveInWorkspaceOnly" json:"saveInWorkspaceOnly,omitempty" yaml:"saveInWorkspaceOnly,omitempty"`
	ExecPath            *string `mapstructure:"execPath" json:"execPath,omitempty" yaml:"execPath,omitempty"`
	BaseDirectory       *string `mapstructure:"baseDirectory" json:"baseDirectory,omitempty" yaml:"baseDirectory,omitempty"`
	BaseDirectories     any     `mapstructure:"baseDirectories" json:"baseDirectories,omitempty" yaml:"baseDirectories,omitempty"`
	DefaultFileName     *string `mapstructure:"defaultFileName" json:"defaultFileName,omitempty" yaml:"defaultFileName,omitempty"`
	Rule                any     `mapstructure:"rule" json:"rule,omitempty" yaml:"rule,omitempty"`
	SuffixLength        *int    `mapstructure:"suffixLength" json:"suffixLength,omitempty" yaml:"suffixLength,omitempty"`
	SuffixDelimiter     *string `mapstructure:"suffixDelimiter" json:"suffixDelimiter,omitempty" yaml:"suffixDelimiter,omitempty"`
}

// IsZero reports whether no setting is present.
func (uc UserConfig) IsZero() bool {
	return uc.Count() == 0
}

// Count returns the number of settings present.
func (uc UserConfig) Count() int {
	n := 0
	for _, set := range []bool{
		uc.Format != nil,
		uc.SaveInWorkspaceOnly != nil,
		uc.ExecPath != nil,
		uc.BaseDirectory != nil,
		uc.BaseDirectories != nil,
		uc.DefaultFileName != nil,
		uc.Rule != nil,
		uc.SuffixLength != nil,
		uc.SuffixDelimiter != nil,
	} {
		if set {
			n++
		}
	}
	return n
}

// Merge combines layers. For each setting the first layer providing it wins.
func Merge(layers ...UserConfig) UserConfig {
	var out UserConfig
	for _, l := range layers {
		if out.Format == nil {
			out.Format = l.Format
		}
		if out.SaveInWorkspaceOnly == nil {
			out.SaveInWorkspaceOnly = l.SaveInWorkspaceOnly
		}
		if out.ExecPath == nil {
			out.ExecPath = l.ExecPath
		}
		if out.BaseDirectory == nil {
			out.BaseDirectory = l.BaseDirectory
		}
		if out.BaseDirectories == nil {
			out.BaseDirectories = l.BaseDirectories
		}
		if out.DefaultFileName == nil {
			out.DefaultFileName = l.DefaultFileName
		}
		if out.Rule == nil {
			out.Rule = l.Rule
		}
		if out.SuffixLength == nil {
			out.SuffixLength = l.SuffixLength
		}
		if out.SuffixDelimiter == nil {
			out.SuffixDelimiter = l.SuffixDelimiter
		}
		if out.Count() == len(Keys) {
			break
		}
	}
	return out
}

// FromMap reads the settings from a decoded JSON or YAML object. Each key
// may also be written with a "udon." prefix. Values of the wrong type are
// ignored; with weak set, strings are converted as environment values are.
func FromMap(m map[string]any, weak bool) UserConfig {
	if len(m) == 0 {
		return UserConfig{}
	}
	return UserConfig{
		Format:              decodeKey[string](m, KeyFormat, weak),
		SaveInWorkspaceOnly: decodeKey[bool](m, KeySaveInWorkspaceOnly, weak),
		ExecPath:            decodeKey[string](m, KeyExecPath, weak),
		BaseDirectory:       decodeKey[string](m, KeyBaseDirectory, weak),
		BaseDirectories:     lookup(m, KeyBaseDirectories),
		DefaultFileName:     decodeKey[string](m, KeyDefaultFileName, weak),
		Rule:                lookup(m, KeyRule),
		SuffixLength:        decodeKey[int](m, KeySuffixLength, weak),
		SuffixDelimiter:     decodeKey[string](m, KeySuffixDelimiter, weak),
	}
}

func lookup(m map[string]any, key Key) any {
	for _, name := range []string{string(key), "udon." + string(key)} {
		if v, ok := m[name]; ok && v != nil {
			return v
		}
	}
	// Keys read through viper are lower-cased.
	lower := strings.ToLower(string(key))
	for _, name := range []string{lower, "udon." + lower} {
		if v, ok := m[name]; ok && v != nil {
			return v
		}
	}
	return nil
}

func decodeKey[T any](m map[string]any, key Key, weak bool) *T {
	v := lookup(m, key)
	if v == nil {
		return nil
	}
	var out T
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: weak,
		Result:           &out,
	})
	if err != nil {
		return nil
	}
	if err := dec.Decode(v); err != nil {
		return nil
	}
	return &out
}
