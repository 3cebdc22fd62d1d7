package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	coreconfig "github.com/mattsolo1/grove-core/config"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mattsolo1/grove-udon/pkg/frontmatter"
)

// ExtensionName is the grove.yml extension block holding udon settings.
const ExtensionName = "udon"

// ProjectFiles are read from the workspace root. A file earlier in the list
// takes precedence for each key it sets.
var ProjectFiles = []string{
	".udon.json",
	".udon.yml",
	".udon.yaml",
	filepath.Join(".vscode", "udon.json"),
}

// FromGrove reads the udon extension of a grove configuration.
func FromGrove(cfg *coreconfig.Config) UserConfig {
	if cfg == nil || cfg.Extensions == nil {
		return UserConfig{}
	}
	m, ok := cfg.Extensions[ExtensionName].(map[string]interface{})
	if !ok {
		return UserConfig{}
	}
	return FromMap(m, false)
}

// FromViper reads the settings known to v, including environment overrides.
func FromViper(v *viper.Viper) UserConfig {
	if v == nil {
		return UserConfig{}
	}
	m := make(map[string]any)
	for _, k := range Keys {
		if v.IsSet(string(k)) {
			m[string(k)] = v.Get(string(k))
		}
	}
	return FromMap(m, true)
}

// LoadFile reads one project file. A missing file yields an empty config.
func LoadFile(path string) (UserConfig, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return UserConfig{}, nil
	}
	if err != nil {
		return UserConfig{}, fmt.Errorf("read %s: %w", path, err)
	}

	m := make(map[string]any)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		err = yaml.Unmarshal(data, &m)
	default:
		err = json.Unmarshal(data, &m)
	}
	if err != nil {
		return UserConfig{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return FromMap(m, false), nil
}

// LoadProject merges the project files found under root.
func LoadProject(root string) (UserConfig, []string, error) {
	var layers []UserConfig
	var used []string
	for _, name := range ProjectFiles {
		p := filepath.Join(root, name)
		uc, err := LoadFile(p)
		if err != nil {
			return UserConfig{}, nil, err
		}
		if uc.IsZero() {
			continue
		}
		layers = append(layers, uc)
		used = append(used, p)
	}
	return Merge(layers...), used, nil
}

// LoadNote reads the udon block from the frontmatter of a note.
func LoadNote(path string) (UserConfig, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return UserConfig{}, nil
	}
	if err != nil {
		return UserConfig{}, fmt.Errorf("read note: %w", err)
	}
	fm, _, err := frontmatter.Parse(string(data))
	if err != nil {
		return UserConfig{}, err
	}
	if fm == nil {
		return UserConfig{}, nil
	}
	return FromMap(fm.Udon, false), nil
}

// Loader resolves the configuration layers, lowest first: defaults, the
// grove.yml extension, the user config, project files and note
// frontmatter.
type Loader struct {
	Grove  UserConfig
	User   UserConfig
	Logger logrus.FieldLogger
}

// Base resolves the global layers. An invalid setting is logged and the
// lower layer's value is kept.
func (l *Loader) Base() *Config {
	c := l.lenient(l.Grove, nil, "grove.yml")
	return l.lenient(l.User, c, "user config")
}

func (l *Loader) lenient(uc UserConfig, base *Config, source string) *Config {
	c, err := Resolve(uc, true, base)
	if err == nil {
		return c
	}
	if l.Logger != nil {
		l.Logger.WithError(err).WithField("source", source).Warn("Ignoring invalid configuration")
	}
	c, _ = Resolve(uc, false, base)
	return c
}

// ForNote applies the project files of workspaceRoot and the frontmatter of
// notePath on top of base. Errors in these layers are returned.
func (l *Loader) ForNote(base *Config, workspaceRoot, notePath string) (*Config, error) {
	if base == nil {
		base = l.Base()
	}
	c := base

	if workspaceRoot != "" {
		uc, files, err := LoadProject(workspaceRoot)
		if err != nil {
			return nil, fmt.Errorf("load project config: %w", err)
		}
		if l.Logger != nil && len(files) > 0 {
			l.Logger.WithField("files", files).Debug("Loaded project config")
		}
		if c, err = Resolve(uc, true, c); err != nil {
			return nil, err
		}
	}

	if notePath != "" {
		uc, err := LoadNote(notePath)
		if err != nil {
			return nil, fmt.Errorf("load note config: %w", err)
		}
		if c, err = Resolve(uc, true, c); err != nil {
			return nil, err
		}
	}

	return c, nil
}
