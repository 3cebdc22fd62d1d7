package workspace

import (
	"os"
	"path/filepath"

	"github.com/mattsolo1/grove-core/config"
)

// DefaultDataDir returns the directory holding the registry and paste
// history. It reads udon.data_dir from grove.yml, otherwise falls back to
// ~/.local/share/udon.
func DefaultDataDir() string {
	cfg, err := config.LoadDefault()
	if err == nil {
		if dir := dataDirFromExtensions(cfg.Extensions); dir != "" {
			return dir
		}
	}

	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "udon")
}

func dataDirFromExtensions(ext map[string]interface{}) string {
	udon, ok := ext["udon"].(map[string]interface{})
	if !ok {
		return ""
	}
	dir, ok := udon["data_dir"].(string)
	if !ok || dir == "" {
		return ""
	}
	if p, err := expandHome(dir); err == nil {
		return p
	}
	return dir
}
