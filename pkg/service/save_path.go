package service

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/mattsolo1/grove-udon/pkg/config"
	"github.com/mattsolo1/grove-udon/pkg/expr"
	"github.com/mattsolo1/grove-udon/pkg/models"
)

// ExistsFunc reports whether a file is already present at u.
type ExistsFunc func(u *url.URL) bool

// FileExists is the default ExistsFunc.
func FileExists(u *url.URL) bool {
	_, err := os.Stat(expr.FilePath(u))
	return err == nil
}

// SaveImagePath computes where the clipboard image is written for the
// selected text. The base directory is chosen by the baseDirectories rules
// on the note path; the file name comes from the selection or the
// defaultFileName template. Unless the selection asks to overwrite, a
// numbered suffix is appended while exists reports the path as taken.
func SaveImagePath(ctx context.Context, cfg *config.Config, env *expr.Env, selected string, exists ExistsFunc) (*models.SaveImageInfo, error) {
	if exists == nil {
		exists = FileExists
	}

	node := cfg.BaseDirectory
	if env.Editor != nil {
		node = cfg.BaseDirectories.Select(expr.FilePath(env.Editor), cfg.BaseDirectory)
	}
	base, err := expr.EvalPath(node, env)
	if err != nil {
		return nil, fmt.Errorf("evaluate base directory: %w", err)
	}

	sel := models.ParseSelection(selected)
	format := cfg.Format
	if sel.Format != "" {
		format = sel.Format
	}

	var name string
	overwrite := false
	if sel.Name == "" {
		if name, err = expr.EvalString(cfg.DefaultFileName, env); err != nil {
			return nil, fmt.Errorf("evaluate file name: %w", err)
		}
	} else {
		name = sel.Name
		overwrite = sel.Overwrite
	}
	name = norm.NFC.String(models.ForbiddenChars.ReplaceAllString(name, ""))
	if name == "" {
		if name, err = expr.EvalString(config.DefaultFileNameNode(), env); err != nil {
			return nil, fmt.Errorf("evaluate file name: %w", err)
		}
	}

	ext := format.Ext()
	p := joinURL(base, name+ext)
	if !overwrite {
		for i := 1; exists(p); i++ {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			p = joinURL(base, name+cfg.SuffixDelimiter+zeroFill(i, cfg.SuffixLength)+ext)
		}
	}

	return &models.SaveImageInfo{
		Path:      p,
		MaxWidth:  sel.MaxWidth,
		MaxHeight: sel.MaxHeight,
		Format:    format,
	}, nil
}

func joinURL(base *url.URL, name string) *url.URL {
	u := *base
	u.Path = path.Join(base.Path, name)
	u.RawPath = ""
	return &u
}

// zeroFill pads i with leading zeros to at least n digits.
func zeroFill(i, n int) string {
	s := fmt.Sprint(i)
	if len(s) >= n {
		return s
	}
	return strings.Repeat("0", n-len(s)) + s
}
