package expr

import (
	"net/url"
	"path/filepath"
)

// target returns the location r points at.
func (r Relative) target(env *Env) (*url.URL, error) {
	switch r.source {
	case SourceImage, SourceImageDir:
		if env.Image == nil {
			return nil, ErrImageNotFound
		}
		if r.source == SourceImageDir {
			return withPath(env.Image, dirname(env.Image.Path)), nil
		}
		return env.Image, nil
	case SourceEditor, SourceEditorDir:
		if env.Editor == nil {
			return nil, ErrEditorNotFound
		}
		if r.source == SourceEditorDir {
			return withPath(env.Editor, dirname(env.Editor.Path)), nil
		}
		return env.Editor, nil
	default:
		panic("expr: unknown relative source " + string(r.source))
	}
}

// eval returns the slash-separated path from the argument to the target.
func (r Relative) eval(env *Env) (string, error) {
	base, err := Eval(r.arg, env)
	if err != nil {
		return "", err
	}
	target, err := r.target(env)
	if err != nil {
		return "", err
	}

	basePath := base.String()
	if u := base.URL(); u != nil {
		basePath = FilePath(u)
	}
	return relativePath(basePath, FilePath(target)), nil
}

// relativePath computes the path from base to target after making both
// absolute. Identical paths give "". When no relative path exists the
// absolute target is returned.
func relativePath(base, target string) string {
	absBase, err := filepath.Abs(base)
	if err != nil {
		return filepath.ToSlash(target)
	}
	absTarget, err := filepath.Abs(target)
	if err != nil {
		return filepath.ToSlash(target)
	}
	rel, err := filepath.Rel(absBase, absTarget)
	if err != nil {
		return filepath.ToSlash(absTarget)
	}
	if rel == "." {
		return ""
	}
	return filepath.ToSlash(rel)
}
