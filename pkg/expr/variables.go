package expr

import "net/url"

// VariableName is an entry of the closed variable catalog.
type VariableName string

const (
	VarWorkspaceFolder          VariableName = "workspaceFolder"
	VarWorkspaceFolderBasename  VariableName = "workspaceFolderBasename"
	VarFile                     VariableName = "file"
	VarFileBasename             VariableName = "fileBasename"
	VarFileExtname              VariableName = "fileExtname"
	VarFileBasenameNoExtension  VariableName = "fileBasenameNoExtension"
	VarFileDirname              VariableName = "fileDirname"
	VarFileDir                  VariableName = "fileDir"
	VarFileDirnameBasename      VariableName = "fileDirnameBasename"
	VarFileDirBasename          VariableName = "fileDirBasename"
	VarImage                    VariableName = "image"
	VarImageBasename            VariableName = "imageBasename"
	VarImageExtname             VariableName = "imageExtname"
	VarImageBasenameNoExtension VariableName = "imageBasenameNoExtension"
	VarImageDirname             VariableName = "imageDirname"
	VarImageDir                 VariableName = "imageDir"
	VarImageDirnameBasename     VariableName = "imageDirnameBasename"
	VarImageDirBasename         VariableName = "imageDirBasename"
	VarImageFormat              VariableName = "imageFormat"
)

// origin is the context attribute a variable is derived from.
type origin int

const (
	originEditor origin = iota
	originImage
	originWorkspace
	originImageFormat
)

// derivation is what a variable extracts from its origin location.
type derivation int

const (
	deriveSelf derivation = iota
	deriveBasename
	deriveExtname
	deriveStem
	deriveDirname
	deriveDirnameBasename
)

type variableSpec struct {
	origin origin
	derive derivation
}

var variables = map[VariableName]variableSpec{
	VarWorkspaceFolder:          {originWorkspace, deriveSelf},
	VarWorkspaceFolderBasename:  {originWorkspace, deriveBasename},
	VarFile:                     {originEditor, deriveSelf},
	VarFileBasename:             {originEditor, deriveBasename},
	VarFileExtname:              {originEditor, deriveExtname},
	VarFileBasenameNoExtension:  {originEditor, deriveStem},
	VarFileDirname:              {originEditor, deriveDirname},
	VarFileDir:                  {originEditor, deriveDirname},
	VarFileDirnameBasename:      {originEditor, deriveDirnameBasename},
	VarFileDirBasename:          {originEditor, deriveDirnameBasename},
	VarImage:                    {originImage, deriveSelf},
	VarImageBasename:            {originImage, deriveBasename},
	VarImageExtname:             {originImage, deriveExtname},
	VarImageBasenameNoExtension: {originImage, deriveStem},
	VarImageDirname:             {originImage, deriveDirname},
	VarImageDir:                 {originImage, deriveDirname},
	VarImageDirnameBasename:     {originImage, deriveDirnameBasename},
	VarImageDirBasename:         {originImage, deriveDirnameBasename},
	VarImageFormat:              {originImageFormat, deriveSelf},
}

// VariableNames returns the catalog in a stable order.
func VariableNames() []VariableName {
	return []VariableName{
		VarWorkspaceFolder, VarWorkspaceFolderBasename,
		VarFile, VarFileBasename, VarFileExtname, VarFileBasenameNoExtension,
		VarFileDirname, VarFileDir, VarFileDirnameBasename, VarFileDirBasename,
		VarImage, VarImageBasename, VarImageExtname, VarImageBasenameNoExtension,
		VarImageDirname, VarImageDir, VarImageDirnameBasename, VarImageDirBasename,
		VarImageFormat,
	}
}

// location returns the origin location of spec in env, or the error to raise
// when it is absent.
func (spec variableSpec) location(env *Env) (*url.URL, error) {
	switch spec.origin {
	case originEditor:
		if env.Editor == nil {
			return nil, ErrEditorNotFound
		}
		return env.Editor, nil
	case originImage:
		if env.Image == nil {
			return nil, ErrImageNotFound
		}
		return env.Image, nil
	case originWorkspace:
		if env.Workspace == nil {
			return nil, ErrWorkspaceNotFound
		}
		return env.Workspace, nil
	default:
		panic("expr: location of non-path variable")
	}
}

func (spec variableSpec) eval(env *Env) (Value, error) {
	if spec.origin == originImageFormat {
		return TextValue(env.ImageFormat), nil
	}
	loc, err := spec.location(env)
	if err != nil {
		return Value{}, err
	}
	switch spec.derive {
	case deriveSelf:
		return URLValue(loc), nil
	case deriveBasename:
		return TextValue(basename(loc.Path)), nil
	case deriveExtname:
		return TextValue(extname(loc.Path)), nil
	case deriveStem:
		name := basename(loc.Path)
		return TextValue(name[:len(name)-len(extname(name))]), nil
	case deriveDirname:
		return URLValue(withPath(loc, dirname(loc.Path))), nil
	case deriveDirnameBasename:
		return TextValue(basename(dirname(loc.Path))), nil
	default:
		panic("expr: unknown derivation")
	}
}

func (spec variableSpec) supportsPath(env *Env) bool {
	switch spec.origin {
	case originEditor:
		return env.Editor != nil
	case originImage:
		// The image is an output; it never exists while templates are evaluated.
		return false
	case originImageFormat:
		return env.ImageFormat != ""
	case originWorkspace:
		return env.Workspace != nil
	default:
		return false
	}
}
