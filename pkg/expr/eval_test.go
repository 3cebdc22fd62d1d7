package expr

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEnv() *Env {
	return &Env{
		Date:        time.Date(2024, 2, 9, 4, 2, 3, 0, time.Local),
		Workspace:   FileURL("/foo/bar/workspace"),
		Editor:      FileURL("/foo/bar/workspace/src/hoge/text.txt"),
		Image:       FileURL("/foo/bar/workspace/img/hoge/fuga.webp"),
		ImageFormat: "jpeg",
	}
}

func TestEvalVariables(t *testing.T) {
	env := testEnv()

	tests := []struct {
		template     string
		expected     string
		supportsPath bool
	}{
		{"${workspaceFolder}", "/foo/bar/workspace", true},
		{"${workspaceFolderBasename}", "workspace", true},
		{"${file}", "/foo/bar/workspace/src/hoge/text.txt", true},
		{"${fileBasename}", "text.txt", true},
		{"${fileExtname}", ".txt", true},
		{"${fileBasenameNoExtension}", "text", true},
		{"${fileDirname}", "/foo/bar/workspace/src/hoge", true},
		{"${fileDir}", "/foo/bar/workspace/src/hoge", true},
		{"${fileDirnameBasename}", "hoge", true},
		{"${fileDirBasename}", "hoge", true},
		{"${image}", "/foo/bar/workspace/img/hoge/fuga.webp", false},
		{"${imageBasename}", "fuga.webp", false},
		{"${imageExtname}", ".webp", false},
		{"${imageBasenameNoExtension}", "fuga", false},
		{"${imageDirname}", "/foo/bar/workspace/img/hoge", false},
		{"${imageDir}", "/foo/bar/workspace/img/hoge", false},
		{"${imageDirnameBasename}", "hoge", false},
		{"${imageDirBasename}", "hoge", false},
		{"${imageFormat}", "jpeg", true},
	}

	for _, tt := range tests {
		t.Run(tt.template, func(t *testing.T) {
			n, err := Parse(tt.template)
			require.NoError(t, err)

			assert.Equal(t, tt.supportsPath, SupportsPath(n, env))

			s, err := EvalString(n, env)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, s)

			if tt.supportsPath {
				u, err := EvalPath(n, env)
				require.NoError(t, err)
				assert.Equal(t, tt.expected, u.Path)
			}
		})
	}
}

func TestEvalStructuredVariablesKeepURL(t *testing.T) {
	env := testEnv()

	v, err := Eval(mustVar(t, "fileDirname"), env)
	require.NoError(t, err)
	require.True(t, v.IsURL())
	assert.Equal(t, "file", v.URL().Scheme)

	v, err = Eval(mustVar(t, "fileBasename"), env)
	require.NoError(t, err)
	assert.False(t, v.IsURL())
}

func TestEvalMissingContext(t *testing.T) {
	env := &Env{Date: time.Now()}

	tests := []struct {
		template string
		err      error
	}{
		{"$file", ErrEditorNotFound},
		{"${fileDirBasename}", ErrEditorNotFound},
		{"$image", ErrImageNotFound},
		{"${imageExtname}", ErrImageNotFound},
		{"$workspaceFolder", ErrWorkspaceNotFound},
		{"prefix/${workspaceFolderBasename}/suffix", ErrWorkspaceNotFound},
		{"${relImage: /tmp}", ErrImageNotFound},
		{"${relFile: /tmp}", ErrEditorNotFound},
		{"$relFileDir", ErrEditorNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.template, func(t *testing.T) {
			n, err := Parse(tt.template)
			require.NoError(t, err)

			_, err = EvalString(n, env)
			assert.ErrorIs(t, err, tt.err)
			assert.True(t, IsResolution(err))

			_, err = Eval(n, env)
			assert.ErrorIs(t, err, tt.err)
		})
	}

	t.Run("file variables without editor do not support paths", func(t *testing.T) {
		for _, name := range []string{"file", "fileBasename", "fileDirname", "fileExtname"} {
			assert.False(t, SupportsPath(mustVar(t, name), env), name)
		}
	})

	t.Run("image format is never missing", func(t *testing.T) {
		s, err := EvalString(mustVar(t, "imageFormat"), env)
		require.NoError(t, err)
		assert.Equal(t, "", s)
		assert.False(t, SupportsPath(mustVar(t, "imageFormat"), env))
	})
}

func TestImageNodesNeverSupportPath(t *testing.T) {
	for _, env := range []*Env{{}, testEnv()} {
		for _, template := range []string{
			"$image", "${imageDir}", "${imageBasenameNoExtension}",
			"$relImage", "${relImageDir: /foo}", "a/${image}/b",
		} {
			n, err := Parse(template)
			require.NoError(t, err)
			assert.False(t, SupportsPath(n, env), template)
		}
	}
}

func TestEvalRelative(t *testing.T) {
	env := testEnv()
	env.ImageFormat = "webp"

	t.Run("image relative to workspace", func(t *testing.T) {
		n, err := Parse("${relImage: ${workspaceFolder}}")
		require.NoError(t, err)
		s, err := EvalString(n, env)
		require.NoError(t, err)
		assert.Equal(t, "img/hoge/fuga.webp", s)
	})

	t.Run("markdown link", func(t *testing.T) {
		n, err := Parse("[$imageBasename, $imageFormat](${relImage: ${workspaceFolder}})")
		require.NoError(t, err)

		s, err := EvalString(n, env)
		require.NoError(t, err)
		assert.Equal(t, "[fuga.webp, webp](img/hoge/fuga.webp)", s)
		assert.False(t, SupportsPath(n, env))

		other := *env
		other.Image = FileURL("/foo/img/piyo/taro.jpg")
		other.ImageFormat = "jpeg"
		s, err = EvalString(n, &other)
		require.NoError(t, err)
		assert.Equal(t, "[taro.jpg, jpeg](../../img/piyo/taro.jpg)", s)
	})

	t.Run("default base is the editor directory", func(t *testing.T) {
		n, err := Parse("$relImage")
		require.NoError(t, err)
		s, err := EvalString(n, env)
		require.NoError(t, err)
		assert.Equal(t, "../../img/hoge/fuga.webp", s)
	})

	t.Run("sources", func(t *testing.T) {
		tests := map[string]string{
			"${relImageDir: ${workspaceFolder}}": "img/hoge",
			"${relFile: ${workspaceFolder}}":     "src/hoge/text.txt",
			"${relFileDir: ${workspaceFolder}}":  "src/hoge",
			"${relFileDir}":                      "",
			"${relFile: ${workspaceFolder}/img}": "../src/hoge/text.txt",
		}
		for template, expected := range tests {
			n, err := Parse(template)
			require.NoError(t, err)
			s, err := EvalString(n, env)
			require.NoError(t, err)
			assert.Equal(t, expected, s, template)
		}
	})

	t.Run("editor relative nodes support paths", func(t *testing.T) {
		n, err := Parse("${relFile: ${workspaceFolder}}")
		require.NoError(t, err)
		assert.True(t, SupportsPath(n, env))
	})
}

func TestEvalWorkspace(t *testing.T) {
	env := testEnv()
	env.Workspaces = []NamedWorkspace{
		{Name: "docs", Root: FileURL("/srv/docs")},
		{Name: "site", Root: FileURL("/srv/site")},
	}

	tests := []struct {
		template     string
		expected     string
		supportsPath bool
	}{
		{"${workspace}", "/foo/bar/workspace", true},
		{"${workspace: docs}", "/srv/docs", true},
		{"${workspace: site}/assets", "/srv/site/assets", true},
		{"${workspace: missing}", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.template, func(t *testing.T) {
			n, err := Parse(tt.template)
			require.NoError(t, err)
			s, err := EvalString(n, env)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, s)
			assert.Equal(t, tt.supportsPath, SupportsPath(n, env))
		})
	}

	t.Run("missing context is not an error", func(t *testing.T) {
		s, err := EvalString(NewWorkspace(), &Env{})
		require.NoError(t, err)
		assert.Equal(t, "", s)
		assert.False(t, SupportsPath(NewWorkspace(), &Env{}))
	})
}

func TestEvalPathComposition(t *testing.T) {
	env := testEnv()
	env.Workspace = &url.URL{Scheme: "vscode-remote", Host: "ssh-remote+box", Path: "/home/me/ws", RawQuery: "q=1", Fragment: "frag"}

	n, err := Parse("${workspaceFolder}/docs/${date: YYYY}")
	require.NoError(t, err)

	u, err := EvalPath(n, env)
	require.NoError(t, err)
	assert.Equal(t, "vscode-remote", u.Scheme)
	assert.Equal(t, "ssh-remote+box", u.Host)
	assert.Equal(t, "/home/me/ws/docs/2024", u.Path)
	assert.Equal(t, "q=1", u.RawQuery)
	assert.Equal(t, "frag", u.Fragment)

	s, err := EvalString(n, env)
	require.NoError(t, err)
	assert.Equal(t, "/home/me/ws/docs/2024", s)
}

func TestEvalPathNormalizes(t *testing.T) {
	env := &Env{Date: time.Date(2024, 2, 9, 4, 2, 3, 0, time.Local)}

	n, err := Parse("image/${date: YYYY/MM/DD/HH/mm/ss/}../foo/bar")
	require.NoError(t, err)
	assert.True(t, SupportsPath(n, env))

	u, err := EvalPath(n, env)
	require.NoError(t, err)
	assert.Equal(t, DefaultScheme, u.Scheme)
	assert.Equal(t, "image/2024/02/09/04/02/foo/bar", u.Path)

	u, err = EvalPath(NewEmpty(), env)
	require.NoError(t, err)
	assert.Equal(t, "", u.Path)
}

func TestEvalTextListModesAgree(t *testing.T) {
	env := &Env{}
	n := NewList(NewText("a/"), NewText("b"), NewEmpty(), NewText("/c"))
	require.True(t, SupportsPath(n, env))

	s, err := EvalString(n, env)
	require.NoError(t, err)
	v, err := Eval(n, env)
	require.NoError(t, err)
	assert.Equal(t, s, v.String())
	assert.Equal(t, "a/b/c", s)
}
