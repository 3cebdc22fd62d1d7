package history

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mattsolo1/grove-udon/pkg/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "data"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func seed(t *testing.T, s *Store) []*models.Paste {
	t.Helper()
	base := time.Date(2024, 11, 24, 12, 0, 0, 0, time.UTC)
	pastes := []*models.Paste{
		{ImagePath: "/ws/docs/image/diagram.webp", NotePath: "/ws/docs/design.md", Workspace: "docs", Format: models.FormatWebP, Text: "![](image/diagram.webp)", CreatedAt: base},
		{ImagePath: "/ws/site/img/screenshot.png", NotePath: "/ws/site/index.html", Workspace: "site", Format: models.FormatPNG, Text: `<img src="img/screenshot.png">`, CreatedAt: base.Add(time.Minute)},
		{ImagePath: "/ws/docs/image/chart.jpg", NotePath: "/ws/docs/report.md", Workspace: "docs", Format: models.FormatJPEG, Text: "![](image/chart.jpg)", CreatedAt: base.Add(2 * time.Minute)},
	}
	for _, p := range pastes {
		require.NoError(t, s.Record(p))
	}
	return pastes
}

func TestRecord(t *testing.T) {
	s := newTestStore(t)

	p := &models.Paste{ImagePath: "/a.png", NotePath: "/a.md", Format: models.FormatPNG}
	require.NoError(t, s.Record(p))
	assert.NotEmpty(t, p.ID)
	assert.False(t, p.CreatedAt.IsZero())

	got, err := s.Recent(nil)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, p.ID, got[0].ID)
	assert.Equal(t, models.FormatPNG, got[0].Format)
	assert.Equal(t, "", got[0].Workspace)

	// ids are unique
	assert.Error(t, s.Record(&models.Paste{ID: p.ID, ImagePath: "/b.png", NotePath: "/b.md", Format: models.FormatPNG}))
}

func TestRecent(t *testing.T) {
	s := newTestStore(t)
	pastes := seed(t, s)

	got, err := s.Recent(&Options{Limit: 2})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, pastes[2].ID, got[0].ID)
	assert.Equal(t, pastes[1].ID, got[1].ID)

	got, err = s.Recent(&Options{Workspace: "docs"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	for _, p := range got {
		assert.Equal(t, "docs", p.Workspace)
	}
}

func TestSearch(t *testing.T) {
	s := newTestStore(t)
	pastes := seed(t, s)

	got, err := s.Search("screenshot", nil)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, pastes[1].ID, got[0].ID)
	assert.Equal(t, `<img src="img/screenshot.png">`, got[0].Text)

	got, err = s.Search("report", &Options{Workspace: "docs"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, pastes[2].ID, got[0].ID)

	got, err = s.Search("report", &Options{Workspace: "site"})
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = s.Search("nothing-like-this", nil)
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = s.Search("  ", nil)
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestRemove(t *testing.T) {
	s := newTestStore(t)
	pastes := seed(t, s)

	require.NoError(t, s.Remove(pastes[0].ID))

	got, err := s.Recent(nil)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = s.Search("diagram", nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFTSQuery(t *testing.T) {
	assert.Equal(t, `"a" "b/c.png"`, ftsQuery("a  b/c.png"))
	assert.Equal(t, `"say" """hi"""`, ftsQuery(`say "hi"`))
}
