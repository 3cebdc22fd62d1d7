package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSelection(t *testing.T) {
	tests := []struct {
		input    string
		expected Selection
	}{
		{"", Selection{}},
		{"   ", Selection{}},
		{"w:100,h:200", Selection{MaxWidth: 100, MaxHeight: 200}},
		{"w=100px", Selection{MaxWidth: 100}},
		{"w=abc", Selection{}},
		{"?", Selection{Overwrite: true}},
		{"\r\n\t<>\\*?%&|\n", Selection{}},
		{"_foobar.jpg", Selection{Name: "_foobar", Format: FormatJPEG}},
		{"w:500, ?_foobar.png  , h=100", Selection{Overwrite: true, Name: "_foobar", Format: FormatPNG, MaxWidth: 500, MaxHeight: 100}},
		{"diagram,avif", Selection{Name: "diagram", Format: FormatAVIF}},
		{"jpg,diagram", Selection{Name: "diagram", Format: FormatJPEG}},
		{"a,b", Selection{Name: "b"}},
		{"my\nshot", Selection{Name: "myshot"}},
		{"report.pdf", Selection{Name: "report.pdf"}},
		{".png", Selection{Name: ".png"}},
		{"スクリーン<ショット>", Selection{Name: "スクリーンショット"}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseSelection(tt.input))
		})
	}
}

func TestFormat(t *testing.T) {
	for _, f := range Formats {
		assert.True(t, f.Valid(), f)
		got, ok := FormatFromExt(f.Ext())
		require.True(t, ok, f)
		assert.Equal(t, f, got)
	}

	assert.Equal(t, ".jpg", FormatJPEG.Ext())
	f, ok := FormatFromExt(".jpeg")
	assert.True(t, ok)
	assert.Equal(t, FormatJPEG, f)
	_, ok = FormatFromExt(".tiff")
	assert.False(t, ok)
	assert.Equal(t, "", Format("tiff").Ext())
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat(" png ")
	require.NoError(t, err)
	assert.Equal(t, FormatPNG, f)

	f, err = ParseFormat("jpg")
	require.NoError(t, err)
	assert.Equal(t, FormatJPEG, f)

	_, err = ParseFormat("tiff")
	assert.Error(t, err)
	_, err = ParseFormat("")
	assert.Error(t, err)
}
