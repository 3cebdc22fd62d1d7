package models

import (
	"fmt"
	"strings"
)

// Format is an output image format understood by the clipboard helper.
type Format string

const (
	FormatJPEG Format = "jpeg"
	FormatPNG  Format = "png"
	FormatWebP Format = "webp"
	FormatBMP  Format = "bmp"
	FormatGIF  Format = "gif"
	FormatAVIF Format = "avif"
)

// DefaultFormat is used when neither the configuration nor the selection
// names one.
const DefaultFormat = FormatWebP

// Formats lists every supported format.
var Formats = []Format{FormatJPEG, FormatPNG, FormatWebP, FormatBMP, FormatGIF, FormatAVIF}

var formatExt = map[Format]string{
	FormatJPEG: ".jpg",
	FormatPNG:  ".png",
	FormatWebP: ".webp",
	FormatBMP:  ".bmp",
	FormatGIF:  ".gif",
	FormatAVIF: ".avif",
}

var extFormat = map[string]Format{
	".jpg":  FormatJPEG,
	".jpeg": FormatJPEG,
	".png":  FormatPNG,
	".webp": FormatWebP,
	".gif":  FormatGIF,
	".avif": FormatAVIF,
	".bmp":  FormatBMP,
}

// Ext returns the file extension written for f, including the dot.
func (f Format) Ext() string {
	return formatExt[f]
}

// Valid reports whether f is a supported format.
func (f Format) Valid() bool {
	_, ok := formatExt[f]
	return ok
}

// FormatFromExt maps a file extension to its format.
func FormatFromExt(ext string) (Format, bool) {
	f, ok := extFormat[ext]
	return f, ok
}

// ParseFormat accepts a format name. "jpg" is an alias of jpeg.
func ParseFormat(s string) (Format, error) {
	s = strings.TrimSpace(s)
	if s == "jpg" {
		return FormatJPEG, nil
	}
	f := Format(s)
	if !f.Valid() {
		return "", fmt.Errorf("unsupported image format: %q", s)
	}
	return f, nil
}
