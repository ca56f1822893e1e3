// Package screenshot rasterizes terminal text into a PNG.
package screenshot

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// ErrEmpty is returned when there is nothing to capture.
var ErrEmpty = errors.New("nothing to capture")

const (
	cellWidth  = 7
	cellHeight = 13
	// maxColumns bounds the image width for pathological lines.
	maxColumns = 400
)

// Options controls colors and padding. Zero values pick a dark theme.
type Options struct {
	Foreground color.Color
	Background color.Color
	Padding    int
}

func (o Options) withDefaults() Options {
	if o.Foreground == nil {
		o.Foreground = color.RGBA{R: 0xe5, G: 0xe7, B: 0xeb, A: 0xff}
	}
	if o.Background == nil {
		o.Background = color.RGBA{R: 0x1f, G: 0x29, B: 0x37, A: 0xff}
	}
	if o.Padding < 0 {
		o.Padding = 0
	}
	return o
}

// Columns is the width in cells of the widest line.
func Columns(lines []string) int {
	cols := 0
	for _, line := range lines {
		if w := runewidth.StringWidth(line); w > cols {
			cols = w
		}
	}
	if cols > maxColumns {
		cols = maxColumns
	}
	return cols
}

// RenderImage draws lines on a grid of 7x13 cells. Wide runes take two cells
// so columns line up with the terminal; runes the face lacks are left blank.
func RenderImage(lines []string, opts Options) (*image.RGBA, error) {
	lines = trimTrailingBlank(lines)
	cols := Columns(lines)
	if len(lines) == 0 || cols == 0 {
		return nil, ErrEmpty
	}
	opts = opts.withDefaults()

	width := cols*cellWidth + 2*opts.Padding
	height := len(lines)*cellHeight + 2*opts.Padding
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(opts.Background), image.Point{}, draw.Src)

	face := basicfont.Face7x13
	drawer := &font.Drawer{Dst: img, Src: image.NewUniform(opts.Foreground), Face: face}
	for row, line := range lines {
		baseline := opts.Padding + row*cellHeight + face.Ascent
		col := 0
		for _, r := range line {
			w := runewidth.RuneWidth(r)
			if col+w > cols {
				break
			}
			if r != ' ' && w > 0 {
				drawer.Dot = fixed.P(opts.Padding+col*cellWidth, baseline)
				drawer.DrawString(string(r))
			}
			col += w
		}
	}
	return img, nil
}

// Render returns lines as PNG bytes.
func Render(lines []string, opts Options) ([]byte, error) {
	img, err := RenderImage(lines, opts)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Encode is the base64 form the backend expects.
func Encode(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}

func trimTrailingBlank(lines []string) []string {
	end := len(lines)
	for end > 0 && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}
	return lines[:end]
}
