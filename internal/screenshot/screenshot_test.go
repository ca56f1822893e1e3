package screenshot

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image/color"
	"image/png"
	"testing"
)

func TestRenderProducesPNG(t *testing.T) {
	lines := []string{"┌─ p. 1 ─┐", "│ Hello  │", "└────────┘", "", ""}
	data, err := Render(lines, Options{Padding: 4})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	bounds := img.Bounds()
	if bounds.Dx() != Columns(lines)*cellWidth+8 {
		t.Fatalf("width = %d", bounds.Dx())
	}
	// Trailing blank lines are dropped.
	if bounds.Dy() != 3*cellHeight+8 {
		t.Fatalf("height = %d", bounds.Dy())
	}
}

func TestRenderDrawsGlyphs(t *testing.T) {
	fg := color.RGBA{R: 255, A: 255}
	bg := color.RGBA{A: 255}
	img, err := RenderImage([]string{"HHHH"}, Options{Foreground: fg, Background: bg})
	if err != nil {
		t.Fatalf("RenderImage: %v", err)
	}
	lit := 0
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if r, _, _, _ := img.At(x, y).RGBA(); r > 0 {
				lit++
			}
		}
	}
	if lit == 0 {
		t.Fatal("expected glyph pixels")
	}
}

func TestRenderEmpty(t *testing.T) {
	for _, lines := range [][]string{nil, {}, {"", "   "}} {
		if _, err := Render(lines, Options{}); !errors.Is(err, ErrEmpty) {
			t.Fatalf("expected ErrEmpty for %q, got %v", lines, err)
		}
	}
}

func TestColumnsCountsWideRunes(t *testing.T) {
	if got := Columns([]string{"abc", "漢字"}); got != 4 {
		t.Fatalf("Columns = %d", got)
	}
}

func TestEncode(t *testing.T) {
	data := []byte{1, 2, 3, 250}
	decoded, err := base64.StdEncoding.DecodeString(Encode(data))
	if err != nil || !bytes.Equal(decoded, data) {
		t.Fatalf("round trip failed: %v", err)
	}
}
