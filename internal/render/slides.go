// Package render converts generated text into media: a narrated slideshow
// video, built from text chunks rasterized onto still images and assembled
// with ffmpeg.
package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Slide layout constants. One chunk of at most chunkWidth characters becomes
// one 720x480 slide; on the image the chunk is wrapped again at lineWidth
// characters for readability.
const (
	chunkWidth = 200
	lineWidth  = 40

	canvasWidth  = 720
	canvasHeight = 480

	textLeft = 50 // x origin of every line
	textTop  = 50 // baseline of the first line
	lineStep = 20 // vertical distance between baselines
)

// ChunkText splits text into ordered chunks of at most width characters,
// breaking only at word boundaries. A single word longer than width gets a
// chunk of its own rather than being split. Width is counted in runes, not
// bytes, so multibyte scripts get the same slide capacity as Latin text.
func ChunkText(text string, width int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var chunks []string
	var current strings.Builder
	runeCount := 0

	for _, word := range words {
		wordRunes := utf8.RuneCountInString(word)
		switch {
		case runeCount == 0:
			current.WriteString(word)
			runeCount = wordRunes
		case runeCount+1+wordRunes <= width:
			current.WriteByte(' ')
			current.WriteString(word)
			runeCount += 1 + wordRunes
		default:
			chunks = append(chunks, current.String())
			current.Reset()
			current.WriteString(word)
			runeCount = wordRunes
		}
	}
	chunks = append(chunks, current.String())

	return chunks
}

// DrawSlide rasterizes one text chunk onto a white canvas and writes it as a
// PNG at path. Lines below the bottom edge are clipped, matching the
// fixed-canvas behavior of the slideshow.
func DrawSlide(chunk, path string) error {
	img := image.NewRGBA(image.Rect(0, 0, canvasWidth, canvasHeight))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	drawer := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.Black),
		Face: basicfont.Face7x13,
	}

	y := textTop
	for _, line := range ChunkText(chunk, lineWidth) {
		if y > canvasHeight {
			break
		}
		drawer.Dot = fixed.P(textLeft, y)
		drawer.DrawString(line)
		y += lineStep
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create slide image: %w", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("failed to encode slide image: %w", err)
	}
	return nil
}
