package thumbs

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // decoder registration
	_ "image/jpeg" // decoder registration
	_ "image/png"  // decoder registration
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/nfnt/resize"
	_ "golang.org/x/image/webp" // decoder registration
)

const halfBlock = "▀"

// ErrNoRoom is returned when the preview box is too small to draw into.
var ErrNoRoom = errors.New("preview area too small")

// Render draws image bytes as terminal half blocks that fit in a box of
// width columns by height rows. Each cell shows two vertical pixels: the top
// one as foreground and the bottom one as background. Aspect ratio is kept.
func Render(data []byte, width, height int) (string, error) {
	if width <= 0 || height <= 0 {
		return "", ErrNoRoom
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("decode image: %w", err)
	}

	scaled := resize.Thumbnail(uint(width), uint(height*2), img, resize.Bilinear)
	bounds := scaled.Bounds()

	var b strings.Builder
	for y := bounds.Min.Y; y < bounds.Max.Y; y += 2 {
		if y > bounds.Min.Y {
			b.WriteByte('\n')
		}
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			style := lipgloss.NewStyle().Foreground(hexColor(scaled, x, y))
			if y+1 < bounds.Max.Y {
				style = style.Background(hexColor(scaled, x, y+1))
			}
			b.WriteString(style.Render(halfBlock))
		}
	}
	return b.String(), nil
}

func hexColor(img image.Image, x, y int) lipgloss.Color {
	r, g, b, _ := img.At(x, y).RGBA()
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, b>>8))
}
