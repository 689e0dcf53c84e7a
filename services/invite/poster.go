package invite

import (
	"image"
	"image/color"
	"strings"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	Width  = 1080
	Height = 1920

	// Titles longer than this are split over two lines.
	titleWrapAt = 20
	margin      = 60
)

var (
	white  = color.RGBA{255, 255, 255, 255}
	accent = color.RGBA{255, 215, 0, 255}
	muted  = color.RGBA{200, 200, 230, 255}
)

// Poster is the text laid out on an invite.
type Poster struct {
	Title    string
	Location string
	When     string
	Host     string
}

// Render draws the poster on a vertical #1a1a2e to #6a3bdc gradient.
func Render(p Poster) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, Width, Height))
	fillGradient(img)

	drawCentered(img, "YOU'RE INVITED", 420, 6, accent)
	draw.Draw(img, image.Rect(Width/2-200, 500, Width/2+200, 508), image.NewUniform(accent), image.Point{}, draw.Over)

	lines := WrapTitle(strings.ToUpper(p.Title))
	y := 700
	for _, line := range lines {
		drawCentered(img, line, y, 8, white)
		y += 150
	}

	y += 100
	if p.Location != "" {
		drawCentered(img, p.Location, y, 4, white)
		y += 100
	}
	if p.When != "" {
		drawCentered(img, p.When, y, 4, white)
		y += 100
	}
	if p.Host != "" {
		drawCentered(img, "Hosted by "+p.Host, y+50, 4, muted)
	}

	drawCentered(img, "BCPlugHub", Height-170, 5, accent)
	return img
}

func fillGradient(img *image.RGBA) {
	for y := 0; y < Height; y++ {
		t := float64(y) / float64(Height-1)
		c := color.RGBA{
			R: uint8(26 + 80*t),
			G: uint8(26 + 33*t),
			B: uint8(46 + 150*t),
			A: 255,
		}
		for x := 0; x < Width; x++ {
			img.SetRGBA(x, y, c)
		}
	}
}

// WrapTitle splits long titles into two lines at the space closest to the middle.
func WrapTitle(title string) []string {
	title = strings.TrimSpace(title)
	if len(title) <= titleWrapAt {
		return []string{title}
	}
	mid := len(title) / 2
	split := -1
	for i := 0; i < len(title); i++ {
		if title[i] != ' ' {
			continue
		}
		if split == -1 || abs(i-mid) < abs(split-mid) {
			split = i
		}
	}
	if split == -1 {
		return []string{title[:mid], title[mid:]}
	}
	return []string{strings.TrimSpace(title[:split]), strings.TrimSpace(title[split+1:])}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// printable drops characters the bitmap face cannot draw.
func printable(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= 0x20 && r < 0x7f {
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

// drawCentered renders text with the 7x13 bitmap face, scaled up and
// centred horizontally on centerY. The scale shrinks until the line fits.
func drawCentered(dst *image.RGBA, text string, centerY, scale int, col color.Color) {
	text = printable(text)
	if text == "" {
		return
	}
	face := basicfont.Face7x13
	width := font.MeasureString(face, text).Ceil()
	for scale > 1 && width*scale > Width-2*margin {
		scale--
	}

	small := image.NewRGBA(image.Rect(0, 0, width, face.Height))
	d := &font.Drawer{
		Dst:  small,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.P(0, face.Ascent),
	}
	d.DrawString(text)

	w, h := width*scale, face.Height*scale
	x := (Width - w) / 2
	y := centerY - h/2
	draw.NearestNeighbor.Scale(dst, image.Rect(x, y, x+w, y+h), small, small.Bounds(), draw.Over, nil)
}
