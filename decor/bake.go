package decor

import (
	"image"
	"image/color"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/pthm-cable/nebula/feed"
)

const (
	cardBorder  = 4
	cardPadding = 24
	textScale   = 2
)

// cardBaker redraws the identity card raster in place.
type cardBaker struct {
	img    *image.RGBA
	text   *image.RGBA // Unscaled text line
	top    colorful.Color
	bottom colorful.Color
	accent colorful.Color
}

func newCardBaker(w, h int, accent [3]float32) *cardBaker {
	w, h = max(w, 2*cardPadding+1), max(h, 2*cardPadding+1)
	acc := colorful.Color{R: float64(accent[0]), G: float64(accent[1]), B: float64(accent[2])}
	return &cardBaker{
		img:    image.NewRGBA(image.Rect(0, 0, w, h)),
		text:   image.NewRGBA(image.Rect(0, 0, w/textScale, 16)),
		top:    colorful.Color{R: 0.04, G: 0.05, B: 0.12},
		bottom: acc.BlendRgb(colorful.Color{}, 0.7),
		accent: acc.Clamped(),
	}
}

// bake draws the participant onto the card. avatar may be nil.
func (b *cardBaker) bake(p feed.Participant, avatar *image.NRGBA) {
	bounds := b.img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	// Vertical gradient panel
	for y := 0; y < h; y++ {
		c := rgba(b.top.BlendRgb(b.bottom, float64(y)/float64(h-1)))
		row := b.img.Pix[y*b.img.Stride : y*b.img.Stride+w*4]
		for x := 0; x < w; x++ {
			row[x*4], row[x*4+1], row[x*4+2], row[x*4+3] = c.R, c.G, c.B, c.A
		}
	}

	accent := image.NewUniform(rgba(b.accent))
	for i := 0; i < cardBorder; i++ {
		draw.Draw(b.img, image.Rect(i, i, w-i, i+1), accent, image.Point{}, draw.Src)
		draw.Draw(b.img, image.Rect(i, h-i-1, w-i, h-i), accent, image.Point{}, draw.Src)
		draw.Draw(b.img, image.Rect(i, i, i+1, h-i), accent, image.Point{}, draw.Src)
		draw.Draw(b.img, image.Rect(w-i-1, i, w-i, h-i), accent, image.Point{}, draw.Src)
	}

	side := min(w-2*cardPadding, h*3/5)
	box := image.Rect((w-side)/2, cardPadding, (w+side)/2, cardPadding+side)
	if avatar != nil {
		draw.CatmullRom.Scale(b.img, box, avatar, avatar.Bounds(), draw.Over, nil)
	} else {
		b.initials(box, p.Name)
	}

	y := box.Max.Y + cardPadding/2
	for _, line := range []string{p.Name, p.Department, p.ID} {
		if line == "" {
			continue
		}
		y += b.line(line, y)
	}
}

// initials fills box with the accent colour and the first letter of name.
func (b *cardBaker) initials(box image.Rectangle, name string) {
	fill := image.NewUniform(rgba(b.accent.BlendRgb(b.top, 0.5)))
	draw.Draw(b.img, box, fill, image.Point{}, draw.Src)

	letter := "?"
	if r := []rune(strings.TrimSpace(name)); len(r) > 0 {
		letter = strings.ToUpper(string(r[0]))
	}
	b.renderText(letter)
	adv := font.MeasureString(basicfont.Face7x13, letter).Ceil()
	src := image.Rect(0, 0, adv, 16)
	// Scale the glyph to a third of the box
	k := max(box.Dy()/3/16, 1)
	cx, cy := (box.Min.X+box.Max.X)/2, (box.Min.Y+box.Max.Y)/2
	dst := image.Rect(cx-adv*k/2, cy-8*k, cx+adv*k/2, cy+8*k)
	draw.NearestNeighbor.Scale(b.img, dst, b.text, src, draw.Over, nil)
}

// line draws one centred, upscaled line of text at y and returns its height.
func (b *cardBaker) line(s string, y int) int {
	maxChars := b.text.Bounds().Dx() / 7
	if r := []rune(s); len(r) > maxChars {
		s = string(r[:max(maxChars-1, 0)]) + "~"
	}
	b.renderText(s)

	adv := font.MeasureString(basicfont.Face7x13, s).Ceil()
	w := b.img.Bounds().Dx()
	x := (w - adv*textScale) / 2
	dst := image.Rect(x, y, x+adv*textScale, y+16*textScale)
	draw.NearestNeighbor.Scale(b.img, dst, b.text, image.Rect(0, 0, adv, 16), draw.Over, nil)
	return 16*textScale + 4
}

// renderText draws s in white onto the cleared text scratch.
func (b *cardBaker) renderText(s string) {
	draw.Draw(b.text, b.text.Bounds(), image.Transparent, image.Point{}, draw.Src)
	d := font.Drawer{
		Dst:  b.text,
		Src:  image.White,
		Face: basicfont.Face7x13,
		Dot:  fixed.P(0, 12),
	}
	d.DrawString(s)
}

func rgba(c colorful.Color) color.RGBA {
	r, g, bl := c.Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: bl, A: 255}
}
