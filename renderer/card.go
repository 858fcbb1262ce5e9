package renderer

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/nebula/camera"
	"github.com/pthm-cable/nebula/decor"
)

// CardRenderer uploads the baked identity card and draws it as a billboard.
type CardRenderer struct {
	tex     rl.Texture2D
	w, h    int
	version uint64
	pixels  []color.RGBA

	initialized bool
}

// NewCardRenderer creates a card renderer.
func NewCardRenderer() *CardRenderer {
	return &CardRenderer{}
}

// Draw uploads a new card raster when its version changes, then draws the card
// at its spring scale.
func (r *CardRenderer) Draw(cam *camera.Camera, card *decor.Card) {
	if !card.Visible() {
		return
	}
	img, version := card.Image()
	if img == nil {
		return
	}
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	if !r.initialized || w != r.w || h != r.h {
		r.Unload()
		raw := rl.GenImageColor(w, h, rl.Blank)
		r.tex = rl.LoadTextureFromImage(raw)
		rl.UnloadImage(raw)
		rl.SetTextureFilter(r.tex, rl.FilterBilinear)
		r.w, r.h = w, h
		r.pixels = make([]color.RGBA, w*h)
		r.version = 0
		r.initialized = true
	}
	if version != r.version {
		for i := range r.pixels {
			p := img.Pix[i*4 : i*4+4 : i*4+4]
			r.pixels[i] = color.RGBA{R: p[0], G: p[1], B: p[2], A: p[3]}
		}
		rl.UpdateTexture(r.tex, r.pixels)
		r.version = version
	}

	x, y, z := card.Offset()
	sx, sy, scale, ok := cam.Project(x, y, z)
	if !ok {
		return
	}
	s := card.Scale() * scale
	if s <= 0 {
		return
	}
	dw, dh := float32(w)*s, float32(h)*s
	src := rl.Rectangle{Width: float32(w), Height: float32(h)}
	dst := rl.Rectangle{X: sx - dw/2, Y: sy - dh/2, Width: dw, Height: dh}
	rl.DrawTexturePro(r.tex, src, dst, rl.Vector2{}, 0, rl.White)
}

// Unload frees GPU resources.
func (r *CardRenderer) Unload() {
	if !r.initialized {
		return
	}
	rl.UnloadTexture(r.tex)
	r.initialized = false
}
