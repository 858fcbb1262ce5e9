package renderer

import (
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/nebula/camera"
	"github.com/pthm-cable/nebula/decor"
	"github.com/pthm-cable/nebula/systems"
)

// messageFontSize is the label size at unit projection scale.
const messageFontSize = 28

// MarkerRenderer draws avatar and message billboards.
type MarkerRenderer struct {
	images decor.ImageSource

	// GPU copies of decoded avatars, evicted oldest first
	textures map[string]rl.Texture2D
	order    []string
	capacity int

	avatarBorder rl.Color
	messageBg    rl.Color
	messageFg    rl.Color
}

// NewMarkerRenderer creates a marker renderer holding at most capacity avatar textures.
// images may be nil, in which case avatars draw as placeholders.
func NewMarkerRenderer(images decor.ImageSource, capacity int, accent [3]float32) *MarkerRenderer {
	return &MarkerRenderer{
		images:       images,
		textures:     make(map[string]rl.Texture2D),
		capacity:     max(capacity, 1),
		avatarBorder: rl.Color{R: unit8(accent[0]), G: unit8(accent[1]), B: unit8(accent[2]), A: 220},
		messageBg:    rl.Color{R: 10, G: 14, B: 24, A: 180},
		messageFg:    rl.Color{R: 220, G: 240, B: 255, A: 255},
	}
}

// DrawAvatars renders the avatar cloud. Avatars live inside the sphere and
// follow the group yaw.
func (r *MarkerRenderer) DrawAvatars(cam *camera.Camera, layer *decor.Layer, t systems.Transform) {
	if !layer.AvatarsVisible() {
		return
	}
	basis := systems.Transform{RotY: t.RotY, Scale: 1}.Basis()

	layer.EachAvatar(func(m decor.MarkerView) {
		x, y, z := basis.Apply(m.X, m.Y, m.Z)
		sx, sy, scale, ok := cam.Project(x, y, z)
		if !ok {
			return
		}
		size := m.Size * m.Scale * scale
		if size < 1 || !cam.IsVisible(sx, sy, size/2) {
			return
		}

		radius := size / 2
		tex, ok := r.texture(m.URL)
		if !ok {
			rl.DrawCircleV(rl.Vector2{X: sx, Y: sy}, radius, rl.Color{R: 40, G: 50, B: 70, A: 220})
			drawCentered(initial(m.Label), sx, sy, int32(radius), rl.White)
		} else {
			src := rl.Rectangle{Width: float32(tex.Width), Height: float32(tex.Height)}
			dst := rl.Rectangle{X: sx - radius, Y: sy - radius, Width: size, Height: size}
			rl.DrawTexturePro(tex, src, dst, rl.Vector2{}, 0, rl.White)
		}
		rl.DrawCircleLinesV(rl.Vector2{X: sx, Y: sy}, radius, r.avatarBorder)
	})
}

// DrawMessages renders message markers as text pills.
func (r *MarkerRenderer) DrawMessages(cam *camera.Camera, layer *decor.Layer) {
	if !layer.MessagesVisible() {
		return
	}
	layer.EachMessage(func(m decor.MarkerView) {
		sx, sy, scale, ok := cam.Project(m.X, m.Y, m.Z)
		if !ok {
			return
		}
		fontSize := int32(messageFontSize * scale * m.Scale)
		if fontSize < 6 {
			return
		}
		w := float32(rl.MeasureText(m.Label, fontSize))
		h := float32(fontSize)
		pad := h * 0.4
		box := rl.Rectangle{X: sx - w/2 - pad, Y: sy - h/2 - pad/2, Width: w + pad*2, Height: h + pad}
		if !cam.IsVisible(sx, sy, box.Width/2) {
			return
		}
		rl.DrawRectangleRounded(box, 0.5, 8, r.messageBg)
		rl.DrawText(m.Label, int32(sx-w/2), int32(sy-h/2), fontSize, r.messageFg)
	})
}

// texture returns the GPU texture for url, uploading it once decoded.
func (r *MarkerRenderer) texture(url string) (rl.Texture2D, bool) {
	if tex, ok := r.textures[url]; ok {
		return tex, true
	}
	if r.images == nil || url == "" {
		return rl.Texture2D{}, false
	}
	img, ok := r.images.Get(url)
	if !ok || img == nil {
		return rl.Texture2D{}, false
	}

	raw := rl.NewImageFromImage(img)
	tex := rl.LoadTextureFromImage(raw)
	rl.UnloadImage(raw)
	rl.SetTextureFilter(tex, rl.FilterBilinear)

	if len(r.order) >= r.capacity {
		oldest := r.order[0]
		r.order = r.order[1:]
		rl.UnloadTexture(r.textures[oldest])
		delete(r.textures, oldest)
	}
	r.textures[url] = tex
	r.order = append(r.order, url)
	return tex, true
}

// Unload frees all avatar textures.
func (r *MarkerRenderer) Unload() {
	for _, tex := range r.textures {
		rl.UnloadTexture(tex)
	}
	r.textures = make(map[string]rl.Texture2D)
	r.order = nil
}

// initial returns the upper-cased first letter of name, or "?".
func initial(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "?"
	}
	return strings.ToUpper(string([]rune(name)[:1]))
}

func drawCentered(text string, x, y float32, fontSize int32, c rl.Color) {
	w := rl.MeasureText(text, fontSize)
	rl.DrawText(text, int32(x)-w/2, int32(y)-fontSize/2, fontSize, c)
}
