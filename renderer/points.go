// Package renderer draws the particle engine with raylib.
package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/nebula/camera"
	"github.com/pthm-cable/nebula/systems"
)

const glowSize = 32

// PointCloud renders the particle set as additive glow billboards.
type PointCloud struct {
	glow      rl.Texture2D
	src       rl.Rectangle
	pointSize float32
	opacity   float32

	initialized bool
}

// NewPointCloud creates a point cloud renderer. pointSize is in world units.
func NewPointCloud(pointSize float32) *PointCloud {
	return &PointCloud{
		pointSize: pointSize,
		opacity:   0.9,
		src:       rl.Rectangle{Width: glowSize, Height: glowSize},
	}
}

// Init bakes the glow sprite (must be called after raylib window is created).
func (r *PointCloud) Init() {
	if r.initialized {
		return
	}
	img := rl.GenImageColor(glowSize, glowSize, rl.Blank)
	r.glow = rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	rl.UpdateTexture(r.glow, GlowPixels(glowSize))
	rl.SetTextureFilter(r.glow, rl.FilterBilinear)
	r.initialized = true
}

// Draw renders positions and colours through the group transform.
// Black particles contribute nothing under additive blending and are skipped.
func (r *PointCloud) Draw(cam *camera.Camera, positions, colors []float32, t systems.Transform) {
	if !r.initialized || len(positions) == 0 {
		return
	}
	basis := t.Basis()
	alpha := uint8(r.opacity * 255)

	rl.BeginBlendMode(rl.BlendAdditive)
	n := min(len(positions), len(colors)) / 3
	for i := 0; i < n; i++ {
		cr, cg, cb := colors[i*3], colors[i*3+1], colors[i*3+2]
		if cr <= 0 && cg <= 0 && cb <= 0 {
			continue
		}

		x, y, z := basis.Apply(positions[i*3], positions[i*3+1], positions[i*3+2])
		sx, sy, scale, ok := cam.Project(x, y, z)
		if !ok {
			continue
		}
		size := r.pointSize * scale
		if !cam.IsVisible(sx, sy, size/2) {
			continue
		}

		dst := rl.Rectangle{X: sx - size/2, Y: sy - size/2, Width: size, Height: size}
		tint := rl.Color{R: unit8(cr), G: unit8(cg), B: unit8(cb), A: alpha}
		rl.DrawTexturePro(r.glow, r.src, dst, rl.Vector2{}, 0, tint)
	}
	rl.EndBlendMode()
}

// Unload frees GPU resources.
func (r *PointCloud) Unload() {
	if !r.initialized {
		return
	}
	rl.UnloadTexture(r.glow)
	r.initialized = false
}

// unit8 maps [0, 1] to a colour channel.
func unit8(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}
