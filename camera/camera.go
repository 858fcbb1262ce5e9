// Package camera provides a perspective camera model for the point cloud viewport.
package camera

import "math"

// Camera looks down -Z from (0, 0, Z) at the origin.
type Camera struct {
	// Vertical field of view in degrees
	FovY float32

	// Distance from the origin along +Z
	Z float32

	// Clip planes, measured as view depth
	Near, Far float32

	// Viewport dimensions (screen size)
	ViewportW, ViewportH float32

	// Derived from FovY and ViewportH; recomputed on Resize
	focal float32
}

// New creates a camera for the given viewport and projection.
func New(viewportW, viewportH, fovY, z, near, far float32) *Camera {
	c := &Camera{
		FovY:      fovY,
		Z:         z,
		Near:      near,
		Far:       far,
		ViewportW: max(viewportW, 1),
		ViewportH: max(viewportH, 1),
	}
	c.updateProjection()
	return c
}

// Aspect returns the viewport width over height.
func (c *Camera) Aspect() float32 {
	return c.ViewportW / c.ViewportH
}

// Focal returns the projection scale in pixels per world unit at depth 1.
func (c *Camera) Focal() float32 {
	return c.focal
}

// Resize updates viewport dimensions and recomputes the projection.
// A zero or negative size is ignored.
func (c *Camera) Resize(viewportW, viewportH float32) bool {
	if viewportW <= 0 || viewportH <= 0 {
		return false
	}
	if viewportW == c.ViewportW && viewportH == c.ViewportH {
		return false
	}
	c.ViewportW = viewportW
	c.ViewportH = viewportH
	c.updateProjection()
	return true
}

func (c *Camera) updateProjection() {
	half := float64(c.FovY) * math.Pi / 360
	c.focal = float32(float64(c.ViewportH) / 2 / math.Tan(half))
}

// Project converts a world point to screen coordinates.
// scale is the size in pixels of one world unit at that depth.
// ok is false when the point falls outside the clip planes.
func (c *Camera) Project(x, y, z float32) (sx, sy, scale float32, ok bool) {
	depth := c.Z - z
	if depth <= c.Near || depth >= c.Far {
		return 0, 0, 0, false
	}
	scale = c.focal / depth
	sx = c.ViewportW/2 + x*scale
	sy = c.ViewportH/2 - y*scale
	return sx, sy, scale, true
}

// IsVisible returns true if a sprite of the given screen radius at (sx, sy)
// could overlap the viewport (conservative check for culling).
func (c *Camera) IsVisible(sx, sy, radius float32) bool {
	return sx+radius >= 0 && sx-radius <= c.ViewportW &&
		sy+radius >= 0 && sy-radius <= c.ViewportH
}

// VisibleHalfExtents returns the half-width and half-height of the view
// at the plane z, in world units.
func (c *Camera) VisibleHalfExtents(z float32) (halfW, halfH float32) {
	depth := c.Z - z
	if depth <= 0 {
		return 0, 0
	}
	halfH = c.ViewportH / 2 * depth / c.focal
	halfW = halfH * c.Aspect()
	return halfW, halfH
}
