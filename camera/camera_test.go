package camera

import (
	"math"
	"testing"
)

func newTestCamera() *Camera {
	return New(1600, 900, 75, 1000, 1, 3000)
}

func TestProjectOriginAtCentre(t *testing.T) {
	cam := newTestCamera()

	sx, sy, scale, ok := cam.Project(0, 0, 0)
	if !ok {
		t.Fatal("expected origin to be visible")
	}
	if sx != 800 || sy != 450 {
		t.Errorf("expected viewport centre (800, 450), got (%f, %f)", sx, sy)
	}
	// At depth Z the vertical half-extent spans Z*tan(fov/2) world units
	want := 450 / (1000 * math.Tan(75*math.Pi/360))
	if math.Abs(float64(scale)-want) > 1e-4 {
		t.Errorf("expected scale %f, got %f", want, scale)
	}
}

func TestProjectOrientation(t *testing.T) {
	cam := newTestCamera()

	sx, sy, _, _ := cam.Project(100, 100, 0)
	if sx <= 800 {
		t.Errorf("expected +X to the right of centre, got %f", sx)
	}
	if sy >= 450 {
		t.Errorf("expected +Y above centre, got %f", sy)
	}

	_, _, near, _ := cam.Project(0, 0, 500)
	_, _, far, _ := cam.Project(0, 0, -500)
	if near <= far {
		t.Errorf("expected closer points to appear larger: %f <= %f", near, far)
	}
}

func TestProjectClipping(t *testing.T) {
	cam := newTestCamera()

	tests := []struct {
		name string
		z    float32
		want bool
	}{
		{"behind camera", 1200, false},
		{"inside near plane", 999.5, false},
		{"beyond far plane", -2500, false},
		{"sphere back", -600, true},
		{"explosion shell front", 800, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, _, ok := cam.Project(0, 0, tt.z); ok != tt.want {
				t.Errorf("Project(z=%f) ok = %v, want %v", tt.z, ok, tt.want)
			}
		})
	}
}

func TestResizeZeroIsNoop(t *testing.T) {
	cam := newTestCamera()
	focal := cam.Focal()

	if cam.Resize(0, 900) || cam.Resize(1600, 0) || cam.Resize(-1, -1) {
		t.Error("expected zero-size resize to be rejected")
	}
	if cam.ViewportW != 1600 || cam.ViewportH != 900 || cam.Focal() != focal {
		t.Error("expected viewport to be unchanged")
	}
	if math.IsInf(float64(cam.Aspect()), 0) || math.IsNaN(float64(cam.Aspect())) {
		t.Error("expected finite aspect")
	}
}

func TestResizeRecomputesProjection(t *testing.T) {
	cam := newTestCamera()
	before := cam.Focal()

	if !cam.Resize(800, 450) {
		t.Fatal("expected resize to apply")
	}
	if math.Abs(float64(cam.Focal()-before/2)) > 1e-3 {
		t.Errorf("expected focal to halve with height, got %f from %f", cam.Focal(), before)
	}
	sx, sy, _, _ := cam.Project(0, 0, 0)
	if sx != 400 || sy != 225 {
		t.Errorf("expected new centre (400, 225), got (%f, %f)", sx, sy)
	}
	if cam.Resize(800, 450) {
		t.Error("expected identical resize to report no change")
	}
}

func TestNewClampsZeroViewport(t *testing.T) {
	cam := New(0, 0, 75, 1000, 1, 3000)
	if _, _, _, ok := cam.Project(0, 0, 0); !ok {
		t.Error("expected a usable camera from a zero-size viewport")
	}
}

func TestVisibleHalfExtents(t *testing.T) {
	cam := newTestCamera()
	halfW, halfH := cam.VisibleHalfExtents(0)

	wantH := 1000 * math.Tan(75*math.Pi/360)
	if math.Abs(float64(halfH)-wantH) > 1e-2 {
		t.Errorf("expected half height %f, got %f", wantH, halfH)
	}
	if math.Abs(float64(halfW/halfH)-16.0/9) > 1e-4 {
		t.Errorf("expected aspect 16:9, got %f", halfW/halfH)
	}

	// A point on the top edge projects to the top of the viewport
	_, sy, _, _ := cam.Project(0, halfH, 0)
	if math.Abs(float64(sy)) > 1e-2 {
		t.Errorf("expected top edge at sy=0, got %f", sy)
	}
	if !cam.IsVisible(-5, 10, 6) || cam.IsVisible(-10, 10, 6) {
		t.Error("unexpected culling result near the left edge")
	}
}
