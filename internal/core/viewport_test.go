package core

import (
	"math"
	"testing"
)

func TestViewportFit(t *testing.T) {
	tests := []struct {
		name              string
		width, height     float64
		aspect            float64
		worldW, worldH    float64
		scale, offX, offY float64
	}{
		{"exact", 100, 50, 1, 100, 50, 1, 0, 0},
		{"pillarbox", 200, 50, 1, 100, 50, 1, 50, 0},
		{"letterbox", 100, 100, 1, 100, 50, 1, 0, 25},
		{"tall cells", 80, 24, 2, 80, 48, 1, 0, 0},
		{"tall cells pillarbox", 100, 24, 2, 48, 48, 1, 26, 0},
		{"zero world", 80, 24, 2, 0, 0, 1, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewViewport(tt.width, tt.height, tt.aspect)
			v.Fit(tt.worldW, tt.worldH)
			if math.Abs(v.Scale-tt.scale) > 1e-9 || math.Abs(v.OffX-tt.offX) > 1e-9 || math.Abs(v.OffY-tt.offY) > 1e-9 {
				t.Errorf("Fit() = scale %v off %v,%v, expected %v off %v,%v",
					v.Scale, v.OffX, v.OffY, tt.scale, tt.offX, tt.offY)
			}
		})
	}
}

func TestViewportMap(t *testing.T) {
	v := NewViewport(200, 100, 2)
	v.Fit(100, 100)

	// scale = min(200/100, 200/100) = 2, world height spans 100 rows
	x, y := v.Map(V2(50, 50))
	if x != 100 || y != 50 {
		t.Errorf("Map(50,50) = %v,%v, expected 100,50", x, y)
	}

	v.Resize(400, 100)
	if v.WorldW != 100 || v.OffX != 100 {
		t.Errorf("Resize() kept world %v with offset %v, expected 100 and 100", v.WorldW, v.OffX)
	}
}

func TestViewportEmpty(t *testing.T) {
	v := NewViewport(0, 0, 1)
	v.Fit(10, 10)
	if v.Scale != 0 {
		t.Errorf("Scale = %v on an empty viewport, expected 0", v.Scale)
	}
	if x, y := v.Map(V2(5, 5)); math.IsNaN(x) || math.IsNaN(y) {
		t.Error("Map() returned NaN on an empty viewport")
	}
}
