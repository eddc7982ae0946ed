package mood

import "math"

// FisheyeRadius is the distance from the viewport center at which bubbles
// reach their minimum size.
const FisheyeRadius = 280.0

// Fisheye describes how a bubble is drawn for the current offset.
type Fisheye struct {
	Distance float64
	Scale    float64 // 1.5 at the center down to 0.7
	Opacity  float64 // 1.0 at the center down to 0.55
	Depth    int     // 0..5, nearer bubbles draw on top
}

// FisheyeFor computes the fisheye parameters of e at offset.
func FisheyeFor(e Entry, offset Vec) Fisheye {
	dist := ScreenDelta(e, offset).Len()
	t := math.Min(dist/FisheyeRadius, 1)
	return Fisheye{
		Distance: dist,
		Scale:    1.5 - t*0.8,
		Opacity:  0.55 + (1-t)*0.45,
		Depth:    int(math.Round((1 - t) * 5)),
	}
}
