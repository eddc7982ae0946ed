package mood

import "math"

// Vec is a 2D vector in grid pixels.
type Vec struct {
	X, Y float64
}

func (v Vec) Add(o Vec) Vec { return Vec{v.X + o.X, v.Y + o.Y} }
func (v Vec) Sub(o Vec) Vec { return Vec{v.X - o.X, v.Y - o.Y} }
func (v Vec) Scale(f float64) Vec { return Vec{v.X * f, v.Y * f} }
func (v Vec) Len2() float64 { return v.X*v.X + v.Y*v.Y }
func (v Vec) Len() float64 { return math.Sqrt(v.Len2()) }
func (v Vec) Mul(o Vec) Vec { return Vec{v.X * o.X, v.Y * o.Y} }

// GridCenter is the middle of the grid plane.
var GridCenter = Vec{X: GridWidth / 2, Y: GridHeight / 2}

// CenterOffset is the viewport offset that puts e under the viewport center.
func CenterOffset(e Entry) Vec {
	return GridCenter.Sub(e.Home())
}

// ScreenDelta is where e sits relative to the viewport center for a given
// offset. It is zero when the viewport is centered on e.
func ScreenDelta(e Entry, offset Vec) Vec {
	return e.Home().Sub(GridCenter).Add(offset)
}

// FindClosest returns the entry nearest to the viewport center for offset,
// and its squared distance. Ties go to the first entry in catalogue order.
func (c *Catalogue) FindClosest(offset Vec) (Entry, float64) {
	best, min := 0, math.Inf(1)
	for i, e := range c.entries {
		if d := ScreenDelta(e, offset).Len2(); d < min {
			best, min = i, d
		}
	}
	return c.entries[best], min
}

// FindTapped returns the entry nearest to point p, given in grid space,
// provided it lies strictly within one cell width of that entry's home.
func (c *Catalogue) FindTapped(p Vec) (Entry, bool) {
	const cutoff = CellSize * CellSize
	best, min := -1, math.Inf(1)
	for i, e := range c.entries {
		d := e.Home().Sub(p).Len2()
		if d < min && d < cutoff {
			best, min = i, d
		}
	}
	if best < 0 {
		return Entry{}, false
	}
	return c.entries[best], true
}

// Neighbor returns the entry nearest to the cell one step away from offset in
// direction (dx, dy), each of -1, 0 or 1.
func (c *Catalogue) Neighbor(offset Vec, dx, dy int) Entry {
	shifted := offset.Sub(Vec{X: float64(dx) * CellSize, Y: float64(dy) * CellSize})
	e, _ := c.FindClosest(shifted)
	return e
}
