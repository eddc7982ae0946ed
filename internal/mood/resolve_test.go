package mood

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindClosestAtEntryHasZeroDistance(t *testing.T) {
	c := MustCatalogue()
	for _, e := range c.Entries() {
		got, d := c.FindClosest(CenterOffset(e))
		assert.Equal(t, e.ID, got.ID)
		assert.Zero(t, d, e.ID)
	}
}

func TestFindClosestTieGoesToCatalogueOrder(t *testing.T) {
	c, err := NewCatalogue([]Entry{
		{ID: "first", GX: GridCenter.X - 10, GY: GridCenter.Y},
		{ID: "second", GX: GridCenter.X + 10, GY: GridCenter.Y},
	})
	require.NoError(t, err)

	got, d := c.FindClosest(Vec{})
	assert.Equal(t, "first", got.ID)
	assert.Equal(t, 100.0, d)
}

func TestFindClosestFarAwayStillResolves(t *testing.T) {
	c := MustCatalogue()
	got, _ := c.FindClosest(Vec{X: 1e6, Y: 1e6})
	assert.NotEmpty(t, got.ID)
}

func TestFindTapped(t *testing.T) {
	c := MustCatalogue()
	target, _ := c.Lookup("lp-5")

	tests := []struct {
		name string
		p    Vec
		want string
		ok   bool
	}{
		{"on home", target.Home(), "lp-5", true},
		{"slightly off", target.Home().Add(Vec{X: 20, Y: -15}), "lp-5", true},
		{"beyond the grid", Vec{X: -500, Y: -500}, "", false},
		{"exactly one cell away from corner entry", Vec{X: 52.5 - CellSize, Y: 52.5}, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := c.FindTapped(tt.p)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got.ID)
		})
	}
}

func TestNeighbor(t *testing.T) {
	c := MustCatalogue()
	start, _ := c.Lookup("hu-5")
	assert.Equal(t, "hu-6", c.Neighbor(CenterOffset(start), 1, 0).ID)
	assert.Equal(t, "hu-8", c.Neighbor(CenterOffset(start), 0, 1).ID)
	assert.Equal(t, "hu-2", c.Neighbor(CenterOffset(start), 0, -1).ID)

	edge, _ := c.Lookup("hu-3")
	assert.Equal(t, "hp-1", c.Neighbor(CenterOffset(edge), 1, 0).ID)
}

func TestFisheye(t *testing.T) {
	c := MustCatalogue()
	e, _ := c.Lookup("hp-4")

	center := FisheyeFor(e, CenterOffset(e))
	assert.Equal(t, 1.5, center.Scale)
	assert.InDelta(t, 1.0, center.Opacity, 1e-9)
	assert.Equal(t, 5, center.Depth)

	far := FisheyeFor(e, CenterOffset(e).Add(Vec{X: 1000}))
	assert.InDelta(t, 0.7, far.Scale, 1e-9)
	assert.InDelta(t, 0.55, far.Opacity, 1e-9)
	assert.Equal(t, 0, far.Depth)
}
