package mood

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildCatalogueIsDeterministic(t *testing.T) {
	a, err := BuildCatalogue()
	require.NoError(t, err)
	b, err := BuildCatalogue()
	require.NoError(t, err)

	if diff := cmp.Diff(a.Entries(), b.Entries()); diff != "" {
		t.Fatalf("catalogues differ (-first +second):\n%s", diff)
	}
}

func TestBuildCatalogueLayout(t *testing.T) {
	c := MustCatalogue()
	require.Equal(t, 36, c.Len())

	perQuadrant := map[Quadrant]int{}
	for _, e := range c.Entries() {
		perQuadrant[e.Quadrant]++
	}
	for _, q := range Quadrants {
		assert.Equal(t, 9, perQuadrant[q.Quadrant], q.Quadrant)
	}

	tests := []struct {
		id     string
		gx, gy float64
	}{
		{"hu-1", 52.5, 52.5},
		{"hu-9", 262.5, 262.5},
		{"hp-1", 3*105 + 40 + 52.5, 52.5},
		{"lu-1", 52.5, 3*105 + 40 + 52.5},
		{"lp-9", 5*105 + 40 + 52.5, 5*105 + 40 + 52.5},
	}
	for _, tt := range tests {
		e, ok := c.Lookup(tt.id)
		require.True(t, ok, tt.id)
		assert.Equal(t, tt.gx, e.GX, tt.id)
		assert.Equal(t, tt.gy, e.GY, tt.id)
	}
}

func TestQuadrantGapSeparatesHalves(t *testing.T) {
	c := MustCatalogue()
	left, _ := c.Lookup("hu-3")
	right, _ := c.Lookup("hp-1")
	assert.Equal(t, CellSize+QuadrantGap, right.GX-left.GX)

	top, _ := c.Lookup("hu-7")
	bottom, _ := c.Lookup("lu-1")
	assert.Equal(t, CellSize+QuadrantGap, bottom.GY-top.GY)
}

func TestNewCatalogueRejectsInvalid(t *testing.T) {
	_, err := NewCatalogue(nil)
	assert.ErrorIs(t, err, ErrEmptyCatalogue)

	_, err = NewCatalogue([]Entry{{ID: "a"}, {ID: "a"}})
	assert.Error(t, err)
}

func TestEntriesReturnsCopy(t *testing.T) {
	c := MustCatalogue()
	list := c.Entries()
	list[0].Label = "changed"
	assert.NotEqual(t, "changed", c.At(0).Label)
}
