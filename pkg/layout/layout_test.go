package layout

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRingEmpty(t *testing.T) {
	positions := Ring(nil)
	assert.Empty(t, positions)

	positions = Ring([]string{})
	assert.Empty(t, positions)
}

func TestRingSingleNode(t *testing.T) {
	positions := Ring([]string{"node-1"})
	require.Len(t, positions, 1)

	pos := positions["node-1"]
	assert.InDelta(t, 0, pos.Angle, 1e-9)
	assert.InDelta(t, DefaultRadius, pos.X, 1e-9)
	assert.InDelta(t, 0, pos.Y, 1e-9)
}

func TestRingTwoNodesOpposite(t *testing.T) {
	positions := Ring([]string{"a", "b"})
	require.Len(t, positions, 2)

	a := positions["a"]
	b := positions["b"]

	assert.InDelta(t, a.X, -b.X, 1e-9)
	assert.InDelta(t, a.Y, -b.Y, 1e-9)
}

func TestRingThreeNodesEquilateral(t *testing.T) {
	positions := Ring([]string{"a", "b", "c"})
	require.Len(t, positions, 3)

	dist := func(p, q string) float64 {
		dx := positions[p].X - positions[q].X
		dy := positions[p].Y - positions[q].Y

		return math.Hypot(dx, dy)
	}

	ab := dist("a", "b")
	bc := dist("b", "c")
	ca := dist("c", "a")

	assert.InDelta(t, ab, bc, 1e-9)
	assert.InDelta(t, bc, ca, 1e-9)
	assert.Greater(t, ab, 0.0)
}

func TestRingAllOnCircle(t *testing.T) {
	ids := []string{"n1", "n2", "n3", "n4", "n5", "n6", "n7"}
	positions := Ring(ids)
	require.Len(t, positions, len(ids))

	for id, pos := range positions {
		radius := math.Hypot(pos.X, pos.Y)
		assert.InDeltaf(t, DefaultRadius, radius, 1e-9, "node %s off the circle", id)
	}
}

func TestRingDeterministic(t *testing.T) {
	ids := []string{"a", "b", "c", "d"}

	first := Ring(ids)
	second := Ring(ids)

	assert.Equal(t, first, second)
}

func TestRingEvenSpacing(t *testing.T) {
	ids := []string{"a", "b", "c", "d"}
	positions := Ring(ids)

	step := 2 * math.Pi / float64(len(ids))
	for i, id := range ids {
		assert.InDelta(t, float64(i)*step, positions[id].Angle, 1e-9)
	}
}

func TestRingWithRadius(t *testing.T) {
	positions := RingWithRadius([]string{"a"}, 50)
	require.Len(t, positions, 1)
	assert.InDelta(t, 50.0, positions["a"].X, 1e-9)
}
