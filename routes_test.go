package multibox_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/iti/multibox"
)

func TestOccupiable(t *testing.T) {
	assert.Equal(t, []int{1, 2}, twoBoxScheme().Occupiable())
	assert.Equal(t, []int{1, 2, 3}, loopScheme().Occupiable())

	sd := multibox.CreateSchemeDesc("partial")
	sd.AddNode(0, 1, []float64{0, 0, 1, 0})
	sd.AddNode(1, 1, []float64{1, 0, 0, 0})
	sd.AddNode(0, 1, []float64{0.5, 0, 0, 0.5})
	assert.Equal(t, []int{2}, sd.Occupiable())

	silent := multibox.CreateSchemeDesc("silent")
	silent.AddNode(0, 1, []float64{1, 0})
	assert.Empty(t, silent.Occupiable())
}

func TestTraps(t *testing.T) {
	assert.Empty(t, twoBoxScheme().Traps())

	// node 2 only routes to itself and node 3, node 3 only back to 2
	sd := multibox.CreateSchemeDesc("trap")
	sd.AddNode(1, 1, []float64{0.5, 0, 0.5, 0})
	sd.AddNode(0, 1, []float64{0, 0, 0.5, 0.5})
	sd.AddNode(0, 1, []float64{0, 0, 1, 0})
	assert.Equal(t, []int{2, 3}, sd.Traps())
}

func TestMostLikelyRoute(t *testing.T) {
	sd := loopScheme()

	route, prob := sd.MostLikelyRoute(1, multibox.ExitNode)
	assert.Equal(t, []int{1, 0}, route)
	assert.InDelta(t, 0.2, prob, 1e-12)

	route, prob = chainScheme().MostLikelyRoute(1, multibox.ExitNode)
	assert.Equal(t, []int{1, 2, 0}, route)
	assert.InDelta(t, 1.0, prob, 1e-12)

	// going through node 3 beats the direct route
	detour := multibox.CreateSchemeDesc("detour")
	detour.AddNode(1, 1, []float64{0.1, 0, 0.2, 0.7})
	detour.AddNode(0, 1, []float64{1, 0, 0, 0})
	detour.AddNode(0, 1, []float64{0.1, 0, 0.9, 0})
	route, prob = detour.MostLikelyRoute(1, 2)
	assert.Equal(t, []int{1, 3, 2}, route)
	assert.InDelta(t, 0.7*0.9, prob, 1e-12)

	route, prob = sd.MostLikelyRoute(2, 1)
	assert.Equal(t, []int{2, 1}, route)
	assert.InDelta(t, 0.3, prob, 1e-12)

	route, prob = sd.MostLikelyRoute(2, 2)
	assert.Equal(t, []int{2}, route)
	assert.Equal(t, 1.0, prob)

	route, prob = twoBoxScheme().MostLikelyRoute(2, 1)
	assert.Nil(t, route)
	assert.Zero(t, prob)

	route, _ = sd.MostLikelyRoute(0, 1)
	assert.Nil(t, route)
	route, _ = sd.MostLikelyRoute(1, 4)
	assert.Nil(t, route)
}
