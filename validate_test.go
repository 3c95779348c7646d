package multibox_test

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iti/multibox"
)

func TestValidate_Accepts(t *testing.T) {
	for _, sd := range []*multibox.SchemeDesc{twoBoxScheme(), chainScheme(), loopScheme()} {
		assert.NoError(t, sd.Validate(), sd.Name)
	}

	// rows within the tolerance of 1 are stochastic
	sd := multibox.CreateSchemeDesc("thirds")
	sd.AddNode(1, 1, []float64{1.0 / 3, 1.0 / 3, 1.0 / 3})
	sd.AddNode(0, 1, []float64{1.0 / 3, 1.0 / 3, 1.0 / 3})
	assert.NoError(t, sd.Validate())
}

func TestValidate_ZeroHoldingRateOfUnreachableNode(t *testing.T) {
	// node 2 has no births and nothing routes to it, so it is never occupied
	sd := multibox.CreateSchemeDesc("island")
	sd.AddNode(1, 2, []float64{1, 0, 0})
	sd.AddNode(0, 0, []float64{1, 0, 0})
	require.NoError(t, sd.Validate())

	// once node 1 can send particles there the zero rate is an error
	sd.Transitions[0] = []float64{0.5, 0, 0.5}
	var de *multibox.DomainError
	require.ErrorAs(t, sd.Validate(), &de)
	assert.Equal(t, 2, de.Node)
	assert.Equal(t, "holding_rate", de.Field)
}

func TestValidate_StochasticErrors(t *testing.T) {
	tests := []struct {
		name        string
		transitions [][]float64
		row, column int
	}{
		{"row sums above one", [][]float64{{0.5, 0, 0.6}, {1, 0, 0}}, 1, -1},
		{"row sums below one", [][]float64{{0.5, 0, 0.5}, {0.9, 0, 0}}, 2, -1},
		{"negative entry", [][]float64{{1.5, 0, -0.5}, {1, 0, 0}}, 1, 2},
		{"NaN entry", [][]float64{{0.5, 0, 0.5}, {1, math.NaN(), 0}}, 2, 1},
		{"routes to missing node", [][]float64{{0.5, 0, 0.25, 0.25}, {1, 0, 0, 0}}, 1, 3},
		{"short row", [][]float64{{0.5, 0.5}, {1, 0, 0}}, 1, -1},
		{"missing row", [][]float64{{0.5, 0, 0.5}}, 2, -1},
		{"extra row", [][]float64{{0.5, 0, 0.5}, {1, 0, 0}, {1, 0, 0}}, 3, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sd := twoBoxScheme()
			sd.Transitions = tt.transitions

			err := sd.Validate()
			var sve *multibox.StochasticValidationError
			require.True(t, errors.As(err, &sve), "want StochasticValidationError, got %v", err)
			assert.Equal(t, tt.row, sve.Row)
			assert.Equal(t, tt.column, sve.Column)
		})
	}
}

func TestValidate_DomainErrors(t *testing.T) {
	tests := []struct {
		name   string
		modify func(sd *multibox.SchemeDesc)
		node   int
		field  string
	}{
		{"negative birth rate", func(sd *multibox.SchemeDesc) { sd.Nodes[1].BirthRate = -1 }, 2, "birth_rate"},
		{"infinite birth rate", func(sd *multibox.SchemeDesc) { sd.Nodes[0].BirthRate = math.Inf(1) }, 1, "birth_rate"},
		{"zero holding rate", func(sd *multibox.SchemeDesc) { sd.Nodes[0].HoldingRate = 0 }, 1, "holding_rate"},
		{"negative holding rate", func(sd *multibox.SchemeDesc) { sd.Nodes[1].HoldingRate = -3 }, 2, "holding_rate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sd := twoBoxScheme()
			tt.modify(sd)

			var de *multibox.DomainError
			require.ErrorAs(t, sd.Validate(), &de)
			assert.Equal(t, tt.node, de.Node)
			assert.Equal(t, tt.field, de.Field)
		})
	}
}

func TestValidate_ShapeErrors(t *testing.T) {
	var ife *multibox.InputFormatError

	empty := multibox.CreateSchemeDesc("empty")
	require.ErrorAs(t, empty.Validate(), &ife)

	shuffled := twoBoxScheme()
	shuffled.Nodes[0].ID, shuffled.Nodes[1].ID = 2, 1
	require.ErrorAs(t, shuffled.Validate(), &ife)
	assert.Equal(t, 1, ife.Row)
}

func TestLoadScheme_ValidationErrors(t *testing.T) {
	dir := writeScheme(t, "5 2\n0 3\n", "0.5 0 0.4\n1 0 0\n")
	_, err := multibox.LoadScheme(dir)
	var sve *multibox.StochasticValidationError
	require.ErrorAs(t, err, &sve)
	assert.Equal(t, 1, sve.Row)

	dir = writeScheme(t, "5 0\n", "1 0\n")
	_, err = multibox.LoadScheme(dir)
	var de *multibox.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "holding_rate", de.Field)
}

func TestValidate_ProbabilityJustAboveOne(t *testing.T) {
	// within the row-sum tolerance, so accepted, and the route analysis run by
	// Validate must cope with the entry exceeding 1
	sd := multibox.CreateSchemeDesc("rounded")
	sd.AddNode(2, 1, []float64{0, 0, 1.000000005})
	sd.AddNode(0, 1, []float64{1, 0, 0})

	require.NotPanics(t, func() { require.NoError(t, sd.Validate()) })
	assert.Equal(t, []int{1, 2}, sd.Occupiable())

	route, prob := sd.MostLikelyRoute(1, multibox.ExitNode)
	assert.Equal(t, []int{1, 2, 0}, route)
	assert.InDelta(t, 1.0, prob, 1e-12)
}
