package multibox

import (
	"fmt"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/floats/scalar"
	"math"
)

// RowSumTolerance bounds how far the sum of a routing row may stray from 1
const RowSumTolerance = 1e-8

// Validate checks that the description is one the engine can run: node ids are 1..N
// in order, the routing matrix is N x (N+1) and row-stochastic, birth rates are
// non-negative, and every node that can be occupied has a positive holding rate.
// The checks are applied in that order and the first failure is returned.
func (sd *SchemeDesc) Validate() error {
	numNodes := len(sd.Nodes)
	if numNodes == 0 {
		return &InputFormatError{File: sd.Name, Msg: "scheme holds no nodes"}
	}

	for idx, node := range sd.Nodes {
		if node.ID != idx+1 {
			return &InputFormatError{File: sd.Name, Row: idx + 1,
				Msg: fmt.Sprintf("node id %d out of order, want %d", node.ID, idx+1)}
		}
	}

	if len(sd.Transitions) > numNodes {
		return &StochasticValidationError{Row: numNodes + 1, Column: -1,
			Msg: fmt.Sprintf("node %d has a routing row but no entry in the node table", numNodes+1)}
	}
	if len(sd.Transitions) < numNodes {
		return &StochasticValidationError{Row: len(sd.Transitions) + 1, Column: -1,
			Msg: "node has no routing row"}
	}

	for idx, row := range sd.Transitions {
		id := idx + 1
		if len(row) > numNodes+1 {
			return &StochasticValidationError{Row: id, Column: numNodes + 1,
				Msg: fmt.Sprintf("routes to node %d which has no entry in the node table", numNodes+1)}
		}
		if len(row) < numNodes+1 {
			return &StochasticValidationError{Row: id, Column: -1,
				Msg: fmt.Sprintf("has %d destinations, want %d", len(row), numNodes+1)}
		}
		for col, p := range row {
			if math.IsNaN(p) || math.IsInf(p, 0) || p < 0.0 {
				return &StochasticValidationError{Row: id, Column: col,
					Msg: fmt.Sprintf("probability %g is not a finite non-negative number", p)}
			}
		}
		sum := floats.Sum(row)
		if !scalar.EqualWithinAbsOrRel(sum, 1.0, RowSumTolerance, RowSumTolerance) {
			return &StochasticValidationError{Row: id, Column: -1,
				Msg: fmt.Sprintf("probabilities sum to %g, not 1", sum)}
		}
	}

	for _, node := range sd.Nodes {
		if math.IsNaN(node.BirthRate) || math.IsInf(node.BirthRate, 0) || node.BirthRate < 0.0 {
			return &DomainError{Node: node.ID, Field: "birth_rate", Value: node.BirthRate,
				Msg: "must be finite and non-negative"}
		}
	}

	// a holding rate matters only where a particle can actually be
	for _, id := range sd.Occupiable() {
		hr := sd.Node(id).HoldingRate
		if math.IsNaN(hr) || math.IsInf(hr, 0) || hr <= 0.0 {
			return &DomainError{Node: id, Field: "holding_rate", Value: hr,
				Msg: "must be finite and positive for a node that can be occupied"}
		}
	}
	return nil
}
