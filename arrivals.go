package multibox

import (
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// GenerateArrivals creates the initial population of a run.  For every node with a
// positive birth rate, in id order, an arrival count is drawn from a Poisson distribution
// with mean horizon*birth_rate, and then that many arrival times uniformly from [0, horizon).
// Each arrival becomes one particle in node i arrived from outside (NodeLeft 0), and
// one event.  Particles are returned in creation order, events in the same order
func GenerateArrivals(sd *SchemeDesc, horizon float64, src rand.Source) ([]Particle, EventHistory) {
	particles := make([]Particle, 0)
	history := make(EventHistory, 0)
	if !(horizon > 0.0) {
		return particles, history
	}

	uniform := distuv.Uniform{Min: 0.0, Max: horizon, Src: src}
	for _, node := range sd.Nodes {
		if !(node.BirthRate > 0.0) {
			continue
		}
		count := distuv.Poisson{Lambda: horizon * node.BirthRate, Src: src}.Rand()
		for n := 0; n < int(count); n++ {
			particles = append(particles, Particle{Time: uniform.Rand(), NodeEntered: node.ID, NodeLeft: 0})
			idx := len(particles) - 1
			history = append(history, snapshot(idx, &particles[idx]))
		}
	}
	return particles, history
}
