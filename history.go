package multibox

// history.go holds the records a run produces: particles, the events
// they emit, and the occupancy table derived from those events

import (
	"cmp"
	"golang.org/x/exp/slices"
)

// ExitNode is the id of the terminal sink.  A particle whose NodeEntered is
// ExitNode has left the system and never moves again
const ExitNode = 0

// Particle is an individual flowing through the scheme.  Time is the time it
// entered NodeEntered, NodeLeft the node it departed from to get there (0 at creation)
type Particle struct {
	Time        float64
	NodeEntered int
	NodeLeft    int
}

// Exited is true once the particle has reached the sink
func (p *Particle) Exited() bool {
	return p.NodeEntered == ExitNode
}

// EventRecord is a snapshot of a particle's state taken whenever it changes.
// Particle is the creation index of the particle that emitted it
type EventRecord struct {
	Time        float64 `json:"time" yaml:"time"`
	NodeEntered int     `json:"nodeentered" yaml:"nodeentered"`
	NodeLeft    int     `json:"nodeleft" yaml:"nodeleft"`
	Particle    int     `json:"particle" yaml:"particle"`
}

// snapshot records the current state of particle idx
func snapshot(idx int, p *Particle) EventRecord {
	return EventRecord{Time: p.Time, NodeEntered: p.NodeEntered, NodeLeft: p.NodeLeft, Particle: idx}
}

// EventHistory is the sequence of all events of a run in the order they were emitted
type EventHistory []EventRecord

// Trajectories groups the events by particle, keeping emission order within each group.
// The index of the outer slice is the particle's creation index
func (eh EventHistory) Trajectories() [][]EventRecord {
	numParticles := 0
	for _, rec := range eh {
		if rec.Particle+1 > numParticles {
			numParticles = rec.Particle + 1
		}
	}
	trajs := make([][]EventRecord, numParticles)
	for _, rec := range eh {
		trajs[rec.Particle] = append(trajs[rec.Particle], rec)
	}
	return trajs
}

// MaxNode returns the largest node id appearing in the history
func (eh EventHistory) MaxNode() int {
	maxNode := 0
	for _, rec := range eh {
		maxNode = max(maxNode, rec.NodeEntered, rec.NodeLeft)
	}
	return maxNode
}

// OccupancyTable is the time ordered history of events before the horizon, with
// Occupancy[k-1][r] the number of particles in node k just after event Records[r]
type OccupancyTable struct {
	Horizon   float64
	NumNodes  int
	Records   []EventRecord
	Occupancy [][]int
}

// Len gives the number of rows of the table
func (ot *OccupancyTable) Len() int {
	return len(ot.Records)
}

// Row returns the occupancy of every node just after event r, node 1 first
func (ot *OccupancyTable) Row(r int) []int {
	row := make([]int, ot.NumNodes)
	for k := range row {
		row[k] = ot.Occupancy[k][r]
	}
	return row
}

// Aggregate turns a history into an occupancy table: events at or after the horizon
// are dropped, the rest stably sorted by time, and a running count of entries minus
// departures computed for every node 1..numNodes.  When numNodes is not positive the
// largest node id in the history is used
func Aggregate(history EventHistory, horizon float64, numNodes int) *OccupancyTable {
	if numNodes <= 0 {
		numNodes = history.MaxNode()
	}

	records := make([]EventRecord, 0, len(history))
	for _, rec := range history {
		if rec.Time < horizon {
			records = append(records, rec)
		}
	}
	slices.SortStableFunc(records, func(a, b EventRecord) int { return cmp.Compare(a.Time, b.Time) })

	ot := &OccupancyTable{Horizon: horizon, NumNodes: numNodes, Records: slices.Clip(records)}
	ot.Occupancy = make([][]int, numNodes)
	running := make([]int, numNodes+1)
	for k := range ot.Occupancy {
		ot.Occupancy[k] = make([]int, len(records))
	}
	for r, rec := range records {
		if rec.NodeEntered > 0 && rec.NodeEntered <= numNodes {
			running[rec.NodeEntered] += 1
		}
		if rec.NodeLeft > 0 && rec.NodeLeft <= numNodes {
			running[rec.NodeLeft] -= 1
		}
		for k := 1; k <= numNodes; k++ {
			ot.Occupancy[k-1][r] = running[k]
		}
	}
	return ot
}
