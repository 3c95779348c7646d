package multibox

import (
	"fmt"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"io"
	"text/tabwriter"
)

// NodeSummary condenses the occupancy series of one node
type NodeSummary struct {
	Node       int     `json:"node" yaml:"node"`
	Entries    int     `json:"entries" yaml:"entries"`
	Departures int     `json:"departures" yaml:"departures"`
	Peak       int     `json:"peak" yaml:"peak"`
	Final      int     `json:"final" yaml:"final"`
	MeanLevel  float64 `json:"meanlevel" yaml:"meanlevel"`
}

// Summarize computes, for every node of the table, the number of entries and departures
// before the horizon, the largest and the last occupancy, and the occupancy averaged over
// [0, horizon) with each level weighted by how long it was held
func Summarize(ot *OccupancyTable) []NodeSummary {
	summaries := make([]NodeSummary, ot.NumNodes)

	// levels[r] is held for durations[r]: entry 0 covers [0, first record)
	// when every node is empty, entry r+1 the state just after record r
	durations := make([]float64, ot.Len()+1)
	prev := 0.0
	for r, rec := range ot.Records {
		durations[r] = rec.Time - prev
		prev = rec.Time
	}
	durations[ot.Len()] = ot.Horizon - prev
	levels := make([]float64, ot.Len()+1)

	for k := 1; k <= ot.NumNodes; k++ {
		ns := NodeSummary{Node: k}
		levels[0] = 0.0
		for r, rec := range ot.Records {
			if rec.NodeEntered == k {
				ns.Entries += 1
			}
			if rec.NodeLeft == k {
				ns.Departures += 1
			}
			level := ot.Occupancy[k-1][r]
			ns.Peak = max(ns.Peak, level)
			levels[r+1] = float64(level)
		}
		if ot.Len() > 0 {
			ns.Final = ot.Occupancy[k-1][ot.Len()-1]
		}
		if floats.Sum(durations) > 0.0 {
			ns.MeanLevel = stat.Mean(levels, durations)
		}
		summaries[k-1] = ns
	}
	return summaries
}

// WriteSummary prints summaries as an aligned table
func WriteSummary(w io.Writer, summaries []NodeSummary) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "node\tentries\tdepartures\tpeak\tfinal\tmean")
	for _, ns := range summaries {
		fmt.Fprintf(tw, "%d\t%d\t%d\t%d\t%d\t%.4f\n", ns.Node, ns.Entries, ns.Departures, ns.Peak, ns.Final, ns.MeanLevel)
	}
	return tw.Flush()
}
