package multibox

// routes.go answers structural questions about a scheme's routing matrix:
// which nodes a particle can ever occupy, which of those it can never leave
// the system from, and the most likely path between two nodes

import (
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"
	"golang.org/x/exp/slices"
	"math"
)

// The general approach is to convert the routing matrix into a weighted directed graph
// from the graph package, which has path discovery built in.  Node k of the scheme is graph
// node k, and the exit is graph node 0.  An edge i -> j is present when row i gives j a
// positive probability p, and is weighted -log(p), floored at 0.  A shortest path then is the
// route of highest probability, and a node is reachable iff its path weight is finite.
// Self-routes are left out; they never change which nodes are reachable.

// routeGraph is the graph representation of a scheme
type routeGraph struct {
	g     *simple.WeightedDirectedGraph
	nodes []simple.Node
}

// buildRouteGraph returns the routeGraph of a scheme whose matrix has the
// shape Validate requires
func buildRouteGraph(sd *SchemeDesc) *routeGraph {
	rg := new(routeGraph)
	rg.g = simple.NewWeightedDirectedGraph(0, math.Inf(1))
	rg.nodes = make([]simple.Node, sd.NumNodes()+1)
	for id := range rg.nodes {
		rg.nodes[id] = simple.Node(id)
		rg.g.AddNode(rg.nodes[id])
	}

	for idx, row := range sd.Transitions {
		from := idx + 1
		for to, p := range row {
			if p <= 0.0 || to == from || to >= len(rg.nodes) {
				continue
			}
			// rows pass validation within a tolerance, so p may sit just above 1
			weight := math.Max(0.0, -math.Log(p))
			rg.g.SetWeightedEdge(simple.WeightedEdge{F: rg.nodes[from], T: rg.nodes[to], W: weight})
		}
	}
	return rg
}

// spTree returns the tree of most likely routes rooted in node 'from'
func (rg *routeGraph) spTree(from int) path.Shortest {
	return path.DijkstraFrom(rg.nodes[from], rg.g)
}

// convertNodeSeq extracts scheme node ids from a sequence of graph nodes
func convertNodeSeq(nsQ []graph.Node) []int {
	rtn := make([]int, 0, len(nsQ))
	for _, node := range nsQ {
		rtn = append(rtn, int(node.ID()))
	}
	return rtn
}

// Occupiable returns, in increasing order, the ids of the nodes a particle can be found in:
// those with a positive birth rate and those reachable from one of them
func (sd *SchemeDesc) Occupiable() []int {
	rg := buildRouteGraph(sd)
	reached := make([]bool, sd.NumNodes()+1)
	for _, node := range sd.Nodes {
		if !(node.BirthRate > 0.0) || reached[node.ID] {
			continue
		}
		tree := rg.spTree(node.ID)
		for id := 1; id <= sd.NumNodes(); id++ {
			if !math.IsInf(tree.WeightTo(int64(id)), 1) {
				reached[id] = true
			}
		}
	}

	occupied := make([]int, 0)
	for id := 1; id <= sd.NumNodes(); id++ {
		if reached[id] {
			occupied = append(occupied, id)
		}
	}
	return occupied
}

// Traps returns the occupiable nodes from which no sequence of routes reaches the exit.
// Particles entering one stay in the system until the horizon
func (sd *SchemeDesc) Traps() []int {
	rg := buildRouteGraph(sd)
	traps := make([]int, 0)
	for _, id := range sd.Occupiable() {
		if math.IsInf(rg.spTree(id).WeightTo(0), 1) {
			traps = append(traps, id)
		}
	}
	return traps
}

// MostLikelyRoute returns the sequence of node ids, 'from' and 'to' inclusive, of the
// most probable way a particle leaving 'from' arrives at 'to' (0 names the exit), and
// the probability of following it.  When 'to' cannot be reached the route is nil and
// the probability zero
func (sd *SchemeDesc) MostLikelyRoute(from, to int) ([]int, float64) {
	if from < 1 || from > sd.NumNodes() || to < 0 || to > sd.NumNodes() {
		return nil, 0.0
	}
	if from == to {
		return []int{from}, 1.0
	}
	rg := buildRouteGraph(sd)
	nodeSeq, weight := rg.spTree(from).To(int64(to))
	if nodeSeq == nil {
		return nil, 0.0
	}
	route := convertNodeSeq(nodeSeq)
	if !slices.Contains(route, to) {
		return nil, 0.0
	}
	return route, math.Exp(-weight)
}
