package multibox_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iti/multibox"
)

// writeScheme creates a scheme directory holding the given nodes and transitions files
func writeScheme(t *testing.T, nodes, transitions string) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "scheme")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, multibox.NodesFileName), []byte(nodes), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, multibox.TransitionsFileName), []byte(transitions), 0o644))
	return dir
}

// twoBoxScheme is the scenario of a source box that sends half of its particles on to a
// second box and lets the other half exit; the second box lets everyone exit
func twoBoxScheme() *multibox.SchemeDesc {
	sd := multibox.CreateSchemeDesc("two-box")
	sd.AddNode(5, 2, []float64{0.5, 0, 0.5})
	sd.AddNode(0, 3, []float64{1, 0, 0})
	return sd
}

// chainScheme always moves particles from box 1 to box 2 and then out
func chainScheme() *multibox.SchemeDesc {
	sd := multibox.CreateSchemeDesc("chain")
	sd.AddNode(3, 1, []float64{0, 0, 1})
	sd.AddNode(0, 2, []float64{1, 0, 0})
	return sd
}

// loopScheme lets particles bounce among three boxes before leaving
func loopScheme() *multibox.SchemeDesc {
	sd := multibox.CreateSchemeDesc("loop")
	sd.AddNode(2, 1.5, []float64{0.2, 0.1, 0.4, 0.3})
	sd.AddNode(1, 2.5, []float64{0.3, 0.3, 0, 0.4})
	sd.AddNode(0, 4, []float64{0.5, 0.25, 0.25, 0})
	return sd
}

// requireTableInvariants checks what must hold for every occupancy table
func requireTableInvariants(t *testing.T, ot *multibox.OccupancyTable) {
	t.Helper()
	prev := 0.0
	for r, rec := range ot.Records {
		require.GreaterOrEqual(t, rec.Time, 0.0)
		require.Less(t, rec.Time, ot.Horizon, "row %d beyond the horizon", r)
		require.GreaterOrEqual(t, rec.Time, prev, "row %d out of time order", r)
		prev = rec.Time
		for k := 0; k < ot.NumNodes; k++ {
			require.GreaterOrEqual(t, ot.Occupancy[k][r], 0, "negative occupancy of node %d at row %d", k+1, r)
		}
	}
}

// requireTrajectoryInvariants checks that particles move forward in time and stop once exited
func requireTrajectoryInvariants(t *testing.T, history multibox.EventHistory) {
	t.Helper()
	for idx, traj := range history.Trajectories() {
		require.NotEmpty(t, traj, "particle %d has no events", idx)
		require.Equal(t, 0, traj[0].NodeLeft, "particle %d did not arrive from outside", idx)
		for n := 1; n < len(traj); n++ {
			require.Greater(t, traj[n].Time, traj[n-1].Time, "particle %d went back in time", idx)
			require.NotEqual(t, multibox.ExitNode, traj[n-1].NodeEntered, "particle %d moved after exiting", idx)
			require.Equal(t, traj[n-1].NodeEntered, traj[n].NodeLeft, "particle %d left a node it was not in", idx)
		}
	}
}
