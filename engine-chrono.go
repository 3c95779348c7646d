package multibox

// engine-chrono.go drives a run from an event list.  Every particle has at most one
// pending event, scheduled at the time it entered its current node; when the event
// fires the particle draws its holding time and destination, and, if it is still in
// the system before the horizon, schedules its next event.  Events fire in time
// order, so the history is generated chronologically, up to the resolution of the
// vrtime clock: offsets are rounded to whole ticks (one microsecond by default), and
// events falling on the same tick fire in the event manager's priority order.  Particle
// times themselves are kept in full precision; only the dispatch order is rounded.

import (
	"github.com/iti/evt/evtm"
	"github.com/iti/evt/vrtime"
	"math"
)

// runChronological advances the particles of the run through an event manager
func (rs *runState) runChronological() {
	evtMgr := evtm.New()
	for idx := range rs.particles {
		evtMgr.Schedule(rs, idx, leaveNode, vrtime.SecondsToTime(rs.particles[idx].Time))
	}
	evtMgr.Run(rs.horizon)
}

// leaveNode is the event handler called when a particle's holding period in its
// current node begins.  The context is the runState, the data the particle index
func leaveNode(evtMgr *evtm.EventManager, context any, data any) any {
	rs := context.(*runState)
	idx := data.(int)
	p := &rs.particles[idx]

	from := p.NodeEntered
	if from == ExitNode || !(p.Time < rs.horizon) {
		return nil
	}

	hold := rs.holding[from].Rand()
	dest := int(rs.routers[from].Rand())
	rs.move(idx, from, hold, dest)
	rs.visits += 1

	if !p.Exited() && p.Time < rs.horizon {
		offset := math.Max(p.Time-evtMgr.CurrentSeconds(), 0.0)
		evtMgr.Schedule(rs, idx, leaveNode, vrtime.SecondsToTime(offset))
	}
	return nil
}
