package multibox

// engine.go holds the simulation engine.  A run creates the initial population,
// then moves particles from node to node until none of them can produce another
// event before the horizon.  By default nodes are visited in the cyclic order
// 1, 2, ..., N, 1, 2, ...; every particle waiting at the visited node is advanced
// by one holding time and routed.  Particles that share a node in a visit are treated as
// simultaneous, so events are not generated in global time order.  ModeChronological
// instead advances particles one at a time in the order of their entry times.

import (
	"fmt"
	"github.com/iti/evt/vrtime"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
	"io"
	"log/slog"
	"math"
	"strings"
)

// Mode selects the order in which the engine advances particles
type Mode int

const (
	ModeCyclic Mode = iota
	ModeChronological
)

var modeToStr map[Mode]string = map[Mode]string{ModeCyclic: "cyclic", ModeChronological: "chronological"}

func (m Mode) String() string {
	str, present := modeToStr[m]
	if !present {
		return fmt.Sprintf("mode(%d)", int(m))
	}
	return str
}

// ParseMode converts the name of a mode to a Mode.  The empty string selects ModeCyclic
func ParseMode(name string) (Mode, error) {
	switch strings.ToLower(name) {
	case "", "cyclic", "cycle", "roundrobin":
		return ModeCyclic, nil
	case "chronological", "chrono", "event", "queue":
		return ModeChronological, nil
	}
	return ModeCyclic, fmt.Errorf("ordering %q: %w", name, ErrUnknownMode)
}

// Engine runs simulations of schemes.  It holds only settings; all the state of a
// run lives in that run, so an Engine may be used for any number of runs
type Engine struct {
	mode    Mode
	rngKind string
	seed    uint64
	src     rand.Source
	logger  *slog.Logger
	metrics *RunMetrics
}

// Option configures an Engine
type Option func(*Engine)

// WithMode selects the particle ordering.  ModeChronological dispatches events on a
// clock of vrtime.TicksPerSecond ticks per second (one tick per microsecond by default): transitions
// closer together than one tick may fire out of time order, though the times recorded
// are exact, and horizons too long for the clock are rejected by Run
func WithMode(mode Mode) Option {
	return func(eng *Engine) {
		eng.mode = mode
	}
}

// WithSeed sets the seed of the random source created for every run.
// Two runs with the same seed, source kind and scheme produce the same history
func WithSeed(seed uint64) Option {
	return func(eng *Engine) {
		eng.seed = seed
	}
}

// WithRNG selects the kind of random source created for every run, RNGPCG or RNGStream
func WithRNG(kind string) Option {
	return func(eng *Engine) {
		eng.rngKind = kind
	}
}

// WithSource makes every run draw from src instead of a source of its own.
// Successive runs then continue the same sequence of draws
func WithSource(src rand.Source) Option {
	return func(eng *Engine) {
		eng.src = src
	}
}

// WithLogger sets a custom structured logger for the engine
func WithLogger(logger *slog.Logger) Option {
	return func(eng *Engine) {
		eng.logger = logger
	}
}

// WithMetrics has the engine count its work in rm
func WithMetrics(rm *RunMetrics) Option {
	return func(eng *Engine) {
		eng.metrics = rm
	}
}

// CreateEngine is a constructor
func CreateEngine(opts ...Option) *Engine {
	eng := &Engine{mode: ModeCyclic, rngKind: RNGPCG}
	for _, opt := range opts {
		opt(eng)
	}
	if eng.logger == nil {
		eng.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return eng
}

// Mode reports the ordering the engine uses
func (eng *Engine) Mode() Mode {
	return eng.mode
}

// RunResult is what a run leaves behind.  Particles hold their final state,
// History every event emitted, arrivals first
type RunResult struct {
	Scheme    *SchemeDesc
	Horizon   float64
	Mode      Mode
	Particles []Particle
	History   EventHistory
	Visits    int
}

// Table aggregates the run's history into its occupancy table
func (rr *RunResult) Table() *OccupancyTable {
	return Aggregate(rr.History, rr.Horizon, rr.Scheme.NumNodes())
}

// runState is the mutable state of one run.  It is created by Run, and is
// touched by nothing else
type runState struct {
	sd        *SchemeDesc
	horizon   float64
	particles []Particle
	history   EventHistory
	holding   []distuv.Exponential // indexed by node id, entry 0 unused
	routers   []distuv.Categorical // indexed by node id, entry 0 unused
	metrics   *RunMetrics
	visits    int
}

// createRunState is a constructor
func createRunState(sd *SchemeDesc, horizon float64, src rand.Source, rm *RunMetrics) *runState {
	rs := new(runState)
	rs.sd = sd
	rs.horizon = horizon
	rs.metrics = rm
	rs.holding = make([]distuv.Exponential, sd.NumNodes()+1)
	rs.routers = make([]distuv.Categorical, sd.NumNodes()+1)
	for _, node := range sd.Nodes {
		rs.holding[node.ID] = distuv.Exponential{Rate: node.HoldingRate, Src: src}
		rs.routers[node.ID] = distuv.NewCategorical(sd.Row(node.ID), src)
	}
	rs.particles, rs.history = GenerateArrivals(sd, horizon, src)
	for _, p := range rs.particles {
		rm.observeArrival(p.NodeEntered)
	}
	return rs
}

// move applies one transition to particle idx, which is leaving node 'from'
// after holding there for 'hold', and records it
func (rs *runState) move(idx, from int, hold float64, dest int) {
	p := &rs.particles[idx]
	p.Time += hold
	p.NodeLeft = from
	p.NodeEntered = dest
	rs.history = append(rs.history, snapshot(idx, p))
	rs.metrics.observeTransition(from, dest, hold)
}

// minActiveTime returns the smallest time of a particle still in the system,
// and false if there is none
func (rs *runState) minActiveTime() (float64, bool) {
	minTime := math.Inf(1)
	found := false
	for idx := range rs.particles {
		if rs.particles[idx].Exited() {
			continue
		}
		found = true
		minTime = math.Min(minTime, rs.particles[idx].Time)
	}
	return minTime, found
}

// visit advances every particle waiting in node c before the horizon.  All holding
// times are drawn first, in creation order, then all destinations in the same order.
// active and holds are scratch buffers, returned for reuse
func (rs *runState) visit(c int, active []int, holds []float64) ([]int, []float64) {
	active = active[:0]
	for idx := range rs.particles {
		p := &rs.particles[idx]
		if p.NodeEntered == c && p.Time < rs.horizon {
			active = append(active, idx)
		}
	}

	holds = holds[:0]
	for range active {
		holds = append(holds, rs.holding[c].Rand())
	}
	for n, idx := range active {
		dest := int(rs.routers[c].Rand())
		rs.move(idx, c, holds[n], dest)
	}
	rs.visits += 1
	rs.metrics.observeVisit()
	return active, holds
}

// runCyclic visits nodes 1..N in turn until no particle in the system has a time
// before the horizon
func (rs *runState) runCyclic() {
	numNodes := rs.sd.NumNodes()
	active := make([]int, 0)
	holds := make([]float64, 0)

	currentNode := 1
	for {
		minTime, found := rs.minActiveTime()
		if !found || !(minTime < rs.horizon) {
			break
		}
		active, holds = rs.visit(currentNode, active, holds)
		currentNode = currentNode%numNodes + 1
	}
}

// Run simulates the scheme up to the horizon.  The scheme is validated first; an invalid
// scheme or horizon is the only source of error.  In ModeChronological a horizon that
// overflows the event clock gives ErrHorizonRange
func (eng *Engine) Run(sd *SchemeDesc, horizon float64) (*RunResult, error) {
	if math.IsNaN(horizon) || math.IsInf(horizon, 0) || horizon < 0.0 {
		return nil, fmt.Errorf("horizon %g must be finite and non-negative", horizon)
	}
	// the event clock counts int64 ticks, so the horizon must fit on it
	if eng.mode == ModeChronological && !(horizon*vrtime.FloatTicksPerSecond < float64(math.MaxInt64)) {
		return nil, fmt.Errorf("horizon %g with %d ticks per second: %w", horizon, vrtime.TicksPerSecond, ErrHorizonRange)
	}
	if err := sd.Validate(); err != nil {
		return nil, err
	}

	src := eng.src
	if src == nil {
		var err error
		src, err = NewSource(eng.rngKind, sd.Name, eng.seed)
		if err != nil {
			return nil, err
		}
	}

	logger := eng.logger.With("scheme", sd.Name, "mode", eng.mode.String())
	logger.Debug("run starting", "horizon", horizon, "nodes", sd.NumNodes())

	rs := createRunState(sd, horizon, src, eng.metrics)
	logger.Debug("arrivals generated", "particles", len(rs.particles))

	switch eng.mode {
	case ModeChronological:
		rs.runChronological()
	default:
		rs.runCyclic()
	}
	eng.metrics.observeRun()

	logger.Info("run complete",
		"horizon", horizon,
		"particles", len(rs.particles),
		"events", len(rs.history),
		"visits", rs.visits,
	)

	return &RunResult{
		Scheme:    sd,
		Horizon:   horizon,
		Mode:      eng.mode,
		Particles: rs.particles,
		History:   rs.history,
		Visits:    rs.visits,
	}, nil
}
