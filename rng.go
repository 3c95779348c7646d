package multibox

// rng.go holds the random sources a run can draw from.  The samplers of the
// distuv package consume any golang.org/x/exp/rand Source; two are offered:
// a seeded PCG generator, and an adapter that draws from an rngstream stream

import (
	"fmt"
	"github.com/iti/rngstream"
	"golang.org/x/exp/rand"
	"strings"
)

// names of the random source kinds
const (
	RNGPCG    = "pcg"
	RNGStream = "stream"
)

// streamSource presents an rngstream.RngStream as a rand.Source.  Each
// Uint64 consumes two uniform draws of the stream, each contributing 32 bits
type streamSource struct {
	name    string
	rngstrm *rngstream.RngStream
}

// createStreamSource is a constructor.  Streams are handed out by rngstream in
// creation order, so sources created in the same order across program executions
// deliver the same draws
func createStreamSource(name string) *streamSource {
	ss := new(streamSource)
	ss.name = name
	ss.rngstrm = rngstream.New(name)
	return ss
}

func (ss *streamSource) Uint64() uint64 {
	hi := uint64(ss.rngstrm.RandU01() * (1 << 32))
	lo := uint64(ss.rngstrm.RandU01() * (1 << 32))
	return hi<<32 | lo
}

// Seed moves the source onto a fresh stream whose name carries the seed
func (ss *streamSource) Seed(seed uint64) {
	ss.rngstrm = rngstream.New(fmt.Sprintf("%s/%d", ss.name, seed))
}

// NewSource returns a random source of the named kind.  A "pcg" source is seeded
// with seed and reproduces its draws exactly; a "stream" source draws from an rngstream
// stream identified by name and is moved by the seed only when seed is non-zero
func NewSource(kind string, name string, seed uint64) (rand.Source, error) {
	switch strings.ToLower(kind) {
	case RNGPCG, "":
		return rand.NewSource(seed), nil
	case RNGStream, "rngstream":
		ss := createStreamSource(name)
		if seed != 0 {
			ss.Seed(seed)
		}
		return ss, nil
	}
	return nil, fmt.Errorf("random source %q: %w", kind, ErrUnknownMode)
}
