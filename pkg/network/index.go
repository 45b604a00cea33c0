package network

import (
	"errors"
	"fmt"
	"math/bits"

	"github.com/matzehuels/flowplan/pkg/valve"
)

// MaxValves is the largest number of openable valves a visited mask can hold.
const MaxValves = 64

// ErrTooManyValves is returned when the graph has more openable valves than
// fit in a uint64 mask.
var ErrTooManyValves = errors.New("too many valves with nonzero rate")

// Index assigns every openable valve a unique bit position in [0, N).
type Index map[string]uint

// AssignIndex gives bit i to the i-th nonzero-rate valve in insertion order.
// The start valve never gets a bit, even if its rate is nonzero.
func AssignIndex(g *valve.Graph, start string) (Index, error) {
	ids := g.Openable(start)
	if len(ids) > MaxValves {
		return nil, fmt.Errorf("%w: %d > %d", ErrTooManyValves, len(ids), MaxValves)
	}
	idx := make(Index, len(ids))
	for i, id := range ids {
		idx[id] = uint(i)
	}
	return idx, nil
}

// Len returns N, the number of assigned bits.
func (x Index) Len() int { return len(x) }

// Bit returns the single-bit mask of id, or 0 if id has no bit.
func (x Index) Bit(id string) uint64 {
	i, ok := x[id]
	if !ok {
		return 0
	}
	return 1 << i
}

// Full returns the mask with all N bits set.
func (x Index) Full() uint64 {
	if len(x) == 0 {
		return 0
	}
	return ^uint64(0) >> (MaxValves - len(x))
}

// IDs returns valve IDs ordered by bit position.
func (x Index) IDs() []string {
	out := make([]string, len(x))
	for id, i := range x {
		out[i] = id
	}
	return out
}

// Names returns the IDs of the valves whose bits are set in mask, in bit order.
func (x Index) Names(mask uint64) []string {
	ids := x.IDs()
	out := make([]string, 0, bits.OnesCount64(mask))
	for mask != 0 {
		i := bits.TrailingZeros64(mask)
		if i < len(ids) {
			out = append(out, ids[i])
		}
		mask &= mask - 1
	}
	return out
}
