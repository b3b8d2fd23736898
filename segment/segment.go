// Package segment models the atomic unit of a dive plan: a single span of
// time spent at constant depth, changing depth, or decompressing.
package segment

import (
	"errors"
	"fmt"

	"github.com/the-emerald/capra/units"
)

// Type distinguishes what a Segment represents.
type Type int

const (
	// NoDeco marks the remaining no-decompression time at the current
	// depth: its duration is the no-decompression limit, not time spent.
	NoDeco Type = iota
	// Bottom marks a segment at constant depth that is not otherwise
	// distinguished (i.e. not a deco stop).
	Bottom
	// DecoStop marks a mandatory decompression stop.
	DecoStop
	// AscDesc marks a change in depth.
	AscDesc
)

func (t Type) String() string {
	switch t {
	case NoDeco:
		return "NoDeco"
	case Bottom:
		return "Bottom"
	case DecoStop:
		return "DecoStop"
	case AscDesc:
		return "AscDesc"
	default:
		return "Unknown"
	}
}

// ErrInconsistentDepth is returned by New when the segment type and the
// start/end depths disagree about whether depth changes during the segment.
var ErrInconsistentDepth = errors.New("segment: type and start/end depths are inconsistent")

// Segment is the atomic unit of a dive. A dive plan is a list of Segments.
type Segment struct {
	typ                     Type
	start, end              units.Depth
	duration                units.Duration
	ascentRate, descentRate units.Rate
}

// New builds a Segment, validating that AscDesc segments have differing
// start and end depths and that every other segment type does not.
func New(typ Type, start, end units.Depth, duration units.Duration, ascentRate, descentRate units.Rate) (Segment, error) {
	if typ == AscDesc && start == end {
		return Segment{}, fmt.Errorf("segment: AscDesc from %d to %d: %w", start, end, ErrInconsistentDepth)
	}
	if typ != AscDesc && start != end {
		return Segment{}, fmt.Errorf("segment: %s from %d to %d: %w", typ, start, end, ErrInconsistentDepth)
	}
	return Segment{
		typ:         typ,
		start:       start,
		end:         end,
		duration:    duration,
		ascentRate:  ascentRate,
		descentRate: descentRate,
	}, nil
}

// Type returns the segment's type.
func (s Segment) Type() Type { return s.typ }

// Start returns the depth at the beginning of the segment.
func (s Segment) Start() units.Depth { return s.start }

// End returns the depth at the end of the segment.
func (s Segment) End() units.Depth { return s.end }

// Duration returns the duration of the segment.
func (s Segment) Duration() units.Duration { return s.duration }

// AscentRate returns the ascent rate in force during the segment.
func (s Segment) AscentRate() units.Rate { return s.ascentRate }

// DescentRate returns the descent rate in force during the segment.
func (s Segment) DescentRate() units.Rate { return s.descentRate }

// GasConsumed returns the volume of gas (at the surface, in the same units
// as sac) a diver breathing at the given surface-air-consumption rate would
// use over the segment. AscDesc segments use the average of the start and
// end pressures; every other segment type is at constant depth, so the end
// pressure is used directly.
func (s Segment) GasConsumed(sac float64, env units.Environment) float64 {
	var pressure units.Pressure
	if s.typ == AscDesc {
		pressure = env.PressureF(float64(s.start+s.end) / 2.0)
	} else {
		pressure = env.Pressure(s.end)
	}
	return float64(pressure) * s.duration.Minutes() * sac
}
