// Package planner drives the ZHL-16 decompression engine across a diver's
// intended bottom segments, selects decompression gases and produces a
// complete, surfaced dive schedule together with per-gas consumption.
package planner

import (
	"errors"
	"fmt"

	"github.com/the-emerald/capra/gas"
	"github.com/the-emerald/capra/segment"
	"github.com/the-emerald/capra/tissue"
	"github.com/the-emerald/capra/units"
	"github.com/the-emerald/capra/zhl16"
)

// ErrNoSegments is returned by Execute when the bottom-segment list is
// empty; there is nothing to plan.
var ErrNoSegments = errors.New("planner: no bottom segments supplied")

// ErrNotImplemented is returned by PlanBackwards. Backwards planning
// ("given these tanks, how far can we go") has no defined semantics in any
// revision of the system this was modeled on; the entrypoint exists so
// callers can wire against it ahead of a specification.
var ErrNotImplemented = errors.New("planner: backwards planning is not implemented")

// BottomSegment pairs a dive segment with the gas the diver breathes during
// it.
type BottomSegment struct {
	Segment segment.Segment
	Gas     gas.Gas
}

// DecoGas is a candidate decompression gas and an optional explicit maximum
// operating depth. When MOD is nil, the gas's computed MOD at ppO2_max_deco
// is used instead.
type DecoGas struct {
	Gas gas.Gas
	MOD *units.Depth
}

// Params carries the environment and rates shared by every leg of a plan.
type Params struct {
	Env                     units.Environment
	AscentRate, DescentRate units.Rate
	SACBottom, SACDeco      float64
}

// Leg is one emitted (segment, gas) pair in a finished schedule.
type Leg struct {
	Segment segment.Segment
	Gas     gas.Gas
}

// Result is the outcome of executing a Plan.
type Result struct {
	EndTissue tissue.State
	Segments  []Leg
	GasUsed   map[gas.Gas]float64
}

// Plan drives an Engine across a bottom-segment list and the gaps between,
// before and after it, selecting decompression gases as it goes.
type Plan struct {
	engine    zhl16.Engine
	bottom    []BottomSegment
	decoGases []DecoGas
	params    Params
}

// New builds a Plan. The engine is copied; the caller's instance is left
// untouched.
func New(engine zhl16.Engine, bottom []BottomSegment, decoGases []DecoGas, params Params) *Plan {
	return &Plan{
		engine:    engine.Copy(),
		bottom:    bottom,
		decoGases: decoGases,
		params:    params,
	}
}

// Execute runs the plan to completion: it walks the bottom segments,
// surfaces at the end, and returns the full schedule and gas accounting.
func (p *Plan) Execute() (Result, error) {
	if len(p.bottom) == 0 {
		return Result{}, ErrNoSegments
	}

	e := p.engine.Copy()
	var legs []Leg

	first := p.bottom[0]
	if e.Depth() != first.Segment.Start() {
		asc, err := transitionTo(e.Depth(), first.Segment.Start(), p.params)
		if err != nil {
			return Result{}, err
		}
		e = e.Apply(asc, first.Gas, p.params.Env)
		legs = append(legs, Leg{asc, first.Gas})
	}

	for i := 0; i < len(p.bottom)-1; i++ {
		start := p.bottom[i]
		end := p.bottom[i+1]

		e = e.Apply(start.Segment, start.Gas, p.params.Env)
		legs = append(legs, Leg{start.Segment, start.Gas})

		between, err := p.levelToLevel(&e, start, &end)
		if err != nil {
			return Result{}, err
		}
		legs = append(legs, between...)
	}

	last := p.bottom[len(p.bottom)-1]
	e = e.Apply(last.Segment, last.Gas, p.params.Env)
	legs = append(legs, Leg{last.Segment, last.Gas})

	toSurface, err := p.levelToLevel(&e, last, nil)
	if err != nil {
		return Result{}, err
	}
	legs = append(legs, toSurface...)

	return Result{
		EndTissue: e.Tissue(),
		Segments:  legs,
		GasUsed:   accumulateGas(legs, p.params),
	}, nil
}

// transitionTo builds the AscDesc segment needed to move between two
// depths, choosing the ascent or descent rate by the direction of travel.
func transitionTo(from, to units.Depth, params Params) (segment.Segment, error) {
	rate := params.DescentRate
	if to < from {
		rate = params.AscentRate
	}
	return segment.New(segment.AscDesc, from, to, units.TimeTaken(rate, from, to), params.AscentRate, params.DescentRate)
}

// levelToLevel produces the decompression and depth-change segments between
// the end of start and the start of end (or the surface if end is nil),
// mutating e as it commits segments.
func (p *Plan) levelToLevel(e *zhl16.Engine, start BottomSegment, end *BottomSegment) ([]Leg, error) {
	if end != nil {
		switch {
		case start.Segment.End() < end.Segment.Start():
			asc, err := transitionTo(start.Segment.End(), end.Segment.Start(), p.params)
			if err != nil {
				return nil, err
			}
			*e = e.Apply(asc, start.Gas, p.params.Env)
			return []Leg{{asc, start.Gas}}, nil
		case start.Segment.End() == end.Segment.Start():
			return nil, nil
		}
	}

	target := units.Depth(0)
	if end != nil {
		target = end.Segment.Start()
	}

	probe := e.Copy()
	candidate := probe.GetStops(p.params.AscentRate, p.params.DescentRate, start.Gas, p.params.Env)

	var filtered []segment.Segment
	for _, s := range candidate {
		if s.Start() > target {
			filtered = append(filtered, s)
		}
	}

	pool := p.decoGases
	if end != nil {
		pool = []DecoGas{{Gas: start.Gas}, {Gas: end.Gas}}
	}

	return p.replaySchedule(e, filtered, start.Gas, pool, end)
}

// replaySchedule walks a candidate schedule, switching to a better
// decompression gas at the first stop where one becomes eligible, and
// recursing to re-derive the schedule from the post-switch engine state.
func (p *Plan) replaySchedule(e *zhl16.Engine, stops []segment.Segment, currentGas gas.Gas, pool []DecoGas, end *BottomSegment) ([]Leg, error) {
	switchIdx, switchGas, switched := findGasSwitch(stops, currentGas, pool, p.params.Env)

	if switched && hasDecoStop(stops) {
		var legs []Leg
		for _, s := range stops[:switchIdx] {
			*e = e.Apply(s, currentGas, p.params.Env)
			legs = append(legs, Leg{s, currentGas})
		}

		switchDepth := stops[switchIdx].Start()
		duration := recomputeStopDuration(*e, switchDepth, switchGas, p.params)
		newStop, err := segment.New(segment.DecoStop, switchDepth, switchDepth, duration, p.params.AscentRate, p.params.DescentRate)
		if err != nil {
			return nil, err
		}
		*e = e.Apply(newStop, switchGas, p.params.Env)
		legs = append(legs, Leg{newStop, switchGas})

		rest, err := p.levelToLevel(e, BottomSegment{Segment: newStop, Gas: switchGas}, end)
		if err != nil {
			return nil, err
		}
		return append(legs, rest...), nil
	}

	var legs []Leg
	for _, s := range stops {
		*e = e.Apply(s, currentGas, p.params.Env)
		legs = append(legs, Leg{s, currentGas})
	}
	return legs, nil
}

// recomputeStopDuration re-derives the schedule from e using the candidate
// gas and returns the duration of the DecoStop found at depth, or a minimum
// one-minute stop if the new schedule has none there.
func recomputeStopDuration(e zhl16.Engine, depth units.Depth, g gas.Gas, params Params) units.Duration {
	stops := e.GetStops(params.AscentRate, params.DescentRate, g, params.Env)
	for _, s := range stops {
		if s.Type() == segment.DecoStop && s.Start() == depth {
			return s.Duration()
		}
	}
	return 60
}

// hasDecoStop reports whether any segment in stops is a DecoStop.
func hasDecoStop(stops []segment.Segment) bool {
	for _, s := range stops {
		if s.Type() == segment.DecoStop {
			return true
		}
	}
	return false
}

// findGasSwitch walks the DecoStop segments in stops looking for the first
// one where a gas other than current is the best eligible choice.
func findGasSwitch(stops []segment.Segment, current gas.Gas, pool []DecoGas, env units.Environment) (int, gas.Gas, bool) {
	for i, s := range stops {
		if s.Type() != segment.DecoStop {
			continue
		}
		best, ok := bestGasAt(s.Start(), pool, env)
		if !ok {
			continue
		}
		if best != current {
			return i, best, true
		}
	}
	return 0, gas.Gas{}, false
}

// bestGasAt returns the eligible gas in pool with the highest ppO2 at
// depth, the convention used to pick the "richest" legal gas at a stop.
func bestGasAt(depth units.Depth, pool []DecoGas, env units.Environment) (gas.Gas, bool) {
	var best gas.Gas
	var bestPPO2 units.Pressure
	found := false

	for _, dg := range pool {
		if !eligible(dg, depth, env) {
			continue
		}
		ppo2 := dg.Gas.PPO2(depth, env)
		if !found || ppo2 > bestPPO2 {
			best, bestPPO2, found = dg.Gas, ppo2, true
		}
	}
	return best, found
}

// eligible reports whether a decompression gas may legally be breathed at
// depth: within its MOD, within the deco ppO2 window, and not narcotic
// beyond the stop depth itself.
func eligible(dg DecoGas, depth units.Depth, env units.Environment) bool {
	if dg.MOD != nil {
		if *dg.MOD < depth {
			return false
		}
	} else if dg.Gas.MaxOperatingDepth(gas.MaxPPO2Deco, env) < depth {
		return false
	}

	if !dg.Gas.InPPO2Range(depth, env, gas.MinPPO2, gas.MaxPPO2Deco) {
		return false
	}

	return dg.Gas.EquivalentNarcoticDepth(depth) <= depth
}

// accumulateGas sums the gas consumed by every emitted leg, keyed by gas.
// NoDeco segments represent remaining no-stop time rather than a segment
// actually performed and are skipped; DecoStop legs use the decompression
// SAC rate, everything else uses the bottom SAC rate.
func accumulateGas(legs []Leg, params Params) map[gas.Gas]float64 {
	used := make(map[gas.Gas]float64)
	for _, leg := range legs {
		if leg.Segment.Type() == segment.NoDeco {
			continue
		}
		sac := params.SACBottom
		if leg.Segment.Type() == segment.DecoStop {
			sac = params.SACDeco
		}
		used[leg.Gas] += leg.Segment.GasConsumed(sac, params.Env)
	}
	return used
}

// Tank is a filled dive cylinder: a gas mix with a known physical volume and
// manufacturer service pressure, the quantity a backwards plan would need to
// know to answer "given these tanks, how far can we go".
type Tank struct {
	Gas             gas.Gas
	RawVolume       float64
	ServicePressure float64
}

// PlanBackwards is declared for API completeness but not implemented: no
// revision of the system this was modeled on defines what "given these
// tanks, how far can we go" means precisely enough to build against.
func PlanBackwards(tanks []Tank) (Result, error) {
	return Result{}, fmt.Errorf("planner: backwards planning: %w", ErrNotImplemented)
}
