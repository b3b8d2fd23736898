package zhl16

import (
	"math"

	"github.com/the-emerald/capra/gas"
	"github.com/the-emerald/capra/segment"
	"github.com/the-emerald/capra/tissue"
	"github.com/the-emerald/capra/units"
)

// Engine is a ZHL-16 decompression model of a diver at one instant. It is
// small and cheap to copy; exploratory operations (ascent-ceiling probes,
// stop search, NDL search) should operate on a Copy so the original is left
// untouched, while accepted segments are applied directly to the model that
// will go on to produce the final plan.
type Engine struct {
	tissue         tissue.State
	variant        Variant
	depth          units.Depth
	firstDecoDepth *units.Depth
	gfLow, gfHigh  float64
}

// New builds an Engine starting from the given tissue state, at the surface,
// using the given ZHL-16 variant and gradient factor pair (integer
// percentages 1..100, gfLow <= gfHigh).
func New(start tissue.State, variant Variant, gfLow, gfHigh int) Engine {
	return Engine{
		tissue:  start,
		variant: variant,
		depth:   0,
		gfLow:   float64(gfLow) / 100.0,
		gfHigh:  float64(gfHigh) / 100.0,
	}
}

// Copy returns an independent copy of the engine, safe to mutate without
// affecting the receiver.
func (e Engine) Copy() Engine {
	cp := e
	if e.firstDecoDepth != nil {
		d := *e.firstDecoDepth
		cp.firstDecoDepth = &d
	}
	return cp
}

// Tissue returns the current tissue state.
func (e Engine) Tissue() tissue.State { return e.tissue }

// Depth returns the diver's current depth.
func (e Engine) Depth() units.Depth { return e.depth }

// FirstDecoDepth returns the latched reference depth for gradient-factor
// interpolation and whether it has been set yet.
func (e Engine) FirstDecoDepth() (units.Depth, bool) {
	if e.firstDecoDepth == nil {
		return 0, false
	}
	return *e.firstDecoDepth, true
}

func (e *Engine) setFirstDecoDepth(d units.Depth) {
	if e.firstDecoDepth == nil {
		e.firstDecoDepth = &d
	}
}

// Apply returns a new engine reflecting the effect of performing the given
// segment on the given gas in the given environment. A NoDeco segment is
// treated as a Bottom segment, for compatibility with planner output that
// applies NDL probes directly.
func (e Engine) Apply(seg segment.Segment, g gas.Gas, env units.Environment) Engine {
	out := e.Copy()

	switch seg.Type() {
	case segment.AscDesc:
		out.schreiner(seg, g, env)
	default:
		out.haldane(seg, g, env)
		if seg.Type() == segment.DecoStop {
			out.setFirstDecoDepth(seg.Start())
		}
	}
	out.depth = seg.End()
	return out
}

// schreiner loads every compartment using the ramp (Schreiner) equation for
// a depth-changing segment.
func (e *Engine) schreiner(seg segment.Segment, g gas.Gas, env units.Environment) {
	coefs := Coefficients(e.variant)
	t := seg.Duration().Minutes()
	rate := seg.AscentRate()
	if seg.End() > seg.Start() {
		rate = seg.DescentRate()
	}
	pAmbStart := units.CompensatedPressure(env.Pressure(seg.Start()))

	for i := 0; i < tissue.Compartments; i++ {
		rN2 := (float64(rate) / 10.0) * g.FN2()
		kN2 := math.Ln2 / coefs[i].N2HalfLife
		e.tissue.N2[i] = schreinerEquation(t, e.tissue.N2[i], units.Pressure(float64(pAmbStart)*g.FN2()), rN2, kN2)

		rHe := (float64(rate) / 10.0) * g.FHe()
		kHe := math.Ln2 / coefs[i].HeHalfLife
		e.tissue.He[i] = schreinerEquation(t, e.tissue.He[i], units.Pressure(float64(pAmbStart)*g.FHe()), rHe, kHe)
	}
}

// schreinerEquation computes the updated compartment pressure for a
// constant-rate depth change: t is the duration in minutes, po the initial
// compartment pressure, pio the initial inspired inert-gas pressure, r the
// rate of change of inspired pressure in bar/min and k the gas's half-time
// decay constant.
func schreinerEquation(t float64, po, pio units.Pressure, r, k float64) units.Pressure {
	return pio + units.Pressure(r*(t-1.0/k)) - (pio-po-units.Pressure(r/k))*units.Pressure(math.Exp(-k*t))
}

// haldane loads every compartment using the flat (Haldane) equation for a
// constant-depth segment.
func (e *Engine) haldane(seg segment.Segment, g gas.Gas, env units.Environment) {
	coefs := Coefficients(e.variant)
	t := seg.Duration().Minutes()
	pAmbEnd := units.CompensatedPressure(env.Pressure(seg.End()))

	for i := 0; i < tissue.Compartments; i++ {
		piN2 := units.Pressure(float64(pAmbEnd) * g.FN2())
		e.tissue.N2[i] = e.tissue.N2[i] + (piN2-e.tissue.N2[i])*units.Pressure(1.0-math.Pow(2.0, -t/coefs[i].N2HalfLife))

		piHe := units.Pressure(float64(pAmbEnd) * g.FHe())
		e.tissue.He[i] = e.tissue.He[i] + (piHe-e.tissue.He[i])*units.Pressure(1.0-math.Pow(2.0, -t/coefs[i].HeHalfLife))
	}
}

// gfAt returns the gradient factor to use for a ceiling computation at the
// engine's current depth, honoring an explicit override when supplied.
func (e Engine) gfAt(override *float64) float64 {
	if override != nil {
		return *override
	}
	if e.firstDecoDepth == nil {
		return e.gfLow
	}
	d := float64(e.depth)
	if d <= 0 {
		return e.gfHigh
	}
	ref := float64(*e.firstDecoDepth)
	return e.gfHigh + ((e.gfHigh-e.gfLow)/(0.0-ref))*d
}

// AscentCeiling returns the gradient-factor-adjusted ascent ceiling: the
// shallowest ambient pressure at which the diver may currently hold.
func (e Engine) AscentCeiling(gfOverride *float64) units.Pressure {
	gf := e.gfAt(gfOverride)
	coefs := Coefficients(e.variant)

	ceiling := units.Pressure(math.Inf(-1))
	for i := 0; i < tissue.Compartments; i++ {
		pN2, pHe := e.tissue.N2[i], e.tissue.He[i]
		total := pN2 + pHe
		a := (units.Pressure(coefs[i].N2A)*pN2 + units.Pressure(coefs[i].HeA)*pHe) / total
		b := (units.Pressure(coefs[i].N2B)*pN2 + units.Pressure(coefs[i].HeB)*pHe) / total

		c := (total - a*units.Pressure(gf)) / units.Pressure(gf/float64(b)+1.0-gf)
		if c > ceiling {
			ceiling = c
		}
	}
	return ceiling
}

// maxStopSearchMinutes bounds the next-stop fixed-point iteration so a
// pathological input cannot loop forever.
const maxStopSearchMinutes = 1440

// NextStop searches for the shallowest 3-metre stop depth the diver may hold
// at given their current tissue loading, and the whole-minute duration
// required there before the next shallower stop becomes legal.
func (e Engine) NextStop(ascentRate, descentRate units.Rate, g gas.Gas, env units.Environment) segment.Segment {
	ceiling := e.AscentCeiling(nil)
	stopDepth := units.Depth(3 * math.Ceil(env.DepthF(ceiling)/3.0))

	threshold := env.Pressure(stopDepth) - (env.Pressure(3) - 1.0)

	stopTime := 1
	for {
		virtual := e.Copy()
		if virtual.depth != stopDepth {
			asc, err := segment.New(segment.AscDesc, virtual.depth, stopDepth, units.TimeTaken(ascentRate, virtual.depth, stopDepth), ascentRate, descentRate)
			if err == nil {
				virtual = virtual.Apply(asc, g, env)
			}
		}

		stop, err := segment.New(segment.DecoStop, stopDepth, stopDepth, units.Duration(stopTime*60), ascentRate, descentRate)
		if err != nil {
			panic(err)
		}
		virtual = virtual.Apply(stop, g, env)

		if virtual.AscentCeiling(nil) < threshold {
			return stop
		}
		stopTime++
		if stopTime > maxStopSearchMinutes {
			return stop
		}
	}
}

// maxNDLMinutes is the cap on the no-decompression-limit search; beyond it
// the limit is reported as unlimited.
const maxNDLMinutes = 999

// UnlimitedNDL is the sentinel duration used when the no-decompression
// limit search reaches its cap without the ceiling ever requiring a stop.
const UnlimitedNDL units.Duration = 1<<63 - 1

// NDLStatus classifies the result of an NDL search.
type NDLStatus int

const (
	// NDLFinite means Duration holds a valid no-decompression limit.
	NDLFinite NDLStatus = iota
	// NDLUnlimited means the search reached maxNDLMinutes without the
	// ceiling ever requiring a stop; Duration is meaningless.
	NDLUnlimited
	// NDLMandatory means decompression is already required at zero
	// minutes; there is no no-decompression limit to report.
	NDLMandatory
)

// NDL searches for the no-decompression limit at the engine's current depth
// on the given gas: the longest duration after which direct ascent without
// stops remains permissible.
func (e Engine) NDL(g gas.Gas, env units.Environment) (units.Duration, NDLStatus) {
	gfHigh := e.gfHigh
	ndl := 0
	for {
		virtual := e.Copy()
		probe, err := segment.New(segment.NoDeco, virtual.depth, virtual.depth, units.Duration(ndl*60), 0, 0)
		if err != nil {
			return 0, NDLMandatory
		}
		virtual = virtual.Apply(probe, g, env)

		if virtual.AscentCeiling(&gfHigh) >= 1.0 {
			if ndl == 0 {
				return 0, NDLMandatory
			}
			return units.Duration((ndl - 1) * 60), NDLFinite
		}
		ndl++
		if ndl > maxNDLMinutes {
			return 0, NDLUnlimited
		}
	}
}

// Surface drives the engine from its current state to the surface,
// mutating the receiver and returning the ordered segments performed.
func (e *Engine) Surface(ascentRate, descentRate units.Rate, g gas.Gas, env units.Environment) []segment.Segment {
	stops, final := surface(*e, ascentRate, descentRate, g, env)
	*e = final
	return stops
}

// GetStops performs the identical computation as Surface but on a copy,
// leaving the receiver unchanged. It is the planner's primary probe.
func (e Engine) GetStops(ascentRate, descentRate units.Rate, g gas.Gas, env units.Environment) []segment.Segment {
	stops, _ := surface(e, ascentRate, descentRate, g, env)
	return stops
}

func surface(e Engine, ascentRate, descentRate units.Rate, g gas.Gas, env units.Environment) ([]segment.Segment, Engine) {
	gfHigh := e.gfHigh
	if e.AscentCeiling(&gfHigh) < 1.0 {
		ndl, status := e.NDL(g, env)
		if status == NDLMandatory {
			panic("zhl16: ascent ceiling is below 1 bar but no NDL was found")
		}
		if status == NDLUnlimited {
			ndl = UnlimitedNDL
		}
		noDeco, err := segment.New(segment.NoDeco, e.depth, e.depth, ndl, 0, 0)
		if err != nil {
			return nil, e
		}
		return []segment.Segment{noDeco}, e
	}

	var stops []segment.Segment
	lastDepth := e.depth
	for e.AscentCeiling(nil) > 1.0 {
		stop := e.NextStop(ascentRate, descentRate, g, env)

		if lastDepth != stop.End() {
			asc, err := segment.New(segment.AscDesc, lastDepth, stop.End(), units.TimeTaken(ascentRate, lastDepth, stop.End()), ascentRate, descentRate)
			if err == nil {
				e = e.Apply(asc, g, env)
				stops = append(stops, asc)
			}
		}

		e = e.Apply(stop, g, env)
		lastDepth = stop.End()
		stops = append(stops, stop)
	}

	if lastDepth != 0 {
		asc, err := segment.New(segment.AscDesc, lastDepth, 0, units.TimeTaken(ascentRate, lastDepth, 0), ascentRate, descentRate)
		if err == nil {
			e = e.Apply(asc, g, env)
			stops = append(stops, asc)
		}
	}
	return stops, e
}
