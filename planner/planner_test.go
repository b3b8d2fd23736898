package planner

import (
	"testing"

	"github.com/the-emerald/capra/gas"
	"github.com/the-emerald/capra/segment"
	"github.com/the-emerald/capra/tissue"
	"github.com/the-emerald/capra/units"
	"github.com/the-emerald/capra/zhl16"
)

func testParams() Params {
	env := units.StandardEnvironment(units.SaltWater)
	return Params{
		Env:         env,
		AscentRate:  -10,
		DescentRate: 20,
		SACBottom:   20.0,
		SACDeco:     15.0,
	}
}

func freshEngine(gfLow, gfHigh int) zhl16.Engine {
	env := units.StandardEnvironment(units.SaltWater)
	return zhl16.New(tissue.Surfaced(env), zhl16.ZHL16B, gfLow, gfHigh)
}

func TestNoDecoDivePlan(t *testing.T) {
	params := testParams()
	e := freshEngine(100, 100)

	bottom, err := segment.New(segment.Bottom, 18, 18, 20*60, -10, 20)
	if err != nil {
		t.Fatalf("segment.New: %v", err)
	}

	plan := New(e, []BottomSegment{{Segment: bottom, Gas: gas.Air()}}, nil, params)
	result, err := plan.Execute()
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if len(result.Segments) == 0 {
		t.Fatal("expected at least the descent and bottom segments")
	}
	last := result.Segments[len(result.Segments)-1]
	if last.Segment.Type() != segment.NoDeco {
		t.Errorf("last segment type = %v, want NoDeco for a no-stop dive", last.Segment.Type())
	}

	for _, leg := range result.Segments {
		if leg.Segment.Type() == segment.DecoStop {
			t.Errorf("unexpected DecoStop in no-deco plan: %+v", leg)
		}
	}
}

func TestTrimixPlanSurfacesAtZero(t *testing.T) {
	params := testParams()
	e := freshEngine(50, 70)

	trimix, err := gas.New(21, 35, 44)
	if err != nil {
		t.Fatalf("gas.New: %v", err)
	}
	bottom, err := segment.New(segment.Bottom, 45, 45, 60*60, -10, 20)
	if err != nil {
		t.Fatalf("segment.New: %v", err)
	}

	decoGas, err := gas.New(50, 50, 0)
	if err != nil {
		t.Fatalf("gas.New: %v", err)
	}

	plan := New(e, []BottomSegment{{Segment: bottom, Gas: trimix}}, []DecoGas{{Gas: decoGas}}, params)
	result, err := plan.Execute()
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if len(result.Segments) == 0 {
		t.Fatal("expected a non-empty schedule")
	}
	last := result.Segments[len(result.Segments)-1]
	if last.Segment.End() != 0 {
		t.Errorf("final segment ends at %d, want 0", last.Segment.End())
	}

	var sawDecoStop bool
	for _, leg := range result.Segments {
		if leg.Segment.Type() == segment.DecoStop {
			sawDecoStop = true
			if leg.Segment.Start() <= 0 || leg.Segment.Start()%3 != 0 {
				t.Errorf("DecoStop at non-3m-multiple depth %d", leg.Segment.Start())
			}
		}
	}
	if !sawDecoStop {
		t.Error("expected at least one DecoStop in a 45m/60min trimix dive")
	}

	totalConsumed := 0.0
	for _, v := range result.GasUsed {
		totalConsumed += v
	}
	if totalConsumed <= 0 {
		t.Error("expected nonzero total gas consumption")
	}
}

// Scenario 6: on an aggressive air dive, Nitrox 50 (implicit MOD 21m at
// ppO2 1.6) must be selected over air at a 21m stop, and the recomputed
// stop time under Nitrox 50 must be no longer than the stop time air would
// have required at the same depth and tissue state.
func TestGasSwitchAt21m(t *testing.T) {
	params := testParams()

	nitrox50, err := gas.New(50, 0, 50)
	if err != nil {
		t.Fatalf("gas.New: %v", err)
	}

	// The candidate schedule an aggressive 45m air dive would surface as,
	// deep-to-shallow: a DecoStop at 21m among others.
	stop21, err := segment.New(segment.DecoStop, 21, 21, 5*60, -10, 20)
	if err != nil {
		t.Fatalf("segment.New: %v", err)
	}
	stop18, err := segment.New(segment.DecoStop, 18, 18, 3*60, -10, 20)
	if err != nil {
		t.Fatalf("segment.New: %v", err)
	}
	stops := []segment.Segment{stop21, stop18}
	pool := []DecoGas{{Gas: gas.Air()}, {Gas: nitrox50}}

	idx, switchGas, switched := findGasSwitch(stops, gas.Air(), pool, params.Env)
	if !switched {
		t.Fatal("expected a gas switch away from air at the 21m stop")
	}
	if idx != 0 {
		t.Errorf("switch index = %d, want 0 (the 21m stop)", idx)
	}
	if switchGas != nitrox50 {
		t.Errorf("switch gas = %v, want Nitrox 50", switchGas)
	}

	e := freshEngine(30, 85)
	bottom, err := segment.New(segment.Bottom, 45, 45, 30*60, -10, 20)
	if err != nil {
		t.Fatalf("segment.New: %v", err)
	}
	e = e.Apply(bottom, gas.Air(), params.Env)
	asc, err := segment.New(segment.AscDesc, 45, 21, units.TimeTaken(params.AscentRate, 45, 21), params.AscentRate, params.DescentRate)
	if err != nil {
		t.Fatalf("segment.New: %v", err)
	}
	e = e.Apply(asc, gas.Air(), params.Env)

	airStopTime := recomputeStopDuration(e, 21, gas.Air(), params)
	nitroxStopTime := recomputeStopDuration(e, 21, nitrox50, params)
	if nitroxStopTime > airStopTime {
		t.Errorf("Nitrox 50 stop time %v > air stop time %v at 21m", nitroxStopTime, airStopTime)
	}
}

func TestGasAccountingSkipsNoDeco(t *testing.T) {
	params := testParams()

	bottom, err := segment.New(segment.Bottom, 18, 18, 20*60, -10, 20)
	if err != nil {
		t.Fatalf("segment.New: %v", err)
	}
	noDeco, err := segment.New(segment.NoDeco, 18, 18, 999*60, 0, 0)
	if err != nil {
		t.Fatalf("segment.New: %v", err)
	}

	legs := []Leg{
		{Segment: bottom, Gas: gas.Air()},
		{Segment: noDeco, Gas: gas.Air()},
	}
	used := accumulateGas(legs, params)

	want := bottom.GasConsumed(params.SACBottom, params.Env)
	if got := used[gas.Air()]; !closeEnough(got, want) {
		t.Errorf("gas used = %v, want %v (NoDeco segment should be skipped)", got, want)
	}
}

func TestPlanBackwardsNotImplemented(t *testing.T) {
	_, err := PlanBackwards([]Tank{{Gas: gas.Air(), RawVolume: 12.0, ServicePressure: 232.0}})
	if err == nil {
		t.Fatal("PlanBackwards succeeded, want ErrNotImplemented")
	}
}

func closeEnough(a, b float64) bool {
	const eps = 1e-6
	d := a - b
	if d < 0 {
		d = -d
	}
	return d <= eps
}
