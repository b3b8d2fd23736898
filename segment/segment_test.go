package segment

import (
	"errors"
	"testing"

	"github.com/the-emerald/capra/units"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name       string
		typ        Type
		start, end units.Depth
		wantErr    bool
	}{
		{"AscDesc with depth change", AscDesc, 0, 30, false},
		{"AscDesc with no depth change", AscDesc, 30, 30, true},
		{"Bottom at constant depth", Bottom, 18, 18, false},
		{"Bottom with depth change", Bottom, 18, 21, true},
		{"DecoStop at constant depth", DecoStop, 6, 6, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.typ, tt.start, tt.end, 60, -10, 20)
			if tt.wantErr {
				if !errors.Is(err, ErrInconsistentDepth) {
					t.Errorf("New(%v, %d, %d) err = %v, want ErrInconsistentDepth", tt.typ, tt.start, tt.end, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("New(%v, %d, %d) = %v, want success", tt.typ, tt.start, tt.end, err)
			}
		})
	}
}

func TestGasConsumed(t *testing.T) {
	env := units.StandardEnvironment(units.SaltWater)

	bottom, err := New(Bottom, 18, 18, 600, -10, 20)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	// 10 minutes at 18m, pressure ~= 1 + 18/9.769 ~= 2.8425 bar, sac 20 L/min.
	want := float64(env.Pressure(18)) * 10.0 * 20.0
	if got := bottom.GasConsumed(20, env); !equalFloat(got, want) {
		t.Errorf("GasConsumed(bottom) = %v, want %v", got, want)
	}

	asc, err := New(AscDesc, 18, 0, 108, -10, 20)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	wantAsc := float64(env.PressureF(9)) * (108.0 / 60.0) * 20.0
	if got := asc.GasConsumed(20, env); !equalFloat(got, wantAsc) {
		t.Errorf("GasConsumed(AscDesc) = %v, want %v", got, wantAsc)
	}
}

func equalFloat(a, b float64) bool {
	const eps = 1e-9
	d := a - b
	if d < 0 {
		d = -d
	}
	return d <= eps
}
