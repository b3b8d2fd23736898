package tissue

import (
	"testing"

	"github.com/the-emerald/capra/units"
)

func TestSurfaced(t *testing.T) {
	env := units.StandardEnvironment(units.SaltWater)
	s := Surfaced(env)

	want := units.CompensatedPressure(env.Atmospheric) * 0.79
	for i := 0; i < Compartments; i++ {
		if s.N2[i] != want {
			t.Errorf("N2[%d] = %v, want %v", i, s.N2[i], want)
		}
		if s.He[i] != 0 {
			t.Errorf("He[%d] = %v, want 0", i, s.He[i])
		}
	}
}
