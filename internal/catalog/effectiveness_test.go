package catalog

import "testing"

func TestEffectivenessTableExact(t *testing.T) {
	want := map[DamageType]map[Material]float64{
		Slashing:    {Leather: 1.15, Bronze: 0.97, Chainmail: 0.95, Plate: 0.90},
		Piercing:    {Leather: 1.00, Bronze: 1.05, Chainmail: 1.10, Plate: 0.95},
		Bludgeoning: {Leather: 0.90, Bronze: 1.08, Chainmail: 1.05, Plate: 1.12},
	}
	for dt, row := range want {
		for mat, expect := range row {
			got := Effectiveness(dt, mat)
			if got != expect {
				t.Errorf("Effectiveness(%s,%s) = %v, want %v", dt, mat, got, expect)
			}
		}
	}
}

func TestEffectivenessUnknownIsNeutral(t *testing.T) {
	if got := Effectiveness("unknown", "unknown"); got != 1.0 {
		t.Errorf("Effectiveness for unknown pair = %v, want 1.0", got)
	}
}
