package entity

import "testing"

func TestDeriveIdempotent(t *testing.T) {
	s := NewStats(1)
	s.STR, s.AGI, s.VIT, s.CHA, s.SKL = 15, 12, 18, 9, 22

	Derive(&s)
	first := s

	Derive(&s)
	if s != first {
		t.Errorf("Derive is not idempotent: first=%+v second=%+v", first, s)
	}
}

func TestDeriveCritChanceCap(t *testing.T) {
	s := Stats{SKL: 200}
	Derive(&s)
	if s.CritChance != 0.45 {
		t.Errorf("crit_chance with SKL=200 = %v, want 0.45 (capped)", s.CritChance)
	}
}

func TestDeriveDefenseCapContribution(t *testing.T) {
	s := Stats{VIT: 100}
	Derive(&s)
	if s.Defense != 0.30 {
		t.Errorf("defense with VIT=100 = %v, want 0.30 (capped)", s.Defense)
	}
}

func TestXPForLevel(t *testing.T) {
	cases := map[int]float64{4: 120, 5: 167, 6: 220}
	for level, want := range cases {
		got := XPForLevel(level)
		if got != want {
			t.Errorf("XPForLevel(%d) = %v, want %v", level, got, want)
		}
	}
}

func TestGrantXPScenario6(t *testing.T) {
	s := NewStats(3)
	s.XP = 0
	s.XPToNext = XPForLevel(4)

	gained := GrantXP(&s, 200)

	if gained != 2 {
		t.Errorf("levels gained = %d, want 2", gained)
	}
	if s.Level != 5 {
		t.Errorf("level = %d, want 5", s.Level)
	}
	if s.XP != 33 {
		t.Errorf("remaining xp = %v, want 33", s.XP)
	}
	if s.AttributePoints != 2 {
		t.Errorf("attribute_points = %d, want 2", s.AttributePoints)
	}
	if s.HP != s.HPMax {
		t.Errorf("hp = %v, want full hp_max %v", s.HP, s.HPMax)
	}
}

func TestCurrentDifficultyCap(t *testing.T) {
	d := CurrentDifficulty(1000, 50)
	if d != 2.0 {
		t.Errorf("CurrentDifficulty at extreme inputs = %v, want 2.0 (capped)", d)
	}
}
