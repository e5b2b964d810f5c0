package game

import "testing"

func TestNewMenuFillsThreeDistinctSlots(t *testing.T) {
	for seed := uint64(1); seed <= 500; seed++ {
		m := NewMenu(NewRand(seed))
		if m.Size() != MenuSlots {
			t.Fatalf("Size() = %d", m.Size())
		}
		filled := 0
		for _, e := range m.Slots() {
			if e == EffectNone {
				continue
			}
			if !e.Valid() {
				t.Fatalf("seed %d: invalid effect %d", seed, e)
			}
			filled++
		}
		if filled != FilledSlots {
			t.Fatalf("seed %d: %d filled slots, want %d", seed, filled, FilledSlots)
		}
	}
}

func TestNewMenuCoversEveryEffectAndSlot(t *testing.T) {
	effects := map[Effect]bool{}
	slots := map[int]bool{}
	for seed := uint64(1); seed <= 500; seed++ {
		for i, e := range NewMenu(NewRand(seed)).Slots() {
			if e != EffectNone {
				effects[e] = true
				slots[i] = true
			}
		}
	}
	if len(effects) != int(effectCount)-1 {
		t.Errorf("effects drawn = %v", effects)
	}
	if len(slots) != MenuSlots {
		t.Errorf("slots used = %v", slots)
	}
}

func TestMenuChoose(t *testing.T) {
	// swaps: 0<->0, 1<->1, 2<->2; effects 1, 4, 5
	m := NewMenu(&seqRand{vals: []int{0, 0, 0, 3, 0, 4}})
	want := []Effect{EffectRevealBlank, EffectShield, EffectChance}
	for i, w := range want {
		if got := m.Slots()[i]; got != w {
			t.Fatalf("slot %d = %s, want %s", i, got, w)
		}
	}

	tests := []struct {
		choice int
		effect Effect
		ok     bool
	}{
		{1, EffectRevealBlank, true},
		{2, EffectShield, true},
		{3, EffectChance, true},
		{4, EffectNone, false},
		{9, EffectNone, false},
		{0, EffectNone, false},
		{10, EffectNone, false},
		{-1, EffectNone, false},
	}
	for _, tt := range tests {
		e, ok := m.Choose(tt.choice)
		if e != tt.effect || ok != tt.ok {
			t.Errorf("Choose(%d) = %s, %v; want %s, %v", tt.choice, e, ok, tt.effect, tt.ok)
		}
	}
}

func TestMenuSlotsIsACopy(t *testing.T) {
	m := NewMenu(NewRand(3))
	s := m.Slots()
	for i := range s {
		s[i] = EffectChance
	}
	filled := 0
	for _, e := range m.Slots() {
		if e != EffectNone {
			filled++
		}
	}
	if filled != FilledSlots {
		t.Fatalf("menu changed through Slots(): %d filled", filled)
	}
}
