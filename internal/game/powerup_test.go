package game

import "testing"

func TestActivateRevealBlankSkipsSuperBlank(t *testing.T) {
	// super blank on 'c'; the reveal then picks the first ordinary blank
	s := NewSession("cat", 6, &seqRand{vals: []int{0}})
	a := Activate(s, EffectRevealBlank, &seqRand{vals: []int{0}})

	if a.Revealed != 1 {
		t.Fatalf("Revealed = %d, want 1", a.Revealed)
	}
	if string(s.revealed) != "~a_" {
		t.Fatalf("revealed = %q, want %q", string(s.revealed), "~a_")
	}
	if _, ok := s.SuperBlank(); !ok {
		t.Fatal("super blank cleared by reveal")
	}
}

func TestActivateRevealBlankNoBlanksLeft(t *testing.T) {
	s := NewSession("ab", 6, &seqRand{vals: []int{0}})
	s.ApplyGuess('b')
	before := string(s.revealed)

	a := Activate(s, EffectRevealBlank, NewRand(1))
	if a.Revealed != 0 || string(s.revealed) != before {
		t.Fatalf("reveal with only the super blank left changed %q to %q", before, string(s.revealed))
	}
	if a.String() != "Power-Up: no blanks left to reveal." {
		t.Fatalf("message = %q", a.String())
	}
}

func TestActivateExtraLife(t *testing.T) {
	s := NewSession("cat", 6, NewRand(1))
	Activate(s, EffectExtraLife, NewRand(1))
	if s.Lives() != 7 {
		t.Fatalf("lives = %d, want 7", s.Lives())
	}
}

func TestActivateRevealVowels(t *testing.T) {
	// super blank on 'r' (index 0)
	s := NewSession("red panda", 6, &seqRand{vals: []int{0}})
	a := Activate(s, EffectRevealVowels, NewRand(1))

	if s.Mask() != "_e_ _a__a" {
		t.Fatalf("Mask() = %q", s.Mask())
	}
	if a.Revealed != 3 {
		t.Fatalf("Revealed = %d, want 3", a.Revealed)
	}
	if _, ok := s.SuperBlank(); !ok {
		t.Fatal("consonant super blank should stay in play")
	}
}

func TestActivateRevealVowelsKeepsVowelSuperBlank(t *testing.T) {
	// blanks c,a,t; index 1 is the 'a'
	s := NewSession("cat", 6, &seqRand{vals: []int{1}})
	Activate(s, EffectRevealVowels, NewRand(1))

	if s.Mask() != "_a_" {
		t.Fatalf("Mask() = %q, want %q", s.Mask(), "_a_")
	}
	if i, ok := s.SuperBlank(); !ok || i != 1 {
		t.Fatalf("SuperBlank() = %d, %v; want 1, true", i, ok)
	}
	if !s.ValidateGuess('a') {
		t.Fatal("revealed vowels are not recorded as guesses")
	}
	if got := s.ApplyGuess('a'); got != OutcomeSuperBlank {
		t.Fatalf("guess a = %s, want %s", got, OutcomeSuperBlank)
	}
	if _, ok := s.SuperBlank(); ok {
		t.Fatal("super blank still set after it was guessed")
	}
}

func TestActivateShieldIsIdempotent(t *testing.T) {
	s := NewSession("cat", 6, NewRand(1))
	Activate(s, EffectShield, NewRand(1))
	Activate(s, EffectShield, NewRand(1))
	if !s.ShieldActive() {
		t.Fatal("shield not active")
	}
	s.ApplyGuess('z')
	if s.ShieldActive() || s.Lives() != 6 {
		t.Fatalf("shield=%v lives=%d after one miss", s.ShieldActive(), s.Lives())
	}
	s.ApplyGuess('y')
	if s.Lives() != 5 {
		t.Fatalf("lives = %d, want 5", s.Lives())
	}
}

func TestActivateChance(t *testing.T) {
	tests := []struct {
		name     string
		draws    []int
		lives    int
		lifeLost bool
		chained  Effect
	}{
		// roll = draw+1
		{name: "bonus extra life", draws: []int{0, 1}, lives: 7, chained: EffectExtraLife},
		{name: "bonus at upper bound", draws: []int{4, 3}, lives: 6, chained: EffectShield},
		{name: "lose life low", draws: []int{5}, lives: 5, lifeLost: true},
		{name: "lose life high", draws: []int{9}, lives: 5, lifeLost: true},
		{name: "nothing", draws: []int{10}, lives: 6},
		{name: "nothing at 100", draws: []int{99}, lives: 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSession("cat", 6, NewRand(1))
			a := Activate(s, EffectChance, &seqRand{vals: tt.draws})

			if s.Lives() != tt.lives {
				t.Errorf("lives = %d, want %d", s.Lives(), tt.lives)
			}
			if a.LifeLost != tt.lifeLost {
				t.Errorf("LifeLost = %v, want %v", a.LifeLost, tt.lifeLost)
			}
			if a.Roll != tt.draws[0]+1 {
				t.Errorf("Roll = %d, want %d", a.Roll, tt.draws[0]+1)
			}
			switch {
			case tt.chained == EffectNone && a.Chained != nil:
				t.Errorf("unexpected chained effect %s", a.Chained.Effect)
			case tt.chained != EffectNone && (a.Chained == nil || a.Chained.Effect != tt.chained):
				t.Errorf("chained = %+v, want %s", a.Chained, tt.chained)
			}
		})
	}
}

func TestActivateChanceLifeLossCanEndRound(t *testing.T) {
	s := NewSession("cat", 1, NewRand(1))
	Activate(s, EffectChance, &seqRand{vals: []int{7}})
	if s.Lives() != 0 || !s.IsOver() || s.IsWon() {
		t.Fatalf("lives=%d over=%v won=%v", s.Lives(), s.IsOver(), s.IsWon())
	}
}

func TestChanceNeverChainsIntoItself(t *testing.T) {
	seen := map[Effect]bool{}
	for seed := uint64(1); seed <= 5000; seed++ {
		s := NewSession("hippopotamus", 6, NewRand(seed))
		a := Activate(s, EffectChance, NewRand(seed))
		if a.Chained == nil {
			continue
		}
		if a.Chained.Effect == EffectChance || !a.Chained.Effect.Valid() {
			t.Fatalf("seed %d chained into %s", seed, a.Chained.Effect)
		}
		if a.Chained.Chained != nil {
			t.Fatalf("seed %d chained twice", seed)
		}
		seen[a.Chained.Effect] = true
	}
	if len(seen) == 0 {
		t.Fatal("no bonus rolls in 5000 seeds")
	}
}

func TestActivateUnknownEffect(t *testing.T) {
	s := NewSession("cat", 6, NewRand(1))
	before := string(s.revealed)
	for _, e := range []Effect{EffectNone, effectCount, 200} {
		a := Activate(s, e, NewRand(1))
		if a.Effect != EffectNone {
			t.Errorf("Activate(%d).Effect = %s", e, a.Effect)
		}
	}
	if string(s.revealed) != before || s.Lives() != 6 || s.ShieldActive() {
		t.Fatal("unknown effect changed the session")
	}
}

func TestEffectString(t *testing.T) {
	if EffectRevealVowels.String() != "reveal_vowels" {
		t.Errorf("String() = %q", EffectRevealVowels.String())
	}
	if Effect(42).String() != "effect(42)" {
		t.Errorf("String() = %q", Effect(42).String())
	}
}
