// internal/game/powerup.go
//
// Power-up catalog and dispatch.
// The catalog is closed: Effect values outside 1..5 are ignored by
// Activate. The chance effect chains into bonusEffects, an array that
// cannot hold EffectChance, so it never re-selects itself.

package game

import "fmt"

// Effect identifies one entry of the power-up catalog.
type Effect uint8

const (
	EffectNone Effect = iota
	EffectRevealBlank
	EffectExtraLife
	EffectRevealVowels
	EffectShield
	EffectChance

	effectCount
)

// Chance roll bands, inclusive upper bounds on a 1..100 roll.
const (
	chanceBonusMax    = 5
	chanceLoseLifeMax = 10
)

var effectNames = [effectCount]string{
	EffectNone:         "none",
	EffectRevealBlank:  "reveal_blank",
	EffectExtraLife:    "extra_life",
	EffectRevealVowels: "reveal_vowels",
	EffectShield:       "shield",
	EffectChance:       "chance",
}

func (e Effect) String() string {
	if e.Valid() || e == EffectNone {
		return effectNames[e]
	}
	return fmt.Sprintf("effect(%d)", uint8(e))
}

// Valid reports whether e is a catalog entry.
func (e Effect) Valid() bool { return e > EffectNone && e < effectCount }

// MarshalText lets effects travel as their names in JSON.
func (e Effect) MarshalText() ([]byte, error) { return []byte(e.String()), nil }

// Activation describes what a power-up did.
type Activation struct {
	Effect   Effect      `json:"effect"`
	Revealed int         `json:"revealed,omitempty"` // cells uncovered
	Roll     int         `json:"roll,omitempty"`     // chance roll, 1..100
	LifeLost bool        `json:"lifeLost,omitempty"`
	Chained  *Activation `json:"chained,omitempty"`
}

// String renders a one-line message for the player.
func (a Activation) String() string {
	switch a.Effect {
	case EffectRevealBlank:
		if a.Revealed == 0 {
			return "Power-Up: no blanks left to reveal."
		}
		return "Power-Up: a random letter was revealed!"
	case EffectExtraLife:
		return "Power-Up: +1 life!"
	case EffectRevealVowels:
		return "Power-Up: all vowels revealed!"
	case EffectShield:
		return "Power-Up: shield activated!"
	case EffectChance:
		switch {
		case a.Chained != nil:
			return "Bonus random power-up! " + a.Chained.String()
		case a.LifeLost:
			return "Lost 1 life."
		default:
			return "Nothing happened."
		}
	}
	return "Empty box, no power-up."
}

type effectFunc func(s *Session, rng Rand, a *Activation)

var effects = [effectCount]effectFunc{
	EffectRevealBlank:  revealRandomBlank,
	EffectExtraLife:    extraLife,
	EffectRevealVowels: revealVowels,
	EffectShield:       raiseShield,
	EffectChance:       chance,
}

// bonusEffects is the draw domain of the chance effect. It has no entry
// for EffectChance.
var bonusEffects = [...]struct {
	effect Effect
	apply  effectFunc
}{
	{EffectRevealBlank, revealRandomBlank},
	{EffectExtraLife, extraLife},
	{EffectRevealVowels, revealVowels},
	{EffectShield, raiseShield},
}

// Activate applies e to s. Unknown effects are no-ops.
func Activate(s *Session, e Effect, rng Rand) Activation {
	a := Activation{Effect: e}
	if !e.Valid() {
		a.Effect = EffectNone
		return a
	}
	effects[e](s, rng, &a)
	return a
}

// revealRandomBlank uncovers one ordinary blank. The super blank stays
// hidden so it can still be found by guessing.
func revealRandomBlank(s *Session, rng Rand, a *Activation) {
	var blanks []int
	for i, r := range s.revealed {
		if r == BlankMarker {
			blanks = append(blanks, i)
		}
	}
	if len(blanks) == 0 {
		return
	}
	s.reveal(blanks[rng.IntN(len(blanks))])
	a.Revealed = 1
}

func extraLife(s *Session, _ Rand, _ *Activation) { s.lives++ }

func raiseShield(s *Session, _ Rand, _ *Activation) { s.shield = true }

func revealVowels(s *Session, _ Rand, a *Activation) {
	for i, c := range s.word {
		if !isVowel(c) {
			continue
		}
		if s.revealed[i] != c {
			a.Revealed++
		}
		s.reveal(i)
	}
}

func chance(s *Session, rng Rand, a *Activation) {
	a.Roll = rng.IntN(100) + 1
	switch {
	case a.Roll <= chanceBonusMax:
		b := bonusEffects[rng.IntN(len(bonusEffects))]
		chained := Activation{Effect: b.effect}
		b.apply(s, rng, &chained)
		a.Chained = &chained
	case a.Roll <= chanceLoseLifeMax:
		s.lives--
		a.LifeLost = true
	}
}

func isVowel(r rune) bool {
	switch r {
	case 'a', 'e', 'i', 'o', 'u':
		return true
	}
	return false
}
