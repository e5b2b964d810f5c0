package game

// Menu layout: 9 boxes, 3 of which hide an effect.
const (
	MenuSlots   = 9
	FilledSlots = 3
)

// Menu is the power-up picker shown after the super blank is found.
// It is built fresh each time and used for a single choice.
type Menu struct {
	slots [MenuSlots]Effect
}

// NewMenu fills FilledSlots distinct boxes with uniformly drawn effects.
// Two boxes may hold the same effect.
func NewMenu(rng Rand) *Menu {
	m := &Menu{}

	// partial Fisher-Yates over the box indices
	idx := [MenuSlots]int{}
	for i := range idx {
		idx[i] = i
	}
	for i := 0; i < FilledSlots; i++ {
		j := i + rng.IntN(MenuSlots-i)
		idx[i], idx[j] = idx[j], idx[i]
		m.slots[idx[i]] = Effect(rng.IntN(int(effectCount)-1) + 1)
	}
	return m
}

// Size returns the number of boxes.
func (m *Menu) Size() int { return len(m.slots) }

// Slots returns the box contents, EffectNone for empty boxes. Drivers
// should not show the contents before a choice is made.
func (m *Menu) Slots() []Effect {
	out := make([]Effect, len(m.slots))
	copy(out, m.slots[:])
	return out
}

// Choose returns the effect behind the 1-based box n. Empty boxes and
// out-of-range choices return EffectNone, false.
func (m *Menu) Choose(n int) (Effect, bool) {
	if n < 1 || n > len(m.slots) {
		return EffectNone, false
	}
	e := m.slots[n-1]
	return e, e != EffectNone
}
