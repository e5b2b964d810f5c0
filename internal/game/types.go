// internal/game/types.go
//
// Core type definitions for the hangman engine.
// Defines:
//   - Outcome: result of applying a single letter guess.
//   - Session: state for one round (secret word, mask, lives, shield).
//   - Rand: the random source the engine draws from.

package game

import "errors"

// Mask markers. Spaces are copied verbatim and are never guessable.
const (
	BlankMarker      = '_'
	SuperBlankMarker = '~'
)

// NoSuperBlank is the SuperBlank index once the bonus cell is used up,
// or when the word has no guessable positions.
const NoSuperBlank = -1

// Outcome reports what a guess did to the session.
type Outcome string

const (
	OutcomeCorrect    Outcome = "correct"
	OutcomeSuperBlank Outcome = "super_blank"
	OutcomeWrong      Outcome = "wrong"
	OutcomeShielded   Outcome = "shielded"
)

var (
	ErrNotALetter     = errors.New("guess is not a letter")
	ErrAlreadyGuessed = errors.New("letter already guessed")
)

// Session holds the state of a single round.
// It is owned by one round controller and is never reused.
type Session struct {
	word       []rune // secret word (lowercase)
	revealed   []rune // mask, same length as word
	guessed    []rune // letters tried so far, in order
	lives      int
	superBlank int // index into word, or NoSuperBlank
	shield     bool
}

// Rand is the subset of *math/rand/v2.Rand the engine needs.
type Rand interface {
	IntN(n int) int
}
