// internal/game/session.go
//
// Session engine for a single hangman round.
// Responsibilities:
//   - Build the mask for a new word and hide one super blank in it.
//   - Validate and apply single-letter guesses.
//   - Track lives and the one-shot shield.
//   - Answer win/loss queries for the driver.
//
// Notes:
//   - Spaces are pre-revealed and never count as blanks.
//   - The super blank looks like any other blank through Mask(); only the
//     engine knows which cell it is.

package game

import (
	"strings"
	"unicode"
)

// NewSession builds a session for word with the given starting lives.
// One blank, chosen uniformly with rng, becomes the super blank.
func NewSession(word string, lives int, rng Rand) *Session {
	w := []rune(strings.ToLower(word))
	s := &Session{
		word:       w,
		revealed:   make([]rune, len(w)),
		guessed:    []rune{},
		lives:      lives,
		superBlank: NoSuperBlank,
	}

	var blanks []int
	for i, r := range w {
		if r == ' ' {
			s.revealed[i] = ' '
			continue
		}
		s.revealed[i] = BlankMarker
		blanks = append(blanks, i)
	}

	if len(blanks) > 0 {
		s.superBlank = blanks[rng.IntN(len(blanks))]
		s.revealed[s.superBlank] = SuperBlankMarker
	}
	return s
}

// ValidateGuess reports whether r is a letter that has not been tried yet.
// It never mutates the session.
func (s *Session) ValidateGuess(r rune) bool {
	r, ok := normalize(r)
	if !ok {
		return false
	}
	return !s.hasGuessed(r)
}

// ApplyGuess records r and resolves it against the word.
//
// The caller must have checked ValidateGuess first; use Guess for the
// checked variant.
//
// Resolution:
//   - Hit on the super blank → OutcomeSuperBlank (the super blank is used up).
//   - Any other hit → OutcomeCorrect.
//   - Miss with the shield up → OutcomeShielded (shield consumed, no life lost).
//   - Miss otherwise → OutcomeWrong (one life lost).
func (s *Session) ApplyGuess(r rune) Outcome {
	r = unicode.ToLower(r)
	s.guessed = append(s.guessed, r)

	found := false
	for i, c := range s.word {
		if c == r {
			s.revealed[i] = c
			found = true
		}
	}

	if found {
		if s.superBlank != NoSuperBlank && s.word[s.superBlank] == r {
			s.superBlank = NoSuperBlank
			return OutcomeSuperBlank
		}
		return OutcomeCorrect
	}

	if s.shield {
		s.shield = false
		return OutcomeShielded
	}
	s.lives--
	return OutcomeWrong
}

// Guess validates r and applies it. Invalid guesses leave the session
// untouched and return ErrNotALetter or ErrAlreadyGuessed.
func (s *Session) Guess(r rune) (Outcome, error) {
	lr, ok := normalize(r)
	if !ok {
		return "", ErrNotALetter
	}
	if s.hasGuessed(lr) {
		return "", ErrAlreadyGuessed
	}
	return s.ApplyGuess(lr), nil
}

// IsWon reports whether every guessable cell has been revealed.
func (s *Session) IsWon() bool {
	for _, r := range s.revealed {
		if r == BlankMarker || r == SuperBlankMarker {
			return false
		}
	}
	return true
}

// IsOver reports whether the round has ended. A won round stays won even
// if the same guess also took the last life.
func (s *Session) IsOver() bool {
	return s.IsWon() || s.lives <= 0
}

// Mask returns the revealed word for display. The super blank is drawn as
// an ordinary blank.
func (s *Session) Mask() string {
	out := make([]rune, len(s.revealed))
	for i, r := range s.revealed {
		if r == SuperBlankMarker {
			r = BlankMarker
		}
		out[i] = r
	}
	return string(out)
}

// Lives returns the remaining lives.
func (s *Session) Lives() int { return s.lives }

// Guessed returns the letters tried so far, in guess order.
func (s *Session) Guessed() string { return string(s.guessed) }

// ShieldActive reports whether the next miss will be absorbed.
func (s *Session) ShieldActive() bool { return s.shield }

// SuperBlank returns the hidden bonus index, if it is still in play.
func (s *Session) SuperBlank() (int, bool) {
	return s.superBlank, s.superBlank != NoSuperBlank
}

// Word returns the secret word. Drivers should only show it once the
// round is over.
func (s *Session) Word() string { return string(s.word) }

// Len returns the word length in runes.
func (s *Session) Len() int { return len(s.word) }

func (s *Session) hasGuessed(r rune) bool {
	for _, g := range s.guessed {
		if g == r {
			return true
		}
	}
	return false
}

// reveal uncovers cell i. Only a guess uses up the super blank, so a
// power-up that uncovers it leaves the bonus for the next guess of that
// letter.
func (s *Session) reveal(i int) {
	s.revealed[i] = s.word[i]
}

// normalize lowercases r and reports whether it is an a–z letter.
func normalize(r rune) (rune, bool) {
	r = unicode.ToLower(r)
	return r, r >= 'a' && r <= 'z'
}
