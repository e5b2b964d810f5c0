// internal/round/round.go
//
// Round controller: the state machine a driver talks to.
// Responsibilities:
//   - Start a round from a word source (random or fixed category).
//   - Gate guesses: no guesses after the round ends or while a power-up
//     choice is pending.
//   - Open the power-up menu as soon as the super blank is found, and
//     resolve it before the next guess.
//   - Produce a JSON-ready View for rendering.
//
// State transitions:
//   playing → powerup   (guess reveals the super blank, round not won)
//   powerup → playing   (box chosen, round still running)
//   playing|powerup → won | lost

package round

import (
	"errors"
	"fmt"

	"github.com/robalobadob/hangman/internal/game"
)

// Phase is the controller state.
type Phase string

const (
	PhasePlaying Phase = "playing"
	PhasePowerUp Phase = "powerup"
	PhaseWon     Phase = "won"
	PhaseLost    Phase = "lost"
)

// DefaultLives is the starting life count of a round.
const DefaultLives = 6

var (
	ErrRoundOver      = errors.New("round is over")
	ErrPowerUpPending = errors.New("choose a power-up box first")
	ErrNoPowerUp      = errors.New("no power-up to choose")
)

// WordSource supplies the secret word for a category.
type WordSource interface {
	RandomWord(category string) (string, error)
	RandomCategory() (string, error)
}

// Round owns one Session for its whole life.
type Round struct {
	ID       string
	Category string

	session  *game.Session
	menu     *game.Menu
	rng      game.Rand
	guesses  int
	powerUps int
}

// GuessResult is what the driver gets back for an accepted guess.
type GuessResult struct {
	Outcome game.Outcome `json:"outcome"`
	Phase   Phase        `json:"phase"`
}

// Start draws a word from src and builds a round around it. An empty
// category is replaced by a random one. No round is built if the word
// source fails.
func Start(id string, src WordSource, category string, lives int, rng game.Rand) (*Round, error) {
	if category == "" {
		c, err := src.RandomCategory()
		if err != nil {
			return nil, fmt.Errorf("pick category: %w", err)
		}
		category = c
	}
	word, err := src.RandomWord(category)
	if err != nil {
		return nil, fmt.Errorf("pick word: %w", err)
	}
	return New(id, category, word, lives, rng), nil
}

// New builds a round for a known word.
func New(id, category, word string, lives int, rng game.Rand) *Round {
	if lives <= 0 {
		lives = DefaultLives
	}
	return &Round{
		ID:       id,
		Category: category,
		session:  game.NewSession(word, lives, rng),
		rng:      rng,
	}
}

// Phase reports the current controller state.
func (r *Round) Phase() Phase {
	switch {
	case r.session.IsWon():
		return PhaseWon
	case r.session.IsOver():
		return PhaseLost
	case r.menu != nil:
		return PhasePowerUp
	}
	return PhasePlaying
}

// Over reports whether the round has ended.
func (r *Round) Over() bool { return r.session.IsOver() }

// Guess validates and applies one letter.
func (r *Round) Guess(letter rune) (GuessResult, error) {
	switch r.Phase() {
	case PhaseWon, PhaseLost:
		return GuessResult{}, ErrRoundOver
	case PhasePowerUp:
		return GuessResult{}, ErrPowerUpPending
	}

	out, err := r.session.Guess(letter)
	if err != nil {
		return GuessResult{}, err
	}
	r.guesses++

	if out == game.OutcomeSuperBlank && !r.session.IsOver() {
		r.menu = game.NewMenu(r.rng)
	}
	return GuessResult{Outcome: out, Phase: r.Phase()}, nil
}

// ChooseSlot resolves the pending power-up menu with the 1-based box n.
// Empty and out-of-range boxes resolve the menu with no effect.
func (r *Round) ChooseSlot(n int) (game.Activation, error) {
	if r.menu == nil {
		return game.Activation{}, ErrNoPowerUp
	}
	e, _ := r.menu.Choose(n)
	r.menu = nil
	if e != game.EffectNone {
		r.powerUps++
	}
	return game.Activate(r.session, e, r.rng), nil
}

// Guesses returns the number of accepted guesses.
func (r *Round) Guesses() int { return r.guesses }

// PowerUps returns the number of effects won from menus.
func (r *Round) PowerUps() int { return r.powerUps }

// Session exposes the underlying session for read-only queries.
func (r *Round) Session() *game.Session { return r.session }

// View is a rendering snapshot of the round.
type View struct {
	ID        string `json:"gameId"`
	Category  string `json:"category"`
	Mask      string `json:"mask"`
	Lives     int    `json:"lives"`
	Guessed   string `json:"guessed"`
	Shield    bool   `json:"shield"`
	Phase     Phase  `json:"phase"`
	MenuSlots int    `json:"menuSlots,omitempty"`
	Word      string `json:"word,omitempty"` // only once the round is over
}

// View returns the current snapshot.
func (r *Round) View() View {
	v := View{
		ID:       r.ID,
		Category: r.Category,
		Mask:     r.session.Mask(),
		Lives:    r.session.Lives(),
		Guessed:  r.session.Guessed(),
		Shield:   r.session.ShieldActive(),
		Phase:    r.Phase(),
	}
	if r.menu != nil {
		v.MenuSlots = r.menu.Size()
	}
	if r.Over() {
		v.Word = r.session.Word()
	}
	return v
}
