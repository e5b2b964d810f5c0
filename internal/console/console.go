// internal/console/console.go
//
// Line-oriented terminal driver: `hangman play`.
// Responsibilities:
//   - Run rounds back to back until the player declines another one.
//   - Render mask, lives, shield and guessed letters after every move.
//   - Prompt for a power-up box whenever the super blank is found.
//
// Notes:
//   - All game state lives in round.Round; this file only reads lines and
//     prints text, so it runs the same against a terminal or a test buffer.
//   - Input ends cleanly on EOF.

package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/hangman/internal/game"
	"github.com/robalobadob/hangman/internal/round"
	"github.com/robalobadob/hangman/internal/words"
)

// Options tune a terminal session.
type Options struct {
	Category string // fixed category; random when empty
	Lives    int
	Rand     game.Rand
}

type player struct {
	in  *bufio.Scanner
	out io.Writer
	src round.WordSource
	opt Options
}

// Play runs the interactive loop until the player quits, input ends or
// ctx is cancelled. A word source failure ends the session with an error.
func Play(ctx context.Context, in io.Reader, out io.Writer, src round.WordSource, opt Options) error {
	p := &player{in: bufio.NewScanner(in), out: out, src: src, opt: opt}
	fmt.Fprintln(out, "Welcome to Hangman! Find the super blank to win a power-up.")

	for n := 1; ; n++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		rd, err := round.Start(fmt.Sprintf("local-%d", n), src, opt.Category, opt.Lives, opt.Rand)
		if err != nil {
			fmt.Fprintln(out, sourceMessage(err))
			return err
		}
		log.Debug().Str("gameId", rd.ID).Str("category", rd.Category).Msg("round started")

		more, err := p.playRound(ctx, rd)
		if err != nil || !more {
			return err
		}
		answer, ok := p.ask("Play again? (y/n): ")
		if !ok || !strings.HasPrefix(strings.ToLower(answer), "y") {
			fmt.Fprintln(out, "Thanks for playing!")
			return nil
		}
	}
}

// playRound drives one round. It reports false when input ran out.
func (p *player) playRound(ctx context.Context, rd *round.Round) (bool, error) {
	for !rd.Over() {
		if err := ctx.Err(); err != nil {
			return false, err
		}
		p.render(rd)

		line, ok := p.ask("Guess a letter: ")
		if !ok {
			return false, nil
		}
		letters := []rune(line)
		if len(letters) != 1 {
			fmt.Fprintln(p.out, "Please enter a single letter.")
			continue
		}

		res, err := rd.Guess(letters[0])
		if err != nil {
			fmt.Fprintln(p.out, guessMessage(err))
			continue
		}
		fmt.Fprintln(p.out, outcomeMessage(res))

		if res.Phase == round.PhasePowerUp {
			if !p.choosePowerUp(rd) {
				return false, nil
			}
		}
	}

	v := rd.View()
	fmt.Fprintln(p.out, spaced(v.Mask))
	if v.Phase == round.PhaseWon {
		fmt.Fprintf(p.out, "You won! The word was %q.\n", v.Word)
	} else {
		fmt.Fprintf(p.out, "Out of lives. The word was %q.\n", v.Word)
	}
	return true, nil
}

// choosePowerUp shows the box row and resolves the menu. Non-numeric
// input is asked again; numbers outside the row pick nothing.
func (p *player) choosePowerUp(rd *round.Round) bool {
	size := rd.View().MenuSlots
	var row strings.Builder
	for i := 1; i <= size; i++ {
		fmt.Fprintf(&row, "[%d] ", i)
	}
	fmt.Fprintln(p.out, strings.TrimSpace(row.String()))

	for {
		line, ok := p.ask(fmt.Sprintf("Pick a box (1-%d): ", size))
		if !ok {
			return false
		}
		n, err := strconv.Atoi(line)
		if err != nil {
			fmt.Fprintln(p.out, "Please enter a box number.")
			continue
		}
		act, err := rd.ChooseSlot(n)
		if err != nil {
			fmt.Fprintln(p.out, err)
			return true
		}
		log.Debug().Str("gameId", rd.ID).Int("slot", n).Stringer("effect", act.Effect).Msg("power-up")
		fmt.Fprintln(p.out, act.String())
		return true
	}
}

func (p *player) render(rd *round.Round) {
	v := rd.View()
	fmt.Fprintf(p.out, "\nCategory: %s\n%s\nLives: %d", v.Category, spaced(v.Mask), v.Lives)
	if v.Shield {
		fmt.Fprint(p.out, "  (shield up)")
	}
	fmt.Fprintf(p.out, "\nGuessed: %s\n", spaced(v.Guessed))
}

// ask prints prompt and returns the next trimmed line.
func (p *player) ask(prompt string) (string, bool) {
	fmt.Fprint(p.out, prompt)
	if !p.in.Scan() {
		fmt.Fprintln(p.out)
		return "", false
	}
	return strings.TrimSpace(p.in.Text()), true
}

func spaced(s string) string {
	return strings.Join(strings.Split(s, ""), " ")
}

// outcomeMessage only asks for a box when the menu actually opened; a
// super blank found on the winning guess ends the round instead.
func outcomeMessage(res round.GuessResult) string {
	switch res.Outcome {
	case game.OutcomeCorrect:
		return "Correct!"
	case game.OutcomeSuperBlank:
		if res.Phase == round.PhasePowerUp {
			return "You found the super blank! Choose a power-up box."
		}
		return "You found the super blank!"
	case game.OutcomeShielded:
		return "Wrong, but your shield absorbed it."
	}
	return "Wrong guess. You lose a life."
}

func guessMessage(err error) string {
	switch {
	case errors.Is(err, game.ErrNotALetter):
		return "That is not a letter."
	case errors.Is(err, game.ErrAlreadyGuessed):
		return "You already guessed that letter."
	}
	return err.Error()
}

func sourceMessage(err error) string {
	switch {
	case errors.Is(err, words.ErrUnknownCategory):
		return "Unknown category."
	case errors.Is(err, words.ErrEmptyCategory), errors.Is(err, words.ErrNoCategories):
		return "No words available for that category."
	}
	return "Could not pick a word: " + err.Error()
}
