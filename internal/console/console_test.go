package console

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/robalobadob/hangman/internal/words"
)

type zeroRand struct{}

func (zeroRand) IntN(int) int { return 0 }

func play(t *testing.T, input string, opt Options) (string, error) {
	t.Helper()
	if opt.Rand == nil {
		opt.Rand = zeroRand{}
	}
	src := words.New(map[string][]string{"animals": {"cat"}}, zeroRand{})
	var out bytes.Buffer
	err := Play(context.Background(), strings.NewReader(input), &out, src, opt)
	return out.String(), err
}

func TestPlayWinWithPowerUp(t *testing.T) {
	// c is the super blank; box 1 reveals "a"; t wins.
	out, err := play(t, "c\n1\nt\nn\n", Options{Lives: 6})
	if err != nil {
		t.Fatalf("Play: %v", err)
	}
	for _, want := range []string{
		"You found the super blank!",
		"[1] [2] [3] [4] [5] [6] [7] [8] [9]",
		"Power-Up: a random letter was revealed!",
		`You won! The word was "cat".`,
		"Thanks for playing!",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestPlayLoseAndReplay(t *testing.T) {
	out, err := play(t, "z\ny\nq\nn\n", Options{Lives: 1})
	if err != nil {
		t.Fatalf("Play: %v", err)
	}
	if got := strings.Count(out, `Out of lives. The word was "cat".`); got != 2 {
		t.Fatalf("lost %d rounds, want 2:\n%s", got, out)
	}
}

func TestPlayRejectsBadInput(t *testing.T) {
	out, err := play(t, "ab\n7\nz\nz\n", Options{Lives: 6})
	if err != nil {
		t.Fatalf("Play: %v", err)
	}
	for _, want := range []string{
		"Please enter a single letter.",
		"That is not a letter.",
		"Wrong guess.",
		"You already guessed that letter.",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if !strings.Contains(out, "Lives: 5") {
		t.Errorf("repeated guess should not cost a life:\n%s", out)
	}
}

func TestPlayPowerUpPromptRepeats(t *testing.T) {
	out, err := play(t, "c\nbox\n5\n", Options{Lives: 6})
	if err != nil {
		t.Fatalf("Play: %v", err)
	}
	if !strings.Contains(out, "Please enter a box number.") {
		t.Errorf("missing re-prompt:\n%s", out)
	}
	if !strings.Contains(out, "Empty box, no power-up.") {
		t.Errorf("box 5 should be empty:\n%s", out)
	}
}

func TestPlayUnknownCategory(t *testing.T) {
	out, err := play(t, "", Options{Category: "metals"})
	if !errors.Is(err, words.ErrUnknownCategory) {
		t.Fatalf("err = %v, want ErrUnknownCategory", err)
	}
	if !strings.Contains(out, "Unknown category.") {
		t.Fatalf("output = %q", out)
	}
}

func TestPlayCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	src := words.New(map[string][]string{"animals": {"cat"}}, zeroRand{})
	err := Play(ctx, strings.NewReader("c\n"), &bytes.Buffer{}, src, Options{Rand: zeroRand{}})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestPlaySuperBlankOnWinningGuess(t *testing.T) {
	// the super blank is the last letter left: the guess wins, no menu
	src := words.New(map[string][]string{"animals": {"ox"}}, zeroRand{})
	var out bytes.Buffer
	err := Play(context.Background(), strings.NewReader("x\no\nn\n"), &out, src, Options{Lives: 6, Rand: zeroRand{}})
	if err != nil {
		t.Fatalf("Play: %v", err)
	}
	got := out.String()
	if strings.Contains(got, "Choose a power-up box") || strings.Contains(got, "Pick a box") {
		t.Fatalf("menu offered on the winning guess:\n%s", got)
	}
	if !strings.Contains(got, "You found the super blank!") || !strings.Contains(got, `You won! The word was "ox".`) {
		t.Fatalf("output:\n%s", got)
	}
}
