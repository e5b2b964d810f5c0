// internal/words/words.go
//
// Word source for the game engine.
//
// Responsibilities:
//   - Load one word list per category from a directory of <category>.txt
//     files, or fall back to the lists embedded in the assets package.
//   - Supply RandomWord / RandomCategory draws from the shared random source.
//   - Supply the deterministic word of the day (DailyWord).
//
// Word lists:
//   - Plain text, one word (or phrase) per line; # starts a comment.
//   - Lines are trimmed, lowercased and have inner whitespace collapsed.
//   - Lines with anything other than a–z and spaces are dropped, so every
//     loaded word is winnable.
//
// Environment variables (read by the config package):
//   WORDS_DIR=/path/to/lists   directory holding animals.txt, fruits.txt, ...

package words

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/robalobadob/hangman/assets"
	"github.com/robalobadob/hangman/internal/daily"
	"github.com/robalobadob/hangman/internal/game"
)

const listExt = ".txt"

var (
	ErrUnknownCategory = errors.New("words: unknown category")
	ErrEmptyCategory   = errors.New("words: category has no words")
	ErrNoCategories    = errors.New("words: no categories loaded")
)

// Lists is an in-memory word source keyed by category name.
type Lists struct {
	rng   game.Rand
	lists map[string][]string
	names []string // sorted category names
}

// New builds Lists from raw category lists, normalizing every entry.
func New(raw map[string][]string, rng game.Rand) *Lists {
	l := &Lists{rng: rng, lists: make(map[string][]string, len(raw))}
	for name, lines := range raw {
		name = strings.ToLower(strings.TrimSpace(name))
		var out []string
		for _, line := range lines {
			if w, ok := normalize(line); ok {
				out = append(out, w)
			}
		}
		l.lists[name] = out
		l.names = append(l.names, name)
	}
	sort.Strings(l.names)
	return l
}

// Load reads every <category>.txt file at the root of fsys.
func Load(fsys fs.FS, rng game.Rand) (*Lists, error) {
	names, err := assets.ListNames(fsys, listExt)
	if err != nil {
		return nil, fmt.Errorf("words: list categories: %w", err)
	}
	if len(names) == 0 {
		return nil, ErrNoCategories
	}
	raw := make(map[string][]string, len(names))
	for _, name := range names {
		lines, err := assets.ReadLines(fsys, name+listExt)
		if err != nil {
			return nil, fmt.Errorf("words: read %s: %w", name, err)
		}
		raw[name] = lines
	}
	return New(raw, rng), nil
}

// LoadDir reads the word lists from dir.
func LoadDir(dir string, rng game.Rand) (*Lists, error) {
	return Load(os.DirFS(dir), rng)
}

// Embedded returns the word lists bundled with the binary.
func Embedded(rng game.Rand) (*Lists, error) {
	return Load(assets.Words(), rng)
}

// Categories returns the category names in sorted order.
func (l *Lists) Categories() []string {
	return append([]string(nil), l.names...)
}

// RandomWord draws one word uniformly from category.
func (l *Lists) RandomWord(category string) (string, error) {
	list, err := l.list(category)
	if err != nil {
		return "", err
	}
	return list[l.rng.IntN(len(list))], nil
}

// RandomCategory draws one category uniformly.
func (l *Lists) RandomCategory() (string, error) {
	if len(l.names) == 0 {
		return "", ErrNoCategories
	}
	return l.names[l.rng.IntN(len(l.names))], nil
}

// DailyWord returns the word of the day for category. The same date,
// salt and list always give the same word.
func (l *Lists) DailyWord(category string, date time.Time, salt string) (string, error) {
	list, err := l.list(category)
	if err != nil {
		return "", err
	}
	return list[daily.Index(date, salt, category, len(list))], nil
}

// Stats returns the number of loaded words per category.
func (l *Lists) Stats() map[string]int {
	out := make(map[string]int, len(l.lists))
	for name, list := range l.lists {
		out[name] = len(list)
	}
	return out
}

func (l *Lists) list(category string) ([]string, error) {
	category = strings.ToLower(strings.TrimSpace(category))
	list, ok := l.lists[category]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}
	if len(list) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrEmptyCategory, category)
	}
	return list, nil
}

// normalize lowercases s, collapses whitespace and reports whether the
// result is a non-empty run of a–z letters and single spaces.
func normalize(s string) (string, bool) {
	w := strings.Join(strings.Fields(strings.ToLower(s)), " ")
	if w == "" {
		return "", false
	}
	for _, r := range w {
		if r != ' ' && (r < 'a' || r > 'z') {
			return "", false
		}
	}
	return w, true
}
