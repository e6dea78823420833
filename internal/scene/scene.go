// Package scene selects the themes and setting a story is built around.
package scene

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"
)

// MandatoryTheme is guaranteed present in every selected theme set.
const MandatoryTheme = "Problem Solving"

// themeCount is the size of every selected theme set, MandatoryTheme included.
const themeCount = 4

// Themes is the fixed theme catalog.
var Themes = []string{
	"Adventure", "Animal Friends", "Problem Solving", "Friendship", "Magic/Fantasy",
	"Space", "Family", "Courage", "Kindness", "Honesty", "Justice", "Teamwork",
	"Be Yourself", "Love", "Hope", "Hard Work", "Loyalty", "Persistence",
	"Compassion", "Generosity", "Holidays", "Peace", "Equality", "Siblings",
	"Festival", "Summer Break", "Facing Fears", "Gratitude", "Self-Confidence",
	"Helping Others",
}

// Settings is the fixed setting catalog.
var Settings = []string{
	"Farm", "Ocean", "Jungle", "Forest", "Neighborhood", "Backyard", "Park",
	"Mountain", "Beach", "School", "Space", "Castle", "Under the Bed",
	"Treehouse", "Desert", "Arctic", "Magical Land", "Playground", "Circus",
	"Library",
}

var (
	// ErrCatalogTooSmall means the theme catalog cannot supply enough
	// distinct themes besides the mandatory one.
	ErrCatalogTooSmall = errors.New("theme catalog too small")

	// ErrEmptyCatalog means the setting catalog has no entries.
	ErrEmptyCatalog = errors.New("setting catalog is empty")
)

// Selector draws themes and settings from fixed catalogs. Each call is an
// independent draw; the mutex serializes access to the shared RNG so one
// Selector can serve concurrent requests.
type Selector struct {
	mu       sync.Mutex
	rng      *rand.Rand
	themes   []string
	settings []string
}

// NewSelector returns a Selector over the default catalogs.
func NewSelector() *Selector {
	return NewSelectorWithSource(rand.NewSource(time.Now().UnixNano()))
}

// NewSelectorWithSource returns a Selector with an injectable random source
// for deterministic tests.
func NewSelectorWithSource(src rand.Source) *Selector {
	return &Selector{
		rng:      rand.New(src),
		themes:   Themes,
		settings: Settings,
	}
}

// SelectThemes returns exactly four distinct themes: MandatoryTheme plus
// three drawn without replacement from the rest of the catalog, in shuffled
// order.
func (s *Selector) SelectThemes() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	others := make([]string, 0, len(s.themes))
	for _, t := range s.themes {
		if t != MandatoryTheme {
			others = append(others, t)
		}
	}
	if len(others) < themeCount-1 {
		return nil, fmt.Errorf("%w: need %d themes besides %q, have %d",
			ErrCatalogTooSmall, themeCount-1, MandatoryTheme, len(others))
	}

	s.rng.Shuffle(len(others), func(i, j int) {
		others[i], others[j] = others[j], others[i]
	})

	chosen := make([]string, 0, themeCount)
	chosen = append(chosen, others[:themeCount-1]...)
	chosen = append(chosen, MandatoryTheme)
	s.rng.Shuffle(len(chosen), func(i, j int) {
		chosen[i], chosen[j] = chosen[j], chosen[i]
	})

	return chosen, nil
}

// SelectSetting returns one uniformly random setting from the catalog.
func (s *Selector) SelectSetting() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.settings) == 0 {
		return "", ErrEmptyCatalog
	}
	return s.settings[s.rng.Intn(len(s.settings))], nil
}
