package tarot

import (
	"fmt"
	"math/rand/v2"
	"time"
)

// RNG abstracts random number generation for deterministic testing.
// *rand.Rand from math/rand/v2 satisfies it.
type RNG interface {
	// IntN returns a non-negative random int in [0, n).
	IntN(n int) int
	// Float64 returns a random float in [0.0, 1.0).
	Float64() float64
}

// SystemRNG delegates to the auto-seeded, goroutine-safe math/rand/v2 source.
type SystemRNG struct{}

func (SystemRNG) IntN(n int) int   { return rand.IntN(n) }
func (SystemRNG) Float64() float64 { return rand.Float64() }

// Reversal probabilities differ per draw mode on purpose.
const (
	SingleReversedProbability = 0.3
	SpreadReversedProbability = 0.5
)

// SpreadType labels the two supported draw modes.
type SpreadType string

const (
	SpreadTypeDailySingle SpreadType = "日常单抽"
	SpreadTypeSeasonal    SpreadType = "四季牌阵"
)

// Decks holds the catalog split into its five partitions.
type Decks struct {
	MajorArcana []CardDefinition `json:"majorArcana"`
	Wands       []CardDefinition `json:"wands"`
	Cups        []CardDefinition `json:"cups"`
	Swords      []CardDefinition `json:"swords"`
	Pentacles   []CardDefinition `json:"pentacles"`
}

// BuildDecks partitions a fresh copy of the catalog by kind and suit.
func BuildDecks() Decks {
	var d Decks
	for _, def := range catalog {
		if def.Kind == KindMajor {
			d.MajorArcana = append(d.MajorArcana, def)
			continue
		}
		switch def.Suit {
		case SuitWands:
			d.Wands = append(d.Wands, def)
		case SuitCups:
			d.Cups = append(d.Cups, def)
		case SuitSwords:
			d.Swords = append(d.Swords, def)
		case SuitPentacles:
			d.Pentacles = append(d.Pentacles, def)
		}
	}
	return d
}

// All concatenates the partitions: major arcana, wands, cups, swords, pentacles.
func (d Decks) All() []CardDefinition {
	out := make([]CardDefinition, 0, DeckSize)
	out = append(out, d.MajorArcana...)
	out = append(out, d.Wands...)
	out = append(out, d.Cups...)
	out = append(out, d.Swords...)
	out = append(out, d.Pentacles...)
	return out
}

// Shuffle returns a Fisher-Yates permutation of seq; seq itself is left untouched.
func Shuffle[T any](rng RNG, seq []T) []T {
	out := make([]T, len(seq))
	copy(out, seq)
	for i := len(out) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// pop deals from the top of a face-down deck, which is the end of the slice.
func pop(deck *[]CardDefinition, name string) (CardDefinition, error) {
	n := len(*deck)
	if n == 0 {
		return CardDefinition{}, fmt.Errorf("%w: %s", ErrEmptyDeck, name)
	}
	def := (*deck)[n-1]
	*deck = (*deck)[:n-1]
	return def, nil
}

// SingleDraw is the result of the daily single-card draw.
type SingleDraw struct {
	Card       Card       `json:"card"`
	SpreadType SpreadType `json:"spreadType"`
	Timestamp  time.Time  `json:"timestamp"`
}

// SpreadDraw is the result of a seasonal spread draw.
type SpreadDraw struct {
	Reading    Reading    `json:"reading"`
	SpreadType SpreadType `json:"spreadType"`
	Timestamp  time.Time  `json:"timestamp"`
}

// Dealer builds fresh decks for every draw; it holds no deck state between calls.
type Dealer struct {
	rng RNG
	now func() time.Time
}

// NewDealer wires a dealer to rng; nil selects SystemRNG.
func NewDealer(rng RNG) *Dealer {
	if rng == nil {
		rng = SystemRNG{}
	}
	return &Dealer{rng: rng, now: time.Now}
}

// DrawSingle shuffles the full 78-card pool and picks one uniformly.
func (d *Dealer) DrawSingle() (SingleDraw, error) {
	pool := Shuffle(d.rng, BuildDecks().All())
	if len(pool) == 0 {
		return SingleDraw{}, fmt.Errorf("%w: full pool", ErrEmptyDeck)
	}
	def := pool[d.rng.IntN(len(pool))]
	return SingleDraw{
		Card:       DrawCard(def, SingleReversedProbability, d.rng),
		SpreadType: SpreadTypeDailySingle,
		Timestamp:  d.now().UTC(),
	}, nil
}

// DrawSpread shuffles each partition and deals one card per seasonal position.
func (d *Dealer) DrawSpread() (SpreadDraw, error) {
	decks := BuildDecks()
	major := Shuffle(d.rng, decks.MajorArcana)
	wands := Shuffle(d.rng, decks.Wands)
	cups := Shuffle(d.rng, decks.Cups)
	swords := Shuffle(d.rng, decks.Swords)
	pentacles := Shuffle(d.rng, decks.Pentacles)

	deals := []struct {
		position Position
		deck     *[]CardDefinition
		name     string
	}{
		{PositionAction, &wands, "wands"},
		{PositionEmotion, &cups, "cups"},
		{PositionIntellect, &swords, "swords"},
		{PositionMaterial, &pentacles, "pentacles"},
		{PositionSpirit, &major, "majorArcana"},
	}

	reading := make(Reading, len(deals))
	for _, deal := range deals {
		def, err := pop(deal.deck, deal.name)
		if err != nil {
			return SpreadDraw{}, err
		}
		reading[deal.position] = DrawCard(def, SpreadReversedProbability, d.rng)
	}
	return SpreadDraw{
		Reading:    reading,
		SpreadType: SpreadTypeSeasonal,
		Timestamp:  d.now().UTC(),
	}, nil
}
