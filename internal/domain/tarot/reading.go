package tarot

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// Position is a 1-based seat in the seasonal spread.
type Position int

const (
	PositionAction    Position = 1 // wands
	PositionEmotion   Position = 2 // cups
	PositionIntellect Position = 3 // swords
	PositionMaterial  Position = 4 // pentacles
	PositionSpirit    Position = 5 // major arcana
)

// RequiredPositions lists every seat a complete reading must fill.
var RequiredPositions = []Position{PositionAction, PositionEmotion, PositionIntellect, PositionMaterial, PositionSpirit}

// Reading maps spread positions to drawn cards.
type Reading map[Position]Card

// Card looks up the card at p.
func (r Reading) Card(p Position) (Card, bool) {
	c, ok := r[p]
	return c, ok
}

// Positions returns the filled positions in ascending order.
func (r Reading) Positions() []Position {
	out := make([]Position, 0, len(r))
	for p := range r {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Views renders every filled position keyed by its decimal string.
func (r Reading) Views(imageBase string) map[string]CardView {
	out := make(map[string]CardView, len(r))
	for p, c := range r {
		out[strconv.Itoa(int(p))] = c.View(imageBase)
	}
	return out
}

// MarshalJSON emits {"1": card, ...}.
func (r Reading) MarshalJSON() ([]byte, error) {
	out := make(map[string]Card, len(r))
	for p, c := range r {
		out[strconv.Itoa(int(p))] = c
	}
	return json.Marshal(out)
}

// UnmarshalJSON accepts {"1": card, ...}. A position whose payload does not
// decode is kept as a zero Card so ValidateReading reports it as invalid.
func (r *Reading) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(Reading, len(raw))
	for key, payload := range raw {
		n, err := strconv.Atoi(key)
		if err != nil {
			return fmt.Errorf("reading position %q is not a number", key)
		}
		var card Card
		if err := json.Unmarshal(payload, &card); err != nil {
			card = Card{}
		}
		out[Position(n)] = card
	}
	*r = out
	return nil
}

// ValidationOutcome reports structural problems with a reading.
type ValidationOutcome struct {
	IsValid bool     `json:"isValid"`
	Errors  []string `json:"errors"`
}

// ValidateReading checks that all five positions hold a well-formed card.
// Suit-to-position agreement is guaranteed by DrawSpread and not re-checked here.
func ValidateReading(r Reading) ValidationOutcome {
	errs := make([]string, 0)
	for _, p := range RequiredPositions {
		card, ok := r[p]
		switch {
		case !ok:
			errs = append(errs, fmt.Sprintf("missing position %d", p))
		case !card.Valid():
			errs = append(errs, fmt.Sprintf("invalid card at position %d", p))
		}
	}
	return ValidationOutcome{IsValid: len(errs) == 0, Errors: errs}
}
