package tarot

import (
	"fmt"
	"strings"
)

// DefaultImageBaseURL hosts the Rider-Waite-Smith scans keyed by ImageKey.
const DefaultImageBaseURL = "https://www.sacred-texts.com/tarot/pkt/img"

const (
	uprightLabel  = "正位"
	reversedLabel = "逆位"
)

var suitCodes = map[Suit]string{
	SuitWands:     "wa",
	SuitCups:      "cu",
	SuitSwords:    "sw",
	SuitPentacles: "pe",
}

var courtCodes = map[Rank]string{
	RankPage:   "pa",
	RankKnight: "kn",
	RankQueen:  "qu",
	RankKing:   "ki",
}

// Card is a drawn definition with its orientation. It is never mutated after the draw.
type Card struct {
	Definition CardDefinition `json:"cardData"`
	IsReversed bool           `json:"isReversed"`
}

// DrawCard assigns an orientation to def: reversed with probability reversedProbability.
func DrawCard(def CardDefinition, reversedProbability float64, rng RNG) Card {
	return Card{Definition: def, IsReversed: rng.Float64() < reversedProbability}
}

// Name is the display name with the orientation label, e.g. "愚人 (逆位)".
func (c Card) Name() string {
	return fmt.Sprintf("%s (%s)", c.Definition.DisplayName, c.OrientationLabel())
}

// BaseName is the display name without orientation.
func (c Card) BaseName() string {
	return c.Definition.DisplayName
}

// OrientationLabel returns 正位 or 逆位.
func (c Card) OrientationLabel() string {
	if c.IsReversed {
		return reversedLabel
	}
	return uprightLabel
}

// IsMajorArcana reports whether the card belongs to the major arcana.
func (c Card) IsMajorArcana() bool {
	return c.Definition.Kind == KindMajor
}

// Suit returns the suit and false for major arcana cards.
func (c Card) Suit() (Suit, bool) {
	if c.IsMajorArcana() {
		return "", false
	}
	return c.Definition.Suit, true
}

// Valid reports whether the card wraps a well-formed definition.
func (c Card) Valid() bool {
	return c.Definition.Valid()
}

// ImageKey maps the definition to a stable image key; orientation never affects it.
// Majors are "ar" plus the zero padded id, minors a suit code plus a rank code.
func (c Card) ImageKey() string {
	def := c.Definition
	if def.Kind == KindMajor {
		return fmt.Sprintf("ar%02d", def.MajorID)
	}
	if code, ok := courtCodes[def.Rank]; ok {
		return suitCodes[def.Suit] + code
	}
	return fmt.Sprintf("%s%02d", suitCodes[def.Suit], int(def.Rank))
}

// ImageURL joins ImageKey onto base; an empty base uses DefaultImageBaseURL.
func (c Card) ImageURL(base string) string {
	if strings.TrimSpace(base) == "" {
		base = DefaultImageBaseURL
	}
	return strings.TrimRight(base, "/") + "/" + c.ImageKey() + ".jpg"
}

// CardView is the presentation shape handed to API consumers.
type CardView struct {
	Name          string         `json:"name"`
	BaseName      string         `json:"baseName"`
	IsReversed    bool           `json:"isReversed"`
	IsMajorArcana bool           `json:"isMajorArcana"`
	Suit          *Suit          `json:"suit"`
	CardData      CardDefinition `json:"cardData"`
	ImageKey      string         `json:"imageKey"`
	ImageURL      string         `json:"imageUrl"`
}

// View renders c for API responses.
func (c Card) View(imageBase string) CardView {
	view := CardView{
		Name:          c.Name(),
		BaseName:      c.BaseName(),
		IsReversed:    c.IsReversed,
		IsMajorArcana: c.IsMajorArcana(),
		CardData:      c.Definition,
		ImageKey:      c.ImageKey(),
		ImageURL:      c.ImageURL(imageBase),
	}
	if suit, ok := c.Suit(); ok {
		view.Suit = &suit
	}
	return view
}
