package tarot

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Kind separates the major arcana from the suited minor arcana.
type Kind int

const (
	KindMajor Kind = iota + 1
	KindMinor
)

func (k Kind) String() string {
	switch k {
	case KindMajor:
		return "major"
	case KindMinor:
		return "minor"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "major":
		*k = KindMajor
	case "minor":
		*k = KindMinor
	default:
		return fmt.Errorf("unknown card kind %q", string(text))
	}
	return nil
}

// Suit names one of the four minor arcana suits.
type Suit string

const (
	SuitWands     Suit = "wands"
	SuitCups      Suit = "cups"
	SuitSwords    Suit = "swords"
	SuitPentacles Suit = "pentacles"
)

// Suits lists the suits in catalog order.
var Suits = []Suit{SuitWands, SuitCups, SuitSwords, SuitPentacles}

func (s Suit) valid() bool {
	switch s {
	case SuitWands, SuitCups, SuitSwords, SuitPentacles:
		return true
	}
	return false
}

// Rank is 1..10 for pip cards followed by the four court ranks.
type Rank int

const (
	RankPage Rank = iota + 11
	RankKnight
	RankQueen
	RankKing
)

var courtNames = map[Rank]string{
	RankPage:   "page",
	RankKnight: "knight",
	RankQueen:  "queen",
	RankKing:   "king",
}

func (r Rank) valid() bool {
	return r >= 1 && r <= RankKing
}

// IsCourt reports whether r is page, knight, queen or king.
func (r Rank) IsCourt() bool {
	return r >= RankPage && r <= RankKing
}

func (r Rank) String() string {
	if name, ok := courtNames[r]; ok {
		return name
	}
	return strconv.Itoa(int(r))
}

// MarshalJSON renders pip ranks as numbers and court ranks by name.
func (r Rank) MarshalJSON() ([]byte, error) {
	if name, ok := courtNames[r]; ok {
		return json.Marshal(name)
	}
	return json.Marshal(int(r))
}

// UnmarshalJSON accepts either representation produced by MarshalJSON.
func (r *Rank) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		*r = Rank(n)
		return nil
	}
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return fmt.Errorf("rank must be a number or court name: %w", err)
	}
	for rank, court := range courtNames {
		if court == name {
			*r = rank
			return nil
		}
	}
	return fmt.Errorf("unknown court rank %q", name)
}

// CardDefinition is one immutable catalog entry.
type CardDefinition struct {
	Kind        Kind   `json:"kind"`
	MajorID     int    `json:"majorId,omitempty"`
	Suit        Suit   `json:"suit,omitempty"`
	Rank        Rank   `json:"rank,omitempty"`
	DisplayName string `json:"name"`
}

// Valid reports whether d is structurally well formed.
func (d CardDefinition) Valid() bool {
	if d.DisplayName == "" {
		return false
	}
	switch d.Kind {
	case KindMajor:
		return d.MajorID >= 0 && d.MajorID < MajorArcanaCount && d.Suit == "" && d.Rank == 0
	case KindMinor:
		return d.Suit.valid() && d.Rank.valid()
	default:
		return false
	}
}

const (
	MajorArcanaCount = 22
	RanksPerSuit     = 14
	DeckSize         = MajorArcanaCount + RanksPerSuit*4
)

var majorNames = [MajorArcanaCount]string{
	"愚人", "魔术师", "女祭司", "女皇", "皇帝", "教皇", "恋人", "战车", "力量", "隐士", "命运之轮",
	"正义", "倒吊人", "死神", "节制", "恶魔", "高塔", "星星", "月亮", "太阳", "审判", "世界",
}

var suitNames = map[Suit]string{
	SuitWands:     "权杖",
	SuitCups:      "圣杯",
	SuitSwords:    "宝剑",
	SuitPentacles: "金币",
}

var rankNames = [RanksPerSuit]string{
	"一", "二", "三", "四", "五", "六", "七", "八", "九", "十", "侍从", "骑士", "皇后", "国王",
}

var catalog = buildCatalog()

func buildCatalog() []CardDefinition {
	out := make([]CardDefinition, 0, DeckSize)
	for id, name := range majorNames {
		out = append(out, CardDefinition{Kind: KindMajor, MajorID: id, DisplayName: name})
	}
	for _, suit := range Suits {
		for i, rankName := range rankNames {
			out = append(out, CardDefinition{
				Kind:        KindMinor,
				Suit:        suit,
				Rank:        Rank(i + 1),
				DisplayName: suitNames[suit] + rankName,
			})
		}
	}
	return out
}

// Catalog returns a copy of all 78 definitions: majors by id, then each suit by rank.
func Catalog() []CardDefinition {
	out := make([]CardDefinition, len(catalog))
	copy(out, catalog)
	return out
}
