package tarot

import (
	"encoding/json"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"
)

func sampleReading(t *testing.T) Reading {
	t.Helper()
	draw, err := NewDealer(rand.New(rand.NewPCG(8, 8))).DrawSpread()
	require.NoError(t, err)
	return draw.Reading
}

func TestValidateReading(t *testing.T) {
	full := sampleReading(t)

	missingTwo := sampleReading(t)
	delete(missingTwo, PositionEmotion)
	delete(missingTwo, PositionSpirit)

	broken := sampleReading(t)
	broken[PositionIntellect] = Card{}

	tests := []struct {
		name    string
		reading Reading
		valid   bool
		errs    []string
	}{
		{name: "complete", reading: full, valid: true, errs: []string{}},
		{name: "empty", reading: Reading{}, errs: []string{
			"missing position 1", "missing position 2", "missing position 3", "missing position 4", "missing position 5",
		}},
		{name: "two missing", reading: missingTwo, errs: []string{"missing position 2", "missing position 5"}},
		{name: "invalid card", reading: broken, errs: []string{"invalid card at position 3"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := ValidateReading(tt.reading)
			require.Equal(t, tt.valid, out.IsValid)
			require.Equal(t, tt.errs, out.Errors)
		})
	}
}

func TestReadingJSONRoundTrip(t *testing.T) {
	reading := sampleReading(t)
	raw, err := json.Marshal(reading)
	require.NoError(t, err)

	var keys map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &keys))
	require.Len(t, keys, 5)
	require.Contains(t, keys, "1")
	require.Contains(t, keys, "5")

	var back Reading
	require.NoError(t, json.Unmarshal(raw, &back))
	require.Equal(t, reading, back)
}

func TestReadingJSONMalformedCard(t *testing.T) {
	payload := `{
		"1": {"cardData": {"kind": "minor", "suit": "wands", "rank": 3, "name": "权杖三"}, "isReversed": false},
		"2": {"cardData": {"kind": "sideways"}},
		"3": "not a card"
	}`
	var reading Reading
	require.NoError(t, json.Unmarshal([]byte(payload), &reading))

	out := ValidateReading(reading)
	require.False(t, out.IsValid)
	require.Equal(t, []string{
		"invalid card at position 2",
		"invalid card at position 3",
		"missing position 4",
		"missing position 5",
	}, out.Errors)
}

func TestReadingJSONRejectsNonNumericPosition(t *testing.T) {
	var reading Reading
	err := json.Unmarshal([]byte(`{"first": {}}`), &reading)
	require.Error(t, err)
}

func TestReadingViews(t *testing.T) {
	views := sampleReading(t).Views("")
	require.Len(t, views, 5)
	require.True(t, views["5"].IsMajorArcana)
	require.NotNil(t, views["1"].Suit)
	require.Equal(t, SuitWands, *views["1"].Suit)
}

func TestSeasonalSpreadInfo(t *testing.T) {
	info := SeasonalSpreadInfo()
	require.Equal(t, "四季牌阵", info.Name)
	require.Len(t, info.Positions, 5)
	require.Equal(t, "权杖牌组", info.Positions[1].Suit)
	require.Equal(t, "大阿尔卡纳", info.Positions[5].Suit)

	info.Positions[1] = PositionInfo{}
	require.Equal(t, "行动力", SeasonalSpreadInfo().Positions[1].Name)
}
