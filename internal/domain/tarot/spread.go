package tarot

// PositionInfo describes one seat of the seasonal spread.
type PositionInfo struct {
	Name    string `json:"name"`
	Suit    string `json:"suit"`
	Meaning string `json:"meaning"`
	Season  string `json:"season"`
}

// LayoutInfo describes how the five cards are laid out.
type LayoutInfo struct {
	Description string `json:"description"`
	Pattern     string `json:"pattern"`
}

// SpreadInfo is the static description of the seasonal spread.
type SpreadInfo struct {
	Name           string               `json:"name"`
	Description    string               `json:"description"`
	Positions      map[int]PositionInfo `json:"positions"`
	Layout         LayoutInfo           `json:"layout"`
	TraditionalUse string               `json:"traditionalUse"`
}

// SeasonalSpreadInfo returns a fresh copy of the seasonal spread description.
func SeasonalSpreadInfo() SpreadInfo {
	return SpreadInfo{
		Name:        string(SpreadTypeSeasonal),
		Description: "传统塔罗牌阵，用于季节性指导和生活层面分析",
		Positions: map[int]PositionInfo{
			1: {Name: "行动力", Suit: "权杖牌组", Meaning: "关于意志、创造与行动层面", Season: "春"},
			2: {Name: "情感状态", Suit: "圣杯牌组", Meaning: "关于情绪、感觉与感性层面", Season: "夏"},
			3: {Name: "理性思维", Suit: "宝剑牌组", Meaning: "关于理性、思维与关系层面", Season: "秋"},
			4: {Name: "事业财务", Suit: "金币牌组", Meaning: "关于感官、现实与物质层面", Season: "冬"},
			5: {Name: "灵性成长", Suit: "大阿尔卡纳", Meaning: "关于灵魂课题和精神成长", Season: "核心"},
		},
		Layout: LayoutInfo{
			Description: "十字形布局",
			Pattern:     "    4\n1   5   3\n    2",
		},
		TraditionalUse: "传统上仅在四个节气使用（春分、夏至、秋分、冬至）",
	}
}
