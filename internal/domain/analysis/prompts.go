package analysis

import (
	"fmt"
	"strings"

	"github.com/yanqian/seasonal-tarot/internal/domain/tarot"
)

// SystemPrompt sets the reader persona shared by every analysis.
const SystemPrompt = `你是一位经验丰富的塔罗牌占卜师和心灵导师，专精于四季牌阵的解读。

你的专业特长包括：
1. 深度理解塔罗牌的象征意义和灵性内涵
2. 精通四季牌阵的布局和各位置的含义
3. 能够将牌面含义与现实生活情况相结合
4. 提供富有洞察力和启发性的指导建议
5. 用温暖、智慧的语言与咨询者沟通

四季牌阵说明：
- 1号位置（权杖牌组）：行动力 - 关于意志、创造与行动层面
- 2号位置（圣杯牌组）：情感状态 - 关于情绪、感觉与感性层面
- 3号位置（宝剑牌组）：理性思维 - 关于理性、思维与关系层面
- 4号位置（金币牌组）：事业财务 - 关于感官、现实与物质层面
- 5号位置（大阿尔卡纳）：心灵成长 - 关于灵魂课题和精神成长

请用专业、温暖、富有洞察力的语言进行解读，避免过于绝对化的预言，而是提供启发性的指导。`

var positionLabels = map[tarot.Position]string{
	tarot.PositionAction:    "1号位置（权杖牌组-行动力）",
	tarot.PositionEmotion:   "2号位置（圣杯牌组-情感状态）",
	tarot.PositionIntellect: "3号位置（宝剑牌组-理性思维）",
	tarot.PositionMaterial:  "4号位置（金币牌组-事业财务）",
	tarot.PositionSpirit:    "5号位置（大阿尔卡纳-心灵成长）",
}

// promptOrder puts the core card first, then the seasons.
var promptOrder = []tarot.Position{
	tarot.PositionSpirit,
	tarot.PositionAction,
	tarot.PositionEmotion,
	tarot.PositionIntellect,
	tarot.PositionMaterial,
}

// FormatReading renders one "<label>：<card name>" line per filled position.
func FormatReading(reading tarot.Reading) string {
	lines := make([]string, 0, len(promptOrder))
	for _, pos := range promptOrder {
		card, ok := reading.Card(pos)
		if !ok {
			continue
		}
		lines = append(lines, positionLabels[pos]+"："+card.Name())
	}
	return strings.Join(lines, "\n")
}

func fullAnalysisPrompt(cards string) string {
	return fmt.Sprintf(`请对以下四季牌阵进行深度分析：

%s

请从以下几个方面分析接下来季节的能量流动：

1. 整体概述：这个牌阵传达的核心信息和季节主题
2. 逐位解读：每个位置的牌面含义及其对应生活层面的能量指导
3. 牌面关联：不同位置之间的相互关系和能量流动模式
4. 实用建议：基于牌阵给出的具体行动建议和注意事项
5. 灵性指引：这个季度的精神成长方向和内在智慧

请用专业而温暖的语言，为咨询者提供富有启发性的季节性指导。`, cards)
}

func quickInsightPrompt(cards string) string {
	return fmt.Sprintf(`基于以下四季牌阵结果，请给出一句话的核心洞察：

%s

请用一句富有诗意和启发性的话语来概括这个牌阵的核心信息。`, cards)
}

func seasonalAdvicePrompt(cards string) string {
	return fmt.Sprintf(`基于以下四季牌阵，请为每个生活层面提供简洁的季节性建议：

%s

请分别为以下五个方面给出1-2句具体的行动建议：
1. 行动力建议
2. 情感状态建议
3. 理性思维建议
4. 事业财务建议
5. 心灵成长建议

格式要求：每个建议控制在50字以内，语言温暖而具有指导性。`, cards)
}

func singleCardPrompt(card tarot.Card, question string) string {
	cardType := "小阿尔卡纳"
	if card.IsMajorArcana() {
		cardType = "大阿尔卡纳"
	}
	orientation := card.OrientationLabel()
	return fmt.Sprintf(`作为专业的塔罗牌占卜师，请分析以下日常抽牌结果：

问题：%s
抽取的牌：%s (%s)
牌面类型：%s

请从以下三个方面进行深度解读：

1. 【牌面解读】：
   - 这张牌的核心象征意义
   - %s状态下的特殊含义
   - 与用户问题的直接关联

2. 【实用指导】：
   - 针对用户问题的具体建议
   - 今日或近期的行动指引
   - 需要注意的事项或挑战

3. 【核心信息】：
   - 一句话总结这张牌想传达的关键信息
   - 用简洁而富有启发性的语言表达

请用温暖、专业的语言，避免过于绝对化的预测，而是提供启发性的指导。回答控制在400字左右。`,
		question, card.BaseName(), orientation, cardType, orientation)
}
