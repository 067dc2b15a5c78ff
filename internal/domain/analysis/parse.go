package analysis

import (
	"regexp"
	"strings"
)

var (
	interpretationSection = sectionPattern("牌面解读")
	guidanceSection       = sectionPattern("实用指导")
	keyMessageSection     = sectionPattern("核心信息")
)

// A section body runs until the next 【 or the end of the text. A line
// holding only "2." right before the next 【 numbers that section and is
// left out of the body.
func sectionPattern(title string) *regexp.Regexp {
	return regexp.MustCompile(`【` + title + `】[：:]\s*([^【]*?)(?:\s*\n[ \t]*\d+[.、．][ \t]*)?(?:【|$)`)
}

type sections struct {
	interpretation string
	guidance       string
	keyMessage     string
}

// parseSingleCard splits a single card answer into its three labelled
// sections. When none is found the whole text becomes the interpretation.
func parseSingleCard(text string) sections {
	out := sections{
		interpretation: extract(interpretationSection, text),
		guidance:       extract(guidanceSection, text),
		keyMessage:     extract(keyMessageSection, text),
	}
	if out.interpretation == "" && out.guidance == "" && out.keyMessage == "" {
		out.interpretation = text
	}
	return out
}

func extract(pattern *regexp.Regexp, text string) string {
	m := pattern.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}
