package chat

import (
	"regexp"
	"strings"

	"github.com/yanqian/bible-chat/internal/domain/screening"
)

type guidance struct {
	keywords []string
	text     string
}

// Checked in order; the first matching category adds its guidance to the system prompt.
var categoryGuidance = []guidance{
	{
		keywords: []string{"구원", "칭의", "은혜", "믿음"},
		text:     "구원은 오직 은혜로, 오직 믿음으로 말미암는다는 종교개혁의 가르침을 중심으로 설명하세요.",
	},
	{
		keywords: []string{"예정", "선택", "언약", "섭리"},
		text:     "하나님의 주권과 인간의 책임을 균형 있게 다루고, 웨스트민스터 신앙고백을 참고하세요.",
	},
	{
		keywords: []string{"기도", "간구", "예배"},
		text:     "주기도문과 시편을 예로 들어 실천적인 방법을 함께 제시하세요.",
	},
	{
		keywords: []string{"성화", "회개", "죄", "용서"},
		text:     "성화는 성령의 역사로 평생에 걸쳐 이루어진다는 점을 목회적으로 따뜻하게 설명하세요.",
	},
	{
		keywords: []string{"성경", "말씀", "해석"},
		text:     "성경이 성경을 해석한다는 원리에 따라 문맥과 관련 구절을 함께 제시하세요.",
	},
}

const complexGuidance = "질문이 길고 복잡하므로 핵심 논점을 항목별로 정리해 답변하세요."

func guidanceFor(question string) string {
	normalized := strings.ToLower(question)
	for _, g := range categoryGuidance {
		for _, kw := range g.keywords {
			if strings.Contains(normalized, kw) {
				return g.text
			}
		}
	}
	return ""
}

func buildSystemPrompt(base, question string, complexity screening.Complexity) string {
	var b strings.Builder
	b.WriteString(strings.TrimSpace(base))
	if g := guidanceFor(question); g != "" {
		b.WriteString("\n\n특별 지침: ")
		b.WriteString(g)
	}
	if complexity.Level == screening.LevelComplex {
		b.WriteString("\n\n")
		b.WriteString(complexGuidance)
	}
	return b.String()
}

func buildUserPrompt(template, question string) string {
	if !strings.Contains(template, QuestionPlaceholder) {
		return strings.TrimSpace(template + " " + question)
	}
	return strings.ReplaceAll(template, QuestionPlaceholder, question)
}

var extraNewlines = regexp.MustCompile(`\n{3,}`)

const truncatedSuffix = "\n\n더 자세한 내용이 필요하시면 다시 질문해주세요."

// formatAnswer cuts overly long answers at a sentence boundary and tidies blank lines.
func formatAnswer(answer string, maxLen int) string {
	if maxLen > 0 {
		runes := []rune(answer)
		if len(runes) > maxLen {
			cut := maxLen - maxLen/15
			if cut > len(runes) {
				cut = len(runes)
			}
			truncated := string(runes[:cut])
			last := strings.LastIndex(truncated, ".")
			if last >= 0 && len([]rune(truncated[:last])) > maxLen*2/3 {
				answer = truncated[:last+1] + truncatedSuffix
			}
		}
	}
	answer = extraNewlines.ReplaceAllString(answer, "\n\n")
	return strings.TrimSpace(answer)
}
