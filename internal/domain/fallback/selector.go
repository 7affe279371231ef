package fallback

import "strings"

// Entry maps a group of keywords to a canned answer.
type Entry struct {
	Name     string
	Keywords []string
	Response string
}

// DefaultResponse is used when no entry matches.
const DefaultResponse = "죄송합니다. 현재 서비스에 일시적인 문제가 있습니다. 성경 말씀을 묵상하시거나 기도로 하나님께 직접 구하시기를 권합니다. \"너희 중에 누구든지 지혜가 부족하거든 모든 사람에게 후히 주시고 꾸짖지 아니하시는 하나님께 구하라 그리하면 주시리라\" (야고보서 1:5) 🙏"

// DefaultEntries returns the stock table. Order matters: the first match wins.
func DefaultEntries() []Entry {
	return []Entry{
		{
			Name:     "prayer",
			Keywords: []string{"기도", "간구"},
			Response: "기도는 하나님과의 소통이며, 우리의 필요를 아뢰고 하나님의 뜻을 구하는 것입니다. \"아무것도 염려하지 말고 다만 모든 일에 기도와 간구로, 너희 구할 것을 감사함으로 하나님께 아뢰라\" (빌립보서 4:6) 🙏",
		},
		{
			Name:     "salvation",
			Keywords: []string{"구원", "믿음", "예수"},
			Response: "구원은 오직 예수 그리스도를 믿음으로만 얻을 수 있습니다. \"믿음으로 말미암아 은혜로 구원을 받았나니 이것은 너희에게서 난 것이 아니요 하나님의 선물이라\" (에베소서 2:8) ✨",
		},
		{
			Name:     "scripture",
			Keywords: []string{"성경", "말씀"},
			Response: "성경은 하나님의 말씀으로 우리의 믿음과 행위에 완전한 지침이 됩니다. 체계적으로 읽으시려면 맥체인 성경읽기를 추천합니다. \"모든 성경은 하나님의 감동으로 된 것으로 교훈과 책망과 바르게 함과 의로 교육하기에 유익하니\" (디모데후서 3:16) 📖",
		},
	}
}

// Selector picks a canned answer when the completion service is unavailable.
// It is read-only after construction.
type Selector struct {
	entries         []Entry
	defaultResponse string
}

// NewSelector copies the table and lower-cases its keywords.
func NewSelector(entries []Entry, defaultResponse string) *Selector {
	if strings.TrimSpace(defaultResponse) == "" {
		defaultResponse = DefaultResponse
	}
	copied := make([]Entry, 0, len(entries))
	for _, entry := range entries {
		keywords := make([]string, 0, len(entry.Keywords))
		for _, kw := range entry.Keywords {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw != "" {
				keywords = append(keywords, kw)
			}
		}
		if len(keywords) == 0 || strings.TrimSpace(entry.Response) == "" {
			continue
		}
		copied = append(copied, Entry{Name: entry.Name, Keywords: keywords, Response: entry.Response})
	}
	return &Selector{entries: copied, defaultResponse: defaultResponse}
}

// Match returns the first entry with a keyword contained in the question.
func (s *Selector) Match(question string) (Entry, bool) {
	normalized := strings.ToLower(question)
	for _, entry := range s.entries {
		for _, kw := range entry.Keywords {
			if strings.Contains(normalized, kw) {
				return entry, true
			}
		}
	}
	return Entry{}, false
}

// Select returns the matched canned answer or the default message.
func (s *Selector) Select(question string) string {
	if entry, ok := s.Match(question); ok {
		return entry.Response
	}
	return s.defaultResponse
}

// Default exposes the generic apology.
func (s *Selector) Default() string {
	return s.defaultResponse
}
