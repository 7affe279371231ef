package screening

import (
	"strings"
	"unicode/utf8"
)

// Reason classifies the validation outcome.
type Reason string

const (
	ReasonValid           Reason = "VALID"
	ReasonMessageRequired Reason = "MESSAGE_REQUIRED"
	ReasonTooShort        Reason = "TOO_SHORT"
	ReasonTooLong         Reason = "TOO_LONG"
	ReasonInvalidFormat   Reason = "INVALID_FORMAT"
	ReasonOffTopic        Reason = "OFF_TOPIC"
)

// Result is returned by Validate.
type Result struct {
	Valid   bool
	Reason  Reason
	Message string
}

// Emergency is returned by DetectEmergency.
type Emergency struct {
	IsEmergency bool
	Message     string
}

// Filter decides whether a question is in scope. It is immutable after construction and
// safe for concurrent use.
type Filter struct {
	cfg              Config
	keywords         []string
	faithExpressions []string
	prohibited       []string
	greetings        []string
	emergency        []string
}

// NewFilter lower-cases every term once so matching only lower-cases the question.
func NewFilter(cfg Config) *Filter {
	return &Filter{
		cfg:              cfg,
		keywords:         lowerAll(cfg.Keywords),
		faithExpressions: lowerAll(cfg.FaithExpressions),
		prohibited:       lowerAll(cfg.Prohibited),
		greetings:        lowerAll(cfg.Greetings),
		emergency:        lowerAll(cfg.EmergencyPhrases),
	}
}

// IsRelevant reports whether the question is a Bible/faith question with no prohibited topic.
func (f *Filter) IsRelevant(question string) bool {
	if len(f.keywords) == 0 {
		return false
	}
	normalized := strings.ToLower(question)

	hasKeyword := containsAny(normalized, f.keywords)
	hasFaithExpression := containsAny(normalized, f.faithExpressions)
	hasGreeting := f.cfg.AllowGreetings && containsAny(normalized, f.greetings)
	hasProhibited := containsAny(normalized, f.prohibited)

	return (hasKeyword || hasFaithExpression || hasGreeting) && !hasProhibited
}

// Validate applies the input rules in order; the first failure wins.
func (f *Filter) Validate(question string) Result {
	if utf8.RuneCountInString(strings.TrimSpace(question)) < f.cfg.MinLength {
		return f.reject(ReasonTooShort)
	}
	if utf8.RuneCountInString(question) > f.cfg.MaxLength {
		return f.reject(ReasonTooLong)
	}
	if longestRun(question) > f.cfg.MaxRepeat {
		return f.reject(ReasonInvalidFormat)
	}
	if !f.IsRelevant(question) {
		return f.reject(ReasonOffTopic)
	}
	return Result{Valid: true, Reason: ReasonValid}
}

// DetectEmergency looks for crisis phrases. It does not depend on relevance.
func (f *Filter) DetectEmergency(question string) Emergency {
	if containsAny(strings.ToLower(question), f.emergency) {
		return Emergency{IsEmergency: true, Message: f.cfg.EmergencyMessage}
	}
	return Emergency{}
}

// Message returns the configured text for a reason.
func (f *Filter) Message(reason Reason) string {
	msgs := f.cfg.Messages
	switch reason {
	case ReasonMessageRequired:
		return msgs.MessageRequired
	case ReasonTooShort:
		return msgs.TooShort
	case ReasonTooLong:
		return msgs.TooLong
	case ReasonInvalidFormat:
		return msgs.InvalidFormat
	case ReasonOffTopic:
		return msgs.OffTopic
	default:
		return ""
	}
}

func (f *Filter) reject(reason Reason) Result {
	return Result{Valid: false, Reason: reason, Message: f.Message(reason)}
}

func longestRun(s string) int {
	var (
		prev    rune
		run     int
		longest int
	)
	for i, r := range []rune(s) {
		if i > 0 && r == prev {
			run++
		} else {
			run = 1
		}
		prev = r
		if run > longest {
			longest = run
		}
	}
	return longest
}

func containsAny(text string, terms []string) bool {
	for _, term := range terms {
		if term != "" && strings.Contains(text, term) {
			return true
		}
	}
	return false
}

func lowerAll(terms []string) []string {
	out := make([]string, 0, len(terms))
	for _, term := range terms {
		term = strings.ToLower(strings.TrimSpace(term))
		if term == "" {
			continue
		}
		out = append(out, term)
	}
	return out
}
