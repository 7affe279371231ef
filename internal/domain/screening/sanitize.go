package screening

import (
	"regexp"
	"strings"
)

var (
	disallowedChars = regexp.MustCompile(`[^\w가-힣\s.,!?;:()\-"']`)
	whitespaceRun   = regexp.MustCompile(`\s+`)
	sentenceSplit   = regexp.MustCompile(`[.!?]+`)
)

// Sanitize cleans a validated question before it is placed in the upstream prompt.
func Sanitize(question string) string {
	cleaned := strings.TrimSpace(question)
	cleaned = disallowedChars.ReplaceAllString(cleaned, "")
	cleaned = whitespaceRun.ReplaceAllString(cleaned, " ")
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return cleaned
	}
	if !strings.HasSuffix(cleaned, "?") && !strings.HasSuffix(cleaned, ".") && !strings.HasSuffix(cleaned, "!") {
		cleaned += "?"
	}
	return cleaned
}

// Level is a coarse question complexity bucket.
type Level string

const (
	LevelSimple  Level = "simple"
	LevelMedium  Level = "medium"
	LevelComplex Level = "complex"
)

// Complexity summarises question size.
type Complexity struct {
	Level         Level
	WordCount     int
	SentenceCount int
}

// AnalyzeComplexity buckets a question by word and sentence counts.
func AnalyzeComplexity(question string) Complexity {
	words := len(strings.Fields(question))
	sentences := 0
	for _, part := range sentenceSplit.Split(question, -1) {
		if strings.TrimSpace(part) != "" {
			sentences++
		}
	}

	level := LevelSimple
	if words > 20 || sentences > 2 {
		level = LevelMedium
	}
	if words > 50 || sentences > 4 {
		level = LevelComplex
	}
	return Complexity{Level: level, WordCount: words, SentenceCount: sentences}
}
