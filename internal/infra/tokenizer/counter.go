package tokenizer

import (
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/pkoukk/tiktoken-go"
)

// Counter estimates prompt tokens for the history budget.
type Counter struct {
	encoding *tiktoken.Tiktoken
}

// NewCounter loads the named BPE encoding. When the encoding cannot be loaded
// the counter estimates from rune counts instead.
func NewCounter(encoding string, logger *slog.Logger) *Counter {
	if strings.TrimSpace(encoding) == "" {
		encoding = "cl100k_base"
	}
	enc, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		logger.Warn("token encoding unavailable, estimating token counts", "encoding", encoding, "error", err)
		return &Counter{}
	}
	return &Counter{encoding: enc}
}

// Count implements chat.TokenCounter.
func (c *Counter) Count(text string) int {
	if text == "" {
		return 0
	}
	if c == nil || c.encoding == nil {
		return estimate(text)
	}
	return len(c.encoding.Encode(text, nil, nil))
}

// estimate charges one token per non-ASCII rune and one per four ASCII bytes.
func estimate(text string) int {
	runes := utf8.RuneCountInString(text)
	ascii := 0
	for i := 0; i < len(text); i++ {
		if text[i] < utf8.RuneSelf {
			ascii++
		}
	}
	wide := runes - ascii
	return wide + (ascii+3)/4
}

// NewEstimator returns a counter that never loads an encoding.
func NewEstimator() *Counter {
	return &Counter{}
}
