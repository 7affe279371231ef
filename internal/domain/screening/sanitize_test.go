package screening

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSanitize(t *testing.T) {
	cases := []struct {
		in  string
		out string
	}{
		{in: "  기도는   어떻게 하나요 😊 ", out: "기도는 어떻게 하나요?"},
		{in: "구원이란 무엇인가요?", out: "구원이란 무엇인가요?"},
		{in: "성경을 읽읍시다!", out: "성경을 읽읍시다!"},
		{in: "요한복음 3:16 설명", out: "요한복음 3:16 설명?"},
		{in: "   ", out: ""},
	}
	for _, tc := range cases {
		require.Equal(t, tc.out, Sanitize(tc.in), tc.in)
	}
}

func TestAnalyzeComplexity(t *testing.T) {
	simple := AnalyzeComplexity("기도란 무엇인가요?")
	require.Equal(t, LevelSimple, simple.Level)
	require.Equal(t, 2, simple.WordCount)
	require.Equal(t, 1, simple.SentenceCount)

	medium := AnalyzeComplexity(strings.Repeat("말씀 ", 21))
	require.Equal(t, LevelMedium, medium.Level)

	complexQ := AnalyzeComplexity("하나. 둘. 셋. 넷. 다섯.")
	require.Equal(t, LevelComplex, complexQ.Level)
	require.Equal(t, 5, complexQ.SentenceCount)
}
