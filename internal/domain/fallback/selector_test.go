package fallback

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSelectorSelect(t *testing.T) {
	s := NewSelector(DefaultEntries(), "")
	entries := DefaultEntries()

	require.Equal(t, entries[0].Response, s.Select("기도에 대해 알려주세요"))
	require.Equal(t, entries[1].Response, s.Select("구원은 어떻게 받나요"))
	require.Equal(t, entries[2].Response, s.Select("말씀 묵상 방법"))
	require.Equal(t, DefaultResponse, s.Select("xyz random unmatched"))
}

func TestSelectorFirstMatchWins(t *testing.T) {
	s := NewSelector(DefaultEntries(), "")

	entry, ok := s.Match("성경에 나오는 기도")
	require.True(t, ok)
	require.Equal(t, "prayer", entry.Name)
}

func TestSelectorIsIdempotent(t *testing.T) {
	s := NewSelector(DefaultEntries(), "")
	first := s.Select("기도에 대해 알려주세요")
	second := s.Select("기도에 대해 알려주세요")
	require.Equal(t, first, second)
}

func TestSelectorCustomTable(t *testing.T) {
	s := NewSelector([]Entry{
		{Name: "grace", Keywords: []string{" Grace "}, Response: "grace answer"},
		{Name: "empty", Keywords: []string{"  "}, Response: "never"},
		{Name: "silent", Keywords: []string{"hope"}, Response: ""},
	}, "sorry")

	require.Equal(t, "grace answer", s.Select("What is GRACE"))
	require.Equal(t, "sorry", s.Select("hope"))
	require.Equal(t, "sorry", s.Default())
}
