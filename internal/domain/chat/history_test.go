package chat

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHistoryEvictsOldestExchange(t *testing.T) {
	h := NewHistory(2, nil)
	h.Append(RoleUser, "q1")
	h.Append(RoleAssistant, "a1")
	h.Append(RoleUser, "q2")
	h.Append(RoleAssistant, "a2")
	h.Append(RoleUser, "q3")
	h.Append(RoleAssistant, "a3")

	require.Equal(t, 4, h.Len())
	require.Equal(t, []Turn{
		{Role: RoleUser, Content: "q2"},
		{Role: RoleAssistant, Content: "a2"},
		{Role: RoleUser, Content: "q3"},
		{Role: RoleAssistant, Content: "a3"},
	}, h.Turns())
}

func TestHistorySeedIsCapped(t *testing.T) {
	seed := []Turn{
		{Role: RoleUser, Content: "q1"},
		{Role: RoleAssistant, Content: "a1"},
		{Role: RoleUser, Content: "q2"},
		{Role: RoleAssistant, Content: "a2"},
	}
	h := NewHistory(1, seed)
	require.Equal(t, seed[2:], h.Turns())

	h.Clear()
	require.Zero(t, h.Len())
}

func TestHistoryDisabled(t *testing.T) {
	h := NewHistory(0, []Turn{{Role: RoleUser, Content: "q"}})
	h.Append(RoleUser, "q2")
	require.Zero(t, h.Len())
	require.Nil(t, h.Recent(0, nil))
}

func TestHistoryTurnsReturnsCopy(t *testing.T) {
	h := NewHistory(1, nil)
	h.Append(RoleUser, "q")
	turns := h.Turns()
	turns[0].Content = "changed"
	require.Equal(t, "q", h.Turns()[0].Content)
}

func TestHistoryRecentRespectsTokenBudget(t *testing.T) {
	h := NewHistory(5, []Turn{
		{Role: RoleUser, Content: "a b"},
		{Role: RoleAssistant, Content: "c d e"},
		{Role: RoleUser, Content: "f"},
		{Role: RoleAssistant, Content: "g h"},
	})

	cases := []struct {
		name   string
		budget int
		want   int
	}{
		{name: "unbounded", budget: 0, want: 4},
		{name: "last exchange only", budget: 4, want: 2},
		{name: "leading assistant turn dropped", budget: 6, want: 2},
		{name: "everything fits", budget: 8, want: 4},
		{name: "nothing fits", budget: 1, want: 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := h.Recent(tc.budget, wordCounter{})
			require.Len(t, got, tc.want)
			if tc.want > 0 {
				require.Equal(t, RoleUser, got[0].Role)
			}
		})
	}
}
