package chat

// History is a bounded FIFO of conversation turns owned by one session.
type History struct {
	turns    []Turn
	maxTurns int
}

// NewHistory keeps at most 2*exchanges turns (one user and one assistant turn per exchange).
func NewHistory(exchanges int, seed []Turn) *History {
	h := &History{maxTurns: exchanges * 2}
	for _, turn := range seed {
		h.Append(turn.Role, turn.Content)
	}
	return h
}

// Append adds a turn and evicts the oldest entries past the cap.
func (h *History) Append(role, content string) {
	if h.maxTurns <= 0 {
		return
	}
	h.turns = append(h.turns, Turn{Role: role, Content: content})
	if overflow := len(h.turns) - h.maxTurns; overflow > 0 {
		h.turns = append([]Turn(nil), h.turns[overflow:]...)
	}
}

// Turns returns a copy in chronological order.
func (h *History) Turns() []Turn {
	return append([]Turn(nil), h.turns...)
}

// Len reports the number of stored turns.
func (h *History) Len() int {
	return len(h.turns)
}

// Clear drops every turn.
func (h *History) Clear() {
	h.turns = nil
}

// Recent returns the newest turns that fit the token budget, starting with a user turn.
func (h *History) Recent(budget int, counter TokenCounter) []Turn {
	if len(h.turns) == 0 {
		return nil
	}
	start := len(h.turns)
	used := 0
	for i := len(h.turns) - 1; i >= 0; i-- {
		if budget > 0 && counter != nil {
			cost := counter.Count(h.turns[i].Content)
			if used+cost > budget {
				break
			}
			used += cost
		}
		start = i
	}
	for start < len(h.turns) && h.turns[start].Role != RoleUser {
		start++
	}
	return append([]Turn(nil), h.turns[start:]...)
}
