package chat

// HistoryCapacity is the number of sent lines kept for recall
const HistoryCapacity = 60

// History remembers sent input lines for up/down recall. The line being typed
// when navigation starts is kept as a draft and restored past the newest entry.
type History struct {
	entries []string
	cursor  int // -1 when not navigating
	draft   string
}

// NewHistory creates an empty history
func NewHistory() *History {
	return &History{cursor: -1}
}

// Push records a sent line. Repeating the last line is not recorded twice.
func (h *History) Push(msg string) {
	if len(h.entries) == 0 || h.entries[len(h.entries)-1] != msg {
		h.entries = append(h.entries, msg)
		if len(h.entries) > HistoryCapacity {
			h.entries = h.entries[len(h.entries)-HistoryCapacity:]
		}
	}
	h.Reset()
}

// Reset leaves navigation mode and forgets the draft
func (h *History) Reset() {
	h.cursor = -1
	h.draft = ""
}

// Navigate moves dir steps (-1 older, +1 newer) and returns the line to show.
// It returns false when there is nothing to navigate.
func (h *History) Navigate(dir int, current string) (string, bool) {
	if len(h.entries) == 0 {
		return "", false
	}

	if h.cursor == -1 {
		h.draft = current
		h.cursor = len(h.entries)
	}

	h.cursor += dir
	if h.cursor < 0 {
		h.cursor = 0
	}
	if h.cursor > len(h.entries) {
		h.cursor = len(h.entries)
	}

	if h.cursor == len(h.entries) {
		return h.draft, true
	}
	return h.entries[h.cursor], true
}

// Navigating reports whether the cursor is inside the history
func (h *History) Navigating() bool {
	return h.cursor != -1
}

// Entries returns a copy of the stored lines, oldest first
func (h *History) Entries() []string {
	out := make([]string, len(h.entries))
	copy(out, h.entries)
	return out
}
