package console

// history is a bounded list of entered lines with a browsing cursor.
type history struct {
	lines []string
	max   int
	pos   int
}

func newHistory(max int) *history {
	if max <= 0 {
		max = 100
	}
	return &history{max: max}
}

// add appends line unless it repeats the previous entry, and resets the
// cursor past the newest entry.
func (h *history) add(line string) {
	if n := len(h.lines); n == 0 || h.lines[n-1] != line {
		h.lines = append(h.lines, line)
		if len(h.lines) > h.max {
			h.lines = h.lines[len(h.lines)-h.max:]
		}
	}
	h.pos = len(h.lines)
}

// prev moves towards older entries.
func (h *history) prev() (string, bool) {
	if h.pos == 0 {
		return "", false
	}
	h.pos--
	return h.lines[h.pos], true
}

// next moves towards newer entries. Past the newest it yields "".
func (h *history) next() (string, bool) {
	if h.pos >= len(h.lines) {
		return "", false
	}
	h.pos++
	if h.pos == len(h.lines) {
		return "", true
	}
	return h.lines[h.pos], true
}
