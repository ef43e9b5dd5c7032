package game

const thoughtLogSize = 60

// ThoughtEntry is a single line in the thought log.
type ThoughtEntry struct {
	Tick    int
	Label   string // e.g. "BK3", "RW9"
	Team    Team
	Message string
}

// ThoughtLog is a ring buffer of unit thoughts, shown by the viewer.
type ThoughtLog struct {
	entries []ThoughtEntry
	head    int
	count   int
}

// NewThoughtLog creates a thought log with a fixed capacity.
func NewThoughtLog() *ThoughtLog {
	return &ThoughtLog{
		entries: make([]ThoughtEntry, thoughtLogSize),
	}
}

// Add appends an entry, overwriting the oldest once full.
func (tl *ThoughtLog) Add(tick int, label string, team Team, msg string) {
	tl.entries[tl.head] = ThoughtEntry{
		Tick:    tick,
		Label:   label,
		Team:    team,
		Message: msg,
	}
	tl.head = (tl.head + 1) % thoughtLogSize
	if tl.count < thoughtLogSize {
		tl.count++
	}
}

// Len is the number of entries held.
func (tl *ThoughtLog) Len() int { return tl.count }

// Recent returns entries in chronological order (oldest first).
func (tl *ThoughtLog) Recent() []ThoughtEntry {
	result := make([]ThoughtEntry, tl.count)
	for i := 0; i < tl.count; i++ {
		idx := (tl.head - tl.count + i + thoughtLogSize) % thoughtLogSize
		result[i] = tl.entries[idx]
	}
	return result
}

// For returns the held entries of one unit, oldest first.
func (tl *ThoughtLog) For(label string) []ThoughtEntry {
	var out []ThoughtEntry
	for _, e := range tl.Recent() {
		if e.Label == label {
			out = append(out, e)
		}
	}
	return out
}
