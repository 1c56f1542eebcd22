package crew

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// MinuteTotals maps member ids to cumulative minutes and remembers the
// order in which members were first added. The order is the leaderboard
// tie-break and survives a JSON round trip.
type MinuteTotals struct {
	order   []string
	minutes map[string]int
}

func NewMinuteTotals() *MinuteTotals {
	return &MinuteTotals{minutes: make(map[string]int)}
}

func (t *MinuteTotals) Len() int {
	if t == nil {
		return 0
	}
	return len(t.order)
}

// Get returns the total for memberID and whether it exists.
func (t *MinuteTotals) Get(memberID string) (int, bool) {
	if t == nil {
		return 0, false
	}
	m, ok := t.minutes[memberID]
	return m, ok
}

// Set stores minutes for memberID, appending new members at the end.
func (t *MinuteTotals) Set(memberID string, minutes int) {
	if t.minutes == nil {
		t.minutes = make(map[string]int)
	}
	if _, ok := t.minutes[memberID]; !ok {
		t.order = append(t.order, memberID)
	}
	t.minutes[memberID] = minutes
}

// Add applies delta to memberID's total, flooring at zero, and returns
// the new total.
func (t *MinuteTotals) Add(memberID string, delta int) int {
	current, _ := t.Get(memberID)
	next := current + delta
	if next < 0 {
		next = 0
	}
	t.Set(memberID, next)
	return next
}

// Entry is one member's total.
type Entry struct {
	MemberID string
	Minutes  int
}

// Entries returns the totals in insertion order.
func (t *MinuteTotals) Entries() []Entry {
	if t == nil {
		return nil
	}
	out := make([]Entry, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, Entry{MemberID: id, Minutes: t.minutes[id]})
	}
	return out
}

func (t *MinuteTotals) Clone() *MinuteTotals {
	c := NewMinuteTotals()
	if t == nil {
		return c
	}
	c.order = append(c.order, t.order...)
	for k, v := range t.minutes {
		c.minutes[k] = v
	}
	return c
}

// Equal reports whether both totals hold the same entries in the same order.
func (t *MinuteTotals) Equal(o *MinuteTotals) bool {
	a, b := t.Entries(), o.Entries()
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func (t *MinuteTotals) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range t.Entries() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.MemberID)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		fmt.Fprintf(&buf, ":%d", e.Minutes)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (t *MinuteTotals) UnmarshalJSON(data []byte) error {
	t.order = nil
	t.minutes = make(map[string]int)

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("shift totals: expected object, got %v", tok)
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("shift totals: expected member id, got %v", tok)
		}
		var minutes int
		if err := dec.Decode(&minutes); err != nil {
			return fmt.Errorf("shift totals for %s: %w", key, err)
		}
		if minutes < 0 {
			minutes = 0
		}
		t.Set(key, minutes)
	}
	_, err = dec.Token()
	return err
}
