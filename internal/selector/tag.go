package selector

import "fmt"

// Tag identifies one of the built-in effects.
type Tag int

const (
	Rainbow Tag = iota
	Cycle
	Breathing
	Wave

	// Count is the number of effects; every valid Tag is in [0, Count).
	Count int = iota
)

var names = [Count]string{
	Rainbow:   "rainbow",
	Cycle:     "cycle",
	Breathing: "breathing",
	Wave:      "wave",
}

// Valid reports whether t names an effect.
func (t Tag) Valid() bool { return t >= 0 && int(t) < Count }

// String returns the effect name shown on the display. Out-of-range tags
// fall back to the first effect's name.
func (t Tag) String() string {
	if !t.Valid() {
		return names[Rainbow]
	}
	return names[t]
}

// Next returns the tag after t, wrapping to the first.
func (t Tag) Next() Tag { return Tag((int(t) + 1) % Count) }

// Tags lists every effect in selection order.
func Tags() []Tag {
	out := make([]Tag, Count)
	for i := range out {
		out[i] = Tag(i)
	}
	return out
}

// ParseTag maps an effect name back to its Tag.
func ParseTag(name string) (Tag, error) {
	for i, n := range names {
		if n == name {
			return Tag(i), nil
		}
	}
	return 0, fmt.Errorf("unknown effect %q", name)
}
