package projection

// SameItem reports whether two view items refer to the same node.
// Identity is the linkId alone.
func SameItem(a, b ViewItem) bool {
	return a.LinkID() == b.LinkID()
}

// SameContent reports whether two view items would render identically:
// same display text, same type and the same answer snapshot.
func SameContent(a, b ViewItem) bool {
	if a.Definition.Text != b.Definition.Text || a.Definition.Type != b.Definition.Type {
		return false
	}
	switch {
	case a.Answer == nil && b.Answer == nil:
		return true
	case a.Answer == nil || b.Answer == nil:
		return false
	}
	return a.Answer.Equal(*b.Answer)
}

// Delta lists how one projection differs from the next, by linkId.
type Delta struct {
	Shown   []string `json:"shown,omitempty"`
	Hidden  []string `json:"hidden,omitempty"`
	Changed []string `json:"changed,omitempty"`
}

// Empty reports whether nothing changed.
func (d Delta) Empty() bool {
	return len(d.Shown) == 0 && len(d.Hidden) == 0 && len(d.Changed) == 0
}

// Diff compares two projections. Shown and Changed follow the order of
// next, Hidden the order of prev.
func Diff(prev, next []ViewItem) Delta {
	before := make(map[string]ViewItem, len(prev))
	for _, v := range prev {
		before[v.LinkID()] = v
	}
	after := make(map[string]bool, len(next))

	var d Delta
	for _, v := range next {
		after[v.LinkID()] = true
		old, ok := before[v.LinkID()]
		switch {
		case !ok:
			d.Shown = append(d.Shown, v.LinkID())
		case !SameContent(old, v):
			d.Changed = append(d.Changed, v.LinkID())
		}
	}
	for _, v := range prev {
		if !after[v.LinkID()] {
			d.Hidden = append(d.Hidden, v.LinkID())
		}
	}
	return d
}
