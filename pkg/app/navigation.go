package app

// interactiveIDs returns the IDs of every item that reacts to activation,
// left to right.
func (m *Model) interactiveIDs() []string {
	var ids []string
	for _, it := range m.bar.Items() {
		if it.Interactive() && it.Action.Kind != ActionSlide {
			ids = append(ids, it.ID)
		}
	}
	return ids
}

// CycleFocusForward moves keyboard focus to the next interactive item,
// wrapping around to the first item after the last.
func (m *Model) CycleFocusForward() {
	ids := m.interactiveIDs()
	if len(ids) == 0 {
		m.focused = ""
		return
	}
	idx := indexOf(ids, m.focused)
	m.focused = ids[(idx+1)%len(ids)]
}

// CycleFocusBackward moves keyboard focus to the previous interactive item,
// wrapping around to the last item before the first.
func (m *Model) CycleFocusBackward() {
	ids := m.interactiveIDs()
	if len(ids) == 0 {
		m.focused = ""
		return
	}
	idx := indexOf(ids, m.focused)
	if idx < 0 {
		idx = 0
	}
	m.focused = ids[(idx-1+len(ids))%len(ids)]
}

// FocusedID returns the item that has keyboard focus, or "".
func (m *Model) FocusedID() string {
	return m.focused
}

// dropStaleFocus clears focus when the focused item has left the bar.
func (m *Model) dropStaleFocus() {
	if m.focused == "" {
		return
	}
	if _, ok := m.bar.Find(m.focused); !ok {
		m.focused = ""
	}
}

// indexOf returns the position of id in ids, or -1.
func indexOf(ids []string, id string) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}
