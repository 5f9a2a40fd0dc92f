package favorites

import "github.com/agentstation/proverbs/pkg/proverb"

// SelectionState is the state of the list view's detail pane.
type SelectionState int

const (
	// NoFavorites means the collection is empty.
	NoFavorites SelectionState = iota
	// NoSelection means favorites exist but none is selected.
	NoSelection
	// Selected means one favorite is shown in detail.
	Selected
)

// String returns the state name.
func (s SelectionState) String() string {
	switch s {
	case NoFavorites:
		return "empty"
	case NoSelection:
		return "no-selection"
	case Selected:
		return "selected"
	default:
		return "unknown"
	}
}

// Selection tracks which favorite the list view shows in detail. The zero
// value is in the NoFavorites state.
type Selection struct {
	state SelectionState
	id    int
}

// State returns the current state.
func (s *Selection) State() SelectionState { return s.state }

// ID returns the selected id.
func (s *Selection) ID() (int, bool) {
	return s.id, s.state == Selected
}

// Current returns the selected proverb from list.
func (s *Selection) Current(list []proverb.Proverb) (proverb.Proverb, bool) {
	if s.state != Selected {
		return proverb.Proverb{}, false
	}
	if i := indexOf(list, s.id); i >= 0 {
		return list[i], true
	}
	return proverb.Proverb{}, false
}

// Load applies a freshly loaded collection. A non-empty collection selects
// its first entry unless the current selection is still present.
func (s *Selection) Load(list []proverb.Proverb) {
	switch {
	case len(list) == 0:
		s.clear()
	case s.state == Selected && indexOf(list, s.id) >= 0:
	default:
		s.selectID(list[0].ID)
	}
}

// Removed applies the removal of id. Removing the selected favorite selects
// the first remaining one; removing any other favorite changes nothing.
func (s *Selection) Removed(id int, remaining []proverb.Proverb) {
	if s.state != Selected || s.id != id {
		if len(remaining) == 0 {
			s.clear()
		}
		return
	}
	if len(remaining) == 0 {
		s.clear()
		return
	}
	s.selectID(remaining[0].ID)
}

// Select shows id in detail. It reports false when id is not in list.
func (s *Selection) Select(id int, list []proverb.Proverb) bool {
	if indexOf(list, id) < 0 {
		return false
	}
	s.selectID(id)
	return true
}

// Deselect keeps the favorites but shows none in detail.
func (s *Selection) Deselect(list []proverb.Proverb) {
	if len(list) == 0 {
		s.clear()
		return
	}
	s.state, s.id = NoSelection, 0
}

// Sync applies a collection refreshed from storage. A selection that no
// longer exists is repaired the same way as a removal.
func (s *Selection) Sync(list []proverb.Proverb) {
	if s.state == Selected && indexOf(list, s.id) < 0 {
		s.Removed(s.id, list)
		return
	}
	if len(list) == 0 {
		s.clear()
		return
	}
	if s.state == NoFavorites {
		s.selectID(list[0].ID)
	}
}

func (s *Selection) selectID(id int) {
	s.state, s.id = Selected, id
}

func (s *Selection) clear() {
	s.state, s.id = NoFavorites, 0
}
