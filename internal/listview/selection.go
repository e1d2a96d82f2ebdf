package listview

import "sort"

// Selection tracks which rows of the currently rendered page are checked.
// It is scoped to one page of results: the owner must call Clear or SelectAll
// whenever a new page of rows is rendered, so ids from a previous page never
// remain checked.
type Selection struct {
	ids map[uint]struct{}
}

// NewSelection creates an empty selection.
func NewSelection() *Selection {
	return &Selection{ids: make(map[uint]struct{})}
}

// Toggle flips membership of the given row id.
func (s *Selection) Toggle(id uint) {
	if _, ok := s.ids[id]; ok {
		delete(s.ids, id)
		return
	}
	s.ids[id] = struct{}{}
}

// SelectAll replaces the selection with exactly the given ids.
func (s *Selection) SelectAll(ids []uint) {
	s.ids = make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		s.ids[id] = struct{}{}
	}
}

// Clear empties the selection.
func (s *Selection) Clear() {
	s.ids = make(map[uint]struct{})
}

// Has reports whether the given row id is selected.
func (s *Selection) Has(id uint) bool {
	_, ok := s.ids[id]
	return ok
}

// IsAllSelected reports whether the selection is non-empty and exactly equals
// the given ids. A subset or superset of the page's ids returns false.
func (s *Selection) IsAllSelected(ids []uint) bool {
	if len(s.ids) == 0 {
		return false
	}
	page := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		page[id] = struct{}{}
	}
	if len(page) != len(s.ids) {
		return false
	}
	for id := range page {
		if _, ok := s.ids[id]; !ok {
			return false
		}
	}
	return true
}

// Count returns the number of selected rows.
func (s *Selection) Count() int {
	return len(s.ids)
}

// IDs returns the selected row ids in ascending order.
func (s *Selection) IDs() []uint {
	ids := make([]uint, 0, len(s.ids))
	for id := range s.ids {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
