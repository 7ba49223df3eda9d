package review

import "sort"

// Selection tracks candidate IDs marked for batch operation. Membership
// survives pagination; only explicit clears or successful transitions
// remove IDs.
type Selection struct {
	ids map[int64]struct{}
}

// NewSelection returns an empty selection.
func NewSelection() *Selection {
	return &Selection{ids: make(map[int64]struct{})}
}

// Toggle flips membership for one ID.
func (s *Selection) Toggle(id int64) {
	if _, ok := s.ids[id]; ok {
		delete(s.ids, id)
		return
	}
	s.ids[id] = struct{}{}
}

// SelectAllVisible toggles the visible subset. When every visible ID is
// already selected the visible IDs are removed; otherwise all visible IDs
// are added, keeping any off-page selections.
func (s *Selection) SelectAllVisible(visible []int64) {
	allSelected := len(visible) > 0
	for _, id := range visible {
		if _, ok := s.ids[id]; !ok {
			allSelected = false
			break
		}
	}

	if allSelected {
		for _, id := range visible {
			delete(s.ids, id)
		}
		return
	}
	for _, id := range visible {
		s.ids[id] = struct{}{}
	}
}

// Remove drops the listed IDs, leaving the rest of the selection intact.
func (s *Selection) Remove(ids ...int64) {
	for _, id := range ids {
		delete(s.ids, id)
	}
}

// Clear empties the selection unconditionally.
func (s *Selection) Clear() {
	s.ids = make(map[int64]struct{})
}

// Contains reports whether id is selected.
func (s *Selection) Contains(id int64) bool {
	_, ok := s.ids[id]
	return ok
}

// Len reports the number of selected IDs.
func (s *Selection) Len() int {
	return len(s.ids)
}

// IDs returns the selected IDs in ascending order.
func (s *Selection) IDs() []int64 {
	ids := make([]int64, 0, len(s.ids))
	for id := range s.ids {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
