package spatial

import "iter"

// ID identifies a live record of a Store. IDs are slot indexes: the id of a
// removed record is handed out again by a later insert, so ids must not be
// retained across removal.
type ID int

// Store is a slot arena owning records. The zero value is ready to use.
type Store[R any] struct {
	slots   SlotAllocator
	records []R
	live    []bool
	count   int
}

// Insert stores r in the lowest free slot and returns its id.
func (s *Store[R]) Insert(r R) ID {
	slot := s.slots.New()
	if slot == len(s.records) {
		s.records = append(s.records, r)
		s.live = append(s.live, true)
	} else {
		s.records[slot] = r
		s.live[slot] = true
	}

	s.count++
	return ID(slot)
}

// Remove frees the slot of the given id and returns the record it held. It
// returns false when the id does not hold a live record.
func (s *Store[R]) Remove(id ID) (R, bool) {
	r, ok := s.Get(id)
	if !ok {
		return r, false
	}

	var zero R
	s.records[id] = zero
	s.live[id] = false
	s.slots.Reuse(int(id))
	s.count--
	return r, true
}

func (s *Store[R]) Get(id ID) (R, bool) {
	if !s.Contains(id) {
		var zero R
		return zero, false
	}
	return s.records[id], true
}

func (s *Store[R]) Contains(id ID) bool {
	return id >= 0 && int(id) < len(s.live) && s.live[id]
}

// Len returns the number of live records.
func (s *Store[R]) Len() int {
	return s.count
}

// All returns an iterator over the live records, by ascending id.
func (s *Store[R]) All() iter.Seq2[ID, R] {
	return func(yield func(ID, R) bool) {
		for i, live := range s.live {
			if !live {
				continue
			}
			if !yield(ID(i), s.records[i]) {
				return
			}
		}
	}
}
