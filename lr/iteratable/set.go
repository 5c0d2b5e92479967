package iteratable

// Set is a hash set of comparable elements, keeping insertion order.
// The zero value is not usable; create sets with NewSet.
type Set struct {
	items  []interface{}
	index  map[interface{}]int
	live   int
	cursor int
}

// removed marks a deleted slot in the items slice.
type removed struct{}

// NewSet creates a new set with an initial capacity.
func NewSet(capacity int) *Set {
	if capacity < 0 {
		capacity = 0
	}
	return &Set{
		items:  make([]interface{}, 0, capacity),
		index:  make(map[interface{}]int, capacity),
		cursor: -1,
	}
}

// Add adds an element to the set. It returns true if the element has not been
// contained before.
func (s *Set) Add(x interface{}) bool {
	if _, ok := s.index[x]; ok {
		return false
	}
	s.index[x] = len(s.items)
	s.items = append(s.items, x)
	s.live++
	return true
}

// Remove deletes an element from the set, if present.
// It is legal to remove elements during an iteration.
func (s *Set) Remove(x interface{}) {
	if i, ok := s.index[x]; ok {
		s.items[i] = removed{}
		delete(s.index, x)
		s.live--
	}
}

// Contains checks if x is an element of s.
func (s *Set) Contains(x interface{}) bool {
	_, ok := s.index[x]
	return ok
}

// Size returns the number of elements in s.
func (s *Set) Size() int {
	return s.live
}

// Empty is true for a set with no elements.
func (s *Set) Empty() bool {
	return s.live == 0
}

// Values returns the elements of s in insertion order. The slice is a copy.
func (s *Set) Values() []interface{} {
	vals := make([]interface{}, 0, s.live)
	for _, x := range s.items {
		if _, gone := x.(removed); !gone {
			vals = append(vals, x)
		}
	}
	return vals
}

// First returns the element of s which has been added first, or nil.
func (s *Set) First() interface{} {
	for _, x := range s.items {
		if _, gone := x.(removed); !gone {
			return x
		}
	}
	return nil
}

// Copy creates a shallow copy of s.
func (s *Set) Copy() *Set {
	c := NewSet(s.live)
	for _, x := range s.items {
		if _, gone := x.(removed); !gone {
			c.Add(x)
		}
	}
	return c
}

// Equals is true if s and other contain the same elements, regardless of order.
func (s *Set) Equals(other *Set) bool {
	if other == nil || s.live != other.live {
		return false
	}
	for x := range s.index {
		if !other.Contains(x) {
			return false
		}
	}
	return true
}

// Union adds all elements of other to s. Returns s.
func (s *Set) Union(other *Set) *Set {
	if other == nil {
		return s
	}
	for _, x := range other.items {
		if _, gone := x.(removed); !gone {
			s.Add(x)
		}
	}
	return s
}

// Difference removes all elements of other from s. Returns s.
func (s *Set) Difference(other *Set) *Set {
	if other == nil {
		return s
	}
	for x := range other.index {
		s.Remove(x)
	}
	return s
}

// Subset removes every element from s for which predicate returns false.
// Returns s.
func (s *Set) Subset(predicate func(interface{}) bool) *Set {
	for _, x := range s.Values() {
		if !predicate(x) {
			s.Remove(x)
		}
	}
	return s
}

// Each calls f for every element of s, in insertion order.
func (s *Set) Each(f func(interface{})) {
	for _, x := range s.Values() {
		f(x)
	}
}

// --- Iteration -------------------------------------------------------------

// IterateOnce starts an iteration over s. Elements added during the
// iteration will be visited as well.
func (s *Set) IterateOnce() {
	s.compact()
	s.cursor = -1
}

// Next moves to the next element. It returns false if the iteration is exhausted.
func (s *Set) Next() bool {
	for s.cursor+1 < len(s.items) {
		s.cursor++
		if _, gone := s.items[s.cursor].(removed); !gone {
			return true
		}
	}
	return false
}

// Item returns the current element of an iteration.
func (s *Set) Item() interface{} {
	if s.cursor < 0 || s.cursor >= len(s.items) {
		return nil
	}
	if _, gone := s.items[s.cursor].(removed); gone {
		return nil
	}
	return s.items[s.cursor]
}

func (s *Set) compact() {
	if s.live == len(s.items) {
		return
	}
	items := make([]interface{}, 0, s.live)
	for _, x := range s.items {
		if _, gone := x.(removed); !gone {
			s.index[x] = len(items)
			items = append(items, x)
		}
	}
	s.items = items
}
