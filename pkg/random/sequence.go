package random

// Sequence replays a fixed list of values. IntRange returns the next value
// clamped to [lo, hi]; Choose returns the next value modulo n. When the list
// is exhausted it starts over. Shuffle leaves the order untouched.
type Sequence struct {
	values []int
	pos    int
}

// NewSequence returns a Source replaying values in order.
func NewSequence(values ...int) *Sequence {
	return &Sequence{values: values}
}

func (s *Sequence) next() int {
	if len(s.values) == 0 {
		return 0
	}
	v := s.values[s.pos%len(s.values)]
	s.pos++
	return v
}

func (s *Sequence) IntRange(lo, hi int) int {
	if hi < lo {
		lo, hi = hi, lo
	}
	v := s.next()
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func (s *Sequence) Choose(n int) int {
	if n <= 1 {
		return 0
	}
	v := s.next() % n
	if v < 0 {
		v += n
	}
	return v
}

func (s *Sequence) Shuffle(_ int, _ func(i, j int)) {}

// Drawn reports how many values have been consumed.
func (s *Sequence) Drawn() int {
	return s.pos
}
