package lib

type Set[T comparable] map[T]struct{}

func NewSet[T comparable](values ...T) Set[T] {
	s := make(Set[T], len(values))
	s.Add(values...)
	return s
}

func (s Set[T]) Add(values ...T) {
	for _, v := range values {
		s[v] = struct{}{}
	}
}

func (s Set[T]) Remove(value T) bool {
	_, c := s[value]
	delete(s, value)
	return c
}

func (s Set[T]) Contains(value T) bool {
	_, c := s[value]
	return c
}

func (s Set[T]) Len() int {
	return len(s)
}
