package nav

// Entry is one presented screen together with the props it was pushed with.
type Entry struct {
	Screen ScreenID
	Props  Props
}

type Stack struct {
	items []Entry
}

func (s *Stack) Push(e Entry) {
	if e.Screen == "" {
		return
	}
	s.items = append(s.items, e)
}

func (s *Stack) Pop() (Entry, bool) {
	if len(s.items) == 0 {
		return Entry{}, false
	}
	last := s.items[len(s.items)-1]
	s.items = s.items[:len(s.items)-1]
	return last, true
}

func (s Stack) Top() (Entry, bool) {
	if len(s.items) == 0 {
		return Entry{}, false
	}
	return s.items[len(s.items)-1], true
}

func (s Stack) Len() int {
	return len(s.items)
}

func (s *Stack) Truncate(n int) {
	if n < 0 || n >= len(s.items) {
		return
	}
	s.items = s.items[:n]
}

func (s Stack) Screens() []ScreenID {
	out := make([]ScreenID, len(s.items))
	for i, e := range s.items {
		out[i] = e.Screen
	}
	return out
}
