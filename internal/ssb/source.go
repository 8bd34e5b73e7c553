package ssb

import "github.com/jask/mmmmm/internal/stream"

// Source is what scenes see of the network.
type Source struct {
	self     *stream.Stream[FeedID]
	incoming *stream.Stream[Msg]
}

func NewSource(self FeedID) *Source {
	s := &Source{
		self:     stream.NewMemorySubject[FeedID](),
		incoming: stream.NewSubject[Msg](),
	}
	s.self.Emit(self)
	return s
}

// Deliver hands an incoming message to every listener.
func (s *Source) Deliver(m Msg) {
	s.incoming.Emit(m)
}

// SelfFeedID emits the local identity to every listener.
func (s *Source) SelfFeedID() *stream.Stream[FeedID] {
	return s.self
}

// PublicFeed emits every message as it arrives.
func (s *Source) PublicFeed() *stream.Stream[Msg] {
	return s.incoming
}

// Listeners returns the number of listeners on the incoming feed.
func (s *Source) Listeners() int {
	return s.incoming.Listeners()
}
