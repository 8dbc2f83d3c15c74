// Package session carries the per-user context the workflow reads and writes:
// identity plus the credit balance with a notify-on-change subscription. It is
// an explicit value handed to the orchestrator at construction, not a
// process-wide singleton.
package session

import "sync"

// Session exposes the credit balance read model. The balance is written only
// by the credit-reservation success path; everything else just reads it.
type Session struct {
	mu      sync.Mutex
	userID  string
	balance int
	nextSub int
	subs    map[int]func(int)
}

// New creates a session for the given user with a starting balance.
func New(userID string, balance int) *Session {
	return &Session{userID: userID, balance: balance, subs: make(map[int]func(int))}
}

// UserID returns the session owner's identity.
func (s *Session) UserID() string {
	return s.userID
}

// Balance returns the current credit balance.
func (s *Session) Balance() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.balance
}

// SetBalance replaces the balance and notifies subscribers with the new value.
func (s *Session) SetBalance(balance int) {
	s.mu.Lock()
	s.balance = balance
	subs := make([]func(int), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()
	for _, fn := range subs {
		fn(balance)
	}
}

// Subscribe registers a balance-change listener and returns its unsubscribe.
func (s *Session) Subscribe(fn func(balance int)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}
