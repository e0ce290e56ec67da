package storefront

import "sync"

// SessionState is the snapshot handed to subscribers.
type SessionState struct {
	User  *User
	Token string
}

// Authenticated reports whether a token is present.
func (s SessionState) Authenticated() bool { return s.Token != "" }

// Session holds the signed-in user and bearer token. It is safe for
// concurrent use; subscribers run synchronously after each change.
type Session struct {
	mu     sync.RWMutex
	state  SessionState
	nextID int
	subs   map[int]func(SessionState)
}

func NewSession() *Session {
	return &Session{subs: make(map[int]func(SessionState))}
}

// Token satisfies TokenProvider.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Token
}

func (s *Session) User() *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state.User == nil {
		return nil
	}
	u := *s.state.User
	return &u
}

func (s *Session) State() SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot()
}

// Set stores a fresh login.
func (s *Session) Set(user User, token string) {
	s.mu.Lock()
	s.state = SessionState{User: &user, Token: token}
	state, subs := s.snapshot(), s.subscribers()
	s.mu.Unlock()
	notify(subs, state)
}

// SetUser replaces the cached user and keeps the token.
func (s *Session) SetUser(user User) {
	s.mu.Lock()
	if s.state.Token == "" {
		s.mu.Unlock()
		return
	}
	s.state.User = &user
	state, subs := s.snapshot(), s.subscribers()
	s.mu.Unlock()
	notify(subs, state)
}

// Clear drops the user and token. Clearing an empty session is a no-op.
func (s *Session) Clear() {
	s.mu.Lock()
	if s.state.Token == "" && s.state.User == nil {
		s.mu.Unlock()
		return
	}
	s.state = SessionState{}
	subs := s.subscribers()
	s.mu.Unlock()
	notify(subs, SessionState{})
}

// Subscribe registers fn for every change and returns its cancel func.
func (s *Session) Subscribe(fn func(SessionState)) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *Session) snapshot() SessionState {
	state := s.state
	if state.User != nil {
		u := *state.User
		state.User = &u
	}
	return state
}

func (s *Session) subscribers() []func(SessionState) {
	out := make([]func(SessionState), 0, len(s.subs))
	for _, fn := range s.subs {
		out = append(out, fn)
	}
	return out
}

func notify(subs []func(SessionState), state SessionState) {
	for _, fn := range subs {
		fn(state)
	}
}
