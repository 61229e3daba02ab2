package auth

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"
)

// Session is the Gate for one client. It starts resolving and settles once
// Resume or Resolve is called, or on the first SignIn.
type Session struct {
	provider Provider
	tokens   *Tokens
	revoker  Revoker

	mu       sync.Mutex
	state    SessionState
	claims   *Claims
	watchers map[int]chan SessionState
	nextID   int
	expiry   *time.Timer
	closed   bool
}

func NewSession(provider Provider, tokens *Tokens, revoker Revoker) *Session {
	return &Session{
		provider: provider,
		tokens:   tokens,
		revoker:  revoker,
		state:    SessionState{Status: StatusResolving},
		watchers: make(map[int]chan SessionState),
	}
}

func (s *Session) Watch(ctx context.Context) <-chan SessionState {
	ch := make(chan SessionState, 1)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		close(ch)
		return ch
	}
	id := s.nextID
	s.nextID++
	s.watchers[id] = ch
	ch <- s.state
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		if _, ok := s.watchers[id]; ok {
			delete(s.watchers, id)
			close(ch)
		}
		s.mu.Unlock()
	}()
	return ch
}

// Current returns the state without subscribing.
func (s *Session) Current() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Resume settles a resolving session from a previously issued token.
func (s *Session) Resume(ctx context.Context, token string) {
	claims, err := s.tokens.Parse(token)
	if err == nil {
		revoked, rerr := s.revoker.IsRevoked(ctx, claims.ID)
		if rerr != nil {
			log.Printf("session resume: revocation check: %v", rerr)
		}
		if revoked || rerr != nil {
			err = ErrInvalidToken
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Status != StatusResolving {
		return
	}
	if err != nil {
		s.setLocked(SessionState{Status: StatusSignedOut}, nil)
		return
	}
	s.signInLocked(token, claims)
}

// Resolve settles a resolving session with nothing to resume.
func (s *Session) Resolve() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Status == StatusResolving {
		s.setLocked(SessionState{Status: StatusSignedOut}, nil)
	}
}

func (s *Session) SignIn(ctx context.Context, email, password string) error {
	id, err := s.provider.Authenticate(ctx, email, password)
	if err != nil {
		return err
	}
	token, claims, err := s.tokens.Issue(id)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.signInLocked(token, claims)
	return nil
}

// SignOut always ends the local session. A failure to revoke the token is
// returned after the state has changed.
func (s *Session) SignOut(ctx context.Context) error {
	s.mu.Lock()
	claims := s.claims
	s.setLocked(SessionState{Status: StatusSignedOut}, nil)
	s.mu.Unlock()

	if claims == nil {
		return nil
	}
	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return nil
	}
	if err := s.revoker.Revoke(ctx, claims.ID, ttl); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

// Close stops the expiry timer and closes every watcher.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.expiry != nil {
		s.expiry.Stop()
	}
	for id, ch := range s.watchers {
		delete(s.watchers, id)
		close(ch)
	}
	s.closed = true
}

func (s *Session) signInLocked(token string, claims *Claims) {
	id := claims.Identity()
	s.setLocked(SessionState{
		Status:    StatusSignedIn,
		Identity:  &id,
		Token:     token,
		ExpiresAt: claims.ExpiresAt.Time,
	}, claims)

	jti := claims.ID
	s.expiry = time.AfterFunc(time.Until(claims.ExpiresAt.Time), func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.claims != nil && s.claims.ID == jti {
			s.setLocked(SessionState{Status: StatusSignedOut}, nil)
		}
	})
}

func (s *Session) setLocked(state SessionState, claims *Claims) {
	if s.expiry != nil {
		s.expiry.Stop()
		s.expiry = nil
	}
	s.state = state
	s.claims = claims
	for _, ch := range s.watchers {
		select {
		case <-ch:
		default:
		}
		ch <- state
	}
}
