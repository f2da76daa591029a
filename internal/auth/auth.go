// Package auth adapts the external identity provider to a push-style
// "current user or none" signal. Protocol details (renewal, MFA, token
// storage) stay with the provider; the core only consumes the signal
// and a sign-out command.
package auth

import (
	"context"
	"sync"
)

// User is the authenticated admin, or absent entirely.
type User struct {
	UID   string
	Email string
}

// Authenticator is the identity collaborator. OnChange fires
// immediately with the current state and again on every change; a nil
// user means unauthenticated.
type Authenticator interface {
	OnChange(fn func(*User)) (stop func())
	SignOut(ctx context.Context) error
}

// signal is the shared listener plumbing for Authenticator
// implementations.
type signal struct {
	mu        sync.Mutex
	listeners map[int]func(*User)
	next      int
	current   *User
}

func newSignal() *signal {
	return &signal{listeners: make(map[int]func(*User))}
}

func (s *signal) onChange(fn func(*User)) func() {
	s.mu.Lock()
	id := s.next
	s.next++
	s.listeners[id] = fn
	cur := s.current
	s.mu.Unlock()

	fn(cur)
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

func (s *signal) set(u *User) {
	s.mu.Lock()
	s.current = u
	fns := make([]func(*User), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(u)
	}
}
