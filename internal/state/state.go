// Package state holds the process-wide mutable record shared by the poller and the
// command handlers. Every read and write goes through one RWMutex, and the lock is
// only ever held around in-memory work, never around I/O.
package state

import (
	"slices"
	"sync"
)

// List is the ordered list of option labels extracted from the page.
type List []string

// Equal is order-sensitive whole-sequence equality.
func (l List) Equal(other List) bool {
	return slices.Equal(l, other)
}

func (l List) Clone() List {
	if l == nil {
		return nil
	}
	return slices.Clone(l)
}

type Snapshot struct {
	Cookie            string
	Cache             List
	Channel           int64
	LoopRunning       bool
	QueriedThisWindow bool
}

type State struct {
	mu sync.RWMutex

	cookie            string
	cache             List
	channel           int64
	loopRunning       bool
	queriedThisWindow bool
}

func New(channel int64, cookie string) *State {
	return &State{
		channel: channel,
		cookie:  cookie,
	}
}

// Snapshot returns a consistent copy of every field.
func (s *State) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Cookie:            s.cookie,
		Cache:             s.cache.Clone(),
		Channel:           s.channel,
		LoopRunning:       s.loopRunning,
		QueriedThisWindow: s.queriedThisWindow,
	}
}

func (s *State) Cookie() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cookie
}

func (s *State) SetCookie(cookie string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cookie = cookie
}

// Cache returns a copy of the cached list, callers may keep it past the lock.
func (s *State) Cache() List {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cache.Clone()
}

func (s *State) Channel() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.channel
}

// ReplaceCache stores a copy of list as the new cache.
func (s *State) ReplaceCache(list List) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache = list.Clone()
}

// ReplaceIfChanged swaps in list when it differs from the cache and reports whether it did.
func (s *State) ReplaceIfChanged(list List) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cache.Equal(list) {
		return false
	}
	s.cache = list.Clone()
	return true
}

// TryStartLoop flips loopRunning from false to true, only the first caller gets true.
func (s *State) TryStartLoop() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loopRunning {
		return false
	}
	s.loopRunning = true
	return true
}

func (s *State) LoopRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loopRunning
}

func (s *State) QueriedThisWindow() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.queriedThisWindow
}

func (s *State) SetQueriedThisWindow(queried bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queriedThisWindow = queried
}

// RearmOutsideWindow clears queriedThisWindow when the clock is no longer inside the
// window and reports whether it was cleared.
func (s *State) RearmOutsideWindow(inWindow bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.queriedThisWindow && !inWindow {
		s.queriedThisWindow = false
		return true
	}
	return false
}
