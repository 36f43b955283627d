package ws

import "sync"

type disposer struct {
    key string
    fn  func()
}

// Subscription collects teardown funcs registered while a connection is open.
// Close runs them once, newest first.
type Subscription struct {
    mu        sync.Mutex
    disposers []disposer
    closed    bool
}

// Add registers f under key, replacing any disposer already held for it.
// If the subscription is already closed, f runs immediately.
func (s *Subscription) Add(key string, f func()) {
    s.mu.Lock()
    if s.closed {
        s.mu.Unlock()
        f()
        return
    }
    s.remove(key)
    s.disposers = append(s.disposers, disposer{key: key, fn: f})
    s.mu.Unlock()
}

// Remove drops the disposer for key without running it.
func (s *Subscription) Remove(key string) bool {
    s.mu.Lock()
    defer s.mu.Unlock()
    return s.remove(key)
}

func (s *Subscription) remove(key string) bool {
    for i, d := range s.disposers {
        if d.key == key {
            s.disposers = append(s.disposers[:i], s.disposers[i+1:]...)
            return true
        }
    }
    return false
}

func (s *Subscription) Close() {
    s.mu.Lock()
    if s.closed {
        s.mu.Unlock()
        return
    }
    s.closed = true
    ds := s.disposers
    s.disposers = nil
    s.mu.Unlock()

    for i := len(ds) - 1; i >= 0; i-- {
        ds[i].fn()
    }
}

func (s *Subscription) Len() int {
    s.mu.Lock()
    defer s.mu.Unlock()
    return len(s.disposers)
}
