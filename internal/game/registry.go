package game

import (
    "sort"
    "sync"
)

// Registry owns every live Session, keyed by room name.
type Registry struct {
    mu       sync.RWMutex
    sessions map[string]*Session
}

func NewRegistry() *Registry {
    return &Registry{sessions: make(map[string]*Session)}
}

// Create fails with ErrRoomExists if the room is already registered.
func (r *Registry) Create(room, seed string) (*Session, error) {
    r.mu.Lock()
    defer r.mu.Unlock()
    if r.sessions[room] != nil {
        return nil, ErrRoomExists
    }
    s := NewSession(room, seed)
    r.sessions[room] = s
    return s, nil
}

// Ensure returns the room's session, creating it if needed.
func (r *Registry) Ensure(room, seed string) (s *Session, created bool) {
    r.mu.Lock()
    defer r.mu.Unlock()
    if existing := r.sessions[room]; existing != nil {
        return existing, false
    }
    s = NewSession(room, seed)
    r.sessions[room] = s
    return s, true
}

func (r *Registry) Get(room string) (*Session, error) {
    r.mu.RLock()
    defer r.mu.RUnlock()
    s := r.sessions[room]
    if s == nil {
        return nil, ErrRoomNotFound
    }
    return s, nil
}

func (r *Registry) Remove(room string) {
    r.mu.Lock()
    defer r.mu.Unlock()
    delete(r.sessions, room)
}

func (r *Registry) Names() []string {
    r.mu.RLock()
    defer r.mu.RUnlock()
    out := make([]string, 0, len(r.sessions))
    for name := range r.sessions {
        out = append(out, name)
    }
    sort.Strings(out)
    return out
}

func (r *Registry) Len() int {
    r.mu.RLock()
    defer r.mu.RUnlock()
    return len(r.sessions)
}
