package models

import (
	"sort"
	"sync"
)

type userLogs struct {
	entries  map[string]*LogEntry
	revision uint64
}

// LogStore holds every user's log entries in memory. Readers get copies.
type LogStore struct {
	mu    sync.RWMutex
	users map[string]*userLogs
	total int
}

func NewLogStore() *LogStore {
	return &LogStore{
		users: make(map[string]*userLogs),
	}
}

func (s *LogStore) user(name string) *userLogs {
	u, ok := s.users[name]
	if !ok {
		u = &userLogs{entries: make(map[string]*LogEntry)}
		s.users[name] = u
	}
	return u
}

func (s *LogStore) Add(user string, entry *LogEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if entry == nil || entry.ID == "" {
		return
	}
	u := s.user(user)
	if _, exists := u.entries[entry.ID]; !exists {
		s.total++
	}
	u.entries[entry.ID] = entry.Clone()
	u.revision++
}

func (s *LogStore) Get(user, id string) (*LogEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[user]
	if !ok {
		return nil, false
	}
	e, ok := u.entries[id]
	if !ok {
		return nil, false
	}
	return e.Clone(), true
}

// Update applies fn to the stored entry under the write lock.
func (s *LogStore) Update(user, id string, fn func(e *LogEntry)) (*LogEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[user]
	if !ok {
		return nil, false
	}
	e, ok := u.entries[id]
	if !ok {
		return nil, false
	}
	fn(e)
	u.revision++
	return e.Clone(), true
}

func (s *LogStore) Delete(user, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[user]
	if !ok {
		return false
	}
	if _, ok := u.entries[id]; !ok {
		return false
	}
	delete(u.entries, id)
	s.total--
	u.revision++
	return true
}

// List returns the user's entries, newest first.
func (s *LogStore) List(user string) []*LogEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[user]
	if !ok {
		return []*LogEntry{}
	}
	return sortedCopy(u.entries)
}

// Revision changes on every mutation of the user's entries.
func (s *LogStore) Revision(user string) uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if u, ok := s.users[user]; ok {
		return u.revision
	}
	return 0
}

func (s *LogStore) Users() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.users))
	for name := range s.users {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *LogStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.total
}

// PutData replaces a user's entries wholesale, as done on restore.
func (s *LogStore) PutData(user string, entries []*LogEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.user(user)
	s.total -= len(u.entries)
	u.entries = make(map[string]*LogEntry, len(entries))
	for _, e := range entries {
		if e == nil || e.ID == "" {
			continue
		}
		u.entries[e.ID] = e.Clone()
	}
	s.total += len(u.entries)
	u.revision++
}

func (s *LogStore) GetData() map[string][]*LogEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make(map[string][]*LogEntry, len(s.users))
	for name, u := range s.users {
		result[name] = sortedCopy(u.entries)
	}
	return result
}

func sortedCopy(entries map[string]*LogEntry) []*LogEntry {
	out := make([]*LogEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}
