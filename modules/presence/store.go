package presence

import "sync"

// Summary is a point-in-time view of room activity.
type Summary struct {
	ActiveUsers   int            `json:"active_users"`
	Rooms         map[string]int `json:"rooms"`
	TotalJoins    int64          `json:"total_joins"`
	TotalLeaves   int64          `json:"total_leaves"`
	TotalMessages int64          `json:"total_messages"`
}

// Store accumulates room activity counters from the chat events. It is a
// derived view for operators; the chat directory stays the source of truth
// for membership.
type Store struct {
	mu            sync.RWMutex
	occupancy     map[string]int
	totalJoins    int64
	totalLeaves   int64
	totalMessages int64
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		occupancy: make(map[string]int),
	}
}

// RecordJoin counts a user joining a room.
func (s *Store) RecordJoin(room string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.occupancy[room]++
	s.totalJoins++
}

// RecordLeave counts a user leaving a room. Empty rooms are dropped from
// the occupancy map.
func (s *Store) RecordLeave(room string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.occupancy[room] > 0 {
		s.occupancy[room]--
	}
	if s.occupancy[room] == 0 {
		delete(s.occupancy, room)
	}
	s.totalLeaves++
}

// RecordMessage counts a delivered message.
func (s *Store) RecordMessage() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.totalMessages++
}

// Snapshot returns a copy of the current counters.
func (s *Store) Snapshot() Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rooms := make(map[string]int, len(s.occupancy))
	active := 0
	for room, count := range s.occupancy {
		rooms[room] = count
		active += count
	}
	return Summary{
		ActiveUsers:   active,
		Rooms:         rooms,
		TotalJoins:    s.totalJoins,
		TotalLeaves:   s.totalLeaves,
		TotalMessages: s.totalMessages,
	}
}
