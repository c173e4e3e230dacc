package chat

import (
	"strings"
	"sync"

	domain "github.com/rob-vincent/chat-app/domain/chat"
)

// Directory is the authoritative mapping of live connections to users. It is
// the single piece of shared mutable state in the coordinator, guarded by one
// mutex so that membership is never observed half-updated. Rooms are not
// stored: a room is the set of users whose Room field matches, computed on
// demand from the live records.
type Directory struct {
	mu    sync.RWMutex
	users map[string]domain.User // connection ID -> user
	order []string               // connection IDs in join order
}

// NewDirectory creates an empty directory.
func NewDirectory() *Directory {
	return &Directory{
		users: make(map[string]domain.User),
	}
}

// normalize trims and lower-cases a username or room name. Storing the
// normalized form makes the duplicate check case-insensitive for free.
func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Add registers a user for a connection. It fails with ErrMissingField when
// username or room is empty after normalization, with ErrDuplicateUser when
// the (username, room) pair is already held by a live connection, and with
// ErrConnectionExists when the connection already has a record.
func (d *Directory) Add(connID, username, room string) (domain.User, error) {
	username = normalize(username)
	room = normalize(room)

	if username == "" || room == "" {
		return domain.User{}, ErrMissingField
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.users[connID]; ok {
		return domain.User{}, ErrConnectionExists
	}
	for _, id := range d.order {
		u := d.users[id]
		if u.Room == room && u.Username == username {
			return domain.User{}, ErrDuplicateUser
		}
	}

	user := domain.User{ID: connID, Username: username, Room: room}
	d.users[connID] = user
	d.order = append(d.order, connID)
	return user, nil
}

// Remove deletes the record for a connection and returns it so callers can
// announce the departure. Removing an unknown connection is a no-op.
func (d *Directory) Remove(connID string) (domain.User, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	user, ok := d.users[connID]
	if !ok {
		return domain.User{}, false
	}

	delete(d.users, connID)
	for i, id := range d.order {
		if id == connID {
			d.order = append(d.order[:i], d.order[i+1:]...)
			break
		}
	}
	return user, true
}

// Get returns the record for a connection, if any.
func (d *Directory) Get(connID string) (domain.User, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	user, ok := d.users[connID]
	return user, ok
}

// Usernames returns the usernames currently in a room, in join order. The
// order is stable for roster display only; it carries no other meaning.
func (d *Directory) Usernames(room string) []string {
	room = normalize(room)

	d.mu.RLock()
	defer d.mu.RUnlock()

	names := make([]string, 0)
	for _, id := range d.order {
		if u := d.users[id]; u.Room == room {
			names = append(names, u.Username)
		}
	}
	return names
}

// ConnectionsInRoom returns the connection IDs currently in a room, in join
// order. The broadcast hub snapshots room membership through this.
func (d *Directory) ConnectionsInRoom(room string) []string {
	room = normalize(room)

	d.mu.RLock()
	defer d.mu.RUnlock()

	ids := make([]string, 0)
	for _, id := range d.order {
		if d.users[id].Room == room {
			ids = append(ids, id)
		}
	}
	return ids
}

// Count returns the number of live users across all rooms.
func (d *Directory) Count() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.users)
}
