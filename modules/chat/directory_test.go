package chat

import (
	"errors"
	"fmt"
	"sync"
	"testing"
)

func TestDirectory_Add(t *testing.T) {
	tests := []struct {
		name     string
		connID   string
		username string
		room     string
		wantErr  error
	}{
		{
			name:     "valid join",
			connID:   "c1",
			username: "alice",
			room:     "lobby",
		},
		{
			name:     "empty username",
			connID:   "c2",
			username: "",
			room:     "lobby",
			wantErr:  ErrMissingField,
		},
		{
			name:     "whitespace-only username",
			connID:   "c3",
			username: "   ",
			room:     "lobby",
			wantErr:  ErrMissingField,
		},
		{
			name:     "empty room",
			connID:   "c4",
			username: "bob",
			room:     "",
			wantErr:  ErrMissingField,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDirectory()
			user, err := d.Add(tt.connID, tt.username, tt.room)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Add() error = %v, want %v", err, tt.wantErr)
				}
				return
			}

			if err != nil {
				t.Fatalf("Add() unexpected error: %v", err)
			}
			if user.ID != tt.connID {
				t.Errorf("Add() user.ID = %q, want %q", user.ID, tt.connID)
			}
		})
	}
}

func TestDirectory_AddNormalizes(t *testing.T) {
	d := NewDirectory()

	user, err := d.Add("c1", "  Alice  ", " Lobby ")
	if err != nil {
		t.Fatalf("Add() unexpected error: %v", err)
	}

	if user.Username != "alice" {
		t.Errorf("Add() user.Username = %q, want %q", user.Username, "alice")
	}
	if user.Room != "lobby" {
		t.Errorf("Add() user.Room = %q, want %q", user.Room, "lobby")
	}
}

func TestDirectory_AddDuplicate(t *testing.T) {
	d := NewDirectory()

	if _, err := d.Add("c1", "anna", "lobby"); err != nil {
		t.Fatalf("Add() unexpected error: %v", err)
	}

	tests := []struct {
		name     string
		username string
		room     string
		wantErr  error
	}{
		{
			name:     "same name same room",
			username: "anna",
			room:     "lobby",
			wantErr:  ErrDuplicateUser,
		},
		{
			name:     "case-insensitive match",
			username: "ANNA",
			room:     "Lobby",
			wantErr:  ErrDuplicateUser,
		},
		{
			name:     "whitespace-padded match",
			username: " anna ",
			room:     " lobby ",
			wantErr:  ErrDuplicateUser,
		},
		{
			name:     "same name different room",
			username: "anna",
			room:     "games",
		},
		{
			name:     "different name same room",
			username: "ben",
			room:     "lobby",
		},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := d.Add(fmt.Sprintf("conn-%d", i+2), tt.username, tt.room)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Add() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Add() unexpected error: %v", err)
			}
		})
	}
}

func TestDirectory_AddSameConnectionTwice(t *testing.T) {
	d := NewDirectory()

	if _, err := d.Add("c1", "alice", "lobby"); err != nil {
		t.Fatalf("Add() unexpected error: %v", err)
	}

	_, err := d.Add("c1", "carol", "games")
	if !errors.Is(err, ErrConnectionExists) {
		t.Fatalf("Add() error = %v, want %v", err, ErrConnectionExists)
	}
}

func TestDirectory_RemoveIdempotent(t *testing.T) {
	d := NewDirectory()
	_, _ = d.Add("c1", "alice", "lobby")

	user, ok := d.Remove("c1")
	if !ok {
		t.Fatal("Remove() first call should report a removed user")
	}
	if user.Username != "alice" {
		t.Errorf("Remove() user.Username = %q, want %q", user.Username, "alice")
	}

	if _, ok := d.Remove("c1"); ok {
		t.Error("Remove() second call should be a no-op")
	}
	if _, ok := d.Remove("never-joined"); ok {
		t.Error("Remove() of unknown connection should be a no-op")
	}
}

func TestDirectory_Get(t *testing.T) {
	d := NewDirectory()
	_, _ = d.Add("c1", "alice", "lobby")

	user, ok := d.Get("c1")
	if !ok {
		t.Fatal("Get() should find the user")
	}
	if user.Username != "alice" || user.Room != "lobby" {
		t.Errorf("Get() user = %+v", user)
	}

	if _, ok := d.Get("c2"); ok {
		t.Error("Get() of unknown connection should report absence")
	}
}

func TestDirectory_UsernamesInsertionOrder(t *testing.T) {
	d := NewDirectory()
	_, _ = d.Add("c1", "alice", "lobby")
	_, _ = d.Add("c2", "ben", "games")
	_, _ = d.Add("c3", "carol", "lobby")
	_, _ = d.Add("c4", "dave", "lobby")

	want := []string{"alice", "carol", "dave"}
	got := d.Usernames("lobby")
	if len(got) != len(want) {
		t.Fatalf("Usernames() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Usernames() = %v, want %v", got, want)
		}
	}

	// Order survives a removal in the middle.
	_, _ = d.Remove("c3")
	got = d.Usernames("lobby")
	want = []string{"alice", "dave"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Usernames() after remove = %v, want %v", got, want)
		}
	}

	if got := d.Usernames("empty-room"); len(got) != 0 {
		t.Errorf("Usernames() of empty room = %v, want empty", got)
	}
}

func TestDirectory_ConcurrentDuplicateJoin(t *testing.T) {
	d := NewDirectory()

	const attempts = 32
	var wg sync.WaitGroup
	errs := make([]error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = d.Add(fmt.Sprintf("conn-%d", i), "anna", "lobby")
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range errs {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, ErrDuplicateUser):
		default:
			t.Fatalf("Add() unexpected error: %v", err)
		}
	}

	if successes != 1 {
		t.Fatalf("concurrent joins: %d succeeded, want exactly 1", successes)
	}
	if got := d.Usernames("lobby"); len(got) != 1 || got[0] != "anna" {
		t.Fatalf("Usernames() = %v, want [anna]", got)
	}
}

func TestDirectory_RosterMatchesJoinedSet(t *testing.T) {
	d := NewDirectory()

	const users = 50
	var wg sync.WaitGroup

	// Concurrent joins into one room, then remove every other connection
	// concurrently; the roster must equal exactly the surviving set.
	for i := 0; i < users; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _ = d.Add(fmt.Sprintf("conn-%d", i), fmt.Sprintf("user-%d", i), "lobby")
		}(i)
	}
	wg.Wait()

	for i := 0; i < users; i += 2 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _ = d.Remove(fmt.Sprintf("conn-%d", i))
		}(i)
	}
	wg.Wait()

	names := d.Usernames("lobby")
	if len(names) != users/2 {
		t.Fatalf("Usernames() returned %d users, want %d", len(names), users/2)
	}
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if seen[name] {
			t.Fatalf("Usernames() returned duplicate %q", name)
		}
		seen[name] = true
	}
	for i := 1; i < users; i += 2 {
		if !seen[fmt.Sprintf("user-%d", i)] {
			t.Fatalf("Usernames() missing user-%d", i)
		}
	}

	if got := d.Count(); got != users/2 {
		t.Fatalf("Count() = %d, want %d", got, users/2)
	}
}
