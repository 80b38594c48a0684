// Package saved holds the newest-first log of recipes a user chose to keep.
// Functions here are pure; persistence lives behind the key-value port.
package saved

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mealmatch/planner/internal/domain/recipe"
)

var ErrEntryNotFound = errors.New("saved recipe not found")

// Entry is one saved recipe. ID is a millisecond timestamp, made strictly
// greater than every existing id.
type Entry struct {
	ID        int64         `json:"id"`
	CreatedAt time.Time     `json:"created_at"`
	Recipe    recipe.Recipe `json:"recipe"`
}

// NextID returns max(now in ms, highest existing id + 1) so that saves in
// the same millisecond never collide
func NextID(entries []Entry, now time.Time) int64 {
	id := now.UnixMilli()
	for _, e := range entries {
		if e.ID >= id {
			id = e.ID + 1
		}
	}
	return id
}

// NewEntry stamps r for storage ahead of entries
func NewEntry(entries []Entry, r recipe.Recipe, now time.Time) Entry {
	return Entry{
		ID:        NextID(entries, now),
		CreatedAt: now,
		Recipe:    r.Clone(),
	}
}

// Prepend returns a new log with e first
func Prepend(entries []Entry, e Entry) []Entry {
	out := make([]Entry, 0, len(entries)+1)
	out = append(out, e)
	return append(out, entries...)
}

// Remove returns a new log without the entry with id, and whether it existed
func Remove(entries []Entry, id int64) ([]Entry, bool) {
	out := make([]Entry, 0, len(entries))
	found := false
	for _, e := range entries {
		if e.ID == id {
			found = true
			continue
		}
		out = append(out, e)
	}
	return out, found
}

// Find returns the entry with id
func Find(entries []Entry, id int64) (Entry, bool) {
	for _, e := range entries {
		if e.ID == id {
			return e, true
		}
	}
	return Entry{}, false
}

// Decode parses a stored log. Missing or malformed content yields an empty
// log; the error is returned only so callers can report the corruption.
func Decode(raw []byte) ([]Entry, error) {
	if len(raw) == 0 {
		return []Entry{}, nil
	}
	var entries []Entry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return []Entry{}, fmt.Errorf("decode saved recipes: %w", err)
	}
	if entries == nil {
		entries = []Entry{}
	}
	return entries, nil
}

// Encode serializes the full log
func Encode(entries []Entry) ([]byte, error) {
	if entries == nil {
		entries = []Entry{}
	}
	return json.Marshal(entries)
}
