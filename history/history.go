// Package history records playground requests so users can revisit recent
// prompts and responses. The list is capped, newest first, and persisted in
// durable client-side storage.
package history

import (
	"time"

	"github.com/google/uuid"

	"github.com/relaygate/relay/api"
	"github.com/relaygate/relay/storage"
)

// MaxItems bounds the history list. Pushing beyond it drops the oldest entry.
const MaxItems = 50

// Request is the issued playground request.
type Request struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

// Item is one resolved history entry: either Response or Err is set.
type Item struct {
	ID      string          `json:"id"`
	Time    time.Time       `json:"time"`
	Request Request         `json:"request"`
	Reply   *api.Completion `json:"reply,omitempty"`
	Err     string          `json:"err,omitempty"`

	// Size of the response payload in bytes, for display.
	Size int64 `json:"size,omitempty"`
}

// Log is the persisted request-history list.
type Log struct {
	store *storage.Store
}

// NewLog creates a history log over the given storage.
func NewLog(store *storage.Store) *Log {
	return &Log{store: store}
}

// NewItem stamps a request with an id and the current time.
func NewItem(req Request) Item {
	return Item{
		ID:      uuid.NewString(),
		Time:    time.Now().UTC(),
		Request: req,
	}
}

// Push prepends item, truncating the list to MaxItems.
func (l *Log) Push(item Item) error {
	items, err := l.Items()
	if err != nil {
		return err
	}

	items = append([]Item{item}, items...)
	if len(items) > MaxItems {
		items = items[:MaxItems]
	}
	return l.store.Set(storage.KeyRequestHistory, items)
}

// Items returns the list, newest first.
func (l *Log) Items() ([]Item, error) {
	var items []Item
	if _, err := l.store.Get(storage.KeyRequestHistory, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Clear removes all entries.
func (l *Log) Clear() error {
	return l.store.Delete(storage.KeyRequestHistory)
}
