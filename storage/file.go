package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"
)

// envelope wraps the cart payload with its expiry so a plain file can honor
// the same time-to-live contract as a cookie.
type envelope struct {
	ExpiresAt time.Time `json:"expires_at"`
	Payload   []byte    `json:"payload"`
}

// FileSlot persists the record as a single JSON file. Used by client-side
// consumers that have a filesystem instead of a cookie jar.
type FileSlot struct {
	path string
	now  func() time.Time
}

func NewFileSlot(path string) *FileSlot {
	return &FileSlot{path: path, now: time.Now}
}

func (f *FileSlot) Read(_ context.Context) ([]byte, error) {
	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return nil, ErrNoRecord
	}
	if err != nil {
		return nil, fmt.Errorf("read slot file: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		// A corrupt record must never keep failing load after load;
		// destroy it and report the slot as empty.
		log.Printf("slot envelope decode error, resetting: %v", err)
		_ = os.Remove(f.path)
		return nil, ErrNoRecord
	}
	if f.now().After(env.ExpiresAt) {
		// Expired records read as absent; remove best-effort.
		_ = os.Remove(f.path)
		return nil, ErrNoRecord
	}
	return env.Payload, nil
}

func (f *FileSlot) Write(_ context.Context, data []byte, ttl time.Duration) error {
	env := envelope{
		ExpiresAt: f.now().Add(ttl),
		Payload:   data,
	}
	encoded, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("encode slot envelope: %w", err)
	}
	if err := os.WriteFile(f.path, encoded, 0o600); err != nil {
		return fmt.Errorf("write slot file: %w", err)
	}
	return nil
}

func (f *FileSlot) Delete(_ context.Context) error {
	err := os.Remove(f.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete slot file: %w", err)
	}
	return nil
}
