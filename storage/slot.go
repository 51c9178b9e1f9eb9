package storage

import (
	"context"
	"errors"
	"time"
)

// Slot is a single named persistent key-value slot holding one serialized
// guest cart (the cookie-equivalent). Implementations must treat an expired
// record the same as an absent one.
type Slot interface {
	// Read returns the raw persisted payload, or ErrNoRecord when nothing
	// (valid) is persisted.
	Read(ctx context.Context) ([]byte, error)
	// Write persists the payload with the given time-to-live. Every write
	// refreshes the expiry.
	Write(ctx context.Context, data []byte, ttl time.Duration) error
	// Delete removes the record entirely, expiry included.
	Delete(ctx context.Context) error
}

var ErrNoRecord = errors.New("no persisted record")

// MaxPayloadBytes is the byte ceiling of a browser cookie slot. Payloads
// above it risk silent truncation, so writers warn when they cross it.
const MaxPayloadBytes = 4096
