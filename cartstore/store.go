// Package cartstore owns the durable, reactive guest cart state: one
// snapshot per anonymous session, persisted in a size-constrained slot,
// republished to subscribers on every change.
package cartstore

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/mpetrov/go_storefront/domain"
	"github.com/mpetrov/go_storefront/storage"
)

// DefaultTTL is the expiry horizon of the persisted record. Every write
// refreshes it.
const DefaultTTL = 30 * 24 * time.Hour

type Option func(*Store)

func WithTTL(ttl time.Duration) Option {
	return func(s *Store) { s.ttl = ttl }
}

// Store keeps the current snapshot in memory, writes through to a storage
// slot, and delivers every change synchronously to its subscribers. New
// subscribers immediately receive the current snapshot.
type Store struct {
	mu      sync.Mutex
	slot    storage.Slot
	ttl     time.Duration
	current domain.CartSnapshot
	subs    []func(domain.CartSnapshot)
}

// New loads the persisted record from slot. A missing record yields the
// empty cart. An unreadable record is absorbed: the store logs, deletes the
// slot and starts empty, so a corrupted cookie can never break cart access.
func New(ctx context.Context, slot storage.Slot, opts ...Option) *Store {
	s := &Store{
		slot:    slot,
		ttl:     DefaultTTL,
		current: domain.EmptySnapshot(),
	}
	for _, opt := range opts {
		opt(s)
	}

	data, err := slot.Read(ctx)
	if err != nil {
		if !errors.Is(err, storage.ErrNoRecord) {
			log.Printf("cart slot read error: %v", err)
		}
		return s
	}

	var snap domain.CartSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		log.Printf("cart record decode error, resetting: %v", err)
		if errDelete := slot.Delete(ctx); errDelete != nil {
			log.Printf("cart slot delete error: %v", errDelete)
		}
		return s
	}

	// Persisted data is user-controlled; heal rather than fail.
	snap.Normalize()
	s.current = snap
	return s
}

// Snapshot returns a copy of the current cart state.
func (s *Store) Snapshot() domain.CartSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.Clone()
}

// Write normalizes and persists snap, makes it current, and publishes it.
// The in-memory state and subscribers always see the new snapshot, even when
// persisting fails; the slot error is returned for callers that care.
func (s *Store) Write(ctx context.Context, snap domain.CartSnapshot) error {
	snap = snap.Clone()
	snap.Normalize()

	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	if len(data) > storage.MaxPayloadBytes {
		log.Printf("cart record is %d bytes, over the %d byte slot ceiling", len(data), storage.MaxPayloadBytes)
	}

	s.mu.Lock()
	s.current = snap
	subs := make([]func(domain.CartSnapshot), len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	errWrite := s.slot.Write(ctx, data, s.ttl)
	if errWrite != nil {
		log.Printf("cart slot write error: %v", errWrite)
	}

	for _, fn := range subs {
		fn(snap.Clone())
	}
	return errWrite
}

// Subscribe registers fn and immediately delivers the current snapshot to
// it. Delivery of later snapshots happens synchronously inside the mutation
// that caused them.
func (s *Store) Subscribe(fn func(domain.CartSnapshot)) {
	s.mu.Lock()
	s.subs = append(s.subs, fn)
	current := s.current.Clone()
	s.mu.Unlock()

	fn(current)
}

// Reset empties the cart and deletes the durable record. Delete, not
// overwrite-with-empty: overwriting would leave a stale expiry behind.
func (s *Store) Reset(ctx context.Context) error {
	empty := domain.EmptySnapshot()

	s.mu.Lock()
	s.current = empty
	subs := make([]func(domain.CartSnapshot), len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	errDelete := s.slot.Delete(ctx)
	if errDelete != nil {
		log.Printf("cart slot delete error: %v", errDelete)
	}

	for _, fn := range subs {
		fn(empty.Clone())
	}
	return errDelete
}
