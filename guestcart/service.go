// Package guestcart is the mutation API over the persistent cart store. All
// operations are synchronous read-modify-write against a fresh snapshot
// copy, then write-through.
package guestcart

import (
	"context"

	"github.com/mpetrov/go_storefront/cartstore"
	"github.com/mpetrov/go_storefront/domain"
)

type Service struct {
	store *cartstore.Store
}

func NewService(store *cartstore.Store) *Service {
	return &Service{store: store}
}

// AddItem merges quantity into an existing line for the product, or appends
// a new line with the unit price snapshotted at call time. Product images
// never make it into the line.
func (s *Service) AddItem(ctx context.Context, product domain.Product, quantity int) error {
	if quantity < 1 {
		quantity = 1
	}

	snap := s.store.Snapshot()
	if idx := snap.Find(product.ID); idx >= 0 {
		snap.Items[idx].Quantity += quantity
	} else {
		snap.Items = append(snap.Items, domain.CartItem{
			ProductID:   product.ID,
			ProductName: product.Title,
			UnitPrice:   product.Price,
			Quantity:    quantity,
		})
	}
	return s.store.Write(ctx, snap)
}

// IncreaseQuantity bumps the line's quantity by one. Unknown product IDs are
// ignored.
func (s *Service) IncreaseQuantity(ctx context.Context, productID int64) error {
	snap := s.store.Snapshot()
	idx := snap.Find(productID)
	if idx < 0 {
		return nil
	}
	snap.Items[idx].Quantity++
	return s.store.Write(ctx, snap)
}

// DecreaseQuantity lowers the line's quantity by one; at zero the line is
// removed entirely, it is never kept at quantity 0.
func (s *Service) DecreaseQuantity(ctx context.Context, productID int64) error {
	snap := s.store.Snapshot()
	idx := snap.Find(productID)
	if idx < 0 {
		return nil
	}
	snap.Items[idx].Quantity--
	if snap.Items[idx].Quantity <= 0 {
		snap.Items = append(snap.Items[:idx], snap.Items[idx+1:]...)
	}
	return s.store.Write(ctx, snap)
}

// RemoveItem deletes the line unconditionally.
func (s *Service) RemoveItem(ctx context.Context, productID int64) error {
	snap := s.store.Snapshot()
	idx := snap.Find(productID)
	if idx < 0 {
		return nil
	}
	snap.Items = append(snap.Items[:idx], snap.Items[idx+1:]...)
	return s.store.Write(ctx, snap)
}

// Clear empties the cart and removes the durable record.
func (s *Service) Clear(ctx context.Context) error {
	return s.store.Reset(ctx)
}

// ItemCount is the sum of quantities over all lines, for the header badge.
func (s *Service) ItemCount() int {
	snap := s.store.Snapshot()
	return snap.ItemCount()
}

func (s *Service) CartTotal() float64 {
	return s.store.Snapshot().Total
}
