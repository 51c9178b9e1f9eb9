package domain

import "github.com/google/uuid"

type CartItem struct {
	ProductID   int64   `json:"productId"`
	ProductName string  `json:"productName"`
	UnitPrice   float64 `json:"price"`
	Quantity    int     `json:"quantity"`

	// Image never reaches the persisted form: the durable slot has a hard
	// byte ceiling and a single base64 image would blow through it.
	Image []byte `json:"-"`
}

// CartSnapshot is the full guest cart state at one point in time. It is the
// persisted source of truth; Total is always derived from Items.
type CartSnapshot struct {
	Items []CartItem `json:"items"`
	Total float64    `json:"total"`
}

func EmptySnapshot() CartSnapshot {
	return CartSnapshot{Items: []CartItem{}, Total: 0}
}

func (s *CartSnapshot) Recompute() {
	total := 0.0
	for _, item := range s.Items {
		total += item.UnitPrice * float64(item.Quantity)
	}
	s.Total = total
}

// Normalize repairs a snapshot that may come from a low-trust source (the
// persisted record is user-controlled): duplicate product IDs are coalesced
// by summing quantities, lines with quantity <= 0 are dropped, images are
// stripped, and the total is recomputed.
func (s *CartSnapshot) Normalize() {
	seen := make(map[int64]int, len(s.Items))
	items := s.Items[:0]
	for _, item := range s.Items {
		item.Image = nil
		if idx, ok := seen[item.ProductID]; ok {
			items[idx].Quantity += item.Quantity
			continue
		}
		seen[item.ProductID] = len(items)
		items = append(items, item)
	}
	filtered := items[:0]
	for _, item := range items {
		if item.Quantity > 0 {
			filtered = append(filtered, item)
		}
	}
	s.Items = filtered
	s.Recompute()
}

// Find returns the index of the line holding productID, or -1.
func (s *CartSnapshot) Find(productID int64) int {
	for i := range s.Items {
		if s.Items[i].ProductID == productID {
			return i
		}
	}
	return -1
}

func (s *CartSnapshot) ItemCount() int {
	count := 0
	for _, item := range s.Items {
		count += item.Quantity
	}
	return count
}

// Clone returns a deep copy, so callers can mutate freely without aliasing
// the store's current value.
func (s CartSnapshot) Clone() CartSnapshot {
	items := make([]CartItem, len(s.Items))
	copy(items, s.Items)
	return CartSnapshot{Items: items, Total: s.Total}
}

// NewGuestID mints an identity for an anonymous shopper. It keys the durable
// slot and any guest-scoped backend calls.
func NewGuestID() string {
	return uuid.NewString()
}
