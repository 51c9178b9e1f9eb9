// Package reconcile joins locally-held cart lines against live catalog data
// to produce a display-ready cart, degrading to the snapshot's own fields
// when the catalog is unreachable.
package reconcile

import (
	"context"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mpetrov/go_storefront/cartstore"
	"github.com/mpetrov/go_storefront/domain"
)

// Catalog resolves product details for enrichment. One attempt per product
// per pass; retries are the implementation's business, not the reconciler's.
type Catalog interface {
	Lookup(ctx context.Context, productID int64) (domain.Product, error)
}

const defaultTimeout = 10 * time.Second

type Option func(*Reconciler)

func WithTimeout(d time.Duration) Option {
	return func(r *Reconciler) { r.timeout = d }
}

// Reconciler consumes cart snapshots and republishes enriched carts with
// replay-latest semantics. Stale in-flight batches never overwrite results
// computed from newer snapshots.
type Reconciler struct {
	catalog Catalog
	timeout time.Duration

	mu      sync.Mutex
	gen     uint64
	current domain.EnrichedCart
	subs    []func(domain.EnrichedCart)
}

func New(catalog Catalog, opts ...Option) *Reconciler {
	r := &Reconciler{
		catalog: catalog,
		timeout: defaultTimeout,
		current: domain.EmptyEnrichedCart(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Bind subscribes the reconciler to a cart store. The store replays its
// current snapshot on subscription, so the enriched view is primed
// immediately.
func (r *Reconciler) Bind(store *cartstore.Store) {
	store.Subscribe(r.Reconcile)
}

// Reconcile starts an enrichment pass for snap. An empty snapshot publishes
// the empty enriched cart synchronously with no catalog calls; anything else
// runs the lookup batch in the background.
func (r *Reconciler) Reconcile(snap domain.CartSnapshot) {
	r.mu.Lock()
	r.gen++
	gen := r.gen
	if len(snap.Items) == 0 {
		r.current = domain.EmptyEnrichedCart()
		subs := r.copySubsLocked()
		current := r.current
		r.mu.Unlock()
		deliver(subs, current)
		return
	}
	r.mu.Unlock()

	go r.run(gen, snap)
}

// Current returns the latest enriched cart.
func (r *Reconciler) Current() domain.EnrichedCart {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// Subscribe registers fn and immediately delivers the current enriched cart.
// Later deliveries come from whichever goroutine finished the batch.
func (r *Reconciler) Subscribe(fn func(domain.EnrichedCart)) {
	r.mu.Lock()
	r.subs = append(r.subs, fn)
	current := r.current
	r.mu.Unlock()

	fn(current)
}

func (r *Reconciler) run(gen uint64, snap domain.CartSnapshot) {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	// One lookup per line; lines are unique by product ID. The batch is
	// all-or-nothing: a single failed lookup degrades the whole pass.
	products := make([]domain.Product, len(snap.Items))
	g, gctx := errgroup.WithContext(ctx)
	for i := range snap.Items {
		i := i
		g.Go(func() error {
			p, err := r.catalog.Lookup(gctx, snap.Items[i].ProductID)
			if err != nil {
				return err
			}
			products[i] = p
			return nil
		})
	}

	var cart domain.EnrichedCart
	if err := g.Wait(); err != nil {
		log.Printf("catalog lookup failed, using cart snapshot fields: %v", err)
		cart = fallback(snap)
	} else {
		cart = enrich(snap, products)
	}

	r.publish(gen, cart)
}

func (r *Reconciler) publish(gen uint64, cart domain.EnrichedCart) {
	r.mu.Lock()
	if gen != r.gen {
		// A newer snapshot arrived while this batch was in flight.
		r.mu.Unlock()
		return
	}
	r.current = cart
	subs := r.copySubsLocked()
	r.mu.Unlock()

	deliver(subs, cart)
}

func (r *Reconciler) copySubsLocked() []func(domain.EnrichedCart) {
	subs := make([]func(domain.EnrichedCart), len(r.subs))
	copy(subs, r.subs)
	return subs
}

func deliver(subs []func(domain.EnrichedCart), cart domain.EnrichedCart) {
	for _, fn := range subs {
		fn(cart)
	}
}

// enrich prefers catalog values field by field, keeping the snapshot's own
// value wherever the catalog had nothing. Entry order follows line order.
func enrich(snap domain.CartSnapshot, products []domain.Product) domain.EnrichedCart {
	entries := make([]domain.EnrichedEntry, len(snap.Items))
	total := 0.0
	for i, item := range snap.Items {
		p := products[i]

		title := item.ProductName
		if p.Title != "" {
			title = p.Title
		}
		price := item.UnitPrice
		if p.Price > 0 {
			price = p.Price
		}
		var image []byte
		if len(p.Image) > 0 {
			image = p.Image
		}

		entries[i] = domain.EnrichedEntry{
			ProductID: item.ProductID,
			Title:     title,
			Price:     price,
			Quantity:  item.Quantity,
			Image:     image,
		}
		total += price * float64(item.Quantity)
	}
	return domain.EnrichedCart{Entries: entries, Total: total}
}

// fallback builds the enriched cart from snapshot fields only.
func fallback(snap domain.CartSnapshot) domain.EnrichedCart {
	entries := make([]domain.EnrichedEntry, len(snap.Items))
	total := 0.0
	for i, item := range snap.Items {
		entries[i] = domain.EnrichedEntry{
			ProductID: item.ProductID,
			Title:     item.ProductName,
			Price:     item.UnitPrice,
			Quantity:  item.Quantity,
		}
		total += item.UnitPrice * float64(item.Quantity)
	}
	return domain.EnrichedCart{Entries: entries, Total: total}
}
