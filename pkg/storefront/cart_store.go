package storefront

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"
)

// CartStore mirrors the server cart. Every mutation is followed by a full
// re-read; nothing is applied locally first.
type CartStore struct {
	client *Client

	mu     sync.RWMutex
	items  []CartItem
	total  decimal.Decimal
	nextID int
	subs   map[int]func(Cart)

	unsubscribe func()
}

// NewCartStore binds a store to client. The store empties itself whenever the
// client's session is cleared.
func NewCartStore(client *Client) *CartStore {
	s := &CartStore{client: client, subs: make(map[int]func(Cart))}
	s.unsubscribe = client.Session().Subscribe(func(state SessionState) {
		if !state.Authenticated() {
			s.reset()
		}
	})
	return s
}

// Close detaches the store from the session.
func (s *CartStore) Close() {
	if s.unsubscribe != nil {
		s.unsubscribe()
	}
}

func (s *CartStore) Items() []CartItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]CartItem, len(s.items))
	copy(out, s.items)
	return out
}

func (s *CartStore) Total() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.total
}

// Count is the number of units across all lines.
func (s *CartStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, item := range s.items {
		n += item.Quantity
	}
	return n
}

// Subscribe registers fn for every refresh or reset.
func (s *CartStore) Subscribe(fn func(Cart)) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// Refresh replaces local state with the server cart.
func (s *CartStore) Refresh(ctx context.Context) error {
	cart, err := s.client.GetCart(ctx)
	if err != nil {
		return err
	}
	s.replace(cart.Items, cart.Total)
	return nil
}

func (s *CartStore) Add(ctx context.Context, productID int64, quantity int) error {
	if err := s.client.AddToCart(ctx, productID, quantity); err != nil {
		return err
	}
	return s.Refresh(ctx)
}

func (s *CartStore) Update(ctx context.Context, productID int64, quantity int) error {
	if err := s.client.UpdateCartItem(ctx, productID, quantity); err != nil {
		return err
	}
	return s.Refresh(ctx)
}

func (s *CartStore) Remove(ctx context.Context, productID int64) error {
	if err := s.client.RemoveFromCart(ctx, productID); err != nil {
		return err
	}
	return s.Refresh(ctx)
}

func (s *CartStore) Clear(ctx context.Context) error {
	if err := s.client.ClearCart(ctx); err != nil {
		return err
	}
	return s.Refresh(ctx)
}

// Checkout submits the current lines at their mirrored prices, then refreshes.
// The refresh error is dropped once the order exists.
func (s *CartStore) Checkout(ctx context.Context, paymentIntentID, idempotencyKey string) (*CheckoutResponse, error) {
	s.mu.RLock()
	req := CheckoutRequest{
		Items:           make([]CheckoutItem, 0, len(s.items)),
		TotalAmount:     s.total,
		PaymentIntentID: paymentIntentID,
	}
	for _, item := range s.items {
		price := item.Price
		req.Items = append(req.Items, CheckoutItem{ProductID: item.ProductID, Quantity: item.Quantity, Price: &price})
	}
	s.mu.RUnlock()

	resp, err := s.client.Checkout(ctx, req, idempotencyKey)
	if err != nil {
		return nil, err
	}
	_ = s.Refresh(ctx)
	return resp, nil
}

func (s *CartStore) reset() {
	s.replace(nil, decimal.Zero)
}

func (s *CartStore) replace(items []CartItem, total decimal.Decimal) {
	s.mu.Lock()
	s.items = append([]CartItem(nil), items...)
	s.total = total
	snapshot := Cart{Items: append([]CartItem(nil), s.items...), Total: total}
	subs := make([]func(Cart), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()
	for _, fn := range subs {
		fn(snapshot)
	}
}
