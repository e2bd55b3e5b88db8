package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"shop-backend/models"
	"shop-backend/repository"
	"shop-backend/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore is an in-memory stand-in for the checkout repositories.
// One instance backs all three stores so a test can inspect the full
// persisted state after a checkout.
type memStore struct {
	products map[uint]*models.Product
	orders   []models.Order
	items    []models.OrderItem
	nextID   uint
}

func newMemStore(products ...models.Product) *memStore {
	s := &memStore{products: make(map[uint]*models.Product), nextID: 1}
	for i := range products {
		p := products[i]
		s.products[p.ID] = &p
	}
	return s
}

func (s *memStore) FindByID(_ context.Context, id uint) (*models.Product, error) {
	p, ok := s.products[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *memStore) DecrementStock(_ context.Context, id uint, quantity int) error {
	p, ok := s.products[id]
	if !ok {
		return repository.ErrNotFound
	}
	if p.Stock < quantity {
		return repository.ErrInsufficientStock
	}
	p.Stock -= quantity
	return nil
}

func (s *memStore) Create(_ context.Context, order *models.Order) error {
	order.ID = s.nextID
	s.nextID++
	if order.OrderDate.IsZero() {
		order.OrderDate = time.Now().UTC()
	}
	s.orders = append(s.orders, *order)
	return nil
}

func (s *memStore) BulkCreate(_ context.Context, items []models.OrderItem) error {
	for i := range items {
		items[i].ID = s.nextID
		s.nextID++
	}
	s.items = append(s.items, items...)
	return nil
}

type memSnapshot struct {
	products map[uint]models.Product
	orders   []models.Order
	items    []models.OrderItem
	nextID   uint
}

func (s *memStore) snapshot() memSnapshot {
	snap := memSnapshot{
		products: make(map[uint]models.Product, len(s.products)),
		orders:   append([]models.Order(nil), s.orders...),
		items:    append([]models.OrderItem(nil), s.items...),
		nextID:   s.nextID,
	}
	for id, p := range s.products {
		snap.products[id] = *p
	}
	return snap
}

func (s *memStore) restore(snap memSnapshot) {
	s.products = make(map[uint]*models.Product, len(snap.products))
	for id := range snap.products {
		p := snap.products[id]
		s.products[id] = &p
	}
	s.orders = snap.orders
	s.items = snap.items
	s.nextID = snap.nextID
}

// memTxManager gives each callback the shared store and rolls the
// store back to its pre-transaction state when the callback errors.
type memTxManager struct {
	store *memStore
}

func (m *memTxManager) WithinTx(_ context.Context, fn func(repos repository.CheckoutRepos) error) error {
	snap := m.store.snapshot()
	err := fn(repository.CheckoutRepos{
		Products:   m.store,
		Orders:     m.store,
		OrderItems: m.store,
	})
	if err != nil {
		m.store.restore(snap)
	}
	return err
}

type fakePublisher struct {
	keys     []string
	payloads [][]byte
}

func (p *fakePublisher) Publish(_ context.Context, key string, value []byte) error {
	p.keys = append(p.keys, key)
	p.payloads = append(p.payloads, append([]byte(nil), value...))
	return nil
}

func newCheckout(store *memStore, events services.EventPublisher) *services.CheckoutService {
	return services.NewCheckoutService(&memTxManager{store: store}, events, nil, time.Second, nil)
}

func TestPlaceOrder_TotalsAndStock(t *testing.T) {
	store := newMemStore(
		models.Product{ID: 1, Name: "Coffee", Price: 10, Stock: 5, StoreID: 7},
		models.Product{ID: 2, Name: "Tea", Price: 5, Stock: 4, StoreID: 7},
	)
	svc := newCheckout(store, nil)

	result, err := svc.PlaceOrder(context.Background(), &services.PlaceOrderRequest{
		UserID: 1,
		Items: services.OrderEntries{
			{ProductID: 1, Quantity: 2, StoreID: 7},
			{ProductID: 2, Quantity: 1},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 25.0, result.Order.TotalPrice)
	require.Len(t, result.OrderItems, 2)
	assert.Equal(t, 20.0, result.OrderItems[0].Subtotal)
	assert.Equal(t, 5.0, result.OrderItems[1].Subtotal)

	var sum float64
	for _, item := range result.OrderItems {
		sum += item.Subtotal
		assert.Equal(t, result.Order.ID, item.OrderID)
	}
	assert.Equal(t, result.Order.TotalPrice, sum)

	assert.Equal(t, 3, store.products[1].Stock)
	assert.Equal(t, 3, store.products[2].Stock)
	assert.Equal(t, models.StatusPending, result.Order.Status)
	assert.Equal(t, uint(7), result.Order.StoreID, "store comes from the first cart entry")
	assert.NotEmpty(t, result.Order.OrderNumber)
}

func TestPlaceOrder_CapturesPriceAtOrderTime(t *testing.T) {
	store := newMemStore(models.Product{ID: 1, Name: "Coffee", Price: 10, Stock: 5})
	svc := newCheckout(store, nil)

	result, err := svc.PlaceOrder(context.Background(), &services.PlaceOrderRequest{
		UserID: 1,
		Items:  services.OrderEntries{{ProductID: 1, Quantity: 1, StoreID: 1}},
	})
	require.NoError(t, err)

	store.products[1].Price = 99
	assert.Equal(t, 10.0, result.OrderItems[0].Price)
	assert.Equal(t, 10.0, store.items[0].Price)
}

func TestPlaceOrder_InsufficientStock(t *testing.T) {
	store := newMemStore(models.Product{ID: 1, Name: "Coffee", Price: 10, Stock: 3})
	svc := newCheckout(store, nil)

	_, err := svc.PlaceOrder(context.Background(), &services.PlaceOrderRequest{
		UserID: 1,
		Items:  services.OrderEntries{{ProductID: 1, Quantity: 5, StoreID: 1}},
	})

	var stockErr *services.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, uint(1), stockErr.ProductID)
	assert.Equal(t, 5, stockErr.Requested)
	assert.Equal(t, 3, stockErr.Available)

	assert.Equal(t, 3, store.products[1].Stock, "stock must be untouched")
	assert.Empty(t, store.orders, "no order row may survive a failed checkout")
	assert.Empty(t, store.items)
}

func TestPlaceOrder_ExpiredContextRollsBack(t *testing.T) {
	store := newMemStore(models.Product{ID: 1, Name: "Coffee", Price: 10, Stock: 5})
	svc := newCheckout(store, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.PlaceOrder(ctx, &services.PlaceOrderRequest{
		UserID: 1,
		Items:  services.OrderEntries{{ProductID: 1, Quantity: 1, StoreID: 1}},
	})

	require.ErrorIs(t, err, context.Canceled)
	assert.False(t, services.IsValidationError(err))
	assert.Empty(t, store.orders, "nothing may persist past an expired deadline")
	assert.Empty(t, store.items)
	assert.Equal(t, 5, store.products[1].Stock)
}

// contestedProducts passes the upfront stock check but fails the
// decrement with some stock left, like a competing checkout landing
// in between.
type contestedProducts struct {
	*memStore
	remaining int
}

func (s *contestedProducts) DecrementStock(_ context.Context, id uint, _ int) error {
	s.products[id].Stock = s.remaining
	return repository.ErrInsufficientStock
}

type contestedTxManager struct {
	store     *memStore
	remaining int
}

func (m *contestedTxManager) WithinTx(_ context.Context, fn func(repos repository.CheckoutRepos) error) error {
	snap := m.store.snapshot()
	err := fn(repository.CheckoutRepos{
		Products:   &contestedProducts{memStore: m.store, remaining: m.remaining},
		Orders:     m.store,
		OrderItems: m.store,
	})
	if err != nil {
		m.store.restore(snap)
	}
	return err
}

func TestPlaceOrder_ConcurrentDecrementReportsRemainingStock(t *testing.T) {
	store := newMemStore(models.Product{ID: 1, Name: "Coffee", Price: 10, Stock: 5})
	tx := &contestedTxManager{store: store, remaining: 1}
	svc := services.NewCheckoutService(tx, nil, nil, time.Second, nil)

	_, err := svc.PlaceOrder(context.Background(), &services.PlaceOrderRequest{
		UserID: 1,
		Items:  services.OrderEntries{{ProductID: 1, Quantity: 2, StoreID: 1}},
	})

	var stockErr *services.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, uint(1), stockErr.ProductID)
	assert.Equal(t, 2, stockErr.Requested)
	assert.Equal(t, 1, stockErr.Available, "error must report the stock actually left")

	assert.Empty(t, store.orders)
	assert.Equal(t, 5, store.products[1].Stock)
}

func TestPlaceOrder_ProductNotFound(t *testing.T) {
	store := newMemStore(models.Product{ID: 1, Name: "Coffee", Price: 10, Stock: 3})
	svc := newCheckout(store, nil)

	_, err := svc.PlaceOrder(context.Background(), &services.PlaceOrderRequest{
		UserID: 1,
		Items: services.OrderEntries{
			{ProductID: 1, Quantity: 1, StoreID: 1},
			{ProductID: 999, Quantity: 1},
		},
	})

	var notFound *services.ProductNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, uint(999), notFound.ProductID)

	assert.Equal(t, 3, store.products[1].Stock, "earlier entries must be rolled back")
	assert.Empty(t, store.orders)
	assert.Empty(t, store.items)
}

func TestPlaceOrder_RejectsNonPositiveQuantity(t *testing.T) {
	store := newMemStore(models.Product{ID: 1, Name: "Coffee", Price: 10, Stock: 3})
	svc := newCheckout(store, nil)

	_, err := svc.PlaceOrder(context.Background(), &services.PlaceOrderRequest{
		UserID: 1,
		Items:  services.OrderEntries{{ProductID: 1, Quantity: 0, StoreID: 1}},
	})

	var qtyErr *services.InvalidQuantityError
	require.ErrorAs(t, err, &qtyErr)
	assert.True(t, services.IsValidationError(err))
	assert.Empty(t, store.orders)
}

func TestPlaceOrder_EmptyCart(t *testing.T) {
	svc := newCheckout(newMemStore(), nil)

	_, err := svc.PlaceOrder(context.Background(), &services.PlaceOrderRequest{UserID: 1})
	assert.ErrorIs(t, err, services.ErrEmptyCart)
}

func TestPlaceOrder_DuplicateSubmissionCreatesTwoOrders(t *testing.T) {
	store := newMemStore(models.Product{ID: 1, Name: "Coffee", Price: 10, Stock: 10})
	svc := newCheckout(store, nil)

	req := &services.PlaceOrderRequest{
		UserID: 1,
		Items:  services.OrderEntries{{ProductID: 1, Quantity: 2, StoreID: 1}},
	}

	first, err := svc.PlaceOrder(context.Background(), req)
	require.NoError(t, err)
	second, err := svc.PlaceOrder(context.Background(), req)
	require.NoError(t, err)

	assert.NotEqual(t, first.Order.ID, second.Order.ID)
	assert.NotEqual(t, first.Order.OrderNumber, second.Order.OrderNumber)
	assert.Len(t, store.orders, 2)
	assert.Equal(t, 6, store.products[1].Stock)
}

func TestPlaceOrder_PublishesEventAfterCommit(t *testing.T) {
	store := newMemStore(models.Product{ID: 1, Name: "Coffee", Price: 10, Stock: 5})
	events := &fakePublisher{}
	svc := newCheckout(store, events)

	result, err := svc.PlaceOrder(context.Background(), &services.PlaceOrderRequest{
		UserID: 1,
		Items:  services.OrderEntries{{ProductID: 1, Quantity: 1, StoreID: 1}},
	})
	require.NoError(t, err)

	require.Len(t, events.payloads, 1)
	assert.Equal(t, result.Order.OrderNumber, events.keys[0])

	var event services.OrderCreatedEvent
	require.NoError(t, json.Unmarshal(events.payloads[0], &event))
	assert.Equal(t, result.Order.ID, event.OrderID)
	assert.Equal(t, 10.0, event.TotalPrice)
	assert.Len(t, event.Items, 1)
}

func TestPlaceOrder_NoEventOnFailure(t *testing.T) {
	store := newMemStore(models.Product{ID: 1, Name: "Coffee", Price: 10, Stock: 0})
	events := &fakePublisher{}
	svc := newCheckout(store, events)

	_, err := svc.PlaceOrder(context.Background(), &services.PlaceOrderRequest{
		UserID: 1,
		Items:  services.OrderEntries{{ProductID: 1, Quantity: 1, StoreID: 1}},
	})
	require.Error(t, err)
	assert.Empty(t, events.payloads)
}

// failingTxManager simulates the database rejecting the commit.
type failingTxManager struct{}

func (failingTxManager) WithinTx(context.Context, func(repository.CheckoutRepos) error) error {
	return errors.New("connection reset by peer")
}

func TestPlaceOrder_PersistenceFailureIsNotValidation(t *testing.T) {
	svc := services.NewCheckoutService(failingTxManager{}, nil, nil, time.Second, nil)

	_, err := svc.PlaceOrder(context.Background(), &services.PlaceOrderRequest{
		UserID: 1,
		Items:  services.OrderEntries{{ProductID: 1, Quantity: 1, StoreID: 1}},
	})
	require.Error(t, err)
	assert.False(t, services.IsValidationError(err))
}

func TestOrderEntries_UnmarshalList(t *testing.T) {
	var entries services.OrderEntries
	err := json.Unmarshal([]byte(`[{"product_id":1,"quantity":2},{"product_id":2,"quantity":3}]`), &entries)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, uint(2), entries[1].ProductID)
}

func TestOrderEntries_UnmarshalSingleObject(t *testing.T) {
	var entries services.OrderEntries
	err := json.Unmarshal([]byte(`{"product_id":1,"quantity":2,"store_id":4}`), &entries)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, uint(1), entries[0].ProductID)
	assert.Equal(t, 2, entries[0].Quantity)
	assert.Equal(t, uint(4), entries[0].StoreID)
}

func TestOrderEntries_UnmarshalInvalid(t *testing.T) {
	var entries services.OrderEntries
	err := json.Unmarshal([]byte(`"not a cart"`), &entries)
	assert.Error(t, err)
}
