package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"shop-backend/models"
	"shop-backend/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OrderEntry is one cart line in an order request.
type OrderEntry struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,min=1"`
	StoreID   uint `json:"store_id,omitempty"`
}

// OrderEntries accepts either a JSON array of entries or a single
// bare entry, normalizing both into a list before the cart reaches
// the checkout logic.
type OrderEntries []OrderEntry

func (e *OrderEntries) UnmarshalJSON(data []byte) error {
	var list []OrderEntry
	if err := json.Unmarshal(data, &list); err == nil {
		*e = list
		return nil
	}
	var single OrderEntry
	if err := json.Unmarshal(data, &single); err != nil {
		return err
	}
	*e = OrderEntries{single}
	return nil
}

// PlaceOrderRequest is the body of POST /order.
type PlaceOrderRequest struct {
	UserID uint         `json:"user_id" binding:"required"`
	Items  OrderEntries `json:"items" binding:"required"`
}

// PlaceOrderResult is the persisted outcome of a successful checkout.
type PlaceOrderResult struct {
	Order      *models.Order      `json:"order"`
	OrderItems []models.OrderItem `json:"orderItems"`
}

// OrderCreatedEvent is published after a checkout commits.
type OrderCreatedEvent struct {
	OrderID     uint               `json:"order_id"`
	OrderNumber string             `json:"order_number"`
	BuyerID     uint               `json:"buyer_id"`
	StoreID     uint               `json:"store_id"`
	TotalPrice  float64            `json:"total_price"`
	Items       []models.OrderItem `json:"items"`
	Timestamp   time.Time          `json:"timestamp"`
}

// EventPublisher publishes domain events to the message broker.
type EventPublisher interface {
	Publish(ctx context.Context, key string, value []byte) error
}

// ProductInvalidator drops cached product entries after their stock
// changes.
type ProductInvalidator interface {
	InvalidateProduct(ctx context.Context, id uint)
}

// CheckoutService places orders: it validates the cart against live
// stock, prices it, and persists the order, its items, and the stock
// decrements atomically.
type CheckoutService struct {
	tx      repository.TxManager
	events  EventPublisher
	cache   ProductInvalidator
	timeout time.Duration
	logger  *zap.Logger
}

const DefaultCheckoutTimeout = 5 * time.Second

func NewCheckoutService(tx repository.TxManager, events EventPublisher, cache ProductInvalidator, timeout time.Duration, logger *zap.Logger) *CheckoutService {
	if timeout <= 0 {
		timeout = DefaultCheckoutTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CheckoutService{
		tx:      tx,
		events:  events,
		cache:   cache,
		timeout: timeout,
		logger:  logger,
	}
}

// PlaceOrder runs the whole checkout inside one bounded transaction.
// Any failure rolls back the order, its items, and every stock
// decrement; nothing partial survives.
func (s *CheckoutService) PlaceOrder(ctx context.Context, req *PlaceOrderRequest) (*PlaceOrderResult, error) {
	if len(req.Items) == 0 {
		return nil, ErrEmptyCart
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var order *models.Order
	var items []models.OrderItem

	err := s.tx.WithinTx(ctx, func(r repository.CheckoutRepos) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		var total float64
		items = make([]models.OrderItem, 0, len(req.Items))

		for _, entry := range req.Items {
			if entry.Quantity <= 0 {
				return &InvalidQuantityError{ProductID: entry.ProductID, Quantity: entry.Quantity}
			}
			product, err := r.Products.FindByID(ctx, entry.ProductID)
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return &ProductNotFoundError{ProductID: entry.ProductID}
				}
				return fmt.Errorf("look up product %d: %w", entry.ProductID, err)
			}
			if product.Stock < entry.Quantity {
				return &InsufficientStockError{
					ProductID: product.ID,
					Requested: entry.Quantity,
					Available: product.Stock,
				}
			}

			// Price is captured into the line item now so later price
			// changes cannot alter historical orders.
			subtotal := product.Price * float64(entry.Quantity)
			total += subtotal
			items = append(items, models.OrderItem{
				ProductID: product.ID,
				Quantity:  entry.Quantity,
				Price:     product.Price,
				Subtotal:  subtotal,
			})
		}

		// The order's store comes from the first cart entry; carts
		// spanning several stores keep that first store.
		order = &models.Order{
			OrderNumber: uuid.NewString(),
			BuyerID:     req.UserID,
			StoreID:     req.Items[0].StoreID,
			TotalPrice:  total,
			Status:      models.StatusPending,
		}
		if err := r.Orders.Create(ctx, order); err != nil {
			return fmt.Errorf("create order: %w", err)
		}

		for i := range items {
			items[i].OrderID = order.ID
		}
		if err := r.OrderItems.BulkCreate(ctx, items); err != nil {
			return fmt.Errorf("create order items: %w", err)
		}

		// Conditional decrement: zero rows affected means a concurrent
		// checkout took the stock after our check above.
		for _, entry := range req.Items {
			if err := r.Products.DecrementStock(ctx, entry.ProductID, entry.Quantity); err != nil {
				if errors.Is(err, repository.ErrInsufficientStock) {
					stockErr := &InsufficientStockError{
						ProductID: entry.ProductID,
						Requested: entry.Quantity,
					}
					if p, ferr := r.Products.FindByID(ctx, entry.ProductID); ferr == nil {
						stockErr.Available = p.Stock
					}
					return stockErr
				}
				if errors.Is(err, repository.ErrNotFound) {
					return &ProductNotFoundError{ProductID: entry.ProductID}
				}
				return fmt.Errorf("decrement stock for product %d: %w", entry.ProductID, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Order placed",
		zap.Uint("order_id", order.ID),
		zap.String("order_number", order.OrderNumber),
		zap.Uint("buyer_id", order.BuyerID),
		zap.Float64("total_price", order.TotalPrice),
		zap.Int("items", len(items)),
	)

	s.afterCommit(order, items, req.Items)

	return &PlaceOrderResult{Order: order, OrderItems: items}, nil
}

// afterCommit handles best-effort side effects: publishing the
// order-created event and dropping stale product cache entries.
// Failures are logged, never surfaced to the buyer.
func (s *CheckoutService) afterCommit(order *models.Order, items []models.OrderItem, entries OrderEntries) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if s.cache != nil {
		for _, entry := range entries {
			s.cache.InvalidateProduct(ctx, entry.ProductID)
		}
	}

	if s.events == nil {
		return
	}
	event := OrderCreatedEvent{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		BuyerID:     order.BuyerID,
		StoreID:     order.StoreID,
		TotalPrice:  order.TotalPrice,
		Items:       items,
		Timestamp:   time.Now().UTC(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("Failed to marshal order created event", zap.Error(err))
		return
	}
	if err := s.events.Publish(ctx, order.OrderNumber, payload); err != nil {
		s.logger.Error("Failed to publish order created event",
			zap.Uint("order_id", order.ID),
			zap.Error(err),
		)
	}
}
