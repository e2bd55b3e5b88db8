package services

import (
	"context"
	"errors"
	"fmt"

	"shop-backend/models"
	"shop-backend/repository"

	"go.uber.org/zap"
)

// OrderService handles order reads and status transitions.
type OrderService struct {
	repo   repository.OrderRepository
	logger *zap.Logger
}

func NewOrderService(repo repository.OrderRepository, logger *zap.Logger) *OrderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderService{repo: repo, logger: logger}
}

// GetOrder returns one order with its line items.
func (s *OrderService) GetOrder(ctx context.Context, id uint) (*models.Order, error) {
	return s.repo.FindByID(ctx, id)
}

// GetStoreOrders returns all orders placed against one store.
func (s *OrderService) GetStoreOrders(ctx context.Context, storeID uint) ([]models.Order, error) {
	return s.repo.FindByStoreID(ctx, storeID)
}

// MarkCreating moves a pending order into the CREATING state. Any
// other edge is rejected by the transition table.
func (s *OrderService) MarkCreating(ctx context.Context, id uint) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !order.Status.CanTransitionTo(models.StatusCreating) {
		return nil, &InvalidStatusTransitionError{
			From: string(order.Status),
			To:   string(models.StatusCreating),
		}
	}

	if err := s.repo.UpdateStatus(ctx, id, order.Status, models.StatusCreating); err != nil {
		// A concurrent request moved the order first; report the
		// transition from its current status.
		if errors.Is(err, repository.ErrStatusConflict) {
			from := string(order.Status)
			if current, ferr := s.repo.FindByID(ctx, id); ferr == nil {
				from = string(current.Status)
			}
			return nil, &InvalidStatusTransitionError{
				From: from,
				To:   string(models.StatusCreating),
			}
		}
		return nil, fmt.Errorf("update order %d status: %w", id, err)
	}
	order.Status = models.StatusCreating

	s.logger.Info("Order status updated",
		zap.Uint("order_id", id),
		zap.String("status", string(models.StatusCreating)),
	)
	return order, nil
}
