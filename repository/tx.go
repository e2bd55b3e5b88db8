package repository

import (
	"context"

	"shop-backend/models"

	"gorm.io/gorm"
)

// CheckoutProductStore is the slice of product persistence the checkout
// transaction needs.
type CheckoutProductStore interface {
	FindByID(ctx context.Context, id uint) (*models.Product, error)
	DecrementStock(ctx context.Context, id uint, quantity int) error
}

// CheckoutOrderStore creates the order row.
type CheckoutOrderStore interface {
	Create(ctx context.Context, order *models.Order) error
}

// CheckoutOrderItemStore inserts the order's line items.
type CheckoutOrderItemStore interface {
	BulkCreate(ctx context.Context, items []models.OrderItem) error
}

// CheckoutRepos bundles the repositories bound to one transaction.
type CheckoutRepos struct {
	Products   CheckoutProductStore
	Orders     CheckoutOrderStore
	OrderItems CheckoutOrderItemStore
}

// TxManager runs fn with repositories scoped to a single database
// transaction. If fn returns an error every write made through the
// repos is rolled back.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(repos CheckoutRepos) error) error
}

// GormTxManager implements TxManager on top of GORM transactions.
type GormTxManager struct {
	db *gorm.DB
}

func NewGormTxManager(db *gorm.DB) *GormTxManager {
	return &GormTxManager{db: db}
}

func (m *GormTxManager) WithinTx(ctx context.Context, fn func(repos CheckoutRepos) error) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(CheckoutRepos{
			Products:   NewGormProductRepository(tx),
			Orders:     NewGormOrderRepository(tx),
			OrderItems: NewGormOrderItemRepository(tx),
		})
	})
}
