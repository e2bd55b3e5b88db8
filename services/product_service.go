package services

import (
	"context"

	"shop-backend/models"
	"shop-backend/repository"

	"go.uber.org/zap"
)

// ProductResponse is a product with its discounted price materialized
// when a discount percentage is set.
type ProductResponse struct {
	models.Product
	DiscountPrice *float64 `json:"discount_price,omitempty"`
}

// ProductCache caches product reads.
type ProductCache interface {
	GetProduct(ctx context.Context, id uint) (*ProductResponse, bool)
	SetProduct(ctx context.Context, product *ProductResponse)
	GetProductList(ctx context.Context) ([]ProductResponse, bool)
	SetProductList(ctx context.Context, products []ProductResponse)
	InvalidateProduct(ctx context.Context, id uint)
	InvalidateList(ctx context.Context)
}

// CreateProductRequest is the body of POST /product.
type CreateProductRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" binding:"min=0"`
	Stock       int     `json:"stock" binding:"min=0"`
	Discount    *int    `json:"discount" binding:"omitempty,min=0,max=100"`
	StoreID     uint    `json:"store_id" binding:"required"`
}

// UpdateProductRequest is the body of PUT /product/:id. Nil fields are
// left untouched.
type UpdateProductRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price" binding:"omitempty,min=0"`
	Stock       *int     `json:"stock" binding:"omitempty,min=0"`
	Discount    *int     `json:"discount" binding:"omitempty,min=0,max=100"`
}

// ProductService handles product reads and writes, with a read-through
// cache in front of the repository.
type ProductService struct {
	repo   repository.ProductRepository
	cache  ProductCache
	logger *zap.Logger
}

func NewProductService(repo repository.ProductRepository, cache ProductCache, logger *zap.Logger) *ProductService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductService{repo: repo, cache: cache, logger: logger}
}

// ListProducts returns all products with discount prices applied.
func (s *ProductService) ListProducts(ctx context.Context) ([]ProductResponse, error) {
	if s.cache != nil {
		if cached, ok := s.cache.GetProductList(ctx); ok {
			return cached, nil
		}
	}

	products, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	responses := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		responses = append(responses, withDiscountPrice(p))
	}

	if s.cache != nil {
		s.cache.SetProductList(ctx, responses)
	}
	return responses, nil
}

// GetProduct returns one product with its discount price applied.
func (s *ProductService) GetProduct(ctx context.Context, id uint) (*ProductResponse, error) {
	if s.cache != nil {
		if cached, ok := s.cache.GetProduct(ctx, id); ok {
			return cached, nil
		}
	}

	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := withDiscountPrice(*product)

	if s.cache != nil {
		s.cache.SetProduct(ctx, &resp)
	}
	return &resp, nil
}

// ListStoreProducts returns all products belonging to one store.
func (s *ProductService) ListStoreProducts(ctx context.Context, storeID uint) ([]ProductResponse, error) {
	products, err := s.repo.FindByStoreID(ctx, storeID)
	if err != nil {
		return nil, err
	}
	responses := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		responses = append(responses, withDiscountPrice(p))
	}
	return responses, nil
}

func (s *ProductService) CreateProduct(ctx context.Context, req *CreateProductRequest) (*models.Product, error) {
	product := &models.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		Discount:    req.Discount,
		StoreID:     req.StoreID,
	}
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	s.invalidate(ctx, product.ID)
	return product, nil
}

func (s *ProductService) UpdateProduct(ctx context.Context, id uint, req *UpdateProductRequest) (*models.Product, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.Stock != nil {
		product.Stock = *req.Stock
	}
	if req.Discount != nil {
		product.Discount = req.Discount
	}
	if err := s.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	s.invalidate(ctx, id)
	return product, nil
}

func (s *ProductService) DeleteProduct(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

func (s *ProductService) invalidate(ctx context.Context, id uint) {
	if s.cache == nil {
		return
	}
	s.cache.InvalidateProduct(ctx, id)
	s.cache.InvalidateList(ctx)
}

func withDiscountPrice(p models.Product) ProductResponse {
	resp := ProductResponse{Product: p}
	if p.Discount != nil && *p.Discount > 0 {
		dp := p.Price - (p.Price * float64(*p.Discount) / 100)
		resp.DiscountPrice = &dp
	}
	return resp
}
