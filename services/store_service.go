package services

import (
	"context"

	"shop-backend/models"
	"shop-backend/repository"
)

// CreateStoreRequest is the body of POST /toko.
type CreateStoreRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Address     string `json:"address" binding:"required"`
	PhoneNumber string `json:"phone_number"`
	OwnerID     uint   `json:"owner_id" binding:"required"`
}

// StoreService handles store creation and lookup.
type StoreService struct {
	repo repository.StoreRepository
}

func NewStoreService(repo repository.StoreRepository) *StoreService {
	return &StoreService{repo: repo}
}

func (s *StoreService) GetStore(ctx context.Context, id uint) (*models.Store, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *StoreService) CreateStore(ctx context.Context, req *CreateStoreRequest) (*models.Store, error) {
	store := &models.Store{
		Name:        req.Name,
		Description: req.Description,
		Address:     req.Address,
		PhoneNumber: req.PhoneNumber,
		OwnerID:     req.OwnerID,
	}
	if err := s.repo.Create(ctx, store); err != nil {
		return nil, err
	}
	return store, nil
}
