package controllers

import (
	"errors"
	"net/http"

	"shop-backend/repository"
	"shop-backend/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type StoreController struct {
	storeService *services.StoreService
	logger       *zap.Logger
}

func NewStoreController(storeService *services.StoreService, logger *zap.Logger) *StoreController {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StoreController{storeService: storeService, logger: logger}
}

// GetStore handles GET /toko/:id.
func (sc *StoreController) GetStore(ctx *gin.Context) {
	id, ok := parseIDParam(ctx)
	if !ok {
		return
	}

	store, err := sc.storeService.GetStore(ctx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"message": "Store not found"})
			return
		}
		sc.logger.Error("Failed to fetch store", zap.Uint("store_id", id), zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch store"})
		return
	}

	ctx.JSON(http.StatusOK, store)
}

// CreateStore handles POST /toko.
func (sc *StoreController) CreateStore(ctx *gin.Context) {
	var req services.CreateStoreRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request", "details": err.Error()})
		return
	}

	store, err := sc.storeService.CreateStore(ctx.Request.Context(), &req)
	if err != nil {
		sc.logger.Error("Failed to create store", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create store"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Store created",
		"data":    store,
	})
}
