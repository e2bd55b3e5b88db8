package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"shop-backend/repository"
	"shop-backend/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type OrderController struct {
	checkoutService *services.CheckoutService
	orderService    *services.OrderService
	logger          *zap.Logger
}

func NewOrderController(checkoutService *services.CheckoutService, orderService *services.OrderService, logger *zap.Logger) *OrderController {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderController{
		checkoutService: checkoutService,
		orderService:    orderService,
		logger:          logger,
	}
}

// PlaceOrder handles POST /order: validates the cart, prices it, and
// persists the order atomically.
func (oc *OrderController) PlaceOrder(ctx *gin.Context) {
	var req services.PlaceOrderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request", "details": err.Error()})
		return
	}

	result, err := oc.checkoutService.PlaceOrder(ctx.Request.Context(), &req)
	if err != nil {
		if services.IsValidationError(err) {
			ctx.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}
		oc.logger.Error("Order placement failed", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to place order"})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"message":    "Order created successfully",
		"order":      result.Order,
		"orderItems": result.OrderItems,
	})
}

// GetOrder handles GET /order/buyer/:id.
func (oc *OrderController) GetOrder(ctx *gin.Context) {
	id, ok := parseIDParam(ctx)
	if !ok {
		return
	}

	order, err := oc.orderService.GetOrder(ctx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"message": "Order not found"})
			return
		}
		oc.logger.Error("Failed to fetch order", zap.Uint("order_id", id), zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch order"})
		return
	}

	ctx.JSON(http.StatusOK, order)
}

// GetStoreOrders handles GET /order/toko/:id.
func (oc *OrderController) GetStoreOrders(ctx *gin.Context) {
	id, ok := parseIDParam(ctx)
	if !ok {
		return
	}

	orders, err := oc.orderService.GetStoreOrders(ctx.Request.Context(), id)
	if err != nil {
		oc.logger.Error("Failed to fetch store orders", zap.Uint("store_id", id), zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch orders"})
		return
	}

	ctx.JSON(http.StatusOK, orders)
}

// MarkCreating handles PATCH /order/:id, the only defined status
// transition.
func (oc *OrderController) MarkCreating(ctx *gin.Context) {
	id, ok := parseIDParam(ctx)
	if !ok {
		return
	}

	order, err := oc.orderService.MarkCreating(ctx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"message": "Order not found"})
			return
		}
		if services.IsValidationError(err) {
			ctx.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}
		oc.logger.Error("Failed to update order status", zap.Uint("order_id", id), zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update order"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Order updated",
		"data":    order,
	})
}

// parseIDParam reads the :id path parameter as an unsigned integer,
// writing a 400 response itself when the value is malformed.
func parseIDParam(ctx *gin.Context) (uint, bool) {
	raw := ctx.Param("id")
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Invalid ID format"})
		return 0, false
	}
	return uint(id), true
}
