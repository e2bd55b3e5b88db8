package controllers

import (
	"errors"
	"net/http"

	"shop-backend/repository"
	"shop-backend/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ProductController struct {
	productService *services.ProductService
	logger         *zap.Logger
}

func NewProductController(productService *services.ProductService, logger *zap.Logger) *ProductController {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductController{productService: productService, logger: logger}
}

// ListProducts handles GET /products.
func (pc *ProductController) ListProducts(ctx *gin.Context) {
	products, err := pc.productService.ListProducts(ctx.Request.Context())
	if err != nil {
		pc.logger.Error("Failed to list products", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch products"})
		return
	}
	ctx.JSON(http.StatusOK, products)
}

// GetProduct handles GET /product/:id.
func (pc *ProductController) GetProduct(ctx *gin.Context) {
	id, ok := parseIDParam(ctx)
	if !ok {
		return
	}

	product, err := pc.productService.GetProduct(ctx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"message": "Product not found"})
			return
		}
		pc.logger.Error("Failed to fetch product", zap.Uint("product_id", id), zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch product"})
		return
	}

	ctx.JSON(http.StatusOK, product)
}

// ListStoreProducts handles GET /product/toko/:id.
func (pc *ProductController) ListStoreProducts(ctx *gin.Context) {
	id, ok := parseIDParam(ctx)
	if !ok {
		return
	}

	products, err := pc.productService.ListStoreProducts(ctx.Request.Context(), id)
	if err != nil {
		pc.logger.Error("Failed to list store products", zap.Uint("store_id", id), zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch products"})
		return
	}
	ctx.JSON(http.StatusOK, products)
}

// CreateProduct handles POST /product.
func (pc *ProductController) CreateProduct(ctx *gin.Context) {
	var req services.CreateProductRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request", "details": err.Error()})
		return
	}

	product, err := pc.productService.CreateProduct(ctx.Request.Context(), &req)
	if err != nil {
		pc.logger.Error("Failed to create product", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create product"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Product created",
		"data":    product,
	})
}

// UpdateProduct handles PUT /product/:id.
func (pc *ProductController) UpdateProduct(ctx *gin.Context) {
	id, ok := parseIDParam(ctx)
	if !ok {
		return
	}

	var req services.UpdateProductRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request", "details": err.Error()})
		return
	}

	product, err := pc.productService.UpdateProduct(ctx.Request.Context(), id, &req)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"message": "Product not found"})
			return
		}
		pc.logger.Error("Failed to update product", zap.Uint("product_id", id), zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update product"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Product updated",
		"data":    product,
	})
}

// DeleteProduct handles DELETE /product/:id.
func (pc *ProductController) DeleteProduct(ctx *gin.Context) {
	id, ok := parseIDParam(ctx)
	if !ok {
		return
	}

	if err := pc.productService.DeleteProduct(ctx.Request.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"message": "Product not found"})
			return
		}
		pc.logger.Error("Failed to delete product", zap.Uint("product_id", id), zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to delete product"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Product deleted"})
}
