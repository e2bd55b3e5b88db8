package controllers

import (
	"errors"
	"net/http"

	"shop-backend/repository"
	"shop-backend/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type UserController struct {
	userService *services.UserService
	logger      *zap.Logger
}

func NewUserController(userService *services.UserService, logger *zap.Logger) *UserController {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserController{userService: userService, logger: logger}
}

// ListUsers handles GET /user.
func (uc *UserController) ListUsers(ctx *gin.Context) {
	users, err := uc.userService.ListUsers(ctx.Request.Context())
	if err != nil {
		uc.logger.Error("Failed to list users", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch users"})
		return
	}
	ctx.JSON(http.StatusOK, users)
}

// GetUser handles GET /user/:id.
func (uc *UserController) GetUser(ctx *gin.Context) {
	id, ok := parseIDParam(ctx)
	if !ok {
		return
	}

	user, err := uc.userService.GetUser(ctx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
			return
		}
		uc.logger.Error("Failed to fetch user", zap.Uint("user_id", id), zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch user"})
		return
	}

	ctx.JSON(http.StatusOK, user)
}

// Register handles POST /register.
func (uc *UserController) Register(ctx *gin.Context) {
	var req services.RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request", "details": err.Error()})
		return
	}

	user, err := uc.userService.Register(ctx.Request.Context(), &req)
	if err != nil {
		uc.logger.Error("Failed to register user", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to register user"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Registration successful",
		"data":    user,
	})
}

// Login handles POST /login by exact email and password match. There
// is no session or token issued.
func (uc *UserController) Login(ctx *gin.Context) {
	var req services.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request", "details": err.Error()})
		return
	}

	user, err := uc.userService.Login(ctx.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			ctx.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials"})
			return
		}
		uc.logger.Error("Login failed", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Login failed"})
		return
	}

	ctx.JSON(http.StatusOK, user)
}

// UpdateUser handles PATCH /user/:id.
func (uc *UserController) UpdateUser(ctx *gin.Context) {
	id, ok := parseIDParam(ctx)
	if !ok {
		return
	}

	var req services.UpdateUserRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request", "details": err.Error()})
		return
	}

	user, err := uc.userService.UpdateUser(ctx.Request.Context(), id, &req)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
			return
		}
		uc.logger.Error("Failed to update user", zap.Uint("user_id", id), zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update user"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "User updated",
		"data":    user,
	})
}
