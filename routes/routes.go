package routes

import (
	"net/http"

	"shop-backend/controllers"

	"github.com/gin-gonic/gin"
)

// Register wires all HTTP routes onto the engine.
func Register(
	r *gin.Engine,
	uc *controllers.UserController,
	sc *controllers.StoreController,
	pc *controllers.ProductController,
	oc *controllers.OrderController,
) {
	r.GET("/", func(ctx *gin.Context) {
		ctx.String(http.StatusOK, "Welcome to the server")
	})

	r.GET("/user", uc.ListUsers)
	r.GET("/user/:id", uc.GetUser)
	r.POST("/register", uc.Register)
	r.POST("/login", uc.Login)
	r.PATCH("/user/:id", uc.UpdateUser)

	r.POST("/toko", sc.CreateStore)
	r.GET("/toko/:id", sc.GetStore)

	r.GET("/products", pc.ListProducts)
	r.GET("/product/:id", pc.GetProduct)
	r.GET("/product/toko/:id", pc.ListStoreProducts)
	r.POST("/product", pc.CreateProduct)
	r.PUT("/product/:id", pc.UpdateProduct)
	r.DELETE("/product/:id", pc.DeleteProduct)

	r.POST("/order", oc.PlaceOrder)
	r.PATCH("/order/:id", oc.MarkCreating)
	r.GET("/order/buyer/:id", oc.GetOrder)
	r.GET("/order/toko/:id", oc.GetStoreOrders)
}
