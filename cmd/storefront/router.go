package main

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/MikeMC777/cafe-reviews/internal/httpx"
)

const sessionName = "cafe_session"

func newRouter(d deps) *gin.Engine {
	r := gin.New()
	r.Use(httpx.RequestID(), httpx.Logger(d.Log), httpx.Recovery(d.Log))

	r.GET("/healthz", healthzHandler(d.Health))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api")
	{
		api.GET("/products", listProductsHandler(d.Products, d.Reviews))
		api.GET("/products/:id", getProductHandler(d.Products, d.Reviews))

		cartGroup := api.Group("/cart", sessions.Sessions(sessionName, d.Sessions))
		{
			cartGroup.GET("", getCartHandler(d.Products))
			cartGroup.DELETE("", clearCartHandler())
			cartGroup.POST("/items", addToCartHandler(d.Products))
			cartGroup.PUT("/items/:product_id", updateCartItemHandler())
			cartGroup.DELETE("/items/:product_id", removeCartItemHandler())
			cartGroup.POST("/checkout", cartCheckoutHandler(d.Products, d.Orders))
		}

		api.POST("/checkout", checkoutHandler(d.Orders))
		api.GET("/orders", listOrdersHandler(d.Orders))
		api.GET("/orders/:id", getOrderHandler(d.Orders))
		api.POST("/orders/:id/voice-call", startVoiceCallHandler(d.Orders, d.Voice, d.Log))

		api.GET("/reviews", listReviewsHandler(d.Reviews))
		api.POST("/webhooks/retell", webhookHandler(d.Ingest, d.Log))
	}
	return r
}
