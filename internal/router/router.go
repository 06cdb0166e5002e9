package router

import (
	"github.com/gin-gonic/gin"

	"github.com/bhmida/bricodirect-backend/config"
	"github.com/bhmida/bricodirect-backend/internal/app/controller"
	"github.com/bhmida/bricodirect-backend/internal/middleware"
)

type Router struct {
	authController     *controller.AuthController
	categoryController *controller.CategoryController
	productController  *controller.ProductController
	sessionController  *controller.SessionController
	cartController     *controller.CartController
	orderController    *controller.OrderController
	uploadController   *controller.UploadController
	notifyController   *controller.NotifyController
	authMiddleware     *middleware.AuthMiddleware
	config             *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	categoryController *controller.CategoryController,
	productController *controller.ProductController,
	sessionController *controller.SessionController,
	cartController *controller.CartController,
	orderController *controller.OrderController,
	uploadController *controller.UploadController,
	notifyController *controller.NotifyController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:     authController,
		categoryController: categoryController,
		productController:  productController,
		sessionController:  sessionController,
		cartController:     cartController,
		orderController:    orderController,
		uploadController:   uploadController,
		notifyController:   notifyController,
		authMiddleware:     authMiddleware,
		config:             cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "BricoDirect API is running",
		})
	})

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", r.authController.Register)
			auth.POST("/login", r.authController.Login)
			auth.POST("/refresh", r.authController.RefreshToken)
			auth.POST("/logout", r.authController.Logout)
			auth.GET("/me", r.authMiddleware.Authenticate(), r.authController.GetMe)
			auth.PUT("/me", r.authMiddleware.Authenticate(), r.authController.UpdateMe)
		}

		categories := v1.Group("/categories")
		{
			categories.GET("", r.categoryController.ListCategories)
			categories.GET("/:id", r.categoryController.GetCategory)
			categories.GET("/:id/subcategories", r.categoryController.ListSubcategories)
			categories.GET("/:id/products", r.categoryController.ListCategoryProducts)
		}

		products := v1.Group("/products")
		{
			products.GET("/search", r.productController.SearchProducts)
			products.GET("/:id", r.productController.GetProduct)
		}

		// Browsing sessions work for anonymous visitors; the session ID
		// travels in a header, not in the JWT.
		session := v1.Group("/session")
		{
			session.GET("", r.sessionController.GetSession)
			session.POST("/navigate", r.sessionController.Navigate)
			session.POST("/product-view", r.sessionController.CommitProductView)
		}

		cart := v1.Group("/cart")
		cart.Use(r.authMiddleware.Authenticate())
		{
			cart.GET("", r.cartController.GetCart)
			cart.POST("/lines", r.cartController.AddToCart)
			cart.PUT("/lines/:key", r.cartController.UpdateLine)
			cart.DELETE("/lines/:key", r.cartController.RemoveLine)
			cart.DELETE("", r.cartController.ClearCart)
		}

		orders := v1.Group("/orders")
		orders.Use(r.authMiddleware.Authenticate())
		{
			orders.POST("", r.orderController.SubmitOrder)
			orders.GET("", r.orderController.ListMyOrders)
		}

		quotations := v1.Group("/quotations")
		quotations.Use(r.authMiddleware.Authenticate())
		{
			quotations.POST("", r.orderController.SubmitQuotation)
			quotations.GET("", r.orderController.ListMyQuotations)
		}

		v1.GET("/documents/:id",
			r.authMiddleware.Authenticate(),
			r.orderController.GetMyDocument,
		)

		admin := v1.Group("/admin")
		admin.Use(r.authMiddleware.Authenticate(), r.authMiddleware.RequireRole("admin"))
		{
			admin.POST("/categories", r.categoryController.CreateCategory)
			admin.PUT("/categories/:id", r.categoryController.UpdateCategory)
			admin.DELETE("/categories/:id", r.categoryController.DeleteCategory)

			admin.POST("/products", r.productController.CreateProduct)
			admin.PUT("/products/:id", r.productController.UpdateProduct)
			admin.DELETE("/products/:id", r.productController.DeleteProduct)

			admin.GET("/documents", r.orderController.ListDocuments)
			admin.GET("/documents/export", r.orderController.ExportDocuments)
			admin.GET("/documents/:id", r.orderController.GetDocument)
			admin.PUT("/orders/:id/status", r.orderController.UpdateOrderStatus)
			admin.PUT("/quotations/:id/approve", r.orderController.ApproveQuotation)
			admin.PUT("/quotations/:id/reject", r.orderController.RejectQuotation)

			admin.POST("/uploads/presign", r.uploadController.PresignUpload)

			admin.GET("/notifications/ws", r.notifyController.Subscribe)
		}
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Session-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "X-Session-ID, Content-Disposition")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
