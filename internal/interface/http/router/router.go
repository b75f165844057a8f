// Package router 组装Gin引擎：全局中间件、基础设施路由与业务API
package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/xiebiao/bookapp/docs"
	"github.com/xiebiao/bookapp/internal/infrastructure/config"
	"github.com/xiebiao/bookapp/internal/interface/http/handler"
	"github.com/xiebiao/bookapp/internal/interface/http/middleware"
	apperrors "github.com/xiebiao/bookapp/pkg/errors"
	"github.com/xiebiao/bookapp/pkg/response"
)

// Handlers 所有HTTP处理器
type Handlers struct {
	User  *handler.UserHandler
	Book  *handler.BookHandler
	Cart  *handler.CartHandler
	Order *handler.OrderHandler
}

// New 创建并配置Gin引擎
func New(cfg *config.Config, h Handlers, auth *middleware.AuthMiddleware) *gin.Engine {
	switch cfg.Server.Mode {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	}

	r := gin.New()
	r.Use(middleware.Logger(), gin.Recovery(), middleware.Metrics())
	if cfg.CORS.Enabled {
		r.Use(middleware.CORS(cfg.CORS))
	}

	r.NoRoute(func(c *gin.Context) {
		response.Error(c, apperrors.ErrNotFound.WithMessagef("接口不存在: %s %s", c.Request.Method, c.Request.URL.Path))
	})

	r.GET("/ping", func(c *gin.Context) {
		response.Success(c, gin.H{
			"message": "pong",
			"status":  "healthy",
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	if cfg.Server.Mode != "release" {
		// 访问 http://localhost:8080/swagger/index.html 查看API文档
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	v1 := r.Group("/api/v1")
	registerUserRoutes(v1, h.User, auth)
	registerBookRoutes(v1, h.Book, auth)
	registerCartRoutes(v1, h.Cart, auth)
	registerOrderRoutes(v1, h.Order, auth)

	return r
}

func registerUserRoutes(v1 *gin.RouterGroup, h *handler.UserHandler, auth *middleware.AuthMiddleware) {
	users := v1.Group("/users")
	{
		// 公开接口
		users.POST("/register", h.Register)
		users.POST("/login", h.Login)
		users.POST("/refresh", h.Refresh)

		authorized := users.Group("", auth.RequireAuth())
		authorized.POST("/logout", h.Logout)
		authorized.GET("/profile", h.GetProfile)
		authorized.PUT("/profile", h.UpdateProfile)
		authorized.GET("", auth.RequireAdmin(), h.ListUsers)
	}
}

func registerBookRoutes(v1 *gin.RouterGroup, h *handler.BookHandler, auth *middleware.AuthMiddleware) {
	books := v1.Group("/books")
	{
		books.GET("", h.ListBooks)
		books.GET("/:id", h.GetBook)

		// 目录维护只允许管理员
		admin := books.Group("", auth.RequireAuth(), auth.RequireAdmin())
		admin.POST("", h.CreateBook)
		admin.PUT("/:id", h.UpdateBook)
		admin.DELETE("/:id", h.DeleteBook)
	}
}

// registerCartRoutes 购物车路由，本人校验在handler中完成
func registerCartRoutes(v1 *gin.RouterGroup, h *handler.CartHandler, auth *middleware.AuthMiddleware) {
	cart := v1.Group("/cart", auth.RequireAuth())
	{
		cart.POST("", h.AddItem)
		cart.GET("/:userId", h.GetCart)
		cart.DELETE("/:userId", h.ClearCart)
		cart.PUT("/:userId/:bookId", h.SetQuantity)
		cart.DELETE("/:userId/:bookId", h.RemoveItem)
	}
}

func registerOrderRoutes(v1 *gin.RouterGroup, h *handler.OrderHandler, auth *middleware.AuthMiddleware) {
	orders := v1.Group("/orders", auth.RequireAuth())
	{
		orders.POST("", h.PlaceOrder)
		orders.GET("/:userId", h.ListUserOrders)
		orders.GET("/:userId/purchases/:bookId", h.FindPurchase)

		orders.GET("", auth.RequireAdmin(), h.ListAllOrders)
		orders.PUT("/:id", auth.RequireAdmin(), h.UpdateStatus)
	}
}
