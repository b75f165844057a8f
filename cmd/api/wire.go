//go:build wireinject
// +build wireinject

// Wire依赖注入配置
//
// 生成代码：wire gen ./cmd/api
// 生成的wire_gen.go提供InitializeApp，与main.go中的buildEngine等价

package main

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/wire"
	goredis "github.com/redis/go-redis/v9"

	appbook "github.com/xiebiao/bookapp/internal/application/book"
	appcart "github.com/xiebiao/bookapp/internal/application/cart"
	apporder "github.com/xiebiao/bookapp/internal/application/order"
	appuser "github.com/xiebiao/bookapp/internal/application/user"
	"github.com/xiebiao/bookapp/internal/domain/book"
	"github.com/xiebiao/bookapp/internal/domain/cart"
	"github.com/xiebiao/bookapp/internal/domain/user"
	"github.com/xiebiao/bookapp/internal/infrastructure/config"
	"github.com/xiebiao/bookapp/internal/infrastructure/persistence/gormdb"
	"github.com/xiebiao/bookapp/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/bookapp/internal/interface/http/handler"
	"github.com/xiebiao/bookapp/internal/interface/http/middleware"
	"github.com/xiebiao/bookapp/internal/interface/http/router"
)

// infrastructureSet 数据库、Redis连接
var infrastructureSet = wire.NewSet(
	gormdb.NewDB,
	redis.NewClient,
)

// repositorySet 仓储、事务管理器与缓存
var repositorySet = wire.NewSet(
	gormdb.NewUserRepository,
	gormdb.NewBookRepository,
	gormdb.NewCartRepository,
	gormdb.NewOrderRepository,
	gormdb.NewTxManager,
	wire.Bind(new(appcart.TxManager), new(*gormdb.TxManager)),
	wire.Bind(new(apporder.TxManager), new(*gormdb.TxManager)),
	provideCartCache,
	wire.Bind(new(cart.Cache), new(*redis.CartCache)),
	redis.NewSessionStore,
)

var domainSet = wire.NewSet(
	user.NewService,
	book.NewService,
)

// applicationSet 所有Use Case
var applicationSet = wire.NewSet(
	appuser.NewRegisterUseCase,
	appuser.NewLoginUseCase,
	appuser.NewLogoutUseCase,
	appuser.NewRefreshTokenUseCase,
	appuser.NewProfileUseCase,
	appuser.NewListUsersUseCase,

	appbook.NewCreateBookUseCase,
	appbook.NewListBooksUseCase,
	appbook.NewGetBookUseCase,
	appbook.NewUpdateBookUseCase,
	appbook.NewDeleteBookUseCase,

	appcart.NewReader,
	appcart.NewAddItemUseCase,
	appcart.NewSetQuantityUseCase,
	appcart.NewRemoveItemUseCase,
	appcart.NewClearCartUseCase,
	appcart.NewGetCartUseCase,

	apporder.NewPlaceOrderUseCase,
	apporder.NewUpdateStatusUseCase,
	apporder.NewListOrdersUseCase,
	apporder.NewFindPurchaseUseCase,
)

// interfaceSet JWT、中间件、Handler与路由
var interfaceSet = wire.NewSet(
	provideJWTManager,
	middleware.NewAuthMiddleware,
	handler.NewUserHandler,
	handler.NewBookHandler,
	handler.NewCartHandler,
	handler.NewOrderHandler,
	wire.Struct(new(router.Handlers), "*"),
	router.New,
)

// provideCartCache 购物车缓存TTL来自配置
func provideCartCache(client *goredis.Client, cfg *config.Config) *redis.CartCache {
	return redis.NewCartCache(client, cfg.Cart.CacheTTL)
}

// InitializeApp 初始化整个应用
// 订单事件发布者由调用方按mq配置决定（RabbitMQ或Noop）
func InitializeApp(ctx context.Context, cfg *config.Config, publisher apporder.EventPublisher) (*gin.Engine, error) {
	wire.Build(
		infrastructureSet,
		repositorySet,
		domainSet,
		applicationSet,
		interfaceSet,
	)
	return nil, nil
}
