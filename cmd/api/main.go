package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	appbook "github.com/xiebiao/bookapp/internal/application/book"
	appcart "github.com/xiebiao/bookapp/internal/application/cart"
	apporder "github.com/xiebiao/bookapp/internal/application/order"
	appuser "github.com/xiebiao/bookapp/internal/application/user"
	"github.com/xiebiao/bookapp/internal/domain/book"
	"github.com/xiebiao/bookapp/internal/domain/user"
	"github.com/xiebiao/bookapp/internal/infrastructure/config"
	"github.com/xiebiao/bookapp/internal/infrastructure/messaging"
	"github.com/xiebiao/bookapp/internal/infrastructure/persistence/gormdb"
	"github.com/xiebiao/bookapp/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/bookapp/internal/interface/http/handler"
	"github.com/xiebiao/bookapp/internal/interface/http/middleware"
	"github.com/xiebiao/bookapp/internal/interface/http/router"
	"github.com/xiebiao/bookapp/pkg/circuitbreaker"
	"github.com/xiebiao/bookapp/pkg/jwt"
	"github.com/xiebiao/bookapp/pkg/logger"
	"github.com/xiebiao/bookapp/pkg/mq"
	"github.com/xiebiao/bookapp/pkg/tracing"
)

// @title           Bookapp API
// @version         1.0
// @description     移动书店后端：图书目录、购物车、下单与订单状态流转
// @host            localhost:8080
// @BasePath        /
//
// @securityDefinitions.apikey BearerAuth
// @in                         header
// @name                       Authorization
// @description                格式: Bearer {access_token}
func main() {
	// 1. 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("加载配置失败")
	}

	// 2. 初始化日志
	logCloser, err := logger.Init(logger.Options{
		Level:        cfg.Log.Level,
		Format:       cfg.Log.Format,
		Output:       cfg.Log.Output,
		EnableCaller: cfg.Log.EnableCaller,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("初始化日志失败")
	}
	defer logCloser.Close()

	ctx := context.Background()

	// 3. 链路追踪（可选）
	if cfg.Tracing.Enabled {
		shutdown, err := tracing.InitTracer(cfg.Tracing.ServiceName, cfg.Tracing.Endpoint)
		if err != nil {
			log.Fatal().Err(err).Msg("初始化链路追踪失败")
		}
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				log.Warn().Err(err).Msg("关闭链路追踪失败")
			}
		}()
	}

	// 4. 数据库与Redis
	db, err := gormdb.NewDB(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("初始化数据库失败")
	}
	redisClient, err := redis.NewClient(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("初始化Redis失败")
	}
	defer redisClient.Close()

	// 5. 订单事件发布
	publisher, closePublisher, err := newEventPublisher(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("初始化消息队列失败")
	}
	defer closePublisher()

	// 6. 依赖注入（手动组装，wire.go中有等价的Injector）
	engine, err := buildEngine(ctx, cfg, db, redisClient, publisher)
	if err != nil {
		log.Fatal().Err(err).Msg("初始化应用失败")
	}

	// 7. 启动HTTP服务
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		log.Info().
			Str("addr", srv.Addr).
			Str("mode", cfg.Server.Mode).
			Str("database", cfg.Database.Driver).
			Str("redis", cfg.Redis.Addr()).
			Msg("服务启动")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP服务器启动失败")
		}
	}()

	// 8. 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("正在优雅关闭服务...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("服务器强制关闭")
		return
	}
	log.Info().Msg("服务已关闭")
}

// newEventPublisher mq.enabled时发布到RabbitMQ，否则不发布
func newEventPublisher(cfg *config.Config) (apporder.EventPublisher, func() error, error) {
	if !cfg.MQ.Enabled {
		log.Info().Msg("消息队列未启用，订单事件不发布")
		return messaging.NoopPublisher{}, func() error { return nil }, nil
	}

	pub, err := mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange, cfg.MQ.ExchangeType)
	if err != nil {
		return nil, nil, err
	}
	return messaging.NewOrderEventPublisher(pub, circuitbreaker.DefaultConfig()), pub.Close, nil
}

// buildEngine 组装依赖链
// Repository ← Service ← UseCase ← Handler ← Router
func buildEngine(
	ctx context.Context,
	cfg *config.Config,
	db *gorm.DB,
	redisClient *goredis.Client,
	publisher apporder.EventPublisher,
) (*gin.Engine, error) {
	// 基础设施层
	userRepo := gormdb.NewUserRepository(db)
	bookRepo := gormdb.NewBookRepository(db)
	cartRepo := gormdb.NewCartRepository(db)
	orderRepo := gormdb.NewOrderRepository(db)
	txManager := gormdb.NewTxManager(db)
	sessionStore := redis.NewSessionStore(redisClient)
	cartCache := redis.NewCartCache(redisClient, cfg.Cart.CacheTTL)
	jwtManager := provideJWTManager(cfg)

	// 领域层
	userService := user.NewService(userRepo)
	bookService := book.NewService(bookRepo)

	if err := seedAdmin(ctx, cfg, userService); err != nil {
		return nil, err
	}

	// 应用层
	cartReader := appcart.NewReader(cartRepo, cartCache)
	handlers := router.Handlers{
		User: handler.NewUserHandler(
			appuser.NewRegisterUseCase(userService),
			appuser.NewLoginUseCase(userService, jwtManager, sessionStore),
			appuser.NewLogoutUseCase(jwtManager, sessionStore),
			appuser.NewRefreshTokenUseCase(jwtManager, sessionStore),
			appuser.NewProfileUseCase(userService),
			appuser.NewListUsersUseCase(userService),
		),
		Book: handler.NewBookHandler(
			appbook.NewCreateBookUseCase(bookService),
			appbook.NewListBooksUseCase(bookService),
			appbook.NewGetBookUseCase(bookService),
			appbook.NewUpdateBookUseCase(bookService),
			appbook.NewDeleteBookUseCase(bookService),
		),
		Cart: handler.NewCartHandler(
			appcart.NewAddItemUseCase(txManager, bookRepo, cartRepo, cartReader),
			appcart.NewSetQuantityUseCase(txManager, bookRepo, cartRepo, cartReader),
			appcart.NewRemoveItemUseCase(cartRepo, cartReader),
			appcart.NewClearCartUseCase(cartRepo, cartReader),
			appcart.NewGetCartUseCase(cartReader, bookRepo),
		),
		Order: handler.NewOrderHandler(
			apporder.NewPlaceOrderUseCase(txManager, bookRepo, cartRepo, orderRepo, cartCache, publisher),
			apporder.NewUpdateStatusUseCase(txManager, orderRepo, publisher),
			apporder.NewListOrdersUseCase(orderRepo),
			apporder.NewFindPurchaseUseCase(orderRepo),
		),
	}

	// 接口层
	authMiddleware := middleware.NewAuthMiddleware(jwtManager, sessionStore)
	return router.New(cfg, handlers, authMiddleware), nil
}

// seedAdmin 配置了管理员密码时确保管理员账号存在
func seedAdmin(ctx context.Context, cfg *config.Config, userService user.Service) error {
	if cfg.Admin.Password == "" {
		log.Warn().Msg("未配置admin.password，跳过管理员初始化")
		return nil
	}

	admin, err := userService.EnsureAdmin(ctx, cfg.Admin.Email, cfg.Admin.Password, cfg.Admin.Name)
	if err != nil {
		return fmt.Errorf("初始化管理员失败: %w", err)
	}
	log.Info().Uint("user_id", admin.ID).Str("email", admin.Email).Msg("管理员已就绪")
	return nil
}

// provideJWTManager 从配置创建JWT管理器
func provideJWTManager(cfg *config.Config) *jwt.Manager {
	return jwt.NewManager(
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpire,
		cfg.JWT.RefreshTokenExpire,
	)
}
