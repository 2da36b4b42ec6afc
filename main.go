package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"review-service/internal/auth"
	"review-service/internal/config"
	"review-service/internal/db"
	"review-service/internal/handlers"
	"review-service/internal/middleware"
	"review-service/internal/observability"
	"review-service/internal/rabbitmq"
	"review-service/internal/repositories"
	"review-service/internal/services"
	"review-service/internal/telemetry"
	"review-service/internal/ws"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := newLogger(cfg)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.InitTracing(ctx, cfg.OTLPEndpoint, cfg.ServiceName, cfg.Environment, logger)
	if err != nil {
		logger.Fatal("failed to init tracing", zap.Error(err))
	}

	database, err := db.Connect(ctx, cfg.DSN, cfg.MaxOpenConns, logger)
	if err != nil {
		logger.Fatal("failed to connect to db", zap.Error(err))
	}
	defer database.Close()

	publisher := rabbitmq.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange, logger)
	defer publisher.Close()
	logger.Info("event publisher ready",
		zap.String("mode", rabbitmq.PublisherMode(publisher)),
		zap.String("noop_reason", rabbitmq.PublisherNoopReason(publisher)),
	)
	observability.SetPublisher(publisher)
	audit := telemetry.NewAuditEmitter(publisher, cfg.AuditRoutingKey, cfg.ServiceName, cfg.Environment, logger)

	userRepo := repositories.NewUserRepo(database)
	catalogRepo := repositories.NewCatalogRepo(database)
	groupRepo := repositories.NewGroupRepo(database)
	groupMediaRepo := repositories.NewGroupMediaRepo(database)
	groupReviewRepo := repositories.NewGroupReviewRepo(database)
	discussionRepo := repositories.NewDiscussionRepo(database)
	cascadeRepo := repositories.NewCascadeRepo(database)

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL, cfg.ServiceName)
	sanitizer := services.NewSanitizer()

	identity := services.NewIdentityService(userRepo, auth.NewHasher(bcrypt.DefaultCost), tokens)
	catalog := services.NewCatalogService(catalogRepo, sanitizer)
	groups := services.NewGroupService(groupRepo, userRepo, cascadeRepo, sanitizer)
	content := services.NewContentService(services.ContentDeps{
		Gate:        groups,
		Users:       userRepo,
		Catalog:     catalogRepo,
		Media:       groupMediaRepo,
		Reviews:     groupReviewRepo,
		Discussions: discussionRepo,
		Cascade:     cascadeRepo,
		Sanitizer:   sanitizer,
	})

	hub := ws.NewHub(logger)

	authHandler := handlers.NewAuthHandler(identity, audit)
	catalogHandler := handlers.NewCatalogHandler(catalog, audit)
	groupHandler := handlers.NewGroupHandler(groups, content, hub, audit)
	discussionHandler := handlers.NewDiscussionHandler(content, hub, audit)
	groupWS := ws.NewGroupWebSocketHandler(hub, groups, tokens, logger)

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// middlewares
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(otelgin.Middleware(cfg.ServiceName))
	router.Use(observability.HTTPMetricsMiddleware())
	router.Use(middleware.Logger(logger))

	router.GET("/healthz", func(c *gin.Context) {
		if err := database.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.POST("/register", authHandler.Register)
	router.POST("/token", authHandler.Token)

	authMiddleware := middleware.AuthMiddleware(tokens)

	router.GET("/users/me", authMiddleware, authHandler.Me)

	router.GET("/media", authMiddleware, catalogHandler.ListMedia)
	router.POST("/media", authMiddleware, catalogHandler.AddMedia)
	router.GET("/media/:media_id", authMiddleware, catalogHandler.GetMedia)
	router.DELETE("/media/:media_id", authMiddleware, catalogHandler.DeleteMedia)
	router.POST("/media/:media_id/reviews", authMiddleware, catalogHandler.AddReview)
	router.GET("/media/:media_id/reviews", authMiddleware, catalogHandler.ListReviews)
	router.GET("/reviews/me", authMiddleware, catalogHandler.ListMyReviews)
	router.PUT("/reviews/:review_id", authMiddleware, catalogHandler.UpdateReview)
	router.DELETE("/reviews/:review_id", authMiddleware, catalogHandler.DeleteReview)

	router.POST("/groups", authMiddleware, groupHandler.CreateGroup)
	router.GET("/groups", authMiddleware, groupHandler.ListGroups)
	router.GET("/groups/:group_id", authMiddleware, groupHandler.GetGroup)
	router.DELETE("/groups/:group_id", authMiddleware, groupHandler.DeleteGroup)
	router.GET("/groups/:group_id/members", authMiddleware, groupHandler.ListMembers)
	router.POST("/groups/:group_id/invite", authMiddleware, groupHandler.InviteMember)
	router.DELETE("/groups/:group_id/members/:user_id", authMiddleware, groupHandler.RemoveMember)
	router.POST("/groups/:group_id/sync", authMiddleware, groupHandler.SyncMedia)
	router.GET("/groups/:group_id/media", authMiddleware, groupHandler.ListMedia)
	router.POST("/groups/:group_id/media", authMiddleware, groupHandler.AddMedia)
	router.GET("/groups/:group_id/media/:media_id", authMiddleware, groupHandler.GetMedia)
	router.DELETE("/groups/:group_id/media/:media_id", authMiddleware, groupHandler.DeleteMedia)
	router.POST("/groups/:group_id/media/:media_id/review", authMiddleware, groupHandler.AddReview)
	router.GET("/groups/:group_id/media/:media_id/reviews", authMiddleware, groupHandler.ListReviews)
	router.POST("/groups/:group_id/media/:media_id/discussions", authMiddleware, groupHandler.CreateDiscussion)
	router.GET("/groups/:group_id/media/:media_id/discussions", authMiddleware, groupHandler.ListDiscussions)
	router.PUT("/groups/:group_id/reviews/:review_id", authMiddleware, groupHandler.UpdateReview)
	router.DELETE("/groups/:group_id/reviews/:review_id", authMiddleware, groupHandler.DeleteReview)

	router.GET("/discussions/:discussion_id", authMiddleware, discussionHandler.GetDiscussion)
	router.DELETE("/discussions/:discussion_id", authMiddleware, discussionHandler.DeleteDiscussion)
	router.GET("/discussions/:discussion_id/comments", authMiddleware, discussionHandler.ListComments)
	router.POST("/discussions/:discussion_id/comments", authMiddleware, discussionHandler.AddComment)

	router.GET("/ws/groups/:group_id", groupWS.Handle)

	handlers.RegisterDebugRoutes(router, audit, cfg.DebugRoutes)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", zap.Error(err))
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Error("tracing shutdown", zap.Error(err))
	}
}

func newLogger(cfg config.Config) *zap.Logger {
	var (
		logger *zap.Logger
		err    error
	)
	if cfg.IsDevelopment() {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		panic(err)
	}
	return logger.With(zap.String("service", cfg.ServiceName))
}
