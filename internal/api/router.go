package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/socialblog/blogging-system/docs"
	"github.com/socialblog/blogging-system/internal/api/handler"
	"github.com/socialblog/blogging-system/internal/api/middleware"
	"github.com/socialblog/blogging-system/internal/core/service"
	"github.com/socialblog/blogging-system/internal/infrastructure/config"
	mongodb "github.com/socialblog/blogging-system/internal/infrastructure/db/mongo"
)

// Deps bundles what the router needs to assemble the application.
type Deps struct {
	DB    *mongo.Database
	Redis *redis.Client
	Cfg   *config.Config
	Log   zerolog.Logger

	// Views receives view events from the post read path; nil disables
	// view counting.
	Views service.ViewSink
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) (*echo.Echo, error) {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("blog"))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     d.Cfg.CORS.Origins,
		AllowCredentials: true,
	}))

	// --- Dependencies ---
	tokens, err := service.NewTokenIssuer(d.Cfg.Auth.JWTSecret, d.Cfg.Auth.AccessTokenTTL)
	if err != nil {
		return nil, err
	}

	userRepo := mongodb.NewUserRepository(d.DB)
	postRepo := mongodb.NewPostRepository(d.DB)
	commentRepo := mongodb.NewCommentRepository(d.DB)

	authService := service.NewAuthService(userRepo, tokens, d.Cfg.Auth.ResetTokenTTL)
	postService := service.NewPostService(postRepo, d.Views)
	commentService := service.NewCommentService(commentRepo, postRepo)

	authHandler := handler.NewAuthHandler(authService, d.Cfg.Auth.RefreshCookieMaxAge, d.Cfg.Auth.CookieSecure)
	postHandler := handler.NewPostHandler(postService)
	commentHandler := handler.NewCommentHandler(commentService)

	requireAuth := middleware.VerifyAccessToken(d.Cfg.Auth.JWTSecret)

	// --- Auth routes ---
	auth := e.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.GET("/refresh", authHandler.Refresh)
	auth.POST("/logout", authHandler.Logout)
	auth.POST("/forgot-password", authHandler.ForgotPassword)
	auth.POST("/reset-password", authHandler.ResetPassword)
	auth.GET("/profile", authHandler.Profile, requireAuth)
	auth.PUT("/profile", authHandler.UpdateProfile, requireAuth)
	auth.DELETE("/profile", authHandler.DeleteProfile, requireAuth)

	// --- Post & comment routes ---
	e.GET("/posts", postHandler.List)
	e.GET("/posts/:id", postHandler.Get)
	e.POST("/posts", postHandler.Create, requireAuth)
	e.PUT("/posts/:id", postHandler.Update, requireAuth)
	e.DELETE("/posts/:id", postHandler.Delete, requireAuth)
	e.POST("/posts/:id/like", postHandler.Like, requireAuth)
	e.GET("/posts/:id/comments", commentHandler.List)
	e.POST("/posts/:id/comments", commentHandler.Add, requireAuth)

	// --- Operational endpoints ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(d.DB, d.Redis)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e, nil
}
