package router

import (
	"errors"
	"net/http"

	"github.com/Radhe743/full-stack-social-media-app/internal/auth"
	"github.com/Radhe743/full-stack-social-media-app/internal/handlers"
	"github.com/Radhe743/full-stack-social-media-app/internal/logger"
	"github.com/Radhe743/full-stack-social-media-app/internal/middleware"
	"github.com/Radhe743/full-stack-social-media-app/internal/models"
	"github.com/Radhe743/full-stack-social-media-app/internal/repositories"
	"github.com/Radhe743/full-stack-social-media-app/internal/storage"
	"github.com/Radhe743/full-stack-social-media-app/internal/thread"
	"github.com/Radhe743/full-stack-social-media-app/validators"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// bodyLimit leaves room for one image of storage.MaxImageSize plus form fields
const bodyLimit = "12M"

// Dependencies are the shared services the routes are built from
type Dependencies struct {
	DB           *gorm.DB
	Tokens       *auth.TokenService
	FirebaseAuth handlers.IDTokenVerifier // nil disables Firebase login
	ImageStore   storage.ImageStore
	CookieSecure bool
	CORSOrigins  []string

	// MediaRoot is served under /media when set
	MediaRoot string
	// MaxReplyDepth bounds reply threads, 0 means unbounded
	MaxReplyDepth int
}

// New builds an Echo instance with middleware and routes
func New(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = validators.NewValidator()
	e.HTTPErrorHandler = errorHandler(e)

	SetupMiddleware(e, deps.CORSOrigins)
	SetupRoutes(e, deps)
	return e
}

// Migrate creates or updates the relational schema
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.All()...); err != nil {
		return err
	}
	logger.Log.Info("Auto-migrations completed for all models")
	return nil
}

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo, origins []string) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.RequestIDWithConfig(eMiddleware.RequestIDConfig{
		Generator: func() string { return uuid.NewString() },
	}))
	e.Use(middleware.RequestLogger())
	e.Use(middleware.Metrics())
	e.Use(eMiddleware.BodyLimit(bodyLimit))

	cors := eMiddleware.DefaultCORSConfig
	if len(origins) > 0 {
		cors.AllowOrigins = origins
		cors.AllowCredentials = true
	}
	cors.AllowHeaders = []string{
		echo.HeaderOrigin,
		echo.HeaderContentType,
		echo.HeaderAccept,
		echo.HeaderAuthorization,
		middleware.CSRFHeaderName,
	}
	e.Use(eMiddleware.CORSWithConfig(cors))
	logger.Log.Debug("Global middleware configured")
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, deps Dependencies) {
	db := deps.DB

	e.GET("/health", handlers.HealthCheck)
	if deps.MediaRoot != "" {
		e.Static("/media", deps.MediaRoot)
	}

	// --- Initialize Repositories ---
	userRepo := repositories.NewPostgresUserRepository(db)
	followRepo := repositories.NewPostgresFollowRepository(db)
	postRepo := repositories.NewPostgresPostRepository(db)
	likeRepo := repositories.NewPostgresLikeRepository(db)
	commentRepo := repositories.NewPostgresCommentRepository(db)
	commentLikeRepo := repositories.NewPostgresCommentLikeRepository(db)
	savedPostRepo := repositories.NewPostgresSavedPostRepository(db)
	tagRepo := repositories.NewPostgresTagRepository(db)

	threads := thread.NewMaterializer(commentRepo, thread.WithMaxDepth(deps.MaxReplyDepth))

	// --- Unprotected routes for authentication ---
	public := e.Group("/api")
	public.GET("/", handlers.RouteIndex(e, "/api"))
	authHandler := handlers.NewAuthHandler(userRepo, deps.Tokens, deps.FirebaseAuth, deps.CookieSecure)
	authHandler.RegisterAuthRoutes(public, middleware.CSRF(deps.CookieSecure))

	// --- Protected routes (require JWT authentication) ---
	api := e.Group("/api")
	api.Use(middleware.JWTAuthMiddleware(deps.Tokens))

	handlers.NewUserHandler(userRepo, followRepo, postRepo, deps.ImageStore).RegisterProfileRoutes(api)
	handlers.NewFollowHandler(followRepo, userRepo).RegisterFollowRoutes(api)
	handlers.NewPostHandler(postRepo, userRepo, likeRepo, commentRepo, savedPostRepo, deps.ImageStore).RegisterPostRoutes(api)
	handlers.NewLikeHandler(likeRepo, postRepo).RegisterLikeRoutes(api)
	handlers.NewCommentHandler(commentRepo, commentLikeRepo, postRepo, threads).RegisterCommentRoutes(api)
	handlers.NewSavedPostHandler(savedPostRepo, postRepo, userRepo, likeRepo, commentRepo).RegisterSavedPostRoutes(api)
	handlers.NewTagHandler(tagRepo, postRepo, userRepo, likeRepo, commentRepo, savedPostRepo).RegisterTagRoutes(api)

	logger.Log.Debug("All routes configured", zap.Int("routes", len(e.Routes())))
}

// errorHandler logs server errors before handing off to Echo's default handler
func errorHandler(e *echo.Echo) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		code := http.StatusInternalServerError
		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
		}
		if code >= http.StatusInternalServerError {
			logger.ErrorWithFields("request failed", err,
				zap.String("method", c.Request().Method),
				zap.String("path", c.Path()),
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			)
		}
		e.DefaultHTTPErrorHandler(err, c)
	}
}
