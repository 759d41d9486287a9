package api

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/canchas/internal/auth"
	"github.com/nekogravitycat/canchas/internal/availability"
	availabilityHttp "github.com/nekogravitycat/canchas/internal/availability/http"
	"github.com/nekogravitycat/canchas/internal/court"
	courtHttp "github.com/nekogravitycat/canchas/internal/court/http"
	"github.com/nekogravitycat/canchas/internal/facility"
	"github.com/nekogravitycat/canchas/internal/pkg/ratelimit"
	"github.com/nekogravitycat/canchas/internal/reservation"
	reservationHttp "github.com/nekogravitycat/canchas/internal/reservation/http"
	"github.com/nekogravitycat/canchas/internal/user"
	userHttp "github.com/nekogravitycat/canchas/internal/user/http"
)

// Config carries everything the router needs to assemble the API.
type Config struct {
	IsProduction bool
	ProdOrigins  string

	UserService         user.Service
	CourtService        court.Service
	AvailabilityService availability.Service
	ReservationService  reservation.Service

	Settings   facility.Settings
	JWTManager *auth.JWTManager
	Limiter    *ratelimit.Limiter
}

// NewRouter initializes the HTTP router engine.
// It is responsible for assembling middleware (CORS, Logger, Auth) and registering routes for various modules.
func NewRouter(cfg Config) *gin.Engine {
	r := gin.New()

	// Global Middleware:
	// - RequestLogger: request id and structured access log.
	// - Recovery: Captures panics to prevent server crashes and returns a 500 error.
	r.Use(RequestLogger(), gin.Recovery())

	// Configure CORS (Cross-Origin Resource Sharing).
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = allowedOrigins(cfg.IsProduction, cfg.ProdOrigins)
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", RequestIDHeader}
	corsConfig.ExposeHeaders = []string{RequestIDHeader}
	corsConfig.AllowCredentials = true
	r.Use(cors.New(corsConfig))

	authMiddleware := auth.AuthRequired(cfg.JWTManager)
	optionalAuth := auth.OptionalAuth(cfg.JWTManager)
	adminMiddleware := auth.RequireAdmin()
	rateLimit := RateLimit(cfg.Limiter)

	// Initialize HTTP Handlers for each module (injecting Service dependencies).
	userHandler := userHttp.NewHandler(cfg.UserService, cfg.JWTManager, cfg.IsProduction)
	courtHandler := courtHttp.NewHandler(cfg.CourtService)
	availabilityHandler := availabilityHttp.NewHandler(cfg.AvailabilityService, cfg.Settings)
	reservationHandler := reservationHttp.NewHandler(cfg.ReservationService, cfg.Settings)

	// Register API routes under /v1
	v1 := r.Group("/v1")
	{
		userHttp.RegisterRoutes(v1, userHandler, authMiddleware, rateLimit)
		courtHttp.RegisterRoutes(v1, courtHandler)
		availabilityHttp.RegisterRoutes(v1, availabilityHandler)
		reservationHttp.RegisterRoutes(v1, reservationHandler, reservationHttp.Middleware{
			Auth:         authMiddleware,
			OptionalAuth: optionalAuth,
			AdminOnly:    adminMiddleware,
			RateLimit:    rateLimit,
		})
	}

	return r
}

func allowedOrigins(isProduction bool, prodOrigins string) []string {
	if !isProduction {
		return []string{
			"http://localhost:3000", // Frontend dev server
			"http://localhost:8081", // Swagger
		}
	}

	var origins []string
	for _, o := range strings.Split(prodOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
