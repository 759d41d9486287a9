package app

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nekogravitycat/canchas/internal/api"
	"github.com/nekogravitycat/canchas/internal/auth"
	"github.com/nekogravitycat/canchas/internal/availability"
	"github.com/nekogravitycat/canchas/internal/court"
	"github.com/nekogravitycat/canchas/internal/facility"
	"github.com/nekogravitycat/canchas/internal/pkg/clock"
	"github.com/nekogravitycat/canchas/internal/pkg/ratelimit"
	"github.com/nekogravitycat/canchas/internal/reservation"
	"github.com/nekogravitycat/canchas/internal/user"
)

// Config holds the dependencies and settings required to start the application.
type Config struct {
	IsProduction bool
	ProdOrigins  string
	DBPool       *pgxpool.Pool
	JWTSecret    string
	JWTTTL       time.Duration
	BcryptCost   int

	Facility       facility.Settings
	RateLimitRPS   float64
	RateLimitBurst int

	// Clock defaults to wall time.
	Clock clock.Clock
}

// Container holds the initialized components that are needed externally.
type Container struct {
	Router       *gin.Engine
	JWTManager   *auth.JWTManager
	UserService  user.Service
	CourtService court.Service
}

// NewContainer initializes all modules and returns the container.
func NewContainer(cfg Config) *Container {
	clk := cfg.Clock
	if clk == nil {
		clk = clock.Real{}
	}

	// Init Components
	passwordHasher := auth.NewBcryptPasswordHasherWithCost(cfg.BcryptCost)
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)
	limiter := ratelimit.New(ratelimit.Config{
		RPS:   cfg.RateLimitRPS,
		Burst: cfg.RateLimitBurst,
		Clock: clk,
	})

	// User Module
	userRepo := user.NewPgxRepository(cfg.DBPool)
	userService := user.NewService(userRepo, passwordHasher)

	// Court Module
	courtRepo := court.NewPgxRepository(cfg.DBPool)
	courtService := court.NewService(courtRepo)

	// Reservation Module
	reservationRepo := reservation.NewPgxRepository(cfg.DBPool)
	reservationService := reservation.NewService(reservationRepo, courtService, cfg.Facility, clk)

	// Availability Module
	availabilityService := availability.NewService(courtService, reservationRepo, cfg.Facility, clk)

	// Router
	router := api.NewRouter(api.Config{
		IsProduction:        cfg.IsProduction,
		ProdOrigins:         cfg.ProdOrigins,
		UserService:         userService,
		CourtService:        courtService,
		AvailabilityService: availabilityService,
		ReservationService:  reservationService,
		Settings:            cfg.Facility,
		JWTManager:          jwtManager,
		Limiter:             limiter,
	})

	return &Container{
		Router:       router,
		JWTManager:   jwtManager,
		UserService:  userService,
		CourtService: courtService,
	}
}
