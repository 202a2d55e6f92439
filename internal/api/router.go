package api

import (
	"net/http"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nekogravitycat/consult-booking-backend/internal/auth"
	"github.com/nekogravitycat/consult-booking-backend/internal/availability"
	availabilityHttp "github.com/nekogravitycat/consult-booking-backend/internal/availability/http"
	"github.com/nekogravitycat/consult-booking-backend/internal/blockeddate"
	blockedHttp "github.com/nekogravitycat/consult-booking-backend/internal/blockeddate/http"
	"github.com/nekogravitycat/consult-booking-backend/internal/booking"
	bookingHttp "github.com/nekogravitycat/consult-booking-backend/internal/booking/http"
	"github.com/nekogravitycat/consult-booking-backend/internal/expert"
	expertHttp "github.com/nekogravitycat/consult-booking-backend/internal/expert/http"
	"github.com/nekogravitycat/consult-booking-backend/internal/logger"
	"github.com/nekogravitycat/consult-booking-backend/internal/schedule"
	scheduleHttp "github.com/nekogravitycat/consult-booking-backend/internal/schedule/http"
	"github.com/nekogravitycat/consult-booking-backend/internal/user"
	userHttp "github.com/nekogravitycat/consult-booking-backend/internal/user/http"
)

const bookingBurst = 5

// Config holds the services and settings the router is assembled from.
type Config struct {
	IsProduction         bool
	ProdOrigins          string
	Logger               *zap.Logger
	BookingRatePerMinute int

	UserService         user.Service
	ExpertService       expert.Service
	AvailabilityService availability.Service
	BlockedDateService  blockeddate.Service
	BookingService      booking.Service
	ScheduleService     schedule.Service
	JWTManager          *auth.JWTManager
}

// NewRouter initializes the HTTP router engine.
// It is responsible for assembling middleware (CORS, Logger, Auth) and registering routes for various modules.
func NewRouter(cfg Config) *gin.Engine {
	r := gin.New()

	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	r.Use(logger.Middleware(log), gin.Recovery())
	r.Use(cors.New(corsConfig(cfg)))

	authMiddleware := auth.AuthRequired(cfg.JWTManager)
	sysAdminMiddleware := RequireSystemAdmin(cfg.UserService)
	bookingLimiter := NewRateLimiter(cfg.BookingRatePerMinute, bookingBurst)

	userHandler := userHttp.NewHandler(cfg.UserService, cfg.JWTManager)
	expertHandler := expertHttp.NewHandler(cfg.ExpertService)
	availabilityHandler := availabilityHttp.NewHandler(cfg.AvailabilityService, cfg.ExpertService, cfg.UserService)
	blockedHandler := blockedHttp.NewHandler(cfg.BlockedDateService)
	bookingHandler := bookingHttp.NewHandler(cfg.BookingService, cfg.UserService)
	scheduleHandler := scheduleHttp.NewHandler(cfg.ScheduleService)

	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	// Register API routes under /v1
	v1 := r.Group("/v1")
	{
		userHttp.RegisterRoutes(v1, userHandler, authMiddleware)
		expertHttp.RegisterRoutes(v1, expertHandler, authMiddleware, sysAdminMiddleware)
		availabilityHttp.RegisterRoutes(v1, availabilityHandler, authMiddleware)
		blockedHttp.RegisterRoutes(v1, blockedHandler, authMiddleware, sysAdminMiddleware)
		bookingHttp.RegisterRoutes(v1, bookingHandler, authMiddleware, sysAdminMiddleware, bookingLimiter.Middleware())
		scheduleHttp.RegisterRoutes(v1, scheduleHandler)
	}

	return r
}

func corsConfig(cfg Config) cors.Config {
	config := cors.DefaultConfig()
	config.AllowOrigins = []string{
		"http://localhost:3000",
		"http://localhost:8081", // Swagger
	}
	if cfg.IsProduction {
		config.AllowOrigins = splitOrigins(cfg.ProdOrigins)
	}
	config.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	return config
}

func splitOrigins(s string) []string {
	var out []string
	for _, o := range strings.Split(s, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
