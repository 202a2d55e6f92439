package app

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/nekogravitycat/consult-booking-backend/internal/api"
	"github.com/nekogravitycat/consult-booking-backend/internal/auth"
	"github.com/nekogravitycat/consult-booking-backend/internal/availability"
	"github.com/nekogravitycat/consult-booking-backend/internal/blockeddate"
	"github.com/nekogravitycat/consult-booking-backend/internal/booking"
	"github.com/nekogravitycat/consult-booking-backend/internal/expert"
	"github.com/nekogravitycat/consult-booking-backend/internal/schedule"
	"github.com/nekogravitycat/consult-booking-backend/internal/slot"
	"github.com/nekogravitycat/consult-booking-backend/internal/user"
)

// Config holds the dependencies and settings required to start the application.
type Config struct {
	IsProduction bool
	ProdOrigins  string
	DBPool       *pgxpool.Pool
	Logger       *zap.Logger
	JWTSecret    string
	JWTTTL       time.Duration
	BcryptCost   int

	Clock                slot.Clock // nil means the system clock
	Location             *time.Location
	MinAdvance           time.Duration
	MaxDaysAhead         int
	BookingRatePerMinute int
}

// Container holds the initialized components that are needed externally.
type Container struct {
	Router          *gin.Engine
	JWTManager      *auth.JWTManager
	ScheduleService schedule.Service
	BookingService  booking.Service
}

// NewContainer initializes all modules and returns the container.
func NewContainer(cfg Config) *Container {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	passwordHasher := auth.NewBcryptPasswordHasherWithCost(cfg.BcryptCost)
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)

	// User Module
	userRepo := user.NewPgxRepository(cfg.DBPool)
	userService := user.NewService(userRepo, passwordHasher, log.Named("user"))

	// Expert Module
	expertRepo := expert.NewPgxRepository(cfg.DBPool)
	expertService := expert.NewService(expertRepo)

	// Availability and Blocked Date Modules
	availabilityService := availability.NewService(availability.NewPgxRepository(cfg.DBPool), expertService)
	blockedService := blockeddate.NewService(blockeddate.NewPgxRepository(cfg.DBPool), expertService)

	// Slot engine and Schedule Module
	engine := slot.NewEngine(cfg.Clock,
		slot.WithLocation(cfg.Location),
		slot.WithMinAdvance(cfg.MinAdvance),
	)
	bookingRepo := booking.NewPgxRepository(cfg.DBPool)
	scheduleService := schedule.NewService(
		engine, expertService, availabilityService, blockedService, bookingRepo,
		cfg.MaxDaysAhead, log.Named("schedule"),
	)

	// Booking Module
	bookingService := booking.NewService(bookingRepo, scheduleService, expertService, log.Named("booking"))

	router := api.NewRouter(api.Config{
		IsProduction:         cfg.IsProduction,
		ProdOrigins:          cfg.ProdOrigins,
		Logger:               log,
		BookingRatePerMinute: cfg.BookingRatePerMinute,
		UserService:          userService,
		ExpertService:        expertService,
		AvailabilityService:  availabilityService,
		BlockedDateService:   blockedService,
		BookingService:       bookingService,
		ScheduleService:      scheduleService,
		JWTManager:           jwtManager,
	})

	return &Container{
		Router:          router,
		JWTManager:      jwtManager,
		ScheduleService: scheduleService,
		BookingService:  bookingService,
	}
}
