package app

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/shareit-go/shareit-backend/internal/api"
	"github.com/shareit-go/shareit-backend/internal/auth"
	"github.com/shareit-go/shareit-backend/internal/booking"
	"github.com/shareit-go/shareit-backend/internal/item"
	"github.com/shareit-go/shareit-backend/internal/itemrequest"
	"github.com/shareit-go/shareit-backend/internal/pkg/storage"
	"github.com/shareit-go/shareit-backend/internal/user"
)

// Config holds the dependencies and settings required to start the application.
type Config struct {
	IsProduction bool
	ProdOrigins  string
	DBPool       *pgxpool.Pool
	Store        storage.Storage
	Logger       *zap.Logger
	JWTSecret    string
	JWTTTL       time.Duration
	BcryptCost   int
}

// Container holds the initialized components that are needed externally.
type Container struct {
	Router     *gin.Engine
	JWTManager *auth.JWTManager
}

// NewContainer wires repositories, services and the router.
func NewContainer(cfg Config) *Container {
	hasher := auth.NewBcryptPasswordHasher(cfg.BcryptCost)
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)
	images := storage.NewImageProcessor()

	userRepo := user.NewPgxRepository(cfg.DBPool)
	userService := user.NewService(userRepo, hasher)

	itemRepo := item.NewPgxRepository(cfg.DBPool)
	bookingRepo := booking.NewPgxRepository(cfg.DBPool)

	itemService := item.NewService(itemRepo, userService, bookingRepo, cfg.Store, images, cfg.Logger)
	bookingService := booking.NewService(bookingRepo, userRepo, itemRepo, cfg.Logger)

	requestRepo := itemrequest.NewPgxRepository(cfg.DBPool)
	requestService := itemrequest.NewService(requestRepo, userService, itemService)

	router := api.NewRouter(api.Config{
		IsProduction:   cfg.IsProduction,
		ProdOrigins:    cfg.ProdOrigins,
		UserService:    userService,
		ItemService:    itemService,
		BookingService: bookingService,
		RequestService: requestService,
		JWTManager:     jwtManager,
		Logger:         cfg.Logger,
	})

	return &Container{
		Router:     router,
		JWTManager: jwtManager,
	}
}
