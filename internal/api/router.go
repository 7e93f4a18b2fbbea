package api

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/shareit-go/shareit-backend/internal/auth"
	"github.com/shareit-go/shareit-backend/internal/booking"
	bookingHttp "github.com/shareit-go/shareit-backend/internal/booking/http"
	"github.com/shareit-go/shareit-backend/internal/item"
	itemHttp "github.com/shareit-go/shareit-backend/internal/item/http"
	"github.com/shareit-go/shareit-backend/internal/itemrequest"
	requestHttp "github.com/shareit-go/shareit-backend/internal/itemrequest/http"
	"github.com/shareit-go/shareit-backend/internal/pkg/logging"
	"github.com/shareit-go/shareit-backend/internal/user"
	userHttp "github.com/shareit-go/shareit-backend/internal/user/http"
)

// Config carries everything the router needs.
type Config struct {
	IsProduction bool
	ProdOrigins  string // comma-separated allowed origins in production

	UserService    user.Service
	ItemService    item.Service
	BookingService booking.Service
	RequestService itemrequest.Service

	JWTManager *auth.JWTManager
	Logger     *zap.Logger
}

// NewRouter assembles middleware and mounts all module routes under /v1.
func NewRouter(cfg Config) *gin.Engine {
	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(logging.RequestLogger(cfg.Logger), gin.Recovery())

	corsCfg := cors.DefaultConfig()
	if cfg.IsProduction && cfg.ProdOrigins != "" {
		corsCfg.AllowOrigins = strings.Split(cfg.ProdOrigins, ",")
	} else {
		corsCfg.AllowAllOrigins = true
	}
	corsCfg.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsCfg.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", auth.SharerUserHeader}
	r.Use(cors.New(corsCfg))

	identity := auth.Identify(cfg.JWTManager)

	userHandler := userHttp.NewHandler(cfg.UserService, cfg.JWTManager)
	itemHandler := itemHttp.NewHandler(cfg.ItemService)
	bookingHandler := bookingHttp.NewHandler(cfg.BookingService)
	requestHandler := requestHttp.NewHandler(cfg.RequestService)

	v1 := r.Group("/v1")
	{
		userHttp.RegisterRoutes(v1, userHandler)
		itemHttp.RegisterRoutes(v1, itemHandler, identity)
		bookingHttp.RegisterRoutes(v1, bookingHandler, identity)
		requestHttp.RegisterRoutes(v1, requestHandler, identity)
	}

	return r
}
