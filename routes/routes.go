package routes

import (
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/junaidrashid-git/eshop-api/auth"
	"github.com/junaidrashid-git/eshop-api/config"
	ordercontroller "github.com/junaidrashid-git/eshop-api/controllers/order"
	"github.com/junaidrashid-git/eshop-api/middleware"
	"github.com/junaidrashid-git/eshop-api/respond"
	"github.com/junaidrashid-git/eshop-api/store"
	"github.com/junaidrashid-git/eshop-api/upload"
)

// Deps are the collaborators the handlers are built from.
type Deps struct {
	Store  store.Store
	Tokens *auth.Tokens
	Images *upload.Intake
	Orders *ordercontroller.Manager
	Hub    *ordercontroller.Hub
}

// NewRouter builds the engine with the global middleware chain:
// recovery, CORS, request logging, then the authorization gate.
func NewRouter(cfg *config.Config, d Deps) *gin.Engine {
	binding.EnableDecoderDisallowUnknownFields = true

	r := gin.New()
	r.MaxMultipartMemory = 32 << 20

	r.Use(gin.Recovery())
	r.Use(cors.New(corsConfig(cfg.Server.CORSOrigins)))
	r.Use(middleware.Logger(slog.Default()))
	r.Use(middleware.Authorize(d.Tokens, middleware.DefaultPublicRoutes(cfg.APIPrefix, cfg.Upload.PublicPath)))

	r.NoRoute(func(c *gin.Context) {
		respond.Error(c, http.StatusNotFound, "route not found")
	})

	r.Static(cfg.Upload.PublicPath, d.Images.Dir)
	r.GET("/health", health(d.Store))

	SetupRoutes(r.Group(cfg.APIPrefix), d)
	return r
}

// SetupRoutes is the single entry-point that wires every resource group.
func SetupRoutes(api *gin.RouterGroup, d Deps) {
	SetupCategoryRoutes(api, d)
	SetupProductRoutes(api, d)
	SetupUserRoutes(api, d)
	SetupOrderRoutes(api, d)
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders: []string{"Content-Length", "Content-Disposition"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
		cfg.AllowCredentials = true
	}
	return cfg
}

func health(s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := s.Ping(c.Request.Context()); err != nil {
			slog.Error("health check failed", "error", err)
			respond.Error(c, http.StatusServiceUnavailable, "store unavailable")
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
