package server

import (
	"net/http"
	"time"

	"itam-backend/internal/auth"
	"itam-backend/internal/config"
	"itam-backend/internal/handlers"
	"itam-backend/internal/inventory"
	"itam-backend/internal/middleware"
	"itam-backend/internal/storage"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

const (
	APIPrefix     = "/api/v1"
	UploadsPrefix = "/uploads"
	sessionName   = "itam_session"
)

// Deps are the collaborators created outside the HTTP layer.
type Deps struct {
	DB       *gorm.DB
	Store    storage.Store
	Notifier inventory.Notifier // nil disables event publishing
}

// NewHandler builds the stores and services behind the API.
func NewHandler(cfg *config.Config, deps Deps) *handlers.Handler {
	opts := []inventory.Option{inventory.WithSharedIPCategories(cfg.SharedIPCategories...)}
	if deps.Notifier != nil {
		opts = append(opts, inventory.WithNotifier(deps.Notifier))
	}

	assets := inventory.NewAssetStore(deps.DB, opts...)
	return &handlers.Handler{
		Assets:         assets,
		Importer:       inventory.NewImporter(assets),
		Services:       inventory.NewServiceStore(deps.DB, opts...),
		Logs:           inventory.NewLogStore(deps.DB),
		Directory:      inventory.NewDirectory(deps.DB),
		Dashboard:      inventory.NewDashboard(deps.DB),
		Auth:           auth.NewService(deps.DB, auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)),
		Avatars:        storage.NewAvatars(deps.Store, cfg.AvatarMaxBytes),
		ImportMaxBytes: cfg.ImportMaxBytes,
	}
}

// routes mounts handlers under the access rule of their operation.
type routes struct {
	group    *gin.RouterGroup
	resolver middleware.Resolver
}

func (r routes) handle(method, path string, op auth.Operation, h gin.HandlerFunc) {
	r.group.Handle(method, path, middleware.Gate(r.resolver, op), h)
}

func NewRouter(cfg *config.Config, h *handlers.Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.Metrics())

	r.Use(middleware.WrapHTTP(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders:   []string{middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           300,
	})))
	if cfg.RateLimitPerMinute > 0 {
		r.Use(middleware.WrapHTTP(httprate.LimitByIP(cfg.RateLimitPerMinute, time.Minute)))
	}

	store := cookie.NewStore([]byte(cfg.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   int(cfg.TokenTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(sessionName, store))

	// HEALTHCHECK / МЕТРИКИ
	r.GET("/health", handlers.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	if cfg.UploadDir != "" && !cfg.S3.Enabled() {
		r.Static(UploadsPrefix, cfg.UploadDir)
	}

	api := routes{group: r.Group(APIPrefix), resolver: h.Auth}

	// ЛОКАЦИИ
	api.handle(http.MethodGet, "/areas", auth.OpListAreas, h.ListAreas)
	api.handle(http.MethodGet, "/areas/:id", auth.OpGetArea, h.GetArea)
	api.handle(http.MethodGet, "/areas/:id/schools", auth.OpListSchools, h.ListAreaSchools)
	api.handle(http.MethodGet, "/schools/:id", auth.OpGetSchool, h.GetSchool)

	// АКТИВЫ
	api.handle(http.MethodGet, "/assets", auth.OpListAssets, h.ListAssets)
	api.handle(http.MethodPost, "/assets", auth.OpCreateAsset, h.CreateAsset)
	api.handle(http.MethodPost, "/assets/import", auth.OpImportAssets, h.ImportAssets)
	api.handle(http.MethodGet, "/assets/barcode/:barcode", auth.OpGetAssetBarcode, h.GetAssetByBarcode)
	api.handle(http.MethodGet, "/assets/:id", auth.OpGetAsset, h.GetAsset)
	api.handle(http.MethodPut, "/assets/:id", auth.OpUpdateAsset, h.UpdateAsset)
	api.handle(http.MethodDelete, "/assets/:id", auth.OpDeleteAsset, h.DeleteAsset)

	// СЕРВИС
	api.handle(http.MethodGet, "/services", auth.OpListServices, h.ListServices)
	api.handle(http.MethodPost, "/services", auth.OpCreateService, h.CreateService)
	api.handle(http.MethodGet, "/services/:id", auth.OpGetService, h.GetService)
	api.handle(http.MethodPut, "/services/:id", auth.OpUpdateService, h.UpdateService)

	// ЖУРНАЛ / ДАШБОРД
	api.handle(http.MethodGet, "/logs", auth.OpListLogs, h.ListLogs)
	api.handle(http.MethodGet, "/dashboard/stats", auth.OpDashboardStats, h.DashboardStats)

	// AUTH / ПРОФИЛЬ
	api.handle(http.MethodPost, "/auth/login", auth.OpLogin, h.Login)
	api.handle(http.MethodPost, "/auth/logout", auth.OpLogout, h.Logout)
	api.handle(http.MethodGet, "/users/me", auth.OpGetProfile, h.Me)
	api.handle(http.MethodPut, "/users/me", auth.OpUpdateProfile, h.UpdateMe)
	api.handle(http.MethodPost, "/users/me/avatar", auth.OpUploadAvatar, h.UploadAvatar)

	return r
}
