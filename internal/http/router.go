package http

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/hireloop/hireloop/internal/config"
	"github.com/hireloop/hireloop/internal/cvwatch"
	"github.com/hireloop/hireloop/internal/gateway"
	"github.com/hireloop/hireloop/internal/http/handlers"
	"github.com/hireloop/hireloop/internal/http/middlewares"
	"github.com/hireloop/hireloop/internal/observability"
	"github.com/hireloop/hireloop/internal/session"
	"github.com/hireloop/hireloop/internal/state"
	"github.com/hireloop/hireloop/web"
)

type Deps struct {
	Cfg      config.Config
	Log      *slog.Logger
	Registry *prometheus.Registry
	Prom     *observability.Prom
	Backend  *gateway.Client
	Provider handlers.CodeExchanger
	Sessions *session.Manager
	Logins   state.Store
	Watcher  *cvwatch.Watcher

	// RedisPing is nil when the in-memory login-state store is in use.
	RedisPing handlers.Pinger
}

func NewRouter(d Deps) *gin.Engine {
	if d.Cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	// middleware

	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger())
	r.Use(middlewares.SecurityHeaders())
	r.Use(otelgin.Middleware("hireloop-web"))

	if d.Prom != nil {
		r.Use(d.Prom.GinHandleMiddleware())
	}

	if len(d.Cfg.AllowedOrigins) > 0 {
		r.Use(middlewares.CORSMiddleware(d.Cfg.AllowedOrigins))
	}

	r.SetHTMLTemplate(web.Templates())

	// health + metrics

	health := handlers.NewHealthHandler(map[string]handlers.Pinger{
		"backend": d.Backend.Ping,
		"redis":   d.RedisPing,
	})
	r.GET("/healthz", health.Healthz)
	r.GET("/readyz", health.Readyz)

	if d.Registry != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{})))
	}

	// wire up handlers

	sessionsMW := middlewares.NewSessionMiddleware(d.Sessions)
	authLimiter := middlewares.NewRateLimiter(30, time.Minute)

	authHandler := handlers.NewAuthHandler(d.Provider, d.Backend, d.Sessions, d.Logins, d.Cfg.AppBaseURL, d.Log)
	pagesHandler := handlers.NewPagesHandler(d.Backend, d.Backend, d.Backend, d.Log)
	uploadsHandler := handlers.NewUploadsHandler(d.Backend, d.Watcher, d.Cfg.MaxUploadBytes, d.Log)
	listingsHandler := handlers.NewListingsHandler(d.Backend, d.Log)
	usersHandler := handlers.NewUsersHandler(d.Backend, d.Backend, d.Log)

	// auth flow

	authGroup := r.Group("/auth", authLimiter.RateLimiterMiddleware(middlewares.KeyByIP))
	authGroup.GET("/login", authHandler.Login)
	authGroup.GET("/callback", authHandler.Callback)
	authGroup.GET("/logout", authHandler.Logout)
	authGroup.GET("/error", pagesHandler.ErrorPage)

	// server-rendered pages

	pages := r.Group("/", sessionsMW.RedirectToLogin())
	pages.GET("/", pagesHandler.Home)
	pages.GET("/upload-cv", pagesHandler.UploadCV)
	pages.GET("/upload-jd", pagesHandler.UploadJD)
	pages.GET("/mode-selection", pagesHandler.ModeSelection)

	// JSON + upload API

	api := r.Group("/api", sessionsMW.RequireSession())

	// multipart overhead on top of the document cap
	uploads := api.Group("", middlewares.MaxBodyBytes(d.Cfg.MaxUploadBytes+1<<20))
	uploads.POST("/cvs", uploadsHandler.UploadCV)
	uploads.POST("/roles/jd", uploadsHandler.UploadJD)

	api.GET("/cvs/status", uploadsHandler.CVStatusOnce)
	api.GET("/cvs/status/stream", uploadsHandler.CVStatusStream)

	api.PATCH("/profile/role", middlewares.RequireJSON(), usersHandler.UpdateRole)

	api.GET("/listings", listingsHandler.List)
	api.GET("/listings/:id", listingsHandler.Get)
	api.DELETE("/listings/:id", listingsHandler.Delete)

	// pass-through proxies to the backend, no session required

	proxy := r.Group("/api/users", authLimiter.RateLimiterMiddleware(middlewares.KeyByIP))
	proxy.POST("", usersHandler.ProxyCreateUser)
	proxy.GET("/:id", usersHandler.ProxyGetUser)

	return r
}
