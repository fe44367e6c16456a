package api

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"smartmap-backend/config"
	"smartmap-backend/internal/mw"
	"smartmap-backend/internal/session"
	"smartmap-backend/internal/store"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(s *store.Store, sessions *session.Manager, cfg config.ServerConfig, log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), mw.RequestID(), mw.Logger(log))

	handler := NewHandler(s, sessions, log)

	rateLimiter := mw.RateLimiter(mw.NewIPRateLimiter(rate.Limit(cfg.RateLimitPerSec), cfg.RateLimitBurst))

	// Directory reads are cached until the next committed save.
	caching := mw.NewResponseCache(cfg.CacheTTL, s).Handler()

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		api.GET("/catalog", caching, handler.GetCatalog)
		api.GET("/facilities", caching, handler.ListFacilities)
		api.GET("/facilities/:id", caching, handler.GetFacility)

		api.POST("/sessions", handler.CreateSession)

		sess := api.Group("/sessions/:sid", handler.withSession)
		{
			sess.GET("", handler.GetSession)
			sess.DELETE("", handler.DeleteSession)
			sess.POST("/nav", handler.Navigate)

			sess.POST("/lookup", handler.SubmitLookup)
			sess.GET("/lookup", handler.GetLookup)

			sess.POST("/admin/login", handler.Login)
			sess.GET("/admin/draft", handler.GetDraft)
			sess.POST("/admin/draft/rows", handler.AddRow)
			sess.PATCH("/admin/draft/rows/:id", handler.EditRow)
			sess.DELETE("/admin/draft/rows/:id", handler.RemoveRow)
			sess.POST("/admin/draft/discard", handler.DiscardDraft)
			sess.POST("/admin/save", handler.SaveDraft)
		}
	}

	return r
}
