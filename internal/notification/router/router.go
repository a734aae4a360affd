// Package router provides notification module routes registration.
package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/festy23/github_inbox/internal/config"
	"github.com/festy23/github_inbox/internal/notification/handler"
	"github.com/festy23/github_inbox/internal/notification/repository"
	"github.com/festy23/github_inbox/internal/notification/service"
	"github.com/festy23/github_inbox/internal/search"
)

// RegisterRoutes registers notification module routes and returns the
// service so the caller can wire the background task runner.
func RegisterRoutes(r *gin.Engine, db *gorm.DB, clients service.ClientFactory, cfg config.GithubConfig, logger *zap.SugaredLogger) service.Service {
	repo := repository.New(db)
	svc := service.New(repo, clients, cfg, logger)
	h := handler.New(svc, search.New(db))

	r.POST("/notifications/sync", h.Sync)
	r.POST("/notifications/archive", h.Archive)
	r.POST("/notifications/mark_read", h.MarkRead)
	r.POST("/notifications/mute", h.Mute)
	r.GET("/notifications/search", h.Search)

	return svc
}
