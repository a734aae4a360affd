// Package router provides installation module routes registration.
package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/festy23/github_inbox/internal/installation/handler"
	"github.com/festy23/github_inbox/internal/installation/repository"
	"github.com/festy23/github_inbox/internal/installation/service"
)

// RegisterRoutes registers installation module routes. The api may be nil
// when the app credentials are not configured.
func RegisterRoutes(r *gin.Engine, db *gorm.DB, api service.AppAPI, logger *zap.SugaredLogger) {
	repo := repository.New(db)
	svc := service.New(repo, api, logger)
	h := handler.New(svc)

	r.POST("/installations/:id/sync", h.Sync)
	r.POST("/installations/:id/sync_repositories", h.SyncRepositories)
	r.POST("/webhooks/installation_repositories", h.RepositoriesEvent)
}
