// Package handler provides HTTP handlers for installation endpoints.
package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	installationModel "github.com/festy23/github_inbox/internal/installation/model"
	"github.com/festy23/github_inbox/internal/installation/service"
)

// Handler handles HTTP requests for installation endpoints.
type Handler struct {
	service service.Service
}

// New creates a new installation handler instance.
func New(svc service.Service) *Handler {
	return &Handler{service: svc}
}

// Sync handles POST /installations/:id/sync request.
// @Summary Refresh one installation from the remote resource
// @Tags Installations
// @Produce json
// @Param id path int true "Installation github id"
// @Success 200 {object} installationModel.AppInstallation "Refreshed installation"
// @Failure 400 {object} ErrorResponse "Bad request (INVALID_REQUEST)"
// @Failure 404 {object} ErrorResponse "Installation not found remotely"
// @Failure 503 {object} ErrorResponse "App credentials not configured (APP_NOT_CONFIGURED)"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /installations/{id}/sync [post] //nolint:godot // Swagger annotation should not end with period
func (h *Handler) Sync(c *gin.Context) {
	githubID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || githubID <= 0 {
		errorResponse(c, "INVALID_REQUEST", "installation id is required", http.StatusBadRequest)
		return
	}

	inst, err := h.service.Sync(c.Request.Context(), githubID)
	if err != nil {
		if errors.Is(err, installationModel.ErrAppNotConfigured) {
			errorResponse(c, "APP_NOT_CONFIGURED", "github app is not configured", http.StatusServiceUnavailable)
			return
		}
		log.Printf("error syncing installation: %v", err)
		errorResponse(c, "INTERNAL_ERROR", "internal server error", http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusOK, inst)
}

// SyncRepositories handles POST /installations/:id/sync_repositories request.
// @Summary Pull and upsert the full repository list of an installation
// @Tags Installations
// @Produce json
// @Param id path int true "Installation github id"
// @Success 200 {object} installationModel.SyncRepositoriesResponse "Count of upserted repositories"
// @Failure 400 {object} ErrorResponse "Bad request (INVALID_REQUEST)"
// @Failure 404 {object} ErrorResponse "Installation not found"
// @Failure 503 {object} ErrorResponse "App credentials not configured (APP_NOT_CONFIGURED)"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /installations/{id}/sync_repositories [post] //nolint:godot // Swagger annotation should not end with period
func (h *Handler) SyncRepositories(c *gin.Context) {
	githubID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || githubID <= 0 {
		errorResponse(c, "INVALID_REQUEST", "installation id is required", http.StatusBadRequest)
		return
	}

	resp, err := h.service.SyncRepositories(c.Request.Context(), githubID)
	if err != nil {
		if errors.Is(err, installationModel.ErrInstallationNotFound) {
			notFoundResponse(c, "installation not found")
			return
		}
		if errors.Is(err, installationModel.ErrAppNotConfigured) {
			errorResponse(c, "APP_NOT_CONFIGURED", "github app is not configured", http.StatusServiceUnavailable)
			return
		}
		log.Printf("error syncing installation repositories: %v", err)
		errorResponse(c, "INTERNAL_ERROR", "internal server error", http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// RepositoriesEvent handles POST /webhooks/installation_repositories request.
// @Summary Apply an installation_repositories webhook
// @Tags Installations
// @Accept json
// @Produce json
// @Param request body installationModel.RepositoriesEventRequest true "Webhook body"
// @Success 204 "Event applied"
// @Failure 400 {object} ErrorResponse "Bad request (INVALID_REQUEST, UNKNOWN_ACTION)"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /webhooks/installation_repositories [post] //nolint:godot // Swagger annotation should not end with period
func (h *Handler) RepositoriesEvent(c *gin.Context) {
	var req installationModel.RepositoriesEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, "INVALID_REQUEST", "invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.service.HandleRepositoriesEvent(c.Request.Context(), &req); err != nil {
		if errors.Is(err, installationModel.ErrUnknownAction) {
			errorResponse(c, "UNKNOWN_ACTION", "unsupported installation repositories action", http.StatusBadRequest)
			return
		}
		log.Printf("error handling installation_repositories event: %v", err)
		errorResponse(c, "INTERNAL_ERROR", "internal server error", http.StatusInternalServerError)
		return
	}

	c.Status(http.StatusNoContent)
}
