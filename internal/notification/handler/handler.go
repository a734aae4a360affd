// Package handler provides HTTP handlers for notification endpoints.
package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	notificationModel "github.com/festy23/github_inbox/internal/notification/model"
	"github.com/festy23/github_inbox/internal/notification/service"
	"github.com/festy23/github_inbox/internal/search"
)

// Handler handles HTTP requests for notification endpoints.
type Handler struct {
	service service.Service
	search  search.Service
}

// New creates a new notification handler instance.
func New(svc service.Service, searchSvc search.Service) *Handler {
	return &Handler{service: svc, search: searchSvc}
}

// Sync handles POST /notifications/sync request.
// @Summary Reconcile a batch of raw notification payloads for a user
// @Tags Notifications
// @Accept json
// @Produce json
// @Param request body notificationModel.SyncRequest true "Request"
// @Success 200 {object} notificationModel.SyncResponse "Counts of synced and skipped payloads"
// @Failure 400 {object} ErrorResponse "Bad request (INVALID_REQUEST)"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /notifications/sync [post] //nolint:godot // Swagger annotation should not end with period
func (h *Handler) Sync(c *gin.Context) {
	var req notificationModel.SyncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, "INVALID_REQUEST", "invalid request body", http.StatusBadRequest)
		return
	}

	resp, err := h.service.SyncBatch(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, notificationModel.ErrUserNotFound) {
			notFoundResponse(c, "user not found")
			return
		}
		log.Printf("error syncing notifications: %v", err)
		errorResponse(c, "INTERNAL_ERROR", "internal server error", http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Archive handles POST /notifications/archive request.
// @Summary Archive or unarchive a selection and mark it read
// @Tags Notifications
// @Accept json
// @Produce json
// @Param request body notificationModel.ArchiveRequest true "Request"
// @Success 204 "Selection updated"
// @Failure 400 {object} ErrorResponse "Bad request (INVALID_REQUEST)"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /notifications/archive [post] //nolint:godot // Swagger annotation should not end with period
func (h *Handler) Archive(c *gin.Context) {
	var req notificationModel.ArchiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, "INVALID_REQUEST", "invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.service.Archive(c.Request.Context(), req.IDs, req.Value); err != nil {
		log.Printf("error archiving notifications: %v", err)
		errorResponse(c, "INTERNAL_ERROR", "internal server error", http.StatusInternalServerError)
		return
	}

	c.Status(http.StatusNoContent)
}

// MarkRead handles POST /notifications/mark_read request.
// @Summary Mark a selection of notifications read
// @Tags Notifications
// @Accept json
// @Produce json
// @Param request body notificationModel.SelectionRequest true "Request"
// @Success 204 "Selection updated"
// @Failure 400 {object} ErrorResponse "Bad request (INVALID_REQUEST)"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /notifications/mark_read [post] //nolint:godot // Swagger annotation should not end with period
func (h *Handler) MarkRead(c *gin.Context) {
	var req notificationModel.SelectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, "INVALID_REQUEST", "invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.service.MarkReadByIDs(c.Request.Context(), req.IDs); err != nil {
		log.Printf("error marking notifications read: %v", err)
		errorResponse(c, "INTERNAL_ERROR", "internal server error", http.StatusInternalServerError)
		return
	}

	c.Status(http.StatusNoContent)
}

// Mute handles POST /notifications/mute request.
// @Summary Mute a selection of notifications
// @Tags Notifications
// @Accept json
// @Produce json
// @Param request body notificationModel.SelectionRequest true "Request"
// @Success 204 "Selection updated"
// @Failure 400 {object} ErrorResponse "Bad request (INVALID_REQUEST)"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /notifications/mute [post] //nolint:godot // Swagger annotation should not end with period
func (h *Handler) Mute(c *gin.Context) {
	var req notificationModel.SelectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, "INVALID_REQUEST", "invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.service.Mute(c.Request.Context(), req.IDs); err != nil {
		log.Printf("error muting notifications: %v", err)
		errorResponse(c, "INTERNAL_ERROR", "internal server error", http.StatusInternalServerError)
		return
	}

	c.Status(http.StatusNoContent)
}

// Search handles GET /notifications/search request.
// @Summary Search a user's notifications by subject title
// @Tags Notifications
// @Produce json
// @Param user_id query int true "User id"
// @Param q query string true "Query string"
// @Param limit query int false "Result limit"
// @Success 200 {object} notificationModel.SearchResponse "Matching notifications, newest first"
// @Failure 400 {object} ErrorResponse "Bad request (INVALID_REQUEST)"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /notifications/search [get] //nolint:godot // Swagger annotation should not end with period
func (h *Handler) Search(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Query("user_id"), 10, 64)
	if err != nil || userID <= 0 {
		errorResponse(c, "INVALID_REQUEST", "user_id is required", http.StatusBadRequest)
		return
	}

	query := c.Query("q")
	if query == "" {
		errorResponse(c, "INVALID_REQUEST", "q is required", http.StatusBadRequest)
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	notifications, err := h.search.BySubjectTitle(c.Request.Context(), userID, query, limit)
	if err != nil {
		log.Printf("error searching notifications: %v", err)
		errorResponse(c, "INTERNAL_ERROR", "internal server error", http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusOK, notificationModel.SearchResponse{Notifications: notifications})
}
