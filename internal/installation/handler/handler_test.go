package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	installationModel "github.com/festy23/github_inbox/internal/installation/model"
	"github.com/festy23/github_inbox/internal/installation/service"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) Sync(ctx context.Context, githubID int64) (*installationModel.AppInstallation, error) {
	args := m.Called(ctx, githubID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*installationModel.AppInstallation), args.Error(1)
}

func (m *mockService) SyncRepositories(ctx context.Context, githubID int64) (*installationModel.SyncRepositoriesResponse, error) {
	args := m.Called(ctx, githubID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*installationModel.SyncRepositoriesResponse), args.Error(1)
}

func (m *mockService) HandleRepositoriesEvent(ctx context.Context, req *installationModel.RepositoriesEventRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

var _ service.Service = (*mockService)(nil)

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func TestHandler_Sync(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		mockSvc := new(mockService)
		handler := New(mockSvc)
		router := setupRouter()
		router.POST("/installations/:id/sync", handler.Sync)

		mockSvc.On("Sync", mock.Anything, int64(555)).
			Return(&installationModel.AppInstallation{GithubID: 555, AccountLogin: "octo-org"}, nil)

		w := httptest.NewRecorder()
		httpReq, _ := http.NewRequest("POST", "/installations/555/sync", nil)
		router.ServeHTTP(w, httpReq)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("invalid id", func(t *testing.T) {
		handler := New(new(mockService))
		router := setupRouter()
		router.POST("/installations/:id/sync", handler.Sync)

		w := httptest.NewRecorder()
		httpReq, _ := http.NewRequest("POST", "/installations/abc/sync", nil)
		router.ServeHTTP(w, httpReq)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("app not configured", func(t *testing.T) {
		mockSvc := new(mockService)
		handler := New(mockSvc)
		router := setupRouter()
		router.POST("/installations/:id/sync", handler.Sync)

		mockSvc.On("Sync", mock.Anything, int64(555)).
			Return(nil, installationModel.ErrAppNotConfigured)

		w := httptest.NewRecorder()
		httpReq, _ := http.NewRequest("POST", "/installations/555/sync", nil)
		router.ServeHTTP(w, httpReq)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}

func TestHandler_SyncRepositories(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		mockSvc := new(mockService)
		handler := New(mockSvc)
		router := setupRouter()
		router.POST("/installations/:id/sync_repositories", handler.SyncRepositories)

		mockSvc.On("SyncRepositories", mock.Anything, int64(555)).
			Return(&installationModel.SyncRepositoriesResponse{Synced: 3}, nil)

		w := httptest.NewRecorder()
		httpReq, _ := http.NewRequest("POST", "/installations/555/sync_repositories", nil)
		router.ServeHTTP(w, httpReq)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp installationModel.SyncRepositoriesResponse
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, 3, resp.Synced)
	})

	t.Run("unknown installation", func(t *testing.T) {
		mockSvc := new(mockService)
		handler := New(mockSvc)
		router := setupRouter()
		router.POST("/installations/:id/sync_repositories", handler.SyncRepositories)

		mockSvc.On("SyncRepositories", mock.Anything, int64(404)).
			Return(nil, installationModel.ErrInstallationNotFound)

		w := httptest.NewRecorder()
		httpReq, _ := http.NewRequest("POST", "/installations/404/sync_repositories", nil)
		router.ServeHTTP(w, httpReq)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestHandler_RepositoriesEvent(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		mockSvc := new(mockService)
		handler := New(mockSvc)
		router := setupRouter()
		router.POST("/webhooks/installation_repositories", handler.RepositoriesEvent)

		mockSvc.On("HandleRepositoriesEvent", mock.Anything, mock.Anything).Return(nil)

		body, _ := json.Marshal(installationModel.RepositoriesEventRequest{
			Action:       "added",
			Installation: installationModel.RemoteInstallation{ID: 555},
		})
		w := httptest.NewRecorder()
		httpReq, _ := http.NewRequest("POST", "/webhooks/installation_repositories", bytes.NewBuffer(body))
		router.ServeHTTP(w, httpReq)

		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("unknown action", func(t *testing.T) {
		mockSvc := new(mockService)
		handler := New(mockSvc)
		router := setupRouter()
		router.POST("/webhooks/installation_repositories", handler.RepositoriesEvent)

		mockSvc.On("HandleRepositoriesEvent", mock.Anything, mock.Anything).
			Return(installationModel.ErrUnknownAction)

		body, _ := json.Marshal(installationModel.RepositoriesEventRequest{
			Action:       "renamed",
			Installation: installationModel.RemoteInstallation{ID: 555},
		})
		w := httptest.NewRecorder()
		httpReq, _ := http.NewRequest("POST", "/webhooks/installation_repositories", bytes.NewBuffer(body))
		router.ServeHTTP(w, httpReq)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("invalid body", func(t *testing.T) {
		handler := New(new(mockService))
		router := setupRouter()
		router.POST("/webhooks/installation_repositories", handler.RepositoriesEvent)

		w := httptest.NewRecorder()
		httpReq, _ := http.NewRequest("POST", "/webhooks/installation_repositories", bytes.NewBufferString("{"))
		router.ServeHTTP(w, httpReq)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
