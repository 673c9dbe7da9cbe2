package internal

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"msver/internal/controllers"
	"msver/internal/models"
	"msver/internal/providers"
	"msver/internal/structures"
)

// --- minimal mocks for routes test ---

type routeTestLogger struct{}

func (m *routeTestLogger) Errorf(_ providers.TypeEnum, _ string, _ ...interface{}) {}
func (m *routeTestLogger) Warnf(_ providers.TypeEnum, _ string, _ ...interface{})  {}
func (m *routeTestLogger) Debugf(_ providers.TypeEnum, _ string, _ ...interface{}) {}
func (m *routeTestLogger) Infof(_ providers.TypeEnum, _ string, _ ...interface{})  {}
func (m *routeTestLogger) Fatalf(_ providers.TypeEnum, _ string, _ ...interface{}) {}
func (m *routeTestLogger) Close()                                                  {}

type routeTestOfficeService struct{}

func (m *routeTestOfficeService) GetLatest() models.ApiResponse               { return models.ApiResponse{} }
func (m *routeTestOfficeService) GetHistory() models.ApiResponse              { return models.ApiResponse{} }
func (m *routeTestOfficeService) GetByChannel(_ string) models.ApiResponse    { return models.ApiResponse{} }
func (m *routeTestOfficeService) Refresh(_ context.Context) models.ApiResponse {
	return models.ApiResponse{Success: true}
}
func (m *routeTestOfficeService) GetLastUpdateTime() models.ApiResponse { return models.ApiResponse{} }

type routeTestWindowsService struct{}

func (m *routeTestWindowsService) GetVersions(_ models.Edition) models.ApiResponse {
	return models.ApiResponse{}
}
func (m *routeTestWindowsService) GetUpdates(_ models.Edition) models.ApiResponse {
	return models.ApiResponse{}
}
func (m *routeTestWindowsService) GetSummary(_ models.Edition) models.ApiResponse {
	return models.ApiResponse{}
}
func (m *routeTestWindowsService) Refresh(_ context.Context) models.ApiResponse {
	return models.ApiResponse{Success: true}
}
func (m *routeTestWindowsService) GetLastUpdateTime() models.ApiResponse { return models.ApiResponse{} }

func routeTestController() *controllers.ApiController {
	return controllers.NewApiController(&routeTestLogger{}, &routeTestOfficeService{}, &routeTestWindowsService{})
}

func TestInitRoutes_RegistersAllRoutes(t *testing.T) {
	router := InitRoutes(routeTestController(), &structures.Config{})
	routes := router.GetRoutes()

	require.Len(t, routes, 9)

	urls := make([]string, len(routes))
	for i, r := range routes {
		urls[i] = r.Url
	}

	assert.Contains(t, urls, "/api/office365/latest")
	assert.Contains(t, urls, "/api/office365/history")
	assert.Contains(t, urls, "/api/office365/channel")
	assert.Contains(t, urls, "/api/office365/refresh")
	assert.Contains(t, urls, "/api/windows/versions")
	assert.Contains(t, urls, "/api/windows/updates")
	assert.Contains(t, urls, "/api/windows/summary")
	assert.Contains(t, urls, "/api/windows/refresh")
	assert.Contains(t, urls, "/api/lastupdate")
}

func TestInitRoutes_MethodEnforcement(t *testing.T) {
	router := InitRoutes(routeTestController(), &structures.Config{})

	mux := http.NewServeMux()
	for _, r := range router.GetRoutes() {
		mux.Handle(r.Url, r.Handler)
	}

	// Read endpoints reject POST.
	req := httptest.NewRequest(http.MethodPost, "/api/windows/versions", nil)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)

	// Refresh endpoints reject GET.
	req = httptest.NewRequest(http.MethodGet, "/api/office365/refresh", nil)
	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/office365/refresh", nil)
	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
}
