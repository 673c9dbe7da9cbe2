package controllers

import (
	json "github.com/goccy/go-json"
	"net/http"

	"msver/internal/models"
	"msver/internal/providers"
	"msver/internal/services"
)

type ApiController struct {
	logger          providers.Logger
	office365       services.Office365ServiceInterface
	windowsVersions services.WindowsVersionsServiceInterface
}

func NewApiController(
	logger providers.Logger,
	office365 services.Office365ServiceInterface,
	windowsVersions services.WindowsVersionsServiceInterface,
) *ApiController {
	return &ApiController{
		logger:          logger,
		office365:       office365,
		windowsVersions: windowsVersions,
	}
}

// getEdition resolves the ?edition= query parameter, defaulting to
// Windows 11 when absent.
func getEdition(r *http.Request) (models.Edition, bool) {
	raw := r.URL.Query().Get("edition")
	if raw == "" {
		return models.EditionWindows11, true
	}
	return models.ParseEdition(raw)
}

func (ac *ApiController) writeResponse(w http.ResponseWriter, resp models.ApiResponse) {
	gson, err := json.Marshal(resp)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	status := http.StatusOK
	if !resp.Success {
		status = http.StatusServiceUnavailable
		if resp.Message == "data not yet available" {
			status = http.StatusNotFound
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(gson)
}

func (ac *ApiController) writeBadRequest(w http.ResponseWriter, message string) {
	gson, err := json.Marshal(models.FailResponse(message))
	if err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	_, _ = w.Write(gson)
}

func (ac *ApiController) GetOffice365Latest(w http.ResponseWriter, r *http.Request) {
	ac.writeResponse(w, ac.office365.GetLatest())
}

func (ac *ApiController) GetOffice365History(w http.ResponseWriter, r *http.Request) {
	ac.writeResponse(w, ac.office365.GetHistory())
}

func (ac *ApiController) GetOffice365Channel(w http.ResponseWriter, r *http.Request) {
	channel := r.URL.Query().Get("channel")
	if channel == "" {
		ac.writeBadRequest(w, "missing channel parameter")
		return
	}
	resp := ac.office365.GetByChannel(channel)
	if !resp.Success && resp.Message == "unknown channel: "+channel {
		ac.writeBadRequest(w, resp.Message)
		return
	}
	ac.writeResponse(w, resp)
}

func (ac *ApiController) RefreshOffice365(w http.ResponseWriter, r *http.Request) {
	ac.writeResponse(w, ac.office365.Refresh(r.Context()))
}

func (ac *ApiController) GetWindowsVersions(w http.ResponseWriter, r *http.Request) {
	edition, ok := getEdition(r)
	if !ok {
		ac.writeBadRequest(w, "unknown edition: "+r.URL.Query().Get("edition"))
		return
	}
	ac.writeResponse(w, ac.windowsVersions.GetVersions(edition))
}

func (ac *ApiController) GetWindowsUpdates(w http.ResponseWriter, r *http.Request) {
	edition, ok := getEdition(r)
	if !ok {
		ac.writeBadRequest(w, "unknown edition: "+r.URL.Query().Get("edition"))
		return
	}
	ac.writeResponse(w, ac.windowsVersions.GetUpdates(edition))
}

func (ac *ApiController) GetWindowsSummary(w http.ResponseWriter, r *http.Request) {
	edition, ok := getEdition(r)
	if !ok {
		ac.writeBadRequest(w, "unknown edition: "+r.URL.Query().Get("edition"))
		return
	}
	ac.writeResponse(w, ac.windowsVersions.GetSummary(edition))
}

func (ac *ApiController) RefreshWindows(w http.ResponseWriter, r *http.Request) {
	ac.writeResponse(w, ac.windowsVersions.Refresh(r.Context()))
}

// GetLastUpdate reports the more recent of the two harvesters' last
// successful runs.
func (ac *ApiController) GetLastUpdate(w http.ResponseWriter, r *http.Request) {
	office := ac.office365.GetLastUpdateTime()
	windows := ac.windowsVersions.GetLastUpdateTime()

	switch {
	case office.Success && windows.Success:
		if windows.LastUpdatedUTC.After(office.LastUpdatedUTC) {
			ac.writeResponse(w, windows)
			return
		}
		ac.writeResponse(w, office)
	case office.Success:
		ac.writeResponse(w, office)
	default:
		ac.writeResponse(w, windows)
	}
}
