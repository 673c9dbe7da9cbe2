package services

import (
	"context"
	"sort"
	"time"

	json "github.com/goccy/go-json"

	"msver/internal/harvest"
	"msver/internal/htmlutil"
	"msver/internal/models"
	"msver/internal/providers"
	"msver/internal/storage"
	"msver/internal/structures"
)

// Truncation limits for the summary endpoint.
const (
	summaryRecentReleases = 5
	summaryRecentUpdates  = 10
)

type WindowsVersionsServiceInterface interface {
	GetVersions(edition models.Edition) models.ApiResponse
	GetUpdates(edition models.Edition) models.ApiResponse
	GetSummary(edition models.Edition) models.ApiResponse
	Refresh(ctx context.Context) models.ApiResponse
	GetLastUpdateTime() models.ApiResponse
}

type WindowsVersionsService struct {
	logger    providers.Logger
	store     storage.FileStore
	cache     providers.CacheProviderInterface
	harvester harvest.Refresher
	ttl       time.Duration
}

func NewWindowsVersionsService(
	conf *structures.Config,
	logger providers.Logger,
	store *storage.WindowsStore,
	cache providers.CacheProviderInterface,
	harvester *harvest.WindowsHarvester,
) WindowsVersionsServiceInterface {
	return &WindowsVersionsService{
		logger:    logger,
		store:     store,
		cache:     cache,
		harvester: harvester,
		ttl:       conf.Cache.TTL,
	}
}

func (s *WindowsVersionsService) GetVersions(edition models.Edition) models.ApiResponse {
	data, updated, source, err := s.loadVersions(edition)
	if err != nil {
		return models.FailResponse(failureMessage(err))
	}
	return models.OkResponse(data, updated, source)
}

func (s *WindowsVersionsService) GetUpdates(edition models.Edition) models.ApiResponse {
	data, updated, source, err := s.loadUpdates(edition)
	if err != nil {
		return models.FailResponse(failureMessage(err))
	}
	return models.OkResponse(data, updated, source)
}

// GetSummary flattens the grouped version lists, computes the current
// version and latest-build roll-ups and truncates the recent lists.
func (s *WindowsVersionsService) GetSummary(edition models.Edition) models.ApiResponse {
	versions, updated, source, err := s.loadVersions(edition)
	if err != nil {
		return models.FailResponse(failureMessage(err))
	}
	updates, _, updSource, err := s.loadUpdates(edition)
	if err != nil {
		// A summary without updates is still useful.
		updates = &models.WindowsUpdatesData{}
	} else if updSource == models.SourceStaleCache {
		source = models.SourceStaleCache
	}

	return models.OkResponse(buildSummary(edition, versions, updates), updated, source)
}

func (s *WindowsVersionsService) Refresh(ctx context.Context) models.ApiResponse {
	if err := s.harvester.RefreshData(ctx); err != nil {
		s.logger.Errorf(providers.TypeApp, "Windows manual refresh failed: %s", err)
		return models.FailResponse("refresh failed: " + err.Error())
	}
	s.invalidate()
	return models.ApiResponse{
		Success:        true,
		Message:        "refresh completed",
		LastUpdatedUTC: timeNow().UTC(),
		Source:         models.SourceStorage,
	}
}

func (s *WindowsVersionsService) GetLastUpdateTime() models.ApiResponse {
	raw, err := s.store.Read(models.ArtifactWindowsLastUpdate)
	if err != nil {
		return models.FailResponse(failureMessage(err))
	}
	var last models.LastUpdate
	if err := json.Unmarshal(raw, &last); err != nil {
		return models.FailResponse("failed to load data")
	}
	return models.OkResponse(last, last.LastUpdatedUTC, models.SourceStorage)
}

func (s *WindowsVersionsService) loadVersions(edition models.Edition) (*models.WindowsReleaseVersions, time.Time, string, error) {
	artifact := models.VersionsArtifact(edition)
	raw, updated, source, err := loadArtifact(s.cache, s.store, s.logger, s.ttl,
		"windows:versions:"+edition.Key(), artifact, decodeWindowsVersions)
	if err != nil {
		return nil, time.Time{}, "", err
	}
	var data models.WindowsReleaseVersions
	if uerr := json.Unmarshal(raw, &data); uerr != nil {
		return nil, time.Time{}, "", uerr
	}
	return &data, updated, source, nil
}

func (s *WindowsVersionsService) loadUpdates(edition models.Edition) (*models.WindowsUpdatesData, time.Time, string, error) {
	artifact := models.UpdatesArtifact(edition)
	raw, updated, source, err := loadArtifact(s.cache, s.store, s.logger, s.ttl,
		"windows:updates:"+edition.Key(), artifact, decodeWindowsUpdates)
	if err != nil {
		return nil, time.Time{}, "", err
	}
	var data models.WindowsUpdatesData
	if uerr := json.Unmarshal(raw, &data); uerr != nil {
		return nil, time.Time{}, "", uerr
	}
	return &data, updated, source, nil
}

func (s *WindowsVersionsService) invalidate() {
	for _, e := range []models.Edition{models.EditionWindows10, models.EditionWindows11} {
		s.cache.Del("windows:versions:" + e.Key())
		s.cache.Del("windows:updates:" + e.Key())
	}
}

func decodeWindowsVersions(raw []byte) (time.Time, error) {
	var data models.WindowsReleaseVersions
	if err := json.Unmarshal(raw, &data); err != nil {
		return time.Time{}, err
	}
	return data.DataForNerds.LastUpdatedUTC, nil
}

func decodeWindowsUpdates(raw []byte) (time.Time, error) {
	var data models.WindowsUpdatesData
	if err := json.Unmarshal(raw, &data); err != nil {
		return time.Time{}, err
	}
	return data.DataForNerds.LastUpdatedUTC, nil
}

func buildSummary(edition models.Edition, versions *models.WindowsReleaseVersions, updates *models.WindowsUpdatesData) models.WindowsSummary {
	summary := models.WindowsSummary{
		Edition:        edition,
		VersionCount:   len(versions.RegularVersions) + len(versions.LtscVersions),
		UpdateCount:    len(updates.Data),
		LastUpdatedUTC: versions.DataForNerds.LastUpdatedUTC,
	}

	for _, v := range versions.RegularVersions {
		if v.IsCurrentVersion {
			summary.CurrentVersion = v.Version
		}
	}
	for _, v := range versions.LtscVersions {
		if v.IsCurrentVersion {
			summary.CurrentLtscVersion = v.Version
		}
	}

	releases := make([]models.Release, 0, summary.VersionCount)
	for _, v := range versions.Flatten() {
		releases = append(releases, models.Release{
			Edition:       v.Edition,
			ServicingType: v.ServicingType,
			Version:       v.Version,
			Build:         v.Build,
			Date:          v.Availability,
		})
	}
	sort.SliceStable(releases, func(i, j int) bool {
		di, iOK := htmlutil.ParseDate(releases[i].Date)
		dj, jOK := htmlutil.ParseDate(releases[j].Date)
		if iOK && jOK {
			return di.After(dj)
		}
		return iOK
	})
	if len(releases) > summaryRecentReleases {
		releases = releases[:summaryRecentReleases]
	}
	summary.RecentReleases = releases

	recent := updates.Data
	if len(recent) > summaryRecentUpdates {
		recent = recent[:summaryRecentUpdates]
	}
	summary.RecentUpdates = recent

	if len(updates.Data) > 0 {
		summary.LatestBuild = updates.Data[0].Build
	}
	if summary.LatestBuild == "" {
		for _, v := range versions.RegularVersions {
			if v.IsCurrentVersion && v.LatestUpdate != "" {
				summary.LatestBuild = v.LatestUpdate
			}
		}
	}
	return summary
}
