package services

import (
	"context"
	"time"

	json "github.com/goccy/go-json"

	"msver/internal/harvest"
	"msver/internal/models"
	"msver/internal/providers"
	"msver/internal/storage"
	"msver/internal/structures"
)

type Office365ServiceInterface interface {
	GetLatest() models.ApiResponse
	GetHistory() models.ApiResponse
	GetByChannel(channel string) models.ApiResponse
	Refresh(ctx context.Context) models.ApiResponse
	GetLastUpdateTime() models.ApiResponse
}

type Office365Service struct {
	logger    providers.Logger
	store     storage.FileStore
	cache     providers.CacheProviderInterface
	harvester harvest.Refresher
	ttl       time.Duration
}

func NewOffice365Service(
	conf *structures.Config,
	logger providers.Logger,
	store *storage.Office365Store,
	cache providers.CacheProviderInterface,
	harvester *harvest.Office365Harvester,
) Office365ServiceInterface {
	return &Office365Service{
		logger:    logger,
		store:     store,
		cache:     cache,
		harvester: harvester,
		ttl:       conf.Cache.TTL,
	}
}

func (s *Office365Service) GetLatest() models.ApiResponse {
	return s.load("office365:latest", models.ArtifactM365Latest)
}

func (s *Office365Service) GetHistory() models.ApiResponse {
	return s.load("office365:history", models.ArtifactM365Releases)
}

func (s *Office365Service) GetByChannel(channel string) models.ApiResponse {
	canonical, ok := models.ParseChannel(channel)
	if !ok {
		return models.FailResponse("unknown channel: " + channel)
	}
	artifact, _ := models.ChannelArtifact(canonical)
	return s.load("office365:channel:"+canonical, artifact)
}

// Refresh forces a harvest run and invalidates the service's cache keys
// so the next read sees the fresh artifacts.
func (s *Office365Service) Refresh(ctx context.Context) models.ApiResponse {
	if err := s.harvester.RefreshData(ctx); err != nil {
		s.logger.Errorf(providers.TypeApp, "Office 365 manual refresh failed: %s", err)
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

func (s *Office365Service) GetLastUpdateTime() models.ApiResponse {
	t, err := s.store.LastModified(models.ArtifactM365Latest)
	if err != nil {
		return models.FailResponse(failureMessage(err))
	}
	return models.OkResponse(models.LastUpdate{LastUpdatedUTC: t.UTC()}, t.UTC(), models.SourceStorage)
}

func (s *Office365Service) load(key, artifact string) models.ApiResponse {
	raw, updated, source, err := loadArtifact(s.cache, s.store, s.logger, s.ttl, key, artifact, decodeOffice365)
	if err != nil {
		return models.FailResponse(failureMessage(err))
	}
	var data models.Office365VersionsData
	if uerr := json.Unmarshal(raw, &data); uerr != nil {
		return models.FailResponse("failed to load data")
	}
	return models.OkResponse(data, updated, source)
}

func (s *Office365Service) invalidate() {
	s.cache.Del("office365:latest")
	s.cache.Del("office365:history")
	for _, channel := range models.AllChannels {
		s.cache.Del("office365:channel:" + channel)
	}
}

func decodeOffice365(raw []byte) (time.Time, error) {
	var data models.Office365VersionsData
	if err := json.Unmarshal(raw, &data); err != nil {
		return time.Time{}, err
	}
	return data.DataForNerds.LastUpdatedUTC, nil
}
