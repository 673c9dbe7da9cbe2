package harvest

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	json "github.com/goccy/go-json"

	"msver/internal/clean"
	"msver/internal/models"
	"msver/internal/providers"
	"msver/internal/storage"
	"msver/internal/structures"
)

// timeNow is swapped in tests that pin "today".
var timeNow = time.Now

// WindowsHarvester scrapes four documentation pages per run (update
// history and release information for each edition), enriches the most
// recent updates from their KB articles and writes the five Windows
// artifacts. Editions are processed strictly one after another.
type WindowsHarvester struct {
	conf      *structures.Config
	logger    providers.Logger
	fetcher   providers.PageFetcherInterface
	store     storage.FileStore
	metrics   providers.MetricsProviderInterface
	snapshots *storage.SnapshotWriter
}

func NewWindowsHarvester(
	conf *structures.Config,
	logger providers.Logger,
	fetcher providers.PageFetcherInterface,
	store *storage.WindowsStore,
	metrics providers.MetricsProviderInterface,
) (*WindowsHarvester, error) {
	snapshots, err := storage.NewSnapshotWriter(store)
	if err != nil {
		return nil, err
	}
	return &WindowsHarvester{
		conf:      conf,
		logger:    logger,
		fetcher:   fetcher,
		store:     store,
		metrics:   metrics,
		snapshots: snapshots,
	}, nil
}

func (h *WindowsHarvester) Name() string { return "windows" }

// RefreshData harvests both editions sequentially. One edition's
// failure does not block the other, but the run only reports success
// when both succeeded.
func (h *WindowsHarvester) RefreshData(ctx context.Context) (err error) {
	start := time.Now()
	defer func() {
		h.metrics.ObserveHarvestDuration(h.Name(), time.Since(start))
		outcome := "success"
		if err != nil {
			outcome = "failure"
		}
		h.metrics.IncHarvestRuns(h.Name(), outcome)
	}()

	editions := []struct {
		edition models.Edition
		pages   structures.EditionPages
	}{
		{models.EditionWindows10, h.conf.Windows.Windows10},
		{models.EditionWindows11, h.conf.Windows.Windows11},
	}

	var errs []error
	for _, e := range editions {
		if eErr := h.refreshEdition(ctx, e.edition, e.pages); eErr != nil {
			h.logger.Errorf(providers.TypeHarvest, "%s harvest failed: %s", e.edition, eErr)
			errs = append(errs, fmt.Errorf("%s: %w", e.edition, eErr))
		}
	}
	err = errors.Join(errs...)
	return err
}

// refreshEdition runs the full pipeline for one edition. A page whose
// strategy chain yields zero records gets a diagnostic snapshot and
// drops out of this run; everything that did parse is still written.
func (h *WindowsHarvester) refreshEdition(ctx context.Context, edition models.Edition, pages structures.EditionPages) error {
	start := time.Now()
	var errs []error

	updates, updErr := h.harvestUpdates(ctx, edition, pages.UpdateHistoryURL)
	if updErr != nil {
		errs = append(errs, updErr)
	}
	versions, verErr := h.harvestVersions(ctx, edition, pages.ReleaseInfoURL)
	if verErr != nil {
		errs = append(errs, verErr)
	}

	now := time.Now().UTC()
	if len(updates) > 0 {
		meta := models.DataForNerds{
			LastUpdatedUTC:      now,
			Sources:             []string{pages.UpdateHistoryURL},
			ElapsedMilliseconds: time.Since(start).Milliseconds(),
		}
		name := models.UpdatesArtifact(edition)
		if werr := h.writeArtifact(name, models.WindowsUpdatesData{DataForNerds: meta, Data: updates}); werr != nil {
			errs = append(errs, werr)
		} else {
			h.metrics.SetRecordsTotal(name, len(updates))
		}
	}
	if len(versions) > 0 {
		grouped := groupVersions(versions)
		grouped.DataForNerds = models.DataForNerds{
			LastUpdatedUTC:      now,
			Sources:             []string{pages.ReleaseInfoURL},
			ElapsedMilliseconds: time.Since(start).Milliseconds(),
		}
		name := models.VersionsArtifact(edition)
		if werr := h.writeArtifact(name, grouped); werr != nil {
			errs = append(errs, werr)
		} else {
			h.metrics.SetRecordsTotal(name, len(versions))
		}
	}

	if len(errs) == 0 {
		if werr := h.writeArtifact(models.ArtifactWindowsLastUpdate, models.LastUpdate{LastUpdatedUTC: now}); werr != nil {
			errs = append(errs, werr)
		}
	}
	return errors.Join(errs...)
}

// harvestUpdates fetches the update-history page, runs the strategy
// chain, enriches the most recent updates and cleans the result.
func (h *WindowsHarvester) harvestUpdates(ctx context.Context, edition models.Edition, url string) ([]models.WindowsUpdate, error) {
	doc, err := h.fetcher.FetchPage(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("update history fetch: %w", err)
	}

	updates, strategy := h.parseUpdateHistory(edition, doc)
	if len(updates) == 0 {
		h.saveSnapshot("diag-"+edition.Key()+"-history", doc)
		return nil, errors.New("update history: no updates extracted by any strategy")
	}
	h.logger.Infof(providers.TypeHarvest, "%s update history: %d raw updates via %s", edition, len(updates), strategy)

	updates = clean.CleanWindowsUpdates(updates)
	sortUpdatesDesc(updates)
	h.enrichRecent(ctx, edition, updates)
	return updates, nil
}

// harvestVersions fetches the release-information page and parses the
// regular and long-term servicing tables.
func (h *WindowsHarvester) harvestVersions(ctx context.Context, edition models.Edition, url string) ([]models.WindowsVersion, error) {
	doc, err := h.fetcher.FetchPage(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("release info fetch: %w", err)
	}

	versions := h.parseReleaseInfo(edition, doc)
	if len(versions) == 0 {
		h.saveSnapshot("diag-"+edition.Key()+"-releaseinfo", doc)
		return nil, errors.New("release info: no versions extracted")
	}

	return clean.CleanWindowsVersions(versions), nil
}

func (h *WindowsHarvester) writeArtifact(name string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if err := h.store.Write(name, data); err != nil {
		h.logger.Errorf(providers.TypeHarvest, "Write %s failed: %s", name, err)
		return err
	}
	return nil
}

func (h *WindowsHarvester) saveSnapshot(tag, doc string) {
	if err := h.snapshots.Save(tag, doc); err != nil {
		h.logger.Warnf(providers.TypeHarvest, "Diagnostic snapshot %s failed: %s", tag, err)
		return
	}
	h.logger.Warnf(providers.TypeHarvest, "Wrote diagnostic snapshot %s", tag)
}

// groupVersions splits a cleaned flat list into the canonical on-disk
// regular/long-term shape.
func groupVersions(versions []models.WindowsVersion) models.WindowsReleaseVersions {
	var grouped models.WindowsReleaseVersions
	for _, v := range versions {
		if v.ServicingType.IsLongTerm() {
			grouped.LtscVersions = append(grouped.LtscVersions, v)
		} else {
			grouped.RegularVersions = append(grouped.RegularVersions, v)
		}
	}
	return grouped
}

func sortUpdatesDesc(updates []models.WindowsUpdate) {
	sort.SliceStable(updates, func(i, j int) bool {
		return updates[i].ReleaseDateParsed.After(updates[j].ReleaseDateParsed)
	})
}
