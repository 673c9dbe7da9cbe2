// Package harvest contains the two background harvesters that scrape
// Microsoft documentation pages and regenerate the JSON artifacts the
// read services serve from.
package harvest

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"msver/internal/htmlutil"
	"msver/internal/models"
	"msver/internal/providers"
	"msver/internal/storage"
	"msver/internal/structures"
)

// Refresher is the contract the scheduler and the read services drive a
// harvester through.
type Refresher interface {
	Name() string
	RefreshData(ctx context.Context) error
}

// Fixed cell offsets of the latest-versions-per-channel table. Rows
// shorter than the full layout are skipped as separators/headers.
const (
	latestCellChannel      = 0
	latestCellVersion      = 1
	latestCellBuild        = 2
	latestCellReleaseDate  = 3
	latestCellAvailability = 4
	latestCellEndOfService = 5
	latestCellCount        = 6
)

// historyChannelColumns maps the history table's channel columns (after
// the year and release-date cells) to channel names, in page order.
var historyChannelColumns = []string{
	models.ChannelCurrent,
	models.ChannelMonthlyEnterprise,
	models.ChannelSemiAnnualPreview,
	models.ChannelSemiAnnual,
}

var yearCellPattern = regexp.MustCompile(`^(19|20)\d{2}$`)

// Office365Harvester scrapes the single Office update-history page and
// writes the six Office artifacts.
type Office365Harvester struct {
	conf    *structures.Config
	logger  providers.Logger
	fetcher providers.PageFetcherInterface
	store   storage.FileStore
	metrics providers.MetricsProviderInterface
}

func NewOffice365Harvester(
	conf *structures.Config,
	logger providers.Logger,
	fetcher providers.PageFetcherInterface,
	store *storage.Office365Store,
	metrics providers.MetricsProviderInterface,
) *Office365Harvester {
	return &Office365Harvester{
		conf:    conf,
		logger:  logger,
		fetcher: fetcher,
		store:   store,
		metrics: metrics,
	}
}

func (h *Office365Harvester) Name() string { return "office365" }

// RefreshData runs one full harvest: fetch, parse both tables, bucket
// the history by channel and write every artifact. A fetch or
// parse-structure failure aborts the run; individual artifact write
// failures are collected so the remaining artifacts still get written.
func (h *Office365Harvester) RefreshData(ctx context.Context) (err error) {
	start := time.Now()
	defer func() {
		h.metrics.ObserveHarvestDuration(h.Name(), time.Since(start))
		outcome := "success"
		if err != nil {
			outcome = "failure"
		}
		h.metrics.IncHarvestRuns(h.Name(), outcome)
	}()

	pageURL := h.conf.Office365.UpdateHistoryURL
	doc, err := h.fetcher.FetchPage(ctx, pageURL)
	if err != nil {
		h.logger.Errorf(providers.TypeHarvest, "Office 365 fetch failed: %s", err)
		return err
	}

	tables := htmlutil.ExtractTables(doc)
	if len(tables) < 2 {
		h.logger.Warnf(providers.TypeHarvest, "Office 365 page yielded %d tables, retrying with loose boundaries", len(tables))
		var found bool
		tables, found = htmlutil.ExtractTablesAtLeast(doc, 2)
		if !found {
			err = fmt.Errorf("office 365 page: expected 2 tables, found %d", len(tables))
			h.logger.Errorf(providers.TypeHarvest, "Office 365 parse aborted: %s", err)
			return err
		}
	}

	latest := h.parseLatestTable(tables[0], pageURL)
	history := h.parseHistoryTable(tables[1], pageURL)
	models.SortOffice365VersionsDesc(history)

	if len(latest) == 0 && len(history) == 0 {
		err = errors.New("office 365 page: no release entries extracted")
		h.logger.Errorf(providers.TypeHarvest, "Office 365 parse aborted: %s", err)
		return err
	}

	meta := models.DataForNerds{
		LastUpdatedUTC:      time.Now().UTC(),
		Sources:             []string{pageURL},
		ElapsedMilliseconds: time.Since(start).Milliseconds(),
	}

	var writeErrs []error
	write := func(name string, data []models.Office365Version) {
		if werr := h.writeArtifact(name, models.Office365VersionsData{DataForNerds: meta, Data: data}); werr != nil {
			h.logger.Errorf(providers.TypeHarvest, "Write %s failed: %s", name, werr)
			writeErrs = append(writeErrs, werr)
			return
		}
		h.metrics.SetRecordsTotal(name, len(data))
	}

	write(models.ArtifactM365Latest, latest)
	write(models.ArtifactM365Releases, history)

	all := models.Office365VersionsData{Data: history}
	for _, channel := range models.AllChannels {
		name, _ := models.ChannelArtifact(channel)
		write(name, all.FilterChannel(channel))
	}

	h.logger.Infof(providers.TypeHarvest, "Office 365 harvest done: %d latest, %d history entries in %dms",
		len(latest), len(history), time.Since(start).Milliseconds())
	err = errors.Join(writeErrs...)
	return err
}

func (h *Office365Harvester) writeArtifact(name string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return h.store.Write(name, data)
}

// parseLatestTable extracts one release per channel row from the
// latest-versions table. Header and separator rows fall out naturally
// through the cell-count and channel-name checks.
func (h *Office365Harvester) parseLatestTable(table, sourceURL string) []models.Office365Version {
	var out []models.Office365Version
	for _, row := range htmlutil.ExtractRows(table) {
		cells := htmlutil.ExtractCells(row)
		if len(cells) < latestCellCount {
			continue
		}
		channel := cells[latestCellChannel]
		if !isKnownChannel(channel) {
			continue
		}
		released := cells[latestCellReleaseDate]
		v := models.Office365Version{
			Channel:               channel,
			Version:               cells[latestCellVersion],
			Build:                 cells[latestCellBuild],
			FullBuild:             "16.0." + cells[latestCellBuild],
			ReleaseDate:           htmlutil.NormalizeDate(released),
			LatestReleaseDate:     htmlutil.NormalizeDate(released),
			FirstAvailabilityDate: htmlutil.NormalizeDate(cells[latestCellAvailability]),
			EndOfService:          htmlutil.NormalizeDate(cells[latestCellEndOfService]),
			URL:                   sourceURL,
		}
		if t, ok := htmlutil.ParseDate(released); ok {
			v.ReleaseDateParsed = t
		}
		out = append(out, v)
	}
	return out
}

// parseHistoryTable walks the full-history table. The year column uses
// merged cells, so a blank year carries forward from the previous row.
// Each channel cell may hold several "Version X (Build Y)" links; every
// link becomes one release entry.
func (h *Office365Harvester) parseHistoryTable(table, sourceURL string) []models.Office365Version {
	var out []models.Office365Version
	var carriedYear string

	for _, row := range htmlutil.ExtractRows(table) {
		raw := htmlutil.ExtractCellsRaw(row)
		if len(raw) < 2 {
			continue
		}
		cells := make([]string, len(raw))
		for i, c := range raw {
			cells[i] = htmlutil.StripTags(c)
		}

		if yearCellPattern.MatchString(cells[0]) {
			carriedYear = cells[0]
		}
		if carriedYear == "" {
			continue
		}

		dateText := cells[1]
		releaseDate, dateOK := htmlutil.ParseDate(dateText + ", " + carriedYear)
		if !dateOK {
			// Some rows repeat the year inside the date cell.
			releaseDate, dateOK = htmlutil.ParseDate(dateText)
		}

		for i, channel := range historyChannelColumns {
			col := 2 + i
			if col >= len(raw) {
				break
			}
			for _, link := range htmlutil.ExtractLinks(raw[col]) {
				version, build := htmlutil.ExtractVersionBuild(link.Text)
				if version == "" {
					continue
				}
				v := models.Office365Version{
					Channel:   channel,
					Version:   version,
					Build:     build,
					FullBuild: "16.0." + build,
					URL:       resolveHref(link.Href, sourceURL),
				}
				if dateOK {
					v.ReleaseDate = htmlutil.FormatDate(releaseDate)
					v.ReleaseDateParsed = releaseDate
				} else {
					v.ReleaseDate = htmlutil.CollapseWhitespace(dateText)
				}
				out = append(out, v)
			}
		}
	}
	return out
}

func isKnownChannel(channel string) bool {
	for _, c := range models.AllChannels {
		if strings.EqualFold(channel, c) {
			return true
		}
	}
	return false
}

// resolveHref absolutizes the relative anchors Microsoft's pages use.
func resolveHref(href, pageURL string) string {
	if href == "" || strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	if strings.HasPrefix(href, "#") {
		return pageURL + href
	}
	if strings.HasPrefix(href, "/") {
		if i := strings.Index(pageURL, "://"); i > 0 {
			if j := strings.Index(pageURL[i+3:], "/"); j > 0 {
				return pageURL[:i+3+j] + href
			}
		}
		return "https://learn.microsoft.com" + href
	}
	return href
}
