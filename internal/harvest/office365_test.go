package harvest

import (
	"context"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"msver/internal/models"
	"msver/internal/providers"
	"msver/internal/structures"
	"msver/internal/testutil"
)

const officePageURL = "https://learn.microsoft.com/en-us/officeupdates/update-history-microsoft365-apps-by-date"

const officePage = `<html><body>
<table aria-label="Supported versions">
<tr><th>Channel</th><th>Version</th><th>Build</th><th>Latest release date</th><th>Version availability date</th><th>End of service</th></tr>
<tr><td>Current Channel</td><td>2401</td><td>17231.20236</td><td>January 30, 2024</td><td>January 9, 2024</td><td>Not applicable</td></tr>
<tr><td>Monthly Enterprise Channel</td><td>2312</td><td>17126.20132</td><td>January 9, 2024</td><td>January 9, 2024</td><td>July 9, 2024</td></tr>
<tr><td>Semi-Annual Enterprise Channel</td><td>2308</td><td>16731.20550</td><td>January 9, 2024</td><td>January 9, 2024</td><td>January 14, 2025</td></tr>
</table>
<table aria-label="Version history">
<tr><th>Year</th><th>Release date</th><th>Current Channel</th><th>Monthly Enterprise Channel</th><th>Semi-Annual Enterprise Channel (Preview)</th><th>Semi-Annual Enterprise Channel</th></tr>
<tr><td rowspan="2">2024</td><td>January 30</td><td><a href="/en-us/officeupdates/current-channel#version-2401">Version 2401 (Build 17231.20236)</a></td><td></td><td></td><td></td></tr>
<tr><td></td><td>January 9</td><td><a href="#version-2312">Version 2312 (Build 17126.20184)</a></td><td><a href="/mec#v2312">Version 2312 (Build 17126.20132)</a></td><td></td><td><a href="https://learn.microsoft.com/sac">Version 2308 (Build 16731.20550)</a></td></tr>
<tr><td>2023</td><td>December 12</td><td><a href="#version-2311">Version 2311 (Build 17029.20108)</a></td><td></td><td></td><td></td></tr>
</table>
</body></html>`

func officeConfig() *structures.Config {
	return &structures.Config{
		Office365: structures.Office365Config{
			Enabled:          true,
			UpdateHistoryURL: officePageURL,
		},
	}
}

func newOfficeHarvester(fetcher providers.PageFetcherInterface, store *testutil.MockStore) *Office365Harvester {
	return &Office365Harvester{
		conf:    officeConfig(),
		logger:  &testutil.MockLogger{},
		fetcher: fetcher,
		store:   store,
		metrics: providers.NewNoopMetrics(),
	}
}

func TestOffice365Harvester_RefreshData(t *testing.T) {
	fetcher := testutil.NewMockFetcher()
	fetcher.Pages[officePageURL] = officePage
	store := testutil.NewMockStore()

	h := newOfficeHarvester(fetcher, store)
	require.NoError(t, h.RefreshData(context.Background()))

	// All six artifacts written.
	for _, name := range []string{
		models.ArtifactM365Latest,
		models.ArtifactM365Releases,
		models.ArtifactM365CurrentReleases,
		models.ArtifactM365MonthlyReleases,
		models.ArtifactM365SACReleases,
		models.ArtifactM365SACPrevReleases,
	} {
		exists, err := store.Exists(name)
		require.NoError(t, err)
		assert.True(t, exists, "artifact %s", name)
	}

	var latest models.Office365VersionsData
	raw, err := store.Read(models.ArtifactM365Latest)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &latest))
	require.Len(t, latest.Data, 3)

	cur := latest.Data[0]
	assert.Equal(t, models.ChannelCurrent, cur.Channel)
	assert.Equal(t, "2401", cur.Version)
	assert.Equal(t, "17231.20236", cur.Build)
	assert.Equal(t, "16.0.17231.20236", cur.FullBuild)
	assert.Equal(t, "January 30, 2024", cur.ReleaseDate)
	assert.Equal(t, "January 9, 2024", cur.FirstAvailabilityDate)
	assert.Equal(t, officePageURL, cur.URL)

	assert.Equal(t, []string{officePageURL}, latest.DataForNerds.Sources)
	assert.False(t, latest.DataForNerds.LastUpdatedUTC.IsZero())
}

func TestOffice365Harvester_HistoryBucketsByChannel(t *testing.T) {
	fetcher := testutil.NewMockFetcher()
	fetcher.Pages[officePageURL] = officePage
	store := testutil.NewMockStore()

	h := newOfficeHarvester(fetcher, store)
	require.NoError(t, h.RefreshData(context.Background()))

	var history models.Office365VersionsData
	raw, err := store.Read(models.ArtifactM365Releases)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &history))
	require.Len(t, history.Data, 5)

	// Newest first.
	assert.Equal(t, "2401", history.Data[0].Version)
	assert.Equal(t, "2311", history.Data[len(history.Data)-1].Version)

	var monthly models.Office365VersionsData
	raw, err = store.Read(models.ArtifactM365MonthlyReleases)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &monthly))
	require.Len(t, monthly.Data, 1)
	assert.Equal(t, "2312", monthly.Data[0].Version)
	assert.Equal(t, "17126.20132", monthly.Data[0].Build)
	assert.Equal(t, models.ChannelMonthlyEnterprise, monthly.Data[0].Channel)
}

func TestOffice365Harvester_CarriedYearFromMergedCells(t *testing.T) {
	fetcher := testutil.NewMockFetcher()
	fetcher.Pages[officePageURL] = officePage
	store := testutil.NewMockStore()

	h := newOfficeHarvester(fetcher, store)
	require.NoError(t, h.RefreshData(context.Background()))

	var history models.Office365VersionsData
	raw, err := store.Read(models.ArtifactM365Releases)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &history))

	byVersion := map[string]string{}
	for _, v := range history.Data {
		byVersion[v.Version+"|"+v.Channel] = v.ReleaseDate
	}
	// Second 2024 row has a blank year cell and must inherit 2024.
	assert.Equal(t, "January 9, 2024", byVersion["2312|"+models.ChannelCurrent])
	// The 2023 row must not inherit the carried 2024.
	assert.Equal(t, "December 12, 2023", byVersion["2311|"+models.ChannelCurrent])
}

func TestOffice365Harvester_ResolvesRelativeLinks(t *testing.T) {
	fetcher := testutil.NewMockFetcher()
	fetcher.Pages[officePageURL] = officePage
	store := testutil.NewMockStore()

	h := newOfficeHarvester(fetcher, store)
	require.NoError(t, h.RefreshData(context.Background()))

	var history models.Office365VersionsData
	raw, err := store.Read(models.ArtifactM365Releases)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &history))

	urls := map[string]string{}
	for _, v := range history.Data {
		urls[v.Version+"|"+v.Channel] = v.URL
	}
	assert.Equal(t, "https://learn.microsoft.com/en-us/officeupdates/current-channel#version-2401",
		urls["2401|"+models.ChannelCurrent])
	assert.Equal(t, officePageURL+"#version-2312", urls["2312|"+models.ChannelCurrent])
	assert.Equal(t, "https://learn.microsoft.com/sac", urls["2308|"+models.ChannelSemiAnnual])
}

func TestOffice365Harvester_FetchErrorAborts(t *testing.T) {
	fetcher := testutil.NewMockFetcher()
	store := testutil.NewMockStore()

	h := newOfficeHarvester(fetcher, store)
	err := h.RefreshData(context.Background())
	require.Error(t, err)
	assert.Empty(t, store.WriteLog)
}

func TestOffice365Harvester_MissingTablesAborts(t *testing.T) {
	fetcher := testutil.NewMockFetcher()
	fetcher.Pages[officePageURL] = "<html><body><p>maintenance</p></body></html>"
	store := testutil.NewMockStore()

	h := newOfficeHarvester(fetcher, store)
	err := h.RefreshData(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected 2 tables")
	assert.Empty(t, store.WriteLog)
}

func TestOffice365Harvester_WriteFailureReported(t *testing.T) {
	fetcher := testutil.NewMockFetcher()
	fetcher.Pages[officePageURL] = officePage
	store := testutil.NewMockStore()
	store.WriteErr = assert.AnError

	h := newOfficeHarvester(fetcher, store)
	err := h.RefreshData(context.Background())
	require.Error(t, err)
	// Every artifact write was still attempted.
	assert.Len(t, store.WriteLog, 6)
}

func TestResolveHref(t *testing.T) {
	page := "https://learn.microsoft.com/en-us/officeupdates/history"
	assert.Equal(t, "https://x/y", resolveHref("https://x/y", page))
	assert.Equal(t, page+"#frag", resolveHref("#frag", page))
	assert.Equal(t, "https://learn.microsoft.com/abs", resolveHref("/abs", page))
	assert.Empty(t, resolveHref("", page))
}

func TestSortUpdatesDesc(t *testing.T) {
	updates := []models.WindowsUpdate{
		{KBNumber: "KB1", ReleaseDateParsed: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		{KBNumber: "KB2", ReleaseDateParsed: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)},
		{KBNumber: "KB3"},
	}
	sortUpdatesDesc(updates)
	assert.Equal(t, "KB2", updates[0].KBNumber)
	assert.Equal(t, "KB1", updates[1].KBNumber)
	assert.Equal(t, "KB3", updates[2].KBNumber)
}
