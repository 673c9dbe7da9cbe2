package models

import (
	json "github.com/goccy/go-json"
	"strings"
	"time"
)

type Edition string

const (
	EditionWindows10 Edition = "Windows 10"
	EditionWindows11 Edition = "Windows 11"
)

// Key returns the lowercase identifier used in artifact file names and
// API query parameters ("windows10", "windows11").
func (e Edition) Key() string {
	switch e {
	case EditionWindows10:
		return "windows10"
	case EditionWindows11:
		return "windows11"
	}
	return strings.ToLower(strings.ReplaceAll(string(e), " ", ""))
}

// ParseEdition resolves the user/config facing spellings of an edition.
func ParseEdition(s string) (Edition, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "windows10", "win10", "windows 10", "10":
		return EditionWindows10, true
	case "windows11", "win11", "windows 11", "11":
		return EditionWindows11, true
	}
	return "", false
}

type ServicingType string

const (
	ServicingRegular ServicingType = "Regular"
	ServicingLTSC    ServicingType = "LTSC"
	ServicingLTSB    ServicingType = "LTSB"
)

// IsLongTerm reports whether the servicing type belongs to the long-term
// track (LTSC and its pre-1607 name LTSB are grouped together).
func (s ServicingType) IsLongTerm() bool {
	return s == ServicingLTSC || s == ServicingLTSB
}

// WindowsVersion is one version record from the release-information
// tables. Identity is (Edition, Version, ServicingType). The support-end
// fields are split by track: Regular versions carry the end-of-servicing
// pair, LTSC versions carry the mainstream/extended pair.
type WindowsVersion struct {
	Edition       Edition       `json:"edition"`
	Version       string        `json:"version"`
	Build         string        `json:"build,omitempty"`
	ServicingType ServicingType `json:"servicingType"`
	ServiceOption string        `json:"serviceOption,omitempty"`
	Availability  string        `json:"availability,omitempty"`
	ReleaseDate   string        `json:"releaseDate,omitempty"`

	EndOfServicingStandard   string `json:"endOfServicingStandard,omitempty"`
	EndOfServicingEnterprise string `json:"endOfServicingEnterprise,omitempty"`
	MainstreamSupportEndDate string `json:"mainstreamSupportEndDate,omitempty"`
	ExtendedSupportEndDate   string `json:"extendedSupportEndDate,omitempty"`

	LatestUpdate       string `json:"latestUpdate,omitempty"`
	LatestRevisionDate string `json:"latestRevisionDate,omitempty"`
	IsCurrentVersion   bool   `json:"isCurrentVersion"`
}

// Windows update types, in the priority order used for title-based
// classification (first match wins).
const (
	UpdateTypeSecurity       = "Security"
	UpdateTypePreview        = "Preview"
	UpdateTypeCumulative     = "Cumulative"
	UpdateTypeFeature        = "Feature"
	UpdateTypeOutOfBand      = "Out-of-band"
	UpdateTypeServicingStack = "Servicing Stack"
	UpdateTypeGeneral        = "General"
)

// WindowsUpdate is one KB update. KBNumber is the dedup key within a run.
type WindowsUpdate struct {
	Edition          Edition  `json:"edition"`
	Version          string   `json:"version,omitempty"`
	Build            string   `json:"build,omitempty"`
	KBNumber         string   `json:"kbNumber"`
	ReleaseDate      string   `json:"releaseDate,omitempty"`
	UpdateTitle      string   `json:"updateTitle,omitempty"`
	Description      string   `json:"description,omitempty"`
	Type             string   `json:"type,omitempty"`
	IsSecurityUpdate bool     `json:"isSecurityUpdate"`
	IsOptionalUpdate bool     `json:"isOptionalUpdate"`
	Highlights       []string `json:"highlights,omitempty"`
	KnownIssues      []string `json:"knownIssues,omitempty"`
	SupportURL       string   `json:"supportUrl,omitempty"`

	ReleaseDateParsed time.Time `json:"-"`
}

// WindowsReleaseVersions is the canonical on-disk shape of a versions
// artifact: regular servicing and long-term servicing lists kept apart.
// A legacy flat-list shape is still accepted on read.
type WindowsReleaseVersions struct {
	DataForNerds    DataForNerds     `json:"dataForNerds"`
	RegularVersions []WindowsVersion `json:"regularVersions"`
	LtscVersions    []WindowsVersion `json:"ltscVersions"`
}

// UnmarshalJSON accepts both the grouped shape and the legacy flat list
// of versions that older artifacts were written as.
func (w *WindowsReleaseVersions) UnmarshalJSON(data []byte) error {
	type grouped WindowsReleaseVersions
	var g grouped
	if err := json.Unmarshal(data, &g); err == nil && (g.RegularVersions != nil || g.LtscVersions != nil) {
		*w = WindowsReleaseVersions(g)
		return nil
	}

	var flat struct {
		DataForNerds DataForNerds     `json:"dataForNerds"`
		Data         []WindowsVersion `json:"data"`
	}
	if err := json.Unmarshal(data, &flat); err != nil {
		return err
	}
	w.DataForNerds = flat.DataForNerds
	w.RegularVersions = nil
	w.LtscVersions = nil
	for _, v := range flat.Data {
		if v.ServicingType.IsLongTerm() {
			w.LtscVersions = append(w.LtscVersions, v)
		} else {
			w.RegularVersions = append(w.RegularVersions, v)
		}
	}
	return nil
}

// Flatten returns regular followed by long-term versions as one list.
func (w *WindowsReleaseVersions) Flatten() []WindowsVersion {
	out := make([]WindowsVersion, 0, len(w.RegularVersions)+len(w.LtscVersions))
	out = append(out, w.RegularVersions...)
	out = append(out, w.LtscVersions...)
	return out
}

// WindowsUpdatesData is the container shape of an updates artifact.
type WindowsUpdatesData struct {
	DataForNerds DataForNerds    `json:"dataForNerds"`
	Data         []WindowsUpdate `json:"data"`
}

// LastUpdate is the shared last-update.json timestamp file.
type LastUpdate struct {
	LastUpdatedUTC time.Time `json:"lastUpdatedUTC"`
}

// Release is the uniform record used when mixed-edition, mixed-track
// lists get grouped or sorted for summaries. It tags each entry with
// everything the grouping needs, so no untyped intermediates are used.
type Release struct {
	Edition       Edition       `json:"edition"`
	Channel       string        `json:"channel,omitempty"`
	ServicingType ServicingType `json:"servicingType,omitempty"`
	Version       string        `json:"version"`
	Build         string        `json:"build,omitempty"`
	Date          string        `json:"date,omitempty"`
}

// WindowsSummary is the per-edition roll-up served by the summary
// endpoint: current versions, latest build, and truncated recent lists.
// Recent releases use the uniform Release record so regular and
// long-term entries sort together.
type WindowsSummary struct {
	Edition            Edition         `json:"edition"`
	CurrentVersion     string          `json:"currentVersion,omitempty"`
	CurrentLtscVersion string          `json:"currentLtscVersion,omitempty"`
	LatestBuild        string          `json:"latestBuild,omitempty"`
	VersionCount       int             `json:"versionCount"`
	UpdateCount        int             `json:"updateCount"`
	RecentReleases     []Release       `json:"recentReleases,omitempty"`
	RecentUpdates      []WindowsUpdate `json:"recentUpdates,omitempty"`
	LastUpdatedUTC     time.Time       `json:"lastUpdatedUTC"`
}
