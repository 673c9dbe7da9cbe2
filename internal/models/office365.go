package models

import (
	"sort"
	"time"
)

// Office 365 servicing channels as they appear on the update-history page.
const (
	ChannelCurrent           = "Current Channel"
	ChannelMonthlyEnterprise = "Monthly Enterprise Channel"
	ChannelSemiAnnual        = "Semi-Annual Enterprise Channel"
	ChannelSemiAnnualPreview = "Semi-Annual Enterprise Channel (Preview)"
)

// AllChannels lists the four channels the harvester buckets history into.
var AllChannels = []string{
	ChannelCurrent,
	ChannelMonthlyEnterprise,
	ChannelSemiAnnual,
	ChannelSemiAnnualPreview,
}

// ParseChannel resolves user-facing channel spellings to the canonical
// channel name.
func ParseChannel(s string) (string, bool) {
	switch normalizeChannelKey(s) {
	case "current", "currentchannel":
		return ChannelCurrent, true
	case "monthly", "monthlyenterprise", "monthlyenterprisechannel":
		return ChannelMonthlyEnterprise, true
	case "semiannual", "sac", "semiannualenterprise", "semiannualenterprisechannel":
		return ChannelSemiAnnual, true
	case "semiannualpreview", "sacpreview", "semiannualenterprisechannelpreview":
		return ChannelSemiAnnualPreview, true
	}
	return "", false
}

func normalizeChannelKey(s string) string {
	var sb []rune
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
			sb = append(sb, r)
		case r >= 'A' && r <= 'Z':
			sb = append(sb, r+('a'-'A'))
		}
	}
	return string(sb)
}

// Office365Version is one Office release entry. Identity within a run is
// (Channel, Version, Build); entries are regenerated wholesale on every
// harvester run and are read-only to consumers.
type Office365Version struct {
	Channel               string `json:"channel"`
	Version               string `json:"version"`
	Build                 string `json:"build"`
	FullBuild             string `json:"fullBuild,omitempty"`
	ReleaseDate           string `json:"releaseDate,omitempty"`
	LatestReleaseDate     string `json:"latestReleaseDate,omitempty"`
	FirstAvailabilityDate string `json:"firstAvailabilityDate,omitempty"`
	EndOfService          string `json:"endOfService,omitempty"`
	URL                   string `json:"url,omitempty"`

	// ReleaseDateParsed is the machine form of ReleaseDate, used for
	// sorting. Zero when the source date did not parse.
	ReleaseDateParsed time.Time `json:"-"`
}

// DataForNerds carries run metadata alongside every artifact.
type DataForNerds struct {
	LastUpdatedUTC      time.Time `json:"lastUpdatedUTC"`
	Sources             []string  `json:"sources,omitempty"`
	ElapsedMilliseconds int64     `json:"elapsedMilliseconds"`
}

// Office365VersionsData is the container shape of every Office artifact
// file: run metadata plus an ordered (newest first) list of releases.
type Office365VersionsData struct {
	DataForNerds DataForNerds       `json:"dataForNerds"`
	Data         []Office365Version `json:"data"`
}

// FilterChannel returns the entries belonging to one channel, sorted
// descending by release date. The receiver is not modified.
func (d *Office365VersionsData) FilterChannel(channel string) []Office365Version {
	var out []Office365Version
	for _, v := range d.Data {
		if v.Channel == channel {
			out = append(out, v)
		}
	}
	SortOffice365VersionsDesc(out)
	return out
}

// SortOffice365VersionsDesc orders releases newest first. Entries without
// a parseable date sink to the end, keeping their relative order.
func SortOffice365VersionsDesc(versions []Office365Version) {
	sort.SliceStable(versions, func(i, j int) bool {
		return versions[i].ReleaseDateParsed.After(versions[j].ReleaseDateParsed)
	})
}
