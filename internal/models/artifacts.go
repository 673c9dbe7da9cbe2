package models

// Authoritative artifact file names. Harvesters write them, read
// services read them; nothing else touches storage.
const (
	ArtifactM365Latest            = "m365LatestVersions.json"
	ArtifactM365Releases          = "m365releases.json"
	ArtifactM365CurrentReleases   = "m365CurrentReleases.json"
	ArtifactM365MonthlyReleases   = "m365MonthlyReleases.json"
	ArtifactM365SACReleases       = "m365SACReleases.json"
	ArtifactM365SACPrevReleases   = "m365SACPreviewReleases.json"
	ArtifactWindowsLastUpdate     = "last-update.json"
	artifactVersionsSuffix        = "-versions.json"
	artifactUpdatesSuffix         = "-updates.json"
)

// ChannelArtifact maps a servicing channel to its per-channel artifact.
func ChannelArtifact(channel string) (string, bool) {
	switch channel {
	case ChannelCurrent:
		return ArtifactM365CurrentReleases, true
	case ChannelMonthlyEnterprise:
		return ArtifactM365MonthlyReleases, true
	case ChannelSemiAnnual:
		return ArtifactM365SACReleases, true
	case ChannelSemiAnnualPreview:
		return ArtifactM365SACPrevReleases, true
	}
	return "", false
}

// VersionsArtifact returns the versions artifact name for an edition,
// e.g. "windows10-versions.json".
func VersionsArtifact(e Edition) string {
	return e.Key() + artifactVersionsSuffix
}

// UpdatesArtifact returns the updates artifact name for an edition,
// e.g. "windows11-updates.json".
func UpdatesArtifact(e Edition) string {
	return e.Key() + artifactUpdatesSuffix
}
