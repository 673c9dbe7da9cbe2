package clean

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"msver/internal/models"
)

func TestVersionFromBuild(t *testing.T) {
	assert.Equal(t, "22H2", VersionFromBuild("19045.3930"))
	assert.Equal(t, "21H2", VersionFromBuild("22000.2600"))
	assert.Equal(t, "1507", VersionFromBuild("10240.20710"))
	assert.Empty(t, VersionFromBuild("99999.1"))
	assert.Empty(t, VersionFromBuild("no build"))
}

func TestNormalizeVersion(t *testing.T) {
	assert.Equal(t, "22H2", NormalizeVersion(" 22h2 "))
	assert.Equal(t, "22H2", NormalizeVersion("Version 22H2 (Original release)"))
	assert.Equal(t, "1909", NormalizeVersion("Version 1909"))
	// A 4-digit number outside the known set is not a version label.
	assert.Equal(t, "Version 2023", NormalizeVersion("Version  2023"))
}

func TestNormalizeBuild(t *testing.T) {
	assert.Equal(t, "19045.3930", NormalizeBuild("OS Build 19045.3930"))
	assert.Equal(t, "22631.3007", NormalizeBuild(" 22631.3007 "))
	assert.Empty(t, NormalizeBuild("n/a"))
}

func TestParseVersionNumber_Ordering(t *testing.T) {
	assert.Greater(t, ParseVersionNumber("22H2"), ParseVersionNumber("21H2"))
	assert.Greater(t, ParseVersionNumber("21H2"), ParseVersionNumber("21H1"))
	assert.Greater(t, ParseVersionNumber("21H1"), ParseVersionNumber("20H2"))
	assert.Greater(t, ParseVersionNumber("2004"), ParseVersionNumber("1909"))
	assert.Zero(t, ParseVersionNumber("unknown"))
}

func TestCleanWindowsVersions_DropsEmptyAndDedups(t *testing.T) {
	in := []models.WindowsVersion{
		{Edition: models.EditionWindows10, Version: ""},
		{Edition: models.EditionWindows10, Version: "22H2", Build: "19045"},
		{Edition: models.EditionWindows10, Version: "22h2", Build: "19045"},
		{Edition: models.EditionWindows11, Version: "22H2", Build: "22621"},
	}
	out := CleanWindowsVersions(in)
	require.Len(t, out, 2)
	assert.Equal(t, models.EditionWindows10, out[0].Edition)
	assert.Equal(t, models.EditionWindows11, out[1].Edition)
}

func TestCleanWindowsVersions_ExactlyOneCurrentPerTrack(t *testing.T) {
	in := []models.WindowsVersion{
		{Edition: models.EditionWindows10, Version: "21H2"},
		{Edition: models.EditionWindows10, Version: "22H2"},
		{Edition: models.EditionWindows10, Version: "21H2", ServiceOption: "LTSC"},
		{Edition: models.EditionWindows10, Version: "1809", ServiceOption: "LTSC"},
		{Edition: models.EditionWindows11, Version: "23H2"},
		{Edition: models.EditionWindows11, Version: "25H2"},
	}
	out := CleanWindowsVersions(in)

	type track struct {
		edition  models.Edition
		longTerm bool
	}
	current := map[track][]string{}
	for _, v := range out {
		if v.IsCurrentVersion {
			k := track{v.Edition, v.ServicingType.IsLongTerm()}
			current[k] = append(current[k], v.Version)
		}
	}

	assert.Equal(t, []string{"22H2"}, current[track{models.EditionWindows10, false}])
	assert.Equal(t, []string{"21H2"}, current[track{models.EditionWindows10, true}])
	assert.Equal(t, []string{"25H2"}, current[track{models.EditionWindows11, false}])
}

func TestCleanWindowsVersions_FallbackToNewestWhenLabelAbsent(t *testing.T) {
	// The known-current label (25H2) is not in the data; the newest by
	// availability date must be marked instead.
	in := []models.WindowsVersion{
		{Edition: models.EditionWindows11, Version: "22H2", Availability: "September 20, 2022"},
		{Edition: models.EditionWindows11, Version: "23H2", Availability: "October 31, 2023"},
	}
	out := CleanWindowsVersions(in)
	require.Len(t, out, 2)

	var current []string
	for _, v := range out {
		if v.IsCurrentVersion {
			current = append(current, v.Version)
		}
	}
	assert.Equal(t, []string{"23H2"}, current)
}

func TestCleanWindowsVersions_InfersLongTermTrack(t *testing.T) {
	in := []models.WindowsVersion{
		{Edition: models.EditionWindows10, Version: "1607", ServiceOption: "LTSB"},
		{Edition: models.EditionWindows10, Version: "21H2", ServiceOption: "Long-Term Servicing Channel"},
		{Edition: models.EditionWindows10, Version: "22H2", ServiceOption: "General Availability Channel"},
	}
	out := CleanWindowsVersions(in)
	require.Len(t, out, 3)
	assert.Equal(t, models.ServicingLTSB, out[0].ServicingType)
	assert.Equal(t, models.ServicingLTSC, out[1].ServicingType)
	assert.Equal(t, models.ServicingRegular, out[2].ServicingType)
}

func TestCleanWindowsVersions_Idempotent(t *testing.T) {
	in := []models.WindowsVersion{
		{Edition: models.EditionWindows10, Version: "22H2", Build: "OS Build 19045"},
		{Edition: models.EditionWindows10, Version: "21H2"},
		{Edition: models.EditionWindows10, Version: "21H2", ServiceOption: "LTSC"},
	}
	once := CleanWindowsVersions(in)
	twice := CleanWindowsVersions(once)
	assert.Equal(t, once, twice)
}
