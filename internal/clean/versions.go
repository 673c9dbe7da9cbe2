package clean

import (
	"regexp"
	"strconv"
	"strings"

	"msver/internal/htmlutil"
	"msver/internal/models"
)

var (
	versionTokenPattern = regexp.MustCompile(`(?i)\b(\d{2}H[12])\b`)
	fourDigitPattern    = regexp.MustCompile(`\b(\d{4})\b`)
	buildDigitsPattern  = regexp.MustCompile(`[^\d.]`)
	buildMajorPattern   = regexp.MustCompile(`\b(\d{5})\b`)
)

// knownFourDigitVersions is the closed set of valid Windows 10 YYMM
// version labels. Any other 4-digit match inside a version cell (years,
// KB fragments) is ambiguous and rejected.
var knownFourDigitVersions = []string{
	"1507", "1511", "1607", "1703", "1709",
	"1803", "1809", "1903", "1909", "2004",
}

// buildToVersion maps an OS build major number to its version label.
// Maintenance liability: new Windows releases need a row added here,
// there is no upstream source for this mapping.
var buildToVersion = map[string]string{
	"10240": "1507",
	"10586": "1511",
	"14393": "1607",
	"15063": "1703",
	"16299": "1709",
	"17134": "1803",
	"17763": "1809",
	"18362": "1903",
	"18363": "1909",
	"19041": "2004",
	"19042": "20H2",
	"19043": "21H1",
	"19044": "21H2",
	"19045": "22H2",
	"22000": "21H2",
	"22621": "22H2",
	"22631": "23H2",
	"26100": "24H2",
	"26200": "25H2",
}

// currentVersionByEdition is the known-current GA version per edition.
// Same liability as buildToVersion; the date-based fallback below keeps
// cleaning functional when this map goes stale.
var currentVersionByEdition = map[models.Edition]string{
	models.EditionWindows10: "22H2",
	models.EditionWindows11: "25H2",
}

// currentLtscVersionByEdition is the known-current long-term servicing
// version per edition.
var currentLtscVersionByEdition = map[models.Edition]string{
	models.EditionWindows10: "21H2",
	models.EditionWindows11: "24H2",
}

// VersionFromBuild resolves a version label from a dotted build string
// via the static build table. Empty when the major build is unknown.
func VersionFromBuild(build string) string {
	m := buildMajorPattern.FindString(build)
	if m == "" {
		return ""
	}
	return buildToVersion[m]
}

func isKnownFourDigitVersion(v string) bool {
	for _, known := range knownFourDigitVersions {
		if v == known {
			return true
		}
	}
	return false
}

// NormalizeVersion canonicalizes a version cell to "YYHN" or a known
// 4-digit label. Unrecognized input comes back collapsed but unchanged.
func NormalizeVersion(raw string) string {
	s := htmlutil.CollapseWhitespace(raw)
	if m := versionTokenPattern.FindString(s); m != "" {
		return strings.ToUpper(m)
	}
	if m := fourDigitPattern.FindString(s); m != "" && isKnownFourDigitVersion(m) {
		return m
	}
	return s
}

// NormalizeBuild strips everything but digits and dots from a build cell.
func NormalizeBuild(raw string) string {
	return strings.Trim(buildDigitsPattern.ReplaceAllString(raw, ""), ".")
}

// ParseVersionNumber maps a version label onto a sortable integer:
// "YYHN" becomes year*10+half, a plain 4-digit YYMM becomes
// year*100+month, anything else 0 (unordered). Comparisons are only
// meaningful within one format family.
func ParseVersionNumber(version string) int {
	v := strings.ToUpper(strings.TrimSpace(version))
	if m := versionTokenPattern.FindStringSubmatch(v); m != nil {
		year, _ := strconv.Atoi(m[1][:2])
		half := int(m[1][3] - '0')
		return year*10 + half
	}
	if len(v) == 4 {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return 0
}

// CleanWindowsVersions drops entries without a version, deduplicates by
// (edition, version, servicing type), normalizes fields and then marks
// exactly one current version per edition and servicing track.
func CleanWindowsVersions(versions []models.WindowsVersion) []models.WindowsVersion {
	seen := make(map[string]struct{}, len(versions))
	out := make([]models.WindowsVersion, 0, len(versions))

	for _, v := range versions {
		if strings.TrimSpace(v.Version) == "" {
			continue
		}

		v.Version = NormalizeVersion(v.Version)
		v.Build = NormalizeBuild(v.Build)
		v.ServicingType = inferServicingType(v)

		key := string(v.Edition) + "|" + strings.ToUpper(v.Version) + "|" + string(v.ServicingType)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, v)
	}

	for _, edition := range []models.Edition{models.EditionWindows10, models.EditionWindows11} {
		markCurrent(out, edition, false, currentVersionByEdition[edition])
		markCurrent(out, edition, true, currentLtscVersionByEdition[edition])
	}
	return out
}

// inferServicingType promotes a version to the long-term track when its
// service option or version cell carries an LTSC/LTSB token.
func inferServicingType(v models.WindowsVersion) models.ServicingType {
	if v.ServicingType.IsLongTerm() {
		return v.ServicingType
	}
	text := strings.ToLower(v.ServiceOption + " " + v.Version)
	switch {
	case strings.Contains(text, "ltsb"):
		return models.ServicingLTSB
	case strings.Contains(text, "ltsc"), strings.Contains(text, "long-term"), strings.Contains(text, "long term"):
		return models.ServicingLTSC
	}
	if v.ServicingType == "" {
		return models.ServicingRegular
	}
	return v.ServicingType
}

// markCurrent clears the current flag across one (edition, track) group
// and re-marks a single member: exact match against the known-current
// label, then prefix match, then most recent by availability date and
// parsed version number, then the first in the list.
func markCurrent(versions []models.WindowsVersion, edition models.Edition, longTerm bool, want string) {
	var group []int
	for i := range versions {
		if versions[i].Edition != edition || versions[i].ServicingType.IsLongTerm() != longTerm {
			continue
		}
		versions[i].IsCurrentVersion = false
		group = append(group, i)
	}
	if len(group) == 0 {
		return
	}

	if want != "" {
		for _, i := range group {
			if strings.EqualFold(versions[i].Version, want) {
				versions[i].IsCurrentVersion = true
				return
			}
		}
		for _, i := range group {
			if strings.HasPrefix(strings.ToUpper(versions[i].Version), strings.ToUpper(want)) {
				versions[i].IsCurrentVersion = true
				return
			}
		}
	}

	best := group[0]
	for _, i := range group[1:] {
		if versionLess(versions[best], versions[i]) {
			best = i
		}
	}
	versions[best].IsCurrentVersion = true
}

// versionLess orders by availability date first, parsed version number
// second.
func versionLess(a, b models.WindowsVersion) bool {
	da, aOK := htmlutil.ParseDate(a.Availability)
	db, bOK := htmlutil.ParseDate(b.Availability)
	switch {
	case aOK && bOK && !da.Equal(db):
		return da.Before(db)
	case aOK != bOK:
		return bOK
	}
	return ParseVersionNumber(a.Version) < ParseVersionNumber(b.Version)
}
