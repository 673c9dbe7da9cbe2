// Package clean normalizes the raw records both harvesters extract:
// deduplication, backfilling of missing fields, date sanity fixes and
// current-version determination.
package clean

import (
	"html"
	"strings"
	"time"

	"msver/internal/htmlutil"
	"msver/internal/models"
)

// timeNow is swapped in tests that pin "today".
var timeNow = time.Now

// descriptionSeparators are tried in order when deriving a description
// from an update title.
var descriptionSeparators = []string{"—", "–", " - ", "-", ":", "|"}

// CleanWindowsUpdates drops entries without a KB number, deduplicates by
// KB number (first occurrence wins, case-insensitive) and backfills
// version, build, description, type, support URL and sane release dates
// on the survivors. The input slice is not modified.
func CleanWindowsUpdates(updates []models.WindowsUpdate) []models.WindowsUpdate {
	seen := make(map[string]struct{}, len(updates))
	out := make([]models.WindowsUpdate, 0, len(updates))

	for _, u := range updates {
		kb := strings.TrimSpace(u.KBNumber)
		if kb == "" {
			continue
		}
		key := strings.ToUpper(kb)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		u.KBNumber = key
		u.UpdateTitle = htmlutil.CollapseWhitespace(html.UnescapeString(u.UpdateTitle))

		if u.Build == "" {
			u.Build = htmlutil.ExtractBuildNumber(u.UpdateTitle)
		}
		if u.Version == "" {
			u.Version = versionFromTitle(u.UpdateTitle)
		}
		if u.Version == "" && u.Build != "" {
			u.Version = VersionFromBuild(u.Build)
		}
		if u.Description == "" {
			u.Description = descriptionFromTitle(u.UpdateTitle)
		}
		if u.Type == "" {
			u.Type = ClassifyUpdateType(u.UpdateTitle)
		}
		if u.Type == models.UpdateTypeSecurity {
			u.IsSecurityUpdate = true
		}
		if u.Type == models.UpdateTypePreview || u.Type == models.UpdateTypeOutOfBand {
			u.IsOptionalUpdate = true
		}
		if u.SupportURL == "" {
			u.SupportURL = "https://support.microsoft.com/help/" + strings.TrimPrefix(key, "KB")
		}

		u.ReleaseDate, u.ReleaseDateParsed = correctFutureDate(u.ReleaseDate, u.ReleaseDateParsed)

		out = append(out, u)
	}
	return out
}

// versionFromTitle matches known version tokens ("22H2", "1909") inside
// an update title.
func versionFromTitle(title string) string {
	if m := versionTokenPattern.FindString(title); m != "" {
		return strings.ToUpper(m)
	}
	if m := fourDigitPattern.FindString(title); m != "" && isKnownFourDigitVersion(m) {
		return m
	}
	return ""
}

// descriptionFromTitle takes the text after the first separator in the
// title; a title without separators is used whole.
func descriptionFromTitle(title string) string {
	for _, sep := range descriptionSeparators {
		if i := strings.Index(title, sep); i >= 0 {
			if rest := strings.TrimSpace(title[i+len(sep):]); rest != "" {
				return rest
			}
		}
	}
	return title
}

// ClassifyUpdateType inspects a title for type keywords, most specific
// classification first.
func ClassifyUpdateType(title string) string {
	t := strings.ToLower(title)
	switch {
	case strings.Contains(t, "security"):
		return models.UpdateTypeSecurity
	case strings.Contains(t, "preview"):
		return models.UpdateTypePreview
	case strings.Contains(t, "cumulative"):
		return models.UpdateTypeCumulative
	case strings.Contains(t, "feature"):
		return models.UpdateTypeFeature
	case strings.Contains(t, "out-of-band"), strings.Contains(t, "out of band"):
		return models.UpdateTypeOutOfBand
	case strings.Contains(t, "servicing stack"):
		return models.UpdateTypeServicingStack
	default:
		return models.UpdateTypeGeneral
	}
}

// correctFutureDate re-anchors a release date more than one year in the
// future to the current year, keeping month and day. Dates within a year
// ahead are plausible scheduling and left alone.
func correctFutureDate(display string, parsed time.Time) (string, time.Time) {
	if parsed.IsZero() {
		if t, ok := htmlutil.ParseDate(display); ok {
			parsed = t
		} else {
			return display, parsed
		}
	}
	now := timeNow()
	if parsed.After(now.AddDate(1, 0, 0)) {
		parsed = time.Date(now.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, time.UTC)
		display = htmlutil.FormatDate(parsed)
	} else if display == "" {
		display = htmlutil.FormatDate(parsed)
	}
	return display, parsed
}
