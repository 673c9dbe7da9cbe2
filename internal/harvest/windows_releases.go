package harvest

import (
	"strings"
	"time"

	"msver/internal/htmlutil"
	"msver/internal/models"
	"msver/internal/providers"
)

// longTermTokens mark a release table (or row) as belonging to the
// long-term servicing track.
var longTermTokens = []string{"ltsc", "ltsb", "long-term", "long term"}

// parseReleaseInfo locates the regular and LTSC release tables on a
// release-information page and parses both. Tables are found by ARIA
// label first, header keywords second, because Microsoft's layout has
// varied across pages.
func (h *WindowsHarvester) parseReleaseInfo(edition models.Edition, doc string) []models.WindowsVersion {
	tables, _ := htmlutil.ExtractTablesAtLeast(doc, 1)

	var out []models.WindowsVersion
	for _, table := range tables {
		headers := releaseTableHeaders(table)
		if headers == nil {
			continue
		}
		cols := mapReleaseColumns(headers)
		if cols.version < 0 {
			continue
		}
		if !looksLikeReleaseTable(table, headers) {
			continue
		}
		longTerm := containsLongTermToken(htmlutil.ExtractAriaLabel(table)) ||
			containsLongTermToken(htmlutil.StripTags(table))
		out = append(out, h.parseReleaseTable(edition, table, cols, longTerm)...)
	}
	if len(out) == 0 {
		h.logger.Warnf(providers.TypeHarvest, "%s release info: no release tables recognized", edition)
	}
	return out
}

// releaseTableHeaders returns the header cells of a table's first row,
// or nil when the table has no usable rows.
func releaseTableHeaders(table string) []string {
	rows := htmlutil.ExtractRows(table)
	if len(rows) == 0 {
		return nil
	}
	return htmlutil.ExtractCells(rows[0])
}

// looksLikeReleaseTable keeps the header-keyword fallback honest: a
// release table names a version column and at least one date column.
func looksLikeReleaseTable(table string, headers []string) bool {
	aria := strings.ToLower(htmlutil.ExtractAriaLabel(table))
	if strings.Contains(aria, "release") || strings.Contains(aria, "version") || strings.Contains(aria, "servicing") {
		return true
	}
	var hasVersion, hasDate bool
	for _, hd := range headers {
		l := strings.ToLower(hd)
		if strings.Contains(l, "version") {
			hasVersion = true
		}
		if strings.Contains(l, "availability") || strings.Contains(l, "date") || strings.Contains(l, "end of") {
			hasDate = true
		}
	}
	return hasVersion && hasDate
}

func containsLongTermToken(s string) bool {
	l := strings.ToLower(s)
	for _, tok := range longTermTokens {
		if strings.Contains(l, tok) {
			return true
		}
	}
	return false
}

// releaseColumns is the header-to-column mapping resolved per table;
// -1 marks an absent column.
type releaseColumns struct {
	version        int
	serviceOption  int
	availability   int
	build          int
	latestUpdate   int
	latestRevision int
	endStandard    int
	endEnterprise  int
	mainstream     int
	extended       int
}

// mapReleaseColumns resolves columns by case-insensitive substring
// matching against known header synonyms instead of fixed positions.
func mapReleaseColumns(headers []string) releaseColumns {
	cols := releaseColumns{
		version: -1, serviceOption: -1, availability: -1, build: -1,
		latestUpdate: -1, latestRevision: -1, endStandard: -1,
		endEnterprise: -1, mainstream: -1, extended: -1,
	}
	for i, raw := range headers {
		hd := strings.ToLower(raw)
		switch {
		case strings.Contains(hd, "latest revision"):
			cols.latestRevision = i
		case strings.Contains(hd, "latest build"), strings.Contains(hd, "latest update"):
			cols.latestUpdate = i
		case strings.Contains(hd, "servicing option"), strings.Contains(hd, "service option"), strings.Contains(hd, "servicing channel"):
			cols.serviceOption = i
		case strings.Contains(hd, "version"):
			if cols.version < 0 {
				cols.version = i
			}
		case strings.Contains(hd, "availability"), strings.Contains(hd, "release date"):
			cols.availability = i
		case strings.Contains(hd, "build"):
			cols.build = i
		case strings.Contains(hd, "end of servicing"), strings.Contains(hd, "end of service"), strings.Contains(hd, "support ends"):
			if strings.Contains(hd, "enterprise") || strings.Contains(hd, "education") || strings.Contains(hd, "iot") {
				cols.endEnterprise = i
			} else {
				cols.endStandard = i
			}
		case strings.Contains(hd, "mainstream"):
			cols.mainstream = i
		case strings.Contains(hd, "extended"):
			cols.extended = i
		}
	}
	return cols
}

// parseReleaseTable converts every data row of one release table into a
// WindowsVersion. A row whose version cell fails to parse is skipped;
// one bad row never aborts the table.
func (h *WindowsHarvester) parseReleaseTable(edition models.Edition, table string, cols releaseColumns, longTerm bool) []models.WindowsVersion {
	rows := htmlutil.ExtractRows(table)
	if len(rows) < 2 {
		return nil
	}

	now := timeNow().UTC()
	var out []models.WindowsVersion
	for _, row := range rows[1:] {
		cells := htmlutil.ExtractCells(row)
		cell := func(i int) string {
			if i < 0 || i >= len(cells) {
				return ""
			}
			return cells[i]
		}

		version := cell(cols.version)
		if version == "" {
			continue
		}

		v := models.WindowsVersion{
			Edition:            edition,
			Version:            version,
			Build:              cell(cols.build),
			ServiceOption:      cell(cols.serviceOption),
			Availability:       htmlutil.NormalizeDate(cell(cols.availability)),
			ReleaseDate:        htmlutil.NormalizeDate(cell(cols.availability)),
			LatestUpdate:       cell(cols.latestUpdate),
			LatestRevisionDate: htmlutil.NormalizeDate(cell(cols.latestRevision)),
		}
		if longTerm {
			v.ServicingType = models.ServicingLTSC
			v.MainstreamSupportEndDate = htmlutil.NormalizeDate(cell(cols.mainstream))
			v.ExtendedSupportEndDate = htmlutil.NormalizeDate(cell(cols.extended))
		} else {
			v.ServicingType = models.ServicingRegular
			v.EndOfServicingStandard = htmlutil.NormalizeDate(cell(cols.endStandard))
			v.EndOfServicingEnterprise = htmlutil.NormalizeDate(cell(cols.endEnterprise))
		}
		v.IsCurrentVersion = inSupportWindow(v, now)
		out = append(out, v)
	}
	return out
}

// inSupportWindow reports whether today falls between a version's
// availability date and its track-appropriate support end: extended
// support (mainstream as fallback) for long-term versions,
// end-of-servicing (standard first, enterprise as fallback) otherwise.
func inSupportWindow(v models.WindowsVersion, now time.Time) bool {
	avail, ok := htmlutil.ParseDate(v.Availability)
	if !ok || avail.After(now) {
		return false
	}

	var endText string
	if v.ServicingType.IsLongTerm() {
		endText = v.ExtendedSupportEndDate
		if endText == "" {
			endText = v.MainstreamSupportEndDate
		}
	} else {
		endText = v.EndOfServicingStandard
		if endText == "" {
			endText = v.EndOfServicingEnterprise
		}
	}
	end, ok := htmlutil.ParseDate(endText)
	if !ok {
		return false
	}
	return !now.After(end)
}
