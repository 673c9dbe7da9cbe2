// Package htmlutil extracts tables, rows, links and version/build/date
// substrings from the raw HTML of Microsoft documentation pages. All
// extraction is best-effort: no match yields an empty result, never an
// error that aborts the caller's page.
package htmlutil

import (
	"fmt"
	"html"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	tablePattern      = regexp.MustCompile(`(?is)<table\b[^>]*>.*?</table\s*>`)
	tableOpenPattern  = regexp.MustCompile(`(?i)<table\b`)
	tableClosePattern = regexp.MustCompile(`(?i)</table\s*>`)
	rowPattern        = regexp.MustCompile(`(?is)<tr\b[^>]*>(.*?)</tr\s*>`)
	cellPattern       = regexp.MustCompile(`(?is)<t[dh]\b[^>]*>(.*?)</t[dh]\s*>`)
	tagPattern        = regexp.MustCompile(`(?s)<[^>]*>`)
	spacePattern      = regexp.MustCompile(`\s+`)
	anchorPattern     = regexp.MustCompile(`(?is)<a\b[^>]*href\s*=\s*["']([^"']+)["'][^>]*>(.*?)</a\s*>`)
	versionBuildPat   = regexp.MustCompile(`(?i)version\s+(\d{4})\s*\(\s*build\s+([\d.]+)\s*\)`)
	kbPattern         = regexp.MustCompile(`(?i)\bKB\s?(\d{6,7})\b`)
	buildPattern      = regexp.MustCompile(`\b(\d{4,5}(?:\.\d+)+)\b`)
	ariaLabelPattern  = regexp.MustCompile(`(?is)aria-label\s*=\s*["']([^"']*)["']`)

	monthNamePattern = regexp.MustCompile(`(?i)\b(January|February|March|April|May|June|July|August|September|October|November|December)\.?\s+(\d{1,2})(?:st|nd|rd|th)?\s*,?\s+(\d{4})\b`)
	dayFirstPattern  = regexp.MustCompile(`(?i)\b(\d{1,2})(?:st|nd|rd|th)?\s+(January|February|March|April|May|June|July|August|September|October|November|December)\.?\s*,?\s+(\d{4})\b`)
	numericDatePat   = regexp.MustCompile(`\b(\d{1,4})[/-](\d{1,2})[/-](\d{1,4})\b`)
)

// DisplayDateLayout is the normalized form every harvested date string is
// rewritten into before it reaches an artifact.
const DisplayDateLayout = "January 2, 2006"

// ExtractTables returns every <table>…</table> block in document order.
func ExtractTables(doc string) []string {
	return tablePattern.FindAllString(doc, -1)
}

// ExtractTablesAtLeast returns tables using the primary pattern; when
// fewer than want are found it retries once with a looser boundary scan
// that tolerates unclosed tables. found reports whether the result meets
// the expected count.
func ExtractTablesAtLeast(doc string, want int) (tables []string, found bool) {
	tables = ExtractTables(doc)
	if len(tables) >= want {
		return tables, true
	}
	tables = extractTablesLoose(doc)
	return tables, len(tables) >= want
}

// extractTablesLoose splits on <table openings and takes text up to the
// matching close tag, or up to the next opening when the close tag is
// missing.
func extractTablesLoose(doc string) []string {
	opens := tableOpenPattern.FindAllStringIndex(doc, -1)
	var tables []string
	for i, open := range opens {
		end := len(doc)
		if i+1 < len(opens) {
			end = opens[i+1][0]
		}
		segment := doc[open[0]:end]
		if loc := tableClosePattern.FindStringIndex(segment); loc != nil {
			segment = segment[:loc[1]]
		}
		tables = append(tables, segment)
	}
	return tables
}

// ExtractRows returns the inner content of every <tr> in the fragment.
func ExtractRows(table string) []string {
	matches := rowPattern.FindAllStringSubmatch(table, -1)
	rows := make([]string, 0, len(matches))
	for _, m := range matches {
		rows = append(rows, m[1])
	}
	return rows
}

// ExtractCells returns the text content of every <td>/<th> in a row,
// tags stripped and entities decoded.
func ExtractCells(row string) []string {
	raw := ExtractCellsRaw(row)
	cells := make([]string, len(raw))
	for i, c := range raw {
		cells[i] = StripTags(c)
	}
	return cells
}

// ExtractCellsRaw returns cell contents with markup intact, for callers
// that need the links inside a cell.
func ExtractCellsRaw(row string) []string {
	matches := cellPattern.FindAllStringSubmatch(row, -1)
	cells := make([]string, 0, len(matches))
	for _, m := range matches {
		cells = append(cells, m[1])
	}
	return cells
}

// StripTags removes markup, decodes HTML entities and collapses runs of
// whitespace into single spaces.
func StripTags(s string) string {
	s = tagPattern.ReplaceAllString(s, " ")
	s = html.UnescapeString(s)
	return CollapseWhitespace(s)
}

// CollapseWhitespace trims and squeezes all whitespace runs.
func CollapseWhitespace(s string) string {
	return strings.TrimSpace(spacePattern.ReplaceAllString(s, " "))
}

// Link is one anchor extracted from a fragment.
type Link struct {
	Href string
	Text string
}

// ExtractLinks returns every anchor's href and decoded link text.
func ExtractLinks(fragment string) []Link {
	matches := anchorPattern.FindAllStringSubmatch(fragment, -1)
	links := make([]Link, 0, len(matches))
	for _, m := range matches {
		links = append(links, Link{Href: m[1], Text: StripTags(m[2])})
	}
	return links
}

// ExtractVersionBuild matches a "Version X (Build Y)" token in free
// text. Both results are empty when the pattern is absent.
func ExtractVersionBuild(text string) (version, build string) {
	m := versionBuildPat.FindStringSubmatch(text)
	if m == nil {
		return "", ""
	}
	return m[1], m[2]
}

// ExtractKBNumber finds a KB article number ("KB5034123") in free text,
// normalizing an optional space between KB and the digits.
func ExtractKBNumber(text string) string {
	m := kbPattern.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return "KB" + m[1]
}

// ExtractBuildNumber finds the first dotted build token ("19045.3930").
func ExtractBuildNumber(text string) string {
	m := buildPattern.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return m[1]
}

// ExtractAriaLabel returns the first aria-label attribute value in the
// fragment, or "".
func ExtractAriaLabel(fragment string) string {
	m := ariaLabelPattern.FindStringSubmatch(fragment)
	if m == nil {
		return ""
	}
	return m[1]
}

// ParseDate finds and parses a calendar date anywhere in free text. It
// accepts "Month D, YYYY", "D Month YYYY" and slash/dash-delimited
// numeric forms (month-first, or year-first when the leading group has
// four digits).
func ParseDate(text string) (time.Time, bool) {
	if m := monthNamePattern.FindStringSubmatch(text); m != nil {
		if t, err := time.Parse("January 2 2006", fmt.Sprintf("%s %s %s", normalizeMonth(m[1]), m[2], m[3])); err == nil {
			return t, true
		}
	}
	if m := dayFirstPattern.FindStringSubmatch(text); m != nil {
		if t, err := time.Parse("January 2 2006", fmt.Sprintf("%s %s %s", normalizeMonth(m[2]), m[1], m[3])); err == nil {
			return t, true
		}
	}
	if m := numericDatePat.FindStringSubmatch(text); m != nil {
		if t, ok := parseNumericDate(m[1], m[2], m[3]); ok {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatDate renders a parsed date in the normalized display form.
func FormatDate(t time.Time) string {
	return t.Format(DisplayDateLayout)
}

// NormalizeDate rewrites any recognizable date in raw into the display
// form; unrecognized input is returned collapsed but otherwise as-is.
func NormalizeDate(raw string) string {
	if t, ok := ParseDate(raw); ok {
		return FormatDate(t)
	}
	return CollapseWhitespace(raw)
}

func normalizeMonth(m string) string {
	m = strings.TrimSuffix(m, ".")
	return strings.ToUpper(m[:1]) + strings.ToLower(m[1:])
}

func parseNumericDate(a, b, c string) (time.Time, bool) {
	first, _ := strconv.Atoi(a)
	second, _ := strconv.Atoi(b)
	third, _ := strconv.Atoi(c)

	var year, month, day int
	switch {
	case len(a) == 4:
		// yyyy-mm-dd
		year, month, day = first, second, third
	case len(c) == 4:
		// mm/dd/yyyy
		month, day, year = first, second, third
	default:
		// mm/dd/yy
		month, day, year = first, second, 2000+third
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), true
}
