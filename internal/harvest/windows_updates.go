package harvest

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"msver/internal/htmlutil"
	"msver/internal/models"
	"msver/internal/providers"
)

// Class names the support site uses for the per-version navigation that
// groups update links. These are the primary extraction target; when
// Microsoft reshuffles the page the later strategies take over.
const (
	navCategoryTitleClass = "supLeftNavCategoryTitle"
	navArticleListClass   = "supLeftNavArticles"
)

var (
	osBuildsPattern     = regexp.MustCompile(`(?i)OS\s+Builds?\s+((?:[\d.]+[,/\s]*(?:and\s+)?)+)`)
	buildTokenPattern   = regexp.MustCompile(`\d{4,5}\.\d+`)
	versionLabelPattern = regexp.MustCompile(`(?i)\bversion\s+(\d{2}H[12]|\d{4})\b`)
)

// updateStrategy is one independent extraction attempt. Strategies are
// tried in order until one reports found; each must degrade to
// (nil, false) instead of failing.
type updateStrategy struct {
	name string
	fn   func(h *WindowsHarvester, edition models.Edition, doc string, root *html.Node) ([]models.WindowsUpdate, bool)
}

var updateStrategies = []updateStrategy{
	{"nav-categories", (*WindowsHarvester).parseNavCategories},
	{"left-nav-links", (*WindowsHarvester).parseLeftNavLinks},
	{"table-scan", (*WindowsHarvester).parseUpdateTables},
	{"heading-scan", (*WindowsHarvester).parseHeadingParagraphs},
}

// parseUpdateHistory runs the strategy chain over one update-history
// page and reports which strategy produced the records.
func (h *WindowsHarvester) parseUpdateHistory(edition models.Edition, doc string) ([]models.WindowsUpdate, string) {
	root, err := htmlutil.ParseDocument(doc)
	if err != nil {
		h.logger.Warnf(providers.TypeHarvest, "%s update history: DOM parse failed: %s", edition, err)
		root = nil
	}

	for _, s := range updateStrategies {
		records, found := s.fn(h, edition, doc, root)
		if found {
			return records, s.name
		}
		h.logger.Debugf(providers.TypeHarvest, "%s update history: strategy %s found nothing", edition, s.name)
	}
	return nil, ""
}

// parseNavCategories walks the support navigation: each category title
// names a version ("Windows 10, version 22H2") and a sibling article
// list carries one link per update.
func (h *WindowsHarvester) parseNavCategories(edition models.Edition, _ string, root *html.Node) ([]models.WindowsUpdate, bool) {
	if root == nil {
		return nil, false
	}
	var out []models.WindowsUpdate
	for _, title := range htmlutil.FindAllByClass(root, navCategoryTitleClass) {
		version := versionFromLabel(htmlutil.NodeText(title))
		list := followingArticleList(title)
		if list == nil {
			continue
		}
		for _, link := range htmlutil.NodeAnchors(list) {
			out = append(out, splitUpdateLink(edition, version, link)...)
		}
	}
	return out, len(out) > 0
}

// followingArticleList finds the article list paired with a category
// title: either a sibling with the known class or the next list element.
func followingArticleList(title *html.Node) *html.Node {
	for s := htmlutil.NextElementSibling(title); s != nil; s = htmlutil.NextElementSibling(s) {
		if htmlutil.HasClass(s, navArticleListClass) {
			return s
		}
		if s.Data == "ul" || s.Data == "ol" {
			return s
		}
		if htmlutil.HasClass(s, navCategoryTitleClass) {
			return nil
		}
	}
	// Some layouts nest the list inside the title's parent container.
	if title.Parent != nil {
		if lists := htmlutil.FindAllByTag(title.Parent, "ul"); len(lists) > 0 {
			return lists[0]
		}
	}
	return nil
}

// parseLeftNavLinks is the looser navigation fallback: any anchor in
// the document whose text carries a KB number becomes an update.
func (h *WindowsHarvester) parseLeftNavLinks(edition models.Edition, _ string, root *html.Node) ([]models.WindowsUpdate, bool) {
	if root == nil {
		return nil, false
	}
	var out []models.WindowsUpdate
	for _, a := range htmlutil.FindAllByTag(root, "a") {
		link := htmlutil.Link{Href: htmlutil.AttrVal(a, "href"), Text: htmlutil.NodeText(a)}
		if htmlutil.ExtractKBNumber(link.Text) == "" {
			continue
		}
		out = append(out, splitUpdateLink(edition, "", link)...)
	}
	return out, len(out) > 0
}

// parseUpdateTables scans raw tables with 2- or 3-column layouts,
// auto-detecting which column holds the date by parse attempt.
func (h *WindowsHarvester) parseUpdateTables(edition models.Edition, doc string, _ *html.Node) ([]models.WindowsUpdate, bool) {
	var out []models.WindowsUpdate
	for _, table := range htmlutil.ExtractTables(doc) {
		for _, row := range htmlutil.ExtractRows(table) {
			cells := htmlutil.ExtractCells(row)
			if len(cells) < 2 || len(cells) > 3 {
				continue
			}
			var title, date string
			for _, c := range cells {
				switch {
				case htmlutil.ExtractKBNumber(c) != "":
					title = c
				case date == "":
					if _, ok := htmlutil.ParseDate(c); ok {
						date = c
					}
				}
			}
			if title == "" {
				continue
			}
			out = append(out, buildUpdates(edition, "", title, date, "")...)
		}
	}
	return out, len(out) > 0
}

// parseHeadingParagraphs is the last resort: headings or paragraphs
// mentioning a KB number, with the nearest date in the same text.
func (h *WindowsHarvester) parseHeadingParagraphs(edition models.Edition, _ string, root *html.Node) ([]models.WindowsUpdate, bool) {
	if root == nil {
		return nil, false
	}
	var out []models.WindowsUpdate
	for _, tag := range []string{"h2", "h3", "h4", "p"} {
		for _, n := range htmlutil.FindAllByTag(root, tag) {
			text := htmlutil.NodeText(n)
			if htmlutil.ExtractKBNumber(text) == "" {
				continue
			}
			out = append(out, buildUpdates(edition, "", text, text, "")...)
		}
	}
	return out, len(out) > 0
}

// splitUpdateLink turns one update-history link into records. A link
// listing two OS builds under one KB (Microsoft's combined servicing
// pattern, "OS Builds 19044.3930 and 19045.3930") is split into one
// record per build sharing the KB number and title.
func splitUpdateLink(edition models.Edition, version string, link htmlutil.Link) []models.WindowsUpdate {
	return buildUpdates(edition, version, link.Text, link.Text, resolveHref(link.Href, "https://support.microsoft.com/"))
}

func buildUpdates(edition models.Edition, version, title, dateText, supportURL string) []models.WindowsUpdate {
	kb := htmlutil.ExtractKBNumber(title)
	if kb == "" {
		return nil
	}

	base := models.WindowsUpdate{
		Edition:     edition,
		Version:     version,
		KBNumber:    kb,
		UpdateTitle: htmlutil.CollapseWhitespace(title),
		SupportURL:  supportURL,
	}
	if t, ok := htmlutil.ParseDate(dateText); ok {
		base.ReleaseDate = htmlutil.FormatDate(t)
		base.ReleaseDateParsed = t
	}

	builds := extractOSBuilds(title)
	if len(builds) == 0 {
		return []models.WindowsUpdate{base}
	}

	out := make([]models.WindowsUpdate, 0, len(builds))
	for _, b := range builds {
		u := base
		u.Build = b
		if len(builds) > 1 {
			// Combined updates span two versions; the cleaner derives
			// each record's version from its own build number.
			u.Version = ""
		}
		out = append(out, u)
	}
	return out
}

// extractOSBuilds pulls every build token out of an "OS Build(s) …"
// clause in a link title.
func extractOSBuilds(title string) []string {
	m := osBuildsPattern.FindStringSubmatch(title)
	if m == nil {
		return nil
	}
	return buildTokenPattern.FindAllString(m[1], -1)
}

// versionFromLabel extracts a version token from a category label like
// "Windows 10, version 22H2" or "Windows 10, version 1909".
func versionFromLabel(label string) string {
	m := versionLabelPattern.FindStringSubmatch(label)
	if m == nil {
		return ""
	}
	return strings.ToUpper(m[1])
}
