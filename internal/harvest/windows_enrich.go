package harvest

import (
	"context"
	"strings"
	"time"

	"golang.org/x/net/html"

	"msver/internal/htmlutil"
	"msver/internal/models"
	"msver/internal/providers"
)

// enrichRecent fetches the individual KB article for the N most recent
// updates and fills in description, highlights, known issues and a
// refined classification. Fetches are strictly sequential with a
// politeness delay; a single article failure only skips that record.
func (h *WindowsHarvester) enrichRecent(ctx context.Context, edition models.Edition, updates []models.WindowsUpdate) {
	count := h.conf.Windows.EnrichCount
	if count <= 0 || count > len(updates) {
		count = min(len(updates), 10)
	}

	for i := 0; i < count; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return
			case <-time.After(h.conf.Windows.EnrichDelay):
			}
		}

		u := &updates[i]
		if u.SupportURL == "" {
			continue
		}
		doc, err := h.fetcher.FetchPage(ctx, u.SupportURL)
		if err != nil {
			h.logger.Warnf(providers.TypeHarvest, "%s KB article %s fetch failed: %s", edition, u.KBNumber, err)
			continue
		}
		enrichFromArticle(u, doc)
	}
}

// enrichFromArticle extracts the detail fields from one KB article page.
func enrichFromArticle(u *models.WindowsUpdate, doc string) {
	root, err := htmlutil.ParseDocument(doc)
	if err != nil {
		return
	}

	if desc := articleDescription(root); desc != "" {
		u.Description = desc
	}
	u.Highlights = articleHighlights(root)
	u.KnownIssues = articleKnownIssues(root)

	refineClassification(u, doc)
}

// articleDescription takes the first substantial paragraph of the
// article body.
func articleDescription(root *html.Node) string {
	for _, p := range htmlutil.FindAllByTag(root, "p") {
		text := htmlutil.NodeText(p)
		if len(text) >= 60 {
			return text
		}
	}
	return ""
}

// articleHighlights collects bullet items describing fixes: the KB
// pages phrase them as "This update improves/addresses …".
func articleHighlights(root *html.Node) []string {
	const maxHighlights = 10
	var out []string
	for _, li := range htmlutil.FindAllByTag(root, "li") {
		text := htmlutil.NodeText(li)
		lower := strings.ToLower(text)
		if strings.Contains(lower, "improve") || strings.Contains(lower, "address") {
			out = append(out, text)
			if len(out) == maxHighlights {
				break
			}
		}
	}
	return out
}

// articleKnownIssues collects the bullet items that follow a "Known
// issues" heading, stopping at the next heading.
func articleKnownIssues(root *html.Node) []string {
	var out []string
	var heading *html.Node
	for _, tag := range []string{"h2", "h3", "h4"} {
		for _, n := range htmlutil.FindAllByTag(root, tag) {
			if strings.Contains(strings.ToLower(htmlutil.NodeText(n)), "known issues") {
				heading = n
				break
			}
		}
		if heading != nil {
			break
		}
	}
	if heading == nil {
		return nil
	}

	for s := htmlutil.NextElementSibling(heading); s != nil; s = htmlutil.NextElementSibling(s) {
		if s.Data == "h2" || s.Data == "h3" || s.Data == "h4" {
			break
		}
		for _, li := range htmlutil.FindAllByTag(s, "li") {
			if text := htmlutil.NodeText(li); text != "" {
				out = append(out, text)
			}
		}
	}
	return out
}

// refineClassification upgrades the title-based type using the full
// article text.
func refineClassification(u *models.WindowsUpdate, doc string) {
	text := strings.ToLower(doc)
	if strings.Contains(text, "security update") || strings.Contains(text, "security vulnerabilit") {
		u.Type = models.UpdateTypeSecurity
		u.IsSecurityUpdate = true
	}
	if strings.Contains(text, "optional") {
		u.IsOptionalUpdate = true
	}
	if !u.IsSecurityUpdate {
		switch {
		case strings.Contains(text, "out-of-band"):
			u.Type = models.UpdateTypeOutOfBand
			u.IsOptionalUpdate = true
		case strings.Contains(text, "preview"):
			u.Type = models.UpdateTypePreview
			u.IsOptionalUpdate = true
		}
	}
}
