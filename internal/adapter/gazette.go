package adapter

import (
	"context"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/spf13/cast"
	"golang.org/x/net/html"

	"github.com/veridex/veridex/internal/config"
	"github.com/veridex/veridex/internal/model"
	"github.com/veridex/veridex/internal/webutil"
)

var (
	gazetteDateISO    = regexp.MustCompile(`(\d{4})-(\d{2})-(\d{2})`)
	gazetteDateDotted = regexp.MustCompile(`(\d{4})\.\s?(\d{1,2})\.\s?(\d{1,2})`)
)

// GazetteAdapter scrapes an official-gazette listing page for issue
// links. The source identifier is the listing URL; each issue link is
// one raw item keyed by its absolute URL.
type GazetteAdapter struct {
	fetcher *pageFetcher
}

// NewGazetteAdapter creates an official-gazette adapter.
func NewGazetteAdapter(cfg config.HTTPConfig, robots *webutil.RobotsChecker, limiter *webutil.HostLimiter) *GazetteAdapter {
	return &GazetteAdapter{fetcher: newPageFetcher(cfg, robots, limiter)}
}

// Type implements Adapter.
func (a *GazetteAdapter) Type() model.SourceType { return model.SourceTypeOfficialGazette }

// Fetch implements Adapter.
func (a *GazetteAdapter) Fetch(ctx context.Context, src *model.Source, limit int) ([]RawItem, error) {
	listingURL := src.Identifier

	body, err := a.fetcher.get(ctx, listingURL)
	if err != nil {
		return nil, &FetchError{SourceID: src.ID, Err: err}
	}

	doc, err := html.Parse(strings.NewReader(string(body)))
	if err != nil {
		return nil, &FetchError{SourceID: src.ID, Err: err}
	}

	base, err := url.Parse(listingURL)
	if err != nil {
		return nil, &FetchError{SourceID: src.ID, Err: err}
	}

	// Issue links match the configured pattern, defaulting to PDF
	// publications the way gazette sites usually expose them.
	pattern := cast.ToString(src.Config["link_pattern"])
	if pattern == "" {
		pattern = ".pdf"
	}

	anchors := findAll(doc, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == "a" &&
			strings.Contains(strings.ToLower(nodeAttr(n, "href")), strings.ToLower(pattern))
	})

	seen := make(map[string]bool)
	items := make([]RawItem, 0, len(anchors))
	for _, anchor := range anchors {
		if len(items) >= limit {
			break
		}

		href := nodeAttr(anchor, "href")
		ref, err := url.Parse(href)
		if err != nil {
			continue
		}
		absolute := base.ResolveReference(ref).String()
		if seen[absolute] {
			continue
		}
		seen[absolute] = true

		title := visibleText(anchor)
		if title == "" {
			continue
		}

		items = append(items, RawItem{
			ExternalID: absolute,
			Content:    title,
			OccurredAt: parseGazetteDate(title),
			Extra: map[string]any{
				"link":   absolute,
				"is_pdf": strings.HasSuffix(strings.ToLower(absolute), ".pdf"),
			},
		})
	}

	return items, nil
}

// parseGazetteDate pulls a publication date out of the issue title,
// accepting ISO and dotted Hungarian-style forms.
func parseGazetteDate(text string) time.Time {
	if m := gazetteDateISO.FindString(text); m != "" {
		if parsed, err := time.Parse("2006-01-02", m); err == nil {
			return parsed
		}
	}
	if m := gazetteDateDotted.FindStringSubmatch(text); m != nil {
		normalized := m[1] + "." + pad2(m[2]) + "." + pad2(m[3])
		if parsed, err := time.Parse("2006.01.02", normalized); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

func pad2(s string) string {
	if len(s) == 1 {
		return "0" + s
	}
	return s
}
