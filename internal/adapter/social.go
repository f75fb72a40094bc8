package adapter

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/spf13/cast"
	"golang.org/x/net/html"

	"github.com/veridex/veridex/internal/config"
	"github.com/veridex/veridex/internal/model"
	"github.com/veridex/veridex/internal/webutil"
)

// SocialProfileAdapter scrapes post blocks from a public profile page.
// The source identifier is either the full profile URL or a handle
// resolved against config["base_url"].
type SocialProfileAdapter struct {
	fetcher *pageFetcher
}

// NewSocialProfileAdapter creates a social-profile adapter.
func NewSocialProfileAdapter(cfg config.HTTPConfig, robots *webutil.RobotsChecker, limiter *webutil.HostLimiter) *SocialProfileAdapter {
	return &SocialProfileAdapter{fetcher: newPageFetcher(cfg, robots, limiter)}
}

// Type implements Adapter.
func (a *SocialProfileAdapter) Type() model.SourceType { return model.SourceTypeSocialProfile }

// Fetch implements Adapter.
func (a *SocialProfileAdapter) Fetch(ctx context.Context, src *model.Source, limit int) ([]RawItem, error) {
	profileURL := a.profileURL(src)

	body, err := a.fetcher.get(ctx, profileURL)
	if err != nil {
		return nil, &FetchError{SourceID: src.ID, Err: err}
	}

	doc, err := html.Parse(strings.NewReader(string(body)))
	if err != nil {
		return nil, &FetchError{SourceID: src.ID, Err: err}
	}

	blocks := findAll(doc, isPostBlock)

	items := make([]RawItem, 0, len(blocks))
	for _, block := range blocks {
		if len(items) >= limit {
			break
		}

		text := visibleText(block)
		if utf8.RuneCountInString(text) < 30 {
			continue
		}

		externalID := postBlockID(block)
		if externalID == "" {
			sum := sha1.Sum([]byte(text))
			externalID = hex.EncodeToString(sum[:])
		}

		items = append(items, RawItem{
			ExternalID: externalID,
			Content:    text,
			OccurredAt: postBlockTime(block),
			Extra:      map[string]any{"profile_url": profileURL},
		})
	}

	return items, nil
}

func (a *SocialProfileAdapter) profileURL(src *model.Source) string {
	if strings.HasPrefix(src.Identifier, "http://") || strings.HasPrefix(src.Identifier, "https://") {
		return src.Identifier
	}
	base := strings.TrimRight(cast.ToString(src.Config["base_url"]), "/")
	if base == "" {
		return "https://" + src.Identifier
	}
	return base + "/" + strings.TrimLeft(src.Identifier, "/")
}

func isPostBlock(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	if n.Data == "article" {
		return true
	}
	if n.Data == "div" || n.Data == "li" || n.Data == "section" {
		return hasAnyClass(n, "post", "status", "update", "entry")
	}
	return false
}

func postBlockID(n *html.Node) string {
	for _, key := range []string{"data-post-id", "data-id", "id"} {
		if v := nodeAttr(n, key); v != "" {
			return v
		}
	}
	return ""
}

func postBlockTime(n *html.Node) time.Time {
	times := findAll(n, func(c *html.Node) bool {
		return c.Type == html.ElementNode && c.Data == "time"
	})
	for _, tn := range times {
		raw := nodeAttr(tn, "datetime")
		if raw == "" {
			continue
		}
		for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
			if parsed, err := time.Parse(layout, raw); err == nil {
				return parsed
			}
		}
	}
	return time.Time{}
}
