package adapter

import (
	"context"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/veridex/veridex/internal/config"
	"github.com/veridex/veridex/internal/model"
)

// FeedAdapter collects articles from RSS and Atom feeds. The source
// identifier is the feed URL; the entry guid (or link) is the external
// id.
type FeedAdapter struct {
	parser  *gofeed.Parser
	timeout time.Duration
}

// NewFeedAdapter creates a feed adapter.
func NewFeedAdapter(cfg config.HTTPConfig) *FeedAdapter {
	parser := gofeed.NewParser()
	parser.UserAgent = cfg.UserAgent
	return &FeedAdapter{parser: parser, timeout: cfg.Timeout}
}

// Type implements Adapter.
func (a *FeedAdapter) Type() model.SourceType { return model.SourceTypeFeed }

// Fetch implements Adapter.
func (a *FeedAdapter) Fetch(ctx context.Context, src *model.Source, limit int) ([]RawItem, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	feed, err := a.parser.ParseURLWithContext(src.Identifier, ctx)
	if err != nil {
		return nil, &FetchError{SourceID: src.ID, Err: err}
	}

	items := make([]RawItem, 0, len(feed.Items))
	for _, entry := range feed.Items {
		if len(items) >= limit {
			break
		}

		externalID := entry.GUID
		if externalID == "" {
			externalID = entry.Link
		}
		if externalID == "" {
			continue
		}

		content := entry.Title
		if body := feedBody(entry); body != "" {
			content = content + "\n\n" + body
		}
		if strings.TrimSpace(content) == "" {
			continue
		}

		occurredAt := time.Time{}
		if entry.PublishedParsed != nil {
			occurredAt = *entry.PublishedParsed
		} else if entry.UpdatedParsed != nil {
			occurredAt = *entry.UpdatedParsed
		}

		extra := map[string]any{
			"link":       entry.Link,
			"feed_title": feed.Title,
		}
		if len(entry.Authors) > 0 {
			extra["author"] = entry.Authors[0].Name
		}

		items = append(items, RawItem{
			ExternalID: externalID,
			Content:    strings.TrimSpace(content),
			OccurredAt: occurredAt,
			Extra:      extra,
		})
	}

	return items, nil
}

func feedBody(entry *gofeed.Item) string {
	if entry.Content != "" {
		return stripTags(entry.Content)
	}
	return stripTags(entry.Description)
}
