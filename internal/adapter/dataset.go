package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cast"

	"github.com/veridex/veridex/internal/config"
	"github.com/veridex/veridex/internal/model"
	"github.com/veridex/veridex/internal/webutil"
)

const defaultStatsAPI = "https://ec.europa.eu/eurostat/api/dissemination/statistics/1.0/data"

// Extra keys the dataset adapter attaches so the coordinator can upsert
// the dataset snapshot alongside the collected posts.
const (
	ExtraDatasetCode   = "dataset_code"
	ExtraDatasetLabel  = "dataset_label"
	ExtraDatasetSource = "dataset_source"
	ExtraPeriod        = "period"
	ExtraValue         = "value"
)

// DatasetAdapter fetches a statistical dataset in JSON-stat style and
// emits one raw item per time period. The source identifier is the
// dataset code.
type DatasetAdapter struct {
	fetcher *pageFetcher
}

// NewDatasetAdapter creates a statistical-dataset adapter.
func NewDatasetAdapter(cfg config.HTTPConfig, limiter *webutil.HostLimiter) *DatasetAdapter {
	// Dataset APIs are not subject to robots.txt.
	return &DatasetAdapter{fetcher: newPageFetcher(cfg, nil, limiter)}
}

// Type implements Adapter.
func (a *DatasetAdapter) Type() model.SourceType { return model.SourceTypeStatisticalDataset }

// statsResponse is the subset of the JSON-stat shape the adapter needs.
type statsResponse struct {
	Label     string             `json:"label"`
	Updated   string             `json:"updated"`
	Value     map[string]float64 `json:"value"`
	Dimension struct {
		Time struct {
			Category struct {
				Index map[string]int    `json:"index"`
				Label map[string]string `json:"label"`
			} `json:"category"`
		} `json:"time"`
	} `json:"dimension"`
}

// Fetch implements Adapter.
func (a *DatasetAdapter) Fetch(ctx context.Context, src *model.Source, limit int) ([]RawItem, error) {
	code := src.Identifier

	apiBase := cast.ToString(src.Config["api_url"])
	if apiBase == "" {
		apiBase = defaultStatsAPI
	}
	sourceLabel := cast.ToString(src.Config["source_label"])
	if sourceLabel == "" {
		sourceLabel = "eurostat"
	}

	body, err := a.fetcher.get(ctx, strings.TrimRight(apiBase, "/")+"/"+code+"?format=JSON")
	if err != nil {
		return nil, &FetchError{SourceID: src.ID, Err: err}
	}

	var resp statsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &FetchError{SourceID: src.ID, Err: err}
	}

	updated := time.Time{}
	if resp.Updated != "" {
		for _, layout := range []string{time.RFC3339, "2006-01-02"} {
			if parsed, err := time.Parse(layout, resp.Updated); err == nil {
				updated = parsed
				break
			}
		}
	}

	// Periods sorted by their dataset index so item order is stable.
	periods := make([]string, 0, len(resp.Dimension.Time.Category.Index))
	for period := range resp.Dimension.Time.Category.Index {
		periods = append(periods, period)
	}
	sort.Slice(periods, func(i, j int) bool {
		return resp.Dimension.Time.Category.Index[periods[i]] < resp.Dimension.Time.Category.Index[periods[j]]
	})

	items := make([]RawItem, 0, len(periods))
	for _, period := range periods {
		if len(items) >= limit {
			break
		}

		idx := resp.Dimension.Time.Category.Index[period]
		value, ok := resp.Value[fmt.Sprintf("%d", idx)]
		if !ok {
			continue
		}

		label := resp.Label
		if label == "" {
			label = code
		}

		items = append(items, RawItem{
			ExternalID: code + ":" + period,
			Content:    fmt.Sprintf("%s (%s): %s = %g", label, code, period, value),
			OccurredAt: updated,
			Extra: map[string]any{
				ExtraDatasetCode:   code,
				ExtraDatasetLabel:  label,
				ExtraDatasetSource: sourceLabel,
				ExtraPeriod:        period,
				ExtraValue:         value,
			},
		})
	}

	return items, nil
}
