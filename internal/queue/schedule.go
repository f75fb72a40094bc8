package queue

import (
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cast"

	"github.com/veridex/veridex/internal/model"
)

// ConfigSchedule is the source config key holding the collection
// schedule.
const ConfigSchedule = "schedule"

// Schedule decides when a source is due for collection.
type Schedule interface {
	// Next returns the first run time after last.
	Next(last time.Time) time.Time
}

// Due reports whether a run is due at now given the last run time. A
// source that never ran is always due.
func Due(s Schedule, last *time.Time, now time.Time) bool {
	if last == nil {
		return true
	}
	return !s.Next(*last).After(now)
}

type cronSchedule struct {
	inner cron.Schedule
}

func (s cronSchedule) Next(last time.Time) time.Time { return s.inner.Next(last) }

type intervalSchedule struct {
	every time.Duration
}

func (s intervalSchedule) Next(last time.Time) time.Time { return last.Add(s.every) }

// ParseSchedule reads a schedule from source config. Accepted forms:
//
//	"schedule": "*/30 * * * *"                       standard cron
//	"schedule": {"interval": "minutes", "value": 30}  fixed interval
//	"schedule": {"hours": 1, "minutes": 30}           fixed interval
//
// A missing schedule returns (nil, nil): the source is collected only
// on demand.
func ParseSchedule(config model.JSONMap) (Schedule, error) {
	raw, ok := config[ConfigSchedule]
	if !ok || raw == nil {
		return nil, nil
	}

	switch v := raw.(type) {
	case string:
		if v == "" {
			return nil, nil
		}
		parsed, err := cron.ParseStandard(v)
		if err != nil {
			return nil, &model.ValidationError{Field: "schedule", Reason: err.Error()}
		}
		return cronSchedule{inner: parsed}, nil

	case map[string]any:
		return parseIntervalSchedule(v)

	case model.JSONMap:
		return parseIntervalSchedule(v)

	default:
		return nil, &model.ValidationError{Field: "schedule", Reason: "must be a cron string or an interval object"}
	}
}

func parseIntervalSchedule(fields map[string]any) (Schedule, error) {
	if unit, ok := fields["interval"]; ok {
		value := cast.ToInt(fields["value"])
		if value <= 0 {
			return nil, &model.ValidationError{Field: "schedule.value", Reason: "must be positive"}
		}
		switch cast.ToString(unit) {
		case "seconds":
			return intervalSchedule{every: time.Duration(value) * time.Second}, nil
		case "minutes":
			return intervalSchedule{every: time.Duration(value) * time.Minute}, nil
		case "hours":
			return intervalSchedule{every: time.Duration(value) * time.Hour}, nil
		case "days":
			return intervalSchedule{every: time.Duration(value) * 24 * time.Hour}, nil
		default:
			return nil, &model.ValidationError{Field: "schedule.interval", Reason: cast.ToString(unit)}
		}
	}

	every := time.Duration(cast.ToInt(fields["hours"]))*time.Hour +
		time.Duration(cast.ToInt(fields["minutes"]))*time.Minute +
		time.Duration(cast.ToInt(fields["seconds"]))*time.Second
	if every <= 0 {
		return nil, &model.ValidationError{Field: "schedule", Reason: "interval must be positive"}
	}
	return intervalSchedule{every: every}, nil
}
