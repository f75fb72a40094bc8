package queue

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veridex/veridex/internal/model"
)

func TestParseSchedule_Cron(t *testing.T) {
	s, err := ParseSchedule(model.JSONMap{"schedule": "*/30 * * * *"})
	require.NoError(t, err)
	require.NotNil(t, s)

	last := time.Date(2023, 6, 1, 10, 5, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2023, 6, 1, 10, 30, 0, 0, time.UTC), s.Next(last))
}

func TestParseSchedule_Interval(t *testing.T) {
	s, err := ParseSchedule(model.JSONMap{"schedule": map[string]any{"interval": "minutes", "value": 15}})
	require.NoError(t, err)

	last := time.Date(2023, 6, 1, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, last.Add(15*time.Minute), s.Next(last))
}

func TestParseSchedule_Components(t *testing.T) {
	s, err := ParseSchedule(model.JSONMap{"schedule": model.JSONMap{"hours": 1, "minutes": 30}})
	require.NoError(t, err)

	last := time.Date(2023, 6, 1, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, last.Add(90*time.Minute), s.Next(last))
}

func TestParseSchedule_JSONNumbers(t *testing.T) {
	// Values decoded from a JSON column arrive as float64.
	s, err := ParseSchedule(model.JSONMap{"schedule": map[string]any{"interval": "hours", "value": float64(6)}})
	require.NoError(t, err)

	last := time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, last.Add(6*time.Hour), s.Next(last))
}

func TestParseSchedule_Missing(t *testing.T) {
	s, err := ParseSchedule(model.JSONMap{})
	require.NoError(t, err)
	assert.Nil(t, s, "unscheduled sources are collected on demand only")

	s, err = ParseSchedule(model.JSONMap{"schedule": ""})
	require.NoError(t, err)
	assert.Nil(t, s)
}

func TestParseSchedule_Invalid(t *testing.T) {
	cases := []model.JSONMap{
		{"schedule": "not a cron line at all"},
		{"schedule": map[string]any{"interval": "fortnights", "value": 1}},
		{"schedule": map[string]any{"interval": "minutes", "value": 0}},
		{"schedule": map[string]any{"hours": 0}},
		{"schedule": 42},
	}
	for _, cfg := range cases {
		_, err := ParseSchedule(cfg)
		require.Error(t, err)
		assert.True(t, model.IsValidationError(err))
	}
}

func TestDue(t *testing.T) {
	s, err := ParseSchedule(model.JSONMap{"schedule": map[string]any{"interval": "hours", "value": 1}})
	require.NoError(t, err)

	now := time.Date(2023, 6, 1, 12, 0, 0, 0, time.UTC)
	assert.True(t, Due(s, nil, now), "never-collected sources are due")

	recent := now.Add(-30 * time.Minute)
	assert.False(t, Due(s, &recent, now))

	stale := now.Add(-2 * time.Hour)
	assert.True(t, Due(s, &stale, now))

	exact := now.Add(-time.Hour)
	assert.True(t, Due(s, &exact, now), "boundary counts as due")
}
