package auth_test

import (
	"testing"
	"time"

	"github.com/goliatone/go-merchant-auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsWithinDuration(t *testing.T) {
	tests := []struct {
		name     string
		issuedAt time.Time
		ttl      time.Duration
		expected bool
	}{
		{name: "fresh token", issuedAt: time.Now().Add(-time.Minute), ttl: 24 * time.Hour, expected: true},
		{name: "day old token", issuedAt: time.Now().Add(-25 * time.Hour), ttl: 24 * time.Hour, expected: false},
		{name: "at the boundary", issuedAt: time.Now().Add(-time.Hour), ttl: time.Hour, expected: false},
		{name: "clock skew into the future", issuedAt: time.Now().Add(time.Hour), ttl: time.Minute, expected: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, auth.IsWithinDuration(tt.issuedAt, tt.ttl))
		})
	}
}

func TestThresholdPeriodPatterns(t *testing.T) {
	issuedAt := time.Now().Add(-90 * time.Minute)

	within, err := auth.IsWithinThresholdPeriod(issuedAt, "2h30m")
	require.NoError(t, err)
	assert.True(t, within)

	outside, err := auth.IsOutsideThresholdPeriod(issuedAt, "1h")
	require.NoError(t, err)
	assert.True(t, outside)

	_, err = auth.IsWithinThresholdPeriod(issuedAt, "a while")
	assert.Error(t, err)

	_, err = auth.IsOutsideThresholdPeriod(issuedAt, "")
	assert.Error(t, err)
}
