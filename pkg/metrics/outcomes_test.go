package metrics

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewOutcomeCounts(t *testing.T) {
	counts := NewOutcomeCounts(map[string]int64{
		"High":        3,
		"Low":         5,
		OutcomeFailed: 2,
		"Moderate":    0,
	})

	require.Equal(t, int64(8), counts.Total)
	require.Equal(t, int64(2), counts.Failures)
	require.Equal(t, map[string]int64{"High": 3, "Low": 5}, counts.ByRiskLevel)
	require.False(t, counts.IsZero())
	require.True(t, NewOutcomeCounts(nil).IsZero())
}
