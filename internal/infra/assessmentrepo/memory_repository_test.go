package assessmentrepo

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/yanqian/stroke-risk/internal/domain/assessment"
)

func sampleAssessment(createdAt time.Time, risk assessment.RiskLevel) assessment.Assessment {
	return assessment.Assessment{
		ID:      uuid.New(),
		Request: assessment.EncodedRequest{Gender: 1, Age: 45, AvgGlucoseLevel: 100, BMI: 24.5},
		Result:  assessment.PredictionResult{Prediction: 0, RiskLevel: risk, Confidence: 75},
		Source:  assessment.SourceService,
		Report: assessment.Report{
			Headline:        "Lower stroke risk detected",
			Recommendations: []assessment.Recommendation{{Title: "Prevention", Detail: "Stay active."}},
		},
		CreatedAt: createdAt,
	}
}

func TestMemoryRepositoryInsertAndGet(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	record := sampleAssessment(time.Now().UTC(), assessment.RiskLow)
	require.NoError(t, repo.Insert(ctx, record))

	got, ok, err := repo.Get(ctx, record.ID)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, record, got)

	got.Report.Recommendations[0].Title = "mutated"
	again, _, _ := repo.Get(ctx, record.ID)
	require.Equal(t, "Prevention", again.Report.Recommendations[0].Title)

	_, ok, err = repo.Get(ctx, uuid.New())
	require.NoError(t, err)
	require.False(t, ok)
}

func TestMemoryRepositoryRecentNewestFirst(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	base := time.Date(2024, 7, 1, 10, 0, 0, 0, time.UTC)
	first := sampleAssessment(base, assessment.RiskLow)
	second := sampleAssessment(base.Add(time.Minute), assessment.RiskHigh)
	third := sampleAssessment(base.Add(2*time.Minute), assessment.RiskLow)
	for _, record := range []assessment.Assessment{first, second, third} {
		require.NoError(t, repo.Insert(ctx, record))
	}

	items, err := repo.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.Equal(t, third.ID, items[0].ID)
	require.Equal(t, second.ID, items[1].ID)

	all, err := repo.Recent(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
}
