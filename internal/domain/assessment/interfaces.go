package assessment

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Predictor calls the external prediction service. Implementations make exactly one attempt.
type Predictor interface {
	Predict(ctx context.Context, req EncodedRequest) (PredictionResult, error)
}

// Repository persists completed assessments.
type Repository interface {
	Insert(ctx context.Context, record Assessment) error
	Get(ctx context.Context, id uuid.UUID) (Assessment, bool, error)
	Recent(ctx context.Context, limit int) ([]Assessment, error)
}

// ResultStore caches results by request fingerprint and counts outcomes.
type ResultStore interface {
	GetResult(ctx context.Context, key string) (PredictionResult, bool, error)
	SaveResult(ctx context.Context, key string, result PredictionResult, ttl time.Duration) error
	IncrementOutcome(ctx context.Context, outcome string) error
	Outcomes(ctx context.Context) (map[string]int64, error)
}

// Archive keeps a durable copy of each assessment report.
type Archive interface {
	Put(ctx context.Context, key string, data []byte, mimeType string) error
}
