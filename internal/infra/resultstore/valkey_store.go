package resultstore

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/stroke-risk/internal/domain/assessment"
)

// ValkeyStore persists cached results and outcome counters in a Valkey-compatible database.
type ValkeyStore struct {
	client valkey.Client
	prefix string
}

// NewValkeyStore constructs a new store backed by Valkey.
func NewValkeyStore(client valkey.Client, prefix string) *ValkeyStore {
	if prefix == "" {
		prefix = "stroke"
	}
	return &ValkeyStore{client: client, prefix: prefix}
}

func (s *ValkeyStore) GetResult(ctx context.Context, key string) (assessment.PredictionResult, bool, error) {
	if key == "" {
		return assessment.PredictionResult{}, false, nil
	}
	payload, err := s.client.Do(ctx, s.client.B().Get().Key(s.resultKey(key)).Build()).ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return assessment.PredictionResult{}, false, nil
		}
		return assessment.PredictionResult{}, false, err
	}
	var result assessment.PredictionResult
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		return assessment.PredictionResult{}, false, err
	}
	return result, true, nil
}

func (s *ValkeyStore) SaveResult(ctx context.Context, key string, result assessment.PredictionResult, ttl time.Duration) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return err
	}
	builder := s.client.B().Set().Key(s.resultKey(key)).Value(string(payload))
	var cmd valkey.Completed
	if ttl > 0 {
		if ttl < time.Second {
			ttl = time.Second
		}
		cmd = builder.Ex(ttl).Build()
	} else {
		cmd = builder.Build()
	}
	return s.client.Do(ctx, cmd).Error()
}

func (s *ValkeyStore) IncrementOutcome(ctx context.Context, outcome string) error {
	if outcome == "" {
		return nil
	}
	return s.client.Do(ctx, s.client.B().Hincrby().Key(s.outcomesKey()).Field(outcome).Increment(1).Build()).Error()
}

func (s *ValkeyStore) Outcomes(ctx context.Context) (map[string]int64, error) {
	raw, err := s.client.Do(ctx, s.client.B().Hgetall().Key(s.outcomesKey()).Build()).AsStrMap()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return map[string]int64{}, nil
		}
		return nil, err
	}
	out := make(map[string]int64, len(raw))
	for outcome, value := range raw {
		count, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("outcome %q: %w", outcome, err)
		}
		out[outcome] = count
	}
	return out, nil
}

func (s *ValkeyStore) resultKey(fingerprint string) string {
	return fmt.Sprintf("%s:result:%s", s.prefix, fingerprint)
}

func (s *ValkeyStore) outcomesKey() string {
	return fmt.Sprintf("%s:outcomes", s.prefix)
}

var _ assessment.ResultStore = (*ValkeyStore)(nil)
