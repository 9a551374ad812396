package metrics

// OutcomeFailed is the counter key used for submissions that produced no result.
const OutcomeFailed = "failed"

// OutcomeCounts summarizes prediction outcomes recorded by the service.
type OutcomeCounts struct {
	Total       int64            `json:"total"`
	Failures    int64            `json:"failures"`
	ByRiskLevel map[string]int64 `json:"byRiskLevel"`
}

// NewOutcomeCounts folds raw counters keyed by risk level (plus OutcomeFailed) into a summary.
func NewOutcomeCounts(raw map[string]int64) OutcomeCounts {
	counts := OutcomeCounts{ByRiskLevel: make(map[string]int64, len(raw))}
	for key, value := range raw {
		if value <= 0 {
			continue
		}
		if key == OutcomeFailed {
			counts.Failures += value
			continue
		}
		counts.ByRiskLevel[key] += value
		counts.Total += value
	}
	return counts
}

// IsZero reports whether no outcome has been recorded.
func (c OutcomeCounts) IsZero() bool {
	return c.Total == 0 && c.Failures == 0
}
