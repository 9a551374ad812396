package assessment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	apperrors "github.com/yanqian/stroke-risk/pkg/errors"
	"github.com/yanqian/stroke-risk/pkg/metrics"
	"github.com/yanqian/stroke-risk/pkg/util"
)

const defaultRecentLimit = 20

// Service exposes the stroke risk intake flow.
type Service interface {
	Options() []FieldOptions
	Assess(ctx context.Context, form FormInput) (Assessment, error)
	Get(ctx context.Context, id uuid.UUID) (Assessment, error)
	Recent(ctx context.Context, limit int) ([]Assessment, error)
	Stats(ctx context.Context) (metrics.OutcomeCounts, error)
}

type service struct {
	cfg       Config
	predictor Predictor
	repo      Repository
	store     ResultStore
	archive   Archive
	logger    *slog.Logger
	newID     func() uuid.UUID
}

// NewService wires up the assessment domain.
func NewService(cfg Config, predictor Predictor, repo Repository, store ResultStore, archive Archive, logger *slog.Logger) Service {
	if cfg.RecentLimit <= 0 {
		cfg.RecentLimit = defaultRecentLimit
	}
	return &service{
		cfg:       cfg,
		predictor: predictor,
		repo:      repo,
		store:     store,
		archive:   archive,
		logger:    logger.With("component", "assessment.service"),
		newID:     uuid.New,
	}
}

func (s *service) Options() []FieldOptions {
	return Options()
}

func (s *service) Assess(ctx context.Context, form FormInput) (Assessment, error) {
	if err := Validate(form); err != nil {
		return Assessment{}, apperrors.Wrap(apperrors.CodeInvalidInput, err.Error(), err)
	}
	// An issued submission is never cancelled by the caller; the client timeout bounds it.
	ctx = context.WithoutCancel(ctx)
	req := Encode(form)
	key := req.Fingerprint()

	result, source, err := s.resolve(ctx, req, key)
	if err != nil {
		s.countOutcome(ctx, metrics.OutcomeFailed)
		return Assessment{}, classifyPredictionError(err)
	}

	record := Assessment{
		ID:        s.newID(),
		Request:   req,
		Result:    result,
		Source:    source,
		Report:    buildReport(result),
		CreatedAt: util.NowUTC(),
	}
	s.logger.Info("assessment completed", "id", record.ID, "prediction", result.Prediction, "risk_level", result.RiskLevel, "source", source)

	if err := s.repo.Insert(ctx, record); err != nil {
		s.logger.Error("persist assessment failed", "id", record.ID, "error", err)
	}
	s.countOutcome(ctx, result.RiskLevel)
	s.archiveRecord(ctx, record)
	return record, nil
}

func (s *service) resolve(ctx context.Context, req EncodedRequest, key string) (PredictionResult, string, error) {
	if s.cfg.CacheTTL > 0 {
		cached, ok, err := s.store.GetResult(ctx, key)
		if err != nil {
			s.logger.Warn("result store lookup failed", "error", err)
		} else if ok {
			return cached, SourceCache, nil
		}
	}

	result, err := s.predictor.Predict(ctx, req)
	if err != nil {
		return PredictionResult{}, "", err
	}

	if s.cfg.CacheTTL > 0 {
		if err := s.store.SaveResult(ctx, key, result, s.cfg.CacheTTL); err != nil {
			s.logger.Warn("result store save failed", "error", err)
		}
	}
	return result, SourceService, nil
}

func (s *service) countOutcome(ctx context.Context, outcome string) {
	if err := s.store.IncrementOutcome(ctx, outcome); err != nil {
		s.logger.Warn("outcome counter update failed", "outcome", outcome, "error", err)
	}
}

func (s *service) archiveRecord(ctx context.Context, record Assessment) {
	if s.archive == nil {
		return
	}
	payload, err := json.Marshal(record)
	if err != nil {
		s.logger.Error("marshal assessment for archive failed", "id", record.ID, "error", err)
		return
	}
	key := archiveKey(s.cfg.ArchivePrefix, record)
	if err := s.archive.Put(ctx, key, payload, "application/json"); err != nil {
		s.logger.Error("archive assessment failed", "id", record.ID, "key", key, "error", err)
	}
}

func archiveKey(prefix string, record Assessment) string {
	if prefix == "" {
		prefix = "assessments"
	}
	return fmt.Sprintf("%s/%s/%s.json", prefix, record.CreatedAt.Format("2006/01/02"), record.ID)
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (Assessment, error) {
	record, ok, err := s.repo.Get(ctx, id)
	if err != nil {
		return Assessment{}, apperrors.Wrap(apperrors.CodeStorage, "assessment lookup failed", err)
	}
	if !ok {
		return Assessment{}, apperrors.Wrap(apperrors.CodeNotFound, ErrAssessmentNotFound.Error(), ErrAssessmentNotFound)
	}
	return record, nil
}

func (s *service) Recent(ctx context.Context, limit int) ([]Assessment, error) {
	if limit <= 0 || limit > s.cfg.RecentLimit {
		limit = s.cfg.RecentLimit
	}
	records, err := s.repo.Recent(ctx, limit)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeStorage, "assessment history unavailable", err)
	}
	return records, nil
}

func (s *service) Stats(ctx context.Context) (metrics.OutcomeCounts, error) {
	raw, err := s.store.Outcomes(ctx)
	if err != nil {
		return metrics.OutcomeCounts{}, apperrors.Wrap(apperrors.CodeStorage, "outcome counters unavailable", err)
	}
	return metrics.NewOutcomeCounts(raw), nil
}

func classifyPredictionError(err error) error {
	var unreachable *ConnectivityError
	if errors.As(err, &unreachable) {
		return apperrors.Wrap(apperrors.CodePredictionUnavailable, "prediction service unavailable", err)
	}
	return apperrors.Wrap(apperrors.CodePredictionFailed, "prediction request failed", err)
}
