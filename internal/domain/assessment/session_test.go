package assessment

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	apperrors "github.com/yanqian/stroke-risk/pkg/errors"
)

func TestSessionSubmitSuccess(t *testing.T) {
	predictor := &stubPredictor{result: PredictionResult{Prediction: 1, RiskLevel: RiskHigh, Confidence: 85}}
	sessions := newTestSessions(predictor)

	sess := sessions.Open(FormInput{})
	require.Equal(t, PhaseIdle, sess.Status.Phase())

	var patch FormPatch
	raw, err := json.Marshal(validForm())
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &patch))
	_, err = sessions.Update(sess.ID, patch)
	require.NoError(t, err)

	sess, err = sessions.Submit(context.Background(), sess.ID)
	require.NoError(t, err)
	require.Equal(t, PhaseResult, sess.Status.Phase())
	record, ok := sess.Status.Result()
	require.True(t, ok)
	require.Equal(t, RiskHigh, record.Result.RiskLevel)
	_, hasFailure := sess.Status.Failure()
	require.False(t, hasFailure)
}

func TestSessionSubmitValidationFailure(t *testing.T) {
	predictor := &stubPredictor{}
	sessions := newTestSessions(predictor)

	form := validForm()
	form.Age = "130"
	sess := sessions.Open(form)

	sess, err := sessions.Submit(context.Background(), sess.ID)
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
	require.Equal(t, PhaseError, sess.Status.Phase())
	failure, ok := sess.Status.Failure()
	require.True(t, ok)
	require.Equal(t, "Invalid Age", failure.Title)
	require.Equal(t, 0, predictor.callCount())
	require.False(t, sess.Status.Busy())
}

func TestSessionRejectsOverlappingSubmit(t *testing.T) {
	predictor := &stubPredictor{
		result:  PredictionResult{Prediction: 0, RiskLevel: RiskLow, Confidence: 75},
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	sessions := newTestSessions(predictor)
	sess := sessions.Open(validForm())

	done := make(chan error, 1)
	go func() {
		_, err := sessions.Submit(context.Background(), sess.ID)
		done <- err
	}()
	<-predictor.started

	current, err := sessions.Get(sess.ID)
	require.NoError(t, err)
	require.Equal(t, PhaseRequesting, current.Status.Phase())
	_, hasResult := current.Status.Result()
	require.False(t, hasResult)

	_, err = sessions.Submit(context.Background(), sess.ID)
	require.True(t, apperrors.IsCode(err, apperrors.CodeSubmissionInFlight))
	require.ErrorIs(t, err, ErrSubmissionInFlight)

	// Edits during the request are kept but do not affect the in-flight snapshot.
	_, err = sessions.Update(sess.ID, FormPatch{FieldAge: "46"})
	require.NoError(t, err)

	close(predictor.release)
	require.NoError(t, <-done)
	require.Equal(t, 1, predictor.callCount())
	require.Equal(t, 45.0, predictor.lastRequest.Age)

	current, err = sessions.Get(sess.ID)
	require.NoError(t, err)
	require.Equal(t, PhaseResult, current.Status.Phase())
	require.Equal(t, "46", current.Form.Age)
}

func TestSessionResubmitAfterFailure(t *testing.T) {
	predictor := &stubPredictor{err: &ConnectivityError{Err: errors.New("connection refused")}}
	sessions := newTestSessions(predictor)
	sess := sessions.Open(validForm())

	sess, err := sessions.Submit(context.Background(), sess.ID)
	require.True(t, apperrors.IsCode(err, apperrors.CodePredictionUnavailable))
	require.Equal(t, PhaseError, sess.Status.Phase())
	failure, _ := sess.Status.Failure()
	require.Contains(t, failure.Description, "Cannot connect to prediction service")

	predictor.mu.Lock()
	predictor.err = nil
	predictor.result = PredictionResult{Prediction: 0, RiskLevel: RiskLow, Confidence: 75}
	predictor.mu.Unlock()

	sess, err = sessions.Submit(context.Background(), sess.ID)
	require.NoError(t, err)
	require.Equal(t, PhaseResult, sess.Status.Phase())
	require.Equal(t, 2, predictor.callCount())
}

func TestSessionLifecycle(t *testing.T) {
	sessions := newTestSessions(&stubPredictor{})
	sess := sessions.Open(FormInput{})

	_, err := sessions.Update(sess.ID, FormPatch{"height": "1"})
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))

	require.NoError(t, sessions.Close(sess.ID))
	_, err = sessions.Get(sess.ID)
	require.ErrorIs(t, err, ErrSessionNotFound)
	require.True(t, apperrors.IsCode(sessions.Close(uuid.New()), apperrors.CodeNotFound))
}

func TestSessionsExpireWhenIdle(t *testing.T) {
	sessions := newTestSessions(&stubPredictor{})
	now := time.Date(2024, 7, 1, 10, 0, 0, 0, time.UTC)
	sessions.now = func() time.Time { return now }

	sess := sessions.Open(FormInput{})
	now = now.Add(31 * time.Minute)

	_, err := sessions.Get(sess.ID)
	require.ErrorIs(t, err, ErrSessionNotFound)
}

func TestStatusJSON(t *testing.T) {
	payload, err := json.Marshal(statusError(Notification{Title: "Incomplete Form", Variant: VariantDestructive}))
	require.NoError(t, err)
	require.JSONEq(t, `{"phase":"error","failure":{"title":"Incomplete Form","description":"","variant":"destructive"}}`, string(payload))

	payload, err = json.Marshal(statusRequesting())
	require.NoError(t, err)
	require.JSONEq(t, `{"phase":"requesting"}`, string(payload))
}

func newTestSessions(predictor *stubPredictor) *Sessions {
	svc := NewService(Config{}, predictor, newStubRepository(), newStubStore(), nil, newTestLogger())
	return NewSessions(Config{SessionTTL: 30 * time.Minute}, svc, newTestLogger())
}
