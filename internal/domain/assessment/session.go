package assessment

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/yanqian/stroke-risk/pkg/errors"
	"github.com/yanqian/stroke-risk/pkg/util"
)

const defaultSessionTTL = 30 * time.Minute

// Phase is the tag of a session status.
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseValidating Phase = "validating"
	PhaseRequesting Phase = "requesting"
	PhaseResult     Phase = "result"
	PhaseError      Phase = "error"
)

// Status is a tagged session state. Only the constructors below build one,
// so a busy status never carries a result or a failure.
type Status struct {
	phase   Phase
	result  *Assessment
	failure *Notification
}

func statusIdle() Status       { return Status{phase: PhaseIdle} }
func statusValidating() Status { return Status{phase: PhaseValidating} }
func statusRequesting() Status { return Status{phase: PhaseRequesting} }

func statusResult(record Assessment) Status {
	return Status{phase: PhaseResult, result: &record}
}

func statusError(n Notification) Status {
	return Status{phase: PhaseError, failure: &n}
}

// Phase returns the state tag.
func (s Status) Phase() Phase { return s.phase }

// Busy reports whether a submission is unresolved.
func (s Status) Busy() bool {
	return s.phase == PhaseValidating || s.phase == PhaseRequesting
}

// Result returns the assessment shown in the result phase.
func (s Status) Result() (Assessment, bool) {
	if s.result == nil {
		return Assessment{}, false
	}
	return *s.result, true
}

// Failure returns the notification shown in the error phase.
func (s Status) Failure() (Notification, bool) {
	if s.failure == nil {
		return Notification{}, false
	}
	return *s.failure, true
}

// MarshalJSON renders the tag with whichever payload it carries.
func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Phase   Phase         `json:"phase"`
		Result  *Assessment   `json:"result,omitempty"`
		Failure *Notification `json:"failure,omitempty"`
	}{Phase: s.phase, Result: s.result, Failure: s.failure})
}

// Session is one form instance.
type Session struct {
	ID        uuid.UUID `json:"id"`
	Form      FormInput `json:"form"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Sessions tracks form instances and enforces one in-flight submission per instance.
type Sessions struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*Session
	svc      Service
	ttl      time.Duration
	logger   *slog.Logger
	now      func() time.Time
}

// NewSessions builds the session manager on top of the assessment service.
func NewSessions(cfg Config, svc Service, logger *slog.Logger) *Sessions {
	ttl := cfg.SessionTTL
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &Sessions{
		sessions: make(map[uuid.UUID]*Session),
		svc:      svc,
		ttl:      ttl,
		logger:   logger.With("component", "assessment.sessions"),
		now:      util.NowUTC,
	}
}

// Open starts a session in the idle phase.
func (m *Sessions) Open(form FormInput) Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	m.sweepLocked(now)
	sess := &Session{
		ID:        uuid.New(),
		Form:      form,
		Status:    statusIdle(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	m.sessions[sess.ID] = sess
	return *sess
}

// Get returns a snapshot of the session.
func (m *Sessions) Get(id uuid.UUID) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, err := m.lookupLocked(id)
	if err != nil {
		return Session{}, err
	}
	return *sess, nil
}

// Update writes the patch into the form. An in-flight submission keeps its own snapshot.
func (m *Sessions) Update(id uuid.UUID, patch FormPatch) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, err := m.lookupLocked(id)
	if err != nil {
		return Session{}, err
	}
	form, err := patch.Apply(sess.Form)
	if err != nil {
		return Session{}, apperrors.Wrap(apperrors.CodeInvalidInput, err.Error(), err)
	}
	sess.Form = form
	sess.UpdatedAt = m.now()
	return *sess, nil
}

// Close discards the session.
func (m *Sessions) Close(id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, err := m.lookupLocked(id); err != nil {
		return err
	}
	delete(m.sessions, id)
	return nil
}

// Submit validates the current form and, when submittable, requests a prediction.
// It fails with submission_in_flight while a previous submit is unresolved.
func (m *Sessions) Submit(ctx context.Context, id uuid.UUID) (Session, error) {
	m.mu.Lock()
	sess, err := m.lookupLocked(id)
	if err != nil {
		m.mu.Unlock()
		return Session{}, err
	}
	if sess.Status.Busy() {
		m.mu.Unlock()
		return *sess, apperrors.Wrap(apperrors.CodeSubmissionInFlight, ErrSubmissionInFlight.Error(), ErrSubmissionInFlight)
	}

	m.transitionLocked(sess, statusValidating())
	form := sess.Form
	if err := Validate(form); err != nil {
		m.transitionLocked(sess, statusError(NotificationFor(err)))
		snapshot := *sess
		m.mu.Unlock()
		return snapshot, apperrors.Wrap(apperrors.CodeInvalidInput, err.Error(), err)
	}
	// The previous result is dropped before the request goes out.
	m.transitionLocked(sess, statusRequesting())
	m.mu.Unlock()

	record, assessErr := m.svc.Assess(ctx, form)

	m.mu.Lock()
	defer m.mu.Unlock()
	if assessErr != nil {
		m.transitionLocked(sess, statusError(NotificationFor(assessErr)))
		return *sess, assessErr
	}
	m.transitionLocked(sess, statusResult(record))
	return *sess, nil
}

func (m *Sessions) transitionLocked(sess *Session, next Status) {
	m.logger.Debug("session transition", "session", sess.ID, "from", sess.Status.Phase(), "to", next.Phase())
	sess.Status = next
	sess.UpdatedAt = m.now()
}

func (m *Sessions) lookupLocked(id uuid.UUID) (*Session, error) {
	m.sweepLocked(m.now())
	sess, ok := m.sessions[id]
	if !ok {
		return nil, apperrors.Wrap(apperrors.CodeNotFound, ErrSessionNotFound.Error(), ErrSessionNotFound)
	}
	return sess, nil
}

// sweepLocked drops idle sessions past their TTL; busy ones are kept until they resolve.
func (m *Sessions) sweepLocked(now time.Time) {
	for id, sess := range m.sessions {
		if sess.Status.Busy() {
			continue
		}
		if now.Sub(sess.UpdatedAt) > m.ttl {
			delete(m.sessions, id)
		}
	}
}
