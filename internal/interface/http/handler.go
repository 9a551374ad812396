package http

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yanqian/stroke-risk/internal/domain/assessment"
	apperrors "github.com/yanqian/stroke-risk/pkg/errors"
)

// Handler wires the HTTP transport to the assessment domain.
type Handler struct {
	svc      assessment.Service
	sessions *assessment.Sessions
	logger   *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(svc assessment.Service, sessions *assessment.Sessions, logger *slog.Logger) *Handler {
	return &Handler{
		svc:      svc,
		sessions: sessions,
		logger:   logger.With("component", "http.handler"),
	}
}

type assessmentResponse struct {
	Assessment   assessment.Assessment   `json:"assessment"`
	Notification assessment.Notification `json:"notification"`
}

type sessionResponse struct {
	Session      assessment.Session       `json:"session"`
	Notification *assessment.Notification `json:"notification,omitempty"`
}

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Options lists the selectable labels of every choice field.
func (h *Handler) Options(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"fields": h.svc.Options()})
}

// Assess runs a one-shot submission.
func (h *Handler) Assess(c *gin.Context) {
	var form assessment.FormInput
	if err := c.ShouldBindJSON(&form); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	record, err := h.svc.Assess(c.Request.Context(), form)
	if err != nil {
		abortWithError(c, submissionError(err))
		return
	}

	c.JSON(http.StatusOK, assessmentResponse{Assessment: record, Notification: assessment.SuccessNotification()})
}

// Recent lists the newest assessments.
func (h *Handler) Recent(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "limit must be a non-negative integer", err))
			return
		}
		limit = parsed
	}

	items, err := h.svc.Recent(c.Request.Context(), limit)
	if err != nil {
		abortWithError(c, domainError(err))
		return
	}
	if items == nil {
		items = []assessment.Assessment{}
	}
	c.JSON(http.StatusOK, gin.H{"assessments": items})
}

// Stats returns outcome counters.
func (h *Handler) Stats(c *gin.Context) {
	counts, err := h.svc.Stats(c.Request.Context())
	if err != nil {
		abortWithError(c, domainError(err))
		return
	}
	c.JSON(http.StatusOK, counts)
}

// GetAssessment returns one stored assessment.
func (h *Handler) GetAssessment(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	record, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, domainError(err))
		return
	}
	c.JSON(http.StatusOK, record)
}

// OpenSession starts a form session, optionally prefilled.
func (h *Handler) OpenSession(c *gin.Context) {
	var form assessment.FormInput
	if err := c.ShouldBindJSON(&form); err != nil && !errors.Is(err, io.EOF) {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	c.JSON(http.StatusCreated, sessionResponse{Session: h.sessions.Open(form)})
}

// GetSession returns the current form and status.
func (h *Handler) GetSession(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	sess, err := h.sessions.Get(id)
	if err != nil {
		abortWithError(c, domainError(err))
		return
	}
	c.JSON(http.StatusOK, sessionResponse{Session: sess})
}

// UpdateSession applies a partial form edit.
func (h *Handler) UpdateSession(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var patch assessment.FormPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	sess, err := h.sessions.Update(id, patch)
	if err != nil {
		abortWithError(c, domainError(err))
		return
	}
	c.JSON(http.StatusOK, sessionResponse{Session: sess})
}

// SubmitSession submits the session's current form.
func (h *Handler) SubmitSession(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	sess, err := h.sessions.Submit(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, submissionError(err))
		return
	}
	notice := assessment.SuccessNotification()
	c.JSON(http.StatusOK, sessionResponse{Session: sess, Notification: &notice})
}

// CloseSession discards a session.
func (h *Handler) CloseSession(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.sessions.Close(id); err != nil {
		abortWithError(c, domainError(err))
		return
	}
	c.Status(http.StatusNoContent)
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "id must be a UUID", err))
		return uuid.UUID{}, false
	}
	return id, true
}

// domainError maps an assessment failure to its transport status.
func domainError(err error) *HTTPError {
	status := http.StatusInternalServerError
	code := apperrors.CodeOf(err)
	switch code {
	case apperrors.CodeInvalidInput:
		status = http.StatusBadRequest
	case apperrors.CodeNotFound:
		status = http.StatusNotFound
	case apperrors.CodeSubmissionInFlight:
		status = http.StatusConflict
	case apperrors.CodePredictionUnavailable:
		status = http.StatusServiceUnavailable
	case apperrors.CodePredictionFailed:
		status = http.StatusBadGateway
	case "":
		code = "internal_error"
	}
	return NewHTTPError(status, code, errMessage(err), err)
}

// submissionError also carries the notification the form shows for a failed submit.
func submissionError(err error) *HTTPError {
	httpErr := domainError(err)
	if httpErr.Status == http.StatusNotFound {
		return httpErr
	}
	return httpErr.WithNotification(assessment.NotificationFor(err))
}

func errMessage(err error) string {
	if err == nil {
		return ""
	}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	return err.Error()
}
