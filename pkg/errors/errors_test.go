package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWrapKeepsCauseReachable(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := fmt.Errorf("submit: %w", Wrap(CodePredictionUnavailable, "prediction service unavailable", cause))

	require.True(t, IsCode(err, CodePredictionUnavailable))
	require.False(t, IsCode(err, CodeInvalidInput))
	require.Equal(t, CodePredictionUnavailable, CodeOf(err))
	require.ErrorIs(t, err, cause)
	require.Contains(t, err.Error(), "connection refused")
}

func TestWrapWithoutCause(t *testing.T) {
	err := Wrap(CodeNotFound, "assessment not found", nil)
	require.Equal(t, "assessment not found", err.Error())
	require.Equal(t, "", CodeOf(errors.New("plain")))
}
