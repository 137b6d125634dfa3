package errors_test

import (
	"fmt"
	"net/http"
	"testing"

	apperrors "github.com/jrsteele09/docflow-admin/internal/errors"
	"github.com/stretchr/testify/require"
)

func TestFromStatus(t *testing.T) {
	t.Run("backend message wins", func(t *testing.T) {
		err := apperrors.FromStatus(http.StatusBadRequest, "name already taken")
		require.Equal(t, apperrors.KindClient, err.Kind)
		require.Equal(t, "name already taken", err.Message)
	})

	t.Run("fallback message", func(t *testing.T) {
		err := apperrors.FromStatus(http.StatusNotFound, "")
		require.Equal(t, "not found", err.Message)
	})

	t.Run("kinds", func(t *testing.T) {
		require.Equal(t, apperrors.KindAuth, apperrors.FromStatus(http.StatusUnauthorized, "").Kind)
		require.Equal(t, apperrors.KindServer, apperrors.FromStatus(http.StatusBadGateway, "").Kind)
		require.Equal(t, apperrors.KindClient, apperrors.FromStatus(http.StatusUnprocessableEntity, "").Kind)
	})
}

func TestStatusMessage(t *testing.T) {
	require.Equal(t, "access denied", apperrors.StatusMessage(http.StatusForbidden))
	require.Equal(t, "invalid data", apperrors.StatusMessage(http.StatusUnprocessableEntity))
	require.Equal(t, "an error occurred", apperrors.StatusMessage(http.StatusTeapot))
}

func TestKindAndMessageOf(t *testing.T) {
	wrapped := fmt.Errorf("list users: %w", apperrors.FromStatus(http.StatusForbidden, ""))
	require.Equal(t, apperrors.KindClient, apperrors.KindOf(wrapped))
	require.Equal(t, "access denied", apperrors.MessageOf(wrapped))

	require.Equal(t, apperrors.Kind(""), apperrors.KindOf(fmt.Errorf("plain")))
	require.Equal(t, "plain", apperrors.MessageOf(fmt.Errorf("plain")))
	require.Equal(t, "", apperrors.MessageOf(nil))
}

func TestValidationUnwrap(t *testing.T) {
	err := apperrors.Validation(apperrors.ErrMissingID, "user id is required")
	require.True(t, apperrors.Is(err, apperrors.ErrMissingID))
	require.Equal(t, apperrors.KindValidation, err.Kind)
}

func TestWrapf(t *testing.T) {
	require.NoError(t, apperrors.Wrapf(nil, "ignored"))
	err := apperrors.Wrapf(apperrors.ErrBusy, "list %s", "orgs")
	require.EqualError(t, err, "list orgs: operation already in progress")
	require.True(t, apperrors.Is(err, apperrors.ErrBusy))
}
