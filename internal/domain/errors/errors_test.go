package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAppError_ErrorAndUnwrap(t *testing.T) {
	inner := errors.New("boom")
	appErr := NewAppError(http.StatusBadRequest, "ERR_INVALID_INPUT", "bad", inner)
	require.Equal(t, "boom", appErr.Error())
	require.ErrorIs(t, appErr, inner)

	noInner := &AppError{Status: http.StatusNotFound, Message: "missing"}
	require.Equal(t, "missing", noInner.Error())
}

func TestFromDomain_SentinelMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{ErrNotFound, http.StatusNotFound, "ERR_NOT_FOUND"},
		{ErrRewardNotFound, http.StatusNotFound, "ERR_REWARD_NOT_FOUND"},
		{ErrRulesMissing, http.StatusConflict, "ERR_RULES_MISSING"},
		{ErrInsufficientPoints, http.StatusUnprocessableEntity, "ERR_INSUFFICIENT_POINTS"},
		{ErrIdempotencyConflict, http.StatusInternalServerError, "ERR_IDEMPOTENCY_CONFLICT"},
		{ErrCustomerBlocked, http.StatusForbidden, "ERR_CUSTOMER_BLOCKED"},
		{ErrTokenRevoked, http.StatusGone, "ERR_TOKEN_REVOKED"},
		{ErrAlreadyExists, http.StatusConflict, "ERR_ALREADY_EXISTS"},
		{ErrInvalidInput, http.StatusBadRequest, "ERR_INVALID_INPUT"},
		{ErrInvalidCredentials, http.StatusUnauthorized, "ERR_INVALID_CREDENTIALS"},
		{ErrUnauthorized, http.StatusUnauthorized, "ERR_UNAUTHORIZED"},
		{ErrForbidden, http.StatusForbidden, "ERR_FORBIDDEN"},
		{errors.New("anything else"), http.StatusInternalServerError, "ERR_INTERNAL"},
	}

	for _, tc := range cases {
		appErr := FromDomain(tc.err)
		require.Equal(t, tc.status, appErr.Status, tc.err.Error())
		require.Equal(t, tc.code, appErr.Code, tc.err.Error())
	}
}

func TestFromDomain_WrappedSentinel(t *testing.T) {
	wrapped := fmt.Errorf("earn failed: %w", ErrRulesMissing)
	appErr := FromDomain(wrapped)
	require.Equal(t, http.StatusConflict, appErr.Status)
	require.Equal(t, "ERR_RULES_MISSING", appErr.Code)
}

func TestFromDomain_PreservesAppError(t *testing.T) {
	orig := BadRequest("amount must be positive")
	got := FromDomain(fmt.Errorf("wrap: %w", orig))
	require.Same(t, orig, got)

	nf := NotFound("no such token")
	require.Equal(t, http.StatusNotFound, nf.Status)
	require.Equal(t, "no such token", nf.Message)
}
