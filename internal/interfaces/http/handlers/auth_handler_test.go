package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAuthEndpoints_StaffLifecycle(t *testing.T) {
	s := newTestServer(t)
	owner := s.bearerFor(t, "owner")

	w := s.do(t, http.MethodPost, "/api/v1/staff", owner, map[string]interface{}{
		"email":    "clerk@shop.test",
		"name":     "Clerk",
		"password": "password1",
		"role":     "staff",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]interface{}{
		"email":    "clerk@shop.test",
		"password": "password1",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decodeBody(t, w)
	require.NotEmpty(t, body["accessToken"])
	refreshToken := body["refreshToken"].(string)
	user := body["user"].(map[string]interface{})
	require.Equal(t, s.merchantID.String(), user["merchantId"])

	// the issued token works against protected routes
	w = s.do(t, http.MethodPost, "/api/v1/tokens", "Bearer "+body["accessToken"].(string), map[string]interface{}{"type": "qr"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = s.do(t, http.MethodPost, "/api/v1/auth/refresh", "", map[string]interface{}{
		"refreshToken": refreshToken,
	})
	require.Equal(t, http.StatusOK, w.Code)
	require.NotEmpty(t, decodeBody(t, w)["accessToken"])
}

func TestAuthEndpoints_LoginRejectsBadCredentials(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]interface{}{
		"email":    "ghost@shop.test",
		"password": "whatever1",
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Equal(t, "ERR_INVALID_CREDENTIALS", decodeBody(t, w)["code"])

	w = s.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]interface{}{
		"email": "not-an-email",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthEndpoints_CreateStaffIsOwnerOnly(t *testing.T) {
	s := newTestServer(t)
	manager := s.bearerFor(t, "manager")

	w := s.do(t, http.MethodPost, "/api/v1/staff", manager, map[string]interface{}{
		"email":    "x@shop.test",
		"name":     "X",
		"password": "password1",
		"role":     "staff",
	})
	require.Equal(t, http.StatusForbidden, w.Code)
}
