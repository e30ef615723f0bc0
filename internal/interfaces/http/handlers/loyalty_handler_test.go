package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func setupRule(t *testing.T, s *testServer, owner string) {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/v1/rules", owner, map[string]interface{}{
		"pointsPerUnit": "1",
		"rounding":      "floor",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func TestLoyaltyEndpoints_EarnAndBalance(t *testing.T) {
	s := newTestServer(t)
	owner := s.bearerFor(t, "owner")
	staff := s.bearerFor(t, "staff")
	setupRule(t, s, owner)
	customerID := s.createCustomer(t)

	w := s.do(t, http.MethodPost, "/api/v1/loyalty/earn", staff, map[string]interface{}{
		"customerId":     customerID,
		"amount":         "12.99",
		"idempotencyKey": "e1",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body := decodeBody(t, w)
	require.Equal(t, float64(12), body["pointsDelta"])
	require.Equal(t, false, body["idempotent"])

	// replay answers 200 with the same outcome
	w = s.do(t, http.MethodPost, "/api/v1/loyalty/earn", staff, map[string]interface{}{
		"customerId":     customerID,
		"amount":         "12.99",
		"idempotencyKey": "e1",
	})
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, true, decodeBody(t, w)["idempotent"])

	w = s.do(t, http.MethodGet, "/api/v1/customers/"+customerID.String()+"/balance", staff, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, float64(12), decodeBody(t, w)["balance"])

	w = s.do(t, http.MethodGet, "/api/v1/customers/"+customerID.String()+"/ledger", staff, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, decodeBody(t, w)["entries"], 1)
}

func TestLoyaltyEndpoints_EarnWithoutRules(t *testing.T) {
	s := newTestServer(t)
	staff := s.bearerFor(t, "staff")
	customerID := s.createCustomer(t)

	w := s.do(t, http.MethodPost, "/api/v1/loyalty/earn", staff, map[string]interface{}{
		"customerId":     customerID,
		"amount":         "10",
		"idempotencyKey": "e1",
	})
	require.Equal(t, http.StatusConflict, w.Code)
	require.Equal(t, "ERR_RULES_MISSING", decodeBody(t, w)["code"])
}

func TestLoyaltyEndpoints_AdjustIsOwnerOnly(t *testing.T) {
	s := newTestServer(t)
	owner := s.bearerFor(t, "owner")
	staff := s.bearerFor(t, "staff")
	customerID := s.createCustomer(t)

	payload := map[string]interface{}{
		"customerId":     customerID,
		"pointsDelta":    -20,
		"idempotencyKey": "a1",
		"reason":         "correction",
	}

	w := s.do(t, http.MethodPost, "/api/v1/loyalty/adjust", staff, payload)
	require.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodPost, "/api/v1/loyalty/adjust", owner, payload)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	require.Equal(t, float64(-20), decodeBody(t, w)["balance"])
}

func TestLoyaltyEndpoints_RedeemFlow(t *testing.T) {
	s := newTestServer(t)
	owner := s.bearerFor(t, "owner")
	staff := s.bearerFor(t, "staff")
	setupRule(t, s, owner)
	customerID := s.createCustomer(t)

	w := s.do(t, http.MethodPost, "/api/v1/rewards", owner, map[string]interface{}{
		"name":       "Free Coffee",
		"pointsCost": 50,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	rewardID := decodeBody(t, w)["id"].(string)

	w = s.do(t, http.MethodPost, "/api/v1/loyalty/earn", staff, map[string]interface{}{
		"customerId":     customerID,
		"amount":         "80",
		"idempotencyKey": "e1",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = s.do(t, http.MethodPost, "/api/v1/loyalty/redeem", staff, map[string]interface{}{
		"customerId":     customerID,
		"rewardId":       rewardID,
		"idempotencyKey": "r1",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body := decodeBody(t, w)
	require.Equal(t, float64(30), body["balance"])
	redemptionID := body["redemptionId"].(string)

	// insufficient balance for a second redeem
	w = s.do(t, http.MethodPost, "/api/v1/loyalty/redeem", staff, map[string]interface{}{
		"customerId":     customerID,
		"rewardId":       rewardID,
		"idempotencyKey": "r2",
	})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	require.Equal(t, "ERR_INSUFFICIENT_POINTS", decodeBody(t, w)["code"])

	// reversal restores the balance; staff may not reverse
	w = s.do(t, http.MethodPost, "/api/v1/redemptions/"+redemptionID+"/reverse", staff, map[string]interface{}{
		"idempotencyKey": "rev1",
	})
	require.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodPost, "/api/v1/redemptions/"+redemptionID+"/reverse", owner, map[string]interface{}{
		"idempotencyKey": "rev1",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.Equal(t, float64(80), decodeBody(t, w)["balance"])
}

func TestLoyaltyEndpoints_RequireAuth(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/v1/loyalty/earn", "", map[string]interface{}{})
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(t, http.MethodPost, "/api/v1/loyalty/earn", "Bearer bogus", map[string]interface{}{})
	require.Equal(t, http.StatusUnauthorized, w.Code)
}
