package handler

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/guptahg47869-hub/casting-tracker/internal/casting/testutil"
)

func TestReserveAdjustRoundTrip(t *testing.T) {
	env := setupCastingTest(t)
	token := testutil.DefaultTestToken()
	metal := metalByName(t, env.DB, "10K")

	// Seeded reserves start at zero
	if qty := reserveQty(t, env, token, metal.ID); qty != 0 {
		t.Fatalf("Expected fresh reserve at 0, got %v", qty)
	}

	// Manual add
	w := testutil.DoRequest(env.Router, "POST", "/api/v1/scrap/adjust",
		map[string]interface{}{"metal_id": metal.ID, "action": "add", "amount": 100.0}, token)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	reserve := testutil.ParseResponse(w)["data"].(map[string]interface{})
	if reserve["qty_on_hand"].(float64) != 100 {
		t.Errorf("Expected qty 100, got %v", reserve["qty_on_hand"])
	}

	// Manual remove
	w = testutil.DoRequest(env.Router, "POST", "/api/v1/scrap/adjust",
		map[string]interface{}{"metal_id": metal.ID, "action": "remove", "amount": 40.0}, token)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if qty := reserveQty(t, env, token, metal.ID); qty != 60 {
		t.Errorf("Expected qty 60 after remove, got %v", qty)
	}

	// Both adjustments landed in the journal with running balances
	w = testutil.DoRequest(env.Router, "GET", fmt.Sprintf("/api/v1/scrap/movements?metal_id=%d", metal.ID), nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	movements := testutil.ParseResponse(w)["data"].([]interface{})
	if len(movements) != 2 {
		t.Fatalf("Expected 2 movements, got %d", len(movements))
	}
	latest := movements[0].(map[string]interface{})
	if latest["action"] != "remove" || latest["balance_after"].(float64) != 60 {
		t.Errorf("Expected latest movement remove with balance 60, got %v", latest)
	}
	if latest["amount"].(float64) != -40 {
		t.Errorf("Expected signed amount -40, got %v", latest["amount"])
	}
	if latest["reference"] != "manual" {
		t.Errorf("Expected reference manual, got %v", latest["reference"])
	}
}

func TestReserveRemoveBelowZeroRejected(t *testing.T) {
	env := setupCastingTest(t)
	token := testutil.DefaultTestToken()
	metal := metalByName(t, env.DB, "18W")

	addReserve(t, env, token, metal.ID, 30)

	w := testutil.DoRequest(env.Router, "POST", "/api/v1/scrap/adjust",
		map[string]interface{}{"metal_id": metal.ID, "action": "remove", "amount": 30.5}, token)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d: %s", w.Code, w.Body.String())
	}
	if qty := reserveQty(t, env, token, metal.ID); qty != 30 {
		t.Errorf("Expected reserve untouched at 30, got %v", qty)
	}
}

func TestReserveAdjustValidation(t *testing.T) {
	env := setupCastingTest(t)
	token := testutil.DefaultTestToken()
	metal := metalByName(t, env.DB, "14R")

	// Unknown action
	w := testutil.DoRequest(env.Router, "POST", "/api/v1/scrap/adjust",
		map[string]interface{}{"metal_id": metal.ID, "action": "set", "amount": 10.0}, token)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400 for unknown action, got %d: %s", w.Code, w.Body.String())
	}

	// Non-positive amount
	w = testutil.DoRequest(env.Router, "POST", "/api/v1/scrap/adjust",
		map[string]interface{}{"metal_id": metal.ID, "action": "add", "amount": 0.0}, token)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400 for zero amount, got %d: %s", w.Code, w.Body.String())
	}

	// Movements needs a metal id
	w = testutil.DoRequest(env.Router, "GET", "/api/v1/scrap/movements", nil, token)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400 without metal_id, got %d: %s", w.Code, w.Body.String())
	}
}
