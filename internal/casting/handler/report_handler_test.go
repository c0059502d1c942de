package handler

import (
	"net/http"
	"testing"

	"github.com/guptahg47869-hub/casting-tracker/internal/casting/testutil"
)

func TestTransitReportGroupsByDateAndMetal(t *testing.T) {
	env := setupCastingTest(t)
	token := testutil.DefaultTestToken()
	gold := metalByName(t, env.DB, "14W")
	silver := metalByName(t, env.DB, "SILVER 925")

	trees := []map[string]interface{}{
		{"date": "2026-03-01", "tree_no": 1, "metal_id": gold.ID, "gasket_weight": 100.0, "total_weight": 120.0},
		{"date": "2026-03-01", "tree_no": 2, "metal_id": gold.ID, "gasket_weight": 100.0, "total_weight": 130.0},
		{"date": "2026-03-01", "tree_no": 3, "metal_id": silver.ID, "gasket_weight": 100.0, "total_weight": 140.0},
		{"date": "2026-03-02", "tree_no": 1, "metal_id": gold.ID, "gasket_weight": 100.0, "total_weight": 110.0},
	}
	for _, body := range trees {
		w := testutil.DoRequest(env.Router, "POST", "/api/v1/trees", body, token)
		if w.Code != http.StatusCreated {
			t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
		}
	}

	w := testutil.DoRequest(env.Router, "GET", "/api/v1/reports/transit", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	rows := testutil.ParseResponse(w)["data"].([]interface{})
	if len(rows) != 3 {
		t.Fatalf("Expected 3 date+metal groups, got %d", len(rows))
	}

	// 14W on 03-01: two trees, (20 + 30) wax * 13.25 = 662.5g
	var found bool
	for _, r := range rows {
		row := r.(map[string]interface{})
		if row["date"] == "2026-03-01" && row["metal_name"] == "14W" {
			found = true
			if row["tree_count"].(float64) != 2 {
				t.Errorf("Expected 2 trees, got %v", row["tree_count"])
			}
			if row["metal_weight"].(float64) != 662.5 {
				t.Errorf("Expected 662.5g, got %v", row["metal_weight"])
			}
		}
	}
	if !found {
		t.Error("Expected a group for 14W on 2026-03-01")
	}

	// Range filter cuts the second date off
	w = testutil.DoRequest(env.Router, "GET", "/api/v1/reports/transit?date_from=2026-03-01&date_to=2026-03-01", nil, token)
	if got := len(testutil.ParseResponse(w)["data"].([]interface{})); got != 2 {
		t.Errorf("Expected 2 groups in range, got %d", got)
	}

	// Tree detail rows carry an age
	w = testutil.DoRequest(env.Router, "GET", "/api/v1/reports/transit/trees", nil, token)
	detail := testutil.ParseResponse(w)["data"].([]interface{})
	if len(detail) != 4 {
		t.Fatalf("Expected 4 detail rows, got %d", len(detail))
	}
	first := detail[0].(map[string]interface{})
	if _, ok := first["age_days"]; !ok {
		t.Error("Expected age_days on detail rows")
	}
}

func TestScrapLossExportIsXLSX(t *testing.T) {
	env := setupCastingTest(t)
	token := testutil.DefaultTestToken()

	w := testutil.DoRequest(env.Router, "GET", "/api/v1/reports/scrap-loss/export", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet" {
		t.Errorf("Unexpected content type %q", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); cd == "" {
		t.Error("Expected a Content-Disposition header")
	}
	// XLSX files are zip archives
	if body := w.Body.Bytes(); len(body) < 4 || body[0] != 'P' || body[1] != 'K' {
		t.Error("Expected a zip payload")
	}
}
