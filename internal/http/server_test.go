package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"toya/internal/services"
	"toya/internal/session"
	"toya/internal/settings"
	"toya/internal/storage/memory"
)

func newTestServer() *Server {
	store := memory.New()
	svc := services.NewReceiptService(store, nil)
	sess := session.New(settings.Defaults(), 5)
	return NewServer(":0", svc, store, sess, 5)
}

func doJSON(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.Handler.ServeHTTP(rec, req)
	return rec
}

func createReceipt(t *testing.T, s *Server, ref string, amount float64) map[string]any {
	t.Helper()
	rec := doJSON(t, s, http.MethodPost, "/receipts", map[string]any{
		"student_name":     "Jane Doe",
		"admission_number": "ADM001",
		"class_grade":      "Grade 1",
		"amount":           amount,
		"reference_id":     ref,
		"date":             "2024-01-05",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rec.Code, rec.Body)
	}
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	return resp
}

func TestCreateReceipt(t *testing.T) {
	s := newTestServer()
	resp := createReceipt(t, s, "REF100001", 50)

	if resp["reference_id"] != "REF100001" {
		t.Errorf("reference_id = %v", resp["reference_id"])
	}
	if resp["qr_payload"] != "TOYA-REC:REF100001|AMT:50.0|DATE:2024-01-05" {
		t.Errorf("qr_payload = %v", resp["qr_payload"])
	}
	if !strings.Contains(resp["amount_words"].(string), "Fifty Dollar") {
		t.Errorf("amount_words = %v", resp["amount_words"])
	}
}

func TestCreateReceiptErrors(t *testing.T) {
	s := newTestServer()

	t.Run("validation failure returns 422", func(t *testing.T) {
		rec := doJSON(t, s, http.MethodPost, "/receipts", map[string]any{
			"admission_number": "ADM001",
			"amount":           50,
		})
		if rec.Code != http.StatusUnprocessableEntity {
			t.Errorf("status = %d, body %s", rec.Code, rec.Body)
		}
	})

	t.Run("non-positive amount returns 422", func(t *testing.T) {
		for _, amount := range []float64{0, -5} {
			rec := doJSON(t, s, http.MethodPost, "/receipts", map[string]any{
				"student_name":     "Jane Doe",
				"admission_number": "ADM001",
				"amount":           amount,
			})
			if rec.Code != http.StatusUnprocessableEntity {
				t.Errorf("amount %v status = %d, body %s", amount, rec.Code, rec.Body)
			}
		}
	})

	t.Run("duplicate reference returns 409", func(t *testing.T) {
		createReceipt(t, s, "REF100001", 50)
		rec := doJSON(t, s, http.MethodPost, "/receipts", map[string]any{
			"student_name":     "Jane Doe",
			"admission_number": "ADM001",
			"amount":           75,
			"reference_id":     "REF100001",
		})
		if rec.Code != http.StatusConflict {
			t.Errorf("status = %d, body %s", rec.Code, rec.Body)
		}
	})

	t.Run("malformed body returns 400", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/receipts", strings.NewReader("not json"))
		rec := httptest.NewRecorder()
		s.Handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d", rec.Code)
		}
	})
}

func TestGetReceipt(t *testing.T) {
	s := newTestServer()
	createReceipt(t, s, "REF100001", 50)

	rec := doJSON(t, s, http.MethodGet, "/receipts/REF100001", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	rec = doJSON(t, s, http.MethodGet, "/receipts/REF999999", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing receipt status = %d", rec.Code)
	}
}

func TestReceiptQRPNG(t *testing.T) {
	s := newTestServer()
	createReceipt(t, s, "REF100001", 50)

	rec := doJSON(t, s, http.MethodGet, "/receipts/REF100001/qr.png", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("Content-Type = %q", ct)
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("\x89PNG")) {
		t.Error("body is not a PNG")
	}
}

func TestListReceiptsPagination(t *testing.T) {
	s := newTestServer()
	for i := 1; i <= 7; i++ {
		rec := doJSON(t, s, http.MethodPost, "/receipts", map[string]any{
			"student_name":     fmt.Sprintf("Student %d", i),
			"admission_number": fmt.Sprintf("ADM%03d", i),
			"amount":           10,
			"date":             fmt.Sprintf("2024-01-%02d", i),
		})
		if rec.Code != http.StatusCreated {
			t.Fatalf("seed %d: %d %s", i, rec.Code, rec.Body)
		}
	}

	rec := doJSON(t, s, http.MethodGet, "/receipts?page=2", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp listReceiptsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Total != 7 || resp.Page != 2 || resp.TotalPages != 2 {
		t.Errorf("pagination = total %d page %d of %d", resp.Total, resp.Page, resp.TotalPages)
	}
	if len(resp.Receipts) != 2 {
		t.Errorf("page 2 rows = %d, want 2", len(resp.Receipts))
	}
}

func TestListReceiptsFilter(t *testing.T) {
	s := newTestServer()
	createReceipt(t, s, "REF100001", 50)

	rec := doJSON(t, s, http.MethodGet, "/receipts?search=jane", nil)
	var resp listReceiptsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Total != 1 {
		t.Errorf("search matched %d, want 1", resp.Total)
	}

	rec = doJSON(t, s, http.MethodGet, "/receipts?search=nobody", nil)
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Total != 0 || resp.Receipts == nil {
		t.Errorf("no-match response = %+v, want empty non-nil list", resp)
	}
}

func TestListReceiptsRemembersView(t *testing.T) {
	s := newTestServer()
	createReceipt(t, s, "REF100001", 50)
	for i := 2; i <= 8; i++ {
		rec := doJSON(t, s, http.MethodPost, "/receipts", map[string]any{
			"student_name":     fmt.Sprintf("Student %d", i),
			"admission_number": fmt.Sprintf("ADM%03d", i),
			"amount":           10,
			"date":             fmt.Sprintf("2024-01-%02d", i),
		})
		if rec.Code != http.StatusCreated {
			t.Fatalf("seed %d: %d %s", i, rec.Code, rec.Body)
		}
	}

	// Start a search, then ask again without parameters: the filter sticks.
	doJSON(t, s, http.MethodGet, "/receipts?search=jane", nil)
	rec := doJSON(t, s, http.MethodGet, "/receipts", nil)
	var resp listReceiptsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Total != 1 {
		t.Fatalf("remembered search matched %d, want 1", resp.Total)
	}

	// A new search replaces it and resets to page one.
	doJSON(t, s, http.MethodGet, "/receipts?search=", nil)
	rec = doJSON(t, s, http.MethodGet, "/receipts?page=2", nil)
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Total != 8 || resp.Page != 2 {
		t.Fatalf("page move = total %d page %d, want total 8 page 2", resp.Total, resp.Page)
	}

	// Parameterless request stays on the remembered page.
	rec = doJSON(t, s, http.MethodGet, "/receipts", nil)
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Page != 2 {
		t.Errorf("remembered page = %d, want 2", resp.Page)
	}
}

func TestDeleteConfirmationFlow(t *testing.T) {
	s := newTestServer()
	createReceipt(t, s, "REF100001", 50)

	// Confirm while idle deletes nothing.
	rec := doJSON(t, s, http.MethodPost, "/receipts/delete/confirm", nil)
	var state deleteStateResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &state); err != nil {
		t.Fatal(err)
	}
	if state.Deleted {
		t.Fatal("idle confirm deleted something")
	}

	// Request then cancel leaves the receipt in place.
	doJSON(t, s, http.MethodPost, "/receipts/REF100001/delete", nil)
	doJSON(t, s, http.MethodPost, "/receipts/delete/cancel", nil)
	if rec := doJSON(t, s, http.MethodGet, "/receipts/REF100001", nil); rec.Code != http.StatusOK {
		t.Fatal("receipt gone after cancelled delete")
	}

	// Request then confirm removes it.
	doJSON(t, s, http.MethodPost, "/receipts/REF100001/delete", nil)
	rec = doJSON(t, s, http.MethodPost, "/receipts/delete/confirm", nil)
	if err := json.Unmarshal(rec.Body.Bytes(), &state); err != nil {
		t.Fatal(err)
	}
	if !state.Deleted {
		t.Fatal("confirm did not delete")
	}
	if rec := doJSON(t, s, http.MethodGet, "/receipts/REF100001", nil); rec.Code != http.StatusNotFound {
		t.Errorf("status after delete = %d, want 404", rec.Code)
	}

	// Arming for a missing reference is a 404.
	if rec := doJSON(t, s, http.MethodPost, "/receipts/REF999999/delete", nil); rec.Code != http.StatusNotFound {
		t.Errorf("arm missing status = %d, want 404", rec.Code)
	}
}

func TestDashboard(t *testing.T) {
	s := newTestServer()
	createReceipt(t, s, "REF100001", 50)

	rec := doJSON(t, s, http.MethodGet, "/dashboard", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp struct {
		TotalCollected     float64 `json:"total_collected"`
		OutstandingEst     float64 `json:"outstanding_estimate"`
		ActiveStudents     int     `json:"active_students"`
		TotalTransactions  int     `json:"total_transactions"`
		MonthlyCollections []any   `json:"monthly_collections"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.TotalCollected != 50.0 || resp.ActiveStudents != 1 || resp.TotalTransactions != 1 {
		t.Errorf("dashboard = %+v", resp)
	}
	if resp.OutstandingEst != 22.5 {
		t.Errorf("outstanding estimate = %v, want 22.5", resp.OutstandingEst)
	}
	if len(resp.MonthlyCollections) != 12 {
		t.Errorf("monthly buckets = %d, want 12", len(resp.MonthlyCollections))
	}
}

func TestReportAndExports(t *testing.T) {
	s := newTestServer()
	createReceipt(t, s, "REF100001", 50)

	rec := doJSON(t, s, http.MethodGet, "/reports?start=2024-01-01&end=2024-01-10", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("report status = %d", rec.Code)
	}
	var report struct {
		TotalCollected float64 `json:"total_collected"`
		Transactions   int     `json:"transactions"`
		Daily          []any   `json:"daily"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatal(err)
	}
	if report.Transactions != 1 || len(report.Daily) != 10 {
		t.Errorf("report = %+v", report)
	}

	rec = doJSON(t, s, http.MethodGet, "/reports?start=bogus&end=2024-01-10", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad range status = %d", rec.Code)
	}

	rec = doJSON(t, s, http.MethodGet, "/reports/export.csv?start=2024-01-01&end=2024-01-10", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("csv status = %d", rec.Code)
	}
	if !strings.HasPrefix(rec.Body.String(), "Reference ID,") {
		t.Errorf("csv header = %q", strings.SplitN(rec.Body.String(), "\n", 2)[0])
	}

	rec = doJSON(t, s, http.MethodGet, "/reports/export.xlsx?start=2024-01-01&end=2024-01-10", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("xlsx status = %d", rec.Code)
	}
	// XLSX is a zip archive.
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("PK")) {
		t.Error("xlsx body is not a zip")
	}
}

func TestBackupDownload(t *testing.T) {
	s := newTestServer()
	createReceipt(t, s, "REF100001", 50)

	rec := doJSON(t, s, http.MethodGet, "/backup.json", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var env struct {
		Version  string `json:"version"`
		Receipts []any  `json:"receipts"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatal(err)
	}
	if env.Version != "1.0" || len(env.Receipts) != 1 {
		t.Errorf("backup = version %q, %d receipts", env.Version, len(env.Receipts))
	}
}

func TestSettingsEndpoints(t *testing.T) {
	s := newTestServer()

	name := "Hilltop Primary"
	rec := doJSON(t, s, http.MethodPut, "/settings", map[string]any{"school_name": name})
	if rec.Code != http.StatusOK {
		t.Fatalf("update status = %d, body %s", rec.Code, rec.Body)
	}

	rec = doJSON(t, s, http.MethodGet, "/settings", nil)
	var got settings.Settings
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got.SchoolName != name {
		t.Errorf("SchoolName = %q", got.SchoolName)
	}
	// The PIN never leaves the server.
	if strings.Contains(rec.Body.String(), "1234") {
		t.Error("settings response leaks the PIN")
	}
}

func TestVerifyPIN(t *testing.T) {
	s := newTestServer()

	rec := doJSON(t, s, http.MethodPost, "/settings/pin/verify", map[string]any{"pin": "0000"})
	if rec.Code != http.StatusForbidden {
		t.Errorf("wrong PIN status = %d", rec.Code)
	}

	rec = doJSON(t, s, http.MethodPost, "/settings/pin/verify", map[string]any{"pin": "1234"})
	if rec.Code != http.StatusOK {
		t.Errorf("correct PIN status = %d", rec.Code)
	}

	rec = doJSON(t, s, http.MethodPost, "/settings/pin/lock", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("lock status = %d", rec.Code)
	}
}

func TestHealthEndpoints(t *testing.T) {
	s := newTestServer()
	if rec := doJSON(t, s, http.MethodGet, "/healthz", nil); rec.Code != http.StatusOK {
		t.Errorf("healthz = %d", rec.Code)
	}
	if rec := doJSON(t, s, http.MethodGet, "/readyz", nil); rec.Code != http.StatusOK {
		t.Errorf("readyz = %d", rec.Code)
	}
}
