package routes

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/assetdesk/assetdesk-backend/internal/admingate"
	"github.com/assetdesk/assetdesk-backend/internal/alerts"
	"github.com/assetdesk/assetdesk-backend/internal/assets"
	"github.com/assetdesk/assetdesk-backend/internal/csvio"
	"github.com/assetdesk/assetdesk-backend/internal/ledger"
	"github.com/assetdesk/assetdesk-backend/internal/lifecycle"
	"github.com/assetdesk/assetdesk-backend/internal/qrexport"
	"github.com/assetdesk/assetdesk-backend/internal/reservations"
	"github.com/assetdesk/assetdesk-backend/internal/summary"
	"github.com/assetdesk/assetdesk-backend/internal/users"
	"github.com/assetdesk/assetdesk-backend/pkg/config"
	"github.com/assetdesk/assetdesk-backend/pkg/db/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&models.Asset{}, &models.Transaction{}, &models.User{}, &models.Reservation{}))

	cfg := &config.Config{}
	cfg.App.Env = "test"
	cfg.JWT = config.JWTConfig{Secret: "secret", Issuer: "assetdesk-test", ExpirationMinutes: 10}

	assetRepo := assets.NewRepository(conn)
	ledgerRepo := ledger.NewRepository(conn)
	userRepo := users.NewRepository(conn)
	reservationRepo := reservations.NewRepository(conn)

	alertService, err := alerts.NewService(assetRepo, ledgerRepo, 0, nil, nil)
	require.NoError(t, err)
	assetService, err := assets.NewService(assetRepo, alertService)
	require.NoError(t, err)
	ledgerService, err := ledger.NewService(ledgerRepo, alertService, nil)
	require.NoError(t, err)
	lifecycleService, err := lifecycle.NewService(assetRepo, ledgerService, nil)
	require.NoError(t, err)
	importer, err := csvio.NewImporter(assetRepo, alertService, nil, nil)
	require.NoError(t, err)
	userService, err := users.NewService(userRepo, config.PasswordConfig{ArgonMemoryKB: 8192, ArgonTime: 1, ArgonParallelism: 1, ArgonSaltLen: 16, ArgonKeyLen: 32})
	require.NoError(t, err)
	reservationService, err := reservations.NewService(reservationRepo, assetRepo, userRepo)
	require.NoError(t, err)
	adminGate, err := admingate.NewService(userRepo, cfg.JWT)
	require.NoError(t, err)
	summaryService, err := summary.NewService(assetRepo, ledgerRepo, config.OpenAIConfig{BaseURL: "https://api.openai.com"}, nil)
	require.NoError(t, err)

	return NewRouter(cfg, nil, nil, Services{
		Assets:       assetService,
		Ledger:       ledgerService,
		Lifecycle:    lifecycleService,
		Alerts:       alertService,
		Importer:     importer,
		QRExport:     qrexport.NewService(64, 2, nil, nil),
		Users:        userService,
		Reservations: reservationService,
		AdminGate:    adminGate,
		Summary:      summaryService,
	})
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	var env envelope
	if strings.HasPrefix(resp.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &env))
	}
	return resp, env
}

func TestHealthEndpoints(t *testing.T) {
	router := newTestRouter(t)

	resp, _ := doJSON(t, router, http.MethodGet, "/health/live", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	require.Equal(t, "test", resp.Header().Get("X-AssetDesk-Env"))

	resp, _ = doJSON(t, router, http.MethodGet, "/health/ready", nil)
	require.Equal(t, http.StatusOK, resp.Code)
}

func TestAssetLifecycleOverHTTP(t *testing.T) {
	router := newTestRouter(t)

	resp, env := doJSON(t, router, http.MethodPost, "/api/v1/assets", map[string]any{
		"id":       "AST-002",
		"name":     "Sony Alpha a7 IV",
		"category": "camera",
	})
	require.Equal(t, http.StatusCreated, resp.Code)

	var created models.Asset
	require.NoError(t, json.Unmarshal(env.Data, &created))
	require.Equal(t, "AST-002", created.ID)
	require.Equal(t, "available", string(created.Status))

	resp, env = doJSON(t, router, http.MethodPost, "/api/v1/assets/AST-002/borrow", map[string]any{
		"userName":  "Alice Chen",
		"signature": "data:image/png;base64,sig",
	})
	require.Equal(t, http.StatusOK, resp.Code)

	var result struct {
		Asset       models.Asset       `json:"asset"`
		Transaction models.Transaction `json:"transaction"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &result))
	require.Equal(t, "borrowed", string(result.Asset.Status))
	require.Equal(t, "Alice Chen", result.Asset.HolderName())
	require.Equal(t, "borrow", string(result.Transaction.Type))

	// Borrowing again conflicts with the current state.
	resp, env = doJSON(t, router, http.MethodPost, "/api/v1/assets/AST-002/borrow", map[string]any{
		"userName": "Bob Park",
	})
	require.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	require.Equal(t, "STATE_CONFLICT", env.Error.Code)

	resp, _ = doJSON(t, router, http.MethodPost, "/api/v1/assets/AST-002/return", map[string]any{
		"userName": "Alice Chen",
	})
	require.Equal(t, http.StatusOK, resp.Code)

	resp, env = doJSON(t, router, http.MethodGet, "/api/v1/assets/AST-002/transactions", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	var transactions []models.Transaction
	require.NoError(t, json.Unmarshal(env.Data, &transactions))
	require.Len(t, transactions, 2)
	require.Equal(t, "return", string(transactions[0].Type))
	require.Equal(t, "borrow", string(transactions[1].Type))
}

func TestBulkEndpointRequiresAdminToken(t *testing.T) {
	router := newTestRouter(t)

	resp, env := doJSON(t, router, http.MethodPost, "/api/v1/assets/bulk", map[string]any{
		"ids":    []string{"a1"},
		"status": "maintenance",
	})
	require.Equal(t, http.StatusUnauthorized, resp.Code)
	require.Equal(t, "UNAUTHORIZED", env.Error.Code)
}

func TestCSVImportAndExport(t *testing.T) {
	router := newTestRouter(t)

	body := "name,category,model,serial\nDrone X,Drone,V2,SN1\n,BadRow,,\nTablet Y,Tablet,T1,SN2\n"
	req := httptest.NewRequest(http.MethodPost, "/api/v1/assets/import", strings.NewReader(body))
	req.Header.Set("Content-Type", "text/csv")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	require.Equal(t, http.StatusOK, resp.Code)

	var env envelope
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &env))
	var result csvio.ImportResult
	require.NoError(t, json.Unmarshal(env.Data, &result))
	require.Equal(t, 2, result.Created)
	require.Equal(t, 1, result.Skipped)

	exportReq := httptest.NewRequest(http.MethodGet, "/api/v1/assets/export", nil)
	exportResp := httptest.NewRecorder()
	router.ServeHTTP(exportResp, exportReq)
	require.Equal(t, http.StatusOK, exportResp.Code)
	require.Equal(t, "text/csv; charset=utf-8", exportResp.Header().Get("Content-Type"))
	require.Contains(t, exportResp.Header().Get("Content-Disposition"), "attachment")
	require.True(t, bytes.HasPrefix(exportResp.Body.Bytes(), []byte{0xEF, 0xBB, 0xBF}))
	require.Contains(t, exportResp.Body.String(), "Drone X")
	require.Contains(t, exportResp.Body.String(), "Tablet Y")
}

func TestQRArchiveDownload(t *testing.T) {
	router := newTestRouter(t)

	resp, _ := doJSON(t, router, http.MethodPost, "/api/v1/assets", map[string]any{
		"name":     "Tripod",
		"category": "camera",
	})
	require.Equal(t, http.StatusCreated, resp.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/assets/qr-archive", nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	require.Equal(t, http.StatusOK, recorder.Code)
	require.Equal(t, "application/zip", recorder.Header().Get("Content-Type"))
	require.Equal(t, "1", recorder.Header().Get("X-QR-Generated"))
}

func TestSummaryFallsBackToPlaceholder(t *testing.T) {
	router := newTestRouter(t)

	resp, env := doJSON(t, router, http.MethodGet, "/api/v1/summary", nil)
	require.Equal(t, http.StatusOK, resp.Code)

	var payload map[string]string
	require.NoError(t, json.Unmarshal(env.Data, &payload))
	require.Equal(t, summary.Placeholder, payload["summary"])
}

func TestAlertsReflectDirectEdits(t *testing.T) {
	router := newTestRouter(t)

	resp, _ := doJSON(t, router, http.MethodPost, "/api/v1/assets", map[string]any{
		"id":       "a1",
		"name":     "Drone",
		"category": "aerial",
	})
	require.Equal(t, http.StatusCreated, resp.Code)

	resp, _ = doJSON(t, router, http.MethodPut, "/api/v1/assets/a1", map[string]any{
		"status": "lost",
	})
	require.Equal(t, http.StatusOK, resp.Code)

	resp, env := doJSON(t, router, http.MethodGet, "/api/v1/alerts", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	var alertList []alerts.Alert
	require.NoError(t, json.Unmarshal(env.Data, &alertList))
	require.Len(t, alertList, 1)
	require.Equal(t, "lost-a1", alertList[0].Key)
}

func TestUnknownFieldRejected(t *testing.T) {
	router := newTestRouter(t)

	resp, env := doJSON(t, router, http.MethodPost, "/api/v1/assets", map[string]any{
		"name":     "Camera",
		"category": "camera",
		"bogus":    true,
	})
	require.Equal(t, http.StatusBadRequest, resp.Code)
	require.Equal(t, "VALIDATION_ERROR", env.Error.Code)
}
