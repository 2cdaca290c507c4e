package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/Hiba-rahimi/mastercard-reconciliation/internal/api"
	"github.com/Hiba-rahimi/mastercard-reconciliation/internal/domain"
	"github.com/Hiba-rahimi/mastercard-reconciliation/internal/repository"
	"github.com/Hiba-rahimi/mastercard-reconciliation/internal/service"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockRunner records the input of the last run
type MockRunner struct {
	Input    service.RunInput
	Contents map[string]string
	Result   *domain.ReconciliationResult
	Err      error
}

func (m *MockRunner) Run(_ context.Context, in service.RunInput) (*domain.ReconciliationResult, error) {
	m.Input = in
	m.Contents = make(map[string]string)

	// uploads only live for the duration of the run
	paths := map[string]string{"report": in.ReportPath, "recycled": in.RecycledPath}
	for kind, src := range in.Sources {
		paths[string(kind)] = src.Path
	}
	for name, path := range paths {
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		m.Contents[name] = string(data)
	}
	return m.Result, m.Err
}

func newArchive(t *testing.T) *repository.SQLiteArchive {
	t.Helper()
	db, err := repository.InitDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return repository.NewSQLiteArchive(db)
}

func multipartBody(t *testing.T, files map[string][2]string, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for field, f := range files {
		fw, err := mw.CreateFormFile(field, f[0])
		require.NoError(t, err)
		_, err = fw.Write([]byte(f[1]))
		require.NoError(t, err)
	}
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func do(t *testing.T, h http.Handler, req *http.Request) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return rec, body
}

func TestCreateRun(t *testing.T) {
	runner := &MockRunner{Result: &domain.ReconciliationResult{RunID: "run-1", Outcome: domain.OutcomeExactMatch}}
	router := api.NewRouter(runner, nil)

	body, contentType := multipartBody(t,
		map[string][2]string{
			"report": {"TT140.txt", "RUN DATE: 05/22/24"},
			"pos":    {"TRANSACTION_POS_TRAITE_SG_24-05-21_101010.CSV", "FILIALE;RESEAU"},
		},
		map[string]string{"cutoff": "2024-05-21", "archive": "true"},
	)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/runs", body)
	req.Header.Set("Content-Type", contentType)

	rec, resp := do(t, router, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, "run-1", resp["run_id"])

	assert.Equal(t, "RUN DATE: 05/22/24", runner.Contents["report"])
	assert.Equal(t, "FILIALE;RESEAU", runner.Contents[string(domain.SourcePOS)])
	assert.Equal(t, "TRANSACTION_POS_TRAITE_SG_24-05-21_101010.CSV", runner.Input.Sources[domain.SourcePOS].FileName)
	assert.NotContains(t, runner.Input.Sources, domain.SourceManual)
	assert.Empty(t, runner.Input.RecycledPath)
	assert.Equal(t, time.Date(2024, 5, 21, 0, 0, 0, 0, time.UTC), runner.Input.Cutoff)
	assert.True(t, runner.Input.Archive)

	_, err := os.Stat(runner.Input.ReportPath)
	assert.True(t, os.IsNotExist(err), "uploads are removed after the run")
}

func TestCreateRun_BadRequests(t *testing.T) {
	router := api.NewRouter(&MockRunner{}, nil)

	tests := []struct {
		name   string
		files  map[string][2]string
		fields map[string]string
	}{
		{"missing report", map[string][2]string{"pos": {"p.csv", "x"}}, nil},
		{"bad cutoff", map[string][2]string{"report": {"r.txt", "x"}}, map[string]string{"cutoff": "21/05/2024"}},
		{"bad archive flag", map[string][2]string{"report": {"r.txt", "x"}}, map[string]string{"archive": "maybe"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, contentType := multipartBody(t, tt.files, tt.fields)
			req := httptest.NewRequest(http.MethodPost, "/api/v1/runs", body)
			req.Header.Set("Content-Type", contentType)

			rec, resp := do(t, router, req)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.NotEmpty(t, resp["error"])
		})
	}

	t.Run("not multipart", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/runs", bytes.NewBufferString("{}"))
		req.Header.Set("Content-Type", "application/json")
		rec, _ := do(t, router, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestCreateRun_RunErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{
			name:     "run error",
			err:      domain.NewRunError("settlement report", "Cannot find the run date in the settlement report", domain.ErrRunDateLineMissing),
			wantCode: http.StatusUnprocessableEntity,
			wantMsg:  "Cannot find the run date in the settlement report",
		},
		{
			name:     "unexpected error",
			err:      errors.New("boom"),
			wantCode: http.StatusInternalServerError,
			wantMsg:  "boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := api.NewRouter(&MockRunner{Err: tt.err}, nil)
			body, contentType := multipartBody(t, map[string][2]string{"report": {"r.txt", "x"}}, nil)
			req := httptest.NewRequest(http.MethodPost, "/api/v1/runs", body)
			req.Header.Set("Content-Type", contentType)

			rec, resp := do(t, router, req)
			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantMsg, resp["error"])
		})
	}
}

func seedArchive(t *testing.T, archive *repository.SQLiteArchive) {
	t.Helper()
	ctx := context.Background()
	rows := []domain.ReconciledRow{
		{Subsidiary: "SG - SENEGAL", Network: "MASTERCARD INTERNATIONAL", Type: domain.Purchase, Date: "2024-05-21",
			Currency: "XOF", TotalCount: 10, TotalAmount: decimal.NewFromInt(1000), Status: domain.StatusMismatched,
			RejectCount: 1, RejectAmount: decimal.NewFromInt(150), CoveredCount: 11, CoveredAmount: decimal.NewFromInt(1150)},
		{Subsidiary: "SG - CAMEROUN", Network: "MASTERCARD INTERNATIONAL", Type: domain.Purchase, Date: "2024-05-21",
			Currency: "XAF", TotalCount: 5, TotalAmount: decimal.NewFromInt(500), Status: domain.StatusMatched,
			CoveredCount: 5, CoveredAmount: decimal.NewFromInt(500)},
	}
	require.NoError(t, archive.SaveResults(ctx, "run-1", rows))
	require.NoError(t, archive.SaveRejects(ctx, "run-1", []domain.RejectRecord{
		{Subsidiary: "SG - SENEGAL", Network: "MASTERCARD INTERNATIONAL", ARN: "1", TransactionDate: "2024-05-21",
			Amount: decimal.NewFromInt(150), Currency: "XOF", Reason: "INVALID"},
	}))
}

func TestListResults(t *testing.T) {
	archive := newArchive(t)
	seedArchive(t, archive)
	router := api.NewRouter(&MockRunner{}, archive)

	tests := []struct {
		name      string
		query     string
		wantCode  int
		wantTotal float64
	}{
		{"by date", "?date=2024-05-21", http.StatusOK, 2},
		{"by other date", "?date=2024-05-20", http.StatusOK, 0},
		{"by status", "?status=NOT%20OK", http.StatusOK, 1},
		{"bad status", "?status=MAYBE", http.StatusBadRequest, 0},
		{"bad date", "?date=05/21/24", http.StatusBadRequest, 0},
		{"no filter", "", http.StatusBadRequest, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/results"+tt.query, nil)
			rec, resp := do(t, router, req)
			assert.Equal(t, tt.wantCode, rec.Code)
			if tt.wantCode == http.StatusOK {
				assert.Equal(t, tt.wantTotal, resp["total"])
				assert.NotNil(t, resp["results"])
			}
		})
	}
}

func TestStats(t *testing.T) {
	archive := newArchive(t)
	seedArchive(t, archive)
	router := api.NewRouter(&MockRunner{}, archive)

	t.Run("status", func(t *testing.T) {
		rec, resp := do(t, router, httptest.NewRequest(http.MethodGet, "/api/v1/stats/status", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Len(t, resp["by_status"], 2)
		assert.Len(t, resp["by_subsidiary"], 2)
	})

	t.Run("subsidiaries since", func(t *testing.T) {
		rec, resp := do(t, router, httptest.NewRequest(http.MethodGet, "/api/v1/stats/subsidiaries?since=2024-05-01", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "2024-05-01", resp["since"])
		assert.Len(t, resp["subsidiaries"], 2)
	})

	t.Run("rejects", func(t *testing.T) {
		rec, resp := do(t, router, httptest.NewRequest(http.MethodGet, "/api/v1/stats/rejects", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		subs := resp["subsidiaries"].([]any)
		require.Len(t, subs, 1)
		assert.Equal(t, "SG - SENEGAL", subs[0].(map[string]any)["subsidiary"])
		assert.Equal(t, float64(150), subs[0].(map[string]any)["amount"])
	})

	t.Run("bad days", func(t *testing.T) {
		rec, _ := do(t, router, httptest.NewRequest(http.MethodGet, "/api/v1/stats/rejects?days=-3", nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestArchiveNotConfigured(t *testing.T) {
	router := api.NewRouter(&MockRunner{}, nil)

	for _, path := range []string{
		"/api/v1/results?date=2024-05-21",
		"/api/v1/stats/status",
		"/api/v1/stats/subsidiaries",
		"/api/v1/stats/rejects",
	} {
		rec, resp := do(t, router, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code, path)
		assert.Equal(t, "archive is not configured", resp["error"], path)
	}
}
