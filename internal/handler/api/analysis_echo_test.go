package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockAdvisor/internal/domain/models"
	"StockAdvisor/internal/usecase"
	xlogger "StockAdvisor/pkg/logger"
)

type fakeAnalyzer struct {
	got      usecase.AnalyzeParams
	decision *models.Decision
	err      error
	cleared  []string
	scores   map[string]float64
}

func (f *fakeAnalyzer) Analyze(_ context.Context, p usecase.AnalyzeParams) (*models.Decision, error) {
	f.got = p
	return f.decision, f.err
}

func (f *fakeAnalyzer) ClearCache(_ context.Context, ticker, market string) error {
	f.cleared = append(f.cleared, market+"/"+ticker)
	return nil
}

func (f *fakeAnalyzer) Roles() []models.RoleInfo {
	return []models.RoleInfo{{Name: "company", DisplayName: "Company Analyst", Weight: 1}}
}

func (f *fakeAnalyzer) UpdateWeights(scores map[string]float64) ([]models.RoleInfo, error) {
	f.scores = scores
	if f.err != nil {
		return nil, f.err
	}
	return []models.RoleInfo{{Name: "company", DisplayName: "Company Analyst", Weight: 1.2}}, nil
}

type envelope struct {
	Status int             `json:"status"`
	Data   json.RawMessage `json:"data"`
}

func serve(t *testing.T, f *fakeAnalyzer, method, target, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	e := echo.New()
	NewAnalysisEchoHandler(xlogger.Nop(), f, nil).RegisterRoutes(e)

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

func TestAnalyzePostReturnsDecision(t *testing.T) {
	f := &fakeAnalyzer{decision: &models.Decision{Ticker: "AAPL", Verdict: models.StanceBuy, Confidence: 0.5, Degraded: true}}

	rec, env := serve(t, f, http.MethodPost, "/api/analyze", `{"ticker":"AAPL","market":"US","period_months":6}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, usecase.AnalyzeParams{Ticker: "AAPL", Market: "US", PeriodMonths: 6}, f.got)
	var d models.Decision
	require.NoError(t, json.Unmarshal(env.Data, &d))
	assert.Equal(t, models.StanceBuy, d.Verdict)
	assert.True(t, d.Degraded)
}

func TestAnalyzeGetAppliesDefaults(t *testing.T) {
	f := &fakeAnalyzer{decision: &models.Decision{Ticker: "MSFT"}}

	rec, _ := serve(t, f, http.MethodGet, "/api/analyze?ticker=MSFT", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, usecase.AnalyzeParams{Ticker: "MSFT", Market: "US", PeriodMonths: 12}, f.got)
}

func TestAnalyzeValidation(t *testing.T) {
	f := &fakeAnalyzer{}

	rec, env := serve(t, f, http.MethodGet, "/api/analyze?market=JP", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, string(env.Data), "ERR_REQUIRED")
	assert.Contains(t, string(env.Data), `"field":"market"`)
	assert.Contains(t, string(env.Data), "market must be US or KR")
	assert.Empty(t, f.got.Ticker, "usecase must not run")
}

func TestAnalyzeErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"data unavailable", &models.DataUnavailable{Ticker: "AAPL", Causes: []error{errors.New("tier down")}}, http.StatusServiceUnavailable, "ERR_DATA_UNAVAILABLE"},
		{"analysis failed", &models.AnalysisFailed{Ticker: "AAPL", Outcomes: []models.AnalystOutcome{{RoleName: "macro", ErrorKind: models.ErrorKindAuth}}}, http.StatusBadGateway, "ERR_ANALYSIS_FAILED"},
		{"invalid request", &models.InvalidRequestError{Field: "ticker", Reason: "is required"}, http.StatusBadRequest, "ERR_BAD_REQUEST"},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError, "ERR_INTERNAL"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &fakeAnalyzer{err: tt.err}
			rec, env := serve(t, f, http.MethodGet, "/api/analyze?ticker=AAPL", "")

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.status, env.Status)
			assert.Contains(t, string(env.Data), tt.code)
		})
	}
}

func TestAnalysisFailedCarriesRoleKinds(t *testing.T) {
	appErr := ToAppError(&models.AnalysisFailed{Ticker: "AAPL", Outcomes: []models.AnalystOutcome{
		{RoleName: "macro", ErrorKind: models.ErrorKindRateLimit},
		{RoleName: "risk", ErrorKind: models.ErrorKindTimeout},
	}})
	assert.Equal(t, map[string]string{"macro": "RATE_LIMIT", "risk": "TIMEOUT"}, appErr.Params["roles"])
}

func TestRolesAndClearCache(t *testing.T) {
	f := &fakeAnalyzer{}

	rec, env := serve(t, f, http.MethodGet, "/api/roles", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(env.Data), "Company Analyst")

	rec, _ = serve(t, f, http.MethodDelete, "/api/cache?ticker=aapl&market=US", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec, _ = serve(t, f, http.MethodDelete, "/api/cache", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, []string{"US/aapl", "/"}, f.cleared)
}

func TestUpdateRoleWeights(t *testing.T) {
	f := &fakeAnalyzer{}

	rec, env := serve(t, f, http.MethodPut, "/api/roles/weights", `{"scores":{"company":0.7}}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]float64{"company": 0.7}, f.scores)
	assert.JSONEq(t, `[{"name":"company","display_name":"Company Analyst","weight":1.2}]`, string(env.Data))
}

func TestUpdateRoleWeightsRejectsBadScores(t *testing.T) {
	f := &fakeAnalyzer{}

	rec, _ := serve(t, f, http.MethodPut, "/api/roles/weights", `{"scores":{"company":1.5}}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Nil(t, f.scores)

	rec, _ = serve(t, f, http.MethodPut, "/api/roles/weights", `{"scores":{}}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	f.err = &models.InvalidRequestError{Field: "scores", Reason: `unknown role "astrologer"`}
	rec, env := serve(t, f, http.MethodPut, "/api/roles/weights", `{"scores":{"astrologer":0.5}}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, string(env.Data), "ERR_BAD_REQUEST")
}
