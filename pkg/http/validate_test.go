package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type quoteRequest struct {
	Symbol string `query:"symbol" json:"symbol" validate:"required,max=8"`
	Venue  string `query:"venue" json:"venue" default:"NYSE" validate:"venue"`
	Limit  int    `query:"limit" default:"5" validate:"gte=1,lte=50"`
}

func init() {
	RegisterStringRule("venue", "must be NYSE or KRX", func(s string) bool {
		return s == "NYSE" || s == "KRX"
	})
}

func bindQuery(t *testing.T, target string, req interface{}) []ValidationError {
	t.Helper()
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, target, nil), httptest.NewRecorder())
	return ReadAndValidateRequest(c, req)
}

func TestReadAndValidateRequestAppliesDefaults(t *testing.T) {
	req := &quoteRequest{}
	require.Nil(t, bindQuery(t, "/quote?symbol=AAPL", req))
	assert.Equal(t, quoteRequest{Symbol: "AAPL", Venue: "NYSE", Limit: 5}, *req)
}

func TestReadAndValidateRequestReportsClientFieldNames(t *testing.T) {
	errs := bindQuery(t, "/quote?venue=LSE&limit=99", &quoteRequest{})
	require.Len(t, errs, 3)

	byField := map[string]ValidationError{}
	for _, e := range errs {
		byField[e.Field] = e
	}
	assert.Equal(t, "ERR_REQUIRED", byField["symbol"].Code)
	assert.Equal(t, "venue must be NYSE or KRX", byField["venue"].Message)
	assert.Equal(t, "ERR_VENUE", byField["venue"].Code)
	assert.Equal(t, "ERR_LTE", byField["limit"].Code)
	assert.Equal(t, "50", byField["limit"].Params["max"])
}

func TestReadAndValidateRequestMalformedBody(t *testing.T) {
	e := echo.New()
	r := httptest.NewRequest(http.MethodPost, "/quote", strings.NewReader(`{"symbol":`))
	r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	c := e.NewContext(r, httptest.NewRecorder())

	errs := ReadAndValidateRequest(c, &quoteRequest{})
	require.Len(t, errs, 1)
	assert.Equal(t, "ERR_MALFORMED", errs[0].Code)
	assert.Empty(t, errs[0].Field)
}
