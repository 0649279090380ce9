package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"StockAdvisor/internal/domain/models"
	"StockAdvisor/internal/usecase"
	xhttp "StockAdvisor/pkg/http"
	xlogger "StockAdvisor/pkg/logger"
)

// Analyzer is the part of usecase.AnalyzeUseCase the HTTP layer needs.
type Analyzer interface {
	Analyze(ctx context.Context, p usecase.AnalyzeParams) (*models.Decision, error)
	ClearCache(ctx context.Context, ticker, market string) error
	Roles() []models.RoleInfo
	UpdateWeights(scores map[string]float64) ([]models.RoleInfo, error)
}

// AnalysisEchoHandler serves the analysis endpoints.
type AnalysisEchoHandler struct {
	logger  *xlogger.Logger
	uc      Analyzer
	limiter echo.MiddlewareFunc
}

// NewAnalysisEchoHandler creates the handler. limiter guards the analyze routes and may be nil.
func NewAnalysisEchoHandler(logger *xlogger.Logger, uc Analyzer, limiter echo.MiddlewareFunc) *AnalysisEchoHandler {
	return &AnalysisEchoHandler{logger: logger, uc: uc, limiter: limiter}
}

func (h *AnalysisEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	var guarded []echo.MiddlewareFunc
	if h.limiter != nil {
		guarded = append(guarded, h.limiter)
	}
	g.POST("/analyze", h.Analyze, guarded...)
	g.GET("/analyze", h.Analyze, guarded...)
	g.GET("/roles", h.Roles)
	g.PUT("/roles/weights", h.UpdateWeights)
	g.DELETE("/cache", h.ClearCache)
}

// Analyze runs one analysis. POST reads a JSON body, GET reads the query string.
func (h *AnalysisEchoHandler) Analyze(c echo.Context) error {
	req := &models.AnalyzeRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	d, err := h.uc.Analyze(c.Request().Context(), usecase.AnalyzeParams{
		Ticker:       req.Ticker,
		Market:       req.Market,
		PeriodMonths: req.PeriodMonths,
	})
	if err != nil {
		appErr := ToAppError(err)
		if appErr.Status >= http.StatusInternalServerError {
			h.logger.Error("analyze usecase error", xlogger.String("ticker", req.Ticker), xlogger.Error(err))
		}
		return xhttp.AppErrorResponse(c, appErr)
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "no-store")
	return xhttp.SuccessResponse(c, d)
}

func (h *AnalysisEchoHandler) Roles(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.uc.Roles())
}

// UpdateWeights rescales role weights from performance scores. The new weights
// apply to analyses started afterwards.
func (h *AnalysisEchoHandler) UpdateWeights(c echo.Context) error {
	req := &models.RoleWeightsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	roles, err := h.uc.UpdateWeights(req.Scores)
	if err != nil {
		return xhttp.AppErrorResponse(c, ToAppError(err))
	}
	return xhttp.SuccessResponse(c, roles)
}

// ClearCache drops cached snapshots for one ticker, one market or everything.
func (h *AnalysisEchoHandler) ClearCache(c echo.Context) error {
	req := &models.CacheClearRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	market := req.Market
	if req.Ticker == "" && c.QueryParam("market") == "" {
		market = ""
	}
	if err := h.uc.ClearCache(c.Request().Context(), req.Ticker, market); err != nil {
		h.logger.Error("clear cache error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, ToAppError(err))
	}
	return xhttp.NoContentResponse(c)
}

// ToAppError maps engine errors onto HTTP errors.
func ToAppError(err error) *xhttp.AppError {
	var (
		appErr *xhttp.AppError
		ire    *models.InvalidRequestError
		du     *models.DataUnavailable
		af     *models.AnalysisFailed
	)
	switch {
	case errors.As(err, &appErr):
		return appErr
	case errors.As(err, &ire):
		return xhttp.NewAppError("ERR_BAD_REQUEST", ire.Field, ire.Error(), http.StatusBadRequest).WithError(err)
	case errors.As(err, &du):
		causes := make([]string, 0, len(du.Causes))
		for _, c := range du.Causes {
			causes = append(causes, c.Error())
		}
		return xhttp.NewAppError("ERR_DATA_UNAVAILABLE", "", "market data unavailable for "+du.Ticker, http.StatusServiceUnavailable).
			WithParam("causes", causes).
			WithError(err)
	case errors.As(err, &af):
		kinds := make(map[string]string, len(af.Outcomes))
		for role, k := range af.ErrorKinds() {
			kinds[role] = string(k)
		}
		return xhttp.NewAppError("ERR_ANALYSIS_FAILED", "", "no analyst produced an opinion for "+af.Ticker, http.StatusBadGateway).
			WithParam("roles", kinds).
			WithError(err)
	default:
		return xhttp.InternalError("analysis failed").WithError(err)
	}
}
