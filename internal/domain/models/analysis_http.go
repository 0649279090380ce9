package models

// Requests for the analysis HTTP endpoints.

type AnalyzeRequest struct {
	Ticker       string `query:"ticker" json:"ticker" validate:"required,max=16"`
	Market       string `query:"market" json:"market" default:"US" validate:"market"`
	PeriodMonths int    `query:"period_months" json:"period_months" default:"12" validate:"gte=1,lte=60"`
}

type CacheClearRequest struct {
	Ticker string `query:"ticker" json:"ticker" validate:"max=16"`
	Market string `query:"market" json:"market" default:"US" validate:"market"`
}

// RoleWeightsRequest carries performance scores in [0, 1] keyed by role name.
type RoleWeightsRequest struct {
	Scores map[string]float64 `json:"scores" validate:"required,min=1,dive,gte=0,lte=1"`
}

type RoleInfo struct {
	Name        string  `json:"name"`
	DisplayName string  `json:"display_name"`
	Weight      float64 `json:"weight"`
}
