package api

import (
	"StockAdvisor/internal/domain/models"
	xhttp "StockAdvisor/pkg/http"
)

func init() {
	xhttp.RegisterStringRule("market", "must be US or KR", func(s string) bool {
		_, err := models.ParseMarket(s)
		return err == nil
	})
}
