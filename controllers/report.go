package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"sareeledger-backend/models"
	"sareeledger-backend/services"
	"sareeledger-backend/utils"
)

type ReportController struct {
	Reports *services.ReportService
	Now     func() time.Time
}

type MonthQuery struct {
	Month string `form:"month" binding:"omitempty,year_month"`
}

// GET /api/reports/ledger?month=YYYY-MM
func (rc *ReportController) DownloadLedger(c *gin.Context) {
	ledger, ok := rc.ledger(c)
	if !ok {
		return
	}
	buf, err := services.WriteLedgerWorkbook(ledger)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", services.LedgerFileName(ledger)))
	c.Data(http.StatusOK, services.XLSXContentType, buf.Bytes())
}

// GET /api/reports/ledger/preview?month=YYYY-MM
func (rc *ReportController) PreviewLedger(c *gin.Context) {
	ledger, ok := rc.ledger(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, ledger.Preview())
}

// GET /api/reports/cities
func (rc *ReportController) GetCityRollup(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	cities, err := rc.Reports.Cities(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, cities)
}

func (rc *ReportController) ledger(c *gin.Context) (*services.Ledger, bool) {
	userID, ok := currentUser(c)
	if !ok {
		return nil, false
	}
	month, ok := rc.month(c)
	if !ok {
		return nil, false
	}
	ledger, err := rc.Reports.Ledger(c.Request.Context(), userID, month)
	if err != nil {
		respondServiceError(c, err)
		return nil, false
	}
	return ledger, true
}

func (rc *ReportController) month(c *gin.Context) (models.YearMonth, bool) {
	var query MonthQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid month, expected YYYY-MM")
		return models.YearMonth{}, false
	}
	month, err := utils.MonthOrCurrent(query.Month, rc.Now())
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, err.Error())
		return models.YearMonth{}, false
	}
	return month, true
}
