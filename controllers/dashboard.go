package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"sareeledger-backend/services"
	"sareeledger-backend/utils"
)

type DashboardController struct {
	Dashboard *services.DashboardService
	Now       func() time.Time
}

type DashboardQuery struct {
	Date string `form:"date" binding:"omitempty,iso_date"`
}

// GET /api/dashboard?date=YYYY-MM-DD
func (dc *DashboardController) GetDashboardOverview(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var query DashboardQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD")
		return
	}
	ref, err := utils.DateOrToday(query.Date, dc.Now())
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	overview, err := dc.Dashboard.Build(c.Request.Context(), userID, ref)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, overview)
}
