package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sareeledger-backend/services"
	"sareeledger-backend/utils"
)

type SettingsController struct {
	Settings *services.SettingsService
}

// GET /api/settings
func (sc *SettingsController) GetSettings(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	settings, err := sc.Settings.Get(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

// PUT /api/settings
func (sc *SettingsController) UpdateSettings(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var input services.SettingsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	settings, err := sc.Settings.Update(c.Request.Context(), userID, input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}
