package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sareeledger-backend/services"
	"sareeledger-backend/utils"
)

type OCRController struct {
	OCR *services.OCRService
}

// POST /api/ocr/address (multipart: image)
func (oc *OCRController) ScanAddress(c *gin.Context) {
	if _, ok := currentUser(c); !ok {
		return
	}
	header, err := c.FormFile("image")
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Image file is required")
		return
	}
	if header.Size > services.MaxScanBytes {
		utils.RespondWithError(c, http.StatusRequestEntityTooLarge, "Image is too large")
		return
	}
	file, err := header.Open()
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Could not read image")
		return
	}
	defer file.Close()

	scan, err := oc.OCR.ScanAddress(c.Request.Context(), file)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, scan)
}
