// controllers/sale.go
package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"sareeledger-backend/services"
	"sareeledger-backend/utils"
)

type SaleController struct {
	Sales    *services.SaleService
	ThankYou *services.ThankYouService
}

type ThankYouRequest struct {
	Send bool `json:"send"`
}

// POST /api/sales
func (sc *SaleController) CreateSale(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var input services.SaleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	sale, offer, err := sc.Sales.Record(c.Request.Context(), userID, input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"sale": sale, "thankYou": offer})
}

// GET /api/sales?limit=50
func (sc *SaleController) GetSales(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	limit := services.DefaultSaleListLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = n
	}

	sales, err := sc.Sales.List(c.Request.Context(), userID, limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, sales)
}

// GET /api/sales/:id
func (sc *SaleController) GetSale(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	saleID, ok := pathID(c, "id", "sale")
	if !ok {
		return
	}
	sale, err := sc.Sales.Get(c.Request.Context(), userID, saleID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, sale)
}

// PUT /api/sales/:id
func (sc *SaleController) UpdateSale(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	saleID, ok := pathID(c, "id", "sale")
	if !ok {
		return
	}

	var input services.SaleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	sale, err := sc.Sales.Update(c.Request.Context(), userID, saleID, input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, sale)
}

// DELETE /api/sales/:id
func (sc *SaleController) DeleteSale(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	saleID, ok := pathID(c, "id", "sale")
	if !ok {
		return
	}
	if err := sc.Sales.Delete(c.Request.Context(), userID, saleID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Sale deleted successfully"})
}

// POST /api/sales/:id/thank-you
func (sc *SaleController) SendThankYou(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	saleID, ok := pathID(c, "id", "sale")
	if !ok {
		return
	}

	var req ThankYouRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
			return
		}
	}

	result, err := sc.ThankYou.Send(c.Request.Context(), userID, saleID, req.Send)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
