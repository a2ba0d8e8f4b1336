package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sareeledger-backend/models"
)

type BuyerSpeedOption struct {
	Value models.BuyerSpeed `json:"value"`
	Label string            `json:"label"`
	Rank  int               `json:"rank"`
}

// GET /api/catalog
func GetCatalog(c *gin.Context) {
	speeds := make([]BuyerSpeedOption, len(models.BuyerSpeeds))
	for i, s := range models.BuyerSpeeds {
		speeds[i] = BuyerSpeedOption{Value: s, Label: s.Label(), Rank: s.Rank()}
	}
	c.JSON(http.StatusOK, gin.H{
		"sareeTypes":     models.SareeTypes,
		"paymentModes":   models.PaymentModes,
		"buyerSpeeds":    speeds,
		"preferenceTags": models.PreferenceTags,
		"cities":         models.DomesticCities,
	})
}
