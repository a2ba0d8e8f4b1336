package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"sareeledger-backend/config"
	"sareeledger-backend/controllers"
	"sareeledger-backend/logger"
	"sareeledger-backend/utils"
)

// Handlers bundles the controllers the router mounts.
type Handlers struct {
	Sales     *controllers.SaleController
	Customers *controllers.CustomerController
	Dashboard *controllers.DashboardController
	Reports   *controllers.ReportController
	Settings  *controllers.SettingsController
	OCR       *controllers.OCRController
}

func SetupRouter(cfg config.AppConfig, log *logger.Logger, h Handlers) *gin.Engine {
	r := gin.New()

	r.Use(config.Recovery(log))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(config.PerformanceLogger(log))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authRequired := utils.AuthMiddleware(cfg.AuthJWTSecret)

	auth := r.Group("/auth")
	auth.Use(authRequired)
	{
		auth.GET("/me", controllers.Me)
	}

	api := r.Group("/api")
	api.Use(authRequired)
	{
		api.GET("/catalog", controllers.GetCatalog)

		// Sales routes
		sales := api.Group("/sales")
		{
			sales.POST("", h.Sales.CreateSale)
			sales.GET("", h.Sales.GetSales)
			sales.GET("/:id", h.Sales.GetSale)
			sales.PUT("/:id", h.Sales.UpdateSale)
			sales.DELETE("/:id", h.Sales.DeleteSale)
			sales.POST("/:id/thank-you", h.Sales.SendThankYou)
		}

		// Customer routes
		customers := api.Group("/customers")
		{
			customers.POST("", h.Customers.CreateCustomer)
			customers.GET("", h.Customers.GetCustomers)
			customers.GET("/:id", h.Customers.GetCustomer)
			customers.PUT("/:id", h.Customers.UpdateCustomer)
			customers.DELETE("/:id", h.Customers.DeleteCustomer)
			customers.GET("/:id/stats", h.Customers.GetCustomerStats)
			customers.POST("/:id/preferences/toggle", h.Customers.TogglePreference)
			customers.GET("/:id/photos", h.Customers.GetPhotos)
			customers.POST("/:id/photos", h.Customers.UploadPhoto)
			customers.DELETE("/:id/photos/:photoId", h.Customers.DeletePhoto)
		}

		// Dashboard routes
		api.GET("/dashboard", h.Dashboard.GetDashboardOverview)

		// Reports routes
		reports := api.Group("/reports")
		{
			reports.GET("/ledger", h.Reports.DownloadLedger)
			reports.GET("/ledger/preview", h.Reports.PreviewLedger)
			reports.GET("/cities", h.Reports.GetCityRollup)
		}

		// Settings routes
		api.GET("/settings", h.Settings.GetSettings)
		api.PUT("/settings", h.Settings.UpdateSettings)

		api.POST("/ocr/address", h.OCR.ScanAddress)
	}

	return r
}
