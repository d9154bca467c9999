package routes

import (
	"net/http"

	"invoices-dashboard-backend/config"
	"invoices-dashboard-backend/controllers"
	"invoices-dashboard-backend/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Auth      *controllers.AuthController
	Dashboard *controllers.DashboardController
	Invoices  *controllers.InvoiceController
	Customers *controllers.CustomerController
}

func SetupRouter(h Handlers, httpCfg config.HTTPConfig, jwtSecret string, logger *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     httpCfg.CORSAllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length", "Location"},
		AllowCredentials: true,
	}))

	r.Use(config.PerformanceLogger(logger))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	auth := r.Group("/auth")
	{
		auth.POST("/login", h.Auth.Login)
	}

	api := r.Group("/api")
	api.Use(utils.AuthMiddleware(jwtSecret))
	{
		dashboard := api.Group("/dashboard")
		{
			dashboard.GET("/revenue", h.Dashboard.GetRevenue)
			dashboard.GET("/latest-invoices", h.Dashboard.GetLatestInvoices)
			dashboard.GET("/cards", h.Dashboard.GetCards)
		}

		invoices := api.Group("/invoices")
		{
			invoices.GET("", h.Invoices.GetInvoices)
			invoices.GET("/pages", h.Invoices.GetInvoicePages)
			invoices.GET("/:id", h.Invoices.GetInvoice)
			invoices.POST("", h.Invoices.CreateInvoice)
			invoices.PUT("/:id", h.Invoices.UpdateInvoice)
			invoices.DELETE("/:id", h.Invoices.DeleteInvoice)
		}

		customers := api.Group("/customers")
		{
			customers.GET("", h.Customers.GetCustomers)
			customers.GET("/summary", h.Customers.GetCustomerSummary)
		}
	}

	return r
}
