package controllers

import (
	"context"
	"net/http"

	"invoices-dashboard-backend/models"
	"invoices-dashboard-backend/utils"

	"github.com/gin-gonic/gin"
)

type DashboardReader interface {
	FetchRevenue(ctx context.Context) ([]models.Revenue, error)
	FetchLatestInvoices(ctx context.Context) ([]models.LatestInvoice, error)
	FetchCardData(ctx context.Context) (*models.CardData, error)
}

type DashboardController struct {
	reader DashboardReader
}

func NewDashboardController(reader DashboardReader) *DashboardController {
	return &DashboardController{reader: reader}
}

func (dc *DashboardController) GetRevenue(c *gin.Context) {
	revenue, err := dc.reader.FetchRevenue(c.Request.Context())
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"revenue": revenue})
}

func (dc *DashboardController) GetLatestInvoices(c *gin.Context) {
	latest, err := dc.reader.FetchLatestInvoices(c.Request.Context())
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"latestInvoices": latest})
}

// GetCards returns the four summary cards of the overview page.
func (dc *DashboardController) GetCards(c *gin.Context) {
	cards, err := dc.reader.FetchCardData(c.Request.Context())
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, cards)
}
