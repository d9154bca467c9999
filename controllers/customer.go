package controllers

import (
	"context"
	"net/http"

	"invoices-dashboard-backend/models"
	"invoices-dashboard-backend/utils"

	"github.com/gin-gonic/gin"
)

type CustomerReader interface {
	FetchCustomers(ctx context.Context) ([]models.CustomerField, error)
	FetchFilteredCustomers(ctx context.Context, query string) ([]models.FormattedCustomersTable, error)
}

type CustomerController struct {
	reader CustomerReader
}

func NewCustomerController(reader CustomerReader) *CustomerController {
	return &CustomerController{reader: reader}
}

// GetCustomers feeds the customer select of the invoice form.
func (cc *CustomerController) GetCustomers(c *gin.Context) {
	customers, err := cc.reader.FetchCustomers(c.Request.Context())
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"customers": customers})
}

func (cc *CustomerController) GetCustomerSummary(c *gin.Context) {
	customers, err := cc.reader.FetchFilteredCustomers(c.Request.Context(), c.Query("query"))
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"customers": customers})
}
