// controllers/invoice.go
package controllers

import (
	"context"
	"net/http"
	"strconv"

	"invoices-dashboard-backend/models"
	"invoices-dashboard-backend/services"
	"invoices-dashboard-backend/utils"

	"github.com/gin-gonic/gin"
)

// InvoiceReader is the read side the invoice handlers need.
type InvoiceReader interface {
	FetchFilteredInvoices(ctx context.Context, query string, currentPage int) ([]models.InvoicesTable, error)
	FetchInvoicesPages(ctx context.Context, query string) (int, error)
	FetchInvoiceByID(ctx context.Context, id string) (*models.InvoiceForm, error)
}

// InvoiceWriter is the mutation side the invoice handlers need.
type InvoiceWriter interface {
	CreateInvoice(ctx context.Context, input utils.InvoiceFormInput) services.MutationResult
	UpdateInvoice(ctx context.Context, id string, input utils.InvoiceFormInput) services.MutationResult
	DeleteInvoice(ctx context.Context, id string) services.MutationResult
}

type InvoiceController struct {
	reader InvoiceReader
	writer InvoiceWriter
}

func NewInvoiceController(reader InvoiceReader, writer InvoiceWriter) *InvoiceController {
	return &InvoiceController{reader: reader, writer: writer}
}

// GetInvoices lists one page of invoices: GET /api/invoices?query=&page=
func (ic *InvoiceController) GetInvoices(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil {
		page = 1
	}

	invoices, err := ic.reader.FetchFilteredInvoices(c.Request.Context(), c.Query("query"), page)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{"invoices": invoices})
}

func (ic *InvoiceController) GetInvoicePages(c *gin.Context) {
	pages, err := ic.reader.FetchInvoicesPages(c.Request.Context(), c.Query("query"))
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{"totalPages": pages})
}

func (ic *InvoiceController) GetInvoice(c *gin.Context) {
	invoice, err := ic.reader.FetchInvoiceByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, err.Error())
		return
	}
	if invoice == nil {
		utils.RespondWithError(c, http.StatusNotFound, "Invoice not found")
		return
	}

	c.JSON(http.StatusOK, invoice)
}

func (ic *InvoiceController) CreateInvoice(c *gin.Context) {
	var input utils.InvoiceFormInput
	if err := c.ShouldBind(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	respondMutation(c, ic.writer.CreateInvoice(c.Request.Context(), input))
}

func (ic *InvoiceController) UpdateInvoice(c *gin.Context) {
	var input utils.InvoiceFormInput
	if err := c.ShouldBind(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	respondMutation(c, ic.writer.UpdateInvoice(c.Request.Context(), c.Param("id"), input))
}

func (ic *InvoiceController) DeleteInvoice(c *gin.Context) {
	respondMutation(c, ic.writer.DeleteInvoice(c.Request.Context(), c.Param("id")))
}

// respondMutation turns a mutation outcome into its HTTP form.
func respondMutation(c *gin.Context, result services.MutationResult) {
	switch result.State {
	case services.MutationRejected:
		c.JSON(http.StatusUnprocessableEntity, result)
	case services.MutationFailed:
		c.JSON(http.StatusInternalServerError, result)
	case services.MutationRedirected:
		c.Redirect(http.StatusSeeOther, result.RedirectTo)
	default:
		c.JSON(http.StatusOK, result)
	}
}
