// services/invoice_query.go
package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"invoices-dashboard-backend/models"
	"invoices-dashboard-backend/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// ItemsPerPage is the fixed page size of the invoice listing.
const ItemsPerPage = 6

// invoiceSearch matches @pattern against every searchable invoice column.
const invoiceSearch = `(LOWER(customers.name) LIKE @pattern ESCAPE '\'
	OR LOWER(customers.email) LIKE @pattern ESCAPE '\'
	OR CAST(invoices.amount AS TEXT) LIKE @pattern ESCAPE '\'
	OR LOWER(CAST(invoices.date AS TEXT)) LIKE @pattern ESCAPE '\'
	OR LOWER(CAST(invoices.status AS TEXT)) LIKE @pattern ESCAPE '\')`

const customerSearch = `(LOWER(customers.name) LIKE @pattern ESCAPE '\'
	OR LOWER(customers.email) LIKE @pattern ESCAPE '\')`

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// searchPattern builds a case-insensitive "contains" pattern. Wildcards typed
// by the user match literally.
func searchPattern(query string) sql.NamedArg {
	return sql.Named("pattern", "%"+likeEscaper.Replace(strings.ToLower(query))+"%")
}

// QueryService serves the read side of the dashboard. It keeps no state
// between calls; every view is recomputed from the store.
type QueryService struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewQueryService(db *gorm.DB, logger *zap.Logger) *QueryService {
	return &QueryService{
		db:     db,
		logger: logger.Named("query"),
	}
}

// fail logs the store error and hides it behind a per-operation message.
func (s *QueryService) fail(op, message string, err error) error {
	s.logger.Error("Database Error", zap.String("op", op), zap.Error(err))
	return &DataAccessError{Op: op, Message: message}
}

// FetchRevenue returns the whole revenue series.
func (s *QueryService) FetchRevenue(ctx context.Context) ([]models.Revenue, error) {
	var revenue []models.Revenue
	if err := s.db.WithContext(ctx).Find(&revenue).Error; err != nil {
		return nil, s.fail("FetchRevenue", "failed to fetch revenue data.", err)
	}
	return revenue, nil
}

// FetchLatestInvoices returns the five most recent invoices with formatted amounts.
func (s *QueryService) FetchLatestInvoices(ctx context.Context) ([]models.LatestInvoice, error) {
	var rows []models.LatestInvoiceRaw
	err := s.db.WithContext(ctx).
		Table("invoices").
		Select("invoices.amount, customers.name, customers.image_url, customers.email, invoices.id").
		Joins("JOIN customers ON invoices.customer_id = customers.id").
		Order("invoices.date DESC").
		Limit(5).
		Scan(&rows).Error
	if err != nil {
		return nil, s.fail("FetchLatestInvoices", "failed to fetch the latest invoices.", err)
	}

	latest := make([]models.LatestInvoice, 0, len(rows))
	for _, row := range rows {
		latest = append(latest, models.LatestInvoice{
			ID:       row.ID,
			Name:     row.Name,
			Email:    row.Email,
			ImageURL: row.ImageURL,
			Amount:   utils.FormatCurrency(row.Amount),
		})
	}
	return latest, nil
}

// statusTotals holds paid and pending sums in cents.
type statusTotals struct {
	Paid    sql.NullInt64
	Pending sql.NullInt64
}

// FetchCardData runs its three aggregate queries concurrently.
func (s *QueryService) FetchCardData(ctx context.Context) (*models.CardData, error) {
	var (
		invoiceCount  int64
		customerCount int64
		totals        statusTotals
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.db.WithContext(gctx).Model(&models.Invoice{}).Count(&invoiceCount).Error
	})
	g.Go(func() error {
		return s.db.WithContext(gctx).Model(&models.Customer{}).Count(&customerCount).Error
	})
	g.Go(func() error {
		return s.db.WithContext(gctx).
			Model(&models.Invoice{}).
			Select(`SUM(CASE WHEN status = ? THEN amount ELSE 0 END) AS paid,
				SUM(CASE WHEN status = ? THEN amount ELSE 0 END) AS pending`,
				models.InvoiceStatusPaid, models.InvoiceStatusPending).
			Scan(&totals).Error
	})
	if err := g.Wait(); err != nil {
		return nil, s.fail("FetchCardData", "failed to fetch card data.", err)
	}

	// SUM over an empty table is NULL
	return &models.CardData{
		NumberOfInvoices:     invoiceCount,
		NumberOfCustomers:    customerCount,
		TotalPaidInvoices:    utils.FormatCurrency(totals.Paid.Int64),
		TotalPendingInvoices: utils.FormatCurrency(totals.Pending.Int64),
	}, nil
}

func (s *QueryService) searchInvoices(ctx context.Context, query string) *gorm.DB {
	return s.db.WithContext(ctx).
		Table("invoices").
		Joins("JOIN customers ON invoices.customer_id = customers.id").
		Where(invoiceSearch, searchPattern(query))
}

// FetchFilteredInvoices returns one page of invoices matching query, newest first.
func (s *QueryService) FetchFilteredInvoices(ctx context.Context, query string, currentPage int) ([]models.InvoicesTable, error) {
	if currentPage < 1 {
		currentPage = 1
	}
	offset := (currentPage - 1) * ItemsPerPage

	var invoices []models.InvoicesTable
	err := s.searchInvoices(ctx, query).
		Select(`invoices.id, invoices.customer_id, invoices.amount, invoices.date, invoices.status,
			customers.name, customers.email, customers.image_url`).
		Order("invoices.date DESC").
		Order("invoices.id").
		Limit(ItemsPerPage).
		Offset(offset).
		Scan(&invoices).Error
	if err != nil {
		return nil, s.fail("FetchFilteredInvoices", "failed to fetch invoices.", err)
	}
	return invoices, nil
}

// FetchInvoicesPages returns how many pages FetchFilteredInvoices has for query.
func (s *QueryService) FetchInvoicesPages(ctx context.Context, query string) (int, error) {
	var count int64
	if err := s.searchInvoices(ctx, query).Count(&count).Error; err != nil {
		return 0, s.fail("FetchInvoicesPages", "failed to fetch total number of invoices.", err)
	}
	return int((count + ItemsPerPage - 1) / ItemsPerPage), nil
}

// FetchInvoiceByID loads an invoice for editing, with the amount in dollars.
// A nil form and nil error means no such invoice.
func (s *QueryService) FetchInvoiceByID(ctx context.Context, id string) (*models.InvoiceForm, error) {
	invoiceID, err := uuid.Parse(id)
	if err != nil {
		return nil, nil
	}

	var invoice models.Invoice
	err = s.db.WithContext(ctx).
		Select("id", "customer_id", "amount", "status").
		Where("id = ?", invoiceID).
		Take(&invoice).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, s.fail("FetchInvoiceByID", "failed to fetch invoice.", err)
	}

	return &models.InvoiceForm{
		ID:         invoice.ID,
		CustomerID: invoice.CustomerID,
		Amount:     utils.CentsToDollars(invoice.Amount),
		Status:     invoice.Status,
	}, nil
}

// FetchCustomers lists customers for the invoice form's select box.
func (s *QueryService) FetchCustomers(ctx context.Context) ([]models.CustomerField, error) {
	var customers []models.CustomerField
	err := s.db.WithContext(ctx).
		Model(&models.Customer{}).
		Select("id, name").
		Order("name ASC").
		Scan(&customers).Error
	if err != nil {
		return nil, s.fail("FetchCustomers", "failed to fetch all customers.", err)
	}
	return customers, nil
}

// FetchFilteredCustomers summarizes invoices per customer for customers whose
// name or email contains query.
func (s *QueryService) FetchFilteredCustomers(ctx context.Context, query string) ([]models.FormattedCustomersTable, error) {
	var rows []models.CustomersTableType
	err := s.db.WithContext(ctx).
		Table("customers").
		Select(`customers.id, customers.name, customers.email, customers.image_url,
			COUNT(invoices.id) AS total_invoices,
			SUM(CASE WHEN invoices.status = ? THEN invoices.amount ELSE 0 END) AS total_pending,
			SUM(CASE WHEN invoices.status = ? THEN invoices.amount ELSE 0 END) AS total_paid`,
			models.InvoiceStatusPending, models.InvoiceStatusPaid).
		Joins("LEFT JOIN invoices ON customers.id = invoices.customer_id").
		Where(customerSearch, searchPattern(query)).
		Group("customers.id, customers.name, customers.email, customers.image_url").
		Order("customers.name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, s.fail("FetchFilteredCustomers", "failed to fetch customer table.", err)
	}

	customers := make([]models.FormattedCustomersTable, 0, len(rows))
	for _, row := range rows {
		customers = append(customers, models.FormattedCustomersTable{
			ID:            row.ID,
			Name:          row.Name,
			Email:         row.Email,
			ImageURL:      row.ImageURL,
			TotalInvoices: row.TotalInvoices,
			TotalPending:  utils.FormatCurrency(row.TotalPending),
			TotalPaid:     utils.FormatCurrency(row.TotalPaid),
		})
	}
	return customers, nil
}
