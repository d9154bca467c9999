// services/invoice_mutation.go
package services

import (
	"context"
	"time"

	"invoices-dashboard-backend/cache"
	"invoices-dashboard-backend/models"
	"invoices-dashboard-backend/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// MutationState is the terminal state of one mutation call.
type MutationState int

const (
	// MutationRejected: validation failed, the store was not touched.
	MutationRejected MutationState = iota
	// MutationFailed: the store refused the write.
	MutationFailed
	// MutationCompleted: written and invalidated, nothing left to do.
	MutationCompleted
	// MutationRedirected: written and invalidated, control moves to RedirectTo.
	MutationRedirected
)

func (s MutationState) String() string {
	switch s {
	case MutationRejected:
		return "rejected"
	case MutationFailed:
		return "failed"
	case MutationCompleted:
		return "completed"
	case MutationRedirected:
		return "redirected"
	default:
		return "unknown"
	}
}

// MutationResult is what a form submission gets back.
type MutationResult struct {
	State      MutationState          `json:"-"`
	Errors     utils.ValidationErrors `json:"errors,omitempty"`
	Message    string                 `json:"message,omitempty"`
	RedirectTo string                 `json:"-"`
}

func rejected(errs utils.ValidationErrors, message string) MutationResult {
	return MutationResult{State: MutationRejected, Errors: errs, Message: message}
}

func failed(message string) MutationResult {
	return MutationResult{State: MutationFailed, Message: message}
}

// MutationService validates and persists invoice changes, then invalidates
// the invoice listing.
type MutationService struct {
	db          *gorm.DB
	invalidator cache.Invalidator
	logger      *zap.Logger
	now         func() time.Time
}

type MutationOption func(*MutationService)

// WithClock overrides the clock used to date new invoices.
func WithClock(now func() time.Time) MutationOption {
	return func(s *MutationService) {
		s.now = now
	}
}

func NewMutationService(db *gorm.DB, invalidator cache.Invalidator, logger *zap.Logger, opts ...MutationOption) *MutationService {
	s := &MutationService{
		db:          db,
		invalidator: invalidator,
		logger:      logger.Named("mutation"),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateInvoice stores a new invoice dated today.
func (s *MutationService) CreateInvoice(ctx context.Context, input utils.InvoiceFormInput) MutationResult {
	validated, errs := utils.ValidateInvoiceForm(input)
	if errs != nil {
		return rejected(errs, "missing fields; failed to create invoice.")
	}

	invoice := models.Invoice{
		CustomerID: validated.CustomerID,
		Amount:     utils.DollarsToCents(validated.Amount),
		Status:     validated.Status,
		Date:       utils.CalendarDate(s.now()),
	}
	if err := s.db.WithContext(ctx).Omit("Customer").Create(&invoice).Error; err != nil {
		s.logger.Error("Database Error", zap.String("op", "CreateInvoice"), zap.Error(err))
		return failed("database error: failed to create invoice.")
	}

	s.logger.Info("Invoice created",
		zap.String("invoice_id", invoice.ID.String()),
		zap.Int64("amount", invoice.Amount))
	return s.finish(ctx, MutationResult{State: MutationRedirected, RedirectTo: cache.InvoicesViewPath})
}

// UpdateInvoice overwrites customer, amount and status of invoice id. The
// invoice date is left as is.
func (s *MutationService) UpdateInvoice(ctx context.Context, id string, input utils.InvoiceFormInput) MutationResult {
	validated, errs := utils.ValidateInvoiceForm(input)
	if errs != nil {
		return rejected(errs, "missing fields; failed to update invoice.")
	}

	invoiceID, err := uuid.Parse(id)
	if err != nil {
		s.logger.Warn("Malformed invoice id", zap.String("op", "UpdateInvoice"), zap.String("id", id))
		return failed("database error: failed to update invoice.")
	}

	err = s.db.WithContext(ctx).
		Model(&models.Invoice{}).
		Where("id = ?", invoiceID).
		Updates(map[string]interface{}{
			"customer_id": validated.CustomerID,
			"amount":      utils.DollarsToCents(validated.Amount),
			"status":      validated.Status,
		}).Error
	if err != nil {
		s.logger.Error("Database Error", zap.String("op", "UpdateInvoice"), zap.Error(err))
		return failed("database error: failed to update invoice.")
	}

	return s.finish(ctx, MutationResult{State: MutationRedirected, RedirectTo: cache.InvoicesViewPath})
}

// DeleteInvoice removes invoice id. Deleting an id that does not exist
// succeeds as well.
func (s *MutationService) DeleteInvoice(ctx context.Context, id string) MutationResult {
	invoiceID, err := uuid.Parse(id)
	if err != nil {
		s.logger.Warn("Malformed invoice id", zap.String("op", "DeleteInvoice"), zap.String("id", id))
		return failed("database error: failed to delete invoice.")
	}

	result := s.db.WithContext(ctx).Where("id = ?", invoiceID).Delete(&models.Invoice{})
	if result.Error != nil {
		s.logger.Error("Database Error", zap.String("op", "DeleteInvoice"), zap.Error(result.Error))
		return failed("database error: failed to delete invoice.")
	}
	if result.RowsAffected == 0 {
		s.logger.Debug("Delete matched no invoice", zap.String("invoice_id", id))
	}

	return s.finish(ctx, MutationResult{State: MutationCompleted, Message: "deleted invoice."})
}

// finish runs after a confirmed write. An invalidation failure is logged and
// does not undo the result.
func (s *MutationService) finish(ctx context.Context, result MutationResult) MutationResult {
	if err := s.invalidator.Invalidate(ctx, cache.InvoicesViewPath); err != nil {
		s.logger.Warn("View invalidation failed",
			zap.String("path", cache.InvoicesViewPath),
			zap.Error(err))
	}
	return result
}
