package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"invoices-dashboard-backend/cache"
	"invoices-dashboard-backend/models"
	"invoices-dashboard-backend/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"
)

type failingInvalidator struct{}

func (failingInvalidator) Invalidate(context.Context, string) error {
	return errors.New("redis down")
}

func countInvoices(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&models.Invoice{}).Count(&n).Error)
	return n
}

func TestCreateInvoice(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	customer := seedCustomer(t, db, "Acme Corp", "billing@acme.test")
	inv := cache.NewMemoryInvalidator()
	now := time.Date(2024, time.June, 14, 18, 30, 0, 0, time.UTC)
	svc := NewMutationService(db, inv, zap.NewNop(), WithClock(func() time.Time { return now }))

	result := svc.CreateInvoice(ctx, utils.InvoiceFormInput{
		CustomerID: customer.ID.String(),
		Amount:     "45.00",
		Status:     "pending",
	})

	assert.Equal(t, MutationRedirected, result.State)
	assert.Equal(t, "/dashboard/invoices", result.RedirectTo)
	assert.Empty(t, result.Errors)

	var stored models.Invoice
	require.NoError(t, db.Where("customer_id = ?", customer.ID).Take(&stored).Error)
	assert.EqualValues(t, 4500, stored.Amount)
	assert.Equal(t, models.InvoiceStatusPending, stored.Status)
	assert.Equal(t, "2024-06-14", utils.ISODate(stored.Date))

	assert.Equal(t, []string{cache.InvoicesViewPath}, inv.Paths())
}

func TestCreateInvoice_RoundsToCents(t *testing.T) {
	db := newTestDB(t)
	customer := seedCustomer(t, db, "Acme Corp", "billing@acme.test")
	svc := NewMutationService(db, cache.NewMemoryInvalidator(), zap.NewNop())

	result := svc.CreateInvoice(context.Background(), utils.InvoiceFormInput{
		CustomerID: customer.ID.String(),
		Amount:     "19.999",
		Status:     "paid",
	})
	require.Equal(t, MutationRedirected, result.State)

	var stored models.Invoice
	require.NoError(t, db.Take(&stored).Error)
	assert.EqualValues(t, 2000, stored.Amount)
}

func TestCreateInvoice_Rejected(t *testing.T) {
	db := newTestDB(t)
	customer := seedCustomer(t, db, "Acme Corp", "billing@acme.test")
	inv := cache.NewMemoryInvalidator()
	svc := NewMutationService(db, inv, zap.NewNop())

	tests := []struct {
		name   string
		input  utils.InvoiceFormInput
		fields []string
	}{
		{
			name:   "zero amount",
			input:  utils.InvoiceFormInput{CustomerID: customer.ID.String(), Amount: "0", Status: "paid"},
			fields: []string{"amount"},
		},
		{
			name:   "everything missing",
			input:  utils.InvoiceFormInput{},
			fields: []string{"amount", "customerId", "status"},
		},
		{
			name:   "unknown status",
			input:  utils.InvoiceFormInput{CustomerID: customer.ID.String(), Amount: "10", Status: "overdue"},
			fields: []string{"status"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := svc.CreateInvoice(context.Background(), tt.input)

			assert.Equal(t, MutationRejected, result.State)
			assert.Equal(t, "missing fields; failed to create invoice.", result.Message)
			for _, field := range tt.fields {
				assert.Contains(t, result.Errors, field)
			}
			assert.Len(t, result.Errors, len(tt.fields))
		})
	}

	assert.Zero(t, countInvoices(t, db))
	assert.Empty(t, inv.Paths())
}

func TestCreateInvoice_StoreFailure(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.Migrator().DropTable(&models.Invoice{}))
	inv := cache.NewMemoryInvalidator()
	svc := NewMutationService(db, inv, zap.NewNop())

	result := svc.CreateInvoice(context.Background(), utils.InvoiceFormInput{
		CustomerID: uuid.NewString(),
		Amount:     "10",
		Status:     "paid",
	})

	assert.Equal(t, MutationFailed, result.State)
	assert.Equal(t, "database error: failed to create invoice.", result.Message)
	assert.Empty(t, inv.Paths())
}

func TestUpdateInvoice(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	acme := seedCustomer(t, db, "Acme Corp", "billing@acme.test")
	globex := seedCustomer(t, db, "Globex", "ap@globex.test")
	original := seedInvoice(t, db, acme, 1000, models.InvoiceStatusPending, day(2023, time.December, 1))
	inv := cache.NewMemoryInvalidator()
	svc := NewMutationService(db, inv, zap.NewNop())

	result := svc.UpdateInvoice(ctx, original.ID.String(), utils.InvoiceFormInput{
		CustomerID: globex.ID.String(),
		Amount:     "250.5",
		Status:     "paid",
	})
	require.Equal(t, MutationRedirected, result.State)
	assert.Equal(t, "/dashboard/invoices", result.RedirectTo)

	var stored models.Invoice
	require.NoError(t, db.Take(&stored, "id = ?", original.ID).Error)
	assert.Equal(t, globex.ID, stored.CustomerID)
	assert.EqualValues(t, 25050, stored.Amount)
	assert.Equal(t, models.InvoiceStatusPaid, stored.Status)
	assert.Equal(t, "2023-12-01", utils.ISODate(stored.Date))
	assert.Equal(t, []string{cache.InvoicesViewPath}, inv.Paths())

	t.Run("rejected", func(t *testing.T) {
		result := svc.UpdateInvoice(ctx, original.ID.String(), utils.InvoiceFormInput{
			CustomerID: globex.ID.String(),
			Amount:     "-3",
			Status:     "paid",
		})
		assert.Equal(t, MutationRejected, result.State)
		assert.Equal(t, "missing fields; failed to update invoice.", result.Message)
		assert.Contains(t, result.Errors, "amount")
	})

	t.Run("malformed id", func(t *testing.T) {
		result := svc.UpdateInvoice(ctx, "42", utils.InvoiceFormInput{
			CustomerID: globex.ID.String(),
			Amount:     "1",
			Status:     "paid",
		})
		assert.Equal(t, MutationFailed, result.State)
		assert.Equal(t, "database error: failed to update invoice.", result.Message)
	})
}

func TestDeleteInvoice(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	customer := seedCustomer(t, db, "Acme Corp", "billing@acme.test")
	invoice := seedInvoice(t, db, customer, 1000, models.InvoiceStatusPaid, day(2024, time.February, 2))
	inv := cache.NewMemoryInvalidator()
	svc := NewMutationService(db, inv, zap.NewNop())

	result := svc.DeleteInvoice(ctx, invoice.ID.String())
	assert.Equal(t, MutationCompleted, result.State)
	assert.Equal(t, "deleted invoice.", result.Message)
	assert.Empty(t, result.RedirectTo)
	assert.Zero(t, countInvoices(t, db))

	// a second delete of the same id is still a success
	again := svc.DeleteInvoice(ctx, invoice.ID.String())
	assert.Equal(t, MutationCompleted, again.State)
	assert.Equal(t, "deleted invoice.", again.Message)

	assert.Len(t, inv.Paths(), 2)
}

func TestDeleteInvoice_StoreFailure(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.Migrator().DropTable(&models.Invoice{}))
	svc := NewMutationService(db, cache.NewMemoryInvalidator(), zap.NewNop())

	result := svc.DeleteInvoice(context.Background(), uuid.NewString())

	assert.Equal(t, MutationFailed, result.State)
	assert.Equal(t, "database error: failed to delete invoice.", result.Message)
}

func TestMutation_InvalidationFailureKeepsResult(t *testing.T) {
	db := newTestDB(t)
	customer := seedCustomer(t, db, "Acme Corp", "billing@acme.test")
	core, logs := observer.New(zapcore.WarnLevel)
	svc := NewMutationService(db, failingInvalidator{}, zap.New(core))

	result := svc.CreateInvoice(context.Background(), utils.InvoiceFormInput{
		CustomerID: customer.ID.String(),
		Amount:     "12",
		Status:     "pending",
	})

	assert.Equal(t, MutationRedirected, result.State)
	assert.EqualValues(t, 1, countInvoices(t, db))
	assert.Equal(t, 1, logs.FilterMessage("View invalidation failed").Len())
}

func TestMutationState_String(t *testing.T) {
	assert.Equal(t, "rejected", MutationRejected.String())
	assert.Equal(t, "failed", MutationFailed.String())
	assert.Equal(t, "completed", MutationCompleted.String())
	assert.Equal(t, "redirected", MutationRedirected.String())
	assert.Equal(t, "unknown", MutationState(42).String())
}
