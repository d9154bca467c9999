// utils/validation.go
package utils

import (
	"errors"
	"reflect"
	"sort"
	"strings"

	"invoices-dashboard-backend/models"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceFormInput is the raw invoice form as submitted by the dashboard.
// Date is not accepted from the client.
type InvoiceFormInput struct {
	CustomerID string `form:"customerId" json:"customerId" validate:"required,uuid"`
	Amount     string `form:"amount" json:"amount" validate:"amount"`
	Status     string `form:"status" json:"status" validate:"required,oneof=pending paid"`
}

// ValidatedInvoice is the typed result of a successful validation.
type ValidatedInvoice struct {
	CustomerID uuid.UUID
	Amount     decimal.Decimal // dollars
	Status     models.InvoiceStatus
}

// ValidationErrors maps form field names to their messages.
type ValidationErrors map[string][]string

func (e ValidationErrors) Error() string {
	fields := make([]string, 0, len(e))
	for field := range e {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, field+": "+strings.Join(e[field], ", "))
	}
	return strings.Join(parts, "; ")
}

var invoiceFieldMessages = map[string]string{
	"customerId": "please select a customer.",
	"amount":     "please enter an amount greater than $0.",
	"status":     "please select an invoice status.",
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// amount must coerce to a number strictly greater than zero
	_ = v.RegisterValidation("amount", func(fl validator.FieldLevel) bool {
		amount, err := ParseAmount(fl.Field().String())
		return err == nil && amount.IsPositive()
	})
	return v
}

// ValidateInvoiceForm checks every field and returns either the typed invoice
// data or the full set of field errors.
func ValidateInvoiceForm(input InvoiceFormInput) (*ValidatedInvoice, ValidationErrors) {
	if err := validate.Struct(input); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return nil, ValidationErrors{"form": {err.Error()}}
		}
		out := ValidationErrors{}
		for _, fe := range fieldErrs {
			field := fe.Field()
			if len(out[field]) > 0 {
				continue
			}
			out[field] = []string{invoiceFieldMessages[field]}
		}
		return nil, out
	}

	amount, _ := ParseAmount(input.Amount)
	status, _ := models.ParseInvoiceStatus(input.Status)
	return &ValidatedInvoice{
		CustomerID: uuid.MustParse(input.CustomerID),
		Amount:     amount,
		Status:     status,
	}, nil
}
