package services

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"invoices-dashboard-backend/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a private in-memory store with the dashboard schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// sqlite allows one writer; concurrent readers queue on the single conn
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Customer{},
		&models.Invoice{},
		&models.Revenue{},
	))
	return db
}

// newMockDB returns a postgres-dialect gorm handle backed by sqlmock.
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	return db, mock
}

func seedCustomer(t *testing.T, db *gorm.DB, name, email string) models.Customer {
	t.Helper()
	customer := models.Customer{
		Name:     name,
		Email:    email,
		ImageURL: "/customers/" + email + ".png",
	}
	require.NoError(t, db.Create(&customer).Error)
	return customer
}

func seedInvoice(t *testing.T, db *gorm.DB, customer models.Customer, cents int64, status models.InvoiceStatus, date time.Time) models.Invoice {
	t.Helper()
	invoice := models.Invoice{
		CustomerID: customer.ID,
		Amount:     cents,
		Status:     status,
		Date:       date,
	}
	require.NoError(t, db.Omit("Customer").Create(&invoice).Error)
	return invoice
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}
