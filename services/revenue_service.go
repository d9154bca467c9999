// services/revenue_service.go
package services

import (
	"context"
	"fmt"
	"time"

	"invoices-dashboard-backend/models"
	"invoices-dashboard-backend/utils"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RevenueService keeps the revenue chart in step with paid invoices.
type RevenueService struct {
	db     *gorm.DB
	logger *zap.Logger
	now    func() time.Time
}

func NewRevenueService(db *gorm.DB, logger *zap.Logger) *RevenueService {
	return &RevenueService{
		db:     db,
		logger: logger.Named("revenue"),
		now:    time.Now,
	}
}

// StartScheduler refreshes the current year once, then again on every tick of
// schedule (standard five-field cron). The scheduler stops when ctx is done.
func (s *RevenueService) StartScheduler(ctx context.Context, schedule string) error {
	c := cron.New()

	_, err := c.AddFunc(schedule, func() {
		if err := s.RefreshRevenue(ctx, s.now().Year()); err != nil {
			s.logger.Error("Scheduled revenue refresh failed", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("invalid revenue schedule %q: %w", schedule, err)
	}

	if err := s.RefreshRevenue(ctx, s.now().Year()); err != nil {
		s.logger.Error("Initial revenue refresh failed", zap.Error(err))
	}

	c.Start()
	s.logger.Info("Revenue scheduler started", zap.String("schedule", schedule))

	go func() {
		<-ctx.Done()
		<-c.Stop().Done()
		s.logger.Info("Revenue scheduler stopped")
	}()
	return nil
}

// RefreshRevenue recomputes the twelve months of year from paid invoices and
// writes them in one upsert.
func (s *RevenueService) RefreshRevenue(ctx context.Context, year int) error {
	start, end := utils.YearBounds(year)

	var invoices []models.Invoice
	err := s.db.WithContext(ctx).
		Select("amount", "status", "date").
		Where("date >= ? AND date < ?", start, end).
		Find(&invoices).Error
	if err != nil {
		return fmt.Errorf("load invoices for %d: %w", year, err)
	}

	var totals [12]int64
	for _, inv := range invoices {
		switch inv.Status {
		case models.InvoiceStatusPaid:
			totals[inv.Date.Month()-1] += inv.Amount
		case models.InvoiceStatusPending:
			// not revenue until paid
		}
	}

	rows := make([]models.Revenue, 0, len(totals))
	for i, cents := range totals {
		rows = append(rows, models.Revenue{
			Month:   utils.MonthLabel(time.Month(i + 1)),
			Revenue: cents,
		})
	}

	err = s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "month"}},
			DoUpdates: clause.AssignmentColumns([]string{"revenue"}),
		}).
		Create(&rows).Error
	if err != nil {
		return fmt.Errorf("store revenue for %d: %w", year, err)
	}

	s.logger.Info("Revenue refreshed", zap.Int("year", year), zap.Int("invoices", len(invoices)))
	return nil
}
