package service

import (
	"context"

	"github.com/shopspring/decimal"
	clientdomain "github.com/smallbiznis/gestoria/internal/client/domain"
	"github.com/smallbiznis/gestoria/internal/clock"
	"github.com/smallbiznis/gestoria/internal/dashboard/domain"
	expensedomain "github.com/smallbiznis/gestoria/internal/expense/domain"
	invoicedomain "github.com/smallbiznis/gestoria/internal/invoice/domain"
	userdomain "github.com/smallbiznis/gestoria/internal/user/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	Clock clock.Clock
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	clock clock.Clock
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("dashboard.service"),
		clock: p.Clock,
	}
}

// Summary walks the invoice ledger row by row so the overdue count uses the
// same classification as every list view. The remaining figures are plain
// aggregates.
func (s *Service) Summary(ctx context.Context) (domain.Summary, error) {
	var summary domain.Summary

	var invoices []invoicedomain.Invoice
	if err := s.db.WithContext(ctx).Find(&invoices).Error; err != nil {
		return domain.Summary{}, err
	}

	now := s.clock.Now()
	totalInvoiced := decimal.Zero
	for _, invoice := range invoices {
		totalInvoiced = totalInvoiced.Add(invoice.Total)
		switch invoice.DisplayStatus(now) {
		case invoicedomain.StatusPending:
			summary.PendingInvoices++
		case invoicedomain.StatusOverdue:
			summary.OverdueInvoices++
		}
	}
	summary.TotalInvoiced = totalInvoiced

	var expenseRow struct {
		Total decimal.Decimal
	}
	err := s.db.WithContext(ctx).
		Model(&expensedomain.Expense{}).
		Select("COALESCE(SUM(total), 0) AS total").
		Scan(&expenseRow).Error
	if err != nil {
		return domain.Summary{}, err
	}
	summary.TotalExpenses = expenseRow.Total
	summary.NetResult = totalInvoiced.Sub(expenseRow.Total)

	err = s.db.WithContext(ctx).
		Model(&expensedomain.Expense{}).
		Where("status = ?", expensedomain.StatusPending).
		Count(&summary.PendingExpenses).Error
	if err != nil {
		return domain.Summary{}, err
	}

	err = s.db.WithContext(ctx).
		Model(&clientdomain.Client{}).
		Count(&summary.ClientCount).Error
	if err != nil {
		return domain.Summary{}, err
	}

	err = s.db.WithContext(ctx).
		Model(&userdomain.User{}).
		Count(&summary.UserCount).Error
	if err != nil {
		return domain.Summary{}, err
	}

	return summary, nil
}
