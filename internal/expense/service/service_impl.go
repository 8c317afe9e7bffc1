package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/gestoria/internal/clock"
	"github.com/smallbiznis/gestoria/internal/expense/domain"
	"github.com/smallbiznis/gestoria/internal/money"
	"github.com/smallbiznis/gestoria/internal/search"
	settingsdomain "github.com/smallbiznis/gestoria/internal/settings/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Repo     domain.Repository
	Clock    clock.Clock
	Settings settingsdomain.Service
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	repo     domain.Repository
	clock    clock.Clock
	settings settingsdomain.Service
}

func New(p Params) domain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("expense.service"),
		genID:    p.GenID,
		repo:     p.Repo,
		clock:    p.Clock,
		settings: p.Settings,
	}
}

var expenseFields = search.FieldSet[domain.Expense]{
	Text: func(e domain.Expense) []string {
		return []string{e.VendorName, e.Number, e.Description}
	},
	Categorical: func(e domain.Expense) map[string]string {
		return map[string]string{
			"status":   string(e.Status),
			"category": e.Category,
		}
	},
}

func (s *Service) Create(ctx context.Context, req domain.CreateExpenseRequest) (domain.Expense, error) {
	vendor := strings.TrimSpace(req.VendorName)
	if vendor == "" {
		return domain.Expense{}, domain.ErrInvalidVendorName
	}
	number := strings.TrimSpace(req.Number)
	if number == "" {
		return domain.Expense{}, domain.ErrInvalidNumber
	}
	category := strings.TrimSpace(req.Category)
	if category == "" {
		return domain.Expense{}, domain.ErrInvalidCategory
	}
	if req.IssueDate.IsZero() {
		return domain.Expense{}, domain.ErrInvalidIssueDate
	}
	if req.TaxableBase == nil || req.TaxableBase.IsNegative() {
		return domain.Expense{}, domain.ErrInvalidTaxableBase
	}

	settings, err := s.settings.Get(ctx)
	if err != nil {
		return domain.Expense{}, err
	}

	rate := money.TaxRate(settings.DefaultTaxRate)
	if req.TaxRate != nil {
		rate = money.TaxRate(*req.TaxRate)
	}
	if !rate.Valid() {
		return domain.Expense{}, money.ErrInvalidTaxRate
	}

	base := money.Round2(*req.TaxableBase)
	taxAmount, total, err := money.ComputeTax(base, rate)
	if err != nil {
		return domain.Expense{}, err
	}

	now := s.clock.Now()
	expense := domain.Expense{
		ID:          s.genID.Generate(),
		Number:      number,
		VendorName:  vendor,
		Description: strings.TrimSpace(req.Description),
		Category:    category,
		IssueDate:   req.IssueDate.UTC(),
		TaxableBase: base,
		TaxRate:     int64(rate),
		TaxAmount:   taxAmount,
		Total:       total,
		Status:      domain.StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Insert(ctx, s.db, &expense); err != nil {
		return domain.Expense{}, err
	}

	s.log.Info("expense created",
		zap.String("expense_id", expense.ID.String()),
		zap.String("vendor", expense.VendorName),
		zap.String("total", expense.Total.String()),
	)
	return expense, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.Expense, error) {
	expense, err := s.load(ctx, id)
	if err != nil {
		return domain.Expense{}, err
	}
	return *expense, nil
}

func (s *Service) List(ctx context.Context, req domain.ListExpenseRequest) (domain.ListExpenseResponse, error) {
	expenses, err := s.repo.List(ctx, s.db)
	if err != nil {
		return domain.ListExpenseResponse{}, err
	}

	expenses = search.Filter(expenses, search.Query{
		Text: req.Text,
		Categorical: map[string]string{
			"status":   strings.TrimSpace(req.Status),
			"category": strings.TrimSpace(req.Category),
		},
	}, expenseFields)

	return domain.ListExpenseResponse{Expenses: expenses}, nil
}

func (s *Service) MarkPaid(ctx context.Context, id string) (domain.Expense, error) {
	expense, err := s.load(ctx, id)
	if err != nil {
		return domain.Expense{}, err
	}
	if expense.Status == domain.StatusPaid {
		return domain.Expense{}, domain.ErrAlreadyPaid
	}

	now := s.clock.Now()
	expense.Status = domain.StatusPaid
	expense.PaidAt = &now
	expense.UpdatedAt = now

	if err := s.repo.Update(ctx, s.db, expense); err != nil {
		return domain.Expense{}, err
	}
	return *expense, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	expense, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, s.db, expense.ID)
}

func (s *Service) load(ctx context.Context, raw string) (*domain.Expense, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(raw))
	if err != nil || id == 0 {
		return nil, domain.ErrInvalidID
	}

	expense, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if expense == nil {
		return nil, domain.ErrNotFound
	}
	return expense, nil
}
