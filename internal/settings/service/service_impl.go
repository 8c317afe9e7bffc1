package service

import (
	"context"
	"errors"
	"strings"

	"github.com/smallbiznis/gestoria/internal/invoice/format"
	"github.com/smallbiznis/gestoria/internal/money"
	"github.com/smallbiznis/gestoria/internal/settings/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB  *gorm.DB
	Log *zap.Logger
}

type Service struct {
	db  *gorm.DB
	log *zap.Logger
}

func New(p Params) domain.Service {
	return &Service{
		db:  p.DB,
		log: p.Log.Named("settings.service"),
	}
}

func (s *Service) Get(ctx context.Context) (domain.Settings, error) {
	var settings domain.Settings
	err := s.db.WithContext(ctx).First(&settings, "id = ?", domain.DefaultID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Settings{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Settings{}, err
	}
	return settings, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateSettingsRequest) (domain.Settings, error) {
	settings, err := s.Get(ctx)
	if err != nil {
		return domain.Settings{}, err
	}

	if req.CompanyName != nil {
		settings.CompanyName = strings.TrimSpace(*req.CompanyName)
	}
	if req.Currency != nil {
		currency := strings.ToUpper(strings.TrimSpace(*req.Currency))
		if len(currency) != 3 {
			return domain.Settings{}, domain.ErrInvalidCurrency
		}
		settings.Currency = currency
	}
	if req.DefaultTaxRate != nil {
		if !money.TaxRate(*req.DefaultTaxRate).Valid() {
			return domain.Settings{}, domain.ErrInvalidTaxRate
		}
		settings.DefaultTaxRate = *req.DefaultTaxRate
	}
	if req.InvoiceNumberTemplate != nil {
		template := strings.TrimSpace(*req.InvoiceNumberTemplate)
		if err := format.Validate(template); err != nil {
			return domain.Settings{}, err
		}
		settings.InvoiceNumberTemplate = template
	}

	if err := s.db.WithContext(ctx).Save(&settings).Error; err != nil {
		return domain.Settings{}, err
	}

	s.log.Info("settings updated",
		zap.String("currency", settings.Currency),
		zap.Int64("default_tax_rate", settings.DefaultTaxRate),
		zap.String("invoice_number_template", settings.InvoiceNumberTemplate),
	)
	return settings, nil
}
