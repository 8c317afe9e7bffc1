package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/gestoria/internal/clock"
	"github.com/smallbiznis/gestoria/internal/invoice/domain"
	"github.com/smallbiznis/gestoria/internal/invoice/format"
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
		log:      p.Log.Named("invoice.service"),
		genID:    p.GenID,
		repo:     p.Repo,
		clock:    p.Clock,
		settings: p.Settings,
	}
}

var invoiceFields = search.FieldSet[domain.InvoiceView]{
	Text: func(v domain.InvoiceView) []string {
		return []string{v.ClientName, v.Number, v.Description}
	},
	Categorical: func(v domain.InvoiceView) map[string]string {
		return map[string]string{"status": string(v.DisplayStatus)}
	},
}

func (s *Service) Create(ctx context.Context, req domain.CreateInvoiceRequest) (domain.InvoiceView, error) {
	clientName := strings.TrimSpace(req.ClientName)
	if clientName == "" {
		return domain.InvoiceView{}, domain.ErrInvalidClientName
	}
	if req.IssueDate.IsZero() {
		return domain.InvoiceView{}, domain.ErrInvalidIssueDate
	}
	if req.DueDate != nil && req.DueDate.Before(req.IssueDate) {
		return domain.InvoiceView{}, domain.ErrInvalidDueDate
	}

	var clientID *snowflake.ID
	if strings.TrimSpace(req.ClientID) != "" {
		parsed, err := snowflake.ParseString(strings.TrimSpace(req.ClientID))
		if err != nil || parsed == 0 {
			return domain.InvoiceView{}, domain.ErrInvalidID
		}
		clientID = &parsed
	}

	settings, err := s.settings.Get(ctx)
	if err != nil {
		return domain.InvoiceView{}, err
	}

	rate := money.TaxRate(settings.DefaultTaxRate)
	if req.TaxRate != nil {
		rate = money.TaxRate(*req.TaxRate)
	}
	if !rate.Valid() {
		return domain.InvoiceView{}, money.ErrInvalidTaxRate
	}

	var base decimal.Decimal
	var lines []domain.InvoiceLine
	now := s.clock.Now()

	if len(req.Lines) > 0 {
		agg := make([]money.Line, 0, len(req.Lines))
		for _, in := range req.Lines {
			agg = append(agg, money.Line{Quantity: in.Quantity, UnitPrice: in.UnitPrice})
		}
		base, err = money.AggregateLines(agg)
		if err != nil {
			return domain.InvoiceView{}, err
		}
	} else {
		if req.TaxableBase == nil || req.TaxableBase.IsNegative() {
			return domain.InvoiceView{}, domain.ErrInvalidTaxableBase
		}
		base = money.Round2(*req.TaxableBase)
	}

	taxAmount, total, err := money.ComputeTax(base, rate)
	if err != nil {
		return domain.InvoiceView{}, err
	}

	invoice := domain.Invoice{
		ID:          s.genID.Generate(),
		ClientID:    clientID,
		ClientName:  clientName,
		Description: strings.TrimSpace(req.Description),
		IssueDate:   req.IssueDate.UTC(),
		DueDate:     req.DueDate,
		TaxableBase: base,
		TaxRate:     int64(rate),
		TaxAmount:   taxAmount,
		Total:       total,
		Status:      domain.StoredStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	for _, in := range req.Lines {
		line := money.Line{Quantity: in.Quantity, UnitPrice: in.UnitPrice}
		lines = append(lines, domain.InvoiceLine{
			ID:          s.genID.Generate(),
			InvoiceID:   invoice.ID,
			Description: strings.TrimSpace(in.Description),
			Quantity:    in.Quantity,
			UnitPrice:   in.UnitPrice,
			LineTotal:   line.Total(),
			CreatedAt:   now,
		})
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		year := invoice.IssueDate.Year()
		seq, err := s.repo.NextSequence(ctx, tx, year)
		if err != nil {
			return err
		}

		number, err := format.FormatNumber(settings.InvoiceNumberTemplate, year, seq)
		if err != nil {
			return err
		}
		invoice.Number = number

		return s.repo.Insert(ctx, tx, &invoice, lines)
	})
	if err != nil {
		return domain.InvoiceView{}, err
	}

	s.log.Info("invoice created",
		zap.String("invoice_id", invoice.ID.String()),
		zap.String("number", invoice.Number),
		zap.String("total", invoice.Total.String()),
	)

	return s.view(invoice, lines), nil
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.InvoiceView, error) {
	invoice, err := s.load(ctx, id)
	if err != nil {
		return domain.InvoiceView{}, err
	}

	lines, err := s.repo.FindLines(ctx, s.db, invoice.ID)
	if err != nil {
		return domain.InvoiceView{}, err
	}
	return s.view(*invoice, lines), nil
}

func (s *Service) List(ctx context.Context, req domain.ListInvoiceRequest) (domain.ListInvoiceResponse, error) {
	invoices, err := s.repo.List(ctx, s.db)
	if err != nil {
		return domain.ListInvoiceResponse{}, err
	}

	now := s.clock.Now()
	views := make([]domain.InvoiceView, 0, len(invoices))
	for _, invoice := range invoices {
		if req.ClientID != nil && (invoice.ClientID == nil || *invoice.ClientID != *req.ClientID) {
			continue
		}
		views = append(views, domain.InvoiceView{
			Invoice:       invoice,
			DisplayStatus: invoice.DisplayStatus(now),
		})
	}

	views = search.Filter(views, search.Query{
		Text:        req.Text,
		Categorical: map[string]string{"status": strings.TrimSpace(req.Status)},
	}, invoiceFields)

	return domain.ListInvoiceResponse{Invoices: views}, nil
}

func (s *Service) MarkPaid(ctx context.Context, id string) (domain.InvoiceView, error) {
	invoice, err := s.load(ctx, id)
	if err != nil {
		return domain.InvoiceView{}, err
	}
	if invoice.Status == domain.StoredStatusPaid {
		return domain.InvoiceView{}, domain.ErrAlreadyPaid
	}

	now := s.clock.Now()
	invoice.Status = domain.StoredStatusPaid
	invoice.PaidAt = &now
	invoice.UpdatedAt = now

	if err := s.repo.Update(ctx, s.db, invoice); err != nil {
		return domain.InvoiceView{}, err
	}

	s.log.Info("invoice paid",
		zap.String("invoice_id", invoice.ID.String()),
		zap.String("number", invoice.Number),
	)
	return s.view(*invoice, nil), nil
}

// Reopen is the administrative correction path back to pending. It is not
// part of the normal lifecycle, hence the warning log.
func (s *Service) Reopen(ctx context.Context, id string) (domain.InvoiceView, error) {
	invoice, err := s.load(ctx, id)
	if err != nil {
		return domain.InvoiceView{}, err
	}
	if invoice.Status != domain.StoredStatusPaid {
		return domain.InvoiceView{}, domain.ErrNotPaid
	}

	invoice.Status = domain.StoredStatusPending
	invoice.PaidAt = nil
	invoice.UpdatedAt = s.clock.Now()

	if err := s.repo.Update(ctx, s.db, invoice); err != nil {
		return domain.InvoiceView{}, err
	}

	s.log.Warn("invoice reopened by administrative override",
		zap.String("invoice_id", invoice.ID.String()),
		zap.String("number", invoice.Number),
	)
	return s.view(*invoice, nil), nil
}

func (s *Service) AddLine(ctx context.Context, invoiceID string, in domain.LineInput) (domain.InvoiceView, error) {
	invoice, err := s.load(ctx, invoiceID)
	if err != nil {
		return domain.InvoiceView{}, err
	}

	line := money.Line{Quantity: in.Quantity, UnitPrice: in.UnitPrice}
	if err := line.Validate(); err != nil {
		return domain.InvoiceView{}, err
	}

	now := s.clock.Now()
	newLine := domain.InvoiceLine{
		ID:          s.genID.Generate(),
		InvoiceID:   invoice.ID,
		Description: strings.TrimSpace(in.Description),
		Quantity:    in.Quantity,
		UnitPrice:   in.UnitPrice,
		LineTotal:   line.Total(),
		CreatedAt:   now,
	}

	var lines []domain.InvoiceLine
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.InsertLine(ctx, tx, &newLine); err != nil {
			return err
		}
		lines, err = s.recompute(ctx, tx, invoice)
		return err
	})
	if err != nil {
		return domain.InvoiceView{}, err
	}
	return s.view(*invoice, lines), nil
}

func (s *Service) UpdateLine(ctx context.Context, invoiceID, lineID string, in domain.LineInput) (domain.InvoiceView, error) {
	invoice, err := s.load(ctx, invoiceID)
	if err != nil {
		return domain.InvoiceView{}, err
	}

	target, err := parseID(lineID)
	if err != nil {
		return domain.InvoiceView{}, err
	}

	update := money.Line{Quantity: in.Quantity, UnitPrice: in.UnitPrice}
	if err := update.Validate(); err != nil {
		return domain.InvoiceView{}, err
	}

	var lines []domain.InvoiceLine
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := s.repo.FindLines(ctx, tx, invoice.ID)
		if err != nil {
			return err
		}

		var found *domain.InvoiceLine
		for i := range existing {
			if existing[i].ID == target {
				found = &existing[i]
				break
			}
		}
		if found == nil {
			return domain.ErrLineNotFound
		}

		found.Description = strings.TrimSpace(in.Description)
		found.Quantity = in.Quantity
		found.UnitPrice = in.UnitPrice
		found.LineTotal = update.Total()
		if err := s.repo.UpdateLine(ctx, tx, found); err != nil {
			return err
		}

		lines, err = s.recompute(ctx, tx, invoice)
		return err
	})
	if err != nil {
		return domain.InvoiceView{}, err
	}
	return s.view(*invoice, lines), nil
}

func (s *Service) RemoveLine(ctx context.Context, invoiceID, lineID string) (domain.InvoiceView, error) {
	invoice, err := s.load(ctx, invoiceID)
	if err != nil {
		return domain.InvoiceView{}, err
	}

	target, err := parseID(lineID)
	if err != nil {
		return domain.InvoiceView{}, err
	}

	var lines []domain.InvoiceLine
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := s.repo.FindLines(ctx, tx, invoice.ID)
		if err != nil {
			return err
		}

		found := false
		for _, line := range existing {
			if line.ID == target {
				found = true
				break
			}
		}
		if !found {
			return domain.ErrLineNotFound
		}
		if len(existing) == 1 {
			// An invoice must always carry at least one line.
			return domain.ErrLastLine
		}

		if err := s.repo.DeleteLine(ctx, tx, invoice.ID, target); err != nil {
			return err
		}

		lines, err = s.recompute(ctx, tx, invoice)
		return err
	})
	if err != nil {
		return domain.InvoiceView{}, err
	}
	return s.view(*invoice, lines), nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	invoice, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, s.db, invoice.ID)
}

// recompute re-aggregates the invoice's lines into a fresh taxable base and
// re-derives tax and total. It never reads cached totals.
func (s *Service) recompute(ctx context.Context, tx *gorm.DB, invoice *domain.Invoice) ([]domain.InvoiceLine, error) {
	lines, err := s.repo.FindLines(ctx, tx, invoice.ID)
	if err != nil {
		return nil, err
	}

	agg := make([]money.Line, 0, len(lines))
	for _, line := range lines {
		agg = append(agg, money.Line{Quantity: line.Quantity, UnitPrice: line.UnitPrice})
	}

	base, err := money.AggregateLines(agg)
	if err != nil {
		return nil, err
	}

	taxAmount, total, err := money.ComputeTax(base, money.TaxRate(invoice.TaxRate))
	if err != nil {
		return nil, err
	}

	invoice.TaxableBase = base
	invoice.TaxAmount = taxAmount
	invoice.Total = total
	invoice.UpdatedAt = s.clock.Now()

	if err := s.repo.Update(ctx, tx, invoice); err != nil {
		return nil, err
	}
	return lines, nil
}

func (s *Service) load(ctx context.Context, raw string) (*domain.Invoice, error) {
	id, err := parseID(raw)
	if err != nil {
		return nil, err
	}

	invoice, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, domain.ErrNotFound
	}
	return invoice, nil
}

func (s *Service) view(invoice domain.Invoice, lines []domain.InvoiceLine) domain.InvoiceView {
	return domain.InvoiceView{
		Invoice:       invoice,
		DisplayStatus: invoice.DisplayStatus(s.clock.Now()),
		Lines:         lines,
	}
}

func parseID(raw string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(raw))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
