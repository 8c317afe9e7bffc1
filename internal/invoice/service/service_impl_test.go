package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/gestoria/internal/clock"
	"github.com/smallbiznis/gestoria/internal/invoice/domain"
	"github.com/smallbiznis/gestoria/internal/invoice/format"
	"github.com/smallbiznis/gestoria/internal/invoice/repository"
	"github.com/smallbiznis/gestoria/internal/money"
	settingsdomain "github.com/smallbiznis/gestoria/internal/settings/domain"
	settingsservice "github.com/smallbiznis/gestoria/internal/settings/service"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func ptr[T any](v T) *T { return &v }

func setup(t *testing.T) (domain.Service, *clock.FakeClock, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	assert.NoError(t, err)

	err = db.AutoMigrate(
		&domain.Invoice{},
		&domain.InvoiceLine{},
		&domain.InvoiceSequence{},
		&settingsdomain.Settings{},
	)
	assert.NoError(t, err)

	db.Create(&settingsdomain.Settings{
		ID:                    settingsdomain.DefaultID,
		CompanyName:           "Mi Empresa SL",
		Currency:              "EUR",
		DefaultTaxRate:        21,
		InvoiceNumberTemplate: format.DefaultNumberTemplate,
	})

	node, _ := snowflake.NewNode(1)
	logger := zap.NewNop()
	fake := clock.NewFakeClock(time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC))

	settingsSvc := settingsservice.New(settingsservice.Params{DB: db, Log: logger})

	svc := New(Params{
		DB:       db,
		Log:      logger,
		GenID:    node,
		Repo:     repository.Provide(),
		Clock:    fake,
		Settings: settingsSvc,
	})
	return svc, fake, db
}

func issue(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCreate_WithLines(t *testing.T) {
	svc, _, _ := setup(t)
	ctx := context.Background()

	view, err := svc.Create(ctx, domain.CreateInvoiceRequest{
		ClientName:  "Empresa ABC S.L.",
		Description: "Servicios de consultoría",
		IssueDate:   issue(2024, 1, 15),
		DueDate:     ptr(issue(2024, 2, 15)),
		Lines: []domain.LineInput{
			{Description: "Consultoría", Quantity: dec("2"), UnitPrice: dec("10.00")},
			{Description: "Soporte", Quantity: dec("1"), UnitPrice: dec("5.50")},
		},
	})
	assert.NoError(t, err)

	assert.Equal(t, "FAC-2024-001", view.Number)
	assert.True(t, view.TaxableBase.Equal(dec("25.50")), "base = %s", view.TaxableBase)
	assert.True(t, view.TaxAmount.Equal(dec("5.36")), "tax = %s", view.TaxAmount)
	assert.True(t, view.Total.Equal(dec("30.86")), "total = %s", view.Total)
	assert.Equal(t, domain.StatusPending, view.DisplayStatus)
	assert.Len(t, view.Lines, 2)
}

func TestCreate_ExplicitBase_DefaultRate(t *testing.T) {
	svc, _, _ := setup(t)
	ctx := context.Background()

	view, err := svc.Create(ctx, domain.CreateInvoiceRequest{
		ClientName:  "StartupXYZ",
		IssueDate:   issue(2024, 1, 13),
		TaxableBase: ptr(dec("1000.00")),
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(21), view.TaxRate)
	assert.True(t, view.TaxAmount.Equal(dec("210.00")))
	assert.True(t, view.Total.Equal(dec("1210.00")))
}

func TestCreate_SequencePerYear(t *testing.T) {
	svc, _, _ := setup(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, domain.CreateInvoiceRequest{
		ClientName: "A", IssueDate: issue(2024, 1, 1), TaxableBase: ptr(dec("10")),
	})
	assert.NoError(t, err)
	second, err := svc.Create(ctx, domain.CreateInvoiceRequest{
		ClientName: "B", IssueDate: issue(2024, 3, 1), TaxableBase: ptr(dec("10")),
	})
	assert.NoError(t, err)
	nextYear, err := svc.Create(ctx, domain.CreateInvoiceRequest{
		ClientName: "C", IssueDate: issue(2025, 1, 1), TaxableBase: ptr(dec("10")),
	})
	assert.NoError(t, err)

	assert.Equal(t, "FAC-2024-001", first.Number)
	assert.Equal(t, "FAC-2024-002", second.Number)
	assert.Equal(t, "FAC-2025-001", nextYear.Number)
}

func TestCreate_Validation(t *testing.T) {
	svc, _, _ := setup(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, domain.CreateInvoiceRequest{
		ClientName: "  ", IssueDate: issue(2024, 1, 1), TaxableBase: ptr(dec("10")),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidClientName)

	_, err = svc.Create(ctx, domain.CreateInvoiceRequest{
		ClientName: "A", IssueDate: issue(2024, 1, 1), TaxableBase: ptr(dec("10")), TaxRate: ptr(int64(7)),
	})
	assert.ErrorIs(t, err, money.ErrInvalidTaxRate)

	_, err = svc.Create(ctx, domain.CreateInvoiceRequest{
		ClientName: "A", IssueDate: issue(2024, 1, 1), TaxableBase: ptr(dec("-5")),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidTaxableBase)

	_, err = svc.Create(ctx, domain.CreateInvoiceRequest{
		ClientName: "A", IssueDate: issue(2024, 1, 10), DueDate: ptr(issue(2024, 1, 1)), TaxableBase: ptr(dec("10")),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidDueDate)
}

func TestMarkPaid_OneWay(t *testing.T) {
	svc, _, _ := setup(t)
	ctx := context.Background()

	view, err := svc.Create(ctx, domain.CreateInvoiceRequest{
		ClientName: "A", IssueDate: issue(2024, 1, 1), TaxableBase: ptr(dec("100")),
	})
	assert.NoError(t, err)

	paid, err := svc.MarkPaid(ctx, view.ID.String())
	assert.NoError(t, err)
	assert.Equal(t, domain.StatusPaid, paid.DisplayStatus)
	assert.NotNil(t, paid.PaidAt)

	_, err = svc.MarkPaid(ctx, view.ID.String())
	assert.ErrorIs(t, err, domain.ErrAlreadyPaid)
}

func TestReopen_AdministrativeOverride(t *testing.T) {
	svc, _, _ := setup(t)
	ctx := context.Background()

	view, err := svc.Create(ctx, domain.CreateInvoiceRequest{
		ClientName: "A", IssueDate: issue(2024, 1, 1), TaxableBase: ptr(dec("100")),
	})
	assert.NoError(t, err)

	_, err = svc.Reopen(ctx, view.ID.String())
	assert.ErrorIs(t, err, domain.ErrNotPaid)

	_, err = svc.MarkPaid(ctx, view.ID.String())
	assert.NoError(t, err)

	reopened, err := svc.Reopen(ctx, view.ID.String())
	assert.NoError(t, err)
	assert.Equal(t, domain.StatusPending, reopened.DisplayStatus)
	assert.Nil(t, reopened.PaidAt)
}

func TestLineEditing_Recomputes(t *testing.T) {
	svc, _, _ := setup(t)
	ctx := context.Background()

	view, err := svc.Create(ctx, domain.CreateInvoiceRequest{
		ClientName: "A",
		IssueDate:  issue(2024, 1, 1),
		Lines: []domain.LineInput{
			{Description: "Uno", Quantity: dec("1"), UnitPrice: dec("100.00")},
		},
	})
	assert.NoError(t, err)
	assert.True(t, view.TaxableBase.Equal(dec("100.00")))

	view, err = svc.AddLine(ctx, view.ID.String(), domain.LineInput{
		Description: "Dos", Quantity: dec("2"), UnitPrice: dec("25.00"),
	})
	assert.NoError(t, err)
	assert.True(t, view.TaxableBase.Equal(dec("150.00")), "base = %s", view.TaxableBase)
	assert.True(t, view.TaxAmount.Equal(dec("31.50")))
	assert.True(t, view.Total.Equal(dec("181.50")))
	assert.Len(t, view.Lines, 2)

	second := view.Lines[1]
	view, err = svc.UpdateLine(ctx, view.ID.String(), second.ID.String(), domain.LineInput{
		Description: "Dos", Quantity: dec("3"), UnitPrice: dec("25.00"),
	})
	assert.NoError(t, err)
	assert.True(t, view.TaxableBase.Equal(dec("175.00")), "base = %s", view.TaxableBase)

	view, err = svc.RemoveLine(ctx, view.ID.String(), second.ID.String())
	assert.NoError(t, err)
	assert.True(t, view.TaxableBase.Equal(dec("100.00")), "base = %s", view.TaxableBase)
	assert.Len(t, view.Lines, 1)
}

func TestRemoveLine_LastLineRejected(t *testing.T) {
	svc, _, _ := setup(t)
	ctx := context.Background()

	view, err := svc.Create(ctx, domain.CreateInvoiceRequest{
		ClientName: "A",
		IssueDate:  issue(2024, 1, 1),
		Lines: []domain.LineInput{
			{Description: "Única", Quantity: dec("1"), UnitPrice: dec("50.00")},
		},
	})
	assert.NoError(t, err)

	_, err = svc.RemoveLine(ctx, view.ID.String(), view.Lines[0].ID.String())
	assert.ErrorIs(t, err, domain.ErrLastLine)
}

func TestList_FilterAndOverdueClassification(t *testing.T) {
	svc, fake, _ := setup(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, domain.CreateInvoiceRequest{
		ClientName: "Empresa ABC S.L.", Description: "Consultoría",
		IssueDate: issue(2024, 1, 15), DueDate: ptr(issue(2024, 2, 15)),
		TaxableBase: ptr(dec("2066.12")),
	})
	assert.NoError(t, err)

	startup, err := svc.Create(ctx, domain.CreateInvoiceRequest{
		ClientName: "StartupXYZ", Description: "Desarrollo web",
		IssueDate: issue(2024, 1, 13), DueDate: ptr(issue(2024, 1, 20)),
		TaxableBase: ptr(dec("3966.94")),
	})
	assert.NoError(t, err)

	paid, err := svc.Create(ctx, domain.CreateInvoiceRequest{
		ClientName: "TechCorp Ltd.", Description: "Mantenimiento",
		IssueDate: issue(2024, 1, 11), TaxableBase: ptr(dec("735.54")),
	})
	assert.NoError(t, err)
	_, err = svc.MarkPaid(ctx, paid.ID.String())
	assert.NoError(t, err)

	// Past StartupXYZ's due date: it becomes overdue without any write.
	fake.Set(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC))

	resp, err := svc.List(ctx, domain.ListInvoiceRequest{Text: "startup"})
	assert.NoError(t, err)
	assert.Len(t, resp.Invoices, 1)
	assert.Equal(t, startup.Number, resp.Invoices[0].Number)
	assert.Equal(t, domain.StatusOverdue, resp.Invoices[0].DisplayStatus)

	resp, err = svc.List(ctx, domain.ListInvoiceRequest{Status: "pending"})
	assert.NoError(t, err)
	assert.Len(t, resp.Invoices, 1)
	assert.Equal(t, "Empresa ABC S.L.", resp.Invoices[0].ClientName)

	resp, err = svc.List(ctx, domain.ListInvoiceRequest{Status: "all"})
	assert.NoError(t, err)
	assert.Len(t, resp.Invoices, 3)
}

func TestList_FilterByClient(t *testing.T) {
	svc, _, _ := setup(t)
	ctx := context.Background()

	acme, err := svc.Create(ctx, domain.CreateInvoiceRequest{
		ClientID: "101", ClientName: "Acme SL",
		IssueDate: issue(2024, 1, 10), TaxableBase: ptr(dec("100")),
	})
	assert.NoError(t, err)

	_, err = svc.Create(ctx, domain.CreateInvoiceRequest{
		ClientID: "202", ClientName: "StartupXYZ",
		IssueDate: issue(2024, 1, 11), TaxableBase: ptr(dec("200")),
	})
	assert.NoError(t, err)

	// Invoices without a client never match a client filter.
	_, err = svc.Create(ctx, domain.CreateInvoiceRequest{
		ClientName: "Cliente Suelto",
		IssueDate: issue(2024, 1, 12), TaxableBase: ptr(dec("300")),
	})
	assert.NoError(t, err)

	clientID := snowflake.ID(101)
	resp, err := svc.List(ctx, domain.ListInvoiceRequest{ClientID: &clientID})
	assert.NoError(t, err)
	assert.Len(t, resp.Invoices, 1)
	assert.Equal(t, acme.Number, resp.Invoices[0].Number)
}
