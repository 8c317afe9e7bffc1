package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	clientdomain "github.com/smallbiznis/gestoria/internal/client/domain"
	"github.com/smallbiznis/gestoria/internal/clock"
	expensedomain "github.com/smallbiznis/gestoria/internal/expense/domain"
	invoicedomain "github.com/smallbiznis/gestoria/internal/invoice/domain"
	userdomain "github.com/smallbiznis/gestoria/internal/user/domain"
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

func TestSummary(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	assert.NoError(t, err)

	err = db.AutoMigrate(
		&invoicedomain.Invoice{},
		&expensedomain.Expense{},
		&clientdomain.Client{},
		&userdomain.User{},
	)
	assert.NoError(t, err)

	node, _ := snowflake.NewNode(1)
	now := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	fake := clock.NewFakeClock(now)

	svc := New(Params{DB: db, Log: zap.NewNop(), Clock: fake})

	mkInvoice := func(number, total string, status invoicedomain.StoredStatus, due *time.Time) {
		err := db.Create(&invoicedomain.Invoice{
			ID:          node.Generate(),
			Number:      number,
			ClientName:  "Acme SL",
			IssueDate:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			DueDate:     due,
			TaxableBase: dec(total),
			TaxAmount:   dec("0"),
			Total:       dec(total),
			Status:      status,
		}).Error
		assert.NoError(t, err)
	}

	past := now.AddDate(0, 0, -5)
	future := now.AddDate(0, 0, 5)
	mkInvoice("FAC-2024-001", "1000.00", invoicedomain.StoredStatusPaid, nil)
	mkInvoice("FAC-2024-002", "500.00", invoicedomain.StoredStatusPending, &future)
	mkInvoice("FAC-2024-003", "250.00", invoicedomain.StoredStatusPending, &past)

	err = db.Create(&expensedomain.Expense{
		ID: node.Generate(), Number: "G-1", VendorName: "V", Category: "Oficina",
		IssueDate:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		TaxableBase: dec("300.00"), TaxAmount: dec("0"), Total: dec("300.00"),
		Status: expensedomain.StatusPending,
	}).Error
	assert.NoError(t, err)

	err = db.Create(&clientdomain.Client{
		ID: node.Generate(), Name: "Acme SL", Email: "a@acme.es",
		Phase: clientdomain.PhaseAwaitingPayment,
	}).Error
	assert.NoError(t, err)

	err = db.Create(&userdomain.User{
		ID: node.Generate(), Name: "Dueña", Email: "duena@empresa.es",
		Role: userdomain.RoleOwner, Status: userdomain.StatusActive,
	}).Error
	assert.NoError(t, err)

	summary, err := svc.Summary(context.Background())
	assert.NoError(t, err)
	assert.True(t, summary.TotalInvoiced.Equal(dec("1750.00")), "invoiced = %s", summary.TotalInvoiced)
	assert.True(t, summary.TotalExpenses.Equal(dec("300.00")), "expenses = %s", summary.TotalExpenses)
	assert.True(t, summary.NetResult.Equal(dec("1450.00")), "net = %s", summary.NetResult)
	assert.Equal(t, int64(1), summary.PendingInvoices)
	assert.Equal(t, int64(1), summary.OverdueInvoices)
	assert.Equal(t, int64(1), summary.PendingExpenses)
	assert.Equal(t, int64(1), summary.ClientCount)
	assert.Equal(t, int64(1), summary.UserCount)
}
