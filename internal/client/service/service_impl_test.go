package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/gestoria/internal/client/domain"
	"github.com/smallbiznis/gestoria/internal/client/repository"
	"github.com/smallbiznis/gestoria/internal/clock"
	invoicedomain "github.com/smallbiznis/gestoria/internal/invoice/domain"
	"github.com/smallbiznis/gestoria/pkg/db/pagination"
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

type harness struct {
	svc   domain.Service
	db    *gorm.DB
	clock *clock.FakeClock
	genID *snowflake.Node
}

func setup(t *testing.T) harness {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	assert.NoError(t, err)

	err = db.AutoMigrate(&domain.Client{}, &domain.PhaseEvent{}, &invoicedomain.Invoice{})
	assert.NoError(t, err)

	node, _ := snowflake.NewNode(1)
	fake := clock.NewFakeClock(time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC))

	svc := New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  repository.Provide(),
		Clock: fake,
	})
	return harness{svc: svc, db: db, clock: fake, genID: node}
}

func TestCreate_StartsAwaitingPayment(t *testing.T) {
	h := setup(t)
	ctx := context.Background()

	client, err := h.svc.Create(ctx, domain.CreateClientRequest{
		Name:        "StartupXYZ",
		ContactName: "Ana García",
		Email:       "ana@startupxyz.com",
		Phone:       "+34 600 000 001",
	})
	assert.NoError(t, err)
	assert.Equal(t, domain.PhaseAwaitingPayment, client.Phase)
	assert.True(t, client.TotalBilled.IsZero())
	assert.Equal(t, int64(0), client.PendingInvoices)
}

func TestCreate_Validation(t *testing.T) {
	h := setup(t)
	ctx := context.Background()

	_, err := h.svc.Create(ctx, domain.CreateClientRequest{Name: " ", Email: "a@b.com"})
	assert.ErrorIs(t, err, domain.ErrInvalidName)

	_, err = h.svc.Create(ctx, domain.CreateClientRequest{Name: "Acme", Email: "not-an-email"})
	assert.ErrorIs(t, err, domain.ErrInvalidEmail)
}

func TestChangePhase_LogsTransition(t *testing.T) {
	h := setup(t)
	ctx := context.Background()

	client, err := h.svc.Create(ctx, domain.CreateClientRequest{
		Name: "Acme SL", Email: "billing@acme.es",
	})
	assert.NoError(t, err)

	updated, err := h.svc.ChangePhase(ctx, client.ID.String(), domain.ChangePhaseRequest{Phase: domain.PhasePaid})
	assert.NoError(t, err)
	assert.Equal(t, domain.PhasePaid, updated.Phase)

	resp, err := h.svc.ListPhaseEvents(ctx, domain.ListPhaseEventsRequest{ClientID: client.ID.String()})
	assert.NoError(t, err)
	assert.Len(t, resp.Events, 1)
	assert.Equal(t, domain.PhaseAwaitingPayment, resp.Events[0].FromPhase)
	assert.Equal(t, domain.PhasePaid, resp.Events[0].ToPhase)
}

func TestChangePhase_RejectedCanBeReengaged(t *testing.T) {
	h := setup(t)
	ctx := context.Background()

	client, err := h.svc.Create(ctx, domain.CreateClientRequest{
		Name: "Acme SL", Email: "billing@acme.es",
	})
	assert.NoError(t, err)

	_, err = h.svc.ChangePhase(ctx, client.ID.String(), domain.ChangePhaseRequest{Phase: domain.PhaseRejected})
	assert.NoError(t, err)

	updated, err := h.svc.ChangePhase(ctx, client.ID.String(), domain.ChangePhaseRequest{Phase: domain.PhaseInMaintenance})
	assert.NoError(t, err)
	assert.Equal(t, domain.PhaseInMaintenance, updated.Phase)
}

func TestChangePhase_NoopAndInvalid(t *testing.T) {
	h := setup(t)
	ctx := context.Background()

	client, err := h.svc.Create(ctx, domain.CreateClientRequest{
		Name: "Acme SL", Email: "billing@acme.es",
	})
	assert.NoError(t, err)

	// Same-phase change is a no-op and must not write an event.
	_, err = h.svc.ChangePhase(ctx, client.ID.String(), domain.ChangePhaseRequest{Phase: domain.PhaseAwaitingPayment})
	assert.NoError(t, err)

	resp, err := h.svc.ListPhaseEvents(ctx, domain.ListPhaseEventsRequest{ClientID: client.ID.String()})
	assert.NoError(t, err)
	assert.Empty(t, resp.Events)

	_, err = h.svc.ChangePhase(ctx, client.ID.String(), domain.ChangePhaseRequest{Phase: "archived"})
	assert.ErrorIs(t, err, domain.ErrInvalidPhase)
}

func TestListPhaseEvents_Paginates(t *testing.T) {
	h := setup(t)
	ctx := context.Background()

	client, err := h.svc.Create(ctx, domain.CreateClientRequest{
		Name: "Acme SL", Email: "billing@acme.es",
	})
	assert.NoError(t, err)

	phases := []domain.Phase{
		domain.PhasePaid, domain.PhaseInMaintenance, domain.PhaseRejected,
		domain.PhaseAwaitingPayment, domain.PhasePaid,
	}
	for i, phase := range phases {
		h.clock.Set(time.Date(2024, 1, 15, 12, i+1, 0, 0, time.UTC))
		_, err = h.svc.ChangePhase(ctx, client.ID.String(), domain.ChangePhaseRequest{Phase: phase})
		assert.NoError(t, err)
	}

	first, err := h.svc.ListPhaseEvents(ctx, domain.ListPhaseEventsRequest{
		ClientID: client.ID.String(),
		Page:     pagination.Pagination{PageSize: 3},
	})
	assert.NoError(t, err)
	assert.Len(t, first.Events, 3)
	assert.True(t, first.HasMore)
	// Newest first.
	assert.Equal(t, domain.PhasePaid, first.Events[0].ToPhase)

	second, err := h.svc.ListPhaseEvents(ctx, domain.ListPhaseEventsRequest{
		ClientID: client.ID.String(),
		Page:     pagination.Pagination{PageSize: 3, PageToken: first.NextPageToken},
	})
	assert.NoError(t, err)
	assert.Len(t, second.Events, 2)
	assert.False(t, second.HasMore)
	assert.Equal(t, domain.PhaseInMaintenance, second.Events[0].ToPhase)
	assert.Equal(t, domain.PhasePaid, second.Events[1].ToPhase)
}

func TestView_BillingStats(t *testing.T) {
	h := setup(t)
	ctx := context.Background()

	client, err := h.svc.Create(ctx, domain.CreateClientRequest{
		Name: "Acme SL", Email: "billing@acme.es",
	})
	assert.NoError(t, err)

	clientID := client.ID
	mk := func(total string, status invoicedomain.StoredStatus) {
		err := h.db.Create(&invoicedomain.Invoice{
			ID:          h.genID.Generate(),
			Number:      "FAC-2024-" + total,
			ClientID:    &clientID,
			ClientName:  "Acme SL",
			IssueDate:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			TaxableBase: dec(total),
			TaxAmount:   dec("0"),
			Total:       dec(total),
			Status:      status,
		}).Error
		assert.NoError(t, err)
	}
	mk("100.00", invoicedomain.StoredStatusPending)
	mk("250.50", invoicedomain.StoredStatusPaid)

	view, err := h.svc.GetByID(ctx, client.ID.String())
	assert.NoError(t, err)
	assert.True(t, view.TotalBilled.Equal(dec("350.50")), "total billed = %s", view.TotalBilled)
	assert.Equal(t, int64(1), view.PendingInvoices)
}

func TestList_FilterByTextAndPhase(t *testing.T) {
	h := setup(t)
	ctx := context.Background()

	mk := func(name, contact, email string) domain.ClientView {
		client, err := h.svc.Create(ctx, domain.CreateClientRequest{
			Name: name, ContactName: contact, Email: email,
		})
		assert.NoError(t, err)
		return client
	}

	startup := mk("StartupXYZ", "Ana García", "ana@startupxyz.com")
	mk("Consultora Norte", "Luis Pérez", "luis@norte.es")
	mk("Tienda Sur", "Marta Ruiz", "marta@tiendasur.es")

	_, err := h.svc.ChangePhase(ctx, startup.ID.String(), domain.ChangePhaseRequest{Phase: domain.PhasePaid})
	assert.NoError(t, err)

	resp, err := h.svc.List(ctx, domain.ListClientRequest{Text: "startup"})
	assert.NoError(t, err)
	assert.Len(t, resp.Clients, 1)
	assert.Equal(t, "StartupXYZ", resp.Clients[0].Name)

	resp, err = h.svc.List(ctx, domain.ListClientRequest{Phase: "awaiting_payment"})
	assert.NoError(t, err)
	assert.Len(t, resp.Clients, 2)

	resp, err = h.svc.List(ctx, domain.ListClientRequest{Phase: "all"})
	assert.NoError(t, err)
	assert.Len(t, resp.Clients, 3)
}

func TestUpdate_PartialFields(t *testing.T) {
	h := setup(t)
	ctx := context.Background()

	client, err := h.svc.Create(ctx, domain.CreateClientRequest{
		Name: "Acme SL", ContactName: "Ana", Email: "a@acme.es",
	})
	assert.NoError(t, err)

	updated, err := h.svc.Update(ctx, client.ID.String(), domain.UpdateClientRequest{
		ContactName: ptr("Beatriz"),
	})
	assert.NoError(t, err)
	assert.Equal(t, "Acme SL", updated.Name)
	assert.Equal(t, "Beatriz", updated.ContactName)

	_, err = h.svc.Update(ctx, client.ID.String(), domain.UpdateClientRequest{Email: ptr("bad")})
	assert.ErrorIs(t, err, domain.ErrInvalidEmail)
}

func TestDelete(t *testing.T) {
	h := setup(t)
	ctx := context.Background()

	client, err := h.svc.Create(ctx, domain.CreateClientRequest{
		Name: "Acme SL", Email: "a@acme.es",
	})
	assert.NoError(t, err)

	err = h.svc.Delete(ctx, client.ID.String())
	assert.NoError(t, err)

	_, err = h.svc.GetByID(ctx, client.ID.String())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
