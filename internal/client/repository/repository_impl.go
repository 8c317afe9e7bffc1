package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/gestoria/internal/client/domain"
	invoicedomain "github.com/smallbiznis/gestoria/internal/invoice/domain"
	"github.com/smallbiznis/gestoria/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, client *domain.Client) error {
	return db.WithContext(ctx).Create(client).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Client, error) {
	var client domain.Client
	err := db.WithContext(ctx).First(&client, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB) ([]domain.Client, error) {
	var clients []domain.Client
	err := db.WithContext(ctx).
		Model(&domain.Client{}).
		Order("name asc, id asc").
		Find(&clients).Error
	if err != nil {
		return nil, err
	}
	return clients, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, client *domain.Client) error {
	return db.WithContext(ctx).Save(client).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	if err := db.WithContext(ctx).Delete(&domain.PhaseEvent{}, "client_id = ?", id).Error; err != nil {
		return err
	}
	return db.WithContext(ctx).Delete(&domain.Client{}, "id = ?", id).Error
}

func (r *repo) BillingStats(ctx context.Context, db *gorm.DB, clientID snowflake.ID) (domain.BillingStats, error) {
	var row struct {
		TotalBilled     decimal.Decimal
		PendingInvoices int64
	}
	err := db.WithContext(ctx).
		Model(&invoicedomain.Invoice{}).
		Select("COALESCE(SUM(total), 0) AS total_billed, COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS pending_invoices", invoicedomain.StoredStatusPending).
		Where("client_id = ?", clientID).
		Scan(&row).Error
	if err != nil {
		return domain.BillingStats{}, err
	}
	return domain.BillingStats{
		TotalBilled:     row.TotalBilled,
		PendingInvoices: row.PendingInvoices,
	}, nil
}

func (r *repo) InsertPhaseEvent(ctx context.Context, db *gorm.DB, event *domain.PhaseEvent) error {
	return db.WithContext(ctx).Create(event).Error
}

func (r *repo) ListPhaseEvents(ctx context.Context, db *gorm.DB, clientID snowflake.ID, cursor *pagination.Cursor, limit int) ([]domain.PhaseEvent, error) {
	stmt := db.WithContext(ctx).
		Model(&domain.PhaseEvent{}).
		Where("client_id = ?", clientID)

	if cursor != nil && cursor.OccurredAt != "" && cursor.ID != "" {
		occurredAt, err := time.Parse(time.RFC3339Nano, cursor.OccurredAt)
		if err != nil {
			return nil, err
		}
		id, err := snowflake.ParseString(cursor.ID)
		if err != nil {
			return nil, err
		}
		stmt = stmt.Where("occurred_at < ? OR (occurred_at = ? AND id < ?)", occurredAt, occurredAt, id)
	}

	var events []domain.PhaseEvent
	err := stmt.
		Order("occurred_at desc, id desc").
		Limit(limit + 1).
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}
