package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/gestoria/pkg/db/pagination"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, client *Client) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Client, error)
	List(ctx context.Context, db *gorm.DB) ([]Client, error)
	Update(ctx context.Context, db *gorm.DB, client *Client) error
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error

	// BillingStats aggregates the client's invoices at read time.
	BillingStats(ctx context.Context, db *gorm.DB, clientID snowflake.ID) (BillingStats, error)

	InsertPhaseEvent(ctx context.Context, db *gorm.DB, event *PhaseEvent) error
	ListPhaseEvents(ctx context.Context, db *gorm.DB, clientID snowflake.ID, cursor *pagination.Cursor, limit int) ([]PhaseEvent, error)
}
