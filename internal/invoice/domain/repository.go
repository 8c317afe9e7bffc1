package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, invoice *Invoice, lines []InvoiceLine) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Invoice, error)
	List(ctx context.Context, db *gorm.DB) ([]Invoice, error)
	Update(ctx context.Context, db *gorm.DB, invoice *Invoice) error
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error

	FindLines(ctx context.Context, db *gorm.DB, invoiceID snowflake.ID) ([]InvoiceLine, error)
	CountLines(ctx context.Context, db *gorm.DB, invoiceID snowflake.ID) (int64, error)
	InsertLine(ctx context.Context, db *gorm.DB, line *InvoiceLine) error
	UpdateLine(ctx context.Context, db *gorm.DB, line *InvoiceLine) error
	DeleteLine(ctx context.Context, db *gorm.DB, invoiceID, lineID snowflake.ID) error

	// NextSequence advances and returns the per-year sequence. Callers run
	// it inside the create transaction so numbers never repeat in a year.
	NextSequence(ctx context.Context, db *gorm.DB, year int) (int64, error)
}
