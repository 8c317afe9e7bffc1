// Package seed bootstraps the records the application expects at startup.
package seed

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/gestoria/internal/invoice/format"
	settingsdomain "github.com/smallbiznis/gestoria/internal/settings/domain"
	userdomain "github.com/smallbiznis/gestoria/internal/user/domain"
	"gorm.io/gorm"
)

const (
	defaultCompanyName = "Mi Empresa"
	defaultCurrency    = "EUR"
	defaultTaxRate     = 21

	defaultOwnerName  = "Owner"
	defaultOwnerEmail = "owner@gestoria.local"
)

// EnsureDefaults seeds the settings singleton and a first owner account so
// a fresh install is immediately usable.
func EnsureDefaults(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureSettings(ctx, tx); err != nil {
			return err
		}
		return ensureOwner(ctx, tx, node)
	})
}

func ensureSettings(ctx context.Context, tx *gorm.DB) error {
	var count int64
	if err := tx.WithContext(ctx).
		Model(&settingsdomain.Settings{}).
		Where("id = ?", settingsdomain.DefaultID).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	return tx.WithContext(ctx).Create(&settingsdomain.Settings{
		ID:                    settingsdomain.DefaultID,
		CompanyName:           defaultCompanyName,
		Currency:              defaultCurrency,
		DefaultTaxRate:        defaultTaxRate,
		InvoiceNumberTemplate: format.DefaultNumberTemplate,
		UpdatedAt:             time.Now().UTC(),
	}).Error
}

// ensureOwner creates the first owner only when the workspace has no
// members at all, so reinstalls never resurrect a deleted account.
func ensureOwner(ctx context.Context, tx *gorm.DB, node *snowflake.Node) error {
	var count int64
	if err := tx.WithContext(ctx).
		Model(&userdomain.User{}).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	now := time.Now().UTC()
	return tx.WithContext(ctx).Create(&userdomain.User{
		ID:        node.Generate(),
		Name:      defaultOwnerName,
		Email:     defaultOwnerEmail,
		Role:      userdomain.RoleOwner,
		Status:    userdomain.StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}).Error
}
