package migration

import (
	clientdomain "github.com/smallbiznis/gestoria/internal/client/domain"
	"github.com/smallbiznis/gestoria/internal/config"
	expensedomain "github.com/smallbiznis/gestoria/internal/expense/domain"
	invoicedomain "github.com/smallbiznis/gestoria/internal/invoice/domain"
	"github.com/smallbiznis/gestoria/internal/seed"
	settingsdomain "github.com/smallbiznis/gestoria/internal/settings/domain"
	userdomain "github.com/smallbiznis/gestoria/internal/user/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		} else {
			// mysql and sqlite setups are single-node dev targets; the
			// schema comes from the models directly.
			err := conn.AutoMigrate(
				&settingsdomain.Settings{},
				&userdomain.User{},
				&clientdomain.Client{},
				&clientdomain.PhaseEvent{},
				&invoicedomain.Invoice{},
				&invoicedomain.InvoiceLine{},
				&invoicedomain.InvoiceSequence{},
				&expensedomain.Expense{},
			)
			if err != nil {
				return err
			}
		}

		return seed.EnsureDefaults(conn)
	}),
)
