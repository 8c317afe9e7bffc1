package server

import (
	"context"
	"net/http"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/gestoria/internal/client"
	clientdomain "github.com/smallbiznis/gestoria/internal/client/domain"
	"github.com/smallbiznis/gestoria/internal/config"
	"github.com/smallbiznis/gestoria/internal/dashboard"
	dashboarddomain "github.com/smallbiznis/gestoria/internal/dashboard/domain"
	"github.com/smallbiznis/gestoria/internal/expense"
	expensedomain "github.com/smallbiznis/gestoria/internal/expense/domain"
	"github.com/smallbiznis/gestoria/internal/invoice"
	invoicedomain "github.com/smallbiznis/gestoria/internal/invoice/domain"
	obsmetrics "github.com/smallbiznis/gestoria/internal/observability/metrics"
	"github.com/smallbiznis/gestoria/internal/settings"
	settingsdomain "github.com/smallbiznis/gestoria/internal/settings/domain"
	"github.com/smallbiznis/gestoria/internal/user"
	userdomain "github.com/smallbiznis/gestoria/internal/user/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	invoice.Module,
	expense.Module,
	client.Module,
	user.Module,
	settings.Module,
	dashboard.Module,
	fx.Provide(NewEngine),
	fx.Provide(NewServer),
	fx.Invoke(RunHTTP),
)

func NewEngine(httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(httpMetrics.Middleware())
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", httpMetrics.Handler())

	return r
}

type Server struct {
	engine       *gin.Engine
	cfg          config.Config
	db           *gorm.DB
	log          *zap.Logger
	genID        *snowflake.Node
	invoiceSvc   invoicedomain.Service
	expenseSvc   expensedomain.Service
	clientSvc    clientdomain.Service
	userSvc      userdomain.Service
	settingsSvc  settingsdomain.Service
	dashboardSvc dashboarddomain.Service
}

type ServerParams struct {
	fx.In

	Gin          *gin.Engine
	Cfg          config.Config
	DB           *gorm.DB
	Log          *zap.Logger
	GenID        *snowflake.Node
	InvoiceSvc   invoicedomain.Service
	ExpenseSvc   expensedomain.Service
	ClientSvc    clientdomain.Service
	UserSvc      userdomain.Service
	SettingsSvc  settingsdomain.Service
	DashboardSvc dashboarddomain.Service
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:       p.Gin,
		cfg:          p.Cfg,
		db:           p.DB,
		log:          p.Log.Named("http.server"),
		genID:        p.GenID,
		invoiceSvc:   p.InvoiceSvc,
		expenseSvc:   p.ExpenseSvc,
		clientSvc:    p.ClientSvc,
		userSvc:      p.UserSvc,
		settingsSvc:  p.SettingsSvc,
		dashboardSvc: p.DashboardSvc,
	}

	svc.registerAPIRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")

	// -------- Dashboard --------
	api.GET("/dashboard", s.GetDashboard)

	// -------- Invoices --------
	api.GET("/invoices", s.ListInvoices)
	api.POST("/invoices", s.CreateInvoice)
	api.GET("/invoices/:id", s.GetInvoiceByID)
	api.POST("/invoices/:id/pay", s.PayInvoice)
	api.POST("/invoices/:id/reopen", s.ReopenInvoice)
	api.DELETE("/invoices/:id", s.DeleteInvoice)
	api.POST("/invoices/:id/lines", s.AddInvoiceLine)
	api.PATCH("/invoices/:id/lines/:lineId", s.UpdateInvoiceLine)
	api.DELETE("/invoices/:id/lines/:lineId", s.RemoveInvoiceLine)

	// -------- Expenses --------
	api.GET("/expenses", s.ListExpenses)
	api.POST("/expenses", s.CreateExpense)
	api.GET("/expenses/:id", s.GetExpenseByID)
	api.POST("/expenses/:id/pay", s.PayExpense)
	api.DELETE("/expenses/:id", s.DeleteExpense)

	// -------- Clients --------
	api.GET("/clients", s.ListClients)
	api.POST("/clients", s.CreateClient)
	api.GET("/clients/:id", s.GetClientByID)
	api.PATCH("/clients/:id", s.UpdateClient)
	api.POST("/clients/:id/phase", s.ChangeClientPhase)
	api.GET("/clients/:id/phase-events", s.ListClientPhaseEvents)
	api.DELETE("/clients/:id", s.DeleteClient)

	// -------- Users --------
	api.GET("/users", s.ListUsers)
	api.POST("/users", s.InviteUser)
	api.GET("/users/:id", s.GetUserByID)
	api.PATCH("/users/:id", s.UpdateUser)
	api.POST("/users/:id/access", s.RecordUserAccess)
	api.POST("/users/:id/deactivate", s.DeactivateUser)
	api.POST("/users/:id/reactivate", s.ReactivateUser)
	api.DELETE("/users/:id", s.DeleteUser)

	// -------- Settings --------
	api.GET("/settings", s.GetSettings)
	api.PATCH("/settings", s.UpdateSettings)
}

func RunHTTP(lc fx.Lifecycle, cfg config.Config, s *Server, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: s.Engine(),
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Error("http server stopped", zap.Error(err))
				}
			}()
			log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}
