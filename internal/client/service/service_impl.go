package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/gestoria/internal/client/domain"
	"github.com/smallbiznis/gestoria/internal/clock"
	"github.com/smallbiznis/gestoria/internal/search"
	"github.com/smallbiznis/gestoria/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
	Clock clock.Clock
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
	clock clock.Clock
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("client.service"),
		genID: p.GenID,
		repo:  p.Repo,
		clock: p.Clock,
	}
}

var clientFields = search.FieldSet[domain.ClientView]{
	Text: func(v domain.ClientView) []string {
		return []string{v.Name, v.ContactName, v.Email}
	},
	Categorical: func(v domain.ClientView) map[string]string {
		return map[string]string{"phase": string(v.Phase)}
	},
}

func (s *Service) Create(ctx context.Context, req domain.CreateClientRequest) (domain.ClientView, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.ClientView{}, domain.ErrInvalidName
	}

	email := strings.TrimSpace(req.Email)
	if email == "" || !strings.Contains(email, "@") {
		return domain.ClientView{}, domain.ErrInvalidEmail
	}

	now := s.clock.Now()
	client := domain.Client{
		ID:          s.genID.Generate(),
		Name:        name,
		ContactName: strings.TrimSpace(req.ContactName),
		Email:       email,
		Phone:       strings.TrimSpace(req.Phone),
		Phase:       domain.PhaseAwaitingPayment,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Insert(ctx, s.db, &client); err != nil {
		return domain.ClientView{}, err
	}

	s.log.Info("client created",
		zap.String("client_id", client.ID.String()),
		zap.String("name", client.Name),
	)
	return s.view(ctx, client)
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.ClientView, error) {
	client, err := s.load(ctx, id)
	if err != nil {
		return domain.ClientView{}, err
	}
	return s.view(ctx, *client)
}

func (s *Service) List(ctx context.Context, req domain.ListClientRequest) (domain.ListClientResponse, error) {
	clients, err := s.repo.List(ctx, s.db)
	if err != nil {
		return domain.ListClientResponse{}, err
	}

	views := make([]domain.ClientView, 0, len(clients))
	for _, client := range clients {
		view, err := s.view(ctx, client)
		if err != nil {
			return domain.ListClientResponse{}, err
		}
		views = append(views, view)
	}

	views = search.Filter(views, search.Query{
		Text:        req.Text,
		Categorical: map[string]string{"phase": strings.TrimSpace(req.Phase)},
	}, clientFields)

	return domain.ListClientResponse{Clients: views}, nil
}

func (s *Service) Update(ctx context.Context, id string, req domain.UpdateClientRequest) (domain.ClientView, error) {
	client, err := s.load(ctx, id)
	if err != nil {
		return domain.ClientView{}, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return domain.ClientView{}, domain.ErrInvalidName
		}
		client.Name = name
	}
	if req.ContactName != nil {
		client.ContactName = strings.TrimSpace(*req.ContactName)
	}
	if req.Email != nil {
		email := strings.TrimSpace(*req.Email)
		if email == "" || !strings.Contains(email, "@") {
			return domain.ClientView{}, domain.ErrInvalidEmail
		}
		client.Email = email
	}
	if req.Phone != nil {
		client.Phone = strings.TrimSpace(*req.Phone)
	}
	client.UpdatedAt = s.clock.Now()

	if err := s.repo.Update(ctx, s.db, client); err != nil {
		return domain.ClientView{}, err
	}
	return s.view(ctx, *client)
}

// ChangePhase moves the client to a new relationship phase and logs the
// transition. Transitions are unrestricted, including back out of rejected.
func (s *Service) ChangePhase(ctx context.Context, id string, req domain.ChangePhaseRequest) (domain.ClientView, error) {
	if !req.Phase.Valid() {
		return domain.ClientView{}, domain.ErrInvalidPhase
	}

	client, err := s.load(ctx, id)
	if err != nil {
		return domain.ClientView{}, err
	}

	from := client.Phase
	if from == req.Phase {
		return s.view(ctx, *client)
	}

	now := s.clock.Now()
	event := domain.PhaseEvent{
		ID:         s.genID.Generate(),
		ClientID:   client.ID,
		FromPhase:  from,
		ToPhase:    req.Phase,
		OccurredAt: now,
	}

	client.Phase = req.Phase
	client.UpdatedAt = now

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.Update(ctx, tx, client); err != nil {
			return err
		}
		return s.repo.InsertPhaseEvent(ctx, tx, &event)
	})
	if err != nil {
		return domain.ClientView{}, err
	}

	s.log.Info("client phase changed",
		zap.String("client_id", client.ID.String()),
		zap.String("from", string(from)),
		zap.String("to", string(req.Phase)),
	)
	return s.view(ctx, *client)
}

func (s *Service) ListPhaseEvents(ctx context.Context, req domain.ListPhaseEventsRequest) (domain.ListPhaseEventsResponse, error) {
	client, err := s.load(ctx, req.ClientID)
	if err != nil {
		return domain.ListPhaseEventsResponse{}, err
	}

	limit := req.Page.PageSize
	if limit <= 0 {
		limit = 25
	}

	var cursor *pagination.Cursor
	if req.Page.PageToken != "" {
		cursor, err = pagination.DecodeCursor(req.Page.PageToken)
		if err != nil {
			return domain.ListPhaseEventsResponse{}, err
		}
	}

	events, err := s.repo.ListPhaseEvents(ctx, s.db, client.ID, cursor, limit)
	if err != nil {
		return domain.ListPhaseEventsResponse{}, err
	}

	events, pageInfo := pagination.BuildPageInfo(events, limit, func(e domain.PhaseEvent) string {
		token, _ := pagination.EncodeCursor(pagination.Cursor{
			ID:         e.ID.String(),
			OccurredAt: e.OccurredAt.Format(time.RFC3339Nano),
		})
		return token
	})

	return domain.ListPhaseEventsResponse{
		PageInfo: pageInfo,
		Events:   events,
	}, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	client, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, s.db, client.ID)
}

func (s *Service) load(ctx context.Context, raw string) (*domain.Client, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(raw))
	if err != nil || id == 0 {
		return nil, domain.ErrInvalidID
	}

	client, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, domain.ErrNotFound
	}
	return client, nil
}

func (s *Service) view(ctx context.Context, client domain.Client) (domain.ClientView, error) {
	stats, err := s.repo.BillingStats(ctx, s.db, client.ID)
	if err != nil {
		return domain.ClientView{}, err
	}
	return domain.ClientView{Client: client, BillingStats: stats}, nil
}
