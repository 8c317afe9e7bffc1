package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/gestoria/internal/clock"
	"github.com/smallbiznis/gestoria/internal/search"
	"github.com/smallbiznis/gestoria/internal/user/domain"
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
		log:   p.Log.Named("user.service"),
		genID: p.GenID,
		repo:  p.Repo,
		clock: p.Clock,
	}
}

var userFields = search.FieldSet[domain.UserView]{
	Text: func(v domain.UserView) []string {
		return []string{v.Name, v.Email}
	},
	Categorical: func(v domain.UserView) map[string]string {
		return map[string]string{
			"role":   string(v.Role),
			"status": string(v.Status),
		}
	},
}

func (s *Service) Invite(ctx context.Context, req domain.InviteUserRequest) (domain.UserView, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.UserView{}, domain.ErrInvalidName
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || !strings.Contains(email, "@") {
		return domain.UserView{}, domain.ErrInvalidEmail
	}

	if !req.Role.Valid() {
		return domain.UserView{}, domain.ErrInvalidRole
	}

	existing, err := s.repo.FindByEmail(ctx, s.db, email)
	if err != nil {
		return domain.UserView{}, err
	}
	if existing != nil {
		return domain.UserView{}, domain.ErrEmailTaken
	}

	now := s.clock.Now()
	user := domain.User{
		ID:        s.genID.Generate(),
		Name:      name,
		Email:     email,
		Role:      req.Role,
		Status:    domain.StatusInvited,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Insert(ctx, s.db, &user); err != nil {
		return domain.UserView{}, err
	}

	s.log.Info("user invited",
		zap.String("user_id", user.ID.String()),
		zap.String("email", user.Email),
		zap.String("role", string(user.Role)),
	)
	return view(user), nil
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.UserView, error) {
	user, err := s.load(ctx, id)
	if err != nil {
		return domain.UserView{}, err
	}
	return view(*user), nil
}

func (s *Service) List(ctx context.Context, req domain.ListUserRequest) (domain.ListUserResponse, error) {
	users, err := s.repo.List(ctx, s.db)
	if err != nil {
		return domain.ListUserResponse{}, err
	}

	views := make([]domain.UserView, 0, len(users))
	for _, user := range users {
		views = append(views, view(user))
	}

	views = search.Filter(views, search.Query{
		Text: req.Text,
		Categorical: map[string]string{
			"role":   strings.TrimSpace(req.Role),
			"status": strings.TrimSpace(req.Status),
		},
	}, userFields)

	return domain.ListUserResponse{Users: views}, nil
}

func (s *Service) Update(ctx context.Context, id string, req domain.UpdateUserRequest) (domain.UserView, error) {
	user, err := s.load(ctx, id)
	if err != nil {
		return domain.UserView{}, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return domain.UserView{}, domain.ErrInvalidName
		}
		user.Name = name
	}
	if req.Role != nil && *req.Role != user.Role {
		if !req.Role.Valid() {
			return domain.UserView{}, domain.ErrInvalidRole
		}
		if user.Role == domain.RoleOwner {
			if err := s.guardLastOwner(ctx, user); err != nil {
				return domain.UserView{}, err
			}
		}
		user.Role = *req.Role
	}
	user.UpdatedAt = s.clock.Now()

	if err := s.repo.Update(ctx, s.db, user); err != nil {
		return domain.UserView{}, err
	}
	return view(*user), nil
}

func (s *Service) RecordAccess(ctx context.Context, id string) (domain.UserView, error) {
	user, err := s.load(ctx, id)
	if err != nil {
		return domain.UserView{}, err
	}

	now := s.clock.Now()
	user.LastAccessAt = &now
	if user.Status == domain.StatusInvited {
		user.Status = domain.StatusActive
		s.log.Info("invited user activated",
			zap.String("user_id", user.ID.String()),
			zap.String("email", user.Email),
		)
	}
	user.UpdatedAt = now

	if err := s.repo.Update(ctx, s.db, user); err != nil {
		return domain.UserView{}, err
	}
	return view(*user), nil
}

func (s *Service) Deactivate(ctx context.Context, id string) (domain.UserView, error) {
	user, err := s.load(ctx, id)
	if err != nil {
		return domain.UserView{}, err
	}
	if user.Status == domain.StatusInactive {
		return domain.UserView{}, domain.ErrAlreadyInactive
	}
	if user.Role == domain.RoleOwner {
		if err := s.guardLastOwner(ctx, user); err != nil {
			return domain.UserView{}, err
		}
	}

	user.Status = domain.StatusInactive
	user.UpdatedAt = s.clock.Now()

	if err := s.repo.Update(ctx, s.db, user); err != nil {
		return domain.UserView{}, err
	}

	s.log.Info("user deactivated",
		zap.String("user_id", user.ID.String()),
		zap.String("email", user.Email),
	)
	return view(*user), nil
}

func (s *Service) Reactivate(ctx context.Context, id string) (domain.UserView, error) {
	user, err := s.load(ctx, id)
	if err != nil {
		return domain.UserView{}, err
	}
	if user.Status != domain.StatusInactive {
		return view(*user), nil
	}

	user.Status = domain.StatusActive
	user.UpdatedAt = s.clock.Now()

	if err := s.repo.Update(ctx, s.db, user); err != nil {
		return domain.UserView{}, err
	}
	return view(*user), nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	user, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if user.Role == domain.RoleOwner && user.Status != domain.StatusInactive {
		if err := s.guardLastOwner(ctx, user); err != nil {
			return err
		}
	}
	return s.repo.Delete(ctx, s.db, user.ID)
}

// guardLastOwner refuses to demote, deactivate or delete the workspace's
// only remaining active owner.
func (s *Service) guardLastOwner(ctx context.Context, user *domain.User) error {
	if user.Status != domain.StatusActive {
		return nil
	}
	count, err := s.repo.CountByRoleAndStatus(ctx, s.db, domain.RoleOwner, domain.StatusActive)
	if err != nil {
		return err
	}
	if count <= 1 {
		return domain.ErrLastOwner
	}
	return nil
}

func (s *Service) load(ctx context.Context, raw string) (*domain.User, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(raw))
	if err != nil || id == 0 {
		return nil, domain.ErrInvalidID
	}

	user, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrNotFound
	}
	return user, nil
}

func view(user domain.User) domain.UserView {
	return domain.UserView{
		User:        user,
		Permissions: user.Role.Permissions(),
	}
}
