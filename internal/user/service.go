package user

import (
	"context"
	"errors"
	"strings"

	"bookmory/internal/apperr"
	"bookmory/internal/platform/crypto"

	"go.uber.org/zap"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

type Service struct {
	repo Repository
	log  *zap.Logger
}

func NewService(repo Repository, log *zap.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// Register creates an active account with the default role. Email and
// username are unique case-insensitively.
func (s *Service) Register(ctx context.Context, in RegisterInput) (User, error) {
	return s.create(ctx, in, RoleUser)
}

// Create is the admin path: the same checks as Register, with a chosen role.
// An empty role means RoleUser.
func (s *Service) Create(ctx context.Context, in RegisterInput, role string) (User, error) {
	if role == "" {
		role = RoleUser
	}
	if !ValidRole(role) {
		return User{}, apperr.Validationf("Invalid role %q", role)
	}
	return s.create(ctx, in, role)
}

func (s *Service) create(ctx context.Context, in RegisterInput, role string) (User, error) {
	email := strings.TrimSpace(in.Email)
	username := strings.TrimSpace(in.Username)

	taken, err := s.repo.EmailExists(ctx, email)
	if err != nil {
		return User{}, apperr.Internal(err)
	}
	if taken {
		return User{}, apperr.Conflict("User with this email already exists")
	}
	taken, err = s.repo.UsernameExists(ctx, username)
	if err != nil {
		return User{}, apperr.Internal(err)
	}
	if taken {
		return User{}, apperr.Conflict("User with this username already exists")
	}

	hash, err := crypto.HashPassword(in.Password)
	if err != nil {
		return User{}, apperr.Internal(err)
	}

	u := &User{
		Email:        email,
		Username:     username,
		PasswordHash: hash,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Role:         role,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return User{}, translate(err)
	}
	s.log.Info("user registered", zap.String("user_id", u.ID), zap.String("username", u.Username), zap.String("role", u.Role))
	return *u, nil
}

// Authenticate returns the account for email when password matches. Unknown
// emails and wrong passwords are indistinguishable to the caller.
func (s *Service) Authenticate(ctx context.Context, email, password string) (User, error) {
	u, err := s.repo.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return User{}, apperr.Unauthorized("Invalid credentials")
		}
		return User{}, apperr.Internal(err)
	}
	if !u.IsActive {
		return User{}, apperr.Unauthorized("Account is deactivated")
	}
	if !crypto.VerifyPassword(u.PasswordHash, password) {
		return User{}, apperr.Unauthorized("Invalid credentials")
	}
	return u, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return User{}, translate(err)
	}
	return u, nil
}

func (s *Service) UpdateProfile(ctx context.Context, id string, upd ProfileUpdate) (User, error) {
	c, err := profileChanges(upd)
	if err != nil {
		return User{}, err
	}
	return s.update(ctx, id, c)
}

func (s *Service) AdminUpdate(ctx context.Context, id string, upd AdminUpdate) (User, error) {
	c, err := profileChanges(upd.ProfileUpdate)
	if err != nil {
		return User{}, err
	}
	if upd.Role != nil && !ValidRole(*upd.Role) {
		return User{}, apperr.Validationf("Invalid role %q", *upd.Role)
	}
	c.Role = upd.Role
	c.IsActive = upd.IsActive
	return s.update(ctx, id, c)
}

func (s *Service) update(ctx context.Context, id string, c Changes) (User, error) {
	if c.Empty() {
		return s.GetByID(ctx, id)
	}
	u, err := s.repo.Update(ctx, id, c)
	if err != nil {
		return User{}, translate(err)
	}
	return u, nil
}

func profileChanges(upd ProfileUpdate) (Changes, error) {
	c := Changes{
		FirstName: upd.FirstName,
		LastName:  upd.LastName,
		AvatarURL: upd.AvatarURL,
	}
	if upd.Password != nil {
		hash, err := crypto.HashPassword(*upd.Password)
		if err != nil {
			return Changes{}, apperr.Internal(err)
		}
		c.PasswordHash = &hash
	}
	return c, nil
}

func (s *Service) List(ctx context.Context, q ListQuery) (Page, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit <= 0 {
		q.Limit = DefaultPageSize
	}
	if q.Limit > MaxPageSize {
		q.Limit = MaxPageSize
	}
	users, total, err := s.repo.List(ctx, q.Limit, (q.Page-1)*q.Limit)
	if err != nil {
		return Page{}, apperr.Internal(err)
	}
	return Page{
		Users:      users,
		Total:      total,
		Page:       q.Page,
		Limit:      q.Limit,
		TotalPages: (total + q.Limit - 1) / q.Limit,
	}, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return translate(err)
	}
	s.log.Info("user deleted", zap.String("user_id", id))
	return nil
}

func translate(err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return apperr.NotFound("User not found")
	case errors.Is(err, ErrEmailTaken):
		return apperr.Conflict("User with this email already exists")
	case errors.Is(err, ErrUsernameTaken):
		return apperr.Conflict("User with this username already exists")
	}
	return apperr.Internal(err)
}
