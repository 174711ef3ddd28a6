package services

import (
	"context"
	"errors"
	"strings"

	"github.com/shashiranjanraj/inventory/app/contracts"
	"github.com/shashiranjanraj/inventory/app/models"
	"github.com/shashiranjanraj/inventory/pkg/auth"
	"github.com/shashiranjanraj/inventory/pkg/logger"
	"github.com/shashiranjanraj/inventory/pkg/orm"
)

const defaultRole = "user"

type UserCreate struct {
	Username string `json:"username" validate:"required,min=3,max=150,alphanum"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// UserUpdate changes the username, the password, or both.
type UserUpdate struct {
	Username *string `json:"username" validate:"omitempty,min=3,max=150,alphanum"`
	Password *string `json:"password" validate:"omitempty,min=8,max=72"`
}

type UserService struct {
	store contracts.UserStore
}

func NewUserService(store contracts.UserStore) *UserService {
	return &UserService{store: store}
}

func (s *UserService) Create(ctx context.Context, in UserCreate) (*models.User, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" {
		return nil, invalid("username is required")
	}
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, invalid("%s", err)
	}

	u := &models.User{Username: username, PasswordHash: hash, Role: defaultRole}
	if err := s.store.Create(ctx, u); err != nil {
		return nil, userStoreErr("create", err)
	}
	logger.WithCtx(ctx).Info("user created", "user_id", u.ID)
	return u, nil
}

func (s *UserService) List(ctx context.Context, page, perPage int) ([]models.User, orm.Pagination, error) {
	users, p, err := s.store.List(ctx, page, perPage)
	if err != nil {
		return nil, orm.Pagination{}, userStoreErr("list", err)
	}
	return users, p, nil
}

func (s *UserService) Get(ctx context.Context, id uint) (*models.User, error) {
	u, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, userStoreErr("find", err)
	}
	return u, nil
}

func (s *UserService) Update(ctx context.Context, id uint, in UserUpdate) (*models.User, error) {
	u, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, userStoreErr("find", err)
	}

	if in.Username != nil {
		name := strings.TrimSpace(*in.Username)
		if name == "" {
			return nil, invalid("username must not be empty")
		}
		u.Username = name
	}
	if in.Password != nil {
		hash, err := auth.HashPassword(*in.Password)
		if err != nil {
			return nil, invalid("%s", err)
		}
		u.PasswordHash = hash
	}

	if err := s.store.Save(ctx, u); err != nil {
		return nil, userStoreErr("save", err)
	}
	return u, nil
}

func (s *UserService) Delete(ctx context.Context, id uint) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return userStoreErr("delete", err)
	}
	return nil
}

func userStoreErr(op string, err error) error {
	switch {
	case errors.Is(err, contracts.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, contracts.ErrDuplicate):
		return errConflict("username is already taken")
	case isCtxErr(err):
		return err
	}
	return storageFailure(op, err)
}
