package contracts

import (
	"context"

	"github.com/shashiranjanraj/inventory/app/models"
	"github.com/shashiranjanraj/inventory/pkg/orm"
)

// UserStore is the user persistence port.
type UserStore interface {
	Create(ctx context.Context, u *models.User) error
	FindByID(ctx context.Context, id uint) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	List(ctx context.Context, page, perPage int) ([]models.User, orm.Pagination, error)
	Save(ctx context.Context, u *models.User) error
	Delete(ctx context.Context, id uint) error
}
