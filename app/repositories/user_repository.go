package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/inventory/app/contracts"
	"github.com/shashiranjanraj/inventory/app/models"
	"github.com/shashiranjanraj/inventory/pkg/metrics"
	"github.com/shashiranjanraj/inventory/pkg/orm"
)

// UserRepository implements contracts.UserStore on gorm.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

var _ contracts.UserStore = (*UserRepository)(nil)

// Create returns contracts.ErrDuplicate when the username is taken.
func (r *UserRepository) Create(ctx context.Context, u *models.User) error {
	defer metrics.ObserveDBQuery("insert", time.Now())
	return translate(r.db.WithContext(ctx).Create(u).Error)
}

func (r *UserRepository) FindByID(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	if err := orm.New(ctx, r.db).Where("id = ?", id).First(&u); err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	if err := orm.New(ctx, r.db).Where("username = ?", username).First(&u); err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (r *UserRepository) List(ctx context.Context, page, perPage int) ([]models.User, orm.Pagination, error) {
	var users []models.User
	p, err := orm.New(ctx, r.db).Model(&models.User{}).Order("id asc").Paginate(&users, page, perPage)
	if err != nil {
		return nil, orm.Pagination{}, err
	}
	return users, p, nil
}

func (r *UserRepository) Save(ctx context.Context, u *models.User) error {
	defer metrics.ObserveDBQuery("update", time.Now())
	return translate(r.db.WithContext(ctx).Save(u).Error)
}

func (r *UserRepository) Delete(ctx context.Context, id uint) error {
	defer metrics.ObserveDBQuery("delete", time.Now())

	res := r.db.WithContext(ctx).Delete(&models.User{}, id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return contracts.ErrNotFound
	}
	return nil
}
