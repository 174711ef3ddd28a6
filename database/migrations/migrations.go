// Package migrations lists the schema migrations in the order they run.
package migrations

import (
	"gorm.io/gorm"

	"github.com/shashiranjanraj/inventory/app/models"
	"github.com/shashiranjanraj/inventory/pkg/migration"
)

// All returns every migration known to this binary.
func All() []migration.Entry {
	return []migration.Entry{
		{Name: "20260101000000_create_products_table", Migration: &CreateProductsTable{}},
		{Name: "20260101000001_create_users_table", Migration: &CreateUsersTable{}},
	}
}

// -------- 0001: products --------

type CreateProductsTable struct{}

func (m *CreateProductsTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Product{})
}

func (m *CreateProductsTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("products")
}

// -------- 0002: users --------

type CreateUsersTable struct{}

func (m *CreateUsersTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.User{})
}

func (m *CreateUsersTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("users")
}
