package seeders

import (
	"context"
	"errors"

	"github.com/shashiranjanraj/inventory/app/services"
)

func init() {
	Register("catalogue", SeedCatalogue)
	Register("admin", SeedAdmin)
}

func strPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }

// Catalogue is the demo stock restocked by SeedCatalogue.
var Catalogue = []services.ProductSubmission{
	{Name: "Classic Tee", Brand: "Acme", Category: strPtr("tops"), Gender: "unisex", Size: 9, Color: strPtr("white"), Quantity: 40, NormalPrice: 19.99},
	{Name: "Classic Tee", Brand: "Acme", Category: strPtr("tops"), Gender: "unisex", Size: 10, Color: strPtr("white"), Quantity: 25, NormalPrice: 19.99},
	{Name: "Hoodie", Brand: "Acme", Category: strPtr("tops"), Gender: "unisex", Size: 8, Color: strPtr("grey"), Quantity: 12, NormalPrice: 49.00, PromoPrice: floatPtr(39.00)},
	{Name: "Runner", Brand: "Nike", Category: strPtr("shoes"), Gender: "men", Size: 42, Color: strPtr("black"), Quantity: 6, NormalPrice: 120.00, DiscountPrice: floatPtr(99.00)},
	{Name: "Runner", Brand: "Nike", Category: strPtr("shoes"), Gender: "women", Size: 38, Color: strPtr("black"), Quantity: 9, NormalPrice: 120.00},
	{Name: "Trail Sock", Brand: "Acme", Category: strPtr("accessories"), Size: 0, Quantity: 100, NormalPrice: 7.50, Description: strPtr("Merino blend, sold in pairs.")},
}

// SeedCatalogue restocks the demo catalogue. Running it twice doubles the
// quantities, as two real deliveries would.
func SeedCatalogue(ctx context.Context, deps Deps) error {
	for _, sub := range Catalogue {
		if _, err := deps.Products.Restock(ctx, sub); err != nil {
			return err
		}
	}
	return nil
}

// SeedAdmin creates the demo "admin" account unless it exists.
func SeedAdmin(ctx context.Context, deps Deps) error {
	_, err := deps.Users.Create(ctx, services.UserCreate{Username: "admin", Password: "change-me-now"})
	if errors.Is(err, services.ErrConflict) {
		return nil
	}
	return err
}
