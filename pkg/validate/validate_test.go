package validate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/inventory/pkg/validate"
)

type restockInput struct {
	Name     string   `json:"name"     validate:"required,max=10"`
	Size     float64  `json:"size"     validate:"gte=0"`
	Quantity int      `json:"quantity" validate:"gte=0"`
	Gender   string   `json:"gender"   validate:"omitempty,oneof=men women"`
	Promo    *float64 `json:"promo_price" validate:"omitempty,gte=0"`
}

func TestStruct_Valid(t *testing.T) {
	errs := validate.Struct(&restockInput{Name: "Tee", Size: 0, Quantity: 0})
	assert.False(t, validate.HasErrors(errs))
}

func TestStruct_Messages(t *testing.T) {
	neg := -1.5
	errs := validate.Struct(restockInput{
		Name:     "",
		Size:     -2,
		Quantity: -1,
		Gender:   "robots",
		Promo:    &neg,
	})

	assert.Equal(t, map[string]string{
		"name":        "The name field is required.",
		"size":        "The size must be greater than or equal to 0.",
		"quantity":    "The quantity must be greater than or equal to 0.",
		"gender":      "The selected gender is invalid.",
		"promo_price": "The promo_price must be greater than or equal to 0.",
	}, errs)
}

func TestStruct_StringLength(t *testing.T) {
	errs := validate.Struct(restockInput{Name: "a very long product name"})
	assert.Equal(t, "The name must not exceed 10 characters.", errs["name"])
}
