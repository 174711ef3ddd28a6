package bind_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/inventory/pkg/bind"
)

type input struct {
	Name     string `json:"name"     validate:"required"`
	Quantity int    `json:"quantity" validate:"gte=0"`
}

func TestJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Tee","quantity":3}`))

	var in input
	errs, err := bind.JSON(req, &in)
	require.NoError(t, err)
	assert.Empty(t, errs)
	assert.Equal(t, input{Name: "Tee", Quantity: 3}, in)
}

func TestJSON_ValidationErrors(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"quantity":-1}`))

	var in input
	errs, err := bind.JSON(req, &in)
	require.NoError(t, err)
	assert.Contains(t, errs, "name")
	assert.Contains(t, errs, "quantity")
}

func TestJSON_Malformed(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":`))

	var in input
	_, err := bind.JSON(req, &in)
	assert.ErrorContains(t, err, "invalid JSON")
}

func TestJSON_Empty(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", nil)

	var in input
	_, err := bind.JSON(req, &in)
	assert.ErrorIs(t, err, bind.ErrEmptyBody)
}

func TestJSON_TooLarge(t *testing.T) {
	t.Setenv("MAX_BODY_BYTES", "16")
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"`+strings.Repeat("x", 64)+`"}`))

	var in input
	_, err := bind.JSON(req, &in)
	assert.ErrorContains(t, err, "too large")
}
