package services

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by this package wraps one of them so
// callers can branch with errors.Is.
var (
	ErrInvalidInput   = errors.New("invalid input")
	ErrStorageFailure = errors.New("storage failure")
	ErrSKUCollision   = errors.New("sku collision")
	ErrNotFound       = errors.New("not found")
	ErrConflict       = errors.New("conflict")
)

// Identity is the part of a product the SKU is derived from.
type Identity struct {
	Name  string `json:"name"`
	Brand string `json:"brand"`
	Size  int64  `json:"size"`
}

// SKUCollisionError reports that a submission's SKU is already held by a
// product with a different identity.
type SKUCollisionError struct {
	SKU       int64    `json:"sku"`
	Existing  Identity `json:"existing"`
	Submitted Identity `json:"submitted"`
}

func (e *SKUCollisionError) Error() string {
	return fmt.Sprintf("sku %d already belongs to %q/%q size %d; submitted %q/%q size %d",
		e.SKU,
		e.Existing.Name, e.Existing.Brand, e.Existing.Size,
		e.Submitted.Name, e.Submitted.Brand, e.Submitted.Size)
}

func (e *SKUCollisionError) Unwrap() error { return ErrSKUCollision }

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

func storageFailure(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStorageFailure, op, err)
}

func errConflict(msg string) error {
	return fmt.Errorf("%w: %s", ErrConflict, msg)
}
