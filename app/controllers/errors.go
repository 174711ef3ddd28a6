package controllers

import (
	"context"
	"errors"
	"net/http"

	"github.com/shashiranjanraj/inventory/app/services"
	"github.com/shashiranjanraj/inventory/pkg/ctx"
)

// StatusFor maps a service error to its HTTP status.
func StatusFor(err error) int {
	switch {
	// Checked first: storage failures wrap their cause, which may be a
	// context error.
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusRequestTimeout
	case errors.Is(err, services.ErrInvalidInput):
		return http.StatusUnprocessableEntity
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrSKUCollision), errors.Is(err, services.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, services.ErrStorageFailure):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// fail logs err with the request id and writes the mapped error envelope.
// Storage and unexpected errors are not echoed to the client.
func fail(c *ctx.Context, err error) {
	status := StatusFor(err)
	log := c.Log().With("status", status, "error", err)

	switch status {
	case http.StatusServiceUnavailable:
		log.Error("storage failure")
		c.Error(status, "Storage temporarily unavailable")
	case http.StatusInternalServerError:
		log.Error("unhandled error")
		c.Error(status, "Internal server error")
	case http.StatusConflict:
		log.Warn("conflict")
		var ce *services.SKUCollisionError
		if errors.As(err, &ce) {
			c.ErrorWith(status, err.Error(), ce)
			return
		}
		c.Error(status, err.Error())
	case http.StatusRequestTimeout:
		log.Warn("request cancelled")
		c.Error(status, "Request cancelled")
	default:
		log.Info("request rejected")
		c.Error(status, err.Error())
	}
}
