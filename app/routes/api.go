// Package routes declares the /api surface.
package routes

import (
	"github.com/shashiranjanraj/inventory/app/controllers"
	"github.com/shashiranjanraj/inventory/pkg/ctx"
	"github.com/shashiranjanraj/inventory/pkg/router"
)

// Controllers groups the handlers RegisterAPI mounts.
type Controllers struct {
	Products *controllers.ProductController
	Users    *controllers.UserController
}

func RegisterAPI(r *router.Router, c Controllers) {
	api := r.Group("/api")

	api.Get("/sku", "sku.preview", ctx.Wrap(c.Products.SKU))

	products := api.Group("/products")
	products.Get("", "products.index", ctx.Wrap(c.Products.Index))
	products.Post("", "products.store", ctx.Wrap(c.Products.Store))
	products.Get("/{sku}", "products.show", ctx.Wrap(c.Products.Show))
	products.Put("/{sku}", "products.update", ctx.Wrap(c.Products.Update))
	products.Delete("/{sku}", "products.destroy", ctx.Wrap(c.Products.Destroy))

	users := api.Group("/users")
	users.Get("", "users.index", ctx.Wrap(c.Users.Index))
	users.Post("", "users.store", ctx.Wrap(c.Users.Store))
	users.Get("/{id}", "users.show", ctx.Wrap(c.Users.Show))
	users.Put("/{id}", "users.update", ctx.Wrap(c.Users.Update))
	users.Delete("/{id}", "users.destroy", ctx.Wrap(c.Users.Destroy))
}
