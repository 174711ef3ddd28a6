// Package graphql exposes a read-only GraphQL view of the inventory.
//
//	{ product(sku: 346071090) { name brand quantity } }
//	{ products(page: 1, perPage: 20) { total items { sku name } } }
//	{ sku(name: "Classic Tee", brand: "Acme", size: 9) }
package graphql

import (
	"errors"
	"math"

	"github.com/graphql-go/graphql"

	"github.com/shashiranjanraj/inventory/app/models"
	"github.com/shashiranjanraj/inventory/app/services"
	gql "github.com/shashiranjanraj/inventory/pkg/graphql"
)

var productType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Product",
	Fields: graphql.Fields{
		// SKUs exceed GraphQL's 32-bit Int, so they are serialised as strings.
		"sku":            &graphql.Field{Type: graphql.NewNonNull(graphql.String), Resolve: skuField},
		"name":           &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"brand":          &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"category":       &graphql.Field{Type: graphql.String},
		"gender":         &graphql.Field{Type: graphql.String},
		"size":           &graphql.Field{Type: graphql.NewNonNull(graphql.Float)},
		"color":          &graphql.Field{Type: graphql.String},
		"quantity":       &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"promo_price":    &graphql.Field{Type: graphql.Float},
		"discount_price": &graphql.Field{Type: graphql.Float},
		"normal_price":   &graphql.Field{Type: graphql.NewNonNull(graphql.Float)},
		"description":    &graphql.Field{Type: graphql.String},
		"entry_date":     &graphql.Field{Type: graphql.NewNonNull(graphql.DateTime)},
	},
})

var productPageType = graphql.NewObject(graphql.ObjectConfig{
	Name: "ProductPage",
	Fields: graphql.Fields{
		"items":     &graphql.Field{Type: graphql.NewList(productType)},
		"page":      &graphql.Field{Type: graphql.Int},
		"per_page":  &graphql.Field{Type: graphql.Int},
		"total":     &graphql.Field{Type: graphql.Int},
		"last_page": &graphql.Field{Type: graphql.Int},
	},
})

type productPage struct {
	Items    []models.Product `json:"items"`
	Page     int              `json:"page"`
	PerPage  int              `json:"per_page"`
	Total    int64            `json:"total"`
	LastPage int              `json:"last_page"`
}

func skuField(p graphql.ResolveParams) (interface{}, error) {
	switch v := p.Source.(type) {
	case models.Product:
		return services.FormatSKU(v.SKU), nil
	case *models.Product:
		return services.FormatSKU(v.SKU), nil
	}
	return nil, nil
}

// NewSchema builds the schema over the product service.
func NewSchema(products *services.ProductService) (graphql.Schema, error) {
	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"product": &graphql.Field{
				Type: productType,
				Args: graphql.FieldConfigArgument{
					"sku": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					sku, err := services.ParseSKU(p.Args["sku"].(string))
					if err != nil {
						return nil, err
					}
					product, err := products.Get(p.Context, sku)
					if errors.Is(err, services.ErrNotFound) {
						return nil, nil
					}
					return product, err
				},
			},
			"products": &graphql.Field{
				Type: productPageType,
				Args: graphql.FieldConfigArgument{
					"page":    &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 1},
					"perPage": &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 15},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					items, pg, err := products.List(p.Context, p.Args["page"].(int), p.Args["perPage"].(int))
					if err != nil {
						return nil, err
					}
					return productPage{Items: items, Page: pg.Page, PerPage: pg.PerPage, Total: pg.Total, LastPage: pg.LastPage}, nil
				},
			},
			"sku": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Args: graphql.FieldConfigArgument{
					"name":  &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"brand": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"size":  &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					size := p.Args["size"].(float64)
					if size < 0 || math.IsInf(size, 0) || math.IsNaN(size) {
						return nil, errors.New("size must be a finite number >= 0")
					}
					return products.PreviewSKU(p.Args["name"].(string), p.Args["brand"].(string), size), nil
				},
			},
		},
	})
	return gql.NewSchema(query, nil)
}
