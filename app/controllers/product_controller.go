package controllers

import (
	"math"
	"strconv"

	"github.com/shashiranjanraj/inventory/app/services"
	"github.com/shashiranjanraj/inventory/pkg/ctx"
)

type ProductController struct {
	service *services.ProductService
}

func NewProductController(service *services.ProductService) *ProductController {
	return &ProductController{service: service}
}

// Store restocks: 201 when the product was created, 200 when merged.
func (pc *ProductController) Store(c *ctx.Context) {
	var sub services.ProductSubmission
	if !c.BindJSON(&sub) {
		return
	}

	out, err := pc.service.Restock(c.Context(), sub)
	if err != nil {
		fail(c, err)
		return
	}
	if out.Created {
		c.Created(out)
		return
	}
	c.Success(out)
}

func (pc *ProductController) Index(c *ctx.Context) {
	products, page, err := pc.service.List(c.Context(), c.QueryInt("page", 1), c.QueryInt("per_page", 15))
	if err != nil {
		fail(c, err)
		return
	}
	c.Paginated(products, page)
}

func (pc *ProductController) Show(c *ctx.Context) {
	sku, ok := c.ParamInt64("sku")
	if !ok {
		c.NotFound("Product not found")
		return
	}

	p, err := pc.service.Get(c.Context(), sku)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(p)
}

func (pc *ProductController) Update(c *ctx.Context) {
	sku, ok := c.ParamInt64("sku")
	if !ok {
		c.NotFound("Product not found")
		return
	}

	var in services.ProductUpdate
	if !c.BindJSON(&in) {
		return
	}

	p, err := pc.service.Update(c.Context(), sku, in)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(p)
}

func (pc *ProductController) Destroy(c *ctx.Context) {
	sku, ok := c.ParamInt64("sku")
	if !ok {
		c.NotFound("Product not found")
		return
	}

	if err := pc.service.Delete(c.Context(), sku); err != nil {
		fail(c, err)
		return
	}
	c.Message("Product deleted")
}

// SKU previews the SKU for ?name=&brand=&size= without writing anything.
func (pc *ProductController) SKU(c *ctx.Context) {
	name, brand := c.Query("name"), c.Query("brand")

	errs := map[string]string{}
	if name == "" {
		errs["name"] = "The name field is required."
	}
	if brand == "" {
		errs["brand"] = "The brand field is required."
	}
	size, err := strconv.ParseFloat(c.Query("size"), 64)
	if err != nil || size < 0 || math.IsNaN(size) || math.IsInf(size, 0) {
		errs["size"] = "The size must be a number greater than or equal to 0."
	}
	if len(errs) > 0 {
		c.ValidationError(errs)
		return
	}

	c.Success(map[string]string{"sku": pc.service.PreviewSKU(name, brand, size)})
}
