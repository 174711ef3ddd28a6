package controllers

import (
	"strconv"

	"github.com/shashiranjanraj/inventory/app/services"
	"github.com/shashiranjanraj/inventory/pkg/ctx"
)

type UserController struct {
	service *services.UserService
}

func NewUserController(service *services.UserService) *UserController {
	return &UserController{service: service}
}

func (uc *UserController) Store(c *ctx.Context) {
	var in services.UserCreate
	if !c.BindJSON(&in) {
		return
	}

	u, err := uc.service.Create(c.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.Created(u)
}

func (uc *UserController) Index(c *ctx.Context) {
	users, page, err := uc.service.List(c.Context(), c.QueryInt("page", 1), c.QueryInt("per_page", 15))
	if err != nil {
		fail(c, err)
		return
	}
	c.Paginated(users, page)
}

func (uc *UserController) Show(c *ctx.Context) {
	id, ok := userID(c)
	if !ok {
		c.NotFound("User not found")
		return
	}

	u, err := uc.service.Get(c.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(u)
}

func (uc *UserController) Update(c *ctx.Context) {
	id, ok := userID(c)
	if !ok {
		c.NotFound("User not found")
		return
	}

	var in services.UserUpdate
	if !c.BindJSON(&in) {
		return
	}

	u, err := uc.service.Update(c.Context(), id, in)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(u)
}

func (uc *UserController) Destroy(c *ctx.Context) {
	id, ok := userID(c)
	if !ok {
		c.NotFound("User not found")
		return
	}

	if err := uc.service.Delete(c.Context(), id); err != nil {
		fail(c, err)
		return
	}
	c.Message("User deleted")
}

func userID(c *ctx.Context) (uint, bool) {
	n, err := strconv.ParseUint(c.Param("id"), 10, 32)
	return uint(n), err == nil && n > 0
}
