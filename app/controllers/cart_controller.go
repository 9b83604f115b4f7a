package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/shashiranjanraj/vastra/app/services"
	"github.com/shashiranjanraj/vastra/pkg/ctx"
	"github.com/shashiranjanraj/vastra/pkg/middleware"
)

type CartController struct {
	service *services.CartService
}

func NewCartController(service *services.CartService) *CartController {
	return &CartController{service: service}
}

func (c *CartController) Show(cc *ctx.Context) {
	userID, ok := middleware.UserIDFromCtx(cc.R)
	if !ok {
		cc.Unauthorized()
		return
	}

	cart, err := c.service.Get(cc.Context(), userID)
	if err != nil {
		cc.Error(http.StatusInternalServerError, "Could not load cart")
		return
	}
	cc.Success(cart)
}

type addItemInput struct {
	ProductID uint `json:"productId" validate:"required"`
	Quantity  int  `json:"quantity"  validate:"nullable,gte=1"`
}

func (c *CartController) AddItem(cc *ctx.Context) {
	userID, ok := middleware.UserIDFromCtx(cc.R)
	if !ok {
		cc.Unauthorized()
		return
	}

	var in addItemInput
	if !cc.BindJSON(&in) {
		return
	}

	cart, err := c.service.AddItem(cc.Context(), userID, in.ProductID, in.Quantity)
	if err != nil {
		if errors.Is(err, services.ErrProductNotFound) {
			cc.NotFound("Product not found")
			return
		}
		cc.Error(http.StatusInternalServerError, "Could not add to cart")
		return
	}
	cc.Success(cart)
}

type updateItemInput struct {
	Quantity int `json:"quantity" validate:"required,gte=0"`
}

func (c *CartController) UpdateItem(cc *ctx.Context) {
	userID, ok := middleware.UserIDFromCtx(cc.R)
	if !ok {
		cc.Unauthorized()
		return
	}

	itemID, err := strconv.ParseUint(cc.Param("itemId"), 10, 64)
	if err != nil {
		cc.Error(http.StatusBadRequest, "Invalid item id")
		return
	}

	var in updateItemInput
	if !cc.BindJSON(&in) {
		return
	}

	cart, err := c.service.UpdateItem(cc.Context(), userID, uint(itemID), in.Quantity)
	if err != nil {
		if errors.Is(err, services.ErrCartItemNotFound) {
			cc.NotFound("Cart item not found")
			return
		}
		cc.Error(http.StatusInternalServerError, "Could not update cart")
		return
	}
	cc.Success(cart)
}

func (c *CartController) RemoveItem(cc *ctx.Context) {
	userID, ok := middleware.UserIDFromCtx(cc.R)
	if !ok {
		cc.Unauthorized()
		return
	}

	itemID, err := strconv.ParseUint(cc.Param("itemId"), 10, 64)
	if err != nil {
		cc.Error(http.StatusBadRequest, "Invalid item id")
		return
	}

	cart, err := c.service.RemoveItem(cc.Context(), userID, uint(itemID))
	if err != nil {
		cc.Error(http.StatusInternalServerError, "Could not update cart")
		return
	}
	cc.Success(cart)
}
