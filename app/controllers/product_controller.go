package controllers

import (
	"net/http"
	"strconv"

	"github.com/shashiranjanraj/vastra/app/repositories"
	"github.com/shashiranjanraj/vastra/pkg/ctx"
)

type ProductController struct {
	products *repositories.ProductRepository
}

func NewProductController(products *repositories.ProductRepository) *ProductController {
	return &ProductController{products: products}
}

func (c *ProductController) Index(cc *ctx.Context) {
	page, _ := strconv.Atoi(cc.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(cc.DefaultQuery("limit", "20"))

	products, total, err := c.products.All(cc.Context(), page, limit)
	if err != nil {
		cc.Error(http.StatusInternalServerError, "Could not load products")
		return
	}

	cc.Success(map[string]interface{}{
		"products": products,
		"total":    total,
		"page":     page,
	})
}

func (c *ProductController) Show(cc *ctx.Context) {
	id, err := strconv.ParseUint(cc.Param("id"), 10, 64)
	if err != nil {
		cc.Error(http.StatusBadRequest, "Invalid product id")
		return
	}

	product, err := c.products.FindByID(cc.Context(), uint(id))
	if err != nil {
		cc.NotFound("Product not found")
		return
	}

	cc.Success(product)
}
