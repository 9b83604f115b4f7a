package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/shashiranjanraj/vastra/app/models"
	"github.com/shashiranjanraj/vastra/app/repositories"
	"gorm.io/gorm"
)

// CartService manages a user's cart against the live catalogue.
type CartService struct {
	carts    *repositories.CartRepository
	products *repositories.ProductRepository
}

func NewCartService(carts *repositories.CartRepository, products *repositories.ProductRepository) *CartService {
	return &CartService{carts: carts, products: products}
}

// Get returns the user's cart, creating an empty one when missing.
func (s *CartService) Get(ctx context.Context, userID uint) (models.Cart, error) {
	return s.carts.ForUser(ctx, userID)
}

// AddItem puts quantity units of a product into the cart, copying name,
// price and image from the catalogue at add time. Adding a product already
// in the cart bumps its quantity.
func (s *CartService) AddItem(ctx context.Context, userID, productID uint, quantity int) (models.Cart, error) {
	if quantity < 1 {
		quantity = 1
	}

	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Cart{}, fmt.Errorf("product %d: %w", productID, ErrProductNotFound)
		}
		return models.Cart{}, fmt.Errorf("load product %d: %w", productID, err)
	}

	cart, err := s.carts.ForUser(ctx, userID)
	if err != nil {
		return models.Cart{}, err
	}

	found := false
	for i := range cart.Items {
		if cart.Items[i].ProductID == productID {
			cart.Items[i].Quantity += quantity
			found = true
			break
		}
	}
	if !found {
		cart.Items = append(cart.Items, models.CartItem{
			CartID:    cart.ID,
			ProductID: product.ID,
			Name:      product.Name,
			Price:     product.Price,
			Quantity:  quantity,
			Image:     product.Image,
		})
	}

	if err := s.carts.Save(ctx, &cart); err != nil {
		return models.Cart{}, fmt.Errorf("save cart: %w", err)
	}
	return cart, nil
}

// UpdateItem sets the quantity of one cart line; zero removes it.
func (s *CartService) UpdateItem(ctx context.Context, userID, itemID uint, quantity int) (models.Cart, error) {
	cart, err := s.carts.ForUser(ctx, userID)
	if err != nil {
		return models.Cart{}, err
	}

	if quantity <= 0 {
		return s.RemoveItem(ctx, userID, itemID)
	}

	for i := range cart.Items {
		if cart.Items[i].ID == itemID {
			cart.Items[i].Quantity = quantity
			if err := s.carts.Save(ctx, &cart); err != nil {
				return models.Cart{}, fmt.Errorf("save cart: %w", err)
			}
			return cart, nil
		}
	}
	return models.Cart{}, fmt.Errorf("cart item %d: %w", itemID, ErrCartItemNotFound)
}

// RemoveItem deletes one line from the cart.
func (s *CartService) RemoveItem(ctx context.Context, userID, itemID uint) (models.Cart, error) {
	cart, err := s.carts.ForUser(ctx, userID)
	if err != nil {
		return models.Cart{}, err
	}
	if err := s.carts.RemoveItem(ctx, &cart, itemID); err != nil {
		return models.Cart{}, fmt.Errorf("remove cart item %d: %w", itemID, err)
	}
	return cart, nil
}
