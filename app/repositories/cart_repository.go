package repositories

import (
	"context"
	"errors"

	"github.com/shashiranjanraj/vastra/app/models"
	"gorm.io/gorm"
)

// CartRepository manages the one-cart-per-user shopping carts.
type CartRepository struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) *CartRepository {
	return &CartRepository{db: db}
}

// FindByUser returns the user's cart without creating one; a missing cart
// surfaces as gorm.ErrRecordNotFound. Checkout uses this so a rejected
// attempt writes nothing.
func (r *CartRepository) FindByUser(ctx context.Context, userID uint) (models.Cart, error) {
	var cart models.Cart
	err := r.db.WithContext(ctx).Preload("Items").
		Where("user_id = ?", userID).First(&cart).Error
	return cart, err
}

// ForUser returns the user's cart, creating an empty one on first access.
func (r *CartRepository) ForUser(ctx context.Context, userID uint) (models.Cart, error) {
	var cart models.Cart
	err := r.db.WithContext(ctx).Preload("Items").
		Where("user_id = ?", userID).First(&cart).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		cart = models.Cart{UserID: userID}
		err = r.db.WithContext(ctx).Create(&cart).Error
	}
	return cart, err
}

// Save persists the cart after recomputing its total.
func (r *CartRepository) Save(ctx context.Context, cart *models.Cart) error {
	cart.Recalculate()
	return r.db.WithContext(ctx).Session(&gorm.Session{FullSaveAssociations: true}).
		Save(cart).Error
}

// RemoveItem deletes one line from the cart and refreshes the total.
func (r *CartRepository) RemoveItem(ctx context.Context, cart *models.Cart, itemID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("cart_id = ? AND id = ?", cart.ID, itemID).
			Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		if err := tx.Preload("Items").First(cart, cart.ID).Error; err != nil {
			return err
		}
		cart.Recalculate()
		return tx.Model(cart).UpdateColumn("total", cart.Total).Error
	})
}

// Clear empties the cart: items deleted, total zeroed. Clearing an already
// empty cart is a no-op, so retries are safe.
func (r *CartRepository) Clear(ctx context.Context, userID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cart models.Cart
		err := tx.Where("user_id = ?", userID).First(&cart).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := tx.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		return tx.Model(&cart).UpdateColumn("total", 0).Error
	})
}
