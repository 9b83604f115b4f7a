package repositories

import (
	"context"
	"time"

	"github.com/shashiranjanraj/vastra/app/models"
	"gorm.io/gorm"
)

// OrderRepository is the single source of truth for orders.
type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// Create persists a new order with its line items. The unique index on the
// order code is the second line of defense against duplicate allocation; a
// violation surfaces as gorm.ErrDuplicatedKey.
func (r *OrderRepository) Create(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

// FindByID returns one order by primary key, items preloaded.
func (r *OrderRepository) FindByID(ctx context.Context, id uint) (models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).Preload("Items").First(&order, id).Error
	return order, err
}

// FindByCode returns one order by its external ORD- code, items preloaded.
func (r *OrderRepository) FindByCode(ctx context.Context, code string) (models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).Preload("Items").
		Where("code = ?", code).First(&order).Error
	return order, err
}

// FindByUser returns all orders belonging to a user, newest first.
func (r *OrderRepository) FindByUser(ctx context.Context, userID uint) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error
	return orders, err
}

// All returns every order with owner details, newest first, paginated.
func (r *OrderRepository) All(ctx context.Context, page, limit int) ([]models.Order, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Order{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []models.Order
	err := r.db.WithContext(ctx).Preload("Items").Preload("User").
		Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&orders).Error
	return orders, total, err
}

// UpdateStatusFields applies the given column values to one order as a single
// atomic UPDATE keyed by order code. Callers pass only the fields that should
// change; omitted fields keep their stored values. The statement itself
// refuses to move an order out of a terminal status, so a transition that
// races past the caller's check still cannot resurrect a closed order;
// gorm.ErrRecordNotFound reports that no updatable row matched.
func (r *OrderRepository) UpdateStatusFields(ctx context.Context, code string, fields map[string]interface{}) error {
	res := r.db.WithContext(ctx).Model(&models.Order{}).
		Where("code = ? AND status NOT IN ?", code, models.TerminalStatuses).
		Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// StatusCount is one row of the grouped statistics query.
type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

// StatsByStatus returns order counts grouped by status.
func (r *OrderRepository) StatsByStatus(ctx context.Context) ([]StatusCount, error) {
	var rows []StatusCount
	err := r.db.WithContext(ctx).Model(&models.Order{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&rows).Error
	return rows, err
}

// Count returns the total number of orders.
func (r *OrderRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Order{}).Count(&n).Error
	return n, err
}

// CountSince returns the number of orders created at or after t.
func (r *OrderRepository) CountSince(ctx context.Context, t time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Order{}).
		Where("created_at >= ?", t).Count(&n).Error
	return n, err
}

// CreatedBetween returns orders created in [from, to), items preloaded.
// Used by the daily report export.
func (r *OrderRepository) CreatedBetween(ctx context.Context, from, to time.Time) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).Preload("Items").
		Where("created_at >= ? AND created_at < ?", from, to).
		Order("created_at ASC").
		Find(&orders).Error
	return orders, err
}
