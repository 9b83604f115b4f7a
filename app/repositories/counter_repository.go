// Package repositories contains the GORM data-access layer.
package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/shashiranjanraj/vastra/app/models"
	"gorm.io/gorm"
)

// CounterRepository issues strictly increasing values per named sequence.
//
// The increment is a single UPDATE inside a transaction, never a read followed
// by a write, so two checkouts racing for the same counter can never be handed
// the same value. The row lock taken by the UPDATE is held until commit; the
// SELECT that follows reads the transaction's own write.
type CounterRepository struct {
	db *gorm.DB
}

func NewCounterRepository(db *gorm.DB) *CounterRepository {
	return &CounterRepository{db: db}
}

// Next returns the next value for the named sequence, starting at 1.
// A crash after Next but before the caller persists its record leaves a
// permanently skipped value; the counter is never decremented.
func (r *CounterRepository) Next(ctx context.Context, name string) (int64, error) {
	var value int64

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Counter{}).
			Where("name = ?", name).
			UpdateColumn("value", gorm.Expr("value + ?", 1))
		if res.Error != nil {
			return res.Error
		}

		if res.RowsAffected == 0 {
			// First use of this sequence. A concurrent first use loses the
			// primary-key race and falls back to the plain increment.
			if err := tx.Create(&models.Counter{Name: name, Value: 1}).Error; err == nil {
				value = 1
				return nil
			} else if !errors.Is(err, gorm.ErrDuplicatedKey) {
				return err
			}
			res = tx.Model(&models.Counter{}).
				Where("name = ?", name).
				UpdateColumn("value", gorm.Expr("value + ?", 1))
			if res.Error != nil {
				return res.Error
			}
		}

		var c models.Counter
		if err := tx.Where("name = ?", name).First(&c).Error; err != nil {
			return err
		}
		value = c.Value
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("counter %q: %w", name, err)
	}
	return value, nil
}
