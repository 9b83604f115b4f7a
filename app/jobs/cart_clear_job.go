// Package jobs defines the background jobs dispatched through pkg/queue.
// Each job registers its factory in init() so queue workers can rebuild it
// from its JSON envelope.
package jobs

import (
	"context"

	"github.com/shashiranjanraj/vastra/app/repositories"
	"github.com/shashiranjanraj/vastra/pkg/database"
	"github.com/shashiranjanraj/vastra/pkg/queue"
)

func init() {
	queue.Register("jobs.CartClearJob", func() queue.Job { return &CartClearJob{} })
}

// CartClearJob retries the post-checkout cart clear when the inline clear
// failed. Clearing an already empty cart is a no-op, so the job is safe to
// run more than once.
type CartClearJob struct {
	UserID uint `json:"user_id"`
}

func (j CartClearJob) Handle() error {
	carts := repositories.NewCartRepository(database.DB)
	return carts.Clear(context.Background(), j.UserID)
}
