// Package reports exports periodic order summaries through the storage layer.
package reports

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/shashiranjanraj/vastra/app/repositories"
	"github.com/shashiranjanraj/vastra/pkg/logger"
	"github.com/shashiranjanraj/vastra/pkg/storage"
)

// DailyOrders writes a CSV of yesterday's orders to the default storage disk
// (local by default, S3 when configured) under reports/orders-YYYY-MM-DD.csv.
func DailyOrders(ctx context.Context, orders *repositories.OrderRepository) error {
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	yesterday := today.AddDate(0, 0, -1)

	list, err := orders.CreatedBetween(ctx, yesterday, today)
	if err != nil {
		return fmt.Errorf("reports: load orders: %w", err)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Write([]string{"order_id", "user_id", "status", "payment_status", "payment_method", "total", "items", "created_at"}) //nolint:errcheck
	for _, o := range list {
		w.Write([]string{ //nolint:errcheck
			o.Code,
			strconv.FormatUint(uint64(o.UserID), 10),
			o.Status,
			o.PaymentStatus,
			o.PaymentMethod,
			strconv.FormatFloat(o.TotalAmount, 'f', 2, 64),
			strconv.Itoa(len(o.Items)),
			o.CreatedAt.Format(time.RFC3339),
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("reports: encode csv: %w", err)
	}

	path := fmt.Sprintf("reports/orders-%s.csv", yesterday.Format("2006-01-02"))
	if err := storage.Put(path, buf.Bytes()); err != nil {
		return fmt.Errorf("reports: store %s: %w", path, err)
	}

	logger.Info("reports: daily order report written", "path", path, "orders", len(list))
	return nil
}
