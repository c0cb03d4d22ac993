package performance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/angelmondragon/vendorscore-backend/pkg/db/models"
	"github.com/angelmondragon/vendorscore-backend/pkg/enums"
	"github.com/angelmondragon/vendorscore-backend/pkg/logger"
	"github.com/angelmondragon/vendorscore-backend/pkg/metrics"
)

// SaveHook is invoked synchronously once after every purchase order create or update.
type SaveHook interface {
	OnOrderSaved(ctx context.Context, order *models.PurchaseOrder, created bool) error
}

// Aggregator recomputes a vendor's metrics from its current order set. Each metric
// is read and written independently; a failure stops the remaining steps but does
// not undo the ones already persisted.
type Aggregator struct {
	repo    Repository
	logg    *logger.Logger
	metrics *metrics.PerformanceMetrics
	now     func() time.Time
}

// AggregatorParams groups the aggregator dependencies.
type AggregatorParams struct {
	Repo    Repository
	Logger  *logger.Logger
	Metrics *metrics.PerformanceMetrics
	Now     func() time.Time
}

func NewAggregator(p AggregatorParams) (*Aggregator, error) {
	if p.Repo == nil {
		return nil, errors.New("performance repository required")
	}
	if p.Logger == nil {
		return nil, errors.New("logger required")
	}
	now := p.Now
	if now == nil {
		now = time.Now
	}
	return &Aggregator{repo: p.Repo, logg: p.Logger, metrics: p.Metrics, now: now}, nil
}

// OnOrderSaved applies the recompute rules for the saved order:
//
//   - fulfillment rate, always
//   - average response time, when the order was created already acknowledged
//   - otherwise on completion: on-time rate, quality average (only if this order
//     is rated), then a history snapshot
//   - otherwise on cancellation: on-time rate
func (a *Aggregator) OnOrderSaved(ctx context.Context, order *models.PurchaseOrder, created bool) error {
	if order == nil {
		return errors.New("order required")
	}
	vendorID := order.VendorID
	ctx = a.logg.WithFields(ctx, map[string]any{
		"vendor_id": vendorID,
		"order_id":  order.ID,
		"status":    order.Status.String(),
		"created":   created,
	})

	if err := a.step(ctx, ColumnFulfillmentRate, func() error { return a.RecomputeFulfillmentRate(ctx, vendorID) }); err != nil {
		return err
	}

	if created && order.Status == enums.PurchaseOrderStatusAcknowledged {
		return a.step(ctx, ColumnAverageResponseTime, func() error { return a.RecomputeAverageResponseTime(ctx, vendorID) })
	}

	switch order.Status {
	case enums.PurchaseOrderStatusCompleted:
		if err := a.step(ctx, ColumnOnTimeDeliveryRate, func() error { return a.RecomputeOnTimeDeliveryRate(ctx, vendorID) }); err != nil {
			return err
		}
		if order.QualityRating != nil {
			if err := a.step(ctx, ColumnQualityRatingAvg, func() error { return a.RecomputeQualityRatingAvg(ctx, vendorID) }); err != nil {
				return err
			}
		}
		return a.step(ctx, "snapshot", func() error { return a.AppendSnapshot(ctx, vendorID) })
	case enums.PurchaseOrderStatusCancelled:
		return a.step(ctx, ColumnOnTimeDeliveryRate, func() error { return a.RecomputeOnTimeDeliveryRate(ctx, vendorID) })
	}
	return nil
}

func (a *Aggregator) step(ctx context.Context, name string, fn func() error) error {
	start := a.now()
	err := fn()
	a.metrics.ObserveRecompute(name, a.now().Sub(start), err)
	if err != nil {
		a.logg.Error(a.logg.WithField(ctx, "metric", name), "vendor metric recompute failed", err)
		return fmt.Errorf("recompute %s: %w", name, err)
	}
	return nil
}

// RecomputeFulfillmentRate writes completed/total, or 0 when the vendor has no orders.
func (a *Aggregator) RecomputeFulfillmentRate(ctx context.Context, vendorID int64) error {
	counts, err := a.repo.CountOrders(ctx, vendorID)
	if err != nil {
		return err
	}
	return a.repo.UpdateVendorMetric(ctx, vendorID, ColumnFulfillmentRate, ratio(counts.Completed, counts.Total))
}

// RecomputeAverageResponseTime writes the mean minutes between issue and
// acknowledgment. Vendors without acknowledged orders keep their stored value.
func (a *Aggregator) RecomputeAverageResponseTime(ctx context.Context, vendorID int64) error {
	orders, err := a.repo.ListAcknowledgedOrders(ctx, vendorID)
	if err != nil {
		return err
	}
	avg, ok := averageResponseMinutes(orders)
	if !ok {
		return nil
	}
	return a.repo.UpdateVendorMetric(ctx, vendorID, ColumnAverageResponseTime, avg)
}

// RecomputeOnTimeDeliveryRate writes the share of completed orders whose delivery
// date is not before their completion time.
func (a *Aggregator) RecomputeOnTimeDeliveryRate(ctx context.Context, vendorID int64) error {
	orders, err := a.repo.ListCompletedOrders(ctx, vendorID)
	if err != nil {
		return err
	}
	return a.repo.UpdateVendorMetric(ctx, vendorID, ColumnOnTimeDeliveryRate, onTimeRate(orders))
}

// RecomputeQualityRatingAvg writes the mean rating of completed, rated orders.
// Vendors without such orders keep their stored value.
func (a *Aggregator) RecomputeQualityRatingAvg(ctx context.Context, vendorID int64) error {
	avg, err := a.repo.AverageQualityRating(ctx, vendorID)
	if err != nil {
		return err
	}
	if avg == nil {
		return nil
	}
	return a.repo.UpdateVendorMetric(ctx, vendorID, ColumnQualityRatingAvg, *avg)
}

// AppendSnapshot copies the vendor's stored metrics into a new history row.
func (a *Aggregator) AppendSnapshot(ctx context.Context, vendorID int64) error {
	vendor, err := a.repo.FindVendor(ctx, vendorID)
	if err != nil {
		return err
	}
	snapshot := &models.HistoricalPerformance{
		VendorID:            vendor.ID,
		Date:                a.now().UTC(),
		OnTimeDeliveryRate:  vendor.OnTimeDeliveryRate,
		QualityRatingAvg:    vendor.QualityRatingAvg,
		AverageResponseTime: vendor.AverageResponseTime,
		FulfillmentRate:     vendor.FulfillmentRate,
	}
	if err := a.repo.CreateSnapshot(ctx, snapshot); err != nil {
		return err
	}
	a.metrics.IncSnapshot()
	a.logg.Info(a.logg.WithField(ctx, "snapshot_id", snapshot.ID), "vendor performance snapshot appended")
	return nil
}

func ratio(num, denom int64) float64 {
	if denom <= 0 {
		return 0
	}
	return float64(num) / float64(denom)
}

func onTimeRate(completed []models.PurchaseOrder) float64 {
	var onTime int64
	for _, o := range completed {
		if o.CompletedAt != nil && !o.DeliveryDate.Before(*o.CompletedAt) {
			onTime++
		}
	}
	return ratio(onTime, int64(len(completed)))
}

func averageResponseMinutes(orders []models.PurchaseOrder) (float64, bool) {
	var total float64
	var n int
	for _, o := range orders {
		if o.AcknowledgmentDate == nil {
			continue
		}
		total += o.AcknowledgmentDate.Sub(o.IssueDate).Minutes()
		n++
	}
	if n == 0 {
		return 0, false
	}
	return total / float64(n), true
}
