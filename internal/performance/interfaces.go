package performance

import (
	"context"

	"github.com/angelmondragon/vendorscore-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Vendor metric columns.
const (
	ColumnOnTimeDeliveryRate  = "on_time_delivery_rate"
	ColumnQualityRatingAvg    = "quality_rating_avg"
	ColumnAverageResponseTime = "average_response_time"
	ColumnFulfillmentRate     = "fulfillment_rate"
)

// OrderCounts summarizes a vendor's orders for the fulfillment rate.
type OrderCounts struct {
	Total     int64
	Completed int64
}

// Repository reads order aggregates and writes vendor metrics and snapshots.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindVendor(ctx context.Context, vendorID int64) (*models.Vendor, error)
	CountOrders(ctx context.Context, vendorID int64) (OrderCounts, error)
	ListCompletedOrders(ctx context.Context, vendorID int64) ([]models.PurchaseOrder, error)
	ListAcknowledgedOrders(ctx context.Context, vendorID int64) ([]models.PurchaseOrder, error)
	AverageQualityRating(ctx context.Context, vendorID int64) (*float64, error)
	UpdateVendorMetric(ctx context.Context, vendorID int64, column string, value float64) error
	CreateSnapshot(ctx context.Context, snapshot *models.HistoricalPerformance) error
	ListSnapshots(ctx context.Context, vendorID int64) ([]models.HistoricalPerformance, error)
	AverageSnapshots(ctx context.Context, vendorID int64) (*Metrics, int64, error)
	DeleteSnapshotsByVendor(ctx context.Context, vendorID int64) error
}
