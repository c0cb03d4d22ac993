package performance

import (
	"context"
	"fmt"

	"github.com/angelmondragon/vendorscore-backend/pkg/db/models"
	"github.com/angelmondragon/vendorscore-backend/pkg/enums"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a performance repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindVendor(ctx context.Context, vendorID int64) (*models.Vendor, error) {
	var vendor models.Vendor
	if err := r.db.WithContext(ctx).Where("id = ?", vendorID).Take(&vendor).Error; err != nil {
		return nil, err
	}
	return &vendor, nil
}

func (r *repository) CountOrders(ctx context.Context, vendorID int64) (OrderCounts, error) {
	var counts OrderCounts
	err := r.db.WithContext(ctx).
		Model(&models.PurchaseOrder{}).
		Select("COUNT(*) AS total, COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS completed", enums.PurchaseOrderStatusCompleted).
		Where("vendor_id = ?", vendorID).
		Scan(&counts).Error
	if err != nil {
		return OrderCounts{}, err
	}
	return counts, nil
}

func (r *repository) ListCompletedOrders(ctx context.Context, vendorID int64) ([]models.PurchaseOrder, error) {
	var orders []models.PurchaseOrder
	err := r.db.WithContext(ctx).
		Select("id", "vendor_id", "status", "delivery_date", "completed_at").
		Where("vendor_id = ? AND status = ?", vendorID, enums.PurchaseOrderStatusCompleted).
		Order("id ASC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *repository) ListAcknowledgedOrders(ctx context.Context, vendorID int64) ([]models.PurchaseOrder, error) {
	var orders []models.PurchaseOrder
	err := r.db.WithContext(ctx).
		Select("id", "vendor_id", "issue_date", "acknowledgment_date").
		Where("vendor_id = ? AND acknowledgment_date IS NOT NULL", vendorID).
		Order("id ASC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *repository) AverageQualityRating(ctx context.Context, vendorID int64) (*float64, error) {
	var row struct {
		Avg *float64
	}
	err := r.db.WithContext(ctx).
		Model(&models.PurchaseOrder{}).
		Select("AVG(quality_rating) AS avg").
		Where("vendor_id = ? AND status = ? AND quality_rating IS NOT NULL", vendorID, enums.PurchaseOrderStatusCompleted).
		Scan(&row).Error
	if err != nil {
		return nil, err
	}
	return row.Avg, nil
}

func (r *repository) UpdateVendorMetric(ctx context.Context, vendorID int64, column string, value float64) error {
	switch column {
	case ColumnOnTimeDeliveryRate, ColumnQualityRatingAvg, ColumnAverageResponseTime, ColumnFulfillmentRate:
	default:
		return fmt.Errorf("unknown vendor metric column %q", column)
	}
	res := r.db.WithContext(ctx).
		Model(&models.Vendor{}).
		Where("id = ?", vendorID).
		Update(column, value)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) CreateSnapshot(ctx context.Context, snapshot *models.HistoricalPerformance) error {
	return r.db.WithContext(ctx).Create(snapshot).Error
}

func (r *repository) ListSnapshots(ctx context.Context, vendorID int64) ([]models.HistoricalPerformance, error) {
	var rows []models.HistoricalPerformance
	err := r.db.WithContext(ctx).
		Where("vendor_id = ?", vendorID).
		Order("date ASC, id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) AverageSnapshots(ctx context.Context, vendorID int64) (*Metrics, int64, error) {
	var row struct {
		Count               int64
		OnTimeDeliveryRate  *float64
		QualityRatingAvg    *float64
		AverageResponseTime *float64
		FulfillmentRate     *float64
	}
	err := r.db.WithContext(ctx).
		Model(&models.HistoricalPerformance{}).
		Select(`COUNT(*) AS count,
			AVG(on_time_delivery_rate) AS on_time_delivery_rate,
			AVG(quality_rating_avg) AS quality_rating_avg,
			AVG(average_response_time) AS average_response_time,
			AVG(fulfillment_rate) AS fulfillment_rate`).
		Where("vendor_id = ?", vendorID).
		Scan(&row).Error
	if err != nil {
		return nil, 0, err
	}
	if row.Count == 0 {
		return nil, 0, nil
	}
	return &Metrics{
		OnTimeDeliveryRate:  deref(row.OnTimeDeliveryRate),
		QualityRatingAvg:    deref(row.QualityRatingAvg),
		AverageResponseTime: deref(row.AverageResponseTime),
		FulfillmentRate:     deref(row.FulfillmentRate),
	}, row.Count, nil
}

func (r *repository) DeleteSnapshotsByVendor(ctx context.Context, vendorID int64) error {
	return r.db.WithContext(ctx).Where("vendor_id = ?", vendorID).Delete(&models.HistoricalPerformance{}).Error
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
