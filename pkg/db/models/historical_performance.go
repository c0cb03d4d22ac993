package models

import "time"

// HistoricalPerformance is an append-only snapshot of a vendor's metrics, written
// each time one of its orders completes.
type HistoricalPerformance struct {
	ID                  int64     `gorm:"column:id;primaryKey;autoIncrement"`
	VendorID            int64     `gorm:"column:vendor_id;not null;index"`
	Date                time.Time `gorm:"column:date;not null"`
	OnTimeDeliveryRate  float64   `gorm:"column:on_time_delivery_rate;not null;default:0"`
	QualityRatingAvg    float64   `gorm:"column:quality_rating_avg;not null;default:0"`
	AverageResponseTime float64   `gorm:"column:average_response_time;not null;default:0"`
	FulfillmentRate     float64   `gorm:"column:fulfillment_rate;not null;default:0"`
	Vendor              *Vendor   `gorm:"foreignKey:VendorID;constraint:OnDelete:CASCADE"`
}
