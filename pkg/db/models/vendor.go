package models

import "time"

// Vendor is a supplier receiving purchase orders. The four metric columns are
// derived from the vendor's orders and only written by the performance aggregator.
type Vendor struct {
	ID                  int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Name                string    `gorm:"column:name;not null"`
	MobileNumber        string    `gorm:"column:mobile_number;not null"`
	Address             string    `gorm:"column:address;not null"`
	Email               *string   `gorm:"column:email"`
	VendorCode          string    `gorm:"column:vendor_code;not null;uniqueIndex"`
	OnTimeDeliveryRate  float64   `gorm:"column:on_time_delivery_rate;not null;default:0"`
	QualityRatingAvg    float64   `gorm:"column:quality_rating_avg;not null;default:0"`
	AverageResponseTime float64   `gorm:"column:average_response_time;not null;default:0"`
	FulfillmentRate     float64   `gorm:"column:fulfillment_rate;not null;default:0"`
	CreatedAt           time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt           time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
