package performance

import (
	"time"

	"github.com/angelmondragon/vendorscore-backend/pkg/db/models"
)

// Metrics is the public shape of a vendor's four derived metrics.
type Metrics struct {
	OnTimeDeliveryRate  float64 `json:"on_time_delivery_rate"`
	QualityRatingAvg    float64 `json:"quality_rating_avg"`
	AverageResponseTime float64 `json:"average_response_time"`
	FulfillmentRate     float64 `json:"fulfillment_rate"`
}

// HistoryEntry is one historical performance snapshot.
type HistoryEntry struct {
	ID                  int64     `json:"id"`
	Vendor              int64     `json:"vendor"`
	Date                time.Time `json:"date"`
	OnTimeDeliveryRate  float64   `json:"on_time_delivery_rate"`
	QualityRatingAvg    float64   `json:"quality_rating_avg"`
	AverageResponseTime float64   `json:"average_response_time"`
	FulfillmentRate     float64   `json:"fulfillment_rate"`
}

// MetricsFromVendor copies the stored metric columns.
func MetricsFromVendor(v *models.Vendor) Metrics {
	if v == nil {
		return Metrics{}
	}
	return Metrics{
		OnTimeDeliveryRate:  v.OnTimeDeliveryRate,
		QualityRatingAvg:    v.QualityRatingAvg,
		AverageResponseTime: v.AverageResponseTime,
		FulfillmentRate:     v.FulfillmentRate,
	}
}

func newHistoryEntry(m models.HistoricalPerformance) HistoryEntry {
	return HistoryEntry{
		ID:                  m.ID,
		Vendor:              m.VendorID,
		Date:                m.Date,
		OnTimeDeliveryRate:  m.OnTimeDeliveryRate,
		QualityRatingAvg:    m.QualityRatingAvg,
		AverageResponseTime: m.AverageResponseTime,
		FulfillmentRate:     m.FulfillmentRate,
	}
}
