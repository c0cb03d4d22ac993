package vendors

import (
	"github.com/angelmondragon/vendorscore-backend/pkg/db/models"
)

// Vendor is the public representation of a vendor with its stored metrics.
type Vendor struct {
	ID                  int64   `json:"id"`
	Name                string  `json:"name"`
	MobileNumber        string  `json:"mobile_number"`
	Address             string  `json:"address"`
	Email               *string `json:"email"`
	VendorCode          string  `json:"vendor_code"`
	OnTimeDeliveryRate  float64 `json:"on_time_delivery_rate"`
	QualityRatingAvg    float64 `json:"quality_rating_avg"`
	AverageResponseTime float64 `json:"average_response_time"`
	FulfillmentRate     float64 `json:"fulfillment_rate"`
}

// CreateInput carries the fields accepted when registering a vendor. VendorCode is
// allocated when empty.
type CreateInput struct {
	Name         string
	MobileNumber string
	Address      string
	Email        *string
	VendorCode   string
}

// UpdateInput carries a partial contact update; nil fields are left unchanged.
type UpdateInput struct {
	Name         *string
	MobileNumber *string
	Address      *string
	Email        *string
}

func newVendor(m *models.Vendor) Vendor {
	return Vendor{
		ID:                  m.ID,
		Name:                m.Name,
		MobileNumber:        m.MobileNumber,
		Address:             m.Address,
		Email:               m.Email,
		VendorCode:          m.VendorCode,
		OnTimeDeliveryRate:  m.OnTimeDeliveryRate,
		QualityRatingAvg:    m.QualityRatingAvg,
		AverageResponseTime: m.AverageResponseTime,
		FulfillmentRate:     m.FulfillmentRate,
	}
}

func newVendors(rows []models.Vendor) []Vendor {
	out := make([]Vendor, 0, len(rows))
	for i := range rows {
		out = append(out, newVendor(&rows[i]))
	}
	return out
}
