package purchaseorders

import (
	"encoding/json"
	"time"

	"github.com/angelmondragon/vendorscore-backend/pkg/db/models"
	"github.com/angelmondragon/vendorscore-backend/pkg/enums"
)

// PurchaseOrder is the public representation of a purchase order.
type PurchaseOrder struct {
	ID                 int64                     `json:"id"`
	PONumber           string                    `json:"po_number"`
	Vendor             int64                     `json:"vendor"`
	OrderDate          time.Time                 `json:"order_date"`
	DeliveryDate       time.Time                 `json:"delivery_date"`
	Items              json.RawMessage           `json:"items"`
	Quantity           int                       `json:"quantity"`
	Status             enums.PurchaseOrderStatus `json:"status"`
	QualityRating      *float64                  `json:"quality_rating"`
	IssueDate          time.Time                 `json:"issue_date"`
	AcknowledgmentDate *time.Time                `json:"acknowledgment_date"`
	CompletedAt        *time.Time                `json:"completed_at"`
}

// VendorOrders wraps a vendor's orders with their count.
type VendorOrders struct {
	Count  int             `json:"pos"`
	Orders []PurchaseOrder `json:"data"`
}

// CreateInput carries the fields accepted when creating an order. PONumber is
// allocated when empty.
type CreateInput struct {
	PONumber           string
	Vendor             int64
	OrderDate          time.Time
	DeliveryDate       time.Time
	Items              json.RawMessage
	Quantity           int
	Status             enums.PurchaseOrderStatus
	QualityRating      *float64
	AcknowledgmentDate *time.Time
	CompletedAt        *time.Time
}

// UpdateInput carries a partial update; nil fields are left unchanged.
// ClearQualityRating removes a stored rating and wins over QualityRating.
type UpdateInput struct {
	Vendor             *int64
	OrderDate          *time.Time
	DeliveryDate       *time.Time
	Items              json.RawMessage
	Quantity           *int
	Status             *enums.PurchaseOrderStatus
	QualityRating      *float64
	ClearQualityRating bool
	AcknowledgmentDate *time.Time
	CompletedAt        *time.Time
}

// IsEmpty reports whether the update changes nothing.
func (in UpdateInput) IsEmpty() bool {
	return in.Vendor == nil && in.OrderDate == nil && in.DeliveryDate == nil &&
		len(in.Items) == 0 && in.Quantity == nil && in.Status == nil &&
		in.QualityRating == nil && !in.ClearQualityRating &&
		in.AcknowledgmentDate == nil && in.CompletedAt == nil
}

func newPurchaseOrder(m *models.PurchaseOrder) PurchaseOrder {
	items := json.RawMessage(m.Items)
	if len(items) == 0 {
		items = json.RawMessage("null")
	}
	return PurchaseOrder{
		ID:                 m.ID,
		PONumber:           m.PONumber,
		Vendor:             m.VendorID,
		OrderDate:          m.OrderDate,
		DeliveryDate:       m.DeliveryDate,
		Items:              items,
		Quantity:           m.Quantity,
		Status:             m.Status,
		QualityRating:      m.QualityRating,
		IssueDate:          m.IssueDate,
		AcknowledgmentDate: m.AcknowledgmentDate,
		CompletedAt:        m.CompletedAt,
	}
}

func newPurchaseOrders(rows []models.PurchaseOrder) []PurchaseOrder {
	out := make([]PurchaseOrder, 0, len(rows))
	for i := range rows {
		out = append(out, newPurchaseOrder(&rows[i]))
	}
	return out
}
