package models

import (
	"time"

	"github.com/angelmondragon/vendorscore-backend/pkg/enums"
	"gorm.io/datatypes"
)

// PurchaseOrder is a single order issued to a vendor.
type PurchaseOrder struct {
	ID                 int64                     `gorm:"column:id;primaryKey;autoIncrement"`
	PONumber           string                    `gorm:"column:po_number;not null;uniqueIndex"`
	VendorID           int64                     `gorm:"column:vendor_id;not null;index"`
	OrderDate          time.Time                 `gorm:"column:order_date;not null"`
	DeliveryDate       time.Time                 `gorm:"column:delivery_date;not null"`
	Items              datatypes.JSON            `gorm:"column:items;type:json;not null"`
	Quantity           int                       `gorm:"column:quantity;not null"`
	Status             enums.PurchaseOrderStatus `gorm:"column:status;type:text;not null;default:'pending'"`
	QualityRating      *float64                  `gorm:"column:quality_rating"`
	IssueDate          time.Time                 `gorm:"column:issue_date;not null"`
	AcknowledgmentDate *time.Time                `gorm:"column:acknowledgment_date"`
	CompletedAt        *time.Time                `gorm:"column:completed_at"`
	Vendor             *Vendor                   `gorm:"foreignKey:VendorID;constraint:OnDelete:CASCADE"`
	UpdatedAt          time.Time                 `gorm:"column:updated_at;autoUpdateTime"`
}
