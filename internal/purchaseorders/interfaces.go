package purchaseorders

import (
	"context"

	"github.com/angelmondragon/vendorscore-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository defines persistence operations for purchase orders.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, order *models.PurchaseOrder) error
	Save(ctx context.Context, order *models.PurchaseOrder) error
	FindByID(ctx context.Context, id int64) (*models.PurchaseOrder, error)
	List(ctx context.Context) ([]models.PurchaseOrder, error)
	ListByVendor(ctx context.Context, vendorID int64) ([]models.PurchaseOrder, error)
	Delete(ctx context.Context, id int64) (int64, error)
	DeleteByVendor(ctx context.Context, vendorID int64) error
	VendorExists(ctx context.Context, vendorID int64) (bool, error)
}
