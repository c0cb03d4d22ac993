package vendors

import (
	"context"

	"github.com/angelmondragon/vendorscore-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository defines persistence operations for vendors.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, vendor *models.Vendor) error
	Save(ctx context.Context, vendor *models.Vendor) error
	FindByID(ctx context.Context, id int64) (*models.Vendor, error)
	List(ctx context.Context) ([]models.Vendor, error)
	Delete(ctx context.Context, id int64) (int64, error)
}

// CascadeFunc removes rows owned by a vendor inside the delete transaction.
type CascadeFunc func(ctx context.Context, tx *gorm.DB, vendorID int64) error
