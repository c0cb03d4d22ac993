package sequences

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/angelmondragon/vendorscore-backend/pkg/db/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Counter names.
const (
	PurchaseOrder = "purchase_order"
	Vendor        = "vendor"
)

const (
	purchaseOrderFormat = "PO-%03d"
	vendorCodeFormat    = "VN%03d"
)

// SeedFunc returns the value a counter starts from the first time it is used, so
// identifiers continue from data written before the counter existed.
type SeedFunc func(ctx context.Context, tx *gorm.DB) (int64, error)

// Allocator hands out monotonically increasing values for a named counter. tx is the
// transaction the allocated identifier will be written in.
type Allocator interface {
	Next(ctx context.Context, tx *gorm.DB, name string, seed SeedFunc) (int64, error)
	// AdvanceTo raises the counter to at least floor after a caller-supplied
	// identifier is written, so later allocations continue past it.
	AdvanceTo(ctx context.Context, tx *gorm.DB, name string, floor int64, seed SeedFunc) error
}

// FormatPONumber renders a purchase order number.
func FormatPONumber(n int64) string {
	return fmt.Sprintf(purchaseOrderFormat, n)
}

// FormatVendorCode renders a vendor code.
func FormatVendorCode(n int64) string {
	return fmt.Sprintf(vendorCodeFormat, n)
}

// DBAllocator keeps counters in the identifier_sequences table. The increment runs
// inside the caller's transaction: the row lock serializes concurrent allocators and
// a rollback returns the value.
type DBAllocator struct {
	now func() time.Time
}

func NewDBAllocator() *DBAllocator {
	return &DBAllocator{now: time.Now}
}

func (a *DBAllocator) Next(ctx context.Context, tx *gorm.DB, name string, seed SeedFunc) (int64, error) {
	if tx == nil {
		return 0, errors.New("sequences: transaction required")
	}
	db := tx.WithContext(ctx)
	if err := a.ensure(ctx, tx, name, seed); err != nil {
		return 0, err
	}

	res := db.Model(&models.IdentifierSequence{}).
		Where("name = ?", name).
		UpdateColumns(map[string]any{
			"value":      gorm.Expr("value + 1"),
			"updated_at": a.now().UTC(),
		})
	if res.Error != nil {
		return 0, fmt.Errorf("advance %s sequence: %w", name, res.Error)
	}
	if res.RowsAffected != 1 {
		return 0, fmt.Errorf("advance %s sequence: %d rows updated", name, res.RowsAffected)
	}

	var current models.IdentifierSequence
	if err := db.Where("name = ?", name).Take(&current).Error; err != nil {
		return 0, fmt.Errorf("read %s sequence: %w", name, err)
	}
	return current.Value, nil
}

func (a *DBAllocator) AdvanceTo(ctx context.Context, tx *gorm.DB, name string, floor int64, seed SeedFunc) error {
	if tx == nil {
		return errors.New("sequences: transaction required")
	}
	if err := a.ensure(ctx, tx, name, seed); err != nil {
		return err
	}
	err := tx.WithContext(ctx).
		Model(&models.IdentifierSequence{}).
		Where("name = ? AND value < ?", name, floor).
		UpdateColumns(map[string]any{
			"value":      floor,
			"updated_at": a.now().UTC(),
		}).Error
	if err != nil {
		return fmt.Errorf("raise %s sequence: %w", name, err)
	}
	return nil
}

// ensure creates the counter row on first use, starting from seed.
func (a *DBAllocator) ensure(ctx context.Context, tx *gorm.DB, name string, seed SeedFunc) error {
	db := tx.WithContext(ctx)
	var existing models.IdentifierSequence
	err := db.Where("name = ?", name).Take(&existing).Error
	switch {
	case err == nil:
		return nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("load %s sequence: %w", name, err)
	}

	start := int64(0)
	if seed != nil {
		if start, err = seed(ctx, tx); err != nil {
			return fmt.Errorf("seed %s sequence: %w", name, err)
		}
	}
	row := models.IdentifierSequence{Name: name, Value: start}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error; err != nil {
		return fmt.Errorf("create %s sequence: %w", name, err)
	}
	return nil
}

// SeedFromLastPONumber continues numbering from the numeric suffix of the most
// recently inserted purchase order. Unparseable numbers fall back to the row count.
func SeedFromLastPONumber(ctx context.Context, tx *gorm.DB) (int64, error) {
	var last models.PurchaseOrder
	err := tx.WithContext(ctx).Order("id DESC").Take(&last).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	if n, ok := ParsePONumber(last.PONumber); ok {
		return n, nil
	}
	var count int64
	if err := tx.WithContext(ctx).Model(&models.PurchaseOrder{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// SeedFromVendorCount continues vendor codes from the number of existing vendors.
func SeedFromVendorCount(ctx context.Context, tx *gorm.DB) (int64, error) {
	var count int64
	if err := tx.WithContext(ctx).Model(&models.Vendor{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ParsePONumber returns the numeric suffix after the last dash, e.g. 42 for PO-042.
func ParsePONumber(poNumber string) (int64, bool) {
	idx := strings.LastIndex(poNumber, "-")
	if idx < 0 || idx == len(poNumber)-1 {
		return 0, false
	}
	return parseCounter(poNumber[idx+1:])
}

// ParseVendorCode returns the number in a VN-prefixed code, e.g. 7 for VN007.
func ParseVendorCode(code string) (int64, bool) {
	digits, ok := strings.CutPrefix(code, "VN")
	if !ok || digits == "" {
		return 0, false
	}
	return parseCounter(digits)
}

func parseCounter(digits string) (int64, bool) {
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
