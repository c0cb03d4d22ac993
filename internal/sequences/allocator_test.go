package sequences

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/angelmondragon/vendorscore-backend/internal/testutil"
	"github.com/angelmondragon/vendorscore-backend/pkg/db/models"
	"github.com/angelmondragon/vendorscore-backend/pkg/enums"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func TestFormatters(t *testing.T) {
	assert.Equal(t, "PO-001", FormatPONumber(1))
	assert.Equal(t, "PO-1234", FormatPONumber(1234))
	assert.Equal(t, "VN007", FormatVendorCode(7))
}

func TestParseIdentifiers(t *testing.T) {
	n, ok := ParsePONumber("PO-042")
	require.True(t, ok)
	assert.EqualValues(t, 42, n)
	for _, raw := range []string{"PO042", "PO-", "PO-abc", "custom"} {
		_, ok := ParsePONumber(raw)
		assert.False(t, ok, raw)
	}

	n, ok = ParseVendorCode("VN007")
	require.True(t, ok)
	assert.EqualValues(t, 7, n)
	for _, raw := range []string{"VN", "ACME", "vn001", "VNx1"} {
		_, ok := ParseVendorCode(raw)
		assert.False(t, ok, raw)
	}
}

func TestDBAllocatorStartsFromSeed(t *testing.T) {
	client := testutil.NewDB(t)
	alloc := NewDBAllocator()
	ctx := context.Background()

	var got []int64
	for i := 0; i < 3; i++ {
		err := client.WithTx(ctx, func(tx *gorm.DB) error {
			n, err := alloc.Next(ctx, tx, Vendor, SeedFromVendorCount)
			got = append(got, n)
			return err
		})
		require.NoError(t, err)
	}
	assert.Equal(t, []int64{1, 2, 3}, got)
}

func TestDBAllocatorRollbackReturnsValue(t *testing.T) {
	client := testutil.NewDB(t)
	alloc := NewDBAllocator()
	ctx := context.Background()

	require.NoError(t, client.WithTx(ctx, func(tx *gorm.DB) error {
		_, err := alloc.Next(ctx, tx, PurchaseOrder, nil)
		return err
	}))

	boom := errors.New("insert failed")
	err := client.WithTx(ctx, func(tx *gorm.DB) error {
		n, err := alloc.Next(ctx, tx, PurchaseOrder, nil)
		require.NoError(t, err)
		assert.EqualValues(t, 2, n)
		return boom
	})
	require.ErrorIs(t, err, boom)

	require.NoError(t, client.WithTx(ctx, func(tx *gorm.DB) error {
		n, err := alloc.Next(ctx, tx, PurchaseOrder, nil)
		assert.EqualValues(t, 2, n)
		return err
	}))
}

func TestDBAllocatorAdvanceToNeverLowers(t *testing.T) {
	client := testutil.NewDB(t)
	alloc := NewDBAllocator()
	ctx := context.Background()

	next := func() int64 {
		var n int64
		require.NoError(t, client.WithTx(ctx, func(tx *gorm.DB) error {
			var err error
			n, err = alloc.Next(ctx, tx, Vendor, nil)
			return err
		}))
		return n
	}
	advance := func(floor int64) {
		require.NoError(t, client.WithTx(ctx, func(tx *gorm.DB) error {
			return alloc.AdvanceTo(ctx, tx, Vendor, floor, nil)
		}))
	}

	assert.EqualValues(t, 1, next())
	advance(5)
	assert.EqualValues(t, 6, next())
	advance(3)
	assert.EqualValues(t, 7, next())
}

func TestDBAllocatorAdvanceToSeedsMissingCounter(t *testing.T) {
	client := testutil.NewDB(t)
	alloc := NewDBAllocator()
	ctx := context.Background()
	seed := func(context.Context, *gorm.DB) (int64, error) { return 9, nil }

	require.NoError(t, client.WithTx(ctx, func(tx *gorm.DB) error {
		return alloc.AdvanceTo(ctx, tx, PurchaseOrder, 2, seed)
	}))
	require.NoError(t, client.WithTx(ctx, func(tx *gorm.DB) error {
		n, err := alloc.Next(ctx, tx, PurchaseOrder, seed)
		assert.EqualValues(t, 10, n)
		return err
	}))
}

func TestDBAllocatorRequiresTx(t *testing.T) {
	_, err := NewDBAllocator().Next(context.Background(), nil, Vendor, nil)
	require.Error(t, err)
	require.Error(t, NewDBAllocator().AdvanceTo(context.Background(), nil, Vendor, 1, nil))
}

func TestSeedFromLastPONumber(t *testing.T) {
	client := testutil.NewDB(t)
	ctx := context.Background()
	conn := client.DB()

	n, err := SeedFromLastPONumber(ctx, conn)
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)

	vendor := models.Vendor{Name: "Acme", MobileNumber: "5551234567", Address: "1 Main", VendorCode: "VN001"}
	require.NoError(t, conn.Create(&vendor).Error)
	insertOrder(t, conn, vendor.ID, "PO-017")

	n, err = SeedFromLastPONumber(ctx, conn)
	require.NoError(t, err)
	assert.EqualValues(t, 17, n)

	insertOrder(t, conn, vendor.ID, "legacy")
	n, err = SeedFromLastPONumber(ctx, conn)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n, "falls back to row count")
}

func TestSeedFromVendorCount(t *testing.T) {
	client := testutil.NewDB(t)
	conn := client.DB()
	for i := 1; i <= 2; i++ {
		v := models.Vendor{Name: "V", MobileNumber: "5551234567", Address: "x", VendorCode: fmt.Sprintf("LEGACY%d", i)}
		require.NoError(t, conn.Create(&v).Error)
	}
	n, err := SeedFromVendorCount(context.Background(), conn)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
}

func TestRedisAllocatorSeedsOnce(t *testing.T) {
	store := newFakeCounterStore()
	alloc, err := NewRedisAllocator(store)
	require.NoError(t, err)

	seedCalls := 0
	seed := func(context.Context, *gorm.DB) (int64, error) {
		seedCalls++
		return 5, nil
	}

	ctx := context.Background()
	first, err := alloc.Next(ctx, &gorm.DB{}, PurchaseOrder, seed)
	require.NoError(t, err)
	second, err := alloc.Next(ctx, &gorm.DB{}, PurchaseOrder, seed)
	require.NoError(t, err)

	assert.EqualValues(t, 6, first)
	assert.EqualValues(t, 7, second)
	assert.Equal(t, 1, seedCalls)
	assert.Contains(t, store.data, "vs:counter:purchase_order")
}

func TestRedisAllocatorAdvanceTo(t *testing.T) {
	store := newFakeCounterStore()
	alloc, err := NewRedisAllocator(store)
	require.NoError(t, err)
	ctx := context.Background()

	first, err := alloc.Next(ctx, nil, Vendor, nil)
	require.NoError(t, err)
	require.NoError(t, alloc.AdvanceTo(ctx, nil, Vendor, 4, nil))
	require.NoError(t, alloc.AdvanceTo(ctx, nil, Vendor, 2, nil))
	second, err := alloc.Next(ctx, nil, Vendor, nil)
	require.NoError(t, err)

	assert.EqualValues(t, 1, first)
	assert.EqualValues(t, 5, second)
}

func TestRedisAllocatorPropagatesErrors(t *testing.T) {
	store := newFakeCounterStore()
	store.incrErr = errors.New("connection refused")
	alloc, err := NewRedisAllocator(store)
	require.NoError(t, err)

	_, err = alloc.Next(context.Background(), nil, Vendor, nil)
	require.Error(t, err)

	_, err = NewRedisAllocator(nil)
	require.Error(t, err)
}

func insertOrder(t *testing.T, conn *gorm.DB, vendorID int64, poNumber string) {
	t.Helper()
	now := time.Now().UTC()
	order := models.PurchaseOrder{
		PONumber:     poNumber,
		VendorID:     vendorID,
		OrderDate:    now,
		DeliveryDate: now,
		Items:        datatypes.JSON(`[]`),
		Quantity:     1,
		Status:       enums.PurchaseOrderStatusPending,
		IssueDate:    now,
	}
	require.NoError(t, conn.Create(&order).Error)
}

type fakeCounterStore struct {
	mu      sync.Mutex
	data    map[string]int64
	incrErr error
}

func newFakeCounterStore() *fakeCounterStore {
	return &fakeCounterStore{data: map[string]int64{}}
}

func (f *fakeCounterStore) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.data[key]; ok {
		return false, nil
	}
	n, err := strconv.ParseInt(fmt.Sprint(value), 10, 64)
	if err != nil {
		return false, err
	}
	f.data[key] = n
	return true, nil
}

func (f *fakeCounterStore) Incr(_ context.Context, key string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.incrErr != nil {
		return 0, f.incrErr
	}
	f.data[key]++
	return f.data[key], nil
}

func (f *fakeCounterStore) Raise(_ context.Context, key string, floor int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.data[key] < floor {
		f.data[key] = floor
	}
	return f.data[key], nil
}

func (f *fakeCounterStore) CounterKey(name string) string {
	return "vs:counter:" + name
}
