package purchaseorders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/vendorscore-backend/internal/performance"
	"github.com/angelmondragon/vendorscore-backend/internal/sequences"
	"github.com/angelmondragon/vendorscore-backend/pkg/db"
	"github.com/angelmondragon/vendorscore-backend/pkg/db/models"
	"github.com/angelmondragon/vendorscore-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/vendorscore-backend/pkg/errors"
	"github.com/angelmondragon/vendorscore-backend/pkg/metrics"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	MsgOrderNotFound  = "Purchase order not found"
	MsgVendorNotFound = "Vendor not found"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service defines purchase order CRUD and lifecycle transitions. Every create or
// update runs the save hook once after its transaction commits.
type Service interface {
	List(ctx context.Context) ([]PurchaseOrder, error)
	Get(ctx context.Context, id int64) (*PurchaseOrder, error)
	Create(ctx context.Context, input CreateInput) (*PurchaseOrder, error)
	Update(ctx context.Context, id int64, input UpdateInput) (*PurchaseOrder, error)
	Delete(ctx context.Context, id int64) error
	Acknowledge(ctx context.Context, id int64) (*PurchaseOrder, error)
	Complete(ctx context.Context, id int64, rating *float64) (*PurchaseOrder, error)
	Cancel(ctx context.Context, id int64) (*PurchaseOrder, error)
	ListByVendor(ctx context.Context, vendorID int64) (*VendorOrders, error)
}

// ServiceParams groups the purchase order service dependencies.
type ServiceParams struct {
	Repo      Repository
	Tx        txRunner
	Allocator sequences.Allocator
	Hook      performance.SaveHook
	Metrics   *metrics.PerformanceMetrics
	Now       func() time.Time
}

type service struct {
	repo      Repository
	tx        txRunner
	allocator sequences.Allocator
	hook      performance.SaveHook
	metrics   *metrics.PerformanceMetrics
	now       func() time.Time
}

// NewService builds a purchase order service with the required dependencies.
func NewService(p ServiceParams) (Service, error) {
	if p.Repo == nil {
		return nil, fmt.Errorf("purchase order repository required")
	}
	if p.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if p.Allocator == nil {
		return nil, fmt.Errorf("sequence allocator required")
	}
	if p.Hook == nil {
		return nil, fmt.Errorf("save hook required")
	}
	now := p.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		repo:      p.Repo,
		tx:        p.Tx,
		allocator: p.Allocator,
		hook:      p.Hook,
		metrics:   p.Metrics,
		now:       now,
	}, nil
}

func (s *service) List(ctx context.Context) ([]PurchaseOrder, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list purchase orders")
	}
	return newPurchaseOrders(rows), nil
}

func (s *service) Get(ctx context.Context, id int64) (*PurchaseOrder, error) {
	order, err := s.find(ctx, s.repo, id)
	if err != nil {
		return nil, err
	}
	out := newPurchaseOrder(order)
	return &out, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*PurchaseOrder, error) {
	status := input.Status
	if status == "" {
		status = enums.PurchaseOrderStatusPending
	}
	if !status.IsValid() {
		return nil, invalidField("status", fmt.Sprintf("%q is not a valid choice.", status))
	}

	order := &models.PurchaseOrder{
		PONumber:           strings.TrimSpace(input.PONumber),
		VendorID:           input.Vendor,
		OrderDate:          input.OrderDate.UTC(),
		DeliveryDate:       input.DeliveryDate.UTC(),
		Items:              datatypes.JSON(input.Items),
		Quantity:           input.Quantity,
		Status:             status,
		QualityRating:      input.QualityRating,
		IssueDate:          s.now().UTC(),
		AcknowledgmentDate: utcPtr(input.AcknowledgmentDate),
		CompletedAt:        utcPtr(input.CompletedAt),
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := s.ensureVendor(ctx, repo, order.VendorID); err != nil {
			return err
		}
		explicit := order.PONumber != ""
		if !explicit {
			n, err := s.allocator.Next(ctx, tx, sequences.PurchaseOrder, sequences.SeedFromLastPONumber)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "allocate po number")
			}
			order.PONumber = sequences.FormatPONumber(n)
		}
		if err := repo.Create(ctx, order); err != nil {
			if db.IsUniqueViolation(err, "") {
				return invalidField("po_number", "purchase order with this po number already exists.")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create purchase order")
		}
		if n, ok := sequences.ParsePONumber(order.PONumber); explicit && ok {
			if err := s.allocator.AdvanceTo(ctx, tx, sequences.PurchaseOrder, n, sequences.SeedFromLastPONumber); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "advance po number sequence")
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.afterSave(ctx, order, true)
}

// Update applies a partial update without lifecycle guards; it is the
// administrative path and may set status and timestamps directly. An empty
// update returns the stored order without a write, so it fires no hook.
func (s *service) Update(ctx context.Context, id int64, input UpdateInput) (*PurchaseOrder, error) {
	if input.Status != nil && !input.Status.IsValid() {
		return nil, invalidField("status", fmt.Sprintf("%q is not a valid choice.", *input.Status))
	}
	if input.IsEmpty() {
		return s.Get(ctx, id)
	}

	var order *models.PurchaseOrder
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		var err error
		order, err = s.find(ctx, repo, id)
		if err != nil {
			return err
		}
		if input.Vendor != nil && *input.Vendor != order.VendorID {
			if err := s.ensureVendor(ctx, repo, *input.Vendor); err != nil {
				return err
			}
		}
		applyUpdate(order, input)
		if err := repo.Save(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update purchase order")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.afterSave(ctx, order, false)
}

func (s *service) Delete(ctx context.Context, id int64) error {
	rows, err := s.repo.Delete(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete purchase order")
	}
	if rows == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, MsgOrderNotFound)
	}
	return nil
}

func (s *service) Acknowledge(ctx context.Context, id int64) (*PurchaseOrder, error) {
	return s.transition(ctx, id, func(o *models.PurchaseOrder, now time.Time) error {
		return acknowledge(o, now)
	})
}

func (s *service) Complete(ctx context.Context, id int64, rating *float64) (*PurchaseOrder, error) {
	return s.transition(ctx, id, func(o *models.PurchaseOrder, now time.Time) error {
		return complete(o, rating, now)
	})
}

func (s *service) Cancel(ctx context.Context, id int64) (*PurchaseOrder, error) {
	return s.transition(ctx, id, func(o *models.PurchaseOrder, now time.Time) error {
		return cancel(o, now)
	})
}

func (s *service) ListByVendor(ctx context.Context, vendorID int64) (*VendorOrders, error) {
	exists, err := s.repo.VendorExists(ctx, vendorID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load vendor")
	}
	if !exists {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, MsgVendorNotFound)
	}
	rows, err := s.repo.ListByVendor(ctx, vendorID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list vendor purchase orders")
	}
	orders := newPurchaseOrders(rows)
	return &VendorOrders{Count: len(orders), Orders: orders}, nil
}

func (s *service) transition(ctx context.Context, id int64, apply func(o *models.PurchaseOrder, now time.Time) error) (*PurchaseOrder, error) {
	var order *models.PurchaseOrder
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		var err error
		order, err = s.find(ctx, repo, id)
		if err != nil {
			return err
		}
		if err := apply(order, s.now()); err != nil {
			return err
		}
		if err := repo.Save(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "save purchase order")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.metrics.IncTransition(order.Status.String())
	return s.afterSave(ctx, order, false)
}

func (s *service) afterSave(ctx context.Context, order *models.PurchaseOrder, created bool) (*PurchaseOrder, error) {
	if err := s.hook.OnOrderSaved(ctx, order, created); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "recompute vendor performance")
	}
	out := newPurchaseOrder(order)
	return &out, nil
}

func (s *service) find(ctx context.Context, repo Repository, id int64) (*models.PurchaseOrder, error) {
	order, err := repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, MsgOrderNotFound)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load purchase order")
	}
	return order, nil
}

func (s *service) ensureVendor(ctx context.Context, repo Repository, vendorID int64) error {
	exists, err := repo.VendorExists(ctx, vendorID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load vendor")
	}
	if !exists {
		return invalidField("vendor", fmt.Sprintf("Invalid pk %q - object does not exist.", fmt.Sprint(vendorID)))
	}
	return nil
}

func applyUpdate(o *models.PurchaseOrder, in UpdateInput) {
	if in.Vendor != nil {
		o.VendorID = *in.Vendor
	}
	if in.OrderDate != nil {
		o.OrderDate = in.OrderDate.UTC()
	}
	if in.DeliveryDate != nil {
		o.DeliveryDate = in.DeliveryDate.UTC()
	}
	if len(in.Items) > 0 {
		o.Items = datatypes.JSON(in.Items)
	}
	if in.Quantity != nil {
		o.Quantity = *in.Quantity
	}
	if in.Status != nil {
		o.Status = *in.Status
	}
	switch {
	case in.ClearQualityRating:
		o.QualityRating = nil
	case in.QualityRating != nil:
		r := *in.QualityRating
		o.QualityRating = &r
	}
	if in.AcknowledgmentDate != nil {
		o.AcknowledgmentDate = utcPtr(in.AcknowledgmentDate)
	}
	if in.CompletedAt != nil {
		o.CompletedAt = utcPtr(in.CompletedAt)
	}
}

func invalidField(field, msg string) error {
	return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
		WithDetails(map[string]string{field: msg})
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}
