package vendors

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/angelmondragon/vendorscore-backend/internal/sequences"
	"github.com/angelmondragon/vendorscore-backend/pkg/db"
	"github.com/angelmondragon/vendorscore-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/vendorscore-backend/pkg/errors"
	"gorm.io/gorm"
)

const MsgVendorNotFound = "Vendor doesn't exist!"

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service defines vendor registration and maintenance.
type Service interface {
	List(ctx context.Context) ([]Vendor, error)
	Get(ctx context.Context, id int64) (*Vendor, error)
	Create(ctx context.Context, input CreateInput) (*Vendor, error)
	Update(ctx context.Context, id int64, input UpdateInput) (*Vendor, error)
	Delete(ctx context.Context, id int64) error
}

// ServiceParams groups the vendor service dependencies. Cascade runs in order
// before the vendor row is removed.
type ServiceParams struct {
	Repo      Repository
	Tx        txRunner
	Allocator sequences.Allocator
	Cascade   []CascadeFunc
}

type service struct {
	repo      Repository
	tx        txRunner
	allocator sequences.Allocator
	cascade   []CascadeFunc
}

// NewService builds a vendor service with the required dependencies.
func NewService(p ServiceParams) (Service, error) {
	if p.Repo == nil {
		return nil, fmt.Errorf("vendor repository required")
	}
	if p.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if p.Allocator == nil {
		return nil, fmt.Errorf("sequence allocator required")
	}
	return &service{repo: p.Repo, tx: p.Tx, allocator: p.Allocator, cascade: p.Cascade}, nil
}

func (s *service) List(ctx context.Context) ([]Vendor, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list vendors")
	}
	return newVendors(rows), nil
}

func (s *service) Get(ctx context.Context, id int64) (*Vendor, error) {
	vendor, err := s.find(ctx, s.repo, id)
	if err != nil {
		return nil, err
	}
	out := newVendor(vendor)
	return &out, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*Vendor, error) {
	vendor := &models.Vendor{
		Name:         strings.TrimSpace(input.Name),
		MobileNumber: strings.TrimSpace(input.MobileNumber),
		Address:      strings.TrimSpace(input.Address),
		Email:        input.Email,
		VendorCode:   strings.TrimSpace(input.VendorCode),
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		explicit := vendor.VendorCode != ""
		if !explicit {
			n, err := s.allocator.Next(ctx, tx, sequences.Vendor, sequences.SeedFromVendorCount)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "allocate vendor code")
			}
			vendor.VendorCode = sequences.FormatVendorCode(n)
		}
		if err := s.repo.WithTx(tx).Create(ctx, vendor); err != nil {
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
					WithDetails(map[string]string{"vendor_code": "vendor with this vendor code already exists."})
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create vendor")
		}
		if n, ok := sequences.ParseVendorCode(vendor.VendorCode); explicit && ok {
			if err := s.allocator.AdvanceTo(ctx, tx, sequences.Vendor, n, sequences.SeedFromVendorCount); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "advance vendor code sequence")
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	out := newVendor(vendor)
	return &out, nil
}

func (s *service) Update(ctx context.Context, id int64, input UpdateInput) (*Vendor, error) {
	var vendor *models.Vendor
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		var err error
		vendor, err = s.find(ctx, repo, id)
		if err != nil {
			return err
		}
		if input.Name != nil {
			vendor.Name = strings.TrimSpace(*input.Name)
		}
		if input.MobileNumber != nil {
			vendor.MobileNumber = strings.TrimSpace(*input.MobileNumber)
		}
		if input.Address != nil {
			vendor.Address = strings.TrimSpace(*input.Address)
		}
		if input.Email != nil {
			email := strings.TrimSpace(*input.Email)
			vendor.Email = &email
		}
		if err := repo.Save(ctx, vendor); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update vendor")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	out := newVendor(vendor)
	return &out, nil
}

// Delete removes the vendor together with its history and orders in one transaction.
func (s *service) Delete(ctx context.Context, id int64) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := s.find(ctx, repo, id); err != nil {
			return err
		}
		for _, fn := range s.cascade {
			if err := fn(ctx, tx, id); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete vendor dependents")
			}
		}
		if _, err := repo.Delete(ctx, id); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete vendor")
		}
		return nil
	})
}

func (s *service) find(ctx context.Context, repo Repository, id int64) (*models.Vendor, error) {
	vendor, err := repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, MsgVendorNotFound)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load vendor")
	}
	return vendor, nil
}
