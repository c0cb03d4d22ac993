package performance

import (
	"context"
	"errors"

	"github.com/angelmondragon/vendorscore-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/vendorscore-backend/pkg/errors"
	"gorm.io/gorm"
)

// Service exposes read-side performance queries.
type Service interface {
	Summary(ctx context.Context, vendorID int64) (*Metrics, error)
	History(ctx context.Context, vendorID int64) ([]HistoryEntry, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, errors.New("performance repository required")
	}
	return &service{repo: repo}, nil
}

// Summary averages the vendor's history when any exists, else returns the stored
// metrics. It does not write back.
func (s *service) Summary(ctx context.Context, vendorID int64) (*Metrics, error) {
	vendor, err := s.findVendor(ctx, vendorID)
	if err != nil {
		return nil, err
	}
	avg, count, err := s.repo.AverageSnapshots(ctx, vendorID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "average performance history")
	}
	if count > 0 {
		return avg, nil
	}
	m := MetricsFromVendor(vendor)
	return &m, nil
}

func (s *service) History(ctx context.Context, vendorID int64) ([]HistoryEntry, error) {
	if _, err := s.findVendor(ctx, vendorID); err != nil {
		return nil, err
	}
	rows, err := s.repo.ListSnapshots(ctx, vendorID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list performance history")
	}
	out := make([]HistoryEntry, 0, len(rows))
	for _, row := range rows {
		out = append(out, newHistoryEntry(row))
	}
	return out, nil
}

func (s *service) findVendor(ctx context.Context, vendorID int64) (*models.Vendor, error) {
	vendor, err := s.repo.FindVendor(ctx, vendorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Vendor not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load vendor")
	}
	return vendor, nil
}
