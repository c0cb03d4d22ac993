package vendors

import (
	"net/http"

	"github.com/angelmondragon/vendorscore-backend/api/responses"
	"github.com/angelmondragon/vendorscore-backend/api/validators"
	"github.com/angelmondragon/vendorscore-backend/internal/performance"
	"github.com/angelmondragon/vendorscore-backend/internal/purchaseorders"
	internalvendors "github.com/angelmondragon/vendorscore-backend/internal/vendors"
	pkgerrors "github.com/angelmondragon/vendorscore-backend/pkg/errors"
	"github.com/angelmondragon/vendorscore-backend/pkg/logger"
)

const (
	idParam        = "vendorID"
	deletedMessage = "Vendor deleted successfully!"
)

type createRequest struct {
	Name         string  `json:"name" validate:"required,max=100"`
	MobileNumber string  `json:"mobile_number" validate:"required,max=20,phone"`
	Address      string  `json:"address" validate:"required"`
	Email        *string `json:"email" validate:"omitempty,email"`
	VendorCode   string  `json:"vendor_code" validate:"omitempty,max=50"`
}

func (r createRequest) toInput() internalvendors.CreateInput {
	return internalvendors.CreateInput{
		Name:         r.Name,
		MobileNumber: r.MobileNumber,
		Address:      r.Address,
		Email:        r.Email,
		VendorCode:   r.VendorCode,
	}
}

type updateRequest struct {
	Name         *string `json:"name" validate:"omitempty,min=1,max=100"`
	MobileNumber *string `json:"mobile_number" validate:"omitempty,max=20,phone"`
	Address      *string `json:"address" validate:"omitempty,min=1"`
	Email        *string `json:"email" validate:"omitempty,email"`
}

func (r updateRequest) toInput() internalvendors.UpdateInput {
	return internalvendors.UpdateInput{
		Name:         r.Name,
		MobileNumber: r.MobileNumber,
		Address:      r.Address,
		Email:        r.Email,
	}
}

func List(svc internalvendors.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "vendor service unavailable"))
			return
		}
		vendors, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, vendors)
	}
}

// Create registers a vendor; the vendor code is allocated when omitted.
func Create(svc internalvendors.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "vendor service unavailable"))
			return
		}

		var payload createRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		vendor, err := svc.Create(r.Context(), payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, vendor)
	}
}

// Get returns one vendor. A missing vendor is a 400 on the vendor detail endpoints.
func Get(svc internalvendors.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseIDParam(r, idParam)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		vendor, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, notFoundAsBadRequest(err))
			return
		}
		responses.WriteSuccess(w, vendor)
	}
}

func Update(svc internalvendors.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseIDParam(r, idParam)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		vendor, err := svc.Update(r.Context(), id, payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, notFoundAsBadRequest(err))
			return
		}
		responses.WriteSuccess(w, vendor)
	}
}

// Delete removes a vendor along with its orders and history.
func Delete(svc internalvendors.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseIDParam(r, idParam)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithVendorID(ctx, id)
		}
		if err := svc.Delete(ctx, id); err != nil {
			responses.WriteError(ctx, logg, w, notFoundAsBadRequest(err))
			return
		}
		if logg != nil {
			logg.Info(ctx, "vendor deleted")
		}
		responses.WriteMessage(w, http.StatusOK, deletedMessage, nil)
	}
}

// Performance returns the vendor's metrics, averaged over its history when any exists.
func Performance(svc performance.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseIDParam(r, idParam)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		summary, err := svc.Summary(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, summary)
	}
}

// History returns the vendor's performance snapshots ordered by date.
func History(svc performance.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseIDParam(r, idParam)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		entries, err := svc.History(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, entries)
	}
}

// PurchaseOrders returns the vendor's orders together with their count.
func PurchaseOrders(svc purchaseorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseIDParam(r, idParam)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		orders, err := svc.ListByVendor(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, orders)
	}
}

func notFoundAsBadRequest(err error) error {
	if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeNotFound {
		return typed.WithStatus(http.StatusBadRequest)
	}
	return err
}
