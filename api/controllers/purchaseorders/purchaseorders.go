package purchaseorders

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/angelmondragon/vendorscore-backend/api/responses"
	"github.com/angelmondragon/vendorscore-backend/api/validators"
	internalpos "github.com/angelmondragon/vendorscore-backend/internal/purchaseorders"
	"github.com/angelmondragon/vendorscore-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/vendorscore-backend/pkg/errors"
	"github.com/angelmondragon/vendorscore-backend/pkg/logger"
)

const (
	idParam        = "poID"
	createdMessage = "Created Successfully!"
)

type createRequest struct {
	PONumber           string                     `json:"po_number" validate:"omitempty,max=50"`
	Vendor             *int64                     `json:"vendor" validate:"required"`
	OrderDate          *time.Time                 `json:"order_date" validate:"required"`
	DeliveryDate       *time.Time                 `json:"delivery_date" validate:"required"`
	Items              json.RawMessage            `json:"items" validate:"required"`
	Quantity           *int                       `json:"quantity" validate:"required,gte=0"`
	Status             *enums.PurchaseOrderStatus `json:"status" validate:"omitempty,oneof=pending acknowledged completed cancelled"`
	QualityRating      *float64                   `json:"quality_rating"`
	AcknowledgmentDate *time.Time                 `json:"acknowledgment_date"`
	CompletedAt        *time.Time                 `json:"completed_at"`
}

func (r createRequest) toInput() internalpos.CreateInput {
	in := internalpos.CreateInput{
		PONumber:           r.PONumber,
		Vendor:             *r.Vendor,
		OrderDate:          *r.OrderDate,
		DeliveryDate:       *r.DeliveryDate,
		Items:              r.Items,
		Quantity:           *r.Quantity,
		QualityRating:      r.QualityRating,
		AcknowledgmentDate: r.AcknowledgmentDate,
		CompletedAt:        r.CompletedAt,
	}
	if r.Status != nil {
		in.Status = *r.Status
	}
	return in
}

type updateRequest struct {
	Vendor             *int64                     `json:"vendor"`
	OrderDate          *time.Time                 `json:"order_date"`
	DeliveryDate       *time.Time                 `json:"delivery_date"`
	Items              json.RawMessage            `json:"items"`
	Quantity           *int                       `json:"quantity" validate:"omitempty,gte=0"`
	Status             *enums.PurchaseOrderStatus `json:"status" validate:"omitempty,oneof=pending acknowledged completed cancelled"`
	QualityRating      nullableFloat              `json:"quality_rating"`
	AcknowledgmentDate *time.Time                 `json:"acknowledgment_date"`
	CompletedAt        *time.Time                 `json:"completed_at"`
}

func (r updateRequest) toInput() internalpos.UpdateInput {
	return internalpos.UpdateInput{
		Vendor:             r.Vendor,
		OrderDate:          r.OrderDate,
		DeliveryDate:       r.DeliveryDate,
		Items:              r.Items,
		Quantity:           r.Quantity,
		Status:             r.Status,
		QualityRating:      r.QualityRating.Value,
		ClearQualityRating: r.QualityRating.Set && r.QualityRating.Value == nil,
		AcknowledgmentDate: r.AcknowledgmentDate,
		CompletedAt:        r.CompletedAt,
	}
}

// nullableFloat tells an absent field apart from an explicit null.
type nullableFloat struct {
	Set   bool
	Value *float64
}

func (n *nullableFloat) UnmarshalJSON(b []byte) error {
	n.Set = true
	if string(b) == "null" {
		n.Value = nil
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	n.Value = &v
	return nil
}

type completeRequest struct {
	QualityRating *float64 `json:"quality_rating"`
}

// List returns every purchase order.
func List(svc internalpos.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "purchase order service unavailable"))
			return
		}
		orders, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, orders)
	}
}

// Create registers a purchase order and allocates its number when none is given.
func Create(svc internalpos.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "purchase order service unavailable"))
			return
		}

		var payload createRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := validateItems(payload.Items); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Create(r.Context(), payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteMessage(w, http.StatusCreated, createdMessage, order)
	}
}

func Get(svc internalpos.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseIDParam(r, idParam)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		order, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// Update applies a partial update. Lifecycle guards do not apply here.
func Update(svc internalpos.Service, logg *logger.Logger) http.HandlerFunc {
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
		if len(payload.Items) > 0 {
			if err := validateItems(payload.Items); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}

		order, err := svc.Update(r.Context(), id, payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

func Delete(svc internalpos.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseIDParam(r, idParam)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}

func Acknowledge(svc internalpos.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseIDParam(r, idParam)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithOrderID(ctx, id)
		}
		order, err := svc.Acknowledge(ctx, id)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// Complete closes an acknowledged order, optionally recording its quality rating.
// Missing orders are reported as 400 on this endpoint.
func Complete(svc internalpos.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseIDParam(r, idParam)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithOrderID(ctx, id)
		}

		var payload completeRequest
		if err := validators.DecodeOptionalJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		order, err := svc.Complete(ctx, id, payload.QualityRating)
		if err != nil {
			responses.WriteError(ctx, logg, w, notFoundAsBadRequest(err))
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// Cancel closes an acknowledged order without completing it. Missing orders are
// reported as 400 on this endpoint.
func Cancel(svc internalpos.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseIDParam(r, idParam)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithOrderID(ctx, id)
		}
		order, err := svc.Cancel(ctx, id)
		if err != nil {
			responses.WriteError(ctx, logg, w, notFoundAsBadRequest(err))
			return
		}
		responses.WriteSuccess(w, order)
	}
}

func notFoundAsBadRequest(err error) error {
	if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeNotFound {
		return typed.WithStatus(http.StatusBadRequest)
	}
	return err
}

func validateItems(raw json.RawMessage) error {
	if !json.Valid(raw) || string(raw) == "null" {
		return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
			WithDetails(map[string]string{"items": "must be a JSON value"})
	}
	return nil
}
